package analysis

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hammem/monarchmoney-go/internal/model"
	"github.com/shopspring/decimal"
)

// AppleProviders are the institution names that mark an account as part of
// the Apple financial ecosystem.
var AppleProviders = []string{"Apple Card", "Apple Cash", "Apple Savings"}

// FilterAppleAccounts keeps accounts whose institution name contains one of
// the Apple provider names.
func FilterAppleAccounts(accounts []model.Account) []model.Account {
	var apple []model.Account
	for _, account := range accounts {
		if IsAppleAccount(account) {
			apple = append(apple, account)
		}
	}

	return apple
}

func IsAppleAccount(account model.Account) bool {
	institution := account.InstitutionName()
	for _, provider := range AppleProviders {
		if strings.Contains(institution, provider) {
			return true
		}
	}

	return false
}

// TotalBalance sums the current balances of the given accounts, treating
// null balances as zero.
func TotalBalance(accounts []model.Account) decimal.Decimal {
	total := decimal.Zero
	for _, account := range accounts {
		total = total.Add(account.Balance())
	}

	return total
}

// AccountExport is the per-account summary written by the Apple account
// analysis.
type AccountExport struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Balance     decimal.Decimal `json:"balance"`
	Institution string          `json:"institution"`
	LastUpdated string          `json:"last_updated"`
}

func NewAccountExport(account model.Account) AccountExport {
	return AccountExport{
		ID:          account.ID,
		Name:        account.DisplayName,
		Type:        account.Type.Name,
		Balance:     account.Balance(),
		Institution: account.InstitutionName(),
		LastUpdated: account.DisplayLastUpdatedAt,
	}
}

// TransactionReport aggregates one account's transaction window by category
// and merchant.
type TransactionReport struct {
	AccountID        string                     `json:"account_id"`
	AccountName      string                     `json:"account_name"`
	StartDate        string                     `json:"start_date"`
	EndDate          string                     `json:"end_date"`
	TotalAmount      decimal.Decimal            `json:"total_amount"`
	TransactionCount int                        `json:"transaction_count"`
	Categories       map[string]decimal.Decimal `json:"categories"`
	Merchants        map[string]decimal.Decimal `json:"merchants"`
	Transactions     []model.Transaction        `json:"transactions"`
}

func NewTransactionReport(account model.Account, transactions []model.Transaction, startDate, endDate string) *TransactionReport {
	r := &TransactionReport{
		AccountID:        account.ID,
		AccountName:      account.DisplayName,
		StartDate:        startDate,
		EndDate:          endDate,
		TransactionCount: len(transactions),
		Categories:       make(map[string]decimal.Decimal),
		Merchants:        make(map[string]decimal.Decimal),
		Transactions:     transactions,
	}

	for _, txn := range transactions {
		r.TotalAmount = r.TotalAmount.Add(txn.Amount)
		r.Categories[txn.CategoryName()] = r.Categories[txn.CategoryName()].Add(txn.Amount)
		r.Merchants[txn.MerchantName()] = r.Merchants[txn.MerchantName()].Add(txn.Amount)
	}

	return r
}

// TopGroups returns up to n (name, amount) pairs ordered by absolute amount.
func TopGroups(groups map[string]decimal.Decimal, n int) []RankedGroup {
	asMetrics := make(map[string]*GroupMetrics, len(groups))
	for name, total := range groups {
		asMetrics[name] = &GroupMetrics{Count: 1, Total: total, Average: total}
	}

	return rank(asMetrics, n)
}

// WriteExport serializes v into dir under the account's display name, with
// spaces replaced so the filename is shell-friendly.
func WriteExport(dir string, accountName string, suffix string, v interface{}) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("analysis.WriteExport: %w", err)
	}

	name := strings.ReplaceAll(accountName, " ", "_")
	if name == "" {
		name = "Unknown"
	}
	path := filepath.Join(dir, name+suffix+".json")

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("analysis.WriteExport: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("analysis.WriteExport: %w", err)
	}

	return path, nil
}
