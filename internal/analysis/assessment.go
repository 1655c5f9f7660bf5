// Package analysis computes derived metrics over data fetched from the
// Monarch Money API: the cross-institution financial assessment, the Apple
// account reports, and the Apple Cash migration.
package analysis

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hammem/monarchmoney-go/internal/model"
	"github.com/shopspring/decimal"
)

type AccountMetrics struct {
	TotalAccounts           int                            `json:"total_accounts"`
	AccountTypes            int                            `json:"account_types"`
	TotalAssets             decimal.Decimal                `json:"total_assets"`
	TotalLiabilities        decimal.Decimal                `json:"total_liabilities"`
	NetWorth                decimal.Decimal                `json:"net_worth"`
	AccountDistribution     map[string]int                 `json:"account_distribution"`
	InstitutionDistribution map[string]*InstitutionMetrics `json:"institution_distribution"`
	ManualAccounts          int                            `json:"manual_accounts"`
	SyncedAccounts          int                            `json:"synced_accounts"`
	ActiveAccounts          int                            `json:"active_accounts"`
	InactiveAccounts        int                            `json:"inactive_accounts"`
}

type InstitutionMetrics struct {
	Accounts          int             `json:"accounts"`
	TotalBalance      decimal.Decimal `json:"total_balance"`
	AssetAccounts     int             `json:"asset_accounts"`
	LiabilityAccounts int             `json:"liability_accounts"`
}

// AnalyzeAccounts groups accounts by type and institution and totals assets
// against liabilities. Liability balances count toward TotalLiabilities by
// absolute value regardless of sign.
func AnalyzeAccounts(accounts []model.Account) *AccountMetrics {
	m := &AccountMetrics{
		TotalAccounts:           len(accounts),
		AccountDistribution:     make(map[string]int),
		InstitutionDistribution: make(map[string]*InstitutionMetrics),
	}

	types := make(map[string]struct{})

	for _, account := range accounts {
		balance := account.Balance()
		if account.IsAsset {
			m.TotalAssets = m.TotalAssets.Add(balance)
		} else {
			m.TotalLiabilities = m.TotalLiabilities.Add(balance.Abs())
		}

		types[account.Type.Name] = struct{}{}

		display := account.Type.Display
		if display == "" {
			display = "Unknown"
		}
		m.AccountDistribution[display]++

		institution := account.InstitutionName()
		if institution == "" {
			institution = "Unknown"
		}
		im := m.InstitutionDistribution[institution]
		if im == nil {
			im = &InstitutionMetrics{}
			m.InstitutionDistribution[institution] = im
		}
		im.Accounts++
		im.TotalBalance = im.TotalBalance.Add(balance)
		if account.IsAsset {
			im.AssetAccounts++
		} else {
			im.LiabilityAccounts++
		}

		if account.IsManual {
			m.ManualAccounts++
		} else {
			m.SyncedAccounts++
		}

		if account.DeactivatedAt != nil {
			m.InactiveAccounts++
		} else {
			m.ActiveAccounts++
		}
	}

	m.AccountTypes = len(types)
	m.NetWorth = m.TotalAssets.Sub(m.TotalLiabilities)

	return m
}

type GroupMetrics struct {
	Count   int             `json:"count"`
	Total   decimal.Decimal `json:"total"`
	Average decimal.Decimal `json:"average"`
}

type RankedGroup struct {
	Name string `json:"name"`
	GroupMetrics
}

type DailyVolume struct {
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

type TransactionMetrics struct {
	TotalTransactions        int                      `json:"total_transactions"`
	TotalInflow              decimal.Decimal          `json:"total_inflow"`
	TotalOutflow             decimal.Decimal          `json:"total_outflow"`
	Categories               map[string]*GroupMetrics `json:"categories"`
	Merchants                map[string]*GroupMetrics `json:"merchants"`
	Accounts                 map[string]*GroupMetrics `json:"accounts"`
	DailyVolume              map[string]*DailyVolume  `json:"daily_volume"`
	RecurringTransactions    int                      `json:"recurring_transactions"`
	AverageDailyTransactions decimal.Decimal          `json:"average_daily_transactions"`
	AverageTransactionSize   decimal.Decimal          `json:"average_transaction_size"`
	TopCategories            []RankedGroup            `json:"top_categories"`
	TopMerchants             []RankedGroup            `json:"top_merchants"`
}

// AnalyzeTransactions aggregates a transaction window by category, merchant,
// account and day. days is the length of the analyzed window and only feeds
// the daily-average figure.
func AnalyzeTransactions(transactions []model.Transaction, days int) *TransactionMetrics {
	m := &TransactionMetrics{
		TotalTransactions: len(transactions),
		Categories:        make(map[string]*GroupMetrics),
		Merchants:         make(map[string]*GroupMetrics),
		Accounts:          make(map[string]*GroupMetrics),
		DailyVolume:       make(map[string]*DailyVolume),
	}

	for _, txn := range transactions {
		if txn.Amount.IsPositive() {
			m.TotalInflow = m.TotalInflow.Add(txn.Amount)
		} else {
			m.TotalOutflow = m.TotalOutflow.Add(txn.Amount.Abs())
		}

		accumulate(m.Categories, txn.CategoryName(), txn.Amount)
		accumulate(m.Merchants, txn.MerchantName(), txn.Amount)

		accountName := txn.Account.DisplayName
		if accountName == "" {
			accountName = "Unknown"
		}
		accumulate(m.Accounts, accountName, txn.Amount)

		if txn.Date != "" {
			dv := m.DailyVolume[txn.Date]
			if dv == nil {
				dv = &DailyVolume{}
				m.DailyVolume[txn.Date] = dv
			}
			dv.Count++
			dv.Total = dv.Total.Add(txn.Amount.Abs())
		}

		if txn.IsRecurring {
			m.RecurringTransactions++
		}
	}

	if days > 0 {
		m.AverageDailyTransactions = decimal.NewFromInt(int64(m.TotalTransactions)).
			Div(decimal.NewFromInt(int64(days))).Round(2)
	}
	if m.TotalTransactions > 0 {
		m.AverageTransactionSize = m.TotalInflow.Add(m.TotalOutflow).
			Div(decimal.NewFromInt(int64(m.TotalTransactions))).Round(2)
	}

	m.TopCategories = rank(m.Categories, 10)
	m.TopMerchants = rank(m.Merchants, 10)

	return m
}

func accumulate(groups map[string]*GroupMetrics, name string, amount decimal.Decimal) {
	g := groups[name]
	if g == nil {
		g = &GroupMetrics{}
		groups[name] = g
	}
	g.Count++
	g.Total = g.Total.Add(amount)
	g.Average = g.Total.Div(decimal.NewFromInt(int64(g.Count))).Round(2)
}

// rank orders groups by absolute total, largest first, and keeps the top n.
// Ties break by name so the ordering is stable across runs.
func rank(groups map[string]*GroupMetrics, n int) []RankedGroup {
	ranked := make([]RankedGroup, 0, len(groups))
	for name, g := range groups {
		ranked = append(ranked, RankedGroup{Name: name, GroupMetrics: *g})
	}

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i].Total.Abs(), ranked[j].Total.Abs()
		if !a.Equal(b) {
			return a.GreaterThan(b)
		}
		return ranked[i].Name < ranked[j].Name
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}

	return ranked
}

type Insight struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type Assessment struct {
	ID                 string              `json:"id"`
	GeneratedAt        time.Time           `json:"timestamp"`
	AccountMetrics     *AccountMetrics     `json:"account_metrics"`
	TransactionMetrics *TransactionMetrics `json:"transaction_metrics"`
	Insights           []Insight           `json:"insights"`
}

// NewAssessment combines the account and transaction metrics and derives
// the advisory insights.
func NewAssessment(accounts *AccountMetrics, transactions *TransactionMetrics) *Assessment {
	a := &Assessment{
		ID:                 uuid.NewString(),
		GeneratedAt:        time.Now(),
		AccountMetrics:     accounts,
		TransactionMetrics: transactions,
		Insights:           []Insight{},
	}

	if accounts.ManualAccounts > accounts.SyncedAccounts {
		a.Insights = append(a.Insights, Insight{
			Type:    "warning",
			Message: "High number of manual accounts may indicate opportunity for automation",
		})
	}

	if accounts.InactiveAccounts > 0 {
		a.Insights = append(a.Insights, Insight{
			Type:    "info",
			Message: fmt.Sprintf("Found %d inactive accounts that could be archived", accounts.InactiveAccounts),
		})
	}

	if transactions.TotalTransactions > 0 {
		recurringRatio := decimal.NewFromInt(int64(transactions.RecurringTransactions)).
			Div(decimal.NewFromInt(int64(transactions.TotalTransactions)))
		if recurringRatio.LessThan(decimal.NewFromFloat(0.1)) {
			a.Insights = append(a.Insights, Insight{
				Type:    "warning",
				Message: "Low number of recurring transactions identified - may need review",
			})
		}
	}

	if accounts.TotalLiabilities.IsPositive() && accounts.TotalAssets.IsPositive() {
		debtRatio := accounts.TotalLiabilities.Div(accounts.TotalAssets)
		if debtRatio.GreaterThan(decimal.NewFromFloat(0.5)) {
			a.Insights = append(a.Insights, Insight{
				Type:    "warning",
				Message: "High debt-to-asset ratio detected",
			})
		}
	}

	return a
}

// WriteJSON saves the assessment under dir with a timestamped filename and
// returns the path written.
func (a *Assessment) WriteJSON(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("assessment.WriteJSON: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("assessment_%s.json", a.GeneratedAt.Format("20060102_150405")))

	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return "", fmt.Errorf("assessment.WriteJSON: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("assessment.WriteJSON: %w", err)
	}

	return path, nil
}

// WriteSummary renders the markdown digest of the assessment to path.
func (a *Assessment) WriteSummary(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("assessment.WriteSummary: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("assessment.WriteSummary: %w", err)
	}
	defer f.Close()

	am, tm := a.AccountMetrics, a.TransactionMetrics

	fmt.Fprintf(f, "# Current Financial Summary\n\n")
	fmt.Fprintf(f, "Generated: %s\n\n", a.GeneratedAt.Format("2006-01-02 15:04:05"))

	fmt.Fprintf(f, "## Account Overview\n\n")
	fmt.Fprintf(f, "- Total Accounts: %d\n", am.TotalAccounts)
	fmt.Fprintf(f, "- Active Accounts: %d\n", am.ActiveAccounts)
	fmt.Fprintf(f, "- Total Assets: $%s\n", am.TotalAssets.StringFixed(2))
	fmt.Fprintf(f, "- Total Liabilities: $%s\n", am.TotalLiabilities.StringFixed(2))
	fmt.Fprintf(f, "- Net Worth: $%s\n\n", am.NetWorth.StringFixed(2))

	fmt.Fprintf(f, "## Transaction Analysis\n\n")
	fmt.Fprintf(f, "- Total Transactions: %d\n", tm.TotalTransactions)
	fmt.Fprintf(f, "- Total Inflow: $%s\n", tm.TotalInflow.StringFixed(2))
	fmt.Fprintf(f, "- Total Outflow: $%s\n", tm.TotalOutflow.StringFixed(2))
	fmt.Fprintf(f, "- Average Daily Transactions: %s\n", tm.AverageDailyTransactions.StringFixed(1))
	fmt.Fprintf(f, "- Recurring Transactions: %d\n\n", tm.RecurringTransactions)

	fmt.Fprintf(f, "## Insights\n\n")
	for _, insight := range a.Insights {
		fmt.Fprintf(f, "- [%s] %s\n", strings.ToUpper(insight.Type), insight.Message)
	}

	if err := f.Sync(); err != nil {
		return fmt.Errorf("assessment.WriteSummary: %w", err)
	}

	return nil
}
