package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/hammem/monarchmoney-go/internal/clients"
	"github.com/hammem/monarchmoney-go/internal/logger"
	"github.com/hammem/monarchmoney-go/internal/model"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CashTransaction is one entry of an Apple Cash export file.
type CashTransaction struct {
	Date       string          `json:"date"`
	Amount     decimal.Decimal `json:"amount"`
	Merchant   string          `json:"merchant"`
	CategoryID string          `json:"category_id"`
	Notes      string          `json:"notes"`
}

type migrationInput struct {
	Transactions []CashTransaction `json:"transactions"`
}

type MigrationResult struct {
	Migrated int `json:"migrated"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
	Total    int `json:"total"`
}

// LoadCashTransactions reads an Apple Cash export file.
func LoadCashTransactions(path string) ([]CashTransaction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("analysis.LoadCashTransactions: %w", err)
	}

	var input migrationInput
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("analysis.LoadCashTransactions: %w", err)
	}

	return input.Transactions, nil
}

// ExistingKeys builds the dedupe set for transactions already present in
// the target account.
func ExistingKeys(transactions []model.Transaction) map[string]struct{} {
	keys := make(map[string]struct{}, len(transactions))
	for _, txn := range transactions {
		merchant := ""
		if txn.Merchant != nil {
			merchant = txn.Merchant.Name
		}
		keys[dedupeKey(txn.Date, txn.Amount, merchant)] = struct{}{}
	}

	return keys
}

func dedupeKey(date string, amount decimal.Decimal, merchant string) string {
	return date + "|" + amount.String() + "|" + merchant
}

// MigrateCashTransactions creates each transaction not already present in
// the account, keyed by (date, amount, merchant). A failed create is
// counted and logged but does not stop the migration.
func MigrateCashTransactions(
	ctx context.Context,
	api clients.MonarchServiceClient,
	accountID string,
	transactions []CashTransaction,
	existing map[string]struct{},
) *MigrationResult {
	result := &MigrationResult{Total: len(transactions)}

	for _, txn := range transactions {
		if _, ok := existing[dedupeKey(txn.Date, txn.Amount, txn.Merchant)]; ok {
			result.Skipped++
			continue
		}

		_, err := api.CreateTransaction(ctx, model.TransactionDraft{
			Date:          txn.Date,
			AccountID:     accountID,
			Amount:        txn.Amount,
			MerchantName:  txn.Merchant,
			CategoryID:    txn.CategoryID,
			Notes:         txn.Notes,
			UpdateBalance: true,
		})
		if err != nil {
			logger.Error("failed to migrate transaction",
				zap.String("date", txn.Date),
				zap.String("merchant", txn.Merchant),
				zap.Error(err),
			)
			result.Failed++
			continue
		}

		result.Migrated++
	}

	return result
}
