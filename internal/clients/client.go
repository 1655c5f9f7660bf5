package clients

import (
	"context"

	"github.com/hammem/monarchmoney-go/internal/model"
)

type AuthServiceClient interface {
	Login(ctx context.Context, email string, password string, mfaSecret string) (string, error)
	MultiFactorAuthenticate(ctx context.Context, email string, password string, code string) (string, error)
}

type MonarchServiceClient interface {
	SetToken(token string)
	Token() string

	GetAccounts(ctx context.Context) ([]model.Account, error)
	GetTransactions(ctx context.Context, filter model.TransactionFilter) (*model.TransactionList, error)
	GetTransactionCategories(ctx context.Context) ([]model.Category, error)
	GetSubscriptionDetails(ctx context.Context) (*model.Subscription, error)
	GetBudgets(ctx context.Context) ([]model.Budget, error)
	GetCashflow(ctx context.Context, startDate string, endDate string) ([]model.CashflowEntry, error)
	CreateTransaction(ctx context.Context, draft model.TransactionDraft) (string, error)
}
