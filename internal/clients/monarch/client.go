// Package monarch is a client for the Monarch Money GraphQL API. Every call
// is authenticated with an "Authorization: Token <value>" header; the token
// comes from Login or from a saved session.
package monarch

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hammem/monarchmoney-go/internal/clients"
	"github.com/hammem/monarchmoney-go/internal/config"
	"github.com/hammem/monarchmoney-go/internal/logger"
	"github.com/hammem/monarchmoney-go/internal/model"
	"github.com/machinebox/graphql"
	"github.com/opentracing/opentracing-go"
	"go.uber.org/zap"
)

var _ clients.MonarchServiceClient = (*client)(nil)
var _ clients.AuthServiceClient = (*client)(nil)

const userAgent = "MonarchMoneyAPI (https://github.com/hammem/monarchmoney)"

type client struct {
	gql        *graphql.Client
	httpClient *http.Client
	loginURL   string
	token      string
}

func NewClient(cfg config.APIConfig, token string) *client {
	httpClient := &http.Client{Timeout: cfg.Timeout()}

	return &client{
		gql:        graphql.NewClient(cfg.GraphQLURL(), graphql.WithHTTPClient(httpClient)),
		httpClient: httpClient,
		loginURL:   cfg.LoginURL(),
		token:      token,
	}
}

func (c *client) SetToken(token string) {
	c.token = token
}

func (c *client) Token() string {
	return c.token
}

func (c *client) GetAccounts(ctx context.Context) ([]model.Account, error) {
	var resp struct {
		Accounts []model.Account `json:"accounts"`
	}

	if err := c.run(ctx, "GetAccounts", getAccountsQuery, nil, &resp); err != nil {
		return nil, err
	}

	return resp.Accounts, nil
}

func (c *client) GetTransactions(ctx context.Context, filter model.TransactionFilter) (*model.TransactionList, error) {
	if (filter.StartDate == "") != (filter.EndDate == "") {
		return nil, fmt.Errorf("monarch.GetTransactions: both startDate and endDate must be specified, not just one of them")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	filters := map[string]interface{}{
		"search":     filter.Search,
		"categories": emptyIfNil(filter.CategoryIDs),
		"accounts":   emptyIfNil(filter.AccountIDs),
		"tags":       emptyIfNil(filter.TagIDs),
	}
	if filter.StartDate != "" {
		filters["startDate"] = filter.StartDate
		filters["endDate"] = filter.EndDate
	}

	vars := map[string]interface{}{
		"offset":  filter.Offset,
		"limit":   limit,
		"orderBy": "date",
		"filters": filters,
	}

	var resp struct {
		AllTransactions model.TransactionList `json:"allTransactions"`
	}

	if err := c.run(ctx, "GetTransactionsList", getTransactionsQuery, vars, &resp); err != nil {
		return nil, err
	}

	return &resp.AllTransactions, nil
}

func (c *client) GetTransactionCategories(ctx context.Context) ([]model.Category, error) {
	var resp struct {
		Categories []model.Category `json:"categories"`
	}

	if err := c.run(ctx, "GetCategories", getTransactionCategoriesQuery, nil, &resp); err != nil {
		return nil, err
	}

	return resp.Categories, nil
}

func (c *client) GetSubscriptionDetails(ctx context.Context) (*model.Subscription, error) {
	var resp struct {
		Subscription model.Subscription `json:"subscription"`
	}

	if err := c.run(ctx, "GetSubscriptionDetails", getSubscriptionDetailsQuery, nil, &resp); err != nil {
		return nil, err
	}

	return &resp.Subscription, nil
}

func (c *client) GetBudgets(ctx context.Context) ([]model.Budget, error) {
	var resp struct {
		BudgetData []model.Budget `json:"budgetData"`
	}

	if err := c.run(ctx, "GetBudgets", getBudgetsQuery, nil, &resp); err != nil {
		return nil, err
	}

	return resp.BudgetData, nil
}

func (c *client) GetCashflow(ctx context.Context, startDate string, endDate string) ([]model.CashflowEntry, error) {
	vars := map[string]interface{}{
		"filters": map[string]interface{}{
			"startDate": startDate,
			"endDate":   endDate,
		},
	}

	var resp struct {
		Summary []model.CashflowEntry `json:"summary"`
	}

	if err := c.run(ctx, "GetCashflow", getCashflowQuery, vars, &resp); err != nil {
		return nil, err
	}

	return resp.Summary, nil
}

func (c *client) CreateTransaction(ctx context.Context, draft model.TransactionDraft) (string, error) {
	vars := map[string]interface{}{
		"input": map[string]interface{}{
			"date":                draft.Date,
			"accountId":           draft.AccountID,
			"amount":              draft.Amount.InexactFloat64(),
			"merchantName":        draft.MerchantName,
			"categoryId":          draft.CategoryID,
			"notes":               draft.Notes,
			"shouldUpdateBalance": draft.UpdateBalance,
		},
	}

	var resp struct {
		CreateTransaction struct {
			Errors []struct {
				Message string `json:"message"`
			} `json:"errors"`
			Transaction struct {
				ID string `json:"id"`
			} `json:"transaction"`
		} `json:"createTransaction"`
	}

	if err := c.run(ctx, "CreateTransaction", createTransactionMutation, vars, &resp); err != nil {
		return "", err
	}

	if len(resp.CreateTransaction.Errors) > 0 {
		return "", fmt.Errorf("monarch.CreateTransaction: %s", resp.CreateTransaction.Errors[0].Message)
	}

	return resp.CreateTransaction.Transaction.ID, nil
}

func (c *client) run(ctx context.Context, operation string, query string, vars map[string]interface{}, resp interface{}) error {
	if len(c.token) == 0 {
		return ErrAuthenticationRequired
	}

	span, ctx := opentracing.StartSpanFromContext(ctx, "monarch."+operation)
	defer span.Finish()

	req := graphql.NewRequest(query)
	for key, value := range vars {
		req.Var(key, value)
	}
	c.applyHeaders(req.Header)

	if err := c.gql.Run(ctx, req, resp); err != nil {
		logger.Error("graphql call failed", zap.String("operation", operation), zap.Error(err))

		return fmt.Errorf("monarch.%s: %w", operation, err)
	}

	return nil
}

func (c *client) applyHeaders(h http.Header) {
	h.Set("Accept", "application/json")
	h.Set("Client-Platform", "web")
	h.Set("User-Agent", userAgent)
	if len(c.token) > 0 {
		h.Set("Authorization", "Token "+c.token)
	}
}

func emptyIfNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}

	return ids
}
