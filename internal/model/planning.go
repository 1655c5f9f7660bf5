package model

import "github.com/shopspring/decimal"

type Subscription struct {
	ID                    string `json:"id"`
	PaymentSource         string `json:"paymentSource"`
	ReferralCode          string `json:"referralCode"`
	IsOnFreeTrial         bool   `json:"isOnFreeTrial"`
	HasPremiumEntitlement bool   `json:"hasPremiumEntitlement"`
}

type Budget struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	Spent  decimal.Decimal `json:"spent"`
}

// CashflowEntry is one aggregate bucket of the cashflow report.
type CashflowEntry struct {
	Summary CashflowSummary `json:"summary"`
}

type CashflowSummary struct {
	SumIncome   decimal.Decimal `json:"sumIncome"`
	SumExpense  decimal.Decimal `json:"sumExpense"`
	Savings     decimal.Decimal `json:"savings"`
	SavingsRate decimal.Decimal `json:"savingsRate"`
}
