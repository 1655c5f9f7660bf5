package analysis

import (
	"os"
	"strings"
	"testing"

	"github.com/hammem/monarchmoney-go/internal/model"
	"github.com/shopspring/decimal"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func balance(t *testing.T, s string) decimal.NullDecimal {
	t.Helper()
	return decimal.NullDecimal{Decimal: dec(t, s), Valid: true}
}

func fixtureAccounts(t *testing.T) []model.Account {
	t.Helper()
	deactivated := "2023-01-01"
	return []model.Account{
		{
			ID: "1", DisplayName: "Checking", IsAsset: true,
			CurrentBalance: balance(t, "1500.00"),
			Type:           model.AccountType{Name: "depository", Display: "Cash"},
			Institution:    &model.Institution{ID: "i1", Name: "Big Bank"},
		},
		{
			ID: "2", DisplayName: "Savings", IsAsset: true,
			CurrentBalance: balance(t, "8500.00"),
			Type:           model.AccountType{Name: "depository", Display: "Cash"},
			Institution:    &model.Institution{ID: "i1", Name: "Big Bank"},
		},
		{
			ID: "3", DisplayName: "Card", IsAsset: false,
			CurrentBalance: balance(t, "-2000.00"),
			Type:           model.AccountType{Name: "credit", Display: "Credit Cards"},
			Institution:    &model.Institution{ID: "i2", Name: "Card Issuer"},
			IsManual:       true,
		},
		{
			ID: "4", DisplayName: "Old Loan", IsAsset: false,
			Type:          model.AccountType{Name: "loan", Display: "Loans"},
			DeactivatedAt: &deactivated,
		},
	}
}

func TestAnalyzeAccounts(t *testing.T) {
	m := AnalyzeAccounts(fixtureAccounts(t))

	if m.TotalAccounts != 4 {
		t.Errorf("TotalAccounts = %d, want 4", m.TotalAccounts)
	}
	if m.AccountTypes != 3 {
		t.Errorf("AccountTypes = %d, want 3", m.AccountTypes)
	}
	if !m.TotalAssets.Equal(dec(t, "10000.00")) {
		t.Errorf("TotalAssets = %s, want 10000.00", m.TotalAssets)
	}
	if !m.TotalLiabilities.Equal(dec(t, "2000.00")) {
		t.Errorf("TotalLiabilities = %s, want 2000.00", m.TotalLiabilities)
	}
	if !m.NetWorth.Equal(dec(t, "8000.00")) {
		t.Errorf("NetWorth = %s, want 8000.00", m.NetWorth)
	}
	if m.AccountDistribution["Cash"] != 2 {
		t.Errorf("Cash distribution = %d, want 2", m.AccountDistribution["Cash"])
	}
	if m.ManualAccounts != 1 || m.SyncedAccounts != 3 {
		t.Errorf("manual/synced = %d/%d, want 1/3", m.ManualAccounts, m.SyncedAccounts)
	}
	if m.ActiveAccounts != 3 || m.InactiveAccounts != 1 {
		t.Errorf("active/inactive = %d/%d, want 3/1", m.ActiveAccounts, m.InactiveAccounts)
	}

	bank := m.InstitutionDistribution["Big Bank"]
	if bank == nil || bank.Accounts != 2 || bank.AssetAccounts != 2 {
		t.Errorf("Big Bank metrics = %+v", bank)
	}
	if bank != nil && !bank.TotalBalance.Equal(dec(t, "10000.00")) {
		t.Errorf("Big Bank balance = %s, want 10000.00", bank.TotalBalance)
	}
	if unknown := m.InstitutionDistribution["Unknown"]; unknown == nil || unknown.Accounts != 1 {
		t.Errorf("accounts without institution should group under Unknown, got %+v", unknown)
	}
}

func fixtureTransactions(t *testing.T) []model.Transaction {
	t.Helper()
	return []model.Transaction{
		{
			ID: "t1", Amount: dec(t, "2500.00"), Date: "2023-10-01", IsRecurring: true,
			Category: &model.Category{ID: "c1", Name: "Paycheck"},
			Merchant: &model.Merchant{ID: "m1", Name: "Employer"},
			Account:  model.TransactionAccount{ID: "1", DisplayName: "Checking"},
		},
		{
			ID: "t2", Amount: dec(t, "-90.00"), Date: "2023-10-02",
			Category: &model.Category{ID: "c2", Name: "Groceries"},
			Merchant: &model.Merchant{ID: "m2", Name: "Store"},
			Account:  model.TransactionAccount{ID: "1", DisplayName: "Checking"},
		},
		{
			ID: "t3", Amount: dec(t, "-60.00"), Date: "2023-10-02",
			Category: &model.Category{ID: "c2", Name: "Groceries"},
			Merchant: &model.Merchant{ID: "m2", Name: "Store"},
			Account:  model.TransactionAccount{ID: "3", DisplayName: "Card"},
		},
		{
			ID: "t4", Amount: dec(t, "-50.00"), Date: "2023-10-05",
			Account: model.TransactionAccount{ID: "3", DisplayName: "Card"},
		},
	}
}

func TestAnalyzeTransactions(t *testing.T) {
	m := AnalyzeTransactions(fixtureTransactions(t), 30)

	if m.TotalTransactions != 4 {
		t.Errorf("TotalTransactions = %d, want 4", m.TotalTransactions)
	}
	if !m.TotalInflow.Equal(dec(t, "2500.00")) {
		t.Errorf("TotalInflow = %s, want 2500.00", m.TotalInflow)
	}
	if !m.TotalOutflow.Equal(dec(t, "200.00")) {
		t.Errorf("TotalOutflow = %s, want 200.00", m.TotalOutflow)
	}
	if m.RecurringTransactions != 1 {
		t.Errorf("RecurringTransactions = %d, want 1", m.RecurringTransactions)
	}

	groceries := m.Categories["Groceries"]
	if groceries == nil || groceries.Count != 2 {
		t.Fatalf("Groceries metrics = %+v", groceries)
	}
	if !groceries.Total.Equal(dec(t, "-150.00")) {
		t.Errorf("Groceries total = %s, want -150.00", groceries.Total)
	}
	if !groceries.Average.Equal(dec(t, "-75.00")) {
		t.Errorf("Groceries average = %s, want -75.00", groceries.Average)
	}

	if uncat := m.Categories["Uncategorized"]; uncat == nil || uncat.Count != 1 {
		t.Errorf("uncategorized transaction should group under Uncategorized, got %+v", uncat)
	}

	day := m.DailyVolume["2023-10-02"]
	if day == nil || day.Count != 2 || !day.Total.Equal(dec(t, "150.00")) {
		t.Errorf("daily volume for 2023-10-02 = %+v", day)
	}

	// 4 transactions over 30 days.
	if !m.AverageDailyTransactions.Equal(dec(t, "0.13")) {
		t.Errorf("AverageDailyTransactions = %s, want 0.13", m.AverageDailyTransactions)
	}
	// (2500 + 200) / 4.
	if !m.AverageTransactionSize.Equal(dec(t, "675.00")) {
		t.Errorf("AverageTransactionSize = %s, want 675.00", m.AverageTransactionSize)
	}

	if len(m.TopCategories) == 0 || m.TopCategories[0].Name != "Paycheck" {
		t.Errorf("TopCategories = %+v, want Paycheck first", m.TopCategories)
	}
}

func TestNewAssessmentInsights(t *testing.T) {
	accounts := &AccountMetrics{
		TotalAssets:      dec(t, "1000"),
		TotalLiabilities: dec(t, "600"),
		ManualAccounts:   3,
		SyncedAccounts:   1,
		InactiveAccounts: 2,
	}
	transactions := &TransactionMetrics{
		TotalTransactions:     100,
		RecurringTransactions: 5,
	}

	a := NewAssessment(accounts, transactions)

	if a.ID == "" {
		t.Error("assessment should carry an ID")
	}

	messages := make([]string, 0, len(a.Insights))
	for _, insight := range a.Insights {
		messages = append(messages, insight.Message)
	}
	joined := strings.Join(messages, "\n")

	for _, want := range []string{
		"manual accounts",
		"2 inactive accounts",
		"recurring transactions",
		"debt-to-asset",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("insights missing %q, got:\n%s", want, joined)
		}
	}
}

func TestNewAssessmentNoInsightsWhenHealthy(t *testing.T) {
	accounts := &AccountMetrics{
		TotalAssets:      dec(t, "1000"),
		TotalLiabilities: dec(t, "100"),
		ManualAccounts:   0,
		SyncedAccounts:   4,
	}
	transactions := &TransactionMetrics{
		TotalTransactions:     100,
		RecurringTransactions: 20,
	}

	a := NewAssessment(accounts, transactions)
	if len(a.Insights) != 0 {
		t.Errorf("expected no insights, got %+v", a.Insights)
	}
}

func TestAssessmentWriters(t *testing.T) {
	dir := t.TempDir()

	a := NewAssessment(
		AnalyzeAccounts(fixtureAccounts(t)),
		AnalyzeTransactions(fixtureTransactions(t), 30),
	)

	jsonPath, err := a.WriteJSON(dir)
	if err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if _, err := os.Stat(jsonPath); err != nil {
		t.Errorf("report file missing: %v", err)
	}

	summaryPath := dir + "/CURRENT_FINANCIAL_SUMMARY.md"
	if err := a.WriteSummary(summaryPath); err != nil {
		t.Fatalf("WriteSummary: %v", err)
	}

	data, err := os.ReadFile(summaryPath)
	if err != nil {
		t.Fatal(err)
	}
	summary := string(data)
	for _, want := range []string{
		"# Current Financial Summary",
		"Net Worth: $8000.00",
		"Total Inflow: $2500.00",
	} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q", want)
		}
	}
}
