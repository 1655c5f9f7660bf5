package root

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hammem/monarchmoney-go/internal/analysis"
	"github.com/hammem/monarchmoney-go/internal/clients"
	"github.com/hammem/monarchmoney-go/internal/clients/monarch"
	"github.com/hammem/monarchmoney-go/internal/config"
	"github.com/hammem/monarchmoney-go/internal/logger"
	"github.com/hammem/monarchmoney-go/internal/model"
	"github.com/hammem/monarchmoney-go/internal/session"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var hundred = decimal.NewFromInt(100)

var (
	ConfigPath string
	LogLevel   string
)

var (
	apiClient   clients.MonarchServiceClient
	authClient  clients.AuthServiceClient
	credentials config.CredentialsConfig
	sessionCfg  config.SessionConfig
	sessionPath string
)

var RootCmd = &cobra.Command{
	Use:   "monarch",
	Short: "Monarch Money CLI",
	Long:  "Access Monarch Money financial data from the command line",
}

// InitCommands wires the clients and configuration into the command tree.
// credentialsCfg may be nil when no credentials are configured; commands
// fail with a setup hint when they actually need to authenticate.
func InitCommands(
	api clients.MonarchServiceClient,
	auth clients.AuthServiceClient,
	credentialsCfg config.CredentialsConfig,
	sessionConfig config.SessionConfig,
	sessionFile string,
) {
	apiClient = api
	authClient = auth
	credentials = credentialsCfg
	sessionCfg = sessionConfig
	sessionPath = sessionFile
}

func Execute() {
	err := RootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with Monarch Money",
	RunE: func(cmd *cobra.Command, args []string) error {
		force, err := cmd.Flags().GetBool("force")
		if err != nil {
			return err
		}

		if err := ensureSession(cmd.Context(), force); err != nil {
			logger.Error("failed to authenticate", zap.Error(err))

			return err
		}

		fmt.Println("Authentication successful")

		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Delete the saved session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := session.Delete(sessionPath); err != nil {
			logger.Error("failed to delete session", zap.Error(err))

			return err
		}

		fmt.Println("Session cleared")

		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show account status and subscription details",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := ensureSession(ctx, false); err != nil {
			return err
		}

		subscription, err := apiClient.GetSubscriptionDetails(ctx)
		if err != nil {
			logger.Error("failed to get subscription details", zap.Error(err))

			return err
		}

		fmt.Println("Account status:")
		fmt.Printf("  Subscription ID:  %s\n", subscription.ID)
		fmt.Printf("  Payment source:   %s\n", subscription.PaymentSource)
		fmt.Printf("  Free trial:       %t\n", subscription.IsOnFreeTrial)
		fmt.Printf("  Premium:          %t\n", subscription.HasPremiumEntitlement)

		return nil
	},
}

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := ensureSession(ctx, false); err != nil {
			return err
		}

		accounts, err := apiClient.GetAccounts(ctx)
		if err != nil {
			logger.Error("failed to get accounts", zap.Error(err))

			return err
		}

		if output, _ := cmd.Flags().GetString("output"); output != "" {
			return saveJSON(output, accounts)
		}

		metrics := analysis.AnalyzeAccounts(accounts)

		fmt.Printf("Accounts (%d):\n", len(accounts))
		for _, account := range accounts {
			fmt.Printf("  %-30s %12s  %s\n",
				account.DisplayName,
				"$"+account.Balance().StringFixed(2),
				account.Type.Display,
			)
		}
		fmt.Printf("\nTotal assets:      $%s\n", metrics.TotalAssets.StringFixed(2))
		fmt.Printf("Total liabilities: $%s\n", metrics.TotalLiabilities.StringFixed(2))
		fmt.Printf("Net worth:         $%s\n", metrics.NetWorth.StringFixed(2))

		return nil
	},
}

var transactionsCmd = &cobra.Command{
	Use:   "transactions",
	Short: "List transactions",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := ensureSession(ctx, false); err != nil {
			return err
		}

		filter, err := transactionFilterFromFlags(cmd)
		if err != nil {
			return err
		}

		list, err := apiClient.GetTransactions(ctx, filter)
		if err != nil {
			logger.Error("failed to get transactions", zap.Error(err))

			return err
		}

		if output, _ := cmd.Flags().GetString("output"); output != "" {
			return saveJSON(output, list)
		}

		fmt.Printf("Transactions (%d of %d):\n", len(list.Results), list.TotalCount)
		for _, txn := range list.Results {
			fmt.Printf("  %s  %-30s %12s  %s\n",
				txn.Date,
				txn.MerchantName(),
				"$"+txn.Amount.StringFixed(2),
				txn.CategoryName(),
			)
		}

		return nil
	},
}

var budgetsCmd = &cobra.Command{
	Use:   "budgets",
	Short: "Show budgets",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := ensureSession(ctx, false); err != nil {
			return err
		}

		budgets, err := apiClient.GetBudgets(ctx)
		if err != nil {
			logger.Error("failed to get budgets", zap.Error(err))

			return err
		}

		if output, _ := cmd.Flags().GetString("output"); output != "" {
			return saveJSON(output, budgets)
		}

		fmt.Println("Budgets:")
		for _, budget := range budgets {
			fmt.Printf("  %-30s $%s / $%s\n",
				budget.Name,
				budget.Spent.StringFixed(2),
				budget.Amount.StringFixed(2),
			)
		}

		return nil
	},
}

var cashflowCmd = &cobra.Command{
	Use:   "cashflow",
	Short: "Show cashflow analysis",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := ensureSession(ctx, false); err != nil {
			return err
		}

		startDate, _ := cmd.Flags().GetString("start-date")
		endDate, _ := cmd.Flags().GetString("end-date")

		entries, err := apiClient.GetCashflow(ctx, startDate, endDate)
		if err != nil {
			logger.Error("failed to get cashflow", zap.Error(err))

			return err
		}

		if output, _ := cmd.Flags().GetString("output"); output != "" {
			return saveJSON(output, entries)
		}

		fmt.Printf("Cashflow (%s to %s):\n", startDate, endDate)
		for _, entry := range entries {
			s := entry.Summary
			fmt.Printf("  Income:  $%s\n", s.SumIncome.StringFixed(2))
			fmt.Printf("  Expense: $%s\n", s.SumExpense.StringFixed(2))
			fmt.Printf("  Savings: $%s (%s%%)\n",
				s.Savings.StringFixed(2),
				s.SavingsRate.Mul(hundred).StringFixed(0),
			)
		}

		return nil
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Full data synchronization",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := ensureSession(ctx, false); err != nil {
			return err
		}

		cacheDir, _ := cmd.Flags().GetString("cache-dir")
		transactionLimit, _ := cmd.Flags().GetInt("transaction-limit")
		startDate, _ := cmd.Flags().GetString("start-date")
		endDate, _ := cmd.Flags().GetString("end-date")

		cachePath := filepath.Join("cache", time.Now().Format("20060102_150405"))
		if cacheDir != "" {
			cachePath = filepath.Join("cache", cacheDir)
		}
		if err := os.MkdirAll(cachePath, 0o755); err != nil {
			return err
		}

		fetches := []struct {
			name  string
			fetch func() (interface{}, error)
		}{
			{"subscription", func() (interface{}, error) { return apiClient.GetSubscriptionDetails(ctx) }},
			{"accounts", func() (interface{}, error) { return apiClient.GetAccounts(ctx) }},
			{"budgets", func() (interface{}, error) { return apiClient.GetBudgets(ctx) }},
			{"categories", func() (interface{}, error) { return apiClient.GetTransactionCategories(ctx) }},
			{"transactions", func() (interface{}, error) {
				return apiClient.GetTransactions(ctx, model.TransactionFilter{Limit: transactionLimit})
			}},
		}
		if startDate != "" && endDate != "" {
			fetches = append(fetches, struct {
				name  string
				fetch func() (interface{}, error)
			}{"cashflow", func() (interface{}, error) { return apiClient.GetCashflow(ctx, startDate, endDate) }})
		}

		// A single failed dataset does not abort the sync.
		for _, f := range fetches {
			fmt.Printf("Fetching %s...\n", f.name)
			data, err := f.fetch()
			if err != nil {
				logger.Error("failed to fetch dataset", zap.String("dataset", f.name), zap.Error(err))
				continue
			}
			if err := saveJSON(filepath.Join(cachePath, f.name+".json"), data); err != nil {
				logger.Error("failed to save dataset", zap.String("dataset", f.name), zap.Error(err))
			}
		}

		fmt.Printf("Sync completed, data saved to %s\n", cachePath)

		return nil
	},
}

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Generate a cross-institution financial assessment",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := ensureSession(ctx, false); err != nil {
			return err
		}

		days, _ := cmd.Flags().GetInt("days")
		outputDir, _ := cmd.Flags().GetString("output-dir")

		fmt.Println("Analyzing accounts...")
		accounts, err := apiClient.GetAccounts(ctx)
		if err != nil {
			logger.Error("failed to get accounts", zap.Error(err))

			return err
		}

		fmt.Println("Analyzing transactions...")
		startDate, endDate := dateRange(days)
		list, err := apiClient.GetTransactions(ctx, model.TransactionFilter{
			Limit:     1000,
			StartDate: startDate,
			EndDate:   endDate,
		})
		if err != nil {
			logger.Error("failed to get transactions", zap.Error(err))

			return err
		}

		assessment := analysis.NewAssessment(
			analysis.AnalyzeAccounts(accounts),
			analysis.AnalyzeTransactions(list.Results, days),
		)

		reportPath, err := assessment.WriteJSON(filepath.Join(outputDir, "federation_assessment"))
		if err != nil {
			return err
		}
		summaryPath := filepath.Join(outputDir, "federation_assessment", "CURRENT_FINANCIAL_SUMMARY.md")
		if err := assessment.WriteSummary(summaryPath); err != nil {
			return err
		}

		fmt.Printf("Net worth: $%s\n", assessment.AccountMetrics.NetWorth.StringFixed(2))
		for _, insight := range assessment.Insights {
			fmt.Printf("  [%s] %s\n", strings.ToUpper(insight.Type), insight.Message)
		}
		fmt.Printf("Assessment saved to %s\n", reportPath)
		fmt.Printf("Summary saved to %s\n", summaryPath)

		return nil
	},
}

var appleCmd = &cobra.Command{
	Use:   "apple",
	Short: "Apple financial account tooling",
}

var appleAccountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Analyze Apple financial accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := ensureSession(ctx, false); err != nil {
			return err
		}

		exportDir, _ := cmd.Flags().GetString("export-dir")

		apple, err := fetchAppleAccounts(ctx)
		if err != nil {
			return err
		}

		for _, account := range apple {
			fmt.Printf("%s\n", account.DisplayName)
			fmt.Printf("  Type:         %s\n", account.Type.Display)
			fmt.Printf("  Balance:      $%s\n", account.Balance().StringFixed(2))
			fmt.Printf("  Institution:  %s\n", account.InstitutionName())
			fmt.Printf("  Last updated: %s\n", account.DisplayLastUpdatedAt)

			path, err := analysis.WriteExport(exportDir, account.DisplayName, "", analysis.NewAccountExport(account))
			if err != nil {
				return err
			}
			fmt.Printf("  Data saved to %s\n", path)
		}

		fmt.Printf("\nTotal Apple account balance: $%s\n", analysis.TotalBalance(apple).StringFixed(2))

		return nil
	},
}

var appleTransactionsCmd = &cobra.Command{
	Use:   "transactions",
	Short: "Analyze transactions from Apple financial accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := ensureSession(ctx, false); err != nil {
			return err
		}

		days, _ := cmd.Flags().GetInt("days")
		exportDir, _ := cmd.Flags().GetString("export-dir")

		apple, err := fetchAppleAccounts(ctx)
		if err != nil {
			return err
		}

		startDate, endDate := dateRange(days)
		fmt.Printf("Analyzing transactions from %s to %s\n", startDate, endDate)

		for _, account := range apple {
			fmt.Printf("\n%s\n", account.DisplayName)

			list, err := apiClient.GetTransactions(ctx, model.TransactionFilter{
				Limit:      1000,
				StartDate:  startDate,
				EndDate:    endDate,
				AccountIDs: []string{account.ID},
			})
			if err != nil {
				logger.Error("failed to get transactions",
					zap.String("account", account.ID), zap.Error(err))

				return err
			}
			if len(list.Results) == 0 {
				fmt.Println("  No transactions found")
				continue
			}

			report := analysis.NewTransactionReport(account, list.Results, startDate, endDate)
			fmt.Printf("  Found %d transactions, total $%s\n",
				report.TransactionCount, report.TotalAmount.StringFixed(2))

			fmt.Println("  Top categories:")
			for _, group := range analysis.TopGroups(report.Categories, 5) {
				fmt.Printf("    %-25s $%s\n", group.Name, group.Total.StringFixed(2))
			}
			fmt.Println("  Top merchants:")
			for _, group := range analysis.TopGroups(report.Merchants, 5) {
				fmt.Printf("    %-25s $%s\n", group.Name, group.Total.StringFixed(2))
			}

			path, err := analysis.WriteExport(exportDir, account.DisplayName, "_transactions", report)
			if err != nil {
				return err
			}
			fmt.Printf("  Data saved to %s\n", path)
		}

		return nil
	},
}

var appleMigrateCmd = &cobra.Command{
	Use:   "migrate <input-file>",
	Short: "Migrate Apple Cash transactions from a JSON export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := ensureSession(ctx, false); err != nil {
			return err
		}

		transactions, err := analysis.LoadCashTransactions(args[0])
		if err != nil {
			logger.Error("failed to load input file", zap.Error(err))

			return err
		}
		if len(transactions) == 0 {
			return errors.New("no transactions found in input file")
		}
		fmt.Printf("Loaded %d transactions\n", len(transactions))

		accounts, err := apiClient.GetAccounts(ctx)
		if err != nil {
			logger.Error("failed to get accounts", zap.Error(err))

			return err
		}

		var cashAccount *model.Account
		for i := range accounts {
			if strings.Contains(accounts[i].InstitutionName(), "Apple Cash") {
				cashAccount = &accounts[i]
				break
			}
		}
		if cashAccount == nil {
			return errors.New("Apple Cash account not found")
		}
		fmt.Printf("Found Apple Cash account: %s\n", cashAccount.DisplayName)

		existing, err := apiClient.GetTransactions(ctx, model.TransactionFilter{
			Limit:      1000,
			AccountIDs: []string{cashAccount.ID},
		})
		if err != nil {
			logger.Error("failed to get existing transactions", zap.Error(err))

			return err
		}

		result := analysis.MigrateCashTransactions(
			ctx, apiClient, cashAccount.ID, transactions, analysis.ExistingKeys(existing.Results),
		)

		fmt.Println("Migration complete")
		fmt.Printf("  Migrated: %d\n", result.Migrated)
		fmt.Printf("  Skipped:  %d\n", result.Skipped)
		fmt.Printf("  Failed:   %d\n", result.Failed)

		return nil
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&ConfigPath, "config", "c", ".env", "Path to the environment file")
	RootCmd.PersistentFlags().StringVar(&LogLevel, "log-level", "info", "Log level")

	RootCmd.AddCommand(loginCmd)
	RootCmd.AddCommand(logoutCmd)
	RootCmd.AddCommand(statusCmd)
	RootCmd.AddCommand(accountsCmd)
	RootCmd.AddCommand(transactionsCmd)
	RootCmd.AddCommand(budgetsCmd)
	RootCmd.AddCommand(cashflowCmd)
	RootCmd.AddCommand(syncCmd)
	RootCmd.AddCommand(assessCmd)
	RootCmd.AddCommand(appleCmd)

	appleCmd.AddCommand(appleAccountsCmd)
	appleCmd.AddCommand(appleTransactionsCmd)
	appleCmd.AddCommand(appleMigrateCmd)

	loginCmd.Flags().Bool("force", false, "Force a fresh login")

	accountsCmd.Flags().StringP("output", "o", "", "Output file path (JSON)")

	transactionsCmd.Flags().IntP("limit", "l", 10, "Number of transactions to retrieve")
	transactionsCmd.Flags().Int("offset", 0, "Number of transactions to skip")
	transactionsCmd.Flags().StringP("output", "o", "", "Output file path (JSON)")
	transactionsCmd.Flags().String("start-date", "", "Earliest date (yyyy-mm-dd)")
	transactionsCmd.Flags().String("end-date", "", "Latest date (yyyy-mm-dd)")
	transactionsCmd.Flags().StringSlice("account", nil, "Account IDs to filter")
	transactionsCmd.Flags().StringSlice("category", nil, "Category IDs to filter")
	transactionsCmd.Flags().StringSlice("tag", nil, "Tag IDs to filter")
	transactionsCmd.Flags().String("search", "", "Free-text search")

	budgetsCmd.Flags().StringP("output", "o", "", "Output file path (JSON)")

	cashflowCmd.Flags().String("start-date", "", "Start date (yyyy-mm-dd)")
	cashflowCmd.Flags().String("end-date", "", "End date (yyyy-mm-dd)")
	cashflowCmd.Flags().StringP("output", "o", "", "Output file path (JSON)")
	if err := cashflowCmd.MarkFlagRequired("start-date"); err != nil {
		logger.Error("failed to mark start-date flag as required", zap.Error(err))

		return
	}
	if err := cashflowCmd.MarkFlagRequired("end-date"); err != nil {
		logger.Error("failed to mark end-date flag as required", zap.Error(err))

		return
	}

	syncCmd.Flags().String("cache-dir", "", "Custom cache directory name")
	syncCmd.Flags().Int("transaction-limit", 100, "Number of transactions to sync")
	syncCmd.Flags().String("start-date", "", "Start date for cashflow (yyyy-mm-dd)")
	syncCmd.Flags().String("end-date", "", "End date for cashflow (yyyy-mm-dd)")

	assessCmd.Flags().Int("days", 30, "Transaction window in days")
	assessCmd.Flags().String("output-dir", "data", "Directory for assessment output")

	appleAccountsCmd.Flags().String("export-dir", filepath.Join("data", "exports"), "Directory for account exports")

	appleTransactionsCmd.Flags().Int("days", 30, "Transaction window in days")
	appleTransactionsCmd.Flags().String("export-dir", filepath.Join("data", "exports"), "Directory for transaction exports")
}

// ensureSession makes sure apiClient carries a usable token: an explicit
// token override wins, then the saved session, then a fresh login which is
// saved for next time.
func ensureSession(ctx context.Context, force bool) error {
	if credentials != nil && credentials.Token() != "" {
		apiClient.SetToken(credentials.Token())

		return nil
	}

	if !force {
		if token, err := session.Load(sessionPath, sessionCfg.TTL()); err == nil {
			logger.Info("using saved session",
				zap.String("path", sessionPath),
				zap.String("mode", sessionCfg.Mode()),
			)
			apiClient.SetToken(token)

			return nil
		}
	}

	if credentials == nil {
		return errors.New("no credentials configured: set MONARCH_TOKEN, or MONARCH_EMAIL and MONARCH_PASSWORD")
	}

	logger.Info("starting fresh login", zap.String("mode", sessionCfg.Mode()))

	token, err := authClient.Login(ctx, credentials.Email(), credentials.Password(), credentials.MFASecret())
	if errors.Is(err, monarch.ErrMFARequired) {
		code, promptErr := promptOneTimeCode()
		if promptErr != nil {
			return promptErr
		}
		token, err = authClient.MultiFactorAuthenticate(ctx, credentials.Email(), credentials.Password(), code)
	}
	if err != nil {
		return err
	}

	apiClient.SetToken(token)

	if err := session.Save(session.New(token), sessionPath); err != nil {
		// A failed save is not fatal; the next run just logs in again.
		logger.Warn("failed to save session", zap.Error(err))
	}

	return nil
}

func promptOneTimeCode() (string, error) {
	fmt.Print("Two Factor Code: ")
	code, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read one-time code: %w", err)
	}

	return strings.TrimSpace(code), nil
}

func fetchAppleAccounts(ctx context.Context) ([]model.Account, error) {
	accounts, err := apiClient.GetAccounts(ctx)
	if err != nil {
		logger.Error("failed to get accounts", zap.Error(err))

		return nil, err
	}

	apple := analysis.FilterAppleAccounts(accounts)
	if len(apple) == 0 {
		return nil, errors.New("no Apple financial accounts found")
	}
	fmt.Printf("Found %d Apple accounts\n", len(apple))

	return apple, nil
}

func transactionFilterFromFlags(cmd *cobra.Command) (model.TransactionFilter, error) {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return model.TransactionFilter{}, err
	}
	offset, _ := cmd.Flags().GetInt("offset")
	startDate, _ := cmd.Flags().GetString("start-date")
	endDate, _ := cmd.Flags().GetString("end-date")
	accountIDs, _ := cmd.Flags().GetStringSlice("account")
	categoryIDs, _ := cmd.Flags().GetStringSlice("category")
	tagIDs, _ := cmd.Flags().GetStringSlice("tag")
	search, _ := cmd.Flags().GetString("search")

	return model.TransactionFilter{
		Limit:       limit,
		Offset:      offset,
		StartDate:   startDate,
		EndDate:     endDate,
		Search:      search,
		AccountIDs:  accountIDs,
		CategoryIDs: categoryIDs,
		TagIDs:      tagIDs,
	}, nil
}

func dateRange(days int) (string, string) {
	now := time.Now()

	return now.AddDate(0, 0, -days).Format("2006-01-02"), now.Format("2006-01-02")
}

func saveJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("save json: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save json: %w", err)
	}

	fmt.Printf("Saved: %s\n", path)

	return nil
}
