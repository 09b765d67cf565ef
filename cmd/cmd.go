// Package cmd defines the command-line interface for retention.
package cmd

import (
	"github.com/huangsam/retention/internal/contract"
	"github.com/huangsam/retention/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(employeesCmd)
	rootCmd.AddCommand(employeeCmd)
	rootCmd.AddCommand(interventionsCmd)
	rootCmd.AddCommand(interventionStatusCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(templateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(storeCmd)

	// Add the store subcommands to the parent store command
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeClearCmd)
	storeCmd.AddCommand(storeExportCmd)
	storeCmd.AddCommand(storeMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("as-of", "", "Reference date for tenure arithmetic (YYYY-MM-DD, RFC3339 or 'N months ago', default today)")
	rootCmd.PersistentFlags().StringP("department", "d", "", "Only include employees of this department")
	rootCmd.PersistentFlags().Float64("risk-threshold", 0, "Only include employees scoring at or above this value (0-1)")
	rootCmd.PersistentFlags().String("trend-granularity", string(contract.DefaultTrendGranularity), "Trend bucket size: month or year")
	rootCmd.PersistentFlags().String("store-backend", string(contract.DefaultStoreBackend), "Store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("log-level", contract.DefaultLogLevel, "Diagnostic log level: debug or info or warn or error or disabled")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of serveCmd to Viper
	serveCmd.Flags().String("addr", contract.DefaultAddr, "Listen address of the HTTP API")
	serveCmd.Flags().Float64("rate-limit", contract.DefaultRateLimit, "Upload requests per second per client (0 disables)")
	serveCmd.Flags().Int("rate-burst", contract.DefaultRateBurst, "Upload burst size per client")
	serveCmd.Flags().String("watch-file", "", "Roster file to re-import on the watch schedule")
	serveCmd.Flags().String("watch-schedule", contract.DefaultWatchSchedule, "Cron expression or @every descriptor for the watch file")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding serve flags", err)
	}

	// Bind all flags of storeMigrateCmd to Viper
	storeMigrateCmd.Flags().Int("target-version", contract.DefaultTargetVersion, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(storeMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding store migrate flags", err)
	}
}
