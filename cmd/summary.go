package cmd

import (
	"github.com/huangsam/retention/core"
	"github.com/huangsam/retention/internal/contract"
	"github.com/spf13/cobra"
)

// summaryCmd prints the dashboard rollup of the stored batch.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show band counts and department rollups for the stored batch",
	Long: `Print the dashboard view of the current batch.

Includes:
- Employee count per risk band
- Average score and high-risk share per department
- The most common risk factors across the workforce

Examples:
  # Whole-company summary
  retention summary

  # Summary for one department as JSON
  retention summary --department Engineering --output json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSummary(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot show summary", err)
		}
	},
}

// employeesCmd lists stored employees ranked by risk.
var employeesCmd = &cobra.Command{
	Use:   "employees",
	Short: "List stored employees ranked by risk score",
	Long: `List the employees of the current batch, highest risk first.

Ties are broken by employee ID so the order is stable between runs.

Examples:
  # Top 25 employees at risk
  retention employees

  # Everyone in Sales at 0.6 or above
  retention employees --department Sales --risk-threshold 0.6 --limit 1000

  # Export the ranking to Parquet
  retention employees --output parquet --output-file employees.parquet`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteEmployees(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot list employees", err)
		}
	},
}

// employeeCmd prints one employee in detail.
var employeeCmd = &cobra.Command{
	Use:   "employee <id>",
	Short: "Show one employee with factor breakdown and interventions",
	Long: `Print the score, band, factor breakdown and suggested interventions
for a single employee of the current batch.

Examples:
  retention employee EMP001
  retention employee EMP001 --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteEmployee(rootCtx, cfg, storeManager, args[0]); err != nil {
			contract.LogFatal("Cannot show employee", err)
		}
	},
}

// historyCmd prints stored batch snapshots and the trend across them.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show previous uploads and the risk trend across them",
	Long: `List every stored batch snapshot, oldest first, with the average score
and high-risk count of each. The trend is bucketed by --trend-granularity.

Examples:
  retention history
  retention history --trend-granularity year --output csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteHistory(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot show history", err)
		}
	},
}
