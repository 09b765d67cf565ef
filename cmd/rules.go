package cmd

import (
	"github.com/huangsam/retention/core"
	"github.com/huangsam/retention/internal/contract"
	"github.com/spf13/cobra"
)

// rulesCmd prints the effective scoring rules.
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Display the effective factor weights and lookup tables",
	Long: `Print the factor weights, band cutoffs, department baselines and
market salaries that scoring uses, after config file overrides.

Examples:
  retention rules
  retention rules --config ./what-if.yaml --output json`,
	PreRunE: offlineSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRules(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot display rules", err)
		}
	},
}

// templateCmd writes an empty roster with the canonical header.
var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Write a roster template with the expected columns",
	Long: `Write an upload template with the canonical header and two sample rows.
An --output-file ending in .xlsx produces an Excel workbook; anything else is CSV.

Examples:
  retention template > roster.csv
  retention template --output-file roster.xlsx`,
	PreRunE: offlineSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteTemplate(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot write template", err)
		}
	},
}
