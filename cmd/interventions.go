package cmd

import (
	"fmt"
	"strconv"

	"github.com/huangsam/retention/core"
	"github.com/huangsam/retention/internal/contract"
	"github.com/spf13/cobra"
)

// interventionsCmd lists suggested interventions across the stored batch.
var interventionsCmd = &cobra.Command{
	Use:   "interventions",
	Short: "List suggested interventions, most urgent first",
	Long: `Print every intervention of the current batch as a flat list,
ordered by priority and then by the employee's risk score.

Examples:
  retention interventions
  retention interventions --department Support --output csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteInterventions(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot list interventions", err)
		}
	},
}

// interventionStatusCmd moves one intervention to a new status.
var interventionStatusCmd = &cobra.Command{
	Use:   "intervention-status <employee_id> <seq> <status>",
	Short: "Update the status of one intervention",
	Long: `Set the status of an intervention. Seq is the zero-based position
shown by 'retention employee <id>'.

Valid statuses: pending, in_progress, completed.

Examples:
  retention intervention-status EMP001 0 in_progress
  retention intervention-status EMP001 1 completed`,
	Args:    cobra.ExactArgs(3),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		seq, err := strconv.Atoi(args[1])
		if err != nil || seq < 0 {
			contract.LogFatal("Invalid seq", fmt.Errorf("'%s' is not a non-negative integer", args[1]))
		}
		if err := core.ExecuteInterventionStatus(rootCtx, cfg, storeManager, args[0], seq, args[2]); err != nil {
			contract.LogFatal("Cannot update intervention", err)
		}
	},
}
