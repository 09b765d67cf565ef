package store

import (
	"fmt"
	"io"
	"slices"

	"github.com/huangsam/retention/schema"
)

// PrintStatus prints store status information.
func PrintStatus(w io.Writer, status schema.StoreStatus) {
	_, _ = fmt.Fprintf(w, "Store Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Batches: %d\n", status.TotalBatches)
	if status.TotalBatches > 0 {
		_, _ = fmt.Fprintf(w, "Current Batch ID: %s\n", status.CurrentBatchID)
		_, _ = fmt.Fprintf(w, "Current Batch: %s\n", status.CurrentBatchTime.Format("2006-01-02 15:04:05"))
		_, _ = fmt.Fprintf(w, "Oldest Batch: %s\n", status.OldestBatchTime.Format("2006-01-02 15:04:05"))
	}
	_, _ = fmt.Fprintf(w, "Employees: %d\n", status.TotalEmployees)
	_, _ = fmt.Fprintf(w, "Interventions: %d\n", status.TotalInterventions)
	_, _ = fmt.Fprintln(w, "Table Sizes:")
	tables := make([]string, 0, len(status.TableSizes))
	for table := range status.TableSizes {
		tables = append(tables, table)
	}
	slices.Sort(tables)
	for _, table := range tables {
		_, _ = fmt.Fprintf(w, "  %s: %d rows\n", table, status.TableSizes[table])
	}
}
