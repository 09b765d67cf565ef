package store

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/retention/internal/contract"
	"github.com/huangsam/retention/internal/parquet"
	"github.com/huangsam/retention/schema"
)

// Export file suffixes appended to the --output-file prefix.
const (
	employeesSuffix     = ".employees.parquet"
	interventionsSuffix = ".interventions.parquet"
	batchesSuffix       = ".batches.parquet"
)

// ExecuteExport writes the current batch and the snapshot history to Parquet
// files named after outputFile.
func ExecuteExport(ctx context.Context, w io.Writer, batchStore contract.BatchStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	status, err := batchStore.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get store status: %w", err)
	}
	if status.TotalBatches == 0 {
		return errors.New("no batch data found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total batches: %d\n", status.TotalBatches)

	batch, err := batchStore.LoadBatch(ctx)
	if err != nil {
		return fmt.Errorf("failed to load batch: %w", err)
	}
	history, err := batchStore.ListBatches(ctx)
	if err != nil {
		return fmt.Errorf("failed to list batches: %w", err)
	}

	employees := parquet.ConvertEmployees(batch.ID, batch.Employees)
	if err := parquet.WriteFile(employees, outputFile+employeesSuffix); err != nil {
		return fmt.Errorf("failed to write employees: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d employees to: %s\n", len(employees), outputFile+employeesSuffix)

	interventions := parquet.ConvertInterventions(batch.ID, schema.FlattenInterventions(batch.Employees))
	if err := parquet.WriteFile(interventions, outputFile+interventionsSuffix); err != nil {
		return fmt.Errorf("failed to write interventions: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d interventions to: %s\n", len(interventions), outputFile+interventionsSuffix)

	snapshots := parquet.ConvertBatchRecords(history)
	if err := parquet.WriteFile(snapshots, outputFile+batchesSuffix); err != nil {
		return fmt.Errorf("failed to write batch history: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d batch snapshots to: %s\n", len(snapshots), outputFile+batchesSuffix)

	_, _ = fmt.Fprintln(w, "\nExport complete! The Parquet files can be read with DuckDB, Pandas (via pyarrow) or Spark.")
	return nil
}
