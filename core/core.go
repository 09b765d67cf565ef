// Package core has the batch pipeline and the entry points behind every command.
package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/huangsam/retention/internal/contract"
	"github.com/huangsam/retention/internal/ingest"
	"github.com/huangsam/retention/internal/outwriter"
	"github.com/huangsam/retention/schema"
)

// ExecuteUpload ingests a roster file, replaces the stored batch and prints the band counts.
func ExecuteUpload(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, path string) error {
	start := time.Now()
	printHeader(ctx, "🔎 Scoring %s\n", path)
	record, err := ImportFile(ctx, cfg, mgr, path, "upload:"+filepath.Base(path))
	if err != nil {
		return err
	}
	return outwriter.PrintUploadResult(record, cfg, time.Since(start))
}

// ExecuteScore scores a roster file without saving it. It is the dry run of upload.
func ExecuteScore(ctx context.Context, cfg *contract.Config, path string) error {
	start := time.Now()
	printHeader(ctx, "🔎 Scoring %s (dry run)\n", path)
	rows, err := ingest.ReadFile(path)
	if err != nil {
		return err
	}
	batch, err := ProcessBatch(ctx, rows, "score:"+filepath.Base(path), cfg)
	if err != nil {
		return err
	}
	page := pageOf(batch.Employees, QueryFromConfig(cfg))
	page.BatchID = batch.ID
	return outwriter.PrintEmployeeResults(page, cfg, time.Since(start))
}

// ExecuteSummary prints the dashboard summary of the stored batch.
func ExecuteSummary(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	summary, err := GetSummaryResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintSummaryResults(summary, cfg, time.Since(start))
}

// ExecuteEmployees prints the stored employees ranked by risk.
func ExecuteEmployees(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	page, err := GetEmployeesResults(ctx, mgr, QueryFromConfig(cfg))
	if err != nil {
		return err
	}
	return outwriter.PrintEmployeeResults(page, cfg, time.Since(start))
}

// ExecuteEmployee prints one employee with breakdown and interventions.
func ExecuteEmployee(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, employeeID string) error {
	e, err := GetEmployeeResult(ctx, mgr, employeeID)
	if err != nil {
		return err
	}
	return outwriter.PrintEmployeeDetail(e, cfg)
}

// ExecuteInterventions prints the flat intervention list.
func ExecuteInterventions(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	list, err := GetInterventionsResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintInterventionResults(list, cfg)
}

// ExecuteInterventionStatus updates the status of one intervention.
func ExecuteInterventionStatus(ctx context.Context, _ *contract.Config, mgr contract.StoreManager, employeeID string, seq int, status string) error {
	parsed, err := UpdateInterventionStatus(ctx, mgr, employeeID, seq, status)
	if err != nil {
		return err
	}
	fmt.Printf("✅ Intervention %s/%d is now %s\n", employeeID, seq, parsed)
	return nil
}

// ExecuteHistory prints every stored batch snapshot and the trend across them.
func ExecuteHistory(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	history, err := GetHistoryResults(ctx, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintHistoryResults(history, cfg)
}

// ExecuteRules prints the effective rule table. It does not need a store.
func ExecuteRules(_ context.Context, cfg *contract.Config) error {
	return outwriter.PrintRulesDefinitions(cfg)
}

// ExecuteTemplate writes the upload template.
func ExecuteTemplate(_ context.Context, cfg *contract.Config) error {
	return outwriter.PrintTemplate(cfg)
}

// pageOf ranks and pages an in-memory employee list the same way the store-backed listing does.
func pageOf(employees []schema.ScoredEmployee, q EmployeeQuery) schema.EmployeePage {
	return paginate(filterAndRank(employees, q), q)
}

// printHeader writes a progress line to stderr unless the context suppresses it.
func printHeader(ctx context.Context, format string, args ...any) {
	if shouldSuppressHeader(ctx) {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, format, args...)
}
