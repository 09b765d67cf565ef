package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/huangsam/retention/core/agg"
	"github.com/huangsam/retention/core/algo"
	"github.com/huangsam/retention/internal/contract"
	"github.com/huangsam/retention/schema"
)

// EmployeeQuery filters and pages the stored employee list.
type EmployeeQuery struct {
	Department string
	MinScore   float64
	Skip       int
	Limit      int
}

// QueryFromConfig builds the listing query from the command line settings.
func QueryFromConfig(cfg *contract.Config) EmployeeQuery {
	return EmployeeQuery{
		Department: cfg.Department,
		MinScore:   cfg.RiskThreshold,
		Limit:      cfg.ResultLimit,
	}
}

// GetSummaryResults recomputes the dashboard summary of the stored batch.
// The department filter from the config narrows the summary when set.
func GetSummaryResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.DashboardSummary, error) {
	batch, err := loadBatch(ctx, mgr)
	if err != nil {
		return schema.DashboardSummary{}, err
	}
	employees := algo.FilterByDepartment(batch.Employees, cfg.Department)
	return agg.Summarize(employees, agg.Options{Granularity: cfg.TrendGranularity}), nil
}

// GetEmployeesResults returns the filtered employees ranked by risk, one page at a time.
func GetEmployeesResults(ctx context.Context, mgr contract.StoreManager, q EmployeeQuery) (schema.EmployeePage, error) {
	batch, err := loadBatch(ctx, mgr)
	if err != nil {
		return schema.EmployeePage{}, err
	}
	page := paginate(filterAndRank(batch.Employees, q), q)
	page.BatchID = batch.ID
	return page, nil
}

// GetEmployeeResult returns one stored employee with its interventions.
func GetEmployeeResult(ctx context.Context, mgr contract.StoreManager, employeeID string) (schema.ScoredEmployee, error) {
	batch, err := loadBatch(ctx, mgr)
	if err != nil {
		return schema.ScoredEmployee{}, err
	}
	e, ok := batch.FindEmployee(strings.TrimSpace(employeeID))
	if !ok {
		return schema.ScoredEmployee{}, fmt.Errorf("employee %s: %w", employeeID, contract.ErrNotFound)
	}
	return e, nil
}

// GetInterventionsResults lists the interventions of the filtered employees,
// highest risk employees first and in rule order within each employee.
func GetInterventionsResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.InterventionList, error) {
	batch, err := loadBatch(ctx, mgr)
	if err != nil {
		return schema.InterventionList{}, err
	}
	employees := algo.Rank(algo.FilterByDepartment(batch.Employees, cfg.Department), 0)
	records := schema.FlattenInterventions(employees)
	if records == nil {
		records = []schema.InterventionRecord{}
	}
	return schema.InterventionList{BatchID: batch.ID, Interventions: records}, nil
}

// UpdateInterventionStatus validates the status and persists it.
func UpdateInterventionStatus(ctx context.Context, mgr contract.StoreManager, employeeID string, seq int, status string) (schema.InterventionStatus, error) {
	parsed, err := contract.ParseInterventionStatus(status)
	if err != nil {
		return "", err
	}
	if seq < 0 {
		return "", fmt.Errorf("intervention %s/%d: %w", employeeID, seq, contract.ErrNotFound)
	}
	store, err := batchStore(mgr)
	if err != nil {
		return "", err
	}
	if err := store.UpdateInterventionStatus(ctx, employeeID, seq, parsed); err != nil {
		return "", err
	}
	return parsed, nil
}

// PredictEmployee re-scores a stored employee with the current rule tables.
// The stored batch is left as it is.
func PredictEmployee(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, employeeID string) (schema.ScoredEmployee, error) {
	stored, err := GetEmployeeResult(ctx, mgr, employeeID)
	if err != nil {
		return schema.ScoredEmployee{}, err
	}
	now := clockFrom(ctx)().UTC()
	return scoreEmployee(stored.Employee, scoreOptions(cfg, now), now)
}

// GetHistoryResults returns every stored batch snapshot and the trend across them.
func GetHistoryResults(ctx context.Context, mgr contract.StoreManager) (schema.HistoryResult, error) {
	store, err := batchStore(mgr)
	if err != nil {
		return schema.HistoryResult{}, err
	}
	records, err := store.ListBatches(ctx)
	if err != nil {
		return schema.HistoryResult{}, err
	}
	if records == nil {
		records = []schema.BatchRecord{}
	}
	return schema.HistoryResult{Batches: records, Trend: agg.HistoryTrend(records)}, nil
}

// filterAndRank applies the query filters and ranks the result by risk.
func filterAndRank(employees []schema.ScoredEmployee, q EmployeeQuery) []schema.EnrichedEmployee {
	matched := algo.FilterByMinScore(algo.FilterByDepartment(employees, q.Department), q.MinScore)
	return schema.EnrichEmployees(algo.Rank(matched, 0))
}

// paginate cuts one page out of the ranked list. Rank numbers are kept.
func paginate(ranked []schema.EnrichedEmployee, q EmployeeQuery) schema.EmployeePage {
	skip := max(q.Skip, 0)
	page := schema.EmployeePage{Total: len(ranked), Skip: skip, Limit: q.Limit}
	if skip >= len(ranked) {
		page.Employees = []schema.EnrichedEmployee{}
		return page
	}
	end := len(ranked)
	if q.Limit > 0 {
		end = min(end, skip+q.Limit)
	}
	page.Employees = ranked[skip:end]
	return page
}

func loadBatch(ctx context.Context, mgr contract.StoreManager) (schema.Batch, error) {
	store, err := batchStore(mgr)
	if err != nil {
		return schema.Batch{}, err
	}
	return store.LoadBatch(ctx)
}
