package core

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/retention/internal/contract"
	"github.com/huangsam/retention/internal/store"
	"github.com/huangsam/retention/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// jsonConfig returns a config that writes JSON into a temp file.
func jsonConfig(t *testing.T, name string) *contract.Config {
	t.Helper()
	cfg := testConfig()
	cfg.Output = schema.JSONOut
	cfg.OutputFile = filepath.Join(t.TempDir(), name)
	return cfg
}

func readJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v))
}

func TestExecuteUpload(t *testing.T) {
	mgr := store.NewManager(store.NewMemoryStore())
	cfg := jsonConfig(t, "upload.json")
	ctx := WithSuppressHeader(testContext())

	require.NoError(t, ExecuteUpload(ctx, cfg, mgr, writeRoster(t, rosterCSV)))

	var record schema.BatchRecord
	readJSON(t, cfg.OutputFile, &record)
	assert.Equal(t, "upload:roster.csv", record.Source)
	assert.Equal(t, 3, record.Total)
	assert.Equal(t, 1, record.Critical)

	batch, err := mgr.GetBatchStore().LoadBatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, record.BatchID, batch.ID)
}

func TestExecuteUploadUnparseable(t *testing.T) {
	mgr := store.NewManager(store.NewMemoryStore())
	cfg := jsonConfig(t, "upload.json")

	err := ExecuteUpload(WithSuppressHeader(testContext()), cfg, mgr, writeRoster(t, "employee_id,name\n"))
	require.Error(t, err)
	_, statErr := os.Stat(cfg.OutputFile)
	assert.True(t, os.IsNotExist(statErr))
}

func TestExecuteScoreDoesNotSave(t *testing.T) {
	cfg := jsonConfig(t, "score.json")
	cfg.ResultLimit = 2

	require.NoError(t, ExecuteScore(WithSuppressHeader(testContext()), cfg, writeRoster(t, rosterCSV)))

	var page schema.EmployeePage
	readJSON(t, cfg.OutputFile, &page)
	assert.NotEmpty(t, page.BatchID)
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Employees, 2)
	assert.Equal(t, "E1", page.Employees[0].Employee.EmployeeID)
	assert.Equal(t, "E3", page.Employees[1].Employee.EmployeeID)
}

func TestExecuteSummaryAndEmployees(t *testing.T) {
	mgr := seededManager(t)

	cfg := jsonConfig(t, "summary.json")
	require.NoError(t, ExecuteSummary(testContext(), cfg, mgr))
	var summary schema.DashboardSummary
	readJSON(t, cfg.OutputFile, &summary)
	assert.Equal(t, 3, summary.Total)

	cfg = jsonConfig(t, "employees.json")
	cfg.RiskThreshold = 0.5
	require.NoError(t, ExecuteEmployees(testContext(), cfg, mgr))
	var page schema.EmployeePage
	readJSON(t, cfg.OutputFile, &page)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, "E1", page.Employees[0].Employee.EmployeeID)
}

func TestExecuteEmployee(t *testing.T) {
	mgr := seededManager(t)

	cfg := jsonConfig(t, "employee.json")
	require.NoError(t, ExecuteEmployee(testContext(), cfg, mgr, "E1"))
	var e schema.ScoredEmployee
	readJSON(t, cfg.OutputFile, &e)
	assert.Equal(t, "Ann Lee", e.Employee.Name)
	assert.Len(t, e.Interventions, 2)

	err := ExecuteEmployee(testContext(), cfg, mgr, "missing")
	assert.ErrorIs(t, err, contract.ErrNotFound)
}

func TestExecuteInterventionsAndStatus(t *testing.T) {
	mgr := seededManager(t)

	require.NoError(t, ExecuteInterventionStatus(testContext(), testConfig(), mgr, "E1", 0, "completed"))
	err := ExecuteInterventionStatus(testContext(), testConfig(), mgr, "E1", 0, "done")
	require.Error(t, err)

	cfg := jsonConfig(t, "interventions.json")
	require.NoError(t, ExecuteInterventions(testContext(), cfg, mgr))
	var list schema.InterventionList
	readJSON(t, cfg.OutputFile, &list)
	require.Len(t, list.Interventions, 2)
	assert.Equal(t, schema.CompletedStatus, list.Interventions[0].Status)
	assert.Equal(t, schema.PendingStatus, list.Interventions[1].Status)
}

func TestExecuteHistory(t *testing.T) {
	mgr := seededManager(t)
	_, err := ImportFile(testContext(), testConfig(), mgr, writeRoster(t, rosterCSV), "second")
	require.NoError(t, err)

	cfg := jsonConfig(t, "history.json")
	require.NoError(t, ExecuteHistory(testContext(), cfg, mgr))
	var history schema.HistoryResult
	readJSON(t, cfg.OutputFile, &history)
	require.Len(t, history.Batches, 2)
	assert.Equal(t, "seed", history.Batches[0].Source)
	assert.Equal(t, "second", history.Batches[1].Source)
}

func TestExecuteRulesAndTemplate(t *testing.T) {
	cfg := jsonConfig(t, "rules.json")
	require.NoError(t, ExecuteRules(testContext(), cfg))
	var rules schema.RulesRenderModel
	readJSON(t, cfg.OutputFile, &rules)
	assert.Len(t, rules.Groups, 6)
	assert.Len(t, rules.Bands, 4)

	cfg = testConfig()
	cfg.OutputFile = filepath.Join(t.TempDir(), "template.csv")
	require.NoError(t, ExecuteTemplate(testContext(), cfg))
	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "employee_id,name,email")
}
