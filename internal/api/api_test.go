package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/huangsam/retention/core"
	"github.com/huangsam/retention/internal/contract"
	"github.com/huangsam/retention/internal/ingest"
	"github.com/huangsam/retention/internal/store"
	"github.com/huangsam/retention/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const roster = `employee_id,name,department,engagement_score,performance_score,location
E1,Ann Lee,Sales,0.3,0.4,Remote
E2,Bob Ray,Zylon,,,
E3,Cy Dunn,Engineering,0.5,0.8,HQ
`

func testConfig() *contract.Config {
	cfg := contract.NewDefaultConfig()
	cfg.AsOf = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	cfg.RateLimit = 100
	cfg.RateBurst = 100
	return cfg
}

func newTestRouter(t *testing.T, cfg *contract.Config, seeded bool) (*gin.Engine, contract.StoreManager) {
	t.Helper()
	mgr := store.NewManager(store.NewMemoryStore())
	if seeded {
		_, err := core.ImportReader(context.Background(), cfg, mgr, strings.NewReader(roster), "roster.csv", "test")
		require.NoError(t, err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return NewRouter(ctx, cfg, mgr), mgr
}

func doRequest(r http.Handler, method, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.RemoteAddr = "10.0.0.1:12345"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func multipartBody(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t, testConfig(), false)
	w := doRequest(r, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestNoBatchIsNotFound(t *testing.T) {
	r, _ := newTestRouter(t, testConfig(), false)

	for _, path := range []string{"/api/dashboard", "/api/employees", "/api/employees/E1", "/api/interventions"} {
		w := doRequest(r, http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		resp := decodeError(t, w)
		assert.Equal(t, http.StatusNotFound, resp.Code)
		assert.Contains(t, resp.Message, "no batch")
	}

	w := doRequest(r, http.MethodGet, "/api/analytics/trends", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"batches":[]`)
}

func TestDashboard(t *testing.T) {
	r, _ := newTestRouter(t, testConfig(), true)

	w := doRequest(r, http.MethodGet, "/api/dashboard", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var summary schema.DashboardSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 1, summary.HighRiskCount)
	assert.Equal(t, "E1", summary.TopRisk[0].EmployeeID)

	w = doRequest(r, http.MethodGet, "/api/dashboard?department=Engineering", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 1, summary.Total)
}

func TestListEmployees(t *testing.T) {
	r, _ := newTestRouter(t, testConfig(), true)

	tests := []struct {
		name   string
		query  string
		status int
		total  int
		ids    []string
	}{
		{"default", "", http.StatusOK, 3, []string{"E1", "E3", "E2"}},
		{"paged", "?skip=1&limit=1", http.StatusOK, 3, []string{"E3"}},
		{"department", "?department=sales", http.StatusOK, 1, []string{"E1"}},
		{"threshold", "?risk_threshold=0.2", http.StatusOK, 2, []string{"E1", "E3"}},
		{"negative skip", "?skip=-1", http.StatusBadRequest, 0, nil},
		{"threshold out of range", "?risk_threshold=2", http.StatusBadRequest, 0, nil},
		{"not a number", "?limit=ten", http.StatusBadRequest, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, http.MethodGet, "/api/employees"+tt.query, nil, "")
			require.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.status != http.StatusOK {
				assert.Equal(t, tt.status, decodeError(t, w).Code)
				return
			}
			var page schema.EmployeePage
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
			assert.Equal(t, tt.total, page.Total)
			var ids []string
			for _, e := range page.Employees {
				ids = append(ids, e.Employee.EmployeeID)
			}
			assert.Equal(t, tt.ids, ids)
		})
	}
}

func TestGetEmployee(t *testing.T) {
	r, _ := newTestRouter(t, testConfig(), true)

	w := doRequest(r, http.MethodGet, "/api/employees/E1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var e schema.ScoredEmployee
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	assert.Equal(t, "Ann Lee", e.Employee.Name)
	assert.Equal(t, schema.CriticalRisk, e.Assessment.RiskLevel)
	assert.Len(t, e.Interventions, 2)

	w = doRequest(r, http.MethodGet, "/api/employees/E404", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPredictEmployee(t *testing.T) {
	cfg := testConfig()
	r, mgr := newTestRouter(t, cfg, true)

	cfg.ComputedWeights = schema.MergeWeights(map[schema.RiskFactor]float64{schema.RemoteWorker: 0})
	w := doRequest(r, http.MethodPost, "/api/employees/E1/predict", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var predicted schema.ScoredEmployee
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &predicted))
	assert.InDelta(t, 0.80, predicted.Assessment.RiskScore, 1e-9)

	stored, err := core.GetEmployeeResult(context.Background(), mgr, "E1")
	require.NoError(t, err)
	assert.InDelta(t, 0.85, stored.Assessment.RiskScore, 1e-9)
}

func TestUpdateInterventionStatus(t *testing.T) {
	r, mgr := newTestRouter(t, testConfig(), true)

	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"ok", "/api/interventions/E1/0", `{"status":"completed"}`, http.StatusOK},
		{"bad seq", "/api/interventions/E1/x", `{"status":"completed"}`, http.StatusBadRequest},
		{"negative seq", "/api/interventions/E1/-1", `{"status":"completed"}`, http.StatusBadRequest},
		{"missing status", "/api/interventions/E1/0", `{}`, http.StatusBadRequest},
		{"bad status", "/api/interventions/E1/0", `{"status":"done"}`, http.StatusBadRequest},
		{"unknown seq", "/api/interventions/E1/9", `{"status":"completed"}`, http.StatusNotFound},
		{"unknown employee", "/api/interventions/E404/0", `{"status":"completed"}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, http.MethodPatch, tt.path, bytes.NewBufferString(tt.body), "application/json")
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}

	list, err := core.GetInterventionsResults(context.Background(), testConfig(), mgr)
	require.NoError(t, err)
	assert.Equal(t, schema.CompletedStatus, list.Interventions[0].Status)

	w := doRequest(r, http.MethodGet, "/api/interventions", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"completed"`)
}

func TestUploadEmployees(t *testing.T) {
	r, mgr := newTestRouter(t, testConfig(), false)

	body, contentType := multipartBody(t, "roster.csv", roster)
	w := doRequest(r, http.MethodPost, "/api/upload/employees", body, contentType)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var record schema.BatchRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &record))
	assert.Equal(t, 3, record.Total)
	assert.Equal(t, "api:roster.csv", record.Source)

	body, contentType = multipartBody(t, "broken.csv", "employee_id,name\n")
	w = doRequest(r, http.MethodPost, "/api/upload/employees", body, contentType)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// the failed upload leaves the first batch in place
	history, err := core.GetHistoryResults(context.Background(), mgr)
	require.NoError(t, err)
	require.Len(t, history.Batches, 1)
	assert.Equal(t, record.BatchID, history.Batches[0].BatchID)

	w = doRequest(r, http.MethodPost, "/api/upload/employees", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadEmployeesXLSX(t *testing.T) {
	r, _ := newTestRouter(t, testConfig(), false)

	var xlsx bytes.Buffer
	require.NoError(t, ingest.WriteTemplateXLSX(&xlsx))
	body, contentType := multipartBody(t, "template.xlsx", xlsx.String())
	w := doRequest(r, http.MethodPost, "/api/upload/employees", body, contentType)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"total":2`)
}

func TestUploadRateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = 1
	cfg.RateBurst = 1
	r, _ := newTestRouter(t, cfg, false)

	var codes []int
	for range 3 {
		body, contentType := multipartBody(t, "roster.csv", roster)
		codes = append(codes, doRequest(r, http.MethodPost, "/api/upload/employees", body, contentType).Code)
	}
	assert.Equal(t, http.StatusCreated, codes[0])
	assert.Equal(t, http.StatusTooManyRequests, codes[2])

	// other routes are not limited
	w := doRequest(r, http.MethodGet, "/api/dashboard", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTemplate(t *testing.T) {
	r, _ := newTestRouter(t, testConfig(), false)

	w := doRequest(r, http.MethodGet, "/api/upload/template", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "employee_template.csv")
	assert.True(t, strings.HasPrefix(w.Body.String(), strings.Join(schema.CanonicalHeader, ",")))

	w = doRequest(r, http.MethodGet, "/api/upload/template?format=xlsx", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ingest.XLSXFormat, ingest.DetectFormat("", w.Body.Bytes()))
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("employee x: %w", contract.ErrNotFound), http.StatusNotFound},
		{contract.ErrNoBatch, http.StatusNotFound},
		{fmt.Errorf("%w: roster.csv: no data rows", ingest.ErrUnparseable), http.StatusBadRequest},
		{fmt.Errorf("%w: non-finite", core.ErrContractViolation), http.StatusUnprocessableEntity},
		{errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, statusFor(tt.err), tt.err.Error())
	}
}

func TestRateLimiterSweep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rl := NewRateLimiter(ctx, 1, 1)

	rl.getLimiter("10.0.0.1")
	rl.getLimiter("10.0.0.2")
	rl.limiters["10.0.0.1"].lastSeen = time.Now().Add(-10 * time.Minute)

	rl.sweep(time.Now())
	assert.NotContains(t, rl.limiters, "10.0.0.1")
	assert.Contains(t, rl.limiters, "10.0.0.2")
}
