package mcp_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/retention/core"
	"github.com/huangsam/retention/internal/contract"
	mcp_internal "github.com/huangsam/retention/internal/mcp"
	"github.com/huangsam/retention/internal/store"
	"github.com/huangsam/retention/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const roster = `employee_id,name,department,engagement_score,performance_score,location
E1,Ann Lee,Sales,0.3,0.4,Remote
E2,Bob Ray,Zylon,,,
E3,Cy Dunn,Engineering,0.5,0.8,HQ
`

func testContext() context.Context {
	return core.WithClock(context.Background(), func() time.Time {
		return time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	})
}

func newTestServer(t *testing.T, seeded bool) *server.MCPServer {
	t.Helper()
	cfg := contract.NewDefaultConfig()
	cfg.AsOf = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	mgr := store.NewManager(store.NewMemoryStore())
	if seeded {
		_, err := core.ImportReader(testContext(), cfg, mgr, strings.NewReader(roster), "roster.csv", "test")
		require.NoError(t, err)
	}
	return mcp_internal.NewMCPServer(cfg, mgr)
}

func callTool(t *testing.T, s *server.MCPServer, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
	res, err := tool.Handler(testContext(), req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotNil(t, res)
	return res
}

func resultText(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	s := newTestServer(t, true)

	t.Run("get_employee missing id", func(t *testing.T) {
		res := callTool(t, s, "get_employee", map[string]any{"employee_id": "  "})
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, resultText(res), "employee_id is required")
	})

	t.Run("get_employee unknown id", func(t *testing.T) {
		res := callTool(t, s, "get_employee", map[string]any{"employee_id": "E404"})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "not found")
	})

	t.Run("list_employees bad threshold", func(t *testing.T) {
		res := callTool(t, s, "list_employees", map[string]any{"risk_threshold": 1.5})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "risk_threshold must be between 0 and 1")
	})

	t.Run("update_intervention_status bad status", func(t *testing.T) {
		res := callTool(t, s, "update_intervention_status", map[string]any{
			"employee_id": "E1",
			"seq":         0.0,
			"status":      "done",
		})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "invalid status")
	})

	t.Run("update_intervention_status missing seq", func(t *testing.T) {
		res := callTool(t, s, "update_intervention_status", map[string]any{
			"employee_id": "E1",
			"status":      "completed",
		})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "not found")
	})
}

func TestMCPServerHandlers_NoBatch(t *testing.T) {
	s := newTestServer(t, false)

	res := callTool(t, s, "get_summary", nil)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(res), "no batch")

	res = callTool(t, s, "get_history", nil)
	require.False(t, res.IsError)
	var history schema.HistoryResult
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &history))
	assert.Empty(t, history.Batches)
}

func TestMCPServerHandlers_Results(t *testing.T) {
	s := newTestServer(t, true)

	t.Run("get_summary", func(t *testing.T) {
		res := callTool(t, s, "get_summary", map[string]any{"department": "sales"})
		require.False(t, res.IsError, resultText(res))
		var summary schema.DashboardSummary
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &summary))
		assert.Equal(t, 1, summary.Total)
		assert.Equal(t, 1, summary.HighRiskCount)
	})

	t.Run("list_employees", func(t *testing.T) {
		res := callTool(t, s, "list_employees", map[string]any{"skip": 1.0, "limit": 1.0})
		require.False(t, res.IsError, resultText(res))
		var page schema.EmployeePage
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &page))
		assert.Equal(t, 3, page.Total)
		require.Len(t, page.Employees, 1)
		assert.Equal(t, "E3", page.Employees[0].Employee.EmployeeID)
		assert.Equal(t, 2, page.Employees[0].Rank)
	})

	t.Run("get_employee", func(t *testing.T) {
		res := callTool(t, s, "get_employee", map[string]any{"employee_id": "E1"})
		require.False(t, res.IsError, resultText(res))
		var e schema.ScoredEmployee
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &e))
		assert.Equal(t, schema.CriticalRisk, e.Assessment.RiskLevel)
		assert.Len(t, e.Interventions, 2)
	})

	t.Run("score_employee", func(t *testing.T) {
		res := callTool(t, s, "score_employee", map[string]any{
			"employee_id":       "X1",
			"department":        "Sales",
			"engagement_score":  0.3,
			"performance_score": 0.4,
			"location":          "Remote",
			"unknown_field":     "ignored",
		})
		require.False(t, res.IsError, resultText(res))
		var e schema.ScoredEmployee
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &e))
		assert.Equal(t, "X1", e.Employee.EmployeeID)
		assert.InDelta(t, 0.85, e.Assessment.RiskScore, 1e-9)
	})

	t.Run("update and list interventions", func(t *testing.T) {
		res := callTool(t, s, "update_intervention_status", map[string]any{
			"employee_id": "E1",
			"seq":         1.0,
			"status":      "in_progress",
		})
		require.False(t, res.IsError, resultText(res))
		assert.Contains(t, resultText(res), "in_progress")

		res = callTool(t, s, "get_interventions", nil)
		require.False(t, res.IsError, resultText(res))
		var list schema.InterventionList
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &list))
		require.Len(t, list.Interventions, 2)
		assert.Equal(t, schema.InProgressStatus, list.Interventions[1].Status)
	})

	t.Run("get_history", func(t *testing.T) {
		res := callTool(t, s, "get_history", nil)
		require.False(t, res.IsError, resultText(res))
		var history schema.HistoryResult
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &history))
		require.Len(t, history.Batches, 1)
		assert.Equal(t, "test", history.Batches[0].Source)
	})
}
