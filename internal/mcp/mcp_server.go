// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/retention/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Retention MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Retention Risk Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: get_summary ---
	s.AddTool(mcp.NewTool("get_summary",
		mcp.WithDescription("Summarize the retention risk of the stored roster: band counts, averages, top risk and departments."),
		mcp.WithString("department", mcp.Description("Only summarize this department (case-insensitive).")),
	), h.handleGetSummary)

	// --- 2. Tool: list_employees ---
	s.AddTool(mcp.NewTool("list_employees",
		mcp.WithDescription("List stored employees ranked by retention risk, highest first."),
		mcp.WithString("department", mcp.Description("Only list this department (case-insensitive).")),
		mcp.WithNumber("risk_threshold", mcp.Description("Minimum risk score between 0 and 1.")),
		mcp.WithNumber("skip", mcp.Description("Number of ranked employees to skip.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleListEmployees)

	// --- 3. Tool: get_employee ---
	s.AddTool(mcp.NewTool("get_employee",
		mcp.WithDescription("Get one stored employee with the score breakdown and recommended interventions."),
		mcp.WithString("employee_id", mcp.Description("The employee id from the roster."), mcp.Required()),
	), h.handleGetEmployee)

	// --- 4. Tool: score_employee ---
	s.AddTool(mcp.NewTool("score_employee",
		mcp.WithDescription("Score an ad-hoc employee record without storing it. Unknown fields are ignored."),
		mcp.WithString("employee_id", mcp.Description("Employee id.")),
		mcp.WithString("name", mcp.Description("Full name.")),
		mcp.WithString("department", mcp.Description("Department name.")),
		mcp.WithString("position", mcp.Description("Job title.")),
		mcp.WithString("location", mcp.Description("Work location, 'Remote' raises the remote worker factor.")),
		mcp.WithString("hire_date", mcp.Description("Hire date as YYYY-MM-DD.")),
		mcp.WithString("last_promotion_date", mcp.Description("Last promotion date as YYYY-MM-DD.")),
		mcp.WithNumber("salary", mcp.Description("Annual salary.")),
		mcp.WithNumber("performance_score", mcp.Description("Performance between 0 and 1 (or 0 to 100).")),
		mcp.WithNumber("engagement_score", mcp.Description("Engagement between 0 and 1 (or 0 to 100).")),
	), h.handleScoreEmployee)

	// --- 5. Tool: get_interventions ---
	s.AddTool(mcp.NewTool("get_interventions",
		mcp.WithDescription("List recommended interventions of the stored roster, highest risk employees first."),
		mcp.WithString("department", mcp.Description("Only list this department (case-insensitive).")),
	), h.handleGetInterventions)

	// --- 6. Tool: update_intervention_status ---
	s.AddTool(mcp.NewTool("update_intervention_status",
		mcp.WithDescription("Change the status of one intervention."),
		mcp.WithString("employee_id", mcp.Description("The employee id."), mcp.Required()),
		mcp.WithNumber("seq", mcp.Description("Position of the intervention in the employee's list, starting at 0."), mcp.Required()),
		mcp.WithString("status", mcp.Description("New status."), mcp.Required(), mcp.Enum("pending", "in_progress", "completed")),
	), h.handleUpdateInterventionStatus)

	// --- 7. Tool: get_history ---
	s.AddTool(mcp.NewTool("get_history",
		mcp.WithDescription("List every uploaded batch with its band counts and the trend across uploads."),
	), h.handleGetHistory)

	return s
}

// StartMCPServer starts the Retention MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
