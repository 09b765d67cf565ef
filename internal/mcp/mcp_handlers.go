package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/huangsam/retention/core"
	"github.com/huangsam/retention/internal/contract"
	"github.com/huangsam/retention/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// jsonResult marshals a result into an indented text payload.
func jsonResult(v any) *mcp.CallToolResult {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err))
	}
	return mcp.NewToolResultText(string(jsonData))
}

func (h *toolHandler) handleGetSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.Department = request.GetString("department", "")

	summary, err := core.GetSummaryResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("summary failed: %v", err)), nil
	}
	return jsonResult(summary), nil
}

func (h *toolHandler) handleListEmployees(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.Department = request.GetString("department", "")
	cfg.RiskThreshold = request.GetFloat("risk_threshold", 0)
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
	}
	if cfg.RiskThreshold < 0 || cfg.RiskThreshold > 1 {
		return mcp.NewToolResultError("risk_threshold must be between 0 and 1"), nil
	}
	skip := request.GetInt("skip", 0)
	if skip < 0 {
		return mcp.NewToolResultError("skip must not be negative"), nil
	}

	q := core.QueryFromConfig(cfg)
	q.Skip = skip
	page, err := core.GetEmployeesResults(core.WithSuppressHeader(ctx), h.mgr, q)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing failed: %v", err)), nil
	}
	return jsonResult(page), nil
}

func (h *toolHandler) handleGetEmployee(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := strings.TrimSpace(request.GetString("employee_id", ""))
	if id == "" {
		return mcp.NewToolResultError("employee_id is required"), nil
	}

	e, err := core.GetEmployeeResult(core.WithSuppressHeader(ctx), h.mgr, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("lookup failed: %v", err)), nil
	}
	return jsonResult(e), nil
}

func (h *toolHandler) handleScoreEmployee(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	row := make(schema.RawRow, len(schema.CanonicalHeader))
	for _, field := range schema.CanonicalHeader {
		if v, ok := args[field]; ok {
			row[field] = v
		}
	}

	scored, err := core.ScoreRow(core.WithSuppressHeader(ctx), row, h.baseCfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scoring failed: %v", err)), nil
	}
	return jsonResult(scored), nil
}

func (h *toolHandler) handleGetInterventions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.Department = request.GetString("department", "")

	list, err := core.GetInterventionsResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing failed: %v", err)), nil
	}
	return jsonResult(list), nil
}

func (h *toolHandler) handleUpdateInterventionStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := strings.TrimSpace(request.GetString("employee_id", ""))
	if id == "" {
		return mcp.NewToolResultError("employee_id is required"), nil
	}
	seq := request.GetInt("seq", -1)
	status := request.GetString("status", "")

	parsed, err := core.UpdateInterventionStatus(core.WithSuppressHeader(ctx), h.mgr, id, seq, status)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("update failed: %v", err)), nil
	}
	return jsonResult(map[string]any{
		"employee_id": id,
		"seq":         seq,
		"status":      parsed,
	}), nil
}

func (h *toolHandler) handleGetHistory(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	history, err := core.GetHistoryResults(core.WithSuppressHeader(ctx), h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("history failed: %v", err)), nil
	}
	return jsonResult(history), nil
}
