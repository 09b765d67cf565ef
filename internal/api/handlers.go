package api

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/huangsam/retention/core"
	"github.com/huangsam/retention/internal/contract"
	"github.com/huangsam/retention/internal/ingest"
)

// handler holds common dependencies for the route handlers.
type handler struct {
	cfg *contract.Config
	mgr contract.StoreManager
}

// employeeQuery is the query string of the employee listing.
type employeeQuery struct {
	Skip          int     `form:"skip" binding:"min=0"`
	Limit         int     `form:"limit" binding:"min=0,max=1000"`
	Department    string  `form:"department"`
	RiskThreshold float64 `form:"risk_threshold" binding:"min=0,max=1"`
}

type statusUpdate struct {
	Status string `json:"status" binding:"required"`
}

// GET /health
func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "retention", "backend": h.cfg.StoreBackend})
}

// GET /api/dashboard
func (h *handler) dashboard(c *gin.Context) {
	cfg := h.cfg.Clone()
	cfg.Department = c.Query("department")
	summary, err := core.GetSummaryResults(c.Request.Context(), cfg, h.mgr)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GET /api/employees
func (h *handler) listEmployees(c *gin.Context) {
	var req employeeQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	q := core.EmployeeQuery{
		Department: req.Department,
		MinScore:   req.RiskThreshold,
		Skip:       req.Skip,
		Limit:      req.Limit,
	}
	if q.Limit == 0 {
		q.Limit = h.cfg.ResultLimit
	}
	page, err := core.GetEmployeesResults(c.Request.Context(), h.mgr, q)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GET /api/employees/:id
func (h *handler) getEmployee(c *gin.Context) {
	e, err := core.GetEmployeeResult(c.Request.Context(), h.mgr, c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// POST /api/employees/:id/predict
func (h *handler) predictEmployee(c *gin.Context) {
	e, err := core.PredictEmployee(c.Request.Context(), h.cfg, h.mgr, c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// GET /api/analytics/trends
func (h *handler) trends(c *gin.Context) {
	history, err := core.GetHistoryResults(c.Request.Context(), h.mgr)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

// GET /api/interventions
func (h *handler) listInterventions(c *gin.Context) {
	cfg := h.cfg.Clone()
	cfg.Department = c.Query("department")
	list, err := core.GetInterventionsResults(c.Request.Context(), cfg, h.mgr)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// PATCH /api/interventions/:employee_id/:seq
func (h *handler) updateInterventionStatus(c *gin.Context) {
	seq, err := strconv.Atoi(c.Param("seq"))
	if err != nil || seq < 0 {
		badRequest(c, "seq must be a non-negative integer")
		return
	}
	var req statusUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if _, err := contract.ParseInterventionStatus(req.Status); err != nil {
		badRequest(c, err.Error())
		return
	}

	employeeID := c.Param("employee_id")
	status, err := core.UpdateInterventionStatus(c.Request.Context(), h.mgr, employeeID, seq, req.Status)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"employee_id": employeeID, "seq": seq, "status": status})
}

// POST /api/upload/employees
func (h *handler) uploadEmployees(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, fmt.Sprintf("multipart field 'file' is required: %v", err))
		return
	}
	f, err := fh.Open()
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	defer func() { _ = f.Close() }()

	name := filepath.Base(fh.Filename)
	record, err := core.ImportReader(c.Request.Context(), h.cfg, h.mgr, f, name, "api:"+name)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

// GET /api/upload/template
func (h *handler) template(c *gin.Context) {
	if c.Query("format") == "xlsx" {
		c.Header("Content-Disposition", `attachment; filename="employee_template.xlsx"`)
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Status(http.StatusOK)
		if err := ingest.WriteTemplateXLSX(c.Writer); err != nil {
			_ = c.Error(err)
		}
		return
	}
	c.Header("Content-Disposition", `attachment; filename="employee_template.csv"`)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Status(http.StatusOK)
	if err := ingest.WriteTemplate(c.Writer); err != nil {
		_ = c.Error(err)
	}
}
