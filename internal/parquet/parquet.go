// Package parquet provides data structures and functions for exporting retention
// batches to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/retention/schema"
	"github.com/parquet-go/parquet-go"
)

// Employee is one scored employee of a batch.
// This struct maps to the retention_employees database table.
type Employee struct {
	BatchID    string `parquet:"batch_id,snappy,dict"`
	EmployeeID string `parquet:"employee_id,snappy"`
	Name       string `parquet:"name,snappy"`
	Email      string `parquet:"email,snappy"`
	Department string `parquet:"department,snappy,dict"`
	Position   string `parquet:"position,snappy"`

	// HireDate is nil when the roster did not carry a usable date
	HireDate  *time.Time `parquet:"hire_date,optional,snappy"`
	ManagerID *string    `parquet:"manager_id,optional,snappy"`
	Location  string     `parquet:"location,snappy,dict"`
	Salary    *float64   `parquet:"salary,optional,snappy"`

	PerformanceScore  float64    `parquet:"performance_score,snappy"`
	EngagementScore   float64    `parquet:"engagement_score,snappy"`
	LastPromotionDate *time.Time `parquet:"last_promotion_date,optional,snappy"`

	RiskScore         float64  `parquet:"risk_score,snappy"`
	RiskLevel         string   `parquet:"risk_level,snappy,dict"`
	DepartureWindow   string   `parquet:"departure_window,snappy,dict"`
	RiskFactors       []string `parquet:"risk_factors,list"`
	InterventionCount int32    `parquet:"intervention_count,snappy"`
}

// Intervention is one recommended action.
// This struct maps to the retention_interventions database table.
type Intervention struct {
	BatchID     string    `parquet:"batch_id,snappy,dict"`
	EmployeeID  string    `parquet:"employee_id,snappy"`
	Seq         int32     `parquet:"seq,snappy"`
	Action      string    `parquet:"action,snappy,dict"`
	Description string    `parquet:"description,snappy"`
	Priority    string    `parquet:"priority,snappy,dict"`
	Timeline    string    `parquet:"timeline,snappy,dict"`
	Owner       string    `parquet:"owner,snappy,dict"`
	Type        string    `parquet:"intervention_type,snappy,dict"`
	Status      string    `parquet:"status,snappy,dict"`
	UpdatedAt   time.Time `parquet:"updated_at,snappy"`
}

// BatchSnapshot is the history row of one saved batch.
// This struct maps to the retention_batches database table.
type BatchSnapshot struct {
	BatchID      string    `parquet:"batch_id,snappy"`
	CreatedAt    time.Time `parquet:"created_at,snappy"`
	Source       string    `parquet:"source,snappy"`
	Total        int32     `parquet:"total,snappy"`
	Critical     int32     `parquet:"critical,snappy"`
	High         int32     `parquet:"high,snappy"`
	Medium       int32     `parquet:"medium,snappy"`
	Low          int32     `parquet:"low,snappy"`
	AvgRiskScore float64   `parquet:"avg_risk_score,snappy"`
}

// Write writes rows to w. The schema is derived from the struct tags of T.
func Write[T any](w io.Writer, data []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet data: %w", err)
	}
	return nil
}

// WriteFile writes rows to a new Parquet file at outputPath.
func WriteFile[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := Write(file, data); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// ConvertEmployees flattens the employees of a batch for Parquet export.
func ConvertEmployees(batchID string, employees []schema.ScoredEmployee) []Employee {
	result := make([]Employee, len(employees))
	for i, se := range employees {
		e, a := se.Employee, se.Assessment
		var manager *string
		if e.ManagerID != "" {
			m := e.ManagerID
			manager = &m
		}
		factors := make([]string, len(a.RiskFactors))
		for j, f := range a.RiskFactors {
			factors[j] = string(f)
		}
		result[i] = Employee{
			BatchID:           batchID,
			EmployeeID:        e.EmployeeID,
			Name:              e.Name,
			Email:             e.Email,
			Department:        e.Department,
			Position:          e.Position,
			HireDate:          e.HireDate,
			ManagerID:         manager,
			Location:          e.Location,
			Salary:            e.Salary,
			PerformanceScore:  e.PerformanceScore,
			EngagementScore:   e.EngagementScore,
			LastPromotionDate: e.LastPromotionDate,
			RiskScore:         a.RiskScore,
			RiskLevel:         string(a.RiskLevel),
			DepartureWindow:   string(a.DepartureWindow),
			RiskFactors:       factors,
			InterventionCount: int32(len(se.Interventions)),
		}
	}
	return result
}

// ConvertInterventions flattens intervention records for Parquet export.
func ConvertInterventions(batchID string, records []schema.InterventionRecord) []Intervention {
	result := make([]Intervention, len(records))
	for i, r := range records {
		result[i] = Intervention{
			BatchID:     batchID,
			EmployeeID:  r.EmployeeID,
			Seq:         int32(r.Seq),
			Action:      r.Action,
			Description: r.Description,
			Priority:    string(r.Priority),
			Timeline:    r.Timeline,
			Owner:       r.Owner,
			Type:        string(r.Type),
			Status:      string(r.Status),
			UpdatedAt:   r.UpdatedAt,
		}
	}
	return result
}

// ConvertBatchRecords converts history snapshots for Parquet export.
func ConvertBatchRecords(records []schema.BatchRecord) []BatchSnapshot {
	result := make([]BatchSnapshot, len(records))
	for i, r := range records {
		result[i] = BatchSnapshot{
			BatchID:      r.BatchID,
			CreatedAt:    r.CreatedAt,
			Source:       r.Source,
			Total:        int32(r.Total),
			Critical:     int32(r.Critical),
			High:         int32(r.High),
			Medium:       int32(r.Medium),
			Low:          int32(r.Low),
			AvgRiskScore: r.AvgRiskScore,
		}
	}
	return result
}
