// Package schema has configs, models and rule tables for all parts of retention.
package schema

import "time"

// RawRow is one parsed spreadsheet row keyed by its header.
// Values are string, float64, int, bool or nil.
type RawRow map[string]any

// EmployeeRecord is one roster row normalized to the canonical shape.
// Optional fields are nil when the input did not carry a usable value.
type EmployeeRecord struct {
	EmployeeID        string     `json:"employee_id"`
	Name              string     `json:"name"`
	Email             string     `json:"email"`
	Department        string     `json:"department"`
	Position          string     `json:"position"`
	HireDate          *time.Time `json:"hire_date,omitempty"`
	ManagerID         string     `json:"manager_id,omitempty"`
	Location          string     `json:"location"`
	Salary            *float64   `json:"salary,omitempty"`
	PerformanceScore  float64    `json:"performance_score"`
	EngagementScore   float64    `json:"engagement_score"`
	LastPromotionDate *time.Time `json:"last_promotion_date,omitempty"`
}

// RiskAssessment is the scorer output attached to an EmployeeRecord.
type RiskAssessment struct {
	RiskScore       float64                  `json:"risk_score"`
	RiskFactors     []RiskFactor             `json:"risk_factors"`
	RiskLevel       RiskLevel                `json:"risk_level"`
	DepartureWindow DepartureWindow          `json:"departure_window"`
	Breakdown       map[BreakdownKey]float64 `json:"breakdown,omitempty"`
}

// HasFactor reports whether the factor was raised.
func (a RiskAssessment) HasFactor(f RiskFactor) bool {
	for _, factor := range a.RiskFactors {
		if factor == f {
			return true
		}
	}
	return false
}

// InterventionRecord is a recommended action for one employee.
// Seq is the position in that employee's list and identifies it for updates.
type InterventionRecord struct {
	EmployeeID  string             `json:"employee_id"`
	Seq         int                `json:"seq"`
	Action      string             `json:"action"`
	Description string             `json:"description"`
	Priority    Priority           `json:"priority"`
	Timeline    string             `json:"timeline"`
	Owner       string             `json:"owner"`
	Type        InterventionType   `json:"type"`
	Status      InterventionStatus `json:"status"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// ScoredEmployee bundles a record with its assessment and interventions.
type ScoredEmployee struct {
	Employee      EmployeeRecord       `json:"employee"`
	Assessment    RiskAssessment       `json:"assessment"`
	Interventions []InterventionRecord `json:"interventions"`
}

// Batch is one upload worth of scored employees, persisted as a unit.
type Batch struct {
	ID        string           `json:"id"`
	CreatedAt time.Time        `json:"created_at"`
	Source    string           `json:"source"`
	AsOf      time.Time        `json:"as_of"`
	Employees []ScoredEmployee `json:"employees"`
}

// FindEmployee returns the scored employee with the given id.
func (b Batch) FindEmployee(employeeID string) (ScoredEmployee, bool) {
	for _, e := range b.Employees {
		if e.Employee.EmployeeID == employeeID {
			return e, true
		}
	}
	return ScoredEmployee{}, false
}

// BatchRecord is the snapshot kept for every saved batch.
type BatchRecord struct {
	BatchID      string    `json:"batch_id"`
	CreatedAt    time.Time `json:"created_at"`
	Source       string    `json:"source"`
	Total        int       `json:"total"`
	Critical     int       `json:"critical"`
	High         int       `json:"high"`
	Medium       int       `json:"medium"`
	Low          int       `json:"low"`
	AvgRiskScore float64   `json:"avg_risk_score"`
}

// DepartmentRollup summarizes one department.
type DepartmentRollup struct {
	Department    string     `json:"department"`
	Count         int        `json:"count"`
	AvgRiskScore  float64    `json:"avg_risk_score"`
	HighRiskCount int        `json:"high_risk_count"`
	Bands         BandCounts `json:"bands"`
}

// TrendPoint is one bucket of the trend series.
type TrendPoint struct {
	Bucket       string     `json:"bucket"`
	Count        int        `json:"count"`
	AvgRiskScore float64    `json:"avg_risk_score"`
	Bands        BandCounts `json:"bands"`
}

// RiskHighlight is a compact view of one high risk employee.
type RiskHighlight struct {
	EmployeeID  string       `json:"employee_id"`
	Name        string       `json:"name"`
	Department  string       `json:"department"`
	RiskScore   float64      `json:"risk_score"`
	RiskLevel   RiskLevel    `json:"risk_level"`
	RiskFactors []RiskFactor `json:"risk_factors"`
}

// DashboardSummary is recomputed on demand from a batch.
type DashboardSummary struct {
	Total         int                `json:"total"`
	Bands         BandCounts         `json:"bands"`
	AvgRiskScore  float64            `json:"avg_risk_score"`
	HighRiskCount int                `json:"high_risk_count"`
	TopRisk       []RiskHighlight    `json:"top_risk"`
	Departments   []DepartmentRollup `json:"departments"`
	Trend         []TrendPoint       `json:"trend"`
}
