package schema

import (
	"maps"
	"strings"
)

// Canonical field names, in template column order.
const (
	FieldEmployeeID        = "employee_id"
	FieldName              = "name"
	FieldEmail             = "email"
	FieldDepartment        = "department"
	FieldPosition          = "position"
	FieldHireDate          = "hire_date"
	FieldManagerID         = "manager_id"
	FieldLocation          = "location"
	FieldSalary            = "salary"
	FieldPerformanceScore  = "performance_score"
	FieldEngagementScore   = "engagement_score"
	FieldLastPromotionDate = "last_promotion_date"
)

// CanonicalHeader is the header row of the upload template.
var CanonicalHeader = []string{
	FieldEmployeeID,
	FieldName,
	FieldEmail,
	FieldDepartment,
	FieldPosition,
	FieldHireDate,
	FieldManagerID,
	FieldLocation,
	FieldSalary,
	FieldPerformanceScore,
	FieldEngagementScore,
	FieldLastPromotionDate,
}

// Record defaults applied by the normalizer.
const (
	DefaultDepartment = "Unassigned"
	DefaultLocation   = "HQ"
	DefaultScore      = 0.7
	RemoteLocation    = "remote"
)

// Scorer defaults that are not per-factor weights.
const (
	DefaultDepartmentBaseline = 0.15
	BelowMarketRatio          = 0.9
	DefaultJitterAmplitude    = 0.05
)

// GetDefaultWeights returns the additive contribution of each risk factor.
func GetDefaultWeights() map[RiskFactor]float64 {
	return map[RiskFactor]float64{
		LowEngagement:       0.35,
		ModerateEngagement:  0.15,
		PerformanceIssues:   0.25,
		HighPerformerFlight: 0.20,
		NewEmployee:         0.10,
		MidTenureRisk:       0.05,
		NoRecentPromotion:   0.10,
		PromotionOverdue:    0.15,
		RemoteWorker:        0.05,
		BelowMarketSalary:   0.05,
	}
}

// GetDefaultDepartmentBaselines returns the baseline risk per department.
// Keys are lower-cased; unknown departments use DefaultDepartmentBaseline.
func GetDefaultDepartmentBaselines() map[string]float64 {
	return map[string]float64{
		"engineering":      0.10,
		"product":          0.12,
		"sales":            0.20,
		"marketing":        0.15,
		"customer support": 0.20,
		"operations":       0.12,
		"finance":          0.08,
		"hr":               0.08,
	}
}

// GetDefaultMarketSalaries returns the annual market reference per department.
// Keys are lower-cased; departments without a reference get no salary adjustment.
func GetDefaultMarketSalaries() map[string]float64 {
	return map[string]float64{
		"engineering":      120000,
		"product":          115000,
		"sales":            75000,
		"marketing":        80000,
		"customer support": 50000,
		"operations":       65000,
		"finance":          90000,
		"hr":               70000,
	}
}

// LookupKey normalizes a department name for baseline and salary lookups.
func LookupKey(department string) string {
	return strings.ToLower(strings.TrimSpace(department))
}

// MergeWeights returns the defaults overridden by custom values.
func MergeWeights(custom map[RiskFactor]float64) map[RiskFactor]float64 {
	weights := GetDefaultWeights()
	maps.Copy(weights, custom)
	return weights
}

// MergeLookup returns defaults overridden by custom values, with keys normalized.
func MergeLookup(defaults, custom map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(defaults)+len(custom))
	for k, v := range defaults {
		out[LookupKey(k)] = v
	}
	for k, v := range custom {
		out[LookupKey(k)] = v
	}
	return out
}
