package schema

// Custom string types for type safety.
type (
	// BreakdownKey represents keys used in scoring breakdowns.
	BreakdownKey string

	// OutputMode represents the format of the output.
	OutputMode string

	// RiskFactor is a named condition that contributed to a risk score.
	RiskFactor string

	// RiskLevel is the band derived from a risk score.
	RiskLevel string

	// DepartureWindow is the estimated departure timeframe derived from a risk score.
	DepartureWindow string

	// Priority represents the urgency of an intervention.
	Priority string

	// InterventionType categorizes an intervention.
	InterventionType string

	// InterventionStatus represents the progress of an intervention.
	InterventionStatus string

	// TrendGranularity controls how the trend series is bucketed.
	TrendGranularity string

	// DatabaseBackend represents the database backend for batch storage.
	DatabaseBackend string
)

// Breakdown keys used in the scoring logic. One per rule group.
const (
	BreakdownEngagement  BreakdownKey = "engagement"
	BreakdownPerformance BreakdownKey = "performance"
	BreakdownTenure      BreakdownKey = "tenure"
	BreakdownPromotion   BreakdownKey = "promotion"
	BreakdownDepartment  BreakdownKey = "department"
	BreakdownSalary      BreakdownKey = "salary"
	BreakdownLocation    BreakdownKey = "location"
	BreakdownJitter      BreakdownKey = "jitter"
)

// All risk factors the scorer can raise.
const (
	LowEngagement       RiskFactor = "low_engagement"
	ModerateEngagement  RiskFactor = "moderate_engagement"
	PerformanceIssues   RiskFactor = "performance_issues"
	HighPerformerFlight RiskFactor = "high_performer_flight"
	NewEmployee         RiskFactor = "new_employee"
	MidTenureRisk       RiskFactor = "mid_tenure_risk"
	NoRecentPromotion   RiskFactor = "no_recent_promotion"
	PromotionOverdue    RiskFactor = "promotion_overdue"
	RemoteWorker        RiskFactor = "remote_worker"
	BelowMarketSalary   RiskFactor = "below_market_salary"
)

// All risk levels, from highest to lowest.
const (
	CriticalRisk RiskLevel = "critical"
	HighRisk     RiskLevel = "high"
	MediumRisk   RiskLevel = "medium"
	LowRisk      RiskLevel = "low"
)

// All departure windows, aligned with the risk levels.
const (
	Window0To30    DepartureWindow = "0-30 days"
	Window30To60   DepartureWindow = "30-60 days"
	Window60To90   DepartureWindow = "60-90 days"
	WindowBeyond90 DepartureWindow = "90+ days"
)

// All intervention priorities.
const (
	CriticalPriority Priority = "critical"
	HighPriority     Priority = "high"
	MediumPriority   Priority = "medium"
	LowPriority      Priority = "low"
)

// All intervention types.
const (
	EngagementIntervention   InterventionType = "engagement"
	PerformanceIntervention  InterventionType = "performance"
	CareerIntervention       InterventionType = "career"
	CompensationIntervention InterventionType = "compensation"
	PromotionIntervention    InterventionType = "promotion"
	RetentionIntervention    InterventionType = "retention"
)

// All intervention statuses.
const (
	PendingStatus    InterventionStatus = "pending" // default
	InProgressStatus InterventionStatus = "in_progress"
	CompletedStatus  InterventionStatus = "completed"
)

// All trend granularities.
const (
	MonthGranularity TrendGranularity = "month" // default
	YearGranularity  TrendGranularity = "year"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All storage backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// AllRiskLevels lists the risk levels from highest to lowest.
var AllRiskLevels = []RiskLevel{CriticalRisk, HighRisk, MediumRisk, LowRisk}

// AllRiskFactors lists every factor in rule-evaluation order.
var AllRiskFactors = []RiskFactor{
	LowEngagement,
	ModerateEngagement,
	PerformanceIssues,
	HighPerformerFlight,
	NewEmployee,
	MidTenureRisk,
	NoRecentPromotion,
	PromotionOverdue,
	RemoteWorker,
	BelowMarketSalary,
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid storage backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidInterventionStatuses lists all valid intervention statuses.
var ValidInterventionStatuses = map[InterventionStatus]struct{}{
	PendingStatus:    {},
	InProgressStatus: {},
	CompletedStatus:  {},
}

// ValidTrendGranularities lists all valid trend granularities.
var ValidTrendGranularities = map[TrendGranularity]struct{}{
	MonthGranularity: {},
	YearGranularity:  {},
}
