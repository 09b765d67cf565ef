package schema

// Score cutoffs for the risk bands. Everything that needs a band goes
// through ClassifyRisk so the scorer and the aggregator never drift.
const (
	CriticalThreshold = 0.75
	HighThreshold     = 0.50
	MediumThreshold   = 0.25
)

// ClassifyRisk maps a risk score to its level and departure window.
func ClassifyRisk(score float64) (RiskLevel, DepartureWindow) {
	switch {
	case score >= CriticalThreshold:
		return CriticalRisk, Window0To30
	case score >= HighThreshold:
		return HighRisk, Window30To60
	case score >= MediumThreshold:
		return MediumRisk, Window60To90
	default:
		return LowRisk, WindowBeyond90
	}
}

// RiskLevelFor returns only the level part of ClassifyRisk.
func RiskLevelFor(score float64) RiskLevel {
	level, _ := ClassifyRisk(score)
	return level
}

// IsHighRisk reports whether a score falls in the critical band.
// This is the "high risk" count shown on the dashboard.
func IsHighRisk(score float64) bool {
	return RiskLevelFor(score) == CriticalRisk
}

// BandCounts holds the number of employees per risk level.
type BandCounts struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

// Add increments the counter for the given level.
func (b *BandCounts) Add(level RiskLevel) {
	switch level {
	case CriticalRisk:
		b.Critical++
	case HighRisk:
		b.High++
	case MediumRisk:
		b.Medium++
	default:
		b.Low++
	}
}

// Get returns the counter for the given level.
func (b BandCounts) Get(level RiskLevel) int {
	switch level {
	case CriticalRisk:
		return b.Critical
	case HighRisk:
		return b.High
	case MediumRisk:
		return b.Medium
	default:
		return b.Low
	}
}

// Total returns the sum of all bands.
func (b BandCounts) Total() int {
	return b.Critical + b.High + b.Medium + b.Low
}
