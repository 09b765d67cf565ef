// Package algo has the retention risk rules: scoring, interventions and ranking.
package algo

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/huangsam/retention/schema"
)

// ErrNonFinite is returned when a record carries a NaN or infinite score.
var ErrNonFinite = errors.New("non-finite input")

// Rule cutoffs. Scores are compared after clamping to [0,1].
const (
	lowEngagementCutoff      = 0.4
	moderateEngagementCutoff = 0.6
	lowPerformanceCutoff     = 0.5
	highPerformerCutoff      = 0.85
	flightEngagementCutoff   = 0.5
	newEmployeeMonths        = 6
	midTenureMinMonths       = 24
	midTenureMaxMonths       = 48
	promotionOverdueMonths   = 18
)

// Jitter adds bounded uniform noise to scores. It is off unless configured.
type Jitter struct {
	amplitude float64
	mu        sync.Mutex
	rng       *rand.Rand
}

// NewJitter returns a seeded jitter source. A non-positive amplitude yields nil.
func NewJitter(seed uint64, amplitude float64) *Jitter {
	if amplitude <= 0 {
		return nil
	}
	return &Jitter{amplitude: amplitude, rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (j *Jitter) next() float64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	return (j.rng.Float64()*2 - 1) * j.amplitude
}

// ScoreOptions carries the rule tables and the reference date.
type ScoreOptions struct {
	AsOf                time.Time
	Weights             map[schema.RiskFactor]float64
	DepartmentBaselines map[string]float64
	MarketSalaries      map[string]float64
	Jitter              *Jitter
}

// DefaultScoreOptions returns the built-in rule tables evaluated at asOf.
func DefaultScoreOptions(asOf time.Time) ScoreOptions {
	return ScoreOptions{
		AsOf:                asOf,
		Weights:             schema.GetDefaultWeights(),
		DepartmentBaselines: schema.GetDefaultDepartmentBaselines(),
		MarketSalaries:      schema.GetDefaultMarketSalaries(),
	}
}

func (o ScoreOptions) weight(f schema.RiskFactor) float64 {
	if w, ok := o.Weights[f]; ok {
		return w
	}
	return schema.GetDefaultWeights()[f]
}

func (o ScoreOptions) baseline(department string) float64 {
	if b, ok := o.DepartmentBaselines[schema.LookupKey(department)]; ok {
		return b
	}
	return schema.DefaultDepartmentBaseline
}

// Score computes the risk assessment of one employee. Every rule group
// contributes independently and the sum is clamped to [0,1].
func Score(e schema.EmployeeRecord, opts ScoreOptions) (schema.RiskAssessment, error) {
	if !finite(e.EngagementScore) || !finite(e.PerformanceScore) || (e.Salary != nil && !finite(*e.Salary)) {
		return schema.RiskAssessment{}, fmt.Errorf("employee %s: %w", e.EmployeeID, ErrNonFinite)
	}
	engagement := clamp01(e.EngagementScore)
	performance := clamp01(e.PerformanceScore)

	// raw is summed in rule order; ranging over breakdown would not be repeatable.
	var raw float64
	var factors []schema.RiskFactor
	breakdown := make(map[schema.BreakdownKey]float64)
	raise := func(key schema.BreakdownKey, f schema.RiskFactor) {
		w := opts.weight(f)
		factors = append(factors, f)
		breakdown[key] += w
		raw += w
	}

	// Engagement
	switch {
	case engagement < lowEngagementCutoff:
		raise(schema.BreakdownEngagement, schema.LowEngagement)
	case engagement < moderateEngagementCutoff:
		raise(schema.BreakdownEngagement, schema.ModerateEngagement)
	}

	// Performance
	switch {
	case performance < lowPerformanceCutoff:
		raise(schema.BreakdownPerformance, schema.PerformanceIssues)
	case performance > highPerformerCutoff && engagement < flightEngagementCutoff:
		raise(schema.BreakdownPerformance, schema.HighPerformerFlight)
	}

	// Tenure and promotion both need a known hire date to mean anything
	if e.HireDate != nil {
		tenure := MonthsBetween(*e.HireDate, opts.AsOf)
		switch {
		case tenure < newEmployeeMonths:
			raise(schema.BreakdownTenure, schema.NewEmployee)
		case tenure >= midTenureMinMonths && tenure <= midTenureMaxMonths:
			raise(schema.BreakdownTenure, schema.MidTenureRisk)
		}
		if e.LastPromotionDate == nil {
			raise(schema.BreakdownPromotion, schema.NoRecentPromotion)
		}
	}
	if e.LastPromotionDate != nil && MonthsBetween(*e.LastPromotionDate, opts.AsOf) > promotionOverdueMonths {
		raise(schema.BreakdownPromotion, schema.PromotionOverdue)
	}

	if strings.EqualFold(strings.TrimSpace(e.Location), schema.RemoteLocation) {
		raise(schema.BreakdownLocation, schema.RemoteWorker)
	}

	if e.Salary != nil {
		market, ok := opts.MarketSalaries[schema.LookupKey(e.Department)]
		if ok && market > 0 && *e.Salary < market*schema.BelowMarketRatio {
			raise(schema.BreakdownSalary, schema.BelowMarketSalary)
		}
	}

	baseline := opts.baseline(e.Department)
	breakdown[schema.BreakdownDepartment] = baseline
	raw += baseline

	if opts.Jitter != nil {
		noise := opts.Jitter.next()
		breakdown[schema.BreakdownJitter] = noise
		raw += noise
	}

	score := Round4(clamp01(raw))
	level, window := schema.ClassifyRisk(score)

	if factors == nil {
		factors = []schema.RiskFactor{}
	}
	return schema.RiskAssessment{
		RiskScore:       score,
		RiskFactors:     factors,
		RiskLevel:       level,
		DepartureWindow: window,
		Breakdown:       breakdown,
	}, nil
}

// MonthsBetween counts whole calendar months from start to end.
// A start after end yields 0.
func MonthsBetween(start, end time.Time) int {
	start, end = start.UTC(), end.UTC()
	if !start.Before(end) {
		return 0
	}
	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if end.Day() < start.Day() {
		months--
	}
	return max(months, 0)
}

// Round4 rounds to four decimals so additive weights do not drift across band cutoffs.
func Round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
