// Package agg has rollups over scored employees and stored batch history.
package agg

import (
	"sort"
	"time"

	"github.com/huangsam/retention/core/algo"
	"github.com/huangsam/retention/schema"
)

// DefaultTopN is the number of highlighted employees on the dashboard.
const DefaultTopN = 5

// UnknownBucket labels employees without a hire date in the trend series.
const UnknownBucket = "unknown"

// Options controls how a summary is built.
type Options struct {
	TopN        int
	Granularity schema.TrendGranularity
}

// accumulator collects counts and score totals for one group.
type accumulator struct {
	count    int
	sum      float64
	highRisk int
	bands    schema.BandCounts
}

func (a *accumulator) add(score float64) {
	a.count++
	a.sum += score
	a.bands.Add(schema.RiskLevelFor(score))
	if schema.IsHighRisk(score) {
		a.highRisk++
	}
}

func (a *accumulator) avg() float64 {
	if a.count == 0 {
		return 0
	}
	return algo.Round4(a.sum / float64(a.count))
}

// Summarize builds the dashboard summary. Band counts always partition the input.
func Summarize(employees []schema.ScoredEmployee, opts Options) schema.DashboardSummary {
	topN := opts.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}

	var total accumulator
	departments := make(map[string]*accumulator)
	buckets := make(map[string]*accumulator)

	for _, e := range employees {
		score := e.Assessment.RiskScore
		total.add(score)
		groupInto(departments, e.Employee.Department).add(score)
		groupInto(buckets, trendBucket(e.Employee.HireDate, opts.Granularity)).add(score)
	}

	return schema.DashboardSummary{
		Total:         total.count,
		Bands:         total.bands,
		AvgRiskScore:  total.avg(),
		HighRiskCount: total.highRisk,
		TopRisk:       topRisk(employees, topN),
		Departments:   departmentRollups(departments),
		Trend:         trendPoints(buckets),
	}
}

// HistoryTrend turns stored batch snapshots into a trend series, oldest first.
func HistoryTrend(records []schema.BatchRecord) []schema.TrendPoint {
	sorted := make([]schema.BatchRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	points := make([]schema.TrendPoint, 0, len(sorted))
	for _, r := range sorted {
		points = append(points, schema.TrendPoint{
			Bucket:       r.CreatedAt.UTC().Format("2006-01-02 15:04"),
			Count:        r.Total,
			AvgRiskScore: r.AvgRiskScore,
			Bands:        schema.BandCounts{Critical: r.Critical, High: r.High, Medium: r.Medium, Low: r.Low},
		})
	}
	return points
}

// SnapshotOf returns the history row for a batch.
func SnapshotOf(batch schema.Batch) schema.BatchRecord {
	summary := Summarize(batch.Employees, Options{})
	return schema.BatchRecord{
		BatchID:      batch.ID,
		CreatedAt:    batch.CreatedAt,
		Source:       batch.Source,
		Total:        summary.Total,
		Critical:     summary.Bands.Critical,
		High:         summary.Bands.High,
		Medium:       summary.Bands.Medium,
		Low:          summary.Bands.Low,
		AvgRiskScore: summary.AvgRiskScore,
	}
}

func groupInto(groups map[string]*accumulator, key string) *accumulator {
	acc, ok := groups[key]
	if !ok {
		acc = &accumulator{}
		groups[key] = acc
	}
	return acc
}

func trendBucket(hireDate *time.Time, granularity schema.TrendGranularity) string {
	if hireDate == nil {
		return UnknownBucket
	}
	if granularity == schema.YearGranularity {
		return hireDate.UTC().Format("2006")
	}
	return hireDate.UTC().Format("2006-01")
}

func topRisk(employees []schema.ScoredEmployee, n int) []schema.RiskHighlight {
	ranked := make([]schema.ScoredEmployee, len(employees))
	copy(ranked, employees)
	ranked = algo.Rank(ranked, n)

	out := make([]schema.RiskHighlight, 0, len(ranked))
	for _, e := range ranked {
		out = append(out, schema.RiskHighlight{
			EmployeeID:  e.Employee.EmployeeID,
			Name:        e.Employee.Name,
			Department:  e.Employee.Department,
			RiskScore:   e.Assessment.RiskScore,
			RiskLevel:   e.Assessment.RiskLevel,
			RiskFactors: e.Assessment.RiskFactors,
		})
	}
	return out
}

func departmentRollups(groups map[string]*accumulator) []schema.DepartmentRollup {
	out := make([]schema.DepartmentRollup, 0, len(groups))
	for name, acc := range groups {
		out = append(out, schema.DepartmentRollup{
			Department:    name,
			Count:         acc.count,
			AvgRiskScore:  acc.avg(),
			HighRiskCount: acc.highRisk,
			Bands:         acc.bands,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Department < out[j].Department })
	return out
}

func trendPoints(groups map[string]*accumulator) []schema.TrendPoint {
	out := make([]schema.TrendPoint, 0, len(groups))
	for bucket, acc := range groups {
		out = append(out, schema.TrendPoint{
			Bucket:       bucket,
			Count:        acc.count,
			AvgRiskScore: acc.avg(),
			Bands:        acc.bands,
		})
	}
	// Unknown goes last, the rest is chronological
	sort.Slice(out, func(i, j int) bool {
		if (out[i].Bucket == UnknownBucket) != (out[j].Bucket == UnknownBucket) {
			return out[j].Bucket == UnknownBucket
		}
		return out[i].Bucket < out[j].Bucket
	})
	return out
}
