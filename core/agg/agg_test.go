package agg

import (
	"testing"
	"time"

	"github.com/huangsam/retention/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func employee(id, dept string, score float64, hire *time.Time) schema.ScoredEmployee {
	level, window := schema.ClassifyRisk(score)
	return schema.ScoredEmployee{
		Employee: schema.EmployeeRecord{EmployeeID: id, Name: "Name " + id, Department: dept, HireDate: hire},
		Assessment: schema.RiskAssessment{
			RiskScore:       score,
			RiskLevel:       level,
			DepartureWindow: window,
			RiskFactors:     []schema.RiskFactor{},
		},
	}
}

func date(y int, m time.Month) *time.Time {
	t := time.Date(y, m, 10, 0, 0, 0, 0, time.UTC)
	return &t
}

func fixture() []schema.ScoredEmployee {
	return []schema.ScoredEmployee{
		employee("E1", "Sales", 0.80, date(2024, time.January)),
		employee("E2", "Sales", 0.40, date(2024, time.January)),
		employee("E3", "Engineering", 0.10, date(2023, time.May)),
		employee("E4", "Zylon", 0.55, nil),
		employee("E5", "Engineering", 0.75, date(2024, time.March)),
		employee("E6", "sales", 0.20, nil),
		employee("E7", "Finance", 0.95, date(2022, time.December)),
	}
}

func TestSummarize(t *testing.T) {
	summary := Summarize(fixture(), Options{})

	assert.Equal(t, 7, summary.Total)
	assert.Equal(t, schema.BandCounts{Critical: 3, High: 1, Medium: 1, Low: 2}, summary.Bands)
	assert.Equal(t, summary.Total, summary.Bands.Total())
	assert.Equal(t, 3, summary.HighRiskCount)
	assert.InDelta(t, 0.5357, summary.AvgRiskScore, 1e-4)

	t.Run("top risk", func(t *testing.T) {
		require.Len(t, summary.TopRisk, 5)
		assert.Equal(t, "E7", summary.TopRisk[0].EmployeeID)
		assert.Equal(t, "E1", summary.TopRisk[1].EmployeeID)
		assert.Equal(t, "E5", summary.TopRisk[2].EmployeeID)
		assert.Equal(t, schema.CriticalRisk, summary.TopRisk[0].RiskLevel)
	})

	t.Run("departments by exact name", func(t *testing.T) {
		names := make([]string, len(summary.Departments))
		for i, d := range summary.Departments {
			names[i] = d.Department
		}
		assert.Equal(t, []string{"Engineering", "Finance", "Sales", "Zylon", "sales"}, names)

		sales := summary.Departments[2]
		assert.Equal(t, 2, sales.Count)
		assert.InDelta(t, 0.6, sales.AvgRiskScore, 1e-9)
		assert.Equal(t, 1, sales.HighRiskCount)
		assert.Equal(t, schema.BandCounts{Critical: 1, Medium: 1}, sales.Bands)
	})

	t.Run("trend by month", func(t *testing.T) {
		buckets := make([]string, len(summary.Trend))
		for i, p := range summary.Trend {
			buckets[i] = p.Bucket
		}
		assert.Equal(t, []string{"2022-12", "2023-05", "2024-01", "2024-03", UnknownBucket}, buckets)
		assert.Equal(t, 2, summary.Trend[2].Count)
		assert.Equal(t, 2, summary.Trend[4].Count)
	})
}

func TestSummarizeByYear(t *testing.T) {
	summary := Summarize(fixture(), Options{Granularity: schema.YearGranularity, TopN: 2})
	require.Len(t, summary.TopRisk, 2)

	buckets := make([]string, len(summary.Trend))
	for i, p := range summary.Trend {
		buckets[i] = p.Bucket
	}
	assert.Equal(t, []string{"2022", "2023", "2024", UnknownBucket}, buckets)
	assert.Equal(t, 3, summary.Trend[2].Count)
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil, Options{})

	assert.Equal(t, 0, summary.Total)
	assert.Equal(t, 0.0, summary.AvgRiskScore)
	assert.Equal(t, schema.BandCounts{}, summary.Bands)
	assert.Empty(t, summary.TopRisk)
	assert.Empty(t, summary.Departments)
	assert.Empty(t, summary.Trend)
}

func TestSummarizeDoesNotReorderInput(t *testing.T) {
	employees := fixture()
	_ = Summarize(employees, Options{})
	assert.Equal(t, "E1", employees[0].Employee.EmployeeID)
	assert.Equal(t, "E7", employees[6].Employee.EmployeeID)
}

func TestSummarizeDeterministic(t *testing.T) {
	assert.Equal(t, Summarize(fixture(), Options{}), Summarize(fixture(), Options{}))
}

func TestHistoryTrend(t *testing.T) {
	t1 := time.Date(2025, time.January, 1, 9, 30, 0, 0, time.UTC)
	t2 := t1.Add(48 * time.Hour)
	records := []schema.BatchRecord{
		{BatchID: "b2", CreatedAt: t2, Total: 4, Critical: 1, Low: 3, AvgRiskScore: 0.3},
		{BatchID: "b1", CreatedAt: t1, Total: 2, High: 2, AvgRiskScore: 0.6},
	}

	points := HistoryTrend(records)
	require.Len(t, points, 2)
	assert.Equal(t, "2025-01-01 09:30", points[0].Bucket)
	assert.Equal(t, 2, points[0].Count)
	assert.Equal(t, schema.BandCounts{High: 2}, points[0].Bands)
	assert.Equal(t, 0.3, points[1].AvgRiskScore)

	// Input order stays as given
	assert.Equal(t, "b2", records[0].BatchID)
	assert.Empty(t, HistoryTrend(nil))
}

func TestSnapshotOf(t *testing.T) {
	created := time.Date(2025, time.February, 2, 0, 0, 0, 0, time.UTC)
	batch := schema.Batch{ID: "batch-1", CreatedAt: created, Source: "roster.csv", Employees: fixture()}

	snap := SnapshotOf(batch)
	assert.Equal(t, "batch-1", snap.BatchID)
	assert.Equal(t, "roster.csv", snap.Source)
	assert.Equal(t, created, snap.CreatedAt)
	assert.Equal(t, 7, snap.Total)
	assert.Equal(t, snap.Total, snap.Critical+snap.High+snap.Medium+snap.Low)
}

// FuzzSummarizePartition checks that bands always partition the input.
func FuzzSummarizePartition(f *testing.F) {
	f.Add(0.1, 0.5, 0.9, "A", "B")
	f.Add(0.0, 0.25, 0.75, "", "")

	f.Fuzz(func(t *testing.T, s1, s2, s3 float64, d1, d2 string) {
		employees := []schema.ScoredEmployee{
			employee("1", d1, s1, nil),
			employee("2", d2, s2, date(2024, time.June)),
			employee("3", d1, s3, nil),
		}
		summary := Summarize(employees, Options{})
		assert.Equal(t, 3, summary.Bands.Total())

		var deptTotal int
		for _, d := range summary.Departments {
			deptTotal += d.Count
		}
		assert.Equal(t, 3, deptTotal)
	})
}
