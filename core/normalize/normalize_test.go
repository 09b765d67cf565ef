package normalize

import (
	"testing"
	"time"

	"github.com/huangsam/retention/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRowDefaults(t *testing.T) {
	rec := NormalizeRow(4, schema.RawRow{})

	assert.Equal(t, "EMP0005", rec.EmployeeID)
	assert.Equal(t, "Employee 5", rec.Name)
	assert.Equal(t, "employee5@company.com", rec.Email)
	assert.Equal(t, schema.DefaultDepartment, rec.Department)
	assert.Equal(t, schema.DefaultLocation, rec.Location)
	assert.Equal(t, schema.DefaultScore, rec.PerformanceScore)
	assert.Equal(t, schema.DefaultScore, rec.EngagementScore)
	assert.Nil(t, rec.HireDate)
	assert.Nil(t, rec.LastPromotionDate)
	assert.Nil(t, rec.Salary)
	assert.Empty(t, rec.Position)
	assert.Empty(t, rec.ManagerID)
}

func TestNormalizeRowCanonical(t *testing.T) {
	rec := NormalizeRow(0, schema.RawRow{
		"employee_id":         "E100",
		"name":                "Ada Lovelace",
		"email":               "ada@example.com",
		"department":          "Engineering",
		"position":            "Staff Engineer",
		"hire_date":           "2020-03-15",
		"manager_id":          "M1",
		"location":            "Remote",
		"salary":              "125,000",
		"performance_score":   "0.92",
		"engagement_score":    0.45,
		"last_promotion_date": "2022-01-01",
	})

	assert.Equal(t, "E100", rec.EmployeeID)
	assert.Equal(t, "Ada Lovelace", rec.Name)
	assert.Equal(t, "Engineering", rec.Department)
	assert.Equal(t, "Staff Engineer", rec.Position)
	assert.Equal(t, "M1", rec.ManagerID)
	assert.Equal(t, "Remote", rec.Location)
	require.NotNil(t, rec.Salary)
	assert.Equal(t, 125000.0, *rec.Salary)
	assert.Equal(t, 0.92, rec.PerformanceScore)
	assert.Equal(t, 0.45, rec.EngagementScore)
	require.NotNil(t, rec.HireDate)
	assert.Equal(t, time.Date(2020, time.March, 15, 0, 0, 0, 0, time.UTC), *rec.HireDate)
	require.NotNil(t, rec.LastPromotionDate)
	assert.Equal(t, 2022, rec.LastPromotionDate.Year())
}

func TestNormalizeRowAlternateKeys(t *testing.T) {
	rec := NormalizeRow(0, schema.RawRow{
		"Employee Name": "Grace Hopper",
		"ID":            7.0,
		"Dept":          "Sales",
		"Start-Date":    "03/01/2021",
		"Engagement":    "85%",
	})

	assert.Equal(t, "Grace Hopper", rec.Name)
	assert.Equal(t, "7", rec.EmployeeID)
	assert.Equal(t, "Sales", rec.Department)
	require.NotNil(t, rec.HireDate)
	assert.Equal(t, time.March, rec.HireDate.Month())
	assert.InDelta(t, 0.85, rec.EngagementScore, 1e-9)
}

func TestNormalizeRowMalformed(t *testing.T) {
	rec := NormalizeRow(2, schema.RawRow{
		"employee_id":       "   ",
		"performance_score": "excellent",
		"engagement_score":  7.5,
		"salary":            "n/a",
		"hire_date":         "yesterday",
		"name":              nil,
	})

	assert.Equal(t, "EMP0003", rec.EmployeeID)
	assert.Equal(t, "Employee 3", rec.Name)
	assert.Equal(t, schema.DefaultScore, rec.PerformanceScore)
	assert.Equal(t, 1.0, rec.EngagementScore)
	assert.Nil(t, rec.Salary)
	assert.Nil(t, rec.HireDate)
}

func TestNormalizeDuplicateIDs(t *testing.T) {
	records := Normalize([]schema.RawRow{
		{"employee_id": "A"},
		{"employee_id": "A"},
		{"employee_id": "A-2"},
		{"employee_id": "A"},
		{},
	})

	require.Len(t, records, 5)
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.EmployeeID
	}
	assert.Equal(t, []string{"A", "A-2", "A-2-2", "A-3", "EMP0005"}, ids)
}

func TestNormalizeEmpty(t *testing.T) {
	assert.Empty(t, Normalize(nil))
}

func TestNormalizeKey(t *testing.T) {
	tests := map[string]string{
		"Employee ID":        "employee_id",
		"  hire-date ":       "hire_date",
		"\ufeffemployee_id":  "employee_id",
		"Performance  Score": "performance_score",
		"":                   "",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeKey(in), in)
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   any
		want float64
		ok   bool
	}{
		{"0.5", 0.5, true},
		{" $1,200.50 ", 1200.5, true},
		{"85%", 0.85, true},
		{42, 42, true},
		{int64(3), 3, true},
		{"NaN", 0, false},
		{"abc", 0, false},
		{true, 0, false},
		{nil, 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseNumber(tt.in)
		assert.Equal(t, tt.ok, ok, "%v", tt.in)
		if tt.ok {
			assert.InDelta(t, tt.want, got, 1e-9, "%v", tt.in)
		}
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(2023, time.July, 4, 0, 0, 0, 0, time.UTC)
	for _, in := range []any{"2023-07-04", "2023/07/04", "07/04/2023", "7/4/2023", "2023-07-04T00:00:00Z", "2023-07-04 00:00:00", 45111.0} {
		got, ok := ParseDate(in)
		require.True(t, ok, "%v", in)
		assert.Equal(t, want, got, "%v", in)
	}

	for _, in := range []any{"", "not a date", "2023-13-01", 0.0, -4.0, true} {
		_, ok := ParseDate(in)
		assert.False(t, ok, "%v", in)
	}
}

// FuzzNormalizeRow checks that any row yields a usable record.
func FuzzNormalizeRow(f *testing.F) {
	f.Add("E1", "0.3", "0.4", "2020-01-01", "50000")
	f.Add("", "abc", "120%", "garbage", "$1,000")
	f.Add(" ", "-1", "NaN", "45000", "Inf")

	f.Fuzz(func(t *testing.T, id, perf, eng, hire, salary string) {
		rec := NormalizeRow(0, schema.RawRow{
			"employee_id":       id,
			"performance_score": perf,
			"engagement_score":  eng,
			"hire_date":         hire,
			"salary":            salary,
		})
		assert.NotEmpty(t, rec.EmployeeID)
		assert.NotEmpty(t, rec.Name)
		assert.NotEmpty(t, rec.Email)
		assert.GreaterOrEqual(t, rec.PerformanceScore, 0.0)
		assert.LessOrEqual(t, rec.PerformanceScore, 1.0)
		assert.GreaterOrEqual(t, rec.EngagementScore, 0.0)
		assert.LessOrEqual(t, rec.EngagementScore, 1.0)
	})
}
