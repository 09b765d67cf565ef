package algo

import (
	"sort"
	"strings"

	"github.com/huangsam/retention/schema"
)

// Rank sorts employees by risk score in descending order and returns the
// top 'limit' employees. Ties are broken by employee id so the order is stable.
// A non-positive limit returns everything.
func Rank(employees []schema.ScoredEmployee, limit int) []schema.ScoredEmployee {
	sort.Slice(employees, func(i, j int) bool {
		si, sj := employees[i].Assessment.RiskScore, employees[j].Assessment.RiskScore
		if si != sj {
			return si > sj
		}
		return employees[i].Employee.EmployeeID < employees[j].Employee.EmployeeID
	})
	if limit > 0 && len(employees) > limit {
		return employees[:limit]
	}
	return employees
}

// FilterByDepartment keeps employees whose department matches, ignoring case.
// An empty department keeps everything.
func FilterByDepartment(employees []schema.ScoredEmployee, department string) []schema.ScoredEmployee {
	department = strings.TrimSpace(department)
	if department == "" {
		return employees
	}
	var out []schema.ScoredEmployee
	for _, e := range employees {
		if strings.EqualFold(e.Employee.Department, department) {
			out = append(out, e)
		}
	}
	return out
}

// FilterByMinScore keeps employees whose risk score is at least threshold.
func FilterByMinScore(employees []schema.ScoredEmployee, threshold float64) []schema.ScoredEmployee {
	if threshold <= 0 {
		return employees
	}
	var out []schema.ScoredEmployee
	for _, e := range employees {
		if e.Assessment.RiskScore >= threshold {
			out = append(out, e)
		}
	}
	return out
}
