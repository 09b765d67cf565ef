package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/huangsam/retention/internal/contract"
	"github.com/huangsam/retention/internal/parquet"
	"github.com/huangsam/retention/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintEmployeeResults outputs one page of ranked employees, dispatching based on the output format configured.
func PrintEmployeeResults(page schema.EmployeePage, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, page)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForEmployees(w, page.Employees, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		scored := make([]schema.ScoredEmployee, len(page.Employees))
		for i, e := range page.Employees {
			scored[i] = e.ScoredEmployee
		}
		return writeParquet(parquet.ConvertEmployees(page.BatchID, scored), cfg)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeEmployeeTable(w, page, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
	return nil
}

// writeEmployeeTable generates and writes the human-readable employee table.
func writeEmployeeTable(w io.Writer, page schema.EmployeePage, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "ID", "Name", "Department", "Score", "Label", "Window", "Factors"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := GetMaxTableNameWidth(cfg)
	var data [][]string
	for _, e := range page.Employees {
		a := e.Assessment
		data = append(data, []string{
			strconv.Itoa(e.Rank),
			e.Employee.EmployeeID,
			contract.TruncateText(e.Employee.Name, nameWidth),
			contract.TruncateText(e.Employee.Department, 20),
			fmtFloat(a.RiskScore),
			riskLabel(a.RiskLevel, cfg),
			string(a.DepartureWindow),
			contract.TruncateText(formatFactors(a.RiskFactors, ", "), 40),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Showing %d of %d employees\n", len(page.Employees), page.Total); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Completed in %v. Store backend: %s\n", duration, cfg.StoreBackend); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForEmployees writes one row per employee with the full record.
func writeCSVResultsForEmployees(w io.Writer, employees []schema.EnrichedEmployee, fmtFloat func(float64) string) error {
	header := []string{
		"rank",
		"employee_id",
		"name",
		"email",
		"department",
		"position",
		"location",
		"hire_date",
		"manager_id",
		"salary",
		"performance_score",
		"engagement_score",
		"last_promotion_date",
		"risk_score",
		"label",
		"departure_window",
		"risk_factors",
		"interventions",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, e := range employees {
			rec := e.Employee
			a := e.Assessment
			row := []string{
				strconv.Itoa(e.Rank),
				rec.EmployeeID,
				rec.Name,
				rec.Email,
				rec.Department,
				rec.Position,
				rec.Location,
				formatOptionalDate(rec.HireDate),
				rec.ManagerID,
				formatOptionalFloat(rec.Salary, fmtFloat),
				fmtFloat(rec.PerformanceScore),
				fmtFloat(rec.EngagementScore),
				formatOptionalDate(rec.LastPromotionDate),
				fmtFloat(a.RiskScore),
				contract.GetPlainLabel(a.RiskLevel),
				string(a.DepartureWindow),
				formatFactors(a.RiskFactors, "|"),
				strconv.Itoa(len(e.Interventions)),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// PrintEmployeeDetail outputs one employee with its breakdown and interventions.
func PrintEmployeeDetail(e schema.ScoredEmployee, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, e)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVEmployeeDetail(w, e, fmtFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return errParquetUnsupported("employee detail")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeEmployeeDetailText(w, e, cfg, fmtFloat)
		}, "Wrote text")
	}
}

// breakdownEntry is one rule group contribution, used to order the breakdown.
type breakdownEntry struct {
	Key   schema.BreakdownKey
	Value float64
}

// sortedBreakdown orders contributions from largest to smallest, then by key.
func sortedBreakdown(breakdown map[schema.BreakdownKey]float64) []breakdownEntry {
	entries := make([]breakdownEntry, 0, len(breakdown))
	for k, v := range breakdown {
		entries = append(entries, breakdownEntry{Key: k, Value: v})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Value != entries[j].Value {
			return entries[i].Value > entries[j].Value
		}
		return entries[i].Key < entries[j].Key
	})
	return entries
}

func writeEmployeeDetailText(w io.Writer, e schema.ScoredEmployee, cfg *contract.Config, fmtFloat func(float64) string) error {
	rec := e.Employee
	a := e.Assessment
	lines := [][2]string{
		{"Employee", fmt.Sprintf("%s (%s)", rec.Name, rec.EmployeeID)},
		{"Email", rec.Email},
		{"Department", rec.Department},
		{"Position", rec.Position},
		{"Location", rec.Location},
		{"Manager", rec.ManagerID},
		{"Hire date", formatOptionalDate(rec.HireDate)},
		{"Last promotion", formatOptionalDate(rec.LastPromotionDate)},
		{"Salary", formatOptionalFloat(rec.Salary, fmtFloat)},
		{"Performance", fmtFloat(rec.PerformanceScore)},
		{"Engagement", fmtFloat(rec.EngagementScore)},
		{"Risk", fmt.Sprintf("%s %s (%s)", fmtFloat(a.RiskScore), riskLabel(a.RiskLevel, cfg), a.DepartureWindow)},
		{"Factors", formatFactors(a.RiskFactors, ", ")},
	}
	for _, line := range lines {
		if line[1] == "" {
			continue
		}
		if _, err := fmt.Fprintf(w, "%-15s %s\n", line[0]+":", line[1]); err != nil {
			return err
		}
	}

	if len(a.Breakdown) > 0 {
		if _, err := fmt.Fprintln(w, "\nBreakdown:"); err != nil {
			return err
		}
		for _, entry := range sortedBreakdown(a.Breakdown) {
			if _, err := fmt.Fprintf(w, "  %-12s %s\n", entry.Key, fmtFloat(entry.Value)); err != nil {
				return err
			}
		}
	}

	if len(e.Interventions) == 0 {
		_, err := fmt.Fprintln(w, "\nNo interventions recommended.")
		return err
	}
	if _, err := fmt.Fprintln(w, "\nInterventions:"); err != nil {
		return err
	}
	return writeInterventionTable(w, e.Interventions, cfg)
}

func writeCSVEmployeeDetail(w io.Writer, e schema.ScoredEmployee, fmtFloat func(float64) string) error {
	return writeCSVWithHeader(w, []string{"key", "value"}, func(cw *csv.Writer) error {
		rows := [][]string{
			{"employee_id", e.Employee.EmployeeID},
			{"name", e.Employee.Name},
			{"department", e.Employee.Department},
			{"risk_score", fmtFloat(e.Assessment.RiskScore)},
			{"risk_level", string(e.Assessment.RiskLevel)},
			{"departure_window", string(e.Assessment.DepartureWindow)},
			{"risk_factors", formatFactors(e.Assessment.RiskFactors, "|")},
		}
		for _, entry := range sortedBreakdown(e.Assessment.Breakdown) {
			rows = append(rows, []string{"breakdown_" + string(entry.Key), fmtFloat(entry.Value)})
		}
		for _, iv := range e.Interventions {
			rows = append(rows, []string{fmt.Sprintf("intervention_%d", iv.Seq), fmt.Sprintf("%s [%s, %s]", iv.Action, iv.Priority, iv.Status)})
		}
		return cw.WriteAll(rows)
	})
}
