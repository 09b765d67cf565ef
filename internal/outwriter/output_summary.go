package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/retention/internal/contract"
	"github.com/huangsam/retention/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintSummaryResults outputs the dashboard summary, dispatching based on the output format configured.
func PrintSummaryResults(summary schema.DashboardSummary, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, summary)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVSummary(w, summary, fmtFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return errParquetUnsupported("summary")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSummaryText(w, summary, cfg, fmtFloat, duration)
		}, "Wrote text")
	}
}

func writeSummaryText(w io.Writer, s schema.DashboardSummary, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	if _, err := fmt.Fprintf(w, "📊 Retention Risk Summary\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "=========================\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Employees: %d   High risk: %d   Average risk: %s\n\n",
		s.Total, s.HighRiskCount, fmtFloat(s.AvgRiskScore)); err != nil {
		return err
	}

	if err := writeBandTable(w, s.Bands, cfg); err != nil {
		return err
	}

	if len(s.TopRisk) > 0 {
		if _, err := fmt.Fprintln(w, "\nTop risk:"); err != nil {
			return err
		}
		table := tablewriter.NewWriter(w)
		table.Header([]string{"ID", "Name", "Department", "Score", "Label", "Factors"})
		var data [][]string
		for _, h := range s.TopRisk {
			data = append(data, []string{
				h.EmployeeID,
				contract.TruncateText(h.Name, GetMaxTableNameWidth(cfg)),
				h.Department,
				fmtFloat(h.RiskScore),
				riskLabel(h.RiskLevel, cfg),
				contract.TruncateText(formatFactors(h.RiskFactors, ", "), 40),
			})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
	}

	if len(s.Departments) > 0 {
		if _, err := fmt.Fprintln(w, "\nDepartments:"); err != nil {
			return err
		}
		if err := writeGroupTable(w, "Department", s.Departments, fmtFloat); err != nil {
			return err
		}
	}

	if len(s.Trend) > 0 {
		if _, err := fmt.Fprintf(w, "\nTrend by hire %s:\n", cfg.TrendGranularity); err != nil {
			return err
		}
		if err := writeTrendTable(w, "Bucket", s.Trend, fmtFloat); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "Completed in %v. Store backend: %s\n", duration, cfg.StoreBackend)
	return err
}

// writeBandTable renders the per level counts with their share of the total.
func writeBandTable(w io.Writer, bands schema.BandCounts, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Level", "Count", "Share"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	total := bands.Total()
	var data [][]string
	for _, level := range schema.AllRiskLevels {
		count := bands.Get(level)
		share := 0.0
		if total > 0 {
			share = float64(count) / float64(total) * 100
		}
		data = append(data, []string{riskLabel(level, cfg), strconv.Itoa(count), fmt.Sprintf("%.1f%%", share)})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func writeGroupTable(w io.Writer, title string, groups []schema.DepartmentRollup, fmtFloat func(float64) string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{title, "Count", "Avg", "High risk", "Critical", "High", "Medium", "Low"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	var data [][]string
	for _, g := range groups {
		data = append(data, []string{
			g.Department,
			strconv.Itoa(g.Count),
			fmtFloat(g.AvgRiskScore),
			strconv.Itoa(g.HighRiskCount),
			strconv.Itoa(g.Bands.Critical),
			strconv.Itoa(g.Bands.High),
			strconv.Itoa(g.Bands.Medium),
			strconv.Itoa(g.Bands.Low),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func writeTrendTable(w io.Writer, title string, points []schema.TrendPoint, fmtFloat func(float64) string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{title, "Count", "Avg", "Critical", "High", "Medium", "Low"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	var data [][]string
	for _, p := range points {
		data = append(data, []string{
			p.Bucket,
			strconv.Itoa(p.Count),
			fmtFloat(p.AvgRiskScore),
			strconv.Itoa(p.Bands.Critical),
			strconv.Itoa(p.Bands.High),
			strconv.Itoa(p.Bands.Medium),
			strconv.Itoa(p.Bands.Low),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeCSVSummary flattens the summary into one section-tagged table.
func writeCSVSummary(w io.Writer, s schema.DashboardSummary, fmtFloat func(float64) string) error {
	header := []string{"section", "key", "count", "avg_risk_score", "high_risk", "critical", "high", "medium", "low"}
	row := func(section, key string, count int, avg float64, highRisk int, b schema.BandCounts) []string {
		return []string{
			section,
			key,
			strconv.Itoa(count),
			fmtFloat(avg),
			strconv.Itoa(highRisk),
			strconv.Itoa(b.Critical),
			strconv.Itoa(b.High),
			strconv.Itoa(b.Medium),
			strconv.Itoa(b.Low),
		}
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		if err := cw.Write(row("total", "all", s.Total, s.AvgRiskScore, s.HighRiskCount, s.Bands)); err != nil {
			return err
		}
		for _, d := range s.Departments {
			if err := cw.Write(row("department", d.Department, d.Count, d.AvgRiskScore, d.HighRiskCount, d.Bands)); err != nil {
				return err
			}
		}
		for _, p := range s.Trend {
			if err := cw.Write(row("trend", p.Bucket, p.Count, p.AvgRiskScore, p.Bands.Critical, p.Bands)); err != nil {
				return err
			}
		}
		return nil
	})
}
