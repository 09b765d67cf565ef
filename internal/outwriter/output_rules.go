package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/huangsam/retention/internal/contract"
	"github.com/huangsam/retention/schema"
)

// PrintRulesDefinitions displays the effective rule table after config overrides.
// This is a static display that does not require a stored batch.
func PrintRulesDefinitions(cfg *contract.Config) error {
	renderModel := buildRulesRenderModel(cfg)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, renderModel)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVRules(w, renderModel)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return errParquetUnsupported("rules")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return printRulesText(w, renderModel)
		}, "Wrote text")
	}
}

// buildRulesRenderModel constructs the complete render model with all processed data.
func buildRulesRenderModel(cfg *contract.Config) *schema.RulesRenderModel {
	groups := []schema.RuleGroup{
		{
			Name:      "engagement",
			Purpose:   "Disengaged employees are the most likely to leave",
			Condition: "engagement < 0.4 is low, engagement < 0.6 is moderate",
			Factors:   []schema.RiskFactor{schema.LowEngagement, schema.ModerateEngagement},
		},
		{
			Name:      "performance",
			Purpose:   "Struggling employees and disengaged top performers",
			Condition: "performance < 0.5, or performance > 0.85 with engagement < 0.5",
			Factors:   []schema.RiskFactor{schema.PerformanceIssues, schema.HighPerformerFlight},
		},
		{
			Name:      "tenure",
			Purpose:   "Early tenure and the mid-tenure itch",
			Condition: "tenure < 6 months, or 24 to 48 months (needs a hire date)",
			Factors:   []schema.RiskFactor{schema.NewEmployee, schema.MidTenureRisk},
		},
		{
			Name:      "promotion",
			Purpose:   "Stalled careers",
			Condition: "no promotion on record (needs a hire date), or last promotion > 18 months ago",
			Factors:   []schema.RiskFactor{schema.NoRecentPromotion, schema.PromotionOverdue},
		},
		{
			Name:      "location",
			Purpose:   "Remote workers have weaker ties to the team",
			Condition: "location is remote",
			Factors:   []schema.RiskFactor{schema.RemoteWorker},
		},
		{
			Name:      "salary",
			Purpose:   "Pay below the market reference of the department",
			Condition: fmt.Sprintf("salary < %.0f%% of the department market reference", schema.BelowMarketRatio*100),
			Factors:   []schema.RiskFactor{schema.BelowMarketSalary},
		},
	}

	weights := cfg.ComputedWeights
	if weights == nil {
		weights = schema.GetDefaultWeights()
	}
	withData := make([]schema.RuleGroupWithData, len(groups))
	for i, g := range groups {
		gw := make(map[schema.RiskFactor]float64, len(g.Factors))
		for _, f := range g.Factors {
			gw[f] = weights[f]
		}
		withData[i] = schema.RuleGroupWithData{RuleGroup: g, Weights: gw}
	}

	baselines := cfg.DepartmentBaselines
	if baselines == nil {
		baselines = schema.GetDefaultDepartmentBaselines()
	}
	salaries := cfg.MarketSalaries
	if salaries == nil {
		salaries = schema.GetDefaultMarketSalaries()
	}

	bands := make([]schema.BandDefinition, 0, len(schema.AllRiskLevels))
	for _, level := range schema.AllRiskLevels {
		bands = append(bands, bandDefinition(level))
	}

	return &schema.RulesRenderModel{
		Title:               "Retention Risk Rules",
		Description:         "Each rule group adds its weight when it fires. The department baseline is always added and the total is clamped to [0,1].",
		Groups:              withData,
		DepartmentBaselines: baselines,
		DefaultBaseline:     schema.DefaultDepartmentBaseline,
		MarketSalaries:      salaries,
		Bands:               bands,
		JitterEnabled:       cfg.JitterEnabled,
	}
}

// bandDefinition returns the lower score bound and window of a risk level.
func bandDefinition(level schema.RiskLevel) schema.BandDefinition {
	var minScore float64
	switch level {
	case schema.CriticalRisk:
		minScore = schema.CriticalThreshold
	case schema.HighRisk:
		minScore = schema.HighThreshold
	case schema.MediumRisk:
		minScore = schema.MediumThreshold
	}
	_, window := schema.ClassifyRisk(minScore)
	return schema.BandDefinition{Level: level, MinScore: minScore, Window: window}
}

// printRulesText displays the rules in human-readable text format.
func printRulesText(w io.Writer, m *schema.RulesRenderModel) error {
	var b strings.Builder
	fmt.Fprintf(&b, "🧮 %s\n", m.Title)
	fmt.Fprintf(&b, "%s\n\n", strings.Repeat("=", len(m.Title)+3))
	fmt.Fprintf(&b, "%s\n\n", m.Description)

	for _, g := range m.Groups {
		fmt.Fprintf(&b, "%s: %s\n", strings.ToUpper(g.Name), g.Purpose)
		fmt.Fprintf(&b, "   When: %s\n", g.Condition)
		for _, f := range g.Factors {
			fmt.Fprintf(&b, "   +%.2f %s\n", g.Weights[f], f)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "DEPARTMENT BASELINE (default %.2f)\n", m.DefaultBaseline)
	for _, dept := range slices.Sorted(maps.Keys(m.DepartmentBaselines)) {
		fmt.Fprintf(&b, "   %-20s %.2f\n", dept, m.DepartmentBaselines[dept])
	}
	b.WriteString("\nMARKET SALARIES\n")
	for _, dept := range slices.Sorted(maps.Keys(m.MarketSalaries)) {
		fmt.Fprintf(&b, "   %-20s %.0f\n", dept, m.MarketSalaries[dept])
	}

	b.WriteString("\nBANDS\n")
	for _, band := range m.Bands {
		fmt.Fprintf(&b, "   %-10s score >= %.2f, leaves within %s\n", band.Level, band.MinScore, band.Window)
	}
	if m.JitterEnabled {
		b.WriteString("\n⚠️  Jitter is enabled, scores are not reproducible across seeds\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// writeCSVRules writes one row per weighted entry of the rule table.
func writeCSVRules(w io.Writer, m *schema.RulesRenderModel) error {
	return writeCSVWithHeader(w, []string{"kind", "group", "key", "value"}, func(cw *csv.Writer) error {
		for _, g := range m.Groups {
			for _, f := range g.Factors {
				if err := cw.Write([]string{"weight", g.Name, string(f), fmt.Sprintf("%.4f", g.Weights[f])}); err != nil {
					return err
				}
			}
		}
		for _, dept := range slices.Sorted(maps.Keys(m.DepartmentBaselines)) {
			if err := cw.Write([]string{"baseline", "department", dept, fmt.Sprintf("%.4f", m.DepartmentBaselines[dept])}); err != nil {
				return err
			}
		}
		for _, dept := range slices.Sorted(maps.Keys(m.MarketSalaries)) {
			if err := cw.Write([]string{"market_salary", "salary", dept, fmt.Sprintf("%.2f", m.MarketSalaries[dept])}); err != nil {
				return err
			}
		}
		for _, band := range m.Bands {
			if err := cw.Write([]string{"band", string(band.Level), string(band.Window), fmt.Sprintf("%.2f", band.MinScore)}); err != nil {
				return err
			}
		}
		return nil
	})
}
