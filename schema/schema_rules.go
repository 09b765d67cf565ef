package schema

// RuleGroup represents one group of scoring rules for display purposes.
type RuleGroup struct {
	Name      string       `json:"name"`
	Purpose   string       `json:"purpose"`
	Condition string       `json:"condition"`
	Factors   []RiskFactor `json:"factors"`
}

// RuleGroupWithData extends RuleGroup with the effective weights.
type RuleGroupWithData struct {
	RuleGroup
	Weights map[RiskFactor]float64 `json:"weights"`
}

// RulesRenderModel contains all processed data needed for displaying the rule table.
type RulesRenderModel struct {
	Title               string              `json:"title"`
	Description         string              `json:"description"`
	Groups              []RuleGroupWithData `json:"groups"`
	DepartmentBaselines map[string]float64  `json:"department_baselines"`
	DefaultBaseline     float64             `json:"default_baseline"`
	MarketSalaries      map[string]float64  `json:"market_salaries"`
	Bands               []BandDefinition    `json:"bands"`
	JitterEnabled       bool                `json:"jitter_enabled"`
}

// BandDefinition describes one risk band.
type BandDefinition struct {
	Level    RiskLevel       `json:"level"`
	MinScore float64         `json:"min_score"`
	Window   DepartureWindow `json:"window"`
}
