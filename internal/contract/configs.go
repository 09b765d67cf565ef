package contract

import (
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/huangsam/retention/schema"
	"github.com/robfig/cron/v3"
)

// Default values for configuration.
const (
	DefaultResultLimit      = 25
	MaxResultLimit          = 1000
	DefaultPrecision        = 2
	MaxPrecision            = 4
	DefaultAddr             = ":8080"
	DefaultRateLimit        = 1.0
	DefaultRateBurst        = 5
	DefaultWatchSchedule    = "@every 1h"
	DefaultLogLevel         = "info"
	DefaultJitterSeed       = 42
	DefaultTargetVersion    = -1
	DefaultStoreBackend     = schema.SQLiteBackend
	DefaultTrendGranularity = schema.MonthGranularity
)

// DateFormat is the date representation used for as-of and exports.
var DateFormat = "2006-01-02"

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// WeightsRawInput holds the custom factor weights from the YAML config file.
// Use float64 pointers so that absent keys keep the defaults.
type WeightsRawInput struct {
	LowEngagement       *float64 `mapstructure:"low_engagement"`
	ModerateEngagement  *float64 `mapstructure:"moderate_engagement"`
	PerformanceIssues   *float64 `mapstructure:"performance_issues"`
	HighPerformerFlight *float64 `mapstructure:"high_performer_flight"`
	NewEmployee         *float64 `mapstructure:"new_employee"`
	MidTenureRisk       *float64 `mapstructure:"mid_tenure_risk"`
	NoRecentPromotion   *float64 `mapstructure:"no_recent_promotion"`
	PromotionOverdue    *float64 `mapstructure:"promotion_overdue"`
	RemoteWorker        *float64 `mapstructure:"remote_worker"`
	BelowMarketSalary   *float64 `mapstructure:"below_market_salary"`
}

// Config holds the runtime configuration.
// This struct remains the "final, validated" config.
type Config struct {
	ResultLimit int
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)
	UseColors   bool

	AsOf             time.Time // Zero means "now" at processing time
	Department       string
	RiskThreshold    float64
	TrendGranularity schema.TrendGranularity

	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext

	JitterEnabled   bool
	JitterAmplitude float64
	JitterSeed      uint64

	LogLevel string

	Addr          string
	RateLimit     float64
	RateBurst     int
	WatchFile     string
	WatchSchedule string

	// CustomWeights holds only the overrides from the config file
	CustomWeights map[schema.RiskFactor]float64

	// ComputedWeights is the final weight table, defaults + custom overrides
	ComputedWeights map[schema.RiskFactor]float64

	// DepartmentBaselines and MarketSalaries are keyed by schema.LookupKey
	DepartmentBaselines map[string]float64
	MarketSalaries      map[string]float64
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Limit          int    `mapstructure:"limit"`
	Precision      int    `mapstructure:"precision"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Width          int    `mapstructure:"width"`
	Color          string `mapstructure:"color"`
	AsOf           string `mapstructure:"as-of"`
	StoreBackend   string `mapstructure:"store-backend"`
	StoreDBConnect string `mapstructure:"store-db-connect"`
	LogLevel       string `mapstructure:"log-level"`

	// --- Fields from listing commands ---
	Department       string  `mapstructure:"department"`
	RiskThreshold    float64 `mapstructure:"risk-threshold"`
	TrendGranularity string  `mapstructure:"trend-granularity"`

	// --- Jitter, config file or env only ---
	JitterEnabled   string  `mapstructure:"jitter-enabled"`
	JitterAmplitude float64 `mapstructure:"jitter-amplitude"`
	JitterSeed      uint64  `mapstructure:"jitter-seed"`

	// --- Fields from serveCmd.Flags() ---
	Addr          string  `mapstructure:"addr"`
	RateLimit     float64 `mapstructure:"rate-limit"`
	RateBurst     int     `mapstructure:"rate-burst"`
	WatchFile     string  `mapstructure:"watch-file"`
	WatchSchedule string  `mapstructure:"watch-schedule"`

	// --- Rule tables from config file ---
	Weights        WeightsRawInput    `mapstructure:"weights"`
	Departments    map[string]float64 `mapstructure:"departments"`
	MarketSalaries map[string]float64 `mapstructure:"market-salaries"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.CustomWeights != nil {
		clone.CustomWeights = maps.Clone(c.CustomWeights)
	}
	if c.ComputedWeights != nil {
		clone.ComputedWeights = maps.Clone(c.ComputedWeights)
	}
	if c.DepartmentBaselines != nil {
		clone.DepartmentBaselines = maps.Clone(c.DepartmentBaselines)
	}
	if c.MarketSalaries != nil {
		clone.MarketSalaries = maps.Clone(c.MarketSalaries)
	}
	return &clone
}

// ReferenceTime returns the configured as-of date, or now when unset.
func (c *Config) ReferenceTime(now time.Time) time.Time {
	if c.AsOf.IsZero() {
		return now.UTC()
	}
	return c.AsOf
}

// NewDefaultConfig returns a validated config built only from defaults.
// Tests and library callers use it when there is no viper state.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	input := &ConfigRawInput{
		Limit:            DefaultResultLimit,
		Precision:        DefaultPrecision,
		Output:           string(schema.TextOut),
		Color:            "yes",
		StoreBackend:     string(schema.NoneBackend),
		LogLevel:         DefaultLogLevel,
		TrendGranularity: string(DefaultTrendGranularity),
		JitterEnabled:    "no",
		JitterSeed:       DefaultJitterSeed,
		Addr:             DefaultAddr,
		RateLimit:        DefaultRateLimit,
		RateBurst:        DefaultRateBurst,
		WatchSchedule:    DefaultWatchSchedule,
	}
	if err := ProcessAndValidate(cfg, input); err != nil {
		panic(err) // defaults must always validate
	}
	return cfg
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processAsOf(cfg, input); err != nil {
		return err
	}
	if err := processJitter(cfg, input); err != nil {
		return err
	}
	if err := processServer(cfg, input); err != nil {
		return err
	}
	if err := processCustomWeights(cfg, input); err != nil {
		return err
	}
	if err := processLookups(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates the store backend configuration.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.StoreBackend = schema.DatabaseBackend(strings.ToLower(input.StoreBackend))
	if cfg.StoreBackend == "" {
		cfg.StoreBackend = DefaultStoreBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", input.StoreBackend)
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	return ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreDBConnect)
}

// validateSimpleInputs processes and validates the output and listing fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Department = strings.TrimSpace(input.Department)
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(input.LogLevel))
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	if input.Precision < 1 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 1 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", cfg.Output)
	}

	if input.RiskThreshold < 0 || input.RiskThreshold > 1 {
		return fmt.Errorf("risk-threshold must be between 0.0 and 1.0 (received %.2f)", input.RiskThreshold)
	}
	cfg.RiskThreshold = input.RiskThreshold

	cfg.TrendGranularity = schema.TrendGranularity(strings.ToLower(input.TrendGranularity))
	if cfg.TrendGranularity == "" {
		cfg.TrendGranularity = DefaultTrendGranularity
	}
	if _, ok := schema.ValidTrendGranularities[cfg.TrendGranularity]; !ok {
		return fmt.Errorf("invalid trend granularity '%s'. must be month, year", input.TrendGranularity)
	}

	return nil
}

// processAsOf parses the reference date used for tenure arithmetic.
func processAsOf(cfg *Config, input *ConfigRawInput) error {
	if strings.TrimSpace(input.AsOf) == "" {
		cfg.AsOf = time.Time{}
		return nil
	}
	t, err := parseAsOf(input.AsOf, time.Now())
	if err != nil {
		return err
	}
	cfg.AsOf = t
	return nil
}

// processJitter handles the optional demo jitter. It is off unless enabled explicitly.
func processJitter(cfg *Config, input *ConfigRawInput) error {
	enabled := false
	if input.JitterEnabled != "" {
		v, err := ParseBoolString(input.JitterEnabled)
		if err != nil {
			return fmt.Errorf("invalid jitter-enabled value: %w", err)
		}
		enabled = v
	}
	cfg.JitterEnabled = enabled

	amplitude := input.JitterAmplitude
	if amplitude == 0 {
		amplitude = schema.DefaultJitterAmplitude
	}
	if amplitude < 0 || amplitude > 0.5 {
		return fmt.Errorf("jitter-amplitude must be between 0.0 and 0.5 (received %.3f)", amplitude)
	}
	cfg.JitterAmplitude = amplitude
	cfg.JitterSeed = input.JitterSeed
	return nil
}

// processServer validates the REST server and scheduler settings.
func processServer(cfg *Config, input *ConfigRawInput) error {
	cfg.Addr = strings.TrimSpace(input.Addr)
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if input.RateLimit < 0 {
		return fmt.Errorf("rate-limit must not be negative (received %.2f)", input.RateLimit)
	}
	cfg.RateLimit = input.RateLimit
	if input.RateBurst < 0 {
		return fmt.Errorf("rate-burst must not be negative (received %d)", input.RateBurst)
	}
	cfg.RateBurst = input.RateBurst
	if cfg.RateLimit > 0 && cfg.RateBurst == 0 {
		cfg.RateBurst = 1
	}
	cfg.WatchFile = strings.TrimSpace(input.WatchFile)
	cfg.WatchSchedule = strings.TrimSpace(input.WatchSchedule)
	if cfg.WatchSchedule == "" {
		cfg.WatchSchedule = DefaultWatchSchedule
	}
	if _, err := cron.ParseStandard(cfg.WatchSchedule); err != nil {
		return fmt.Errorf("invalid watch-schedule '%s': %w", cfg.WatchSchedule, err)
	}
	return nil
}

// ProcessWeightsRawInput converts WeightsRawInput into a map holding only the provided weights.
// Each weight must be within [0,1].
func ProcessWeightsRawInput(weights WeightsRawInput) (map[schema.RiskFactor]float64, error) {
	raw := map[schema.RiskFactor]*float64{
		schema.LowEngagement:       weights.LowEngagement,
		schema.ModerateEngagement:  weights.ModerateEngagement,
		schema.PerformanceIssues:   weights.PerformanceIssues,
		schema.HighPerformerFlight: weights.HighPerformerFlight,
		schema.NewEmployee:         weights.NewEmployee,
		schema.MidTenureRisk:       weights.MidTenureRisk,
		schema.NoRecentPromotion:   weights.NoRecentPromotion,
		schema.PromotionOverdue:    weights.PromotionOverdue,
		schema.RemoteWorker:        weights.RemoteWorker,
		schema.BelowMarketSalary:   weights.BelowMarketSalary,
	}

	result := make(map[schema.RiskFactor]float64)
	for _, factor := range schema.AllRiskFactors {
		v := raw[factor]
		if v == nil {
			continue
		}
		if *v < 0 || *v > 1 {
			return nil, fmt.Errorf("weight for %s must be between 0.0 and 1.0, got %.3f", factor, *v)
		}
		result[factor] = *v
	}
	return result, nil
}

// processCustomWeights converts the raw input into cfg.CustomWeights and
// computes the final ComputedWeights table.
func processCustomWeights(cfg *Config, input *ConfigRawInput) error {
	weights, err := ProcessWeightsRawInput(input.Weights)
	if err != nil {
		return err
	}
	cfg.CustomWeights = weights
	cfg.ComputedWeights = schema.MergeWeights(weights)
	return nil
}

// processLookups merges the department baselines and market salaries with the defaults.
func processLookups(cfg *Config, input *ConfigRawInput) error {
	for dept, baseline := range input.Departments {
		if baseline < 0 || baseline > 1 {
			return fmt.Errorf("baseline for department %q must be between 0.0 and 1.0, got %.3f", dept, baseline)
		}
	}
	for dept, salary := range input.MarketSalaries {
		if salary <= 0 {
			return fmt.Errorf("market salary for department %q must be positive, got %.2f", dept, salary)
		}
	}
	cfg.DepartmentBaselines = schema.MergeLookup(schema.GetDefaultDepartmentBaselines(), input.Departments)
	cfg.MarketSalaries = schema.MergeLookup(schema.GetDefaultMarketSalaries(), input.MarketSalaries)
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}
