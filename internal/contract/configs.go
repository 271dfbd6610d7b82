package contract

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/huangsam/trendscope/schema"
)

// Default values for configuration.
const (
	DefaultPrecision        = 1
	MaxPrecision            = 4
	DefaultBins             = 30
	MaxBins                 = 200
	DefaultAddr             = ":8501"
	DefaultExportName       = "sulbing_trend_data.csv"
	DefaultPrimaryPattern   = "설빙_search_trend_*.csv"
	DefaultPrimaryLabel     = "설빙"
	DefaultSecondaryPattern = "설빙 기프티콘_search_trend_*.csv"
	DefaultSecondaryLabel   = "설빙 기프티콘"
	DefaultDataDirs         = "data,naverapieda/data"
	DefaultYearOptions      = "2024,2025"
)

// Config holds the runtime configuration for trendscope.
// This struct is the "final, validated" config.
type Config struct {
	DataDirs  []string
	Primary   schema.SeriesSpec
	Secondary schema.SeriesSpec
	LatestBy  schema.SelectionPolicyName
	Align     schema.Alignment

	YearOptions []int
	Years       schema.YearSet
	Query       string

	By     schema.BucketKind
	Op     schema.ReduceOp
	Series schema.SeriesKey
	Bins   int

	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	Addr       string
	ExportName string
	PNGDir     string
	LogLevel   slog.Level

	RunBackend   schema.DatabaseBackend
	RunDBConnect string // Please use env var as this is plaintext
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	DataDirs         string `mapstructure:"data-dirs"`
	PrimaryPattern   string `mapstructure:"primary-pattern"`
	PrimaryLabel     string `mapstructure:"primary-label"`
	SecondaryPattern string `mapstructure:"secondary-pattern"`
	SecondaryLabel   string `mapstructure:"secondary-label"`
	LatestBy         string `mapstructure:"latest-by"`
	Align            string `mapstructure:"align"`
	YearOptions      string `mapstructure:"year-options"`
	Years            string `mapstructure:"years"`
	Precision        int    `mapstructure:"precision"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Width            int    `mapstructure:"width"`
	Color            string `mapstructure:"color"`
	RunBackend       string `mapstructure:"run-backend"`
	RunDBConnect     string `mapstructure:"run-db-connect"`
	LogLevel         string `mapstructure:"log-level"`

	// --- Fields from rowsCmd / exportCmd ---
	Query string `mapstructure:"query"`

	// --- Fields from breakdownCmd.Flags() ---
	By     string `mapstructure:"by"`
	Op     string `mapstructure:"op"`
	Series string `mapstructure:"series"`

	// --- Fields from chartsCmd.Flags() ---
	Bins   int    `mapstructure:"bins"`
	PNGDir string `mapstructure:"png-dir"`

	// --- Fields from serveCmd.Flags() ---
	Addr       string `mapstructure:"addr"`
	ExportName string `mapstructure:"export-name"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.DataDirs = slices.Clone(c.DataDirs)
	clone.YearOptions = slices.Clone(c.YearOptions)
	if c.Years != nil {
		clone.Years = schema.NewYearSet(c.Years.Sorted()...)
	}
	return &clone
}

// CloneWithYears creates a copy of the Config with a different year selection.
func (c *Config) CloneWithYears(years schema.YearSet) *Config {
	clone := c.Clone()
	clone.Years = years
	return clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processSeries(cfg, input); err != nil {
		return err
	}
	if err := processYears(cfg, input); err != nil {
		return err
	}
	if err := processBreakdown(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
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
			return fmt.Errorf("run-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("run-db-connect is required when using %s backend", backend)
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

// validateBackendConfigs validates the run history backend. An empty backend disables history.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.RunBackend = schema.DatabaseBackend(strings.ToLower(strings.TrimSpace(input.RunBackend)))
	if cfg.RunBackend == "" {
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.RunBackend]; !ok {
		return fmt.Errorf("invalid run backend '%s'. must be sqlite, mysql, postgresql, none", input.RunBackend)
	}
	cfg.RunDBConnect = input.RunDBConnect
	return ValidateDatabaseConnectionString(cfg.RunBackend, cfg.RunDBConnect)
}

// validateSimpleInputs processes and validates the output and server fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Query = input.Query
	cfg.PNGDir = input.PNGDir

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Precision and Output Validation ---
	if input.Precision < 0 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 0 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet, xlsx", input.Output)
	}
	if (cfg.Output == schema.ParquetOut || cfg.Output == schema.XLSXOut) && cfg.OutputFile == "" {
		return fmt.Errorf("%s output requires --output-file", cfg.Output)
	}

	if input.Width < 0 {
		return fmt.Errorf("width must not be negative (received %d)", input.Width)
	}
	cfg.Width = input.Width

	// --- 2. Server Validation ---
	cfg.Addr = strings.TrimSpace(input.Addr)
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	cfg.ExportName = strings.TrimSpace(input.ExportName)
	if cfg.ExportName == "" {
		cfg.ExportName = DefaultExportName
	}
	if strings.ContainsAny(cfg.ExportName, `/\"`) {
		return fmt.Errorf("export name %q must be a plain file name", cfg.ExportName)
	}

	level := strings.TrimSpace(input.LogLevel)
	if level == "" {
		level = "info"
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level '%s'. must be debug, info, warn, error", input.LogLevel)
	}
	return nil
}

// processSeries resolves data directories, file patterns and the loading policy.
func processSeries(cfg *Config, input *ConfigRawInput) error {
	cfg.DataDirs = splitList(input.DataDirs)
	if len(cfg.DataDirs) == 0 {
		return fmt.Errorf("data-dirs must name at least one directory")
	}

	cfg.Primary = schema.SeriesSpec{
		Key:     schema.PrimarySeries,
		Label:   orDefault(input.PrimaryLabel, DefaultPrimaryLabel),
		Pattern: orDefault(input.PrimaryPattern, DefaultPrimaryPattern),
	}
	cfg.Secondary = schema.SeriesSpec{
		Key:     schema.SecondarySeries,
		Label:   orDefault(input.SecondaryLabel, DefaultSecondaryLabel),
		Pattern: orDefault(input.SecondaryPattern, DefaultSecondaryPattern),
	}
	for _, spec := range []schema.SeriesSpec{cfg.Primary, cfg.Secondary} {
		if _, err := filepath.Match(spec.Pattern, ""); err != nil {
			return fmt.Errorf("invalid %s-pattern %q: %w", spec.Key, spec.Pattern, err)
		}
	}

	cfg.LatestBy = schema.SelectionPolicyName(strings.ToLower(orDefault(input.LatestBy, string(schema.LatestByName))))
	if _, ok := schema.ValidSelectionPolicies[cfg.LatestBy]; !ok {
		return fmt.Errorf("invalid latest-by '%s'. must be name, mtime", input.LatestBy)
	}

	cfg.Align = schema.Alignment(strings.ToLower(orDefault(input.Align, string(schema.TimestampAlign))))
	if _, ok := schema.ValidAlignments[cfg.Align]; !ok {
		return fmt.Errorf("invalid align '%s'. must be timestamp, position", input.Align)
	}
	return nil
}

// processYears parses the available years and the selected subset.
func processYears(cfg *Config, input *ConfigRawInput) error {
	options, err := ParseYearOptions(orDefault(input.YearOptions, DefaultYearOptions))
	if err != nil {
		return err
	}
	cfg.YearOptions = options

	years, err := SelectYears([]string{input.Years}, cfg.YearOptions)
	if err != nil {
		return err
	}
	cfg.Years = years
	return nil
}

// processBreakdown validates the bucketing, reduction and chart inputs.
func processBreakdown(cfg *Config, input *ConfigRawInput) error {
	cfg.By = schema.BucketKind(strings.ToLower(orDefault(input.By, string(schema.WeekdayBucket))))
	if _, ok := schema.ValidBucketKinds[cfg.By]; !ok {
		return fmt.Errorf("invalid bucket '%s'. must be weekday, month, quarter", input.By)
	}

	cfg.Op = schema.ReduceOp(strings.ToLower(orDefault(input.Op, string(schema.MeanOp))))
	if _, ok := schema.ValidReduceOps[cfg.Op]; !ok {
		return fmt.Errorf("invalid op '%s'. must be mean, sum", input.Op)
	}

	cfg.Series = schema.SeriesKey(strings.ToLower(orDefault(input.Series, string(schema.PrimarySeries))))
	if _, ok := schema.ValidSeriesKeys[cfg.Series]; !ok {
		return fmt.Errorf("invalid series '%s'. must be primary, secondary", input.Series)
	}

	cfg.Bins = input.Bins
	if cfg.Bins == 0 {
		cfg.Bins = DefaultBins
	}
	if cfg.Bins < 1 || cfg.Bins > MaxBins {
		return fmt.Errorf("bins must be between 1 and %d (received %d)", MaxBins, input.Bins)
	}
	return nil
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}

// splitList splits a comma-separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for p := range strings.SplitSeq(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
