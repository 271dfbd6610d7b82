package schema

// Custom string types for type safety.
type (
	// SeriesKey identifies one of the two logical series.
	SeriesKey string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for run history.
	DatabaseBackend string

	// ReduceOp represents how bucket values are reduced.
	ReduceOp string

	// BucketKind represents a calendar bucketing scheme.
	BucketKind string

	// Alignment represents how two series are paired for correlation.
	Alignment string

	// SelectionPolicyName represents how the latest input file is chosen.
	SelectionPolicyName string

	// ChartName identifies a chart descriptor.
	ChartName string
)

// All series keys supported.
const (
	PrimarySeries   SeriesKey = "primary" // default
	SecondarySeries SeriesKey = "secondary"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
	XLSXOut    OutputMode = "xlsx"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All reduce operations supported.
const (
	MeanOp ReduceOp = "mean" // default
	SumOp  ReduceOp = "sum"
)

// All bucket kinds supported.
const (
	WeekdayBucket BucketKind = "weekday" // default
	MonthBucket   BucketKind = "month"
	QuarterBucket BucketKind = "quarter"
)

// All alignments supported.
const (
	TimestampAlign Alignment = "timestamp" // default
	PositionAlign  Alignment = "position"
)

// All selection policies supported.
const (
	LatestByName    SelectionPolicyName = "name" // default
	LatestByModTime SelectionPolicyName = "mtime"
)

// All chart names supported.
const (
	TimeseriesChartName    ChartName = "timeseries"
	MonthlyBoxChartName    ChartName = "monthly_box"
	WeekdayBarChartName    ChartName = "weekday_bar"
	QuarterShareChartName  ChartName = "quarter_share"
	ScatterChartName       ChartName = "scatter"
	HistogramChartName     ChartName = "histogram"
	WeekendViolinChartName ChartName = "weekend_violin"
)

// AllChartNames lists every chart in dashboard order.
var AllChartNames = []ChartName{
	TimeseriesChartName,
	MonthlyBoxChartName,
	WeekdayBarChartName,
	QuarterShareChartName,
	ScatterChartName,
	HistogramChartName,
	WeekendViolinChartName,
}

// AllBucketKinds lists every bucket kind.
var AllBucketKinds = []BucketKind{WeekdayBucket, MonthBucket, QuarterBucket}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
	XLSXOut:    {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidReduceOps lists all valid reduce operations.
var ValidReduceOps = map[ReduceOp]struct{}{
	MeanOp: {},
	SumOp:  {},
}

// ValidBucketKinds lists all valid bucket kinds.
var ValidBucketKinds = map[BucketKind]struct{}{
	WeekdayBucket: {},
	MonthBucket:   {},
	QuarterBucket: {},
}

// ValidAlignments lists all valid alignments.
var ValidAlignments = map[Alignment]struct{}{
	TimestampAlign: {},
	PositionAlign:  {},
}

// ValidSelectionPolicies lists all valid selection policies.
var ValidSelectionPolicies = map[SelectionPolicyName]struct{}{
	LatestByName:    {},
	LatestByModTime: {},
}

// ValidSeriesKeys lists all valid series keys.
var ValidSeriesKeys = map[SeriesKey]struct{}{
	PrimarySeries:   {},
	SecondarySeries: {},
}
