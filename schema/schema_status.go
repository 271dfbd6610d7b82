package schema

import "time"

// RunStatus represents the status of the run history store.
type RunStatus struct {
	Backend           string           `json:"backend"`
	Connected         bool             `json:"connected"`
	TotalRuns         int              `json:"total_runs"`
	LastRunID         int64            `json:"last_run_id"`
	LastRunTime       time.Time        `json:"last_run_time"`
	OldestRunTime     time.Time        `json:"oldest_run_time"`
	TotalRowsAnalyzed int64            `json:"total_rows_analyzed"`
	TableSizes        map[string]int64 `json:"table_sizes"`
}

// RunRecord represents a row from the trendscope_runs table.
type RunRecord struct {
	RunID         int64
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	DataDir       string
	Years         string
	PrimaryRows   int32
	SecondaryRows int32
	PrimaryMean   *float64
	SecondaryMean *float64
	PrimaryMax    *float64
	Correlation   *float64
	ConfigParams  *string
}
