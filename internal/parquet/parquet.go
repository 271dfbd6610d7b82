// Package parquet provides data structures and functions for exporting trendscope
// data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
)

// Run represents a single recorded dashboard computation.
// This struct maps to the trendscope_runs database table.
type Run struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// StartTime is when the computation began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the computation completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	DataDir       string   `parquet:"data_dir,snappy"`
	Years         string   `parquet:"years,snappy"`
	PrimaryRows   int32    `parquet:"primary_rows,snappy"`
	SecondaryRows int32    `parquet:"secondary_rows,snappy"`
	PrimaryMean   *float64 `parquet:"primary_mean,optional,snappy"`
	SecondaryMean *float64 `parquet:"secondary_mean,optional,snappy"`
	PrimaryMax    *float64 `parquet:"primary_max,optional,snappy"`
	Correlation   *float64 `parquet:"correlation,optional,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// Row is one line of the combined series table.
type Row struct {
	Period    time.Time `parquet:"period,snappy"`
	Ratio     float64   `parquet:"ratio,snappy"`
	Month     int32     `parquet:"month,snappy"`
	Year      int32     `parquet:"year,snappy"`
	DayOfWeek string    `parquet:"dayofweek,snappy,dict"`
	IsWeekend bool      `parquet:"is_weekend,snappy"`
	Series    string    `parquet:"series,snappy,dict"`
}

// Bucket is one reduced calendar bucket of a breakdown.
type Bucket struct {
	Kind   string   `parquet:"kind,snappy,dict"`
	Op     string   `parquet:"op,snappy,dict"`
	Series string   `parquet:"series,snappy,dict"`
	Bucket int32    `parquet:"bucket,snappy"`
	Label  string   `parquet:"label,snappy"`
	Value  *float64 `parquet:"value,optional,snappy"`
	Count  int32    `parquet:"count,snappy"`
	Share  *float64 `parquet:"share,optional,snappy"`
}

// Summary holds the headline metrics of one year selection.
type Summary struct {
	Years            string   `parquet:"years,snappy"`
	PrimaryLabel     string   `parquet:"primary_label,snappy"`
	SecondaryLabel   string   `parquet:"secondary_label,snappy"`
	PrimaryRows      int32    `parquet:"primary_rows,snappy"`
	SecondaryRows    int32    `parquet:"secondary_rows,snappy"`
	PrimaryMean      *float64 `parquet:"primary_mean,optional,snappy"`
	SecondaryMean    *float64 `parquet:"secondary_mean,optional,snappy"`
	PrimaryMax       *float64 `parquet:"primary_max,optional,snappy"`
	SecondaryMax     *float64 `parquet:"secondary_max,optional,snappy"`
	Correlation      *float64 `parquet:"correlation,optional,snappy"`
	CorrelationLabel string   `parquet:"correlation_label,snappy"`
	Alignment        string   `parquet:"alignment,snappy"`
	PairedRows       int32    `parquet:"paired_rows,snappy"`
}

// Write encodes data as a Parquet file onto w.
// The schema is derived from the struct tags of T.
func Write[T any](w io.Writer, data []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish parquet file: %w", err)
	}
	return nil
}

// WriteFile writes data to a new Parquet file at outputPath.
func WriteFile[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := Write(file, data); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// WriteRunsParquet writes a slice of Run structs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return WriteFile(data, outputPath)
}
