package parquet

import (
	"strconv"
	"strings"

	"github.com/huangsam/trendscope/schema"
)

// ConvertRunRecords converts store records to Parquet runs.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	out := make([]Run, len(records))
	for i, r := range records {
		out[i] = Run{
			RunID:         r.RunID,
			StartTime:     r.StartTime,
			EndTime:       r.EndTime,
			RunDurationMs: r.RunDurationMs,
			DataDir:       r.DataDir,
			Years:         r.Years,
			PrimaryRows:   r.PrimaryRows,
			SecondaryRows: r.SecondaryRows,
			PrimaryMean:   r.PrimaryMean,
			SecondaryMean: r.SecondaryMean,
			PrimaryMax:    r.PrimaryMax,
			Correlation:   r.Correlation,
			ConfigParams:  r.ConfigParams,
		}
	}
	return out
}

// ConvertFlatRows converts combined table rows.
func ConvertFlatRows(rows []schema.FlatRow) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = Row{
			Period:    r.Period,
			Ratio:     r.Ratio,
			Month:     int32(r.Month),
			Year:      int32(r.Year),
			DayOfWeek: r.DayName,
			IsWeekend: r.IsWeekend,
			Series:    r.Series,
		}
	}
	return out
}

// ConvertBreakdown flattens a breakdown into one record per bucket.
func ConvertBreakdown(b schema.Breakdown) []Bucket {
	out := make([]Bucket, len(b.Buckets))
	for i, v := range b.Buckets {
		out[i] = Bucket{
			Kind:   string(b.Kind),
			Op:     string(b.Op),
			Series: string(b.Series),
			Bucket: int32(v.Bucket),
			Label:  v.Label,
			Value:  v.Value.Ptr(),
			Count:  int32(v.Count),
			Share:  v.Share.Ptr(),
		}
	}
	return out
}

// ConvertSummary converts a summary into a single record.
func ConvertSummary(s schema.Summary) Summary {
	years := make([]string, len(s.Years))
	for i, y := range s.Years {
		years[i] = strconv.Itoa(y)
	}
	return Summary{
		Years:            strings.Join(years, ","),
		PrimaryLabel:     s.PrimaryLabel,
		SecondaryLabel:   s.SecondaryLabel,
		PrimaryRows:      int32(s.PrimaryRows),
		SecondaryRows:    int32(s.SecondaryRows),
		PrimaryMean:      s.PrimaryMean.Ptr(),
		SecondaryMean:    s.SecondaryMean.Ptr(),
		PrimaryMax:       s.PrimaryMax.Ptr(),
		SecondaryMax:     s.SecondaryMax.Ptr(),
		Correlation:      s.Correlation.Ptr(),
		CorrelationLabel: s.CorrelationLabel,
		Alignment:        string(s.Alignment),
		PairedRows:       int32(s.PairedRows),
	}
}
