package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/trendscope/internal/contract"
	"github.com/huangsam/trendscope/internal/parquet"
	"github.com/huangsam/trendscope/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/xuri/excelize/v2"
)

// summaryCSVHeader is the column order for summary CSV and XLSX output.
var summaryCSVHeader = []string{"metric", "primary", "secondary"}

// PrintSummary outputs the headline metrics, dispatching based on the output format configured.
func PrintSummary(summary schema.Summary, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, summary)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, summaryCSVHeader, func(cw *csv.Writer) error {
				return writeCSVSummary(cw, summary)
			})
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeBinaryFile(cfg.OutputFile, func(w io.Writer) error {
			return parquet.Write(w, []parquet.Summary{parquet.ConvertSummary(summary)})
		}, "Wrote Parquet")
	case schema.XLSXOut:
		return writeBinaryFile(cfg.OutputFile, func(w io.Writer) error {
			return writeXLSX(w, func(f *excelize.File) error {
				return fillSheet(f, "summary", summaryCSVHeader, summaryRecords(summary))
			})
		}, "Wrote XLSX")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSummaryTable(w, summary, cfg, duration)
		}, "Wrote table")
	}
}

// summaryRecords lists the summary as metric rows with one column per series.
func summaryRecords(s schema.Summary) [][]any {
	return [][]any{
		{"rows", s.PrimaryRows, s.SecondaryRows},
		{"mean", cellValue(s.PrimaryMean), cellValue(s.SecondaryMean)},
		{"max", cellValue(s.PrimaryMax), cellValue(s.SecondaryMax)},
		{"correlation", cellValue(s.Correlation), s.CorrelationLabel},
	}
}

// writeCSVSummary writes the summary in CSV format.
func writeCSVSummary(w *csv.Writer, s schema.Summary) error {
	records := [][]string{
		{"rows", fmt.Sprint(s.PrimaryRows), fmt.Sprint(s.SecondaryRows)},
		{"mean", csvValue(s.PrimaryMean), csvValue(s.SecondaryMean)},
		{"max", csvValue(s.PrimaryMax), csvValue(s.SecondaryMax)},
		{"correlation", csvValue(s.Correlation), s.CorrelationLabel},
	}
	for _, rec := range records {
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	return nil
}

// writeSummaryTable generates and writes the human-readable metric table.
func writeSummaryTable(w io.Writer, s schema.Summary, cfg *contract.Config, duration time.Duration) error {
	_, fmtOpt := createFormatters(cfg.Precision)
	width := getMaxLabelWidth(cfg)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Metric", truncateLabel(s.PrimaryLabel, width), truncateLabel(s.SecondaryLabel, width)})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Header.Formatting.AutoFormat = tw.Off
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := [][]string{
		{"Rows", fmt.Sprint(s.PrimaryRows), fmt.Sprint(s.SecondaryRows)},
		{"Mean", fmtOpt(s.PrimaryMean), fmtOpt(s.SecondaryMean)},
		{"Max", fmtOpt(s.PrimaryMax), fmtOpt(s.SecondaryMax)},
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Correlation: %s (%s, %s alignment, %d pairs)\n",
		s.Correlation.Format(2), contract.GetColorLabel(s.Correlation), s.Alignment, s.PairedRows); err != nil {
		return err
	}
	if s.FirstPeriod != nil && s.LastPeriod != nil {
		if _, err := fmt.Fprintf(w, "Period: %s to %s\n", schema.FormatPeriod(*s.FirstPeriod), schema.FormatPeriod(*s.LastPeriod)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Years: %s. Computed in %v\n", formatYears(s.Years), duration); err != nil {
		return err
	}
	return nil
}

// formatYears renders a year list for status lines.
func formatYears(years []int) string {
	if len(years) == 0 {
		return "none"
	}
	return schema.NewYearSet(years...).String()
}
