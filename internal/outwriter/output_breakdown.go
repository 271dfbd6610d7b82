package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/trendscope/core/algo"
	"github.com/huangsam/trendscope/internal/contract"
	"github.com/huangsam/trendscope/internal/parquet"
	"github.com/huangsam/trendscope/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/xuri/excelize/v2"
)

// breakdownCSVHeader is the column order for breakdown CSV and XLSX output.
var breakdownCSVHeader = []string{"kind", "op", "series", "bucket", "label", "value", "count", "share"}

// PrintBreakdowns outputs calendar breakdowns, dispatching based on the output format configured.
func PrintBreakdowns(breakdowns []schema.Breakdown, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, breakdowns)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, breakdownCSVHeader, func(cw *csv.Writer) error {
				return writeCSVBreakdowns(cw, breakdowns)
			})
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeBinaryFile(cfg.OutputFile, func(w io.Writer) error {
			var records []parquet.Bucket
			for _, b := range breakdowns {
				records = append(records, parquet.ConvertBreakdown(b)...)
			}
			return parquet.Write(w, records)
		}, "Wrote Parquet")
	case schema.XLSXOut:
		return writeBinaryFile(cfg.OutputFile, func(w io.Writer) error {
			return writeXLSX(w, func(f *excelize.File) error {
				for _, b := range breakdowns {
					if err := fillSheet(f, breakdownSheetName(b), breakdownCSVHeader[3:], breakdownRecords(b)); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote XLSX")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			for i, b := range breakdowns {
				if i > 0 {
					if _, err := fmt.Fprintln(w); err != nil {
						return err
					}
				}
				if err := writeBreakdownTable(w, b, cfg); err != nil {
					return err
				}
			}
			return nil
		}, "Wrote table")
	}
}

// breakdownSheetName names the workbook sheet of one breakdown, e.g. "primary weekday mean".
func breakdownSheetName(b schema.Breakdown) string {
	return fmt.Sprintf("%s %s %s", b.Series, b.Kind, b.Op)
}

func breakdownRecords(b schema.Breakdown) [][]any {
	out := make([][]any, len(b.Buckets))
	for i, v := range b.Buckets {
		out[i] = []any{v.Bucket, v.Label, cellValue(v.Value), v.Count, cellValue(v.Share)}
	}
	return out
}

// writeCSVBreakdowns writes every bucket of every breakdown as one CSV record.
func writeCSVBreakdowns(w *csv.Writer, breakdowns []schema.Breakdown) error {
	for _, b := range breakdowns {
		for _, v := range b.Buckets {
			record := []string{
				string(b.Kind),
				string(b.Op),
				string(b.Series),
				strconv.Itoa(v.Bucket),
				v.Label,
				csvValue(v.Value),
				strconv.Itoa(v.Count),
				csvValue(v.Share),
			}
			if err := w.Write(record); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}
	return nil
}

// writeBreakdownTable writes one breakdown as a human-readable table followed by its peak bucket.
func writeBreakdownTable(w io.Writer, b schema.Breakdown, cfg *contract.Config) error {
	_, fmtOpt := createFormatters(cfg.Precision)

	if _, err := fmt.Fprintf(w, "📅 %s by %s (%s)\n", b.Label, b.Kind, b.Op); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	headers := []string{"#", "Bucket", "Value", "Count"}
	if b.Op == schema.SumOp {
		headers = append(headers, "Share")
	}
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Header.Formatting.AutoFormat = tw.Off
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, v := range b.Buckets {
		row := []string{
			strconv.Itoa(v.Bucket),
			v.Label,
			fmtOpt(v.Value),
			strconv.Itoa(v.Count),
		}
		if b.Op == schema.SumOp {
			row = append(row, formatShare(v.Share))
		}
		data = append(data, row)
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if top := algo.RankBuckets(b.Buckets, 1); len(top) > 0 {
		_, err := fmt.Fprintf(w, "Peak: %s (%s)\n", top[0].Label, fmtOpt(top[0].Value))
		return err
	}
	_, err := fmt.Fprintf(w, "Peak: %s\n", schema.NoDataText)
	return err
}

// formatShare renders a share of total as a percentage.
func formatShare(v schema.OptFloat) string {
	f, ok := v.Get()
	if !ok {
		return schema.NoDataText
	}
	return fmt.Sprintf("%.1f%%", f*100)
}
