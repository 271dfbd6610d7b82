package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/trendscope/internal/contract"
	"github.com/huangsam/trendscope/internal/parquet"
	"github.com/huangsam/trendscope/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/xuri/excelize/v2"
)

// PrintRows outputs the flat view, dispatching based on the output format configured.
// CSV output is byte-identical to the dashboard download.
func PrintRows(rows []schema.FlatRow, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, rows)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return WriteExportCSV(w, rows)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeBinaryFile(cfg.OutputFile, func(w io.Writer) error {
			return parquet.Write(w, parquet.ConvertFlatRows(rows))
		}, "Wrote Parquet")
	case schema.XLSXOut:
		return writeBinaryFile(cfg.OutputFile, func(w io.Writer) error {
			return writeXLSX(w, func(f *excelize.File) error {
				return fillSheet(f, "rows", schema.FlatColumns, rowRecords(rows))
			})
		}, "Wrote XLSX")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRowsTable(w, rows, cfg)
		}, "Wrote table")
	}
}

// WriteExportCSV writes the UTF-8 BOM, the flat header and one record per row.
func WriteExportCSV(w io.Writer, rows []schema.FlatRow) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}
	return writeCSVWithHeader(w, schema.FlatColumns, func(cw *csv.Writer) error {
		for _, r := range rows {
			if err := cw.Write(r.Strings()); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}

func rowRecords(rows []schema.FlatRow) [][]any {
	out := make([][]any, len(rows))
	for i, r := range rows {
		out[i] = []any{schema.FormatPeriod(r.Period), r.Ratio, r.Month, r.Year, r.DayName, r.IsWeekend, r.Series}
	}
	return out
}

// writeRowsTable generates and writes the human-readable row table.
func writeRowsTable(w io.Writer, rows []schema.FlatRow, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	width := getMaxLabelWidth(cfg)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Period", "Ratio", "Month", "Year", "Day", "Weekend", "Series"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Header.Formatting.AutoFormat = tw.Off
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		data = append(data, []string{
			schema.FormatPeriod(r.Period),
			fmtFloat(r.Ratio),
			strconv.Itoa(r.Month),
			strconv.Itoa(r.Year),
			r.DayName,
			schema.FormatBool(r.IsWeekend),
			truncateLabel(r.Series, width),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d rows\n", len(rows))
	return err
}
