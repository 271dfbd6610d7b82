package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/huangsam/trendscope/internal/contract"
	"github.com/huangsam/trendscope/schema"
	"github.com/xuri/excelize/v2"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// errOutputFileRequired is returned for binary formats aimed at a terminal.
var errOutputFileRequired = errors.New("binary output requires --output-file")

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeBinaryFile is writeWithFile for formats that must not go to stdout.
func writeBinaryFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	if outputFile == "" {
		return errOutputFileRequired
	}
	return writeWithFile(outputFile, writer, successMsg)
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	if err := writeRows(csvWriter); err != nil {
		return err
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// writeXLSX renders a workbook built by fill onto w.
func writeXLSX(w io.Writer, fill func(*excelize.File) error) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := fill(f); err != nil {
		return err
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// fillSheet writes header and records into sheet, creating it when missing.
// The default sheet is renamed the first time it is used.
func fillSheet(f *excelize.File, sheet string, header []string, records [][]any) error {
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		if first := f.GetSheetName(0); first == "Sheet1" {
			if err := f.SetSheetName(first, sheet); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
	}

	row := make([]any, len(header))
	for i, h := range header {
		row[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &row); err != nil {
		return err
	}
	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rec); err != nil {
			return err
		}
	}
	return nil
}

// createFormatters creates the common formatter closures used across multiple output types.
func createFormatters(precision int) (fmtFloat func(float64) string, fmtOpt func(schema.OptFloat) string) {
	fmtFloat = func(v float64) string {
		return fmt.Sprintf("%.*f", precision, v)
	}
	fmtOpt = func(v schema.OptFloat) string {
		return v.Format(precision)
	}
	return fmtFloat, fmtOpt
}

// cellValue turns an optional value into a spreadsheet cell, blank when absent.
func cellValue(v schema.OptFloat) any {
	if f, ok := v.Get(); ok {
		return f
	}
	return nil
}

// csvValue renders an optional value for machine-readable CSV, empty when absent.
func csvValue(v schema.OptFloat) string {
	if !v.Valid() {
		return ""
	}
	return v.String()
}
