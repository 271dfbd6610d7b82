package dataset

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/trendscope/schema"
)

// Required input columns.
const (
	PeriodColumn = "period"
	RatioColumn  = "ratio"
)

// periodLayouts are tried in order when parsing the period column.
var periodLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05Z07:00",
	"2006/01/02",
	"20060102",
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadFile parses a single series CSV file.
func ReadFile(path string) ([]schema.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return Parse(f, path)
}

// Parse reads rows from CSV with a header line. A leading UTF-8 BOM is ignored
// and extra columns are skipped. source names the input in error messages.
func Parse(r io.Reader, source string) ([]schema.Row, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s is empty, need %q and %q", ErrSchema, source, PeriodColumn, RatioColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s header: %v", ErrParse, source, err)
	}

	periodIdx, ratioIdx := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case PeriodColumn:
			periodIdx = i
		case RatioColumn:
			ratioIdx = i
		}
	}
	if periodIdx < 0 {
		return nil, fmt.Errorf("%w: %s has no %q column", ErrSchema, source, PeriodColumn)
	}
	if ratioIdx < 0 {
		return nil, fmt.Errorf("%w: %s has no %q column", ErrSchema, source, RatioColumn)
	}

	var rows []schema.Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrParse, source, err)
		}
		line, _ := reader.FieldPos(0)
		if len(record) <= periodIdx || len(record) <= ratioIdx {
			return nil, fmt.Errorf("%w: %s line %d: expected at least %d fields, got %d",
				ErrParse, source, line, max(periodIdx, ratioIdx)+1, len(record))
		}

		period, err := ParsePeriod(record[periodIdx])
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d column %s: %q", ErrParse, source, line, PeriodColumn, record[periodIdx])
		}
		ratio, err := strconv.ParseFloat(strings.TrimSpace(record[ratioIdx]), 64)
		if err != nil || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
			return nil, fmt.Errorf("%w: %s line %d column %s: %q", ErrParse, source, line, RatioColumn, record[ratioIdx])
		}
		rows = append(rows, schema.NewRow(period, ratio))
	}
	return rows, nil
}

// ParsePeriod parses a period value using the supported layouts.
func ParsePeriod(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range periodLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
