package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/trendscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	brandSpec = schema.SeriesSpec{Key: schema.PrimarySeries, Label: "Brand", Pattern: "brand_search_trend_*.csv"}
	giftSpec  = schema.SeriesSpec{Key: schema.SecondarySeries, Label: "Gift card", Pattern: "gift card_search_trend_*.csv"}
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLocate(t *testing.T) {
	root := t.TempDir()
	second := filepath.Join(root, "nested", "data")
	require.NoError(t, os.MkdirAll(second, 0o755))
	notDir := writeFile(t, root, "data", "not a directory")

	dir, err := Locate([]string{notDir, filepath.Join(root, "missing"), second})
	require.NoError(t, err)
	assert.Equal(t, second, dir)

	_, err = Locate([]string{filepath.Join(root, "nope")})
	assert.ErrorIs(t, err, ErrDirectoryNotFound)

	_, err = Locate(nil)
	assert.ErrorIs(t, err, ErrDirectoryNotFound)
}

func TestLexicalPolicy(t *testing.T) {
	got, err := LexicalPolicy{}.Select([]string{"d/trend_2025-01.csv", "d/trend_2024-01.csv"})
	require.NoError(t, err)
	assert.Equal(t, "d/trend_2025-01.csv", got)

	_, err = LexicalPolicy{}.Select(nil)
	assert.ErrorIs(t, err, ErrNoFilesFound)
}

func TestModTimePolicy(t *testing.T) {
	dir := t.TempDir()
	older := writeFile(t, dir, "trend_2025-01.csv", "period,ratio\n")
	newer := writeFile(t, dir, "trend_2024-01.csv", "period,ratio\n")
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(older, past, past))

	got, err := ModTimePolicy{}.Select([]string{older, newer})
	require.NoError(t, err)
	assert.Equal(t, newer, got)

	assert.IsType(t, ModTimePolicy{}, PolicyFor(schema.LatestByModTime))
	assert.IsType(t, LexicalPolicy{}, PolicyFor(schema.LatestByName))
	assert.IsType(t, LexicalPolicy{}, PolicyFor(""))
}

func TestParse(t *testing.T) {
	t.Run("derives calendar fields", func(t *testing.T) {
		rows, err := Parse(strings.NewReader("period,ratio\n2024-02-29,10.5\n2024-03-02,20\n"), "x.csv")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "Thursday", rows[0].DayName)
		assert.False(t, rows[0].IsWeekend)
		assert.Equal(t, 2024, rows[0].Year)
		assert.Equal(t, 2, rows[0].Month)
		assert.Equal(t, 10.5, rows[0].Ratio)
		assert.True(t, rows[1].IsWeekend)
	})

	t.Run("bom extra columns and reordered header", func(t *testing.T) {
		input := "\xEF\xBB\xBFkeyword, ratio ,period\nfoo,1.5,2024/01/01\nbar,2,20240102\n"
		rows, err := Parse(strings.NewReader(input), "x.csv")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, 1.5, rows[0].Ratio)
		assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), rows[1].Period)
	})

	t.Run("iso date-times", func(t *testing.T) {
		tests := []struct {
			input    string
			expected time.Time
		}{
			{"2024-02-29T00:00:00", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
			{"2024-02-29T13:45", time.Date(2024, 2, 29, 13, 45, 0, 0, time.UTC)},
			{"2024-02-29T00:00:00.000", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
			{"2024-02-29T08:30:00.250", time.Date(2024, 2, 29, 8, 30, 0, 250_000_000, time.UTC)},
			{"2024-02-29 13:45:00+09:00", time.Date(2024, 2, 29, 4, 45, 0, 0, time.UTC)},
			{"2024-02-29T13:45:00Z", time.Date(2024, 2, 29, 13, 45, 0, 0, time.UTC)},
		}
		for _, tt := range tests {
			got, err := ParsePeriod(tt.input)
			require.NoError(t, err, tt.input)
			assert.True(t, tt.expected.Equal(got), "%s parsed as %s", tt.input, got)
		}

		rows, err := Parse(strings.NewReader("period,ratio\n2024-02-29T00:00:00,1\n2024-03-01 09:00:00+09:00,2\n"), "x.csv")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "Thursday", rows[0].DayName)
	})

	t.Run("header only", func(t *testing.T) {
		rows, err := Parse(strings.NewReader("period,ratio\n"), "x.csv")
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("missing ratio column", func(t *testing.T) {
		_, err := Parse(strings.NewReader("period,value\n2024-01-01,1\n"), "x.csv")
		assert.ErrorIs(t, err, ErrSchema)
		assert.Contains(t, err.Error(), "ratio")
	})

	t.Run("missing period column", func(t *testing.T) {
		_, err := Parse(strings.NewReader("date,ratio\n2024-01-01,1\n"), "x.csv")
		assert.ErrorIs(t, err, ErrSchema)
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := Parse(strings.NewReader(""), "x.csv")
		assert.ErrorIs(t, err, ErrSchema)
	})

	t.Run("bad date names line", func(t *testing.T) {
		_, err := Parse(strings.NewReader("period,ratio\n2024-01-01,1\nyesterday,2\n"), "x.csv")
		assert.ErrorIs(t, err, ErrParse)
		assert.Contains(t, err.Error(), "line 3")
		assert.Contains(t, err.Error(), "yesterday")
	})

	t.Run("bad ratio", func(t *testing.T) {
		_, err := Parse(strings.NewReader("period,ratio\n2024-01-01,abc\n"), "x.csv")
		assert.ErrorIs(t, err, ErrParse)
	})

	t.Run("nan ratio", func(t *testing.T) {
		_, err := Parse(strings.NewReader("period,ratio\n2024-01-01,NaN\n"), "x.csv")
		assert.ErrorIs(t, err, ErrParse)
	})

	t.Run("short record", func(t *testing.T) {
		_, err := Parse(strings.NewReader("period,ratio\n2024-01-01\n"), "x.csv")
		assert.ErrorIs(t, err, ErrParse)
	})
}

func TestLoaderLoadDataset(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "brand_search_trend_2024-01.csv", "period,ratio\n2023-01-01,1\n")
	writeFile(t, dir, "brand_search_trend_2025-01.csv", "period,ratio\n2024-01-01,50\n2025-01-01,60\n")
	writeFile(t, dir, "gift card_search_trend_2025-01.csv", "period,ratio\n2024-01-01,5\n")
	writeFile(t, dir, "unrelated.csv", "period,ratio\n")

	loader := NewLoader(nil, brandSpec, giftSpec)
	ds, err := loader.LoadDataset(dir)
	require.NoError(t, err)

	assert.Equal(t, dir, ds.Dir)
	assert.Equal(t, "brand_search_trend_2025-01.csv", filepath.Base(ds.Primary.Source))
	assert.Equal(t, 2, ds.Primary.Len())
	assert.Equal(t, "Brand", ds.Primary.Label)
	assert.Equal(t, schema.SecondarySeries, ds.Secondary.Key)
	assert.Equal(t, 1, ds.Secondary.Len())
}

func TestLoaderErrors(t *testing.T) {
	t.Run("no files for secondary", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "brand_search_trend_2025-01.csv", "period,ratio\n2024-01-01,50\n")
		_, err := NewLoader(LexicalPolicy{}, brandSpec, giftSpec).LoadDataset(dir)
		assert.ErrorIs(t, err, ErrNoFilesFound)
		assert.Contains(t, err.Error(), "secondary")
	})

	t.Run("schema error aborts", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "brand_search_trend_2025-01.csv", "period,score\n2024-01-01,50\n")
		writeFile(t, dir, "gift card_search_trend_2025-01.csv", "period,ratio\n2024-01-01,5\n")
		_, err := NewLoader(nil, brandSpec, giftSpec).LoadDataset(dir)
		assert.ErrorIs(t, err, ErrSchema)
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := NewLoader(nil, brandSpec, giftSpec).LoadDataset(filepath.Join(t.TempDir(), "gone"))
		assert.ErrorIs(t, err, ErrDirectoryNotFound)
	})
}

func TestMatchesSkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "brand_search_trend_dir.csv"), 0o755))
	writeFile(t, dir, "brand_search_trend_1.csv", "")
	got, err := Matches(dir, brandSpec.Pattern)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "brand_search_trend_1.csv")}, got)

	_, err = Matches(dir, "[")
	assert.Error(t, err)
}
