package contract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/huangsam/trendscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPlainLabel(t *testing.T) {
	assert.Equal(t, schema.StrongCorrelation, GetPlainLabel(schema.Some(-0.9)))
	assert.Equal(t, schema.NoDataText, GetPlainLabel(schema.NoData()))
}

func TestGetColorLabel(t *testing.T) {
	prev := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = prev }()

	label := GetColorLabel(schema.Some(0.75))
	assert.Contains(t, label, schema.StrongCorrelation)
	assert.NotEqual(t, schema.StrongCorrelation, label)
}

func TestSelectOutputFile(t *testing.T) {
	f, err := SelectOutputFile("")
	require.NoError(t, err)
	assert.Equal(t, os.Stdout, f)

	path := filepath.Join(t.TempDir(), "out.txt")
	f, err = SelectOutputFile(path)
	require.NoError(t, err)
	assert.NoError(t, f.Close())
	assert.FileExists(t, path)
}

func TestGetRunDBFilePath(t *testing.T) {
	assert.True(t, strings.HasSuffix(GetRunDBFilePath(), ".trendscope_runs.db"))
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "TRUE", "1"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.True(t, v)
	}
	for _, s := range []string{"no", "False", "0"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.False(t, v)
	}
	_, err := ParseBoolString("")
	assert.Error(t, err)
}
