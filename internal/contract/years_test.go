package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseYearOptions(t *testing.T) {
	got, err := ParseYearOptions("2025, 2024,2025")
	require.NoError(t, err)
	assert.Equal(t, []int{2024, 2025}, got)

	_, err = ParseYearOptions("")
	assert.Error(t, err)
	_, err = ParseYearOptions("2024,x")
	assert.Error(t, err)
}

func TestSelectYears(t *testing.T) {
	options := []int{2024, 2025}

	tests := []struct {
		name     string
		values   []string
		expected []int
		wantErr  bool
	}{
		{name: "nothing selects all", values: nil, expected: []int{2024, 2025}},
		{name: "blank selects all", values: []string{"", " "}, expected: []int{2024, 2025}},
		{name: "none selects nothing", values: []string{"None"}, expected: []int{}},
		{name: "repeated values", values: []string{"2025", "2024"}, expected: []int{2024, 2025}},
		{name: "comma list", values: []string{"2024"}, expected: []int{2024}},
		{name: "outside options", values: []string{"2023"}, wantErr: true},
		{name: "not a number", values: []string{"last"}, wantErr: true},
		{name: "none mixed with years", values: []string{"none,2024"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectYears(tt.values, options)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got.Sorted())
		})
	}
}

func FuzzSelectYears(f *testing.F) {
	f.Add("2024,2025")
	f.Add("none")
	f.Add(",,2024,")
	f.Add("1e3")

	options := []int{2024, 2025}
	f.Fuzz(func(t *testing.T, value string) {
		got, err := SelectYears([]string{value}, options)
		if err != nil {
			return
		}
		for y := range got {
			assert.Contains(t, options, y)
		}
	})
}
