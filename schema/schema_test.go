package schema

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewRow(t *testing.T) {
	tests := []struct {
		name      string
		period    time.Time
		dayName   string
		isWeekend bool
	}{
		{"leap day thursday", date(2024, time.February, 29), "Thursday", false},
		{"saturday", date(2024, time.March, 2), "Saturday", true},
		{"sunday", date(2024, time.June, 30), "Sunday", true},
		{"monday", date(2025, time.September, 1), "Monday", false},
		{"friday", date(2025, time.December, 26), "Friday", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRow(tt.period, 12.5)
			assert.Equal(t, tt.period.Year(), r.Year)
			assert.Equal(t, int(tt.period.Month()), r.Month)
			assert.Equal(t, tt.dayName, r.DayName)
			assert.Equal(t, tt.isWeekend, r.IsWeekend)
			assert.Equal(t, 12.5, r.Ratio)
		})
	}
}

func TestOptFloat(t *testing.T) {
	t.Run("some", func(t *testing.T) {
		o := Some(3.5)
		v, ok := o.Get()
		assert.True(t, ok)
		assert.Equal(t, 3.5, v)
		assert.Equal(t, "3.50", o.Format(2))
		require.NotNil(t, o.Ptr())
		assert.Equal(t, 3.5, *o.Ptr())
	})

	t.Run("no data", func(t *testing.T) {
		o := NoData()
		_, ok := o.Get()
		assert.False(t, ok)
		assert.Equal(t, NoDataText, o.Format(2))
		assert.Nil(t, o.Ptr())
		assert.Equal(t, 7.0, o.Or(7))
	})

	t.Run("nan becomes no data", func(t *testing.T) {
		assert.False(t, Some(math.NaN()).Valid())
		assert.False(t, Some(math.Inf(1)).Valid())
	})

	t.Run("json", func(t *testing.T) {
		data, err := json.Marshal(struct {
			A OptFloat `json:"a"`
			B OptFloat `json:"b"`
		}{Some(1.25), NoData()})
		require.NoError(t, err)
		assert.JSONEq(t, `{"a":1.25,"b":null}`, string(data))

		var decoded struct {
			A OptFloat `json:"a"`
			B OptFloat `json:"b"`
		}
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, 1.25, decoded.A.Or(0))
		assert.False(t, decoded.B.Valid())
	})
}

func TestCorrelationLabel(t *testing.T) {
	tests := []struct {
		name     string
		input    OptFloat
		expected string
	}{
		{"absent", NoData(), NoDataText},
		{"strong positive", Some(0.7), StrongCorrelation},
		{"strong negative", Some(-0.95), StrongCorrelation},
		{"moderate", Some(0.4), ModerateCorrelation},
		{"weak", Some(-0.1), WeakCorrelation},
		{"none", Some(0.05), NoCorrelation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CorrelationLabel(tt.input))
		})
	}
}

func TestFlatRowStrings(t *testing.T) {
	row := FlatRow{Row: NewRow(date(2024, time.March, 2), 45), Series: "Brand"}
	assert.Equal(t, []string{"2024-03-02", "45.0", "3", "2024", "Saturday", "True", "Brand"}, row.Strings())
	assert.Len(t, row.Strings(), len(FlatColumns))

	withClock := FlatRow{Row: NewRow(time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC), 1.25)}
	assert.Equal(t, "2024-01-01 09:30:00", withClock.Strings()[0])
	assert.Equal(t, "1.25", withClock.Strings()[1])
}

func TestYearSet(t *testing.T) {
	s := NewYearSet(2025, 2024)
	assert.True(t, s.Contains(2024))
	assert.False(t, s.Contains(2023))
	assert.Equal(t, []int{2024, 2025}, s.Sorted())
	assert.Equal(t, "2024,2025", s.String())

	var empty YearSet
	assert.False(t, empty.Contains(2024))
	assert.Empty(t, empty.Sorted())
}

func TestDatasetSeries(t *testing.T) {
	ds := &Dataset{
		Primary:   &SeriesTable{Key: PrimarySeries},
		Secondary: &SeriesTable{Key: SecondarySeries},
	}
	assert.Same(t, ds.Primary, ds.Series(PrimarySeries))
	assert.Same(t, ds.Secondary, ds.Series(SecondarySeries))
	assert.Nil(t, ds.Series("other"))

	var nilTable *SeriesTable
	assert.Equal(t, 0, nilTable.Len())
	assert.Nil(t, nilTable.Ratios())
}
