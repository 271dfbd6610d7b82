package schema

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// NoDataText is how an absent value is rendered for humans.
const NoDataText = "no data"

// OptFloat is a float64 that may be absent.
// An absent value is never NaN or a magic number; callers must go through Get.
type OptFloat struct {
	value float64
	valid bool
}

// Some wraps v. NaN and infinities become NoData.
func Some(v float64) OptFloat {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return OptFloat{}
	}
	return OptFloat{value: v, valid: true}
}

// NoData returns the absent value.
func NoData() OptFloat {
	return OptFloat{}
}

// Get returns the value and whether it is present.
func (o OptFloat) Get() (float64, bool) {
	return o.value, o.valid
}

// Valid reports whether the value is present.
func (o OptFloat) Valid() bool {
	return o.valid
}

// Or returns the value, or def when absent.
func (o OptFloat) Or(def float64) float64 {
	if !o.valid {
		return def
	}
	return o.value
}

// Ptr returns a pointer to a copy of the value, or nil when absent.
func (o OptFloat) Ptr() *float64 {
	if !o.valid {
		return nil
	}
	v := o.value
	return &v
}

// Format renders the value with a fixed precision, or NoDataText when absent.
func (o OptFloat) Format(precision int) string {
	if !o.valid {
		return NoDataText
	}
	return strconv.FormatFloat(o.value, 'f', precision, 64)
}

// String implements fmt.Stringer.
func (o OptFloat) String() string {
	if !o.valid {
		return NoDataText
	}
	return strconv.FormatFloat(o.value, 'f', -1, 64)
}

// MarshalJSON encodes an absent value as null.
func (o OptFloat) MarshalJSON() ([]byte, error) {
	if !o.valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// UnmarshalJSON decodes null as absent.
func (o *OptFloat) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = OptFloat{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}
