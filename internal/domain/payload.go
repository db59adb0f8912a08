package domain

import (
	"bytes"
	"encoding/json"
	"math"
)

// RawPayload is the One Call document delivered by the upstream fetcher.
// Only TimezoneOffset is required; every section may be missing.
type RawPayload struct {
	Lat            Number     `json:"lat"`
	Lon            Number     `json:"lon"`
	Timezone       string     `json:"timezone"`
	TimezoneOffset Number     `json:"timezone_offset"`
	Current        *RawEntry  `json:"current,omitempty"`
	Hourly         []RawEntry `json:"hourly,omitempty"`
	Daily          []RawDay   `json:"daily,omitempty"`
	Alerts         []RawAlert `json:"alerts,omitempty"`
}

// RawEntry is the shape shared by "current" and each "hourly" element.
type RawEntry struct {
	Dt        Number         `json:"dt"`
	Sunrise   Number         `json:"sunrise"`
	Sunset    Number         `json:"sunset"`
	Temp      Number         `json:"temp"`
	FeelsLike FeelsLike      `json:"feels_like"`
	Humidity  Number         `json:"humidity"`
	WindSpeed Number         `json:"wind_speed"`
	WindDeg   Number         `json:"wind_deg"`
	Weather   []RawCondition `json:"weather"`
	Rain      *RawVolume     `json:"rain,omitempty"`
	Snow      *RawVolume     `json:"snow,omitempty"`
}

// RawDay is one "daily" element. Rain and snow are day totals in mm.
type RawDay struct {
	Dt        Number         `json:"dt"`
	Sunrise   Number         `json:"sunrise"`
	Sunset    Number         `json:"sunset"`
	Temp      RawDayTemp     `json:"temp"`
	FeelsLike FeelsLike      `json:"feels_like"`
	Humidity  Number         `json:"humidity"`
	WindSpeed Number         `json:"wind_speed"`
	WindDeg   Number         `json:"wind_deg"`
	Weather   []RawCondition `json:"weather"`
	Rain      Number         `json:"rain"`
	Snow      Number         `json:"snow"`
}

// RawDayTemp holds the daily temperature extremes.
type RawDayTemp struct {
	Min Number `json:"min"`
	Max Number `json:"max"`
}

// RawVolume is a precipitation volume over the last hour, in mm.
type RawVolume struct {
	OneHour Number `json:"1h"`
}

// UnmarshalJSON treats anything other than an object as an empty volume.
func (v *RawVolume) UnmarshalJSON(data []byte) error {
	*v = RawVolume{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil
	}
	var parts struct {
		OneHour Number `json:"1h"`
	}
	if err := json.Unmarshal(data, &parts); err != nil {
		return nil //nolint:nilerr // malformed object counts as absent
	}
	v.OneHour = parts.OneHour
	return nil
}

// RawCondition is one entry of the provider's "weather" array.
type RawCondition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// RawAlert is a national weather alert as published by the provider.
type RawAlert struct {
	SenderName  string   `json:"sender_name"`
	Event       string   `json:"event"`
	Start       Number   `json:"start"`
	End         Number   `json:"end"`
	Description string   `json:"description"`
	Tags        []string `json:"tags,omitempty"`
}

// Number is a lenient JSON number. Any JSON value decodes without error;
// only finite numbers are valid, everything else (null, strings, objects)
// reads as absent.
type Number struct {
	value float64
	valid bool
}

// NewNumber returns a valid Number holding v.
func NewNumber(v float64) Number {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Number{}
	}
	return Number{value: v, valid: true}
}

// Float returns the value, or 0 when the source field was absent or invalid.
func (n Number) Float() float64 {
	if !n.valid {
		return 0
	}
	return n.value
}

// Int64 truncates the value toward zero.
func (n Number) Int64() int64 {
	return int64(n.Float())
}

// Valid reports whether the source held a finite JSON number.
func (n Number) Valid() bool { return n.valid }

func (n *Number) UnmarshalJSON(data []byte) error {
	*n = Number{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || (data[0] != '-' && (data[0] < '0' || data[0] > '9')) {
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return nil //nolint:nilerr // out-of-range numbers count as absent
	}
	*n = NewNumber(v)
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.value)
}

// FeelsLike accepts either a plain number or the daily object form
// ({"day":..,"night":..}); the "day" value is used for the object form.
type FeelsLike struct {
	Number
}

func (f *FeelsLike) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var parts struct {
			Day Number `json:"day"`
		}
		if err := json.Unmarshal(data, &parts); err != nil {
			*f = FeelsLike{}
			return nil //nolint:nilerr // malformed object counts as absent
		}
		f.Number = parts.Day
		return nil
	}
	return f.Number.UnmarshalJSON(data)
}

// icon returns the first condition's icon code, or "" when there is none.
func icon(conditions []RawCondition) string {
	if len(conditions) == 0 {
		return ""
	}
	return conditions[0].Icon
}

// amount reads a precipitation amount. Missing, invalid and negative values
// all read as 0.
func amount(n Number) float64 {
	if v := n.Float(); v > 0 {
		return v
	}
	return 0
}

// oneHour reads a last-hour volume, treating a missing object as 0.
func oneHour(v *RawVolume) float64 {
	if v == nil {
		return 0
	}
	return amount(v.OneHour)
}
