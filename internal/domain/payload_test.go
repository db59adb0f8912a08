package domain

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumber_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		raw   string
		valid bool
		want  float64
	}{
		{`12.5`, true, 12.5},
		{`-3`, true, -3},
		{`0`, true, 0},
		{`null`, false, 0},
		{`"12.5"`, false, 0},
		{`{}`, false, 0},
		{`[1]`, false, 0},
		{`true`, false, 0},
		{`1e999`, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var n Number
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &n))
			assert.Equal(t, tt.valid, n.Valid())
			assert.Equal(t, tt.want, n.Float())
		})
	}
}

func TestNewNumber_RejectsNonFinite(t *testing.T) {
	assert.False(t, NewNumber(math.NaN()).Valid())
	assert.False(t, NewNumber(math.Inf(1)).Valid())
	assert.True(t, NewNumber(0).Valid())

	out, err := json.Marshal(struct {
		A Number `json:"a"`
		B Number `json:"b"`
	}{A: NewNumber(1.5)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 1.5, "b": null}`, string(out))
}

func TestFeelsLike_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{`21.4`, 21.4},
		{`{"day": 19.2, "night": 11}`, 19.2},
		{`{"night": 11}`, 0},
		{`{"day": "warm"}`, 0},
		{`"warm"`, 0},
		{`null`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var f FeelsLike
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &f))
			assert.Equal(t, tt.want, f.Float())
		})
	}
}

func TestAmount(t *testing.T) {
	assert.Equal(t, 2.5, amount(NewNumber(2.5)))
	assert.Equal(t, 0.0, amount(NewNumber(-1)))
	assert.Equal(t, 0.0, amount(Number{}))
	assert.Equal(t, 0.0, oneHour(nil))
	assert.Equal(t, 0.4, oneHour(&RawVolume{OneHour: NewNumber(0.4)}))
}

func TestIcon(t *testing.T) {
	assert.Equal(t, "", icon(nil))
	assert.Equal(t, "10d", icon([]RawCondition{{Icon: "10d"}, {Icon: "01d"}}))
}

func TestSetClock(t *testing.T) {
	fixed := time.Date(2024, 4, 26, 17, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixed))
	t.Cleanup(func() { SetClock(nil) })

	assert.True(t, Now().Equal(fixed))
}
