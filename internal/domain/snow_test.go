package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnowDepthRatio(t *testing.T) {
	tests := []struct {
		avg  float64
		want float64
	}{
		{-30, 20},
		{-15.01, 20},
		{-15, 15},
		{-10.01, 15},
		{-10, 12},
		{-5.01, 12},
		{-5, 10},
		{-0.01, 10},
		{0, 6},
		{1.99, 6},
		{2, 5},
		{25, 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SnowDepthRatio(tt.avg, 1.0), "avg %v", tt.avg)
	}
}

func TestSnowDepthRatio_NonIncreasingWithTemperature(t *testing.T) {
	prev := SnowDepthRatio(-40, 1.0)
	for avg := -40.0; avg <= 10; avg += 0.25 {
		r := SnowDepthRatio(avg, 1.0)
		assert.LessOrEqual(t, r, prev, "ratio rose at %v", avg)
		prev = r
	}
}

func TestSnowDepthRatio_DensityFactor(t *testing.T) {
	assert.Equal(t, 30.0, SnowDepthRatio(-20, 1.5))
	assert.Equal(t, 2.5, SnowDepthRatio(5, 0.5))
}

func TestSnowDepth(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		min, max float64
		system   UnitSystem
		density  float64
		enabled  bool
		want     SnowAmount
	}{
		{"metric powder", 5, -20, -12, UnitsMetric, 1, true, SnowAmount{Value: 10, Unit: "cm"}},
		{"imperial powder", 0.5, -4, 10.4, UnitsImperial, 1, true, SnowAmount{Value: 10, Unit: "in"}},
		{"metric slush", 4, 1, 5, UnitsMetric, 1, true, SnowAmount{Value: 2, Unit: "cm"}},
		{"metric dense", 5, -20, -12, UnitsMetric, 0.5, true, SnowAmount{Value: 5, Unit: "cm"}},
		{"standard powder in kelvin", 5, 253.15, 261.15, UnitsStandard, 1, true, SnowAmount{Value: 10, Unit: "cm"}},
		{"standard near freezing", 5, 269.15, 271.15, UnitsStandard, 1, true, SnowAmount{Value: 5, Unit: "cm"}},
		{"unknown system reads kelvin", 5, 253.15, 261.15, "kelvin", 1, true, SnowAmount{Value: 10, Unit: "cm"}},
		{"disabled metric", 5, -20, -12, UnitsMetric, 1, false, SnowAmount{Value: 5, Unit: "mm"}},
		{"disabled imperial", 0.5, -4, 10.4, UnitsImperial, 1, false, SnowAmount{Value: 0.5, Unit: "in"}},
		{"no snow", 0, -20, -12, UnitsMetric, 1, true, SnowAmount{Value: 0, Unit: "cm"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SnowDepth(tt.amount, tt.min, tt.max, tt.system, tt.density, tt.enabled)
			assert.Equal(t, tt.want.Unit, got.Unit)
			assert.InDelta(t, tt.want.Value, got.Value, 1e-9)
		})
	}
}
