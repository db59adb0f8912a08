package domain

import "math"

// beaufortKmh holds the upper bound (exclusive, km/h) of Beaufort forces 0-11.
var beaufortKmh = []float64{1, 5, 11, 19, 28, 38, 49, 61, 74, 88, 102, 117}

// compassPoints are the 16 compass labels starting at north, clockwise.
var compassPoints = []string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// Beaufort returns the Beaufort force (0-12) for a speed in km/h.
func Beaufort(kmh float64) int {
	for force, limit := range beaufortKmh {
		if limit > kmh {
			return force
		}
	}
	return 12
}

// CardinalDirection returns the 16-point compass label for a bearing in
// degrees. Each sector covers (lower, upper], so 11.25 is still N and
// 11.26 is NNE.
func CardinalDirection(deg float64) string {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	if deg <= 11.25 || deg > 348.75 {
		return compassPoints[0]
	}
	sector := int(math.Ceil((deg - 11.25) / 22.5))
	return compassPoints[sector]
}
