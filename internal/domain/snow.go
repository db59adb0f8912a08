package domain

// SnowAmount is a snow value paired with the unit it is expressed in.
type SnowAmount struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// SnowDepthRatio returns the snow-to-water ratio for an average temperature
// in °C, scaled by densityFactor. Each band is open at its upper edge, so a
// temperature exactly on a threshold takes the warmer band's ratio.
//
//	< -15    20  powder
//	< -10    15  light powder
//	< -5     12  dry
//	< 0      10  normal
//	< 2       6  wet
//	>= 2      5  slush
func SnowDepthRatio(avgCelsius, densityFactor float64) float64 {
	var base float64
	switch {
	case avgCelsius < -15:
		base = 20
	case avgCelsius < -10:
		base = 15
	case avgCelsius < -5:
		base = 12
	case avgCelsius < 0:
		base = 10
	case avgCelsius < 2:
		base = 6
	default:
		base = 5
	}
	return base * densityFactor
}

// SnowDepth converts a water-equivalent snow amount (mm, or inches for
// imperial) into an estimated depth using the day's temperature range.
// Temperatures are in the unit system's own scale (°C, °F or K). When enabled is false the
// amount is returned as-is with the water-equivalent unit.
func SnowDepth(amount, minTemp, maxTemp float64, system UnitSystem, densityFactor float64, enabled bool) SnowAmount {
	system = NormalizeUnitSystem(system)
	imperial := system == UnitsImperial
	if !enabled {
		if imperial {
			return SnowAmount{Value: amount, Unit: "in"}
		}
		return SnowAmount{Value: amount, Unit: "mm"}
	}

	avg := (minTemp + maxTemp) / 2
	switch system {
	case UnitsImperial:
		avg = FahrenheitToCelsius(avg)
	case UnitsStandard:
		avg = KelvinToCelsius(avg)
	}
	ratio := SnowDepthRatio(avg, densityFactor)

	if imperial {
		return SnowAmount{Value: amount * ratio, Unit: "in"}
	}
	// mm of water times ratio is mm of snow; report centimetres.
	return SnowAmount{Value: amount * ratio / 10, Unit: "cm"}
}
