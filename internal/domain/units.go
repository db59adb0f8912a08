package domain

import "math"

// UnitSystem is the provider unit system requested for the payload.
type UnitSystem string

const (
	UnitsMetric   UnitSystem = "metric"
	UnitsImperial UnitSystem = "imperial"
	UnitsStandard UnitSystem = "standard"
)

// WindUnit is a wind speed display unit.
type WindUnit string

const (
	WindMs    WindUnit = "ms"
	WindKmh   WindUnit = "kmh"
	WindMph   WindUnit = "mph"
	WindKnots WindUnit = "knots"
)

// mmPerInch converts provider millimetres to inches.
const mmPerInch = 25.4

// Units is the resolved conversion state for one normalization run.
type Units struct {
	System       UnitSystem
	Wind         WindUnit // unit the converted wind speed is expressed in
	WindFactor   float64  // multiply provider speed by this to get Wind
	PrecipInches bool     // precipitation is reported in inches instead of mm
}

// UnitLabels names the units every value in a ForecastModel is expressed in.
type UnitLabels struct {
	System        UnitSystem `json:"system"`
	Temperature   string     `json:"temperature"`
	WindSpeed     WindUnit   `json:"wind_speed"`
	Precipitation string     `json:"precipitation"`
}

// Speeds in m/s and mph expressed in each display unit.
var (
	fromMs = map[WindUnit]float64{
		WindMs:    1,
		WindKmh:   3.6,
		WindMph:   2.23694,
		WindKnots: 1.94384,
	}
	fromMph = map[WindUnit]float64{
		WindMs:    0.44704,
		WindKmh:   1.609344,
		WindMph:   1,
		WindKnots: 0.868976,
	}
	// kmhPer converts a speed in the given unit to km/h.
	kmhPer = map[WindUnit]float64{
		WindMs:    3.6,
		WindKmh:   1,
		WindMph:   1.609344,
		WindKnots: 1.852,
	}
)

// NormalizeUnitSystem maps unrecognized systems to standard, as the provider does.
func NormalizeUnitSystem(u UnitSystem) UnitSystem {
	switch u {
	case UnitsMetric, UnitsImperial:
		return u
	default:
		return UnitsStandard
	}
}

// NativeWindUnit is the unit the provider reports wind speed in for a system.
func NativeWindUnit(u UnitSystem) WindUnit {
	if NormalizeUnitSystem(u) == UnitsImperial {
		return WindMph
	}
	return WindMs
}

// ResolveUnits derives the conversion factors for opts. It never fails:
// an unknown wind unit leaves speeds in the provider's native unit.
func ResolveUnits(opts Options) Units {
	system := NormalizeUnitSystem(opts.Units)
	native := NativeWindUnit(system)

	table := fromMs
	if native == WindMph {
		table = fromMph
	}

	wind, factor := native, 1.0
	if f, ok := table[opts.WindUnits]; ok {
		wind, factor = opts.WindUnits, f
	}

	return Units{
		System:       system,
		Wind:         wind,
		WindFactor:   factor,
		PrecipInches: system == UnitsImperial,
	}
}

// Labels returns the display labels for the resolved units.
func (u Units) Labels() UnitLabels {
	labels := UnitLabels{System: u.System, WindSpeed: u.Wind, Precipitation: "mm"}
	switch u.System {
	case UnitsMetric:
		labels.Temperature = "°C"
	case UnitsImperial:
		labels.Temperature = "°F"
		labels.Precipitation = "in"
	default:
		labels.Temperature = "K"
	}
	return labels
}

// precip converts a provider millimetre amount into the display unit.
func (u Units) precip(mm float64) float64 {
	if u.PrecipInches {
		return MillimetersToInches(mm)
	}
	return mm
}

// windSpeed converts and rounds a provider wind speed for display.
func (u Units) windSpeed(raw float64) float64 {
	return roundHalfUp(raw * u.WindFactor)
}

// ToKmh converts a speed in unit to km/h. Unknown units are treated as km/h.
func ToKmh(speed float64, unit WindUnit) float64 {
	if f, ok := kmhPer[unit]; ok {
		return speed * f
	}
	return speed
}

// MillimetersToInches converts mm to inches.
func MillimetersToInches(mm float64) float64 { return mm / mmPerInch }

// InchesToMillimeters converts inches to mm.
func InchesToMillimeters(in float64) float64 { return in * mmPerInch }

// FahrenheitToCelsius converts °F to °C.
func FahrenheitToCelsius(f float64) float64 { return (f - 32) * 5 / 9 }

// KelvinToCelsius converts K to °C.
func KelvinToCelsius(k float64) float64 { return k - 273.15 }

// CelsiusToFahrenheit converts °C to °F.
func CelsiusToFahrenheit(c float64) float64 { return c*9/5 + 32 }

// RoundTemperature is the rounding rule shared by every temperature field:
// whole degrees when roundTemp is set, otherwise one decimal.
func RoundTemperature(v float64, roundTemp bool) float64 {
	if roundTemp {
		return roundHalfUp(v)
	}
	return roundTo(v, 1)
}

// roundHalfUp rounds .5 toward positive infinity, so -2.5 becomes -2.
func roundHalfUp(v float64) float64 {
	r := math.Floor(v + 0.5)
	if r == 0 {
		return 0 // drop negative zero
	}
	return r
}

// roundTo rounds v to the given number of decimal places.
func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return roundHalfUp(v*p) / p
}
