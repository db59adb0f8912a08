// Package render turns a stored forecast into display strings: wind as speed
// or Beaufort force, compass directions, temperatures with degree labels,
// filtered alerts and per-day precipitation with estimated snow depth.
//
// It produces data only. Layout and translation belong to the display.
package render

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/forecast-etl/internal/domain"
)

const (
	clockLayout = "15:04"
	longLayout  = "Jan 2, 2006 15:04"
	missingTime = "--"
	noAmount    = "—"

	// defaultSender is shown when the provider omits sender_name.
	defaultSender = "NWS"
)

// View is a display-ready snapshot of one ForecastRecord at a given instant.
type View struct {
	Location    string            `json:"location"`
	GeneratedAt time.Time         `json:"generated_at"`
	Units       domain.UnitLabels `json:"units"`
	DegreeLabel string            `json:"degree_label"`
	Current     *Current          `json:"current,omitempty"`
	Alerts      []Alert           `json:"alerts"`
	Hours       []Hour            `json:"hours"`
	Days        []Day             `json:"days"`
	HasAnyRain  bool              `json:"has_any_rain"`
	HasAnySnow  bool              `json:"has_any_snow"`
}

// Current is the rendered current-conditions block.
type Current struct {
	Wind          string             `json:"wind"`
	WindUnit      string             `json:"wind_unit,omitempty"`
	WindDirection string             `json:"wind_direction"`
	Temperature   string             `json:"temperature"`
	FeelsLike     string             `json:"feels_like"`
	Precipitation string             `json:"precipitation"`
	WeatherType   domain.WeatherType `json:"weather_type"`
	Humidity      string             `json:"humidity"`
	Sunrise       string             `json:"sunrise"`
	Sunset        string             `json:"sunset"`
}

// Alert is an active alert with its times formatted in the location's zone.
type Alert struct {
	Event       string `json:"event"`
	Description string `json:"description"`
	Sender      string `json:"sender"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Valid       string `json:"valid"`
}

// Hour is one rendered hourly column.
type Hour struct {
	Time          string             `json:"time"`
	Temperature   string             `json:"temperature"`
	FeelsLike     string             `json:"feels_like"`
	WeatherType   domain.WeatherType `json:"weather_type"`
	Wind          string             `json:"wind"`
	WindDirection string             `json:"wind_direction"`
	Rain          string             `json:"rain"`
	Snow          string             `json:"snow"`
}

// Day is one rendered daily column.
type Day struct {
	DayOfWeek      string             `json:"day_of_week"`
	Date           string             `json:"date"`
	MaxTemperature string             `json:"max_temperature"`
	MinTemperature string             `json:"min_temperature"`
	WeatherType    domain.WeatherType `json:"weather_type"`
	Wind           string             `json:"wind"`
	WindDirection  string             `json:"wind_direction"`
	Rain           string             `json:"rain"`
	Snow           string             `json:"snow"`
}

// Build renders rec for display at now. opts supplies the display settings;
// the unit system always comes from the record itself.
func Build(rec domain.ForecastRecord, opts domain.Options, now time.Time) View {
	opts = opts.Sanitize()
	m := rec.Forecast
	f := formatter{
		opts:   opts,
		system: domain.NormalizeUnitSystem(m.Units.System),
		wind:   m.Units.WindSpeed,
		zone:   m.Zone(),
	}

	v := View{
		Location:    rec.Location,
		GeneratedAt: now,
		Units:       m.Units,
		DegreeLabel: f.degreeLabel(),
		Alerts:      []Alert{},
		Hours:       make([]Hour, 0, min(len(m.Hours), opts.MaxHourliesToShow)),
		Days:        make([]Day, 0, min(len(m.Days), opts.MaxDailiesToShow)),
	}

	if len(m.Current) > 0 {
		cur := m.Current[0]
		v.Current = f.current(cur)
		for _, a := range domain.FilterAlerts(cur.Alerts, opts.ShowAlertsHours, now) {
			v.Alerts = append(v.Alerts, f.alert(a))
		}
	}

	for i, h := range m.Hours {
		if i >= opts.MaxHourliesToShow {
			break
		}
		v.Hours = append(v.Hours, f.hour(h))
	}

	days := m.Days
	if len(days) > opts.MaxDailiesToShow {
		days = days[:opts.MaxDailiesToShow]
	}
	for _, d := range days {
		v.HasAnyRain = v.HasAnyRain || d.Rain > 0
		v.HasAnySnow = v.HasAnySnow || d.Snow > 0
	}
	for _, d := range days {
		v.Days = append(v.Days, f.day(d, v.HasAnyRain, v.HasAnySnow))
	}

	return v
}

type formatter struct {
	opts   domain.Options
	system domain.UnitSystem
	wind   domain.WindUnit
	zone   *time.Location
}

// toFahrenheit reports whether temperatures are converted for display.
func (f formatter) toFahrenheit() bool {
	return f.opts.TempUnits == "f" && f.system != domain.UnitsImperial
}

func (f formatter) degreeLabel() string {
	if !f.opts.Scale {
		return "°"
	}
	if f.toFahrenheit() {
		return "°F"
	}
	switch f.system {
	case domain.UnitsMetric:
		return "°C"
	case domain.UnitsImperial:
		return "°F"
	default:
		return "K"
	}
}

func (f formatter) temperature(v float64) string {
	if f.toFahrenheit() {
		c := v
		if f.system == domain.UnitsStandard {
			c = domain.KelvinToCelsius(v)
		}
		v = domain.RoundTemperature(domain.CelsiusToFahrenheit(c), true)
	}
	return f.number(v, -1) + f.degreeLabel()
}

func (f formatter) current(c domain.Current) *Current {
	out := &Current{
		WindDirection: domain.CardinalDirection(c.WindDirection),
		Temperature:   f.temperature(c.Temperature),
		FeelsLike:     f.temperature(c.FeelsLike),
		Precipitation: f.precipitation(c.Precipitation),
		WeatherType:   c.WeatherType,
		Humidity:      f.number(c.Humidity, 0) + "%",
		Sunrise:       f.clock(c.Sunrise),
		Sunset:        f.clock(c.Sunset),
	}
	if f.opts.UseBeaufortInCurrent {
		out.Wind = "F" + strconv.Itoa(domain.Beaufort(domain.ToKmh(c.WindSpeed, f.wind)))
	} else {
		out.Wind = f.number(c.WindSpeed, 0)
		out.WindUnit = string(f.wind)
	}
	return out
}

func (f formatter) alert(a domain.Alert) Alert {
	sender := a.Sender
	if sender == "" {
		sender = defaultSender
	}
	return Alert{
		Event:       a.Event,
		Description: a.Description,
		Sender:      sender,
		Start:       f.epoch(a.Start, clockLayout),
		End:         f.epoch(a.End, clockLayout),
		Valid:       f.epoch(a.Start, longLayout) + " - " + f.epoch(a.End, longLayout),
	}
}

func (f formatter) hour(h domain.Hour) Hour {
	return Hour{
		Time:          f.clock(h.Time),
		Temperature:   f.temperature(h.Temperature),
		FeelsLike:     f.temperature(h.FeelsLike),
		WeatherType:   h.WeatherType,
		Wind:          f.number(h.WindSpeed, 0),
		WindDirection: domain.CardinalDirection(h.WindDirection),
		Rain:          f.amount(h.Rain, false),
		Snow:          f.amount(h.Snow, false),
	}
}

func (f formatter) day(d domain.Day, anyRain, anySnow bool) Day {
	return Day{
		DayOfWeek:      d.DayOfWeek,
		Date:           d.Time.In(f.zone).Format(time.DateOnly),
		MaxTemperature: f.temperature(d.MaxTemperature),
		MinTemperature: f.temperature(d.MinTemperature),
		WeatherType:    d.WeatherType,
		Wind:           f.number(d.WindSpeed, 0),
		WindDirection:  domain.CardinalDirection(d.WindDirection),
		Rain:           f.amount(d.Rain, anyRain),
		Snow:           f.snow(d, anySnow),
	}
}

// precipitation formats an amount that is already in the display unit.
func (f formatter) precipitation(v float64) string {
	if f.system == domain.UnitsImperial {
		return f.number(v, 2) + " in"
	}
	return f.number(v, 1) + " mm"
}

// amount is precipitation, or a placeholder when there is none. The
// placeholder is a dash when other columns in the row have values.
func (f formatter) amount(v float64, rowHasValues bool) string {
	if v > 0 {
		return f.precipitation(v)
	}
	if rowHasValues {
		return noAmount
	}
	return ""
}

func (f formatter) snow(d domain.Day, rowHasValues bool) string {
	if !(d.Snow > 0) {
		if rowHasValues {
			return noAmount
		}
		return ""
	}
	depth := domain.SnowDepth(d.Snow, d.MinTemperature, d.MaxTemperature,
		f.system, f.opts.SnowDensityFactor, f.opts.ConvertSnowToDepth)
	places := 1
	if f.system == domain.UnitsImperial {
		places = 2
	}
	return f.number(depth.Value, places) + " " + depth.Unit
}

// number formats v with a fixed number of decimals, halves rounding up, or
// the shortest form when places is -1. The configured decimal symbol is used.
func (f formatter) number(v float64, places int) string {
	if places >= 0 {
		p := math.Pow(10, float64(places))
		v = math.Floor(v*p+0.5) / p
	}
	s := strconv.FormatFloat(v, 'f', places, 64)
	if strings.HasPrefix(s, "-") && strings.Trim(s, "-0.") == "" {
		s = s[1:]
	}
	if f.opts.DecimalSymbol != "." {
		s = strings.Replace(s, ".", f.opts.DecimalSymbol, 1)
	}
	return s
}

func (f formatter) clock(t time.Time) string {
	if t.Unix() == 0 {
		return missingTime
	}
	return t.In(f.zone).Format(clockLayout)
}

func (f formatter) epoch(sec int64, layout string) string {
	if sec == 0 {
		return missingTime
	}
	return time.Unix(sec, 0).In(f.zone).Format(layout)
}
