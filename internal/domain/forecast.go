package domain

import "time"

// Current is the normalized "current" section.
type Current struct {
	Time          time.Time   `json:"time"`
	DayOfWeek     string      `json:"day_of_week"`
	WindSpeed     float64     `json:"wind_speed"`
	WindDirection float64     `json:"wind_direction"`
	Sunrise       time.Time   `json:"sunrise"`
	Sunset        time.Time   `json:"sunset"`
	Temperature   float64     `json:"temperature"`
	WeatherIcon   string      `json:"weather_icon"`
	WeatherType   WeatherType `json:"weather_type"`
	Humidity      float64     `json:"humidity"`
	FeelsLike     float64     `json:"feels_like"`
	Precipitation float64     `json:"precipitation"`
	Alerts        []Alert     `json:"alerts"`
}

// Hour is one normalized hourly sample.
type Hour struct {
	Time          time.Time   `json:"time"`
	Temperature   float64     `json:"temperature"`
	Humidity      float64     `json:"humidity"`
	WindSpeed     float64     `json:"wind_speed"`
	WindDirection float64     `json:"wind_direction"`
	FeelsLike     float64     `json:"feels_like"`
	WeatherIcon   string      `json:"weather_icon"`
	WeatherType   WeatherType `json:"weather_type"`
	Rain          float64     `json:"rain"`
	Snow          float64     `json:"snow"`
}

// Day is one normalized daily sample. Snow is water-equivalent; see SnowDepth.
type Day struct {
	Time           time.Time   `json:"time"`
	DayOfWeek      string      `json:"day_of_week"`
	Sunrise        time.Time   `json:"sunrise"`
	Sunset         time.Time   `json:"sunset"`
	MinTemperature float64     `json:"min_temperature"`
	MaxTemperature float64     `json:"max_temperature"`
	Humidity       float64     `json:"humidity"`
	WindSpeed      float64     `json:"wind_speed"`
	WindDirection  float64     `json:"wind_direction"`
	FeelsLike      float64     `json:"feels_like"`
	WeatherIcon    string      `json:"weather_icon"`
	WeatherType    WeatherType `json:"weather_type"`
	Rain           float64     `json:"rain"`
	Snow           float64     `json:"snow"`
}

// ForecastModel is the normalized, display-ready view of one payload. All
// values share the unit system named in Units. Current holds zero or one entry.
type ForecastModel struct {
	Lat            float64    `json:"lat"`
	Lon            float64    `json:"lon"`
	Timezone       string     `json:"timezone,omitempty"`
	TimezoneOffset int        `json:"timezone_offset"`
	Units          UnitLabels `json:"units"`
	Current        []Current  `json:"current"`
	Hours          []Hour     `json:"hours"`
	Days           []Day      `json:"days"`
}

// Zone returns the payload's fixed time zone.
func (m ForecastModel) Zone() *time.Location {
	return time.FixedZone(m.Timezone, m.TimezoneOffset)
}

// ObservedAt is the provider's timestamp for the payload: the current
// conditions time, else the first hour, else the first day. It is zero when
// the payload carries none of them.
func (m ForecastModel) ObservedAt() time.Time {
	var candidates []time.Time
	if len(m.Current) > 0 {
		candidates = append(candidates, m.Current[0].Time)
	}
	if len(m.Hours) > 0 {
		candidates = append(candidates, m.Hours[0].Time)
	}
	if len(m.Days) > 0 {
		candidates = append(candidates, m.Days[0].Time)
	}
	for _, t := range candidates {
		if t.Unix() > 0 {
			return t
		}
	}
	return time.Time{}
}

// ForecastRecord is a normalized forecast for one location, as published to
// the sink topic and held by the store.
type ForecastRecord struct {
	Location    string        `json:"location"`
	ProcessedAt time.Time     `json:"processed_at"`
	Forecast    ForecastModel `json:"forecast"`
}

// normalizer carries the per-run state shared by the record constructors.
type normalizer struct {
	opts  Options
	units Units
	zone  *time.Location
}

func (n normalizer) localTime(epoch Number) time.Time {
	return time.Unix(epoch.Int64(), 0).In(n.zone)
}

func (n normalizer) newCurrent(raw RawEntry, alerts []RawAlert) Current {
	mapped := make([]Alert, 0, len(alerts))
	for _, a := range alerts {
		mapped = append(mapped, newAlert(a))
	}
	code := icon(raw.Weather)
	at := n.localTime(raw.Dt)
	return Current{
		Time:          at,
		DayOfWeek:     weekdayLabel(at),
		WindSpeed:     n.units.windSpeed(raw.WindSpeed.Float()),
		WindDirection: raw.WindDeg.Float(),
		Sunrise:       n.localTime(raw.Sunrise),
		Sunset:        n.localTime(raw.Sunset),
		Temperature:   RoundTemperature(raw.Temp.Float(), n.opts.RoundTemp),
		WeatherIcon:   code,
		WeatherType:   ClassifyIcon(code),
		Humidity:      raw.Humidity.Float(),
		FeelsLike:     roundTo(raw.FeelsLike.Float(), 1),
		Precipitation: n.units.precip(oneHour(raw.Rain) + oneHour(raw.Snow)),
		Alerts:        mapped,
	}
}

func (n normalizer) newHour(raw RawEntry) Hour {
	code := icon(raw.Weather)
	return Hour{
		Time:          n.localTime(raw.Dt),
		Temperature:   RoundTemperature(raw.Temp.Float(), n.opts.RoundTemp),
		Humidity:      raw.Humidity.Float(),
		WindSpeed:     n.units.windSpeed(raw.WindSpeed.Float()),
		WindDirection: raw.WindDeg.Float(),
		FeelsLike:     roundTo(raw.FeelsLike.Float(), 1),
		WeatherIcon:   code,
		WeatherType:   ClassifyIcon(code),
		Rain:          n.units.precip(oneHour(raw.Rain)),
		Snow:          n.units.precip(oneHour(raw.Snow)),
	}
}

func (n normalizer) newDay(raw RawDay) Day {
	code := icon(raw.Weather)
	at := n.localTime(raw.Dt)
	return Day{
		Time:           at,
		DayOfWeek:      weekdayLabel(at),
		Sunrise:        n.localTime(raw.Sunrise),
		Sunset:         n.localTime(raw.Sunset),
		MinTemperature: RoundTemperature(raw.Temp.Min.Float(), n.opts.RoundTemp),
		MaxTemperature: RoundTemperature(raw.Temp.Max.Float(), n.opts.RoundTemp),
		Humidity:       raw.Humidity.Float(),
		WindSpeed:      n.units.windSpeed(raw.WindSpeed.Float()),
		WindDirection:  raw.WindDeg.Float(),
		FeelsLike:      roundTo(raw.FeelsLike.Float(), 1),
		WeatherIcon:    code,
		WeatherType:    ClassifyIcon(code),
		Rain:           n.units.precip(amount(raw.Rain)),
		Snow:           n.units.precip(amount(raw.Snow)),
	}
}

// weekdayLabel is the short English weekday, e.g. "Mon".
func weekdayLabel(t time.Time) string {
	return t.Weekday().String()[:3]
}
