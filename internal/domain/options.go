package domain

// Options controls how a payload is normalized and displayed. It is passed by
// value into every stage and never modified after Sanitize.
type Options struct {
	Units                UnitSystem `json:"units" validate:"oneof=metric imperial standard"`
	WindUnits            WindUnit   `json:"wind_units" validate:"oneof=ms kmh mph knots"`
	RoundTemp            bool       `json:"round_temp"`
	ConvertSnowToDepth   bool       `json:"convert_snow_to_depth"`
	SnowDensityFactor    float64    `json:"snow_density_factor" validate:"gt=0,lte=5"`
	ShowAlertsHours      float64    `json:"show_alerts_hours" validate:"gte=0"`
	UseBeaufortInCurrent bool       `json:"use_beaufort_in_current"`
	TempUnits            string     `json:"temp_units" validate:"oneof=c f"`
	DecimalSymbol        string     `json:"decimal_symbol" validate:"max=1"`
	Scale                bool       `json:"scale"`
	MaxHourliesToShow    int        `json:"max_hourlies_to_show" validate:"gte=0"`
	MaxDailiesToShow     int        `json:"max_dailies_to_show" validate:"gte=0"`
}

// DefaultOptions mirrors the defaults of the display module the payloads feed.
func DefaultOptions() Options {
	return Options{
		Units:              UnitsMetric,
		WindUnits:          WindMph,
		RoundTemp:          true,
		ConvertSnowToDepth: true,
		SnowDensityFactor:  1.0,
		ShowAlertsHours:    12,
		TempUnits:          "c",
		DecimalSymbol:      ".",
		MaxHourliesToShow:  30,
		MaxDailiesToShow:   6,
	}
}

// Sanitize returns a copy with unusable values replaced by safe defaults.
// It runs once before normalization; no later stage rewrites options.
func (o Options) Sanitize() Options {
	if o.DecimalSymbol == "" || o.DecimalSymbol == " " {
		o.DecimalSymbol = "."
	}
	if !(o.SnowDensityFactor > 0) {
		o.SnowDensityFactor = 1.0
	}
	if !(o.ShowAlertsHours >= 0) {
		o.ShowAlertsHours = 0
	}
	if o.MaxHourliesToShow < 0 {
		o.MaxHourliesToShow = 0
	}
	if o.MaxDailiesToShow < 0 {
		o.MaxDailiesToShow = 0
	}
	return o
}
