// Package domain normalizes OpenWeatherMap One Call payloads into display-ready
// forecast records.
//
// # Data Source
//
// An upstream fetcher calls the One Call API once per configured location and
// publishes the unmodified JSON document to the Kafka source topic. The message
// key, when present, is the location name; otherwise the coordinates are used
// (see [LocationKey]).
//
// # Provider Conventions
//
// Timestamps:
//
//	"dt", "sunrise", "sunset", alert "start"/"end" are Unix seconds (UTC).
//	"timezone_offset" is the location's offset from UTC in seconds and is the
//	only required root field. Local times are the instant in a fixed zone of
//	that offset.
//
// Units (chosen by the fetcher's "units" query parameter):
//
//	metric:    °C, wind m/s
//	imperial:  °F, wind mph
//	standard:  K,  wind m/s
//	Precipitation is always millimetres; imperial output converts to inches (÷25.4).
//
// Precipitation shapes:
//
//	current / hourly: {"rain": {"1h": 0.25}, "snow": {"1h": 0.1}}
//	daily:            {"rain": 3.1, "snow": 0.4}   (day totals)
//	Absent, null, non-numeric or negative amounts read as 0.
//
// Any field of the wrong JSON type, including a whole entry or section, reads
// as absent. Only invalid JSON or an unusable root fails [ParsePayload].
//
// Feels-like:
//
//	current / hourly: a number
//	daily:            {"day": .., "night": .., "eve": .., "morn": ..}, the "day" value is used
//	Either form is accepted anywhere (see [FeelsLike]).
//
// # Snow Depth
//
// Snow is carried as water-equivalent. [SnowDepth] estimates physical depth
// from the day's average temperature:
//
//	< -15°C  20:1   [-15,-10) 15:1   [-10,-5) 12:1
//	[-5,0)   10:1   [0,2)      6:1   >= 2°C    5:1
//
// The ratio is multiplied by the configured density factor. Metric depth is
// reported in cm, imperial in inches.
//
// # Alerts
//
// Alerts are copied verbatim onto the current conditions. [FilterAlerts]
// selects the ones a display should show at a given instant.
package domain
