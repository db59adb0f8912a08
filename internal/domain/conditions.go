package domain

// WeatherType is a display category derived from the provider icon code.
type WeatherType string

const (
	WeatherDaySunny            WeatherType = "day-sunny"
	WeatherDayCloudy           WeatherType = "day-cloudy"
	WeatherCloudy              WeatherType = "cloudy"
	WeatherCloudyWindy         WeatherType = "cloudy-windy"
	WeatherShowers             WeatherType = "showers"
	WeatherRain                WeatherType = "rain"
	WeatherThunderstorm        WeatherType = "thunderstorm"
	WeatherSnow                WeatherType = "snow"
	WeatherFog                 WeatherType = "fog"
	WeatherNightClear          WeatherType = "night-clear"
	WeatherNightCloudy         WeatherType = "night-cloudy"
	WeatherNightShowers        WeatherType = "night-showers"
	WeatherNightRain           WeatherType = "night-rain"
	WeatherNightThunderstorm   WeatherType = "night-thunderstorm"
	WeatherNightSnow           WeatherType = "night-snow"
	WeatherNightAltCloudyWindy WeatherType = "night-alt-cloudy-windy"
	WeatherUnknown             WeatherType = "na"
)

// weatherTypes maps OpenWeatherMap icon codes ("01d", "10n", ...) to categories.
var weatherTypes = map[string]WeatherType{
	"01d": WeatherDaySunny,
	"02d": WeatherDayCloudy,
	"03d": WeatherCloudy,
	"04d": WeatherCloudyWindy,
	"09d": WeatherShowers,
	"10d": WeatherRain,
	"11d": WeatherThunderstorm,
	"13d": WeatherSnow,
	"50d": WeatherFog,
	"01n": WeatherNightClear,
	"02n": WeatherNightCloudy,
	"03n": WeatherNightCloudy,
	"04n": WeatherNightCloudy,
	"09n": WeatherNightShowers,
	"10n": WeatherNightRain,
	"11n": WeatherNightThunderstorm,
	"13n": WeatherNightSnow,
	"50n": WeatherNightAltCloudyWindy,
}

// ClassifyIcon returns the category for an icon code. Unrecognized and empty
// codes map to WeatherUnknown.
func ClassifyIcon(code string) WeatherType {
	if t, ok := weatherTypes[code]; ok {
		return t
	}
	return WeatherUnknown
}
