package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/couchcryptid/forecast-etl/internal/domain"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration

	// ForecastCacheSize bounds the number of locations kept for the HTTP API.
	ForecastCacheSize int

	// Forecast holds the normalization and display options.
	Forecast domain.Options
}

// optionEnv maps Options fields to the variables that set them, for error messages.
var optionEnv = map[string]string{
	"Units":                "UNITS",
	"WindUnits":            "WIND_UNITS",
	"RoundTemp":            "ROUND_TEMP",
	"ConvertSnowToDepth":   "CONVERT_SNOW_TO_DEPTH",
	"SnowDensityFactor":    "SNOW_DENSITY_FACTOR",
	"ShowAlertsHours":      "SHOW_ALERTS_HOURS",
	"UseBeaufortInCurrent": "USE_BEAUFORT_IN_CURRENT",
	"TempUnits":            "TEMP_UNITS",
	"DecimalSymbol":        "DECIMAL_SYMBOL",
	"Scale":                "SCALE",
	"MaxHourliesToShow":    "MAX_HOURLIES_TO_SHOW",
	"MaxDailiesToShow":     "MAX_DAILIES_TO_SHOW",
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads configuration from environment variables, applying defaults where unset.
// A .env file in the working directory is applied first; variables already set
// in the environment win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	cacheSize, err := envInt("FORECAST_CACHE_SIZE", 1000)
	if err != nil {
		return nil, err
	}
	if cacheSize <= 0 {
		return nil, errors.New("invalid FORECAST_CACHE_SIZE: must be positive")
	}

	forecast, err := loadForecastOptions()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "raw-onecall-payloads"),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "normalized-forecasts"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "forecast-etl"),
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,
		ForecastCacheSize:  cacheSize,
		Forecast:           forecast,
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSourceTopic == "" {
		return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}
	if cfg.KafkaSourceTopic == cfg.KafkaSinkTopic {
		return nil, errors.New("KAFKA_SINK_TOPIC must differ from KAFKA_SOURCE_TOPIC")
	}

	return cfg, nil
}

// loadForecastOptions overlays the forecast variables on DefaultOptions and
// validates the result.
func loadForecastOptions() (domain.Options, error) {
	opts := domain.DefaultOptions()
	opts.Units = domain.UnitSystem(strings.ToLower(sharedcfg.EnvOrDefault("UNITS", string(opts.Units))))
	opts.WindUnits = domain.WindUnit(strings.ToLower(sharedcfg.EnvOrDefault("WIND_UNITS", string(opts.WindUnits))))
	opts.TempUnits = strings.ToLower(sharedcfg.EnvOrDefault("TEMP_UNITS", opts.TempUnits))
	if v, ok := os.LookupEnv("DECIMAL_SYMBOL"); ok {
		opts.DecimalSymbol = v
	}

	var err error
	bools := []struct {
		name string
		dst  *bool
	}{
		{"ROUND_TEMP", &opts.RoundTemp},
		{"CONVERT_SNOW_TO_DEPTH", &opts.ConvertSnowToDepth},
		{"USE_BEAUFORT_IN_CURRENT", &opts.UseBeaufortInCurrent},
		{"SCALE", &opts.Scale},
	}
	for _, b := range bools {
		if *b.dst, err = envBool(b.name, *b.dst); err != nil {
			return domain.Options{}, err
		}
	}
	if opts.SnowDensityFactor, err = envFloat("SNOW_DENSITY_FACTOR", opts.SnowDensityFactor); err != nil {
		return domain.Options{}, err
	}
	if opts.ShowAlertsHours, err = envFloat("SHOW_ALERTS_HOURS", opts.ShowAlertsHours); err != nil {
		return domain.Options{}, err
	}
	if opts.MaxHourliesToShow, err = envInt("MAX_HOURLIES_TO_SHOW", opts.MaxHourliesToShow); err != nil {
		return domain.Options{}, err
	}
	if opts.MaxDailiesToShow, err = envInt("MAX_DAILIES_TO_SHOW", opts.MaxDailiesToShow); err != nil {
		return domain.Options{}, err
	}

	if err := validate.Struct(opts); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return domain.Options{}, fmt.Errorf("invalid %s: %v fails %q", optionEnv[fe.Field()], fe.Value(), fe.Tag()+"="+fe.Param())
		}
		return domain.Options{}, fmt.Errorf("validate forecast options: %w", err)
	}
	return opts.Sanitize(), nil
}

func envBool(name string, def bool) (bool, error) {
	s := strings.TrimSpace(os.Getenv(name))
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", name, err)
	}
	return v, nil
}

func envFloat(name string, def float64) (float64, error) {
	s := strings.TrimSpace(os.Getenv(name))
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return v, nil
}

func envInt(name string, def int) (int, error) {
	s := strings.TrimSpace(os.Getenv(name))
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return v, nil
}
