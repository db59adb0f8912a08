package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"github.com/couchcryptid/forecast-etl/internal/domain"
	"github.com/couchcryptid/forecast-etl/internal/observability"
)

// RecordStore receives every successfully normalized record.
type RecordStore interface {
	Put(rec domain.ForecastRecord) bool
	Len() int
}

// ForecastTransformer implements Transformer by normalizing One Call payloads
// and remembering the latest record per location.
type ForecastTransformer struct {
	opts    domain.Options
	store   RecordStore
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewTransformer creates a ForecastTransformer. Options are sanitized once
// here. Pass a nil store to skip keeping latest records.
func NewTransformer(opts domain.Options, store RecordStore, logger *slog.Logger, metrics *observability.Metrics) *ForecastTransformer {
	return &ForecastTransformer{
		opts:    opts.Sanitize(),
		store:   store,
		logger:  logger,
		metrics: metrics,
	}
}

func (t *ForecastTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	payload, err := domain.ParsePayload(raw.Value)
	if err != nil {
		return domain.OutputEvent{}, err
	}
	model, err := domain.Normalize(payload, t.opts)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	location := strings.TrimSpace(string(raw.Key))
	if location == "" {
		location = domain.LocationKey(payload)
	}
	rec := domain.ForecastRecord{
		Location:    location,
		ProcessedAt: domain.Now(),
		Forecast:    model,
	}

	out, err := domain.SerializeForecastRecord(rec)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	t.observe(payload, model)
	if t.store != nil {
		if !t.store.Put(rec) {
			t.logger.Debug("older forecast not stored", "location", location, "offset", raw.Offset)
		}
		t.metrics.StoredForecasts.Set(float64(t.store.Len()))
	}
	return out, nil
}

func (t *ForecastTransformer) observe(p domain.RawPayload, m domain.ForecastModel) {
	if p.Current != nil {
		t.metrics.PayloadSections.WithLabelValues("current").Inc()
	}
	if len(p.Hourly) > 0 {
		t.metrics.PayloadSections.WithLabelValues("hourly").Inc()
	}
	if len(p.Daily) > 0 {
		t.metrics.PayloadSections.WithLabelValues("daily").Inc()
	}
	if len(p.Alerts) > 0 {
		t.metrics.PayloadSections.WithLabelValues("alerts").Inc()
		t.metrics.Alerts.Add(float64(len(p.Alerts)))
	}
	t.metrics.SeriesEntries.WithLabelValues("hourly").Observe(float64(len(m.Hours)))
	t.metrics.SeriesEntries.WithLabelValues("daily").Observe(float64(len(m.Days)))
}
