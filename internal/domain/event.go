package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// RawEvent represents an unprocessed message from the source topic. Value
// holds one One Call payload; Key, when set, names the location.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// SerializeForecastRecord encodes rec for the sink topic, keyed by location.
func SerializeForecastRecord(rec ForecastRecord) (OutputEvent, error) {
	value, err := json.Marshal(rec)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize forecast %q: %w", rec.Location, err)
	}
	return OutputEvent{
		Key:   []byte(rec.Location),
		Value: value,
		Headers: map[string]string{
			"location":     rec.Location,
			"processed_at": rec.ProcessedAt.UTC().Format(time.RFC3339),
			"units":        string(rec.Forecast.Units.System),
		},
	}, nil
}
