package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedPayload is returned when the payload root is unusable. No
// partial model is produced in that case.
var ErrMalformedPayload = errors.New("malformed payload")

// ParsePayload decodes a One Call document. The root must be a JSON object
// carrying a numeric timezone_offset. A field holding the wrong JSON type
// (a number where an object or string belongs, a string where a list
// belongs) is skipped and reads as absent; only invalid JSON fails.
func ParsePayload(data []byte) (RawPayload, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return RawPayload{}, fmt.Errorf("parse payload: %w: root is not an object", ErrMalformedPayload)
	}

	var p RawPayload
	var typeErr *json.UnmarshalTypeError
	if err := json.Unmarshal(trimmed, &p); err != nil && !errors.As(err, &typeErr) {
		return RawPayload{}, fmt.Errorf("parse payload: %w: %w", ErrMalformedPayload, err)
	}
	if err := validateRoot(p); err != nil {
		return RawPayload{}, fmt.Errorf("parse payload: %w", err)
	}
	return p, nil
}

func validateRoot(p RawPayload) error {
	if !p.TimezoneOffset.Valid() {
		return fmt.Errorf("%w: missing timezone_offset", ErrMalformedPayload)
	}
	return nil
}

// Normalize converts a parsed payload into a ForecastModel. Missing sections
// produce empty output; invalid per-entry numbers read as 0. The payload is
// not modified and the result shares no memory with it.
func Normalize(p RawPayload, opts Options) (ForecastModel, error) {
	if err := validateRoot(p); err != nil {
		return ForecastModel{}, fmt.Errorf("normalize: %w", err)
	}

	opts = opts.Sanitize()
	units := ResolveUnits(opts)
	offset := int(p.TimezoneOffset.Int64())

	model := ForecastModel{
		Lat:            p.Lat.Float(),
		Lon:            p.Lon.Float(),
		Timezone:       p.Timezone,
		TimezoneOffset: offset,
		Units:          units.Labels(),
	}
	n := normalizer{opts: opts, units: units, zone: model.Zone()}

	model.Current = make([]Current, 0, 1)
	if p.Current != nil {
		model.Current = append(model.Current, n.newCurrent(*p.Current, p.Alerts))
	}

	model.Hours = make([]Hour, 0, len(p.Hourly))
	for _, h := range p.Hourly {
		model.Hours = append(model.Hours, n.newHour(h))
	}

	model.Days = make([]Day, 0, len(p.Daily))
	for _, d := range p.Daily {
		model.Days = append(model.Days, n.newDay(d))
	}

	return model, nil
}

// NormalizeJSON parses and normalizes a payload in one step.
func NormalizeJSON(data []byte, opts Options) (ForecastModel, error) {
	p, err := ParsePayload(data)
	if err != nil {
		return ForecastModel{}, err
	}
	return Normalize(p, opts)
}

// LocationKey identifies a payload by its coordinates, e.g. "35.4676,-97.5164".
func LocationKey(p RawPayload) string {
	return fmt.Sprintf("%.4f,%.4f", p.Lat.Float(), p.Lon.Float())
}
