package domain

import "time"

// Alert is the display-safe form of a provider alert. Start and End are
// epoch seconds.
type Alert struct {
	Event       string   `json:"event"`
	Description string   `json:"description"`
	Sender      string   `json:"sender"`
	Start       int64    `json:"start"`
	End         int64    `json:"end"`
	Tags        []string `json:"tags,omitempty"`
}

func newAlert(raw RawAlert) Alert {
	var tags []string
	if len(raw.Tags) > 0 {
		tags = append([]string(nil), raw.Tags...)
	}
	return Alert{
		Event:       raw.Event,
		Description: raw.Description,
		Sender:      raw.SenderName,
		Start:       raw.Start.Int64(),
		End:         raw.End.Int64(),
		Tags:        tags,
	}
}

// FilterAlerts keeps the alerts that are still running at now and start
// before the look-ahead window closes. Alerts without an event name are
// dropped. Order is preserved and duplicates are kept.
func FilterAlerts(alerts []Alert, lookAheadHours float64, now time.Time) []Alert {
	nowSec := float64(now.UnixNano()) / float64(time.Second)
	windowEnd := nowSec + lookAheadHours*3600

	out := make([]Alert, 0, len(alerts))
	for _, a := range alerts {
		if a.Event == "" {
			continue
		}
		if float64(a.Start) >= windowEnd || float64(a.End) <= nowSec {
			continue
		}
		out = append(out, Alert{
			Event:       a.Event,
			Description: a.Description,
			Start:       a.Start,
			End:         a.End,
			Sender:      a.Sender,
		})
	}
	return out
}
