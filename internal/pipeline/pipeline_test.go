package pipeline_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/forecast-etl/internal/domain"
	"github.com/couchcryptid/forecast-etl/internal/observability"
	"github.com/couchcryptid/forecast-etl/internal/pipeline"
	"github.com/couchcryptid/forecast-etl/internal/store"
)

// --- mocks ---

type mockExtractor struct {
	errs    []error
	batches [][]domain.RawEvent
}

func (m *mockExtractor) ExtractBatch(ctx context.Context, _ int) ([]domain.RawEvent, error) {
	if len(m.errs) > 0 {
		err := m.errs[0]
		m.errs = m.errs[1:]
		return nil, err
	}
	if len(m.batches) > 0 {
		b := m.batches[0]
		m.batches = m.batches[1:]
		return b, nil
	}
	// block until context cancelled to simulate waiting for messages
	<-ctx.Done()
	return nil, ctx.Err()
}

type mockTransformer struct {
	failKeys map[string]bool
}

func (m *mockTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	if m.failKeys[string(raw.Key)] {
		return domain.OutputEvent{}, domain.ErrMalformedPayload
	}
	return domain.OutputEvent{Key: raw.Key, Value: raw.Value}, nil
}

type mockLoader struct {
	failures int
	calls    int
	loaded   []domain.OutputEvent
}

func (m *mockLoader) LoadBatch(_ context.Context, events []domain.OutputEvent) error {
	m.calls++
	if m.failures > 0 {
		m.failures--
		return errors.New("broker unavailable")
	}
	m.loaded = append(m.loaded, events...)
	return nil
}

func rawEvent(key string, commits *[]string) domain.RawEvent {
	return domain.RawEvent{
		Key:   []byte(key),
		Value: []byte(`{"timezone_offset": 0}`),
		Topic: "raw-onecall-payloads",
		Commit: func(_ context.Context) error {
			*commits = append(*commits, key)
			return nil
		},
	}
}

func runFor(t *testing.T, p *pipeline.Pipeline, d time.Duration) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	require.NoError(t, p.Run(ctx))
}

// --- pipeline tests ---

func TestPipeline_Run_HappyPath(t *testing.T) {
	var commits []string
	ext := &mockExtractor{batches: [][]domain.RawEvent{
		{rawEvent("okc", &commits), rawEvent("tulsa", &commits)},
	}}
	ldr := &mockLoader{}
	metrics := observability.NewMetricsForTesting()

	p := pipeline.New(ext, &mockTransformer{}, ldr, slog.Default(), metrics, 10)
	runFor(t, p, 300*time.Millisecond)

	require.Len(t, ldr.loaded, 2)
	assert.Equal(t, []byte("okc"), ldr.loaded[0].Key)
	assert.Equal(t, []string{"okc", "tulsa"}, commits)
	require.NoError(t, p.CheckReadiness(context.Background()))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.MessagesConsumed))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.MessagesProduced))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.PipelineRunning), "reset on exit")
}

func TestPipeline_Run_ContextCancellation(t *testing.T) {
	ext := &mockExtractor{} // no batches, will block
	ldr := &mockLoader{}

	p := pipeline.New(ext, &mockTransformer{}, ldr, slog.Default(), observability.NewMetricsForTesting(), 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	require.NoError(t, p.Run(ctx))
	assert.Empty(t, ldr.loaded)
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_MalformedPayloadIsSkippedAndCommitted(t *testing.T) {
	var commits []string
	ext := &mockExtractor{batches: [][]domain.RawEvent{
		{rawEvent("bad", &commits), rawEvent("okc", &commits)},
	}}
	ldr := &mockLoader{}
	metrics := observability.NewMetricsForTesting()
	tfm := &mockTransformer{failKeys: map[string]bool{"bad": true}}

	p := pipeline.New(ext, tfm, ldr, slog.Default(), metrics, 10)
	runFor(t, p, 300*time.Millisecond)

	require.Len(t, ldr.loaded, 1)
	assert.Equal(t, []byte("okc"), ldr.loaded[0].Key)
	assert.Equal(t, []string{"bad", "okc"}, commits)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.TransformErrors))
}

func TestPipeline_Run_AllMalformedNotReady(t *testing.T) {
	var commits []string
	ext := &mockExtractor{batches: [][]domain.RawEvent{{rawEvent("bad", &commits)}}}
	ldr := &mockLoader{}
	tfm := &mockTransformer{failKeys: map[string]bool{"bad": true}}

	p := pipeline.New(ext, tfm, ldr, slog.Default(), observability.NewMetricsForTesting(), 10)
	runFor(t, p, 300*time.Millisecond)

	assert.Empty(t, ldr.loaded)
	assert.Zero(t, ldr.calls)
	assert.Equal(t, []string{"bad"}, commits)
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_RetriesFailedLoad(t *testing.T) {
	var commits []string
	ext := &mockExtractor{batches: [][]domain.RawEvent{{rawEvent("okc", &commits)}}}
	ldr := &mockLoader{failures: 1}

	p := pipeline.New(ext, &mockTransformer{}, ldr, slog.Default(), observability.NewMetricsForTesting(), 10)
	runFor(t, p, 1500*time.Millisecond)

	assert.Equal(t, 2, ldr.calls)
	require.Len(t, ldr.loaded, 1)
	assert.Equal(t, []string{"okc"}, commits, "committed only after the successful load")
	assert.NoError(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_NoCommitWhileLoadFails(t *testing.T) {
	var commits []string
	ext := &mockExtractor{batches: [][]domain.RawEvent{{rawEvent("okc", &commits)}}}
	ldr := &mockLoader{failures: 100}

	p := pipeline.New(ext, &mockTransformer{}, ldr, slog.Default(), observability.NewMetricsForTesting(), 10)
	runFor(t, p, 500*time.Millisecond)

	assert.Empty(t, ldr.loaded)
	assert.Empty(t, commits)
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_RecoversFromExtractError(t *testing.T) {
	var commits []string
	ext := &mockExtractor{
		errs:    []error{errors.New("fetch failed")},
		batches: [][]domain.RawEvent{{rawEvent("okc", &commits)}},
	}
	ldr := &mockLoader{}

	p := pipeline.New(ext, &mockTransformer{}, ldr, slog.Default(), observability.NewMetricsForTesting(), 10)
	runFor(t, p, 1500*time.Millisecond)

	require.Len(t, ldr.loaded, 1)
	assert.Equal(t, []string{"okc"}, commits)
}

func TestPipeline_Run_CommitErrorDoesNotStop(t *testing.T) {
	raw := domain.RawEvent{
		Key:    []byte("okc"),
		Commit: func(context.Context) error { return errors.New("rebalance in progress") },
	}
	ext := &mockExtractor{batches: [][]domain.RawEvent{{raw}, {raw}}}
	ldr := &mockLoader{}

	p := pipeline.New(ext, &mockTransformer{}, ldr, slog.Default(), observability.NewMetricsForTesting(), 10)
	runFor(t, p, 300*time.Millisecond)

	assert.Len(t, ldr.loaded, 2)
}

// --- transformer tests ---

func loadFixture(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "onecall_metric.json"))
	require.NoError(t, err)
	return data
}

func freezeClock(t *testing.T) time.Time {
	t.Helper()
	now := time.Date(2024, time.April, 26, 17, 5, 0, 0, time.UTC)
	domain.SetClock(clockwork.NewFakeClockAt(now))
	t.Cleanup(func() {
		domain.SetClock(nil)
	})
	return now
}

func TestForecastTransformer_Transform(t *testing.T) {
	now := freezeClock(t)
	latest := store.NewLatest(10)
	metrics := observability.NewMetricsForTesting()
	tfm := pipeline.NewTransformer(domain.DefaultOptions(), latest, slog.Default(), metrics)

	out, err := tfm.Transform(context.Background(), domain.RawEvent{Key: []byte(" okc "), Value: loadFixture(t)})
	require.NoError(t, err)

	assert.Equal(t, []byte("okc"), out.Key)
	if diff := cmp.Diff(map[string]string{
		"location":     "okc",
		"processed_at": "2024-04-26T17:05:00Z",
		"units":        "metric",
	}, out.Headers); diff != "" {
		t.Fatalf("headers mismatch (-want +got):\n%s", diff)
	}

	var rec domain.ForecastRecord
	require.NoError(t, json.Unmarshal(out.Value, &rec))
	assert.Equal(t, "okc", rec.Location)
	assert.True(t, rec.ProcessedAt.Equal(now))
	assert.Len(t, rec.Forecast.Hours, 3)
	assert.Len(t, rec.Forecast.Days, 2)

	stored, ok := latest.Get("okc")
	require.True(t, ok)
	assert.True(t, stored.ProcessedAt.Equal(now))

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.StoredForecasts))
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.Alerts))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.PayloadSections.WithLabelValues("current")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.PayloadSections.WithLabelValues("hourly")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.PayloadSections.WithLabelValues("alerts")))
}

func TestForecastTransformer_KeyFallsBackToCoordinates(t *testing.T) {
	freezeClock(t)
	latest := store.NewLatest(10)
	tfm := pipeline.NewTransformer(domain.DefaultOptions(), latest, slog.Default(), observability.NewMetricsForTesting())

	out, err := tfm.Transform(context.Background(), domain.RawEvent{Value: loadFixture(t)})
	require.NoError(t, err)

	assert.Equal(t, "35.4676,-97.5164", string(out.Key))
	assert.Equal(t, []string{"35.4676,-97.5164"}, latest.Locations())
}

func TestForecastTransformer_MalformedKeepsPrevious(t *testing.T) {
	freezeClock(t)
	latest := store.NewLatest(10)
	tfm := pipeline.NewTransformer(domain.DefaultOptions(), latest, slog.Default(), observability.NewMetricsForTesting())

	_, err := tfm.Transform(context.Background(), domain.RawEvent{Key: []byte("okc"), Value: loadFixture(t)})
	require.NoError(t, err)

	for _, bad := range []string{`not json`, `[]`, `{"lat": 1}`} {
		_, err := tfm.Transform(context.Background(), domain.RawEvent{Key: []byte("okc"), Value: []byte(bad)})
		require.ErrorIs(t, err, domain.ErrMalformedPayload, bad)
	}

	rec, ok := latest.Get("okc")
	require.True(t, ok)
	assert.Len(t, rec.Forecast.Days, 2, "previous model is kept")
}

func TestForecastTransformer_RedeliveredPayloadKeepsNewer(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, time.April, 26, 17, 5, 0, 0, time.UTC))
	domain.SetClock(clock)
	t.Cleanup(func() { domain.SetClock(nil) })

	latest := store.NewLatest(10)
	tfm := pipeline.NewTransformer(domain.DefaultOptions(), latest, slog.Default(), observability.NewMetricsForTesting())

	newer := domain.RawEvent{Key: []byte("okc"), Value: []byte(`{"timezone_offset": 0, "current": {"dt": 2000, "temp": 20}}`)}
	older := domain.RawEvent{Key: []byte("okc"), Value: []byte(`{"timezone_offset": 0, "current": {"dt": 1000, "temp": 5}}`)}

	_, err := tfm.Transform(context.Background(), newer)
	require.NoError(t, err)
	clock.Advance(time.Minute)
	_, err = tfm.Transform(context.Background(), older)
	require.NoError(t, err, "older payloads are still published")

	rec, ok := latest.Get("okc")
	require.True(t, ok)
	assert.Equal(t, int64(2000), rec.Forecast.Current[0].Time.Unix())
	assert.Equal(t, 20.0, rec.Forecast.Current[0].Temperature)
}

func TestForecastTransformer_AppliesOptions(t *testing.T) {
	freezeClock(t)
	opts := domain.DefaultOptions()
	opts.Units = domain.UnitsImperial
	tfm := pipeline.NewTransformer(opts, nil, slog.Default(), observability.NewMetricsForTesting())

	out, err := tfm.Transform(context.Background(), domain.RawEvent{Key: []byte("okc"), Value: loadFixture(t)})
	require.NoError(t, err)
	assert.Equal(t, "imperial", out.Headers["units"])

	var rec domain.ForecastRecord
	require.NoError(t, json.Unmarshal(out.Value, &rec))
	assert.Equal(t, "in", rec.Forecast.Units.Precipitation)
}

func TestForecastTransformer_WithPipeline(t *testing.T) {
	freezeClock(t)
	latest := store.NewLatest(10)
	metrics := observability.NewMetricsForTesting()
	tfm := pipeline.NewTransformer(domain.DefaultOptions(), latest, slog.Default(), metrics)

	var commits []string
	good := rawEvent("okc", &commits)
	good.Value = loadFixture(t)
	bad := rawEvent("tulsa", &commits)
	bad.Value = []byte(`{"current": {}}`)

	ext := &mockExtractor{batches: [][]domain.RawEvent{{bad, good}}}
	ldr := &mockLoader{}

	p := pipeline.New(ext, tfm, ldr, slog.Default(), metrics, 10)
	runFor(t, p, 300*time.Millisecond)

	require.Len(t, ldr.loaded, 1)
	assert.Equal(t, []string{"tulsa", "okc"}, commits)
	assert.Equal(t, []string{"okc"}, latest.Locations())
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.TransformErrors))
}
