package dashboard_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wxdash/weather-dashboard/internal/dashboard"
	"github.com/wxdash/weather-dashboard/internal/domain"
	"github.com/wxdash/weather-dashboard/internal/observability"
)

// --- mocks ---

type mockFetcher struct {
	errs  map[string]error
	calls []string
}

func (m *mockFetcher) Fetch(_ context.Context, location string) (*domain.Observation, error) {
	m.calls = append(m.calls, location)
	if err := m.errs[location]; err != nil {
		return nil, err
	}
	return &domain.Observation{
		Location:     location,
		TemperatureF: 47.3,
		FeelsLikeF:   43.1,
		HumidityPct:  71,
		Conditions:   "light rain",
		Raw:          map[string]any{"name": location},
	}, nil
}

type mockRenderer struct {
	rendered []string
	err      error
}

func (m *mockRenderer) Render(obs domain.Observation) error {
	m.rendered = append(m.rendered, obs.Location)
	return m.err
}

type mockPublisher struct {
	published []string
	err       error
}

func (m *mockPublisher) Publish(_ context.Context, obs domain.Observation) error {
	m.published = append(m.published, obs.Location)
	return m.err
}

func newOrchestrator(fetcher *mockFetcher, store *mockStore, renderer *mockRenderer, publisher dashboard.Publisher, locations []string) *dashboard.Orchestrator {
	metrics := observability.NewMetricsForTesting()
	recorder := dashboard.NewRecorder(store, discardLogger(), metrics)
	return dashboard.New(fetcher, store, recorder, renderer, publisher, locations, discardLogger(), metrics)
}

// --- tests ---

func TestOrchestrator_Run_EndToEnd(t *testing.T) {
	frozenClock(t, time.Date(2026, time.March, 14, 9, 26, 53, 0, time.UTC))

	locations := []string{"Philadelphia", "Seattle", "New York"}
	fetcher := &mockFetcher{}
	store := &mockStore{}
	renderer := &mockRenderer{}

	o := newOrchestrator(fetcher, store, renderer, nil, locations)
	require.NoError(t, o.Run(context.Background()))

	// One fetch, one write, one render per location, in input order.
	if diff := cmp.Diff(locations, fetcher.calls); diff != "" {
		t.Errorf("fetch order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(locations, renderer.rendered); diff != "" {
		t.Errorf("render order mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, store.puts, 3)
	keyPattern := regexp.MustCompile(`^weather-data/.+-\d{8}-\d{6}\.json$`)
	seen := map[string]bool{}
	for i, put := range store.puts {
		assert.Regexp(t, keyPattern, put.key)
		assert.Contains(t, put.key, locations[i])
		seen[put.key] = true
	}
	assert.Len(t, seen, 3, "distinct keys per location")

	assert.Equal(t, 1, store.ensureCalls, "bucket ensured once per run, not per location")
	assert.NoError(t, o.CheckReadiness(context.Background()))
}

func TestOrchestrator_FetchErrorSkipsLocation(t *testing.T) {
	fetcher := &mockFetcher{errs: map[string]error{"Seattle": errors.New("status 502")}}
	store := &mockStore{}
	renderer := &mockRenderer{}

	o := newOrchestrator(fetcher, store, renderer, nil, []string{"Philadelphia", "Seattle", "New York"})
	require.NoError(t, o.Run(context.Background()), "one location's failure never aborts the run")

	// Seattle gets neither a write nor a render; the loop continues.
	assert.Equal(t, []string{"Philadelphia", "Seattle", "New York"}, fetcher.calls)
	assert.Equal(t, []string{"Philadelphia", "New York"}, renderer.rendered)
	require.Len(t, store.puts, 2)
	for _, put := range store.puts {
		assert.NotContains(t, put.key, "Seattle")
	}
}

func TestOrchestrator_AllFetchesFail(t *testing.T) {
	fetcher := &mockFetcher{errs: map[string]error{
		"Philadelphia": errors.New("timeout"),
		"Seattle":      errors.New("timeout"),
	}}
	store := &mockStore{}
	renderer := &mockRenderer{}

	o := newOrchestrator(fetcher, store, renderer, nil, []string{"Philadelphia", "Seattle"})
	require.NoError(t, o.Run(context.Background()))

	assert.Empty(t, store.puts)
	assert.Empty(t, renderer.rendered)
	// The run still completed; readiness reflects the pass, not its successes.
	assert.NoError(t, o.CheckReadiness(context.Background()))
}

func TestOrchestrator_EnsureBucketFailureStillPuts(t *testing.T) {
	fetcher := &mockFetcher{}
	store := &mockStore{ensureErr: errors.New("AccessDenied")}
	renderer := &mockRenderer{}

	o := newOrchestrator(fetcher, store, renderer, nil, []string{"Philadelphia"})
	require.NoError(t, o.Run(context.Background()))

	assert.Equal(t, 1, store.ensureCalls)
	assert.Len(t, store.puts, 1, "setup failure does not block writes")
}

func TestOrchestrator_PutFailureStillRenders(t *testing.T) {
	fetcher := &mockFetcher{}
	store := &mockStore{putErr: errors.New("SlowDown")}
	renderer := &mockRenderer{}
	publisher := &mockPublisher{}

	o := newOrchestrator(fetcher, store, renderer, publisher, []string{"Philadelphia"})
	require.NoError(t, o.Run(context.Background()))

	// Render is never gated on persistence success; publish is.
	assert.Equal(t, []string{"Philadelphia"}, renderer.rendered)
	assert.Empty(t, publisher.published)
}

func TestOrchestrator_RenderErrorContained(t *testing.T) {
	fetcher := &mockFetcher{}
	store := &mockStore{}
	renderer := &mockRenderer{err: errors.New("font missing")}

	o := newOrchestrator(fetcher, store, renderer, nil, []string{"Philadelphia", "Seattle"})
	require.NoError(t, o.Run(context.Background()))

	assert.Len(t, store.puts, 2)
	assert.Equal(t, []string{"Philadelphia", "Seattle"}, renderer.rendered)
}

func TestOrchestrator_PublishesRecordedObservations(t *testing.T) {
	fetcher := &mockFetcher{errs: map[string]error{"Seattle": errors.New("status 404")}}
	store := &mockStore{}
	renderer := &mockRenderer{}
	publisher := &mockPublisher{}

	o := newOrchestrator(fetcher, store, renderer, publisher, []string{"Philadelphia", "Seattle"})
	require.NoError(t, o.Run(context.Background()))

	assert.Equal(t, []string{"Philadelphia"}, publisher.published)
}

func TestOrchestrator_PublishFailureNonFatal(t *testing.T) {
	fetcher := &mockFetcher{}
	store := &mockStore{}
	renderer := &mockRenderer{}
	publisher := &mockPublisher{err: errors.New("broker down")}

	o := newOrchestrator(fetcher, store, renderer, publisher, []string{"Philadelphia", "Seattle"})
	require.NoError(t, o.Run(context.Background()))

	assert.Len(t, store.puts, 2)
	assert.Equal(t, []string{"Philadelphia", "Seattle"}, renderer.rendered)
}

func TestOrchestrator_ContextCancellation(t *testing.T) {
	fetcher := &mockFetcher{}
	store := &mockStore{}
	renderer := &mockRenderer{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := newOrchestrator(fetcher, store, renderer, nil, []string{"Philadelphia"})
	require.NoError(t, o.Run(ctx))

	assert.Empty(t, fetcher.calls)
	assert.Error(t, o.CheckReadiness(context.Background()))
}
