// Package dashboard runs the fetch-record-visualize pipeline across the
// configured locations, containing each stage's failures per location.
package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/wxdash/weather-dashboard/internal/domain"
	"github.com/wxdash/weather-dashboard/internal/observability"
)

// Fetcher retrieves the current observation for a location.
type Fetcher interface {
	Fetch(ctx context.Context, location string) (*domain.Observation, error)
}

// ObservationRecorder archives one observation, reporting success.
type ObservationRecorder interface {
	Record(ctx context.Context, obs *domain.Observation) bool
}

// Renderer draws a visual summary of one observation.
type Renderer interface {
	Render(obs domain.Observation) error
}

// Publisher fans a recorded observation out to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, obs domain.Observation) error
}

// stage marks per-location progress through the pipeline. skipped is the
// terminal for locations whose fetch failed; every other location ends done.
type stage string

const (
	stageFetching    stage = "fetching"
	stageRecording   stage = "recording"
	stageVisualizing stage = "visualizing"
	stageDone        stage = "done"
	stageSkipped     stage = "skipped"
)

// Orchestrator iterates the configured locations sequentially, in order,
// calling fetch, record, and render for each. No stage error aborts the run:
// a fetch failure skips the location, a record failure still renders the
// in-memory observation, and the loop always continues.
type Orchestrator struct {
	fetcher   Fetcher
	store     BlobStore
	recorder  ObservationRecorder
	renderer  Renderer
	publisher Publisher // nil when event publishing is disabled
	locations []string
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
}

// New creates an orchestrator over the given stages.
func New(fetcher Fetcher, store BlobStore, recorder ObservationRecorder, renderer Renderer, publisher Publisher, locations []string, logger *slog.Logger, metrics *observability.Metrics) *Orchestrator {
	return &Orchestrator{
		fetcher:   fetcher,
		store:     store,
		recorder:  recorder,
		renderer:  renderer,
		publisher: publisher,
		locations: locations,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once at least one run has completed.
func (o *Orchestrator) CheckReadiness(_ context.Context) error {
	if !o.ready.Load() {
		return errors.New("no dashboard run has completed yet")
	}
	return nil
}

// Run executes one complete pass over the locations. The returned error is
// always nil except for context plumbing; per-location failures are logged
// and counted, never raised.
func (o *Orchestrator) Run(ctx context.Context) error {
	start := time.Now()
	o.logger.Info("dashboard run starting", "locations", len(o.locations))

	// Best-effort setup: a probe or creation failure does not block the run,
	// writes are attempted anyway and fail loudly on their own.
	if err := o.store.EnsureBucket(ctx); err != nil {
		o.logger.Error("bucket setup failed", "error", err)
		o.metrics.StorageSetupErrors.Inc()
	}

	for _, location := range o.locations {
		if ctx.Err() != nil {
			o.logger.Info("dashboard run stopping", "reason", ctx.Err())
			return nil
		}
		outcome := o.processLocation(ctx, location)
		o.metrics.LocationsProcessed.WithLabelValues(string(outcome)).Inc()
	}

	o.metrics.RunDuration.Observe(time.Since(start).Seconds())
	o.ready.Store(true)
	o.logger.Info("dashboard run complete", "duration", time.Since(start))
	return nil
}

// processLocation walks one location through the pipeline and returns its
// terminal stage.
func (o *Orchestrator) processLocation(ctx context.Context, location string) stage {
	log := o.logger.With("location", location)

	log.Info("fetching weather", "stage", stageFetching)
	obs, err := o.fetcher.Fetch(ctx, location)
	if err != nil {
		log.Error("fetch failed, skipping location", "stage", stageSkipped, "error", err)
		o.metrics.FetchErrors.Inc()
		return stageSkipped
	}
	o.metrics.Fetches.Inc()
	log.Info("weather fetched",
		"temperature_f", obs.TemperatureF,
		"feels_like_f", obs.FeelsLikeF,
		"humidity_pct", obs.HumidityPct,
		"conditions", obs.Conditions,
	)

	log.Debug("recording observation", "stage", stageRecording)
	if o.recorder.Record(ctx, obs) {
		o.publish(ctx, *obs)
	}
	// A failed write was already reported by the recorder; the in-memory
	// observation is still rendered.

	log.Debug("rendering chart", "stage", stageVisualizing)
	if err := o.renderer.Render(*obs); err != nil {
		log.Error("render failed", "error", err)
		o.metrics.RenderErrors.Inc()
	}

	log.Info("location complete", "stage", stageDone)
	return stageDone
}

func (o *Orchestrator) publish(ctx context.Context, obs domain.Observation) {
	if o.publisher == nil {
		return
	}
	if err := o.publisher.Publish(ctx, obs); err != nil {
		o.logger.Warn("event publish failed", "location", obs.Location, "error", err)
		o.metrics.PublishErrors.Inc()
		return
	}
	o.metrics.EventsPublished.Inc()
}
