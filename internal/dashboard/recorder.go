package dashboard

import (
	"context"
	"log/slog"

	"github.com/wxdash/weather-dashboard/internal/domain"
	"github.com/wxdash/weather-dashboard/internal/observability"
)

// BlobStore is the durable archive for observation records.
type BlobStore interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, body []byte, contentType string) error
}

// Recorder archives observations. It is the single timestamp authority:
// CapturedAt is stamped here, at record time, never taken from the provider.
type Recorder struct {
	store   BlobStore
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewRecorder creates an observation recorder backed by the given store.
func NewRecorder(store BlobStore, logger *slog.Logger, metrics *observability.Metrics) *Recorder {
	return &Recorder{store: store, logger: logger, metrics: metrics}
}

// Record stamps, serializes, and writes one observation, returning true when
// it was persisted. A nil observation (an upstream failure) returns false
// without touching storage. Storage failures are logged and counted here;
// nothing propagates past this boundary.
func (r *Recorder) Record(ctx context.Context, obs *domain.Observation) bool {
	if obs == nil {
		return false
	}

	obs.CapturedAt = domain.Now()
	key := domain.DeriveStorageKey(obs.Location, obs.CapturedAt)

	body, err := obs.MarshalRecord()
	if err != nil {
		r.logger.Error("serialize record failed", "location", obs.Location, "error", err)
		r.metrics.StorageWriteErrors.Inc()
		return false
	}

	if err := r.store.Put(ctx, key, body, "application/json"); err != nil {
		r.logger.Error("storage write failed", "location", obs.Location, "key", key, "error", err)
		r.metrics.StorageWriteErrors.Inc()
		return false
	}

	r.metrics.RecordsWritten.Inc()
	r.logger.Info("observation archived", "location", obs.Location, "key", key)
	return true
}
