//go:build integration

package integration_test

import (
	"context"
	"io"
	"log/slog"

	"github.com/wxdash/weather-dashboard/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type staticFetcher struct{}

func (staticFetcher) Fetch(_ context.Context, location string) (*domain.Observation, error) {
	return &domain.Observation{
		Location:     location,
		TemperatureF: 47.3,
		FeelsLikeF:   43.1,
		HumidityPct:  71,
		Conditions:   "light rain",
		Raw:          map[string]any{"name": location},
	}, nil
}

type memStore struct {
	puts int
}

func (m *memStore) EnsureBucket(_ context.Context) error { return nil }

func (m *memStore) Put(_ context.Context, _ string, _ []byte, _ string) error {
	m.puts++
	return nil
}

type noopRenderer struct{}

func (noopRenderer) Render(_ domain.Observation) error { return nil }
