package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/wxdash/weather-dashboard/internal/domain"
	"github.com/wxdash/weather-dashboard/internal/observability"
)

// ErrMalformedPayload marks a 2xx response that is missing one of the four
// contract fields (temperature, feels-like, humidity, condition description).
var ErrMalformedPayload = errors.New("malformed weather payload")

// Client fetches current weather observations from the OpenWeather API.
// Units are fixed to imperial; the scale is part of the archive format, not
// a per-call option.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an OpenWeather client.
func NewClient(apiKey string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://api.openweathermap.org/data/2.5/weather",
		metrics: metrics,
		logger:  logger,
	}
}

// Fetch issues one request for the current weather at the named location.
// The location is passed to the provider as-is; name resolution is entirely
// the provider's business. Any transport failure, non-2xx status, or payload
// missing a contract field comes back as an error for the orchestrator to
// absorb. No retries.
func (c *Client) Fetch(ctx context.Context, location string) (*domain.Observation, error) {
	params := url.Values{
		"q":     {location},
		"appid": {c.apiKey},
		"units": {"imperial"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request for %q: %w", location, err)
	}
	defer resp.Body.Close()
	c.metrics.FetchDuration.Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("openweather API error for %q: status %d: %s", location, resp.StatusCode, body)
	}

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response for %q: %w", location, err)
	}

	return observationFromPayload(location, payload)
}

// observationFromPayload extracts the four contract fields and keeps the
// full payload on the observation for forward compatibility.
func observationFromPayload(location string, payload map[string]any) (*domain.Observation, error) {
	main, ok := payload["main"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: missing main block", ErrMalformedPayload)
	}

	temp, ok := numberField(main, "temp")
	if !ok {
		return nil, fmt.Errorf("%w: missing main.temp", ErrMalformedPayload)
	}
	feelsLike, ok := numberField(main, "feels_like")
	if !ok {
		return nil, fmt.Errorf("%w: missing main.feels_like", ErrMalformedPayload)
	}
	humidity, ok := numberField(main, "humidity")
	if !ok {
		return nil, fmt.Errorf("%w: missing main.humidity", ErrMalformedPayload)
	}

	conditions, ok := conditionsField(payload)
	if !ok {
		return nil, fmt.Errorf("%w: missing weather description", ErrMalformedPayload)
	}

	return &domain.Observation{
		Location:     location,
		TemperatureF: temp,
		FeelsLikeF:   feelsLike,
		HumidityPct:  int(humidity),
		Conditions:   conditions,
		Raw:          payload,
	}, nil
}

func numberField(m map[string]any, key string) (float64, bool) {
	v, ok := m[key].(float64)
	return v, ok
}

// conditionsField pulls weather[0].description from the payload.
func conditionsField(payload map[string]any) (string, bool) {
	list, ok := payload["weather"].([]any)
	if !ok || len(list) == 0 {
		return "", false
	}
	first, ok := list[0].(map[string]any)
	if !ok {
		return "", false
	}
	desc, ok := first["description"].(string)
	return desc, ok
}
