// Package render draws per-location weather summaries and hands them to a
// display sink.
package render

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/fogleman/gg"
	"github.com/wxdash/weather-dashboard/internal/domain"
	"github.com/wxdash/weather-dashboard/internal/observability"
)

// Sink receives a finished chart for one location.
type Sink interface {
	Display(location string, png []byte) error
}

const (
	chartWidth  = 800
	chartHeight = 500

	plotTop    = 70.0
	plotBottom = 430.0
	barWidth   = 160.0
)

// Fixed category order: temperature, feels-like, humidity.
var (
	categories = []string{"Temperature (°F)", "Feels Like (°F)", "Humidity (%)"}
	barColors  = []string{"#ff9999", "#66b3ff", "#99ff99"}
)

// Renderer draws a labeled three-bar summary of one observation.
// It implements dashboard.Renderer.
type Renderer struct {
	sink     Sink
	fontPath string
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// NewRenderer creates a chart renderer. fontPath may be empty, in which case
// the built-in bitmap face is used.
func NewRenderer(sink Sink, fontPath string, logger *slog.Logger, metrics *observability.Metrics) *Renderer {
	return &Renderer{sink: sink, fontPath: fontPath, metrics: metrics, logger: logger}
}

// Render draws the observation's chart and displays it on the sink. It runs
// only after a successful fetch, so the three numeric fields are taken as-is.
func (r *Renderer) Render(obs domain.Observation) error {
	png, err := r.draw(obs)
	if err != nil {
		return fmt.Errorf("draw chart for %q: %w", obs.Location, err)
	}
	if err := r.sink.Display(obs.Location, png); err != nil {
		return fmt.Errorf("display chart for %q: %w", obs.Location, err)
	}
	r.metrics.ChartsRendered.Inc()
	r.logger.Debug("chart rendered", "location", obs.Location, "bytes", len(png))
	return nil
}

func (r *Renderer) draw(obs domain.Observation) ([]byte, error) {
	values := []float64{obs.TemperatureF, obs.FeelsLikeF, float64(obs.HumidityPct)}

	dc := gg.NewContext(chartWidth, chartHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	if r.fontPath != "" {
		if err := dc.LoadFontFace(r.fontPath, 16); err != nil {
			return nil, fmt.Errorf("load font %s: %w", r.fontPath, err)
		}
	}

	dc.SetHexColor("#000000")
	dc.DrawStringAnchored(fmt.Sprintf("Weather Data for %s", obs.Location), chartWidth/2, 35, 0.5, 0.5)

	maxVal := values[0]
	for _, v := range values[1:] {
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal <= 0 {
		maxVal = 1
	}

	gap := (chartWidth - barWidth*float64(len(values))) / float64(len(values)+1)
	for i, v := range values {
		h := v / maxVal * (plotBottom - plotTop)
		if h < 0 {
			// Below-zero readings draw no bar; the value label still shows.
			h = 0
		}
		x := gap + float64(i)*(barWidth+gap)

		dc.SetHexColor(barColors[i])
		dc.DrawRectangle(x, plotBottom-h, barWidth, h)
		dc.Fill()

		dc.SetHexColor("#000000")
		dc.DrawStringAnchored(fmt.Sprintf("%.1f", v), x+barWidth/2, plotBottom-h-14, 0.5, 0.5)
		dc.DrawStringAnchored(categories[i], x+barWidth/2, plotBottom+22, 0.5, 0.5)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
