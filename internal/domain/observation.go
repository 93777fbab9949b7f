package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Observation is one weather reading for one location at one capture instant.
// It is created by the weather client, enriched with CapturedAt by the
// recorder, and never mutated afterwards.
type Observation struct {
	Location     string
	CapturedAt   time.Time
	TemperatureF float64
	FeelsLikeF   float64
	HumidityPct  int
	Conditions   string

	// Raw is the full decoded provider payload, kept for forward
	// compatibility so archived records lose nothing the provider sent.
	Raw map[string]any
}

const (
	storageKeyPrefix = "weather-data/"
	storageKeyLayout = "20060102-150405"
)

// DeriveStorageKey returns the archive key for a location and capture time.
// Keys are unique per (location, second); same-second captures overwrite.
func DeriveStorageKey(location string, capturedAt time.Time) string {
	return fmt.Sprintf("%s%s-%s.json", storageKeyPrefix, location, capturedAt.Format(storageKeyLayout))
}

// MarshalRecord serializes the observation as a self-describing JSON
// document: the raw provider payload plus the structured fields and a
// captured_at stamp in RFC 3339.
func (o Observation) MarshalRecord() ([]byte, error) {
	doc := make(map[string]any, len(o.Raw)+5)
	for k, v := range o.Raw {
		doc[k] = v
	}
	doc["location"] = o.Location
	doc["captured_at"] = o.CapturedAt.Format(time.RFC3339)
	doc["temperature_f"] = o.TemperatureF
	doc["feels_like_f"] = o.FeelsLikeF
	doc["humidity_pct"] = o.HumidityPct
	doc["conditions"] = o.Conditions

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("serialize observation record: %w", err)
	}
	return data, nil
}
