// Package domain models weather observations and their archived form.
//
// # Data Source
//
// Observations come from the OpenWeather current weather API, queried by
// human-readable place name with units fixed to imperial (Fahrenheit, mph).
// The provider resolves ambiguous names however it sees fit; this service
// does not second-guess it. Only four fields of the response are ever
// interpreted (temperature, feels-like, humidity, and the first condition
// description); everything else rides along in [Observation.Raw] so that
// archived records keep whatever the provider sent.
//
// # Timestamps
//
// CapturedAt is stamped by the recorder at the moment of archiving, from the
// package clock, never from provider payload fields. Providers omit or
// misplace their own timestamps, so the recorder is the single authority.
//
// # Storage Keys
//
// Each record is archived under
//
//	weather-data/<location>-<YYYYMMDD-HHMMSS>.json
//
// derived by [DeriveStorageKey]. The key is unique per location and second
// of capture: two records for the same location within the same wall-clock
// second collide and the last writer wins. This matches the upstream
// archive's behavior and is documented rather than hidden.
package domain
