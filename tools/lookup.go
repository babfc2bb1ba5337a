// Package tools implements the external lookup capability of the
// concierge: resolving a place name to coordinates and fetching a
// short-range weather forecast for them.
package tools

import "context"

// Place is a resolved location with its canonical name.
type Place struct {
	Name      string
	Latitude  float64
	Longitude float64
}

// Lookup resolves places and fetches forecasts. Both operations are
// independently failable and the orchestrator treats resolution transport
// errors the same as "not found".
type Lookup interface {
	// ResolvePlace geocodes a free-text place name. It returns (nil, nil)
	// when no match exists; transport errors may surface as errors but
	// callers should treat them identically to a miss.
	ResolvePlace(ctx context.Context, name string) (*Place, error)

	// Forecast returns a short human-readable summary of the next few
	// days at the given coordinates. Failure never raises past this
	// boundary: errors come back as in-band text.
	Forecast(ctx context.Context, lat, lon float64) string
}
