package search

import "context"

// Query describes one nearby-search request as seen by the source adapters.
type Query struct {
	Latitude  float64
	Longitude float64
	Specialty string
	RadiusKm  float64
}

// Adapter fetches provider records from a single data source. Adapters
// surface faults as errors; the aggregator decides which sources are fatal
// and converts the rest into empty contributions.
type Adapter interface {
	// Name identifies the adapter in logs and metrics.
	Name() string
	Fetch(ctx context.Context, q Query) ([]Record, error)
}
