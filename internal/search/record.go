// Package search implements the nearby-provider ranking pipeline: it fans out
// to heterogeneous data sources, merges their records into one
// distance-ordered sequence, and optionally reorders by symptom relevance.
package search

import (
	"math"
	"strings"
)

// Source tags a record with its provenance. It is set once by the adapter
// that produced the record and never mutated afterwards.
type Source string

const (
	// SourcePlatform marks records from the verified local provider store.
	SourcePlatform Source = "platform"
	// SourceMapsAPI marks records from the places/maps API.
	SourceMapsAPI Source = "maps_api"
	// webSourcePrefix namespaces scraped directory sites, e.g. "web:practo".
	webSourcePrefix = "web:"
)

// WebSource returns the provenance tag for a scraped directory site.
func WebSource(site string) Source {
	return Source(webSourcePrefix + site)
}

// Wire returns the external JSON value for the source tag. The maps source
// serializes as "google_places" and scraped sources as the bare site name,
// matching the shape clients already consume.
func (s Source) Wire() string {
	switch {
	case s == SourceMapsAPI:
		return "google_places"
	case strings.HasPrefix(string(s), webSourcePrefix):
		return strings.TrimPrefix(string(s), webSourcePrefix)
	default:
		return string(s)
	}
}

// Record is the unified provider shape every source adapter normalizes into.
// Nothing downstream of the adapter boundary sees source-specific shapes.
type Record struct {
	// ID is scoped to the originating source: a database key for platform
	// records, a place id for the maps API, synthesized from name+address
	// for scraped sources. No cross-source identity reconciliation is done.
	ID          string
	Name        string
	Specialty   string
	Address     string
	Latitude    *float64
	Longitude   *float64
	Rating      float64
	PhoneNumber string
	Website     string
	ClinicName  string
	IsVerified  bool
	Source      Source

	// DistanceKm is computed by the aggregator against the query
	// coordinates; +Inf when coordinates are missing or invalid. It is a
	// sort key, never displayed as a real number.
	DistanceKm float64
}

// Rankable reports whether the record carries a finite distance.
func (r *Record) Rankable() bool {
	return !math.IsInf(r.DistanceKm, 1)
}
