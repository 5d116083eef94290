package search

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/docnearby/docnearby/internal/geo"
	"github.com/docnearby/docnearby/pkg/logging"
)

// Result is one assembled search: platform records and remote records merged,
// annotated with distance, and ordered nearest first.
type Result struct {
	Records       []Record
	VerifiedCount int
	RemoteCount   int
}

// Aggregator fans a query out to the platform store and a set of remote
// adapters, then merges and ranks what came back. Remote adapter failures are
// logged and skipped; only the platform store can fail a search.
type Aggregator struct {
	local   *LocalAdapter
	remotes []Adapter
	workers int
	logger  *logging.Logger
	metrics *Metrics
}

// NewAggregator wires the search pipeline. workers bounds concurrent remote
// fetches; values below 1 are raised to 1.
func NewAggregator(local *LocalAdapter, remotes []Adapter, workers int, logger *logging.Logger, metrics *Metrics) *Aggregator {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Aggregator{
		local:   local,
		remotes: remotes,
		workers: workers,
		logger:  logger,
		metrics: metrics,
	}
}

// Search runs the full pipeline for one query. includeRemote gates the remote
// adapters; the platform store is always consulted.
func (a *Aggregator) Search(ctx context.Context, q Query, includeRemote bool) (*Result, error) {
	records, err := a.local.Fetch(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search: aggregate: %w", err)
	}
	a.metrics.ObserveFetch(a.local.Name(), len(records), nil, 0)
	verified := len(records)

	var remote []Record
	if includeRemote {
		remote = a.fetchRemote(ctx, q)
	}
	records = append(records, remote...)

	for i := range records {
		records[i].DistanceKm = geo.DistanceOpt(&q.Latitude, &q.Longitude, records[i].Latitude, records[i].Longitude)
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].DistanceKm < records[j].DistanceKm
	})

	return &Result{
		Records:       records,
		VerifiedCount: verified,
		RemoteCount:   len(remote),
	}, nil
}

// fetchRemote runs every remote adapter under a bounded worker pool. Results
// are collected per adapter slot so the merge order is deterministic no matter
// which fetch finishes first.
func (a *Aggregator) fetchRemote(ctx context.Context, q Query) []Record {
	batches := make([][]Record, len(a.remotes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i, adapter := range a.remotes {
		g.Go(func() error {
			start := time.Now()
			recs, err := a.safeFetch(gctx, adapter, q)
			a.metrics.ObserveFetch(adapter.Name(), len(recs), err, time.Since(start))
			if err != nil {
				a.logger.Warn("remote source failed", "source", adapter.Name(), "error", err)
				return nil
			}
			batches[i] = recs
			return nil
		})
	}
	g.Wait()

	var merged []Record
	for _, batch := range batches {
		merged = append(merged, batch...)
	}
	return merged
}

func (a *Aggregator) safeFetch(ctx context.Context, adapter Adapter, q Query) (recs []Record, err error) {
	defer func() {
		if r := recover(); r != nil {
			recs, err = nil, fmt.Errorf("search: %s panicked: %v", adapter.Name(), r)
		}
	}()
	return adapter.Fetch(ctx, q)
}
