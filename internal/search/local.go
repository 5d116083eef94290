package search

import (
	"context"
	"fmt"

	"github.com/docnearby/docnearby/internal/providers"
)

// LocalAdapter reads the verified-provider store. It is the one source whose
// failure is fatal to a request: a broken primary datastore is infrastructure
// failure, not a flaky third party.
type LocalAdapter struct {
	repo providers.Repository
}

// NewLocalAdapter wraps the verified-provider repository.
func NewLocalAdapter(repo providers.Repository) *LocalAdapter {
	if repo == nil {
		panic("search: provider repository required")
	}
	return &LocalAdapter{repo: repo}
}

func (a *LocalAdapter) Name() string { return "platform" }

// Fetch queries verified providers, applying the specialty filter when given.
func (a *LocalAdapter) Fetch(ctx context.Context, q Query) ([]Record, error) {
	rows, err := a.repo.FindVerified(ctx, q.Specialty)
	if err != nil {
		return nil, fmt.Errorf("search: verified provider query: %w", err)
	}

	records := make([]Record, 0, len(rows))
	for _, p := range rows {
		records = append(records, Record{
			ID:          p.ID,
			Name:        p.Name,
			Specialty:   p.Specialty,
			Address:     p.Address,
			Latitude:    p.Latitude,
			Longitude:   p.Longitude,
			Rating:      p.Rating,
			PhoneNumber: p.PhoneNumber,
			ClinicName:  p.ClinicName,
			IsVerified:  true,
			Source:      SourcePlatform,
		})
	}
	return records, nil
}
