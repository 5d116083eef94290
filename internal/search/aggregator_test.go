package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docnearby/docnearby/internal/providers"
	"github.com/docnearby/docnearby/pkg/logging"
)

type stubAdapter struct {
	name    string
	records []Record
	err     error
	panics  bool
}

func (s *stubAdapter) Name() string { return s.name }

func (s *stubAdapter) Fetch(_ context.Context, _ Query) ([]Record, error) {
	if s.panics {
		panic("boom")
	}
	return s.records, s.err
}

func ptr(v float64) *float64 { return &v }

func seededLocal(t *testing.T, provs ...providers.Provider) *LocalAdapter {
	t.Helper()
	repo := providers.NewInMemoryRepository()
	for i := range provs {
		provs[i].IsVerified = true
		repo.Seed(provs[i])
	}
	return NewLocalAdapter(repo)
}

func TestSearchOrdersByDistance(t *testing.T) {
	local := seededLocal(t,
		providers.Provider{Name: "Far Doc", Specialty: "cardiology", Latitude: ptr(12.0), Longitude: ptr(12.0)},
		providers.Provider{Name: "Near Doc", Specialty: "cardiology", Latitude: ptr(10.0), Longitude: ptr(10.0)},
	)
	remote := &stubAdapter{name: "maps_api", records: []Record{
		{Name: "Mid Doc", Latitude: ptr(10.5), Longitude: ptr(10.5), Source: SourceMapsAPI},
	}}
	agg := NewAggregator(local, []Adapter{remote}, 3, logging.Default(), nil)

	res, err := agg.Search(context.Background(), Query{Latitude: 10, Longitude: 10}, true)
	require.NoError(t, err)
	require.Len(t, res.Records, 3)
	assert.Equal(t, "Near Doc", res.Records[0].Name)
	assert.Equal(t, "Mid Doc", res.Records[1].Name)
	assert.Equal(t, "Far Doc", res.Records[2].Name)
	assert.Equal(t, 2, res.VerifiedCount)
	assert.Equal(t, 1, res.RemoteCount)
}

func TestSearchUnrankableRecordsSortLast(t *testing.T) {
	local := seededLocal(t,
		providers.Provider{Name: "Located", Latitude: ptr(10.0), Longitude: ptr(10.0)},
		providers.Provider{Name: "No Coords"},
	)
	agg := NewAggregator(local, nil, 3, logging.Default(), nil)

	res, err := agg.Search(context.Background(), Query{Latitude: 10, Longitude: 10}, false)
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	assert.Equal(t, "Located", res.Records[0].Name)
	assert.Equal(t, "No Coords", res.Records[1].Name)
	assert.False(t, res.Records[1].Rankable())
}

func TestSearchEqualDistancesKeepArrivalOrder(t *testing.T) {
	local := seededLocal(t,
		providers.Provider{Name: "Local Zero", Latitude: ptr(10.0), Longitude: ptr(10.0)},
	)
	remotes := []Adapter{
		&stubAdapter{name: "maps_api", records: []Record{
			{Name: "Maps Zero", Latitude: ptr(10.0), Longitude: ptr(10.0), Source: SourceMapsAPI},
			{Name: "Maps Unplaced", Source: SourceMapsAPI},
		}},
		&stubAdapter{name: "web:practo", records: []Record{
			{Name: "Web Zero", Latitude: ptr(10.0), Longitude: ptr(10.0), Source: WebSource("practo")},
			{Name: "Web Unplaced", Source: WebSource("practo")},
		}},
	}
	agg := NewAggregator(local, remotes, 3, logging.Default(), nil)

	res, err := agg.Search(context.Background(), Query{Latitude: 10, Longitude: 10}, true)
	require.NoError(t, err)
	require.Len(t, res.Records, 5)

	// Zero-distance ties keep concatenation order (local, then each remote
	// slot in registration order), and so do the infinite-distance records.
	names := make([]string, len(res.Records))
	for i, rec := range res.Records {
		names[i] = rec.Name
	}
	assert.Equal(t, []string{
		"Local Zero", "Maps Zero", "Web Zero",
		"Maps Unplaced", "Web Unplaced",
	}, names)
}

func TestSearchSkipsRemoteWhenExcluded(t *testing.T) {
	local := seededLocal(t,
		providers.Provider{Name: "Local Doc", Latitude: ptr(10.0), Longitude: ptr(10.0)},
	)
	remote := &stubAdapter{name: "maps_api", records: []Record{
		{Name: "Remote Doc", Latitude: ptr(10.0), Longitude: ptr(10.0), Source: SourceMapsAPI},
	}}
	agg := NewAggregator(local, []Adapter{remote}, 3, logging.Default(), nil)

	res, err := agg.Search(context.Background(), Query{Latitude: 10, Longitude: 10}, false)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "Local Doc", res.Records[0].Name)
	assert.Equal(t, 0, res.RemoteCount)
}

func TestSearchToleratesRemoteFailure(t *testing.T) {
	local := seededLocal(t,
		providers.Provider{Name: "Local Doc", Latitude: ptr(10.0), Longitude: ptr(10.0)},
	)
	remotes := []Adapter{
		&stubAdapter{name: "maps_api", err: errors.New("upstream down")},
		&stubAdapter{name: "web:practo", panics: true},
		&stubAdapter{name: "web:lybrate", records: []Record{
			{Name: "Scraped Doc", Latitude: ptr(10.1), Longitude: ptr(10.1), Source: WebSource("lybrate")},
		}},
	}
	agg := NewAggregator(local, remotes, 3, logging.Default(), nil)

	res, err := agg.Search(context.Background(), Query{Latitude: 10, Longitude: 10}, true)
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	assert.Equal(t, 1, res.RemoteCount)
}

func TestSearchFailsWhenStoreFails(t *testing.T) {
	repo := &failingRepo{}
	agg := NewAggregator(NewLocalAdapter(repo), nil, 3, logging.Default(), nil)

	_, err := agg.Search(context.Background(), Query{Latitude: 10, Longitude: 10}, true)
	require.Error(t, err)
}

func TestSearchEmptyResultIsSuccess(t *testing.T) {
	agg := NewAggregator(seededLocal(t), nil, 3, logging.Default(), nil)

	res, err := agg.Search(context.Background(), Query{Latitude: 10, Longitude: 10}, true)
	require.NoError(t, err)
	assert.Empty(t, res.Records)
	assert.Equal(t, 0, res.VerifiedCount)
}

type failingRepo struct{}

func (f *failingRepo) FindVerified(context.Context, string) ([]providers.Provider, error) {
	return nil, errors.New("connection refused")
}

func (f *failingRepo) GetByID(context.Context, string) (*providers.Provider, error) {
	return nil, errors.New("connection refused")
}

func (f *failingRepo) GetByUserID(context.Context, string) (*providers.Provider, error) {
	return nil, errors.New("connection refused")
}

func (f *failingRepo) UpdateProfile(context.Context, string, *providers.ProfileUpdate) (*providers.Provider, error) {
	return nil, errors.New("connection refused")
}
