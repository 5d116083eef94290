package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// statusZeroResults is a successful response with nothing nearby; every other
// non-OK status is an upstream failure.
const statusZeroResults = "ZERO_RESULTS"

// PlacesAdapter searches the Google Places API for medical facilities near a
// point and enriches each hit with a details lookup for phone and website.
type PlacesAdapter struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewPlacesAdapter builds the adapter. baseURL is the Places API root,
// overridable for tests.
func NewPlacesAdapter(apiKey, baseURL string, timeout time.Duration) *PlacesAdapter {
	return &PlacesAdapter{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (a *PlacesAdapter) Name() string { return "maps_api" }

type placesSearchResponse struct {
	Status       string            `json:"status"`
	ErrorMessage string            `json:"error_message"`
	Results      []placesSearchHit `json:"results"`
}

type placesSearchHit struct {
	PlaceID  string  `json:"place_id"`
	Name     string  `json:"name"`
	Vicinity string  `json:"vicinity"`
	Rating   float64 `json:"rating"`
	Geometry struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
}

type placesDetailsResponse struct {
	Status string `json:"status"`
	Result struct {
		FormattedPhoneNumber string `json:"formatted_phone_number"`
		Website              string `json:"website"`
		FormattedAddress     string `json:"formatted_address"`
	} `json:"result"`
}

// Fetch runs a nearby search and a details lookup per hit. A failed details
// lookup drops that single place rather than the whole batch.
func (a *PlacesAdapter) Fetch(ctx context.Context, q Query) ([]Record, error) {
	if a.apiKey == "" {
		return nil, nil
	}

	keyword := q.Specialty
	if keyword == "" {
		keyword = "healthcare"
	}

	params := url.Values{}
	params.Set("location", fmt.Sprintf("%f,%f", q.Latitude, q.Longitude))
	params.Set("radius", fmt.Sprintf("%d", int(q.RadiusKm*1000)))
	params.Set("type", "doctor|hospital|health")
	params.Set("keyword", keyword)
	params.Set("key", a.apiKey)

	var search placesSearchResponse
	if err := a.getJSON(ctx, a.baseURL+"/nearbysearch/json?"+params.Encode(), &search); err != nil {
		return nil, fmt.Errorf("search: places nearby search: %w", err)
	}
	if search.Status != "OK" {
		if search.Status == statusZeroResults {
			return nil, nil
		}
		return nil, fmt.Errorf("search: places nearby search: status %s: %s", search.Status, search.ErrorMessage)
	}

	records := make([]Record, 0, len(search.Results))
	for _, hit := range search.Results {
		details, err := a.fetchDetails(ctx, hit.PlaceID)
		if err != nil {
			continue
		}

		lat, lng := hit.Geometry.Location.Lat, hit.Geometry.Location.Lng
		address := hit.Vicinity
		if address == "" {
			address = details.Result.FormattedAddress
		}
		records = append(records, Record{
			ID:          hit.PlaceID,
			Name:        hit.Name,
			Specialty:   keyword,
			Address:     address,
			Latitude:    &lat,
			Longitude:   &lng,
			Rating:      hit.Rating,
			PhoneNumber: details.Result.FormattedPhoneNumber,
			Website:     details.Result.Website,
			Source:      SourceMapsAPI,
		})
	}
	return records, nil
}

func (a *PlacesAdapter) fetchDetails(ctx context.Context, placeID string) (*placesDetailsResponse, error) {
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", "formatted_phone_number,website,formatted_address")
	params.Set("key", a.apiKey)

	var details placesDetailsResponse
	if err := a.getJSON(ctx, a.baseURL+"/details/json?"+params.Encode(), &details); err != nil {
		return nil, err
	}
	if details.Status != "OK" {
		return nil, fmt.Errorf("search: place details: status %s", details.Status)
	}
	return &details, nil
}

func (a *PlacesAdapter) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
