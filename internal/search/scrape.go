package search

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const scrapeUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// Listing markup is loose enough that a regexp pass over the raw HTML is more
// robust than a strict parse: cards are located by their class attribute and
// each field is pulled out of the card slice independently.
var (
	cardOpenRe = regexp.MustCompile(`(?i)<[a-z][a-z0-9]*\s[^>]*class="[^"]*doctor-card[^"]*"[^>]*>`)
	nameRe     = regexp.MustCompile(`(?is)class="[^"]*doctor-name[^"]*"[^>]*>(.*?)<`)
	specRe     = regexp.MustCompile(`(?is)class="[^"]*specialization[^"]*"[^>]*>(.*?)<`)
	addrRe     = regexp.MustCompile(`(?is)class="[^"]*clinic-address[^"]*"[^>]*>(.*?)<`)
	ratingRe   = regexp.MustCompile(`(?is)class="[^"]*rating-value[^"]*"[^>]*>(.*?)<`)
	latAttrRe  = regexp.MustCompile(`(?i)data-lat="([^"]*)"`)
	lngAttrRe  = regexp.MustCompile(`(?i)data-lng="([^"]*)"`)
)

// recordNamespace keys deterministic IDs for scraped listings, so the same
// doctor at the same clinic hashes to the same ID across requests.
var recordNamespace = uuid.MustParse("7f1c2a9e-44d1-4b5a-9f3e-0c8b6d2e5a17")

// SiteAdapter scrapes a public doctor-listing site for a given specialty and
// location. Each supported site shares the same card markup vocabulary.
type SiteAdapter struct {
	site    string
	baseURL string
	client  *http.Client
}

// NewSiteAdapter builds a scraper for one listing site. baseURL overrides the
// site's public URL for tests; pass "" to use the default.
func NewSiteAdapter(site, baseURL string, timeout time.Duration) *SiteAdapter {
	if baseURL == "" {
		baseURL = "https://www." + site + ".com"
	}
	return &SiteAdapter{
		site:    site,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (a *SiteAdapter) Name() string { return "web:" + a.site }

// Fetch downloads the site's listing page and extracts doctor cards. A card
// without a name is discarded; missing coordinates fall back to the query
// point so the listing still ranks as local.
func (a *SiteAdapter) Fetch(ctx context.Context, q Query) ([]Record, error) {
	specialty := q.Specialty
	if specialty == "" {
		specialty = "doctor"
	}
	listURL := fmt.Sprintf("%s/search?q=%s&lat=%f&lng=%f&radius=%d",
		a.baseURL, url.QueryEscape(specialty), q.Latitude, q.Longitude, int(q.RadiusKm))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listURL, nil)
	if err != nil {
		return nil, fmt.Errorf("search: %s request: %w", a.site, err)
	}
	req.Header.Set("User-Agent", scrapeUserAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search: %s fetch: %w", a.site, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search: %s fetch: unexpected status %d", a.site, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("search: %s read: %w", a.site, err)
	}

	return a.parse(string(body), q), nil
}

func (a *SiteAdapter) parse(page string, q Query) []Record {
	opens := cardOpenRe.FindAllStringIndex(page, -1)
	records := make([]Record, 0, len(opens))

	for i, loc := range opens {
		end := len(page)
		if i+1 < len(opens) {
			end = opens[i+1][0]
		}
		card := page[loc[0]:end]
		openTag := page[loc[0]:loc[1]]

		name := extractText(nameRe, card)
		if name == "" {
			continue
		}

		rating := 0.0
		if s := extractText(ratingRe, card); s != "" {
			if v, err := strconv.ParseFloat(s, 64); err == nil {
				rating = v
			}
		}

		// Each coordinate falls back to the query point independently, so a
		// card carrying only one of the pair still contributes what it has.
		lat, lng := q.Latitude, q.Longitude
		if v, ok := extractFloatAttr(latAttrRe, openTag); ok {
			lat = v
		}
		if v, ok := extractFloatAttr(lngAttrRe, openTag); ok {
			lng = v
		}

		address := extractText(addrRe, card)
		records = append(records, Record{
			ID:        uuid.NewSHA1(recordNamespace, []byte(a.site+"|"+name+"|"+address)).String(),
			Name:      name,
			Specialty: extractText(specRe, card),
			Address:   address,
			Latitude:  &lat,
			Longitude: &lng,
			Rating:    rating,
			Source:    WebSource(a.site),
		})
	}
	return records
}

func extractText(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(m[1]))
}

func extractFloatAttr(re *regexp.Regexp, s string) (float64, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(m[1]), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
