package search

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/farmscout/farmscout/config"
	"github.com/farmscout/farmscout/models"
)

// stubProvider maps query substrings to canned results. Queries matching a
// failSubstring return a transport error.
type stubProvider struct {
	results       map[string][]models.Candidate
	failSubstring string
	failAll       bool
	queries       []string
}

func (p *stubProvider) Search(_ context.Context, query string, _ int) ([]models.Candidate, error) {
	p.queries = append(p.queries, query)
	if p.failAll || (p.failSubstring != "" && strings.Contains(query, p.failSubstring)) {
		return nil, errors.New("connection refused")
	}
	for key, items := range p.results {
		if strings.Contains(query, key) {
			return items, nil
		}
	}
	return nil, nil
}

func testLogger() *log.Logger { return log.New(io.Discard, "", 0) }

func testSerperConfig() *config.SerperConfig {
	return &config.SerperConfig{ResultLimit: 25, FallbackLimit: 20}
}

func validCandidate(id string) models.Candidate {
	return models.Candidate{
		Title:   "235 Clearview Road",
		URL:     "https://farmbuy.com/nsw/dubbo/235-clearview-road-" + id,
		Snippet: "400 acres",
	}
}

func TestSearchListings_DedupAcrossSources(t *testing.T) {
	shared := validCandidate("400483")
	provider := &stubProvider{results: map[string][]models.Candidate{
		"farmbuy.com":             {shared, validCandidate("400484")},
		"eldersrealestate.com.au": {shared},
	}}
	agg := NewAggregator(provider, DefaultSources(), testSerperConfig(), testLogger())

	got, err := agg.SearchListings(context.Background(), "Dubbo, New South Wales")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2 (dedup by URL)", len(got))
	}
	if got[0].URL == got[1].URL {
		t.Error("duplicate URL survived aggregation")
	}
}

func TestSearchListings_ClassifierFilters(t *testing.T) {
	provider := &stubProvider{results: map[string][]models.Candidate{
		"farmbuy.com": {
			validCandidate("400483"),
			{Title: "Dubbo region", URL: "https://farmbuy.com/nsw/region/dubbo"},
			{Title: "Search", URL: "https://example.com/rural-property-search?page=2"},
		},
	}}
	agg := NewAggregator(provider, DefaultSources(), testSerperConfig(), testLogger())

	got, err := agg.SearchListings(context.Background(), "Dubbo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1", len(got))
	}
}

func TestSearchListings_PartialSourceFailure(t *testing.T) {
	provider := &stubProvider{
		results: map[string][]models.Candidate{
			"farmbuy.com": {validCandidate("400483")},
		},
		failSubstring: "domain.com.au",
	}
	agg := NewAggregator(provider, DefaultSources(), testSerperConfig(), testLogger())

	got, err := agg.SearchListings(context.Background(), "Dubbo")
	if err != nil {
		t.Fatalf("one failing source must not abort the run: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1", len(got))
	}
}

func TestSearchListings_AllSourcesFailing(t *testing.T) {
	provider := &stubProvider{failAll: true}
	agg := NewAggregator(provider, DefaultSources(), testSerperConfig(), testLogger())

	_, err := agg.SearchListings(context.Background(), "Dubbo")
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("got %v, want ErrProviderUnavailable", err)
	}
}

func TestSearchListings_FallbackEscalation(t *testing.T) {
	// Strict queries yield nothing; relaxed queries carry results that only
	// pass the blocklist filter, not the digit rule.
	provider := &stubProvider{results: map[string][]models.Candidate{
		"land for sale": {
			{Title: "Rural properties Dubbo", URL: "https://farmbuy.com/nsw/dubbo/rural-properties"},
		},
	}}
	agg := NewAggregator(provider, DefaultSources(), testSerperConfig(), testLogger())

	got, err := agg.SearchListings(context.Background(), "Dubbo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d candidates from relaxed tier, want 1", len(got))
	}
	relaxed := 0
	for _, q := range provider.queries {
		if strings.Contains(q, "land for sale") {
			relaxed++
		}
	}
	if relaxed != len(DefaultSources()) {
		t.Errorf("expected one relaxed query per source, got %d", relaxed)
	}
}

func TestSearchListings_NoFallbackForApproximateLocation(t *testing.T) {
	provider := &stubProvider{results: map[string][]models.Candidate{}}
	agg := NewAggregator(provider, DefaultSources(), testSerperConfig(), testLogger())

	got, err := agg.SearchListings(context.Background(), "Region near -32.244, 148.605")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("approximate location must yield empty result, got %v", got)
	}
	for _, q := range provider.queries {
		if strings.Contains(q, "land for sale") {
			t.Fatal("relaxed query issued for approximate location")
		}
	}
}

func TestSearchListings_StrictResultsSkipRelaxedTier(t *testing.T) {
	provider := &stubProvider{results: map[string][]models.Candidate{
		"farmbuy.com": {validCandidate("400483")},
	}}
	agg := NewAggregator(provider, DefaultSources(), testSerperConfig(), testLogger())

	if _, err := agg.SearchListings(context.Background(), "Dubbo"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(provider.queries) != len(DefaultSources()) {
		t.Errorf("expected strict queries only, got %d queries", len(provider.queries))
	}
}
