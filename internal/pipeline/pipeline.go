// Package pipeline composes discovery: resolve a location, aggregate search
// results into candidates, then enrich them with scraped content.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/farmscout/farmscout/internal/geo"
	"github.com/farmscout/farmscout/internal/rank"
	"github.com/farmscout/farmscout/internal/scraper"
	"github.com/farmscout/farmscout/models"
)

// Locator resolves coordinates to searchable location names.
type Locator interface {
	LocationName(ctx context.Context, lat, lon float64) string
	Nearby(ctx context.Context, lat, lon float64) []string
}

// Searcher finds candidate listings for a location name.
type Searcher interface {
	SearchListings(ctx context.Context, locationName string) ([]models.Candidate, error)
}

// Enricher turns candidates into content-enriched listings.
type Enricher interface {
	Enrich(ctx context.Context, candidates []models.Candidate) []models.Listing
}

type Pipeline struct {
	locator  Locator
	searcher Searcher
	enricher Enricher
	status   scraper.StatusFunc
	logger   *log.Logger
}

func New(locator Locator, searcher Searcher, enricher Enricher, status scraper.StatusFunc, logger *log.Logger) *Pipeline {
	return &Pipeline{
		locator:  locator,
		searcher: searcher,
		enricher: enricher,
		status:   status,
		logger:   logger,
	}
}

func (p *Pipeline) notify(message string, fraction float64) {
	if p.status != nil {
		p.status(message, fraction)
	}
}

// Discover resolves the nearest town and returns enriched listings around
// it, pre-ordered by keyword score. Two escalation tiers apply when the
// first search comes back empty: the aggregator's own relaxed queries at the
// same location, then full-strictness searches at nearby offset locations.
// An empty result with a nil error is a legitimate terminal outcome,
// distinct from the provider being unavailable.
func (p *Pipeline) Discover(ctx context.Context, lat, lon float64) ([]models.Listing, error) {
	p.notify("Resolving location...", 0.05)
	location := p.locator.LocationName(ctx, lat, lon)
	p.logger.Printf("Pipeline: resolved (%.3f, %.3f) to %q", lat, lon, location)

	p.notify(fmt.Sprintf("Finding properties near %s...", location), 0.1)
	candidates, err := p.searcher.SearchListings(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("search at %q: %w", location, err)
	}

	if len(candidates) == 0 {
		for _, alt := range p.locator.Nearby(ctx, lat, lon) {
			p.logger.Printf("Pipeline: no candidates at %q, retrying at %q", location, alt)
			candidates, err = p.searcher.SearchListings(ctx, alt)
			if err != nil {
				return nil, fmt.Errorf("search at %q: %w", alt, err)
			}
			if len(candidates) > 0 {
				break
			}
		}
	}

	if len(candidates) == 0 {
		p.logger.Printf("Pipeline: no listings found near %q", location)
		return nil, nil
	}

	listings := p.enricher.Enrich(ctx, candidates)
	for i := range listings {
		listings[i].KeywordScore = rank.Score(listings[i].ScrapedContent)
	}
	sort.SliceStable(listings, func(i, j int) bool {
		return listings[i].KeywordScore > listings[j].KeywordScore
	})
	return listings, nil
}

// LocationName exposes the resolved name for callers that persist run
// metadata alongside the listings.
func (p *Pipeline) LocationName(ctx context.Context, lat, lon float64) string {
	return p.locator.LocationName(ctx, lat, lon)
}

var _ Locator = (*geo.Resolver)(nil)
