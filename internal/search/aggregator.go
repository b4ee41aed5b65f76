package search

import (
	"context"
	"errors"
	"log"

	"github.com/farmscout/farmscout/config"
	"github.com/farmscout/farmscout/internal/classifier"
	"github.com/farmscout/farmscout/internal/geo"
	"github.com/farmscout/farmscout/models"
)

// ErrProviderUnavailable reports that every strict query failed at the
// transport level. Callers must distinguish this from an empty result, which
// is a legitimate terminal outcome.
var ErrProviderUnavailable = errors.New("search provider unavailable")

// Aggregator fans one location name out to every configured source,
// deduplicates the returned URLs and keeps what the classifier accepts.
type Aggregator struct {
	provider      Provider
	sources       []Source
	limit         int
	fallbackLimit int
	logger        *log.Logger
}

func NewAggregator(provider Provider, sources []Source, cfg *config.SerperConfig, logger *log.Logger) *Aggregator {
	return &Aggregator{
		provider:      provider,
		sources:       sources,
		limit:         cfg.ResultLimit,
		fallbackLimit: cfg.FallbackLimit,
		logger:        logger,
	}
}

// SearchListings runs one strict query per source. If nothing survives
// classification, a relaxed tier re-queries with broader terms and only the
// blocklist filter, unless the location name is a low-confidence placeholder
// in which case relaxation is skipped and the result is empty. A failed
// query skips its source; only all strict queries failing surfaces an error.
func (a *Aggregator) SearchListings(ctx context.Context, locationName string) ([]models.Candidate, error) {
	seen := make(map[string]struct{})
	var candidates []models.Candidate

	collect := func(query string, limit int, accept func(url, title string) bool) error {
		items, err := a.provider.Search(ctx, query, limit)
		if err != nil {
			a.logger.Printf("Search query failed, skipping source: %v", err)
			return err
		}
		for _, item := range items {
			if item.URL == "" {
				continue
			}
			if _, dup := seen[item.URL]; dup {
				continue
			}
			if !accept(item.URL, item.Title) {
				continue
			}
			seen[item.URL] = struct{}{}
			candidates = append(candidates, item)
		}
		return nil
	}

	strictFailures := 0
	for _, src := range a.sources {
		if err := collect(src.Query(locationName), a.limit, classifier.IsValidListing); err != nil {
			strictFailures++
		}
	}

	if len(candidates) == 0 && len(a.sources) > 0 && strictFailures == len(a.sources) {
		return nil, ErrProviderUnavailable
	}

	if len(candidates) == 0 {
		if geo.IsApproximate(locationName) {
			// A synthetic "near region" name is not worth the query budget.
			return nil, nil
		}
		for _, src := range a.sources {
			relaxedAccept := func(url, _ string) bool { return classifier.PassesBlocklist(url) }
			collect(src.Relaxed(locationName), a.fallbackLimit, relaxedAccept)
		}
	}

	return candidates, nil
}
