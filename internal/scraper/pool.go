package scraper

import (
	"context"
	"fmt"
	"sync"

	"github.com/farmscout/farmscout/models"
)

// TextFetcher fetches one URL and returns its reduced plain text, or an
// empty string when the page is unavailable.
type TextFetcher interface {
	FetchText(ctx context.Context, url string) string
}

// StatusFunc receives coarse progress notifications. Observability only,
// never required for correctness.
type StatusFunc func(message string, fraction float64)

// Coordinator drives the fetcher over candidate URLs under a fixed
// concurrency bound.
type Coordinator struct {
	fetcher        TextFetcher
	maxConcurrency int
	maxContentLen  int
	status         StatusFunc
}

func NewCoordinator(fetcher TextFetcher, maxConcurrency, maxContentLen int, status StatusFunc) *Coordinator {
	if maxConcurrency <= 0 {
		maxConcurrency = 10
	}
	return &Coordinator{
		fetcher:        fetcher,
		maxConcurrency: maxConcurrency,
		maxContentLen:  maxContentLen,
		status:         status,
	}
}

func (c *Coordinator) notify(message string, fraction float64) {
	if c.status != nil {
		c.status(message, fraction)
	}
}

// Enrich fetches every candidate's page with at most maxConcurrency fetches
// in flight and returns exactly one Listing per Candidate. A failed, timed
// out, or empty fetch degrades to the candidate's snippet; no candidate is
// ever dropped, and one fetch failing never delays its siblings beyond the
// concurrency bound.
func (c *Coordinator) Enrich(ctx context.Context, candidates []models.Candidate) []models.Listing {
	if len(candidates) == 0 {
		return nil
	}
	c.notify(fmt.Sprintf("Scraping %d sites in parallel...", len(candidates)), 0.3)

	sem := make(chan struct{}, c.maxConcurrency)
	var wg sync.WaitGroup
	listings := make([]models.Listing, len(candidates))

	for i, cand := range candidates {
		sem <- struct{}{}
		wg.Add(1)
		go func(i int, cand models.Candidate) {
			defer wg.Done()
			defer func() { <-sem }()

			content := c.fetcher.FetchText(ctx, cand.URL)
			if content == "" {
				content = cand.Snippet
			}
			title := cand.Title
			if title == "" {
				title = "Unknown"
			}
			listings[i] = models.Listing{
				Title:          title,
				URL:            cand.URL,
				Image:          cand.ImageURL,
				ScrapedContent: Truncate(content, c.maxContentLen),
			}
		}(i, cand)
	}
	wg.Wait()

	c.notify("Scraping complete", 1.0)
	return listings
}
