// Package crawler harvests listing candidates directly from portal index
// pages, bypassing the search provider. It feeds the same classifier as the
// search path, so both sources yield candidates of equal strictness.
package crawler

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gocolly/colly"

	"github.com/farmscout/farmscout/config"
	"github.com/farmscout/farmscout/internal/classifier"
	"github.com/farmscout/farmscout/models"
)

type SiteCollector struct {
	collector *colly.Collector
}

func NewSiteCollector(cfg *config.CollectorConfig) *SiteCollector {
	c := colly.NewCollector(
		colly.Async(true),
		colly.UserAgent(cfg.UserAgent),
		colly.MaxDepth(1),
	)
	c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: cfg.Parallelism,
	})
	return &SiteCollector{collector: c}
}

// Harvest visits one index page and returns the distinct anchors that
// classify as individual listings. Anchor text doubles as the candidate
// title so the usual title screening applies.
func (s *SiteCollector) Harvest(indexURL string) ([]models.Candidate, error) {
	var (
		mu         sync.Mutex
		candidates []models.Candidate
		visitErr   error
	)
	seen := make(map[string]struct{})

	c := s.collector.Clone()

	c.OnHTML("a[href]", func(e *colly.HTMLElement) {
		link := e.Request.AbsoluteURL(e.Attr("href"))
		title := strings.TrimSpace(e.Text)
		if link == "" || !classifier.IsValidListing(link, title) {
			return
		}

		mu.Lock()
		defer mu.Unlock()
		if _, dup := seen[link]; dup {
			return
		}
		seen[link] = struct{}{}
		candidates = append(candidates, models.Candidate{
			Title: title,
			URL:   link,
		})
	})

	c.OnError(func(r *colly.Response, err error) {
		mu.Lock()
		defer mu.Unlock()
		visitErr = fmt.Errorf("request %v failed (status %d): %w", r.Request.URL, r.StatusCode, err)
	})

	if err := c.Visit(indexURL); err != nil {
		return nil, err
	}
	c.Wait()

	if visitErr != nil {
		return nil, visitErr
	}
	return candidates, nil
}
