package scraper

import (
	"context"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/farmscout/farmscout/config"
)

// junkSelectors are stripped from fetched documents before text extraction.
const junkSelectors = "script, style, nav, footer, header, iframe, svg"

// Fetcher retrieves a page and reduces it to bounded plain text.
type Fetcher struct {
	client    *http.Client
	userAgent string
	maxLen    int
}

func NewFetcher(cfg *config.ScraperConfig) *Fetcher {
	transport := &http.Transport{
		MaxIdleConnsPerHost: 10,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
	}
	return &Fetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   cfg.FetchTimeout,
		},
		userAgent: cfg.UserAgent,
		maxLen:    cfg.MaxContentLen,
	}
}

// FetchText performs a GET with a browser-like user agent and extracts the
// visible text, whitespace-normalized and truncated to the configured cap.
// Every failure mode collapses to an empty string; the caller substitutes
// its own fallback.
func (f *Fetcher) FetchText(ctx context.Context, url string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return ""
	}
	doc.Find(junkSelectors).Remove()

	text := strings.Join(strings.Fields(doc.Text()), " ")
	return Truncate(text, f.maxLen)
}

// Truncate caps s at max bytes without splitting a UTF-8 sequence.
func Truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	cut := s[:max]
	for len(cut) > 0 {
		r, size := utf8.DecodeLastRuneInString(cut)
		if r != utf8.RuneError || size > 1 {
			break
		}
		cut = cut[:len(cut)-1]
	}
	return cut
}
