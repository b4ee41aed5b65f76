package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/farmscout/farmscout/config"
	"github.com/farmscout/farmscout/models"
)

// Provider issues one search query against a search engine and returns the
// raw result items, capped at limit.
type Provider interface {
	Search(ctx context.Context, query string, limit int) ([]models.Candidate, error)
}

// SerperClient talks to the Serper Google-search API.
type SerperClient struct {
	client   *http.Client
	endpoint string
	apiKey   string
}

func NewSerperClient(cfg *config.SerperConfig) *SerperClient {
	return &SerperClient{
		client:   &http.Client{Timeout: cfg.Timeout},
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
	}
}

type serperItem struct {
	Title     string `json:"title"`
	Link      string `json:"link"`
	Snippet   string `json:"snippet"`
	ImageURL  string `json:"imageUrl"`
	Thumbnail string `json:"thumbnail"`
}

type serperResponse struct {
	Organic []serperItem `json:"organic"`
}

// Search posts {q, num} and maps the organic results. A response without the
// organic list is an empty result set, not an error; transport and non-200
// failures are errors for the caller to absorb.
func (s *SerperClient) Search(ctx context.Context, query string, limit int) ([]models.Candidate, error) {
	payload, err := json.Marshal(map[string]interface{}{"q": query, "num": limit})
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("X-API-KEY", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serper request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serper: bad response status %s", resp.Status)
	}

	var decoded serperResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		// Malformed body counts as an empty result set for this query.
		return nil, nil
	}

	candidates := make([]models.Candidate, 0, len(decoded.Organic))
	for _, item := range decoded.Organic {
		image := item.ImageURL
		if image == "" {
			image = item.Thumbnail
		}
		candidates = append(candidates, models.Candidate{
			Title:    item.Title,
			URL:      item.Link,
			Snippet:  item.Snippet,
			ImageURL: image,
		})
	}
	return candidates, nil
}
