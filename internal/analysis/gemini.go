// Package analysis calls the Gemini ranking model over REST. The model is an
// opaque scoring oracle: this package only prepares its bounded input and
// decodes its structured output.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/farmscout/farmscout/config"
	"github.com/farmscout/farmscout/internal/scraper"
	"github.com/farmscout/farmscout/models"
)

const (
	maxListingsPerPrompt = 25
	maxContentPerListing = 2000
)

type Engine struct {
	client   *http.Client
	endpoint string
}

func NewEngine(cfg *config.GeminiConfig) *Engine {
	return &Engine{
		client: &http.Client{Timeout: cfg.Timeout},
		endpoint: fmt.Sprintf(
			"https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s",
			cfg.Model, cfg.APIKey),
	}
}

type promptListing struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

type promptPart struct {
	Text string `json:"text"`
}

type promptContent struct {
	Parts []promptPart `json:"parts"`
}

type generationConfig struct {
	ResponseMimeType string `json:"response_mime_type"`
}

type generateRequest struct {
	Contents         []promptContent  `json:"contents"`
	GenerationConfig generationConfig `json:"generation_config"`
}

type generateResponse struct {
	Candidates []struct {
		Content promptContent `json:"content"`
	} `json:"candidates"`
}

// Analyze asks the model to rank listings against the climate profile.
func (e *Engine) Analyze(ctx context.Context, climate *models.ClimateData, listings []models.Listing) (*models.AnalysisResponse, error) {
	prompt, err := buildPrompt(climate, listings)
	if err != nil {
		return nil, err
	}

	reqBody := generateRequest{
		Contents:         []promptContent{{Parts: []promptPart{{Text: prompt}}}},
		GenerationConfig: generationConfig{ResponseMimeType: "application/json"},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini: status %d", resp.StatusCode)
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("gemini: decode: %w", err)
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("gemini: unexpected response format")
	}

	return ParseAnalysis(decoded.Candidates[0].Content.Parts[0].Text)
}

func buildPrompt(climate *models.ClimateData, listings []models.Listing) (string, error) {
	minListings := make([]promptListing, 0, maxListingsPerPrompt)
	for _, l := range listings {
		if len(minListings) == maxListingsPerPrompt {
			break
		}
		minListings = append(minListings, promptListing{
			Title:   l.Title,
			URL:     l.URL,
			Content: scraper.Truncate(l.ScrapedContent, maxContentPerListing),
		})
	}
	listingsJSON, err := json.Marshal(minListings)
	if err != nil {
		return "", fmt.Errorf("marshal listings: %w", err)
	}

	climateSummary := fmt.Sprintf("Temp: %.1fC, Rain: %.1fmm, ET0: %.1fmm, Frost Days: %d",
		climate.AverageTemperatureC, climate.TotalAnnualRainfallMM,
		climate.TotalAnnualET0MM, climate.FrostDays)

	return fmt.Sprintf(`ACT AS: Expert Agricultural Investment Analyst.
TASK: Rank these property listings based on the provided CLIMATE DATA.

CLIMATE DATA:
%s

LISTINGS DATA (%d items):
%s

INSTRUCTIONS:
1. FILTER: Ignore guide, blog, or aggregate pages. Keep only SPECIFIC properties for sale.
2. EXCLUDE: Discard any property marked as SOLD, UNDER OFFER, or WITHDRAWN.
3. EXTRACT: Price, Size (Acres/Ha).
4. RANK: Score 0-100 based on data completeness + investment suitability given the climate.
5. SUMMARY: Write a location_summary and investor_summary using the climate data.

OUTPUT SCHEMA:
Return valid JSON matching this structure exactly (NO MARKDOWN):
{
  "location_summary": "...",
  "suitability_score": 0,
  "water_security": "High" or "Needs Irrigation",
  "operation_difficulty": "Easy" or "Hard",
  "crop_versatility": "High" or "Low",
  "investor_summary": "...",
  "total_candidates_reviewed": 0,
  "valid_listings_found": 0,
  "listings_analysis": [
    {"title": "...", "price": "...", "size": "...", "url": "...", "relevance_score": 0, "investment_strategy": "..."}
  ]
}`, climateSummary, len(minListings), string(listingsJSON)), nil
}

var reCodeFence = regexp.MustCompile("```(?:json)?")

// ParseAnalysis decodes the model's JSON output, tolerating markdown code
// fences the model sometimes wraps it in.
func ParseAnalysis(text string) (*models.AnalysisResponse, error) {
	clean := reCodeFence.ReplaceAllString(text, "")
	clean = strings.Trim(strings.TrimSpace(clean), "`")

	var out models.AnalysisResponse
	if err := json.Unmarshal([]byte(clean), &out); err != nil {
		return nil, fmt.Errorf("gemini: parse analysis: %w", err)
	}
	return &out, nil
}
