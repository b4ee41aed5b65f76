// Package geo resolves coordinates to town names via Nominatim, with an
// expanding-radius nearest-town search when the exact spot has no settlement.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/farmscout/farmscout/config"
)

const approximatePrefix = "Region near "

// Placeholder builds the synthetic low-confidence location name used when
// resolution fails entirely.
func Placeholder(lat, lon float64) string {
	return fmt.Sprintf("%s%.3f, %.3f", approximatePrefix, lat, lon)
}

// IsApproximate reports whether name is a synthetic placeholder that must
// not be trusted for query relaxation.
func IsApproximate(name string) bool {
	return strings.Contains(name, approximatePrefix)
}

// Offset is a fixed geographic displacement for the pipeline's nearby-retry
// tier. Roughly 25-30km at Australian latitudes.
type Offset struct {
	DLat float64
	DLon float64
}

var defaultOffsets = []Offset{
	{0.25, 0}, {-0.25, 0}, {0, 0.25}, {0, -0.25},
}

// Resolver answers reverse-geocoding lookups against a Nominatim instance.
type Resolver struct {
	client    *http.Client
	baseURL   string
	userAgent string
}

func NewResolver(cfg *config.GeoConfig) *Resolver {
	return &Resolver{
		client:    &http.Client{Timeout: cfg.Timeout},
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
	}
}

type reverseResponse struct {
	Address struct {
		Town    string `json:"town"`
		City    string `json:"city"`
		Village string `json:"village"`
		Hamlet  string `json:"hamlet"`
		State   string `json:"state"`
	} `json:"address"`
}

type searchResult struct {
	DisplayName string `json:"display_name"`
}

func (r *Resolver) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("nominatim: status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// LocationName resolves coordinates to "town, state". When the exact spot
// carries no settlement it searches an expanding radius for the nearest one;
// when everything fails it returns the approximate placeholder.
func (r *Resolver) LocationName(ctx context.Context, lat, lon float64) string {
	params := url.Values{}
	params.Set("lat", fmt.Sprintf("%f", lat))
	params.Set("lon", fmt.Sprintf("%f", lon))
	params.Set("format", "json")

	var rev reverseResponse
	if err := r.get(ctx, "/reverse", params, &rev); err != nil {
		return Placeholder(lat, lon)
	}

	addr := rev.Address
	town := addr.Town
	for _, alt := range []string{addr.City, addr.Village, addr.Hamlet} {
		if town != "" {
			break
		}
		town = alt
	}
	if town != "" {
		if addr.State != "" {
			return town + ", " + addr.State
		}
		return town
	}
	return r.findNearestTown(ctx, lat, lon, addr.State)
}

// findNearestTown searches bounded viewboxes of growing radius (roughly 11km
// to 110km) for the nearest populated place.
func (r *Resolver) findNearestTown(ctx context.Context, lat, lon float64, state string) string {
	for _, radius := range []float64{0.1, 0.5, 1.0} {
		params := url.Values{}
		params.Set("format", "json")
		params.Set("bounded", "1")
		params.Set("viewbox", fmt.Sprintf("%f,%f,%f,%f", lon-radius, lat+radius, lon+radius, lat-radius))
		params.Set("limit", "1")
		params.Set("featuretype", "city,town,village")
		if state != "" {
			params.Set("q", "town in "+state)
		} else {
			params.Set("q", "town")
		}

		var results []searchResult
		if err := r.get(ctx, "/search", params, &results); err != nil || len(results) == 0 {
			continue
		}
		name := strings.TrimSpace(strings.Split(results[0].DisplayName, ",")[0])
		if name == "" {
			continue
		}
		if state != "" {
			return name + ", " + state
		}
		return name
	}
	return Placeholder(lat, lon)
}

// Nearby resolves the fixed offset set around (lat, lon) and returns the
// distinct, non-approximate names for the pipeline's second escalation tier.
func (r *Resolver) Nearby(ctx context.Context, lat, lon float64) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, off := range defaultOffsets {
		name := r.LocationName(ctx, lat+off.DLat, lon+off.DLon)
		if IsApproximate(name) {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}
