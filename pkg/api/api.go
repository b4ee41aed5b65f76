// Package api exposes the discovery pipeline and the analyzed-listing store
// over HTTP.
package api

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/farmscout/farmscout/internal/search"
	"github.com/farmscout/farmscout/models"
)

// Discoverer runs one end-to-end discovery pass.
type Discoverer interface {
	Discover(ctx context.Context, lat, lon float64) ([]models.Listing, error)
	LocationName(ctx context.Context, lat, lon float64) string
}

// ListingSource serves previously analyzed listings.
type ListingSource interface {
	TopListings(ctx context.Context, minScore, limit int) ([]models.AnalyzedListing, error)
}

type ListingAPI struct {
	pipeline Discoverer
	store    ListingSource
}

func NewListingAPI(pipeline Discoverer, store ListingSource) *ListingAPI {
	return &ListingAPI{pipeline: pipeline, store: store}
}

func (api *ListingAPI) RegisterRoutes(app *fiber.App) {
	app.Get("/discover", api.discoverHandler)
	app.Get("/listings", api.listingsHandler)
}

func (api *ListingAPI) discoverHandler(c *fiber.Ctx) error {
	lat, err := strconv.ParseFloat(c.Query("lat", ""), 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "lat must be a number",
		})
	}
	lon, err := strconv.ParseFloat(c.Query("lon", ""), 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "lon must be a number",
		})
	}

	listings, err := api.pipeline.Discover(c.Context(), lat, lon)
	if err != nil {
		if errors.Is(err, search.ErrProviderUnavailable) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "search service unavailable",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Discovery failed: " + err.Error(),
		})
	}
	if listings == nil {
		listings = []models.Listing{}
	}

	return c.JSON(fiber.Map{
		"location": api.pipeline.LocationName(c.Context(), lat, lon),
		"count":    len(listings),
		"listings": listings,
	})
}

func (api *ListingAPI) listingsHandler(c *fiber.Ctx) error {
	minScore, err := strconv.Atoi(c.Query("min_score", "0"))
	if err != nil || minScore < 0 || minScore > 100 {
		minScore = 0
	}
	limit, err := strconv.Atoi(c.Query("limit", "25"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 25
	}

	listings, err := api.store.TopListings(c.Context(), minScore, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Listing query failed: " + err.Error(),
		})
	}
	if listings == nil {
		listings = []models.AnalyzedListing{}
	}

	return c.JSON(fiber.Map{
		"min_score": minScore,
		"limit":     limit,
		"count":     len(listings),
		"listings":  listings,
	})
}
