package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/farmscout/farmscout/config"
	"github.com/farmscout/farmscout/internal/analysis"
	"github.com/farmscout/farmscout/internal/climate"
	"github.com/farmscout/farmscout/internal/crawler"
	"github.com/farmscout/farmscout/internal/geo"
	"github.com/farmscout/farmscout/internal/pipeline"
	"github.com/farmscout/farmscout/internal/scraper"
	"github.com/farmscout/farmscout/internal/search"
	"github.com/farmscout/farmscout/internal/storage"
	"github.com/farmscout/farmscout/models"
	"github.com/farmscout/farmscout/pkg/api"
)

func main() {
	var (
		configFile = flag.String("config", "farmscout", "Name of the yaml configuration file")
		mode       = flag.String("mode", "discover", "Mode: discover, serve or collect")
		lat        = flag.Float64("lat", -32.2438, "Latitude for discovery")
		lon        = flag.Float64("lon", 148.6051, "Longitude for discovery")
		indexURL   = flag.String("url", "", "Index page URL for collect mode")
	)
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Printf("Failed to load configuration %s: %v", *configFile, err)
		log.Println("Using default configuration...")
		cfg = config.GetDefaultConfig()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Received shutdown signal, gracefully shutting down...")
		cancel()
	}()

	switch *mode {
	case "discover":
		runDiscovery(ctx, cfg, *lat, *lon)

	case "serve":
		runServer(ctx, cfg)

	case "collect":
		if *indexURL == "" {
			log.Fatal("collect mode requires -url")
		}
		collector := crawler.NewSiteCollector(&cfg.Collector)
		candidates, err := collector.Harvest(*indexURL)
		if err != nil {
			log.Fatalf("Failed to harvest %s: %v", *indexURL, err)
		}
		log.Printf("Harvested %d candidates from %s", len(candidates), *indexURL)
		for _, c := range candidates {
			log.Printf("  %s  %s", c.URL, c.Title)
		}

	default:
		log.Fatalf("Unknown mode: %s. Use discover, serve or collect.", *mode)
	}
}

func buildPipeline(cfg *config.Config, logger *log.Logger) *pipeline.Pipeline {
	provider := search.NewSerperClient(&cfg.Serper)
	aggregator := search.NewAggregator(provider, search.DefaultSources(), &cfg.Serper, logger)
	fetcher := scraper.NewFetcher(&cfg.Scraper)

	status := func(message string, fraction float64) {
		logger.Printf("[%3.0f%%] %s", fraction*100, message)
	}
	coordinator := scraper.NewCoordinator(fetcher, cfg.Scraper.MaxConcurrency, cfg.Scraper.MaxContentLen, status)
	resolver := geo.NewResolver(&cfg.Geo)

	return pipeline.New(resolver, aggregator, coordinator, status, logger)
}

func runDiscovery(ctx context.Context, cfg *config.Config, lat, lon float64) {
	logger := log.New(os.Stdout, "[Discovery] ", log.LstdFlags)
	p := buildPipeline(cfg, logger)

	listings, err := p.Discover(ctx, lat, lon)
	if err != nil {
		logger.Fatalf("Discovery failed: %v", err)
	}
	location := p.LocationName(ctx, lat, lon)
	logger.Printf("Found %d listings near %s", len(listings), location)
	for _, l := range listings {
		logger.Printf("  [%.1f] %s  %s", l.KeywordScore, l.Title, l.URL)
	}
	if len(listings) == 0 {
		return
	}

	persistRun(ctx, cfg, logger, lat, lon, location, listings)
	analyzeRun(ctx, cfg, logger, lat, lon, location, listings)
}

// persistRun stores the run and its listings in MongoDB when a URI is
// configured, skipping URLs the cross-run visited filter already holds.
func persistRun(ctx context.Context, cfg *config.Config, logger *log.Logger, lat, lon float64, location string, listings []models.Listing) {
	if cfg.Mongo.URI == "" {
		return
	}
	store, err := storage.NewMongoStore(ctx, &cfg.Mongo)
	if err != nil {
		logger.Printf("Skipping persistence: %v", err)
		return
	}
	defer store.Disconnect()

	runID, err := store.AddRun(ctx, &models.DiscoveryRun{
		Latitude:     lat,
		Longitude:    lon,
		LocationName: location,
		ListingCount: len(listings),
	})
	if err != nil {
		logger.Printf("Failed to store run: %v", err)
		return
	}

	fresh := listings
	if visited, err := storage.NewVisitedFilter(&cfg.Redis); err == nil {
		fresh = make([]models.Listing, 0, len(listings))
		for _, l := range listings {
			seen, err := visited.Seen(l.URL)
			if err == nil && seen {
				continue
			}
			fresh = append(fresh, l)
			if err := visited.Mark(l.URL); err != nil {
				logger.Printf("Failed to mark %s as visited: %v", l.URL, err)
			}
		}
		logger.Printf("Visited filter: %d of %d listings are new", len(fresh), len(listings))
	} else {
		logger.Printf("Visited filter unavailable, storing all listings: %v", err)
	}

	if err := store.AddListings(ctx, runID.Hex(), fresh); err != nil {
		logger.Printf("Failed to store listings: %v", err)
		return
	}
	logger.Printf("Stored run %s with %d listings", runID.Hex(), len(fresh))

	if client := newRedisClient(cfg); client != nil {
		defer client.Close()
		if err := client.Set(ctx, "last_run_id", runID.Hex(), 0).Err(); err != nil {
			logger.Printf("Failed to checkpoint run id: %v", err)
		}
	}
}

// analyzeRun ranks the listings against the local climate and saves the
// scored output to PostgreSQL. Both steps need their credentials configured.
func analyzeRun(ctx context.Context, cfg *config.Config, logger *log.Logger, lat, lon float64, location string, listings []models.Listing) {
	if cfg.Gemini.APIKey == "" {
		return
	}

	climateSvc := climate.NewService(&cfg.Climate, climateCache(cfg))
	climateData, err := climateSvc.ClimateData(ctx, lat, lon)
	if err != nil {
		logger.Printf("Skipping analysis, climate lookup failed: %v", err)
		return
	}
	logger.Printf("Climate: %s", climateData.ClimateSummary)

	engine := analysis.NewEngine(&cfg.Gemini)
	result, err := engine.Analyze(ctx, climateData, listings)
	if err != nil {
		logger.Printf("Analysis failed: %v", err)
		return
	}
	logger.Printf("Analysis: %d of %d listings valid, suitability %d",
		result.ValidListingsFound, result.TotalCandidatesReviewed, result.SuitabilityScore)

	if cfg.DB.DBURL == "" {
		return
	}
	pg, err := storage.NewPostgresStore(ctx, &cfg.DB)
	if err != nil {
		logger.Printf("Skipping analyzed storage: %v", err)
		return
	}
	defer pg.Close()
	if _, err := pg.SaveAnalyzed(ctx, location, result.ListingsAnalysis, listings); err != nil {
		logger.Printf("Failed to store analyzed listings: %v", err)
		return
	}
	logger.Printf("Stored %d analyzed listings", len(result.ListingsAnalysis))
}

func runServer(ctx context.Context, cfg *config.Config) {
	logger := log.New(os.Stdout, "[API] ", log.LstdFlags)
	p := buildPipeline(cfg, logger)

	var store api.ListingSource
	if cfg.DB.DBURL != "" {
		pg, err := storage.NewPostgresStore(ctx, &cfg.DB)
		if err != nil {
			logger.Fatalf("Failed to connect to PostgreSQL: %v", err)
		}
		defer pg.Close()
		store = pg
	} else {
		store = emptyStore{}
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	})
	api.NewListingAPI(p, store).RegisterRoutes(app)

	go func() {
		logger.Printf("Starting listing API on %s", cfg.API.HTTPAddr)
		if err := app.Listen(cfg.API.HTTPAddr); err != nil {
			logger.Fatalf("Fiber app failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		logger.Printf("Fiber shutdown failed: %v", err)
	}
	logger.Println("Server exited properly")
}

// newRedisClient returns a pinged client, or nil when redis is not
// configured or unreachable.
func newRedisClient(cfg *config.Config) *redis.Client {
	if cfg.Redis.Host == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Printf("Redis unavailable: %v", err)
		client.Close()
		return nil
	}
	return client
}

func climateCache(cfg *config.Config) climate.Cache {
	if client := newRedisClient(cfg); client != nil {
		return climate.NewRedisCache(client)
	}
	return climate.NewMemoryCache()
}

// emptyStore backs the listings route when no database is configured.
type emptyStore struct{}

func (emptyStore) TopListings(context.Context, int, int) ([]models.AnalyzedListing, error) {
	return nil, nil
}
