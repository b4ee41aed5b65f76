package config

import "time"

type Config struct {
	Serper    SerperConfig
	Scraper   ScraperConfig
	Geo       GeoConfig
	Climate   ClimateConfig
	Gemini    GeminiConfig
	Redis     RedisConfig
	Mongo     MongoConfig
	DB        PostgresConfig
	API       APIConfig
	Collector CollectorConfig
}

// SerperConfig configures the search-provider client and the aggregator.
type SerperConfig struct {
	APIKey        string
	Endpoint      string
	ResultLimit   int
	FallbackLimit int
	Timeout       time.Duration
}

// ScraperConfig bounds the content fetcher and the scrape coordinator.
type ScraperConfig struct {
	MaxConcurrency int
	FetchTimeout   time.Duration
	MaxContentLen  int
	UserAgent      string
}

type GeoConfig struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

type ClimateConfig struct {
	BaseURL  string
	CacheTTL time.Duration
	Year     string
}

type GeminiConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type MongoConfig struct {
	URI         string
	DBName      string
	ListingColl string
	RunColl     string
}

type PostgresConfig struct {
	DBURL    string
	PoolSize int
}

type APIConfig struct {
	HTTPAddr string
}

// CollectorConfig configures the direct site collector.
type CollectorConfig struct {
	UserAgent   string
	Parallelism int
}
