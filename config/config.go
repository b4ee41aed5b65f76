package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

func LoadConfig(filename string) (*Config, error) {
	viper.SetConfigName(filename)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	var config Config
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("cannot read the file %w", err)
	}
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error reading the config file %w", err)
	}
	applyDefaults(&config)
	return &config, nil
}

func GetDefaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Serper.Endpoint == "" {
		cfg.Serper.Endpoint = "https://google.serper.dev/search"
	}
	if cfg.Serper.ResultLimit <= 0 {
		cfg.Serper.ResultLimit = 25
	}
	if cfg.Serper.FallbackLimit <= 0 {
		cfg.Serper.FallbackLimit = 20
	}
	if cfg.Serper.Timeout <= 0 {
		cfg.Serper.Timeout = 10 * time.Second
	}
	if cfg.Scraper.MaxConcurrency <= 0 {
		cfg.Scraper.MaxConcurrency = 10
	}
	if cfg.Scraper.FetchTimeout <= 0 {
		cfg.Scraper.FetchTimeout = 10 * time.Second
	}
	if cfg.Scraper.MaxContentLen <= 0 {
		cfg.Scraper.MaxContentLen = 5000
	}
	if cfg.Scraper.UserAgent == "" {
		cfg.Scraper.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	}
	if cfg.Geo.BaseURL == "" {
		cfg.Geo.BaseURL = "https://nominatim.openstreetmap.org"
	}
	if cfg.Geo.UserAgent == "" {
		cfg.Geo.UserAgent = "FarmScout_App/1.0"
	}
	if cfg.Geo.Timeout <= 0 {
		cfg.Geo.Timeout = 5 * time.Second
	}
	if cfg.Climate.BaseURL == "" {
		cfg.Climate.BaseURL = "https://archive-api.open-meteo.com/v1/archive"
	}
	if cfg.Climate.CacheTTL <= 0 {
		cfg.Climate.CacheTTL = time.Hour
	}
	if cfg.Climate.Year == "" {
		cfg.Climate.Year = "2023"
	}
	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = "gemini-2.5-flash"
	}
	if cfg.Gemini.Timeout <= 0 {
		cfg.Gemini.Timeout = 60 * time.Second
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost:6379"
	}
	if cfg.Mongo.DBName == "" {
		cfg.Mongo.DBName = "farmscout"
	}
	if cfg.Mongo.ListingColl == "" {
		cfg.Mongo.ListingColl = "listings"
	}
	if cfg.Mongo.RunColl == "" {
		cfg.Mongo.RunColl = "discovery_runs"
	}
	if cfg.DB.PoolSize <= 0 {
		cfg.DB.PoolSize = 4
	}
	if cfg.API.HTTPAddr == "" {
		cfg.API.HTTPAddr = ":8080"
	}
	if cfg.Collector.UserAgent == "" {
		cfg.Collector.UserAgent = cfg.Scraper.UserAgent
	}
	if cfg.Collector.Parallelism <= 0 {
		cfg.Collector.Parallelism = 2
	}
}
