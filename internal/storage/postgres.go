package storage

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/farmscout/farmscout/config"
	"github.com/farmscout/farmscout/models"
)

// PostgresStore keeps the analyzed-listing table used by the API's listing
// queries and by the offline rescore utility.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, cfg *config.PostgresConfig) (*PostgresStore, error) {
	if cfg.DBURL == "" {
		return nil, fmt.Errorf("DBURL is empty in config")
	}

	pgConfig, err := pgxpool.ParseConfig(cfg.DBURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PostgreSQL config: %w", err)
	}
	pgConfig.MaxConns = int32(cfg.PoolSize)
	pgConfig.MinConns = 1

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, pgConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// SaveAnalyzed upserts the model's scored listings in one batch, joining each
// back to its source listing for the content excerpt and keyword score.
func (s *PostgresStore) SaveAnalyzed(ctx context.Context, locationName string, analyzed []models.AnalyzedListing, sources []models.Listing) ([]int64, error) {
	if len(analyzed) == 0 {
		return nil, nil
	}

	byURL := make(map[string]*models.Listing, len(sources))
	for i := range sources {
		byURL[sources[i].URL] = &sources[i]
	}

	batch := &pgx.Batch{}
	for _, a := range analyzed {
		var excerpt string
		var keywordScore float64
		if src, ok := byURL[a.URL]; ok {
			excerpt = src.ScrapedContent
			keywordScore = src.KeywordScore
		}
		batch.Queue(upsertAnalyzedListing,
			removeInvalidUTF8(a.URL),
			removeInvalidUTF8(a.Title),
			removeInvalidUTF8(a.Price),
			removeInvalidUTF8(a.Size),
			a.RelevanceScore,
			removeInvalidUTF8(a.InvestmentStrategy),
			removeInvalidUTF8(locationName),
			removeInvalidUTF8(excerpt),
			keywordScore,
		)
	}

	res := s.pool.SendBatch(ctx, batch)
	defer res.Close()

	ids := make([]int64, len(analyzed))
	for i := range analyzed {
		if err := res.QueryRow().Scan(&ids[i]); err != nil {
			return nil, fmt.Errorf("failed to upsert analyzed listing: %w", err)
		}
	}
	return ids, nil
}

// TopListings returns scored listings at or above minScore, best first.
func (s *PostgresStore) TopListings(ctx context.Context, minScore, limit int) ([]models.AnalyzedListing, error) {
	rows, err := s.pool.Query(ctx, selectTopListings, minScore, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer rows.Close()

	var out []models.AnalyzedListing
	for rows.Next() {
		var a models.AnalyzedListing
		if err := rows.Scan(&a.URL, &a.Title, &a.Price, &a.Size, &a.RelevanceScore, &a.InvestmentStrategy); err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func removeInvalidUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, "")
}
