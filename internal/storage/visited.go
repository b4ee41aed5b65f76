package storage

import (
	"fmt"
	"log"
	"strings"

	redisbloom "github.com/RedisBloom/redisbloom-go"

	"github.com/farmscout/farmscout/config"
)

const (
	approxItems    = 1_000_000
	errorRate      = 0.01
	visitedSetName = "farmscout_stored_urls"
)

// VisitedFilter is a cross-run probabilistic set of listing URLs that have
// already been persisted. It only gates storage writes, never discovery:
// within a single run deduplication stays exact and in memory.
type VisitedFilter struct {
	client *redisbloom.Client
}

func NewVisitedFilter(cfg *config.RedisConfig) (*VisitedFilter, error) {
	client := redisbloom.NewClient(cfg.Host, "", nil)
	if err := client.Reserve(visitedSetName, errorRate, approxItems); err != nil {
		if strings.Contains(err.Error(), "item exists") {
			log.Println("Skipping: visited filter already reserved")
		} else {
			return nil, fmt.Errorf("could not reserve visited filter: %w", err)
		}
	}
	return &VisitedFilter{client: client}, nil
}

func (v *VisitedFilter) Mark(url string) error {
	_, err := v.client.Add(visitedSetName, url)
	return err
}

func (v *VisitedFilter) Seen(url string) (bool, error) {
	exists, err := v.client.Exists(visitedSetName, url)
	if err != nil {
		return false, fmt.Errorf("failed to check visited filter: %w", err)
	}
	return exists, nil
}
