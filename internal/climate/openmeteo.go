// Package climate fetches annual climate aggregates from the Open-Meteo
// archive API behind an injected TTL cache.
package climate

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/farmscout/farmscout/config"
	"github.com/farmscout/farmscout/models"
)

type Service struct {
	client  *http.Client
	cache   Cache
	baseURL string
	ttl     time.Duration
	year    string
}

func NewService(cfg *config.ClimateConfig, cache Cache) *Service {
	return &Service{
		client:  &http.Client{Timeout: 30 * time.Second},
		cache:   cache,
		baseURL: cfg.BaseURL,
		ttl:     cfg.CacheTTL,
		year:    cfg.Year,
	}
}

type archiveResponse struct {
	Daily struct {
		TempMax     []float64 `json:"temperature_2m_max"`
		TempMin     []float64 `json:"temperature_2m_min"`
		RainSum     []float64 `json:"rain_sum"`
		ET0         []float64 `json:"et0_fao_evapotranspiration"`
		PrecipHours []float64 `json:"precipitation_hours"`
	} `json:"daily"`
}

// ClimateData returns one year of daily archive data reduced to annual
// aggregates. Results are cached by rounded coordinates for the service TTL.
func (s *Service) ClimateData(ctx context.Context, lat, lon float64) (*models.ClimateData, error) {
	key := fmt.Sprintf("climate:%.3f:%.3f", lat, lon)
	if cached, ok := s.cache.Get(ctx, key); ok {
		var data models.ClimateData
		if err := json.Unmarshal([]byte(cached), &data); err == nil {
			return &data, nil
		}
	}

	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%f", lat))
	params.Set("longitude", fmt.Sprintf("%f", lon))
	params.Set("start_date", s.year+"-01-01")
	params.Set("end_date", s.year+"-12-31")
	params.Set("daily", "temperature_2m_max,temperature_2m_min,rain_sum,et0_fao_evapotranspiration,precipitation_hours")
	params.Set("timezone", "auto")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("climate api: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("climate api: status %d", resp.StatusCode)
	}

	var decoded archiveResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("climate api: decode: %w", err)
	}
	daily := decoded.Daily
	if len(daily.TempMax) == 0 || len(daily.TempMin) == 0 {
		return nil, fmt.Errorf("climate api: empty daily series")
	}

	avgMax := mean(daily.TempMax)
	avgMin := mean(daily.TempMin)
	totalRain := sum(daily.RainSum)
	totalET0 := sum(daily.ET0)
	frostDays := 0
	for _, t := range daily.TempMin {
		if t < 0 {
			frostDays++
		}
	}

	avgTemp := (avgMax + avgMin) / 2
	data := &models.ClimateData{
		AverageTemperatureC:   round1(avgTemp),
		AvgTempMaxC:           round1(avgMax),
		AvgTempMinC:           round1(avgMin),
		TotalAnnualRainfallMM: round1(totalRain),
		TotalAnnualET0MM:      round1(totalET0),
		FrostDays:             frostDays,
		PrecipitationHours:    round1(sum(daily.PrecipHours)),
		WaterBalance:          round1(totalRain - totalET0),
		ClimateSummary: fmt.Sprintf("Mean Temp: %.1f°C, Annual Rain: %.1fmm, ET0: %.1fmm",
			avgTemp, totalRain, totalET0),
	}

	if raw, err := json.Marshal(data); err == nil {
		s.cache.Set(ctx, key, string(raw), s.ttl)
	}
	return data, nil
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return sum(xs) / float64(len(xs))
}

func sum(xs []float64) float64 {
	var total float64
	for _, x := range xs {
		total += x
	}
	return total
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
