package climate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/farmscout/farmscout/config"
)

const archiveBody = `{"daily":{
	"temperature_2m_max":[30,32,28,26],
	"temperature_2m_min":[10,-2,-1,5],
	"rain_sum":[5,0,12,3],
	"et0_fao_evapotranspiration":[4,5,3,4],
	"precipitation_hours":[2,0,6,1]
}}`

func testService(url string) *Service {
	return NewService(&config.ClimateConfig{
		BaseURL:  url,
		CacheTTL: time.Hour,
		Year:     "2023",
	}, NewMemoryCache())
}

func TestClimateData_Aggregates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("start_date") != "2023-01-01" || q.Get("end_date") != "2023-12-31" {
			t.Errorf("unexpected date range: %v", q)
		}
		w.Write([]byte(archiveBody))
	}))
	defer srv.Close()

	got, err := testService(srv.URL).ClimateData(context.Background(), -32.24, 148.60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.AvgTempMaxC != 29.0 {
		t.Errorf("avg max: got %f, want 29.0", got.AvgTempMaxC)
	}
	if got.AvgTempMinC != 3.0 {
		t.Errorf("avg min: got %f, want 3.0", got.AvgTempMinC)
	}
	if got.AverageTemperatureC != 16.0 {
		t.Errorf("avg temp: got %f, want 16.0", got.AverageTemperatureC)
	}
	if got.TotalAnnualRainfallMM != 20.0 {
		t.Errorf("rain: got %f, want 20.0", got.TotalAnnualRainfallMM)
	}
	if got.TotalAnnualET0MM != 16.0 {
		t.Errorf("et0: got %f, want 16.0", got.TotalAnnualET0MM)
	}
	if got.FrostDays != 2 {
		t.Errorf("frost days: got %d, want 2", got.FrostDays)
	}
	if got.WaterBalance != 4.0 {
		t.Errorf("water balance: got %f, want 4.0", got.WaterBalance)
	}
	if got.ClimateSummary == "" {
		t.Error("summary should not be empty")
	}
}

func TestClimateData_CacheHitSkipsAPI(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(archiveBody))
	}))
	defer srv.Close()

	svc := testService(srv.URL)
	ctx := context.Background()
	if _, err := svc.ClimateData(ctx, -32.24, 148.60); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if _, err := svc.ClimateData(ctx, -32.24, 148.60); err != nil {
		t.Fatalf("second call: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("API called %d times, want 1 (second should hit cache)", got)
	}
}

func TestClimateData_EmptySeries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"daily":{}}`))
	}))
	defer srv.Close()

	if _, err := testService(srv.URL).ClimateData(context.Background(), 0, 0); err == nil {
		t.Fatal("expected error on empty daily series")
	}
}

func TestMemoryCache_TTLExpiry(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()
	c.Set(ctx, "k", "v", time.Millisecond)
	if _, ok := c.Get(ctx, "k"); !ok {
		t.Fatal("fresh entry should hit")
	}
	time.Sleep(5 * time.Millisecond)
	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatal("expired entry should miss")
	}
}
