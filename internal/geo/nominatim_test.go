package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/farmscout/farmscout/config"
)

func testResolver(url string) *Resolver {
	return NewResolver(&config.GeoConfig{
		BaseURL:   url,
		UserAgent: "farmscout-test/1.0",
		Timeout:   5 * time.Second,
	})
}

func TestLocationName_TownAndState(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reverse" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("User-Agent") != "farmscout-test/1.0" {
			t.Error("user agent header not set")
		}
		w.Write([]byte(`{"address":{"town":"Dubbo","state":"New South Wales"}}`))
	}))
	defer srv.Close()

	got := testResolver(srv.URL).LocationName(context.Background(), -32.24, 148.60)
	if got != "Dubbo, New South Wales" {
		t.Errorf("got %q", got)
	}
}

func TestLocationName_VillageFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"address":{"village":"Eumungerie","state":"New South Wales"}}`))
	}))
	defer srv.Close()

	got := testResolver(srv.URL).LocationName(context.Background(), -31.95, 148.62)
	if got != "Eumungerie, New South Wales" {
		t.Errorf("got %q", got)
	}
}

func TestLocationName_NearestTownSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/reverse":
			w.Write([]byte(`{"address":{"state":"New South Wales"}}`))
		case "/search":
			if r.URL.Query().Get("bounded") != "1" {
				t.Error("search should be viewbox bounded")
			}
			w.Write([]byte(`[{"display_name":"Narromine, Narromine Shire, New South Wales, Australia"}]`))
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	got := testResolver(srv.URL).LocationName(context.Background(), -32.1, 148.2)
	if got != "Narromine, New South Wales" {
		t.Errorf("got %q", got)
	}
}

func TestLocationName_FailureYieldsPlaceholder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	got := testResolver(srv.URL).LocationName(context.Background(), -32.244, 148.605)
	if got != "Region near -32.244, 148.605" {
		t.Errorf("got %q", got)
	}
	if !IsApproximate(got) {
		t.Error("placeholder should be approximate")
	}
}

func TestNearby_DedupesAndSkipsApproximate(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		switch calls {
		case 1, 2:
			w.Write([]byte(`{"address":{"town":"Dubbo","state":"New South Wales"}}`))
		case 3:
			w.Write([]byte(`{"address":{"town":"Gilgandra","state":"New South Wales"}}`))
		default:
			// no settlement and no search hits: approximate
			w.Write([]byte(`{"address":{}}`))
		}
	}))
	defer srv.Close()

	got := testResolver(srv.URL).Nearby(context.Background(), -32.24, 148.60)
	want := []string{"Dubbo, New South Wales", "Gilgandra, New South Wales"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
		}
	}
}

func TestPlaceholderFormat(t *testing.T) {
	got := Placeholder(-32.2438, 148.6051)
	if !strings.HasPrefix(got, "Region near ") {
		t.Errorf("got %q", got)
	}
	if got != "Region near -32.244, 148.605" {
		t.Errorf("coordinates not rounded to 3 places: %q", got)
	}
}
