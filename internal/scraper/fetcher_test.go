package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/farmscout/farmscout/config"
)

func testConfig() *config.ScraperConfig {
	return &config.ScraperConfig{
		MaxConcurrency: 10,
		FetchTimeout:   5 * time.Second,
		MaxContentLen:  5000,
		UserAgent:      "test-agent",
	}
}

func TestFetchText_StripsJunkElements(t *testing.T) {
	page := `<html><head><title>t</title><style>body{color:red}</style></head>
	<body>
	<nav>Menu Home About</nav>
	<header>Site Header</header>
	<script>var x = 1;</script>
	<p>235  Clearview   Road</p>
	<p>Price: $1,250,000 on 400 acres</p>
	<iframe src="x"></iframe>
	<svg><circle/></svg>
	<footer>Copyright</footer>
	</body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "test-agent" {
			t.Errorf("user agent not sent: %q", r.Header.Get("User-Agent"))
		}
		w.Write([]byte(page))
	}))
	defer srv.Close()

	f := NewFetcher(testConfig())
	got := f.FetchText(context.Background(), srv.URL)

	for _, junk := range []string{"Menu Home", "Site Header", "var x", "Copyright", "color:red"} {
		if strings.Contains(got, junk) {
			t.Errorf("junk element text survived: %q in %q", junk, got)
		}
	}
	want := "235 Clearview Road Price: $1,250,000 on 400 acres"
	if !strings.Contains(got, want) {
		t.Errorf("content missing or whitespace not normalized: got %q", got)
	}
}

func TestFetchText_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("not found page body"))
	}))
	defer srv.Close()

	f := NewFetcher(testConfig())
	if got := f.FetchText(context.Background(), srv.URL); got != "" {
		t.Errorf("non-200 should yield empty string, got %q", got)
	}
}

func TestFetchText_TransportError(t *testing.T) {
	f := NewFetcher(testConfig())
	if got := f.FetchText(context.Background(), "http://127.0.0.1:1/unreachable"); got != "" {
		t.Errorf("transport error should yield empty string, got %q", got)
	}
}

func TestFetchText_Truncates(t *testing.T) {
	cfg := testConfig()
	cfg.MaxContentLen = 50
	long := strings.Repeat("acres and price data ", 100)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>" + long + "</p></body></html>"))
	}))
	defer srv.Close()

	f := NewFetcher(cfg)
	got := f.FetchText(context.Background(), srv.URL)
	if len(got) == 0 || len(got) > 50 {
		t.Errorf("expected 1..50 bytes, got %d", len(got))
	}
}

func TestTruncate_UTF8Boundary(t *testing.T) {
	s := "température" // the é is two bytes
	got := Truncate(s, 5)
	if got != "temp" {
		t.Errorf("got %q, want %q", got, "temp")
	}
	if Truncate("short", 100) != "short" {
		t.Error("under-cap string must pass through unchanged")
	}
}
