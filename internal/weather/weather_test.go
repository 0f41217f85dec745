package weather

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/abelbrown/newsreel/internal/config"
)

func testFetcher(srv *httptest.Server) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{Timeout: time.Second},
		endpoint:   srv.URL,
	}
}

func TestFetchRejectsUnknownProvider(t *testing.T) {
	f := NewFetcher()
	_, err := f.Fetch(context.Background(), nil, "acme-weather")
	if err == nil {
		t.Fatal("expected hard error for unsupported provider")
	}
	if !strings.Contains(err.Error(), "acme-weather") {
		t.Errorf("error %q should name the provider", err)
	}
}

func TestFetchFormatsSummary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
  "current": {
    "temperature_2m": 72.5,
    "apparent_temperature": 75,
    "relative_humidity_2m": 60,
    "precipitation": 0.1,
    "wind_speed_10m": 8
  },
  "daily": {
    "temperature_2m_max": [80, 82, 79],
    "temperature_2m_min": [65, 66, 64],
    "precipitation_sum": [0.25, 0, 0]
  }
}`)
	}))
	defer srv.Close()

	locs := []config.Location{{Name: "Boston", Lat: 42.36, Lon: -71.06}}
	entries, err := testFetcher(srv).Fetch(context.Background(), locs, "open-meteo")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}

	e := entries[0]
	if e.Title != "Weather for Boston" {
		t.Errorf("Title = %q", e.Title)
	}
	want := "Current conditions in Boston: Temperature 72.5°F (feels like 75°F), " +
		"Humidity 60%, Wind 8 mph, Precipitation 0.1 inches. " +
		"Today's forecast: High 80°F, Low 65°F, Expected precipitation 0.25 inches"
	if e.Description != want {
		t.Errorf("Description = %q\nwant          %q", e.Description, want)
	}
}

func TestFetchOmitsZeroPrecipitation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
  "current": {"temperature_2m": 50, "apparent_temperature": 48, "relative_humidity_2m": 40, "precipitation": 0, "wind_speed_10m": 5},
  "daily": {"temperature_2m_max": [55], "temperature_2m_min": [41], "precipitation_sum": [0]}
}`)
	}))
	defer srv.Close()

	locs := []config.Location{{Name: "Reno", Lat: 39.5, Lon: -119.8}}
	entries, err := testFetcher(srv).Fetch(context.Background(), locs, "open-meteo")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	got := entries[0].Description
	if strings.Contains(got, "Precipitation") || strings.Contains(got, "precipitation") {
		t.Errorf("summary should omit precipitation when zero: %q", got)
	}
}

func TestFetchFailedLocationStillListed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "over capacity", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	locs := []config.Location{
		{Name: "Nowhere", Lat: 0, Lon: 0},
	}
	entries, err := testFetcher(srv).Fetch(context.Background(), locs, "open-meteo")
	if err != nil {
		t.Fatalf("Fetch should not fail the topic for one bad location: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if !strings.HasPrefix(entries[0].Description, "Unable to fetch weather data:") {
		t.Errorf("failure entry body = %q", entries[0].Description)
	}
}
