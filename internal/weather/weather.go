// Package weather fetches current conditions and a short forecast from the
// Open-Meteo API and renders them as readable summary entries.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/abelbrown/newsreel/internal/config"
	"github.com/abelbrown/newsreel/internal/feeds"
	"github.com/abelbrown/newsreel/internal/logging"
)

const openMeteoEndpoint = "https://api.open-meteo.com/v1/forecast"

// Fetcher calls the weather provider per location.
type Fetcher struct {
	httpClient *http.Client
	endpoint   string
}

// NewFetcher creates a weather fetcher.
func NewFetcher() *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		endpoint:   openMeteoEndpoint,
	}
}

type forecast struct {
	Current struct {
		Temperature   *float64 `json:"temperature_2m"`
		FeelsLike     *float64 `json:"apparent_temperature"`
		Humidity      *float64 `json:"relative_humidity_2m"`
		Precipitation float64  `json:"precipitation"`
		WindSpeed     *float64 `json:"wind_speed_10m"`
	} `json:"current"`
	Daily struct {
		TempMax       []float64 `json:"temperature_2m_max"`
		TempMin       []float64 `json:"temperature_2m_min"`
		Precipitation []float64 `json:"precipitation_sum"`
	} `json:"daily"`
}

// Fetch returns one summary entry per location. A failed location produces
// an entry whose body states the failure; the topic never loses a location
// silently. An unsupported provider name is a configuration error and fails
// immediately.
func (f *Fetcher) Fetch(ctx context.Context, locations []config.Location, provider string) ([]feeds.Entry, error) {
	if provider != "open-meteo" {
		return nil, fmt.Errorf("unsupported weather provider: %s", provider)
	}

	now := time.Now().UTC().Format(time.RFC3339)

	entries := make([]feeds.Entry, 0, len(locations))
	for _, loc := range locations {
		fc, err := f.fetchOne(ctx, loc.Lat, loc.Lon)
		if err != nil {
			logging.Warn("weather fetch failed", "location", loc.Name, "error", err)
			entries = append(entries, feeds.Entry{
				Title:       "Weather for " + loc.Name,
				Published:   now,
				Description: fmt.Sprintf("Unable to fetch weather data: %v", err),
			})
			continue
		}

		entries = append(entries, feeds.Entry{
			Title:       "Weather for " + loc.Name,
			Link:        fmt.Sprintf("https://open-meteo.com/en/docs#latitude=%g&longitude=%g", loc.Lat, loc.Lon),
			Published:   now,
			Description: formatSummary(loc.Name, fc),
		})
	}

	return entries, nil
}

func (f *Fetcher) fetchOne(ctx context.Context, lat, lon float64) (*forecast, error) {
	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%g", lat))
	q.Set("longitude", fmt.Sprintf("%g", lon))
	q.Set("current", "temperature_2m,relative_humidity_2m,apparent_temperature,precipitation,weather_code,wind_speed_10m")
	q.Set("daily", "temperature_2m_max,temperature_2m_min,precipitation_sum,weather_code")
	q.Set("temperature_unit", "fahrenheit")
	q.Set("wind_speed_unit", "mph")
	q.Set("precipitation_unit", "inch")
	q.Set("timezone", "auto")
	q.Set("forecast_days", "3")

	req, err := http.NewRequestWithContext(ctx, "GET", f.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var fc forecast
	if err := json.Unmarshal(body, &fc); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	return &fc, nil
}

func formatSummary(name string, fc *forecast) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Current conditions in %s: ", name)
	fmt.Fprintf(&b, "Temperature %s°F (feels like %s°F), ", num(fc.Current.Temperature), num(fc.Current.FeelsLike))
	fmt.Fprintf(&b, "Humidity %s%%, Wind %s mph", num(fc.Current.Humidity), num(fc.Current.WindSpeed))

	if fc.Current.Precipitation > 0 {
		fmt.Fprintf(&b, ", Precipitation %g inches", fc.Current.Precipitation)
	}

	if len(fc.Daily.TempMax) > 0 && len(fc.Daily.TempMin) > 0 {
		fmt.Fprintf(&b, ". Today's forecast: High %g°F, Low %g°F", fc.Daily.TempMax[0], fc.Daily.TempMin[0])
		if len(fc.Daily.Precipitation) > 0 && fc.Daily.Precipitation[0] > 0 {
			fmt.Fprintf(&b, ", Expected precipitation %g inches", fc.Daily.Precipitation[0])
		}
	}

	return b.String()
}

func num(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%g", *v)
}
