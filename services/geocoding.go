// friend-map-system/services/geocoding.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// ErrNoGeocodeResult means the provider returned no match for the query.
var ErrNoGeocodeResult = errors.New("geocoder: no result")

// GeocodingClient looks up place names against a Nominatim-style HTTP API.
// Requests are rate limited client-side (the public Nominatim instance allows
// one request per second).
type GeocodingClient struct {
	BaseURL   string
	UserAgent string
	Client    *http.Client
	limiter   *rate.Limiter
}

type GeocodeResult struct {
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	DisplayName string  `json:"display_name"`
}

func NewGeocodingClient() *GeocodingClient {
	baseURL := os.Getenv("GEOCODER_BASE_URL")
	if baseURL == "" {
		baseURL = "https://nominatim.openstreetmap.org"
	}

	return &GeocodingClient{
		BaseURL:   baseURL,
		UserAgent: "friend-map-system/1.0 (contact: support@mapyourfriends.com)",
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// Lookup geocodes a free-text place name. Blocks on the rate limiter, so the
// caller's context bounds the total wait.
func (g *GeocodingClient) Lookup(ctx context.Context, city string) (*GeocodeResult, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("geocoder rate limit wait: %w", err)
	}

	base, err := url.Parse(g.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid geocoder base URL %q: %w", g.BaseURL, err)
	}
	endpoint := base.JoinPath("/search")
	q := endpoint.Query()
	q.Set("q", city)
	q.Set("format", "json")
	q.Set("limit", "1")
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create geocode request: %w", err)
	}
	req.Header.Set("User-Agent", g.UserAgent)

	resp, err := g.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Printf("[GEOCODE] ❌ Provider returned %d for %q: %s", resp.StatusCode, city, string(body))
		return nil, fmt.Errorf("geocoder non-200 response: %d", resp.StatusCode)
	}

	// Nominatim returns lat/lon as strings.
	var results []struct {
		Lat         string `json:"lat"`
		Lon         string `json:"lon"`
		DisplayName string `json:"display_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode geocoder response: %w", err)
	}
	if len(results) == 0 {
		return nil, ErrNoGeocodeResult
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("geocoder returned bad latitude %q: %w", results[0].Lat, err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("geocoder returned bad longitude %q: %w", results[0].Lon, err)
	}

	return &GeocodeResult{Lat: lat, Lng: lng, DisplayName: results[0].DisplayName}, nil
}
