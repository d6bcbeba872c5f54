package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func testGeocodingClient(baseURL string) *GeocodingClient {
	return &GeocodingClient{
		BaseURL:   baseURL,
		UserAgent: "friend-map-system-test",
		Client:    &http.Client{Timeout: time.Second},
		limiter:   rate.NewLimiter(rate.Inf, 1),
	}
}

func TestGeocodingClientLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Milano", r.URL.Query().Get("q"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, "friend-map-system-test", r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat":"45.4642","lon":"9.1900","display_name":"Milan, Lombardy, Italy"}]`))
	}))
	defer srv.Close()

	client := testGeocodingClient(srv.URL)
	result, err := client.Lookup(context.Background(), "Milano")
	require.NoError(t, err)
	assert.InDelta(t, 45.4642, result.Lat, 1e-9)
	assert.InDelta(t, 9.19, result.Lng, 1e-9)
	assert.Equal(t, "Milan, Lombardy, Italy", result.DisplayName)
}

func TestGeocodingClientLookupNoResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := testGeocodingClient(srv.URL)
	_, err := client.Lookup(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, ErrNoGeocodeResult)
}

func TestGeocodingClientLookupServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := testGeocodingClient(srv.URL)
	_, err := client.Lookup(context.Background(), "Milano")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoGeocodeResult)
}

func TestGeocodingClientLookupCancelledContext(t *testing.T) {
	client := testGeocodingClient("http://127.0.0.1:0")
	// Exhaust the single token so Wait blocks, then cancel.
	client.limiter = rate.NewLimiter(rate.Every(time.Hour), 1)
	client.limiter.Allow()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Lookup(ctx, "Milano")
	require.Error(t, err)
}
