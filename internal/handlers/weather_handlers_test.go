package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"weather-lookup/internal/geocode"
	"weather-lookup/internal/models"
	"weather-lookup/internal/services"
	"weather-lookup/internal/upstream"
)

// staticForecastFetcher returns a canned snapshot.
type staticForecastFetcher struct {
	snapshot *models.WeatherSnapshot
	err      error
}

func (s *staticForecastFetcher) FetchForecast(ctx context.Context, lat, lon float64) (*models.WeatherSnapshot, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.snapshot, nil
}

func newWeatherRouter(resolver services.LocationResolver, fetcher services.ForecastFetcher) *mux.Router {
	logger := newTestLogger()
	service := services.NewWeatherService(resolver, fetcher, logger, testMetrics)
	handler := NewWeatherHandler(service, logger, testMetrics)

	router := mux.NewRouter()
	handler.RegisterRoutes(router)
	return router
}

func TestGetCurrentWeatherByCoordinate(t *testing.T) {
	// A coordinate query resolves locally; no geocoding strategy is needed.
	resolver := geocode.NewResolverWithStrategies(nil, nil, newTestLogger(), testMetrics)
	fetcher := &staticForecastFetcher{
		snapshot: &models.WeatherSnapshot{
			Latitude:  42.36,
			Longitude: -71.06,
			Current:   &models.CurrentConditions{Temperature2m: 18.4, WeatherCode: 3},
			Daily:     &models.DailySeries{Time: []string{"2025-10-01"}, WeatherCode: []int{3}, Temperature2mMax: []float64{19.1}, Temperature2mMin: []float64{11.0}, PrecipitationSum: []float64{0}, WindSpeed10mMax: []float64{14.0}},
		},
	}
	router := newWeatherRouter(resolver, fetcher)

	rec := doJSON(t, router, "GET", "/weather/current?location=42.36,-71.06", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body)
	}

	var resp struct {
		Resolved models.ResolvedLocation `json:"resolved"`
		Data     models.WeatherSnapshot  `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response does not parse: %v", err)
	}
	if resp.Resolved.Name != "42.3600, -71.0600" {
		t.Errorf("resolved name = %q", resp.Resolved.Name)
	}
	if resp.Data.Current.Temperature2m != 18.4 {
		t.Errorf("temperature = %v", resp.Data.Current.Temperature2m)
	}
}

func TestGetCurrentWeatherEmptyLocation(t *testing.T) {
	resolver := geocode.NewResolverWithStrategies(nil, nil, newTestLogger(), testMetrics)
	router := newWeatherRouter(resolver, &staticForecastFetcher{})

	rec := doJSON(t, router, "GET", "/weather/current", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGetCurrentWeatherResolverMiss(t *testing.T) {
	resolver := &missResolver{}
	router := newWeatherRouter(resolver, &staticForecastFetcher{})

	rec := doJSON(t, router, "GET", "/weather/current?location=nowhere", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestGetCurrentWeatherUpstreamFailure(t *testing.T) {
	resolver := &staticResolver{resolved: models.ResolvedLocation{Name: "Boston", Latitude: 42.36, Longitude: -71.06}}
	fetcher := &staticForecastFetcher{err: &upstream.UpstreamError{Provider: "open-meteo", StatusCode: 503}}
	router := newWeatherRouter(resolver, fetcher)

	rec := doJSON(t, router, "GET", "/weather/current?location=Boston", "")
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}

func TestSearchLocations(t *testing.T) {
	resolver := &staticResolver{resolved: models.ResolvedLocation{Name: "Boston, Massachusetts, United States", Latitude: 42.3601, Longitude: -71.0589}}
	router := newWeatherRouter(resolver, &staticForecastFetcher{})

	rec := doJSON(t, router, "GET", "/locations/search?q=Bost", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var candidates []models.ResolvedLocation
	if err := json.Unmarshal(rec.Body.Bytes(), &candidates); err != nil {
		t.Fatalf("response does not parse: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("got %d candidates, want 1", len(candidates))
	}
}

func TestSearchLocationsEmptyQuery(t *testing.T) {
	resolver := geocode.NewResolverWithStrategies(nil, nil, newTestLogger(), testMetrics)
	router := newWeatherRouter(resolver, &staticForecastFetcher{})

	rec := doJSON(t, router, "GET", "/locations/search", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 with an empty list", rec.Code)
	}

	var candidates []models.ResolvedLocation
	if err := json.Unmarshal(rec.Body.Bytes(), &candidates); err != nil {
		t.Fatalf("response does not parse: %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("got %d candidates, want 0", len(candidates))
	}
}

func TestSearchLocationsErrorCountsRequest(t *testing.T) {
	router := newWeatherRouter(&failingSearchResolver{}, &staticForecastFetcher{})

	counter := testMetrics.APIRequestsTotal.WithLabelValues("/locations/search", "GET", "502")
	before := testutil.ToFloat64(counter)

	rec := doJSON(t, router, "GET", "/locations/search?q=x", "")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}

	if after := testutil.ToFloat64(counter); after != before+1 {
		t.Errorf("failed request not counted: before=%v after=%v", before, after)
	}
}

// failingSearchResolver fails every suggestion lookup.
type failingSearchResolver struct{}

func (f *failingSearchResolver) Resolve(ctx context.Context, query string) (*models.ResolvedLocation, error) {
	return nil, &upstream.UpstreamError{Provider: "nominatim", StatusCode: 503}
}

func (f *failingSearchResolver) Search(ctx context.Context, query string) ([]models.ResolvedLocation, error) {
	return nil, &upstream.UpstreamError{Provider: "nominatim", StatusCode: 503}
}

// missResolver fails every lookup with a not-found error.
type missResolver struct{}

func (m *missResolver) Resolve(ctx context.Context, query string) (*models.ResolvedLocation, error) {
	return nil, &models.NotFoundError{Resource: "location", ID: query}
}

func (m *missResolver) Search(ctx context.Context, query string) ([]models.ResolvedLocation, error) {
	return []models.ResolvedLocation{}, nil
}
