package services

import (
	"context"
	"time"

	"weather-lookup/internal/models"
	"weather-lookup/internal/upstream"
	"weather-lookup/pkg/logging"
	"weather-lookup/pkg/metrics"
)

// ExtrasService fronts the independent enrichment fetchers. Each lookup is
// stateless and keyed only by coordinates; a failure in one never affects
// the others.
type ExtrasService struct {
	client  *upstream.Client
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewExtrasService creates a new extras service
func NewExtrasService(client *upstream.Client, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *ExtrasService {
	return &ExtrasService{
		client:  client,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// NearbyPlaces returns up to limit named POIs within radius meters.
func (s *ExtrasService) NearbyPlaces(ctx context.Context, lat, lon float64, radius, limit int) ([]models.POI, error) {
	return s.client.FetchNearbyPlaces(ctx, lat, lon, radius, limit)
}

// Astronomy returns sunrise/sunset timings for a coordinate.
func (s *ExtrasService) Astronomy(ctx context.Context, lat, lon float64) (*models.AstronomyInfo, error) {
	return s.client.FetchAstronomy(ctx, lat, lon)
}

// AirQuality returns the latest hourly air-quality sample, or nil when the
// provider has no data for the coordinate.
func (s *ExtrasService) AirQuality(ctx context.Context, lat, lon float64) (*models.AirQualitySample, error) {
	return s.client.FetchAirQuality(ctx, lat, lon)
}

// Pollen returns up to five days of pollen concentrations.
func (s *ExtrasService) Pollen(ctx context.Context, lat, lon float64) ([]models.PollenDay, error) {
	return s.client.FetchPollen(ctx, lat, lon)
}

// NearbyWiki returns the nearest Wikipedia article summary.
func (s *ExtrasService) NearbyWiki(ctx context.Context, lat, lon float64) (*models.WikiSummary, error) {
	return s.client.FetchNearbyWiki(ctx, lat, lon)
}

// DateFact returns a "today in history" blurb for the current date.
func (s *ExtrasService) DateFact(ctx context.Context) (*models.DateFact, error) {
	return s.client.FetchDateFact(ctx, time.Now().UTC())
}
