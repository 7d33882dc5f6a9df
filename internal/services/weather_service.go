package services

import (
	"context"

	"weather-lookup/internal/models"
	"weather-lookup/pkg/logging"
	"weather-lookup/pkg/metrics"
)

// LocationResolver maps a freeform location string to coordinates.
type LocationResolver interface {
	Resolve(ctx context.Context, query string) (*models.ResolvedLocation, error)
	Search(ctx context.Context, query string) ([]models.ResolvedLocation, error)
}

// ForecastFetcher retrieves current + 5-day forecast weather for a coordinate.
type ForecastFetcher interface {
	FetchForecast(ctx context.Context, lat, lon float64) (*models.WeatherSnapshot, error)
}

// CurrentWeather pairs the resolution snapshot with the fetched forecast.
type CurrentWeather struct {
	Resolved *models.ResolvedLocation `json:"resolved"`
	Data     *models.WeatherSnapshot  `json:"data"`
}

// WeatherService resolves locations and fetches their weather
type WeatherService struct {
	resolver LocationResolver
	fetcher  ForecastFetcher
	logger   *logging.StructuredLogger
	metrics  *metrics.Collector
}

// NewWeatherService creates a new weather service
func NewWeatherService(resolver LocationResolver, fetcher ForecastFetcher, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *WeatherService {
	return &WeatherService{
		resolver: resolver,
		fetcher:  fetcher,
		logger:   logger,
		metrics:  metricsCollector,
	}
}

// Current resolves the location string and fetches current conditions plus
// the 5-day forecast for the resulting coordinates.
func (s *WeatherService) Current(ctx context.Context, location string) (*CurrentWeather, error) {
	resolved, err := s.resolver.Resolve(ctx, location)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.fetcher.FetchForecast(ctx, resolved.Latitude, resolved.Longitude)
	if err != nil {
		return nil, err
	}

	s.logger.Debug(ctx, "[WEATHER_CURRENT] Forecast fetched", logging.Fields{
		"location":      location,
		"resolved_name": resolved.Name,
	})

	return &CurrentWeather{Resolved: resolved, Data: snapshot}, nil
}

// Suggest returns autocomplete candidates for a partial location query.
func (s *WeatherService) Suggest(ctx context.Context, query string) ([]models.ResolvedLocation, error) {
	return s.resolver.Search(ctx, query)
}
