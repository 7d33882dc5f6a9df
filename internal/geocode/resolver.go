package geocode

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"weather-lookup/internal/models"
	"weather-lookup/internal/upstream"
	"weather-lookup/pkg/logging"
	"weather-lookup/pkg/metrics"
)

var (
	coordPattern = regexp.MustCompile(`^\s*(-?\d+\.?\d*)\s*,\s*(-?\d+\.?\d*)\s*$`)
	zipPattern   = regexp.MustCompile(`^\s*\d{5}\s*$`)
)

// searchLimit caps the number of autocomplete suggestions.
const searchLimit = 8

// Strategy is a single geocoding backend. A nil error with zero candidates is
// a miss; the resolver falls through to the next strategy. Candidates are
// ordered best-first.
type Strategy interface {
	Name() string
	Lookup(ctx context.Context, query string) ([]models.ResolvedLocation, error)
}

// Resolver turns a freeform location string into coordinates plus a display
// name. Coordinate pairs parse locally; 5-digit ZIPs go to the ZIP strategy;
// everything else walks the freeform strategies in priority order.
type Resolver struct {
	zip      Strategy
	freeform []Strategy
	logger   *logging.StructuredLogger
	metrics  *metrics.Collector
}

// NewResolver builds the production resolver: Zippopotam for ZIPs, then
// Nominatim with the Open-Meteo geocoder as fallback for place names.
func NewResolver(client *upstream.Client, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *Resolver {
	return &Resolver{
		zip: &zippopotamStrategy{client: client},
		freeform: []Strategy{
			&nominatimStrategy{client: client},
			&openMeteoStrategy{client: client},
		},
		logger:  logger,
		metrics: metricsCollector,
	}
}

// NewResolverWithStrategies wires explicit strategies, used by tests and by
// callers that need a reduced strategy chain.
func NewResolverWithStrategies(zip Strategy, freeform []Strategy, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *Resolver {
	return &Resolver{
		zip:      zip,
		freeform: freeform,
		logger:   logger,
		metrics:  metricsCollector,
	}
}

// Resolve maps a query to a single location. A strategy error surfaces
// immediately as an UpstreamError without trying the remaining strategies; a
// miss falls through. NotFoundError means every applicable strategy missed.
func (r *Resolver) Resolve(ctx context.Context, query string) (*models.ResolvedLocation, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, &models.ValidationError{
			Field:   "location",
			Value:   query,
			Message: "location must not be empty",
		}
	}

	if loc := parseCoordinatePair(trimmed); loc != nil {
		r.metrics.RecordGeocodeLookup("coordinate", "hit")
		return loc, nil
	}

	var strategies []Strategy
	if zipPattern.MatchString(trimmed) {
		strategies = []Strategy{r.zip}
	} else {
		strategies = r.freeform
	}

	for _, strategy := range strategies {
		candidates, err := strategy.Lookup(ctx, trimmed)
		if err != nil {
			r.metrics.RecordGeocodeLookup(strategy.Name(), "error")
			r.logger.Error(ctx, "[GEOCODE_ERROR] Strategy lookup failed", logging.Fields{
				"strategy": strategy.Name(),
				"query":    trimmed,
			}, err)
			return nil, err
		}
		if len(candidates) > 0 {
			r.metrics.RecordGeocodeLookup(strategy.Name(), "hit")
			return &candidates[0], nil
		}
		r.metrics.RecordGeocodeLookup(strategy.Name(), "miss")
	}

	return nil, &models.NotFoundError{Resource: "location", ID: trimmed}
}

// Search returns up to 8 candidate locations for autocomplete. Strategy
// failures degrade to fewer (possibly zero) suggestions rather than an error.
func (r *Resolver) Search(ctx context.Context, query string) ([]models.ResolvedLocation, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return []models.ResolvedLocation{}, nil
	}

	if loc := parseCoordinatePair(trimmed); loc != nil {
		return []models.ResolvedLocation{*loc}, nil
	}

	var strategies []Strategy
	if zipPattern.MatchString(trimmed) {
		strategies = []Strategy{r.zip}
	} else {
		strategies = r.freeform
	}

	candidates := make([]models.ResolvedLocation, 0, searchLimit)
	for _, strategy := range strategies {
		found, err := strategy.Lookup(ctx, trimmed)
		if err != nil {
			// Suggestions are best-effort; a failing provider contributes nothing.
			var upstreamErr *upstream.UpstreamError
			if errors.As(err, &upstreamErr) {
				r.metrics.RecordGeocodeLookup(strategy.Name(), "error")
				continue
			}
			return nil, err
		}
		candidates = append(candidates, found...)
	}

	return dedupeByCoordinate(candidates, searchLimit), nil
}

// parseCoordinatePair returns a resolved location for "lat,lon" input, or nil
// when the input is not a coordinate pair. Performs no network calls.
func parseCoordinatePair(query string) *models.ResolvedLocation {
	m := coordPattern.FindStringSubmatch(query)
	if m == nil {
		return nil
	}

	lat, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	lon, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return nil
	}

	return &models.ResolvedLocation{
		Name:      fmt.Sprintf("%.4f, %.4f", lat, lon),
		Latitude:  lat,
		Longitude: lon,
	}
}

// dedupeByCoordinate drops candidates whose position rounds to one already
// seen, preserving order, and caps the result at limit.
func dedupeByCoordinate(candidates []models.ResolvedLocation, limit int) []models.ResolvedLocation {
	type key struct {
		lat, lon float64
	}

	seen := make(map[key]bool, len(candidates))
	unique := make([]models.ResolvedLocation, 0, limit)
	for _, c := range candidates {
		k := key{roundTo4(c.Latitude), roundTo4(c.Longitude)}
		if seen[k] {
			continue
		}
		seen[k] = true
		unique = append(unique, c)
		if len(unique) >= limit {
			break
		}
	}

	return unique
}

func roundTo4(v float64) float64 {
	scaled, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 4, 64), 64)
	return scaled
}
