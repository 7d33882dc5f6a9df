package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"weather-lookup/internal/services"
	"weather-lookup/pkg/logging"
	"weather-lookup/pkg/metrics"
)

// POI query bounds, matching the provider's sensible limits.
const (
	defaultRadius = 1000
	minRadius     = 100
	maxRadius     = 5000
	defaultLimit  = 20
	minLimit      = 1
	maxLimit      = 50
)

// ExtrasHandler handles the enrichment endpoints. Each endpoint is
// independent; the client issues them concurrently and tolerates individual
// failures.
type ExtrasHandler struct {
	extrasService *services.ExtrasService
	logger        *logging.StructuredLogger
	metrics       *metrics.Collector
}

// NewExtrasHandler creates a new extras handler
func NewExtrasHandler(extrasService *services.ExtrasService, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *ExtrasHandler {
	return &ExtrasHandler{
		extrasService: extrasService,
		logger:        logger,
		metrics:       metricsCollector,
	}
}

// NearbyPlaces handles GET /places/nearby
func (h *ExtrasHandler) NearbyPlaces(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	defer func() {
		duration := time.Since(startTime)
		h.metrics.APIRequestDuration.WithLabelValues("/places/nearby").Observe(duration.Seconds())
	}()

	lat, err := parseFloatParam(r, "lat")
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	lon, err := parseFloatParam(r, "lon")
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	radius, err := parseIntParam(r, "radius", defaultRadius, minRadius, maxRadius)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	limit, err := parseIntParam(r, "limit", defaultLimit, minLimit, maxLimit)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	pois, err := h.extrasService.NearbyPlaces(ctx, lat, lon, radius, limit)
	if err != nil {
		h.respondError(w, r, "/places/nearby", err)
		return
	}

	h.metrics.RecordAPIRequest("/places/nearby", r.Method, "200")
	sendJSON(w, map[string]interface{}{
		"lat":    lat,
		"lon":    lon,
		"radius": radius,
		"items":  pois,
	}, http.StatusOK)
}

// Astronomy handles GET /extras/astronomy
func (h *ExtrasHandler) Astronomy(w http.ResponseWriter, r *http.Request) {
	h.coordinateEndpoint(w, r, "/extras/astronomy", func(lat, lon float64) (interface{}, error) {
		return h.extrasService.Astronomy(r.Context(), lat, lon)
	})
}

// AirQuality handles GET /extras/air
func (h *ExtrasHandler) AirQuality(w http.ResponseWriter, r *http.Request) {
	h.coordinateEndpoint(w, r, "/extras/air", func(lat, lon float64) (interface{}, error) {
		sample, err := h.extrasService.AirQuality(r.Context(), lat, lon)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"now": sample}, nil
	})
}

// Pollen handles GET /extras/pollen
func (h *ExtrasHandler) Pollen(w http.ResponseWriter, r *http.Request) {
	h.coordinateEndpoint(w, r, "/extras/pollen", func(lat, lon float64) (interface{}, error) {
		days, err := h.extrasService.Pollen(r.Context(), lat, lon)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"daily": days}, nil
	})
}

// NearbyWiki handles GET /extras/wiki
func (h *ExtrasHandler) NearbyWiki(w http.ResponseWriter, r *http.Request) {
	h.coordinateEndpoint(w, r, "/extras/wiki", func(lat, lon float64) (interface{}, error) {
		return h.extrasService.NearbyWiki(r.Context(), lat, lon)
	})
}

// DateFact handles GET /extras/datefact
func (h *ExtrasHandler) DateFact(w http.ResponseWriter, r *http.Request) {
	fact, err := h.extrasService.DateFact(r.Context())
	if err != nil {
		h.respondError(w, r, "/extras/datefact", err)
		return
	}

	h.metrics.RecordAPIRequest("/extras/datefact", r.Method, "200")
	sendJSON(w, fact, http.StatusOK)
}

// coordinateEndpoint factors the shared lat/lon parsing and error mapping of
// the coordinate-keyed enrichment endpoints.
func (h *ExtrasHandler) coordinateEndpoint(w http.ResponseWriter, r *http.Request, endpoint string, fetch func(lat, lon float64) (interface{}, error)) {
	startTime := time.Now()

	defer func() {
		duration := time.Since(startTime)
		h.metrics.APIRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
	}()

	lat, err := parseFloatParam(r, "lat")
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	lon, err := parseFloatParam(r, "lon")
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	payload, err := fetch(lat, lon)
	if err != nil {
		h.respondError(w, r, endpoint, err)
		return
	}

	h.metrics.RecordAPIRequest(endpoint, r.Method, "200")
	sendJSON(w, payload, http.StatusOK)
}

// respondError maps a service error to an HTTP response and records metrics.
func (h *ExtrasHandler) respondError(w http.ResponseWriter, r *http.Request, endpoint string, err error) {
	status, errType := classifyError(err)
	h.metrics.RecordAPIError(errType, endpoint)
	h.metrics.RecordAPIRequest(endpoint, r.Method, strconv.Itoa(status))
	sendError(w, err.Error(), status)
}

// RegisterRoutes registers enrichment routes
func (h *ExtrasHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/places/nearby", h.NearbyPlaces).Methods("GET")
	router.HandleFunc("/extras/astronomy", h.Astronomy).Methods("GET")
	router.HandleFunc("/extras/air", h.AirQuality).Methods("GET")
	router.HandleFunc("/extras/pollen", h.Pollen).Methods("GET")
	router.HandleFunc("/extras/wiki", h.NearbyWiki).Methods("GET")
	router.HandleFunc("/extras/datefact", h.DateFact).Methods("GET")
}
