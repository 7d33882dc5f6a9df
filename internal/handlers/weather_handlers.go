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

// WeatherHandler handles location resolution and weather endpoints
type WeatherHandler struct {
	weatherService *services.WeatherService
	logger         *logging.StructuredLogger
	metrics        *metrics.Collector
}

// NewWeatherHandler creates a new weather handler
func NewWeatherHandler(weatherService *services.WeatherService, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *WeatherHandler {
	return &WeatherHandler{
		weatherService: weatherService,
		logger:         logger,
		metrics:        metricsCollector,
	}
}

// GetCurrent handles GET /weather/current
func (h *WeatherHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	defer func() {
		duration := time.Since(startTime)
		h.metrics.APIRequestDuration.WithLabelValues("/weather/current").Observe(duration.Seconds())
	}()

	location := r.URL.Query().Get("location")

	result, err := h.weatherService.Current(ctx, location)
	if err != nil {
		status, errType := classifyError(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error(ctx, "[API_CURRENT_ERROR] Failed to fetch current weather", logging.Fields{
				"location": location,
			}, err)
		}
		h.metrics.RecordAPIError(errType, "/weather/current")
		h.metrics.RecordAPIRequest("/weather/current", r.Method, strconv.Itoa(status))
		sendError(w, err.Error(), status)
		return
	}

	h.metrics.RecordAPIRequest("/weather/current", r.Method, "200")
	sendJSON(w, result, http.StatusOK)
}

// SearchLocations handles GET /locations/search
func (h *WeatherHandler) SearchLocations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	defer func() {
		duration := time.Since(startTime)
		h.metrics.APIRequestDuration.WithLabelValues("/locations/search").Observe(duration.Seconds())
	}()

	query := r.URL.Query().Get("q")

	candidates, err := h.weatherService.Suggest(ctx, query)
	if err != nil {
		status, errType := classifyError(err)
		h.metrics.RecordAPIError(errType, "/locations/search")
		h.metrics.RecordAPIRequest("/locations/search", r.Method, strconv.Itoa(status))
		sendError(w, err.Error(), status)
		return
	}

	h.metrics.RecordAPIRequest("/locations/search", r.Method, "200")
	sendJSON(w, candidates, http.StatusOK)
}

// RegisterRoutes registers weather routes
func (h *WeatherHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/weather/current", h.GetCurrent).Methods("GET")
	router.HandleFunc("/locations/search", h.SearchLocations).Methods("GET")
}
