package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"weather-lookup/internal/models"
	"weather-lookup/internal/upstream"
)

// ErrorResponse represents an API error response. Clients surface detail
// verbatim.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
	Code   int    `json:"code"`
}

// sendJSON sends a JSON response
func sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// sendError sends an error response with the given detail message
func sendError(w http.ResponseWriter, detail string, statusCode int) {
	sendJSON(w, ErrorResponse{
		Error:  http.StatusText(statusCode),
		Detail: detail,
		Code:   statusCode,
	}, statusCode)
}

// classifyError maps a service error onto an HTTP status and a metric label.
func classifyError(err error) (int, string) {
	var validationErr *models.ValidationError
	var notFoundErr *models.NotFoundError
	var upstreamErr *upstream.UpstreamError

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, "validation_error"
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound, "not_found"
	case errors.As(err, &upstreamErr):
		return http.StatusBadGateway, "upstream_error"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// parseFloatParam parses a required float query parameter.
func parseFloatParam(r *http.Request, name string) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, &models.ValidationError{
			Field:   name,
			Value:   raw,
			Message: name + " query parameter is required",
		}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &models.ValidationError{
			Field:   name,
			Value:   raw,
			Message: name + " must be a number",
		}
	}
	return v, nil
}

// parseIntParam parses an optional integer query parameter, clamped to
// [min, max]. Absent values fall back to def; non-integer values are an
// error.
func parseIntParam(r *http.Request, name string, def, min, max int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &models.ValidationError{
			Field:   name,
			Value:   raw,
			Message: name + " must be an integer",
		}
	}
	if v < min {
		return min, nil
	}
	if v > max {
		return max, nil
	}
	return v, nil
}
