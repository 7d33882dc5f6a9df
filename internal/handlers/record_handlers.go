package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"weather-lookup/internal/export"
	"weather-lookup/internal/models"
	"weather-lookup/internal/services"
	"weather-lookup/pkg/logging"
	"weather-lookup/pkg/metrics"
)

var validate = validator.New()

// CreateRecordRequest is the POST /records body
type CreateRecordRequest struct {
	Location  string `json:"location" validate:"required"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

// UpdateRecordRequest is the PUT /records/{id} body; absent fields keep the
// stored values.
type UpdateRecordRequest struct {
	Location  *string `json:"location" validate:"omitempty,min=1"`
	StartDate *string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   *string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

// RecordHandler handles saved-lookup CRUD and export endpoints
type RecordHandler struct {
	recordService *services.RecordService
	logger        *logging.StructuredLogger
	metrics       *metrics.Collector
}

// NewRecordHandler creates a new record handler
func NewRecordHandler(recordService *services.RecordService, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *RecordHandler {
	return &RecordHandler{
		recordService: recordService,
		logger:        logger,
		metrics:       metricsCollector,
	}
}

// CreateRecord handles POST /records
func (h *RecordHandler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	defer func() {
		duration := time.Since(startTime)
		h.metrics.APIRequestDuration.WithLabelValues("/records").Observe(duration.Seconds())
	}()

	var req CreateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	record, err := h.recordService.Create(ctx, req.Location, req.StartDate, req.EndDate)
	if err != nil {
		h.respondError(w, r, "/records", err)
		return
	}

	h.metrics.RecordAPIRequest("/records", r.Method, "201")
	sendJSON(w, record, http.StatusCreated)
}

// ListRecords handles GET /records
func (h *RecordHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	records, err := h.recordService.List(ctx)
	if err != nil {
		h.respondError(w, r, "/records", err)
		return
	}

	h.metrics.RecordAPIRequest("/records", r.Method, "200")
	sendJSON(w, records, http.StatusOK)
}

// GetRecord handles GET /records/{id}
func (h *RecordHandler) GetRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.recordID(w, r)
	if !ok {
		return
	}

	record, err := h.recordService.Get(ctx, id)
	if err != nil {
		h.respondError(w, r, "/records/{id}", err)
		return
	}

	h.metrics.RecordAPIRequest("/records/{id}", r.Method, "200")
	sendJSON(w, record, http.StatusOK)
}

// UpdateRecord handles PUT /records/{id}
func (h *RecordHandler) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	defer func() {
		duration := time.Since(startTime)
		h.metrics.APIRequestDuration.WithLabelValues("/records/{id}").Observe(duration.Seconds())
	}()

	id, ok := h.recordID(w, r)
	if !ok {
		return
	}

	var req UpdateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	record, err := h.recordService.Update(ctx, id, models.RecordPatch{
		Location:  req.Location,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		h.respondError(w, r, "/records/{id}", err)
		return
	}

	h.metrics.RecordAPIRequest("/records/{id}", r.Method, "200")
	sendJSON(w, record, http.StatusOK)
}

// DeleteRecord handles DELETE /records/{id}
func (h *RecordHandler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.recordID(w, r)
	if !ok {
		return
	}

	if err := h.recordService.Delete(ctx, id); err != nil {
		h.respondError(w, r, "/records/{id}", err)
		return
	}

	h.metrics.RecordAPIRequest("/records/{id}", r.Method, "200")
	sendJSON(w, map[string]interface{}{"id": id, "message": "deleted"}, http.StatusOK)
}

// ExportRecords handles GET /export
func (h *RecordHandler) ExportRecords(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	format := r.URL.Query().Get("fmt")
	if format == "" {
		format = export.FormatJSON
	}

	records, err := h.recordService.List(ctx)
	if err != nil {
		h.respondError(w, r, "/export", err)
		return
	}

	body, contentType, err := export.Export(records, format)
	if err != nil {
		h.respondError(w, r, "/export", err)
		return
	}

	h.metrics.RecordExportRequest(format)
	h.metrics.RecordAPIRequest("/export", r.Method, "200")

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// HealthCheck handles GET /health
func (h *RecordHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	sendJSON(w, status, http.StatusOK)
}

// recordID extracts and validates the {id} path variable.
func (h *RecordHandler) recordID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		sendError(w, "record id must be an integer", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// respondError maps a service error to an HTTP response and records metrics.
func (h *RecordHandler) respondError(w http.ResponseWriter, r *http.Request, endpoint string, err error) {
	status, errType := classifyError(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(r.Context(), "[API_RECORD_ERROR] Record operation failed", logging.Fields{
			"endpoint": endpoint,
			"method":   r.Method,
		}, err)
	}
	h.metrics.RecordAPIError(errType, endpoint)
	h.metrics.RecordAPIRequest(endpoint, r.Method, strconv.Itoa(status))
	sendError(w, err.Error(), status)
}

// RegisterRoutes registers record CRUD and export routes
func (h *RecordHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/records", h.CreateRecord).Methods("POST")
	router.HandleFunc("/records", h.ListRecords).Methods("GET")
	router.HandleFunc("/records/{id}", h.GetRecord).Methods("GET")
	router.HandleFunc("/records/{id}", h.UpdateRecord).Methods("PUT")
	router.HandleFunc("/records/{id}", h.DeleteRecord).Methods("DELETE")
	router.HandleFunc("/export", h.ExportRecords).Methods("GET")
	router.HandleFunc("/health", h.HealthCheck).Methods("GET")
}
