package services

import (
	"context"
	"encoding/json"

	"weather-lookup/internal/models"
	"weather-lookup/internal/repository"
	"weather-lookup/pkg/logging"
	"weather-lookup/pkg/metrics"
)

// RangeFetcher retrieves the raw daily weather payload for a date range.
type RangeFetcher interface {
	FetchDailyRange(ctx context.Context, lat, lon float64, start, end models.Date) (json.RawMessage, error)
}

// RecordService owns the saved-lookup lifecycle: create resolves the location
// and snapshots the result, update optionally re-resolves, delete is a hard
// delete. The repository is the sole owner of persisted state.
type RecordService struct {
	repo     repository.RecordRepository
	resolver LocationResolver
	fetcher  RangeFetcher
	logger   *logging.StructuredLogger
	metrics  *metrics.Collector
}

// NewRecordService creates a new record service
func NewRecordService(repo repository.RecordRepository, resolver LocationResolver, fetcher RangeFetcher, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *RecordService {
	return &RecordService{
		repo:     repo,
		resolver: resolver,
		fetcher:  fetcher,
		logger:   logger,
		metrics:  metricsCollector,
	}
}

// Create validates the date range, resolves the location, fetches the daily
// payload for the range, and persists the full record.
func (s *RecordService) Create(ctx context.Context, location, startDate, endDate string) (*models.Record, error) {
	start, err := models.ParseDate(startDate)
	if err != nil {
		return nil, err
	}
	end, err := models.ParseDate(endDate)
	if err != nil {
		return nil, err
	}
	if err := models.ValidateDateRange(start, end); err != nil {
		return nil, err
	}

	resolved, err := s.resolver.Resolve(ctx, location)
	if err != nil {
		return nil, err
	}

	data, err := s.fetcher.FetchDailyRange(ctx, resolved.Latitude, resolved.Longitude, start, end)
	if err != nil {
		return nil, err
	}

	record := &models.Record{
		LocationQuery: location,
		ResolvedName:  resolved.Name,
		Latitude:      resolved.Latitude,
		Longitude:     resolved.Longitude,
		StartDate:     start,
		EndDate:       end,
		Data:          data,
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "[RECORD_CREATED] Saved lookup created", logging.Fields{
		"record_id":     record.ID,
		"resolved_name": record.ResolvedName,
	})

	return record, nil
}

// List returns all saved records in insertion order.
func (s *RecordService) List(ctx context.Context) ([]*models.Record, error) {
	return s.repo.List(ctx)
}

// Get returns a single record by id.
func (s *RecordService) Get(ctx context.Context, id int64) (*models.Record, error) {
	return s.repo.Get(ctx, id)
}

// Update applies a partial update. The location is re-resolved only when the
// supplied value differs from the stored one; the date range is re-validated
// against the merged (existing plus supplied) values, so an update can never
// leave an invalid range behind. The stored row is untouched on any
// validation failure.
func (s *RecordService) Update(ctx context.Context, id int64, patch models.RecordPatch) (*models.Record, error) {
	record, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.StartDate != nil {
		start, err := models.ParseDate(*patch.StartDate)
		if err != nil {
			return nil, err
		}
		record.StartDate = start
	}
	if patch.EndDate != nil {
		end, err := models.ParseDate(*patch.EndDate)
		if err != nil {
			return nil, err
		}
		record.EndDate = end
	}
	if err := models.ValidateDateRange(record.StartDate, record.EndDate); err != nil {
		return nil, err
	}

	if patch.Location != nil && *patch.Location != record.LocationQuery {
		resolved, err := s.resolver.Resolve(ctx, *patch.Location)
		if err != nil {
			return nil, err
		}
		record.LocationQuery = *patch.Location
		record.ResolvedName = resolved.Name
		record.Latitude = resolved.Latitude
		record.Longitude = resolved.Longitude
	}

	data, err := s.fetcher.FetchDailyRange(ctx, record.Latitude, record.Longitude, record.StartDate, record.EndDate)
	if err != nil {
		return nil, err
	}
	record.Data = data

	if err := s.repo.Update(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "[RECORD_UPDATED] Saved lookup updated", logging.Fields{
		"record_id": record.ID,
	})

	return record, nil
}

// Delete permanently removes a record.
func (s *RecordService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info(ctx, "[RECORD_DELETED] Saved lookup deleted", logging.Fields{
		"record_id": id,
	})

	return nil
}
