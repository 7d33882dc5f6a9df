package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"weather-lookup/internal/models"
	"weather-lookup/pkg/database"
	"weather-lookup/pkg/logging"
	"weather-lookup/pkg/metrics"
)

// RecordRepository provides data access for saved weather lookups
type RecordRepository interface {
	Create(ctx context.Context, record *models.Record) error
	List(ctx context.Context) ([]*models.Record, error)
	Get(ctx context.Context, id int64) (*models.Record, error)
	Update(ctx context.Context, record *models.Record) error
	Delete(ctx context.Context, id int64) error

	HealthCheck(ctx context.Context) error
}

// recordRepository implements RecordRepository
type recordRepository struct {
	db      *database.PostgresDB
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewRecordRepository creates a new record repository
func NewRecordRepository(db *database.PostgresDB, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) RecordRepository {
	return &recordRepository{
		db:      db,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// Create inserts a new record and assigns its id and timestamps.
func (r *recordRepository) Create(ctx context.Context, record *models.Record) error {
	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now

	query := `
		INSERT INTO weather_records (
			location_query, resolved_name, latitude, longitude,
			start_date, end_date, data, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, "insert_record", query,
		record.LocationQuery,
		record.ResolvedName,
		record.Latitude,
		record.Longitude,
		record.StartDate,
		record.EndDate,
		record.Data,
		record.CreatedAt,
		record.UpdatedAt,
	).Scan(&record.ID)

	if err != nil {
		r.metrics.RecordDBError("insert_error")
		return fmt.Errorf("failed to create record: %w", err)
	}

	r.logger.Debug(ctx, "[REPO_CREATE_RECORD] Record created", logging.Fields{
		"record_id":      record.ID,
		"location_query": record.LocationQuery,
	})

	return nil
}

// List returns all records ordered by id ascending (insertion order).
func (r *recordRepository) List(ctx context.Context) ([]*models.Record, error) {
	query := `
		SELECT id, location_query, resolved_name, latitude, longitude,
		       start_date, end_date, data, created_at, updated_at
		FROM weather_records
		ORDER BY id ASC
	`

	records := []*models.Record{}
	err := r.db.SelectContext(ctx, "list_records", &records, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	return records, nil
}

// Get retrieves a record by id.
func (r *recordRepository) Get(ctx context.Context, id int64) (*models.Record, error) {
	query := `
		SELECT id, location_query, resolved_name, latitude, longitude,
		       start_date, end_date, data, created_at, updated_at
		FROM weather_records
		WHERE id = $1
	`

	var record models.Record
	err := r.db.GetContext(ctx, "get_record", &record, query, id)

	if err == sql.ErrNoRows {
		return nil, &models.NotFoundError{
			Resource: "record",
			ID:       strconv.FormatInt(id, 10),
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}

	return &record, nil
}

// Update overwrites a record's mutable columns and refreshes updated_at.
func (r *recordRepository) Update(ctx context.Context, record *models.Record) error {
	record.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE weather_records
		SET location_query = $1, resolved_name = $2, latitude = $3, longitude = $4,
		    start_date = $5, end_date = $6, data = $7, updated_at = $8
		WHERE id = $9
	`

	result, err := r.db.ExecContext(ctx, "update_record", query,
		record.LocationQuery,
		record.ResolvedName,
		record.Latitude,
		record.Longitude,
		record.StartDate,
		record.EndDate,
		record.Data,
		record.UpdatedAt,
		record.ID,
	)

	if err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return &models.NotFoundError{
			Resource: "record",
			ID:       strconv.FormatInt(record.ID, 10),
		}
	}

	r.logger.Debug(ctx, "[REPO_UPDATE_RECORD] Record updated", logging.Fields{
		"record_id": record.ID,
	})

	return nil
}

// Delete permanently removes a record.
func (r *recordRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM weather_records WHERE id = $1`

	result, err := r.db.ExecContext(ctx, "delete_record", query, id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return &models.NotFoundError{
			Resource: "record",
			ID:       strconv.FormatInt(id, 10),
		}
	}

	r.logger.Debug(ctx, "[REPO_DELETE_RECORD] Record deleted", logging.Fields{
		"record_id": id,
	})

	return nil
}

// HealthCheck performs a repository health check
func (r *recordRepository) HealthCheck(ctx context.Context) error {
	return r.db.HealthCheck(ctx)
}
