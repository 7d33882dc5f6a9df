package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Record is a persisted saved lookup: the user's original location string, the
// resolution snapshot taken at save time, an inclusive date range, and the raw
// daily weather payload fetched for that range.
type Record struct {
	ID            int64           `json:"id" db:"id"`
	LocationQuery string          `json:"location_query" db:"location_query"`
	ResolvedName  string          `json:"resolved_name" db:"resolved_name"`
	Latitude      float64         `json:"latitude" db:"latitude"`
	Longitude     float64         `json:"longitude" db:"longitude"`
	StartDate     Date            `json:"start_date" db:"start_date"`
	EndDate       Date            `json:"end_date" db:"end_date"`
	Data          json.RawMessage `json:"data,omitempty" db:"data"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

// RecordPatch carries the optional fields of a partial update. Nil means
// "leave the stored value unchanged".
type RecordPatch struct {
	Location  *string
	StartDate *string
	EndDate   *string
}

// ValidationError represents a bad-input error (malformed date, empty
// location, unknown export format). Maps to HTTP 400.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsTransient returns false as validation errors are permanent.
func (e *ValidationError) IsTransient() bool {
	return false
}

// NotFoundError represents a missing resource: an unknown record id or a
// location no geocoding strategy could match. Maps to HTTP 404.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func (e *NotFoundError) IsTransient() bool {
	return false
}
