package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar date (no time-of-day component). It marshals to and from
// YYYY-MM-DD in JSON and maps to a DATE column in Postgres.
type Date struct {
	time.Time
}

// ParseDate parses a YYYY-MM-DD string into a Date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, &ValidationError{
			Field:   "date",
			Value:   s,
			Message: "invalid date format, expected YYYY-MM-DD",
		}
	}
	return Date{Time: t}, nil
}

// String returns the date formatted as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(dateLayout)
}

// After reports whether d is after other, comparing calendar days only.
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer for database writes.
func (d Date) Value() (driver.Value, error) {
	return d.Time, nil
}

// Scan implements sql.Scanner for database reads.
func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		d.Time = v.UTC().Truncate(24 * time.Hour)
		return nil
	case []byte:
		parsed, err := ParseDate(string(v))
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
}

// ValidateDateRange checks the start <= end invariant for a saved lookup.
func ValidateDateRange(start, end Date) error {
	if start.After(end) {
		return &ValidationError{
			Field:   "end_date",
			Value:   end.String(),
			Message: "end_date must be on or after start_date",
		}
	}
	return nil
}
