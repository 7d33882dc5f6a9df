package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
	"time"

	"weather-lookup/internal/models"
)

// Supported export formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatXML  = "xml"
	FormatMD   = "md"
)

// row is the flat export view of a Record. Field order here defines the
// column order in every format.
type row struct {
	XMLName       xml.Name `json:"-" xml:"record"`
	ID            int64    `json:"id" xml:"id"`
	LocationQuery string   `json:"location_query" xml:"location_query"`
	ResolvedName  string   `json:"resolved_name" xml:"resolved_name"`
	Latitude      float64  `json:"latitude" xml:"latitude"`
	Longitude     float64  `json:"longitude" xml:"longitude"`
	StartDate     string   `json:"start_date" xml:"start_date"`
	EndDate       string   `json:"end_date" xml:"end_date"`
	CreatedAt     string   `json:"created_at" xml:"created_at"`
	UpdatedAt     string   `json:"updated_at" xml:"updated_at"`
}

var columns = []string{
	"id", "location_query", "resolved_name", "latitude", "longitude",
	"start_date", "end_date", "created_at", "updated_at",
}

type xmlDocument struct {
	XMLName xml.Name `xml:"records"`
	Records []row    `xml:"record"`
}

// Export serializes the record set into the requested format and returns the
// body plus its Content-Type. An empty record set yields a valid, header-only
// document in every format.
func Export(records []*models.Record, format string) ([]byte, string, error) {
	rows := make([]row, 0, len(records))
	for _, r := range records {
		rows = append(rows, toRow(r))
	}

	switch format {
	case FormatJSON:
		body, err := exportJSON(rows)
		return body, "application/json", err
	case FormatCSV:
		body, err := exportCSV(rows)
		return body, "text/csv", err
	case FormatXML:
		body, err := exportXML(rows)
		return body, "application/xml", err
	case FormatMD:
		return exportMarkdown(rows), "text/markdown", nil
	default:
		return nil, "", &models.ValidationError{
			Field:   "fmt",
			Value:   format,
			Message: fmt.Sprintf("unsupported export format %q, expected one of json, csv, xml, md", format),
		}
	}
}

func toRow(r *models.Record) row {
	return row{
		ID:            r.ID,
		LocationQuery: r.LocationQuery,
		ResolvedName:  r.ResolvedName,
		Latitude:      r.Latitude,
		Longitude:     r.Longitude,
		StartDate:     r.StartDate.String(),
		EndDate:       r.EndDate.String(),
		CreatedAt:     r.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     r.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func (r row) values() []string {
	return []string{
		strconv.FormatInt(r.ID, 10),
		r.LocationQuery,
		r.ResolvedName,
		strconv.FormatFloat(r.Latitude, 'f', -1, 64),
		strconv.FormatFloat(r.Longitude, 'f', -1, 64),
		r.StartDate,
		r.EndDate,
		r.CreatedAt,
		r.UpdatedAt,
	}
}

func exportJSON(rows []row) ([]byte, error) {
	body, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal records: %w", err)
	}
	return body, nil
}

func exportCSV(rows []row) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(columns); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range rows {
		if err := w.Write(r.values()); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}

func exportXML(rows []row) ([]byte, error) {
	body, err := xml.MarshalIndent(xmlDocument{Records: rows}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal records: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}

func exportMarkdown(rows []row) []byte {
	var b strings.Builder

	b.WriteString("| " + strings.Join(columns, " | ") + " |\n")

	separators := make([]string, len(columns))
	for i := range separators {
		separators[i] = "---"
	}
	b.WriteString("| " + strings.Join(separators, " | ") + " |\n")

	for _, r := range rows {
		cells := r.values()
		for i, cell := range cells {
			cells[i] = strings.ReplaceAll(cell, "|", `\|`)
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}

	return []byte(b.String())
}
