package upstream

import (
	"context"
	"fmt"
	"net/url"

	"weather-lookup/internal/models"
)

// Overpass node/way tag filters, one query line each.
var poiFilters = []string{
	`tourism~"attraction|museum|artwork|viewpoint"`,
	`amenity~"cafe|restaurant|fast_food|bar|pub"`,
	`leisure~"park|garden"`,
}

type overpassResponse struct {
	Elements []struct {
		Type   string            `json:"type"`
		ID     int64             `json:"id"`
		Lat    *float64          `json:"lat"`
		Lon    *float64          `json:"lon"`
		Center *struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"center"`
		Tags map[string]string `json:"tags"`
	} `json:"elements"`
}

// FetchNearbyPlaces queries Overpass for named points of interest around a
// coordinate. Results keep provider order and are capped at limit; unnamed
// elements and elements without a usable position are skipped.
func (c *Client) FetchNearbyPlaces(ctx context.Context, lat, lon float64, radius, limit int) ([]models.POI, error) {
	query := "[out:json][timeout:25];\n(\n"
	for _, filter := range poiFilters {
		query += fmt.Sprintf("  node[%s](around:%d,%f,%f);\n", filter, radius, lat, lon)
		query += fmt.Sprintf("  way[%s](around:%d,%f,%f);\n", filter, radius, lat, lon)
	}
	query += fmt.Sprintf(");\nout center %d;\n", limit)

	form := url.Values{}
	form.Set("data", query)

	var resp overpassResponse
	if err := c.PostFormJSON(ctx, "overpass", c.cfg.OverpassBaseURL, form, &resp); err != nil {
		return nil, err
	}

	pois := make([]models.POI, 0, limit)
	for _, el := range resp.Elements {
		name := el.Tags["name"]
		if name == "" {
			continue
		}

		var poiLat, poiLon float64
		switch {
		case el.Type == "node" && el.Lat != nil && el.Lon != nil:
			poiLat, poiLon = *el.Lat, *el.Lon
		case el.Center != nil:
			poiLat, poiLon = el.Center.Lat, el.Center.Lon
		default:
			continue
		}

		category := el.Tags["tourism"]
		if category == "" {
			category = el.Tags["amenity"]
		}
		if category == "" {
			category = el.Tags["leisure"]
		}
		if category == "" {
			category = "place"
		}

		pois = append(pois, models.POI{
			ID:       el.ID,
			Name:     name,
			Category: category,
			Lat:      poiLat,
			Lon:      poiLon,
		})

		if len(pois) >= limit {
			break
		}
	}

	return pois, nil
}
