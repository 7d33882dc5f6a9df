package geocode

import (
	"context"
	"net/url"
	"strconv"

	"weather-lookup/internal/models"
	"weather-lookup/internal/upstream"
)

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	Type        string `json:"type"`
	DisplayName string `json:"display_name"`
}

// nominatimStrategy resolves place names and landmarks via the OpenStreetMap
// Nominatim search API.
type nominatimStrategy struct {
	client *upstream.Client
}

func (s *nominatimStrategy) Name() string {
	return "nominatim"
}

func (s *nominatimStrategy) Lookup(ctx context.Context, query string) ([]models.ResolvedLocation, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "jsonv2")
	params.Set("limit", "5")
	params.Set("addressdetails", "1")

	var results []nominatimResult
	err := s.client.GetJSON(ctx, "nominatim", s.client.Config().NominatimBaseURL+"?"+params.Encode(), &results)
	if err != nil {
		return nil, err
	}

	candidates := make([]models.ResolvedLocation, 0, len(results))
	for _, item := range results {
		lat, latErr := strconv.ParseFloat(item.Lat, 64)
		lon, lonErr := strconv.ParseFloat(item.Lon, 64)
		if latErr != nil || lonErr != nil {
			continue
		}

		name := item.DisplayName
		if name == "" {
			name = query
		}

		candidates = append(candidates, models.ResolvedLocation{
			Name:      name,
			Latitude:  lat,
			Longitude: lon,
		})
	}

	return candidates, nil
}
