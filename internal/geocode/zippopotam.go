package geocode

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"weather-lookup/internal/models"
	"weather-lookup/internal/upstream"
)

type zippopotamResponse struct {
	PostCode string `json:"post code"`
	Places   []struct {
		PlaceName         string `json:"place name"`
		StateAbbreviation string `json:"state abbreviation"`
		Latitude          string `json:"latitude"`
		Longitude         string `json:"longitude"`
	} `json:"places"`
}

// zippopotamStrategy resolves US 5-digit ZIP codes via api.zippopotam.us.
type zippopotamStrategy struct {
	client *upstream.Client
}

func (s *zippopotamStrategy) Name() string {
	return "zippopotam"
}

func (s *zippopotamStrategy) Lookup(ctx context.Context, query string) ([]models.ResolvedLocation, error) {
	zip := strings.TrimSpace(query)

	var resp zippopotamResponse
	err := s.client.GetJSON(ctx, "zippopotam", s.client.Config().ZippopotamBaseURL+"/"+zip, &resp)
	if err != nil {
		// Zippopotam answers 404 for unknown ZIPs; that is a miss, not a failure.
		var upstreamErr *upstream.UpstreamError
		if errors.As(err, &upstreamErr) && upstreamErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}

	candidates := make([]models.ResolvedLocation, 0, len(resp.Places))
	for _, place := range resp.Places {
		lat, latErr := strconv.ParseFloat(place.Latitude, 64)
		lon, lonErr := strconv.ParseFloat(place.Longitude, 64)
		if latErr != nil || lonErr != nil {
			continue
		}
		candidates = append(candidates, models.ResolvedLocation{
			Name:      fmt.Sprintf("%s, %s, USA %s", place.PlaceName, place.StateAbbreviation, resp.PostCode),
			Latitude:  lat,
			Longitude: lon,
		})
	}

	return candidates, nil
}
