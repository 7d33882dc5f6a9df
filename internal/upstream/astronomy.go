package upstream

import (
	"context"
	"fmt"
	"net/url"

	"weather-lookup/internal/models"
)

type sunriseSunsetResponse struct {
	Status  string `json:"status"`
	Results struct {
		Sunrise   string `json:"sunrise"`
		Sunset    string `json:"sunset"`
		SolarNoon string `json:"solar_noon"`
		DayLength int64  `json:"day_length"`
	} `json:"results"`
}

// FetchAstronomy retrieves sunrise/sunset timings for a coordinate as
// unformatted ISO-8601 timestamps.
func (c *Client) FetchAstronomy(ctx context.Context, lat, lon float64) (*models.AstronomyInfo, error) {
	params := url.Values{}
	params.Set("lat", fmt.Sprintf("%f", lat))
	params.Set("lng", fmt.Sprintf("%f", lon))
	params.Set("formatted", "0")

	var resp sunriseSunsetResponse
	if err := c.GetJSON(ctx, "sunrise-sunset", c.cfg.AstronomyBaseURL+"?"+params.Encode(), &resp); err != nil {
		return nil, err
	}

	if resp.Status != "OK" {
		c.metrics.RecordUpstreamError("sunrise-sunset", "bad_status")
		return nil, &UpstreamError{
			Provider: "sunrise-sunset",
			Err:      fmt.Errorf("provider status %q", resp.Status),
		}
	}

	return &models.AstronomyInfo{
		Sunrise:   resp.Results.Sunrise,
		Sunset:    resp.Results.Sunset,
		SolarNoon: resp.Results.SolarNoon,
		DayLength: resp.Results.DayLength,
	}, nil
}
