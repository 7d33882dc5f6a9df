package upstream

import (
	"context"
	"fmt"
	"net/url"

	"weather-lookup/internal/models"
)

type pollenResponse struct {
	Daily struct {
		Time          []string   `json:"time"`
		AlderPollen   []*float64 `json:"alder_pollen"`
		BirchPollen   []*float64 `json:"birch_pollen"`
		GrassPollen   []*float64 `json:"grass_pollen"`
		OlivePollen   []*float64 `json:"olive_pollen"`
		RagweedPollen []*float64 `json:"ragweed_pollen"`
	} `json:"daily"`
}

// FetchPollen retrieves up to five days of pollen concentrations for a
// coordinate. Some regions have no pollen coverage; those yield null values.
func (c *Client) FetchPollen(ctx context.Context, lat, lon float64) ([]models.PollenDay, error) {
	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%f", lat))
	params.Set("longitude", fmt.Sprintf("%f", lon))
	params.Set("daily", "alder_pollen,birch_pollen,grass_pollen,olive_pollen,ragweed_pollen")
	params.Set("timezone", "auto")

	var resp pollenResponse
	if err := c.GetJSON(ctx, "open-meteo-pollen", c.cfg.PollenBaseURL+"?"+params.Encode(), &resp); err != nil {
		return nil, err
	}

	at := func(series []*float64, i int) *float64 {
		if i < len(series) {
			return series[i]
		}
		return nil
	}

	days := make([]models.PollenDay, 0, forecastDays)
	for i, date := range resp.Daily.Time {
		if i >= forecastDays {
			break
		}
		days = append(days, models.PollenDay{
			Date:    date,
			Grass:   at(resp.Daily.GrassPollen, i),
			Birch:   at(resp.Daily.BirchPollen, i),
			Olive:   at(resp.Daily.OlivePollen, i),
			Alder:   at(resp.Daily.AlderPollen, i),
			Ragweed: at(resp.Daily.RagweedPollen, i),
		})
	}

	return days, nil
}
