package upstream

import (
	"context"
	"fmt"
	"math"
	"net/url"

	"weather-lookup/internal/models"
)

type airQualityResponse struct {
	Hourly struct {
		Time            []string   `json:"time"`
		USAQI           []*float64 `json:"us_aqi"`
		PM10            []*float64 `json:"pm10"`
		PM25            []*float64 `json:"pm2_5"`
		CarbonMonoxide  []*float64 `json:"carbon_monoxide"`
		NitrogenDioxide []*float64 `json:"nitrogen_dioxide"`
		Ozone           []*float64 `json:"ozone"`
		SulphurDioxide  []*float64 `json:"sulphur_dioxide"`
	} `json:"hourly"`
}

// FetchAirQuality retrieves the most recent hourly air-quality reading for a
// coordinate. Returns nil when the provider has no samples for the location.
func (c *Client) FetchAirQuality(ctx context.Context, lat, lon float64) (*models.AirQualitySample, error) {
	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%f", lat))
	params.Set("longitude", fmt.Sprintf("%f", lon))
	params.Set("hourly", "us_aqi,pm10,pm2_5,carbon_monoxide,nitrogen_dioxide,ozone,sulphur_dioxide")
	params.Set("timezone", "auto")

	var resp airQualityResponse
	if err := c.GetJSON(ctx, "open-meteo-air", c.cfg.AirQualityBaseURL+"?"+params.Encode(), &resp); err != nil {
		return nil, err
	}

	if len(resp.Hourly.Time) == 0 {
		return nil, nil
	}

	idx := len(resp.Hourly.Time) - 1
	at := func(series []*float64) *float64 {
		if idx < len(series) {
			return series[idx]
		}
		return nil
	}

	return &models.AirQualitySample{
		Time:            resp.Hourly.Time[idx],
		USAQI:           at(resp.Hourly.USAQI),
		PM25:            roundPtr(at(resp.Hourly.PM25)),
		PM10:            roundPtr(at(resp.Hourly.PM10)),
		Ozone:           roundPtr(at(resp.Hourly.Ozone)),
		NitrogenDioxide: roundPtr(at(resp.Hourly.NitrogenDioxide)),
		SulphurDioxide:  roundPtr(at(resp.Hourly.SulphurDioxide)),
		CarbonMonoxide:  roundPtr(at(resp.Hourly.CarbonMonoxide)),
	}, nil
}

// roundPtr rounds a pollutant value to one decimal, preserving null.
func roundPtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	rounded := math.Round(*v*10) / 10
	return &rounded
}
