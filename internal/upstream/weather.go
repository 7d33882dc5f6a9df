package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"weather-lookup/internal/models"
)

const forecastDays = 5

// FetchForecast retrieves current conditions plus the 5-day daily forecast
// for a coordinate. Numeric fields pass through unmodified; unit conversion
// is a presentation concern.
func (c *Client) FetchForecast(ctx context.Context, lat, lon float64) (*models.WeatherSnapshot, error) {
	today := time.Now().UTC()
	end := today.AddDate(0, 0, forecastDays)

	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%f", lat))
	params.Set("longitude", fmt.Sprintf("%f", lon))
	params.Set("current", "temperature_2m,relative_humidity_2m,apparent_temperature,weather_code,wind_speed_10m")
	params.Set("daily", "weather_code,temperature_2m_max,temperature_2m_min,precipitation_sum,wind_speed_10m_max")
	params.Set("timezone", "auto")
	params.Set("start_date", today.Format("2006-01-02"))
	params.Set("end_date", end.Format("2006-01-02"))

	var snapshot models.WeatherSnapshot
	if err := c.GetJSON(ctx, "open-meteo", c.cfg.ForecastBaseURL+"?"+params.Encode(), &snapshot); err != nil {
		return nil, err
	}

	if snapshot.Current == nil || snapshot.Daily == nil || !snapshot.Daily.Aligned() {
		c.metrics.RecordUpstreamError("open-meteo", "decode_error")
		return nil, &UpstreamError{
			Provider: "open-meteo",
			Err:      fmt.Errorf("forecast payload missing or misaligned daily series"),
		}
	}

	return &snapshot, nil
}

// FetchDailyRange retrieves the raw daily payload for a stored record's
// inclusive date range. The payload is persisted verbatim alongside the
// record.
func (c *Client) FetchDailyRange(ctx context.Context, lat, lon float64, start, end models.Date) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%f", lat))
	params.Set("longitude", fmt.Sprintf("%f", lon))
	params.Set("daily", "weather_code,temperature_2m_max,temperature_2m_min,precipitation_sum,wind_speed_10m_max")
	params.Set("timezone", "auto")
	params.Set("start_date", start.String())
	params.Set("end_date", end.String())

	var payload json.RawMessage
	if err := c.GetJSON(ctx, "open-meteo", c.cfg.ForecastBaseURL+"?"+params.Encode(), &payload); err != nil {
		return nil, err
	}

	return payload, nil
}
