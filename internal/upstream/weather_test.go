package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"weather-lookup/internal/config"
	"weather-lookup/internal/models"
)

const forecastFixture = `{
	"latitude": 42.36,
	"longitude": -71.06,
	"timezone": "America/New_York",
	"current_units": {"temperature_2m": "°C", "wind_speed_10m": "km/h"},
	"current": {
		"time": "2025-10-01T12:00",
		"temperature_2m": 18.4,
		"relative_humidity_2m": 62,
		"apparent_temperature": 17.9,
		"weather_code": 3,
		"wind_speed_10m": 11.2
	},
	"daily_units": {"temperature_2m_max": "°C"},
	"daily": {
		"time": ["2025-10-01", "2025-10-02", "2025-10-03", "2025-10-04", "2025-10-05", "2025-10-06"],
		"weather_code": [3, 61, 2, 0, 1, 3],
		"temperature_2m_max": [19.1, 16.5, 18.0, 20.2, 21.4, 19.9],
		"temperature_2m_min": [11.0, 12.3, 10.8, 11.9, 13.0, 12.1],
		"precipitation_sum": [0.0, 4.2, 0.1, 0.0, 0.0, 0.3],
		"wind_speed_10m_max": [14.0, 22.5, 16.1, 12.3, 10.9, 15.5]
	}
}`

func TestFetchForecast(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("timezone") != "auto" {
			t.Errorf("timezone = %q, want auto", q.Get("timezone"))
		}
		if q.Get("current") == "" || q.Get("daily") == "" {
			t.Error("request must ask for both current and daily variables")
		}
		w.Write([]byte(forecastFixture))
	}))
	defer server.Close()

	client := newTestClient(config.UpstreamConfig{ForecastBaseURL: server.URL})

	snapshot, err := client.FetchForecast(context.Background(), 42.36, -71.06)
	if err != nil {
		t.Fatalf("FetchForecast returned error: %v", err)
	}

	if snapshot.Current.Temperature2m != 18.4 {
		t.Errorf("current temperature = %v, want 18.4", snapshot.Current.Temperature2m)
	}
	if snapshot.Current.WeatherCode != 3 {
		t.Errorf("weather code = %d, want 3", snapshot.Current.WeatherCode)
	}
	if len(snapshot.Daily.Time) != 6 {
		t.Errorf("daily days = %d, want 6", len(snapshot.Daily.Time))
	}
	if !snapshot.Daily.Aligned() {
		t.Error("daily series should be aligned")
	}
	if snapshot.Timezone != "America/New_York" {
		t.Errorf("timezone = %q", snapshot.Timezone)
	}
}

func TestFetchForecastMisalignedDaily(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"current": {"time": "2025-10-01T12:00", "temperature_2m": 18.4},
			"daily": {
				"time": ["2025-10-01", "2025-10-02"],
				"weather_code": [3],
				"temperature_2m_max": [19.1, 16.5],
				"temperature_2m_min": [11.0, 12.3],
				"precipitation_sum": [0.0, 4.2],
				"wind_speed_10m_max": [14.0, 22.5]
			}
		}`))
	}))
	defer server.Close()

	client := newTestClient(config.UpstreamConfig{ForecastBaseURL: server.URL})

	_, err := client.FetchForecast(context.Background(), 42.36, -71.06)
	if err == nil {
		t.Fatal("expected error for misaligned daily series")
	}
}

func TestFetchForecastMissingCurrent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"latitude": 42.36, "longitude": -71.06}`))
	}))
	defer server.Close()

	client := newTestClient(config.UpstreamConfig{ForecastBaseURL: server.URL})

	_, err := client.FetchForecast(context.Background(), 42.36, -71.06)
	if err == nil {
		t.Fatal("expected error when current block is absent")
	}
}

func TestFetchDailyRange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("start_date") != "2025-10-01" || q.Get("end_date") != "2025-10-05" {
			t.Errorf("dates = (%s, %s)", q.Get("start_date"), q.Get("end_date"))
		}
		if q.Get("current") != "" {
			t.Error("range fetch must not request current conditions")
		}
		w.Write([]byte(`{"daily": {"time": ["2025-10-01"]}}`))
	}))
	defer server.Close()

	client := newTestClient(config.UpstreamConfig{ForecastBaseURL: server.URL})

	start, _ := models.ParseDate("2025-10-01")
	end, _ := models.ParseDate("2025-10-05")

	payload, err := client.FetchDailyRange(context.Background(), 42.36, -71.06, start, end)
	if err != nil {
		t.Fatalf("FetchDailyRange returned error: %v", err)
	}
	if len(payload) == 0 {
		t.Error("payload should carry the raw provider body")
	}
}
