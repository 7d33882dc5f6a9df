package models

// ResolvedLocation is the canonical result of geocoding a freeform query.
// Produced fresh per request and embedded into weather responses and Records;
// never persisted on its own.
type ResolvedLocation struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CurrentConditions mirrors the Open-Meteo "current" block. Field names follow
// the upstream wire format so the payload passes through unmodified.
type CurrentConditions struct {
	Time                string  `json:"time"`
	Temperature2m       float64 `json:"temperature_2m"`
	RelativeHumidity2m  float64 `json:"relative_humidity_2m"`
	ApparentTemperature float64 `json:"apparent_temperature"`
	WeatherCode         int     `json:"weather_code"`
	WindSpeed10m        float64 `json:"wind_speed_10m"`
}

// DailySeries holds the index-aligned daily forecast arrays. All slices have
// the same length; Temperature2mMax[i] belongs to Time[i].
type DailySeries struct {
	Time             []string  `json:"time"`
	WeatherCode      []int     `json:"weather_code"`
	Temperature2mMax []float64 `json:"temperature_2m_max"`
	Temperature2mMin []float64 `json:"temperature_2m_min"`
	PrecipitationSum []float64 `json:"precipitation_sum"`
	WindSpeed10mMax  []float64 `json:"wind_speed_10m_max"`
}

// Aligned reports whether every daily sequence has the same length as Time.
func (d *DailySeries) Aligned() bool {
	n := len(d.Time)
	return len(d.WeatherCode) == n &&
		len(d.Temperature2mMax) == n &&
		len(d.Temperature2mMin) == n &&
		len(d.PrecipitationSum) == n &&
		len(d.WindSpeed10mMax) == n
}

// WeatherSnapshot is the current + 5-day forecast view returned by the
// forecast provider for a resolved coordinate.
type WeatherSnapshot struct {
	Latitude     float64            `json:"latitude"`
	Longitude    float64            `json:"longitude"`
	Timezone     string             `json:"timezone,omitempty"`
	CurrentUnits map[string]string  `json:"current_units,omitempty"`
	Current      *CurrentConditions `json:"current"`
	DailyUnits   map[string]string  `json:"daily_units,omitempty"`
	Daily        *DailySeries       `json:"daily"`
}

// POI is a single nearby point of interest.
type POI struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
}

// AstronomyInfo carries sunrise/sunset timings as ISO-8601 timestamps.
type AstronomyInfo struct {
	Sunrise   string `json:"sunrise"`
	Sunset    string `json:"sunset"`
	SolarNoon string `json:"solar_noon"`
	DayLength int64  `json:"day_length"`
}

// AirQualitySample is the most recent hourly air-quality reading. Pointer
// fields stay null when the provider has no value for a pollutant.
type AirQualitySample struct {
	Time            string   `json:"time"`
	USAQI           *float64 `json:"us_aqi"`
	PM25            *float64 `json:"pm2_5"`
	PM10            *float64 `json:"pm10"`
	Ozone           *float64 `json:"ozone"`
	NitrogenDioxide *float64 `json:"nitrogen_dioxide"`
	SulphurDioxide  *float64 `json:"sulphur_dioxide"`
	CarbonMonoxide  *float64 `json:"carbon_monoxide"`
}

// PollenDay is one day of pollen concentrations. Regions without pollen data
// yield null entries.
type PollenDay struct {
	Date    string   `json:"date"`
	Grass   *float64 `json:"grass"`
	Birch   *float64 `json:"birch"`
	Olive   *float64 `json:"olive"`
	Alder   *float64 `json:"alder"`
	Ragweed *float64 `json:"ragweed"`
}

// WikiSummary is the nearest Wikipedia article summary for a coordinate.
type WikiSummary struct {
	Title     *string `json:"title"`
	Extract   *string `json:"extract"`
	URL       *string `json:"url"`
	Thumbnail *string `json:"thumbnail"`
}

// DateFact is a "today in history" blurb for the current calendar date.
type DateFact struct {
	Text *string `json:"text"`
	Year *int    `json:"year"`
}
