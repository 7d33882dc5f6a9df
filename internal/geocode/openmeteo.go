package geocode

import (
	"context"
	"net/url"
	"strings"

	"weather-lookup/internal/models"
	"weather-lookup/internal/upstream"
)

// usStateAbbreviations recognizes "City, ST" input so the Open-Meteo geocoder
// can be scoped to the United States.
var usStateAbbreviations = map[string]bool{
	"AL": true, "AK": true, "AZ": true, "AR": true, "CA": true, "CO": true,
	"CT": true, "DE": true, "FL": true, "GA": true, "HI": true, "ID": true,
	"IL": true, "IN": true, "IA": true, "KS": true, "KY": true, "LA": true,
	"ME": true, "MD": true, "MA": true, "MI": true, "MN": true, "MS": true,
	"MO": true, "MT": true, "NE": true, "NV": true, "NH": true, "NJ": true,
	"NM": true, "NY": true, "NC": true, "ND": true, "OH": true, "OK": true,
	"OR": true, "PA": true, "RI": true, "SC": true, "SD": true, "TN": true,
	"TX": true, "UT": true, "VT": true, "VA": true, "WA": true, "WV": true,
	"WI": true, "WY": true, "DC": true,
}

type openMeteoGeocodeResponse struct {
	Results []struct {
		Name      string  `json:"name"`
		Admin1    string  `json:"admin1"`
		Country   string  `json:"country"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"results"`
}

// openMeteoStrategy is the fallback place-name geocoder, backed by the
// Open-Meteo geocoding API.
type openMeteoStrategy struct {
	client *upstream.Client
}

func (s *openMeteoStrategy) Name() string {
	return "open-meteo-geocode"
}

func (s *openMeteoStrategy) Lookup(ctx context.Context, query string) ([]models.ResolvedLocation, error) {
	params := url.Values{}
	params.Set("name", query)
	params.Set("count", "3")
	params.Set("language", "en")

	// "City, ST" input narrows the search to the US with just the city name.
	parts := splitNonEmpty(query, ",")
	if len(parts) >= 2 && usStateAbbreviations[strings.ToUpper(parts[1])] {
		params.Set("name", parts[0])
		params.Set("countryCode", "US")
	}

	var resp openMeteoGeocodeResponse
	err := s.client.GetJSON(ctx, "open-meteo-geocode", s.client.Config().GeocodeBaseURL+"?"+params.Encode(), &resp)
	if err != nil {
		return nil, err
	}

	candidates := make([]models.ResolvedLocation, 0, len(resp.Results))
	for _, r := range resp.Results {
		display := joinNonEmpty(", ", r.Name, r.Admin1, r.Country)
		candidates = append(candidates, models.ResolvedLocation{
			Name:      display,
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
		})
	}

	return candidates, nil
}

func splitNonEmpty(s, sep string) []string {
	var parts []string
	for _, p := range strings.Split(s, sep) {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}

func joinNonEmpty(sep string, values ...string) string {
	var parts []string
	for _, v := range values {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, sep)
}
