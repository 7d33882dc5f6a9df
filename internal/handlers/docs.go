package handlers

import (
	"net/http"
)

// OpenAPISpec returns the OpenAPI 3.0 specification for the Weather Lookup API
func OpenAPISpec(w http.ResponseWriter, r *http.Request) {
	spec := map[string]interface{}{
		"openapi": "3.0.0",
		"info": map[string]interface{}{
			"title":       "Weather Lookup API",
			"description": "Resolves freeform locations, fetches current and 5-day forecast weather, persists saved lookups, and exports them in multiple formats",
			"version":     "1.0.0",
		},
		"servers": []map[string]string{
			{"url": "http://localhost:8080", "description": "Local development server"},
		},
		"paths": map[string]interface{}{
			"/weather/current": map[string]interface{}{
				"get": map[string]interface{}{
					"summary": "Resolve a location and fetch current + 5-day forecast weather",
					"parameters": []map[string]interface{}{
						{
							"name":        "location",
							"in":          "query",
							"description": "ZIP, city name, landmark, or 'lat,lon' pair",
							"required":    true,
							"schema":      map[string]string{"type": "string"},
						},
					},
					"responses": map[string]interface{}{
						"200": map[string]interface{}{"description": "Resolved location plus weather snapshot"},
						"404": map[string]interface{}{"description": "No geocoding strategy matched the location"},
						"502": map[string]interface{}{"description": "An upstream provider failed"},
					},
				},
			},
			"/locations/search": map[string]interface{}{
				"get": map[string]interface{}{
					"summary": "Autocomplete location suggestions (up to 8)",
					"parameters": []map[string]interface{}{
						{
							"name":     "q",
							"in":       "query",
							"required": true,
							"schema":   map[string]string{"type": "string"},
						},
					},
					"responses": map[string]interface{}{
						"200": map[string]interface{}{"description": "Array of candidate locations"},
					},
				},
			},
			"/records": map[string]interface{}{
				"post": map[string]interface{}{
					"summary": "Create a saved lookup (resolves the location and stores the snapshot)",
					"responses": map[string]interface{}{
						"201": map[string]interface{}{"description": "Created record"},
						"400": map[string]interface{}{"description": "Invalid date range or location"},
					},
				},
				"get": map[string]interface{}{
					"summary": "List all saved lookups ordered by id",
					"responses": map[string]interface{}{
						"200": map[string]interface{}{"description": "Array of records"},
					},
				},
			},
			"/records/{id}": map[string]interface{}{
				"get": map[string]interface{}{
					"summary": "Fetch a single saved lookup",
					"responses": map[string]interface{}{
						"200": map[string]interface{}{"description": "The record"},
						"404": map[string]interface{}{"description": "Unknown record id"},
					},
				},
				"put": map[string]interface{}{
					"summary": "Partially update a saved lookup; location changes re-resolve coordinates",
					"responses": map[string]interface{}{
						"200": map[string]interface{}{"description": "Updated record"},
						"400": map[string]interface{}{"description": "Merged date range is invalid"},
						"404": map[string]interface{}{"description": "Unknown record id"},
					},
				},
				"delete": map[string]interface{}{
					"summary": "Permanently delete a saved lookup",
					"responses": map[string]interface{}{
						"200": map[string]interface{}{"description": "Deletion acknowledgement"},
						"404": map[string]interface{}{"description": "Unknown record id"},
					},
				},
			},
			"/export": map[string]interface{}{
				"get": map[string]interface{}{
					"summary": "Export all saved lookups",
					"parameters": []map[string]interface{}{
						{
							"name":   "fmt",
							"in":     "query",
							"schema": map[string]interface{}{"type": "string", "enum": []string{"json", "csv", "xml", "md"}},
						},
					},
					"responses": map[string]interface{}{
						"200": map[string]interface{}{"description": "Serialized record set in the requested format"},
						"400": map[string]interface{}{"description": "Unsupported format"},
					},
				},
			},
			"/places/nearby": map[string]interface{}{
				"get": map[string]interface{}{
					"summary": "Named points of interest near a coordinate",
				},
			},
			"/extras/astronomy": map[string]interface{}{
				"get": map[string]interface{}{"summary": "Sunrise/sunset timings for a coordinate"},
			},
			"/extras/air": map[string]interface{}{
				"get": map[string]interface{}{"summary": "Latest hourly air-quality reading for a coordinate"},
			},
			"/extras/pollen": map[string]interface{}{
				"get": map[string]interface{}{"summary": "Five-day pollen forecast for a coordinate"},
			},
			"/extras/wiki": map[string]interface{}{
				"get": map[string]interface{}{"summary": "Nearest Wikipedia article summary for a coordinate"},
			},
			"/extras/datefact": map[string]interface{}{
				"get": map[string]interface{}{"summary": "Today-in-history fact"},
			},
			"/health": map[string]interface{}{
				"get": map[string]interface{}{"summary": "Service health check"},
			},
		},
	}

	sendJSON(w, spec, http.StatusOK)
}
