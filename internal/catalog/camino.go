package catalog

import (
	"net/http"
	"time"
)

// SecretAPIKey names the credential every Camino tool resolves per call.
const SecretAPIKey = "CAMINO_API_KEY"

// Waypoint is the decode target for journey_planner waypoint objects.
type Waypoint struct {
	Lat     float64 `mapstructure:"lat" json:"lat"`
	Lon     float64 `mapstructure:"lon" json:"lon"`
	Purpose string  `mapstructure:"purpose" json:"purpose,omitempty"`
}

// BuiltinTools returns the fixed Camino tool catalog. Tools without an
// explicit timeout use the gateway default; the query endpoint carries a
// materially longer budget because Overpass processing and ranking can take
// tens of seconds.
func BuiltinTools() []ToolDefinition {
	return []ToolDefinition{
		{
			Name:        "search_place",
			Title:       "Search places",
			Description: "Search for places using free-form or structured queries",
			Method:      http.MethodPost,
			Path:        "/search",
			Encoding:    EncodingQuery,
			Returns:     ShapeArray,
			Secrets:     []string{SecretAPIKey},
			ReadOnly:    true,
			Params: []ParameterSpec{
				{Name: "query", Kind: KindString, Description: "Free-form search query (e.g., 'Eiffel Tower')"},
				{Name: "amenity", Kind: KindString, Description: "Name and/or type of POI (e.g., 'restaurant', 'Starbucks')"},
				{Name: "street", Kind: KindString, Description: "Street name with optional housenumber (e.g., '123 Main Street')"},
				{Name: "city", Kind: KindString, Description: "City name (e.g., 'Paris', 'New York')"},
				{Name: "county", Kind: KindString, Description: "County name"},
				{Name: "state", Kind: KindString, Description: "State or province name (e.g., 'California', 'Ontario')"},
				{Name: "country", Kind: KindString, Description: "Country name (e.g., 'France', 'United States')"},
				{Name: "postalcode", Kind: KindString, Description: "Postal/ZIP code (e.g., '10001', '75001')"},
				{Name: "limit", Kind: KindNumber, Default: float64(10), Description: "Maximum number of results to return"},
				{Name: "include_photos", Kind: KindBoolean, Default: false, Description: "Include street-level imagery data from OpenStreetCam"},
				{Name: "photo_radius", Kind: KindNumber, Default: float64(100), Description: "Search radius for street photos in meters"},
				{Name: "mode", Kind: KindEnum, Enum: []string{"basic", "advanced"}, Default: "basic", Description: "Search mode: 'basic' (free, OSM only) or 'advanced' (web enrichment, AWS fallback)"},
			},
		},
		{
			Name:        "query",
			Title:       "Query places",
			Description: "Query places using natural language and location, converts to Overpass query. This endpoint may take 30-60 seconds due to Overpass API processing and AI ranking.",
			Method:      http.MethodGet,
			Path:        "/query",
			Encoding:    EncodingQuery,
			Returns:     ShapeObject,
			Secrets:     []string{SecretAPIKey},
			Timeout:     120 * time.Second,
			ReadOnly:    true,
			Params: []ParameterSpec{
				{Name: "query", Kind: KindString, Description: "Natural language query, e.g., 'coffee near me'"},
				{Name: "lat", Kind: KindNumber, Description: "Latitude for the center of your search"},
				{Name: "lon", Kind: KindNumber, Description: "Longitude for the center of your search"},
				{Name: "radius", Kind: KindNumber, Default: float64(1000), Description: "Search radius in meters"},
				{Name: "rank", Kind: KindBoolean, Default: true, Description: "Use AI to rank results by relevance"},
				{Name: "limit", Kind: KindNumber, Default: float64(20), Description: "Maximum number of results to return (1-100)"},
				{Name: "offset", Kind: KindNumber, Default: float64(0), Description: "Number of results to skip for pagination"},
				{Name: "answer", Kind: KindBoolean, Default: false, Description: "Generate a human-readable answer summary"},
				{Name: "time", Kind: KindString, Description: "Time parameter: '2020-01-01' (point), '2020..' (since), '2020..2024' (range)"},
				{Name: "osm_ids", Kind: KindString, Description: "Comma-separated OSM IDs (e.g., 'node/123,way/456')"},
				{Name: "mode", Kind: KindEnum, Enum: []string{"basic", "advanced"}, Default: "basic", Description: "Query mode: 'basic' (free, OSM only) or 'advanced' (web enrichment)"},
			},
		},
		{
			Name:        "spatial_relationship",
			Title:       "Spatial relationship",
			Description: "Calculate spatial relationships between two points including distance, direction, and travel time",
			Method:      http.MethodPost,
			Path:        "/relationship",
			Encoding:    EncodingJSON,
			Returns:     ShapeObject,
			Secrets:     []string{SecretAPIKey},
			ReadOnly:    true,
			Params: []ParameterSpec{
				{Name: "start_lat", Kind: KindNumber, Required: true, Description: "Starting point latitude"},
				{Name: "start_lon", Kind: KindNumber, Required: true, Description: "Starting point longitude"},
				{Name: "end_lat", Kind: KindNumber, Required: true, Description: "Ending point latitude"},
				{Name: "end_lon", Kind: KindNumber, Required: true, Description: "Ending point longitude"},
				{Name: "include_distance", Kind: KindBoolean, Default: true, Description: "Include distance calculation"},
				{Name: "include_direction", Kind: KindBoolean, Default: true, Description: "Include direction calculation"},
				{Name: "include_travel_time", Kind: KindBoolean, Default: true, Description: "Include travel time estimates"},
				{Name: "include_description", Kind: KindBoolean, Default: true, Description: "Include human-readable description"},
			},
			BuildBody: relationshipBody,
		},
		{
			Name:        "place_context",
			Title:       "Place context",
			Description: "Get context-aware information about a location including nearby places and area description",
			Method:      http.MethodPost,
			Path:        "/context",
			Encoding:    EncodingJSON,
			Returns:     ShapeObject,
			Secrets:     []string{SecretAPIKey},
			ReadOnly:    true,
			Params: []ParameterSpec{
				{Name: "lat", Kind: KindNumber, Required: true, Description: "Latitude of the location"},
				{Name: "lon", Kind: KindNumber, Required: true, Description: "Longitude of the location"},
				{Name: "radius", Kind: KindNumber, Default: float64(500), Description: "Search radius in meters"},
				{Name: "context_query", Kind: KindString, Description: "Additional context about what you're looking for"},
				{Name: "time", Kind: KindString, Description: "Time parameter: '2020-01-01' (point), '2020..' (since), '2020..2024' (range)"},
				{Name: "include_weather", Kind: KindBoolean, Default: false, Description: "Include current weather and forecast"},
				{Name: "weather_forecast", Kind: KindEnum, Enum: []string{"daily", "hourly"}, Default: "daily", Description: "Weather forecast type: 'daily' or 'hourly'"},
			},
			BuildBody: contextBody,
		},
		{
			Name:        "journey_planner",
			Title:       "Journey planner",
			Description: "Multi-waypoint journey planning with route optimization and feasibility analysis",
			Method:      http.MethodPost,
			Path:        "/journey",
			Encoding:    EncodingJSON,
			Returns:     ShapeObject,
			Secrets:     []string{SecretAPIKey},
			ReadOnly:    true,
			Params: []ParameterSpec{
				{Name: "waypoints", Kind: KindObject, Repeated: true, Required: true, Prototype: func() any { return &Waypoint{} }, Description: "List of waypoints with lat, lon, and purpose fields"},
				{Name: "transport_mode", Kind: KindEnum, Enum: []string{"walking", "driving", "cycling"}, Default: "walking", Description: "Mode of transport: walking, driving, cycling"},
				{Name: "time_budget", Kind: KindString, Description: "Time budget for the journey (e.g., '2 hours')"},
			},
			BuildBody: journeyBody,
		},
		{
			Name:        "get_route",
			Title:       "Get route",
			Description: "Get routing information from a start to an end point",
			Method:      http.MethodGet,
			Path:        "/route",
			Encoding:    EncodingQuery,
			Returns:     ShapeObject,
			Secrets:     []string{SecretAPIKey},
			ReadOnly:    true,
			Params: []ParameterSpec{
				{Name: "start_lat", Kind: KindNumber, Required: true, Description: "Start latitude"},
				{Name: "start_lon", Kind: KindNumber, Required: true, Description: "Start longitude"},
				{Name: "end_lat", Kind: KindNumber, Required: true, Description: "End latitude"},
				{Name: "end_lon", Kind: KindNumber, Required: true, Description: "End longitude"},
				{Name: "mode", Kind: KindEnum, Enum: []string{"car", "bike", "foot"}, Default: "car", Description: "Mode of transport: car, bike, or foot"},
				{Name: "include_geometry", Kind: KindBoolean, Default: false, Description: "Include detailed route geometry and waypoints for mapping. Only include if you will be showing the user a map"},
				{Name: "include_imagery", Kind: KindBoolean, Default: false, Description: "Include street-level imagery at key waypoints"},
			},
		},
	}
}

func relationshipBody(values map[string]any, _ map[string]bool) any {
	include := make([]string, 0, 4)
	for _, field := range []struct {
		flag string
		name string
	}{
		{"include_distance", "distance"},
		{"include_direction", "direction"},
		{"include_travel_time", "travel_time"},
		{"include_description", "description"},
	} {
		if enabled, _ := values[field.flag].(bool); enabled {
			include = append(include, field.name)
		}
	}
	return map[string]any{
		"start":   map[string]any{"lat": values["start_lat"], "lon": values["start_lon"]},
		"end":     map[string]any{"lat": values["end_lat"], "lon": values["end_lon"]},
		"include": include,
	}
}

func contextBody(values map[string]any, supplied map[string]bool) any {
	body := map[string]any{
		"location":         map[string]any{"lat": values["lat"], "lon": values["lon"]},
		"radius":           values["radius"],
		"include_weather":  values["include_weather"],
		"weather_forecast": values["weather_forecast"],
	}
	if supplied["context_query"] {
		body["context"] = values["context_query"]
	}
	if supplied["time"] {
		body["time"] = values["time"]
	}
	return body
}

func journeyBody(values map[string]any, supplied map[string]bool) any {
	constraints := map[string]any{
		"transport": values["transport_mode"],
	}
	if supplied["time_budget"] {
		constraints["time_budget"] = values["time_budget"]
	}
	return map[string]any{
		"waypoints":   values["waypoints"],
		"constraints": constraints,
	}
}
