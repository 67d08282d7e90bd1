package maps

import "context"

// MapsProvider resolves coordinates to addresses and country codes.
// Callers decide what to do when resolution fails; providers never
// guess a country.
type MapsProvider interface {
	Geocode(ctx context.Context, address string) (*GeocodeResponse, error)
	ReverseGeocode(ctx context.Context, request *ReverseGeocodeRequest) (*GeocodeResponse, error)
	ResolveCountry(ctx context.Context, lat, lng float64) (*CountryInfo, error)
}

type ReverseGeocodeRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Language  string  `json:"language,omitempty"`
}

type GeocodeResponse struct {
	Results []GeocodeResult `json:"results"`
}

type GeocodeResult struct {
	PlaceID     string   `json:"place_id"`
	Address     string   `json:"formatted_address"`
	Coordinates Location `json:"geometry"`
	Types       []string `json:"types"`
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type CountryInfo struct {
	// Code is the ISO 3166-1 alpha-2 code, e.g. "TR".
	Code    string `json:"code"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}
