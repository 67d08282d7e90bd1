package maps

import (
	"context"
	"errors"
	"fmt"

	"googlemaps.github.io/maps"
)

var ErrCountryNotFound = errors.New("no country component in geocoding result")

type GoogleMapsProvider struct {
	client *maps.Client
}

func NewGoogleMapsProvider(apiKey string) (*GoogleMapsProvider, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Maps client: %w", err)
	}

	return &GoogleMapsProvider{
		client: client,
	}, nil
}

func (g *GoogleMapsProvider) Geocode(ctx context.Context, address string) (*GeocodeResponse, error) {
	req := &maps.GeocodingRequest{
		Address: address,
	}

	resp, err := g.client.Geocode(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("geocoding failed: %w", err)
	}

	return &GeocodeResponse{Results: convertResults(resp)}, nil
}

func (g *GoogleMapsProvider) ReverseGeocode(ctx context.Context, request *ReverseGeocodeRequest) (*GeocodeResponse, error) {
	req := &maps.GeocodingRequest{
		LatLng:   &maps.LatLng{Lat: request.Latitude, Lng: request.Longitude},
		Language: request.Language,
	}

	resp, err := g.client.ReverseGeocode(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("reverse geocoding failed: %w", err)
	}

	return &GeocodeResponse{Results: convertResults(resp)}, nil
}

func (g *GoogleMapsProvider) ResolveCountry(ctx context.Context, lat, lng float64) (*CountryInfo, error) {
	req := &maps.GeocodingRequest{
		LatLng:     &maps.LatLng{Lat: lat, Lng: lng},
		ResultType: []string{"country"},
	}

	resp, err := g.client.ReverseGeocode(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("reverse geocoding failed: %w", err)
	}

	for _, result := range resp {
		for _, component := range result.AddressComponents {
			for _, t := range component.Types {
				if t == "country" {
					return &CountryInfo{
						Code:    component.ShortName,
						Name:    component.LongName,
						Address: result.FormattedAddress,
					}, nil
				}
			}
		}
	}

	return nil, ErrCountryNotFound
}

func convertResults(resp []maps.GeocodingResult) []GeocodeResult {
	results := make([]GeocodeResult, len(resp))
	for i, result := range resp {
		results[i] = GeocodeResult{
			PlaceID: result.PlaceID,
			Address: result.FormattedAddress,
			Coordinates: Location{
				Latitude:  result.Geometry.Location.Lat,
				Longitude: result.Geometry.Location.Lng,
			},
			Types: result.Types,
		}
	}
	return results
}
