package domain

import "context"

// GeocodingResult is the administrative location of a coordinate.
type GeocodingResult struct {
	CityCode string // INSEE commune code
	City     string
	Lat      float64
	Lon      float64
	Score    float64 // 0.0–1.0 provider confidence score
}

// Geocoder resolves coordinates to the commune the VigiEau API is queried with.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (GeocodingResult, error)
}
