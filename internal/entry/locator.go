package entry

import (
	"context"
	"errors"
	"fmt"

	"github.com/couchcryptid/water-restriction-etl/internal/domain"
)

// ErrLocationNotFound is returned when the geocoder has no commune for the
// configured coordinates.
var ErrLocationNotFound = errors.New("no commune found for coordinates")

// Location is the administrative location of the monitored place.
type Location struct {
	CityCode string
	City     string
	Lat      float64
	Lon      float64
}

// Locator resolves the monitored place during migration.
type Locator interface {
	Locate(ctx context.Context) (Location, error)
}

// HomeLocator locates the configured home coordinates through a geocoder.
type HomeLocator struct {
	geocoder domain.Geocoder
	lat      float64
	lon      float64
}

// NewHomeLocator creates a locator for the given home coordinates.
func NewHomeLocator(geocoder domain.Geocoder, lat, lon float64) *HomeLocator {
	return &HomeLocator{geocoder: geocoder, lat: lat, lon: lon}
}

// Locate reverse-geocodes the home coordinates. The returned coordinates are
// the configured ones, not the geocoder's snapped point.
func (l *HomeLocator) Locate(ctx context.Context) (Location, error) {
	result, err := l.geocoder.ReverseGeocode(ctx, l.lat, l.lon)
	if err != nil {
		return Location{}, fmt.Errorf("locate home: %w", err)
	}
	if result.CityCode == "" {
		return Location{}, fmt.Errorf("locate home (%.6f, %.6f): %w", l.lat, l.lon, ErrLocationNotFound)
	}
	return Location{
		CityCode: result.CityCode,
		City:     result.City,
		Lat:      l.lat,
		Lon:      l.lon,
	}, nil
}
