// Package entry holds the persisted configuration entry of a monitored
// location and the chain of schema migrations applied to it at startup.
package entry

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// CurrentVersion is the schema version produced by Migrate.
const CurrentVersion = 6

// LocationModeHomeCoordinates marks entries located from the configured home
// coordinates.
const LocationModeHomeCoordinates = "ha_coord"

// legacyDeviceID is the device id of the first releases, kept for entries
// created before per-location devices existed.
const legacyDeviceID = "Vigieau"

// ErrNotFound is returned by stores holding no entry yet.
var ErrNotFound = errors.New("config entry not found")

// Entry is the persisted configuration of one monitored location.
type Entry struct {
	ID      string `yaml:"entry_id"`
	Version int    `yaml:"version"`
	Data    Data   `yaml:"data"`
}

// Data is the versioned payload of an entry. Migration markers are only ever
// set: unique ids of published entities depend on them.
type Data struct {
	CityCode     string   `yaml:"insee_code,omitempty"`
	City         string   `yaml:"city,omitempty"`
	LocationMode string   `yaml:"location_mode,omitempty"`
	DeviceID     string   `yaml:"device_id,omitempty"`
	Latitude     *float64 `yaml:"latitude,omitempty"`
	Longitude    *float64 `yaml:"longitude,omitempty"`
	ZoneType     string   `yaml:"zone_type,omitempty"`

	MigratedFromVersion1 bool `yaml:"migrated_from_version_1,omitempty"`
	MigratedFromVersion3 bool `yaml:"migrated_from_version_3,omitempty"`
	MigratedFromVersion5 bool `yaml:"migrated_from_version_5,omitempty"`
}

// New creates a first-setup entry at schema version 1.
func New() Entry {
	return Entry{ID: uuid.NewString(), Version: 1}
}

// Markers returns the versions whose migration marker is set, ascending.
func (d Data) Markers() []int {
	var out []int
	if d.MigratedFromVersion1 {
		out = append(out, 1)
	}
	if d.MigratedFromVersion3 {
		out = append(out, 3)
	}
	if d.MigratedFromVersion5 {
		out = append(out, 5)
	}
	return out
}

func (e Entry) clone() Entry {
	out := e
	if e.Data.Latitude != nil {
		lat := *e.Data.Latitude
		out.Data.Latitude = &lat
	}
	if e.Data.Longitude != nil {
		lon := *e.Data.Longitude
		out.Data.Longitude = &lon
	}
	return out
}

// Store persists the configuration entry.
type Store interface {
	// Load returns ErrNotFound when nothing was saved yet.
	Load(ctx context.Context) (Entry, error)
	Save(ctx context.Context, e Entry) error
}
