package entry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

var (
	// ErrFutureVersion is returned for entries written by a newer release.
	ErrFutureVersion = errors.New("config entry version is newer than supported")
	// ErrInvalidVersion is returned for entries with a version below 1.
	ErrInvalidVersion = errors.New("invalid config entry version")
	// ErrNoLocator is returned when a step needs a location and none is configured.
	ErrNoLocator = errors.New("no locator configured: set HOME_LATITUDE and HOME_LONGITUDE")
)

// MigrationError reports the step that failed. The entry handed to Migrate is
// left untouched.
type MigrationError struct {
	From int
	Err  error
}

func (e *MigrationError) Error() string {
	return fmt.Sprintf("migrate config entry from version %d to %d: %v", e.From, e.From+1, e.Err)
}

func (e *MigrationError) Unwrap() error { return e.Err }

// locatedVersion is the first version whose entries already carry a location.
const locatedVersion = 3

// transition upgrades an entry by exactly one version. It only derives data;
// the version bump is applied by Migrate.
type transition func(ctx context.Context, e Entry) (Entry, error)

// Migrator runs the linear schema migration chain.
type Migrator struct {
	locator         Locator
	defaultZoneType string
	logger          *slog.Logger

	// transitions[v] upgrades version v to v+1.
	transitions map[int]transition
}

// NewMigrator creates a Migrator. locator may be nil when no step that needs
// it will run; defaultZoneType is stamped on entries predating zone types.
func NewMigrator(locator Locator, defaultZoneType string, logger *slog.Logger) *Migrator {
	m := &Migrator{
		locator:         locator,
		defaultZoneType: defaultZoneType,
		logger:          logger,
	}
	m.transitions = map[int]transition{
		1: m.locateHome,
		2: m.refreshCoordinates,
		3: markVersion3,
		4: m.stampZoneType,
		5: markVersion5,
	}
	return m
}

// Migrate applies every pending transition in one pass and returns the entry
// at CurrentVersion. An entry already current is returned as is. On failure
// the original entry is returned with a *MigrationError.
func (m *Migrator) Migrate(ctx context.Context, e Entry) (Entry, error) {
	if e.Version < 1 {
		return e, fmt.Errorf("%w: %d", ErrInvalidVersion, e.Version)
	}
	if e.Version > CurrentVersion {
		return e, fmt.Errorf("%w: %d > %d", ErrFutureVersion, e.Version, CurrentVersion)
	}

	cur := e.clone()
	for cur.Version < CurrentVersion {
		step := m.transitions[cur.Version]
		m.logger.Warn("migrating config entry",
			"entry_id", cur.ID,
			"from_version", cur.Version,
			"to_version", cur.Version+1,
		)
		next, err := step(ctx, cur.clone())
		if err != nil {
			return e, &MigrationError{From: cur.Version, Err: err}
		}
		next.Version = cur.Version + 1
		cur = next
	}
	return cur, nil
}

// CheckLocator fails when e still has to be located and no locator is
// configured. First-setup entries start at version 1 and always need one.
func (m *Migrator) CheckLocator(e Entry) error {
	if m.locator == nil && e.Version >= 1 && e.Version < locatedVersion {
		return fmt.Errorf("config entry at version %d has no location yet: %w", e.Version, ErrNoLocator)
	}
	return nil
}

func (m *Migrator) locate(ctx context.Context) (Location, error) {
	if m.locator == nil {
		return Location{}, ErrNoLocator
	}
	return m.locator.Locate(ctx)
}

// locateHome resolves the commune of the home coordinates. Entries coming
// from version 1 keep the legacy device id.
func (m *Migrator) locateHome(ctx context.Context, e Entry) (Entry, error) {
	loc, err := m.locate(ctx)
	if err != nil {
		return e, err
	}
	e.Data.CityCode = loc.CityCode
	e.Data.City = loc.City
	e.Data.LocationMode = LocationModeHomeCoordinates
	e.Data.DeviceID = legacyDeviceID
	e.Data.Latitude = &loc.Lat
	e.Data.Longitude = &loc.Lon
	e.Data.MigratedFromVersion1 = true
	m.logger.Warn("migration detected commune for home coordinates",
		"insee_code", loc.CityCode,
		"city", loc.City,
	)
	return e, nil
}

// refreshCoordinates stores the coordinates the zone query is made with.
func (m *Migrator) refreshCoordinates(ctx context.Context, e Entry) (Entry, error) {
	loc, err := m.locate(ctx)
	if err != nil {
		return e, err
	}
	e.Data.Latitude = &loc.Lat
	e.Data.Longitude = &loc.Lon
	return e, nil
}

func markVersion3(_ context.Context, e Entry) (Entry, error) {
	e.Data.MigratedFromVersion3 = true
	return e, nil
}

func (m *Migrator) stampZoneType(_ context.Context, e Entry) (Entry, error) {
	if e.Data.ZoneType == "" {
		e.Data.ZoneType = m.defaultZoneType
	}
	return e, nil
}

func markVersion5(_ context.Context, e Entry) (Entry, error) {
	e.Data.MigratedFromVersion5 = true
	return e, nil
}

// Prepare loads the entry, creating it at first setup, migrates it to
// CurrentVersion and saves it when it changed. The boolean reports whether a
// migration ran. Nothing is written when a migration step fails.
func Prepare(ctx context.Context, store Store, m *Migrator, logger *slog.Logger) (Entry, bool, error) {
	e, err := store.Load(ctx)
	switch {
	case errors.Is(err, ErrNotFound):
		e = New()
		logger.Info("creating config entry", "entry_id", e.ID)
	case err != nil:
		return Entry{}, false, fmt.Errorf("load config entry: %w", err)
	}

	if err := m.CheckLocator(e); err != nil {
		return Entry{}, false, err
	}

	startVersion := e.Version
	migrated, err := m.Migrate(ctx, e)
	if err != nil {
		return Entry{}, false, err
	}
	if startVersion == CurrentVersion {
		return migrated, false, nil
	}

	if err := store.Save(ctx, migrated); err != nil {
		return Entry{}, false, fmt.Errorf("save config entry: %w", err)
	}
	logger.Info("config entry ready",
		"entry_id", migrated.ID,
		"from_version", startVersion,
		"version", migrated.Version,
	)
	return migrated, true, nil
}
