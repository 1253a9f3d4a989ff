package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers    []string
	KafkaSinkTopic  string
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// VigiEau zone API.
	VigieauBaseURL string
	VigieauProfile string
	VigieauTimeout time.Duration
	// VigieauForceFail makes every fetch fail, to exercise stale-state handling.
	VigieauForceFail bool

	// Reverse geocoding (api-adresse.data.gouv.fr).
	GeoAPIBaseURL   string
	GeoAPITimeout   time.Duration
	GeoAPICacheSize int

	// Home coordinates used when migrating entries that predate locations.
	HomeLatitude   float64
	HomeLongitude  float64
	HomeConfigured bool

	EntryFile       string
	SnapshotDB      string
	RefreshSchedule string
	DefaultZoneType string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	vigieauTimeout, err := parsePositiveDuration("VIGIEAU_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	geoAPITimeout, err := parsePositiveDuration("GEOAPI_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	_, forceFail := os.LookupEnv("VIGIEAU_APIFAIL")

	homeLat, homeLon, homeConfigured, err := parseHome()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		KafkaBrokers:    sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic:  sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "water-restriction-states"),
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		VigieauBaseURL:   sharedcfg.EnvOrDefault("VIGIEAU_BASE_URL", "https://api.vigieau.gouv.fr"),
		VigieauProfile:   sharedcfg.EnvOrDefault("VIGIEAU_PROFILE", "particulier"),
		VigieauTimeout:   vigieauTimeout,
		VigieauForceFail: forceFail,

		GeoAPIBaseURL:   sharedcfg.EnvOrDefault("GEOAPI_BASE_URL", "https://api-adresse.data.gouv.fr"),
		GeoAPITimeout:   geoAPITimeout,
		GeoAPICacheSize: parseCacheSize(),

		HomeLatitude:   homeLat,
		HomeLongitude:  homeLon,
		HomeConfigured: homeConfigured,

		EntryFile:       sharedcfg.EnvOrDefault("ENTRY_FILE", "entry.yaml"),
		SnapshotDB:      sharedcfg.EnvOrDefault("SNAPSHOT_DB", "snapshots.db"),
		RefreshSchedule: sharedcfg.EnvOrDefault("REFRESH_SCHEDULE", "@hourly"),
		DefaultZoneType: sharedcfg.EnvOrDefault("DEFAULT_ZONE_TYPE", "SUP"),
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}
	switch cfg.DefaultZoneType {
	case "SUP", "SOU", "AEP":
	default:
		return nil, fmt.Errorf("invalid DEFAULT_ZONE_TYPE %q: want SUP, SOU or AEP", cfg.DefaultZoneType)
	}
	switch cfg.VigieauProfile {
	case "particulier", "entreprise", "collectivite", "exploitation":
	default:
		return nil, fmt.Errorf("invalid VIGIEAU_PROFILE %q", cfg.VigieauProfile)
	}

	return cfg, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseCacheSize() int {
	if s := os.Getenv("GEOAPI_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}

// parseHome reads HOME_LATITUDE and HOME_LONGITUDE. Both or neither must be set.
func parseHome() (lat, lon float64, ok bool, err error) {
	latStr, lonStr := os.Getenv("HOME_LATITUDE"), os.Getenv("HOME_LONGITUDE")
	if latStr == "" && lonStr == "" {
		return 0, 0, false, nil
	}
	if latStr == "" || lonStr == "" {
		return 0, 0, false, errors.New("HOME_LATITUDE and HOME_LONGITUDE must be set together")
	}
	lat, err = strconv.ParseFloat(latStr, 64)
	if err != nil || lat < -90 || lat > 90 {
		return 0, 0, false, errors.New("invalid HOME_LATITUDE")
	}
	lon, err = strconv.ParseFloat(lonStr, 64)
	if err != nil || lon < -180 || lon > 180 {
		return 0, 0, false, errors.New("invalid HOME_LONGITUDE")
	}
	return lat, lon, true, nil
}
