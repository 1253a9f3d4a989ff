package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultBroker = "localhost:9092"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "water-restriction-states", cfg.KafkaSinkTopic)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "https://api.vigieau.gouv.fr", cfg.VigieauBaseURL)
	assert.Equal(t, "particulier", cfg.VigieauProfile)
	assert.Equal(t, 30*time.Second, cfg.VigieauTimeout)
	assert.False(t, cfg.VigieauForceFail)
	assert.Equal(t, "https://api-adresse.data.gouv.fr", cfg.GeoAPIBaseURL)
	assert.Equal(t, 5*time.Second, cfg.GeoAPITimeout)
	assert.Equal(t, 1000, cfg.GeoAPICacheSize)
	assert.False(t, cfg.HomeConfigured)
	assert.Equal(t, "entry.yaml", cfg.EntryFile)
	assert.Equal(t, "snapshots.db", cfg.SnapshotDB)
	assert.Equal(t, "@hourly", cfg.RefreshSchedule)
	assert.Equal(t, "SUP", cfg.DefaultZoneType)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_SINK_TOPIC", "custom-sink")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("VIGIEAU_BASE_URL", "http://vigieau.local")
	t.Setenv("VIGIEAU_PROFILE", "exploitation")
	t.Setenv("VIGIEAU_TIMEOUT", "1m")
	t.Setenv("VIGIEAU_APIFAIL", "1")
	t.Setenv("GEOAPI_BASE_URL", "http://geo.local")
	t.Setenv("GEOAPI_TIMEOUT", "10s")
	t.Setenv("GEOAPI_CACHE_SIZE", "500")
	t.Setenv("HOME_LATITUDE", "48.4469")
	t.Setenv("HOME_LONGITUDE", "1.4892")
	t.Setenv("ENTRY_FILE", "/data/entry.yaml")
	t.Setenv("SNAPSHOT_DB", "/data/snapshots.db")
	t.Setenv("REFRESH_SCHEDULE", "*/30 * * * *")
	t.Setenv("DEFAULT_ZONE_TYPE", "SOU")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-sink", cfg.KafkaSinkTopic)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "http://vigieau.local", cfg.VigieauBaseURL)
	assert.Equal(t, "exploitation", cfg.VigieauProfile)
	assert.Equal(t, time.Minute, cfg.VigieauTimeout)
	assert.True(t, cfg.VigieauForceFail)
	assert.Equal(t, "http://geo.local", cfg.GeoAPIBaseURL)
	assert.Equal(t, 10*time.Second, cfg.GeoAPITimeout)
	assert.Equal(t, 500, cfg.GeoAPICacheSize)
	assert.True(t, cfg.HomeConfigured)
	assert.InDelta(t, 48.4469, cfg.HomeLatitude, 1e-9)
	assert.InDelta(t, 1.4892, cfg.HomeLongitude, 1e-9)
	assert.Equal(t, "/data/entry.yaml", cfg.EntryFile)
	assert.Equal(t, "/data/snapshots.db", cfg.SnapshotDB)
	assert.Equal(t, "*/30 * * * *", cfg.RefreshSchedule)
	assert.Equal(t, "SOU", cfg.DefaultZoneType)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidVigieauTimeout(t *testing.T) {
	t.Setenv("VIGIEAU_TIMEOUT", "-5s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "VIGIEAU_TIMEOUT")
}

func TestLoad_InvalidGeoAPITimeout(t *testing.T) {
	t.Setenv("GEOAPI_TIMEOUT", "bad")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEOAPI_TIMEOUT")
}

func TestLoad_InvalidCacheSizeFallsBackToDefault(t *testing.T) {
	t.Setenv("GEOAPI_CACHE_SIZE", "-3")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.GeoAPICacheSize)
}

func TestLoad_HomeLatitudeWithoutLongitude(t *testing.T) {
	t.Setenv("HOME_LATITUDE", "48.1")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HOME_LONGITUDE")
}

func TestLoad_HomeOutOfRange(t *testing.T) {
	tests := []struct {
		name string
		lat  string
		lon  string
		want string
	}{
		{"latitude too large", "91", "2.3", "HOME_LATITUDE"},
		{"latitude not a number", "north", "2.3", "HOME_LATITUDE"},
		{"longitude too small", "48.8", "-181", "HOME_LONGITUDE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HOME_LATITUDE", tt.lat)
			t.Setenv("HOME_LONGITUDE", tt.lon)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_InvalidZoneType(t *testing.T) {
	t.Setenv("DEFAULT_ZONE_TYPE", "XYZ")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DEFAULT_ZONE_TYPE")
}

func TestLoad_InvalidProfile(t *testing.T) {
	t.Setenv("VIGIEAU_PROFILE", "tourist")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "VIGIEAU_PROFILE")
}
