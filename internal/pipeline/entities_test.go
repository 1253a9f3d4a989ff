package pipeline

import (
	"testing"
	"time"

	"github.com/couchcryptid/water-restriction-etl/internal/domain"
	"github.com/couchcryptid/water-restriction-etl/internal/entry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func entitiesEntry() entry.Entry {
	lat, lon := 43.6047, 1.4442
	return entry.Entry{
		ID:      "entry-1",
		Version: entry.CurrentVersion,
		Data: entry.Data{
			CityCode:  "31555",
			City:      "Toulouse",
			DeviceID:  "device-1",
			Latitude:  &lat,
			Longitude: &lon,
			ZoneType:  domain.ZoneTypeSurface,
		},
	}
}

func TestEntityStates_AlertLevel(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	snap := domain.Snapshot{
		Global:             domain.GlobalSeverity{Label: "Alerte", Ordinal: 2, Icon: "mdi:water-alert"},
		UsageNames:         []string{"Arrosage des pelouses", "Lavage de véhicules"},
		OrderFile:          "https://example.org/a.pdf",
		FrameworkOrderFile: "https://example.org/cadre.pdf",
		ProcessedAt:        now,
	}

	states := EntityStates(entitiesEntry(), snap)
	require.Len(t, states, 1)

	alert := states[0]
	assert.Equal(t, "sensor-vigieau-Alert level in Toulouse-31555-SUP", alert.UniqueID)
	assert.Equal(t, "Alert level in Toulouse", alert.Name)
	assert.Equal(t, "VigiEau Toulouse Eaux de surface", alert.DeviceName)
	assert.Equal(t, "device-1", alert.DeviceID)
	assert.Equal(t, "Alerte", *alert.State)
	assert.Equal(t, 2, *alert.Ordinal)
	assert.Equal(t, "mdi:water-alert", alert.Icon)
	assert.Equal(t, now, alert.UpdatedAt)
	assert.Equal(t, map[string]string{
		"current_restrictions": "Arrosage des pelouses, Lavage de véhicules",
		"source":               "https://example.org/a.pdf",
		"source2":              "https://example.org/cadre.pdf",
	}, alert.Attributes)
}

func TestEntityStates_CategorySharedWindow(t *testing.T) {
	snap := domain.Snapshot{
		Global: domain.NoActiveOrder(),
		Categories: []domain.CategorySeverity{{
			Key:          "lawn",
			Label:        strPtr(domain.LabelTimeWindowBan),
			Restrictions: map[string]string{"Arrosage des pelouses": "Interdiction sur plage horaire"},
			Details:      map[string]string{"Arrosage des pelouses": "De 8h à 20h"},
			TimeWindow:   &domain.TimeWindow{Start: "08:00", End: "20:00"},
		}},
	}

	states := EntityStates(entitiesEntry(), snap)
	require.Len(t, states, 2)

	lawn := states[1]
	def, _ := domain.CategoryByKey("lawn")
	assert.Equal(t, "sensor-vigieau-lawn-31555-43.6047-1.4442-SUP", lawn.UniqueID)
	assert.Equal(t, def.Name, lawn.Name)
	assert.Equal(t, def.Icon, lawn.Icon)
	assert.Equal(t, domain.LabelTimeWindowBan, *lawn.State)
	assert.Nil(t, lawn.Ordinal)
	assert.Equal(t, map[string]string{
		"Categorie: Arrosage des pelouses": "Interdiction sur plage horaire",
		"Arrosage des pelouses (details)":  "De 8h à 20h",
		"heureDebut":                       "08:00",
		"heureFin":                         "20:00",
	}, lawn.Attributes)
}

func TestEntityStates_CategoryPerUsageWindows(t *testing.T) {
	snap := domain.Snapshot{
		Global: domain.NoActiveOrder(),
		Categories: []domain.CategorySeverity{{
			Key:   "car_wash",
			Label: strPtr(domain.LabelTimeWindowBan),
			Restrictions: map[string]string{
				"Lavage A": "Interdiction sur plage horaire",
				"Lavage B": "Interdiction sur plage horaire",
			},
			UsageTimeWindows: map[string]domain.TimeWindow{
				"Lavage A": {Start: "08:00", End: "20:00"},
				"Lavage B": {Start: "10:00", End: "18:00"},
			},
		}},
	}

	states := EntityStates(entitiesEntry(), snap)
	require.Len(t, states, 2)

	attrs := states[1].Attributes
	assert.Equal(t, "08:00", attrs["Lavage A (heureDebut)"])
	assert.Equal(t, "20:00", attrs["Lavage A (heureFin)"])
	assert.Equal(t, "10:00", attrs["Lavage B (heureDebut)"])
	assert.Equal(t, "18:00", attrs["Lavage B (heureFin)"])
	assert.NotContains(t, attrs, "heureDebut")
}

func TestEntityStates_WithheldCategorySkipped(t *testing.T) {
	snap := domain.Snapshot{
		Global: domain.NoActiveOrder(),
		Categories: []domain.CategorySeverity{
			{Key: "pool", Label: nil},
			{Key: "golfs", Label: strPtr(domain.LabelNoRestriction)},
		},
	}

	states := EntityStates(entitiesEntry(), snap)
	require.Len(t, states, 2)
	assert.Equal(t, "golfs", states[1].Key)
}

func TestEntityStates_LegacyUniqueIDs(t *testing.T) {
	e := entitiesEntry()
	e.Data.MigratedFromVersion1 = true
	snap := domain.Snapshot{
		Global:     domain.NoActiveOrder(),
		Categories: []domain.CategorySeverity{{Key: "pool", Label: strPtr(domain.LabelBan)}},
	}

	states := EntityStates(e, snap)
	require.Len(t, states, 2)
	assert.Equal(t, "sensor-vigieau-Alert level", states[0].UniqueID)
	assert.Equal(t, "sensor-vigieau-pool", states[1].UniqueID)
}
