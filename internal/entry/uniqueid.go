package entry

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/couchcryptid/water-restriction-etl/internal/domain"
)

const uniqueIDPrefix = "sensor-vigieau-"

// DeviceName is the display name of the device grouping an entry's entities.
func (e Entry) DeviceName() string {
	return fmt.Sprintf("VigiEau %s %s", e.Data.City, domain.ZoneTypeName(e.Data.ZoneType))
}

// CategoryEntityName is the entity name a category had before names became
// static; it is part of the unique id of entries migrated from version 3.
func (e Entry) CategoryEntityName(def domain.CategoryDefinition) string {
	return fmt.Sprintf("%s_restrictions_%s", def.Name, e.Data.City)
}

// AlertLevelEntityName is the name of the zone alert level entity.
func (e Entry) AlertLevelEntityName() string {
	return "Alert level in " + e.Data.City
}

// CategoryUniqueID derives the unique id of a category entity. The earliest
// migration marker present selects the historical format so that entities
// keep their identity across upgrades.
func (e Entry) CategoryUniqueID(def domain.CategoryDefinition) string {
	d := e.Data
	switch {
	case d.MigratedFromVersion1:
		return uniqueIDPrefix + def.Key
	case d.MigratedFromVersion3:
		return fmt.Sprintf("%s%s-%s-%s-%s", uniqueIDPrefix,
			e.CategoryEntityName(def), d.CityCode, formatCoord(d.Latitude), formatCoord(d.Longitude))
	case d.MigratedFromVersion5:
		return fmt.Sprintf("%s%s-%s-%s-%s", uniqueIDPrefix,
			def.Key, d.CityCode, formatCoord(d.Latitude), formatCoord(d.Longitude))
	default:
		return fmt.Sprintf("%s%s-%s-%s-%s-%s", uniqueIDPrefix,
			def.Key, d.CityCode, formatCoord(d.Latitude), formatCoord(d.Longitude), d.ZoneType)
	}
}

// AlertLevelUniqueID derives the unique id of the alert level entity. The
// version 3 marker never changed this id.
func (e Entry) AlertLevelUniqueID() string {
	d := e.Data
	switch {
	case d.MigratedFromVersion1:
		return uniqueIDPrefix + "Alert level"
	case d.MigratedFromVersion5:
		return fmt.Sprintf("%s%s-%s", uniqueIDPrefix, e.AlertLevelEntityName(), d.CityCode)
	default:
		return fmt.Sprintf("%s%s-%s-%s", uniqueIDPrefix, e.AlertLevelEntityName(), d.CityCode, d.ZoneType)
	}
}

// formatCoord renders a coordinate the way historical ids did, "None" when absent.
func formatCoord(v *float64) string {
	if v == nil {
		return "None"
	}
	s := strconv.FormatFloat(*v, 'f', -1, 64)
	if strings.Contains(s, ".") {
		return s
	}
	return s + ".0"
}
