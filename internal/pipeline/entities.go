package pipeline

import (
	"strings"

	"github.com/couchcryptid/water-restriction-etl/internal/domain"
	"github.com/couchcryptid/water-restriction-etl/internal/entry"
)

// EntityStates projects a snapshot onto the published entities: one per
// catalog category plus the zone alert level. Withheld categories are left
// out so consumers keep their previous state.
func EntityStates(e entry.Entry, snap domain.Snapshot) []domain.EntityState {
	states := make([]domain.EntityState, 0, len(domain.Catalog)+1)
	states = append(states, alertLevelState(e, snap))

	for _, def := range domain.Catalog {
		cs, ok := snap.Category(def.Key)
		if !ok || cs.Label == nil {
			continue
		}
		label := *cs.Label
		states = append(states, domain.EntityState{
			UniqueID:   e.CategoryUniqueID(def),
			Kind:       domain.EntityKindCategory,
			Key:        def.Key,
			Name:       def.Name,
			DeviceID:   e.Data.DeviceID,
			DeviceName: e.DeviceName(),
			State:      &label,
			Icon:       def.Icon,
			Attributes: categoryAttributes(cs),
			UpdatedAt:  snap.ProcessedAt,
		})
	}
	return states
}

func alertLevelState(e entry.Entry, snap domain.Snapshot) domain.EntityState {
	label := snap.Global.Label
	ordinal := snap.Global.Ordinal

	attrs := map[string]string{
		"current_restrictions": strings.Join(snap.UsageNames, ", "),
	}
	if snap.OrderFile != "" {
		attrs["source"] = snap.OrderFile
	}
	if snap.FrameworkOrderFile != "" {
		attrs["source2"] = snap.FrameworkOrderFile
	}

	return domain.EntityState{
		UniqueID:   e.AlertLevelUniqueID(),
		Kind:       domain.EntityKindAlertLevel,
		Key:        "alert_level",
		Name:       e.AlertLevelEntityName(),
		DeviceID:   e.Data.DeviceID,
		DeviceName: e.DeviceName(),
		State:      &label,
		Ordinal:    &ordinal,
		Icon:       snap.Global.Icon,
		Attributes: attrs,
		UpdatedAt:  snap.ProcessedAt,
	}
}

func categoryAttributes(cs domain.CategorySeverity) map[string]string {
	attrs := make(map[string]string, len(cs.Restrictions)+len(cs.Details)+2)
	for usage, text := range cs.Restrictions {
		attrs["Categorie: "+usage] = text
	}
	for usage, details := range cs.Details {
		attrs[usage+" (details)"] = details
	}

	if cs.TimeWindow != nil {
		attrs["heureDebut"] = cs.TimeWindow.Start
		attrs["heureFin"] = cs.TimeWindow.End
		return attrs
	}
	for usage, w := range cs.UsageTimeWindows {
		attrs[usage+" (heureDebut)"] = w.Start
		attrs[usage+" (heureFin)"] = w.End
	}
	return attrs
}
