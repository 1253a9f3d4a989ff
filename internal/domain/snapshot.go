package domain

import (
	"encoding/json"
	"log/slog"
)

// BuildSnapshot runs one classification and aggregation pass over a zone
// report. Unclassified usages and withheld categories are logged and the pass
// continues. An unknown zone alert level returns the partially built snapshot
// together with an error wrapping ErrUnknownGlobalSeverity.
func BuildSnapshot(report ZoneReport, entryID, cityCode string, logger *slog.Logger) (Snapshot, error) {
	snap := Snapshot{
		EntryID:            entryID,
		CityCode:           cityCode,
		ZoneID:             report.ZoneID,
		ZoneType:           report.ZoneType,
		OrderFile:          report.OrderFile,
		FrameworkOrderFile: report.FrameworkOrderFile,
		ProcessedAt:        clock.Now(),
	}

	classified := Classify(report.Records)
	snap.Unclassified = classified.Diagnostics(report.ZoneID, cityCode)
	for _, u := range snap.Unclassified {
		payload, _ := json.Marshal(u)
		logger.Warn("restriction usage unknown to the category catalog, please report it",
			"zone_id", report.ZoneID,
			"usage", u.UsageName,
			"report", string(payload),
		)
	}

	snap.Categories = make([]CategorySeverity, 0, len(Catalog))
	for _, def := range Catalog {
		cs, err := Aggregate(def.Key, classified.Matches[def.Key])
		if err != nil {
			logger.Warn("category severity withheld",
				"zone_id", report.ZoneID,
				"category", def.Key,
				"error", err,
			)
		}
		snap.Categories = append(snap.Categories, cs)
	}

	snap.UsageNames = make([]string, 0, len(report.Records))
	for _, rec := range report.Records {
		snap.UsageNames = append(snap.UsageNames, rec.UsageName)
	}

	if report.NoActiveOrder {
		snap.Global = NoActiveOrder()
		return snap, nil
	}
	global, err := MapGlobal(report.SeverityLabel)
	if err != nil {
		return snap, err
	}
	snap.Global = global
	return snap, nil
}

// Withheld returns the keys of categories whose label could not be derived.
func (s Snapshot) Withheld() []string {
	var keys []string
	for _, c := range s.Categories {
		if c.Label == nil {
			keys = append(keys, c.Key)
		}
	}
	return keys
}
