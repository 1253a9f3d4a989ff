package domain

import "time"

// Zone types accepted by the VigiEau zone query.
const (
	ZoneTypeSurface     = "SUP"
	ZoneTypeGroundwater = "SOU"
	ZoneTypeDrinking    = "AEP"
)

// ZoneTypeName returns the display name of a zone type.
func ZoneTypeName(zoneType string) string {
	switch zoneType {
	case ZoneTypeSurface:
		return "Eaux de surface"
	case ZoneTypeDrinking:
		return "Alimentation en eau potable"
	case ZoneTypeGroundwater:
		return "Eaux souterraines"
	default:
		return "Zone inconnue"
	}
}

// ZoneQuery identifies the location whose restriction zone is requested.
type ZoneQuery struct {
	Lat      float64
	Lon      float64
	CityCode string
	Profile  string // particulier, entreprise, collectivite or exploitation
	ZoneType string
}

// RestrictionRecord is one regulated usage of a restriction order.
type RestrictionRecord struct {
	UsageName       string `json:"nom"`
	Theme           string `json:"thematique"`
	SeverityText    string `json:"description"`
	Details         string `json:"details,omitempty"`
	TimeWindowStart string `json:"heureDebut,omitempty"` // "HH:MM"
	TimeWindowEnd   string `json:"heureFin,omitempty"`   // "HH:MM"
}

// matchKey is the composite string category matchers run against.
func (r RestrictionRecord) matchKey() string {
	return r.UsageName + "|" + r.Theme
}

// timeWindow returns the record's banned hours when both ends are present.
func (r RestrictionRecord) timeWindow() (TimeWindow, bool) {
	if r.TimeWindowStart == "" || r.TimeWindowEnd == "" {
		return TimeWindow{}, false
	}
	return TimeWindow{Start: r.TimeWindowStart, End: r.TimeWindowEnd}, true
}

// TimeWindow is a daily interval during which a usage is banned.
type TimeWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ZoneReport is the restriction data for one queried location and cycle.
type ZoneReport struct {
	ZoneID             string              `json:"zone_id,omitempty"`
	ZoneType           string              `json:"zone_type,omitempty"`
	ZoneName           string              `json:"zone_name,omitempty"`
	Department         string              `json:"department,omitempty"`
	SeverityLabel      string              `json:"severity_label,omitempty"` // raw "niveauGravite"
	OrderFile          string              `json:"order_file,omitempty"`
	FrameworkOrderFile string              `json:"framework_order_file,omitempty"`
	Records            []RestrictionRecord `json:"records,omitempty"`

	// NoActiveOrder is set when the source has no order in force for the location.
	NoActiveOrder bool `json:"no_active_order,omitempty"`
}

// CategorySeverity is the aggregated state of one catalog category.
type CategorySeverity struct {
	Key   string  `json:"key"`
	Label *string `json:"label"` // nil when withheld for the cycle

	// Restrictions maps usage name to its raw restriction text.
	Restrictions map[string]string `json:"restrictions,omitempty"`
	// Details maps usage name to the optional prose of the order.
	Details map[string]string `json:"details,omitempty"`

	// TimeWindow is set when every time-restricted usage shares one window.
	TimeWindow *TimeWindow `json:"time_window,omitempty"`
	// UsageTimeWindows is set instead when usages disagree on their windows.
	UsageTimeWindows map[string]TimeWindow `json:"usage_time_windows,omitempty"`
}

// UnclassifiedUsage is the diagnostic raised for a usage no category matched.
type UnclassifiedUsage struct {
	ZoneID    string `json:"zone_id,omitempty"`
	CityCode  string `json:"insee code"`
	UsageName string `json:"nom"`
	Theme     string `json:"thematique,omitempty"`
}

// Snapshot is the full output of one refresh cycle.
type Snapshot struct {
	EntryID            string              `json:"entry_id"`
	CityCode           string              `json:"city_code"`
	ZoneID             string              `json:"zone_id,omitempty"`
	ZoneType           string              `json:"zone_type,omitempty"`
	Global             GlobalSeverity      `json:"global"`
	Categories         []CategorySeverity  `json:"categories"`
	Unclassified       []UnclassifiedUsage `json:"unclassified,omitempty"`
	UsageNames         []string            `json:"usage_names,omitempty"`
	OrderFile          string              `json:"order_file,omitempty"`
	FrameworkOrderFile string              `json:"framework_order_file,omitempty"`
	ProcessedAt        time.Time           `json:"processed_at"`
}

// Category returns the aggregated state for key.
func (s Snapshot) Category(key string) (CategorySeverity, bool) {
	for _, c := range s.Categories {
		if c.Key == key {
			return c, true
		}
	}
	return CategorySeverity{}, false
}
