package domain

import "time"

// Entity kinds published to the sink.
const (
	EntityKindCategory   = "category"
	EntityKindAlertLevel = "alert_level"
)

// EntityState is the presentation-layer view of one output: a category
// state or the zone alert level, keyed by a stable unique id.
type EntityState struct {
	UniqueID   string            `json:"unique_id"`
	Kind       string            `json:"kind"`
	Key        string            `json:"key"`
	Name       string            `json:"name"`
	DeviceID   string            `json:"device_id"`
	DeviceName string            `json:"device_name"`
	State      *string           `json:"state"`
	Ordinal    *int              `json:"ordinal,omitempty"`
	Icon       string            `json:"icon,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	UpdatedAt  time.Time         `json:"updated_at"`
}
