package domain

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// LabelNoActiveOrder is the global label when no order is in force.
const LabelNoActiveOrder = "Aucune restriction en vigueur"

// GlobalSeverity is the overall alert level of a zone. Ordinal grows with
// the strictness of the regime; 0 means no restriction in force.
type GlobalSeverity struct {
	Label   string `json:"label"`
	Ordinal int    `json:"ordinal"`
	Icon    string `json:"icon"`
}

type alertLevel struct {
	label string
	icon  string
}

// alertLevels is indexed by ordinal.
var alertLevels = []alertLevel{
	{label: "Pas de restriction", icon: "mdi:water"},
	{label: "Vigilance", icon: "mdi:water-check"},
	{label: "Alerte", icon: "mdi:water-alert"},
	{label: "Alerte renforcée", icon: "mdi:water-remove"},
	{label: "Crise", icon: "mdi:water-off"},
}

// MaxOrdinal is the strictest alert level.
const MaxOrdinal = 4

// alertOrdinals maps normalized labels to ordinals.
var alertOrdinals = map[string]int{
	"pas_de_restriction":  0,
	"pas_de_restrictions": 0,
	"aucune_restriction":  0,
	"vigilance":           1,
	"alerte":              2,
	"alerte_renforcee":    3,
	"crise":               4,
}

// MapGlobal maps a zone alert label to its ordinal. Matching ignores case,
// accents and the separator used between words. Unknown labels fail with
// ErrUnknownGlobalSeverity.
func MapGlobal(raw string) (GlobalSeverity, error) {
	ordinal, ok := alertOrdinals[normalizeLabel(raw)]
	if !ok {
		return GlobalSeverity{}, fmt.Errorf("%w: %q", ErrUnknownGlobalSeverity, raw)
	}
	return severityForOrdinal(ordinal), nil
}

// NoActiveOrder is the global severity when the source reports no order for
// the location.
func NoActiveOrder() GlobalSeverity {
	return GlobalSeverity{Label: LabelNoActiveOrder, Ordinal: 0, Icon: alertLevels[0].icon}
}

// LabelForOrdinal returns the canonical label of an ordinal.
func LabelForOrdinal(ordinal int) (string, bool) {
	if ordinal < 0 || ordinal > MaxOrdinal {
		return "", false
	}
	return alertLevels[ordinal].label, true
}

func severityForOrdinal(ordinal int) GlobalSeverity {
	lvl := alertLevels[ordinal]
	return GlobalSeverity{Label: lvl.label, Ordinal: ordinal, Icon: lvl.icon}
}

// normalizeLabel strips accents, lower-cases and joins words with "_",
// e.g. "Alerte renforcée" and "alerte_renforcee" both give "alerte_renforcee".
func normalizeLabel(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	words := strings.FieldsFunc(strings.ToLower(stripped), func(r rune) bool {
		return unicode.IsSpace(r) || r == '_' || r == '-'
	})
	return strings.Join(words, "_")
}
