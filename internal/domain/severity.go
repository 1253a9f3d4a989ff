package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// Category severity labels, most restrictive first.
const (
	LabelTimeWindowBan            = "Interdiction sur plage horaire"
	LabelBanExceptException       = "Interdiction sauf exception"
	LabelBan                      = "Interdiction"
	LabelBanExceptStrictNecessity = "Interdiction sauf strict nécessaire"
	LabelWithdrawalReduction      = "Réduction de prélèvement"
	LabelConsultOrder             = "Erreur: consulter l'arreté"
	LabelAllowedExceptException   = "Autorisé sauf exception"
	LabelAwareness                = "Sensibilisation"

	// LabelNoRestriction is the relaxed state of a category nothing matched.
	LabelNoRestriction = "Aucune restriction"
)

type severityRule struct {
	pattern *regexp.Regexp
	label   string
}

func rule(pattern, label string) severityRule {
	return severityRule{pattern: regexp.MustCompile(`(?i)` + pattern), label: label}
}

// severityRules is evaluated top-down. The first rule matched by any collected
// text decides the label.
var severityRules = []severityRule{
	rule(`interdiction sur plage horaire`, LabelTimeWindowBan),

	rule(`interdi.*sauf`, LabelBanExceptException),
	rule(`à l['’]exception`, LabelBanExceptException),
	rule(`à l['’]exclusion`, LabelBanExceptException),
	rule(`interdit.*dès lors`, LabelBanExceptException),

	rule(`interdi(ction|t)`, LabelBan),

	rule(`limitation au strict nécessaire`, LabelBanExceptStrictNecessity),

	rule(`réduction de prélèvement`, LabelWithdrawalReduction),

	rule(`consulter l['’]arrêté`, LabelConsultOrder),
	rule(`se référer à l['’]arrêté de restriction en cours de validité`, LabelConsultOrder),
	rule(`pas de restriction sauf arrêté spécifique`, LabelAllowedExceptException),
	rule(`sensibilis`, LabelAwareness),
}

// SeverityLabel reduces restriction texts to one label. An empty list yields
// LabelNoRestriction. Unrecognised texts pass through when there is only one
// distinct text; several distinct unrecognised texts are indeterminate.
func SeverityLabel(texts []string) (string, error) {
	if len(texts) == 0 {
		return LabelNoRestriction, nil
	}
	for _, r := range severityRules {
		for _, t := range texts {
			if r.pattern.MatchString(t) {
				return r.label, nil
			}
		}
	}

	distinct := dedupe(texts)
	if len(distinct) == 1 {
		return distinct[0], nil
	}
	return "", fmt.Errorf("%w: %q", ErrIndeterminateSeverity, distinct)
}

// Aggregate computes the state of one category from the records it matched.
// On error the returned value still carries per-usage attribution but its
// Label is nil and the category must be withheld for the cycle.
func Aggregate(key string, matched []RestrictionRecord) (CategorySeverity, error) {
	cs := CategorySeverity{Key: key}
	if len(matched) == 0 {
		label := LabelNoRestriction
		cs.Label = &label
		return cs, nil
	}

	cs.Restrictions = make(map[string]string, len(matched))
	texts := make([]string, 0, len(matched))
	windows := make(map[string]TimeWindow)
	var missing []string

	for _, rec := range matched {
		text := strings.TrimSpace(rec.SeverityText)
		if text == "" {
			missing = append(missing, rec.UsageName)
			continue
		}
		cs.Restrictions[rec.UsageName] = text
		texts = append(texts, text)

		if rec.Details != "" {
			if cs.Details == nil {
				cs.Details = make(map[string]string)
			}
			cs.Details[rec.UsageName] = rec.Details
		}
		if w, ok := rec.timeWindow(); ok {
			windows[rec.UsageName] = w
		}
	}

	cs.TimeWindow, cs.UsageTimeWindows = collapseWindows(windows)

	if len(missing) > 0 {
		return cs, fmt.Errorf("%w: usages %q", ErrMissingSeverity, missing)
	}

	label, err := SeverityLabel(texts)
	if err != nil {
		return cs, fmt.Errorf("category %s: %w", key, err)
	}
	cs.Label = &label
	return cs, nil
}

// collapseWindows exposes a single window when every usage agrees, and the
// per-usage windows otherwise.
func collapseWindows(windows map[string]TimeWindow) (*TimeWindow, map[string]TimeWindow) {
	if len(windows) == 0 {
		return nil, nil
	}
	var first TimeWindow
	seen := 0
	for _, w := range windows {
		if seen == 0 {
			first = w
		} else if w != first {
			return nil, windows
		}
		seen++
	}
	return &first, nil
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
