package domain

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// usagePool mixes wordings the catalog knows with ones it does not.
var usagePool = []RestrictionRecord{
	{UsageName: "Arrosage des pelouses", Theme: "Arrosage", SeverityText: "Interdiction"},
	{UsageName: "Arrosage des jardins potagers", Theme: "Arrosage", SeverityText: "Interdiction sur plage horaire"},
	{UsageName: "Remplissage des piscines privées", Theme: "Remplissage vidange", SeverityText: "Interdiction sauf exception"},
	{UsageName: "Lavage des véhicules", Theme: "Nettoyage", SeverityText: "Réduction de prélèvement"},
	{UsageName: "Irrigation des cultures", Theme: "Irrigation", SeverityText: "Sensibilisation"},
	{UsageName: "Utilisation des brumisateurs", Theme: "Autre", SeverityText: "Interdiction"},
	{UsageName: "Lâcher de lanternes", Theme: "Autre", SeverityText: "Mesure locale"},
}

func genRecords() gopter.Gen {
	return gen.SliceOf(gen.IntRange(0, len(usagePool)-1)).Map(func(idx []int) []RestrictionRecord {
		out := make([]RestrictionRecord, len(idx))
		for i, j := range idx {
			out[i] = usagePool[j]
		}
		return out
	})
}

func newProperties(minSuccessful int) *gopter.Properties {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = minSuccessful
	return gopter.NewProperties(parameters)
}

func TestClassifyProperties(t *testing.T) {
	properties := newProperties(200)

	properties.Property("classification is deterministic", prop.ForAll(
		func(records []RestrictionRecord) bool {
			return cmp.Diff(Classify(records), Classify(records)) == ""
		},
		genRecords(),
	))

	properties.Property("every record is either matched or unclassified", prop.ForAll(
		func(records []RestrictionRecord) bool {
			result := Classify(records)
			matched := 0
			for _, rec := range records {
				found := false
				for _, recs := range result.Matches {
					for _, r := range recs {
						if r == rec {
							found = true
						}
					}
				}
				if found {
					matched++
				}
			}
			for _, rec := range result.Unclassified {
				for _, recs := range result.Matches {
					for _, r := range recs {
						if r == rec {
							return false
						}
					}
				}
			}
			return matched+len(result.Unclassified) == len(records)
		},
		genRecords(),
	))

	properties.TestingRun(t)
}

func TestSeverityProperties(t *testing.T) {
	properties := newProperties(200)

	properties.Property("a ban outranks a withdrawal reduction", prop.ForAll(
		func(bans, reductions int, banFirst bool) bool {
			var texts []string
			ban := make([]string, bans)
			for i := range ban {
				ban[i] = "Interdiction"
			}
			red := make([]string, reductions)
			for i := range red {
				red[i] = "Réduction de prélèvement"
			}
			if banFirst {
				texts = append(ban, red...)
			} else {
				texts = append(red, ban...)
			}
			label, err := SeverityLabel(texts)
			return err == nil && label == LabelBan
		},
		gen.IntRange(1, 5),
		gen.IntRange(0, 5),
		gen.Bool(),
	))

	properties.Property("a single unrecognised text passes through", prop.ForAll(
		func(code string, copies int) bool {
			text := "mesure " + code
			texts := make([]string, copies)
			for i := range texts {
				texts[i] = text
			}
			label, err := SeverityLabel(texts)
			return err == nil && label == text
		},
		gen.NumString(),
		gen.IntRange(1, 4),
	))

	properties.Property("distinct unrecognised texts are indeterminate", prop.ForAll(
		func(a, b string) bool {
			_, err := SeverityLabel([]string{"mesure a" + a, "mesure b" + b})
			return errors.Is(err, ErrIndeterminateSeverity)
		},
		gen.NumString(),
		gen.NumString(),
	))

	properties.TestingRun(t)
}

func TestGlobalProperties(t *testing.T) {
	properties := newProperties(50)

	properties.Property("canonical labels map back to their ordinal", prop.ForAll(
		func(ordinal int) bool {
			label, ok := LabelForOrdinal(ordinal)
			if !ok {
				return false
			}
			g, err := MapGlobal(label)
			return err == nil && g.Ordinal == ordinal && g.Label == label
		},
		gen.IntRange(0, MaxOrdinal),
	))

	properties.Property("ordinals grow with strictness", prop.ForAll(
		func(a, b int) bool {
			la, _ := LabelForOrdinal(a)
			lb, _ := LabelForOrdinal(b)
			ga, errA := MapGlobal(la)
			gb, errB := MapGlobal(lb)
			if errA != nil || errB != nil {
				return false
			}
			return (a < b) == (ga.Ordinal < gb.Ordinal)
		},
		gen.IntRange(0, MaxOrdinal),
		gen.IntRange(0, MaxOrdinal),
	))

	properties.TestingRun(t)
}
