package domain

import "regexp"

// CategoryDefinition is one displayed restriction category.
type CategoryDefinition struct {
	// Key is stable across releases: entity unique ids are derived from it.
	Key  string
	Name string
	Icon string
	// Matchers are case-insensitive regular expressions evaluated against
	// "<usage name>|<theme>".
	Matchers []string
}

// Catalog lists the categories in display order. Order does not imply
// priority: a usage may match several categories.
//
// Matchers are maintained from the usage wordings observed in published
// orders; run cmd/usagecheck against a fresh usage dump to find gaps.
var Catalog = []CategoryDefinition{
	{
		Key:  "fountains",
		Name: "Alimentation des fontaines",
		Icon: "mdi:fountain",
		Matchers: []string{
			`fontaine`,
			`jets? d['’]eau`,
		},
	},
	{
		Key:  "potagers",
		Name: "Arrosage des jardins potagers",
		Icon: "mdi:watering-can",
		Matchers: []string{
			`potager`,
			`jardins? familia`,
			`jardins? partagé`,
			`arrosage.*(légumes|fruits)`,
		},
	},
	{
		Key:  "lawn",
		Name: "Arrosage des pelouses",
		Icon: "mdi:sprinkler-variant",
		Matchers: []string{
			`pelouse`,
			`massifs? fleuri`,
			`jardins? d['’]agrément`,
			`espaces? verts?`,
			`gazon`,
		},
	},
	{
		Key:  "public_green",
		Name: "Arrosage des espaces publics",
		Icon: "mdi:flower",
		Matchers: []string{
			`cimetière`,
			`espaces? (verts? )?publics?`,
			`ronds?-points?`,
			`jardinières`,
			`jeunes plantations`,
		},
	},
	{
		Key:  "golfs",
		Name: "Arrosage des golfs",
		Icon: "mdi:golf",
		Matchers: []string{
			`golf`,
		},
	},
	{
		Key:  "sports_grounds",
		Name: "Arrosage des terrains de sport",
		Icon: "mdi:soccer-field",
		Matchers: []string{
			`terrains? de sports?`,
			`stades?\b`,
			`hippodrome`,
			`terrains? d['’](équitation|entraînement)`,
			`carrières? équestre`,
		},
	},
	{
		Key:  "roads",
		Name: "Nettoyage des voiries",
		Icon: "mdi:road",
		Matchers: []string{
			`voirie`,
			`trottoir`,
			`chaussée`,
			`voies? publiques?`,
		},
	},
	{
		Key:  "facades",
		Name: "Nettoyage des façades et toitures",
		Icon: "mdi:home-roof",
		Matchers: []string{
			`façade`,
			`toiture`,
			`terrasse`,
			`surfaces? imperméabilisée`,
			`murs?\b`,
		},
	},
	{
		Key:  "car_wash",
		Name: "Lavage des véhicules",
		Icon: "mdi:car-wash",
		Matchers: []string{
			`lavage.*véhicule`,
			`stations? de lavage`,
			`nettoyage.*(véhicule|bateau|engin)`,
			`lavage.*(bateau|engin)`,
		},
	},
	{
		Key:  "pool",
		Name: "Remplissage des piscines privées",
		Icon: "mdi:pool",
		Matchers: []string{
			`piscine`,
			`\bspas?\b`,
			`bains? à remous`,
		},
	},
	{
		Key:  "ponds",
		Name: "Remplissage et vidange des plans d'eau",
		Icon: "mdi:waves",
		Matchers: []string{
			`(remplissage|vidange|création|alimentation)[^|]*plans? d['’]eau`,
			`^plans? d['’]eau`,
			`étangs?`,
			`\bmares?\b`,
			`retenues? (collinaire|d['’]eau)`,
		},
	},
	{
		Key:  "river_works",
		Name: "Travaux en cours d'eau",
		Icon: "mdi:excavator",
		Matchers: []string{
			`travaux.*cours d['’]eau`,
			`travaux.*rivière`,
			`curage`,
			`faucardage`,
			`franchissement`,
		},
	},
	{
		Key:  "river_rate",
		Name: "Manœuvre des ouvrages hydrauliques",
		Icon: "mdi:hydro-power",
		Matchers: []string{
			`man(œ|oe)uvre`,
			`vannes?\b`,
			`biefs?\b`,
			`ouvrages? hydraulique`,
			`moulin`,
			`hydro-?électri`,
		},
	},
	{
		Key:  "navigation",
		Name: "Navigation fluviale et sports nautiques",
		Icon: "mdi:ferry",
		Matchers: []string{
			`navigation`,
			`nautique`,
			`éclus`,
			`cano(ë|e)|kayak`,
		},
	},
	{
		Key:  "canals",
		Name: "Prélèvements en canaux",
		Icon: "mdi:water-pump",
		Matchers: []string{
			`canaux`,
			`\bcanal\b`,
			`béal`,
			`rigoles?\b`,
		},
	},
	{
		Key:  "irrigation",
		Name: "Irrigation agricole",
		Icon: "mdi:tractor",
		Matchers: []string{
			`irrigation`,
			`agricol`,
			`maraîch`,
			`pépini`,
			`horticol`,
			`cultures? (agricoles?|irrigu|maraîch|légumi|céréal)`,
		},
	},
	{
		Key:  "livestock",
		Name: "Abreuvement des animaux",
		Icon: "mdi:cow",
		Matchers: []string{
			`abreuv`,
			`animaux`,
			`élevage`,
			`bétail`,
		},
	},
	{
		Key:  "industry",
		Name: "Prélèvements industriels",
		Icon: "mdi:factory",
		Matchers: []string{
			`industri`,
			`\bICPE\b`,
			`installations? classées?`,
			`activités? économique`,
			`exploitations? de carrières?`,
			`carrières? (de granulats|d['’]extraction|et gravières)`,
			`gravières?`,
		},
	},
	{
		Key:  "network_purge",
		Name: "Purge et essais des réseaux",
		Icon: "mdi:fire-hydrant",
		Matchers: []string{
			`poteaux? incendie`,
			`purge`,
			`essais?.*réseau`,
			`défense incendie`,
		},
	},
	{
		Key:  "domestic",
		Name: "Prélèvements domestiques",
		Icon: "mdi:home-flood",
		Matchers: []string{
			`domestique`,
			`puits`,
			`forages?\b`,
			`récupérat.*pluie`,
		},
	},
	{
		Key:  "snow",
		Name: "Production de neige de culture",
		Icon: "mdi:snowflake",
		Matchers: []string{
			`neige`,
		},
	},
	{
		Key:  "discharges",
		Name: "Rejets et assainissement",
		Icon: "mdi:pipe-leak",
		Matchers: []string{
			`rejets?\b`,
			`assainissement`,
			`stations? d['’]épuration`,
			`\bSTEP\b`,
		},
	},
}

type compiledCategory struct {
	key      string
	matchers []*regexp.Regexp
}

// compiledCatalog mirrors Catalog with matchers compiled once at init.
var compiledCatalog = compileCatalog(Catalog)

func compileCatalog(defs []CategoryDefinition) []compiledCategory {
	out := make([]compiledCategory, len(defs))
	for i, def := range defs {
		c := compiledCategory{key: def.Key, matchers: make([]*regexp.Regexp, len(def.Matchers))}
		for j, m := range def.Matchers {
			c.matchers[j] = regexp.MustCompile(`(?i)` + m)
		}
		out[i] = c
	}
	return out
}

// CategoryByKey looks up a catalog entry.
func CategoryByKey(key string) (CategoryDefinition, bool) {
	for _, def := range Catalog {
		if def.Key == key {
			return def, true
		}
	}
	return CategoryDefinition{}, false
}
