// Package domain models French drought-regulation data published by VigiEau
// and turns it into per-category restriction states.
//
// # Data Source
//
// Restriction orders ("arrêtés sécheresse") are published by the VigiEau
// service at https://api.vigieau.gouv.fr. A zone query by coordinates, INSEE
// commune code, profile and zone type returns the active order for the zone,
// its overall alert level ("niveauGravite") and the list of regulated usages.
// A 404 answer means no order is in force for the location.
//
// # VigiEau Data Conventions
//
// Usage entries:
//
//	{"nom": "Arrosage des jardins potagers", "thematique": "Arrosage",
//	 "description": "Interdiction sur plage horaire",
//	 "heureDebut": "09:00", "heureFin": "20:00"}
//
//	"nom" names the regulated usage, "thematique" groups usages, "description"
//	is the free-text restriction level. "details" is optional prose. Time
//	windows are local "HH:MM" strings and only meaningful when both ends exist.
//
// Alert levels (case, accents and separators vary between releases):
//
//	vigilance | alerte | alerte renforcée | crise
//
// Zone types:
//
//	SUP surface water, SOU groundwater, AEP drinking water supply.
//
// # Classification
//
// Usage wording is not a closed vocabulary: departments phrase the same
// restriction differently. Each usage is matched against "<nom>|<thematique>"
// with the case-insensitive patterns of the [Catalog]. A usage may feed
// several categories. Usages no pattern recognises are reported, never
// dropped silently. See [Classify].
//
// # Severity Aggregation
//
// A category collects the restriction texts of every usage it matched and
// reduces them to one label through the ordered rules of [Aggregate]: the
// most restrictive recognised phrasing wins.
package domain
