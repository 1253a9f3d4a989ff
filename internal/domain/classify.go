package domain

// ClassificationResult assigns restriction records to catalog categories.
type ClassificationResult struct {
	// Matches maps category key to the records it matched, in source order.
	// Categories without any match are absent.
	Matches map[string][]RestrictionRecord
	// Unclassified holds the records no category matched.
	Unclassified []RestrictionRecord
}

// Classify assigns every record to each catalog category whose matchers fire
// on "<usage name>|<theme>". It is a pure function of its input and Catalog.
func Classify(records []RestrictionRecord) ClassificationResult {
	return classify(records, compiledCatalog)
}

// ClassifyWith classifies against a caller-supplied catalog. Matchers that do
// not compile panic, as for the package catalog.
func ClassifyWith(records []RestrictionRecord, defs []CategoryDefinition) ClassificationResult {
	return classify(records, compileCatalog(defs))
}

func classify(records []RestrictionRecord, catalog []compiledCategory) ClassificationResult {
	result := ClassificationResult{Matches: make(map[string][]RestrictionRecord)}
	for _, rec := range records {
		key := rec.matchKey()
		found := false
		for _, cat := range catalog {
			if !cat.matches(key) {
				continue
			}
			result.Matches[cat.key] = append(result.Matches[cat.key], rec)
			found = true
		}
		if !found {
			result.Unclassified = append(result.Unclassified, rec)
		}
	}
	return result
}

func (c compiledCategory) matches(key string) bool {
	for _, re := range c.matchers {
		if re.MatchString(key) {
			return true
		}
	}
	return false
}

// Diagnostics builds the operator diagnostics for records no category matched.
func (r ClassificationResult) Diagnostics(zoneID, cityCode string) []UnclassifiedUsage {
	if len(r.Unclassified) == 0 {
		return nil
	}
	out := make([]UnclassifiedUsage, len(r.Unclassified))
	for i, rec := range r.Unclassified {
		out[i] = UnclassifiedUsage{
			ZoneID:    zoneID,
			CityCode:  cityCode,
			UsageName: rec.UsageName,
			Theme:     rec.Theme,
		}
	}
	return out
}
