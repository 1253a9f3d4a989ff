package domain

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_Definitions(t *testing.T) {
	keys := make(map[string]struct{}, len(Catalog))
	for _, def := range Catalog {
		t.Run(def.Key, func(t *testing.T) {
			assert.NotEmpty(t, def.Name)
			assert.Regexp(t, `^mdi:`, def.Icon)
			require.NotEmpty(t, def.Matchers)
			for _, m := range def.Matchers {
				_, err := regexp.Compile(`(?i)` + m)
				assert.NoError(t, err, m)
			}
		})
		_, dup := keys[def.Key]
		assert.False(t, dup, "duplicate category key %q", def.Key)
		keys[def.Key] = struct{}{}
	}
	assert.Len(t, compiledCatalog, len(Catalog))
}

func TestCategoryByKey(t *testing.T) {
	def, ok := CategoryByKey("pool")
	require.True(t, ok)
	assert.Equal(t, "Remplissage des piscines privées", def.Name)

	_, ok = CategoryByKey("unknown")
	assert.False(t, ok)
}

// TestCatalog_CoversUsageList checks every usage of the reference dump is
// recognised by at least one category.
func TestCatalog_CoversUsageList(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", "data", "mock", "full_usage_list.json"))
	require.NoError(t, err)

	var list struct {
		Restrictions []struct {
			Usage string `json:"usage"`
			Theme string `json:"thematique"`
		} `json:"restrictions"`
	}
	require.NoError(t, json.Unmarshal(data, &list))
	require.NotEmpty(t, list.Restrictions)

	records := make([]RestrictionRecord, len(list.Restrictions))
	for i, r := range list.Restrictions {
		records[i] = RestrictionRecord{UsageName: r.Usage, Theme: r.Theme}
	}

	result := Classify(records)
	for _, rec := range result.Unclassified {
		t.Errorf("unclassified usage: %s | %s", rec.UsageName, rec.Theme)
	}
}
