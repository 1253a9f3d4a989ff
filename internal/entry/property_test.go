package entry

import (
	"context"
	"testing"

	"github.com/couchcryptid/water-restriction-etl/internal/domain"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestMigrateProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("migration reaches the current version and keeps markers", prop.ForAll(
		func(version int, m1, m3, m5 bool) bool {
			in := Entry{ID: "e", Version: version, Data: Data{
				MigratedFromVersion1: m1,
				MigratedFromVersion3: m3,
				MigratedFromVersion5: m5,
			}}
			m := NewMigrator(chartres(), domain.ZoneTypeSurface, discardLogger())
			got, err := m.Migrate(context.Background(), in)
			if err != nil || got.Version != CurrentVersion {
				return false
			}
			d := got.Data
			return (!m1 || d.MigratedFromVersion1) &&
				(!m3 || d.MigratedFromVersion3) &&
				(!m5 || d.MigratedFromVersion5) &&
				(version > 5 || d.MigratedFromVersion5)
		},
		gen.IntRange(1, CurrentVersion),
		gen.Bool(),
		gen.Bool(),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
