package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/water-restriction-etl/internal/domain"
	"github.com/couchcryptid/water-restriction-etl/internal/entry"
)

// SnapshotTransformer implements Transformer with the domain classification
// and aggregation functions.
type SnapshotTransformer struct {
	logger *slog.Logger
}

// NewTransformer creates a SnapshotTransformer.
func NewTransformer(logger *slog.Logger) *SnapshotTransformer {
	return &SnapshotTransformer{logger: logger}
}

func (t *SnapshotTransformer) Transform(_ context.Context, report domain.ZoneReport, e entry.Entry) (domain.Snapshot, error) {
	return domain.BuildSnapshot(report, e.ID, e.Data.CityCode, t.logger)
}
