package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/water-restriction-etl/internal/domain"
	"github.com/couchcryptid/water-restriction-etl/internal/entry"
	"github.com/couchcryptid/water-restriction-etl/internal/observability"
)

// ZoneFetcher retrieves the restriction zone covering a location.
type ZoneFetcher interface {
	FetchZone(ctx context.Context, q domain.ZoneQuery) (domain.ZoneReport, error)
}

// Transformer turns a zone report into the snapshot of one refresh cycle.
type Transformer interface {
	Transform(ctx context.Context, report domain.ZoneReport, e entry.Entry) (domain.Snapshot, error)
}

// StateLoader publishes entity states to the destination.
type StateLoader interface {
	LoadStates(ctx context.Context, states []domain.EntityState) error
}

// SnapshotStore persists the last good snapshot of an entry.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, snap domain.Snapshot) error
	LatestSnapshot(ctx context.Context, entryID string) (domain.Snapshot, bool, error)
}

// Refresher runs fetch-classify-publish cycles for one config entry. Cycles
// are serialized, and a failed cycle leaves the previous snapshot in place.
type Refresher struct {
	fetcher     ZoneFetcher
	transformer Transformer
	loader      StateLoader
	store       SnapshotStore
	entry       entry.Entry
	profile     string
	logger      *slog.Logger
	metrics     *observability.Metrics

	mu      sync.Mutex
	current atomic.Pointer[domain.Snapshot]
}

// NewRefresher creates a Refresher for the prepared entry e.
func NewRefresher(
	f ZoneFetcher,
	t Transformer,
	l StateLoader,
	s SnapshotStore,
	e entry.Entry,
	profile string,
	logger *slog.Logger,
	metrics *observability.Metrics,
) *Refresher {
	return &Refresher{
		fetcher:     f,
		transformer: t,
		loader:      l,
		store:       s,
		entry:       e,
		profile:     profile,
		logger:      logger,
		metrics:     metrics,
	}
}

// pinger is implemented by stores that can report their own health.
type pinger interface {
	Ping(ctx context.Context) error
}

// CheckReadiness returns nil once a snapshot is available, restored or fresh,
// and the snapshot store answers when it supports Ping.
func (r *Refresher) CheckReadiness(ctx context.Context) error {
	if r.current.Load() == nil {
		return errors.New("no restriction snapshot available yet")
	}
	if p, ok := r.store.(pinger); ok {
		if err := p.Ping(ctx); err != nil {
			return fmt.Errorf("snapshot store: %w", err)
		}
	}
	return nil
}

// Snapshot returns the current snapshot.
func (r *Refresher) Snapshot() (domain.Snapshot, bool) {
	snap := r.current.Load()
	if snap == nil {
		return domain.Snapshot{}, false
	}
	return *snap, true
}

// States returns the entity states of the current snapshot.
func (r *Refresher) States() []domain.EntityState {
	snap := r.current.Load()
	if snap == nil {
		return nil
	}
	return EntityStates(r.entry, *snap)
}

// Restore seeds the current snapshot from the store so entities keep their
// last known state until the first successful refresh.
func (r *Refresher) Restore(ctx context.Context) error {
	snap, ok, err := r.store.LatestSnapshot(ctx, r.entry.ID)
	if err != nil {
		return fmt.Errorf("restore snapshot: %w", err)
	}
	if !ok {
		r.logger.Info("no stored snapshot to restore", "entry_id", r.entry.ID)
		return nil
	}
	r.current.CompareAndSwap(nil, &snap)
	r.logger.Info("snapshot restored",
		"entry_id", r.entry.ID,
		"processed_at", snap.ProcessedAt,
		"alert_level", snap.Global.Label,
	)
	return nil
}

// Refresh runs one cycle.
func (r *Refresher) Refresh(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	outcome := "success"
	defer func() {
		r.metrics.RefreshCycles.WithLabelValues(outcome).Inc()
		r.metrics.RefreshDuration.Observe(time.Since(start).Seconds())
	}()

	report, err := r.fetcher.FetchZone(ctx, r.query())
	if err != nil {
		outcome = "fetch_error"
		r.logger.Error("fetch restriction zone failed, keeping previous state",
			"entry_id", r.entry.ID,
			"city_code", r.entry.Data.CityCode,
			"error", err,
		)
		return fmt.Errorf("fetch zone: %w", err)
	}
	r.metrics.RestrictionsFetched.Observe(float64(len(report.Records)))

	snap, err := r.transformer.Transform(ctx, report, r.entry)
	if err != nil {
		outcome = "unknown_level"
		r.logger.Error("zone alert level not recognised, keeping previous state",
			"entry_id", r.entry.ID,
			"zone_id", report.ZoneID,
			"severity_label", report.SeverityLabel,
			"error", err,
		)
		return fmt.Errorf("transform zone report: %w", err)
	}

	r.metrics.UnclassifiedUsages.Add(float64(len(snap.Unclassified)))
	r.metrics.WithheldCategories.Add(float64(len(snap.Withheld())))
	r.metrics.GlobalAlertLevel.Set(float64(snap.Global.Ordinal))
	r.current.Store(&snap)

	if err := r.store.SaveSnapshot(ctx, snap); err != nil {
		r.logger.Warn("persist snapshot failed", "entry_id", r.entry.ID, "error", err)
	}

	states := EntityStates(r.entry, snap)
	if err := r.loader.LoadStates(ctx, states); err != nil {
		outcome = "load_error"
		r.logger.Error("publish entity states failed", "entry_id", r.entry.ID, "error", err)
		return fmt.Errorf("load states: %w", err)
	}
	r.metrics.EntitiesPublished.Add(float64(len(states)))

	r.logger.Info("refresh complete",
		"entry_id", r.entry.ID,
		"zone_id", snap.ZoneID,
		"alert_level", snap.Global.Label,
		"usages", len(report.Records),
		"unclassified", len(snap.Unclassified),
		"withheld", len(snap.Withheld()),
	)
	return nil
}

func (r *Refresher) query() domain.ZoneQuery {
	q := domain.ZoneQuery{
		CityCode: r.entry.Data.CityCode,
		Profile:  r.profile,
		ZoneType: r.entry.Data.ZoneType,
	}
	if r.entry.Data.Latitude != nil && r.entry.Data.Longitude != nil {
		q.Lat = *r.entry.Data.Latitude
		q.Lon = *r.entry.Data.Longitude
	}
	return q
}
