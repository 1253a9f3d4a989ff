// Package sqlite persists the last good snapshot of every config entry and a
// running tally of usages the category catalog does not know.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/couchcryptid/water-restriction-etl/internal/domain"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	entry_id     TEXT PRIMARY KEY,
	payload      TEXT NOT NULL,
	processed_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS unclassified_usages (
	city_code  TEXT NOT NULL,
	usage_name TEXT NOT NULL,
	theme      TEXT NOT NULL DEFAULT '',
	zone_id    TEXT NOT NULL DEFAULT '',
	seen_count INTEGER NOT NULL DEFAULT 1,
	first_seen DATETIME NOT NULL,
	last_seen  DATETIME NOT NULL,
	PRIMARY KEY (city_code, usage_name, theme)
);
CREATE INDEX IF NOT EXISTS idx_unclassified_last_seen ON unclassified_usages(last_seen);
`

// Store is a SQLite-backed snapshot store.
// It implements pipeline.SnapshotStore.
type Store struct {
	db *sql.DB
}

// ReportedUsage is an unclassified usage with its sighting history.
type ReportedUsage struct {
	domain.UnclassifiedUsage
	SeenCount int
	FirstSeen time.Time
	LastSeen  time.Time
}

// Open opens (creating if needed) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot db: %w", err)
	}
	// Refreshes are serialized; one connection avoids SQLITE_BUSY between
	// the writer and the HTTP readers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply snapshot schema: %w", err)
	}
	return &Store{db: db}, nil
}

// SaveSnapshot replaces the stored snapshot for the snapshot's entry and
// records its unclassified usages.
func (s *Store) SaveSnapshot(ctx context.Context, snap domain.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("serialize snapshot: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO snapshots (entry_id, payload, processed_at) VALUES (?, ?, ?)
		 ON CONFLICT(entry_id) DO UPDATE SET payload = excluded.payload, processed_at = excluded.processed_at`,
		snap.EntryID, string(payload), snap.ProcessedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}

	for _, u := range snap.Unclassified {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO unclassified_usages (city_code, usage_name, theme, zone_id, first_seen, last_seen)
			 VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT(city_code, usage_name, theme) DO UPDATE SET
			   seen_count = seen_count + 1, zone_id = excluded.zone_id, last_seen = excluded.last_seen`,
			u.CityCode, u.UsageName, u.Theme, u.ZoneID, snap.ProcessedAt.UTC(), snap.ProcessedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("record unclassified usage %q: %w", u.UsageName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// LatestSnapshot returns the stored snapshot for entryID. The boolean is
// false when none has been saved yet.
func (s *Store) LatestSnapshot(ctx context.Context, entryID string) (domain.Snapshot, bool, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM snapshots WHERE entry_id = ?`, entryID,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Snapshot{}, false, nil
	}
	if err != nil {
		return domain.Snapshot{}, false, fmt.Errorf("query snapshot: %w", err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return domain.Snapshot{}, false, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, true, nil
}

// ReportedUsages lists every unclassified usage seen, most recent first.
func (s *Store) ReportedUsages(ctx context.Context) ([]ReportedUsage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT city_code, usage_name, theme, zone_id, seen_count, first_seen, last_seen
		 FROM unclassified_usages ORDER BY last_seen DESC, usage_name`)
	if err != nil {
		return nil, fmt.Errorf("query unclassified usages: %w", err)
	}
	defer rows.Close()

	var usages []ReportedUsage
	for rows.Next() {
		var u ReportedUsage
		if err := rows.Scan(&u.CityCode, &u.UsageName, &u.Theme, &u.ZoneID,
			&u.SeenCount, &u.FirstSeen, &u.LastSeen); err != nil {
			return nil, fmt.Errorf("scan unclassified usage: %w", err)
		}
		usages = append(usages, u)
	}
	return usages, rows.Err()
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
