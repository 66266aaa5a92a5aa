// Package store keeps parsed routes and the pending-sync queue in a local
// sqlite database, so the library keeps working while offline.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/planbiir/gpxroute/internal/route"
)

// ErrNotFound is returned when no row matches the requested id.
var ErrNotFound = errors.New("not found")

// KindRoute is the sync-queue kind for route uploads.
const KindRoute = "route"

// Store is a sqlite-backed route library.
type Store struct {
	db *sql.DB
}

// Summary is the listing view of a stored route.
type Summary struct {
	ID            string
	Name          string
	Date          time.Time
	TotalDistance float64
	TotalDuration float64
	SourceSize    int64
}

// SyncItem is an entry waiting to be pushed to the remote store.
type SyncItem struct {
	Kind      string
	ID        string
	MarkedAt  time.Time
	Attempts  int
	LastError string
}

// Open opens (creating if needed) the database at path and migrates it.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.MigrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRoute inserts or replaces a route together with its source bytes.
func (s *Store) SaveRoute(ctx context.Context, r *route.Route, source []byte) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode route %s: %w", r.ID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO routes (
			route_id, name, route_date, total_distance, total_duration,
			source_size, source, route_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(route_id) DO UPDATE SET
			name = excluded.name,
			route_date = excluded.route_date,
			total_distance = excluded.total_distance,
			total_duration = excluded.total_duration,
			source_size = excluded.source_size,
			source = excluded.source,
			route_json = excluded.route_json`,
		r.ID, r.Name, r.Date.UnixNano(), r.TotalDistance, r.TotalDuration,
		int64(len(source)), source, string(data),
	)
	if err != nil {
		return fmt.Errorf("failed to save route %s: %w", r.ID, err)
	}
	return nil
}

// GetRoute loads a stored route.
func (s *Store) GetRoute(ctx context.Context, id string) (*route.Route, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT route_json FROM routes WHERE route_id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("route %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load route %s: %w", id, err)
	}

	var r route.Route
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return nil, fmt.Errorf("failed to decode route %s: %w", id, err)
	}
	return &r, nil
}

// GetSource returns the original GPX bytes of a stored route.
func (s *Store) GetSource(ctx context.Context, id string) ([]byte, error) {
	var source []byte
	err := s.db.QueryRowContext(ctx, `SELECT source FROM routes WHERE route_id = ?`, id).Scan(&source)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("route %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load source of %s: %w", id, err)
	}
	return source, nil
}

// ListRoutes returns stored routes, newest first.
func (s *Store) ListRoutes(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT route_id, name, route_date, total_distance, total_duration, source_size
		FROM routes
		ORDER BY route_date DESC, route_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list routes: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		var date int64
		if err := rows.Scan(&sum.ID, &sum.Name, &date, &sum.TotalDistance, &sum.TotalDuration, &sum.SourceSize); err != nil {
			return nil, fmt.Errorf("failed to scan route: %w", err)
		}
		sum.Date = time.Unix(0, date).UTC()
		out = append(out, sum)
	}
	return out, rows.Err()
}

// DeleteRoute removes a route and any queued sync for it.
func (s *Store) DeleteRoute(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM routes WHERE route_id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete route %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("route %s: %w", id, ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM sync_queue WHERE kind = ? AND item_id = ?`, KindRoute, id); err != nil {
		return fmt.Errorf("failed to unqueue route %s: %w", id, err)
	}

	return tx.Commit()
}

// UsageBytes is the total size of stored source files.
func (s *Store) UsageBytes(ctx context.Context) (int64, error) {
	var total int64
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(source_size), 0) FROM routes`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to compute storage usage: %w", err)
	}
	return total, nil
}

// MarkForSync queues an item for upload. Marking twice keeps one entry.
func (s *Store) MarkForSync(ctx context.Context, kind, id string, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sync_queue (kind, item_id, marked_at) VALUES (?, ?, ?)
		ON CONFLICT(kind, item_id) DO UPDATE SET marked_at = excluded.marked_at`,
		kind, id, at.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to mark %s %s for sync: %w", kind, id, err)
	}
	return nil
}

// PendingSync lists queued items, oldest first.
func (s *Store) PendingSync(ctx context.Context) ([]SyncItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, item_id, marked_at, attempts, last_error
		FROM sync_queue
		ORDER BY marked_at, item_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sync queue: %w", err)
	}
	defer rows.Close()

	var out []SyncItem
	for rows.Next() {
		var item SyncItem
		var marked int64
		if err := rows.Scan(&item.Kind, &item.ID, &marked, &item.Attempts, &item.LastError); err != nil {
			return nil, fmt.Errorf("failed to scan sync item: %w", err)
		}
		item.MarkedAt = time.Unix(0, marked).UTC()
		out = append(out, item)
	}
	return out, rows.Err()
}

// RecordSyncFailure bumps the attempt counter of a queued item.
func (s *Store) RecordSyncFailure(ctx context.Context, kind, id string, cause error) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE sync_queue SET attempts = attempts + 1, last_error = ?
		WHERE kind = ? AND item_id = ?`,
		cause.Error(), kind, id,
	)
	if err != nil {
		return fmt.Errorf("failed to record sync failure for %s %s: %w", kind, id, err)
	}
	return nil
}

// ClearSync removes an item from the queue.
func (s *Store) ClearSync(ctx context.Context, kind, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sync_queue WHERE kind = ? AND item_id = ?`, kind, id); err != nil {
		return fmt.Errorf("failed to clear sync for %s %s: %w", kind, id, err)
	}
	return nil
}
