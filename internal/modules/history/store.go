// README: SQLite-backed picker history; newest first, deduplicated by point equality.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"haulnav/internal/modules/route"
)

const schema = `
CREATE TABLE IF NOT EXISTS picker_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	place_id TEXT NOT NULL,
	name TEXT NOT NULL,
	address TEXT NOT NULL,
	latitude REAL NOT NULL,
	longitude REAL NOT NULL,
	picked_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_picker_history_picked_at ON picker_history(picked_at DESC);
`

type Store struct {
	db    *sql.DB
	limit int
}

// NewStore creates the history table if needed. limit caps how many entries
// are kept.
func NewStore(ctx context.Context, db *sql.DB, limit int) (*Store, error) {
	if limit <= 0 {
		limit = 20
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("creating picker_history: %w", err)
	}
	return &Store{db: db, limit: limit}, nil
}

// Add records p as the most recent pick. Any older entry for the same place
// (within route.PointTolerance) is replaced.
func (s *Store) Add(ctx context.Context, p route.RoutePoint) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM picker_history WHERE abs(latitude - ?) < ? AND abs(longitude - ?) < ?`,
		p.Latitude, route.PointTolerance, p.Longitude, route.PointTolerance,
	); err != nil {
		return fmt.Errorf("removing duplicate entry: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO picker_history (place_id, name, address, latitude, longitude, picked_at) VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Address, p.Latitude, p.Longitude, time.Now().UnixNano(),
	); err != nil {
		return fmt.Errorf("inserting entry: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM picker_history WHERE id NOT IN (SELECT id FROM picker_history ORDER BY picked_at DESC, id DESC LIMIT ?)`,
		s.limit,
	); err != nil {
		return fmt.Errorf("trimming history: %w", err)
	}
	return tx.Commit()
}

// Recent returns up to limit entries, newest first. limit <= 0 means the
// store's cap.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 || limit > s.limit {
		limit = s.limit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, place_id, name, address, latitude, longitude, picked_at
		 FROM picker_history ORDER BY picked_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var pickedAt int64
		if err := rows.Scan(&e.ID, &e.Point.ID, &e.Point.Name, &e.Point.Address, &e.Point.Latitude, &e.Point.Longitude, &pickedAt); err != nil {
			return nil, err
		}
		e.PickedAt = time.Unix(0, pickedAt)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM picker_history`)
	return err
}
