// README: Saved-route store backed by PostgreSQL.
package route

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"haulnav/internal/types"
)

var ErrNotFound = errors.New("saved route not found")

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, r *SavedRoute) error {
	if r.ID == "" {
		id, err := newID()
		if err != nil {
			return err
		}
		r.ID = id
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	origin, dest, waypoints, err := encodePoints(r)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO saved_routes (id, name, origin, destination, waypoints, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		string(r.ID), r.Name, origin, dest, waypoints, r.CreatedAt,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*SavedRoute, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, origin, destination, waypoints, created_at
		FROM saved_routes
		WHERE id = $1`, string(id),
	)
	r, err := scanSavedRoute(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Store) List(ctx context.Context) ([]*SavedRoute, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, origin, destination, waypoints, created_at
		FROM saved_routes
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*SavedRoute
	for rows.Next() {
		r, err := scanSavedRoute(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) Delete(ctx context.Context, id types.ID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM saved_routes WHERE id = $1`, string(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanSavedRoute(row pgx.Row) (*SavedRoute, error) {
	var r SavedRoute
	var id string
	var origin, dest, waypoints []byte
	if err := row.Scan(&id, &r.Name, &origin, &dest, &waypoints, &r.CreatedAt); err != nil {
		return nil, err
	}
	r.ID = types.ID(id)
	if err := json.Unmarshal(origin, &r.Origin); err != nil {
		return nil, fmt.Errorf("decoding origin of %s: %w", id, err)
	}
	if err := json.Unmarshal(dest, &r.Destination); err != nil {
		return nil, fmt.Errorf("decoding destination of %s: %w", id, err)
	}
	if len(waypoints) > 0 {
		if err := json.Unmarshal(waypoints, &r.Waypoints); err != nil {
			return nil, fmt.Errorf("decoding waypoints of %s: %w", id, err)
		}
	}
	return &r, nil
}

func encodePoints(r *SavedRoute) (origin, dest, waypoints []byte, err error) {
	if origin, err = json.Marshal(r.Origin); err != nil {
		return nil, nil, nil, err
	}
	if dest, err = json.Marshal(r.Destination); err != nil {
		return nil, nil, nil, err
	}
	wp := r.Waypoints
	if wp == nil {
		wp = []RoutePoint{}
	}
	if waypoints, err = json.Marshal(wp); err != nil {
		return nil, nil, nil, err
	}
	return origin, dest, waypoints, nil
}

// newID returns a time-ordered id, so ids sort by creation like pins do.
func newID() (types.ID, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generating saved route id: %w", err)
	}
	return types.ID(id.String()), nil
}
