// README: Toll record store backed by PostgreSQL (prices kept as JSONB).
package toll

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// ForRoute returns every toll record attached to any section of the route.
func (s *Store) ForRoute(ctx context.Context, routeID string) ([]TollRecord, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, COALESCE(toll_key, ''), route_section, is_dynamic,
		       COALESCE(name, ''), COALESCE(latitude, 0), COALESCE(longitude, 0),
		       COALESCE(pay_online, 0), COALESCE(i_pass, 0), toll_prices
		FROM tolls
		WHERE route_id = $1
		ORDER BY position`, routeID)
	if err != nil {
		return nil, fmt.Errorf("querying tolls for %s: %w", routeID, err)
	}
	defer rows.Close()

	var out []TollRecord
	for rows.Next() {
		var t TollRecord
		var prices []byte
		if err := rows.Scan(
			&t.ID, &t.Key, &t.RouteSection, &t.IsDynamic,
			&t.Name, &t.Latitude, &t.Longitude,
			&t.PayOnline, &t.IPass, &prices,
		); err != nil {
			return nil, err
		}
		if len(prices) > 0 {
			if err := json.Unmarshal(prices, &t.TollPrices); err != nil {
				return nil, fmt.Errorf("decoding prices of toll %s: %w", t.ID, err)
			}
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// PlazasWithin returns catalog plazas inside the box. The catalog key
// becomes the record's Key and ID; RouteSection is left empty.
func (s *Store) PlazasWithin(ctx context.Context, b Bounds) ([]TollRecord, error) {
	rows, err := s.db.Query(ctx, `
		SELECT toll_key, COALESCE(name, ''), latitude, longitude, is_dynamic,
		       COALESCE(pay_online, 0), COALESCE(i_pass, 0), toll_prices
		FROM toll_plazas
		WHERE latitude BETWEEN $1 AND $2
		  AND longitude BETWEEN $3 AND $4`,
		b.MinLat, b.MaxLat, b.MinLng, b.MaxLng)
	if err != nil {
		return nil, fmt.Errorf("querying toll plazas: %w", err)
	}
	defer rows.Close()

	var out []TollRecord
	for rows.Next() {
		var t TollRecord
		var prices []byte
		if err := rows.Scan(
			&t.Key, &t.Name, &t.Latitude, &t.Longitude, &t.IsDynamic,
			&t.PayOnline, &t.IPass, &prices,
		); err != nil {
			return nil, err
		}
		t.ID = t.Key
		if len(prices) > 0 {
			if err := json.Unmarshal(prices, &t.TollPrices); err != nil {
				return nil, fmt.Errorf("decoding prices of plaza %s: %w", t.Key, err)
			}
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// SaveForRoute replaces the route's toll records with records, keeping
// their order as the position.
func (s *Store) SaveForRoute(ctx context.Context, routeID string, records []TollRecord) error {
	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM tolls WHERE route_id = $1`, routeID)
	for i, t := range records {
		prices, err := json.Marshal(t.TollPrices)
		if err != nil {
			return fmt.Errorf("encoding prices of toll %s: %w", t.Key, err)
		}
		batch.Queue(`
			INSERT INTO tolls (id, route_id, route_section, toll_key, is_dynamic, name,
			                   latitude, longitude, pay_online, i_pass, toll_prices, position)
			VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, $10, $11, $12)`,
			fmt.Sprintf("%s/%s/%d", routeID, t.RouteSection, i), routeID, t.RouteSection, t.Key,
			t.IsDynamic, t.Name, t.Latitude, t.Longitude, t.PayOnline, t.IPass, prices, i,
		)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	br := tx.SendBatch(ctx, batch)
	for range batch.Len() {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return err
		}
	}
	if err := br.Close(); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
