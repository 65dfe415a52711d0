// README: Fuel price store backed by PostgreSQL.
package pricing

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNoPrice = errors.New("no fuel price for region")

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Latest returns the most recent price already in effect for the region.
func (s *Store) Latest(ctx context.Context, region string) (FuelPrice, error) {
	var p FuelPrice
	err := s.db.QueryRow(ctx, `
		SELECT region, price_per_gallon, effective_at
		FROM fuel_prices
		WHERE region = $1 AND effective_at <= now()
		ORDER BY effective_at DESC
		LIMIT 1`, region,
	).Scan(&p.Region, &p.PricePerGallon, &p.EffectiveAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return FuelPrice{}, ErrNoPrice
	}
	return p, err
}
