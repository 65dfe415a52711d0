package pricing

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

func setupTestStore(t *testing.T) (*Store, *pgxpool.Pool) {
	t.Helper()
	dsn := os.Getenv("HAULNAV_TEST_DSN")
	if dsn == "" {
		t.Skip("HAULNAV_TEST_DSN not set; skipping integration test")
	}
	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)
	return NewStore(pool), pool
}

func TestStore_Latest(t *testing.T) {
	store, pool := setupTestStore(t)
	ctx := context.Background()
	region := fmt.Sprintf("test_%d", time.Now().UnixNano())
	t.Cleanup(func() {
		pool.Exec(context.Background(), `DELETE FROM fuel_prices WHERE region = $1`, region)
	})

	now := time.Now()
	for _, row := range []struct {
		price float64
		at    time.Time
	}{
		{3.75, now.Add(-48 * time.Hour)},
		{3.99, now.Add(-time.Hour)},
		{4.50, now.Add(24 * time.Hour)},
	} {
		if _, err := pool.Exec(ctx,
			`INSERT INTO fuel_prices (region, price_per_gallon, effective_at) VALUES ($1, $2, $3)`,
			region, row.price, row.at,
		); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	got, err := store.Latest(ctx, region)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if got.PricePerGallon != 3.99 {
		t.Errorf("price = %v, want 3.99 (future prices are not in effect)", got.PricePerGallon)
	}
}

func TestStore_LatestMissing(t *testing.T) {
	store, _ := setupTestStore(t)
	_, err := store.Latest(context.Background(), "nowhere")
	if !errors.Is(err, ErrNoPrice) {
		t.Errorf("err = %v, want ErrNoPrice", err)
	}
}
