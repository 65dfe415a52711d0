package toll

import (
	"context"
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

func TestStore_AttachAndLoad(t *testing.T) {
	store, pool := setupTestStore(t)
	ctx := context.Background()
	suffix := time.Now().UnixNano()
	key := fmt.Sprintf("plaza_test_%d", suffix)
	routeID := fmt.Sprintf("route_test_%d", suffix)
	t.Cleanup(func() {
		pool.Exec(context.Background(), `DELETE FROM toll_plazas WHERE toll_key = $1`, key)
		pool.Exec(context.Background(), `DELETE FROM tolls WHERE route_id = $1`, routeID)
	})

	if _, err := pool.Exec(ctx, `
		INSERT INTO toll_plazas (toll_key, name, latitude, longitude, toll_prices)
		VALUES ($1, 'Test Plaza', 41.7001, -87.45, $2)`,
		key, []byte(`[{"paymentType":1,"axelType":5,"timeOfDay":0,"amount":9.25}]`),
	); err != nil {
		t.Fatalf("seed plaza: %v", err)
	}

	n, err := NewService(store).AttachRoute(ctx, routeID, []SectionPath{{ID: "s1", Points: eastbound}})
	if err != nil {
		t.Fatalf("AttachRoute: %v", err)
	}
	if n < 1 {
		t.Fatalf("attached %d plazas", n)
	}

	got, err := store.ForRoute(ctx, routeID)
	if err != nil {
		t.Fatalf("ForRoute: %v", err)
	}
	var found *TollRecord
	for i := range got {
		if got[i].Key == key {
			found = &got[i]
		}
	}
	if found == nil {
		t.Fatalf("plaza %s not attached: %+v", key, got)
	}
	if found.RouteSection != "s1" || len(found.TollPrices) != 1 || found.TollPrices[0].Amount != 9.25 {
		t.Errorf("stored toll = %+v", *found)
	}

	// Re-attaching replaces rather than duplicates.
	if _, err := NewService(store).AttachRoute(ctx, routeID, []SectionPath{{ID: "s1", Points: eastbound}}); err != nil {
		t.Fatalf("re-attach: %v", err)
	}
	again, _ := store.ForRoute(ctx, routeID)
	if len(again) != len(got) {
		t.Errorf("re-attach left %d records, want %d", len(again), len(got))
	}
}
