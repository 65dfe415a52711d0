package history

import (
	"context"
	"path/filepath"
	"testing"

	"haulnav/internal/infra"
	"haulnav/internal/modules/route"
)

func newTestStore(t *testing.T, limit int) *Store {
	t.Helper()
	db, err := infra.NewSQLite(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s, err := NewStore(context.Background(), db, limit)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func TestStore_RecentNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, 10)

	for _, p := range []route.RoutePoint{
		{ID: "a", Name: "Gary", Latitude: 41.59, Longitude: -87.34},
		{ID: "b", Name: "Joliet", Latitude: 41.52, Longitude: -88.08},
	} {
		if err := s.Add(ctx, p); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	got, err := s.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 || got[0].Point.ID != "b" || got[1].Point.ID != "a" {
		t.Errorf("unexpected order: %+v", got)
	}
}

func TestStore_AddReplacesSamePlace(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, 10)

	_ = s.Add(ctx, route.RoutePoint{ID: "a", Name: "Gary", Latitude: 41.59, Longitude: -87.34})
	_ = s.Add(ctx, route.RoutePoint{ID: "x", Name: "Other", Latitude: 40.0, Longitude: -86.0})
	_ = s.Add(ctx, route.RoutePoint{ID: "a2", Name: "Gary pin", Latitude: 41.59005, Longitude: -87.34005})

	got, _ := s.Recent(ctx, 0)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Point.ID != "a2" {
		t.Errorf("newest = %q, want a2", got[0].Point.ID)
	}
}

func TestStore_TrimsToLimit(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, 3)

	for i := 0; i < 5; i++ {
		p := route.RoutePoint{ID: string(rune('a' + i)), Latitude: 40 + float64(i), Longitude: -87}
		if err := s.Add(ctx, p); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	got, _ := s.Recent(ctx, 10)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].Point.ID != "e" || got[2].Point.ID != "c" {
		t.Errorf("unexpected entries: %+v", got)
	}
}

func TestStore_Clear(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, 3)
	_ = s.Add(ctx, route.RoutePoint{ID: "a", Latitude: 41, Longitude: -87})

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	got, _ := s.Recent(ctx, 0)
	if len(got) != 0 {
		t.Errorf("len = %d after clear", len(got))
	}
}
