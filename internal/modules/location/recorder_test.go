package location

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"haulnav/internal/types"
)

type fakeWriter struct {
	mu     sync.Mutex
	geo    []types.Point
	snaps  []Snapshot
	geoErr error
	wrote  chan struct{}
}

func newFakeWriter() *fakeWriter {
	return &fakeWriter{wrote: make(chan struct{}, 16)}
}

func (w *fakeWriter) SetGeo(_ context.Context, _ types.ID, pos types.Point) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.geoErr != nil {
		return w.geoErr
	}
	w.geo = append(w.geo, pos)
	return nil
}

func (w *fakeWriter) AppendSnapshot(_ context.Context, snap Snapshot) error {
	w.mu.Lock()
	w.snaps = append(w.snaps, snap)
	w.mu.Unlock()
	w.wrote <- struct{}{}
	return nil
}

func TestRecorder_Record(t *testing.T) {
	w := newFakeWriter()
	r := NewRecorder(w, "truck-1", 4)
	loc := GeoLocation{Latitude: 41.8781, Longitude: -87.6298, Heading: ptr(45), Timestamp: time.UnixMilli(1700000000000)}

	if err := r.Record(context.Background(), loc); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if len(w.geo) != 1 || len(w.snaps) != 1 {
		t.Fatalf("geo=%d snaps=%d", len(w.geo), len(w.snaps))
	}
	snap := w.snaps[0]
	if snap.DeviceID != "truck-1" || snap.Position != loc.Point() || *snap.Heading != 45 {
		t.Errorf("unexpected snapshot %+v", snap)
	}
}

func TestRecorder_RecordStopsOnGeoError(t *testing.T) {
	w := newFakeWriter()
	w.geoErr = errors.New("redis down")
	r := NewRecorder(w, "truck-1", 4)

	if err := r.Record(context.Background(), GeoLocation{Latitude: 1, Longitude: 1}); err == nil {
		t.Fatal("expected error")
	}
	if len(w.snaps) != 0 {
		t.Error("snapshot should not be written after geo failure")
	}
}

func TestRecorder_AttachAndRun(t *testing.T) {
	w := newFakeWriter()
	r := NewRecorder(w, "truck-1", 4)
	store := NewGeoStore()
	detach := r.Attach(store)
	defer detach()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Run(ctx)

	store.Set(nil)
	store.Set(&GeoLocation{Latitude: 41.8781, Longitude: -87.6298})

	select {
	case <-w.wrote:
	case <-time.After(2 * time.Second):
		t.Fatal("location was not recorded")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.snaps) != 1 {
		t.Errorf("snaps = %d, want 1", len(w.snaps))
	}
}

func TestRecorder_FullQueueDoesNotBlock(t *testing.T) {
	r := NewRecorder(newFakeWriter(), "truck-1", 1)
	store := NewGeoStore()
	r.Attach(store)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			store.Set(&GeoLocation{Latitude: float64(i + 1), Longitude: 1})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Set blocked on a full recorder queue")
	}
}
