package location

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
)

type fakeSource struct {
	granted  bool
	permErr  error
	watchErr error

	mu      sync.Mutex
	fn      func(Fix)
	removed int
	watches int
}

type fakeSub struct{ src *fakeSource }

func (s fakeSub) Remove() {
	s.src.mu.Lock()
	s.src.removed++
	s.src.mu.Unlock()
}

func (f *fakeSource) RequestPermission(context.Context) (bool, error) {
	return f.granted, f.permErr
}

func (f *fakeSource) Watch(_ context.Context, fn func(Fix)) (Subscription, error) {
	if f.watchErr != nil {
		return nil, f.watchErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fn = fn
	f.watches++
	return fakeSub{src: f}, nil
}

func (f *fakeSource) emit(fix Fix) {
	f.mu.Lock()
	fn := f.fn
	f.mu.Unlock()
	fn(fix)
}

func fixAt(lat, lng float64) Fix {
	return Fix{Coords: Coords{Latitude: lat, Longitude: lng}, Timestamp: 1700000000000}
}

func ptr(v float64) *float64 { return &v }

// startedTracker returns a running tracker over a granting fake source.
func startedTracker(t *testing.T, store *GeoStore) (*Tracker, *fakeSource) {
	t.Helper()
	src := &fakeSource{granted: true}
	tr := NewTracker(src, store)
	tr.Start(context.Background())
	if !tr.Running() {
		t.Fatal("tracker did not start")
	}
	return tr, src
}

func countSets(store *GeoStore) *int {
	n := 0
	store.Subscribe(func(*GeoLocation) { n++ })
	return &n
}

func TestTracker_SameGridCellPublishedOnce(t *testing.T) {
	store := NewGeoStore()
	sets := countSets(store)
	tr, _ := startedTracker(t, store)

	if !tr.Accept(fixAt(41.878112, -87.629812)) {
		t.Fatal("first fix should be published")
	}
	if tr.Accept(fixAt(41.878141, -87.629779)) {
		t.Fatal("fix rounding to the same cell should be dropped")
	}
	if *sets != 1 {
		t.Errorf("store set %d times, want 1", *sets)
	}
}

func TestTracker_NewCellPublished(t *testing.T) {
	store := NewGeoStore()
	sets := countSets(store)
	tr, _ := startedTracker(t, store)

	tr.Accept(fixAt(41.8781, -87.6298))
	tr.Accept(fixAt(41.8782, -87.6298))
	tr.Accept(fixAt(41.8781, -87.6298))

	if *sets != 3 {
		t.Errorf("store set %d times, want 3", *sets)
	}
}

func TestTracker_HeadingOnlyChangeDropped(t *testing.T) {
	store := NewGeoStore()
	tr, _ := startedTracker(t, store)

	a := fixAt(41.8781, -87.6298)
	a.Coords.Heading = ptr(10)
	b := fixAt(41.8781, -87.6298)
	b.Coords.Heading = ptr(200)

	tr.Accept(a)
	if tr.Accept(b) {
		t.Fatal("heading-only change at the same cell should be dropped")
	}
	if got := *store.Get().Heading; got != 10 {
		t.Errorf("heading = %v, want 10", got)
	}
}

func TestTracker_InvalidFixesDropped(t *testing.T) {
	tests := []struct {
		name string
		fix  Fix
	}{
		{"null island", fixAt(0, 0)},
		{"nan latitude", fixAt(math.NaN(), -87)},
		{"inf longitude", fixAt(41, math.Inf(1))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewGeoStore()
			tr, _ := startedTracker(t, store)
			if tr.Accept(tt.fix) {
				t.Fatal("invalid fix accepted")
			}
			if store.Get() != nil {
				t.Fatal("store should stay empty")
			}
		})
	}
}

func TestTracker_HeadingNormalization(t *testing.T) {
	tests := []struct {
		name string
		in   *float64
		want *float64
	}{
		{"missing", nil, nil},
		{"unknown sentinel", ptr(-1), nil},
		{"nan", ptr(math.NaN()), nil},
		{"in range", ptr(90), ptr(90)},
		{"wraps", ptr(370), ptr(10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewGeoStore()
			tr, _ := startedTracker(t, store)
			f := fixAt(41.8781, -87.6298)
			f.Coords.Heading = tt.in
			tr.Accept(f)

			got := store.Get().Heading
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("heading = %v, want nil", *got)
			case tt.want != nil && (got == nil || math.Abs(*got-*tt.want) > 1e-9):
				t.Errorf("heading = %v, want %v", got, *tt.want)
			}
		})
	}
}

func TestTracker_StartWatchesAfterPermission(t *testing.T) {
	src := &fakeSource{granted: true}
	store := NewGeoStore()
	tr := NewTracker(src, store)

	tr.Start(context.Background())
	if !tr.Running() {
		t.Fatal("expected tracker to be running")
	}
	src.emit(fixAt(41.8781, -87.6298))
	if store.Get() == nil {
		t.Fatal("emitted fix should reach the store")
	}

	tr.Start(context.Background())
	if src.watches != 1 {
		t.Errorf("watches = %d, want 1", src.watches)
	}
}

func TestTracker_StartWithoutPermission(t *testing.T) {
	tests := []struct {
		name string
		src  *fakeSource
	}{
		{"denied", &fakeSource{granted: false}},
		{"permission error", &fakeSource{permErr: errors.New("boom")}},
		{"watch error", &fakeSource{granted: true, watchErr: errors.New("no gps")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewGeoStore()
			tr := NewTracker(tt.src, store)
			tr.Start(context.Background())
			if tr.Running() {
				t.Fatal("tracker should not be running")
			}
			if store.Get() != nil {
				t.Fatal("store should stay empty")
			}
		})
	}
}

func TestTracker_StopIsIdempotentAndForgetsLastFix(t *testing.T) {
	src := &fakeSource{granted: true}
	store := NewGeoStore()
	sets := countSets(store)
	tr := NewTracker(src, store)

	tr.Start(context.Background())
	tr.Accept(fixAt(41.8781, -87.6298))
	tr.Stop()
	tr.Stop()

	if src.removed != 1 {
		t.Errorf("subscription removed %d times, want 1", src.removed)
	}
	if tr.Running() {
		t.Fatal("tracker should be stopped")
	}

	tr.Start(context.Background())
	tr.Accept(fixAt(41.8781, -87.6298))
	if *sets != 2 {
		t.Errorf("after a restart the same cell should publish again; sets = %d", *sets)
	}
}

func TestTracker_PushedFixDroppedWhileStopped(t *testing.T) {
	store := NewGeoStore()
	sets := countSets(store)
	tr := NewTracker(PushSource{}, store)

	if tr.Accept(fixAt(41.8781, -87.6298)) {
		t.Fatal("fix accepted before Start")
	}

	tr.Start(context.Background())
	if !tr.Accept(fixAt(41.8781, -87.6298)) {
		t.Fatal("fix rejected while running")
	}
	tr.Stop()
	if tr.Accept(fixAt(41.9, -87.7)) {
		t.Fatal("fix accepted after Stop")
	}
	if *sets != 1 {
		t.Errorf("store set %d times, want 1", *sets)
	}
	if got := store.Get(); got == nil || got.Latitude != 41.8781 {
		t.Errorf("store = %+v, want the fix from before Stop", got)
	}
}

func TestTracker_StaleWatchCallbackIgnored(t *testing.T) {
	store := NewGeoStore()
	tr, src := startedTracker(t, store)

	src.mu.Lock()
	oldFn := src.fn
	src.mu.Unlock()

	tr.Stop()
	tr.Start(context.Background())

	oldFn(fixAt(41.8781, -87.6298))
	if store.Get() != nil {
		t.Fatal("fix from the previous watch reached the store")
	}
	src.emit(fixAt(41.8781, -87.6298))
	if store.Get() == nil {
		t.Fatal("fix from the current watch should be published")
	}
}

func TestTracker_FixAfterResetKeepsStoreEmpty(t *testing.T) {
	store := NewGeoStore()
	tr, src := startedTracker(t, store)
	src.emit(fixAt(41.8781, -87.6298))

	src.mu.Lock()
	inFlight := src.fn
	src.mu.Unlock()

	tr.Reset()
	inFlight(fixAt(41.9, -87.7))
	if store.Get() != nil {
		t.Fatalf("store = %+v after Reset, want nil", store.Get())
	}
}

func TestTracker_ResetClearsStore(t *testing.T) {
	store := NewGeoStore()
	var last *GeoLocation = &GeoLocation{}
	store.Subscribe(func(loc *GeoLocation) { last = loc })
	tr := NewTracker(&fakeSource{granted: true}, store)

	tr.Start(context.Background())
	tr.Accept(fixAt(41.8781, -87.6298))
	tr.Reset()
	tr.Reset()

	if store.Get() != nil || last != nil {
		t.Fatal("reset should publish nil")
	}
}
