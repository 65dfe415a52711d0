// README: LocationTracker filters native fixes onto a ~10 m grid before publishing them.
package location

import (
	"context"
	"math"
	"sync"

	"haulnav/internal/logger"
)

type gridKey struct {
	lat, lng float64
}

func roundGrid(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

// Tracker is the only writer of its GeoStore. Fixes that round to the same
// 4-decimal lat/lng as the last accepted one are dropped, and so is every fix
// that arrives while the tracker is stopped.
type Tracker struct {
	source Source
	store  *GeoStore

	mu      sync.Mutex
	sub     Subscription
	last    *gridKey
	running bool
	// gen changes on every Start and Stop so callbacks from an old watch
	// are ignored.
	gen uint64
}

func NewTracker(source Source, store *GeoStore) *Tracker {
	return &Tracker{source: source, store: store}
}

// Start requests permission and begins watching. A refused permission or a
// source error is logged and tracking simply does not start; call Start
// again to retry.
func (t *Tracker) Start(ctx context.Context) {
	if t.Running() {
		return
	}

	granted, err := t.source.RequestPermission(ctx)
	if err != nil {
		logger.Warn("location permission request failed", "error", err)
		return
	}
	if !granted {
		logger.Warn("location permission denied; tracking not started")
		return
	}

	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		return
	}
	t.running = true
	t.gen++
	gen := t.gen
	t.mu.Unlock()

	sub, err := t.source.Watch(ctx, func(f Fix) { t.accept(gen, f) })

	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		if t.gen == gen {
			t.running = false
		}
		logger.Warn("location watch failed to start", "error", err)
		return
	}
	if t.gen != gen {
		// Stopped while the watch was being set up.
		if sub != nil {
			sub.Remove()
		}
		return
	}
	t.sub = sub
	logger.Info("location tracking started")
}

// Accept runs one fix pushed by the device through the filter and reports
// whether it was published. Nothing is published while the tracker is
// stopped.
func (t *Tracker) Accept(f Fix) bool {
	return t.accept(0, f)
}

// accept publishes f when tracking is on. A non-zero gen also requires the
// fix to come from the current watch.
func (t *Tracker) accept(gen uint64, f Fix) bool {
	loc, ok := f.geoLocation()
	if !ok {
		logger.Debug("dropping invalid location fix", "lat", f.Coords.Latitude, "lng", f.Coords.Longitude)
		return false
	}
	key := gridKey{lat: roundGrid(loc.Latitude), lng: roundGrid(loc.Longitude)}

	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running || (gen != 0 && gen != t.gen) {
		return false
	}
	if t.last != nil && *t.last == key {
		return false
	}
	t.last = &key
	t.store.Set(loc)
	return true
}

func (t *Tracker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Stop tears down the source subscription and forgets the last accepted
// fix. Safe to call when already stopped.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sub != nil {
		t.sub.Remove()
		t.sub = nil
	}
	if t.running {
		t.gen++
	}
	t.running = false
	t.last = nil
}

// Reset stops tracking and clears the store's current value. A fix racing
// with Reset is dropped by the stopped check, so nil is the final value.
func (t *Tracker) Reset() {
	t.Stop()
	t.store.Set(nil)
}
