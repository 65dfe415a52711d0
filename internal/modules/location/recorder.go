// README: Recorder persists accepted locations off the notification path.
package location

import (
	"context"
	"fmt"
	"time"

	"haulnav/internal/logger"
	"haulnav/internal/types"
)

// SnapshotWriter is satisfied by *Store.
type SnapshotWriter interface {
	SetGeo(ctx context.Context, id types.ID, pos types.Point) error
	AppendSnapshot(ctx context.Context, snap Snapshot) error
}

// Recorder queues every non-nil location it observes and writes it from
// Run. When the queue is full new locations are dropped so the store's
// notification path never blocks on I/O.
type Recorder struct {
	writer   SnapshotWriter
	deviceID types.ID
	queue    chan GeoLocation
	timeout  time.Duration
}

func NewRecorder(writer SnapshotWriter, deviceID types.ID, buffer int) *Recorder {
	if buffer <= 0 {
		buffer = 64
	}
	return &Recorder{
		writer:   writer,
		deviceID: deviceID,
		queue:    make(chan GeoLocation, buffer),
		timeout:  5 * time.Second,
	}
}

// Attach subscribes to the store; the returned func detaches.
func (r *Recorder) Attach(store *GeoStore) func() {
	return store.Subscribe(func(loc *GeoLocation) {
		if loc == nil {
			return
		}
		select {
		case r.queue <- *loc:
		default:
			logger.Warn("breadcrumb queue full; dropping location", "device", r.deviceID)
		}
	})
}

// Run drains the queue until ctx is done.
func (r *Recorder) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case loc := <-r.queue:
			wctx, cancel := context.WithTimeout(ctx, r.timeout)
			if err := r.Record(wctx, loc); err != nil {
				logger.Error("recording breadcrumb failed", "device", r.deviceID, "error", err)
			}
			cancel()
		}
	}
}

func (r *Recorder) Record(ctx context.Context, loc GeoLocation) error {
	if err := r.writer.SetGeo(ctx, r.deviceID, loc.Point()); err != nil {
		return fmt.Errorf("geo add: %w", err)
	}
	return r.writer.AppendSnapshot(ctx, Snapshot{
		DeviceID:   r.deviceID,
		Position:   loc.Point(),
		Heading:    loc.Heading,
		Speed:      loc.Speed,
		RecordedAt: loc.Timestamp,
	})
}
