// README: Location source contract plus a replay source for recorded traces.
package location

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"
)

// Source is a permission-gated continuous location stream.
type Source interface {
	// RequestPermission asks for foreground location access once.
	RequestPermission(ctx context.Context) (bool, error)
	// Watch delivers fixes to fn until the subscription is removed or ctx ends.
	Watch(ctx context.Context, fn func(Fix)) (Subscription, error)
}

type Subscription interface {
	Remove()
}

// stopper is a Subscription closing a channel exactly once.
type stopper struct {
	once sync.Once
	stop chan struct{}
	done chan struct{}
}

func newStopper() *stopper {
	return &stopper{stop: make(chan struct{}), done: make(chan struct{})}
}

func (s *stopper) Remove() {
	s.once.Do(func() { close(s.stop) })
}

// Done is closed once the delivering goroutine has exited.
func (s *stopper) Done() <-chan struct{} {
	return s.done
}

// ReplaySource plays back recorded fixes at a fixed interval.
type ReplaySource struct {
	fixes    []Fix
	interval time.Duration
	finished chan struct{}
	once     sync.Once
}

func NewReplaySource(fixes []Fix, interval time.Duration) *ReplaySource {
	return &ReplaySource{fixes: fixes, interval: interval, finished: make(chan struct{})}
}

// Finished is closed when the first playback ends, completed or not.
func (s *ReplaySource) Finished() <-chan struct{} {
	return s.finished
}

// LoadFixes decodes a JSON array of fixes.
func LoadFixes(r io.Reader) ([]Fix, error) {
	var fixes []Fix
	if err := json.NewDecoder(r).Decode(&fixes); err != nil {
		return nil, fmt.Errorf("decoding fixes: %w", err)
	}
	return fixes, nil
}

func (s *ReplaySource) RequestPermission(context.Context) (bool, error) {
	return true, nil
}

func (s *ReplaySource) Watch(ctx context.Context, fn func(Fix)) (Subscription, error) {
	sub := newStopper()
	go func() {
		defer close(sub.done)
		defer s.once.Do(func() { close(s.finished) })
		var tick <-chan time.Time
		if s.interval > 0 {
			ticker := time.NewTicker(s.interval)
			defer ticker.Stop()
			tick = ticker.C
		}
		for _, f := range s.fixes {
			if tick != nil {
				select {
				case <-ctx.Done():
					return
				case <-sub.stop:
					return
				case <-tick:
				}
			}
			select {
			case <-ctx.Done():
				return
			case <-sub.stop:
				return
			default:
			}
			fn(f)
		}
	}()
	return sub, nil
}

// PushSource is for devices that post their own fixes straight to
// Tracker.Accept. Watch delivers nothing.
type PushSource struct{}

func (PushSource) RequestPermission(context.Context) (bool, error) {
	return true, nil
}

func (PushSource) Watch(ctx context.Context, _ func(Fix)) (Subscription, error) {
	sub := newStopper()
	go func() {
		defer close(sub.done)
		select {
		case <-ctx.Done():
		case <-sub.stop:
		}
	}()
	return sub, nil
}
