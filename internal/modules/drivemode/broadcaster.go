// README: MapRef that fans camera commands out to connected map clients (SSE).
package drivemode

import (
	"sync"
	"time"

	"haulnav/internal/logger"
	"haulnav/internal/types"
)

type CommandKind string

const (
	KindFitToCoordinates CommandKind = "fitToCoordinates"
	KindAnimateToRegion  CommandKind = "animateToRegion"
	KindAnimateCamera    CommandKind = "animateCamera"
)

// Command is one MapRef call as seen by a remote map.
type Command struct {
	Seq         uint64        `json:"seq"`
	Kind        CommandKind   `json:"kind"`
	Coordinates []types.Point `json:"coordinates,omitempty"`
	Fit         *FitOptions   `json:"fit,omitempty"`
	Region      *Region       `json:"region,omitempty"`
	Camera      *Camera       `json:"camera,omitempty"`
	DurationMs  int64         `json:"durationMs,omitempty"`
}

// Broadcaster implements MapRef by publishing every call to all current
// subscribers. A subscriber whose buffer is full misses the command.
type Broadcaster struct {
	buffer int

	mu     sync.Mutex
	seq    uint64
	nextID uint64
	subs   map[uint64]chan Command
}

func NewBroadcaster(buffer int) *Broadcaster {
	if buffer <= 0 {
		buffer = 16
	}
	return &Broadcaster{buffer: buffer, subs: make(map[uint64]chan Command)}
}

// Subscribe returns a command channel and a cancel func that closes it.
func (b *Broadcaster) Subscribe() (<-chan Command, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	ch := make(chan Command, b.buffer)
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			close(ch)
		})
	}
}

func (b *Broadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

func (b *Broadcaster) FitToCoordinates(coords []types.Point, opts FitOptions) {
	b.publish(Command{
		Kind:        KindFitToCoordinates,
		Coordinates: append([]types.Point(nil), coords...),
		Fit:         &opts,
	})
}

func (b *Broadcaster) AnimateToRegion(region Region, duration time.Duration) {
	b.publish(Command{
		Kind:       KindAnimateToRegion,
		Region:     &region,
		DurationMs: duration.Milliseconds(),
	})
}

func (b *Broadcaster) AnimateCamera(camera Camera, opts AnimateOptions) {
	b.publish(Command{
		Kind:       KindAnimateCamera,
		Camera:     &camera,
		DurationMs: opts.Duration.Milliseconds(),
	})
}

func (b *Broadcaster) publish(cmd Command) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	cmd.Seq = b.seq
	for id, ch := range b.subs {
		select {
		case ch <- cmd:
		default:
			logger.Warn("map client too slow; dropping camera command", "subscriber", id, "kind", string(cmd.Kind))
		}
	}
}
