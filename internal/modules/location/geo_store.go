// README: Process-wide observable holding the single latest device location.
package location

import "sync"

// Listener receives every stored value, nil included.
type Listener func(*GeoLocation)

type subscriber struct {
	id uint64
	fn Listener
}

// GeoStore keeps the current location and notifies subscribers
// synchronously, in Set call order, without batching. Listeners must not
// call Set.
type GeoStore struct {
	setMu   sync.Mutex
	mu      sync.RWMutex
	current *GeoLocation
	nextID  uint64
	subs    []subscriber
}

func NewGeoStore() *GeoStore {
	return &GeoStore{}
}

var (
	sharedOnce  sync.Once
	sharedStore *GeoStore
)

// Shared returns the process-wide store.
func Shared() *GeoStore {
	sharedOnce.Do(func() {
		sharedStore = NewGeoStore()
	})
	return sharedStore
}

// Get returns the latest location, or nil before the first fix.
func (s *GeoStore) Get() *GeoLocation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Set overwrites the current value and notifies every subscriber before
// returning.
func (s *GeoStore) Set(next *GeoLocation) {
	if next != nil {
		c := *next
		next = &c
	}

	s.setMu.Lock()
	defer s.setMu.Unlock()

	s.mu.Lock()
	s.current = next
	subs := append([]subscriber(nil), s.subs...)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(next)
	}
}

// Subscribe registers fn. The returned func deregisters it and is safe to
// call more than once.
func (s *GeoStore) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Subscribers reports how many listeners are registered.
func (s *GeoStore) Subscribers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}
