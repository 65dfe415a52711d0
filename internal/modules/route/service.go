// README: RouteState holds the planned trip (origin, destination, ordered waypoints).
package route

import "sync"

// RouteState is the single owner of the planned trip. Every operation is
// synchronous and total. Duplicate prevention is left to callers; see
// Contains.
type RouteState struct {
	mu          sync.RWMutex
	origin      *RoutePoint
	destination *RoutePoint
	waypoints   []RoutePoint
}

func NewRouteState() *RouteState {
	return &RouteState{}
}

func (s *RouteState) SetOrigin(p *RoutePoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.origin = p
}

func (s *RouteState) SetDestination(p *RoutePoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.destination = p
}

func (s *RouteState) SetWaypoints(points []RoutePoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.waypoints = append([]RoutePoint(nil), points...)
}

func (s *RouteState) AddWaypoint(p RoutePoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.waypoints = append(s.waypoints, p)
}

// RemoveWaypoint drops the first waypoint with the given id. It reports
// whether anything was removed.
func (s *RouteState) RemoveWaypoint(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, w := range s.waypoints {
		if w.ID == id {
			s.waypoints = append(s.waypoints[:i:i], s.waypoints[i+1:]...)
			return true
		}
	}
	return false
}

// UpdateWaypointOrder moves the waypoint at from to index to. An out of range
// from is a no-op; to is clamped into the list.
func (s *RouteState) UpdateWaypointOrder(from, to int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.waypoints)
	if from < 0 || from >= n {
		return
	}
	if to < 0 {
		to = 0
	}
	if to > n-1 {
		to = n - 1
	}
	if from == to {
		return
	}
	moved := s.waypoints[from]
	rest := append(append([]RoutePoint(nil), s.waypoints[:from]...), s.waypoints[from+1:]...)
	out := make([]RoutePoint, 0, n)
	out = append(out, rest[:to]...)
	out = append(out, moved)
	out = append(out, rest[to:]...)
	s.waypoints = out
}

func (s *RouteState) ClearRoute() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.origin = nil
	s.destination = nil
	s.waypoints = nil
}

// Snapshot returns a copy safe to hand to other goroutines. Origin and
// destination keep pointer identity with what was set.
func (s *RouteState) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{
		Origin:      s.origin,
		Destination: s.destination,
		Waypoints:   append([]RoutePoint{}, s.waypoints...),
	}
}

func (s *RouteState) AllPoints() []RoutePoint {
	return s.Snapshot().AllPoints()
}

func (s *RouteState) HasEndpoints() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.origin != nil && s.destination != nil
}

// Contains reports whether p equals (within PointTolerance) the origin, the
// destination or any waypoint.
func (s *RouteState) Contains(p RoutePoint) bool {
	for _, existing := range s.AllPoints() {
		if PointsEqual(existing, p) {
			return true
		}
	}
	return false
}
