// README: DirectionsState holds the computed route, the selected section and trip flags.
package directions

import "sync"

type DirectionsState struct {
	mu         sync.RWMutex
	directions *Directions
	selected   *string
	savedRoute *string
	tripActive bool
	loading    bool
}

func NewDirectionsState() *DirectionsState {
	return &DirectionsState{}
}

// SetDirections replaces the route result and resets the selection to the
// first section, or nil when there is none.
func (s *DirectionsState) SetDirections(d *Directions) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.directions = d
	s.selected = nil
	if d != nil && len(d.Route) > 0 {
		id := d.Route[0].RouteSectionID
		s.selected = &id
	}
}

// SetSelectedRouteSectionID does not validate id against the current route.
func (s *DirectionsState) SetSelectedRouteSectionID(id *string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = copyString(id)
}

func (s *DirectionsState) SetSavedRouteID(id *string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.savedRoute = copyString(id)
}

func (s *DirectionsState) SetIsTripActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tripActive = active
}

func (s *DirectionsState) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}

// ClearDirections resets the whole slice, trip flag and provenance included.
func (s *DirectionsState) ClearDirections() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.directions = nil
	s.selected = nil
	s.savedRoute = nil
	s.tripActive = false
	s.loading = false
}

func (s *DirectionsState) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{
		Directions:             s.directions,
		SelectedRouteSectionID: copyString(s.selected),
		SavedRouteID:           copyString(s.savedRoute),
		IsTripActive:           s.tripActive,
		Loading:                s.loading,
	}
}

// SelectedSection resolves the current selection. A stale id yields false.
func (s *DirectionsState) SelectedSection() (RouteSection, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return RouteSection{}, false
	}
	return s.directions.Section(*s.selected)
}

func (s *DirectionsState) IsTripActive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tripActive
}

func copyString(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
