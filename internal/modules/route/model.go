// README: Trip point model and tolerance-based point equality.
package route

import (
	"math"
	"time"

	"haulnav/internal/types"
)

// PointTolerance is the per-axis degree delta (about 10 m) under which two
// points are treated as the same physical place.
const PointTolerance = 0.0001

// RoutePoint is one geographic stop. ID is opaque: a place-provider id or a
// synthesized one for dropped pins.
type RoutePoint struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (p RoutePoint) Point() types.Point {
	return types.Point{Lat: p.Latitude, Lng: p.Longitude}
}

// PointsEqual compares coordinates only; ID, name and address are ignored.
func PointsEqual(a, b RoutePoint) bool {
	return math.Abs(a.Latitude-b.Latitude) < PointTolerance &&
		math.Abs(a.Longitude-b.Longitude) < PointTolerance
}

// State is a copy of the planned trip.
type State struct {
	Origin      *RoutePoint  `json:"origin"`
	Destination *RoutePoint  `json:"destination"`
	Waypoints   []RoutePoint `json:"waypoints"`
}

// AllPoints returns origin, destination, then waypoints in visit order,
// skipping missing endpoints.
func (s State) AllPoints() []RoutePoint {
	points := make([]RoutePoint, 0, len(s.Waypoints)+2)
	if s.Origin != nil {
		points = append(points, *s.Origin)
	}
	if s.Destination != nil {
		points = append(points, *s.Destination)
	}
	return append(points, s.Waypoints...)
}

func (s State) HasEndpoints() bool {
	return s.Origin != nil && s.Destination != nil
}

// SavedRoute is a stored trip template.
type SavedRoute struct {
	ID          types.ID     `json:"id"`
	Name        string       `json:"name"`
	Origin      RoutePoint   `json:"origin"`
	Destination RoutePoint   `json:"destination"`
	Waypoints   []RoutePoint `json:"waypoints"`
	CreatedAt   time.Time    `json:"created_at"`
}
