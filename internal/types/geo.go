// README: Shared identifiers and coordinate value objects.
package types

import "math"

type ID string

// Point is a bare WGS84 coordinate pair.
type Point struct {
	Lat float64 `json:"latitude"`
	Lng float64 `json:"longitude"`
}

// Valid reports whether both coordinates are finite and the pair is not the
// (0,0) "no fix" sentinel.
func (p Point) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) || math.IsNaN(p.Lng) || math.IsInf(p.Lng, 0) {
		return false
	}
	return !(p.Lat == 0 && p.Lng == 0)
}
