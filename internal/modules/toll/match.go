// README: Matches catalog toll plazas onto computed route geometry.
package toll

import (
	"math"

	"haulnav/internal/types"
)

// plazaMatchMeters is how close a plaza must sit to a section polyline to be
// charged on that section.
const plazaMatchMeters = 150.0

const metersPerDegreeLat = 111_320.0

// SectionPath is the geometry of one computed route section.
type SectionPath struct {
	ID     string
	Points []types.Point
}

// Bounds is a lat/lng box, inclusive on every edge.
type Bounds struct {
	MinLat, MinLng float64
	MaxLat, MaxLng float64
}

// boundsFor returns the box around path grown by padMeters. False for an
// empty path.
func boundsFor(path []types.Point, padMeters float64) (Bounds, bool) {
	if len(path) == 0 {
		return Bounds{}, false
	}
	b := Bounds{MinLat: path[0].Lat, MaxLat: path[0].Lat, MinLng: path[0].Lng, MaxLng: path[0].Lng}
	for _, p := range path[1:] {
		b.MinLat = math.Min(b.MinLat, p.Lat)
		b.MaxLat = math.Max(b.MaxLat, p.Lat)
		b.MinLng = math.Min(b.MinLng, p.Lng)
		b.MaxLng = math.Max(b.MaxLng, p.Lng)
	}

	padLat := padMeters / metersPerDegreeLat
	widest := math.Max(math.Abs(b.MinLat), math.Abs(b.MaxLat))
	padLng := padMeters / (metersPerDegreeLat * math.Max(math.Cos(widest*math.Pi/180), 0.01))
	b.MinLat -= padLat
	b.MaxLat += padLat
	b.MinLng -= padLng
	b.MaxLng += padLng
	return b, true
}

// pathIndex returns the index of the first path segment passing within
// meters of p. A single-point path is treated as one zero-length segment.
func pathIndex(p types.Point, path []types.Point, meters float64) (int, bool) {
	if len(path) == 1 {
		return 0, segmentMeters(p, path[0], path[0]) <= meters
	}
	for i := 1; i < len(path); i++ {
		if segmentMeters(p, path[i-1], path[i]) <= meters {
			return i - 1, true
		}
	}
	return 0, false
}

// segmentMeters is the distance from p to segment ab on a local
// equirectangular projection centred on p. Plazas are matched within a few
// hundred metres, where the projection error is negligible.
func segmentMeters(p, a, b types.Point) float64 {
	kx := metersPerDegreeLat * math.Cos(p.Lat*math.Pi/180)
	ax, ay := (a.Lng-p.Lng)*kx, (a.Lat-p.Lat)*metersPerDegreeLat
	bx, by := (b.Lng-p.Lng)*kx, (b.Lat-p.Lat)*metersPerDegreeLat

	dx, dy := bx-ax, by-ay
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(ax, ay)
	}
	t := -(ax*dx + ay*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(ax+t*dx, ay+t*dy)
}
