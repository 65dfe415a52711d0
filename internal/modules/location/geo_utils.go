// README: Pure great-circle helpers used for trip distances and breadcrumb summaries.
package location

import (
	"math"

	"haulnav/internal/types"
)

const earthRadiusKm = 6371.0

// DistanceKm is the haversine distance between two points in kilometres.
func DistanceKm(a, b types.Point) float64 {
	lat1, lat2 := radians(a.Lat), radians(b.Lat)
	halfLat := radians(b.Lat-a.Lat) / 2
	halfLng := radians(b.Lng-a.Lng) / 2

	h := math.Pow(math.Sin(halfLat), 2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(halfLng), 2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// PathKm sums the leg distances along an ordered path.
func PathKm(points []types.Point) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += DistanceKm(points[i-1], points[i])
	}
	return total
}
