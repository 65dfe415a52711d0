// README: Computed route result (sections, polylines, per-section metrics).
package directions

import "haulnav/internal/types"

const metersPerMile = 1609.344

// RouteInfo carries per-section metrics. DriveTime is in seconds.
type RouteInfo struct {
	Gallons   float64 `json:"gallons"`
	Miles     float64 `json:"miles"`
	DriveTime float64 `json:"driveTime"`
}

// RouteSection is one selectable computed leg/alternative with its polyline.
type RouteSection struct {
	RouteSectionID string        `json:"routeSectionId"`
	Summary        string        `json:"summary,omitempty"`
	MapPoints      []types.Point `json:"mapPoints"`
	RouteInfo      RouteInfo     `json:"routeInfo"`
}

// StopPoint is a coordinate tagged with its visit order.
type StopPoint struct {
	StopOrder int     `json:"stopOrder"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Directions struct {
	RouteID   string         `json:"routeId"`
	Route     []RouteSection `json:"route"`
	Waypoints []StopPoint    `json:"waypoints,omitempty"`
}

// Section looks up a section by id.
func (d *Directions) Section(id string) (RouteSection, bool) {
	if d == nil {
		return RouteSection{}, false
	}
	for _, s := range d.Route {
		if s.RouteSectionID == id {
			return s, true
		}
	}
	return RouteSection{}, false
}

// State is a copy of the directions slice.
type State struct {
	Directions             *Directions `json:"directions"`
	SelectedRouteSectionID *string     `json:"selectedRouteSectionId"`
	SavedRouteID           *string     `json:"savedRouteId"`
	IsTripActive           bool        `json:"isTripActive"`
	Loading                bool        `json:"loading"`
}

// MilesFromMeters converts a provider distance.
func MilesFromMeters(m float64) float64 {
	return m / metersPerMile
}

// FuelCost prices the section's gallons. Non-positive inputs cost nothing.
func FuelCost(info RouteInfo, pricePerGallon float64) types.Money {
	if info.Gallons <= 0 || pricePerGallon <= 0 {
		return types.USD(0)
	}
	return types.USD(info.Gallons * pricePerGallon)
}

// Totals sums metrics across all sections of a route.
func Totals(sections []RouteSection) RouteInfo {
	var total RouteInfo
	for _, s := range sections {
		total.Gallons += s.RouteInfo.Gallons
		total.Miles += s.RouteInfo.Miles
		total.DriveTime += s.RouteInfo.DriveTime
	}
	return total
}
