// README: Google Directions adapter producing selectable route sections for a truck trip.
package maps

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"googlemaps.github.io/maps"

	"haulnav/internal/modules/directions"
	"haulnav/internal/types"
)

// ErrNoRoute is returned when the provider finds no path between the stops.
var ErrNoRoute = errors.New("no route found")

// Request is an ordered trip: origin, intermediate stops, destination.
type Request struct {
	Origin      types.Point
	Destination types.Point
	Waypoints   []types.Point
	AvoidTolls  bool
}

type directionsClient interface {
	Directions(ctx context.Context, r *maps.DirectionsRequest) ([]maps.Route, []maps.GeocodedWaypoint, error)
}

// RouteService handles interactions with Google Maps API.
type RouteService struct {
	client directionsClient
	mpg    float64
}

// NewRouteService creates a new RouteService with the given API Key. mpg
// converts miles into estimated gallons.
func NewRouteService(apiKey string, mpg float64) (*RouteService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &RouteService{client: client, mpg: mpg}, nil
}

// Directions requests driving directions with alternatives. Every returned
// alternative becomes one RouteSection.
func (s *RouteService) Directions(ctx context.Context, req Request) (*directions.Directions, error) {
	r := &maps.DirectionsRequest{
		Origin:       latLngString(req.Origin),
		Destination:  latLngString(req.Destination),
		Mode:         maps.TravelModeDriving,
		Alternatives: len(req.Waypoints) == 0,
		Units:        maps.UnitsImperial,
		Region:       "US",
	}
	for _, w := range req.Waypoints {
		r.Waypoints = append(r.Waypoints, latLngString(w))
	}
	if req.AvoidTolls {
		r.Avoid = append(r.Avoid, maps.AvoidTolls)
	}

	routes, _, err := s.client.Directions(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("maps api error: %w", err)
	}
	if len(routes) == 0 {
		return nil, ErrNoRoute
	}

	d, err := buildDirections(uuid.NewString(), routes, s.mpg)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func buildDirections(routeID string, routes []maps.Route, mpg float64) (*directions.Directions, error) {
	d := &directions.Directions{RouteID: routeID}
	for i, rt := range routes {
		section, err := sectionFromRoute(rt, mpg)
		if err != nil {
			return nil, fmt.Errorf("route %d: %w", i, err)
		}
		section.RouteSectionID = routeID + "-" + strconv.Itoa(i)
		d.Route = append(d.Route, section)
	}
	d.Waypoints = stopPoints(routes[0])
	return d, nil
}

func sectionFromRoute(rt maps.Route, mpg float64) (directions.RouteSection, error) {
	path, err := rt.OverviewPolyline.Decode()
	if err != nil {
		return directions.RouteSection{}, fmt.Errorf("decoding polyline: %w", err)
	}
	points := make([]types.Point, 0, len(path))
	for _, ll := range path {
		points = append(points, types.Point{Lat: ll.Lat, Lng: ll.Lng})
	}

	var meters int
	var seconds float64
	for _, leg := range rt.Legs {
		meters += leg.Distance.Meters
		seconds += leg.Duration.Seconds()
	}
	miles := directions.MilesFromMeters(float64(meters))

	info := directions.RouteInfo{Miles: miles, DriveTime: seconds}
	if mpg > 0 {
		info.Gallons = miles / mpg
	}
	return directions.RouteSection{
		Summary:   rt.Summary,
		MapPoints: points,
		RouteInfo: info,
	}, nil
}

// stopPoints tags each leg boundary with its visit order, origin first.
func stopPoints(rt maps.Route) []directions.StopPoint {
	if len(rt.Legs) == 0 {
		return nil
	}
	stops := make([]directions.StopPoint, 0, len(rt.Legs)+1)
	for i, leg := range rt.Legs {
		stops = append(stops, directions.StopPoint{
			StopOrder: i,
			Latitude:  leg.StartLocation.Lat,
			Longitude: leg.StartLocation.Lng,
		})
	}
	last := rt.Legs[len(rt.Legs)-1]
	return append(stops, directions.StopPoint{
		StopOrder: len(rt.Legs),
		Latitude:  last.EndLocation.Lat,
		Longitude: last.EndLocation.Lng,
	})
}

func latLngString(p types.Point) string {
	return strconv.FormatFloat(p.Lat, 'f', 6, 64) + "," + strconv.FormatFloat(p.Lng, 'f', 6, 64)
}
