package maps

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"googlemaps.github.io/maps"

	"haulnav/internal/types"
)

type fakeDirections struct {
	routes []maps.Route
	err    error
	got    *maps.DirectionsRequest
}

func (f *fakeDirections) Directions(_ context.Context, r *maps.DirectionsRequest) ([]maps.Route, []maps.GeocodedWaypoint, error) {
	f.got = r
	return f.routes, nil, f.err
}

type fakePlaces struct {
	resp maps.PlacesSearchResponse
	got  *maps.TextSearchRequest
}

func (f *fakePlaces) TextSearch(_ context.Context, r *maps.TextSearchRequest) (maps.PlacesSearchResponse, error) {
	f.got = r
	return f.resp, nil
}

func leg(meters int, d time.Duration, start, end maps.LatLng) *maps.Leg {
	l := &maps.Leg{Duration: d, StartLocation: start, EndLocation: end}
	l.Distance.Meters = meters
	return l
}

func testRoute(summary string, legs ...*maps.Leg) maps.Route {
	path := []maps.LatLng{{Lat: 41.8781, Lng: -87.6298}, {Lat: 41.5934, Lng: -87.3464}}
	return maps.Route{
		Summary:          summary,
		Legs:             legs,
		OverviewPolyline: maps.Polyline{Points: maps.Encode(path)},
	}
}

func TestRouteService_Directions(t *testing.T) {
	chicago := maps.LatLng{Lat: 41.8781, Lng: -87.6298}
	joliet := maps.LatLng{Lat: 41.5250, Lng: -88.0817}
	gary := maps.LatLng{Lat: 41.5934, Lng: -87.3464}

	client := &fakeDirections{routes: []maps.Route{
		testRoute("I-80", leg(1609344, time.Hour, chicago, joliet), leg(160934, 30*time.Minute, joliet, gary)),
	}}
	svc := &RouteService{client: client, mpg: 6.5}

	d, err := svc.Directions(context.Background(), Request{
		Origin:      types.Point{Lat: chicago.Lat, Lng: chicago.Lng},
		Destination: types.Point{Lat: gary.Lat, Lng: gary.Lng},
		Waypoints:   []types.Point{{Lat: joliet.Lat, Lng: joliet.Lng}},
		AvoidTolls:  true,
	})
	if err != nil {
		t.Fatalf("Directions: %v", err)
	}

	if client.got.Origin != "41.878100,-87.629800" || len(client.got.Waypoints) != 1 {
		t.Errorf("unexpected request %+v", client.got)
	}
	if client.got.Alternatives {
		t.Error("alternatives should be off when waypoints are given")
	}
	if len(client.got.Avoid) != 1 || client.got.Avoid[0] != maps.AvoidTolls {
		t.Errorf("avoid = %v", client.got.Avoid)
	}

	if len(d.Route) != 1 {
		t.Fatalf("sections = %d", len(d.Route))
	}
	s := d.Route[0]
	if s.RouteSectionID != d.RouteID+"-0" {
		t.Errorf("section id = %q", s.RouteSectionID)
	}
	if math.Abs(s.RouteInfo.Miles-1100) > 0.01 {
		t.Errorf("miles = %v, want 1100", s.RouteInfo.Miles)
	}
	if s.RouteInfo.DriveTime != 5400 {
		t.Errorf("drive time = %v, want 5400", s.RouteInfo.DriveTime)
	}
	if math.Abs(s.RouteInfo.Gallons-1100/6.5) > 0.01 {
		t.Errorf("gallons = %v", s.RouteInfo.Gallons)
	}
	if len(s.MapPoints) != 2 || math.Abs(s.MapPoints[0].Lat-41.8781) > 1e-5 {
		t.Errorf("map points = %v", s.MapPoints)
	}

	if len(d.Waypoints) != 3 {
		t.Fatalf("stops = %v", d.Waypoints)
	}
	if d.Waypoints[1].StopOrder != 1 || d.Waypoints[1].Latitude != joliet.Lat || d.Waypoints[2].Longitude != gary.Lng {
		t.Errorf("stops = %+v", d.Waypoints)
	}
}

func TestRouteService_Alternatives(t *testing.T) {
	a := maps.LatLng{Lat: 41.8781, Lng: -87.6298}
	b := maps.LatLng{Lat: 41.5934, Lng: -87.3464}
	client := &fakeDirections{routes: []maps.Route{
		testRoute("I-90", leg(40000, 40*time.Minute, a, b)),
		testRoute("I-94", leg(45000, 35*time.Minute, a, b)),
	}}
	svc := &RouteService{client: client, mpg: 6.5}

	d, err := svc.Directions(context.Background(), Request{
		Origin:      types.Point{Lat: a.Lat, Lng: a.Lng},
		Destination: types.Point{Lat: b.Lat, Lng: b.Lng},
	})
	if err != nil {
		t.Fatalf("Directions: %v", err)
	}
	if !client.got.Alternatives {
		t.Error("alternatives should be requested without waypoints")
	}
	if len(d.Route) != 2 || d.Route[1].Summary != "I-94" || d.Route[1].RouteSectionID != d.RouteID+"-1" {
		t.Errorf("sections = %+v", d.Route)
	}
}

func TestRouteService_Errors(t *testing.T) {
	svc := &RouteService{client: &fakeDirections{}}
	if _, err := svc.Directions(context.Background(), Request{}); !errors.Is(err, ErrNoRoute) {
		t.Errorf("err = %v, want ErrNoRoute", err)
	}

	svc = &RouteService{client: &fakeDirections{err: errors.New("quota")}}
	if _, err := svc.Directions(context.Background(), Request{}); err == nil {
		t.Error("expected provider error")
	}
}

func TestPlacesService_Search(t *testing.T) {
	var resp maps.PlacesSearchResponse
	add := func(id, name string, lat, lng float64) {
		r := maps.PlacesSearchResult{PlaceID: id, Name: name, FormattedAddress: name + " addr"}
		r.Geometry.Location = maps.LatLng{Lat: lat, Lng: lng}
		resp.Results = append(resp.Results, r)
	}
	add("p1", "Pilot Travel Center", 41.5, -87.3)
	add("p1", "Pilot Travel Center", 41.5, -87.3)
	add("p2", "Broken", 0, 0)
	add("p3", "Love's", 41.6, -87.4)

	client := &fakePlaces{resp: resp}
	svc := &PlacesService{client: client}

	got, err := svc.Search(context.Background(), "  truck stop ", &types.Point{Lat: 41.8, Lng: -87.6})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if client.got.Query != "truck stop" || client.got.Location == nil || client.got.Radius != nearbyRadiusM {
		t.Errorf("unexpected request %+v", client.got)
	}
	if len(got) != 2 || got[0].ID != "p1" || got[1].ID != "p3" {
		t.Errorf("results = %+v", got)
	}
}

func TestPlacesService_EmptyQuery(t *testing.T) {
	client := &fakePlaces{}
	svc := &PlacesService{client: client}
	got, err := svc.Search(context.Background(), "   ", nil)
	if err != nil || got != nil || client.got != nil {
		t.Errorf("empty query should not hit the provider: %v %v", got, err)
	}
}
