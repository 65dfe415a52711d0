// README: TripPlanner wires route state, directions, tolls, history and drive mode into the trip planning flow.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"haulnav/internal/logger"
	"haulnav/internal/maps"
	"haulnav/internal/modules/directions"
	"haulnav/internal/modules/history"
	"haulnav/internal/modules/location"
	"haulnav/internal/modules/route"
	"haulnav/internal/modules/toll"
	"haulnav/internal/types"
)

var (
	ErrDuplicatePoint   = errors.New("point is already part of the trip")
	ErrInvalidPoint     = errors.New("point coordinates are invalid")
	ErrUnknownRole      = errors.New("unknown point role")
	ErrMissingEndpoints = errors.New("origin and destination are required")
	ErrNoDirections     = errors.New("no directions calculated")
	ErrUnknownSection   = errors.New("route section not in current directions")
	ErrUnavailable      = errors.New("feature not configured")
)

// Role says where a picked point goes.
type Role string

const (
	RoleOrigin      Role = "origin"
	RoleDestination Role = "destination"
	RoleWaypoint    Role = "waypoint"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleOrigin, RoleDestination, RoleWaypoint:
		return r, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

const focusDuration = 500 * time.Millisecond

type DirectionsProvider interface {
	Directions(ctx context.Context, req maps.Request) (*directions.Directions, error)
}

type PlaceSearcher interface {
	Search(ctx context.Context, query string, near *types.Point) ([]route.RoutePoint, error)
}

type DirectionsCache interface {
	Put(ctx context.Context, d *directions.Directions) error
	Get(ctx context.Context, routeID string) (*directions.Directions, error)
}

type SavedRoutes interface {
	Create(ctx context.Context, r *route.SavedRoute) error
	Get(ctx context.Context, id types.ID) (*route.SavedRoute, error)
	List(ctx context.Context) ([]*route.SavedRoute, error)
	Delete(ctx context.Context, id types.ID) error
}

// TollPricer is satisfied by *toll.Service.
type TollPricer interface {
	AttachRoute(ctx context.Context, routeID string, sections []toll.SectionPath) (int, error)
	Records(ctx context.Context, routeID, section string) ([]toll.TollRecord, error)
	Summary(ctx context.Context, routeID string, sel toll.Selection) (toll.Summary, error)
}

type PickHistory interface {
	Add(ctx context.Context, p route.RoutePoint) error
	Recent(ctx context.Context, limit int) ([]history.Entry, error)
	Clear(ctx context.Context) error
}

// FuelPricer supplies the current diesel price.
type FuelPricer interface {
	PricePerGallon(ctx context.Context) float64
}

// MapCamera is the slice of the drive-mode controller the planner drives.
type MapCamera interface {
	SetEnabled(enabled bool)
	FitRoute(points []types.Point) bool
	Focus(p types.Point, d time.Duration) bool
}

// TripPlannerDeps lists collaborators. Only Directions is required; a nil
// optional dependency disables the operations that need it.
type TripPlannerDeps struct {
	Directions     DirectionsProvider
	Places         PlaceSearcher
	Cache          DirectionsCache
	Saved          SavedRoutes
	Tolls          TollPricer
	History        PickHistory
	Camera         MapCamera
	Location       *location.GeoStore
	Fuel           FuelPricer
	PricePerGallon float64
}

// TripPlanner owns one RouteState and one DirectionsState.
type TripPlanner struct {
	deps  TripPlannerDeps
	route *route.RouteState
	dirs  *directions.DirectionsState
	newID func() (uuid.UUID, error)

	mu sync.Mutex
}

func NewTripPlanner(deps TripPlannerDeps) *TripPlanner {
	return &TripPlanner{
		deps:  deps,
		route: route.NewRouteState(),
		dirs:  directions.NewDirectionsState(),
		newID: uuid.NewV7,
	}
}

// Plan is a consistent view of the trip for the UI.
type Plan struct {
	Route      route.State      `json:"route"`
	Directions directions.State `json:"directions"`
}

func (p *TripPlanner) Plan() Plan {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Plan{Route: p.route.Snapshot(), Directions: p.dirs.Snapshot()}
}

// PickPoint places pt in the given role. A point equal (within
// route.PointTolerance) to any point already on the trip is rejected, except
// the one it replaces in the same endpoint role.
func (p *TripPlanner) PickPoint(ctx context.Context, role Role, pt route.RoutePoint) error {
	if !pt.Point().Valid() {
		return ErrInvalidPoint
	}

	p.mu.Lock()
	state := p.route.Snapshot()
	if err := checkDuplicate(state, role, pt); err != nil {
		p.mu.Unlock()
		return err
	}
	switch role {
	case RoleOrigin:
		p.route.SetOrigin(&pt)
	case RoleDestination:
		p.route.SetDestination(&pt)
	case RoleWaypoint:
		p.route.AddWaypoint(pt)
	default:
		p.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	p.dirs.SetSavedRouteID(nil)
	p.mu.Unlock()

	if p.deps.History != nil {
		if err := p.deps.History.Add(ctx, pt); err != nil {
			logger.Warn("recording picker history failed", "point", pt.ID, "error", err)
		}
	}
	if p.deps.Camera != nil {
		p.deps.Camera.Focus(pt.Point(), focusDuration)
	}
	return nil
}

func checkDuplicate(state route.State, role Role, pt route.RoutePoint) error {
	if state.Origin != nil && role != RoleOrigin && route.PointsEqual(*state.Origin, pt) {
		return ErrDuplicatePoint
	}
	if state.Destination != nil && role != RoleDestination && route.PointsEqual(*state.Destination, pt) {
		return ErrDuplicatePoint
	}
	for _, w := range state.Waypoints {
		if route.PointsEqual(w, pt) {
			return ErrDuplicatePoint
		}
	}
	return nil
}

// DropPin turns a map long-press into a point with a time-ordered id and
// fills the first missing role: origin, then destination, then waypoints.
func (p *TripPlanner) DropPin(ctx context.Context, lat, lng float64) (route.RoutePoint, Role, error) {
	id, err := p.newID()
	if err != nil {
		return route.RoutePoint{}, "", fmt.Errorf("generating pin id: %w", err)
	}
	pt := route.RoutePoint{
		ID:        id.String(),
		Name:      "Dropped pin",
		Address:   fmt.Sprintf("%.5f, %.5f", lat, lng),
		Latitude:  lat,
		Longitude: lng,
	}

	state := p.Plan().Route
	role := RoleWaypoint
	switch {
	case state.Origin == nil:
		role = RoleOrigin
	case state.Destination == nil:
		role = RoleDestination
	}
	if err := p.PickPoint(ctx, role, pt); err != nil {
		return route.RoutePoint{}, "", err
	}
	return pt, role, nil
}

// ClearPoint empties an endpoint role.
func (p *TripPlanner) ClearPoint(role Role) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch role {
	case RoleOrigin:
		p.route.SetOrigin(nil)
	case RoleDestination:
		p.route.SetDestination(nil)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	p.dirs.SetSavedRouteID(nil)
	return nil
}

func (p *TripPlanner) RemoveWaypoint(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.route.RemoveWaypoint(id) {
		return false
	}
	p.dirs.SetSavedRouteID(nil)
	return true
}

func (p *TripPlanner) ReorderWaypoints(from, to int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.route.UpdateWaypointOrder(from, to)
	p.dirs.SetSavedRouteID(nil)
}

// NewTrip clears points and directions and leaves drive mode.
func (p *TripPlanner) NewTrip() {
	p.mu.Lock()
	p.route.ClearRoute()
	p.dirs.ClearDirections()
	p.mu.Unlock()

	if p.deps.Camera != nil {
		p.deps.Camera.SetEnabled(false)
	}
}

// RouteOptions tune a route calculation.
type RouteOptions struct {
	AvoidTolls bool
}

// CalculateRoute is CalculateRouteWith default options.
func (p *TripPlanner) CalculateRoute(ctx context.Context) (*directions.Directions, error) {
	return p.CalculateRouteWith(ctx, RouteOptions{})
}

// CalculateRouteWith requests directions for the current points and attaches
// the toll plazas each section passes. On provider failure the previous
// directions are cleared.
func (p *TripPlanner) CalculateRouteWith(ctx context.Context, opts RouteOptions) (*directions.Directions, error) {
	state := p.Plan().Route
	if !state.HasEndpoints() {
		return nil, ErrMissingEndpoints
	}

	req := maps.Request{
		Origin:      state.Origin.Point(),
		Destination: state.Destination.Point(),
		AvoidTolls:  opts.AvoidTolls,
	}
	for _, w := range state.Waypoints {
		req.Waypoints = append(req.Waypoints, w.Point())
	}

	p.dirs.SetLoading(true)
	defer p.dirs.SetLoading(false)

	d, err := p.deps.Directions.Directions(ctx, req)
	if err != nil {
		p.dirs.SetDirections(nil)
		return nil, fmt.Errorf("calculating route: %w", err)
	}
	p.dirs.SetDirections(d)
	logger.Info("route calculated", "route_id", d.RouteID, "sections", len(d.Route))

	if p.deps.Cache != nil {
		if err := p.deps.Cache.Put(ctx, d); err != nil {
			logger.Warn("caching directions failed", "route_id", d.RouteID, "error", err)
		}
	}
	if p.deps.Tolls != nil {
		paths := make([]toll.SectionPath, 0, len(d.Route))
		for _, s := range d.Route {
			paths = append(paths, toll.SectionPath{ID: s.RouteSectionID, Points: s.MapPoints})
		}
		n, err := p.deps.Tolls.AttachRoute(ctx, d.RouteID, paths)
		if err != nil {
			logger.Warn("attaching tolls failed", "route_id", d.RouteID, "error", err)
		} else {
			logger.Debug("tolls attached", "route_id", d.RouteID, "tolls", n)
		}
	}
	if section, ok := p.dirs.SelectedSection(); ok && p.deps.Camera != nil {
		p.deps.Camera.FitRoute(section.MapPoints)
	}
	return d, nil
}

// Directions returns cached directions by id, falling back to the current
// plan when the id matches it.
func (p *TripPlanner) Directions(ctx context.Context, routeID string) (*directions.Directions, error) {
	if cur := p.dirs.Snapshot().Directions; cur != nil && cur.RouteID == routeID {
		return cur, nil
	}
	if p.deps.Cache == nil {
		return nil, ErrNoDirections
	}
	d, err := p.deps.Cache.Get(ctx, routeID)
	if errors.Is(err, directions.ErrCacheMiss) {
		return nil, ErrNoDirections
	}
	return d, err
}

func (p *TripPlanner) SelectSection(id string) error {
	d := p.dirs.Snapshot().Directions
	section, ok := d.Section(id)
	if !ok {
		return ErrUnknownSection
	}
	p.dirs.SetSelectedRouteSectionID(&id)
	if p.deps.Camera != nil {
		p.deps.Camera.FitRoute(section.MapPoints)
	}
	return nil
}

// StartTrip marks the trip active and turns drive mode on.
func (p *TripPlanner) StartTrip() error {
	if p.dirs.Snapshot().Directions == nil {
		return ErrNoDirections
	}
	p.dirs.SetIsTripActive(true)
	if p.deps.Camera != nil {
		p.deps.Camera.SetEnabled(true)
	}
	logger.Info("trip started")
	return nil
}

func (p *TripPlanner) EndTrip() {
	p.dirs.SetIsTripActive(false)
	if p.deps.Camera != nil {
		p.deps.Camera.SetEnabled(false)
	}
	logger.Info("trip ended")
}

// SaveRoute stores the current points as a template and marks the plan as
// originating from it.
func (p *TripPlanner) SaveRoute(ctx context.Context, name string) (*route.SavedRoute, error) {
	if p.deps.Saved == nil {
		return nil, ErrUnavailable
	}
	state := p.Plan().Route
	if !state.HasEndpoints() {
		return nil, ErrMissingEndpoints
	}

	saved := &route.SavedRoute{
		Name:        name,
		Origin:      *state.Origin,
		Destination: *state.Destination,
		Waypoints:   state.Waypoints,
	}
	if err := p.deps.Saved.Create(ctx, saved); err != nil {
		return nil, fmt.Errorf("saving route: %w", err)
	}
	id := string(saved.ID)
	p.dirs.SetSavedRouteID(&id)
	return saved, nil
}

// LoadSavedRoute replaces the plan with a saved template. Any active trip
// ends.
func (p *TripPlanner) LoadSavedRoute(ctx context.Context, id types.ID) error {
	if p.deps.Saved == nil {
		return ErrUnavailable
	}
	saved, err := p.deps.Saved.Get(ctx, id)
	if err != nil {
		return err
	}

	origin, dest := saved.Origin, saved.Destination
	p.mu.Lock()
	p.route.ClearRoute()
	p.route.SetOrigin(&origin)
	p.route.SetDestination(&dest)
	p.route.SetWaypoints(saved.Waypoints)
	p.dirs.ClearDirections()
	sid := string(saved.ID)
	p.dirs.SetSavedRouteID(&sid)
	p.mu.Unlock()

	if p.deps.Camera != nil {
		p.deps.Camera.SetEnabled(false)
	}
	return nil
}

// DiscardSavedRoute drops a plan loaded from a template.
func (p *TripPlanner) DiscardSavedRoute() {
	p.NewTrip()
}

func (p *TripPlanner) ListSavedRoutes(ctx context.Context) ([]*route.SavedRoute, error) {
	if p.deps.Saved == nil {
		return nil, ErrUnavailable
	}
	return p.deps.Saved.List(ctx)
}

// DeleteSavedRoute removes a template. A plan loaded from it keeps its
// points but loses the provenance marker.
func (p *TripPlanner) DeleteSavedRoute(ctx context.Context, id types.ID) error {
	if p.deps.Saved == nil {
		return ErrUnavailable
	}
	if err := p.deps.Saved.Delete(ctx, id); err != nil {
		return err
	}
	if cur := p.dirs.Snapshot().SavedRouteID; cur != nil && *cur == string(id) {
		p.dirs.SetSavedRouteID(nil)
	}
	return nil
}

// SearchPlaces biases the search towards the device when its location is
// known.
func (p *TripPlanner) SearchPlaces(ctx context.Context, query string) ([]route.RoutePoint, error) {
	if p.deps.Places == nil {
		return nil, ErrUnavailable
	}
	var near *types.Point
	if p.deps.Location != nil {
		if loc := p.deps.Location.Get(); loc != nil {
			pt := loc.Point()
			near = &pt
		}
	}
	return p.deps.Places.Search(ctx, query, near)
}

func (p *TripPlanner) RecentPicks(ctx context.Context, limit int) ([]route.RoutePoint, error) {
	if p.deps.History == nil {
		return nil, nil
	}
	entries, err := p.deps.History.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	points := make([]route.RoutePoint, 0, len(entries))
	for _, e := range entries {
		points = append(points, e.Point)
	}
	return points, nil
}

// ClearRecentPicks forgets the picker history.
func (p *TripPlanner) ClearRecentPicks(ctx context.Context) error {
	if p.deps.History == nil {
		return nil
	}
	return p.deps.History.Clear(ctx)
}

// TollRecords lists the toll plazas on the selected section.
func (p *TripPlanner) TollRecords(ctx context.Context) ([]toll.TollRecord, error) {
	if p.deps.Tolls == nil {
		return nil, ErrUnavailable
	}
	d := p.dirs.Snapshot().Directions
	section, ok := p.dirs.SelectedSection()
	if d == nil || !ok {
		return nil, ErrNoDirections
	}
	return p.deps.Tolls.Records(ctx, d.RouteID, section.RouteSectionID)
}

// TollSummary prices the selected section's tolls.
func (p *TripPlanner) TollSummary(ctx context.Context, axel toll.AxelType, payment *toll.PaymentType) (toll.Summary, error) {
	if p.deps.Tolls == nil {
		return toll.Summary{}, ErrUnavailable
	}
	d := p.dirs.Snapshot().Directions
	section, ok := p.dirs.SelectedSection()
	if d == nil || !ok {
		return toll.Summary{}, ErrNoDirections
	}
	return p.deps.Tolls.Summary(ctx, d.RouteID, toll.Selection{
		RouteSection: section.RouteSectionID,
		Axel:         axel,
		Payment:      payment,
	})
}

// TripSummary reports the selected section's metrics and costs. TollCost is
// nil when there is no toll data.
type TripSummary struct {
	RouteSectionID string               `json:"routeSectionId"`
	Miles          float64              `json:"miles"`
	DriveTime      float64              `json:"driveTime"`
	Gallons        float64              `json:"gallons"`
	FuelCost       types.Money          `json:"fuelCost"`
	Toll           toll.Summary         `json:"toll"`
	TollCost       *types.Money         `json:"tollCost"`
	Total          types.Money          `json:"total"`
	AllSections    directions.RouteInfo `json:"allSections"`
}

// pricePerGallon prefers the live fuel price over the configured one.
func (p *TripPlanner) pricePerGallon(ctx context.Context) float64 {
	if p.deps.Fuel != nil {
		return p.deps.Fuel.PricePerGallon(ctx)
	}
	return p.deps.PricePerGallon
}

func (p *TripPlanner) TripSummary(ctx context.Context, axel toll.AxelType, payment *toll.PaymentType) (TripSummary, error) {
	d := p.dirs.Snapshot().Directions
	section, ok := p.dirs.SelectedSection()
	if d == nil || !ok {
		return TripSummary{}, ErrNoDirections
	}

	info := section.RouteInfo
	summary := TripSummary{
		RouteSectionID: section.RouteSectionID,
		Miles:          info.Miles,
		DriveTime:      info.DriveTime,
		Gallons:        info.Gallons,
		FuelCost:       directions.FuelCost(info, p.pricePerGallon(ctx)),
		AllSections:    directions.Totals(d.Route),
	}
	summary.Total = summary.FuelCost

	if p.deps.Tolls != nil {
		ts, err := p.TollSummary(ctx, axel, payment)
		if err != nil {
			return TripSummary{}, err
		}
		summary.Toll = ts
		if ts.HasData {
			cost := types.USD(ts.Total)
			summary.TollCost = &cost
			summary.Total.Amount += cost.Amount
		}
	}
	return summary, nil
}
