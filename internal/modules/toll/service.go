// README: Toll service attaches catalog plazas to computed routes and prices a selection.
package toll

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/samber/lo"

	"haulnav/internal/types"
)

var ErrBadAxles = errors.New("axle class must be 5 or 6")

// RecordStore is satisfied by *Store.
type RecordStore interface {
	ForRoute(ctx context.Context, routeID string) ([]TollRecord, error)
	PlazasWithin(ctx context.Context, b Bounds) ([]TollRecord, error)
	SaveForRoute(ctx context.Context, routeID string, records []TollRecord) error
}

type Service struct {
	store RecordStore
}

func NewService(store RecordStore) *Service {
	return &Service{store: store}
}

// AttachRoute finds the catalog plazas lying on each section and stores
// them as the route's toll records, in driving order per section. It
// returns how many records were stored.
func (s *Service) AttachRoute(ctx context.Context, routeID string, sections []SectionPath) (int, error) {
	type hit struct {
		segment int
		record  TollRecord
	}

	var matched []TollRecord
	for _, sec := range sections {
		box, ok := boundsFor(sec.Points, plazaMatchMeters)
		if !ok {
			continue
		}
		plazas, err := s.store.PlazasWithin(ctx, box)
		if err != nil {
			return 0, fmt.Errorf("loading toll plazas for section %s: %w", sec.ID, err)
		}

		var hits []hit
		for _, p := range plazas {
			seg, ok := pathIndex(types.Point{Lat: p.Latitude, Lng: p.Longitude}, sec.Points, plazaMatchMeters)
			if !ok {
				continue
			}
			p.RouteSection = sec.ID
			hits = append(hits, hit{segment: seg, record: p})
		}
		sort.SliceStable(hits, func(i, j int) bool { return hits[i].segment < hits[j].segment })
		for _, h := range hits {
			matched = append(matched, h.record)
		}
	}

	if len(matched) == 0 {
		return 0, nil
	}
	if err := s.store.SaveForRoute(ctx, routeID, matched); err != nil {
		return 0, fmt.Errorf("saving tolls for route %s: %w", routeID, err)
	}
	return len(matched), nil
}

// Records returns the route's toll records on one section, or on every
// section when section is empty.
func (s *Service) Records(ctx context.Context, routeID, section string) ([]TollRecord, error) {
	tolls, err := s.store.ForRoute(ctx, routeID)
	if err != nil {
		return nil, err
	}
	if section == "" {
		return tolls, nil
	}
	return lo.Filter(tolls, func(t TollRecord, _ int) bool {
		return t.RouteSection == section
	}), nil
}

// Summary prices the selection against the route's toll records.
func (s *Service) Summary(ctx context.Context, routeID string, sel Selection) (Summary, error) {
	if !sel.Axel.Selectable() {
		return Summary{}, ErrBadAxles
	}
	tolls, err := s.store.ForRoute(ctx, routeID)
	if err != nil {
		return Summary{}, err
	}
	return ComputeTotal(tolls, sel), nil
}
