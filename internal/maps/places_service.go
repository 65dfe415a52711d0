// README: Google Places text search returning pickable route points.
package maps

import (
	"context"
	"fmt"
	"strings"

	"googlemaps.github.io/maps"

	"haulnav/internal/modules/route"
	"haulnav/internal/types"
)

const (
	maxPlaceResults = 5
	nearbyRadiusM   = 50000
)

type placesClient interface {
	TextSearch(ctx context.Context, r *maps.TextSearchRequest) (maps.PlacesSearchResponse, error)
}

// PlacesService handles interactions with Google Places API.
type PlacesService struct {
	client placesClient
}

// NewPlacesService creates a new PlacesService with the given API Key.
func NewPlacesService(apiKey string) (*PlacesService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &PlacesService{client: client}, nil
}

// Search runs a text search, biased towards near when given. Results carry
// the place id as their RoutePoint id.
func (s *PlacesService) Search(ctx context.Context, query string, near *types.Point) ([]route.RoutePoint, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	r := &maps.TextSearchRequest{
		Query:    query,
		Language: "en",
		Region:   "us",
	}
	if near != nil && near.Valid() {
		r.Location = &maps.LatLng{Lat: near.Lat, Lng: near.Lng}
		r.Radius = nearbyRadiusM
	}

	resp, err := s.client.TextSearch(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("places api error: %w", err)
	}

	seen := make(map[string]bool)
	var results []route.RoutePoint
	for _, result := range resp.Results {
		if result.PlaceID == "" || seen[result.PlaceID] {
			continue
		}
		seen[result.PlaceID] = true

		p := route.RoutePoint{
			ID:        result.PlaceID,
			Name:      result.Name,
			Address:   result.FormattedAddress,
			Latitude:  result.Geometry.Location.Lat,
			Longitude: result.Geometry.Location.Lng,
		}
		if !p.Point().Valid() {
			continue
		}
		results = append(results, p)

		if len(results) >= maxPlaceResults {
			break
		}
	}
	return results, nil
}
