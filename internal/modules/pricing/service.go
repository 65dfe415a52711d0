// README: Pricing service resolves the diesel price used for fuel cost estimates.
package pricing

import (
	"context"
	"errors"

	"haulnav/internal/logger"
)

// PriceSource is satisfied by *Store.
type PriceSource interface {
	Latest(ctx context.Context, region string) (FuelPrice, error)
}

type Service struct {
	store    PriceSource
	region   string
	fallback float64
}

// NewService prices fuel for region, using fallback when the store has no
// usable price.
func NewService(store PriceSource, region string, fallback float64) *Service {
	return &Service{store: store, region: region, fallback: fallback}
}

func (s *Service) PricePerGallon(ctx context.Context) float64 {
	if s.store == nil {
		return s.fallback
	}
	p, err := s.store.Latest(ctx, s.region)
	if err != nil {
		if !errors.Is(err, ErrNoPrice) {
			logger.Warn("fuel price lookup failed; using configured price", "region", s.region, "error", err)
		}
		return s.fallback
	}
	if p.PricePerGallon <= 0 {
		return s.fallback
	}
	return p.PricePerGallon
}
