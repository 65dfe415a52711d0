// README: Diesel price points used to cost a trip's fuel.
package pricing

import "time"

// FuelPrice is a per-gallon diesel price effective from a point in time.
type FuelPrice struct {
	Region         string    `json:"region"`
	PricePerGallon float64   `json:"pricePerGallon"`
	EffectiveAt    time.Time `json:"effectiveAt"`
}
