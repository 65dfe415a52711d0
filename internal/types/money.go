// README: Common money value object used across modules.
package types

import "math"

type Money struct {
	Amount   int64
	Currency string
}

// USD converts a dollar amount into cents, rounding half away from zero.
func USD(dollars float64) Money {
	return Money{Amount: int64(math.Round(dollars * 100)), Currency: "USD"}
}

// Dollars returns the amount as a float in major units.
func (m Money) Dollars() float64 {
	return float64(m.Amount) / 100
}
