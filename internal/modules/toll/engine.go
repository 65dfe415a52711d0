// README: Toll pricing engine. Pure functions over toll records; no state.
package toll

import (
	"sort"

	"github.com/samber/lo"
)

// paymentPriority lists the methods most usable by truckers first.
var paymentPriority = []PaymentType{
	PayOnline,
	VideoTolls,
	Cash,
	IPass,
	EZPass,
	SunPass,
	OutOfStateEZPass,
	AccountToll,
	NonAccountToll,
	PalPass,
}

var paymentRank = func() map[PaymentType]int {
	rank := make(map[PaymentType]int, len(paymentPriority))
	for i, p := range paymentPriority {
		rank[p] = i
	}
	return rank
}()

// TollPriceAmountFor returns the price for an exact axle class and known
// payment type. Any/unspecified time-of-day entries win over banded ones;
// within the chosen set the minimum amount is returned.
func TollPriceAmountFor(prices []TollPrice, axel AxelType, payment PaymentType) (float64, bool) {
	if !payment.Known() {
		return 0, false
	}
	matches := lo.Filter(prices, func(p TollPrice, _ int) bool {
		return p.AxelType == axel && p.PaymentType.Known() && p.PaymentType == payment
	})
	if len(matches) == 0 {
		return 0, false
	}
	candidates := lo.Filter(matches, func(p TollPrice, _ int) bool {
		return p.TimeOfDay.IsAny()
	})
	if len(candidates) == 0 {
		candidates = matches
	}
	return lo.Min(lo.Map(candidates, func(p TollPrice, _ int) float64 { return p.Amount })), true
}

// AvailablePaymentTypesForAxles lists the distinct known payment types
// offered for the axle class, in priority order.
func AvailablePaymentTypesForAxles(tolls []TollRecord, axel AxelType) []PaymentType {
	var found []PaymentType
	for _, t := range tolls {
		if len(t.TollPrices) > 0 {
			for _, p := range t.TollPrices {
				if p.AxelType == axel && p.PaymentType.Known() {
					found = append(found, p.PaymentType)
				}
			}
			continue
		}
		if t.PayOnline > 0 {
			found = append(found, PayOnline)
		}
		if t.IPass > 0 {
			found = append(found, IPass)
		}
	}
	out := lo.Uniq(found)
	sort.SliceStable(out, func(i, j int) bool {
		return paymentLess(out[i], out[j])
	})
	return out
}

func paymentLess(a, b PaymentType) bool {
	ra, okA := paymentRank[a]
	rb, okB := paymentRank[b]
	switch {
	case okA && okB:
		return ra < rb
	case okA != okB:
		return okA
	default:
		return a < b
	}
}

// EffectivePaymentType keeps the selection while it is still offered and
// otherwise falls back to the first available type.
func EffectivePaymentType(selected *PaymentType, available []PaymentType) PaymentType {
	if selected != nil && lo.Contains(available, *selected) {
		return *selected
	}
	if len(available) > 0 {
		return available[0]
	}
	return PaymentUnknown
}

// Selection is the driver's toll pricing choice for one route section.
type Selection struct {
	RouteSection string
	Axel         AxelType
	Payment      *PaymentType
}

// Summary is the toll total for a selection. HasData is false when the sum
// is exactly zero, which is shown as "no toll data" rather than $0.00.
type Summary struct {
	Total        float64       `json:"total"`
	PaymentType  PaymentType   `json:"paymentType"`
	Available    []PaymentType `json:"available"`
	Contributing int           `json:"contributing"`
	HasData      bool          `json:"hasData"`
}

// ComputeTotal sums the tolls of the selected section under the effective
// payment type. Dynamic tolls are skipped and records sharing a key (or id)
// are counted once, preferring one that resolves a price.
func ComputeTotal(tolls []TollRecord, sel Selection) Summary {
	section := lo.Filter(tolls, func(t TollRecord, _ int) bool {
		return t.RouteSection == sel.RouteSection && !t.IsDynamic
	})
	available := AvailablePaymentTypesForAxles(section, sel.Axel)
	payment := EffectivePaymentType(sel.Payment, available)

	resolvable := func(t TollRecord) bool {
		_, ok := t.PriceFor(sel.Axel, payment)
		return ok
	}

	var order []string
	chosen := make(map[string]TollRecord, len(section))
	for _, t := range section {
		key := t.dedupeKey()
		existing, seen := chosen[key]
		if !seen {
			chosen[key] = t
			order = append(order, key)
			continue
		}
		if !resolvable(existing) && resolvable(t) {
			chosen[key] = t
		}
	}

	summary := Summary{PaymentType: payment, Available: available}
	for _, key := range order {
		amount, ok := chosen[key].PriceFor(sel.Axel, payment)
		if !ok || amount <= 0 {
			continue
		}
		summary.Total += amount
		summary.Contributing++
	}
	summary.HasData = summary.Total != 0
	return summary
}
