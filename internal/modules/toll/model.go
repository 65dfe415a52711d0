// README: Toll records and the open wire codes for payment type, axle class and time of day.
package toll

import (
	"strconv"
	"strings"
)

// PaymentType is a backend wire code. Zero is "unknown" (also what a JSON
// null decodes to); codes outside the known set are unrecognized and never
// match a selection.
type PaymentType int

const (
	PaymentUnknown   PaymentType = 0
	Cash             PaymentType = 1
	EZPass           PaymentType = 2
	IPass            PaymentType = 3
	SunPass          PaymentType = 4
	PayOnline        PaymentType = 5
	VideoTolls       PaymentType = 6
	OutOfStateEZPass PaymentType = 7
	AccountToll      PaymentType = 8
	NonAccountToll   PaymentType = 9
	PalPass          PaymentType = 10
)

var paymentNames = map[PaymentType]string{
	Cash:             "Cash",
	EZPass:           "EZPass",
	IPass:            "IPass",
	SunPass:          "SunPass",
	PayOnline:        "PayOnline",
	VideoTolls:       "VideoTolls",
	OutOfStateEZPass: "OutOfStateEZPass",
	AccountToll:      "AccountToll",
	NonAccountToll:   "NonAccountToll",
	PalPass:          "PalPass",
}

func (p PaymentType) Known() bool {
	_, ok := paymentNames[p]
	return ok
}

func (p PaymentType) String() string {
	if name, ok := paymentNames[p]; ok {
		return name
	}
	return "Unknown(" + strconv.Itoa(int(p)) + ")"
}

// ParsePaymentType accepts a known name (case-insensitive) or a numeric code.
func ParsePaymentType(s string) (PaymentType, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		p := PaymentType(n)
		return p, p.Known()
	}
	for p, name := range paymentNames {
		if strings.EqualFold(name, s) {
			return p, true
		}
	}
	return PaymentUnknown, false
}

// AxelType is the vehicle axle count used for toll classes.
type AxelType int

const (
	Axles5 AxelType = 5
	Axles6 AxelType = 6
)

// Selectable reports whether the axle class can be chosen by the driver.
func (a AxelType) Selectable() bool {
	return a == Axles5 || a == Axles6
}

// TimeOfDay is a price band. Zero (absent/null) is treated as Any.
type TimeOfDay int

const (
	TimeUnspecified TimeOfDay = 0
	TimeAny         TimeOfDay = 1
	TimeDay         TimeOfDay = 2
	TimeNight       TimeOfDay = 3
	TimePeak        TimeOfDay = 4
	TimeOffPeak     TimeOfDay = 5
)

func (t TimeOfDay) IsAny() bool {
	return t == TimeUnspecified || t == TimeAny
}

type TollPrice struct {
	PaymentType PaymentType `json:"paymentType"`
	AxelType    AxelType    `json:"axelType"`
	TimeOfDay   TimeOfDay   `json:"timeOfDay"`
	Amount      float64     `json:"amount"`
}

// TollRecord is one toll point on a route section. Records without
// TollPrices use the legacy PayOnline/IPass amounts.
type TollRecord struct {
	ID           string      `json:"id"`
	Key          string      `json:"key"`
	RouteSection string      `json:"routeSection"`
	IsDynamic    bool        `json:"isDynamic"`
	TollPrices   []TollPrice `json:"tollPrices"`
	PayOnline    float64     `json:"payOnline,omitempty"`
	IPass        float64     `json:"iPass,omitempty"`
	Name         string      `json:"name,omitempty"`
	Latitude     float64     `json:"latitude,omitempty"`
	Longitude    float64     `json:"longitude,omitempty"`
}

func (t TollRecord) dedupeKey() string {
	if t.Key != "" {
		return t.Key
	}
	return t.ID
}

// PriceFor resolves the record's price for an axle class and payment type.
func (t TollRecord) PriceFor(axel AxelType, payment PaymentType) (float64, bool) {
	if len(t.TollPrices) > 0 {
		return TollPriceAmountFor(t.TollPrices, axel, payment)
	}
	switch {
	case payment == PayOnline && t.PayOnline > 0:
		return t.PayOnline, true
	case payment == IPass && t.IPass > 0:
		return t.IPass, true
	}
	return 0, false
}
