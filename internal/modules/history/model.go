// README: Recently picked locations shown by the location picker.
package history

import (
	"time"

	"haulnav/internal/modules/route"
)

// Entry is one picker selection.
type Entry struct {
	ID       int64
	Point    route.RoutePoint
	PickedAt time.Time
}
