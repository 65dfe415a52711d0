// README: Platform-neutral map camera contract shared by the drive-mode controller and the UI.
package drivemode

import (
	"sync"
	"time"

	"haulnav/internal/types"
)

type EdgePadding struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

type FitOptions struct {
	EdgePadding *EdgePadding `json:"edgePadding,omitempty"`
	Animated    bool         `json:"animated"`
}

type Region struct {
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	LatitudeDelta  float64 `json:"latitudeDelta"`
	LongitudeDelta float64 `json:"longitudeDelta"`
}

// Camera is a target camera position. Nil fields leave the map's current
// value unchanged.
type Camera struct {
	Center  types.Point `json:"center"`
	Pitch   *float64    `json:"pitch,omitempty"`
	Zoom    *float64    `json:"zoom,omitempty"`
	Heading *float64    `json:"heading,omitempty"`
}

type AnimateOptions struct {
	Duration time.Duration `json:"-"`
}

// MapRef is implemented once per map backend.
type MapRef interface {
	FitToCoordinates(coords []types.Point, opts FitOptions)
	AnimateToRegion(region Region, duration time.Duration)
	AnimateCamera(camera Camera, opts AnimateOptions)
}

// MapRefHolder holds the currently mounted map, if any. A nil Current means
// the map is not ready and commands should be skipped.
type MapRefHolder struct {
	mu  sync.RWMutex
	ref MapRef
}

func (h *MapRefHolder) Set(ref MapRef) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ref = ref
}

func (h *MapRefHolder) Current() MapRef {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.ref
}
