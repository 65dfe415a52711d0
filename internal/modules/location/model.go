// README: Device location value, raw native fixes and persisted snapshots.
package location

import (
	"math"
	"time"

	"haulnav/internal/types"
)

// GeoLocation is the latest accepted device position. Values handed out by
// GeoStore are shared and must not be mutated.
type GeoLocation struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Heading   *float64  `json:"heading"`
	Speed     *float64  `json:"speed,omitempty"`
	Accuracy  *float64  `json:"accuracy,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func (g GeoLocation) Point() types.Point {
	return types.Point{Lat: g.Latitude, Lng: g.Longitude}
}

// Coords mirrors the native location payload. Optional readings are nil
// when the platform does not report them.
type Coords struct {
	Latitude         float64  `json:"latitude"`
	Longitude        float64  `json:"longitude"`
	Heading          *float64 `json:"heading"`
	Speed            *float64 `json:"speed"`
	Accuracy         *float64 `json:"accuracy"`
	Altitude         *float64 `json:"altitude"`
	AltitudeAccuracy *float64 `json:"altitudeAccuracy"`
}

// Fix is one reading from a location source. Timestamp is epoch millis.
type Fix struct {
	Coords    Coords `json:"coords"`
	Timestamp int64  `json:"timestamp"`
}

// geoLocation validates the fix and converts it. Non-finite or (0,0)
// coordinates are rejected.
func (f Fix) geoLocation() (*GeoLocation, bool) {
	if !(types.Point{Lat: f.Coords.Latitude, Lng: f.Coords.Longitude}).Valid() {
		return nil, false
	}
	ts := time.Now()
	if f.Timestamp > 0 {
		ts = time.UnixMilli(f.Timestamp)
	}
	return &GeoLocation{
		Latitude:  f.Coords.Latitude,
		Longitude: f.Coords.Longitude,
		Heading:   normalizeHeading(f.Coords.Heading),
		Speed:     finiteOrNil(f.Coords.Speed),
		Accuracy:  finiteOrNil(f.Coords.Accuracy),
		Timestamp: ts,
	}, true
}

// normalizeHeading maps platform "unknown" values (negative, NaN) to nil and
// wraps the rest into [0, 360).
func normalizeHeading(h *float64) *float64 {
	v := finiteOrNil(h)
	if v == nil || *v < 0 {
		return nil
	}
	wrapped := math.Mod(*v, 360)
	return &wrapped
}

func finiteOrNil(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	c := *v
	return &c
}

// Snapshot is one persisted breadcrumb.
type Snapshot struct {
	ID         int64
	DeviceID   types.ID
	Position   types.Point
	Heading    *float64
	Speed      *float64
	RecordedAt time.Time
}
