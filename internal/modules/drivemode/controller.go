// README: Drive-mode camera controller: follows the device location with throttling and auto-resume after map gestures.
package drivemode

import (
	"math"
	"sync"
	"time"

	"github.com/bep/debounce"

	"haulnav/internal/config"
	"haulnav/internal/logger"
	"haulnav/internal/modules/location"
	"haulnav/internal/types"
)

type Mode int

const (
	ModeDisabled Mode = iota
	ModeFollowing
	ModePaused
)

func (m Mode) String() string {
	switch m {
	case ModeFollowing:
		return "following"
	case ModePaused:
		return "paused"
	default:
		return "disabled"
	}
}

const (
	focusDelta     = 0.01
	fitEdgePadding = 50
)

// appliedCamera is the last camera command actually issued.
type appliedCamera struct {
	at       time.Time
	lat, lng float64
	heading  *float64
}

// Controller drives a MapRef from a GeoStore while drive mode is enabled.
// It holds no store subscription while disabled. Camera commands are issued
// with the controller lock held, so they are ordered in time and none is
// issued once SetEnabled(false) has returned.
type Controller struct {
	cfg   config.DriveModeConfig
	store *location.GeoStore
	maps  *MapRefHolder
	now   func() time.Time

	mu          sync.Mutex
	mode        Mode
	latest      *location.GeoLocation
	last        *appliedCamera
	unsubscribe func()
	resume      func(func())
	resumeGen   uint64
}

func NewController(cfg config.DriveModeConfig, store *location.GeoStore, maps *MapRefHolder) *Controller {
	return &Controller{
		cfg:    cfg,
		store:  store,
		maps:   maps,
		now:    time.Now,
		resume: debounce.New(cfg.ResumeDelay),
	}
}

func (c *Controller) State() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// SetEnabled toggles drive mode. Enabling subscribes to the store and
// immediately follows the current location if there is one. Disabling
// drops the subscription and any pending auto-resume.
func (c *Controller) SetEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if enabled == (c.mode != ModeDisabled) {
		return
	}
	if !enabled {
		c.cancelResumeLocked()
		if c.unsubscribe != nil {
			c.unsubscribe()
			c.unsubscribe = nil
		}
		c.mode = ModeDisabled
		c.latest = nil
		c.last = nil
		logger.Debug("drive mode disabled")
		return
	}

	c.mode = ModeFollowing
	c.unsubscribe = c.store.Subscribe(c.onLocation)
	c.latest = c.store.Get()
	if c.latest != nil {
		c.followLocked(c.cfg.FollowDuration)
	}
	logger.Debug("drive mode enabled")
}

// Close is SetEnabled(false).
func (c *Controller) Close() {
	c.SetEnabled(false)
}

// FollowUserCamera points the camera at the latest mirrored location and
// reports whether a command was issued.
func (c *Controller) FollowUserCamera(d time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.followLocked(d)
}

// PauseAndAutoResume is called on user map gestures. Each call re-arms a
// single resume timer; only the last one fires.
func (c *Controller) PauseAndAutoResume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode == ModeDisabled {
		return
	}
	c.mode = ModePaused
	c.resumeGen++
	gen := c.resumeGen
	c.resume(func() { c.fireResume(gen) })
}

// Recenter cancels any pending resume and snaps back to the user.
func (c *Controller) Recenter() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode == ModeDisabled {
		return false
	}
	c.cancelResumeLocked()
	c.mode = ModeFollowing
	return c.followLocked(c.cfg.ResumeDuration)
}

// FitRoute frames a polyline on the map. Invalid points are ignored.
func (c *Controller) FitRoute(points []types.Point) bool {
	ref := c.maps.Current()
	if ref == nil {
		return false
	}
	valid := make([]types.Point, 0, len(points))
	for _, p := range points {
		if p.Valid() {
			valid = append(valid, p)
		}
	}
	if len(valid) == 0 {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	ref.FitToCoordinates(valid, FitOptions{
		EdgePadding: &EdgePadding{Top: fitEdgePadding, Right: fitEdgePadding, Bottom: fitEdgePadding, Left: fitEdgePadding},
		Animated:    true,
	})
	return true
}

// Focus animates to a small region around p, e.g. after a location pick.
func (c *Controller) Focus(p types.Point, d time.Duration) bool {
	ref := c.maps.Current()
	if ref == nil || !p.Valid() {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	ref.AnimateToRegion(Region{
		Latitude:       p.Lat,
		Longitude:      p.Lng,
		LatitudeDelta:  focusDelta,
		LongitudeDelta: focusDelta,
	}, d)
	return true
}

func (c *Controller) onLocation(loc *location.GeoLocation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode == ModeDisabled {
		return
	}

	prev := c.latest
	c.latest = loc
	if loc == nil || c.mode != ModeFollowing {
		return
	}
	if prev != nil && prev.Latitude == loc.Latitude && prev.Longitude == loc.Longitude && sameHeadingExact(prev.Heading, loc.Heading) {
		return
	}
	c.followLocked(c.cfg.FollowDuration)
}

func (c *Controller) fireResume(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode != ModePaused || c.resumeGen != gen {
		return
	}
	c.mode = ModeFollowing
	c.followLocked(c.cfg.ResumeDuration)
}

func (c *Controller) cancelResumeLocked() {
	c.resumeGen++
	c.resume(func() {})
}

func (c *Controller) followLocked(d time.Duration) bool {
	loc := c.latest
	if loc == nil || !loc.Point().Valid() {
		return false
	}
	ref := c.maps.Current()
	if ref == nil {
		return false
	}

	now := c.now()
	if c.last != nil &&
		now.Sub(c.last.at) < c.cfg.ThrottleWindow &&
		c.last.lat == loc.Latitude &&
		c.last.lng == loc.Longitude &&
		headingWithin(c.last.heading, loc.Heading, c.cfg.HeadingEpsilon) {
		return false
	}

	pitch, zoom := c.cfg.Pitch, c.cfg.Zoom
	cam := Camera{
		Center: loc.Point(),
		Pitch:  &pitch,
		Zoom:   &zoom,
	}
	var heading *float64
	if loc.Heading != nil {
		h := *loc.Heading
		heading = &h
		cam.Heading = &h
	}
	ref.AnimateCamera(cam, AnimateOptions{Duration: d})
	c.last = &appliedCamera{at: now, lat: loc.Latitude, lng: loc.Longitude, heading: heading}
	return true
}

// headingWithin treats two headings as the same when both are unknown or
// their circular difference is under eps degrees.
func headingWithin(a, b *float64, eps float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return angularDiff(*a, *b) < eps
}

func sameHeadingExact(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// angularDiff returns the smallest angle between two bearings, in [0, 180].
func angularDiff(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 360)
	if d > 180 {
		d = 360 - d
	}
	return d
}
