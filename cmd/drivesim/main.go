// README: Replays a recorded GPS trace through tracker -> location store -> drive-mode camera and prints what the map would see.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/kr/pretty"
	"github.com/peterbourgon/ff"

	"haulnav/internal/config"
	"haulnav/internal/logger"
	"haulnav/internal/modules/drivemode"
	"haulnav/internal/modules/location"
	"haulnav/internal/types"
)

// printingMap logs every camera command to stdout.
type printingMap struct {
	mu       sync.Mutex
	verbose  bool
	commands int
}

func (m *printingMap) FitToCoordinates(coords []types.Point, opts drivemode.FitOptions) {
	m.record("fit %d points animated=%v", len(coords), opts.Animated)
}

func (m *printingMap) AnimateToRegion(r drivemode.Region, d time.Duration) {
	m.record("region %.5f,%.5f in %v", r.Latitude, r.Longitude, d)
}

func (m *printingMap) AnimateCamera(c drivemode.Camera, opts drivemode.AnimateOptions) {
	heading := "-"
	if c.Heading != nil {
		heading = fmt.Sprintf("%.1f", *c.Heading)
	}
	m.record("camera %.5f,%.5f heading=%s in %v", c.Center.Lat, c.Center.Lng, heading, opts.Duration)
}

func (m *printingMap) record(format string, args ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commands++
	if m.verbose {
		fmt.Printf(format+"\n", args...)
	}
}

type summary struct {
	Fixes          int
	Accepted       int
	CameraCommands int
	DistanceKm     float64
	FinalMode      string
}

func main() {
	fs := flag.NewFlagSet("drivesim", flag.ExitOnError)
	var (
		tracePath   = fs.String("trace", "", "JSON array of location fixes")
		interval    = fs.Duration("interval", 100*time.Millisecond, "delay between replayed fixes")
		resumeDelay = fs.Duration("resume-delay", 0, "override the auto-resume delay")
		gestureAt   = fs.Int("gesture-at", -1, "simulate a map gesture after this many accepted fixes")
		verbose     = fs.Bool("verbose", false, "print every camera command")
		logLevel    = fs.String("log-level", "warn", "debug, info, warn or error")
	)
	if err := ff.Parse(fs, os.Args[1:], ff.WithEnvVarPrefix("DRIVESIM")); err != nil {
		fmt.Fprintln(os.Stderr, "drivesim:", err)
		os.Exit(2)
	}

	logger.InitLogger(logger.LoggerConfig{
		Level:           logger.ParseLogLevel(*logLevel),
		Console:         true,
		TimeFieldFormat: time.RFC3339,
	})

	if *tracePath == "" {
		fmt.Fprintln(os.Stderr, "drivesim: -trace is required")
		os.Exit(2)
	}
	f, err := os.Open(*tracePath)
	if err != nil {
		logger.Fatal("opening trace", "error", err)
	}
	fixes, err := location.LoadFixes(f)
	f.Close()
	if err != nil {
		logger.Fatal("reading trace", "error", err)
	}

	cfg := config.DefaultDriveMode()
	if *resumeDelay > 0 {
		cfg.ResumeDelay = *resumeDelay
	}

	store := location.NewGeoStore()
	out := &printingMap{verbose: *verbose}
	holder := &drivemode.MapRefHolder{}
	holder.Set(out)
	controller := drivemode.NewController(cfg, store, holder)
	defer controller.Close()

	var (
		mu   sync.Mutex
		path []types.Point
	)
	store.Subscribe(func(loc *location.GeoLocation) {
		if loc == nil {
			return
		}
		mu.Lock()
		path = append(path, loc.Point())
		n := len(path)
		mu.Unlock()
		if n == *gestureAt {
			controller.PauseAndAutoResume()
		}
	})

	source := location.NewReplaySource(fixes, *interval)
	tracker := location.NewTracker(source, store)
	controller.SetEnabled(true)

	ctx := context.Background()
	tracker.Start(ctx)
	<-source.Finished()
	tracker.Stop()

	if *gestureAt >= 0 {
		time.Sleep(cfg.ResumeDelay + 100*time.Millisecond)
	}

	mu.Lock()
	defer mu.Unlock()
	out.mu.Lock()
	defer out.mu.Unlock()
	pretty.Println(summary{
		Fixes:          len(fixes),
		Accepted:       len(path),
		CameraCommands: out.commands,
		DistanceKm:     location.PathKm(path),
		FinalMode:      controller.State().String(),
	})
}
