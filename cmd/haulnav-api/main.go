// README: Entry point; loads config, wires the trip engine, location pipeline and drive mode, starts the HTTP server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"haulnav/internal/config"
	httptransport "haulnav/internal/http"
	"haulnav/internal/infra"
	"haulnav/internal/logger"
	"haulnav/internal/maps"
	"haulnav/internal/modules/directions"
	"haulnav/internal/modules/drivemode"
	"haulnav/internal/modules/history"
	"haulnav/internal/modules/location"
	"haulnav/internal/modules/pricing"
	"haulnav/internal/modules/route"
	"haulnav/internal/modules/toll"
	"haulnav/internal/service"
	"haulnav/internal/types"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := logger.DefaultLoggerConfig()
	logCfg.Level = logger.ParseLogLevel(cfg.Logging.Level)
	if cfg.Logging.FilePath != "" {
		logCfg.File = true
		logCfg.FilePath = cfg.Logging.FilePath
	}
	logger.InitLogger(logCfg)
	if envErr != nil {
		logger.Debug("no .env file loaded", "error", envErr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		logger.Fatal("postgres init failed", "error", err)
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)
	defer redisClient.Close()

	localDB, err := infra.NewSQLite(cfg.History.Path)
	if err != nil {
		logger.Fatal("sqlite init failed", "error", err)
	}
	defer localDB.Close()

	pickHistory, err := history.NewStore(ctx, localDB, cfg.History.Limit)
	if err != nil {
		logger.Fatal("history init failed", "error", err)
	}

	routeService, err := maps.NewRouteService(cfg.Maps.APIKey, cfg.Maps.MPG)
	if err != nil {
		logger.Fatal("maps init failed", "error", err)
	}
	placesService, err := maps.NewPlacesService(cfg.Maps.APIKey)
	if err != nil {
		logger.Fatal("places init failed", "error", err)
	}

	tollSvc := toll.NewService(toll.NewStore(dbPool))
	fuelSvc := pricing.NewService(pricing.NewStore(dbPool), cfg.Fuel.Region, cfg.Fuel.PricePerGallon)

	geo := location.Shared()
	var source location.Source = location.PushSource{}
	if cfg.Firebase.DatabaseURL != "" {
		rtdb, err := infra.NewFirebaseDB(ctx, cfg.Firebase.ProjectID, cfg.Firebase.DatabaseURL, cfg.Firebase.CredentialsFile)
		if err != nil {
			logger.Fatal("firebase init failed", "error", err)
		}
		source = location.NewFirebaseSource(rtdb, cfg.Firebase.DeviceID, cfg.Firebase.PollInterval)
	}
	tracker := location.NewTracker(source, geo)

	recorder := location.NewRecorder(location.NewStore(dbPool, redisClient), types.ID(cfg.Firebase.DeviceID), 64)
	detach := recorder.Attach(geo)
	defer detach()
	go recorder.Run(ctx)

	stream := drivemode.NewBroadcaster(32)
	mapRef := &drivemode.MapRefHolder{}
	mapRef.Set(stream)
	controller := drivemode.NewController(cfg.DriveMode, geo, mapRef)
	defer controller.Close()

	planner := service.NewTripPlanner(service.TripPlannerDeps{
		Directions:     routeService,
		Places:         placesService,
		Cache:          directions.NewCache(redisClient, cfg.Redis.DirectionsTTL),
		Saved:          route.NewStore(dbPool),
		Tolls:          tollSvc,
		History:        pickHistory,
		Camera:         controller,
		Location:       geo,
		Fuel:           fuelSvc,
		PricePerGallon: cfg.Fuel.PricePerGallon,
	})

	tracker.Start(ctx)
	defer tracker.Stop()

	httptransport.ReleaseMode()
	handler := httptransport.NewServer(ctx, httptransport.ServerDeps{
		Planner:  planner,
		Location: geo,
		Tracker:  tracker,
		Drive:    controller,
		Stream:   stream,
	})
	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler.Routes()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("haulnav api listening", "addr", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("http server failed", "error", err)
	}
}
