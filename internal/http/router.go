// README: HTTP router registration.
package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"haulnav/internal/http/handlers"
	"haulnav/internal/http/middleware"
)

func NewRouter(ctx context.Context, deps ServerDeps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(), middleware.Logging())

	trip := handlers.NewTripHandler(deps.Planner)
	r.GET("/api/trip", trip.Get)
	r.POST("/api/trip/new", trip.NewTrip)
	r.POST("/api/trip/points", trip.PickPoint)
	r.DELETE("/api/trip/points/:role", trip.ClearPoint)
	r.POST("/api/trip/pins", trip.DropPin)
	r.DELETE("/api/trip/waypoints/:id", trip.RemoveWaypoint)
	r.POST("/api/trip/waypoints/reorder", trip.ReorderWaypoints)
	r.POST("/api/trip/route", trip.Calculate)
	r.GET("/api/directions/:id", trip.GetDirections)
	r.PUT("/api/trip/sections/:id", trip.SelectSection)
	r.POST("/api/trip/start", trip.Start)
	r.POST("/api/trip/end", trip.End)
	r.GET("/api/trip/tolls", trip.Tolls)
	r.GET("/api/trip/tolls/records", trip.TollRecords)
	r.GET("/api/trip/summary", trip.Summary)

	saved := handlers.NewSavedRouteHandler(deps.Planner)
	r.GET("/api/saved-routes", saved.List)
	r.POST("/api/saved-routes", saved.Save)
	r.POST("/api/saved-routes/:id/load", saved.Load)
	r.POST("/api/saved-routes/discard", saved.Discard)
	r.DELETE("/api/saved-routes/:id", saved.Delete)

	places := handlers.NewPlacesHandler(deps.Planner)
	r.GET("/api/places/search", places.Search)
	r.GET("/api/places/recent", places.Recent)
	r.DELETE("/api/places/recent", places.ClearRecent)

	if deps.Location != nil && deps.Tracker != nil {
		loc := handlers.NewLocationHandler(ctx, deps.Location, deps.Tracker)
		r.GET("/api/location", loc.Current)
		r.POST("/api/location/fix", loc.PushFix)
		r.POST("/api/location/start", loc.Start)
		r.POST("/api/location/stop", loc.Stop)
		r.POST("/api/location/reset", loc.Reset)
	}

	if deps.Drive != nil && deps.Stream != nil {
		drive := handlers.NewDriveHandler(deps.Planner, deps.Drive, deps.Stream)
		r.GET("/api/drive", drive.State)
		r.PUT("/api/drive", drive.SetEnabled)
		r.POST("/api/drive/gesture", drive.Gesture)
		r.POST("/api/drive/recenter", drive.Recenter)
		r.GET("/api/map/stream", drive.Stream)
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	return r
}
