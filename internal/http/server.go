// README: API gateway; builds the gin engine and delegates to module services.
package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"haulnav/internal/modules/drivemode"
	"haulnav/internal/modules/location"
	"haulnav/internal/service"
)

type ServerDeps struct {
	Planner  *service.TripPlanner
	Location *location.GeoStore
	Tracker  *location.Tracker
	Drive    *drivemode.Controller
	Stream   *drivemode.Broadcaster
}

type Server struct {
	deps ServerDeps
	ctx  context.Context
}

// NewServer keeps ctx for work that outlives a single request, such as
// location tracking started over HTTP.
func NewServer(ctx context.Context, deps ServerDeps) *Server {
	return &Server{deps: deps, ctx: ctx}
}

func (s *Server) Routes() http.Handler {
	return NewRouter(s.ctx, s.deps)
}

// ReleaseMode switches gin out of debug logging.
func ReleaseMode() {
	gin.SetMode(gin.ReleaseMode)
}
