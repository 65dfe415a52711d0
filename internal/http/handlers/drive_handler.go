// README: Drive mode handlers and the camera command stream (SSE).
package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"haulnav/internal/modules/drivemode"
	"haulnav/internal/service"
)

type DriveHandler struct {
	planner    *service.TripPlanner
	controller *drivemode.Controller
	stream     *drivemode.Broadcaster
}

func NewDriveHandler(planner *service.TripPlanner, controller *drivemode.Controller, stream *drivemode.Broadcaster) *DriveHandler {
	return &DriveHandler{planner: planner, controller: controller, stream: stream}
}

type driveModeRequest struct {
	Enabled bool `json:"enabled"`
}

func (h *DriveHandler) State(c *gin.Context) {
	writeJSON(c, http.StatusOK, map[string]any{"mode": h.controller.State().String()})
}

// SetEnabled toggles drive mode through the trip-active flag: enabling
// starts the trip and needs calculated directions, disabling ends it.
func (h *DriveHandler) SetEnabled(c *gin.Context) {
	var req driveModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid body")
		return
	}
	if !req.Enabled {
		h.planner.EndTrip()
		h.State(c)
		return
	}
	if err := h.planner.StartTrip(); err != nil {
		writeTripError(c, err)
		return
	}
	h.State(c)
}

// Gesture reports a user pan/touch on the map.
func (h *DriveHandler) Gesture(c *gin.Context) {
	h.controller.PauseAndAutoResume()
	h.State(c)
}

func (h *DriveHandler) Recenter(c *gin.Context) {
	h.controller.Recenter()
	h.State(c)
}

// Stream relays camera commands to a map client as server-sent events.
func (h *DriveHandler) Stream(c *gin.Context) {
	commands, cancel := h.stream.Subscribe()
	defer cancel()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case cmd, ok := <-commands:
			if !ok {
				return false
			}
			c.SSEvent("camera", cmd)
			return true
		}
	})
}
