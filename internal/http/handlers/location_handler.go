// README: Device location handlers: current value, pushed fixes and tracker control.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"haulnav/internal/modules/location"
)

type LocationHandler struct {
	store   *location.GeoStore
	tracker *location.Tracker
	ctx     context.Context
}

// NewLocationHandler takes the process context so a tracker started over
// HTTP outlives the request.
func NewLocationHandler(ctx context.Context, store *location.GeoStore, tracker *location.Tracker) *LocationHandler {
	return &LocationHandler{store: store, tracker: tracker, ctx: ctx}
}

func (h *LocationHandler) Current(c *gin.Context) {
	writeJSON(c, http.StatusOK, map[string]any{
		"location": h.store.Get(),
		"tracking": h.tracker.Running(),
	})
}

// PushFix feeds a fix reported directly by the device through the tracker
// filter. Fixes pushed while tracking is stopped are refused.
func (h *LocationHandler) PushFix(c *gin.Context) {
	var fix location.Fix
	if err := c.ShouldBindJSON(&fix); err != nil {
		writeError(c, http.StatusBadRequest, "invalid fix")
		return
	}
	if !h.tracker.Running() {
		writeJSON(c, http.StatusConflict, map[string]any{"accepted": false, "tracking": false})
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"accepted": h.tracker.Accept(fix), "tracking": true})
}

func (h *LocationHandler) Start(c *gin.Context) {
	h.tracker.Start(h.ctx)
	writeJSON(c, http.StatusOK, map[string]any{"tracking": h.tracker.Running()})
}

func (h *LocationHandler) Stop(c *gin.Context) {
	h.tracker.Stop()
	writeJSON(c, http.StatusOK, map[string]any{"tracking": false})
}

func (h *LocationHandler) Reset(c *gin.Context) {
	h.tracker.Reset()
	writeJSON(c, http.StatusOK, map[string]any{"tracking": false})
}
