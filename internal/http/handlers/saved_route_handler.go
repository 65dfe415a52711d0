// README: Saved route template handlers.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"haulnav/internal/service"
	"haulnav/internal/types"
)

type SavedRouteHandler struct {
	planner *service.TripPlanner
}

func NewSavedRouteHandler(planner *service.TripPlanner) *SavedRouteHandler {
	return &SavedRouteHandler{planner: planner}
}

type saveRouteRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *SavedRouteHandler) List(c *gin.Context) {
	routes, err := h.planner.ListSavedRoutes(c.Request.Context())
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"routes": routes})
}

func (h *SavedRouteHandler) Save(c *gin.Context) {
	var req saveRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "name is required")
		return
	}
	saved, err := h.planner.SaveRoute(c.Request.Context(), req.Name)
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, saved)
}

func (h *SavedRouteHandler) Load(c *gin.Context) {
	if err := h.planner.LoadSavedRoute(c.Request.Context(), types.ID(c.Param("id"))); err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, h.planner.Plan())
}

func (h *SavedRouteHandler) Discard(c *gin.Context) {
	h.planner.DiscardSavedRoute()
	writeJSON(c, http.StatusOK, h.planner.Plan())
}

func (h *SavedRouteHandler) Delete(c *gin.Context) {
	if err := h.planner.DeleteSavedRoute(c.Request.Context(), types.ID(c.Param("id"))); err != nil {
		writeTripError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
