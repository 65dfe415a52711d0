// README: Location picker handlers: place search and recent picks.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"haulnav/internal/service"
)

type PlacesHandler struct {
	planner *service.TripPlanner
}

func NewPlacesHandler(planner *service.TripPlanner) *PlacesHandler {
	return &PlacesHandler{planner: planner}
}

func (h *PlacesHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		writeError(c, http.StatusBadRequest, "missing q")
		return
	}
	results, err := h.planner.SearchPlaces(c.Request.Context(), q)
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"results": results})
}

func (h *PlacesHandler) Recent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	points, err := h.planner.RecentPicks(c.Request.Context(), limit)
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"results": points})
}

func (h *PlacesHandler) ClearRecent(c *gin.Context) {
	if err := h.planner.ClearRecentPicks(c.Request.Context()); err != nil {
		writeTripError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
