// README: Trip planning handlers: points, pins, route calculation, sections, trip lifecycle and costs.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"haulnav/internal/modules/route"
	"haulnav/internal/modules/toll"
	"haulnav/internal/service"
)

type TripHandler struct {
	planner *service.TripPlanner
}

func NewTripHandler(planner *service.TripPlanner) *TripHandler {
	return &TripHandler{planner: planner}
}

type pickPointRequest struct {
	Role  string           `json:"role" binding:"required"`
	Point route.RoutePoint `json:"point"`
}

type dropPinRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type reorderRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

func (h *TripHandler) Get(c *gin.Context) {
	writeJSON(c, http.StatusOK, h.planner.Plan())
}

func (h *TripHandler) PickPoint(c *gin.Context) {
	var req pickPointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid body")
		return
	}
	role, err := service.ParseRole(req.Role)
	if err != nil {
		writeTripError(c, err)
		return
	}
	if err := h.planner.PickPoint(c.Request.Context(), role, req.Point); err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, h.planner.Plan())
}

func (h *TripHandler) DropPin(c *gin.Context) {
	var req dropPinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid body")
		return
	}
	pt, role, err := h.planner.DropPin(c.Request.Context(), req.Latitude, req.Longitude)
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, map[string]any{"point": pt, "role": role})
}

func (h *TripHandler) ClearPoint(c *gin.Context) {
	role, err := service.ParseRole(c.Param("role"))
	if err == nil {
		err = h.planner.ClearPoint(role)
	}
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, h.planner.Plan())
}

func (h *TripHandler) RemoveWaypoint(c *gin.Context) {
	if !h.planner.RemoveWaypoint(c.Param("id")) {
		writeError(c, http.StatusNotFound, "waypoint not found")
		return
	}
	writeJSON(c, http.StatusOK, h.planner.Plan())
}

func (h *TripHandler) ReorderWaypoints(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid body")
		return
	}
	h.planner.ReorderWaypoints(req.From, req.To)
	writeJSON(c, http.StatusOK, h.planner.Plan())
}

func (h *TripHandler) NewTrip(c *gin.Context) {
	h.planner.NewTrip()
	writeJSON(c, http.StatusOK, h.planner.Plan())
}

// Calculate computes directions; ?avoidTolls=true asks for toll-free routes.
func (h *TripHandler) Calculate(c *gin.Context) {
	var opts service.RouteOptions
	if v := c.Query("avoidTolls"); v != "" {
		avoid, err := strconv.ParseBool(v)
		if err != nil {
			writeError(c, http.StatusBadRequest, "avoidTolls must be a boolean")
			return
		}
		opts.AvoidTolls = avoid
	}
	d, err := h.planner.CalculateRouteWith(c.Request.Context(), opts)
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, d)
}

func (h *TripHandler) GetDirections(c *gin.Context) {
	d, err := h.planner.Directions(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, d)
}

func (h *TripHandler) SelectSection(c *gin.Context) {
	if err := h.planner.SelectSection(c.Param("id")); err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, h.planner.Plan())
}

func (h *TripHandler) Start(c *gin.Context) {
	if err := h.planner.StartTrip(); err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"isTripActive": true})
}

func (h *TripHandler) End(c *gin.Context) {
	h.planner.EndTrip()
	writeJSON(c, http.StatusOK, map[string]any{"isTripActive": false})
}

func (h *TripHandler) Tolls(c *gin.Context) {
	axel, payment, ok := parseTollSelection(c)
	if !ok {
		return
	}
	s, err := h.planner.TollSummary(c.Request.Context(), axel, payment)
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, s)
}

// TollRecords lists the plazas on the selected section for map markers.
func (h *TripHandler) TollRecords(c *gin.Context) {
	records, err := h.planner.TollRecords(c.Request.Context())
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"tolls": records})
}

func (h *TripHandler) Summary(c *gin.Context) {
	axel, payment, ok := parseTollSelection(c)
	if !ok {
		return
	}
	s, err := h.planner.TripSummary(c.Request.Context(), axel, payment)
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, s)
}

// parseTollSelection reads ?axles=5|6 (default 5) and an optional ?payment=
// name or code.
func parseTollSelection(c *gin.Context) (toll.AxelType, *toll.PaymentType, bool) {
	axel := toll.Axles5
	if v := c.Query("axles"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || !toll.AxelType(n).Selectable() {
			writeError(c, http.StatusBadRequest, toll.ErrBadAxles.Error())
			return 0, nil, false
		}
		axel = toll.AxelType(n)
	}

	var payment *toll.PaymentType
	if v := c.Query("payment"); v != "" {
		p, ok := toll.ParsePaymentType(v)
		if !ok {
			writeError(c, http.StatusBadRequest, "unknown payment type")
			return 0, nil, false
		}
		payment = &p
	}
	return axel, payment, true
}
