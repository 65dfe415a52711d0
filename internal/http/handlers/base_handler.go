// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"haulnav/internal/logger"
	"haulnav/internal/maps"
	"haulnav/internal/modules/route"
	"haulnav/internal/modules/toll"
	"haulnav/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeTripError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidPoint),
		errors.Is(err, service.ErrUnknownRole),
		errors.Is(err, toll.ErrBadAxles):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, route.ErrNotFound),
		errors.Is(err, service.ErrUnknownSection),
		errors.Is(err, service.ErrNoDirections):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrDuplicatePoint):
		writeError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrMissingEndpoints):
		writeError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, maps.ErrNoRoute):
		writeError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrUnavailable):
		writeError(c, http.StatusNotImplemented, err.Error())
	default:
		logger.Error("request failed", "path", c.FullPath(), "error", err)
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
