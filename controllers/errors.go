package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"court-booking/services"
	"court-booking/utils"
)

// respondServiceError maps service sentinels onto HTTP status codes.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidBooking),
		errors.Is(err, services.ErrInvalidSettings),
		errors.Is(err, services.ErrInvalidTransition):
		utils.JSONError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrBookingNotFound),
		errors.Is(err, services.ErrSessionNotFound):
		utils.JSONError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrSlotOverlap),
		errors.Is(err, services.ErrSubmitInProgress),
		errors.Is(err, services.ErrNoCourtsAvailable),
		errors.Is(err, services.ErrPartialCourts):
		utils.JSONError(c, http.StatusConflict, err.Error())
	default:
		log.Printf("[http] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		utils.JSONError(c, http.StatusInternalServerError, "internal error")
	}
}

func parseIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid booking id")
		return 0, false
	}
	return id, true
}
