package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"court-booking/models"
	"court-booking/services"
	"court-booking/utils"
)

type StatsController struct {
	Svc *services.StatsService
}

func NewStatsController(svc *services.StatsService) *StatsController {
	return &StatsController{Svc: svc}
}

// GET /api/stats/summary?from=&to=
func (ctrl *StatsController) Summary(c *gin.Context) {
	var from, to time.Time
	var err error
	if v := c.Query("from"); v != "" {
		if from, err = utils.ParseDate(v); err != nil {
			utils.JSONError(c, http.StatusBadRequest, err.Error())
			return
		}
	}
	if v := c.Query("to"); v != "" {
		if to, err = utils.ParseDate(v); err != nil {
			utils.JSONError(c, http.StatusBadRequest, err.Error())
			return
		}
	}
	sum, err := ctrl.Svc.Summary(c.Request.Context(), from, to)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, sum)
}

// GET /api/stats/recent?limit=5
func (ctrl *StatsController) Recent(c *gin.Context) {
	n, err := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if err != nil || n < 1 {
		utils.JSONError(c, http.StatusBadRequest, "limit must be a positive integer")
		return
	}
	list, err := ctrl.Svc.Recent(c.Request.Context(), n)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

// GET /api/stats/upcoming?at=2025-03-30T12:00:00Z
func (ctrl *StatsController) Upcoming(c *gin.Context) {
	now, ok := referenceTime(c)
	if !ok {
		return
	}
	groups, err := ctrl.Svc.Upcoming(c.Request.Context(), now)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, groups)
}

// GET /api/stats/past?at=2025-03-30T12:00:00Z
func (ctrl *StatsController) Past(c *gin.Context) {
	now, ok := referenceTime(c)
	if !ok {
		return
	}
	groups, err := ctrl.Svc.Past(c.Request.Context(), now)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, groups)
}

// referenceTime reads ?at= (RFC3339) or falls back to the server clock, both
// read as facility wall-clock time.
func referenceTime(c *gin.Context) (time.Time, bool) {
	v := c.Query("at")
	if v == "" {
		return models.WallClock(time.Now()), true
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "at must be RFC3339, e.g. 2025-03-30T12:00:00Z")
		return time.Time{}, false
	}
	return models.WallClock(t), true
}
