package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"court-booking/services"
	"court-booking/utils"
)

type CreateBookingPayload struct {
	Court     string   `json:"court" binding:"required"`
	Date      string   `json:"date" binding:"required"`
	Time      *float64 `json:"time" binding:"required"`
	Duration  float64  `json:"duration" binding:"required,gt=0"`
	Renter    string   `json:"renter" binding:"required"`
	Email     string   `json:"email" binding:"omitempty,email"`
	Phone     string   `json:"phone"`
	Recurring bool     `json:"recurring"`
	Weeks     int      `json:"weeks" binding:"omitempty,min=1,max=52"`
}

type StatusPayload struct {
	Status string `json:"status" binding:"required,oneof=confirmed completed no-show cancelled"`
}

type RecurringPayload struct {
	Recurring *bool `json:"recurring" binding:"required"`
	Weeks     int   `json:"weeks" binding:"omitempty,min=1,max=52"`
}

type BookingController struct {
	Svc      *services.BookingService
	Resolver *services.AvailabilityResolver
}

func NewBookingController(svc *services.BookingService, resolver *services.AvailabilityResolver) *BookingController {
	return &BookingController{Svc: svc, Resolver: resolver}
}

// GET /api/bookings
func (ctrl *BookingController) GetBookings(c *gin.Context) {
	list, err := ctrl.Svc.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

// POST /api/bookings
func (ctrl *BookingController) CreateBooking(c *gin.Context) {
	var in CreateBookingPayload
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	date, err := utils.ParseDate(in.Date)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	created, err := ctrl.Svc.Create(c.Request.Context(), services.CreateBookingRequest{
		Court:     in.Court,
		Date:      date,
		Time:      *in.Time,
		Duration:  in.Duration,
		Renter:    in.Renter,
		Email:     in.Email,
		Phone:     in.Phone,
		Recurring: in.Recurring,
		Weeks:     in.Weeks,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, created)
}

// GET /api/bookings/:id
func (ctrl *BookingController) GetBooking(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	b, err := ctrl.Svc.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, b)
}

// DELETE /api/bookings/:id?all_future=true
func (ctrl *BookingController) DeleteBooking(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	allFuture, _ := strconv.ParseBool(c.DefaultQuery("all_future", "false"))
	removed, err := ctrl.Svc.Delete(c.Request.Context(), id, allFuture)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"removed": removed})
}

// POST /api/bookings/:id/paid
func (ctrl *BookingController) MarkPaid(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	b, err := ctrl.Svc.MarkPaid(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, b)
}

// POST /api/bookings/:id/no-show
func (ctrl *BookingController) MarkNoShow(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	b, err := ctrl.Svc.MarkNoShow(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, b)
}

// PATCH /api/bookings/:id/status
func (ctrl *BookingController) UpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var in StatusPayload
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	b, err := ctrl.Svc.UpdateStatus(c.Request.Context(), id, in.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, b)
}

// POST /api/bookings/:id/recurring
func (ctrl *BookingController) ToggleRecurring(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var in RecurringPayload
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	affected, err := ctrl.Svc.ToggleRecurring(c.Request.Context(), id, *in.Recurring, in.Weeks)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, affected)
}

// GET /api/schedule?date=YYYY-MM-DD
func (ctrl *BookingController) GetSchedule(c *gin.Context) {
	date, err := utils.ParseDate(c.Query("date"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	sched, err := ctrl.Svc.DaySchedule(c.Request.Context(), date)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, sched)
}

// GET /api/availability?court=Court%201&date=2025-03-30&time=10.5
func (ctrl *BookingController) GetAvailability(c *gin.Context) {
	court := c.Query("court")
	if court == "" {
		utils.JSONError(c, http.StatusBadRequest, "court is required")
		return
	}
	date, err := utils.ParseDate(c.Query("date"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	at, err := strconv.ParseFloat(c.Query("time"), 64)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "time must be a fractional hour, e.g. 10.5")
		return
	}
	b, hit, err := ctrl.Resolver.FindOccupant(c.Request.Context(), court, date, at)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	resp := gin.H{"court": court, "time": at, "state": hit.String(), "firstSlot": hit == services.HitDirect}
	if hit != services.HitNone {
		resp["booking"] = b
	}
	utils.JSONSuccess(c, http.StatusOK, resp)
}
