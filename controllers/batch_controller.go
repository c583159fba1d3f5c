package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"court-booking/services"
	"court-booking/utils"
)

type BatchCriteriaPayload struct {
	Date      string  `json:"date"`
	Time      float64 `json:"time"`
	Duration  float64 `json:"duration" binding:"required,gt=0"`
	Courts    int     `json:"courts" binding:"required,min=1,max=50"`
	Recurring bool    `json:"recurring"`
	Weeks     int     `json:"weeks" binding:"omitempty,min=1,max=52"`
}

func (p BatchCriteriaPayload) criteria() (services.BatchCriteria, error) {
	c := services.BatchCriteria{Time: p.Time, Duration: p.Duration, Courts: p.Courts, Recurring: p.Recurring, Weeks: p.Weeks}
	if p.Date == "" {
		return c, nil
	}
	d, err := utils.ParseDate(p.Date)
	if err != nil {
		return c, err
	}
	c.Date = d
	return c, nil
}

type CreateBatchPayload struct {
	BatchCriteriaPayload
	Renter        string `json:"renter" binding:"required"`
	Email         string `json:"email" binding:"omitempty,email"`
	Phone         string `json:"phone"`
	AcceptPartial bool   `json:"acceptPartial"`
}

type NextStepPayload struct {
	AcceptPartial bool `json:"acceptPartial"`
}

type SubmitPayload struct {
	Renter string `json:"renter"`
	Email  string `json:"email" binding:"omitempty,email"`
	Phone  string `json:"phone"`
}

type BatchController struct {
	Svc  *services.BookingService
	Flow *services.MultiCourtFlow
}

func NewBatchController(svc *services.BookingService, flow *services.MultiCourtFlow) *BatchController {
	return &BatchController{Svc: svc, Flow: flow}
}

// POST /api/batch/plan
func (ctrl *BatchController) Plan(c *gin.Context) {
	var in BatchCriteriaPayload
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	crit, err := in.criteria()
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	if crit.Date.IsZero() {
		utils.JSONError(c, http.StatusBadRequest, "date is required")
		return
	}
	plan, err := ctrl.Svc.PlanBatch(c.Request.Context(), crit.Date, crit.Time, crit.Duration, crit.Courts)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"plan": plan, "partial": plan.Partial(crit.Courts)})
}

// POST /api/batch
func (ctrl *BatchController) Create(c *gin.Context) {
	var in CreateBatchPayload
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	crit, err := in.criteria()
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	created, plan, err := ctrl.Svc.CreateBatch(c.Request.Context(), services.BatchRequest{
		Date: crit.Date, Time: crit.Time, Duration: crit.Duration, Courts: crit.Courts,
		Renter: in.Renter, Email: in.Email, Phone: in.Phone,
		Recurring: crit.Recurring, Weeks: crit.Weeks, AcceptPartial: in.AcceptPartial,
	})
	if errors.Is(err, services.ErrPartialCourts) || errors.Is(err, services.ErrNoCourtsAvailable) {
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": err.Error(), "plan": plan})
		return
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, gin.H{"plan": plan, "bookings": created})
}

// POST /api/batch/sessions
func (ctrl *BatchController) StartSession(c *gin.Context) {
	var in BatchCriteriaPayload
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	crit, err := in.criteria()
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	s, err := ctrl.Flow.Start(c.Request.Context(), crit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, s)
}

// GET /api/batch/sessions/:id
func (ctrl *BatchController) GetSession(c *gin.Context) {
	s, err := ctrl.Flow.Get(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, s)
}

// PUT /api/batch/sessions/:id/criteria
func (ctrl *BatchController) UpdateCriteria(c *gin.Context) {
	var in BatchCriteriaPayload
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	crit, err := in.criteria()
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	s, err := ctrl.Flow.UpdateCriteria(c.Request.Context(), c.Param("id"), crit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, s)
}

// POST /api/batch/sessions/:id/next
func (ctrl *BatchController) Next(c *gin.Context) {
	var in NextStepPayload
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&in); err != nil {
			utils.JSONError(c, http.StatusBadRequest, err.Error())
			return
		}
	}
	s, err := ctrl.Flow.Next(c.Request.Context(), c.Param("id"), in.AcceptPartial)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, s)
}

// POST /api/batch/sessions/:id/back
func (ctrl *BatchController) Back(c *gin.Context) {
	s, err := ctrl.Flow.Back(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, s)
}

// POST /api/batch/sessions/:id/submit
func (ctrl *BatchController) Submit(c *gin.Context) {
	var in SubmitPayload
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	s, err := ctrl.Flow.Submit(c.Request.Context(), c.Param("id"), services.RenterDetails{
		Renter: in.Renter, Email: in.Email, Phone: in.Phone,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, s)
}

// DELETE /api/batch/sessions/:id
func (ctrl *BatchController) Discard(c *gin.Context) {
	if err := ctrl.Flow.Discard(c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
