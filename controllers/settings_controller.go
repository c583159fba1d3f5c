package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"court-booking/models"
	"court-booking/services"
	"court-booking/utils"
)

type facilitySettingsPayload struct {
	OpeningTime  string  `json:"openingTime" binding:"required"`
	ClosingTime  string  `json:"closingTime" binding:"required"`
	PricePerHour float64 `json:"pricePerHour" binding:"required"`
	TotalCourts  int     `json:"totalCourts" binding:"required"`
}

type SettingsController struct {
	Svc *services.SettingsService
}

func NewSettingsController(svc *services.SettingsService) *SettingsController {
	return &SettingsController{Svc: svc}
}

func (ctrl *SettingsController) GetFacilitySettings(c *gin.Context) {
	cfg, err := ctrl.Svc.Get(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, cfg)
}

func (ctrl *SettingsController) UpdateFacilitySettings(c *gin.Context) {
	var payload facilitySettingsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	cfg, err := ctrl.Svc.Update(c.Request.Context(), models.FacilityConfig{
		OpeningTime:  payload.OpeningTime,
		ClosingTime:  payload.ClosingTime,
		PricePerHour: payload.PricePerHour,
		TotalCourts:  payload.TotalCourts,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, cfg)
}
