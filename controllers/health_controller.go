package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/cppla/riqqa/models"
	"github.com/cppla/riqqa/services"
	"github.com/cppla/riqqa/utils"
)

// HealthController serves the cycle, pregnancy and feeding tracker.
type HealthController struct {
	health *services.HealthService
}

func NewHealthController(health *services.HealthService) *HealthController {
	return &HealthController{health: health}
}

func (h *HealthController) GetHealthData(ctx *gin.Context) {
	utils.Success(ctx, h.health.Summary(utils.Locale(ctx)))
}

func (h *HealthController) SavePeriod(ctx *gin.Context) {
	var req struct {
		LastPeriodDate string `json:"last_period_date"`
		CycleLength    string `json:"cycle_length"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badPayload(ctx)
		return
	}
	if err := h.health.SavePeriod(req.LastPeriodDate, req.CycleLength); err != nil {
		respondError(ctx, err)
		return
	}
	utils.SuccessMessage(ctx, models.MsgHealthSaved, h.health.Summary(utils.Locale(ctx)))
}

func (h *HealthController) SavePregnancy(ctx *gin.Context) {
	var req struct {
		PregnancyStartDate string `json:"pregnancy_start_date"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badPayload(ctx)
		return
	}
	if err := h.health.SavePregnancy(req.PregnancyStartDate); err != nil {
		respondError(ctx, err)
		return
	}
	utils.SuccessMessage(ctx, models.MsgHealthSaved, h.health.Summary(utils.Locale(ctx)))
}

// RecordFeeding stamps a feeding now.
func (h *HealthController) RecordFeeding(ctx *gin.Context) {
	h.health.RecordFeeding()
	utils.SuccessMessage(ctx, models.MsgFeedingRecorded, h.health.Summary(utils.Locale(ctx)))
}
