package controller

import (
	"mindwell_backend/internal/service"
	"mindwell_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	Service *service.AnalyticsService
}

func NewAnalyticsController(svc *service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{Service: svc}
}

// @Summary Admin summary across all users
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/admin/analytics/summary [get]
func (c *AnalyticsController) Summary(ctx *gin.Context) {
	summary, err := c.Service.Summary()
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, summary)
}

// @Summary Risk tier distribution
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/admin/analytics/risk-levels [get]
func (c *AnalyticsController) RiskLevels(ctx *gin.Context) {
	distribution, err := c.Service.RiskDistribution()
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, distribution)
}
