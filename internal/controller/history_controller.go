package controller

import (
	"strconv"
	"time"

	"mindwell_backend/internal/model"
	"mindwell_backend/internal/repository"
	"mindwell_backend/internal/service"
	"mindwell_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type HistoryController struct {
	History *service.HistoryService
}

func NewHistoryController(history *service.HistoryService) *HistoryController {
	return &HistoryController{History: history}
}

func parseFilter(ctx *gin.Context, userID uint) (repository.HistoryFilter, error) {
	filter := repository.HistoryFilter{UserID: userID}

	if v := ctx.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, util.Validationf("invalid 'from' timestamp: %v", err)
		}
		filter.From = &t
	}
	if v := ctx.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, util.Validationf("invalid 'to' timestamp: %v", err)
		}
		filter.To = &t
	}
	if v := ctx.Query("riskTier"); v != "" {
		filter.RiskTier = model.RiskTier(v)
	}
	if v := ctx.Query("minScore"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return filter, util.Validationf("invalid 'minScore': %v", err)
		}
		filter.MinScore = &n
	}
	if v := ctx.Query("maxScore"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return filter, util.Validationf("invalid 'maxScore': %v", err)
		}
		filter.MaxScore = &n
	}
	return filter, nil
}

// @Summary Assessment history
// @Tags history
// @Produce json
// @Security BearerAuth
// @Param from query string false "RFC3339 lower bound"
// @Param to query string false "RFC3339 upper bound"
// @Param riskTier query string false "risk tier filter"
// @Param minScore query int false "minimum score"
// @Param maxScore query int false "maximum score"
// @Success 200 {object} util.Response
// @Router /api/history [get]
func (c *HistoryController) List(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	filter, err := parseFilter(ctx, user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	records, err := c.History.List(filter)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"assessments": records,
		"total":       len(records),
	})
}

// @Summary Aggregate history stats
// @Tags history
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/history/stats [get]
func (c *HistoryController) Stats(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	stats, err := c.History.Aggregate(user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, stats)
}

type notesRequest struct {
	Notes string `json:"notes"`
}

// @Summary Update record notes
// @Tags history
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "record id"
// @Param body body notesRequest true "notes"
// @Success 200 {object} util.Response
// @Router /api/history/{id}/notes [patch]
func (c *HistoryController) UpdateNotes(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req notesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.History.UpdateNotes(ctx.Param("id"), user.UserID, req.Notes); err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"updated": true})
}

// @Summary Delete a record
// @Tags history
// @Produce json
// @Security BearerAuth
// @Param id path string true "record id"
// @Success 200 {object} util.Response
// @Router /api/history/{id} [delete]
func (c *HistoryController) Delete(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.History.Delete(ctx.Param("id"), user.UserID); err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"deleted": true})
}
