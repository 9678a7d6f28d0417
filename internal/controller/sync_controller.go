package controller

import (
	"mindwell_backend/internal/service"
	"mindwell_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SyncController struct {
	Sync *service.SyncService
}

func NewSyncController(sync *service.SyncService) *SyncController {
	return &SyncController{Sync: sync}
}

// @Summary Sync unsynced assessments now
// @Tags sync
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/sync [post]
func (c *SyncController) SyncNow(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	// Per-record failures stay inside the report; a drain is only an HTTP
	// error when the queue itself cannot be read.
	report, err := c.Sync.DrainQueue(ctx.Request.Context(), user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, report)
}
