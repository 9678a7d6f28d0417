package controller

import (
	"errors"
	"net/http"

	"mindwell_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto the envelope. Validation surfaces
// verbatim; invariant violations become 404/409; everything else is logged
// and hidden behind a 500.
func respondError(ctx *gin.Context, err error) {
	switch {
	case util.IsValidation(err):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrRecordNotFound),
		errors.Is(err, util.ErrSessionNotFound),
		errors.Is(err, util.ErrUserNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrDuplicateRecord):
		util.Error(ctx, http.StatusConflict, err.Error())
	case errors.Is(err, util.ErrEmailRegistered):
		util.Error(ctx, http.StatusConflict, err.Error())
	case util.IsTransient(err):
		util.Error(ctx, http.StatusServiceUnavailable, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
