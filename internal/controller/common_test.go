package controller

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"mindwell_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRespondErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", util.Validationf("answer every question first"), http.StatusBadRequest},
		{"record not found", util.ErrRecordNotFound, http.StatusNotFound},
		{"session not found", util.ErrSessionNotFound, http.StatusNotFound},
		{"user not found", util.ErrUserNotFound, http.StatusNotFound},
		{"duplicate record", util.ErrDuplicateRecord, http.StatusConflict},
		{"email registered", util.ErrEmailRegistered, http.StatusConflict},
		{"transient", util.Transient("remote unreachable", nil), http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			ctx, _ := gin.CreateTestContext(recorder)
			ctx.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(ctx, tc.err)

			assert.Equal(t, tc.status, recorder.Code)
		})
	}
}
