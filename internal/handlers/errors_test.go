package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/ArowuTest/growdice-backend/internal/engine"
	"github.com/ArowuTest/growdice-backend/internal/repositories"
	"github.com/ArowuTest/growdice-backend/internal/services"
)

func TestStatusFor(t *testing.T) {
	cases := map[error]int{
		engine.ErrNotFound:             http.StatusNotFound,
		repositories.ErrNotFound:       http.StatusNotFound,
		engine.ErrInvalidBox:           http.StatusBadRequest,
		engine.ErrInvalidBet:           http.StatusBadRequest,
		services.ErrInvalidInput:       http.StatusBadRequest,
		services.ErrInvalidTopup:       http.StatusBadRequest,
		engine.ErrInsufficientFunds:    http.StatusPaymentRequired,
		services.ErrAccountBlocked:     http.StatusForbidden,
		services.ErrBettingDisabled:    http.StatusForbidden,
		services.ErrBalanceConflict:    http.StatusConflict,
		services.ErrEmailTaken:         http.StatusConflict,
		services.ErrInvalidCredentials: http.StatusUnauthorized,
		errors.New("disk on fire"):     http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, statusFor(fmt.Errorf("wrapped: %w", err)), err.Error())
	}
}

func TestRespondError_HidesInternalErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	respondError(c, errors.New("mongo: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	respondError(c, engine.ErrInsufficientFunds)
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
	assert.JSONEq(t, `{"error":"insufficient funds"}`, rec.Body.String())
}

func TestPageParams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?page=0&limit=1000", nil)
	page, limit := pageParams(c)
	assert.Equal(t, 1, page)
	assert.Equal(t, services.MaxPageLimit, limit)

	c.Request = httptest.NewRequest(http.MethodGet, "/?limit=abc", nil)
	_, limit = pageParams(c)
	assert.Equal(t, services.DefaultPageLimit, limit)
}
