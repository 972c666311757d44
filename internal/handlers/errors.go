package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ArowuTest/growdice-backend/internal/engine"
	"github.com/ArowuTest/growdice-backend/internal/middleware"
	"github.com/ArowuTest/growdice-backend/internal/repositories"
	"github.com/ArowuTest/growdice-backend/internal/services"
)

// statusFor maps a service error onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrNotFound), errors.Is(err, repositories.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrInvalidBox),
		errors.Is(err, engine.ErrInvalidBet),
		errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrInvalidTopup):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	case errors.Is(err, services.ErrAccountBlocked), errors.Is(err, services.ErrBettingDisabled):
		return http.StatusForbidden
	case errors.Is(err, services.ErrBalanceConflict), errors.Is(err, services.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"error": ...}. Internal errors are not echoed
// to the client.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	_ = c.Error(err)
	if status == http.StatusInternalServerError {
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// callerID reads the id stored by the JWT middleware.
func callerID(c *gin.Context) (primitive.ObjectID, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
	}
	return id, ok
}

func objectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return primitive.NilObjectID, false
	}
	return id, true
}

// pageParams reads ?page&limit; bad values fall back to the defaults.
func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(services.DefaultPageLimit)))
	return services.NormalizePage(page, limit)
}
