package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ArowuTest/growdice-backend/internal/services"
)

// UserHandler serves the caller's profile and the admin user list.
type UserHandler struct {
	users *services.UserService
	boxes *services.BoxService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users *services.UserService, boxes *services.BoxService) *UserHandler {
	return &UserHandler{users: users, boxes: boxes}
}

// Me handles GET /me
func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	profile, err := h.users.Profile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// MySettlements handles GET /me/settlements
func (h *UserHandler) MySettlements(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	page, limit := pageParams(c)
	history, err := h.boxes.History(c.Request.Context(), userID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

// GetAllUsers handles GET /admin/users
func (h *UserHandler) GetAllUsers(c *gin.Context) {
	page, limit := pageParams(c)
	users, err := h.users.GetAllUsers(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// BlockUser handles PUT /admin/users/:id/block
func (h *UserHandler) BlockUser(c *gin.Context) { h.setBlocked(c, true) }

// UnblockUser handles PUT /admin/users/:id/unblock
func (h *UserHandler) UnblockUser(c *gin.Context) { h.setBlocked(c, false) }

func (h *UserHandler) setBlocked(c *gin.Context, blocked bool) {
	actor, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	user, err := h.users.SetBlocked(c.Request.Context(), actor, id, blocked)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
