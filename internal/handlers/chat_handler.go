package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ArowuTest/growdice-backend/internal/models"
	"github.com/ArowuTest/growdice-backend/internal/services"
)

// ChatHandler serves the public chat room.
type ChatHandler struct {
	chat *services.ChatService
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(chat *services.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// GetMessages handles GET /chat/messages
func (h *ChatHandler) GetMessages(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	msgs, err := h.chat.Recent(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

// PostMessage handles POST /chat/messages
func (h *ChatHandler) PostMessage(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req models.ChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	msg, err := h.chat.Post(c.Request.Context(), userID, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}
