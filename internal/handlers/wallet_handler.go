package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ArowuTest/growdice-backend/internal/models"
	"github.com/ArowuTest/growdice-backend/internal/services"
)

// keepAliveInterval is how often an idle balance stream sends a comment.
var keepAliveInterval = 15 * time.Second

// WalletHandler serves balances, top-ups, purchases and the balance stream.
type WalletHandler struct {
	wallet *services.WalletService
}

// NewWalletHandler creates a new WalletHandler
func NewWalletHandler(wallet *services.WalletService) *WalletHandler {
	return &WalletHandler{wallet: wallet}
}

// GetWallet handles GET /wallet
func (h *WalletHandler) GetWallet(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	summary, err := h.wallet.Summary(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Topup handles POST /wallet/topup
func (h *WalletHandler) Topup(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req models.TopupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	tx, err := h.wallet.Topup(c.Request.Context(), userID, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tx)
}

// Purchase handles POST /store/purchase/:id
func (h *WalletHandler) Purchase(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	tx, err := h.wallet.Purchase(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tx)
}

// GetTransactions handles GET /wallet/transactions
func (h *WalletHandler) GetTransactions(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	page, limit := pageParams(c)
	history, err := h.wallet.History(c.Request.Context(), userID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

// Stream handles GET /wallet/stream as server-sent events. Each committed
// balance change is sent as a "balance" event until the client disconnects.
func (h *WalletHandler) Stream(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	events, cancel := h.wallet.Subscribe(userID)
	defer cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.Request.Context().Done():
			return
		case evt, open := <-events:
			if !open {
				return
			}
			c.SSEvent("balance", evt)
			c.Writer.Flush()
		case <-ticker.C:
			if _, err := io.WriteString(c.Writer, ": ping\n\n"); err != nil {
				return
			}
			c.Writer.Flush()
		}
	}
}
