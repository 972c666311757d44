package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ArowuTest/growdice-backend/internal/models"
	"github.com/ArowuTest/growdice-backend/internal/services"
)

// BoxHandler serves the catalog and box openings.
type BoxHandler struct {
	catalog *services.CatalogService
	boxes   *services.BoxService
}

// NewBoxHandler creates a new BoxHandler
func NewBoxHandler(catalog *services.CatalogService, boxes *services.BoxService) *BoxHandler {
	return &BoxHandler{catalog: catalog, boxes: boxes}
}

// ListBoxes handles GET /boxes
func (h *BoxHandler) ListBoxes(c *gin.Context) {
	boxes, err := h.catalog.ListBoxes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, boxes)
}

// GetBox handles GET /boxes/:id
func (h *BoxHandler) GetBox(c *gin.Context) {
	box, err := h.catalog.GetBox(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, box)
}

// GetStats handles GET /boxes/:id/stats
func (h *BoxHandler) GetStats(c *gin.Context) {
	stats, err := h.catalog.Stats(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// OpenBox handles POST /boxes/:id/open. The body is optional; without one
// the box is opened without a bet.
func (h *BoxHandler) OpenBox(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req models.OpenBoxRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err)
		return
	}

	settlement, err := h.boxes.Open(c.Request.Context(), userID, c.Param("id"), req.Bet)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settlement)
}

// CreateBox handles POST /admin/boxes
func (h *BoxHandler) CreateBox(c *gin.Context) {
	var req models.BoxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	box, err := h.catalog.CreateBox(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, box)
}

// UpdateBox handles PUT /admin/boxes/:id
func (h *BoxHandler) UpdateBox(c *gin.Context) {
	var req models.BoxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	box, err := h.catalog.UpdateBox(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, box)
}

// DeleteBox handles DELETE /admin/boxes/:id
func (h *BoxHandler) DeleteBox(c *gin.Context) {
	if err := h.catalog.DeleteBox(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
