package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bidmarket/internal/auth"
	"bidmarket/internal/service"
)

type BidHandler struct {
	bidService *service.BidService
	logger     *zap.Logger
}

func NewBidHandler(bidService *service.BidService, logger *zap.Logger) *BidHandler {
	return &BidHandler{bidService: bidService, logger: logger}
}

// Create handles POST /api/project/bid.
func (h *BidHandler) Create(c *gin.Context) {
	var req struct {
		ProjectID int      `json:"projectId"`
		Amount    *float64 `json:"amount"`
		Message   string   `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Project ID and amount are required"})
		return
	}

	id := auth.FromContext(c)
	bid, err := h.bidService.Create(c.Request.Context(), id.UserID, req.ProjectID, req.Amount, req.Message)
	if err != nil {
		respondError(c, h.logger, err, "Failed to place bid")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"bid": bid})
}

// Update handles PUT /api/project/bid.
func (h *BidHandler) Update(c *gin.Context) {
	var req struct {
		BidID   int      `json:"bidId"`
		Amount  *float64 `json:"amount"`
		Message string   `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bid ID and amount are required"})
		return
	}

	id := auth.FromContext(c)
	bid, err := h.bidService.Update(c.Request.Context(), id.UserID, req.BidID, req.Amount, req.Message)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update bid")
		return
	}

	c.JSON(http.StatusOK, gin.H{"bid": bid})
}

// Delete handles DELETE /api/project/bid.
func (h *BidHandler) Delete(c *gin.Context) {
	var req struct {
		BidID int `json:"bidId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bid ID is required"})
		return
	}

	id := auth.FromContext(c)
	if err := h.bidService.Delete(c.Request.Context(), id.UserID, req.BidID); err != nil {
		respondError(c, h.logger, err, "Failed to delete bid")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Bid deleted successfully"})
}
