package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bidmarket/internal/auth"
	"bidmarket/internal/service"
	"bidmarket/internal/upload"
)

type DeliverableHandler struct {
	deliverableService *service.DeliverableService
	intake             *upload.Intake
	logger             *zap.Logger
}

func NewDeliverableHandler(deliverableService *service.DeliverableService, intake *upload.Intake, logger *zap.Logger) *DeliverableHandler {
	return &DeliverableHandler{
		deliverableService: deliverableService,
		intake:             intake,
		logger:             logger,
	}
}

// Submit handles POST /api/project/deliver: a multipart request with the
// projectId field and a single PDF file.
func (h *DeliverableHandler) Submit(c *gin.Context) {
	stagedPath, err := h.intake.Stage(c)
	if err != nil {
		respondError(c, h.logger, err, "Failed to parse file upload")
		return
	}

	projectID, err := strconv.Atoi(c.PostForm("projectId"))
	if err != nil {
		upload.Discard(stagedPath)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Project ID"})
		return
	}

	id := auth.FromContext(c)
	deliverable, err := h.deliverableService.Submit(c.Request.Context(), id.UserID, projectID, stagedPath)
	if err != nil {
		respondError(c, h.logger, err, "Failed to submit deliverable")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"deliverable": deliverable})
}
