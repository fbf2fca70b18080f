package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bidmarket/internal/auth"
	"bidmarket/internal/service"
)

type ProjectHandler struct {
	projectService *service.ProjectService
	logger         *zap.Logger
}

func NewProjectHandler(projectService *service.ProjectService, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{projectService: projectService, logger: logger}
}

// Create handles POST /api/project/create.
func (h *ProjectHandler) Create(c *gin.Context) {
	var in service.CreateProjectInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
		return
	}

	id := auth.FromContext(c)
	project, err := h.projectService.Create(c.Request.Context(), id.UserID, in)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create project")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"project": project})
}

// List handles GET /api/project/.
func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.projectService.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch projects")
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

// GetByID handles GET /api/project/:id.
func (h *ProjectHandler) GetByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	project, err := h.projectService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch project")
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": project})
}

// SelectBid handles POST /api/project/select-bid.
func (h *ProjectHandler) SelectBid(c *gin.Context) {
	var req struct {
		ProjectID int `json:"projectId"`
		BidID     int `json:"bidId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Project ID and Bid ID are required"})
		return
	}

	id := auth.FromContext(c)
	project, err := h.projectService.SelectBid(c.Request.Context(), id.UserID, req.ProjectID, req.BidID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to select bid")
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": project})
}

// Complete handles POST /api/project/complete.
func (h *ProjectHandler) Complete(c *gin.Context) {
	var req struct {
		ProjectID int `json:"projectId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Project ID is required"})
		return
	}

	id := auth.FromContext(c)
	project, err := h.projectService.Complete(c.Request.Context(), id.UserID, req.ProjectID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to complete project")
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": project})
}
