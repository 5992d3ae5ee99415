package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/archivalatlas/atlas/internal/repository"
	"github.com/archivalatlas/atlas/internal/service"
)

type PortfolioHandler struct {
	portfolio *service.PortfolioService
	logger    *zap.Logger
}

func NewPortfolioHandler(portfolio *service.PortfolioService, logger *zap.Logger) *PortfolioHandler {
	return &PortfolioHandler{portfolio: portfolio, logger: logger}
}

// ListProjects handles GET /api/projects.
func (h *PortfolioHandler) ListProjects(c *gin.Context) {
	filter := repository.ProjectFilter{
		Category: c.Query("category"),
		Role:     c.Query("role"),
		Status:   c.Query("status"),
	}
	if year := c.Query("year"); year != "" {
		y, err := strconv.Atoi(year)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
			return
		}
		filter.Year = y
	}

	projects, err := h.portfolio.ListProjects(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"projects": projects,
		"total":    len(projects),
	})
}

// GetProject handles GET /api/projects/:id.
func (h *PortfolioHandler) GetProject(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	detail, err := h.portfolio.GetProject(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// CreateProject handles POST /api/projects.
func (h *PortfolioHandler) CreateProject(c *gin.Context) {
	var in service.CreateProjectInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	p, err := h.portfolio.CreateProject(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// DeleteProject handles DELETE /api/projects/:id.
func (h *PortfolioHandler) DeleteProject(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	if err := h.portfolio.DeleteProject(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Project deleted"})
}

// Network handles GET /api/network.
func (h *PortfolioHandler) Network(c *gin.Context) {
	network, err := h.portfolio.Network(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, network)
}

// Categories handles GET /api/categories.
func (h *PortfolioHandler) Categories(c *gin.Context) {
	categories, err := h.portfolio.Categories(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// Skills handles GET /api/skills.
func (h *PortfolioHandler) Skills(c *gin.Context) {
	skills, err := h.portfolio.Skills(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"skills": skills})
}

// Timeline handles GET /api/timeline.
func (h *PortfolioHandler) Timeline(c *gin.Context) {
	timeline, err := h.portfolio.Timeline(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"timeline": timeline})
}

// Stats handles GET /api/stats.
func (h *PortfolioHandler) Stats(c *gin.Context) {
	stats, err := h.portfolio.Stats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
