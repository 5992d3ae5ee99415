package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/archivalatlas/atlas/internal/seed"
)

// SeedHandler exposes the fixed-dataset loaders. Seeding bypasses the
// services and writes through the pool directly, one transaction per family.
type SeedHandler struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewSeedHandler(db *pgxpool.Pool, logger *zap.Logger) *SeedHandler {
	return &SeedHandler{db: db, logger: logger}
}

// SeedPortfolio handles POST /api/seed-portfolio.
func (h *SeedHandler) SeedPortfolio(c *gin.Context) {
	result, err := seed.PortfolioData(c.Request.Context(), h.db, h.logger)
	if err != nil {
		h.logger.Error("Portfolio seeding failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to seed portfolio data"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":             "Portfolio data seeded successfully",
		"projects_created":    result.Projects,
		"people_created":      result.People,
		"outputs_created":     result.Outputs,
		"connections_created": result.Connections,
	})
}

// SeedArchives handles POST /api/seed-data.
func (h *SeedHandler) SeedArchives(c *gin.Context) {
	result, err := seed.ArchiveData(c.Request.Context(), h.db, h.logger)
	if err != nil {
		h.logger.Error("Archive seeding failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to seed archive data"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":             "Database seeded successfully",
		"archives_created":    result.Archives,
		"items_created":       result.Items,
		"annotations_created": result.Annotations,
		"connections_created": result.Connections,
	})
}
