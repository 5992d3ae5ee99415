package httpserver

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/archivalatlas/atlas/internal/handler"
	"github.com/archivalatlas/atlas/pkg/metrics"
)

// NewRouter wires middleware, operational endpoints and the API routes.
func NewRouter(
	portfolio *handler.PortfolioHandler,
	archive *handler.ArchiveHandler,
	seeder *handler.SeedHandler,
	logger *zap.Logger,
	db *pgxpool.Pool,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLog(logger))
	r.Use(httpMetrics())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(200)
	})

	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c, 1*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(500, gin.H{"status": "db_not_ready", "error": err.Error()})
			return
		}
		c.JSON(200, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/projects", portfolio.ListProjects)
		api.POST("/projects", portfolio.CreateProject)
		api.GET("/projects/:id", portfolio.GetProject)
		api.DELETE("/projects/:id", portfolio.DeleteProject)
		api.GET("/network", portfolio.Network)
		api.GET("/categories", portfolio.Categories)
		api.GET("/skills", portfolio.Skills)
		api.GET("/timeline", portfolio.Timeline)
		api.GET("/stats", portfolio.Stats)

		api.GET("/archives", archive.ListArchives)
		api.POST("/archives", archive.CreateArchive)
		api.GET("/archives/:slug", archive.GetArchive)
		api.DELETE("/archives/:slug", archive.DeleteArchive)
		api.GET("/archives/:slug/items", archive.ListItems)
		api.POST("/archives/:slug/items", archive.CreateItem)
		api.GET("/archives/:slug/graph", archive.Graph)

		api.GET("/items/:id", archive.GetItem)
		api.PUT("/items/:id", archive.UpdateItem)
		api.POST("/items/:id/annotations", archive.CreateAnnotation)
		api.POST("/items/:id/connections", archive.CreateConnection)
		api.POST("/items/:id/voice-recordings", archive.CreateVoiceRecording)
		api.DELETE("/annotations/:id", archive.DeleteAnnotation)

		api.GET("/search", archive.Search)
		api.GET("/sparql", archive.Sparql)
		api.POST("/sparql", archive.Sparql)

		api.POST("/seed-portfolio", seeder.SeedPortfolio)
		api.POST("/seed-data", seeder.SeedArchives)
	}

	return r
}

func requestLog(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		logger.Info("HTTP Request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

func httpMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		// FullPath keeps the route template so ids don't explode cardinality.
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordHTTPRequestDuration(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start),
		)
	}
}
