package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/archivalatlas/atlas/internal/repository"
	"github.com/archivalatlas/atlas/internal/service"
)

type ArchiveHandler struct {
	archive *service.ArchiveService
	logger  *zap.Logger
}

func NewArchiveHandler(archive *service.ArchiveService, logger *zap.Logger) *ArchiveHandler {
	return &ArchiveHandler{archive: archive, logger: logger}
}

// ListArchives handles GET /api/archives.
func (h *ArchiveHandler) ListArchives(c *gin.Context) {
	archives, err := h.archive.ListArchives(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, archives)
}

// GetArchive handles GET /api/archives/:slug.
func (h *ArchiveHandler) GetArchive(c *gin.Context) {
	a, err := h.archive.GetArchive(c.Request.Context(), c.Param("slug"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// CreateArchive handles POST /api/archives.
func (h *ArchiveHandler) CreateArchive(c *gin.Context) {
	var in service.CreateArchiveInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	a, err := h.archive.CreateArchive(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

// DeleteArchive handles DELETE /api/archives/:slug.
func (h *ArchiveHandler) DeleteArchive(c *gin.Context) {
	if err := h.archive.DeleteArchive(c.Request.Context(), c.Param("slug")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Archive deleted"})
}

// ListItems handles GET /api/archives/:slug/items.
func (h *ArchiveHandler) ListItems(c *gin.Context) {
	page := intQuery(c, "page", 1)
	perPage := intQuery(c, "per_page", 20)

	items, err := h.archive.ListItems(c.Request.Context(), c.Param("slug"), page, perPage)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// CreateItem handles POST /api/archives/:slug/items.
func (h *ArchiveHandler) CreateItem(c *gin.Context) {
	var in service.CreateItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	it, err := h.archive.CreateItem(c.Request.Context(), c.Param("slug"), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, it)
}

// GetItem handles GET /api/items/:id.
func (h *ArchiveHandler) GetItem(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}

	detail, err := h.archive.GetItem(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// UpdateItem handles PUT /api/items/:id.
func (h *ArchiveHandler) UpdateItem(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}

	var u repository.ItemUpdate
	if err := c.ShouldBindJSON(&u); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	it, err := h.archive.UpdateItem(c.Request.Context(), id, u)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

// CreateAnnotation handles POST /api/items/:id/annotations.
func (h *ArchiveHandler) CreateAnnotation(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}

	var in service.CreateAnnotationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	a, err := h.archive.CreateAnnotation(c.Request.Context(), id, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

// DeleteAnnotation handles DELETE /api/annotations/:id.
func (h *ArchiveHandler) DeleteAnnotation(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid annotation id"})
		return
	}

	if err := h.archive.DeleteAnnotation(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Annotation deleted"})
}

// CreateConnection handles POST /api/items/:id/connections.
func (h *ArchiveHandler) CreateConnection(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}

	var in service.CreateConnectionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	conn, err := h.archive.CreateConnection(c.Request.Context(), id, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, conn)
}

// CreateVoiceRecording handles POST /api/items/:id/voice-recordings.
func (h *ArchiveHandler) CreateVoiceRecording(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}

	var in service.CreateVoiceRecordingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	v, err := h.archive.CreateVoiceRecording(c.Request.Context(), id, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

// Graph handles GET /api/archives/:slug/graph.
func (h *ArchiveHandler) Graph(c *gin.Context) {
	g, err := h.archive.Graph(c.Request.Context(), c.Param("slug"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// Search handles GET /api/search. An empty query yields the legacy empty
// response instead of an error.
func (h *ArchiveHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusOK, gin.H{"results": []any{}})
		return
	}

	results, err := h.archive.Search(c.Request.Context(), q, c.Query("archive"), c.Query("type"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// Sparql handles GET and POST /api/sparql.
func (h *ArchiveHandler) Sparql(c *gin.Context) {
	var query string
	if c.Request.Method == http.MethodPost {
		var body struct {
			Query string `json:"query"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		query = body.Query
	} else {
		query = c.Query("query")
	}

	triples, err := h.archive.Sparql(c.Request.Context(), query)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"results": triples,
		"count":   len(triples),
	})
}

func itemID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return 0, false
	}
	return id, true
}

func intQuery(c *gin.Context, key string, fallback int) int {
	v := c.Query(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
