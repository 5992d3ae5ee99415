package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/archivalatlas/atlas/internal/apperr"
)

// writeError maps the service error taxonomy onto HTTP statuses. Anything
// outside the taxonomy is a 500 with a generic body.
func writeError(c *gin.Context, err error) {
	switch {
	case apperr.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case apperr.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case apperr.IsConflict(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
