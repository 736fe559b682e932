package httpx

import (
	"errors"
	"net/http"

	"github.com/engrosnet/catalog-service/internal/model"
	"github.com/gin-gonic/gin"
)

// Error maps the domain error taxonomy onto transport status codes.
// Storage errors stay 500 so callers can tell "nothing there" from
// "couldn't check".
func Error(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, model.ErrInvalidRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date range"})
	case model.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
