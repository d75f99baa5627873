package api

import (
	"errors"
	"net/http"

	customerrors "github.com/axellelanca/shortlinks/internal/errors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// respondError maps a service error onto its HTTP status.
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	_ = c.Error(err)

	var validationErr *customerrors.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error(), "field": validationErr.Field})
	case errors.Is(err, customerrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, customerrors.ErrSlugConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "slug already in use"})
	case errors.Is(err, customerrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, customerrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "link not found"})
	case errors.Is(err, customerrors.ErrUnauthorized):
		abortUnauthorized(c)
	case errors.Is(err, customerrors.ErrSlugSpaceExhausted):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "unable to generate unique slug, please try again later"})
	case customerrors.IsRetryable(err):
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("storage failure")
		c.Header("Retry-After", "1")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage temporarily unavailable"})
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
