package site

import (
	"errors"
	"net/http"

	"github.com/Zachkp/portfolio/internal/auth"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/objectstore"
	"github.com/Zachkp/portfolio/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// errBadRequest marks malformed client input (bad JSON, missing fields).
var errBadRequest = errors.New("bad request")

// httpStatus returns the status code for an error from a handler.
func httpStatus(err error) int {
	var verr *content.ValidationError
	switch {
	case errors.As(err, &verr),
		errors.Is(err, errBadRequest),
		errors.Is(err, content.ErrEmptyPatch),
		errors.Is(err, objectstore.ErrUnsupportedType),
		errors.Is(err, objectstore.ErrUnknownKind),
		errors.Is(err, objectstore.ErrBadPath):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, objectstore.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// abortWithError writes {"error": ...}. Internal errors are logged and
// replaced with a generic message.
func abortWithError(c *gin.Context, err error) {
	status := httpStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Error().Err(err).
			Str("request_id", c.GetString(requestIDKey)).
			Str("path", c.FullPath()).
			Msg("request failed")
		msg = "internal server error"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
