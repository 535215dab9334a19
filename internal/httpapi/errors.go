package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"issueTracking/internal/auth"
	"issueTracking/internal/service"
)

func message(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}

// respondError maps a service error to its status. Unclassified errors are
// logged and answered with a generic 500.
func respondError(c *gin.Context, log *slog.Logger, err error) {
	msg, known := service.Message(err)
	switch {
	case errors.Is(err, service.ErrNotFound):
		message(c, http.StatusNotFound, msg)
	case errors.Is(err, service.ErrInvalidReference), errors.Is(err, service.ErrInvalidInput):
		message(c, http.StatusBadRequest, msg)
	case errors.Is(err, service.ErrConflict):
		message(c, http.StatusConflict, msg)
	case errors.Is(err, service.ErrThrottled):
		message(c, http.StatusTooManyRequests, "Too many failed login attempts, try again later")
	case errors.Is(err, auth.ErrForbidden):
		message(c, http.StatusForbidden, "forbidden")
	case errors.Is(err, auth.ErrUnauthenticated):
		message(c, http.StatusUnauthorized, "unauthorized")
	default:
		if known {
			message(c, http.StatusBadRequest, msg)
			return
		}
		log.Error("request failed",
			"error", err,
			"route", c.FullPath(),
			"request_id", c.GetString(requestIDKey),
		)
		message(c, http.StatusInternalServerError, "internal server error")
	}
}
