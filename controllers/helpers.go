package controllers

import (
	"errors"
	"net/http"

	"decryptai/middlewares"
	"decryptai/models"

	"github.com/gin-gonic/gin"
)

// respondError maps the engine's error taxonomy onto HTTP statuses. Anything
// that is not a GameError is an internal failure.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	var ge *models.GameError
	if errors.As(err, &ge) {
		switch ge.Kind {
		case models.KindNotFound:
			status = http.StatusNotFound
		case models.KindValidation:
			status = http.StatusBadRequest
		case models.KindInvalidPhase, models.KindConflict:
			status = http.StatusConflict
		case models.KindUpstreamTimeout:
			status = http.StatusGatewayTimeout
		}
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// resolvePlayer picks the acting player: an explicit value from the request
// wins, otherwise the name bound to the session. Empty means anonymous.
func resolvePlayer(c *gin.Context, sessions *middlewares.SessionStore, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if q := c.Query("player"); q != "" {
		return q
	}
	if sid := c.GetString("sessionId"); sid != "" {
		if name, ok := sessions.Name(sid); ok {
			return name
		}
	}
	return ""
}
