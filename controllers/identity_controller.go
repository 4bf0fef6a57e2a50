package controllers

import (
	"net/http"
	"strings"

	"decryptai/middlewares"
	"decryptai/utils"

	"github.com/gin-gonic/gin"
)

// IdentityController binds transport sessions to display names.
type IdentityController struct {
	sessions *middlewares.SessionStore
}

func NewIdentityController(sessions *middlewares.SessionStore) *IdentityController {
	return &IdentityController{sessions: sessions}
}

// SetPlayerName handles POST /player_name.
func (h *IdentityController) SetPlayerName(c *gin.Context) {
	var req struct {
		PlayerName string `json:"player_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.PlayerName) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "player_name is required"})
		return
	}
	h.sessions.SetName(c.GetString("sessionId"), strings.TrimSpace(req.PlayerName))
	c.JSON(http.StatusOK, gin.H{"status": "Name set"})
}

// GetPlayerName handles GET /player_name: the session's chosen name, or a
// fresh suggestion that sticks until the player picks their own.
func (h *IdentityController) GetPlayerName(c *gin.Context) {
	sid := c.GetString("sessionId")
	name, ok := h.sessions.Name(sid)
	if !ok {
		name = utils.RandomName()
		h.sessions.SetName(sid, name)
	}
	c.JSON(http.StatusOK, gin.H{"player_name": name})
}
