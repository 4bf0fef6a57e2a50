package controllers

import (
	"net/http"

	"decryptai/middlewares"
	"decryptai/services"

	"github.com/gin-gonic/gin"
)

// WavelengthController exposes the cooperative variant's commands.
type WavelengthController struct {
	svc      *services.WavelengthService
	sessions *middlewares.SessionStore
}

func NewWavelengthController(svc *services.WavelengthService, sessions *middlewares.SessionStore) *WavelengthController {
	return &WavelengthController{svc: svc, sessions: sessions}
}

// JoinRoom handles POST /join_room/:room_code/:name.
func (h *WavelengthController) JoinRoom(c *gin.Context) {
	snap, err := h.svc.Join(c.Param("room_code"), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// ChangeState handles POST /room/:room_code with a {gameState} body; the only
// legal request is the start command moving Waiting into Setup.
func (h *WavelengthController) ChangeState(c *gin.Context) {
	var req struct {
		GameState string `json:"gameState"`
		Player    string `json:"player"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid state payload"})
		return
	}
	player := resolvePlayer(c, h.sessions, req.Player)
	snap, err := h.svc.Start(c.Param("room_code"), player, req.GameState)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// UpdateGuess handles POST /room/:room_code/guess: a pending, overwritable
// guess for the current turn.
func (h *WavelengthController) UpdateGuess(c *gin.Context) {
	var req struct {
		Guess      *float64 `json:"guess"`
		Player     string   `json:"player"`
		PlayerName string   `json:"player_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Guess == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "guess is required"})
		return
	}
	if req.Player == "" {
		req.Player = req.PlayerName
	}
	player := resolvePlayer(c, h.sessions, req.Player)
	snap, err := h.svc.UpdateGuess(c.Param("room_code"), player, *req.Guess)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// LockGuess handles POST /room/:room_code/submit_guess: a one-way lock of
// the player's guess. The body is optional; without one the session identity
// names the player and the pending value stands.
func (h *WavelengthController) LockGuess(c *gin.Context) {
	var req struct {
		Guess  *float64 `json:"guess"`
		Player string   `json:"player"`
	}
	_ = c.ShouldBindJSON(&req)
	player := resolvePlayer(c, h.sessions, req.Player)
	snap, err := h.svc.LockGuess(c.Param("room_code"), player, req.Guess)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}
