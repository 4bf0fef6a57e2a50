package controllers

import (
	"net/http"

	"decryptai/middlewares"
	"decryptai/models"
	"decryptai/services"

	"github.com/gin-gonic/gin"
)

// DecryptoController exposes the competitive variant's commands. Responses
// wrap the snapshot as {game_state}, the shape the client binds to.
type DecryptoController struct {
	svc      *services.DecryptoService
	sessions *middlewares.SessionStore
}

func NewDecryptoController(svc *services.DecryptoService, sessions *middlewares.SessionStore) *DecryptoController {
	return &DecryptoController{svc: svc, sessions: sessions}
}

// JoinTeam handles POST /join_room/:room_code/:name/:player_name, where
// :name is the team color.
func (h *DecryptoController) JoinTeam(c *gin.Context) {
	color, err := models.ParseTeamColor(c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	snap, err := h.svc.JoinTeam(c.Param("room_code"), color, c.Param("player_name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"game_state": snap})
}

// AddAI handles POST /room/:room_code/add_ai/:team_color.
func (h *DecryptoController) AddAI(c *gin.Context) {
	color, err := models.ParseTeamColor(c.Param("team_color"))
	if err != nil {
		respondError(c, err)
		return
	}
	snap, err := h.svc.AddAI(c.Param("room_code"), color)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"game_state": snap})
}

// GenerateWords handles POST /room/:room_code/generate_words/:team_color.
func (h *DecryptoController) GenerateWords(c *gin.Context) {
	color, err := models.ParseTeamColor(c.Param("team_color"))
	if err != nil {
		respondError(c, err)
		return
	}
	snap, err := h.svc.GenerateWords(c.Request.Context(), c.Param("room_code"), color)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"game_state": snap})
}

// StartRound handles POST /room/:room_code/start_round.
func (h *DecryptoController) StartRound(c *gin.Context) {
	snap, err := h.svc.StartRound(c.Param("room_code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"game_state": snap})
}

// SubmitGuess handles POST /room/:room_code/submit_guess/:team_color with a
// {guess: [3]int} body.
func (h *DecryptoController) SubmitGuess(c *gin.Context) {
	color, err := models.ParseTeamColor(c.Param("team_color"))
	if err != nil {
		respondError(c, err)
		return
	}
	var req struct {
		Guess []int `json:"guess"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid guess payload"})
		return
	}
	snap, err := h.svc.SubmitGuess(c.Param("room_code"), color, req.Guess)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"game_state": snap})
}
