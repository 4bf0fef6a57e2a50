package controllers

import (
	"net/http"

	"decryptai/middlewares"
	"decryptai/models"
	"decryptai/services"

	"github.com/gin-gonic/gin"
)

// RoomController owns the routes shared by both game variants: creation,
// the polled snapshot read, the shared clues route, and the archive read.
type RoomController struct {
	registry   *services.Registry
	wavelength *services.WavelengthService
	decrypto   *services.DecryptoService
	archiver   *services.Archiver
	sessions   *middlewares.SessionStore
}

func NewRoomController(registry *services.Registry, wavelength *services.WavelengthService, decrypto *services.DecryptoService, archiver *services.Archiver, sessions *middlewares.SessionStore) *RoomController {
	return &RoomController{
		registry:   registry,
		wavelength: wavelength,
		decrypto:   decrypto,
		archiver:   archiver,
		sessions:   sessions,
	}
}

// CreateRoom handles POST /create_room. The body is optional; the default
// variant is the competitive one, matching the client that sends no body.
func (h *RoomController) CreateRoom(c *gin.Context) {
	var req struct {
		Game string `json:"game"`
	}
	// An absent or empty body selects the default.
	_ = c.ShouldBindJSON(&req)

	var code string
	switch models.GameVariant(req.Game) {
	case models.VariantWavelength:
		code = h.wavelength.CreateRoom()
	case models.VariantDecrypto, "":
		code = h.decrypto.CreateRoom()
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown game variant: " + req.Game})
		return
	}
	c.JSON(http.StatusOK, gin.H{"room_code": code})
}

// GetRoom handles GET /room/:room_code and GET /get_room/:room_code. The
// response is the variant's snapshot, redacted for the viewer. Reading never
// creates a room.
func (h *RoomController) GetRoom(c *gin.Context) {
	code := c.Param("room_code")
	viewer := resolvePlayer(c, h.sessions, "")

	variant, err := h.registry.VariantOf(code)
	if err != nil {
		respondError(c, err)
		return
	}
	switch variant {
	case models.VariantWavelength:
		snap, err := h.wavelength.Snapshot(code, viewer)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, snap)
	case models.VariantDecrypto:
		snap, err := h.decrypto.Snapshot(code, viewer)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, snap)
	}
}

// SubmitClues handles POST /room/:room_code/clues for both variants: one
// clue per round in the cooperative game, one per code digit in the
// competitive one.
func (h *RoomController) SubmitClues(c *gin.Context) {
	code := c.Param("room_code")
	var req struct {
		Clues  []string `json:"clues"`
		Player string   `json:"player"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid clues payload"})
		return
	}
	player := resolvePlayer(c, h.sessions, req.Player)

	variant, err := h.registry.VariantOf(code)
	if err != nil {
		respondError(c, err)
		return
	}
	switch variant {
	case models.VariantWavelength:
		snap, err := h.wavelength.SubmitClues(code, player, req.Clues)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, snap)
	case models.VariantDecrypto:
		snap, err := h.decrypto.SubmitClues(code, player, req.Clues)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"game_state": snap})
	}
}

// GetArchive handles GET /archive/:room_code, reading back a finished game.
func (h *RoomController) GetArchive(c *gin.Context) {
	game, err := h.archiver.Get(c.Request.Context(), c.Param("room_code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, game)
}
