package routes

import (
	"decryptai/config"
	"decryptai/controllers"
	"decryptai/middlewares"
	"decryptai/websocket"

	"github.com/gin-gonic/gin"
)

// Controllers bundles everything Register needs to wire the API.
type Controllers struct {
	Identity   *controllers.IdentityController
	Room       *controllers.RoomController
	Wavelength *controllers.WavelengthController
	Decrypto   *controllers.DecryptoController
	Watch      *websocket.Watcher
}

// Register mounts every route on the router. The join routes share the
// position of their second parameter: for the cooperative game it is the
// player name, for the competitive game the team color followed by the
// player name.
func Register(router *gin.Engine, cfg config.GameConfig, ctrl Controllers) {
	router.POST("/create_room", middlewares.RateLimit(cfg.CreateRoomRate), ctrl.Room.CreateRoom)

	router.POST("/player_name", ctrl.Identity.SetPlayerName)
	router.GET("/player_name", ctrl.Identity.GetPlayerName)

	router.POST("/join_room/:room_code/:name", ctrl.Wavelength.JoinRoom)
	router.POST("/join_room/:room_code/:name/:player_name", ctrl.Decrypto.JoinTeam)

	router.GET("/room/:room_code", ctrl.Room.GetRoom)
	router.GET("/get_room/:room_code", ctrl.Room.GetRoom)
	router.POST("/room/:room_code", ctrl.Wavelength.ChangeState)
	router.POST("/room/:room_code/clues", ctrl.Room.SubmitClues)
	router.POST("/room/:room_code/guess", ctrl.Wavelength.UpdateGuess)
	router.POST("/room/:room_code/submit_guess", ctrl.Wavelength.LockGuess)

	router.POST("/room/:room_code/add_ai/:team_color", ctrl.Decrypto.AddAI)
	router.POST("/room/:room_code/generate_words/:team_color", ctrl.Decrypto.GenerateWords)
	router.POST("/room/:room_code/start_round", ctrl.Decrypto.StartRound)
	router.POST("/room/:room_code/submit_guess/:team_color", ctrl.Decrypto.SubmitGuess)

	router.GET("/archive/:room_code", ctrl.Room.GetArchive)

	if ctrl.Watch != nil {
		router.GET("/ws/:room_code", ctrl.Watch.Serve)
	}
}
