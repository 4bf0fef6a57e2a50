package main

import (
	"log"
	"strconv"
	"time"

	"decryptai/config"
	"decryptai/controllers"
	"decryptai/db"
	"decryptai/middlewares"
	"decryptai/models"
	"decryptai/routes"
	"decryptai/services"
	"decryptai/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load the configuration from the specified YAML file
	cfg, err := config.LoadConfig("./config/config.yml")
	if err != nil {
		log.Printf("Failed to load config (%v), using defaults", err)
		cfg = config.Default()
	}

	// Connect to MongoDB when a URI is configured; the archive is optional.
	var archiver *services.Archiver
	if cfg.Database.URI != "" {
		if err := db.ConnectMongoDB(cfg.Database.URI); err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		log.Println("Connected to MongoDB")
		archiver = services.NewArchiver(db.GamesArchiveCollection)
	} else {
		log.Println("No database URI configured, game archive disabled")
	}

	registry := services.NewRegistry()
	gen := services.NewRoundGenerator()

	var ai services.AIResponder
	if cfg.Gemini.ApiKey != "" {
		gemini, err := services.NewGeminiAI(cfg.Gemini.ApiKey)
		if err != nil {
			log.Fatalf("Failed to initialize Gemini client: %v", err)
		}
		ai = gemini
	} else {
		log.Println("No Gemini API key configured, using local AI players")
		ai = services.NewLocalAI(gen)
	}

	wavelength := services.NewWavelengthService(registry, gen, ai, services.LinearScore, cfg.Game, archiver)
	decrypto := services.NewDecryptoService(registry, gen, ai, cfg.Game, archiver)

	router := setupRouter(cfg, registry, wavelength, decrypto, archiver)
	port := strconv.Itoa(cfg.Server.Port)
	log.Printf("Server starting on port %s", port)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRouter(cfg *config.Config, registry *services.Registry, wavelength *services.WavelengthService, decrypto *services.DecryptoService, archiver *services.Archiver) *gin.Engine {
	router := gin.Default()

	router.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))
	router.OPTIONS("/*path", func(c *gin.Context) { c.Status(204) })

	sessions := middlewares.NewSessionStore()
	router.Use(sessions.Middleware())

	watch := websocket.NewWatcher(func(roomCode, viewer string) (interface{}, error) {
		variant, err := registry.VariantOf(roomCode)
		if err != nil {
			return nil, err
		}
		if variant == models.VariantWavelength {
			return wavelength.Snapshot(roomCode, viewer)
		}
		return decrypto.Snapshot(roomCode, viewer)
	}, 2*time.Second)

	routes.Register(router, cfg.Game, routes.Controllers{
		Identity:   controllers.NewIdentityController(sessions),
		Room:       controllers.NewRoomController(registry, wavelength, decrypto, archiver, sessions),
		Wavelength: controllers.NewWavelengthController(wavelength, sessions),
		Decrypto:   controllers.NewDecryptoController(decrypto, sessions),
		Watch:      watch,
	})

	return router
}
