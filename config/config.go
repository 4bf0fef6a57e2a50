package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Gemini struct {
		ApiKey string `yaml:"apiKey"`
	} `yaml:"gemini"`

	Database struct {
		URI string `yaml:"uri"`
	} `yaml:"database"`

	Game GameConfig `yaml:"game"`
}

// GameConfig carries the tuning constants for both game variants.
type GameConfig struct {
	// Wavelength: AI seats created with each room.
	AIPlayers int `yaml:"aiPlayers"`

	// Decrypto win thresholds.
	WinInterceptions   int `yaml:"winInterceptions"`
	WinSuccessfulCodes int `yaml:"winSuccessfulCodes"`

	// How long a room sits in the scoring phase before the next round,
	// so 2-second pollers actually see it.
	ScoringDelaySeconds int `yaml:"scoringDelaySeconds"`

	// Upper bound on any single AI generation call.
	AITimeoutSeconds int `yaml:"aiTimeoutSeconds"`

	// When true, generate_words may replace a team's words before the
	// first round starts. Default is to reject the duplicate call.
	AllowRegenerate bool `yaml:"allowRegenerate"`

	// create_room requests allowed per second per client IP.
	CreateRoomRate float64 `yaml:"createRoomRate"`
}

// LoadConfig reads the configuration file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}
	cfg.Game.applyDefaults()

	return &cfg, nil
}

// Default returns a config usable without a file, e.g. in tests.
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Port = 5000
	cfg.Game.applyDefaults()
	return cfg
}

func (g *GameConfig) applyDefaults() {
	if g.AIPlayers == 0 {
		g.AIPlayers = 3
	}
	if g.WinInterceptions == 0 {
		g.WinInterceptions = 2
	}
	if g.WinSuccessfulCodes == 0 {
		g.WinSuccessfulCodes = 5
	}
	if g.ScoringDelaySeconds == 0 {
		g.ScoringDelaySeconds = 4
	}
	if g.AITimeoutSeconds == 0 {
		g.AITimeoutSeconds = 20
	}
	if g.CreateRoomRate == 0 {
		g.CreateRoomRate = 1
	}
}

func (g *GameConfig) ScoringDelay() time.Duration {
	return time.Duration(g.ScoringDelaySeconds) * time.Second
}

func (g *GameConfig) AITimeout() time.Duration {
	return time.Duration(g.AITimeoutSeconds) * time.Second
}
