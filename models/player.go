package models

import "strings"

// AIPrefix tags a player name as AI-controlled. AI players live in the same
// registry as humans; the prefix is the capability flag that makes the engine
// answer on their behalf.
const AIPrefix = "[AI] "

// PlayerState is the per-player slice of a room. The name is the map key and
// never changes once the player has joined.
type PlayerState struct {
	Score     float64 `json:"score"`
	LastScore float64 `json:"last_score"`
}

func IsAI(name string) bool {
	return strings.HasPrefix(name, AIPrefix)
}

// AIPersonality strips the AI tag, leaving the persona used in prompts.
func AIPersonality(name string) string {
	return strings.TrimPrefix(name, AIPrefix)
}

// GameVariant tags which of the two state machines a room runs.
type GameVariant string

const (
	VariantWavelength GameVariant = "wavelength"
	VariantDecrypto   GameVariant = "decrypto"
)

// Room is the tagged union stored in the registry. Each variant enforces its
// own invariants on its own concrete type.
type Room interface {
	Code() string
	Variant() GameVariant
}
