package utils

import (
	"strings"
	"testing"

	"decryptai/models"

	"github.com/stretchr/testify/assert"
)

func TestRandomName(t *testing.T) {
	for i := 0; i < 20; i++ {
		name := RandomName()
		parts := strings.Split(name, " ")
		assert.Len(t, parts, 2)
		assert.False(t, models.IsAI(name))
	}
}

func TestRandomAIName(t *testing.T) {
	for i := 0; i < 20; i++ {
		name := RandomAIName()
		assert.True(t, models.IsAI(name))
		assert.NotEmpty(t, models.AIPersonality(name))
	}
}

func TestRoomCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := RoomCode()
		assert.Len(t, code, 6)
		for _, c := range code {
			assert.Contains(t, roomCodeAlphabet, string(c))
		}
		seen[code] = true
	}
	// 36^6 codes; 100 draws colliding would point at broken randomness.
	assert.Greater(t, len(seen), 95)
}
