package services

import (
	"testing"

	"decryptai/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundsFor(t *testing.T) {
	gen := NewRoundGenerator()
	assert.Equal(t, 3, gen.RoundsFor(2))
	assert.Equal(t, 3, gen.RoundsFor(3))
	assert.Equal(t, 2, gen.RoundsFor(4))
	assert.Equal(t, 2, gen.RoundsFor(5))
	assert.Equal(t, 1, gen.RoundsFor(6))
	assert.Equal(t, 1, gen.RoundsFor(9))
}

func TestNewWavelengthRounds(t *testing.T) {
	gen := NewRoundGenerator()
	players := []string{"alice", "bob", "carol"}
	rounds := gen.NewWavelengthRounds(players, 2)
	require.Len(t, rounds, 2)
	for _, round := range rounds {
		require.Len(t, round.Players, 3)
		for _, name := range players {
			entry := round.Players[name]
			require.NotNil(t, entry)
			assert.NotEmpty(t, entry.Scale[0])
			assert.NotEmpty(t, entry.Scale[1])
			assert.GreaterOrEqual(t, entry.Point, 0.0)
			assert.Less(t, entry.Point, 1.0)
			assert.False(t, entry.ClueSet)
		}
	}
}

// Each code digit must be independently uniform over 1..4; with 4000 draws a
// digit that appears under 800 times (expected 1000) signals a skew.
func TestSecretCodeDigitDistribution(t *testing.T) {
	gen := NewRoundGenerator()
	counts := make(map[int]int)
	const draws = 4000
	for i := 0; i < draws; i++ {
		code := gen.SecretCode()
		require.Len(t, code, 3)
		for _, d := range code {
			require.GreaterOrEqual(t, d, 1)
			require.LessOrEqual(t, d, 4)
		}
		counts[code[0]]++
	}
	for d := 1; d <= 4; d++ {
		assert.Greater(t, counts[d], draws/5, "digit %d underrepresented", d)
	}
}

func TestFallbackWords(t *testing.T) {
	gen := NewRoundGenerator()
	for i := 0; i < 20; i++ {
		words := gen.FallbackWords()
		require.NoError(t, ValidateCodeWords(words))
	}
}

func TestFallbackClues(t *testing.T) {
	gen := NewRoundGenerator()
	words := []string{"anchor", "ox", "cactus", "dolphin"}
	clues := gen.FallbackClues(words, []int{1, 2, 4})
	require.Len(t, clues, 3)
	assert.Equal(t, "related-to-anc", clues[0])
	assert.Equal(t, "related-to-ox", clues[1])
	assert.Equal(t, "related-to-dol", clues[2])
}

func TestFallbackPointGuessRange(t *testing.T) {
	gen := NewRoundGenerator()
	for i := 0; i < 100; i++ {
		v := gen.FallbackPointGuess()
		assert.GreaterOrEqual(t, v, 0.25)
		assert.LessOrEqual(t, v, 0.75)
	}
}

func TestValidateCodeWords(t *testing.T) {
	require.NoError(t, ValidateCodeWords([]string{"a", "b", "c", "d"}))

	err := ValidateCodeWords([]string{"a", "b", "c"})
	assert.Equal(t, models.KindValidation, models.KindOf(err))

	err = ValidateCodeWords([]string{"a", "b", "c", "a"})
	assert.Equal(t, models.KindValidation, models.KindOf(err))

	err = ValidateCodeWords([]string{"a", "b", "c", "A"})
	assert.Equal(t, models.KindValidation, models.KindOf(err), "distinctness ignores case")

	err = ValidateCodeWords([]string{"a", "b", "c", " "})
	assert.Equal(t, models.KindValidation, models.KindOf(err))
}

func TestValidateCodeGuess(t *testing.T) {
	require.NoError(t, ValidateCodeGuess([]int{1, 4, 2}))
	require.NoError(t, ValidateCodeGuess([]int{3, 3, 3}), "digits may repeat")

	for _, bad := range [][]int{nil, {1, 2}, {1, 2, 3, 4}, {0, 1, 2}, {1, 2, 5}} {
		err := ValidateCodeGuess(bad)
		assert.Equal(t, models.KindValidation, models.KindOf(err), "%v", bad)
	}
}
