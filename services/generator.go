package services

import (
	"math/rand"

	"decryptai/models"
)

// scales are the opposing label pairs a wavelength round is played on.
var scales = [][2]string{
	{"cold", "hot"},
	{"underrated", "overrated"},
	{"dry", "wet"},
	{"quiet", "loud"},
	{"cheap", "expensive"},
	{"ugly", "beautiful"},
	{"useless", "useful"},
	{"scary", "cute"},
	{"ancient", "futuristic"},
	{"soft", "hard"},
	{"boring", "exciting"},
	{"unhealthy", "healthy"},
	{"small", "huge"},
	{"slow", "fast"},
	{"common", "rare"},
	{"casual", "formal"},
	{"bitter", "sweet"},
	{"fragile", "sturdy"},
	{"forgettable", "iconic"},
	{"guilty pleasure", "openly loved"},
}

// wordBank backs GenerateWords when no AI collaborator is reachable.
var wordBank = []string{
	"anchor", "blizzard", "cactus", "dolphin", "ember", "fortress",
	"galaxy", "harvest", "island", "jungle", "keystone", "lagoon",
	"molecule", "nomad", "orchard", "pyramid", "quartz", "rocket",
	"sapphire", "tornado", "umbrella", "volcano", "whisker", "zeppelin",
	"compass", "meadow", "lantern", "glacier", "harbor", "onyx",
}

const (
	codeLength = 3
	codeDigits = 4
	teamWords  = 4
)

// RoundGenerator produces the hidden material for both variants: scales and
// target points for wavelength, secret codes and fallback word sets for
// decrypto.
type RoundGenerator struct{}

func NewRoundGenerator() *RoundGenerator {
	return &RoundGenerator{}
}

// RoundsFor keeps game length steady: fewer rounds as the table grows.
func (g *RoundGenerator) RoundsFor(playerCount int) int {
	rounds := 3
	if playerCount >= 4 {
		rounds--
	}
	if playerCount >= 6 {
		rounds--
	}
	return rounds
}

// NewWavelengthRounds deals every player a fresh scale and hidden point in
// each round.
func (g *RoundGenerator) NewWavelengthRounds(players []string, roundCount int) []*models.WavelengthRound {
	rounds := make([]*models.WavelengthRound, 0, roundCount)
	for i := 0; i < roundCount; i++ {
		round := &models.WavelengthRound{Players: make(map[string]*models.RoundEntry, len(players))}
		for _, name := range players {
			round.Players[name] = &models.RoundEntry{
				Scale: scales[rand.Intn(len(scales))],
				Point: rand.Float64(),
			}
		}
		rounds = append(rounds, round)
	}
	return rounds
}

// SecretCode draws three digits, each independently uniform over 1..4.
// Duplicates within a code are allowed.
func (g *RoundGenerator) SecretCode() []int {
	code := make([]int, codeLength)
	for i := range code {
		code[i] = rand.Intn(codeDigits) + 1
	}
	return code
}

// FallbackWords picks 4 distinct words from the local bank.
func (g *RoundGenerator) FallbackWords() []string {
	perm := rand.Perm(len(wordBank))
	words := make([]string, teamWords)
	for i := 0; i < teamWords; i++ {
		words[i] = wordBank[perm[i]]
	}
	return words
}

// FallbackClues derives a flat clue per code digit from the team's words.
func (g *RoundGenerator) FallbackClues(codeWords []string, code []int) []string {
	clues := make([]string, len(code))
	for i, digit := range code {
		word := codeWords[digit-1]
		n := len(word)
		if n > 3 {
			n = 3
		}
		clues[i] = "related-to-" + word[:n]
	}
	return clues
}

// FallbackCode is a uniform random guess.
func (g *RoundGenerator) FallbackCode() []int {
	return g.SecretCode()
}

// FallbackPointGuess spreads naive guesses around the middle of the scale.
func (g *RoundGenerator) FallbackPointGuess() float64 {
	return 0.25 + rand.Float64()*0.5
}
