package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"decryptai/models"

	"google.golang.org/genai"
)

// AIResponder is the collaborator that plays the AI seats: clue and guess in
// the cooperative game, words, clues and codes in the competitive one.
// Implementations must respect the context deadline; a failed call never
// touches room state, callers fall back or surface UpstreamTimeout.
type AIResponder interface {
	GiveClue(ctx context.Context, personality string, scale [2]string, point float64) (string, error)
	GuessPoint(ctx context.Context, personality string, scale [2]string, clue string) (guess float64, reason string, err error)
	GenerateWords(ctx context.Context, teamColor models.TeamColor) ([]string, error)
	GenerateClues(ctx context.Context, codeWords []string, code []int) ([]string, error)
	GuessCode(ctx context.Context, clues []string, codeWords []string, history []models.RoundRecord) ([]int, error)
}

// GeminiAI answers through the Gemini API.
type GeminiAI struct {
	client *genai.Client
	model  string
}

func NewGeminiAI(apiKey string) (*GeminiAI, error) {
	client, err := initGemini(apiKey)
	if err != nil {
		return nil, err
	}
	return &GeminiAI{client: client, model: defaultGeminiModel}, nil
}

func (g *GeminiAI) generate(ctx context.Context, prompt string) (string, error) {
	text, err := generateModelText(ctx, g.client, g.model, prompt)
	if err != nil {
		return "", models.UpstreamTimeout("ai generation failed: " + err.Error())
	}
	return text, nil
}

func (g *GeminiAI) GiveClue(ctx context.Context, personality string, scale [2]string, point float64) (string, error) {
	prompt := fmt.Sprintf(
		`You are an expert clue giver with the strong personality of %s. `+
			`Respond in plaintext, only your clue, nothing else. `+
			`Your clue cannot explicitly mention the scale. `+
			`Give a clue for a point %.3f on the scale of %q to %q.`,
		personality, point, scale[0], scale[1])
	clue, err := g.generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	if clue == "" {
		return "", models.UpstreamTimeout("ai returned an empty clue")
	}
	return clue, nil
}

func (g *GeminiAI) GuessPoint(ctx context.Context, personality string, scale [2]string, clue string) (float64, string, error) {
	prompt := fmt.Sprintf(
		`You are an expert clue guesser with the strong personality of %s. `+
			`Respond in JSON with your reasoning (string) and guess (a float from 0.0-1.0), nothing else. `+
			`Example: {"reason": "...", "guess": 0.53}. `+
			`Your reasoning must be overwhelmingly in the voice of %s. `+
			`Given this clue %q on this scale %q (0) to %q (1), what is your best guess for the point along the scale?`,
		personality, personality, clue, scale[0], scale[1])
	raw, err := g.generate(ctx, prompt)
	if err != nil {
		return 0, "", err
	}
	var parsed struct {
		Reason string  `json:"reason"`
		Guess  float64 `json:"guess"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return 0, "", models.UpstreamTimeout("cannot parse ai guess: " + raw)
	}
	if parsed.Guess < 0 || parsed.Guess > 1 {
		return 0, "", models.UpstreamTimeout(fmt.Sprintf("ai guess out of range: %v", parsed.Guess))
	}
	return parsed.Guess, parsed.Reason, nil
}

func (g *GeminiAI) GenerateWords(ctx context.Context, teamColor models.TeamColor) ([]string, error) {
	prompt := fmt.Sprintf(
		`You are setting up a game of Decrypto for team %s. `+
			`Pick 4 distinct single English nouns, concrete and evocative, no proper names. `+
			`Respond with a JSON array of exactly 4 lowercase words: ["w1","w2","w3","w4"]`,
		teamColor)
	raw, err := g.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	var words []string
	if err := json.Unmarshal([]byte(raw), &words); err != nil {
		return nil, models.UpstreamTimeout("cannot parse ai words: " + raw)
	}
	if err := ValidateCodeWords(words); err != nil {
		return nil, models.UpstreamTimeout("ai words invalid: " + err.Error())
	}
	return words, nil
}

func (g *GeminiAI) GenerateClues(ctx context.Context, codeWords []string, code []int) ([]string, error) {
	prompt := fmt.Sprintf(
		`You are playing Decrypto. Your team's 4 code words are: `+
			`1. %s 2. %s 3. %s 4. %s. `+
			`Give clues for the sequence %v: one clue per position, each clue 1-3 words, `+
			`helpful to teammates but not obvious to the listening opponents, `+
			`and never containing a code word. `+
			`Respond with a JSON array of exactly 3 clues: ["clue1","clue2","clue3"]`,
		codeWords[0], codeWords[1], codeWords[2], codeWords[3], code)
	raw, err := g.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	var clues []string
	if err := json.Unmarshal([]byte(raw), &clues); err != nil {
		return nil, models.UpstreamTimeout("cannot parse ai clues: " + raw)
	}
	if len(clues) != codeLength {
		return nil, models.UpstreamTimeout(fmt.Sprintf("ai returned %d clues, want %d", len(clues), codeLength))
	}
	return clues, nil
}

func (g *GeminiAI) GuessCode(ctx context.Context, clues []string, codeWords []string, history []models.RoundRecord) ([]int, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are playing Decrypto and must guess a 3-digit code from clues.\n")
	fmt.Fprintf(&sb, "The clues given were: %v\n", clues)
	if len(codeWords) == teamWords {
		fmt.Fprintf(&sb, "The code words are: 1. %s 2. %s 3. %s 4. %s\n",
			codeWords[0], codeWords[1], codeWords[2], codeWords[3])
	}
	if len(history) > 0 {
		sb.WriteString("Previous rounds:\n")
		start := len(history) - 3
		if start < 0 {
			start = 0
		}
		for _, rec := range history[start:] {
			fmt.Fprintf(&sb, "Clues: %v -> Code: %v\n", rec.Clues, rec.Code)
		}
	}
	sb.WriteString("Each digit is 1-4 and digits may repeat. ")
	sb.WriteString("Respond with a JSON array of exactly 3 numbers: [n1, n2, n3]")
	raw, err := g.generate(ctx, sb.String())
	if err != nil {
		return nil, err
	}
	var guess []int
	if err := json.Unmarshal([]byte(raw), &guess); err != nil {
		return nil, models.UpstreamTimeout("cannot parse ai code guess: " + raw)
	}
	if err := ValidateCodeGuess(guess); err != nil {
		return nil, models.UpstreamTimeout("ai code guess invalid: " + err.Error())
	}
	return guess, nil
}

// LocalAI is the offline responder used when no API key is configured and as
// the fallback when a live call fails mid-game. Deterministic enough to keep
// a game moving, never errors.
type LocalAI struct {
	gen *RoundGenerator
}

func NewLocalAI(gen *RoundGenerator) *LocalAI {
	return &LocalAI{gen: gen}
}

func (l *LocalAI) GiveClue(_ context.Context, _ string, scale [2]string, point float64) (string, error) {
	switch {
	case point < 0.2:
		return "firmly " + scale[0], nil
	case point < 0.4:
		return "leaning " + scale[0], nil
	case point < 0.6:
		return "somewhere between " + scale[0] + " and " + scale[1], nil
	case point < 0.8:
		return "leaning " + scale[1], nil
	default:
		return "firmly " + scale[1], nil
	}
}

func (l *LocalAI) GuessPoint(_ context.Context, _ string, scale [2]string, clue string) (float64, string, error) {
	lower := strings.ToLower(clue)
	switch {
	case strings.Contains(lower, scale[0]):
		return 0.2, "the clue echoes " + scale[0], nil
	case strings.Contains(lower, scale[1]):
		return 0.8, "the clue echoes " + scale[1], nil
	default:
		return l.gen.FallbackPointGuess(), "went with my gut", nil
	}
}

func (l *LocalAI) GenerateWords(_ context.Context, _ models.TeamColor) ([]string, error) {
	return l.gen.FallbackWords(), nil
}

func (l *LocalAI) GenerateClues(_ context.Context, codeWords []string, code []int) ([]string, error) {
	return l.gen.FallbackClues(codeWords, code), nil
}

func (l *LocalAI) GuessCode(_ context.Context, _ []string, _ []string, _ []models.RoundRecord) ([]int, error) {
	return l.gen.FallbackCode(), nil
}

// ValidateCodeWords enforces the code word contract: exactly 4 pairwise
// distinct non-empty strings.
func ValidateCodeWords(words []string) error {
	if len(words) != teamWords {
		return models.Validation(fmt.Sprintf("need exactly %d code words, got %d", teamWords, len(words)))
	}
	seen := make(map[string]bool, teamWords)
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			return models.Validation("code words cannot be empty")
		}
		if seen[strings.ToLower(w)] {
			return models.Validation("code words must be distinct: " + w)
		}
		seen[strings.ToLower(w)] = true
	}
	return nil
}

// ValidateCodeGuess enforces the guess vector contract: 3 digits in 1..4.
func ValidateCodeGuess(guess []int) error {
	if len(guess) != codeLength {
		return models.Validation(fmt.Sprintf("guess must have %d digits, got %d", codeLength, len(guess)))
	}
	for _, d := range guess {
		if d < 1 || d > codeDigits {
			return models.Validation(fmt.Sprintf("guess digit out of range: %d", d))
		}
	}
	return nil
}
