package services

import (
	"context"
	"log"
	"strings"
	"time"

	"decryptai/config"
	"decryptai/models"
	"decryptai/utils"
)

// DecryptoService runs the competitive code-guessing state machine and owns
// the team invariants: one team per player, write-once code words, fresh
// secret codes per round.
type DecryptoService struct {
	registry *Registry
	gen      *RoundGenerator
	ai       AIResponder
	local    *LocalAI
	cfg      config.GameConfig
	archiver *Archiver
}

func NewDecryptoService(registry *Registry, gen *RoundGenerator, ai AIResponder, cfg config.GameConfig, archiver *Archiver) *DecryptoService {
	return &DecryptoService{
		registry: registry,
		gen:      gen,
		ai:       ai,
		local:    NewLocalAI(gen),
		cfg:      cfg,
		archiver: archiver,
	}
}

// CreateRoom registers a fresh competitive room and returns its join code.
func (s *DecryptoService) CreateRoom() string {
	room := s.registry.Add(func(code string) models.Room {
		return models.NewDecryptoRoom(code)
	})
	return room.Code()
}

// JoinTeam seats a human player on a side. Names are unique across both
// teams and seating is only legal during setup.
func (s *DecryptoService) JoinTeam(code string, color models.TeamColor, player string) (models.DecryptoSnapshot, error) {
	player = strings.TrimSpace(player)
	if player == "" {
		return models.DecryptoSnapshot{}, models.Validation("player name cannot be empty")
	}
	if models.IsAI(player) {
		return models.DecryptoSnapshot{}, models.Validation("player names cannot carry the AI tag")
	}
	var snap models.DecryptoSnapshot
	err := s.registry.WithDecrypto(code, func(room *models.DecryptoRoom) error {
		if room.Phase != models.PhaseDecryptoSetup {
			return models.InvalidPhase("cannot join: game already started")
		}
		if _, taken := room.TeamOf(player); taken {
			return models.Conflict("player " + player + " already joined this room")
		}
		team := room.Teams[color]
		team.Players = append(team.Players, player)
		snap = room.Snapshot(player)
		return nil
	})
	return snap, err
}

// AddAI gives a team an AI seat. One per team unless regeneration is allowed.
func (s *DecryptoService) AddAI(code string, color models.TeamColor) (models.DecryptoSnapshot, error) {
	var snap models.DecryptoSnapshot
	err := s.registry.WithDecrypto(code, func(room *models.DecryptoRoom) error {
		if room.Phase != models.PhaseDecryptoSetup {
			return models.InvalidPhase("AI seats can only be added during setup")
		}
		team := room.Teams[color]
		if len(team.AIPlayers) > 0 && !s.cfg.AllowRegenerate {
			return models.Conflict("team " + string(color) + " already has an AI seat")
		}
		team.AIPlayers = append(team.AIPlayers, utils.RandomAIName())
		snap = room.Snapshot("")
		return nil
	})
	return snap, err
}

// GenerateWords asks the AI collaborator for the team's 4 code words. The
// call runs off the room lock with a deadline; a failure surfaces as an error
// and leaves the room exactly as it was.
func (s *DecryptoService) GenerateWords(ctx context.Context, code string, color models.TeamColor) (models.DecryptoSnapshot, error) {
	// Pre-check so we do not burn an AI call on a doomed command.
	err := s.registry.WithDecrypto(code, func(room *models.DecryptoRoom) error {
		return s.wordsWritable(room, color)
	})
	if err != nil {
		return models.DecryptoSnapshot{}, err
	}

	genCtx, cancel := context.WithTimeout(ctx, s.cfg.AITimeout())
	words, err := s.ai.GenerateWords(genCtx, color)
	cancel()
	if err != nil {
		return models.DecryptoSnapshot{}, err
	}
	if err := ValidateCodeWords(words); err != nil {
		return models.DecryptoSnapshot{}, err
	}

	var snap models.DecryptoSnapshot
	err = s.registry.WithDecrypto(code, func(room *models.DecryptoRoom) error {
		// Re-check: another command may have raced us while we generated.
		if err := s.wordsWritable(room, color); err != nil {
			return err
		}
		room.Teams[color].CodeWords = words
		snap = room.Snapshot("")
		return nil
	})
	return snap, err
}

func (s *DecryptoService) wordsWritable(room *models.DecryptoRoom, color models.TeamColor) error {
	if room.Phase != models.PhaseDecryptoSetup {
		return models.InvalidPhase("code words can only be set during setup")
	}
	if len(room.Teams[color].CodeWords) > 0 && !s.cfg.AllowRegenerate {
		return models.Conflict("team " + string(color) + " already has code words")
	}
	return nil
}

// StartRound begins play once both teams have their 4 words: round 1, red
// gives clues first.
func (s *DecryptoService) StartRound(code string) (models.DecryptoSnapshot, error) {
	var snap models.DecryptoSnapshot
	err := s.registry.WithDecrypto(code, func(room *models.DecryptoRoom) error {
		if room.Phase != models.PhaseDecryptoSetup {
			return models.InvalidPhase("the game has already started")
		}
		for color, team := range room.Teams {
			if len(team.CodeWords) != teamWords {
				return models.Validation("team " + string(color) + " has not set its code words")
			}
		}
		room.CurrentRound = 1
		room.CurrentTeam = models.TeamRed
		s.enterClueGiving(room)
		snap = room.Snapshot("")
		return nil
	})
	return snap, err
}

// SubmitClues records the active team's 3 clues and opens the guessing phase
// for both teams.
func (s *DecryptoService) SubmitClues(code, player string, clues []string) (models.DecryptoSnapshot, error) {
	var snap models.DecryptoSnapshot
	err := s.registry.WithDecrypto(code, func(room *models.DecryptoRoom) error {
		if room.Phase != models.PhaseClueGiving {
			return models.InvalidPhase("clues can only be submitted during clue_giving")
		}
		color, ok := room.TeamOf(player)
		if !ok {
			return models.NotFound("player " + player + " is not in this room")
		}
		if color != room.CurrentTeam {
			return models.Validation("only the active team may give clues")
		}
		if len(clues) != codeLength {
			return models.Validation("expected exactly 3 clues, one per code digit")
		}
		for _, clue := range clues {
			if strings.TrimSpace(clue) == "" {
				return models.Validation("clues cannot be empty")
			}
		}
		room.CurrentClues = clues
		s.enterGuessing(room)
		snap = room.Snapshot(player)
		return nil
	})
	return snap, err
}

// SubmitGuess records one team's guess vector; when both sides are in, the
// round is scored.
func (s *DecryptoService) SubmitGuess(code string, color models.TeamColor, guess []int) (models.DecryptoSnapshot, error) {
	if err := ValidateCodeGuess(guess); err != nil {
		return models.DecryptoSnapshot{}, err
	}
	var snap models.DecryptoSnapshot
	err := s.registry.WithDecrypto(code, func(room *models.DecryptoRoom) error {
		if room.Phase != models.PhaseTeamGuessing {
			return models.InvalidPhase("guesses can only be submitted during guessing")
		}
		if _, taken := room.TeamGuesses[color]; taken {
			return models.Conflict("team " + string(color) + " already submitted a guess this round")
		}
		room.TeamGuesses[color] = guess
		if len(room.TeamGuesses) == 2 {
			s.scoreRound(room)
		}
		snap = room.Snapshot("")
		return nil
	})
	return snap, err
}

// Snapshot is the idempotent polled read.
func (s *DecryptoService) Snapshot(code, viewer string) (models.DecryptoSnapshot, error) {
	var snap models.DecryptoSnapshot
	err := s.registry.WithDecrypto(code, func(room *models.DecryptoRoom) error {
		snap = room.Snapshot(viewer)
		return nil
	})
	return snap, err
}

// enterClueGiving deals a fresh secret code for the active team and, when
// that team has an AI seat, starts clue generation. Caller holds the lock.
func (s *DecryptoService) enterClueGiving(room *models.DecryptoRoom) {
	room.Phase = models.PhaseClueGiving
	room.CurrentCode = s.gen.SecretCode()
	room.CurrentClues = nil
	room.TeamGuesses = make(map[models.TeamColor][]int)
	if len(room.Teams[room.CurrentTeam].AIPlayers) > 0 {
		go s.aiGiveClues(room.RoomCode, room.CurrentRound, room.CurrentTeam)
	}
}

// enterGuessing opens the guessing phase; teams without a human seat guess
// through their AI. Caller holds the lock.
func (s *DecryptoService) enterGuessing(room *models.DecryptoRoom) {
	room.Phase = models.PhaseTeamGuessing
	for color, team := range room.Teams {
		if !team.HasHumans() && len(team.AIPlayers) > 0 {
			go s.aiGuessCode(room.RoomCode, room.CurrentRound, color)
		}
	}
}

// scoreRound applies the positional comparison: the giving team banks a
// successful code for an exact match by its own side, the opponents an
// interception token for cracking it. Caller holds the lock.
func (s *DecryptoService) scoreRound(room *models.DecryptoRoom) {
	for color, guess := range room.TeamGuesses {
		if !codesEqual(guess, room.CurrentCode) {
			continue
		}
		if color == room.CurrentTeam {
			room.Teams[color].SuccessfulCodes++
		} else {
			room.Teams[color].InterceptionTokens++
		}
	}
	room.History = append(room.History, models.RoundRecord{
		Round:   room.CurrentRound,
		Team:    room.CurrentTeam,
		Code:    room.CurrentCode,
		Clues:   room.CurrentClues,
		Guesses: room.TeamGuesses,
	})
	room.Phase = models.PhaseScoring

	if winner, over := s.winner(room); over {
		room.Winner = winner
		room.Phase = models.PhaseDecryptoOver
		log.Printf("decrypto room %s finished, team %s wins", room.RoomCode, winner)
		if s.archiver != nil {
			snap := room.Snapshot("")
			go s.archiver.SaveDecrypto(snap)
		}
		return
	}

	// Sit in scoring long enough for pollers to see it, then flip sides.
	finished := room.CurrentRound
	time.AfterFunc(s.cfg.ScoringDelay(), func() {
		err := s.registry.WithDecrypto(room.RoomCode, func(r *models.DecryptoRoom) error {
			if r.Phase != models.PhaseScoring || r.CurrentRound != finished {
				return nil
			}
			r.CurrentRound++
			r.CurrentTeam = r.CurrentTeam.Opponent()
			s.enterClueGiving(r)
			return nil
		})
		if err != nil {
			log.Printf("advancing decrypto room %s: %v", room.RoomCode, err)
		}
	})
}

func (s *DecryptoService) winner(room *models.DecryptoRoom) (models.TeamColor, bool) {
	for color, team := range room.Teams {
		if team.InterceptionTokens >= s.cfg.WinInterceptions ||
			team.SuccessfulCodes >= s.cfg.WinSuccessfulCodes {
			return color, true
		}
	}
	return "", false
}

func codesEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// aiGiveClues generates the active team's clues off the lock and applies
// them only if the round has not moved on.
func (s *DecryptoService) aiGiveClues(code string, round int, color models.TeamColor) {
	var words []string
	var secret []int
	err := s.registry.WithDecrypto(code, func(room *models.DecryptoRoom) error {
		if room.Phase != models.PhaseClueGiving || room.CurrentRound != round || room.CurrentTeam != color {
			return nil
		}
		words = append([]string{}, room.Teams[color].CodeWords...)
		secret = append([]int{}, room.CurrentCode...)
		return nil
	})
	if err != nil || len(secret) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.AITimeout())
	clues, aiErr := s.ai.GenerateClues(ctx, words, secret)
	cancel()
	if aiErr != nil {
		log.Printf("ai clues for team %s in %s failed, using fallback: %v", color, code, aiErr)
		clues, _ = s.local.GenerateClues(context.Background(), words, secret)
	}

	err = s.registry.WithDecrypto(code, func(room *models.DecryptoRoom) error {
		if room.Phase != models.PhaseClueGiving || room.CurrentRound != round || room.CurrentTeam != color {
			return nil
		}
		room.CurrentClues = clues
		s.enterGuessing(room)
		return nil
	})
	if err != nil {
		log.Printf("applying ai clues in %s: %v", code, err)
	}
}

// aiGuessCode submits a guess for a fully AI-run team.
func (s *DecryptoService) aiGuessCode(code string, round int, color models.TeamColor) {
	var clues []string
	var words []string
	var history []models.RoundRecord
	err := s.registry.WithDecrypto(code, func(room *models.DecryptoRoom) error {
		if room.Phase != models.PhaseTeamGuessing || room.CurrentRound != round {
			return nil
		}
		if _, taken := room.TeamGuesses[color]; taken {
			return nil
		}
		clues = append([]string{}, room.CurrentClues...)
		history = append([]models.RoundRecord{}, room.History...)
		// The team guessing its own giver's code reasons from its own words;
		// interceptors only have the public clue history.
		if color == room.CurrentTeam {
			words = append([]string{}, room.Teams[color].CodeWords...)
		}
		return nil
	})
	if err != nil || len(clues) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.AITimeout())
	guess, aiErr := s.ai.GuessCode(ctx, clues, words, history)
	cancel()
	if aiErr != nil {
		log.Printf("ai code guess for team %s in %s failed, using fallback: %v", color, code, aiErr)
		guess, _ = s.local.GuessCode(context.Background(), clues, words, history)
	}

	err = s.registry.WithDecrypto(code, func(room *models.DecryptoRoom) error {
		if room.Phase != models.PhaseTeamGuessing || room.CurrentRound != round {
			return nil
		}
		if _, taken := room.TeamGuesses[color]; taken {
			return nil
		}
		room.TeamGuesses[color] = guess
		if len(room.TeamGuesses) == 2 {
			s.scoreRound(room)
		}
		return nil
	})
	if err != nil {
		log.Printf("applying ai code guess in %s: %v", code, err)
	}
}
