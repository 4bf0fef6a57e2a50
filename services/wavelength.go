package services

import (
	"context"
	"log"
	"math"
	"strings"

	"decryptai/config"
	"decryptai/models"
	"decryptai/utils"
)

// WavelengthService runs the cooperative clue-and-guess state machine. All
// room mutation happens inside the registry's per-room critical section; AI
// generation happens outside it and re-enters to apply results.
type WavelengthService struct {
	registry *Registry
	gen      *RoundGenerator
	ai       AIResponder
	local    *LocalAI
	score    ScoreFunc
	cfg      config.GameConfig
	archiver *Archiver
}

func NewWavelengthService(registry *Registry, gen *RoundGenerator, ai AIResponder, score ScoreFunc, cfg config.GameConfig, archiver *Archiver) *WavelengthService {
	return &WavelengthService{
		registry: registry,
		gen:      gen,
		ai:       ai,
		local:    NewLocalAI(gen),
		score:    score,
		cfg:      cfg,
		archiver: archiver,
	}
}

// CreateRoom registers a fresh room seeded with the configured AI seats and
// returns its join code.
func (s *WavelengthService) CreateRoom() string {
	room := s.registry.Add(func(code string) models.Room {
		r := models.NewWavelengthRoom(code)
		for i := 0; i < s.cfg.AIPlayers; i++ {
			name := utils.RandomAIName()
			for r.Players[name] != nil {
				name = utils.RandomAIName()
			}
			r.Players[name] = &models.PlayerState{}
		}
		return r
	})
	return room.Code()
}

// Join adds a human player. Names are unique per room and joining is only
// legal before the game starts.
func (s *WavelengthService) Join(code, player string) (models.WavelengthSnapshot, error) {
	player = strings.TrimSpace(player)
	if player == "" {
		return models.WavelengthSnapshot{}, models.Validation("player name cannot be empty")
	}
	if models.IsAI(player) {
		return models.WavelengthSnapshot{}, models.Validation("player names cannot carry the AI tag")
	}
	var snap models.WavelengthSnapshot
	err := s.registry.WithWavelength(code, func(room *models.WavelengthRoom) error {
		if room.Phase != models.PhaseWaiting {
			return models.InvalidPhase("cannot join: game already started")
		}
		if _, taken := room.Players[player]; taken {
			return models.Conflict("player " + player + " already joined this room")
		}
		room.Players[player] = &models.PlayerState{}
		snap = room.Snapshot(player)
		return nil
	})
	return snap, err
}

// Start moves the room from Waiting into Setup, dealing every player a scale
// and hidden point per round. AI seats begin writing their clues right away.
func (s *WavelengthService) Start(code, player, targetState string) (models.WavelengthSnapshot, error) {
	if targetState != string(models.PhaseSetup) {
		return models.WavelengthSnapshot{}, models.Validation("unsupported state transition: " + targetState)
	}
	var snap models.WavelengthSnapshot
	var aiSeats []string
	err := s.registry.WithWavelength(code, func(room *models.WavelengthRoom) error {
		if player != "" {
			if _, ok := room.Players[player]; !ok {
				return models.NotFound("player " + player + " is not in this room")
			}
		}
		if room.Phase != models.PhaseWaiting {
			return models.InvalidPhase("game can only be started from the Waiting state")
		}
		if len(room.Players) < 2 {
			return models.Validation("need at least 2 players")
		}
		names := room.SortedPlayerNames()
		room.Rounds = s.gen.NewWavelengthRounds(names, s.gen.RoundsFor(len(names)))
		room.Phase = models.PhaseSetup
		aiSeats = room.AINames()
		snap = room.Snapshot(player)
		return nil
	})
	if err != nil {
		return models.WavelengthSnapshot{}, err
	}
	for _, seat := range aiSeats {
		go s.aiWriteClues(code, seat)
	}
	return snap, nil
}

// SubmitClues records one clue per round for the player. Clues are write-once;
// when the last one lands the room moves to Guessing.
func (s *WavelengthService) SubmitClues(code, player string, clues []string) (models.WavelengthSnapshot, error) {
	var snap models.WavelengthSnapshot
	err := s.registry.WithWavelength(code, func(room *models.WavelengthRoom) error {
		if room.Phase != models.PhaseSetup {
			return models.InvalidPhase("clues can only be submitted during Setup")
		}
		if _, ok := room.Players[player]; !ok {
			return models.NotFound("player " + player + " is not in this room")
		}
		if len(clues) != len(room.Rounds) {
			return models.Validation("expected one clue per round")
		}
		for i, clue := range clues {
			if strings.TrimSpace(clue) == "" {
				return models.Validation("clues cannot be empty")
			}
			if room.Rounds[i].Players[player].ClueSet {
				return models.Conflict("clues already submitted for " + player)
			}
		}
		for i, clue := range clues {
			entry := room.Rounds[i].Players[player]
			entry.Clue = clue
			entry.ClueSet = true
		}
		if room.AllCluesIn() {
			s.beginGuessing(room)
		}
		snap = room.Snapshot(player)
		return nil
	})
	return snap, err
}

// UpdateGuess overwrites the player's pending guess. Last write wins until
// the guess is locked.
func (s *WavelengthService) UpdateGuess(code, player string, value float64) (models.WavelengthSnapshot, error) {
	return s.writeGuess(code, player, value, false, "")
}

// LockGuess finalizes the player's guess; optionally carrying a last value.
// Locking is one-way, further writes come back as Conflict.
func (s *WavelengthService) LockGuess(code, player string, value *float64) (models.WavelengthSnapshot, error) {
	if value != nil {
		return s.writeGuess(code, player, *value, true, "")
	}
	var snap models.WavelengthSnapshot
	err := s.registry.WithWavelength(code, func(room *models.WavelengthRoom) error {
		guess, err := s.guessSlot(room, player)
		if err != nil {
			return err
		}
		guess.Locked = true
		s.maybeFinishTurn(room)
		snap = room.Snapshot(player)
		return nil
	})
	return snap, err
}

func (s *WavelengthService) writeGuess(code, player string, value float64, lock bool, reason string) (models.WavelengthSnapshot, error) {
	if value < 0 || value > 1 {
		return models.WavelengthSnapshot{}, models.Validation("guess must be between 0 and 1")
	}
	var snap models.WavelengthSnapshot
	err := s.registry.WithWavelength(code, func(room *models.WavelengthRoom) error {
		guess, err := s.guessSlot(room, player)
		if err != nil {
			return err
		}
		guess.Value = value
		if reason != "" {
			guess.Reason = reason
		}
		if lock {
			guess.Locked = true
			s.maybeFinishTurn(room)
		}
		snap = room.Snapshot(player)
		return nil
	})
	return snap, err
}

func (s *WavelengthService) guessSlot(room *models.WavelengthRoom, player string) (*models.Guess, error) {
	if room.Phase != models.PhaseGuessing {
		return nil, models.InvalidPhase("guesses can only be made during Guessing")
	}
	if _, ok := room.Players[player]; !ok {
		return nil, models.NotFound("player " + player + " is not in this room")
	}
	if player == room.Index.ClueGiver {
		return nil, models.Validation("the clue giver cannot guess their own point")
	}
	guess, ok := room.Guesses[player]
	if !ok {
		return nil, models.Validation("no guess slot for " + player + " this turn")
	}
	if guess.Locked {
		return nil, models.Conflict("guess already locked for " + player)
	}
	return guess, nil
}

// Snapshot is the idempotent polled read.
func (s *WavelengthService) Snapshot(code, viewer string) (models.WavelengthSnapshot, error) {
	var snap models.WavelengthSnapshot
	err := s.registry.WithWavelength(code, func(room *models.WavelengthRoom) error {
		snap = room.Snapshot(viewer)
		return nil
	})
	return snap, err
}

// beginGuessing seeds the first turn. Caller holds the room lock.
func (s *WavelengthService) beginGuessing(room *models.WavelengthRoom) {
	names := room.SortedPlayerNames()
	room.Phase = models.PhaseGuessing
	room.Index = models.GameIndex{Round: 0, Player: 0, ClueGiver: names[0]}
	s.resetGuesses(room)
	go s.aiGuessTurn(room.RoomCode)
}

// resetGuesses opens a 0.5 pending guess for every non-clue-giver; the client
// uses membership in this map to know it may guess.
func (s *WavelengthService) resetGuesses(room *models.WavelengthRoom) {
	room.Guesses = make(map[string]*models.Guess, len(room.Players)-1)
	for name := range room.Players {
		if name != room.Index.ClueGiver {
			room.Guesses[name] = &models.Guess{Value: 0.5}
		}
	}
}

// maybeFinishTurn scores and advances once every guesser has locked.
// Caller holds the room lock.
func (s *WavelengthService) maybeFinishTurn(room *models.WavelengthRoom) {
	for _, g := range room.Guesses {
		if !g.Locked {
			return
		}
	}
	s.scoreTurn(room)

	names := room.SortedPlayerNames()
	room.Index.Player++
	if room.Index.Player >= len(names) {
		room.Index.Player = 0
		room.Index.Round++
	}
	if room.Index.Round >= len(room.Rounds) {
		room.Phase = models.PhaseFinished
		room.Guesses = nil
		log.Printf("wavelength room %s finished with score %.1f", room.RoomCode, room.Score)
		if s.archiver != nil {
			snap := room.Snapshot("")
			go s.archiver.SaveWavelength(snap)
		}
		return
	}
	room.Index.ClueGiver = names[room.Index.Player]
	s.resetGuesses(room)
	go s.aiGuessTurn(room.RoomCode)
}

// scoreTurn awards each guesser for their own closeness and the clue giver
// (plus the room) for the closeness of the average guess.
func (s *WavelengthService) scoreTurn(room *models.WavelengthRoom) {
	entry := room.Rounds[room.Index.Round].Players[room.Index.ClueGiver]
	values := make(map[string]float64, len(room.Guesses))
	for name, g := range room.Guesses {
		values[name] = g.Value
		pts := s.score(math.Abs(entry.Point - g.Value))
		state := room.Players[name]
		state.Score += pts
		state.LastScore = pts
	}
	avg, err := Average(values)
	if err != nil {
		// A turn with zero guessers cannot be scored; skip the giver award.
		return
	}
	giverPts := s.score(math.Abs(entry.Point - avg))
	room.Score += giverPts
	giver := room.Players[room.Index.ClueGiver]
	giver.Score += giverPts
	giver.LastScore = giverPts
}

// aiWriteClues produces one clue per round for an AI seat, generation off the
// lock, results applied only if the slot is still open.
func (s *WavelengthService) aiWriteClues(code, seat string) {
	type slot struct {
		round int
		scale [2]string
		point float64
	}
	var slots []slot
	err := s.registry.WithWavelength(code, func(room *models.WavelengthRoom) error {
		if room.Phase != models.PhaseSetup {
			return nil
		}
		for i, round := range room.Rounds {
			if entry, ok := round.Players[seat]; ok && !entry.ClueSet {
				slots = append(slots, slot{round: i, scale: entry.Scale, point: entry.Point})
			}
		}
		return nil
	})
	if err != nil || len(slots) == 0 {
		return
	}

	personality := models.AIPersonality(seat)
	clues := make(map[int]string, len(slots))
	for _, sl := range slots {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.AITimeout())
		clue, err := s.ai.GiveClue(ctx, personality, sl.scale, sl.point)
		cancel()
		if err != nil {
			log.Printf("ai clue for %s in %s failed, using fallback: %v", seat, code, err)
			clue, _ = s.local.GiveClue(context.Background(), personality, sl.scale, sl.point)
		}
		clues[sl.round] = clue
	}

	err = s.registry.WithWavelength(code, func(room *models.WavelengthRoom) error {
		if room.Phase != models.PhaseSetup {
			return nil
		}
		for i, round := range room.Rounds {
			entry, ok := round.Players[seat]
			if !ok || entry.ClueSet {
				continue
			}
			if clue, ok := clues[i]; ok {
				entry.Clue = clue
				entry.ClueSet = true
			}
		}
		if room.AllCluesIn() {
			s.beginGuessing(room)
		}
		return nil
	})
	if err != nil {
		log.Printf("applying ai clues for %s in %s: %v", seat, code, err)
	}
}

// aiGuessTurn has every AI seat that is not the clue giver lock a guess for
// the current turn. Results are dropped if the turn moved on meanwhile.
func (s *WavelengthService) aiGuessTurn(code string) {
	var idx models.GameIndex
	var scale [2]string
	var clue string
	var seats []string
	err := s.registry.WithWavelength(code, func(room *models.WavelengthRoom) error {
		if room.Phase != models.PhaseGuessing {
			return nil
		}
		idx = room.Index
		entry := room.Rounds[idx.Round].Players[idx.ClueGiver]
		scale, clue = entry.Scale, entry.Clue
		for _, seat := range room.AINames() {
			if seat == idx.ClueGiver {
				continue
			}
			if g, ok := room.Guesses[seat]; ok && !g.Locked {
				seats = append(seats, seat)
			}
		}
		return nil
	})
	if err != nil || len(seats) == 0 {
		return
	}

	for _, seat := range seats {
		personality := models.AIPersonality(seat)
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.AITimeout())
		value, reason, gerr := s.ai.GuessPoint(ctx, personality, scale, clue)
		cancel()
		if gerr != nil {
			log.Printf("ai guess for %s in %s failed, using fallback: %v", seat, code, gerr)
			value, reason, _ = s.local.GuessPoint(context.Background(), personality, scale, clue)
		}

		applyErr := s.registry.WithWavelength(code, func(room *models.WavelengthRoom) error {
			if room.Phase != models.PhaseGuessing || room.Index != idx {
				return nil
			}
			g, ok := room.Guesses[seat]
			if !ok || g.Locked {
				return nil
			}
			g.Value = value
			g.Reason = reason
			g.Locked = true
			s.maybeFinishTurn(room)
			return nil
		})
		if applyErr != nil {
			log.Printf("applying ai guess for %s in %s: %v", seat, code, applyErr)
		}
	}
}
