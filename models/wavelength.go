package models

import "sort"

// WavelengthPhase is the cooperative room's state machine position. Phases
// only ever move forward: Waiting < Setup < Guessing < Finished.
type WavelengthPhase string

const (
	PhaseWaiting  WavelengthPhase = "Waiting"
	PhaseSetup    WavelengthPhase = "Setup"
	PhaseGuessing WavelengthPhase = "Guessing"
	PhaseFinished WavelengthPhase = "Finished"
)

// RoundEntry is one player's slot in a round: their hidden point on a scale,
// and the clue they wrote for it. The point is only shown to its owner until
// the turn has been scored.
type RoundEntry struct {
	Scale   [2]string
	Point   float64
	Clue    string
	ClueSet bool
}

// WavelengthRound holds one RoundEntry per player.
type WavelengthRound struct {
	Players map[string]*RoundEntry
}

// GameIndex identifies whose turn it is: round number, position in the sorted
// player order, and the clue giver's name.
type GameIndex struct {
	Round     int
	Player    int
	ClueGiver string
}

// Guess is one player's pending or locked guess for the current turn.
// Locking is one-way; a locked guess rejects every further write.
type Guess struct {
	Value  float64
	Locked bool
	Reason string
}

// WavelengthRoom is the cooperative variant's full mutable state. All access
// goes through the registry's per-room lock.
type WavelengthRoom struct {
	RoomCode string
	Phase    WavelengthPhase
	Players  map[string]*PlayerState
	Rounds   []*WavelengthRound
	Guesses  map[string]*Guess
	Index    GameIndex
	Score    float64
}

func NewWavelengthRoom(code string) *WavelengthRoom {
	return &WavelengthRoom{
		RoomCode: code,
		Phase:    PhaseWaiting,
		Players:  make(map[string]*PlayerState),
	}
}

func (r *WavelengthRoom) Code() string         { return r.RoomCode }
func (r *WavelengthRoom) Variant() GameVariant { return VariantWavelength }

// SortedPlayerNames is the turn order: lexicographic over all names,
// AI and human alike.
func (r *WavelengthRoom) SortedPlayerNames() []string {
	names := make([]string, 0, len(r.Players))
	for name := range r.Players {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AINames returns the AI-controlled seats in turn order.
func (r *WavelengthRoom) AINames() []string {
	var ais []string
	for _, name := range r.SortedPlayerNames() {
		if IsAI(name) {
			ais = append(ais, name)
		}
	}
	return ais
}

// AllCluesIn reports whether every player has a clue in every round.
func (r *WavelengthRoom) AllCluesIn() bool {
	if len(r.Rounds) == 0 {
		return false
	}
	for _, round := range r.Rounds {
		for _, entry := range round.Players {
			if !entry.ClueSet {
				return false
			}
		}
	}
	return true
}

// TurnDone reports whether the (round, owner) turn has already been scored.
func (r *WavelengthRoom) TurnDone(roundIdx int, owner string) bool {
	if r.Phase == PhaseFinished {
		return true
	}
	if r.Phase != PhaseGuessing {
		return false
	}
	if roundIdx < r.Index.Round {
		return true
	}
	if roundIdx > r.Index.Round {
		return false
	}
	ownerIdx := -1
	for i, name := range r.SortedPlayerNames() {
		if name == owner {
			ownerIdx = i
			break
		}
	}
	return ownerIdx >= 0 && ownerIdx < r.Index.Player
}

// RoundEntryView is the redacted per-player round slot sent to clients.
type RoundEntryView struct {
	Scale [2]string `json:"scale"`
	Point *float64  `json:"point,omitempty"`
	Clue  *string   `json:"clue,omitempty"`
}

type WavelengthRoundView struct {
	Players map[string]RoundEntryView `json:"players"`
}

// WavelengthSnapshot is the polled room view. Shapes match what the web
// client reads: game_state, score, players, rounds, guesses, guess_reason,
// game_idx as a [round, playerIdx, clueGiver] triple.
type WavelengthSnapshot struct {
	RoomCode    string                  `json:"room_code" bson:"room_code"`
	GameState   WavelengthPhase         `json:"game_state" bson:"game_state"`
	Score       float64                 `json:"score" bson:"score"`
	Players     map[string]PlayerState  `json:"players" bson:"players"`
	Rounds      []WavelengthRoundView   `json:"rounds,omitempty" bson:"rounds,omitempty"`
	Guesses     map[string]float64      `json:"guesses,omitempty" bson:"guesses,omitempty"`
	GuessReason map[string]string       `json:"guess_reason,omitempty" bson:"guess_reason,omitempty"`
	GameIdx     []any                   `json:"game_idx,omitempty" bson:"game_idx,omitempty"`
}

// Snapshot renders the room for one viewer. Hidden points are included only
// for the viewer's own entries and for turns that have already been scored;
// clues become visible once their turn is live.
func (r *WavelengthRoom) Snapshot(viewer string) WavelengthSnapshot {
	snap := WavelengthSnapshot{
		RoomCode:  r.RoomCode,
		GameState: r.Phase,
		Score:     r.Score,
		Players:   make(map[string]PlayerState, len(r.Players)),
	}
	for name, ps := range r.Players {
		snap.Players[name] = *ps
	}

	for roundIdx, round := range r.Rounds {
		view := WavelengthRoundView{Players: make(map[string]RoundEntryView, len(round.Players))}
		for owner, entry := range round.Players {
			ev := RoundEntryView{Scale: entry.Scale}
			done := r.TurnDone(roundIdx, owner)
			live := r.Phase == PhaseGuessing &&
				roundIdx == r.Index.Round && owner == r.Index.ClueGiver
			if owner == viewer || done {
				point := entry.Point
				ev.Point = &point
			}
			if entry.ClueSet && (owner == viewer || done || live) {
				clue := entry.Clue
				ev.Clue = &clue
			}
			view.Players[owner] = ev
		}
		snap.Rounds = append(snap.Rounds, view)
	}

	if r.Phase == PhaseGuessing {
		snap.GameIdx = []any{r.Index.Round, r.Index.Player, r.Index.ClueGiver}
	}
	if r.Guesses != nil {
		snap.Guesses = make(map[string]float64, len(r.Guesses))
		snap.GuessReason = make(map[string]string)
		for name, g := range r.Guesses {
			snap.Guesses[name] = g.Value
			if g.Reason != "" {
				snap.GuessReason[name] = g.Reason
			}
		}
	}
	return snap
}
