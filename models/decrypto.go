package models

// TeamColor is one of the two competitive sides.
type TeamColor string

const (
	TeamRed  TeamColor = "red"
	TeamBlue TeamColor = "blue"
)

// ParseTeamColor validates a path parameter.
func ParseTeamColor(s string) (TeamColor, error) {
	switch TeamColor(s) {
	case TeamRed:
		return TeamRed, nil
	case TeamBlue:
		return TeamBlue, nil
	}
	return "", Validation("unknown team color: " + s)
}

// Opponent returns the other side.
func (c TeamColor) Opponent() TeamColor {
	if c == TeamRed {
		return TeamBlue
	}
	return TeamRed
}

// DecryptoPhase is the competitive room's state machine position.
type DecryptoPhase string

const (
	PhaseDecryptoSetup DecryptoPhase = "setup"
	PhaseClueGiving    DecryptoPhase = "clue_giving"
	PhaseTeamGuessing  DecryptoPhase = "guessing"
	PhaseScoring       DecryptoPhase = "scoring"
	PhaseDecryptoOver  DecryptoPhase = "finished"
)

// Team holds one side's roster and progress. CodeWords are immutable once
// set: exactly 4 pairwise-distinct strings.
type Team struct {
	Players            []string
	AIPlayers          []string
	CodeWords          []string
	SuccessfulCodes    int
	InterceptionTokens int
}

func (t *Team) HasPlayer(name string) bool {
	for _, p := range t.Players {
		if p == name {
			return true
		}
	}
	return false
}

// HasHumans reports whether any seat on the team is human-controlled.
func (t *Team) HasHumans() bool {
	return len(t.Players) > 0
}

// RoundRecord is one scored round kept for the history panel.
type RoundRecord struct {
	Round  int                 `json:"round" bson:"round"`
	Team   TeamColor           `json:"team" bson:"team"`
	Code   []int               `json:"code" bson:"code"`
	Clues  []string            `json:"clues" bson:"clues"`
	Guesses map[TeamColor][]int `json:"guesses" bson:"guesses"`
}

// DecryptoRoom is the competitive variant's full mutable state.
type DecryptoRoom struct {
	RoomCode     string
	Phase        DecryptoPhase
	Teams        map[TeamColor]*Team
	CurrentRound int
	CurrentTeam  TeamColor
	CurrentCode  []int
	CurrentClues []string
	TeamGuesses  map[TeamColor][]int
	Winner       TeamColor
	History      []RoundRecord
}

func NewDecryptoRoom(code string) *DecryptoRoom {
	return &DecryptoRoom{
		RoomCode: code,
		Phase:    PhaseDecryptoSetup,
		Teams: map[TeamColor]*Team{
			TeamRed:  {Players: []string{}, AIPlayers: []string{}, CodeWords: []string{}},
			TeamBlue: {Players: []string{}, AIPlayers: []string{}, CodeWords: []string{}},
		},
		TeamGuesses: make(map[TeamColor][]int),
	}
}

func (r *DecryptoRoom) Code() string         { return r.RoomCode }
func (r *DecryptoRoom) Variant() GameVariant { return VariantDecrypto }

// TeamOf locates a human player's side.
func (r *DecryptoRoom) TeamOf(name string) (TeamColor, bool) {
	for color, team := range r.Teams {
		if team.HasPlayer(name) {
			return color, true
		}
	}
	return "", false
}

// TeamView mirrors the client's per-team shape; empty slices marshal as []
// rather than null, which the client relies on.
type TeamView struct {
	Players            []string `json:"players" bson:"players"`
	CodeWords          []string `json:"code_words" bson:"code_words"`
	SuccessfulCodes    int      `json:"successful_codes" bson:"successful_codes"`
	InterceptionTokens int      `json:"interception_tokens" bson:"interception_tokens"`
	AIPlayers          []string `json:"ai_players" bson:"ai_players"`
}

// DecryptoSnapshot is the polled game_state object.
type DecryptoSnapshot struct {
	RoomCode     string                  `json:"room_code" bson:"room_code"`
	Teams        map[TeamColor]TeamView  `json:"teams" bson:"teams"`
	CurrentRound int                     `json:"current_round" bson:"current_round"`
	CurrentTeam  TeamColor               `json:"current_team" bson:"current_team"`
	Phase        DecryptoPhase           `json:"phase" bson:"phase"`
	CurrentCode  []int                   `json:"current_code,omitempty" bson:"current_code,omitempty"`
	CurrentClues []string                `json:"current_clues" bson:"current_clues"`
	TeamGuesses  map[TeamColor][]int     `json:"team_guesses" bson:"team_guesses"`
	Winner       TeamColor               `json:"winner,omitempty" bson:"winner,omitempty"`
	RoundHistory []RoundRecord           `json:"round_history,omitempty" bson:"round_history,omitempty"`
}

// Snapshot renders the room for one viewer. The secret code is included only
// for members of the active team while clues are being written; once the
// guessing phase starts nobody sees it until it lands in round_history.
func (r *DecryptoRoom) Snapshot(viewer string) DecryptoSnapshot {
	snap := DecryptoSnapshot{
		RoomCode:     r.RoomCode,
		Teams:        make(map[TeamColor]TeamView, 2),
		CurrentRound: r.CurrentRound,
		CurrentTeam:  r.CurrentTeam,
		Phase:        r.Phase,
		CurrentClues: append([]string{}, r.CurrentClues...),
		TeamGuesses:  make(map[TeamColor][]int, len(r.TeamGuesses)),
		Winner:       r.Winner,
		RoundHistory: r.History,
	}
	for color, team := range r.Teams {
		snap.Teams[color] = TeamView{
			Players:            append([]string{}, team.Players...),
			CodeWords:          append([]string{}, team.CodeWords...),
			SuccessfulCodes:    team.SuccessfulCodes,
			InterceptionTokens: team.InterceptionTokens,
			AIPlayers:          append([]string{}, team.AIPlayers...),
		}
	}
	for color, guess := range r.TeamGuesses {
		snap.TeamGuesses[color] = append([]int{}, guess...)
	}
	if r.Phase == PhaseClueGiving && r.Teams[r.CurrentTeam].HasPlayer(viewer) {
		snap.CurrentCode = append([]int{}, r.CurrentCode...)
	}
	return snap
}
