package services

import (
	"testing"
	"time"

	"decryptai/config"
	"decryptai/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGameConfig() config.GameConfig {
	return config.GameConfig{
		AIPlayers:           0,
		WinInterceptions:    2,
		WinSuccessfulCodes:  5,
		ScoringDelaySeconds: 1,
		AITimeoutSeconds:    1,
		CreateRoomRate:      10,
	}
}

func newWavelengthFixture(cfg config.GameConfig) (*WavelengthService, *Registry) {
	reg := NewRegistry()
	gen := NewRoundGenerator()
	svc := NewWavelengthService(reg, gen, NewLocalAI(gen), LinearScore, cfg, nil)
	return svc, reg
}

func lockAt(t *testing.T, svc *WavelengthService, code, player string, value float64) models.WavelengthSnapshot {
	t.Helper()
	snap, err := svc.LockGuess(code, player, &value)
	require.NoError(t, err)
	return snap
}

func TestWavelengthJoinRules(t *testing.T) {
	svc, _ := newWavelengthFixture(testGameConfig())
	code := svc.CreateRoom()

	_, err := svc.Join(code, "alice")
	require.NoError(t, err)

	_, err = svc.Join(code, "alice")
	assert.Equal(t, models.KindConflict, models.KindOf(err))

	_, err = svc.Join(code, "  ")
	assert.Equal(t, models.KindValidation, models.KindOf(err))

	_, err = svc.Join(code, models.AIPrefix+"impostor")
	assert.Equal(t, models.KindValidation, models.KindOf(err))

	_, err = svc.Join("NOSUCH", "bob")
	assert.Equal(t, models.KindNotFound, models.KindOf(err))
}

func TestWavelengthStartPreconditions(t *testing.T) {
	svc, _ := newWavelengthFixture(testGameConfig())
	code := svc.CreateRoom()
	svc.Join(code, "alice")

	_, err := svc.Start(code, "alice", "Setup")
	assert.Equal(t, models.KindValidation, models.KindOf(err), "one player is not enough")

	svc.Join(code, "bob")

	_, err = svc.Start(code, "alice", "Finished")
	assert.Equal(t, models.KindValidation, models.KindOf(err), "only the Setup transition is requestable")

	_, err = svc.Start(code, "mallory", "Setup")
	assert.Equal(t, models.KindNotFound, models.KindOf(err))

	snap, err := svc.Start(code, "alice", "Setup")
	require.NoError(t, err)
	assert.Equal(t, models.PhaseSetup, snap.GameState)

	_, err = svc.Start(code, "alice", "Setup")
	assert.Equal(t, models.KindInvalidPhase, models.KindOf(err))

	_, err = svc.Join(code, "carol")
	assert.Equal(t, models.KindInvalidPhase, models.KindOf(err), "no joining after start")
}

func TestWavelengthClueSubmission(t *testing.T) {
	svc, _ := newWavelengthFixture(testGameConfig())
	code := svc.CreateRoom()
	svc.Join(code, "alice")
	svc.Join(code, "bob")

	_, err := svc.SubmitClues(code, "alice", []string{"x", "y", "z"})
	assert.Equal(t, models.KindInvalidPhase, models.KindOf(err), "no clues before Setup")

	snap, err := svc.Start(code, "alice", "Setup")
	require.NoError(t, err)
	require.Len(t, snap.Rounds, 3, "two players play three rounds")

	_, err = svc.SubmitClues(code, "alice", []string{"only one"})
	assert.Equal(t, models.KindValidation, models.KindOf(err))

	_, err = svc.SubmitClues(code, "alice", []string{"x", " ", "z"})
	assert.Equal(t, models.KindValidation, models.KindOf(err))

	_, err = svc.SubmitClues(code, "alice", []string{"a1", "a2", "a3"})
	require.NoError(t, err)

	_, err = svc.SubmitClues(code, "alice", []string{"b1", "b2", "b3"})
	assert.Equal(t, models.KindConflict, models.KindOf(err), "clues are write-once")

	snap, err = svc.SubmitClues(code, "bob", []string{"b1", "b2", "b3"})
	require.NoError(t, err)
	assert.Equal(t, models.PhaseGuessing, snap.GameState, "last clue opens Guessing")
	require.Len(t, snap.GameIdx, 3)
	assert.Equal(t, "alice", snap.GameIdx[2])
}

func TestWavelengthSnapshotRedaction(t *testing.T) {
	svc, _ := newWavelengthFixture(testGameConfig())
	code := svc.CreateRoom()
	svc.Join(code, "alice")
	svc.Join(code, "bob")
	svc.Start(code, "alice", "Setup")
	svc.SubmitClues(code, "alice", []string{"a1", "a2", "a3"})

	// During Setup only the owner sees their point and clue.
	snap, err := svc.Snapshot(code, "bob")
	require.NoError(t, err)
	aliceSlot := snap.Rounds[0].Players["alice"]
	assert.Nil(t, aliceSlot.Point)
	assert.Nil(t, aliceSlot.Clue)

	snap, _ = svc.Snapshot(code, "alice")
	own := snap.Rounds[0].Players["alice"]
	require.NotNil(t, own.Point)
	require.NotNil(t, own.Clue)
	assert.Equal(t, "a1", *own.Clue)

	svc.SubmitClues(code, "bob", []string{"b1", "b2", "b3"})

	// Turn (0, alice) is live: her clue is public, her point is not.
	snap, _ = svc.Snapshot(code, "bob")
	aliceSlot = snap.Rounds[0].Players["alice"]
	require.NotNil(t, aliceSlot.Clue)
	assert.Equal(t, "a1", *aliceSlot.Clue)
	assert.Nil(t, aliceSlot.Point)

	// Bob's round-0 clue stays hidden from alice until his turn.
	snap, _ = svc.Snapshot(code, "alice")
	bobSlot := snap.Rounds[0].Players["bob"]
	assert.Nil(t, bobSlot.Clue)

	// Scoring the turn reveals the point to everyone.
	lockAt(t, svc, code, "bob", 0.5)
	snap, _ = svc.Snapshot(code, "bob")
	aliceSlot = snap.Rounds[0].Players["alice"]
	require.NotNil(t, aliceSlot.Point)
}

func TestWavelengthGuessRules(t *testing.T) {
	svc, _ := newWavelengthFixture(testGameConfig())
	code := svc.CreateRoom()
	svc.Join(code, "alice")
	svc.Join(code, "bob")
	svc.Join(code, "carol")
	svc.Start(code, "alice", "Setup")
	for _, p := range []string{"alice", "bob", "carol"} {
		_, err := svc.SubmitClues(code, p, []string{p + "-1", p + "-2", p + "-3"})
		require.NoError(t, err)
	}

	snap, _ := svc.Snapshot(code, "bob")
	require.Equal(t, models.PhaseGuessing, snap.GameState)
	assert.Equal(t, 0.5, snap.Guesses["bob"], "guesses open at the midpoint")
	assert.Equal(t, 0.5, snap.Guesses["carol"])
	assert.NotContains(t, snap.Guesses, "alice", "the clue giver has no guess slot")

	_, err := svc.UpdateGuess(code, "alice", 0.4)
	assert.Equal(t, models.KindValidation, models.KindOf(err), "clue giver cannot guess")

	_, err = svc.UpdateGuess(code, "bob", 1.3)
	assert.Equal(t, models.KindValidation, models.KindOf(err))

	snap, err = svc.UpdateGuess(code, "bob", 0.3)
	require.NoError(t, err)
	assert.Equal(t, 0.3, snap.Guesses["bob"])

	// Pending guesses are last-write-wins, locking is one-way.
	snap, err = svc.UpdateGuess(code, "bob", 0.35)
	require.NoError(t, err)
	assert.Equal(t, 0.35, snap.Guesses["bob"])

	_, err = svc.LockGuess(code, "bob", nil)
	require.NoError(t, err)

	_, err = svc.UpdateGuess(code, "bob", 0.9)
	assert.Equal(t, models.KindConflict, models.KindOf(err))
	_, err = svc.LockGuess(code, "bob", nil)
	assert.Equal(t, models.KindConflict, models.KindOf(err))

	// The last lock scores the turn and advances to the next clue giver.
	snap = lockAt(t, svc, code, "carol", 0.7)
	require.Len(t, snap.GameIdx, 3)
	assert.Equal(t, 0, snap.GameIdx[0])
	assert.Equal(t, 1, snap.GameIdx[1])
	assert.Equal(t, "bob", snap.GameIdx[2])
	assert.Contains(t, snap.Guesses, "alice")
	assert.Contains(t, snap.Guesses, "carol")
	assert.NotContains(t, snap.Guesses, "bob")

	// Guesses 0.35 and 0.7 keep every distance under 1, so everyone scored.
	for _, name := range []string{"alice", "bob", "carol"} {
		assert.Greater(t, snap.Players[name].Score, 0.0, name)
	}
	assert.Greater(t, snap.Score, 0.0)
}

func TestWavelengthFullGame(t *testing.T) {
	svc, _ := newWavelengthFixture(testGameConfig())
	code := svc.CreateRoom()
	players := []string{"alice", "bob", "carol"}
	for _, p := range players {
		svc.Join(code, p)
	}
	svc.Start(code, "alice", "Setup")
	for _, p := range players {
		_, err := svc.SubmitClues(code, p, []string{p + "-1", p + "-2", p + "-3"})
		require.NoError(t, err)
	}

	// Three rounds of three turns each.
	for turn := 0; turn < 9; turn++ {
		snap, err := svc.Snapshot(code, "")
		require.NoError(t, err)
		require.Equal(t, models.PhaseGuessing, snap.GameState, "turn %d", turn)
		giver, ok := snap.GameIdx[2].(string)
		require.True(t, ok)
		for _, p := range players {
			if p != giver {
				lockAt(t, svc, code, p, 0.5)
			}
		}
	}

	snap, err := svc.Snapshot(code, "")
	require.NoError(t, err)
	assert.Equal(t, models.PhaseFinished, snap.GameState)
	assert.Empty(t, snap.GameIdx)
	assert.Empty(t, snap.Guesses)
	assert.Greater(t, snap.Score, 0.0)

	// All points are public once the game is over.
	for _, round := range snap.Rounds {
		for name, slot := range round.Players {
			assert.NotNil(t, slot.Point, name)
		}
	}

	_, err = svc.UpdateGuess(code, "bob", 0.5)
	assert.Equal(t, models.KindInvalidPhase, models.KindOf(err))
}

func TestWavelengthAISeats(t *testing.T) {
	cfg := testGameConfig()
	cfg.AIPlayers = 2
	svc, reg := newWavelengthFixture(cfg)
	code := svc.CreateRoom()

	snap, err := svc.Snapshot(code, "")
	require.NoError(t, err)
	require.Len(t, snap.Players, 2)
	for name := range snap.Players {
		assert.True(t, models.IsAI(name), name)
	}

	svc.Join(code, "alice")
	svc.Join(code, "bob")
	snap, err = svc.Start(code, "alice", "Setup")
	require.NoError(t, err)
	require.Len(t, snap.Rounds, 2, "four players play two rounds")

	// AI seats write their clues on their own.
	require.Eventually(t, func() bool {
		done := false
		reg.WithWavelength(code, func(room *models.WavelengthRoom) error {
			if room.Phase != models.PhaseSetup {
				done = true
				return nil
			}
			done = true
			for _, round := range room.Rounds {
				for name, entry := range round.Players {
					if models.IsAI(name) && !entry.ClueSet {
						done = false
					}
				}
			}
			return nil
		})
		return done
	}, 3*time.Second, 20*time.Millisecond)

	svc.SubmitClues(code, "alice", []string{"a1", "a2"})
	svc.SubmitClues(code, "bob", []string{"b1", "b2"})

	// Every AI seat that is not giving the clue locks a guess on its own.
	require.Eventually(t, func() bool {
		locked := false
		reg.WithWavelength(code, func(room *models.WavelengthRoom) error {
			if room.Phase != models.PhaseGuessing {
				return nil
			}
			locked = true
			for name, g := range room.Guesses {
				if models.IsAI(name) && !g.Locked {
					locked = false
				}
			}
			return nil
		})
		return locked
	}, 3*time.Second, 20*time.Millisecond)
}
