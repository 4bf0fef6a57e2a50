package services

import "decryptai/models"

// ScoreFunc turns the distance between the average guess and the hidden
// point into points for one guesser. It must be monotonically decreasing and
// is a game-design knob, so the engine takes it injected.
type ScoreFunc func(distance float64) float64

// LinearScore awards 100 for a perfect guess, falling linearly to 0 at the
// far end of the scale.
func LinearScore(distance float64) float64 {
	if distance < 0 {
		distance = -distance
	}
	score := 100 * (1 - distance)
	if score < 0 {
		return 0
	}
	return score
}

// Average is the guess aggregator: the arithmetic mean of every submitted
// guess, locked or not. An empty set has no mean and is rejected rather than
// reported as zero.
func Average(guesses map[string]float64) (float64, error) {
	if len(guesses) == 0 {
		return 0, models.Validation("cannot average an empty guess set")
	}
	var sum float64
	for _, g := range guesses {
		sum += g
	}
	return sum / float64(len(guesses)), nil
}
