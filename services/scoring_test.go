package services

import (
	"testing"

	"decryptai/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearScore(t *testing.T) {
	assert.Equal(t, 100.0, LinearScore(0))
	assert.Equal(t, 50.0, LinearScore(0.5))
	assert.Equal(t, 0.0, LinearScore(1))
	assert.Equal(t, 0.0, LinearScore(1.5))

	// Sign of the distance must not matter.
	assert.Equal(t, LinearScore(0.3), LinearScore(-0.3))

	// Monotonically decreasing over the playable range.
	prev := LinearScore(0)
	for d := 0.1; d <= 1.0; d += 0.1 {
		cur := LinearScore(d)
		assert.LessOrEqual(t, cur, prev)
		prev = cur
	}
}

func TestAverage(t *testing.T) {
	avg, err := Average(map[string]float64{"a": 0.3, "b": 0.7})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, avg, 1e-9)

	avg, err = Average(map[string]float64{"solo": 0.42})
	require.NoError(t, err)
	assert.InDelta(t, 0.42, avg, 1e-9)
}

func TestAverageEmptyIsRejected(t *testing.T) {
	_, err := Average(nil)
	require.Error(t, err)
	assert.Equal(t, models.KindValidation, models.KindOf(err))

	_, err = Average(map[string]float64{})
	require.Error(t, err)
	assert.Equal(t, models.KindValidation, models.KindOf(err))
}
