package raffle

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deterministicNonces() *rand.ChaCha8 {
	return rand.NewChaCha8([32]byte{'s', 'i', 'm'})
}

func TestRaffle_Simulate(t *testing.T) {
	ctx := context.Background()

	t.Run("weight_monotonicity", func(t *testing.T) {
		weights := NewParticipantWeights().Set("w1", 1).Set("w2", 2).Set("w4", 4).Set("w8", 8)
		r := newTestRaffle(t, func(c *RaffleConfig) { c.Winners = 1 }, WithNonceSource(deterministicNonces()))

		result, err := r.Simulate(ctx, weights, 4000)
		require.NoError(t, err)

		assert.Equal(t, 4000, result.Trials)
		assert.Equal(t, 1, result.WinnerCount)
		assert.Equal(t, []string{"w1", "w2", "w4", "w8"}, result.Order)

		total := 0
		for _, n := range result.Wins {
			total += n
		}
		assert.Equal(t, 4000, total)

		assert.Less(t, result.Wins["w1"], result.Wins["w2"])
		assert.Less(t, result.Wins["w2"], result.Wins["w4"])
		assert.Less(t, result.Wins["w4"], result.Wins["w8"])
		assert.InDelta(t, 8.0/15.0, result.Frequency("w8"), 0.05)
		assert.InDelta(t, 1.0/15.0, result.Frequency("w1"), 0.03)
	})

	t.Run("every_trial_draws_k_winners", func(t *testing.T) {
		r := newTestRaffle(t, nil, WithNonceSource(deterministicNonces()))

		result, err := r.Simulate(ctx, corvusWeights(), 300)
		require.NoError(t, err)

		total := 0
		for _, n := range result.Wins {
			total += n
		}
		assert.Equal(t, 300*3, total)
		assert.NotContains(t, result.Wins, "delta")
		assert.Len(t, result.Warnings, 2)
	})

	t.Run("invalid_trials", func(t *testing.T) {
		r := newTestRaffle(t, nil)
		for _, n := range []int{0, -1, MaxSimulationTrials + 1} {
			_, err := r.Simulate(ctx, aliceWeights(), n)
			assert.ErrorIs(t, err, ErrInvalidInput)
		}
	})

	t.Run("canceled", func(t *testing.T) {
		r := newTestRaffle(t, nil)
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := r.Simulate(cctx, aliceWeights(), 10)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestSimulationResult_Frequency(t *testing.T) {
	assert.Zero(t, (&SimulationResult{}).Frequency("a"))

	s := &SimulationResult{Trials: 4, Wins: map[string]int{"a": 1}}
	assert.Equal(t, 0.25, s.Frequency("a"))
	assert.Zero(t, s.Frequency("b"))
}
