package raffle

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	corvusSeed  = "CorvusEliteRaffle_April142025_WeightedEntries"
	corvusNonce = "00112233445566778899aabbccddeeff"
)

func corvusWeights() *ParticipantWeights {
	return NewParticipantWeights().
		Set("alpha", 5).
		Set("bravo", 1).
		Set("charlie", 3).
		Set("delta", 0).
		Set("echo", 2).
		Set("foxtrot", -1).
		Set("golf", 4)
}

func aliceWeights() *ParticipantWeights {
	return NewParticipantWeights().Set("Alice", 2).Set("Bob", 1).Set("Carol", 1)
}

func mustPool(t *testing.T, weights *ParticipantWeights) *EntryPool {
	t.Helper()
	pool, _, err := BuildEntryPool(weights, NewSilentLogger())
	require.NoError(t, err)
	return pool
}

func mustSeed(t *testing.T, base, nonce string) string {
	t.Helper()
	seed, err := DeriveSeed(base, nonce)
	require.NoError(t, err)
	return seed.DerivedSeed
}

func TestShuffle(t *testing.T) {
	t.Run("reproduces_python_shuffle", func(t *testing.T) {
		pool := mustPool(t, corvusWeights())
		gen := NewMT19937FromString(mustSeed(t, corvusSeed, corvusNonce))

		want := []string{
			"alpha", "alpha", "alpha", "alpha", "echo", "golf", "golf", "golf",
			"golf", "bravo", "charlie", "charlie", "echo", "charlie", "alpha",
		}
		assert.Equal(t, want, Shuffle(pool.entries, gen))
	})

	t.Run("is_a_permutation_and_leaves_input_alone", func(t *testing.T) {
		in := []string{"a", "b", "b", "c", "c", "c"}
		orig := slices.Clone(in)

		out := Shuffle(in, NewMT19937FromString("perm"))
		assert.Equal(t, orig, in)
		assert.ElementsMatch(t, orig, out)
	})

	t.Run("short_inputs", func(t *testing.T) {
		gen := NewMT19937FromString("short")
		assert.Empty(t, Shuffle(nil, gen))
		assert.Equal(t, []string{"solo"}, Shuffle([]string{"solo"}, gen))
	})
}

func TestPickUnique(t *testing.T) {
	shuffled := []string{"b", "a", "b", "c", "a", "d"}

	tests := []struct {
		name string
		k    int
		want WinnerList
	}{
		{"zero", 0, WinnerList{}},
		{"negative", -2, WinnerList{}},
		{"one", 1, WinnerList{"b"}},
		{"skips_repeats", 3, WinnerList{"b", "a", "c"}},
		{"all", 4, WinnerList{"b", "a", "c", "d"}},
		{"exhausted_returns_partial", 10, WinnerList{"b", "a", "c", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PickUnique(shuffled, tt.k))
		})
	}
}

func TestSelectWinners(t *testing.T) {
	t.Run("concrete_scenario", func(t *testing.T) {
		pool := mustPool(t, aliceWeights())
		seed := mustSeed(t, "TestSeed", "deadbeef")
		require.Equal(t, "19a1428b6a190fd32b0bef94694eb8f488d99da2a4ed5023ea74f90430e2122d", seed)

		winners, err := SelectWinners(pool, seed, 2, AlgorithmMT19937)
		require.NoError(t, err)
		assert.Equal(t, WinnerList{"Alice", "Carol"}, winners)

		winners, err = SelectWinners(pool, seed, 3, AlgorithmMT19937)
		require.NoError(t, err)
		assert.Equal(t, WinnerList{"Alice", "Carol", "Bob"}, winners)
	})

	t.Run("corvus_scenario", func(t *testing.T) {
		pool := mustPool(t, corvusWeights())
		winners, err := SelectWinners(pool, mustSeed(t, corvusSeed, corvusNonce), 3, AlgorithmMT19937)
		require.NoError(t, err)
		assert.Equal(t, WinnerList{"alpha", "echo", "golf"}, winners)
	})

	t.Run("deterministic_per_algorithm", func(t *testing.T) {
		pool := mustPool(t, corvusWeights())
		seed := mustSeed(t, corvusSeed, corvusNonce)

		for _, alg := range []Algorithm{AlgorithmMT19937, AlgorithmChaCha8} {
			first, err := SelectWinners(pool, seed, 5, alg)
			require.NoError(t, err)
			second, err := SelectWinners(pool, seed, 5, alg)
			require.NoError(t, err)

			assert.Equal(t, first, second, alg)
			assert.Len(t, first, 5, alg)
			assert.ElementsMatch(t, pool.Participants(), first, alg)
		}
	})

	t.Run("winners_are_distinct_pool_members", func(t *testing.T) {
		pool := mustPool(t, corvusWeights())
		for _, nonce := range []string{"01", "02", "03", "04", "05", "06", "07", "08"} {
			winners, err := SelectWinners(pool, mustSeed(t, corvusSeed, nonce), 3, AlgorithmChaCha8)
			require.NoError(t, err)

			seen := map[string]bool{}
			for _, w := range winners {
				assert.False(t, seen[w], "duplicate winner %s", w)
				assert.Positive(t, pool.Weight(w))
				seen[w] = true
			}
		}
	})

	t.Run("zero_winners", func(t *testing.T) {
		pool := mustPool(t, aliceWeights())
		winners, err := SelectWinners(pool, mustSeed(t, "TestSeed", "deadbeef"), 0, AlgorithmMT19937)
		require.NoError(t, err)
		assert.Empty(t, winners)
	})

	t.Run("bad_seed_for_chacha8", func(t *testing.T) {
		pool := mustPool(t, aliceWeights())
		_, err := SelectWinners(pool, "TestSeed-deadbeef", 2, AlgorithmChaCha8)
		assert.ErrorIs(t, err, ErrInvalidSeed)
	})
}
