package raffle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Expected values below were produced by CPython's random module.
func TestMT19937_MatchesCPython(t *testing.T) {
	tests := []struct {
		name string
		seed string
		want []uint32
	}{
		{"short_seed", "abc", []uint32{3315820543, 4246262336, 2397318194, 1976556168, 3047419019}},
		{"empty_seed", "", []uint32{4124137760, 1951988028, 2557274880}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mt := NewMT19937FromString(tt.seed)
			got := make([]uint32, len(tt.want))
			for i := range got {
				got[i] = mt.Uint32()
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMT19937_Bits(t *testing.T) {
	t.Run("wide_values_match_getrandbits", func(t *testing.T) {
		mt := NewMT19937FromString("abc")
		assert.Equal(t, uint64(1089942546431), mt.Bits(40))
		assert.Equal(t, uint64(504908491826), mt.Bits(40))
	})

	t.Run("narrow_values_use_top_bits", func(t *testing.T) {
		a := NewMT19937FromString("abc")
		b := NewMT19937FromString("abc")
		assert.Equal(t, uint64(b.Uint32()>>27), a.Bits(5))
	})

	t.Run("zero_bits", func(t *testing.T) {
		mt := NewMT19937FromString("abc")
		assert.Equal(t, uint64(0), mt.Bits(0))
		// nothing consumed
		assert.Equal(t, uint32(3315820543), mt.Uint32())
	})
}

func TestMT19937_Below(t *testing.T) {
	t.Run("matches_randbelow", func(t *testing.T) {
		seed := "19a1428b6a190fd32b0bef94694eb8f488d99da2a4ed5023ea74f90430e2122d"
		mt := NewMT19937FromString(seed)

		got := []uint64{mt.Below(10), mt.Below(100), mt.Below(1000), mt.Below(7)}
		assert.Equal(t, []uint64{4, 36, 418, 4}, got)
	})

	t.Run("in_range", func(t *testing.T) {
		mt := NewMT19937FromString("range")
		for _, n := range []uint64{1, 2, 3, 17, 1 << 20, 1<<32 + 5} {
			for range 200 {
				require.Less(t, mt.Below(n), n)
			}
		}
	})

	t.Run("zero_bound", func(t *testing.T) {
		mt := NewMT19937FromString("zero")
		assert.Equal(t, uint64(0), mt.Below(0))
	})
}

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      Algorithm
		expectErr bool
	}{
		{"empty_is_default", "", DefaultAlgorithm, false},
		{"mt19937", "mt19937", AlgorithmMT19937, false},
		{"chacha8_mixed_case", " ChaCha8 ", AlgorithmChaCha8, false},
		{"unknown", "xorshift", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAlgorithm(tt.input)
			if tt.expectErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrUnknownAlgorithm)
				assert.True(t, IsConfigurationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewGenerator(t *testing.T) {
	seed := "881afdcfa8340191f6a9c20c6adeee782ec6116ea5e96f4a8b613544784143cb"

	t.Run("chacha8_is_deterministic", func(t *testing.T) {
		a, err := NewGenerator(AlgorithmChaCha8, seed)
		require.NoError(t, err)
		b, err := NewGenerator(AlgorithmChaCha8, seed)
		require.NoError(t, err)

		for n := uint64(1); n < 200; n++ {
			va, vb := a.Below(n), b.Below(n)
			require.Equal(t, va, vb)
			require.Less(t, va, n)
		}
	})

	t.Run("chacha8_rejects_non_digest_seed", func(t *testing.T) {
		for _, bad := range []string{"", "zz", "abcd", seed + "00"} {
			_, err := NewGenerator(AlgorithmChaCha8, bad)
			assert.ErrorIs(t, err, ErrInvalidSeed, bad)
		}
	})

	t.Run("mt19937_accepts_any_string", func(t *testing.T) {
		gen, err := NewGenerator(AlgorithmMT19937, "not hex at all")
		require.NoError(t, err)
		assert.Less(t, gen.Below(10), uint64(10))
	})

	t.Run("unknown_algorithm", func(t *testing.T) {
		_, err := NewGenerator(Algorithm("lcg"), seed)
		assert.ErrorIs(t, err, ErrUnknownAlgorithm)
	})
}
