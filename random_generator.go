package raffle

import (
	"encoding/hex"
	"math/bits"
	"math/rand/v2"
	"strings"
)

// Algorithm names a pinned pseudo-random protocol. The name is part of every
// report: verifying with a different algorithm yields a different shuffle.
type Algorithm string

const (
	// AlgorithmMT19937 is MT19937 seeded from the derived seed string the way
	// CPython's random.seed(str) does it
	AlgorithmMT19937 Algorithm = "mt19937"

	// AlgorithmChaCha8 is math/rand/v2 ChaCha8 keyed with the 32 digest bytes
	AlgorithmChaCha8 Algorithm = "chacha8"

	// DefaultAlgorithm is used when none is configured
	DefaultAlgorithm = AlgorithmMT19937
)

// ParseAlgorithm validates an algorithm name
func ParseAlgorithm(name string) (Algorithm, error) {
	switch alg := Algorithm(strings.ToLower(strings.TrimSpace(name))); alg {
	case "":
		return DefaultAlgorithm, nil
	case AlgorithmMT19937, AlgorithmChaCha8:
		return alg, nil
	default:
		return "", ErrUnknownAlgorithm.New().WithDetails("%q (want %s or %s)", name, AlgorithmMT19937, AlgorithmChaCha8)
	}
}

// NewGenerator returns the generator for alg, fully determined by derivedSeed
func NewGenerator(alg Algorithm, derivedSeed string) (Generator, error) {
	switch alg {
	case AlgorithmMT19937:
		return NewMT19937FromString(derivedSeed), nil
	case AlgorithmChaCha8:
		return newChaCha8Generator(derivedSeed)
	default:
		return nil, ErrUnknownAlgorithm.New().WithDetails("%q", alg)
	}
}

type chaCha8Generator struct {
	src *rand.ChaCha8
}

func newChaCha8Generator(derivedSeed string) (*chaCha8Generator, error) {
	raw, err := hex.DecodeString(derivedSeed)
	if err != nil || len(raw) != 32 {
		return nil, ErrInvalidSeed.New().WithDetails("%q", derivedSeed)
	}

	var key [32]byte
	copy(key[:], raw)
	return &chaCha8Generator{src: rand.NewChaCha8(key)}, nil
}

// Below rejection-samples the top bit_length(n) bits of each 64-bit output
func (g *chaCha8Generator) Below(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	shift := 64 - bits.Len64(n)
	for {
		if r := g.src.Uint64() >> shift; r < n {
			return r
		}
	}
}
