package raffle

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// SeedMaterial is everything needed to reproduce a draw's randomness
type SeedMaterial struct {
	BaseSeed    string `json:"base_seed"`
	Nonce       string `json:"nonce"`
	DerivedSeed string `json:"derived_seed"`
}

// DeriveSeed returns hex(SHA-256(baseSeed + "-" + nonce)) over the UTF-8 bytes
func DeriveSeed(baseSeed, nonce string) (SeedMaterial, error) {
	if !utf8.ValidString(baseSeed) {
		return SeedMaterial{}, ErrInvalidEncoding.New().WithDetails("base seed")
	}
	if !utf8.ValidString(nonce) {
		return SeedMaterial{}, ErrInvalidEncoding.New().WithDetails("nonce")
	}

	sum := sha256.Sum256([]byte(baseSeed + SeedSeparator + nonce))
	return SeedMaterial{
		BaseSeed:    baseSeed,
		Nonce:       nonce,
		DerivedSeed: hex.EncodeToString(sum[:]),
	}, nil
}

// GenerateNonce reads size bytes from r and returns them hex encoded.
// A nil reader means crypto/rand.
func GenerateNonce(r io.Reader, size int) (string, error) {
	if size <= 0 {
		return "", ErrConfigInvalid.New().WithDetails("nonce size must be positive, got %d", size)
	}
	if r == nil {
		r = rand.Reader
	}

	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", ErrEntropyFailure.New().WithCause(err)
	}
	return hex.EncodeToString(buf), nil
}

// checkSeedNormalization warns when the base seed is not NFC. Visually equal
// seeds typed with a different normalization hash differently.
func checkSeedNormalization(baseSeed string, warnings *warningSet) {
	if !norm.NFC.IsNormalString(baseSeed) {
		warnings.add(WarnBaseSeedNotNormalized, "",
			"Base seed is not NFC-normalized; it must be re-entered byte for byte to verify")
	}
}
