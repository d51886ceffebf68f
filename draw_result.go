package raffle

import (
	"slices"
	"time"
)

// DrawReport is the audit bundle of a draw. BaseSeed, Nonce, WinnerCount and
// Algorithm are all a verifier needs to recompute Winners.
type DrawReport struct {
	DrawID             string       `json:"draw_id"`
	Timestamp          time.Time    `json:"timestamp"`
	Algorithm          Algorithm    `json:"algorithm"`
	RequestedWinners   int          `json:"requested_winners"`
	WinnerCount        int          `json:"winner_count"`
	TotalEntries       int          `json:"total_entries"`
	UniqueParticipants int          `json:"unique_participants"`
	PoolFingerprint    string       `json:"pool_fingerprint"`
	Seed               SeedMaterial `json:"seed"`
	Winners            WinnerList   `json:"winners"`
	Warnings           []Warning    `json:"warnings,omitempty"`
}

// VerifyRequest returns the inputs that reproduce this draw, with the
// announced winners attached for comparison
func (r *DrawReport) VerifyRequest() VerifyRequest {
	return VerifyRequest{
		BaseSeed: r.Seed.BaseSeed,
		Nonce:    r.Seed.Nonce,
		Winners:  r.WinnerCount,
		Expected: slices.Clone(r.Winners),
	}
}

// VerifyRequest holds the operator-supplied verification inputs
type VerifyRequest struct {
	BaseSeed string
	Nonce    string
	Winners  int

	// Expected is the announced winner list, optional
	Expected []string
}

// VerifyReport is the recomputed result of a verification
type VerifyReport struct {
	Algorithm          Algorithm    `json:"algorithm"`
	RequestedWinners   int          `json:"requested_winners"`
	WinnerCount        int          `json:"winner_count"`
	TotalEntries       int          `json:"total_entries"`
	UniqueParticipants int          `json:"unique_participants"`
	PoolFingerprint    string       `json:"pool_fingerprint"`
	Seed               SeedMaterial `json:"seed"`
	Winners            WinnerList   `json:"winners"`
	Expected           []string     `json:"expected,omitempty"`
	Warnings           []Warning    `json:"warnings,omitempty"`
}

// Compared reports whether an announced list was supplied
func (r *VerifyReport) Compared() bool { return r.Expected != nil }

// Matches reports whether the recomputed winners equal the announced ones,
// in order. The operator's own comparison remains authoritative.
func (r *VerifyReport) Matches() bool {
	return r.Compared() && slices.Equal([]string(r.Winners), r.Expected)
}
