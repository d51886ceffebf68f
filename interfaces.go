package raffle

import "context"

// Logger defines the interface for logging operations.
// Warnings and diagnostics go through it; reports never do.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Debug(msg string, args ...any)
}

// Generator is a seeded pseudo-random source driving the shuffle
type Generator interface {
	// Below returns a uniformly distributed value in [0, n). Below(0) returns 0.
	Below(n uint64) uint64
}

// Locker grants exclusive access to a named raffle for the duration of a draw
type Locker interface {
	// Acquire takes the lock and returns the token needed to release it
	Acquire(ctx context.Context, key string) (string, error)

	// Release frees the lock if it is still held with token
	Release(ctx context.Context, key, token string) error
}
