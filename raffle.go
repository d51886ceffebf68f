package raffle

import (
	"context"
	"crypto/rand"
	"io"
	"time"

	"github.com/google/uuid"
)

// Raffle runs draws and verifications for one configured raffle.
// Each call is independent; nothing is kept between calls.
type Raffle struct {
	config    RaffleConfig
	algorithm Algorithm

	logger      Logger
	nonceSource io.Reader
	now         func() time.Time
	newID       func() string
	locker      Locker
}

// Option configures a Raffle
type Option func(*Raffle)

// WithLogger sets the diagnostic logger
func WithLogger(logger Logger) Option {
	return func(r *Raffle) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithNonceSource replaces crypto/rand as the nonce source
func WithNonceSource(src io.Reader) Option {
	return func(r *Raffle) {
		if src != nil {
			r.nonceSource = src
		}
	}
}

// WithClock sets the clock used for draw timestamps
func WithClock(now func() time.Time) Option {
	return func(r *Raffle) {
		if now != nil {
			r.now = now
		}
	}
}

// WithIDGenerator sets the draw ID generator
func WithIDGenerator(newID func() string) Option {
	return func(r *Raffle) {
		if newID != nil {
			r.newID = newID
		}
	}
}

// WithLocker makes every draw hold an exclusive lock on the raffle name
func WithLocker(locker Locker) Option {
	return func(r *Raffle) { r.locker = locker }
}

// New creates a Raffle. A nil config uses the defaults.
func New(config *RaffleConfig, opts ...Option) (*Raffle, error) {
	if config == nil {
		config = DefaultRaffleConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	alg, err := ParseAlgorithm(config.Algorithm)
	if err != nil {
		return nil, err
	}

	r := &Raffle{
		config:      *config,
		algorithm:   alg,
		logger:      &DefaultLogger{},
		nonceSource: rand.Reader,
		now:         time.Now,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Config returns a copy of the raffle configuration
func (r *Raffle) Config() RaffleConfig { return r.config }

// Algorithm returns the generator protocol in use
func (r *Raffle) Algorithm() Algorithm { return r.algorithm }

// Draw builds the pool, generates a fresh nonce, and selects the winners.
// Calling it twice gives two different draws.
func (r *Raffle) Draw(ctx context.Context, weights *ParticipantWeights) (*DrawReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if r.locker != nil {
		token, err := r.locker.Acquire(ctx, r.config.Name)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := r.locker.Release(context.WithoutCancel(ctx), r.config.Name, token); err != nil {
				r.logger.Error("Failed to release draw lock for %q: %v", r.config.Name, err)
			}
		}()
	}

	pool, poolWarnings, err := BuildEntryPool(weights, r.logger)
	if err != nil {
		return nil, err
	}

	warnings := &warningSet{logger: r.logger, warnings: poolWarnings}
	winners := clampWinners(r.config.Winners, pool.UniqueCount(), warnings)
	checkSeedNormalization(r.config.BaseSeed, warnings)

	nonce, err := GenerateNonce(r.nonceSource, r.config.NonceBytes)
	if err != nil {
		return nil, err
	}
	seed, err := DeriveSeed(r.config.BaseSeed, nonce)
	if err != nil {
		return nil, err
	}

	list, err := SelectWinners(pool, seed.DerivedSeed, winners, r.algorithm)
	if err != nil {
		return nil, err
	}

	report := &DrawReport{
		DrawID:             r.newID(),
		Timestamp:          r.now().UTC(),
		Algorithm:          r.algorithm,
		RequestedWinners:   r.config.Winners,
		WinnerCount:        len(list),
		TotalEntries:       pool.Len(),
		UniqueParticipants: pool.UniqueCount(),
		PoolFingerprint:    pool.Fingerprint(),
		Seed:               seed,
		Winners:            list,
		Warnings:           warnings.list(),
	}

	r.logger.Debug("Draw %s: nonce=%s derived=%s", report.DrawID, seed.Nonce, seed.DerivedSeed)
	r.logger.Info("Draw %s completed: %d winner(s) from %d entries", report.DrawID, report.WinnerCount, report.TotalEntries)
	return report, nil
}

// DrawFile loads the participants from path (the configured file when empty)
// and draws. With guard_source set, a change to the file before the report is
// ready fails the draw.
func (r *Raffle) DrawFile(ctx context.Context, path string) (*DrawReport, error) {
	if path == "" {
		path = r.config.ParticipantsFile
	}

	var guard *SourceGuard
	if r.config.GuardSource {
		g, err := WatchSource(path, r.logger)
		if err != nil {
			return nil, err
		}
		defer g.Close()
		guard = g
	}

	weights, err := LoadParticipants(path)
	if err != nil {
		return nil, err
	}

	report, err := r.Draw(ctx, weights)
	if err != nil {
		return nil, err
	}

	if guard != nil {
		if err := guard.Check(); err != nil {
			return nil, err
		}
	}
	return report, nil
}

// Verify recomputes the winners for a recorded base seed, nonce and winner
// count against the same participants
func (r *Raffle) Verify(ctx context.Context, weights *ParticipantWeights, req VerifyRequest) (*VerifyReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.Winners <= 0 {
		return nil, ErrInvalidWinnerCount.New().WithDetails("got %d", req.Winners)
	}

	pool, poolWarnings, err := BuildEntryPool(weights, r.logger)
	if err != nil {
		return nil, err
	}

	warnings := &warningSet{logger: r.logger, warnings: poolWarnings}
	winners := clampWinners(req.Winners, pool.UniqueCount(), warnings)
	checkSeedNormalization(req.BaseSeed, warnings)

	seed, err := DeriveSeed(req.BaseSeed, req.Nonce)
	if err != nil {
		return nil, err
	}

	list, err := SelectWinners(pool, seed.DerivedSeed, winners, r.algorithm)
	if err != nil {
		return nil, err
	}

	report := &VerifyReport{
		Algorithm:          r.algorithm,
		RequestedWinners:   req.Winners,
		WinnerCount:        len(list),
		TotalEntries:       pool.Len(),
		UniqueParticipants: pool.UniqueCount(),
		PoolFingerprint:    pool.Fingerprint(),
		Seed:               seed,
		Winners:            list,
		Expected:           req.Expected,
		Warnings:           warnings.list(),
	}

	if report.Compared() {
		r.logger.Info("Verification for nonce %s: match=%t", seed.Nonce, report.Matches())
	}
	return report, nil
}

// clampWinners lowers requested to the number of unique participants
func clampWinners(requested, unique int, warnings *warningSet) int {
	if requested <= unique {
		return requested
	}
	warnings.add(WarnWinnerCountClamped, "",
		"Requesting %d winners, but only %d unique participants exist. Adjusting to draw %d winner(s).",
		requested, unique, unique)
	return unique
}
