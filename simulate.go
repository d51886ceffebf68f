package raffle

import "context"

// SimulationResult counts how often each participant won over repeated draws
type SimulationResult struct {
	Trials      int              `json:"trials"`
	WinnerCount int              `json:"winner_count"`
	Algorithm   Algorithm        `json:"algorithm"`
	Weights     map[string]int64 `json:"weights"`
	Wins        map[string]int   `json:"wins"`
	Order       []string         `json:"participants"`
	Warnings    []Warning        `json:"warnings,omitempty"`
}

// Frequency returns the share of trials name won
func (s *SimulationResult) Frequency(name string) float64 {
	if s.Trials == 0 {
		return 0
	}
	return float64(s.Wins[name]) / float64(s.Trials)
}

// Simulate repeats the draw trials times with fresh nonces and counts wins.
// Nothing is reported per trial; it exists to check the weighting empirically.
func (r *Raffle) Simulate(ctx context.Context, weights *ParticipantWeights, trials int) (*SimulationResult, error) {
	if err := ValidateTrials(trials); err != nil {
		return nil, err
	}

	pool, poolWarnings, err := BuildEntryPool(weights, r.logger)
	if err != nil {
		return nil, err
	}
	warnings := &warningSet{logger: r.logger, warnings: poolWarnings}
	k := clampWinners(r.config.Winners, pool.UniqueCount(), warnings)

	result := &SimulationResult{
		Trials:      trials,
		WinnerCount: k,
		Algorithm:   r.algorithm,
		Weights:     make(map[string]int64, pool.UniqueCount()),
		Wins:        make(map[string]int, pool.UniqueCount()),
		Order:       pool.Participants(),
	}
	for _, name := range result.Order {
		result.Weights[name] = pool.Weight(name)
		result.Wins[name] = 0
	}

	for i := range trials {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		nonce, err := GenerateNonce(r.nonceSource, r.config.NonceBytes)
		if err != nil {
			return nil, err
		}
		seed, err := DeriveSeed(r.config.BaseSeed, nonce)
		if err != nil {
			return nil, err
		}
		list, err := SelectWinners(pool, seed.DerivedSeed, k, r.algorithm)
		if err != nil {
			return nil, err
		}
		for _, name := range list {
			result.Wins[name]++
		}

		if (i+1)%100_000 == 0 {
			r.logger.Debug("Simulated %d/%d draws", i+1, trials)
		}
	}

	result.Warnings = warnings.list()
	r.logger.Info("Simulated %d draws of %d winner(s) over %d entries", trials, k, pool.Len())
	return result, nil
}
