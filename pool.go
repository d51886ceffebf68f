package raffle

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// EntryPool is the weighted expansion of the participants: every valid
// participant appears weight times, in source order.
type EntryPool struct {
	entries      []string
	participants []string
	weights      []int64
}

// BuildEntryPool expands weights into an entry pool. Entries with an empty name
// or a weight that is not a positive integer are skipped with a warning.
func BuildEntryPool(weights *ParticipantWeights, logger Logger) (*EntryPool, []Warning, error) {
	if logger == nil {
		logger = NewSilentLogger()
	}
	if weights.Len() == 0 {
		return nil, nil, ErrSourceEmpty.New()
	}

	warnings := &warningSet{logger: logger}
	pool := &EntryPool{}
	var total int64

	for _, e := range weights.entries {
		if e.Occurrences > 1 {
			warnings.add(WarnDuplicateParticipant, e.Name,
				"Participant %q is listed %d times; using the last weight %s", e.Name, e.Occurrences, e.Raw)
		}
		if e.Name == "" {
			warnings.add(WarnEmptyParticipant, e.Name,
				"Empty participant name with weight %s. Skipping.", e.Raw)
			continue
		}
		if !e.Integer || e.Weight <= 0 {
			warnings.add(WarnInvalidWeight, e.Name,
				"Invalid weight '%s' for participant %q. Skipping.", e.Raw, e.Name)
			continue
		}

		// compared before adding so a huge weight cannot wrap total
		if e.Weight > MaxPoolEntries-total {
			return nil, warnings.list(), ErrPoolTooLarge.New().
				WithDetails("more than %d weighted entries", MaxPoolEntries)
		}
		total += e.Weight

		pool.participants = append(pool.participants, e.Name)
		pool.weights = append(pool.weights, e.Weight)
		for range e.Weight {
			pool.entries = append(pool.entries, e.Name)
		}
	}

	if len(pool.entries) == 0 {
		return nil, warnings.list(), ErrEmptyPool.New()
	}

	logger.Debug("Built entry pool: %d entries from %d participants", len(pool.entries), len(pool.participants))
	return pool, warnings.list(), nil
}

// Len returns the total number of weighted entries
func (p *EntryPool) Len() int { return len(p.entries) }

// UniqueCount returns the number of distinct participants in the pool
func (p *EntryPool) UniqueCount() int { return len(p.participants) }

// Entries returns a copy of the expanded pool
func (p *EntryPool) Entries() []string {
	out := make([]string, len(p.entries))
	copy(out, p.entries)
	return out
}

// Participants returns the distinct participants in pool order
func (p *EntryPool) Participants() []string {
	out := make([]string, len(p.participants))
	copy(out, p.participants)
	return out
}

// Weight returns the weight of name, or 0 when it is not in the pool
func (p *EntryPool) Weight(name string) int64 {
	for i, n := range p.participants {
		if n == name {
			return p.weights[i]
		}
	}
	return 0
}

// Fingerprint is the hex SHA-256 of the pool listing ("name\tweight\n" per
// participant, in order). Draw and verify print it so a changed source shows up.
func (p *EntryPool) Fingerprint() string {
	h := sha256.New()
	for i, name := range p.participants {
		h.Write([]byte(name))
		h.Write([]byte{'\t'})
		h.Write([]byte(strconv.FormatInt(p.weights[i], 10)))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}
