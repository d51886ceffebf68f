package raffle

import "slices"

// WinnerList is the ordered list of distinct winners; index 0 is rank 1
type WinnerList []string

// Shuffle returns a permuted copy of entries. For i from len-1 down to 1 it
// swaps i with gen.Below(i+1); this procedure is part of the draw protocol.
func Shuffle(entries []string, gen Generator) []string {
	out := slices.Clone(entries)
	for i := len(out) - 1; i > 0; i-- {
		j := int(gen.Below(uint64(i + 1)))
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// PickUnique scans shuffled in order and keeps the first k distinct names.
// Running out of entries returns what was found.
func PickUnique(shuffled []string, k int) WinnerList {
	if k <= 0 {
		return WinnerList{}
	}

	winners := make(WinnerList, 0, min(k, len(shuffled)))
	seen := make(map[string]struct{}, k)
	for _, name := range shuffled {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		winners = append(winners, name)
		if len(winners) == k {
			break
		}
	}
	return winners
}

// SelectWinners seeds alg with derivedSeed, shuffles the pool and picks the
// first k distinct participants. The result depends only on its arguments.
func SelectWinners(pool *EntryPool, derivedSeed string, k int, alg Algorithm) (WinnerList, error) {
	gen, err := NewGenerator(alg, derivedSeed)
	if err != nil {
		return nil, err
	}
	return PickUnique(Shuffle(pool.entries, gen), k), nil
}
