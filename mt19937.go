package raffle

import (
	"crypto/sha512"
	"math/bits"
)

const (
	mtN         = 624
	mtM         = 397
	mtMatrixA   = 0x9908b0df
	mtUpperMask = 0x80000000
	mtLowerMask = 0x7fffffff
)

// MT19937 is the 32-bit Mersenne Twister. Seeding from a string and drawing
// bounded values follow CPython's random module exactly, so a shuffle made
// with random.seed(s); random.shuffle(x) is reproduced bit for bit.
type MT19937 struct {
	state [mtN]uint32
	index int
}

// NewMT19937 seeds the generator with init_by_array(key)
func NewMT19937(key []uint32) *MT19937 {
	m := &MT19937{}
	m.seedByArray(key)
	return m
}

// NewMT19937FromString seeds the generator like CPython's random.seed(s):
// the integer big-endian(s ‖ SHA-512(s)) split into 32-bit words, least
// significant first.
func NewMT19937FromString(seed string) *MT19937 {
	b := []byte(seed)
	digest := sha512.Sum512(b)
	b = append(b, digest[:]...)

	for len(b) > 0 && b[0] == 0 {
		b = b[1:]
	}

	key := make([]uint32, 0, (len(b)+3)/4)
	for end := len(b); end > 0; end -= 4 {
		start := max(end-4, 0)
		var w uint32
		for _, c := range b[start:end] {
			w = w<<8 | uint32(c)
		}
		key = append(key, w)
	}
	if len(key) == 0 {
		key = append(key, 0)
	}
	return NewMT19937(key)
}

func (m *MT19937) seed(s uint32) {
	m.state[0] = s
	for i := 1; i < mtN; i++ {
		prev := m.state[i-1]
		m.state[i] = 1812433253*(prev^(prev>>30)) + uint32(i)
	}
	m.index = mtN
}

func (m *MT19937) seedByArray(key []uint32) {
	m.seed(19650218)

	i, j := 1, 0
	for k := max(mtN, len(key)); k > 0; k-- {
		prev := m.state[i-1]
		m.state[i] = (m.state[i] ^ ((prev ^ (prev >> 30)) * 1664525)) + key[j] + uint32(j)
		i++
		j++
		if i >= mtN {
			m.state[0] = m.state[mtN-1]
			i = 1
		}
		if j >= len(key) {
			j = 0
		}
	}
	for k := mtN - 1; k > 0; k-- {
		prev := m.state[i-1]
		m.state[i] = (m.state[i] ^ ((prev ^ (prev >> 30)) * 1566083941)) - uint32(i)
		i++
		if i >= mtN {
			m.state[0] = m.state[mtN-1]
			i = 1
		}
	}
	m.state[0] = 0x80000000
}

func (m *MT19937) twist() {
	for k := 0; k < mtN; k++ {
		y := (m.state[k] & mtUpperMask) | (m.state[(k+1)%mtN] & mtLowerMask)
		v := m.state[(k+mtM)%mtN] ^ (y >> 1)
		if y&1 != 0 {
			v ^= mtMatrixA
		}
		m.state[k] = v
	}
	m.index = 0
}

// Uint32 returns the next tempered 32-bit output
func (m *MT19937) Uint32() uint32 {
	if m.index >= mtN {
		m.twist()
	}
	y := m.state[m.index]
	m.index++

	y ^= y >> 11
	y ^= (y << 7) & 0x9d2c5680
	y ^= (y << 15) & 0xefc60000
	y ^= y >> 18
	return y
}

// Bits returns k random bits, 0 < k <= 64, assembled like getrandbits(k):
// 32-bit words fill from the least significant end and the last word keeps
// only its top bits.
func (m *MT19937) Bits(k int) uint64 {
	if k <= 0 {
		return 0
	}
	if k <= 32 {
		return uint64(m.Uint32() >> (32 - k))
	}

	var r uint64
	for shift := 0; k > 0 && shift < 64; shift += 32 {
		w := m.Uint32()
		if k < 32 {
			w >>= 32 - k
		}
		r |= uint64(w) << shift
		k -= 32
	}
	return r
}

// Below returns a value in [0, n) by rejection sampling over bit_length(n) bits
func (m *MT19937) Below(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	k := bits.Len64(n)
	r := m.Bits(k)
	for r >= n {
		r = m.Bits(k)
	}
	return r
}
