package transform

// mt19937 is a from-scratch implementation of the standard 32-bit Mersenne
// Twister generator (MT19937). No example repo in the reference corpus
// vendors an MT19937 crate, and spec.md §4.3 names the algorithm
// specifically (not just "a seedable PRNG"), so this is implemented
// directly rather than reached for as a dependency.
const (
	mtN          = 624
	mtM          = 397
	mtMatrixA    = 0x9908b0df
	mtUpperMask  = 0x80000000
	mtLowerMask  = 0x7fffffff
)

type mt19937 struct {
	state [mtN]uint32
	index int
}

func newMT19937(seed uint32) *mt19937 {
	m := &mt19937{}
	m.Seed(seed)
	return m
}

// Seed reinitializes the generator state from a 32-bit seed, using the
// standard MT19937 reference recurrence.
func (m *mt19937) Seed(seed uint32) {
	m.state[0] = seed
	for i := 1; i < mtN; i++ {
		prev := m.state[i-1]
		m.state[i] = uint32(1812433253)*(prev^(prev>>30)) + uint32(i)
	}
	m.index = mtN
}

func (m *mt19937) generate() {
	for i := 0; i < mtN; i++ {
		y := (m.state[i] & mtUpperMask) | (m.state[(i+1)%mtN] & mtLowerMask)
		next := m.state[(i+mtM)%mtN] ^ (y >> 1)
		if y&1 != 0 {
			next ^= mtMatrixA
		}
		m.state[i] = next
	}
	m.index = 0
}

// Uint32 returns the next 32-bit output in the sequence.
func (m *mt19937) Uint32() uint32 {
	if m.index >= mtN {
		m.generate()
	}
	y := m.state[m.index]
	m.index++

	y ^= y >> 11
	y ^= (y << 7) & 0x9d2c5680
	y ^= (y << 15) & 0xefc60000
	y ^= y >> 18
	return y
}

// Float64 returns a uniform sample in [0, 1).
func (m *mt19937) Float64() float64 {
	return float64(m.Uint32()) / 4294967296.0
}

// clone returns a deep copy carrying the exact generator state, for
// noise.Clone().
func (m *mt19937) clone() *mt19937 {
	cp := &mt19937{index: m.index}
	cp.state = m.state
	return cp
}
