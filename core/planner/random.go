package planner

// DefaultSeed seeds the local search when no seed is configured.
const DefaultSeed uint32 = 123456789

// Source yields pseudo-random numbers in [0, 1).
type Source interface {
	Float64() float64
}

// Mulberry32 is a small 32-bit generator with a reproducible sequence.
type Mulberry32 struct {
	state uint32
}

// NewMulberry32 returns a generator seeded with seed.
func NewMulberry32(seed uint32) *Mulberry32 {
	return &Mulberry32{state: seed}
}

// Float64 returns the next value of the sequence.
func (m *Mulberry32) Float64() float64 {
	m.state += 0x6d2b79f5
	t := m.state
	t = (t ^ t>>15) * (t | 1)
	t ^= t + (t^t>>7)*(t|61)
	return float64(t^t>>14) / 4294967296
}

// intn returns a value in [0, n) drawn from src.
func intn(src Source, n int) int {
	i := int(src.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}
