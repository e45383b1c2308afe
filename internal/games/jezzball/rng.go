package jezzball

// rng is the seeded generator behind ball spawning. Its whole state is one
// word so snapshots can carry it and a restored session spawns the same balls.
type rng struct {
	state uint64
}

func newRNG(seed int64) *rng {
	s := uint64(seed) //#nosec G115 -- seed bits only
	if s == 0 {
		s = 1
	}
	return &rng{state: s}
}

// next advances the LCG (Knuth MMIX constants).
func (r *rng) next() uint64 {
	r.state = r.state*6364136223846793005 + 1442695040888963407
	return r.state
}

// Intn returns a value in [0, n); zero when n <= 0.
func (r *rng) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.next() % uint64(n)) //#nosec G115 -- n > 0
}

// Float64 returns a value in [0, 1).
func (r *rng) Float64() float64 {
	return float64(r.next()>>11) / (1 << 53)
}

// Range returns a value in [lo, hi).
func (r *rng) Range(lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// Signed returns a value in [-m, m).
func (r *rng) Signed(m float64) float64 {
	return (r.Float64()*2 - 1) * m
}
