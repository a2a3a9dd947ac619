package technique

import "math/rand"

// Random proposes i.i.d. uniform draws from (0,1]^D. It is stateless
// apart from its PRNG and ignores reported costs entirely.
type Random struct {
	rng  *rand.Rand
	dims int
}

// NewRandom builds a Random technique seeded from seed. Use a fixed seed
// for reproducible sequences across runs.
func NewRandom(seed int64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

func (r *Random) Kind() Kind { return KindCoordinate }

func (r *Random) Initialize(dims int) { r.dims = dims }

func (r *Random) Next() []Point {
	p := make(Point, r.dims)
	for i := range p {
		// 1 - U[0,1) keeps the draw in (0,1], matching spec.md's
		// construction for avoiding an exact-zero coordinate.
		p[i] = clampCoordinate(1 - r.rng.Float64())
	}
	return []Point{p}
}

func (r *Random) Report(costs []float64) {}

func (r *Random) Finalize() {}
