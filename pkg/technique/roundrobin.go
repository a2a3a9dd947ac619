package technique

// RoundRobin is a meta-technique that cycles through K inner coordinate
// techniques in strict rotation: step k uses inner[k mod K]. Every
// report is forwarded to whichever inner technique produced the most
// recent proposal.
type RoundRobin struct {
	inner []CoordinateTechnique
	step  int
	last  int
}

// NewRoundRobin builds a RoundRobin over the given inner techniques, all
// of which must be coordinate-type and share the same dimensionality.
func NewRoundRobin(inner ...CoordinateTechnique) *RoundRobin {
	return &RoundRobin{inner: inner}
}

func (r *RoundRobin) Kind() Kind { return KindCoordinate }

func (r *RoundRobin) Initialize(dims int) {
	for _, t := range r.inner {
		t.Initialize(dims)
	}
	r.step = 0
}

func (r *RoundRobin) Next() []Point {
	idx := r.step % len(r.inner)
	r.last = idx
	r.step++
	return r.inner[idx].Next()
}

func (r *RoundRobin) Report(costs []float64) {
	r.inner[r.last].Report(costs)
}

func (r *RoundRobin) Finalize() {
	for _, t := range r.inner {
		t.Finalize()
	}
}
