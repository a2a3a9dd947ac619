package technique

import (
	"math"
	"math/rand"
)

type torczonPhase int

const (
	torczonInitial torczonPhase = iota
	torczonReflected
	torczonExpanded
)

const torczonInitSide = 0.1

// Torczon is a multidirectional simplex search over D+1 vertices: it
// reflects every non-center vertex through the best (center) vertex,
// expands further on improvement, or contracts and restarts on
// stagnation.
type Torczon struct {
	rng *rand.Rand

	dims int

	vertices  []Point
	costs     []float64
	centerIdx int

	phase torczonPhase

	nonCenter        []int
	reflectedVerts    []Point
	reflectedCosts    []float64
	expandedVerts     []Point
}

// NewTorczon builds a Torczon technique seeded from seed.
func NewTorczon(seed int64) *Torczon {
	return &Torczon{rng: rand.New(rand.NewSource(seed))}
}

func (t *Torczon) Kind() Kind { return KindCoordinate }

func (t *Torczon) Initialize(dims int) {
	t.dims = dims
	t.buildInitialSimplex()
	t.costs = make([]float64, dims+1)
	t.centerIdx = 0
	t.phase = torczonInitial
}

func (t *Torczon) buildInitialSimplex() {
	base := make(Point, t.dims)
	for i := range base {
		base[i] = clampCoordinate(1 - t.rng.Float64())
	}

	t.vertices = make([]Point, t.dims+1)
	t.vertices[0] = base
	for i := 0; i < t.dims; i++ {
		v := append(Point(nil), base...)
		sign := 1.0
		if base[i]+torczonInitSide > 1 {
			sign = -1.0
		}
		v[i] = clampCoordinate(base[i] + sign*torczonInitSide)
		t.vertices[i+1] = v
	}
}

func (t *Torczon) computeNonCenter() []int {
	idx := make([]int, 0, t.dims)
	for i := range t.vertices {
		if i != t.centerIdx {
			idx = append(idx, i)
		}
	}
	return idx
}

func combine(center, vertex Point, factor float64) Point {
	out := make(Point, len(center))
	for i := range out {
		out[i] = clampCoordinate(center[i] + factor*(vertex[i]-center[i]))
	}
	return out
}

func (t *Torczon) Next() []Point {
	switch t.phase {
	case torczonInitial:
		out := make([]Point, len(t.vertices))
		copy(out, t.vertices)
		return out

	case torczonReflected:
		t.nonCenter = t.computeNonCenter()
		center := t.vertices[t.centerIdx]
		out := make([]Point, len(t.nonCenter))
		for i, vi := range t.nonCenter {
			out[i] = combine(center, t.vertices[vi], -1)
		}
		t.reflectedVerts = out
		return out

	case torczonExpanded:
		center := t.vertices[t.centerIdx]
		out := make([]Point, len(t.nonCenter))
		for i := range t.nonCenter {
			out[i] = combine(center, t.reflectedVerts[i], 2)
		}
		t.expandedVerts = out
		return out
	}
	return nil
}

func (t *Torczon) Report(costs []float64) {
	switch t.phase {
	case torczonInitial:
		copy(t.costs, costs)
		t.centerIdx = argmin(t.costs)
		t.phase = torczonReflected

	case torczonReflected:
		t.reflectedCosts = append([]float64(nil), costs...)
		bestReflected := minFloat(t.reflectedCosts)
		if bestReflected < t.costs[t.centerIdx] {
			t.phase = torczonExpanded
			return
		}

		// Contraction: pull every non-center vertex halfway to the
		// center and restart the INITIAL phase, resetting best cost.
		center := t.vertices[t.centerIdx]
		for _, vi := range t.nonCenter {
			t.vertices[vi] = combine(center, t.vertices[vi], 0.5)
		}
		t.phase = torczonInitial

	case torczonExpanded:
		expandedCosts := costs
		bestExpanded := minFloat(expandedCosts)
		bestReflected := minFloat(t.reflectedCosts)

		if bestExpanded < bestReflected {
			for i, vi := range t.nonCenter {
				t.vertices[vi] = t.expandedVerts[i]
				t.costs[vi] = expandedCosts[i]
			}
		} else {
			for i, vi := range t.nonCenter {
				t.vertices[vi] = t.reflectedVerts[i]
				t.costs[vi] = t.reflectedCosts[i]
			}
		}

		t.centerIdx = argmin(t.costs)
		t.phase = torczonReflected
	}
}

func (t *Torczon) Finalize() {}

func argmin(vs []float64) int {
	best := 0
	for i := 1; i < len(vs); i++ {
		if vs[i] < vs[best] {
			best = i
		}
	}
	return best
}

func minFloat(vs []float64) float64 {
	m := math.Inf(1)
	for _, v := range vs {
		if v < m {
			m = v
		}
	}
	return m
}
