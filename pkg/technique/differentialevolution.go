package technique

import (
	"math"
	"math/rand"
)

const (
	dePopSize = 30
	deF       = 0.7
	deCR      = 0.2
)

type dePhase int

const (
	deInitPhase dePhase = iota
	deEvolvePhase
)

// DifferentialEvolution maintains a population of 30 candidate points,
// mutating a donor from three distinct population members and
// crossing it with the target vector, replacing the target only on a
// strict-or-equal cost improvement.
type DifferentialEvolution struct {
	rng *rand.Rand

	dims int
	pop  []Point
	cost []float64

	phase   dePhase
	initIdx int
	i       int

	lastTrial Point
}

// NewDifferentialEvolution builds a DifferentialEvolution technique
// seeded from seed.
func NewDifferentialEvolution(seed int64) *DifferentialEvolution {
	return &DifferentialEvolution{rng: rand.New(rand.NewSource(seed))}
}

func (d *DifferentialEvolution) Kind() Kind { return KindCoordinate }

func (d *DifferentialEvolution) Initialize(dims int) {
	d.dims = dims
	d.pop = make([]Point, dePopSize)
	for i := range d.pop {
		d.pop[i] = d.randomPoint()
	}
	d.cost = make([]float64, dePopSize)
	d.phase = deInitPhase
	d.initIdx = 0
	d.i = 0
}

func (d *DifferentialEvolution) randomPoint() Point {
	p := make(Point, d.dims)
	for i := range p {
		p[i] = clampCoordinate(1 - d.rng.Float64())
	}
	return p
}

func (d *DifferentialEvolution) Next() []Point {
	switch d.phase {
	case deInitPhase:
		return []Point{d.pop[d.initIdx]}

	case deEvolvePhase:
		i := d.i
		a, b, c := d.pickThreeDistinct(i)
		pivot := d.rng.Intn(d.dims)

		trial := make(Point, d.dims)
		for k := 0; k < d.dims; k++ {
			var v float64
			if d.rng.Float64() < deCR || k == pivot {
				v = d.pop[a][k] + deF*(d.pop[b][k]-d.pop[c][k])
			} else {
				v = d.pop[i][k]
			}
			trial[k] = deWrap(v)
		}
		d.lastTrial = trial
		return []Point{trial}
	}
	return nil
}

func (d *DifferentialEvolution) pickThreeDistinct(exclude int) (int, int, int) {
	pick := func(taken map[int]bool) int {
		for {
			n := d.rng.Intn(dePopSize)
			if n != exclude && !taken[n] {
				return n
			}
		}
	}
	a := pick(map[int]bool{})
	b := pick(map[int]bool{a: true})
	c := pick(map[int]bool{a: true, b: true})
	return a, b, c
}

func (d *DifferentialEvolution) Report(costs []float64) {
	cost := costs[0]

	switch d.phase {
	case deInitPhase:
		if math.IsInf(cost, 1) {
			d.pop[d.initIdx] = d.randomPoint()
			return
		}
		d.cost[d.initIdx] = cost
		d.initIdx++
		if d.initIdx >= dePopSize {
			d.phase = deEvolvePhase
			d.i = 0
		}

	case deEvolvePhase:
		if cost <= d.cost[d.i] {
			d.pop[d.i] = d.lastTrial
			d.cost[d.i] = cost
		}
		d.i = (d.i + 1) % dePopSize
	}
}

func (d *DifferentialEvolution) Finalize() {}

// deWrap implements the fmod(|x|,1.0) wraparound for trial vectors that
// land outside (0,1].
func deWrap(x float64) float64 {
	if x > 0 && x <= 1 {
		return x
	}
	return clampCoordinate(math.Mod(math.Abs(x), 1.0))
}
