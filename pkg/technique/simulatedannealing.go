package technique

import (
	"math"
	"math/rand"
)

type saPhase int

const (
	saInit saPhase = iota
	saExplorePlus
	saExploreMinus
)

type saNeighbor struct {
	point Point
	cost  float64
}

// SimulatedAnnealing explores one dimension at a time with a
// precomputed temperature/step schedule, then runs Metropolis
// acceptance over the neighbor set collected during the sweep.
type SimulatedAnnealing struct {
	rng  *rand.Rand
	dims int

	x        Point
	curCost  float64
	best     Point
	bestCost float64

	dim   int
	phase saPhase
	t     int
	temp  float64
	step  float64

	neighbors []saNeighbor
	lastProposal Point
}

// NewSimulatedAnnealing builds a SimulatedAnnealing technique seeded
// from seed.
func NewSimulatedAnnealing(seed int64) *SimulatedAnnealing {
	return &SimulatedAnnealing{rng: rand.New(rand.NewSource(seed))}
}

func (s *SimulatedAnnealing) Kind() Kind { return KindCoordinate }

func (s *SimulatedAnnealing) Initialize(dims int) {
	s.dims = dims
	s.x = make(Point, dims)
	for i := range s.x {
		s.x[i] = clampCoordinate(1 - s.rng.Float64())
	}
	s.curCost = math.Inf(1)
	s.bestCost = math.Inf(1)
	s.best = append(Point(nil), s.x...)
	s.dim = 0
	s.phase = saInit
	s.t = 0
	s.temp = saTemperature(0)
	s.step = saStepSize(0, s.temp)
	s.neighbors = nil
}

// saTemperature is the precomputed piecewise-linear schedule between
// the fixed endpoints [30.0, 0.0] over 100 sub-steps.
func saTemperature(t int) float64 {
	if t >= 100 {
		return 0
	}
	return 30.0 * (1.0 - float64(t)/100.0)
}

func saStepSize(t int, temp float64) float64 {
	return math.Exp(-(20.0 + float64(t)/100.0) / (temp + 1.0))
}

func (s *SimulatedAnnealing) Next() []Point {
	if s.phase == saExplorePlus && atUpperBound(s.x[s.dim]) {
		s.phase = saExploreMinus
	}

	switch s.phase {
	case saInit:
		s.lastProposal = append(Point(nil), s.x...)
	case saExplorePlus:
		cand := append(Point(nil), s.x...)
		cand[s.dim] = wrapMod1(s.x[s.dim] + s.step*s.rng.Float64())
		s.lastProposal = cand
	case saExploreMinus:
		cand := append(Point(nil), s.x...)
		cand[s.dim] = wrapMod1(s.x[s.dim] - s.step*s.rng.Float64())
		s.lastProposal = cand
	}
	return []Point{s.lastProposal}
}

func (s *SimulatedAnnealing) Report(costs []float64) {
	cost := costs[0]

	switch s.phase {
	case saInit:
		s.curCost = cost
		s.bestCost = cost
		s.best = append(Point(nil), s.x...)
		s.phase = saExplorePlus
		return
	case saExplorePlus:
		s.neighbors = append(s.neighbors, saNeighbor{point: s.lastProposal, cost: cost})
		if cost < s.curCost {
			s.x = s.lastProposal
			s.curCost = cost
		}
		s.phase = saExploreMinus
		return
	case saExploreMinus:
		s.neighbors = append(s.neighbors, saNeighbor{point: s.lastProposal, cost: cost})
		if cost < s.curCost {
			s.x = s.lastProposal
			s.curCost = cost
		}
	}

	if s.curCost < s.bestCost {
		s.bestCost = s.curCost
		s.best = append(Point(nil), s.x...)
	}

	s.dim++
	if s.dim < s.dims {
		s.phase = saExplorePlus
		return
	}

	s.metropolisAccept()

	s.dim = 0
	s.phase = saExplorePlus
	s.t++
	s.temp = saTemperature(s.t)
	s.step = saStepSize(s.t, s.temp)
	s.neighbors = nil
}

// metropolisAccept picks uniformly among this round's neighbors,
// accepting with probability exp(50*(curCost-cand.cost)/temp); on
// rejection the neighbor is removed and another is tried. If the
// neighbor set is exhausted without acceptance, x snaps back to the
// best point found so far.
func (s *SimulatedAnnealing) metropolisAccept() {
	candidates := append([]saNeighbor(nil), s.neighbors...)
	for len(candidates) > 0 {
		i := s.rng.Intn(len(candidates))
		cand := candidates[i]

		var prob float64
		if s.temp <= 0 {
			prob = 0
		} else {
			exponent := 50 * (s.curCost - cand.cost) / s.temp
			if exponent > 10 {
				prob = 1
			} else {
				prob = math.Exp(exponent)
			}
		}

		if s.rng.Float64() < prob {
			s.x = cand.point
			s.curCost = cand.cost
			if s.curCost < s.bestCost {
				s.bestCost = s.curCost
				s.best = append(Point(nil), s.x...)
			}
			return
		}
		candidates = append(candidates[:i], candidates[i+1:]...)
	}

	s.x = append(Point(nil), s.best...)
	s.curCost = s.bestCost
}

func (s *SimulatedAnnealing) Finalize() {}

func atUpperBound(v float64) bool { return v >= 1.0 }
