package technique

import (
	"math"
	"math/rand"
)

type psPhase int

const (
	psInit psPhase = iota
	psExploratoryPlus
	psExploratoryMinus
	psPattern
)

// PatternSearch is a Hooke-Jeeves-style coordinate technique: it probes
// +/- along one dimension at a time from a base point, then takes a
// pattern move along any net direction of improvement before resuming
// exploration from the new point.
type PatternSearch struct {
	rng *rand.Rand

	dims int
	step float64

	base     Point
	baseCost float64

	exploratory Point
	curCost     float64

	dim            int
	phase          psPhase
	trigger        bool
	anyImprovement bool

	lastProposal Point
}

// NewPatternSearch builds a PatternSearch technique seeded from seed.
func NewPatternSearch(seed int64) *PatternSearch {
	return &PatternSearch{rng: rand.New(rand.NewSource(seed))}
}

func (p *PatternSearch) Kind() Kind { return KindCoordinate }

func (p *PatternSearch) Initialize(dims int) {
	p.dims = dims
	p.step = 0.1
	p.base = make(Point, dims)
	for i := range p.base {
		p.base[i] = clampCoordinate(1 - p.rng.Float64())
	}
	p.exploratory = append(Point(nil), p.base...)
	p.curCost = math.Inf(1)
	p.baseCost = math.Inf(1)
	p.dim = 0
	p.phase = psInit
	p.trigger = false
	p.anyImprovement = false
}

func (p *PatternSearch) Next() []Point {
	switch p.phase {
	case psInit:
		p.lastProposal = append(Point(nil), p.exploratory...)
	case psExploratoryPlus:
		cand := append(Point(nil), p.exploratory...)
		cand[p.dim] = wrapMod1(p.exploratory[p.dim] + p.step)
		p.lastProposal = cand
	case psExploratoryMinus:
		delta := p.step
		if p.trigger {
			delta = 2 * p.step
		}
		cand := append(Point(nil), p.exploratory...)
		cand[p.dim] = wrapMod1(p.exploratory[p.dim] - delta)
		p.lastProposal = cand
	case psPattern:
		cand := make(Point, p.dims)
		for i := range cand {
			cand[i] = wrapMod1(2*p.exploratory[i] - p.base[i])
		}
		p.lastProposal = cand
	}
	return []Point{p.lastProposal}
}

func (p *PatternSearch) Report(costs []float64) {
	cost := costs[0]

	switch p.phase {
	case psInit:
		p.curCost = cost
		p.baseCost = cost
		p.phase = psExploratoryPlus
		return

	case psExploratoryPlus:
		if cost < p.curCost {
			p.exploratory = p.lastProposal
			p.curCost = cost
			p.trigger = true
			p.anyImprovement = true
		} else {
			p.trigger = false
		}
		p.phase = psExploratoryMinus
		return

	case psExploratoryMinus:
		if cost < p.curCost {
			p.exploratory = p.lastProposal
			p.curCost = cost
			p.anyImprovement = true
		}
		p.trigger = false
		p.dim++
		if p.dim < p.dims {
			p.phase = psExploratoryPlus
			return
		}

		if p.anyImprovement {
			p.phase = psPattern
			return
		}

		p.step /= 2
		p.exploratory = append(Point(nil), p.base...)
		p.curCost = p.baseCost
		p.dim = 0
		p.phase = psExploratoryPlus
		return

	case psPattern:
		p.base = p.exploratory
		p.baseCost = p.curCost
		p.exploratory = p.lastProposal
		p.curCost = cost
		p.dim = 0
		p.anyImprovement = false
		p.trigger = false
		p.phase = psExploratoryPlus
	}
}

func (p *PatternSearch) Finalize() {}
