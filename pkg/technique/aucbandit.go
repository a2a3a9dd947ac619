package technique

import (
	"math"
	"math/rand"
)

const (
	aucDefaultWindow = 500
	aucDefaultC      = 0.05
)

type aucOutcome struct {
	tech     int
	improved bool
}

// AUCBandit is a multi-armed bandit over K inner coordinate techniques,
// selecting an arm each step by an area-under-the-improvement-curve
// reward estimate plus a UCB-style exploration bonus, over a sliding
// window of the most recent outcomes.
type AUCBandit struct {
	rng *rand.Rand

	inner  []CoordinateTechnique
	window int
	c      float64

	outcomes []aucOutcome
	uses     []int
	rawAUC   []float64
	decay    []int

	bestCost float64
	last     int
}

// NewAUCBandit builds an AUC-Bandit over inner techniques with the
// given sliding-window size and exploration weight. Pass 0/0 to use the
// spec defaults (window 500, c 0.05).
func NewAUCBandit(seed int64, window int, c float64, inner ...CoordinateTechnique) *AUCBandit {
	if window <= 0 {
		window = aucDefaultWindow
	}
	if c <= 0 {
		c = aucDefaultC
	}
	return &AUCBandit{
		rng:    rand.New(rand.NewSource(seed)),
		inner:  inner,
		window: window,
		c:      c,
	}
}

func (b *AUCBandit) Kind() Kind { return KindCoordinate }

func (b *AUCBandit) Initialize(dims int) {
	for _, t := range b.inner {
		t.Initialize(dims)
	}
	n := len(b.inner)
	b.uses = make([]int, n)
	b.rawAUC = make([]float64, n)
	b.decay = make([]int, n)
	b.outcomes = nil
	b.bestCost = math.Inf(1)
}

func (b *AUCBandit) score(i int) float64 {
	var auc, exploration float64
	if b.uses[i] == 0 {
		auc = 0
		exploration = math.Inf(1)
	} else {
		u := float64(b.uses[i])
		auc = b.rawAUC[i] * 2 / (u * (u + 1))
		exploration = math.Sqrt(2 * log2(float64(len(b.outcomes))) / u)
	}
	return auc + b.c*exploration
}

func log2(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return math.Log2(x)
}

func (b *AUCBandit) Next() []Point {
	order := b.rng.Perm(len(b.inner))

	best := -1
	var bestScore float64
	for _, i := range order {
		s := b.score(i)
		if best == -1 || s > bestScore {
			best = i
			bestScore = s
		}
	}

	b.last = best
	return b.inner[best].Next()
}

func (b *AUCBandit) Report(costs []float64) {
	cost := costs[0]
	improved := cost < b.bestCost
	if improved {
		b.bestCost = cost
	}

	if len(b.outcomes) >= b.window {
		o := b.outcomes[0]
		b.outcomes = b.outcomes[1:]
		b.uses[o.tech]--
		b.rawAUC[o.tech] -= float64(b.decay[o.tech])
		if o.improved {
			b.decay[o.tech]--
		}
	}

	b.uses[b.last]++
	if improved {
		b.rawAUC[b.last] += float64(b.uses[b.last])
		b.decay[b.last]++
	}
	b.outcomes = append(b.outcomes, aucOutcome{tech: b.last, improved: improved})

	b.inner[b.last].Report(costs)
}

func (b *AUCBandit) Finalize() {
	for _, t := range b.inner {
		t.Finalize()
	}
}
