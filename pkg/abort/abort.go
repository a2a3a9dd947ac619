// Package abort defines the termination predicates a Tuner polls between
// steps, plus progress reporting for diagnostics/UI.
package abort

import (
	"time"

	"github.com/atf-go/atf/pkg/tuningdata"
)

// Condition is a termination predicate with optional progress reporting.
// Progress returns a value in [0,1] and true, or an undefined value and
// false when progress cannot be estimated.
type Condition interface {
	Stop(td *tuningdata.TuningData) bool
	Progress(td *tuningdata.TuningData) (float64, bool)
	// Describe returns a short machine-readable name for the tuning log.
	Describe() string
}

// Evaluations stops once the total (valid or not) evaluation count
// reaches N.
type Evaluations struct{ N int64 }

func (c Evaluations) Stop(td *tuningdata.TuningData) bool { return td.Evaluated() >= c.N }

func (c Evaluations) Progress(td *tuningdata.TuningData) (float64, bool) {
	if c.N <= 0 {
		return 1, true
	}
	return clamp01(float64(td.Evaluated()) / float64(c.N)), true
}

func (c Evaluations) Describe() string { return "evaluations" }

// ValidEvaluations stops once the valid evaluation count reaches N.
type ValidEvaluations struct{ N int64 }

func (c ValidEvaluations) Stop(td *tuningdata.TuningData) bool { return td.Valid() >= c.N }

func (c ValidEvaluations) Progress(td *tuningdata.TuningData) (float64, bool) {
	if c.N <= 0 {
		return 1, true
	}
	return clamp01(float64(td.Valid()) / float64(c.N)), true
}

func (c ValidEvaluations) Describe() string { return "valid_evaluations" }

// Duration stops once the tuning run's elapsed wall time reaches D.
type Duration struct{ D time.Duration }

func (c Duration) Stop(td *tuningdata.TuningData) bool { return td.Elapsed() >= c.D }

func (c Duration) Progress(td *tuningdata.TuningData) (float64, bool) {
	if c.D <= 0 {
		return 1, true
	}
	return clamp01(float64(td.Elapsed()) / float64(c.D)), true
}

func (c Duration) Describe() string { return "duration" }

// Fraction stops once evaluated >= F * spaceSize.
type Fraction struct {
	F         float64
	SpaceSize int64
}

func (c Fraction) threshold() float64 { return c.F * float64(c.SpaceSize) }

func (c Fraction) Stop(td *tuningdata.TuningData) bool {
	return float64(td.Evaluated()) >= c.threshold()
}

func (c Fraction) Progress(td *tuningdata.TuningData) (float64, bool) {
	t := c.threshold()
	if t <= 0 {
		return 1, true
	}
	return clamp01(float64(td.Evaluated()) / t), true
}

func (c Fraction) Describe() string { return "fraction" }

// ValidFraction stops once valid >= F * spaceSize.
type ValidFraction struct {
	F         float64
	SpaceSize int64
}

func (c ValidFraction) threshold() float64 { return c.F * float64(c.SpaceSize) }

func (c ValidFraction) Stop(td *tuningdata.TuningData) bool {
	return float64(td.Valid()) >= c.threshold()
}

func (c ValidFraction) Progress(td *tuningdata.TuningData) (float64, bool) {
	t := c.threshold()
	if t <= 0 {
		return 1, true
	}
	return clamp01(float64(td.Valid()) / t), true
}

func (c ValidFraction) Describe() string { return "valid_fraction" }

// Cost stops once the best recorded cost reaches or drops below C. It
// reports no progress: the original cost curve shape isn't known in
// advance.
type Cost struct{ C float64 }

func (c Cost) Stop(td *tuningdata.TuningData) bool {
	best := td.BestCost()
	return best != nil && *best <= c.C
}

func (c Cost) Progress(td *tuningdata.TuningData) (float64, bool) { return 0, false }

func (c Cost) Describe() string { return "cost" }

// Speedup stops once best/cost-at-window-start >= S, comparing the
// current best cost against the cost of the first of the last Window
// valid evaluations (see TuningData.CostAtWindowStart).
type Speedup struct {
	S      float64
	Window int
}

func (c Speedup) Stop(td *tuningdata.TuningData) bool {
	best := td.BestCost()
	start := td.CostAtWindowStart(c.Window)
	if best == nil || start == nil || *start == 0 {
		return false
	}
	return (*best / *start) >= c.S
}

func (c Speedup) Progress(td *tuningdata.TuningData) (float64, bool) { return 0, false }

func (c Speedup) Describe() string { return "speedup" }

// And stops once every sub-condition stops; its progress is the minimum
// of its sub-conditions' progress, or unknown if any sub-condition's
// progress is unknown.
type And []Condition

func (a And) Stop(td *tuningdata.TuningData) bool {
	for _, c := range a {
		if !c.Stop(td) {
			return false
		}
	}
	return len(a) > 0
}

func (a And) Progress(td *tuningdata.TuningData) (float64, bool) {
	min := 1.0
	any := false
	for _, c := range a {
		p, ok := c.Progress(td)
		if !ok {
			return 0, false
		}
		any = true
		if p < min {
			min = p
		}
	}
	if !any {
		return 0, false
	}
	return min, true
}

func (a And) Describe() string { return "and" }

// Or stops once any sub-condition stops; its progress is the maximum of
// its sub-conditions' progress, or unknown if any sub-condition's
// progress is unknown.
type Or []Condition

func (o Or) Stop(td *tuningdata.TuningData) bool {
	for _, c := range o {
		if c.Stop(td) {
			return true
		}
	}
	return false
}

func (o Or) Progress(td *tuningdata.TuningData) (float64, bool) {
	max := 0.0
	any := false
	for _, c := range o {
		p, ok := c.Progress(td)
		if !ok {
			return 0, false
		}
		any = true
		if p > max {
			max = p
		}
	}
	if !any {
		return 0, false
	}
	return max, true
}

func (o Or) Describe() string { return "or" }

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
