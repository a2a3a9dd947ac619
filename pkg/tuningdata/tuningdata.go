// Package tuningdata holds the append-only evaluation log a Tuner builds
// up over a run: one Entry per cost-function call, plus the strictly
// decreasing improvement subsequence and best-so-far bookkeeping.
package tuningdata

import "time"

// Configuration is a fully resolved parameter assignment, name to value,
// as decoded from a SearchSpace.
type Configuration map[string]any

// MetaData is arbitrary, cost-function-supplied side information attached
// to an evaluation; it is opaque to the core and passed through to the
// log verbatim.
type MetaData map[string]any

// Entry is one immutable, recorded evaluation.
type Entry struct {
	// Timestamp is the wall-clock time the evaluation was recorded.
	Timestamp time.Time
	// Delta is the time elapsed since the owning TuningData was created.
	Delta time.Duration
	// Evaluated is the cumulative number of evaluations recorded so far,
	// including this one.
	Evaluated int64
	// ValidCount is the cumulative number of valid evaluations recorded so
	// far, including this one if it is valid.
	ValidCount int64

	Config Configuration
	// IsValid is false when the cost function signalled
	// InvalidConfigurationError; Cost is then nil.
	IsValid bool
	// The Tuner records a nil Cost exactly when IsValid is false;
	// Record itself does not check this.
	Cost *float64
	Meta MetaData

	// Coordinates is set when the evaluation was produced by a
	// coordinate-style technique, nil otherwise.
	Coordinates []float64
	// Index is set when the evaluation was produced by an index-style
	// technique, nil otherwise.
	Index *int64
}

// TuningData is the append-only log owned exclusively by a running
// Tuner. It is not safe for concurrent writes; reads (e.g. from an
// AbortCondition's Progress) happen on the same goroutine between
// steps.
type TuningData struct {
	start time.Time

	history            []Entry
	improvementHistory []Entry

	evaluated int64
	valid     int64
	bestCost  *float64

	terminatedEarly bool
}

// New creates an empty TuningData whose clock starts now.
func New() *TuningData {
	return &TuningData{start: timeNow()}
}

// timeNow is indirected only so tests could substitute it if ever
// needed; production code always uses the real wall clock.
var timeNow = time.Now

// Start returns the tuning run's start timestamp.
func (td *TuningData) Start() time.Time { return td.start }

// Record appends one evaluation outcome to the log, updating cumulative
// counters, best-cost tracking, and the improvement history.
func (td *TuningData) Record(cfg Configuration, valid bool, cost *float64, meta MetaData, coords []float64, index *int64) Entry {
	td.evaluated++
	if valid {
		td.valid++
	}

	e := Entry{
		Timestamp:   timeNow(),
		Delta:       timeNow().Sub(td.start),
		Evaluated:   td.evaluated,
		ValidCount:  td.valid,
		Config:      cfg,
		IsValid:     valid,
		Cost:        cost,
		Meta:        meta,
		Coordinates: coords,
		Index:       index,
	}
	td.history = append(td.history, e)

	if valid && cost != nil {
		if td.bestCost == nil || *cost < *td.bestCost {
			c := *cost
			td.bestCost = &c
			td.improvementHistory = append(td.improvementHistory, e)
		}
	}

	return e
}

// Evaluated returns the total number of evaluations recorded.
func (td *TuningData) Evaluated() int64 { return td.evaluated }

// Valid returns the number of valid evaluations recorded.
func (td *TuningData) Valid() int64 { return td.valid }

// BestCost returns the lowest valid cost recorded so far, or nil if no
// valid evaluation has been recorded yet.
func (td *TuningData) BestCost() *float64 { return td.bestCost }

// History returns the full, ordered evaluation log.
func (td *TuningData) History() []Entry { return td.history }

// ImprovementHistory returns the strictly-decreasing subsequence of
// valid evaluation costs, in the order they were achieved.
func (td *TuningData) ImprovementHistory() []Entry { return td.improvementHistory }

// TerminatedEarly reports whether the run was ended by cooperative
// cancellation rather than its AbortCondition.
func (td *TuningData) TerminatedEarly() bool { return td.terminatedEarly }

// SetTerminatedEarly marks the run as cooperatively cancelled. Called by
// pkg/tuner when its interrupt flag is observed.
func (td *TuningData) SetTerminatedEarly() { td.terminatedEarly = true }

// Elapsed returns the wall-clock duration since the run started.
func (td *TuningData) Elapsed() time.Duration { return timeNow().Sub(td.start) }

// CostAtWindowStart returns the cost of the first of the last `back`
// valid evaluations (back=1 is the latest one). When fewer than `back`
// valid evaluations exist it returns the oldest valid cost; it returns
// nil only when no valid evaluation has been recorded. Used by the
// Speedup abort condition.
func (td *TuningData) CostAtWindowStart(back int) *float64 {
	var valids []Entry
	for _, e := range td.history {
		if e.IsValid && e.Cost != nil {
			valids = append(valids, e)
		}
	}
	if len(valids) == 0 {
		return nil
	}
	idx := len(valids) - back
	if idx < 0 {
		idx = 0
	}
	return valids[idx].Cost
}
