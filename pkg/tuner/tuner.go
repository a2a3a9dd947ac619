// Package tuner implements the main orchestration loop: it drives a
// SearchTechnique against a SearchSpace and an external cost function,
// recording every evaluation into a TuningData log until an
// AbortCondition fires or the run is cooperatively cancelled.
package tuner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/atf-go/atf/pkg/abort"
	"github.com/atf-go/atf/pkg/searchspace"
	"github.com/atf-go/atf/pkg/technique"
	"github.com/atf-go/atf/pkg/tp"
	"github.com/atf-go/atf/pkg/tuningdata"
)

// defaultFlushInterval is the longest the Tuner will go between log
// flushes during a run, per spec.md §4.12.
const defaultFlushInterval = 5 * time.Minute

// Config configures a Tuner. Exactly one of Params or SearchSpace must
// be supplied; if Params is given, a SearchSpace is built once at New.
type Config struct {
	Params      []*tp.Param
	SearchSpace *searchspace.SearchSpace

	// Technique is the search technique driving proposals. If nil, New
	// builds spec.md's stated default: an AUC-Bandit over the five
	// non-meta coordinate techniques.
	Technique technique.Technique

	// AbortCondition decides when to stop. If nil, New defaults to
	// Evaluations(SearchSpace.Len()) -- evaluate the whole space.
	AbortCondition abort.Condition

	// CostFunction is the external collaborator evaluating each
	// proposed Configuration.
	CostFunction tuningdata.CostFunction

	// LogPath, if non-empty, is rewritten atomically at most every
	// FlushInterval and once more when the run ends.
	LogPath       string
	FlushInterval time.Duration

	// Verbose, if true, calls ProgressFunc (or a default stdout
	// printer) after every valid evaluation.
	Verbose      bool
	ProgressFunc func(progress float64, known bool)

	// Seed seeds the default technique when Technique is nil.
	Seed int64
}

// Tuner runs a single, strictly sequential propose/decode/evaluate/
// record/learn loop. It is not safe for concurrent use; pkg/tuner's
// only concurrency-facing surface is the cooperative interrupt flag,
// which may be set from a signal-handling goroutine.
type Tuner struct {
	cfg Config
	ss  *searchspace.SearchSpace
	td  *tuningdata.TuningData

	interrupted atomic.Bool
}

// New builds a Tuner, constructing its SearchSpace from Config.Params
// if Config.SearchSpace was not supplied directly.
func New(cfg Config) (*Tuner, error) {
	ss := cfg.SearchSpace
	if ss == nil {
		if cfg.Params == nil {
			return nil, fmt.Errorf("tuner: one of Config.Params or Config.SearchSpace is required")
		}
		enable1D := false
		if _, ok := cfg.Technique.(technique.IndexTechnique); ok {
			enable1D = true
		}
		var opts []searchspace.Option
		if enable1D {
			opts = append(opts, searchspace.WithIndexAddressing())
		}
		built, err := searchspace.New(cfg.Params, opts...)
		if err != nil {
			return nil, err
		}
		ss = built
	}

	if cfg.Technique == nil {
		cfg.Technique = technique.DefaultTechnique(cfg.Seed)
	}
	if cfg.AbortCondition == nil {
		cfg.AbortCondition = abort.Evaluations{N: ss.Len()}
	}
	if cfg.CostFunction == nil {
		return nil, fmt.Errorf("tuner: Config.CostFunction is required")
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = defaultFlushInterval
	}

	return &Tuner{cfg: cfg, ss: ss, td: tuningdata.New()}, nil
}

func (t *Tuner) requestInterrupt() { t.interrupted.Store(true) }

// SearchSpace returns the Tuner's (possibly just-built) SearchSpace.
func (t *Tuner) SearchSpace() *searchspace.SearchSpace { return t.ss }

// Tune runs the main loop to completion: until the AbortCondition
// fires, cooperative cancellation is observed, or the cost function
// raises a non-InvalidConfiguration error. It returns the accumulated
// TuningData regardless of outcome. The error is a FatalEvaluationError,
// propagated after the log (if any) is flushed, or a plain error when
// the technique implements neither contract or a proposal cannot be
// decoded.
func (t *Tuner) Tune(ctx context.Context) (*tuningdata.TuningData, error) {
	pushInterruptHandler(t)
	defer popInterruptHandler(t)

	switch tech := t.cfg.Technique.(type) {
	case technique.CoordinateTechnique:
		tech.Initialize(t.ss.Dimensionality())
	case technique.IndexTechnique:
		tech.Initialize(t.ss.Len())
	default:
		return t.td, fmt.Errorf("tuner: technique implements neither CoordinateTechnique nor IndexTechnique")
	}

	lastFlush := time.Now()
	var fatalErr error

runLoop:
	for {
		if t.interrupted.Load() {
			t.td.SetTerminatedEarly()
			break
		}
		if t.cfg.AbortCondition.Stop(t.td) {
			break
		}

		switch tech := t.cfg.Technique.(type) {
		case technique.CoordinateTechnique:
			points := tech.Next()
			costs := make([]float64, len(points))
			for i, p := range points {
				cost, err := t.evaluateCoordinate(ctx, p)
				costs[i] = cost
				if err != nil {
					fatalErr = err
					break runLoop
				}
			}
			tech.Report(costs)

		case technique.IndexTechnique:
			indices := tech.Next()
			costs := make([]float64, len(indices))
			for i, idx := range indices {
				cost, err := t.evaluateIndex(ctx, idx)
				costs[i] = cost
				if err != nil {
					fatalErr = err
					break runLoop
				}
			}
			tech.Report(costs)
		}

		if time.Since(lastFlush) >= t.cfg.FlushInterval {
			t.flushLog()
			lastFlush = time.Now()
		}
	}

	t.cfg.Technique.Finalize()
	t.flushLog()

	return t.td, fatalErr
}

func (t *Tuner) evaluateCoordinate(ctx context.Context, p technique.Point) (float64, error) {
	coords := []float64(p)
	cfg, err := t.ss.Configuration(searchspace.Coordinates(coords))
	if err != nil {
		return technique.Inf, fmt.Errorf("tuner: decoding coordinates: %w", err)
	}
	return t.evaluate(ctx, tuningdata.Configuration(cfg), coords, nil)
}

func (t *Tuner) evaluateIndex(ctx context.Context, idx int64) (float64, error) {
	cfg, err := t.ss.ConfigurationAt(searchspace.Index(idx))
	if err != nil {
		return technique.Inf, fmt.Errorf("tuner: decoding index: %w", err)
	}
	i := idx
	return t.evaluate(ctx, tuningdata.Configuration(cfg), nil, &i)
}

// evaluate calls the cost function, records the outcome, and returns
// the cost a technique should see (real cost, or technique.Inf for
// invalid/fatal outcomes) plus a non-nil error only for fatal errors.
func (t *Tuner) evaluate(ctx context.Context, cfg tuningdata.Configuration, coords []float64, index *int64) (float64, error) {
	cost, meta, err := t.cfg.CostFunction(ctx, cfg)
	if err != nil {
		var invalid *tuningdata.InvalidConfigurationError
		if errors.As(err, &invalid) {
			t.td.Record(cfg, false, nil, invalid.Meta, coords, index)
			return technique.Inf, nil
		}

		t.td.Record(cfg, false, nil, nil, coords, index)
		t.flushLog()
		return technique.Inf, &tuningdata.FatalEvaluationError{Cfg: cfg, Err: err}
	}

	t.td.Record(cfg, true, &cost, meta, coords, index)
	if t.cfg.Verbose {
		t.reportProgress()
	}
	return cost, nil
}

func (t *Tuner) reportProgress() {
	progress, known := t.cfg.AbortCondition.Progress(t.td)
	if t.cfg.ProgressFunc != nil {
		t.cfg.ProgressFunc(progress, known)
		return
	}
	if known {
		fmt.Printf("atf: progress %.1f%% evaluated=%d valid=%d best=%v\n",
			progress*100, t.td.Evaluated(), t.td.Valid(), t.td.BestCost())
	}
}

func (t *Tuner) flushLog() {
	if t.cfg.LogPath == "" {
		return
	}
	var params []any
	for _, p := range t.cfg.Params {
		params = append(params, tp.Describe(p))
	}
	log := tuningdata.BuildLog(t.td, params, t.ss.Len(), t.ss.UnconstrainedLen(), techniqueName(t.cfg.Technique), t.cfg.AbortCondition.Describe())
	if err := tuningdata.WriteLog(t.cfg.LogPath, log); err != nil {
		slog.Error("atf: failed to flush tuning log", "path", t.cfg.LogPath, "err", err)
	}
}

func techniqueName(tech technique.Technique) string {
	return fmt.Sprintf("%T", tech)
}
