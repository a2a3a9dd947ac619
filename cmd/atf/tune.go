package main

import (
	"context"
	"fmt"
	"time"

	"github.com/atf-go/atf/pkg/abort"
	"github.com/atf-go/atf/pkg/backend"
	"github.com/atf-go/atf/pkg/config"
	"github.com/atf-go/atf/pkg/ratelimit"
	"github.com/atf-go/atf/pkg/registry"
	"github.com/atf-go/atf/pkg/retry"
	"github.com/atf-go/atf/pkg/technique"
	"github.com/atf-go/atf/pkg/tp"
	"github.com/atf-go/atf/pkg/tuner"
	"github.com/atf-go/atf/pkg/tuningdata"
)

// TuneCmd runs a single tuning session driven by a YAML config file.
type TuneCmd struct {
	ConfigFile string `arg:"" help:"YAML configuration file path." type:"existingfile"`

	Technique string        `help:"Override technique.name from the config file." name:"technique"`
	Abort     string        `help:"Override abort.name from the config file." name:"abort"`
	LogPath   string        `help:"Override output.log_path from the config file." name:"log"`
	Seed      int64         `help:"Override run.seed from the config file." name:"seed"`
	Timeout   time.Duration `help:"Overall tuning-run timeout; zero means no deadline."`
	Verbose   bool          `help:"Print progress after every valid evaluation." short:"v"`
}

func (t *TuneCmd) Run() error {
	cfg, err := config.LoadConfigKoanf(t.ConfigFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	t.applyOverrides(cfg)

	params, err := tp.LoadFile(cfg.Run.ParamsFile, nil)
	if err != nil {
		return fmt.Errorf("loading parameter space: %w", err)
	}

	tech, err := technique.Registry.Create(cfg.Technique.Name, registry.Config(cfg.Technique.Settings))
	if err != nil {
		return fmt.Errorf("building technique: %w", err)
	}

	abortCond, err := abort.Registry.Create(cfg.Abort.Name, registry.Config(cfg.Abort.Settings))
	if err != nil {
		return fmt.Errorf("building abort condition: %w", err)
	}
	if t.Timeout > 0 {
		abortCond = abort.Or{abortCond, abort.Duration{D: t.Timeout}}
	}

	costFn, err := buildCostFunction(cfg.Backend)
	if err != nil {
		return fmt.Errorf("building cost function: %w", err)
	}

	flushInterval := time.Duration(0)
	if cfg.Run.FlushInterval != "" {
		flushInterval, err = time.ParseDuration(cfg.Run.FlushInterval)
		if err != nil {
			return fmt.Errorf("parsing run.flush_interval: %w", err)
		}
	}

	tn, err := tuner.New(tuner.Config{
		Params:         params,
		Technique:      tech,
		AbortCondition: abortCond,
		CostFunction:   costFn,
		LogPath:        cfg.Output.LogPath,
		FlushInterval:  flushInterval,
		Verbose:        t.Verbose || cfg.Run.Verbose,
		Seed:           cfg.Run.Seed,
	})
	if err != nil {
		return fmt.Errorf("building tuner: %w", err)
	}

	ctx := context.Background()
	if t.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}

	td, err := tn.Tune(ctx)
	if err != nil {
		return fmt.Errorf("tuning run failed: %w", err)
	}

	fmt.Printf("evaluated=%d valid=%d best=%v terminated_early=%t elapsed=%s\n",
		td.Evaluated(), td.Valid(), td.BestCost(), td.TerminatedEarly(), td.Elapsed())
	return nil
}

func (t *TuneCmd) applyOverrides(cfg *config.Config) {
	if t.Technique != "" {
		cfg.Technique.Name = t.Technique
	}
	if t.Abort != "" {
		cfg.Abort.Name = t.Abort
	}
	if t.LogPath != "" {
		cfg.Output.LogPath = t.LogPath
	}
	if t.Seed != 0 {
		cfg.Run.Seed = t.Seed
	}
}

// buildCostFunction wires cfg.Backend to the requested CostFunction
// implementation.
func buildCostFunction(cfg config.BackendConfig) (tuningdata.CostFunction, error) {
	switch cfg.Kind {
	case "", "shell":
		timeout := time.Duration(0)
		if cfg.Timeout != "" {
			d, err := time.ParseDuration(cfg.Timeout)
			if err != nil {
				return nil, fmt.Errorf("parsing backend.timeout: %w", err)
			}
			timeout = d
		}

		var limiter *ratelimit.Limiter
		if cfg.RateLimit > 0 {
			limiter = ratelimit.NewLimiter(cfg.RateLimit, cfg.RateLimit)
		}

		retryCfg := retry.DefaultConfig()
		if cfg.MaxAttempts > 0 {
			retryCfg.MaxAttempts = cfg.MaxAttempts
		}

		return backend.NewShell(backend.ShellConfig{
			Command:        cfg.Command,
			CompileCommand: cfg.CompileCommand,
			CostFile:       cfg.CostFile,
			WorkDir:        cfg.WorkDir,
			Timeout:        timeout,
			Retry:          retryCfg,
			Limiter:        limiter,
		}), nil

	case "gpu":
		return backend.NewGPU(backend.GPUConfig{}), nil

	default:
		return nil, fmt.Errorf("unknown backend.kind %q", cfg.Kind)
	}
}
