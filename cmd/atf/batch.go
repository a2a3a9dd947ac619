package main

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/atf-go/atf/pkg/abort"
	"github.com/atf-go/atf/pkg/config"
	"github.com/atf-go/atf/pkg/registry"
	"github.com/atf-go/atf/pkg/technique"
	"github.com/atf-go/atf/pkg/tp"
	"github.com/atf-go/atf/pkg/tuner"
)

// BatchCmd runs several independent tuning sessions concurrently, one
// per config file, each against its own SearchSpace and log path.
type BatchCmd struct {
	ConfigFiles []string `arg:"" help:"YAML configuration file paths, one per tuning run." type:"existingfile"`
	Concurrency int      `help:"Max tuning runs in flight at once; 0 means unlimited." default:"0"`
}

type batchResult struct {
	configFile string
	evaluated  int64
	valid      int64
	bestCost   *float64
}

func (b *BatchCmd) Run() error {
	group, ctx := errgroup.WithContext(context.Background())
	if b.Concurrency > 0 {
		group.SetLimit(b.Concurrency)
	}

	results := make([]batchResult, len(b.ConfigFiles))
	for i, path := range b.ConfigFiles {
		i, path := i, path
		group.Go(func() error {
			res, err := runBatchEntry(ctx, path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}

	for _, res := range results {
		fmt.Printf("%s: evaluated=%d valid=%d best=%v\n", res.configFile, res.evaluated, res.valid, res.bestCost)
	}
	return nil
}

func runBatchEntry(ctx context.Context, path string) (batchResult, error) {
	cfg, err := config.LoadConfigKoanf(path)
	if err != nil {
		return batchResult{}, fmt.Errorf("loading config: %w", err)
	}

	params, err := tp.LoadFile(cfg.Run.ParamsFile, nil)
	if err != nil {
		return batchResult{}, fmt.Errorf("loading parameter space: %w", err)
	}

	tech, err := technique.Registry.Create(cfg.Technique.Name, registry.Config(cfg.Technique.Settings))
	if err != nil {
		return batchResult{}, fmt.Errorf("building technique: %w", err)
	}

	abortCond, err := abort.Registry.Create(cfg.Abort.Name, registry.Config(cfg.Abort.Settings))
	if err != nil {
		return batchResult{}, fmt.Errorf("building abort condition: %w", err)
	}

	costFn, err := buildCostFunction(cfg.Backend)
	if err != nil {
		return batchResult{}, fmt.Errorf("building cost function: %w", err)
	}

	tn, err := tuner.New(tuner.Config{
		Params:         params,
		Technique:      tech,
		AbortCondition: abortCond,
		CostFunction:   costFn,
		LogPath:        cfg.Output.LogPath,
		Seed:           cfg.Run.Seed,
	})
	if err != nil {
		return batchResult{}, fmt.Errorf("building tuner: %w", err)
	}

	td, err := tn.Tune(ctx)
	if err != nil {
		return batchResult{}, fmt.Errorf("tuning run failed: %w", err)
	}

	return batchResult{configFile: path, evaluated: td.Evaluated(), valid: td.Valid(), bestCost: td.BestCost()}, nil
}
