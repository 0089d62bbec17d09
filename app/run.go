package app

import (
	"context"
	"fmt"
	"slices"

	"github.com/joshjon/kit/log"
	"golang.org/x/sync/errgroup"

	"github.com/metaed/metaed/builder"
	"github.com/metaed/metaed/event"
	"github.com/metaed/metaed/logkey"
)

// UnitResult is the outcome of building one compilation unit.
type UnitResult struct {
	Unit   string
	Files  []string
	Result *builder.Result
}

// Run builds the given units concurrently, each into its own repository, and
// returns their results in unit order. The first unit to fail structurally
// cancels the rest.
func Run(ctx context.Context, logger log.Logger, cfg BuildConfig, units ...UnitConfig) ([]*UnitResult, error) {
	if len(units) == 0 {
		units = cfg.Units
	}
	results := make([]*UnitResult, len(units))

	errg, ctx := errgroup.WithContext(ctx)
	errg.SetLimit(max(cfg.Concurrency, 1))
	for i, unit := range units {
		errg.Go(func() error {
			res, err := BuildUnit(ctx, logger, cfg, unit)
			if err != nil {
				return fmt.Errorf("build unit %s: %w", unit.Name, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := errg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// BuildUnit reads the unit's event files in file order and builds them into a
// fresh repository.
func BuildUnit(ctx context.Context, logger log.Logger, cfg BuildConfig, unit UnitConfig) (*UnitResult, error) {
	logger = logger.With(logkey.BuildUnit, unit.Name)

	files, err := ExpandInputs(unit.Inputs)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files match %v", unit.Inputs)
	}

	streams := make([][]event.Event, len(files))
	lineCounts := make([]int, len(files))
	for i, file := range files {
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		streams[i], lineCounts[i], err = readEvents(file)
		if err != nil {
			return nil, err
		}
	}
	events, index := concat(files, streams, lineCounts)

	res, err := builder.Build(slices.Values(events),
		builder.WithLogger(logger),
		builder.WithExtensionEntitySuffix(cfg.ExtensionEntitySuffix),
		builder.WithFileIndex(index),
	)
	if err != nil {
		return nil, err
	}

	logger.Info("unit built",
		logkey.BuildID, res.BuildID.String(),
		logkey.EventCount, len(events),
		logkey.EntityCount, res.Repository.Count(),
		logkey.FailureCount, len(res.Failures),
	)
	return &UnitResult{Unit: unit.Name, Files: files, Result: res}, nil
}
