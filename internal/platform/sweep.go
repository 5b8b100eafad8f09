package platform

import (
	"context"
	"fmt"
	"math"

	"foxhunt/internal/rng"
	"foxhunt/internal/track"
	"foxhunt/internal/trial"
)

type SweepConfig struct {
	From int
	To   int
	// Step defaults to 1.
	Step int
	// Base supplies everything but the track size.
	Base Config
	// OnPoint, when non-nil, sees each estimate as soon as it is ready. An
	// error from it stops the sweep.
	OnPoint func(Estimate) error
}

func (c SweepConfig) Validate() error {
	if c.From < track.MinSize {
		return fmt.Errorf("%w: sweep start must be >= %d, got %d", trial.ErrInvalidArgument, track.MinSize, c.From)
	}
	if c.To < c.From {
		return fmt.Errorf("%w: sweep end %d is before start %d", trial.ErrInvalidArgument, c.To, c.From)
	}
	if c.Step < 0 {
		return fmt.Errorf("%w: sweep step must be >= 1, got %d", trial.ErrInvalidArgument, c.Step)
	}
	base := c.Base
	base.TrackSize = c.From
	return base.Validate()
}

// Sweep estimates the mean capture time for every track size in
// [From, To] stepping by Step, one size at a time. Each size gets its own
// seed derived from the base seed so points are reproducible individually.
func Sweep(ctx context.Context, cfg SweepConfig) ([]Estimate, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	step := cfg.Step
	if step == 0 {
		step = 1
	}
	baseSeed := cfg.Base.Seed
	if baseSeed == 0 {
		baseSeed = rng.SeedFromClock()
	}

	var points []Estimate
	for n := cfg.From; n <= cfg.To; n += step {
		run := cfg.Base
		run.TrackSize = n
		run.Seed = pointSeed(baseSeed, n)
		est, err := Aggregate(ctx, run)
		if err != nil {
			return points, fmt.Errorf("track size %d: %w", n, err)
		}
		points = append(points, est)
		if cfg.OnPoint != nil {
			if err := cfg.OnPoint(est); err != nil {
				return points, err
			}
		}
	}
	return points, nil
}

// pointSeed is the seed of the sweep point for track size n. Zero would make
// Aggregate pick a clock seed, so it maps to a value no nearby point can reach.
func pointSeed(base int64, n int) int64 {
	seed := base + int64(n)
	if seed == 0 {
		return math.MinInt64
	}
	return seed
}
