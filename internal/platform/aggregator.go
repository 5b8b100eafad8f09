// Package platform fans pursuit batches out across workers and folds their
// means into a single estimate.
//
// Workers share nothing mutable: each owns its random source, builds fresh
// policies for every trial, and writes only its own slot of the result slice.
package platform

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"foxhunt/internal/farmer"
	"foxhunt/internal/fox"
	"foxhunt/internal/rng"
	"foxhunt/internal/stats"
	"foxhunt/internal/trial"
)

type Config struct {
	TrackSize int
	// TrialsPerWorker is the batch size of every worker, so the run plays
	// Workers*TrialsPerWorker trials in total.
	TrialsPerWorker int
	Workers         int
	Farmer          farmer.Factory
	Fox             fox.Factory
	StepCap         int
	// Seed fixes every worker's random stream; 0 picks one from the clock.
	Seed     int64
	Logger   *zap.Logger
	Observer Observer
}

// Observer receives one report per finished batch. It is called from worker
// goroutines and must be safe for concurrent use.
type Observer interface {
	ObserveBatch(report BatchReport)
}

type BatchReport struct {
	Worker    int
	TrackSize int
	Result    trial.BatchResult
	Elapsed   time.Duration
	Err       error
}

type Estimate struct {
	TrackSize       int
	TrialsPerWorker int
	Workers         int
	StepCap         int
	Seed            int64
	// Mean is the unweighted mean of WorkerMeans.
	Mean        float64
	WorkerMeans []float64
	Spread      stats.Summary
	MaxSteps    int
	Elapsed     time.Duration
}

func (c Config) Validate() error {
	if err := c.trialConfig().Validate(); err != nil {
		return err
	}
	if c.TrialsPerWorker < 1 {
		return fmt.Errorf("%w: trials per worker must be >= 1, got %d", trial.ErrInvalidArgument, c.TrialsPerWorker)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be >= 1, got %d", trial.ErrInvalidArgument, c.Workers)
	}
	return nil
}

func (c Config) trialConfig() trial.Config {
	return trial.Config{
		TrackSize: c.TrackSize,
		Farmer:    c.Farmer,
		Fox:       c.Fox,
		StepCap:   c.StepCap,
	}
}

// Aggregate runs one batch per worker concurrently and returns the mean of the
// per-worker means. The first failing worker cancels the rest; they stop at
// their next trial boundary.
func Aggregate(ctx context.Context, cfg Config) (Estimate, error) {
	if err := cfg.Validate(); err != nil {
		return Estimate{}, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = rng.SeedFromClock()
	}
	tcfg := cfg.trialConfig()

	started := time.Now()
	results := make([]trial.BatchResult, cfg.Workers)
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < cfg.Workers; w++ {
		g.Go(func() error {
			batchStarted := time.Now()
			res, err := trial.RunBatch(gctx, tcfg, cfg.TrialsPerWorker, rng.ForWorker(seed, w))
			elapsed := time.Since(batchStarted)
			if cfg.Observer != nil {
				cfg.Observer.ObserveBatch(BatchReport{
					Worker:    w,
					TrackSize: cfg.TrackSize,
					Result:    res,
					Elapsed:   elapsed,
					Err:       err,
				})
			}
			if err != nil {
				return fmt.Errorf("worker %d: %w", w, err)
			}
			logger.Debug("batch finished",
				zap.Int("worker", w),
				zap.Int("track_size", cfg.TrackSize),
				zap.Int("trials", res.Iterations),
				zap.Float64("mean", res.Mean),
				zap.Int("max_steps", res.MaxSteps),
				zap.Duration("elapsed", elapsed))
			results[w] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Warn("aggregate failed", zap.Int("track_size", cfg.TrackSize), zap.Error(err))
		return Estimate{}, err
	}

	est := Estimate{
		TrackSize:       cfg.TrackSize,
		TrialsPerWorker: cfg.TrialsPerWorker,
		Workers:         cfg.Workers,
		StepCap:         tcfg.StepCap,
		Seed:            seed,
		WorkerMeans:     make([]float64, cfg.Workers),
	}
	if est.StepCap == 0 {
		est.StepCap = trial.DefaultStepCap
	}
	sum := 0.0
	for i, res := range results {
		est.WorkerMeans[i] = res.Mean
		sum += res.Mean
		if res.MaxSteps > est.MaxSteps {
			est.MaxSteps = res.MaxSteps
		}
	}
	est.Mean = sum / float64(cfg.Workers)
	est.Spread, _ = stats.Summarize(est.WorkerMeans)
	est.Elapsed = time.Since(started)

	logger.Info("estimate complete",
		zap.Int("track_size", est.TrackSize),
		zap.Int("workers", est.Workers),
		zap.Int("trials_per_worker", est.TrialsPerWorker),
		zap.Int64("seed", est.Seed),
		zap.Float64("mean", est.Mean),
		zap.Duration("elapsed", est.Elapsed))
	return est, nil
}
