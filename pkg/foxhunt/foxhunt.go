// Package foxhunt estimates how long a searching farmer takes to find a fox
// wandering a linear track, by averaging many randomized trials run in
// parallel.
package foxhunt

import (
	"context"

	"foxhunt/internal/farmer"
	"foxhunt/internal/fox"
	"foxhunt/internal/platform"
	"foxhunt/internal/rng"
	"foxhunt/internal/track"
	"foxhunt/internal/trial"
)

type (
	Position      = track.Position
	Placement     = track.Placement
	Source        = rng.Source
	FarmerPolicy  = farmer.Policy
	FoxPolicy     = fox.Policy
	FarmerFactory = farmer.Factory
	FoxFactory    = fox.Factory
	Estimate      = platform.Estimate
	Observer      = platform.Observer
	BatchReport   = platform.BatchReport
)

var (
	ErrInvalidArgument  = trial.ErrInvalidArgument
	ErrTrialCapExceeded = trial.ErrTrialCapExceeded
	ErrFarmerNotFound   = farmer.ErrPolicyNotFound
	ErrFoxNotFound      = fox.ErrPolicyNotFound
)

// EstimateMeanCaptureTime plays trialsPerWorker trials on each of workers
// concurrent workers and returns the mean of the per-worker mean capture
// times. The random stream is seeded from the clock.
func EstimateMeanCaptureTime(
	ctx context.Context,
	trackSize, trialsPerWorker, workers int,
	farmerFactory FarmerFactory,
	foxFactory FoxFactory,
) (float64, error) {
	est, err := platform.Aggregate(ctx, platform.Config{
		TrackSize:       trackSize,
		TrialsPerWorker: trialsPerWorker,
		Workers:         workers,
		Farmer:          farmerFactory,
		Fox:             foxFactory,
	})
	if err != nil {
		return 0, err
	}
	return est.Mean, nil
}

// FarmerByName and FoxByName resolve registered policy factories.
func FarmerByName(name string) (FarmerFactory, error) {
	return farmer.Get(name)
}

func FoxByName(name string) (FoxFactory, error) {
	return fox.Get(name)
}
