// Package trial runs single pursuit trials and sequential batches of them.
package trial

import (
	"foxhunt/internal/farmer"
	"foxhunt/internal/fox"
	"foxhunt/internal/rng"
	"foxhunt/internal/track"
)

// DefaultStepCap bounds a trial when Config.StepCap is zero.
const DefaultStepCap = 10000

type Config struct {
	TrackSize int
	Farmer    farmer.Factory
	Fox       fox.Factory
	// StepCap is the most steps a trial may take; 0 selects DefaultStepCap.
	StepCap int
}

func (c Config) Validate() error {
	if c.TrackSize < track.MinSize {
		return invalidArgument("track size must be >= %d, got %d", track.MinSize, c.TrackSize)
	}
	if c.Farmer == nil {
		return invalidArgument("farmer factory is required")
	}
	if c.Fox == nil {
		return invalidArgument("fox factory is required")
	}
	if c.StepCap < 0 {
		return invalidArgument("step cap must be >= 0, got %d", c.StepCap)
	}
	return nil
}

func (c Config) stepCap() int {
	if c.StepCap == 0 {
		return DefaultStepCap
	}
	return c.StepCap
}

// Run plays one trial to capture and returns the step on which the farmer's
// guess matched the fox.
func Run(cfg Config, src rng.Source) (int, error) {
	if err := cfg.Validate(); err != nil {
		return 0, err
	}
	return run(cfg, src)
}

func run(cfg Config, src rng.Source) (int, error) {
	searcher := cfg.Farmer(cfg.TrackSize, src)
	mover := cfg.Fox(cfg.TrackSize, src)
	limit := cfg.stepCap()

	placement := track.Unplaced()
	for step := 1; step <= limit; step++ {
		pos := mover.Next(placement)
		placement = track.At(pos)
		if searcher.Next() == pos {
			return step, nil
		}
	}
	return 0, &CapExceededError{TrackSize: cfg.TrackSize, StepCap: limit}
}
