package trial

import (
	"context"
	"fmt"

	"foxhunt/internal/rng"
)

type BatchResult struct {
	Iterations int
	TotalSteps int64
	Mean       float64
	MinSteps   int
	MaxSteps   int
}

// RunBatch plays iterations trials one after another on the calling goroutine
// and returns their mean step count. Cancellation is checked between trials
// only; a trial in progress always runs to capture or to the step cap.
func RunBatch(ctx context.Context, cfg Config, iterations int, src rng.Source) (BatchResult, error) {
	if err := cfg.Validate(); err != nil {
		return BatchResult{}, err
	}
	if iterations < 1 {
		return BatchResult{}, invalidArgument("iterations must be >= 1, got %d", iterations)
	}
	if src == nil {
		return BatchResult{}, invalidArgument("random source is required")
	}

	done := ctx.Done()
	result := BatchResult{Iterations: iterations}
	for i := 0; i < iterations; i++ {
		select {
		case <-done:
			return BatchResult{}, ctx.Err()
		default:
		}

		steps, err := run(cfg, src)
		if err != nil {
			return BatchResult{}, fmt.Errorf("trial %d: %w", i+1, err)
		}
		result.TotalSteps += int64(steps)
		if i == 0 || steps < result.MinSteps {
			result.MinSteps = steps
		}
		if steps > result.MaxSteps {
			result.MaxSteps = steps
		}
	}
	result.Mean = float64(result.TotalSteps) / float64(iterations)
	return result, nil
}
