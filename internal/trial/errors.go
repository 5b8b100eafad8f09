package trial

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrTrialCapExceeded = errors.New("trial step cap exceeded")
)

// CapExceededError reports a trial that ran out of steps before the farmer
// found the fox. It matches ErrTrialCapExceeded under errors.Is.
type CapExceededError struct {
	TrackSize int
	StepCap   int
}

func (e *CapExceededError) Error() string {
	return fmt.Sprintf("%v: track size %d, cap %d steps", ErrTrialCapExceeded, e.TrackSize, e.StepCap)
}

func (e *CapExceededError) Unwrap() error {
	return ErrTrialCapExceeded
}

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
