package storage

import (
	"context"

	"foxhunt/internal/model"
)

// Store persists estimate summaries.
type Store interface {
	Init(ctx context.Context) error
	SaveEstimate(ctx context.Context, record model.EstimateRecord) error
	GetEstimate(ctx context.Context, id string) (model.EstimateRecord, bool, error)
	// ListEstimates returns the newest records first; limit <= 0 means all.
	ListEstimates(ctx context.Context, limit int) ([]model.EstimateRecord, error)
	DeleteEstimate(ctx context.Context, id string) error
}
