package storage

import "foxhunt/internal/model"

func sampleEstimate(id string, trackSize int) model.EstimateRecord {
	return model.EstimateRecord{
		ID:              id,
		CreatedAtUTC:    "2026-01-02T03:04:05Z",
		TrackSize:       trackSize,
		Farmer:          "sweep",
		Fox:             "adjacent",
		TrialsPerWorker: 100,
		Workers:         2,
		StepCap:         10000,
		Seed:            42,
		Mean:            3.5,
		WorkerMeans:     []float64{3.25, 3.75},
		StdErr:          0.25,
		MaxSteps:        2*trackSize - 4,
		ElapsedMillis:   12,
	}
}
