package storage

import (
	"context"
	"errors"
	"sync"

	"foxhunt/internal/model"
)

var errNotInitialized = errors.New("store is not initialized")

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	estimates   map[string]model.EstimateRecord
	order       []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.estimates = make(map[string]model.EstimateRecord)
	s.order = nil
	return nil
}

func (s *MemoryStore) SaveEstimate(_ context.Context, record model.EstimateRecord) error {
	if record.ID == "" {
		return errors.New("estimate id is required")
	}
	record = Stamp(record)
	if err := checkVersion(record.VersionedRecord); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	if _, exists := s.estimates[record.ID]; !exists {
		s.order = append(s.order, record.ID)
	}
	s.estimates[record.ID] = cloneRecord(record)
	return nil
}

func (s *MemoryStore) GetEstimate(_ context.Context, id string) (model.EstimateRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return model.EstimateRecord{}, false, errNotInitialized
	}
	record, ok := s.estimates[id]
	if !ok {
		return model.EstimateRecord{}, false, nil
	}
	return cloneRecord(record), true, nil
}

func (s *MemoryStore) ListEstimates(_ context.Context, limit int) ([]model.EstimateRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, errNotInitialized
	}
	out := make([]model.EstimateRecord, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, cloneRecord(s.estimates[s.order[i]]))
	}
	return out, nil
}

func (s *MemoryStore) DeleteEstimate(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	if _, ok := s.estimates[id]; !ok {
		return nil
	}
	delete(s.estimates, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func cloneRecord(record model.EstimateRecord) model.EstimateRecord {
	record.WorkerMeans = append([]float64(nil), record.WorkerMeans...)
	return record
}
