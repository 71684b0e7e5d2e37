package consents

import (
	"context"
	"sort"
	"sync"
)

type MemoryRepo struct {
	mu       sync.RWMutex
	consents map[string]Consent
	indexes  map[string]EntityIndex // keyed by consent ID
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		consents: make(map[string]Consent),
		indexes:  make(map[string]EntityIndex),
	}
}

func (r *MemoryRepo) CreateWithIndex(ctx context.Context, consent Consent, index EntityIndex) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if index.ConsentID != consent.ID || index.PatientID != consent.PatientID {
		return ErrPatientMismatch
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.consents[consent.ID] = consent
	r.indexes[consent.ID] = index
	return nil
}

func (r *MemoryRepo) ListIndexByPatient(ctx context.Context, patientID string) ([]EntityIndex, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]EntityIndex, 0)
	for _, index := range r.indexes {
		if index.PatientID == patientID {
			out = append(out, index)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ProcessedAt.Before(out[j].ProcessedAt)
	})
	return out, nil
}

func (r *MemoryRepo) CountByPatient(ctx context.Context, patientID string) (int, error) {
	entries, err := r.ListIndexByPatient(ctx, patientID)
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}
