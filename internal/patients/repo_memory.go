package patients

import (
	"context"
	"strings"
	"sync"
)

type MemoryRepo struct {
	mu      sync.RWMutex
	byEmail map[string]Patient
	byID    map[string]Patient
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byEmail: make(map[string]Patient),
		byID:    make(map[string]Patient),
	}
}

func (r *MemoryRepo) Create(ctx context.Context, patient Patient) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := strings.ToLower(patient.Email)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[key]; ok {
		return ErrEmailTaken
	}
	r.byEmail[key] = patient
	r.byID[patient.ID] = patient
	return nil
}

func (r *MemoryRepo) GetByEmail(ctx context.Context, email string) (Patient, error) {
	if err := ctx.Err(); err != nil {
		return Patient{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	patient, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return Patient{}, ErrNotFound
	}
	return patient, nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, patientID string) (Patient, error) {
	if err := ctx.Err(); err != nil {
		return Patient{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	patient, ok := r.byID[patientID]
	if !ok {
		return Patient{}, ErrNotFound
	}
	return patient, nil
}
