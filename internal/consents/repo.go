package consents

import (
	"context"
	"errors"
)

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "consent not found" }

// ErrPatientMismatch indicates an entity index that does not reference the
// same patient as its consent. The pair is never persisted in that state.
var ErrPatientMismatch = errors.New("entity index patient does not match consent patient")

// Repo defines persistence operations for consents and their index entries.
type Repo interface {
	// CreateWithIndex persists a consent and its entity index atomically.
	// Implementations must reject the pair when the patient references
	// disagree.
	CreateWithIndex(ctx context.Context, consent Consent, index EntityIndex) error
	ListIndexByPatient(ctx context.Context, patientID string) ([]EntityIndex, error)
	CountByPatient(ctx context.Context, patientID string) (int, error)
}
