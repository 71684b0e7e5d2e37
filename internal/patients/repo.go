package patients

import "context"

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "patient not found" }

// ErrEmailTaken is returned by Create when another row already holds the
// normalized email. The resolver treats it as "look the patient up again".
var ErrEmailTaken = errEmailTaken{}

type errEmailTaken struct{}

func (errEmailTaken) Error() string { return "patient email already exists" }

// Repo defines persistence operations for patient identities.
type Repo interface {
	Create(ctx context.Context, patient Patient) error
	GetByEmail(ctx context.Context, email string) (Patient, error)
	GetByID(ctx context.Context, patientID string) (Patient, error)
}
