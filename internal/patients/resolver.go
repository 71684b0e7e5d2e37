package patients

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"consent-backend/internal/analysis"
	"consent-backend/internal/shared/telemetry"
)

// DefaultPasswordSuffix completes the generated first-login credential.
const DefaultPasswordSuffix = "123!"

// Resolver maps a consent record's email onto exactly one patient identity,
// creating it with a generated credential on first sight.
type Resolver struct {
	Repo           Repo
	PasswordSuffix string
}

// ResolveOrCreate returns the patient owning the record's email. When the
// patient is created, the generated plaintext password is returned once for
// out-of-band delivery; for existing patients it is empty and created=false.
func (r *Resolver) ResolveOrCreate(ctx context.Context, record analysis.Record) (Patient, bool, string, error) {
	email := NormalizeEmail(record.PatientEmail)

	patient, err := r.Repo.GetByEmail(ctx, email)
	if err == nil {
		return patient, false, "", nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Patient{}, false, "", err
	}

	password := r.defaultPassword(record.PatientName)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Patient{}, false, "", err
	}

	patient = Patient{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         record.PatientName,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	err = r.Repo.Create(ctx, patient)
	if err == nil {
		telemetry.Info("patient.created", map[string]any{
			"patient_id": patient.ID,
			"email":      email,
		})
		return patient, true, password, nil
	}
	if errors.Is(err, ErrEmailTaken) {
		// Lost a create race; the winner's row is authoritative.
		existing, lookupErr := r.Repo.GetByEmail(ctx, email)
		if lookupErr != nil {
			return Patient{}, false, "", lookupErr
		}
		return existing, false, "", nil
	}
	return Patient{}, false, "", err
}

// CheckPassword verifies a login attempt against the stored hash.
func (r *Resolver) CheckPassword(patient Patient, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(patient.PasswordHash), []byte(password)) == nil
}

// NormalizeEmail lower-cases and trims an email for use as the lookup key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// defaultPassword derives the first-login credential from the first
// whitespace-delimited token of the patient's name. An empty or "Unknown"
// name yields "unknown123!", which is expected.
func (r *Resolver) defaultPassword(name string) string {
	suffix := r.PasswordSuffix
	if suffix == "" {
		suffix = DefaultPasswordSuffix
	}
	first := "unknown"
	if fields := strings.Fields(name); len(fields) > 0 {
		first = strings.ToLower(fields[0])
	}
	return first + suffix
}
