package patients

import (
	"context"
	"errors"
	"testing"

	"consent-backend/internal/analysis"
)

func recordFor(name, email string) analysis.Record {
	rec := analysis.DefaultRecord()
	rec.PatientName = name
	rec.PatientEmail = email
	return rec
}

func TestResolveOrCreateNewPatient(t *testing.T) {
	repo := NewMemoryRepo()
	r := &Resolver{Repo: repo}

	patient, created, password, err := r.ResolveOrCreate(context.Background(), recordFor("Maria Garcia", "Maria@Example.com"))
	if err != nil {
		t.Fatalf("ResolveOrCreate: %v", err)
	}
	if !created {
		t.Fatal("expected created=true for first sight")
	}
	if patient.Email != "maria@example.com" {
		t.Fatalf("email not normalized: %q", patient.Email)
	}
	if password != "maria123!" {
		t.Fatalf("expected generated password maria123!, got %q", password)
	}
	if !r.CheckPassword(patient, password) {
		t.Fatal("generated password should verify against stored hash")
	}
	if r.CheckPassword(patient, "wrong") {
		t.Fatal("wrong password should not verify")
	}
}

func TestResolveOrCreateReusesExistingPatient(t *testing.T) {
	repo := NewMemoryRepo()
	r := &Resolver{Repo: repo}
	ctx := context.Background()

	first, _, _, err := r.ResolveOrCreate(ctx, recordFor("Maria Garcia", "maria@example.com"))
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}

	second, created, password, err := r.ResolveOrCreate(ctx, recordFor("Maria G.", "MARIA@example.com "))
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if created {
		t.Fatal("expected created=false for existing email")
	}
	if password != "" {
		t.Fatalf("existing patient must not leak a password, got %q", password)
	}
	if second.ID != first.ID {
		t.Fatalf("expected same patient, got %s vs %s", second.ID, first.ID)
	}
}

func TestResolveOrCreateUnknownNamePassword(t *testing.T) {
	repo := NewMemoryRepo()
	r := &Resolver{Repo: repo}

	_, _, password, err := r.ResolveOrCreate(context.Background(), recordFor("", "nobody@example.com"))
	if err != nil {
		t.Fatalf("ResolveOrCreate: %v", err)
	}
	if password != "unknown123!" {
		t.Fatalf("expected unknown123!, got %q", password)
	}
}

// racingRepo simulates a concurrent create that wins between the lookup and
// the insert.
type racingRepo struct {
	*MemoryRepo
	winner  Patient
	planted bool
}

func (r *racingRepo) Create(ctx context.Context, patient Patient) error {
	if !r.planted {
		r.planted = true
		if err := r.MemoryRepo.Create(ctx, r.winner); err != nil {
			return err
		}
	}
	return r.MemoryRepo.Create(ctx, patient)
}

func TestResolveOrCreateLostRaceReturnsWinner(t *testing.T) {
	winner := Patient{ID: "winner-id", Email: "maria@example.com", Name: "Maria Garcia"}
	repo := &racingRepo{MemoryRepo: NewMemoryRepo(), winner: winner}
	r := &Resolver{Repo: repo}

	patient, created, password, err := r.ResolveOrCreate(context.Background(), recordFor("Maria Garcia", "maria@example.com"))
	if err != nil {
		t.Fatalf("ResolveOrCreate: %v", err)
	}
	if created || password != "" {
		t.Fatalf("lost race must report created=false with no password, got %v %q", created, password)
	}
	if patient.ID != "winner-id" {
		t.Fatalf("expected winner's row, got %s", patient.ID)
	}
}

func TestMemoryRepoDuplicateEmail(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	if err := repo.Create(ctx, Patient{ID: "a", Email: "x@example.com"}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	err := repo.Create(ctx, Patient{ID: "b", Email: "X@Example.com"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestMemoryRepoGetByEmailNotFound(t *testing.T) {
	repo := NewMemoryRepo()
	_, err := repo.GetByEmail(context.Background(), "ghost@example.com")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
