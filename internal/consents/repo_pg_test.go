package consents

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreateWithIndexCommitsBothInserts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	consent := Consent{
		ID:           "consent-1",
		PatientID:    "patient-1",
		Filename:     "form.pdf",
		FullText:     "full text",
		AnalysisJSON: "{}",
		ProcessedAt:  now,
	}
	index := EntityIndex{
		ID:             "index-1",
		ConsentID:      "consent-1",
		PatientID:      "patient-1",
		PatientName:    "Maria Garcia",
		PatientEmail:   "maria@example.com",
		DoctorName:     "Dr. Chen",
		Procedure:      "Knee Arthroscopy",
		ConsentedItems: `["anesthesia"]`,
		DeclinedItems:  `[]`,
		Summary:        "summary",
		SearchTerms:    "maria garcia maria@example.com",
		ProcessedAt:    now,
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO consents").
		WithArgs(consent.ID, consent.PatientID, consent.Filename, consent.FullText, consent.AnalysisJSON, consent.ProcessedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO entity_index").
		WithArgs(
			index.ID, index.ConsentID, index.PatientID,
			index.PatientName, index.PatientEmail, nil,
			index.DoctorName, index.Procedure, nil,
			index.ConsentedItems, index.DeclinedItems, index.Summary,
			index.SearchTerms, index.ProcessedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	if err := repo.CreateWithIndex(context.Background(), consent, index); err != nil {
		t.Fatalf("CreateWithIndex: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreateWithIndexRollsBackOnIndexFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	consent := Consent{ID: "consent-1", PatientID: "patient-1", ProcessedAt: now}
	index := EntityIndex{ID: "index-1", ConsentID: "consent-1", PatientID: "patient-1", ProcessedAt: now}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO consents").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO entity_index").
		WillReturnError(errors.New("constraint violated"))
	mock.ExpectRollback()

	if err := repo.CreateWithIndex(context.Background(), consent, index); err == nil {
		t.Fatal("expected error when index insert fails")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreateWithIndexMismatchNeverTouchesDB(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	consent := Consent{ID: "consent-1", PatientID: "patient-1"}
	index := EntityIndex{ID: "index-1", ConsentID: "consent-1", PatientID: "someone-else"}

	err = repo.CreateWithIndex(context.Background(), consent, index)
	if !errors.Is(err, ErrPatientMismatch) {
		t.Fatalf("expected ErrPatientMismatch, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("no statements expected: %v", err)
	}
}
