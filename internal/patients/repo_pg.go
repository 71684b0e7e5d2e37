package patients

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

type PGRepo struct {
	DB *sql.DB
}

const uniqueViolationCode = "23505"

func (r *PGRepo) Create(ctx context.Context, patient Patient) error {
	const query = `
INSERT INTO patients (id, email, patient_name, password_hash, created_at)
VALUES ($1, $2, $3, $4, $5)`
	_, err := r.DB.ExecContext(ctx, query,
		patient.ID,
		patient.Email,
		patient.Name,
		patient.PasswordHash,
		patient.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (Patient, error) {
	const query = `
SELECT id, email, patient_name, password_hash, created_at
FROM patients
WHERE lower(email) = lower($1)
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, email))
}

func (r *PGRepo) GetByID(ctx context.Context, patientID string) (Patient, error) {
	const query = `
SELECT id, email, patient_name, password_hash, created_at
FROM patients
WHERE id = $1
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, patientID))
}

func (r *PGRepo) scanOne(row *sql.Row) (Patient, error) {
	var patient Patient
	err := row.Scan(
		&patient.ID,
		&patient.Email,
		&patient.Name,
		&patient.PasswordHash,
		&patient.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Patient{}, ErrNotFound
		}
		return Patient{}, err
	}
	return patient, nil
}
