package sessions

import (
	"context"
	"database/sql"
	"errors"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, session Session) error {
	const query = `
INSERT INTO sessions (id, patient_id, session_token, created_at, expires_at)
VALUES ($1, $2, $3, $4, $5)`
	_, err := r.DB.ExecContext(ctx, query,
		session.ID,
		session.PatientID,
		session.Token,
		session.CreatedAt,
		session.ExpiresAt,
	)
	return err
}

func (r *PGRepo) GetByToken(ctx context.Context, token string) (Session, error) {
	const query = `
SELECT id, patient_id, session_token, created_at, expires_at
FROM sessions
WHERE session_token = $1
LIMIT 1`
	var session Session
	err := r.DB.QueryRowContext(ctx, query, token).Scan(
		&session.ID,
		&session.PatientID,
		&session.Token,
		&session.CreatedAt,
		&session.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, ErrNotFound
		}
		return Session{}, err
	}
	return session, nil
}

func (r *PGRepo) DeleteByToken(ctx context.Context, token string) error {
	const query = `DELETE FROM sessions WHERE session_token = $1`
	_, err := r.DB.ExecContext(ctx, query, token)
	return err
}
