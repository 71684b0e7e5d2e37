package sessions

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultExpiry bounds a session's lifetime when no expiry is configured.
const DefaultExpiry = 8 * time.Hour

// Service issues, validates, and revokes opaque session tokens.
type Service struct {
	Repo   Repo
	Expiry time.Duration
}

// Start creates a session for the patient and returns it with its token.
func (s *Service) Start(ctx context.Context, patientID string) (Session, error) {
	token, err := newToken()
	if err != nil {
		return Session{}, err
	}
	expiry := s.Expiry
	if expiry <= 0 {
		expiry = DefaultExpiry
	}
	now := time.Now().UTC()
	session := Session{
		ID:        uuid.NewString(),
		PatientID: patientID,
		Token:     token,
		CreatedAt: now,
		ExpiresAt: now.Add(expiry),
	}
	if err := s.Repo.Create(ctx, session); err != nil {
		return Session{}, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

// Validate returns the owning patient ID for a live token. Expired
// sessions are deleted and rejected.
func (s *Service) Validate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrNotFound
	}
	session, err := s.Repo.GetByToken(ctx, token)
	if err != nil {
		return "", err
	}
	if time.Now().UTC().After(session.ExpiresAt) {
		_ = s.Repo.DeleteByToken(ctx, token)
		return "", ErrNotFound
	}
	return session.PatientID, nil
}

// End revokes a token. Revoking an unknown token is not an error.
func (s *Service) End(ctx context.Context, token string) error {
	err := s.Repo.DeleteByToken(ctx, token)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return nil
}

func newToken() (string, error) {
	var b [32]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b[:]), nil
}
