package sessions

import "time"

// Session is one opaque login token with an expiry.
type Session struct {
	ID        string    `json:"id"`
	PatientID string    `json:"patientId"`
	Token     string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}
