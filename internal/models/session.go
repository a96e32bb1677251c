package models

import "time"

// Session represents an authenticated user session. The opaque token is
// stored server-side only; clients hold a signed JWT referencing the
// session id instead.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Token     string    `json:"-"` // Never expose in JSON
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionWithUser is a session joined with its owning user, as returned
// by SessionRepo.GetByID.
type SessionWithUser struct {
	Session
	User User `json:"-"`
}
