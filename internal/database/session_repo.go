package database

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"todostack-backend/internal/models"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionRepo handles session database operations
type SessionRepo struct {
	db *sql.DB
}

// NewSessionRepo creates a new session repository
func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Create inserts a new session for the given user
func (r *SessionRepo) Create(userID, token string, expiresAt time.Time) (*models.Session, error) {
	session := &models.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}

	_, err := r.db.Exec(`
		INSERT INTO sessions (id, user_id, token, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, session.ID, session.UserID, session.Token, session.ExpiresAt, session.CreatedAt)
	if err != nil {
		return nil, err
	}

	return session, nil
}

// GetByID retrieves a session by id with its owning user joined. The row
// is returned even when expired; expiry is checked by the caller, which
// treats an expired session the same as a missing one.
func (r *SessionRepo) GetByID(id string) (*models.SessionWithUser, error) {
	sw := &models.SessionWithUser{}
	err := r.db.QueryRow(`
		SELECT s.id, s.user_id, s.token, s.expires_at, s.created_at,
		       u.id, u.email, u.name, u.password_hash, u.password_salt, u.avatar, u.is_verified, u.created_at, u.updated_at
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.id = ?
	`, id).Scan(
		&sw.ID, &sw.UserID, &sw.Token, &sw.ExpiresAt, &sw.CreatedAt,
		&sw.User.ID, &sw.User.Email, &sw.User.Name, &sw.User.PasswordHash, &sw.User.PasswordSalt,
		&sw.User.Avatar, &sw.User.IsVerified, &sw.User.CreatedAt, &sw.User.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	return sw, nil
}

// Delete deletes a session by ID. Deleting an absent session is not an
// error; logout is idempotent.
func (r *SessionRepo) Delete(id string) error {
	_, err := r.db.Exec("DELETE FROM sessions WHERE id = ?", id)
	return err
}

// DeleteAllForUser deletes all sessions for a user
func (r *SessionRepo) DeleteAllForUser(userID string) error {
	_, err := r.db.Exec("DELETE FROM sessions WHERE user_id = ?", userID)
	return err
}

// DeleteExpired removes all expired sessions
func (r *SessionRepo) DeleteExpired() (int64, error) {
	result, err := r.db.Exec("DELETE FROM sessions WHERE expires_at < ?", time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// CountByUserID returns the number of live sessions for a user
func (r *SessionRepo) CountByUserID(userID string) (int, error) {
	var count int
	err := r.db.QueryRow(
		"SELECT COUNT(*) FROM sessions WHERE user_id = ? AND expires_at > ?",
		userID, time.Now().UTC(),
	).Scan(&count)
	return count, err
}
