package auth

import (
	"errors"
	"strings"
	"time"

	"todostack-backend/internal/database"
	"todostack-backend/internal/models"
)

// Session lifetimes. Remember-me extends the default.
const (
	SessionTTLDefault    = 24 * time.Hour
	SessionTTLRememberMe = 30 * 24 * time.Hour
)

// Service handles registration, login, session validation, logout and
// password changes. All collaborators are injected; the service holds no
// global state.
type Service struct {
	users    *database.UserRepo
	sessions *database.SessionRepo
	hasher   *Hasher
	tokens   *TokenCodec
	limiter  *RateLimiter
}

// NewService creates a new auth service
func NewService(users *database.UserRepo, sessions *database.SessionRepo, hasher *Hasher, tokens *TokenCodec, limiter *RateLimiter) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		tokens:   tokens,
		limiter:  limiter,
	}
}

// AuthResponse represents a successful registration or login
type AuthResponse struct {
	User      models.PublicUser `json:"user"`
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expiresAt"`
}

// SessionValidation represents a successfully validated session
type SessionValidation struct {
	User      models.PublicUser `json:"user"`
	ExpiresAt time.Time         `json:"expiresAt"`
}

// Register creates a user account and its initial session
func (s *Service) Register(email, password, confirmPassword, name string) (*AuthResponse, error) {
	email = strings.TrimSpace(email)

	if !s.hasher.ValidateEmail(email) {
		return nil, ErrInvalidEmail
	}
	if !s.hasher.ValidatePassword(password) {
		return nil, ErrWeakPassword
	}
	if password != confirmPassword {
		return nil, ErrWeakPassword
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(models.NewUser{
		Email:        email,
		Name:         name,
		PasswordHash: s.hasher.HashPassword(password, salt),
		PasswordSalt: salt,
	})
	if err != nil {
		if errors.Is(err, database.ErrUserAlreadyExists) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	return s.openSession(user, SessionTTLDefault)
}

// Login authenticates a user and replaces any existing sessions with a
// fresh one (single active session, last login wins).
func (s *Service) Login(email, password string, rememberMe bool) (*AuthResponse, error) {
	// Rate limit before touching the database so a credential-stuffing
	// run cannot amplify lookup load.
	if !s.limiter.Allow(email) {
		return nil, ErrRateLimited
	}

	user, err := s.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.VerifyPassword(password, user.PasswordHash, user.PasswordSalt) {
		return nil, ErrInvalidCredentials
	}

	s.limiter.Reset(email)

	if err := s.sessions.DeleteAllForUser(user.ID); err != nil {
		return nil, err
	}

	ttl := SessionTTLDefault
	if rememberMe {
		ttl = SessionTTLRememberMe
	}
	return s.openSession(user, ttl)
}

// openSession creates a session record and issues a bearer token bound to it
func (s *Service) openSession(user *models.User, ttl time.Duration) (*AuthResponse, error) {
	sessionToken, err := s.hasher.GenerateSessionToken()
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().Add(ttl)
	session, err := s.sessions.Create(user.ID, sessionToken, expiresAt)
	if err != nil {
		return nil, err
	}

	public := s.hasher.SanitizeUser(user)
	token, err := s.tokens.Create(TokenUser{ID: public.ID, Email: public.Email, Name: public.Name}, session.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:      public,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// ValidateSession verifies a bearer token and resolves the live session it
// references. An expired or deleted session invalidates the token even
// when the signature is still good.
func (s *Service) ValidateSession(tokenString string) (*SessionValidation, error) {
	claims, err := s.tokens.Verify(tokenString)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.GetByID(claims.SessionID)
	if err != nil {
		if errors.Is(err, database.ErrSessionNotFound) {
			return nil, ErrSessionExpired
		}
		return nil, err
	}

	if time.Now().After(session.ExpiresAt) {
		return nil, ErrSessionExpired
	}

	// The token's user snapshot must still match the session owner
	if session.User.ID != claims.User.ID {
		return nil, ErrUnauthorized
	}

	return &SessionValidation{
		User:      s.hasher.SanitizeUser(&session.User),
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// Logout deletes the session a token references. Idempotent; logging out
// an already-dead session succeeds.
func (s *Service) Logout(tokenString string) error {
	claims, err := s.tokens.Verify(tokenString)
	if err != nil {
		return err
	}
	return s.sessions.Delete(claims.SessionID)
}

// UpdatePassword changes a user's password after verifying the current
// one. Existing sessions stay valid.
func (s *Service) UpdatePassword(userID, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(userID)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return ErrUnauthorized
		}
		return err
	}

	if !s.hasher.VerifyPassword(currentPassword, user.PasswordHash, user.PasswordSalt) {
		return ErrUnauthorized
	}
	if !s.hasher.ValidatePassword(newPassword) {
		return ErrWeakPassword
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(userID, s.hasher.HashPassword(newPassword, salt), salt)
}

// Sanitize exposes the centralized user stripping for handlers that load
// users outside an auth flow.
func (s *Service) Sanitize(user *models.User) models.PublicUser {
	return s.hasher.SanitizeUser(user)
}
