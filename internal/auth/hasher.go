package auth

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"regexp"

	"golang.org/x/crypto/pbkdf2"

	"todostack-backend/internal/models"
)

const (
	saltBytes         = 32
	sessionTokenBytes = 64
	keyBytes          = 64
	hashIterations    = 100000

	minPasswordLength = 8
	minSecretKeyLen   = 32
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Hasher derives and verifies password hashes. The process-wide secret key
// acts as a pepper: it is concatenated with the per-password salt before
// key derivation, so leaked database rows alone are not crackable offline.
type Hasher struct {
	secretKey string
}

// NewHasher creates a Hasher. The secret key must be at least 32
// characters; the process should refuse to start otherwise.
func NewHasher(secretKey string) (*Hasher, error) {
	if len(secretKey) < minSecretKeyLen {
		return nil, fmt.Errorf("auth secret key must be at least %d characters", minSecretKeyLen)
	}
	return &Hasher{secretKey: secretKey}, nil
}

// GenerateSalt returns a fresh random salt as a hex string
func (h *Hasher) GenerateSalt() (string, error) {
	buf := make([]byte, saltBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// GenerateSessionToken returns a fresh random session token as a hex string
func (h *Hasher) GenerateSessionToken() (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// HashPassword derives a key from the password, salt and secret key.
// Deterministic for identical inputs; intentionally slow (100k PBKDF2
// iterations over SHA-512).
func (h *Hasher) HashPassword(password, salt string) string {
	key := pbkdf2.Key([]byte(password), []byte(salt+h.secretKey), hashIterations, keyBytes, sha512.New)
	return hex.EncodeToString(key)
}

// VerifyPassword recomputes the hash and compares it to the stored value
// in constant time. Returns false, never an error, on any failure.
func (h *Hasher) VerifyPassword(password, storedHash, storedSalt string) bool {
	stored, err := hex.DecodeString(storedHash)
	if err != nil {
		return false
	}
	computed, err := hex.DecodeString(h.HashPassword(password, storedSalt))
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(stored, computed) == 1
}

// ValidateEmail checks that the email has a local@domain.tld shape.
// Not RFC-complete; gatekeeping only.
func (h *Hasher) ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidatePassword checks minimum length and required character classes:
// uppercase, lowercase, digit and special character.
func (h *Hasher) ValidatePassword(password string) bool {
	if len(password) < minPasswordLength {
		return false
	}
	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		default:
			hasSpecial = true
		}
	}
	return hasUpper && hasLower && hasDigit && hasSpecial
}

// SanitizeUser strips credentials and timestamps from a user record. Every
// user that crosses the service boundary goes through here; nothing else
// builds a PublicUser.
func (h *Hasher) SanitizeUser(user *models.User) models.PublicUser {
	return models.PublicUser{
		ID:         user.ID,
		Email:      user.Email,
		Name:       user.Name,
		Avatar:     user.Avatar,
		IsVerified: user.IsVerified,
	}
}
