package database

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"todostack-backend/internal/models"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

// UserRepo handles user database operations
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create inserts a new user and returns the stored record
func (r *UserRepo) Create(nu models.NewUser) (*models.User, error) {
	exists, err := r.ExistsByEmail(nu.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserAlreadyExists
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        nu.Email,
		Name:         nu.Name,
		PasswordHash: nu.PasswordHash,
		PasswordSalt: nu.PasswordSalt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err = r.db.Exec(`
		INSERT INTO users (id, email, name, password_hash, password_salt, avatar, is_verified, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, '', 0, ?, ?)
	`, user.ID, user.Email, user.Name, user.PasswordHash, user.PasswordSalt, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return user, nil
}

// GetByID retrieves a user by ID
func (r *UserRepo) GetByID(id string) (*models.User, error) {
	return r.getOne("SELECT id, email, name, password_hash, password_salt, avatar, is_verified, created_at, updated_at FROM users WHERE id = ?", id)
}

// GetByEmail retrieves a user by email. Lookup is case-sensitive, matching
// how emails are stored.
func (r *UserRepo) GetByEmail(email string) (*models.User, error) {
	return r.getOne("SELECT id, email, name, password_hash, password_salt, avatar, is_verified, created_at, updated_at FROM users WHERE email = ?", email)
}

func (r *UserRepo) getOne(query string, arg any) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRow(query, arg).Scan(
		&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.PasswordSalt,
		&user.Avatar, &user.IsVerified, &user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpdatePassword replaces a user's password hash and salt
func (r *UserRepo) UpdatePassword(id, hash, salt string) error {
	result, err := r.db.Exec(`
		UPDATE users SET password_hash = ?, password_salt = ?, updated_at = ? WHERE id = ?
	`, hash, salt, time.Now().UTC(), id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrUserNotFound
	}

	return nil
}

// UpdateProfile updates a user's display name and avatar
func (r *UserRepo) UpdateProfile(id, name, avatar string) error {
	result, err := r.db.Exec(`
		UPDATE users SET name = ?, avatar = ?, updated_at = ? WHERE id = ?
	`, name, avatar, time.Now().UTC(), id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrUserNotFound
	}

	return nil
}

// ExistsByEmail checks if a user with the given email exists
func (r *UserRepo) ExistsByEmail(email string) (bool, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM users WHERE email = ?", email).Scan(&count)
	return count > 0, err
}

// Count returns the total number of users
func (r *UserRepo) Count() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}
