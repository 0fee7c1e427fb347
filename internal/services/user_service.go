package services

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/isandoval/librarian-be/internal/apperr"
	"github.com/isandoval/librarian-be/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(username, email, password string, role models.Role) (models.User, error)
	FindByEmail(email string) (models.User, error)
	Authenticate(email, password string) (models.User, error)
}

// UserService provides business logic for account registration and login.
type UserService struct {
	db       *sql.DB
	eventSvc EventServiceProvider
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB, eventSvc EventServiceProvider) *UserService {
	return &UserService{db: db, eventSvc: eventSvc}
}

// Register creates a new user, hashing their password. A taken email fails
// with apperr.ErrDuplicateEmail. The friendly pre-check is racy on its own;
// the UNIQUE constraint on users.email is the correctness boundary, and a
// lost race surfaces as the same error.
func (s *UserService) Register(username, email, password string, role models.Role) (models.User, error) {
	var exists int
	row := s.db.QueryRow("SELECT COUNT(1) FROM users WHERE email = ?", email)
	if err := row.Scan(&exists); err != nil {
		return models.User{}, err
	}
	if exists > 0 {
		return models.User{}, fmt.Errorf("%w: %s", apperr.ErrDuplicateEmail, email)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         role,
	}

	stmt, err := s.db.Prepare("INSERT INTO users(id, username, email, password_hash, role) VALUES(?, ?, ?, ?, ?)")
	if err != nil {
		return models.User{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(user.ID, user.Username, user.Email, user.PasswordHash, string(user.Role))
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, fmt.Errorf("%w: %s", apperr.ErrDuplicateEmail, email)
		}
		return models.User{}, err
	}

	if s.eventSvc != nil {
		_ = s.eventSvc.CreateEvent("user.registered", "info", "User "+username+" registered", nil)
	}

	// Return user without password hash
	user.PasswordHash = ""
	return user, nil
}

// FindByEmail retrieves a single user by their email, including the password hash.
func (s *UserService) FindByEmail(email string) (models.User, error) {
	var user models.User
	var role string
	row := s.db.QueryRow("SELECT id, username, email, password_hash, role, created_at FROM users WHERE email = ?", email)
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &role, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, fmt.Errorf("%w: user with email %s", apperr.ErrNotFound, email)
		}
		return models.User{}, err
	}
	user.Role, _ = models.ParseRole(role)
	return user, nil
}

// Authenticate verifies a user's credentials. An unknown email fails with
// apperr.ErrNotFound, a wrong password with apperr.ErrUnauthorized, so the
// handler can keep the 404/401 split.
func (s *UserService) Authenticate(email, password string) (models.User, error) {
	user, err := s.FindByEmail(email)
	if err != nil {
		return models.User{}, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return models.User{}, fmt.Errorf("%w: invalid password", apperr.ErrUnauthorized)
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}

// isUniqueViolation reports whether err is a sqlite unique constraint failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
