package services

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/isandoval/librarian-be/internal/apperr"
	"github.com/isandoval/librarian-be/internal/database"
	"github.com/isandoval/librarian-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// newTestDB opens a fresh sqlite database in a temp dir and migrates it.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func TestUserService_RegisterAndFind(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, NewEventService(db))

	user, err := svc.Register("alice", "alice@example.com", "s3cret", models.RoleAdmin)
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.Empty(t, user.PasswordHash, "registration response must not carry the hash")

	stored, err := svc.FindByEmail("alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, stored.ID)

	// Stored password is a hash, never the plaintext, and verifies only
	// against that plaintext.
	assert.NotEqual(t, "s3cret", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cret")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("other")))
}

func TestUserService_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, nil)

	_, err := svc.Register("alice", "alice@example.com", "pw1", models.RoleUser)
	require.NoError(t, err)

	_, err = svc.Register("impostor", "alice@example.com", "pw2", models.RoleUser)
	assert.True(t, errors.Is(err, apperr.ErrDuplicateEmail), "expected ErrDuplicateEmail, got %v", err)

	// Exactly one stored user survives.
	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(1) FROM users WHERE email = ?", "alice@example.com").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestUserService_DuplicateEmailConstraintBackstop(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, nil)

	_, err := svc.Register("alice", "alice@example.com", "pw1", models.RoleUser)
	require.NoError(t, err)

	// Simulate a racer that passed the pre-check: inserting directly must
	// trip the UNIQUE constraint, and the service reports it as the same
	// duplicate-email failure.
	_, err = db.Exec("INSERT INTO users(id, username, email, password_hash, role) VALUES('x', 'racer', 'alice@example.com', 'h', 'user')")
	require.Error(t, err)
	assert.True(t, isUniqueViolation(err))
}

func TestUserService_Authenticate(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, nil)

	_, err := svc.Register("bob", "bob@example.com", "hunter2", models.RoleUser)
	require.NoError(t, err)

	user, err := svc.Authenticate("bob@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "bob", user.Username)
	assert.Empty(t, user.PasswordHash)

	_, err = svc.Authenticate("bob@example.com", "wrong")
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized), "expected ErrUnauthorized, got %v", err)

	_, err = svc.Authenticate("nobody@example.com", "hunter2")
	assert.True(t, errors.Is(err, apperr.ErrNotFound), "expected ErrNotFound, got %v", err)
}
