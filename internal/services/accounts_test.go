package services

import (
	"testing"

	"linknest/internal/models"
	"linknest/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAssignsIDAndStoresHash(t *testing.T) {
	accounts := NewAccountService(newTestDB(t))

	user, err := accounts.Register("alice", "alice@example.com", "correct horse")
	require.NoError(t, err)

	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	// Only the derived credential may be stored, never the raw password.
	assert.NotEqual(t, "correct horse", user.Password)
	assert.True(t, utils.CheckPasswordHash("correct horse", user.Password))
}

func TestRegisterDuplicateUsername(t *testing.T) {
	gdb := newTestDB(t)
	accounts := NewAccountService(gdb)

	first, err := accounts.Register("alice", "alice@example.com", "password-one")
	require.NoError(t, err)

	_, err = accounts.Register("alice", "other@example.com", "password-two")
	require.ErrorIs(t, err, ErrDuplicateUsername)

	// The store keeps only the first registration.
	var users []models.User
	require.NoError(t, gdb.Find(&users).Error)
	require.Len(t, users, 1)
	assert.Equal(t, first.ID, users[0].ID)
	assert.Equal(t, "alice@example.com", users[0].Email)
}

func TestUsernameLookupIsCaseSensitive(t *testing.T) {
	accounts := NewAccountService(newTestDB(t))
	registerUser(t, accounts, "alice")

	_, err := accounts.FindByUsername("Alice")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = accounts.FindByUsername("alice")
	assert.NoError(t, err)
}

func TestVerify(t *testing.T) {
	accounts := NewAccountService(newTestDB(t))

	_, err := accounts.Register("alice", "alice@example.com", "correct")
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		user, err := accounts.Verify("alice", "correct")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := accounts.Verify("alice", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredential)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := accounts.Verify("bob", "anything")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}
