package services

import (
	"testing"
	"time"

	"linknest/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database per test. A single pooled
// connection keeps the memory store alive and serializes writers, which is
// also what keeps the concurrency tests deterministic.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
		Logger:  logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gdb.AutoMigrate(&models.User{}, &models.Post{}, &models.Comment{}))
	return gdb
}

// registerUser is a shortcut for tests that just need an existing account.
func registerUser(t *testing.T, accounts *AccountService, username string) *models.User {
	t.Helper()
	user, err := accounts.Register(username, username+"@example.com", "hunter2-secret")
	require.NoError(t, err)
	return user
}
