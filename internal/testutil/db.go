// Package testutil provides an in-memory database and fixtures for package tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"anoa.com/neoboard/internal/bootstrap"
	"anoa.com/neoboard/internal/entity"
	"anoa.com/neoboard/pkg/database"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewDB opens a private in-memory SQLite database with the schema migrated.
// A single connection keeps every query on the same memory database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Connect(database.Options{
		Driver:       database.DriverSQLite,
		DSN:          ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, bootstrap.Migrate(db))
	return db
}

func CreateUser(t *testing.T, db *gorm.DB, username string) *entity.User {
	t.Helper()

	email := fmt.Sprintf("%s@example.com", username)
	hash := "$2a$10$placeholderplaceholderplaceholderplaceholderplacehold"
	user := &entity.User{
		Username:     username,
		Email:        &email,
		PasswordHash: &hash,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func CreateBoard(t *testing.T, db *gorm.DB, owner *entity.User, name string) *entity.Board {
	t.Helper()

	board := &entity.Board{
		Name:         name,
		Description:  "Board " + name,
		Category:     entity.CategoryTechnology,
		IsActive:     true,
		CreatedBy:    owner.ID,
		LastActivity: time.Now().Add(-time.Hour),
	}
	require.NoError(t, db.Omit("Creator").Create(board).Error)
	return board
}

func ReloadBoard(t *testing.T, db *gorm.DB, id uuid.UUID) *entity.Board {
	t.Helper()

	var board entity.Board
	require.NoError(t, db.First(&board, "id = ?", id).Error)
	return &board
}

func ReloadThread(t *testing.T, db *gorm.DB, id uuid.UUID) *entity.Thread {
	t.Helper()

	var thread entity.Thread
	require.NoError(t, db.First(&thread, "id = ?", id).Error)
	return &thread
}

func ReloadUser(t *testing.T, db *gorm.DB, id uuid.UUID) *entity.User {
	t.Helper()

	var user entity.User
	require.NoError(t, db.First(&user, "id = ?", id).Error)
	return &user
}
