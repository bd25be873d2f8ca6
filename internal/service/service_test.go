// internal/service/service_test.go
package service

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/oakmund/taskfolio/internal/models"
	"github.com/oakmund/taskfolio/internal/repository"
	"github.com/oakmund/taskfolio/pkg/auth"

	_ "github.com/mattn/go-sqlite3"
)

// Test helpers

const testQueryTimeout = 5 * time.Second

var testSchema = []string{
	`CREATE TABLE users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE categories (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		UNIQUE (user_id, name)
	)`,
	`CREATE TABLE todos (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		description TEXT,
		due_date DATE,
		priority TEXT NOT NULL DEFAULT 'medium',
		completed BOOLEAN NOT NULL DEFAULT 0,
		category_id TEXT REFERENCES categories(id) ON DELETE SET NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
}

func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := sqlx.Open("sqlite3", "file::memory:?_fk=1")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	for _, stmt := range testSchema {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

func newTestTaskService(t *testing.T) (*TaskService, *sqlx.DB) {
	t.Helper()

	db := setupTestDB(t)
	svc := NewTaskService(
		repository.NewTaskRepository(db),
		repository.NewCategoryRepository(db),
		testQueryTimeout,
	)
	return svc, db
}

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()

	db := setupTestDB(t)
	tokenManager := auth.NewTokenManager("test-secret", time.Hour)
	return NewAuthService(repository.NewUserRepository(db), tokenManager, testQueryTimeout)
}

func createTestUser(t *testing.T, db *sqlx.DB, email string) *models.User {
	t.Helper()

	users := repository.NewUserRepository(db)
	user := &models.User{
		Email:        email,
		PasswordHash: "hash",
	}
	require.NoError(t, users.Create(context.Background(), user))

	return user
}
