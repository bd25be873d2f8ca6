// internal/repository/repository_test.go
package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/oakmund/taskfolio/internal/models"

	_ "github.com/mattn/go-sqlite3"
)

// Test helpers

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
	// A pool over :memory: would hand each connection its own database.
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

func createTestUser(t *testing.T, db *sqlx.DB, email string) *models.User {
	t.Helper()

	users := NewUserRepository(db)
	user := &models.User{
		Email:        email,
		PasswordHash: "$2a$12$N9qo8uLOickgx2ZMRZoMye",
	}
	require.NoError(t, users.Create(context.Background(), user))

	return user
}

func createTestTask(t *testing.T, db *sqlx.DB, ownerID, title string, mutate func(*models.Task)) *models.Task {
	t.Helper()

	task := &models.Task{
		UserID:   ownerID,
		Title:    title,
		Priority: models.PriorityMedium,
	}
	if mutate != nil {
		mutate(task)
	}

	tasks := NewTaskRepository(db)
	require.NoError(t, tasks.Create(context.Background(), task))

	// Insertion order must be observable through created_at ordering.
	time.Sleep(2 * time.Millisecond)

	return task
}
