// internal/repository/task_repository.go
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/oakmund/taskfolio/internal/models"
)

type TaskRepository struct {
	db *sqlx.DB
}

func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{
		db: db,
	}
}

const taskColumns = `t.id, t.user_id, t.title, t.description, t.due_date, t.priority,
	t.completed, t.category_id, t.created_at, t.updated_at, c.name AS category_name`

// List returns the owner's tasks matching the filter, newest first. A filter
// that matches nothing yields an empty slice, not an error.
func (r *TaskRepository) List(ctx context.Context, ownerID string, filter models.Filter) ([]models.Task, error) {
	query := `SELECT ` + taskColumns + `
		FROM todos t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = ?`
	args := []interface{}{ownerID}

	switch filter.Status {
	case models.StatusActive:
		query += ` AND t.completed = ?`
		args = append(args, false)
	case models.StatusCompleted:
		query += ` AND t.completed = ?`
		args = append(args, true)
	}

	if filter.Priority != "" && filter.Priority != models.FilterAll {
		query += ` AND t.priority = ?`
		args = append(args, filter.Priority)
	}

	if filter.CategoryID != "" && filter.CategoryID != models.FilterAll {
		query += ` AND t.category_id = ?`
		args = append(args, filter.CategoryID)
	}

	if q := strings.TrimSpace(filter.Query); q != "" {
		// Case-insensitive substring match over title and description.
		like := "%" + strings.ToLower(q) + "%"
		query += ` AND (LOWER(t.title) LIKE ? OR LOWER(COALESCE(t.description, '')) LIKE ?)`
		args = append(args, like, like)
	}

	query += ` ORDER BY t.created_at DESC`

	tasks := []models.Task{}
	if err := r.db.SelectContext(ctx, &tasks, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	return tasks, nil
}

// GetByID returns a single task owned by ownerID.
func (r *TaskRepository) GetByID(ctx context.Context, id, ownerID string) (*models.Task, error) {
	query := r.db.Rebind(`SELECT ` + taskColumns + `
		FROM todos t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.id = ? AND t.user_id = ?`)

	var task models.Task
	if err := r.db.GetContext(ctx, &task, query, id, ownerID); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get task: %w", err)
	}

	return &task, nil
}

// Create inserts a new task. The id and timestamps are assigned here.
func (r *TaskRepository) Create(ctx context.Context, t *models.Task) error {
	now := time.Now().UTC()
	t.ID = uuid.New().String()
	t.CreatedAt = now
	t.UpdatedAt = now

	query := r.db.Rebind(`INSERT INTO todos
		(id, user_id, title, description, due_date, priority, completed, category_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.UserID, t.Title, t.Description, t.DueDate, t.Priority,
		t.Completed, t.CategoryID, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}

	return nil
}

// TaskPatch is a partial update. Nil fields are left untouched. The owner
// column is not patchable.
type TaskPatch struct {
	Title       *string
	Description *sql.NullString
	DueDate     *sql.NullTime
	Priority    *string
	CategoryID  *sql.NullString
}

// Update applies a partial update to one task owned by ownerID.
func (r *TaskRepository) Update(ctx context.Context, id, ownerID string, patch TaskPatch) error {
	sets := []string{}
	args := []interface{}{}

	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.DueDate != nil {
		sets = append(sets, "due_date = ?")
		args = append(args, *patch.DueDate)
	}
	if patch.Priority != nil {
		sets = append(sets, "priority = ?")
		args = append(args, *patch.Priority)
	}
	if patch.CategoryID != nil {
		sets = append(sets, "category_id = ?")
		args = append(args, *patch.CategoryID)
	}

	if len(sets) == 0 {
		return nil
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC())

	query := fmt.Sprintf("UPDATE todos SET %s WHERE id = ? AND user_id = ?", strings.Join(sets, ", "))
	args = append(args, id, ownerID)

	res, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}

	return requireRow(res)
}

// SetCompleted flips the completion flag of one task.
func (r *TaskRepository) SetCompleted(ctx context.Context, id, ownerID string, completed bool) error {
	query := r.db.Rebind(`UPDATE todos SET completed = ?, updated_at = ? WHERE id = ? AND user_id = ?`)

	res, err := r.db.ExecContext(ctx, query, completed, time.Now().UTC(), id, ownerID)
	if err != nil {
		return fmt.Errorf("set completed: %w", err)
	}

	return requireRow(res)
}

// Delete removes one task owned by ownerID.
func (r *TaskRepository) Delete(ctx context.Context, id, ownerID string) error {
	query := r.db.Rebind(`DELETE FROM todos WHERE id = ? AND user_id = ?`)

	res, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	return requireRow(res)
}

// Bulk operations. Each batch runs as one statement; a failure fails the
// whole batch with a single error.

func (r *TaskRepository) BulkSetCompleted(ctx context.Context, ownerID string, ids []string, completed bool) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := sqlx.In(
		`UPDATE todos SET completed = ?, updated_at = ? WHERE user_id = ? AND id IN (?)`,
		completed, time.Now().UTC(), ownerID, ids,
	)
	if err != nil {
		return fmt.Errorf("build bulk update: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("bulk set completed: %w", err)
	}

	return nil
}

func (r *TaskRepository) BulkSetPriority(ctx context.Context, ownerID string, ids []string, priority string) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := sqlx.In(
		`UPDATE todos SET priority = ?, updated_at = ? WHERE user_id = ? AND id IN (?)`,
		priority, time.Now().UTC(), ownerID, ids,
	)
	if err != nil {
		return fmt.Errorf("build bulk update: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("bulk set priority: %w", err)
	}

	return nil
}

func (r *TaskRepository) BulkDelete(ctx context.Context, ownerID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := sqlx.In(
		`DELETE FROM todos WHERE user_id = ? AND id IN (?)`,
		ownerID, ids,
	)
	if err != nil {
		return fmt.Errorf("build bulk delete: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("bulk delete: %w", err)
	}

	return nil
}

// requireRow converts a zero-row mutation into ErrNotFound.
func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
