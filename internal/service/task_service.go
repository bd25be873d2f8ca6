// internal/service/task_service.go
package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/oakmund/taskfolio/internal/models"
	"github.com/oakmund/taskfolio/internal/repository"
)

// DefaultCategories is seeded for every user whose category list comes back
// empty. The insert is keyed on (user_id, name), so concurrent seeding never
// duplicates.
var DefaultCategories = []string{"Personal", "Work", "Study", "Health", "Finance"}

type TaskService struct {
	tasks        *repository.TaskRepository
	categories   *repository.CategoryRepository
	queryTimeout time.Duration
}

func NewTaskService(tasks *repository.TaskRepository, categories *repository.CategoryRepository, queryTimeout time.Duration) *TaskService {
	return &TaskService{
		tasks:        tasks,
		categories:   categories,
		queryTimeout: queryTimeout,
	}
}

// storeCtx bounds a store round-trip so a hung remote call cannot hang the
// triggering request forever.
func (s *TaskService) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.queryTimeout)
}

// ListTasks returns the owner's tasks under the given filter, newest first.
func (s *TaskService) ListTasks(ctx context.Context, ownerID string, filter models.Filter) ([]models.Task, error) {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	return s.tasks.List(ctx, ownerID, filter)
}

// ListCategories returns the owner's categories ordered by name, seeding the
// default set on first use.
func (s *TaskService) ListCategories(ctx context.Context, ownerID string) ([]models.Category, error) {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	categories, err := s.categories.ListByUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(categories) > 0 {
		return categories, nil
	}

	if err := s.categories.SeedDefaults(ctx, ownerID, DefaultCategories); err != nil {
		return nil, err
	}

	return s.categories.ListByUser(ctx, ownerID)
}

// CreateTaskInput carries a new task. Either CategoryID or CategoryName may
// be set; a name is resolved to an existing category or creates one.
type CreateTaskInput struct {
	Title        string
	Description  string
	DueDate      *time.Time
	Priority     string
	CategoryID   string
	CategoryName string
}

// CreateTask validates the payload and inserts the task for ownerID.
func (s *TaskService) CreateTask(ctx context.Context, ownerID string, input CreateTaskInput) error {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}

	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !models.ValidPriority(priority) {
		return fmt.Errorf("%w: unknown priority %q", ErrValidation, input.Priority)
	}

	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	categoryID := sql.NullString{String: input.CategoryID, Valid: input.CategoryID != ""}
	if !categoryID.Valid {
		if name := strings.TrimSpace(input.CategoryName); name != "" {
			category, err := s.categories.GetOrCreate(ctx, ownerID, name)
			if err != nil {
				return err
			}
			categoryID = sql.NullString{String: category.ID, Valid: true}
		}
	}

	task := &models.Task{
		UserID:      ownerID,
		Title:       title,
		Description: nullString(strings.TrimSpace(input.Description)),
		DueDate:     nullTime(input.DueDate),
		Priority:    priority,
		Completed:   false,
		CategoryID:  categoryID,
	}

	return s.tasks.Create(ctx, task)
}

// UpdateTaskInput is a partial update. Nil fields are left untouched.
// ClearCategory removes the category reference regardless of CategoryID.
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	DueDate       *time.Time
	ClearDueDate  bool
	Priority      *string
	CategoryID    *string
	ClearCategory bool
}

// UpdateTask applies a partial update to one of the owner's tasks.
func (s *TaskService) UpdateTask(ctx context.Context, ownerID, taskID string, input UpdateTaskInput) error {
	patch := repository.TaskPatch{}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return fmt.Errorf("%w: title is required", ErrValidation)
		}
		patch.Title = &title
	}

	if input.Description != nil {
		desc := nullString(strings.TrimSpace(*input.Description))
		patch.Description = &desc
	}

	if input.Priority != nil {
		if !models.ValidPriority(*input.Priority) {
			return fmt.Errorf("%w: unknown priority %q", ErrValidation, *input.Priority)
		}
		patch.Priority = input.Priority
	}

	if input.ClearDueDate {
		patch.DueDate = &sql.NullTime{}
	} else if input.DueDate != nil {
		due := nullTime(input.DueDate)
		patch.DueDate = &due
	}

	if input.ClearCategory {
		patch.CategoryID = &sql.NullString{}
	} else if input.CategoryID != nil {
		category := sql.NullString{String: *input.CategoryID, Valid: *input.CategoryID != ""}
		patch.CategoryID = &category
	}

	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	return s.tasks.Update(ctx, taskID, ownerID, patch)
}

// ToggleCompleted sets the completion flag of one task.
func (s *TaskService) ToggleCompleted(ctx context.Context, ownerID, taskID string, completed bool) error {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	return s.tasks.SetCompleted(ctx, taskID, ownerID, completed)
}

// DeleteTask removes one of the owner's tasks.
func (s *TaskService) DeleteTask(ctx context.Context, ownerID, taskID string) error {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	return s.tasks.Delete(ctx, taskID, ownerID)
}

// BulkSetCompleted marks every id in the batch with the given flag.
func (s *TaskService) BulkSetCompleted(ctx context.Context, ownerID string, ids []string, completed bool) error {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	return s.tasks.BulkSetCompleted(ctx, ownerID, ids, completed)
}

// BulkSetPriority sets the priority of every id in the batch.
func (s *TaskService) BulkSetPriority(ctx context.Context, ownerID string, ids []string, priority string) error {
	if !models.ValidPriority(priority) {
		return fmt.Errorf("%w: unknown priority %q", ErrValidation, priority)
	}

	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	return s.tasks.BulkSetPriority(ctx, ownerID, ids, priority)
}

// BulkDelete removes every id in the batch.
func (s *TaskService) BulkDelete(ctx context.Context, ownerID string, ids []string) error {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	return s.tasks.BulkDelete(ctx, ownerID, ids)
}

// ComputeCounts derives the summary over a fetched list. Pure function: the
// store is not consulted.
func ComputeCounts(tasks []models.Task) models.Counts {
	counts := models.Counts{Total: len(tasks)}
	for _, t := range tasks {
		if !t.Completed {
			counts.Active++
		}
	}
	counts.Completed = counts.Total - counts.Active
	return counts
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
