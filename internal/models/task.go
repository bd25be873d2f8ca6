package models

import (
	"database/sql"
	"time"
)

// Priority constants
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Status filter constants
const (
	StatusAll       = "all"
	StatusActive    = "active"
	StatusCompleted = "completed"
)

// FilterAll is the neutral value for the priority and category filters.
const FilterAll = "all"

type Task struct {
	ID          string         `db:"id"`
	UserID      string         `db:"user_id"`
	Title       string         `db:"title"`
	Description sql.NullString `db:"description"`
	DueDate     sql.NullTime   `db:"due_date"`
	Priority    string         `db:"priority"`
	Completed   bool           `db:"completed"`
	CategoryID  sql.NullString `db:"category_id"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`

	// CategoryName is filled by the listing join when the task has a
	// category. Not a column of the todos table.
	CategoryName sql.NullString `db:"category_name"`
}

// ValidPriority reports whether p is one of the known priority values.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Filter is the transient filter state applied to a task listing. The zero
// value is not meaningful; use DefaultFilter.
type Filter struct {
	Status     string
	Priority   string
	CategoryID string
	Query      string
}

// DefaultFilter returns the filter state a fresh dashboard starts with.
func DefaultFilter() Filter {
	return Filter{
		Status:     StatusAll,
		Priority:   FilterAll,
		CategoryID: FilterAll,
	}
}

// Counts summarizes the currently loaded task list. Derived from the fetched
// slice, never re-queried from the store.
type Counts struct {
	Total     int
	Active    int
	Completed int
}
