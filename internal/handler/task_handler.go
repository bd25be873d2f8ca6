// internal/handler/task_handler.go
package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/oakmund/taskfolio/internal/middleware"
	"github.com/oakmund/taskfolio/internal/models"
	"github.com/oakmund/taskfolio/internal/repository"
	"github.com/oakmund/taskfolio/internal/service"
)

const dueDateLayout = "2006-01-02"

type dashboardData struct {
	Email      string
	Tasks      []models.Task
	Categories []models.Category
	Counts     models.Counts
	Filter     models.Filter
	Flashes    []Flash

	// ReturnTo is the listing URL under the active filters. Mutation forms
	// carry it so the post-mutation redirect lands on the same view.
	ReturnTo string
}

// Dashboard renders the task list under the active filters, with the
// category dropdown and the derived counts.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login?redirect=/dashboard", http.StatusSeeOther)
		return
	}

	filter := parseFilter(r)

	categories, err := h.taskService.ListCategories(r.Context(), session.UserID)
	if err != nil {
		h.flashes.Add(w, r, flashError, "Could not load categories")
		categories = nil
	}

	tasks, err := h.taskService.ListTasks(r.Context(), session.UserID, filter)
	if err != nil {
		h.flashes.Add(w, r, flashError, "Could not load tasks")
		tasks = nil
	}

	h.render(w, "dashboard.html", dashboardData{
		Email:      session.Email,
		Tasks:      tasks,
		Categories: categories,
		Counts:     service.ComputeCounts(tasks),
		Filter:     filter,
		Flashes:    h.flashes.Pop(w, r),
		ReturnTo:   dashboardURL(filter),
	})
}

// CreateTask adds a task and bounces back to the filtered listing.
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	input := service.CreateTaskInput{
		Title:        r.FormValue("title"),
		Description:  r.FormValue("description"),
		Priority:     r.FormValue("priority"),
		CategoryID:   r.FormValue("category_id"),
		CategoryName: r.FormValue("category_name"),
	}

	if due := r.FormValue("due_date"); due != "" {
		parsed, err := time.Parse(dueDateLayout, due)
		if err != nil {
			h.flashes.Add(w, r, flashError, "Invalid due date")
			h.redirectToDashboard(w, r)
			return
		}
		input.DueDate = &parsed
	}

	if err := h.taskService.CreateTask(r.Context(), session.UserID, input); err != nil {
		h.reportTaskError(w, r, err, "Could not create task")
	}

	h.redirectToDashboard(w, r)
}

// UpdateTask applies a partial edit to one task.
func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	taskID := chi.URLParam(r, "id")
	input := service.UpdateTaskInput{}

	if r.Form == nil {
		r.ParseForm()
	}
	if _, set := r.Form["title"]; set {
		title := r.FormValue("title")
		input.Title = &title
	}
	if _, set := r.Form["description"]; set {
		description := r.FormValue("description")
		input.Description = &description
	}
	if _, set := r.Form["priority"]; set {
		priority := r.FormValue("priority")
		input.Priority = &priority
	}
	if _, set := r.Form["due_date"]; set {
		if due := r.FormValue("due_date"); due == "" {
			input.ClearDueDate = true
		} else {
			parsed, err := time.Parse(dueDateLayout, due)
			if err != nil {
				h.flashes.Add(w, r, flashError, "Invalid due date")
				h.redirectToDashboard(w, r)
				return
			}
			input.DueDate = &parsed
		}
	}
	if _, set := r.Form["category_id"]; set {
		if categoryID := r.FormValue("category_id"); categoryID == "" {
			input.ClearCategory = true
		} else {
			input.CategoryID = &categoryID
		}
	}

	if err := h.taskService.UpdateTask(r.Context(), session.UserID, taskID, input); err != nil {
		h.reportTaskError(w, r, err, "Could not update task")
	}

	h.redirectToDashboard(w, r)
}

// ToggleTask flips the completion state of one task.
func (h *Handler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	taskID := chi.URLParam(r, "id")
	completed := r.FormValue("completed") == "true"

	if err := h.taskService.ToggleCompleted(r.Context(), session.UserID, taskID, completed); err != nil {
		h.reportTaskError(w, r, err, "Could not update task")
	}

	h.redirectToDashboard(w, r)
}

func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	taskID := chi.URLParam(r, "id")

	if err := h.taskService.DeleteTask(r.Context(), session.UserID, taskID); err != nil {
		h.reportTaskError(w, r, err, "Could not delete task")
	}

	h.redirectToDashboard(w, r)
}

// BulkAction applies one mutation to every selected task in a single batch.
// A batch failure surfaces as one error for the whole batch.
func (h *Handler) BulkAction(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if r.Form == nil {
		r.ParseForm()
	}
	ids := r.Form["ids"]
	if len(ids) == 0 {
		h.redirectToDashboard(w, r)
		return
	}

	var err error
	switch action := r.FormValue("action"); action {
	case "complete":
		err = h.taskService.BulkSetCompleted(r.Context(), session.UserID, ids, true)
	case "activate":
		err = h.taskService.BulkSetCompleted(r.Context(), session.UserID, ids, false)
	case "delete":
		err = h.taskService.BulkDelete(r.Context(), session.UserID, ids)
	case models.PriorityLow, models.PriorityMedium, models.PriorityHigh:
		err = h.taskService.BulkSetPriority(r.Context(), session.UserID, ids, action)
	default:
		h.flashes.Add(w, r, flashError, "Unknown bulk action")
		h.redirectToDashboard(w, r)
		return
	}

	if err != nil {
		h.reportTaskError(w, r, err, "Bulk update failed")
	}

	h.redirectToDashboard(w, r)
}

func (h *Handler) reportTaskError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		h.flashes.Add(w, r, flashError, validationMessage(err))
	case errors.Is(err, repository.ErrNotFound):
		h.flashes.Add(w, r, flashError, "Task not found")
	default:
		h.flashes.Add(w, r, flashError, fallback)
	}
}

// parseFilter reads the filter state from the request, falling back to the
// defaults for missing or unknown values. POST forms carry the active filter
// along so the post-mutation redirect lands on the same view.
func parseFilter(r *http.Request) models.Filter {
	filter := models.DefaultFilter()

	switch status := r.FormValue("status"); status {
	case models.StatusActive, models.StatusCompleted:
		filter.Status = status
	}

	if priority := r.FormValue("priority"); models.ValidPriority(priority) {
		filter.Priority = priority
	}

	if category := r.FormValue("category"); category != "" {
		filter.CategoryID = category
	}

	filter.Query = r.FormValue("q")

	return filter
}

// dashboardURL builds the listing URL for a filter state.
func dashboardURL(filter models.Filter) string {
	params := url.Values{}
	if filter.Status != models.StatusAll {
		params.Set("status", filter.Status)
	}
	if filter.Priority != models.FilterAll {
		params.Set("priority", filter.Priority)
	}
	if filter.CategoryID != models.FilterAll {
		params.Set("category", filter.CategoryID)
	}
	if filter.Query != "" {
		params.Set("q", filter.Query)
	}

	target := "/dashboard"
	if encoded := params.Encode(); encoded != "" {
		target += "?" + encoded
	}
	return target
}

// redirectToDashboard re-fetches under the active filters by construction:
// every mutation answers with a redirect back to the listing URL its form
// carried in return_to.
func (h *Handler) redirectToDashboard(w http.ResponseWriter, r *http.Request) {
	target := r.FormValue("return_to")
	if !strings.HasPrefix(target, "/dashboard") {
		target = "/dashboard"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
