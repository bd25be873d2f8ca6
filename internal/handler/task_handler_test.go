// internal/handler/task_handler_test.go
package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oakmund/taskfolio/internal/models"
	"github.com/oakmund/taskfolio/internal/service"
)

func TestParseFilter(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  models.Filter
	}{
		{
			name:  "no params falls back to defaults",
			query: "",
			want:  models.DefaultFilter(),
		},
		{
			name:  "all dimensions set",
			query: "status=active&priority=high&category=cat-1&q=milk",
			want: models.Filter{
				Status:     models.StatusActive,
				Priority:   models.PriorityHigh,
				CategoryID: "cat-1",
				Query:      "milk",
			},
		},
		{
			name:  "unknown status falls back",
			query: "status=done",
			want:  models.DefaultFilter(),
		},
		{
			name:  "unknown priority falls back",
			query: "priority=urgent",
			want:  models.DefaultFilter(),
		},
		{
			name:  "completed status",
			query: "status=completed",
			want: models.Filter{
				Status:     models.StatusCompleted,
				Priority:   models.FilterAll,
				CategoryID: models.FilterAll,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/dashboard?"+tt.query, nil)
			assert.Equal(t, tt.want, parseFilter(req))
		})
	}
}

func TestDashboardURL(t *testing.T) {
	tests := []struct {
		name   string
		filter models.Filter
		want   string
	}{
		{
			name:   "default filter has no query string",
			filter: models.DefaultFilter(),
			want:   "/dashboard",
		},
		{
			name: "non-default dimensions are carried",
			filter: models.Filter{
				Status:     models.StatusActive,
				Priority:   models.PriorityHigh,
				CategoryID: "cat-1",
				Query:      "milk",
			},
			want: "/dashboard?category=cat-1&priority=high&q=milk&status=active",
		},
		{
			name: "query only",
			filter: models.Filter{
				Status:     models.StatusAll,
				Priority:   models.FilterAll,
				CategoryID: models.FilterAll,
				Query:      "two words",
			},
			want: "/dashboard?q=two+words",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dashboardURL(tt.filter))
		})
	}
}

func TestParseFilterRoundTripsThroughDashboardURL(t *testing.T) {
	filter := models.Filter{
		Status:     models.StatusCompleted,
		Priority:   models.PriorityLow,
		CategoryID: "cat-9",
		Query:      "taxes",
	}

	req := httptest.NewRequest(http.MethodGet, dashboardURL(filter), nil)
	assert.Equal(t, filter, parseFilter(req))
}

func TestRedirectToDashboard(t *testing.T) {
	tests := []struct {
		name     string
		returnTo string
		want     string
	}{
		{
			name:     "carries the filtered listing URL",
			returnTo: "/dashboard?status=active&q=milk",
			want:     "/dashboard?status=active&q=milk",
		},
		{
			name:     "missing value falls back",
			returnTo: "",
			want:     "/dashboard",
		},
		{
			name:     "foreign target falls back",
			returnTo: "https://evil.example.com/dashboard",
			want:     "/dashboard",
		},
		{
			name:     "non-dashboard path falls back",
			returnTo: "/logout",
			want:     "/dashboard",
		},
	}

	h := &Handler{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := url.Values{}
			if tt.returnTo != "" {
				form.Set("return_to", tt.returnTo)
			}

			req := httptest.NewRequest(http.MethodPost, "/dashboard/tasks", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

			rec := httptest.NewRecorder()
			h.redirectToDashboard(rec, req)

			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, tt.want, rec.Header().Get("Location"))
		})
	}
}

func TestValidationMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "strips the sentinel prefix",
			err:  fmt.Errorf("%w: title is required", service.ErrValidation),
			want: "Title is required",
		},
		{
			name: "no prefix passes through",
			err:  fmt.Errorf("something odd"),
			want: "something odd",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validationMessage(tt.err))
		})
	}
}
