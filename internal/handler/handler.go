// internal/handler/handler.go
package handler

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/oakmund/taskfolio/internal/service"
	"github.com/oakmund/taskfolio/web"
)

// Handler owns the HTTP surface: auth pages, the dashboard, and the task
// mutation endpoints.
type Handler struct {
	authService *service.AuthService
	taskService *service.TaskService
	flashes     *FlashStore
	templates   *template.Template

	cookieMaxAge int
	cookieSecure bool
}

type Config struct {
	SessionSecret  string
	SessionMaxAge  int
	SecureCookies  bool
}

func New(authService *service.AuthService, taskService *service.TaskService, cfg Config) (*Handler, error) {
	templates, err := web.Templates()
	if err != nil {
		return nil, err
	}

	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.Secure = cfg.SecureCookies

	return &Handler{
		authService:  authService,
		taskService:  taskService,
		flashes:      NewFlashStore(store),
		templates:    templates,
		cookieMaxAge: cfg.SessionMaxAge,
		cookieSecure: cfg.SecureCookies,
	}, nil
}

// Routes mounts every endpoint on the router. The route guard middleware is
// applied by the caller, ahead of these handlers.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.Home)

	r.Get("/login", h.LoginPage)
	r.Post("/login", h.Login)
	r.Get("/signup", h.SignupPage)
	r.Post("/signup", h.Signup)
	r.Post("/logout", h.Logout)

	r.Get("/dashboard", h.Dashboard)
	r.Post("/dashboard/tasks", h.CreateTask)
	r.Post("/dashboard/tasks/{id}/update", h.UpdateTask)
	r.Post("/dashboard/tasks/{id}/toggle", h.ToggleTask)
	r.Post("/dashboard/tasks/{id}/delete", h.DeleteTask)
	r.Post("/dashboard/tasks/bulk", h.BulkAction)
}

// render writes a template page. A render failure at this point can only be
// logged; headers are already out.
func (h *Handler) render(w http.ResponseWriter, name string, data interface{}) {
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.Error("template_render_failed", "template", name, "error", err)
	}
}
