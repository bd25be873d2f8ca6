// internal/handler/auth_handler.go
package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/oakmund/taskfolio/internal/middleware"
	"github.com/oakmund/taskfolio/internal/service"
)

type authPageData struct {
	Redirect string
	Flashes  []Flash
}

// Home renders the landing page; a signed-in visitor goes straight to the
// dashboard.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.SessionFromContext(r.Context()); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	h.render(w, "home.html", nil)
}

func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, "login.html", authPageData{
		Redirect: r.URL.Query().Get("redirect"),
		Flashes:  h.flashes.Pop(w, r),
	})
}

// Login checks the credentials and opens a session. On success the browser
// is sent to the originally requested protected path when one was preserved.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	password := r.FormValue("password")

	token, err := h.authService.SignIn(r.Context(), email, password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrValidation):
			h.flashes.Add(w, r, flashError, "Invalid email or password")
		default:
			h.flashes.Add(w, r, flashError, "Sign-in failed, please try again")
		}
		redirect := r.FormValue("redirect")
		target := "/login"
		if redirect != "" {
			target += "?redirect=" + url.QueryEscape(redirect)
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}

	middleware.SetSessionCookie(w, token, h.cookieMaxAge, h.cookieSecure)

	redirect := r.FormValue("redirect")
	if redirect == "" || !strings.HasPrefix(redirect, "/") {
		redirect = "/dashboard"
	}
	http.Redirect(w, r, redirect, http.StatusSeeOther)
}

func (h *Handler) SignupPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, "signup.html", authPageData{
		Flashes: h.flashes.Pop(w, r),
	})
}

// Signup creates the account and sends the user to the login form.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	password := r.FormValue("password")
	confirm := r.FormValue("confirm")

	if err := h.authService.SignUp(r.Context(), email, password, confirm); err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			h.flashes.Add(w, r, flashError, validationMessage(err))
		case errors.Is(err, service.ErrEmailTaken):
			h.flashes.Add(w, r, flashError, "An account with this email already exists")
		default:
			h.flashes.Add(w, r, flashError, "Signup failed, please try again")
		}
		http.Redirect(w, r, "/signup", http.StatusSeeOther)
		return
	}

	h.flashes.Add(w, r, flashSuccess, "Account created, you can sign in now")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// validationMessage strips the error-class prefix so the user sees only the
// reason ("passwords do not match" instead of "validation failed: ...").
func validationMessage(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, ": "); i >= 0 && len(msg) > i+2 {
		rest := msg[i+2:]
		return strings.ToUpper(rest[:1]) + rest[1:]
	}
	return msg
}
