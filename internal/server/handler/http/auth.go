// Package http provides the HTTP handlers and router of the portfolio site:
// authentication pages, content pages for projects and posts, and the
// home, about and dashboard pages.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/atinyakov/folio/internal/apperr"
	"github.com/atinyakov/folio/internal/middleware"
	"github.com/atinyakov/folio/internal/models"
	"github.com/atinyakov/folio/internal/service"
	"go.uber.org/zap"
)

// AuthService defines the authentication operations required by the
// HTTP handlers.
type AuthService interface {
	// Register creates a user from the sign-up form.
	Register(ctx context.Context, form *service.RegisterForm) (*models.User, error)
	// Login checks the credentials and opens a session.
	Login(ctx context.Context, form *service.LoginForm) (*models.Session, error)
	// Logout closes the session with the given id.
	Logout(ctx context.Context, sessionID string)
}

// AuthHandler handles the registration, login and logout pages.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
	// SecureCookies marks the session cookie Secure.
	SecureCookies bool
	Log           *zap.Logger
}

// RegisterPage renders the sign-up form.
func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	p := newPage(r, "Register")
	p.Form = &service.RegisterForm{}
	render(w, http.StatusOK, p)
}

// Register creates an account and redirects to the login page. On failure
// the form is re-rendered with the submitted username and email.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	var form service.RegisterForm
	form.Bind(r.PostForm)

	if _, err := h.AuthService.Register(r.Context(), &form); err != nil {
		if apperr.KindOf(err) == apperr.KindValidation {
			renderForm(w, r, "Register", &form, nil, err)
			return
		}
		respondError(w, r, h.Log, err)
		return
	}
	redirect(w, r, "/auth/login")
}

// LoginPage renders the sign-in form.
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	p := newPage(r, "Login")
	p.Form = &service.LoginForm{}
	render(w, http.StatusOK, p)
}

// Login opens a session, sets the session cookie and redirects to the
// dashboard.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	var form service.LoginForm
	form.Bind(r.PostForm)

	sess, err := h.AuthService.Login(r.Context(), &form)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindValidation {
			renderForm(w, r, "Login", &form, nil, err)
			return
		}
		respondError(w, r, h.Log, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    sess.ID,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		MaxAge:   int(time.Until(sess.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	redirect(w, r, "/dashboard")
}

// Logout closes the current session, clears the cookie and redirects home.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.AuthService.Logout(r.Context(), middleware.SessionIDFromContext(r.Context()))

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	redirect(w, r, "/")
}
