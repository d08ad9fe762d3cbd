package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/atinyakov/folio/internal/apperr"
	"github.com/atinyakov/folio/internal/middleware"
	"github.com/atinyakov/folio/internal/models"
	"github.com/atinyakov/folio/internal/upload"
	"go.uber.org/zap"
)

// maxFormMemory bounds the in-memory part of a multipart form.
const maxFormMemory = upload.MaxImageSize + 1<<20

// viewer is the signed-in user as exposed to every page.
type viewer struct {
	ID       string      `json:"id"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
}

// page is the view-model envelope of every rendered response.
type page struct {
	Title   string            `json:"title"`
	User    *viewer           `json:"user"`
	Data    any               `json:"data,omitempty"`
	Form    any               `json:"form,omitempty"`
	Message string            `json:"message,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func newPage(r *http.Request, title string) page {
	p := page{Title: title}
	if id := middleware.IdentityFromContext(r.Context()); id.Authenticated() {
		p.User = &viewer{ID: id.UserID, Username: id.Username, Role: id.Role}
	}
	return p
}

// render writes p as JSON with the given status.
func render(w http.ResponseWriter, status int, p page) {
	payload, err := json.Marshal(p)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}

// redirect answers a successful form submission.
func redirect(w http.ResponseWriter, r *http.Request, location string) {
	http.Redirect(w, r, location, http.StatusSeeOther)
}

// renderForm re-displays a form after a validation failure, echoing the
// submitted values and attaching the field messages.
func renderForm(w http.ResponseWriter, r *http.Request, title string, form any, data any, err error) {
	p := newPage(r, title)
	p.Form = form
	p.Data = data
	p.Errors = apperr.FieldsOf(err)
	var ae *apperr.Error
	if errors.As(err, &ae) {
		p.Message = ae.Message
	}
	render(w, http.StatusUnprocessableEntity, p)
}

// respondError maps an outcome to its HTTP response. Internal failures are
// logged and reported without detail.
func respondError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		render(w, http.StatusNotFound, newPage(r, "Not Found"))
	case apperr.KindForbidden:
		render(w, http.StatusForbidden, newPage(r, "Forbidden"))
	case apperr.KindUnauthenticated:
		redirect(w, r, "/auth/login")
	case apperr.KindValidation:
		p := newPage(r, "Bad Request")
		p.Errors = apperr.FieldsOf(err)
		render(w, http.StatusUnprocessableEntity, p)
	default:
		log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		render(w, http.StatusInternalServerError, newPage(r, "Internal Error"))
	}
}

// parseForm parses url-encoded and multipart bodies alike.
func parseForm(r *http.Request) error {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return err
	}
	return nil
}

// NotFound renders the 404 page for unknown routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	render(w, http.StatusNotFound, newPage(r, "Not Found"))
}
