package http

import (
	"context"
	"net/http"
	"net/url"

	"github.com/atinyakov/folio/internal/apperr"
	"github.com/atinyakov/folio/internal/middleware"
	"github.com/atinyakov/folio/internal/models"
	"github.com/atinyakov/folio/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ContentService defines the content use cases the handlers need for one
// resource kind.
type ContentService[R service.Resource, F service.Form[R]] interface {
	List(ctx context.Context) ([]R, error)
	Show(ctx context.Context, id models.Identity, resourceID string) (R, error)
	Create(ctx context.Context, id models.Identity, form F) (R, error)
	Edit(ctx context.Context, id models.Identity, resourceID string) (R, error)
	Update(ctx context.Context, id models.Identity, resourceID string, form F) (R, error)
	Delete(ctx context.Context, id models.Identity, resourceID string) error
}

// BoundForm is a content form that can be filled from a request.
type BoundForm[R service.Resource] interface {
	service.Form[R]
	Bind(url.Values)
	SetImage(path string)
}

// Uploader stores the optional image of a content form.
type Uploader interface {
	Save(r *http.Request, field string) (string, error)
	// Remove deletes a file returned by Save.
	Remove(ref string) error
}

// Titles holds the page titles of one resource kind.
type Titles struct {
	List string
	Show string
	New  string
	Edit string
}

// ContentHandler serves the list/show/create/edit/update/delete pages of
// one resource kind.
type ContentHandler[R service.Resource, F BoundForm[R]] struct {
	// Service performs the content use cases.
	Service ContentService[R, F]
	// Uploads stores the "image" file of create and update submissions.
	Uploads Uploader
	// NewForm returns an empty form.
	NewForm func() F
	// Path is the collection path, e.g. "/projects".
	Path   string
	Titles Titles
	Log    *zap.Logger
}

// Index lists every public resource.
func (h *ContentHandler[R, F]) Index(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.List(r.Context())
	if err != nil {
		respondError(w, r, h.Log, err)
		return
	}
	p := newPage(r, h.Titles.List)
	p.Data = items
	render(w, http.StatusOK, p)
}

// New renders the empty create form.
func (h *ContentHandler[R, F]) New(w http.ResponseWriter, r *http.Request) {
	p := newPage(r, h.Titles.New)
	p.Form = h.NewForm()
	render(w, http.StatusOK, p)
}

// Create stores a new resource owned by the caller and redirects to the
// dashboard.
func (h *ContentHandler[R, F]) Create(w http.ResponseWriter, r *http.Request) {
	form, image, ok := h.bind(w, r, h.Titles.New, nil)
	if !ok {
		return
	}

	id := middleware.IdentityFromContext(r.Context())
	if _, err := h.Service.Create(r.Context(), id, form); err != nil {
		h.discard(image)
		h.fail(w, r, h.Titles.New, form, nil, err)
		return
	}
	redirect(w, r, "/dashboard")
}

// Show renders a single resource if the caller may read it.
func (h *ContentHandler[R, F]) Show(w http.ResponseWriter, r *http.Request) {
	id := middleware.IdentityFromContext(r.Context())
	item, err := h.Service.Show(r.Context(), id, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, h.Log, err)
		return
	}
	p := newPage(r, h.Titles.Show)
	p.Data = item
	render(w, http.StatusOK, p)
}

// Edit renders the edit form of a resource the caller may modify.
func (h *ContentHandler[R, F]) Edit(w http.ResponseWriter, r *http.Request) {
	id := middleware.IdentityFromContext(r.Context())
	item, err := h.Service.Edit(r.Context(), id, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, h.Log, err)
		return
	}
	p := newPage(r, h.Titles.Edit)
	p.Data = item
	render(w, http.StatusOK, p)
}

// Update overwrites a resource and redirects to its page.
func (h *ContentHandler[R, F]) Update(w http.ResponseWriter, r *http.Request) {
	resourceID := chi.URLParam(r, "id")
	ref := map[string]string{"id": resourceID}

	form, image, ok := h.bind(w, r, h.Titles.Edit, ref)
	if !ok {
		return
	}

	id := middleware.IdentityFromContext(r.Context())
	if _, err := h.Service.Update(r.Context(), id, resourceID, form); err != nil {
		h.discard(image)
		h.fail(w, r, h.Titles.Edit, form, ref, err)
		return
	}
	redirect(w, r, h.Path+"/"+url.PathEscape(resourceID))
}

// Delete removes a resource and redirects to the dashboard.
func (h *ContentHandler[R, F]) Delete(w http.ResponseWriter, r *http.Request) {
	id := middleware.IdentityFromContext(r.Context())
	if err := h.Service.Delete(r.Context(), id, chi.URLParam(r, "id")); err != nil {
		respondError(w, r, h.Log, err)
		return
	}
	redirect(w, r, "/dashboard")
}

// bind parses the submission, validates it and stores its image. Field
// validation runs before the upload; callers discard the returned image
// when the service later rejects the form.
func (h *ContentHandler[R, F]) bind(w http.ResponseWriter, r *http.Request, title string, data any) (F, string, bool) {
	form := h.NewForm()
	if err := parseForm(r); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return form, "", false
	}
	form.Bind(r.PostForm)

	if err := form.Validate(); err != nil {
		h.fail(w, r, title, form, data, err)
		return form, "", false
	}

	path, err := h.Uploads.Save(r, "image")
	if err != nil {
		h.fail(w, r, title, form, data, err)
		return form, "", false
	}
	form.SetImage(path)
	return form, path, true
}

// discard removes an image stored for a submission that was not persisted.
func (h *ContentHandler[R, F]) discard(image string) {
	if image == "" {
		return
	}
	if err := h.Uploads.Remove(image); err != nil {
		h.Log.Warn("failed to remove orphaned upload", zap.String("image", image), zap.Error(err))
	}
}

func (h *ContentHandler[R, F]) fail(w http.ResponseWriter, r *http.Request, title string, form F, data any, err error) {
	if apperr.KindOf(err) == apperr.KindValidation {
		renderForm(w, r, title, form, data, err)
		return
	}
	respondError(w, r, h.Log, err)
}
