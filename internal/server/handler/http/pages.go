package http

import (
	"context"
	"net/http"

	"github.com/atinyakov/folio/internal/middleware"
	"github.com/atinyakov/folio/internal/models"
	"github.com/atinyakov/folio/internal/service"
	"go.uber.org/zap"
)

// OverviewService defines the aggregate reads behind the home and
// dashboard pages.
type OverviewService interface {
	Home(ctx context.Context) (*service.Home, error)
	Dashboard(ctx context.Context, id models.Identity) (*service.Dashboard, error)
}

// PageHandler serves the home, about and dashboard pages.
type PageHandler struct {
	Overview OverviewService
	Log      *zap.Logger
}

// Home renders the latest public projects and posts.
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	home, err := h.Overview.Home(r.Context())
	if err != nil {
		respondError(w, r, h.Log, err)
		return
	}
	p := newPage(r, "Home")
	p.Data = home
	render(w, http.StatusOK, p)
}

// About renders the static about page.
func (h *PageHandler) About(w http.ResponseWriter, r *http.Request) {
	render(w, http.StatusOK, newPage(r, "About"))
}

// Dashboard renders the caller's recent content and totals.
func (h *PageHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	id := middleware.IdentityFromContext(r.Context())
	d, err := h.Overview.Dashboard(r.Context(), id)
	if err != nil {
		respondError(w, r, h.Log, err)
		return
	}
	p := newPage(r, "Dashboard")
	p.Data = d
	render(w, http.StatusOK, p)
}
