package http

import (
	"net/http"

	"github.com/atinyakov/folio/internal/middleware"
	"github.com/atinyakov/folio/internal/models"
	"github.com/atinyakov/folio/internal/service"
	"github.com/atinyakov/folio/internal/upload"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// maxBodySize bounds every request body; it leaves room for an image
// upload plus the text fields.
const maxBodySize = upload.MaxImageSize + 1<<20

// Handlers bundles the page handlers mounted by NewRouter.
type Handlers struct {
	Auth     *AuthHandler
	Pages    *PageHandler
	Projects *ContentHandler[*models.Project, *service.ProjectForm]
	Posts    *ContentHandler[*models.BlogPost, *service.PostForm]
}

// NewRouter constructs the site handler.
//
// Middleware chain (applied in order):
//  1. RequestID, RealIP
//  2. WithRequestLogging(logger) logs every request, panics included
//  3. Recovery(logger)           turns panics into 500
//  4. RequestSize                caps bodies at the upload limit
//  5. MethodOverride             maps "_method" on POST to PUT/DELETE
//  6. Session(sessions, logger)  resolves the caller identity
func NewRouter(
	h Handlers,
	sessions middleware.SessionStore,
	uploadDir string,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(chiMiddleware.RequestSize(maxBodySize))
	r.Use(middleware.MethodOverride)
	r.Use(middleware.Session(sessions, logger))

	r.NotFound(NotFound)

	r.Get("/", h.Pages.Home)
	r.Get("/about", h.Pages.About)
	r.With(middleware.RequireAuth).Get("/dashboard", h.Pages.Dashboard)

	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireGuest)
			r.Get("/register", h.Auth.RegisterPage)
			r.Post("/register", h.Auth.Register)
			r.Get("/login", h.Auth.LoginPage)
			r.Post("/login", h.Auth.Login)
		})
		r.Get("/logout", h.Auth.Logout)
	})

	r.Route("/projects", contentRoutes(h.Projects))
	r.Route("/blog", contentRoutes(h.Posts))

	files := http.StripPrefix(upload.URLPrefix, http.FileServer(http.Dir(uploadDir)))
	r.Handle(upload.URLPrefix+"*", files)

	return r
}

// contentRoutes mounts the pages of one resource kind. Listing and showing
// are open to everyone; the service decides what each caller may see.
func contentRoutes[R service.Resource, F BoundForm[R]](h *ContentHandler[R, F]) func(chi.Router) {
	return func(r chi.Router) {
		r.Get("/", h.Index)
		r.Get("/{id}", h.Show)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/new", h.New)
			r.Post("/", h.Create)
			r.Get("/{id}/edit", h.Edit)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	}
}
