package service

import (
	"context"

	"github.com/atinyakov/folio/internal/apperr"
	"github.com/atinyakov/folio/internal/models"
	"github.com/atinyakov/folio/internal/policy"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// HomeProjects is the number of public projects on the home page.
	HomeProjects = 6
	// HomePosts is the number of public posts on the home page.
	HomePosts = 3
	// DashboardWindow is the number of recent items per kind on the dashboard.
	DashboardWindow = 5
)

// Home is the view-model of the landing page.
type Home struct {
	Projects []*models.Project  `json:"projects"`
	Posts    []*models.BlogPost `json:"posts"`
}

// Stats holds the dashboard totals.
type Stats struct {
	ProjectCount int `json:"projectCount"`
	PostCount    int `json:"postCount"`
}

// Dashboard is the view-model of the signed-in overview.
type Dashboard struct {
	Projects []*models.Project  `json:"projects"`
	Posts    []*models.BlogPost `json:"posts"`
	Stats    Stats              `json:"stats"`
}

// OverviewService builds the aggregate pages spanning both resource kinds.
type OverviewService struct {
	projects Store[*models.Project]
	posts    Store[*models.BlogPost]
	log      *zap.Logger
}

// NewOverviewService constructs an OverviewService over both stores.
func NewOverviewService(projects Store[*models.Project], posts Store[*models.BlogPost], log *zap.Logger) *OverviewService {
	return &OverviewService{projects: projects, posts: posts, log: log}
}

// Home returns the latest public projects and posts.
func (s *OverviewService) Home(ctx context.Context) (*Home, error) {
	public := policy.PublicFilter()

	projects, err := s.projects.List(ctx, public, HomeProjects)
	if err != nil {
		s.log.Error("home projects failed", zap.Error(err))
		return nil, apperr.Internal(err)
	}
	posts, err := s.posts.List(ctx, public, HomePosts)
	if err != nil {
		s.log.Error("home posts failed", zap.Error(err))
		return nil, apperr.Internal(err)
	}
	return &Home{Projects: projects, Posts: posts}, nil
}

// Dashboard returns the recent window and totals visible to id: everything
// for admins, the caller's own content otherwise. The four reads run
// concurrently.
func (s *OverviewService) Dashboard(ctx context.Context, id models.Identity) (*Dashboard, error) {
	if !id.Authenticated() {
		return nil, apperr.Unauthenticated()
	}
	f := policy.ListFilter(id)

	var d Dashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		d.Projects, err = s.projects.List(gctx, f, DashboardWindow)
		return err
	})
	g.Go(func() error {
		var err error
		d.Posts, err = s.posts.List(gctx, f, DashboardWindow)
		return err
	})
	g.Go(func() error {
		var err error
		d.Stats.ProjectCount, err = s.projects.Count(gctx, f)
		return err
	})
	g.Go(func() error {
		var err error
		d.Stats.PostCount, err = s.posts.Count(gctx, f)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Error("dashboard failed", zap.String("user_id", id.UserID), zap.Error(err))
		return nil, apperr.Internal(err)
	}
	return &d, nil
}
