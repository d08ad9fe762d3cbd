package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/atinyakov/folio/internal/apperr"
	"github.com/atinyakov/folio/internal/middleware"
	"github.com/atinyakov/folio/internal/models"
	"github.com/atinyakov/folio/internal/policy"
	"github.com/atinyakov/folio/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// mapStore is an in-memory service.Store, newest first.
type mapStore[R service.Resource] struct {
	mu    sync.Mutex
	items []R
	setID func(R, string)
}

func (s *mapStore[R]) GetByID(_ context.Context, id string) (R, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.items {
		if r.GetID() == id {
			return r, nil
		}
	}
	var zero R
	return zero, apperr.NotFound("not found")
}

func (s *mapStore[R]) List(_ context.Context, f policy.Filter, limit int) ([]R, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]R, 0)
	for _, r := range s.items {
		if limit > 0 && len(out) == limit {
			break
		}
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *mapStore[R]) Count(ctx context.Context, f policy.Filter) (int, error) {
	items, err := s.List(ctx, f, 0)
	return len(items), err
}

func (s *mapStore[R]) Create(_ context.Context, r R) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setID(r, uuid.NewString())
	s.items = append([]R{r}, s.items...)
	return nil
}

func (s *mapStore[R]) Update(_ context.Context, r R) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cur := range s.items {
		if cur.GetID() == r.GetID() {
			s.items[i] = r
			return nil
		}
	}
	return apperr.NotFound("not found")
}

func (s *mapStore[R]) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.items {
		if r.GetID() == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// fakeSessions maps cookie values to sessions.
type fakeSessions map[string]*models.Session

func (f fakeSessions) Get(_ context.Context, id string) (*models.Session, error) {
	if s, ok := f[id]; ok {
		return s, nil
	}
	return nil, apperr.NotFound("session not found")
}

// fakeUploader returns a fixed reference or error.
type fakeUploader struct {
	path    string
	err     error
	calls   int
	removed []string
}

func (f *fakeUploader) Save(*http.Request, string) (string, error) {
	f.calls++
	return f.path, f.err
}

func (f *fakeUploader) Remove(ref string) error {
	f.removed = append(f.removed, ref)
	return nil
}

type fakeAuthService struct {
	RegisterFunc func(ctx context.Context, form *service.RegisterForm) (*models.User, error)
	LoginFunc    func(ctx context.Context, form *service.LoginForm) (*models.Session, error)
	loggedOut    []string
}

func (f *fakeAuthService) Register(ctx context.Context, form *service.RegisterForm) (*models.User, error) {
	return f.RegisterFunc(ctx, form)
}

func (f *fakeAuthService) Login(ctx context.Context, form *service.LoginForm) (*models.Session, error) {
	return f.LoginFunc(ctx, form)
}

func (f *fakeAuthService) Logout(_ context.Context, sessionID string) {
	f.loggedOut = append(f.loggedOut, sessionID)
}

type fakeOverview struct {
	home      *service.Home
	dashboard *service.Dashboard
	err       error
	gotID     models.Identity
}

func (f *fakeOverview) Home(context.Context) (*service.Home, error) {
	return f.home, f.err
}

func (f *fakeOverview) Dashboard(_ context.Context, id models.Identity) (*service.Dashboard, error) {
	f.gotID = id
	return f.dashboard, f.err
}

// testPage mirrors page for decoding responses.
type testPage struct {
	Title   string            `json:"title"`
	User    *viewer           `json:"user"`
	Data    json.RawMessage   `json:"data"`
	Form    map[string]any    `json:"form"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

func decodePage(t *testing.T, rec *httptest.ResponseRecorder) testPage {
	t.Helper()
	var p testPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p), rec.Body.String())
	return p
}

func formRequest(method, target string, values url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func withIdentity(req *http.Request, id models.Identity) *http.Request {
	return req.WithContext(middleware.WithIdentity(req.Context(), id))
}

func liveSession(id, userID string, role models.Role, username string) *models.Session {
	return &models.Session{ID: id, UserID: userID, Role: role, Username: username, ExpiresAt: time.Now().Add(time.Hour)}
}
