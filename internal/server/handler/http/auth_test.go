package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/atinyakov/folio/internal/apperr"
	"github.com/atinyakov/folio/internal/middleware"
	"github.com/atinyakov/folio/internal/models"
	"github.com/atinyakov/folio/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// unusedUsers fails the test if the service reaches the user store.
type unusedUsers struct{ t *testing.T }

func (u unusedUsers) Exists(context.Context, string, string) (bool, error) {
	u.t.Error("unexpected Exists call")
	return false, nil
}

func (u unusedUsers) Create(context.Context, *models.User) error {
	u.t.Error("unexpected Create call")
	return nil
}

func (u unusedUsers) GetByEmail(context.Context, string) (*models.User, error) {
	u.t.Error("unexpected GetByEmail call")
	return nil, nil
}

type unusedSessions struct{}

func (unusedSessions) Create(context.Context, *models.Session) error { return nil }
func (unusedSessions) Delete(context.Context, string) error          { return nil }

func TestAuthHandler_RegisterShortUsername(t *testing.T) {
	svc := service.NewAuthService(unusedUsers{t}, unusedSessions{}, time.Hour, zap.NewNop())
	h := &AuthHandler{AuthService: svc, Log: zap.NewNop()}

	req := formRequest(http.MethodPost, "/auth/register", url.Values{
		"username": {"ab"},
		"email":    {"ab@example.com"},
		"password": {"secret1"},
	})
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	p := decodePage(t, rec)
	assert.Equal(t, "Register", p.Title)
	assert.Equal(t, "ab", p.Form["username"])
	assert.Equal(t, "ab@example.com", p.Form["email"])
	assert.NotContains(t, p.Form, "password")
	assert.Equal(t, "username must be at least 3 characters", p.Errors["username"])
}

func TestAuthHandler_Register(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode int
		location     string
		message      string
	}{
		{name: "created", expectedCode: http.StatusSeeOther, location: "/auth/login"},
		{
			name:         "taken",
			err:          &apperr.Error{Kind: apperr.KindValidation, Message: "this email or username is already in use"},
			expectedCode: http.StatusUnprocessableEntity,
			message:      "this email or username is already in use",
		},
		{name: "internal", err: apperr.Internal(errors.New("db error")), expectedCode: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeAuthService{
				RegisterFunc: func(ctx context.Context, form *service.RegisterForm) (*models.User, error) {
					assert.Equal(t, "ann@example.com", form.Email, "email is normalised")
					return &models.User{ID: "u1"}, tt.err
				},
			}
			h := &AuthHandler{AuthService: svc, Log: zap.NewNop()}

			rec := httptest.NewRecorder()
			h.Register(rec, formRequest(http.MethodPost, "/auth/register", url.Values{
				"username": {"ann"}, "email": {"Ann@Example.com"}, "password": {"secret1"},
			}))

			assert.Equal(t, tt.expectedCode, rec.Code)
			assert.Equal(t, tt.location, rec.Header().Get("Location"))
			if tt.message != "" {
				assert.Equal(t, tt.message, decodePage(t, rec).Message)
			}
			assert.NotContains(t, rec.Body.String(), "db error")
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	expires := time.Now().Add(24 * time.Hour)
	svc := &fakeAuthService{
		LoginFunc: func(ctx context.Context, form *service.LoginForm) (*models.Session, error) {
			if form.Password != "secret1" {
				return nil, &apperr.Error{Kind: apperr.KindValidation, Message: "invalid email or password"}
			}
			return &models.Session{ID: "sid-1", UserID: "u1", ExpiresAt: expires}, nil
		},
	}

	t.Run("success sets cookie", func(t *testing.T) {
		h := &AuthHandler{AuthService: svc, SecureCookies: true, Log: zap.NewNop()}
		rec := httptest.NewRecorder()
		h.Login(rec, formRequest(http.MethodPost, "/auth/login", url.Values{"email": {"a@example.com"}, "password": {"secret1"}}))

		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/dashboard", rec.Header().Get("Location"))

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		c := cookies[0]
		assert.Equal(t, middleware.SessionCookie, c.Name)
		assert.Equal(t, "sid-1", c.Value)
		assert.True(t, c.HttpOnly)
		assert.True(t, c.Secure)
		assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
		assert.Greater(t, c.MaxAge, 0)
	})

	t.Run("bad credentials", func(t *testing.T) {
		h := &AuthHandler{AuthService: svc, Log: zap.NewNop()}
		rec := httptest.NewRecorder()
		h.Login(rec, formRequest(http.MethodPost, "/auth/login", url.Values{"email": {"a@example.com"}, "password": {"nope"}}))

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		p := decodePage(t, rec)
		assert.Equal(t, "invalid email or password", p.Message)
		assert.Equal(t, "a@example.com", p.Form["email"])
		assert.Empty(t, rec.Result().Cookies())
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	svc := &fakeAuthService{}
	h := &AuthHandler{AuthService: svc, Log: zap.NewNop()}

	req := httptest.NewRequest(http.MethodGet, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "sid-1"})
	rec := httptest.NewRecorder()
	sessions := fakeSessions{"sid-1": liveSession("sid-1", "u1", models.RoleUser, "ann")}
	middleware.Session(sessions, zap.NewNop())(http.HandlerFunc(h.Logout)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Equal(t, []string{"sid-1"}, svc.loggedOut)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "", cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
}
