package service

import (
	"context"
	"errors"
	"time"

	"github.com/atinyakov/folio/internal/apperr"
	"github.com/atinyakov/folio/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository defines the persistence operations
// required by the authentication service.
type UserRepository interface {
	// Exists returns true if a user with the given username or email exists.
	Exists(ctx context.Context, username, email string) (bool, error)
	// Create stores a new user. A duplicate username or email yields
	// an error matching apperr.ErrConflict.
	Create(ctx context.Context, u *models.User) error
	// GetByEmail returns the user or an error matching apperr.ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// SessionRepository defines the session persistence used at login and logout.
type SessionRepository interface {
	Create(ctx context.Context, s *models.Session) error
	Delete(ctx context.Context, id string) error
}

const (
	msgTaken       = "this email or username is already in use"
	msgBadLogin    = "invalid email or password"
	bcryptCost     = bcrypt.DefaultCost
	defaultSession = 24 * time.Hour
)

// AuthService implements registration, login and logout.
type AuthService struct {
	users    UserRepository
	sessions SessionRepository
	ttl      time.Duration
	log      *zap.Logger
	now      func() time.Time
}

// NewAuthService constructs an AuthService. Sessions created at login live
// for ttl; a non-positive ttl falls back to one day.
func NewAuthService(users UserRepository, sessions SessionRepository, ttl time.Duration, log *zap.Logger) *AuthService {
	if ttl <= 0 {
		ttl = defaultSession
	}
	return &AuthService{
		users:    users,
		sessions: sessions,
		ttl:      ttl,
		log:      log,
		now:      time.Now,
	}
}

// Register validates the form and creates a user with the plain user role.
func (s *AuthService) Register(ctx context.Context, form *RegisterForm) (*models.User, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.users.Exists(ctx, form.Username, form.Email)
	if err != nil {
		s.log.Error("check user failed", zap.Error(err))
		return nil, apperr.Internal(err)
	}
	if exists {
		return nil, &apperr.Error{Kind: apperr.KindValidation, Message: msgTaken}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcryptCost)
	if err != nil {
		s.log.Error("hash password failed", zap.Error(err))
		return nil, apperr.Internal(err)
	}

	u := &models.User{
		Username:     form.Username,
		Email:        form.Email,
		PasswordHash: hash,
		Role:         models.RoleUser,
		CreatedAt:    s.now(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, &apperr.Error{Kind: apperr.KindValidation, Message: msgTaken}
		}
		s.log.Error("create user failed", zap.Error(err))
		return nil, apperr.Internal(err)
	}

	s.log.Info("user registered", zap.String("id", u.ID), zap.String("username", u.Username))
	return u, nil
}

// Login checks the credentials and opens a new session. Unknown emails and
// wrong passwords produce the same validation outcome.
func (s *AuthService) Login(ctx context.Context, form *LoginForm) (*models.Session, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	u, err := s.users.GetByEmail(ctx, form.Email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, &apperr.Error{Kind: apperr.KindValidation, Message: msgBadLogin}
		}
		s.log.Error("get user failed", zap.Error(err))
		return nil, apperr.Internal(err)
	}
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(form.Password)); err != nil {
		return nil, &apperr.Error{Kind: apperr.KindValidation, Message: msgBadLogin}
	}

	sess := &models.Session{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		Role:      u.Role,
		Username:  u.Username,
		ExpiresAt: s.now().Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		s.log.Error("create session failed", zap.Error(err))
		return nil, apperr.Internal(err)
	}

	s.log.Info("user logged in", zap.String("user_id", u.ID))
	return sess, nil
}

// Logout removes the session. Failures are logged only; the caller is
// signed out either way.
func (s *AuthService) Logout(ctx context.Context, sessionID string) {
	if sessionID == "" {
		return
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		s.log.Error("delete session failed", zap.Error(err))
	}
}

// TTL returns the lifetime of sessions opened by Login.
func (s *AuthService) TTL() time.Duration {
	return s.ttl
}
