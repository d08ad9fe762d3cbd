// Package service orchestrates identity, stores and the access policy for
// every use case of the site, returning apperr outcomes on failure.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/atinyakov/folio/internal/apperr"
	"github.com/atinyakov/folio/internal/models"
	"github.com/atinyakov/folio/internal/policy"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Resource is a piece of owned, visibility-scoped content.
type Resource interface {
	policy.Subject
	GetID() string
}

// Store defines the persistence operations the content service needs for
// one resource kind.
type Store[R Resource] interface {
	// GetByID returns the resource or an error matching apperr.ErrNotFound.
	GetByID(ctx context.Context, id string) (R, error)
	// List returns resources matching f, newest first. limit <= 0 means no limit.
	List(ctx context.Context, f policy.Filter, limit int) ([]R, error)
	// Count returns the number of resources matching f.
	Count(ctx context.Context, f policy.Filter) (int, error)
	// Create persists a new resource, filling its id and timestamps.
	Create(ctx context.Context, r R) error
	// Update overwrites the stored resource with the same id.
	Update(ctx context.Context, r R) error
	// Delete removes the resource and reports whether a row was removed.
	Delete(ctx context.Context, id string) (bool, error)
}

// Form is a validated create/update submission for resources of type R.
type Form[R Resource] interface {
	Validate() error
	New(ownerID string, now time.Time) R
	Apply(r R, now time.Time)
}

// ContentService implements the list/show/create/edit/update/delete use
// cases for one resource kind.
type ContentService[R Resource, F Form[R]] struct {
	kind  string
	store Store[R]
	log   *zap.Logger
	now   func() time.Time
}

// NewContentService constructs a ContentService. kind names the resource in
// messages and logs ("project", "post").
func NewContentService[R Resource, F Form[R]](kind string, store Store[R], log *zap.Logger) *ContentService[R, F] {
	return &ContentService[R, F]{
		kind:  kind,
		store: store,
		log:   log,
		now:   time.Now,
	}
}

// List returns every public resource, newest first.
func (s *ContentService[R, F]) List(ctx context.Context) ([]R, error) {
	return s.Recent(ctx, 0)
}

// Recent returns at most limit public resources, newest first.
func (s *ContentService[R, F]) Recent(ctx context.Context, limit int) ([]R, error) {
	items, err := s.store.List(ctx, policy.PublicFilter(), limit)
	if err != nil {
		return nil, s.internal("list", err)
	}
	return items, nil
}

// Show returns the resource if id may read it. Absent and hidden resources
// produce the same not-found outcome.
func (s *ContentService[R, F]) Show(ctx context.Context, id models.Identity, resourceID string) (R, error) {
	var zero R
	r, err := s.load(ctx, resourceID)
	if err != nil {
		return zero, err
	}
	if !policy.CanRead(id, r) {
		return zero, s.notFound(resourceID)
	}
	return r, nil
}

// Create validates form and stores a new resource owned by the caller.
func (s *ContentService[R, F]) Create(ctx context.Context, id models.Identity, form F) (R, error) {
	var zero R
	if !id.Authenticated() {
		return zero, apperr.Unauthenticated()
	}
	if err := form.Validate(); err != nil {
		return zero, err
	}

	r := form.New(id.UserID, s.now())
	if err := s.store.Create(ctx, r); err != nil {
		return zero, s.internal("create", err)
	}

	s.log.Info(s.kind+" created",
		zap.String("id", r.GetID()),
		zap.String("owner_id", id.UserID),
	)
	return r, nil
}

// Edit returns the resource for editing if id may write it.
func (s *ContentService[R, F]) Edit(ctx context.Context, id models.Identity, resourceID string) (R, error) {
	return s.writable(ctx, id, resourceID)
}

// Update overwrites the resource's content from form if id may write it.
func (s *ContentService[R, F]) Update(ctx context.Context, id models.Identity, resourceID string, form F) (R, error) {
	var zero R
	r, err := s.writable(ctx, id, resourceID)
	if err != nil {
		return zero, err
	}
	if err := form.Validate(); err != nil {
		return zero, err
	}

	form.Apply(r, s.now())
	if err := s.store.Update(ctx, r); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return zero, s.notFound(resourceID)
		}
		return zero, s.internal("update", err)
	}

	s.log.Info(s.kind+" updated",
		zap.String("id", resourceID),
		zap.String("user_id", id.UserID),
	)
	return r, nil
}

// Delete permanently removes the resource if id may write it. Deleting an
// already removed resource is a not-found outcome.
func (s *ContentService[R, F]) Delete(ctx context.Context, id models.Identity, resourceID string) error {
	if _, err := s.writable(ctx, id, resourceID); err != nil {
		return err
	}

	removed, err := s.store.Delete(ctx, resourceID)
	if err != nil {
		return s.internal("delete", err)
	}
	if !removed {
		return s.notFound(resourceID)
	}

	s.log.Info(s.kind+" deleted",
		zap.String("id", resourceID),
		zap.String("user_id", id.UserID),
	)
	return nil
}

// writable loads the resource and checks write access. A known id the
// caller may not modify is forbidden rather than hidden.
func (s *ContentService[R, F]) writable(ctx context.Context, id models.Identity, resourceID string) (R, error) {
	var zero R
	if !id.Authenticated() {
		return zero, apperr.Unauthenticated()
	}
	r, err := s.load(ctx, resourceID)
	if err != nil {
		return zero, err
	}
	if !policy.CanWrite(id, r) {
		return zero, apperr.Forbidden("you may not modify this %s", s.kind)
	}
	return r, nil
}

func (s *ContentService[R, F]) load(ctx context.Context, resourceID string) (R, error) {
	var zero R
	if _, err := uuid.Parse(resourceID); err != nil {
		return zero, s.notFound(resourceID)
	}
	r, err := s.store.GetByID(ctx, resourceID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return zero, s.notFound(resourceID)
		}
		return zero, s.internal("get", err)
	}
	return r, nil
}

func (s *ContentService[R, F]) notFound(resourceID string) error {
	return apperr.NotFound("%s %s not found", s.kind, resourceID)
}

func (s *ContentService[R, F]) internal(op string, err error) error {
	s.log.Error(s.kind+" "+op+" failed", zap.Error(err))
	return apperr.Internal(err)
}
