package service

import (
	"context"
	"sync"

	"github.com/atinyakov/folio/internal/apperr"
	"github.com/atinyakov/folio/internal/policy"
	"github.com/google/uuid"
)

// memStore is an in-memory Store keeping resources newest first.
type memStore[R Resource] struct {
	mu    sync.Mutex
	items []R
	setID func(R, string)
	// err, when set, is returned by every operation.
	err error
}

func newMemStore[R Resource](setID func(R, string), items ...R) *memStore[R] {
	return &memStore[R]{items: items, setID: setID}
}

func (s *memStore[R]) GetByID(_ context.Context, id string) (R, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero R
	if s.err != nil {
		return zero, s.err
	}
	for _, r := range s.items {
		if r.GetID() == id {
			return r, nil
		}
	}
	return zero, apperr.NotFound("not found")
}

func (s *memStore[R]) List(_ context.Context, f policy.Filter, limit int) ([]R, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
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

func (s *memStore[R]) Count(_ context.Context, f policy.Filter) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	n := 0
	for _, r := range s.items {
		if f.Matches(r) {
			n++
		}
	}
	return n, nil
}

func (s *memStore[R]) Create(_ context.Context, r R) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.setID(r, uuid.NewString())
	s.items = append([]R{r}, s.items...)
	return nil
}

func (s *memStore[R]) Update(_ context.Context, r R) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	for i, cur := range s.items {
		if cur.GetID() == r.GetID() {
			s.items[i] = r
			return nil
		}
	}
	return apperr.NotFound("not found")
}

func (s *memStore[R]) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	for i, r := range s.items {
		if r.GetID() == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
