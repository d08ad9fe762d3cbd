// Package policy holds the pure access decisions for published content.
// Nothing here performs I/O; callers pass the resolved identity explicitly.
package policy

import "github.com/atinyakov/folio/internal/models"

// Subject is the access-relevant view of a resource.
type Subject interface {
	OwnedBy() string
	Visible() models.Visibility
}

// Filter restricts which resources a listing may return.
// The zero value is unrestricted.
type Filter struct {
	// OwnerID, when set, keeps only resources created by that user.
	OwnerID string
	// Visibility, when set, keeps only resources with that visibility.
	Visibility models.Visibility
	// MatchNone rejects every resource.
	MatchNone bool
}

// Unrestricted reports whether f lets every resource through.
func (f Filter) Unrestricted() bool {
	return !f.MatchNone && f.OwnerID == "" && f.Visibility == ""
}

// Matches evaluates f against a single resource.
func (f Filter) Matches(s Subject) bool {
	if f.MatchNone {
		return false
	}
	if f.OwnerID != "" && s.OwnedBy() != f.OwnerID {
		return false
	}
	if f.Visibility != "" && s.Visible() != f.Visibility {
		return false
	}
	return true
}

// CanManage reports whether id owns s or is an admin.
func CanManage(id models.Identity, s Subject) bool {
	if !id.Authenticated() {
		return false
	}
	return id.UserID == s.OwnedBy() || id.IsAdmin()
}

// CanRead reports whether id may see s. Public resources are readable by
// everyone; private ones only by their owner and admins.
func CanRead(id models.Identity, s Subject) bool {
	if s.Visible() == models.Public {
		return true
	}
	return CanManage(id, s)
}

// CanWrite reports whether id may update or delete s.
func CanWrite(id models.Identity, s Subject) bool {
	return CanManage(id, s)
}

// ListFilter returns the dashboard filter for id: admins see everything,
// other users see only their own content regardless of visibility.
func ListFilter(id models.Identity) Filter {
	switch {
	case id.IsAdmin():
		return Filter{}
	case id.Authenticated():
		return Filter{OwnerID: id.UserID}
	default:
		return Filter{MatchNone: true}
	}
}

// PublicFilter is used by every public listing, whoever is asking.
func PublicFilter() Filter {
	return Filter{Visibility: models.Public}
}
