// Package models defines the core data structures for users, sessions,
// caller identities and the two kinds of published content.
package models

import "time"

// Role is the privilege level stored for a user.
type Role string

const (
	// RoleUser is the default role; it may manage only its own content.
	RoleUser Role = "user"
	// RoleAdmin may read and manage content of every owner.
	RoleAdmin Role = "admin"
)

// Visibility controls who may read a resource.
type Visibility string

const (
	// Public resources are readable by everyone, including anonymous visitors.
	Public Visibility = "public"
	// Private resources are readable only by their owner and admins.
	Private Visibility = "private"
)

// Valid reports whether v is one of the two defined visibility values.
func (v Visibility) Valid() bool {
	return v == Public || v == Private
}

// Identity is the resolved caller of a single request.
// The zero value is an anonymous caller.
type Identity struct {
	// UserID is empty for anonymous callers.
	UserID string
	// Role is RoleUser or RoleAdmin for authenticated callers.
	Role Role
	// Username is kept for display only.
	Username string
}

// Anonymous returns the identity of a caller without a session.
func Anonymous() Identity {
	return Identity{}
}

// Authenticated reports whether the caller carries a user id.
func (i Identity) Authenticated() bool {
	return i.UserID != ""
}

// IsAdmin reports whether the caller is an authenticated admin.
func (i Identity) IsAdmin() bool {
	return i.Authenticated() && i.Role == RoleAdmin
}

// User represents a registered account.
type User struct {
	// ID is the unique identifier for the user.
	ID string
	// Username is the public display name, unique across users.
	Username string
	// Email is the login address, stored lower-cased.
	Email string
	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash []byte
	// Role is the privilege level of the account.
	Role Role
	// CreatedAt is the registration time.
	CreatedAt time.Time
}

// Session is the server-side record behind a session cookie.
type Session struct {
	// ID is the random token stored in the cookie.
	ID string
	// UserID identifies the signed-in user.
	UserID string
	// Role is the user's role at login time.
	Role Role
	// Username is the user's name at login time.
	Username string
	// ExpiresAt is the end of the session's fixed lifetime.
	ExpiresAt time.Time
}

// Project is a portfolio entry.
type Project struct {
	ID            string     `json:"id"`
	OwnerID       string     `json:"ownerId"`
	OwnerUsername string     `json:"ownerUsername"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Technologies  []string   `json:"technologies"`
	RepoURL       string     `json:"repoUrl,omitempty"`
	LiveURL       string     `json:"liveUrl,omitempty"`
	ImagePath     string     `json:"imagePath,omitempty"`
	Visibility    Visibility `json:"visibility"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// BlogPost is a blog article.
type BlogPost struct {
	ID            string     `json:"id"`
	OwnerID       string     `json:"ownerId"`
	OwnerUsername string     `json:"ownerUsername"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	Summary       string     `json:"summary,omitempty"`
	Tags          []string   `json:"tags"`
	ImagePath     string     `json:"imagePath,omitempty"`
	Visibility    Visibility `json:"visibility"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// GetID returns the project id.
func (p *Project) GetID() string { return p.ID }

// OwnedBy returns the id of the user who created the project.
func (p *Project) OwnedBy() string { return p.OwnerID }

// Visible returns the project's visibility.
func (p *Project) Visible() Visibility { return p.Visibility }

// GetID returns the post id.
func (b *BlogPost) GetID() string { return b.ID }

// OwnedBy returns the id of the user who wrote the post.
func (b *BlogPost) OwnedBy() string { return b.OwnerID }

// Visible returns the post's visibility.
func (b *BlogPost) Visible() Visibility { return b.Visibility }
