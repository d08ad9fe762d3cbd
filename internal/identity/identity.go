// Package identity derives the caller identity from session state.
package identity

import (
	"time"

	"github.com/atinyakov/folio/internal/models"
)

// Resolve projects a session record onto the caller identity at time now.
// A missing, empty or expired session (including one without an expiry)
// yields an anonymous identity.
// Roles other than admin are reduced to the plain user role.
func Resolve(sess *models.Session, now time.Time) models.Identity {
	if sess == nil || sess.UserID == "" {
		return models.Anonymous()
	}
	if !now.Before(sess.ExpiresAt) {
		return models.Anonymous()
	}

	role := models.RoleUser
	if sess.Role == models.RoleAdmin {
		role = models.RoleAdmin
	}
	return models.Identity{
		UserID:   sess.UserID,
		Role:     role,
		Username: sess.Username,
	}
}
