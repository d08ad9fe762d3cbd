package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVisibility_Valid(t *testing.T) {
	for v, want := range map[Visibility]bool{Public: true, Private: true, "": false, "hidden": false} {
		assert.Equalf(t, want, v.Valid(), "Visibility(%q).Valid()", v)
	}
}

func TestIdentity(t *testing.T) {
	assert.False(t, Anonymous().Authenticated())
	assert.False(t, (Identity{Role: RoleAdmin}).IsAdmin(), "admin role without a user id")
	assert.True(t, (Identity{UserID: "u1", Role: RoleAdmin}).IsAdmin())
}

func TestResourceAccessors(t *testing.T) {
	p := &Project{ID: "p1", OwnerID: "u1", Visibility: Private}
	assert.Equal(t, "p1", p.GetID())
	assert.Equal(t, "u1", p.OwnedBy())
	assert.Equal(t, Private, p.Visible())

	b := &BlogPost{ID: "b1", OwnerID: "u2", Visibility: Public}
	assert.Equal(t, "b1", b.GetID())
	assert.Equal(t, "u2", b.OwnedBy())
	assert.Equal(t, Public, b.Visible())
}
