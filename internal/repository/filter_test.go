package repository

import (
	"testing"

	"github.com/atinyakov/folio/internal/models"
	"github.com/atinyakov/folio/internal/policy"
	"github.com/stretchr/testify/assert"
)

func TestWhereClause(t *testing.T) {
	tests := []struct {
		name      string
		filter    policy.Filter
		wantWhere string
		wantArgs  []any
	}{
		{"unrestricted", policy.Filter{}, "", nil},
		{"match none", policy.Filter{MatchNone: true, OwnerID: "u1"}, " WHERE FALSE", nil},
		{"owner", policy.Filter{OwnerID: "u1"}, " WHERE p.owner_id = $1", []any{"u1"}},
		{"public", policy.PublicFilter(), " WHERE p.visibility = $1", []any{"public"}},
		{
			"owner and visibility",
			policy.Filter{OwnerID: "u1", Visibility: models.Private},
			" WHERE p.owner_id = $1 AND p.visibility = $2",
			[]any{"u1", "private"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := whereClause(tt.filter, "p")
			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestLimitClause(t *testing.T) {
	lim, args := limitClause(0, []any{"public"})
	assert.Equal(t, "", lim)
	assert.Equal(t, []any{"public"}, args)

	lim, args = limitClause(5, []any{"public"})
	assert.Equal(t, " LIMIT $2", lim)
	assert.Equal(t, []any{"public", 5}, args)

	lim, args = limitClause(3, nil)
	assert.Equal(t, " LIMIT $1", lim)
	assert.Equal(t, []any{3}, args)
}
