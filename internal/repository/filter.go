package repository

import (
	"fmt"
	"strings"

	"github.com/atinyakov/folio/internal/policy"
)

// whereClause renders f as a SQL WHERE clause over the table aliased as
// alias. Placeholders are numbered from 1.
func whereClause(f policy.Filter, alias string) (string, []any) {
	if f.MatchNone {
		return " WHERE FALSE", nil
	}

	var conds []string
	var args []any
	if f.OwnerID != "" {
		args = append(args, f.OwnerID)
		conds = append(conds, fmt.Sprintf("%s.owner_id = $%d", alias, len(args)))
	}
	if f.Visibility != "" {
		args = append(args, string(f.Visibility))
		conds = append(conds, fmt.Sprintf("%s.visibility = $%d", alias, len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// limitClause appends a LIMIT placeholder when limit is positive.
func limitClause(limit int, args []any) (string, []any) {
	if limit <= 0 {
		return "", args
	}
	args = append(args, limit)
	return fmt.Sprintf(" LIMIT $%d", len(args)), args
}
