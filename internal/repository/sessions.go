package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/atinyakov/folio/internal/apperr"
	"github.com/atinyakov/folio/internal/models"
)

// PostgresSessionRepository stores login sessions in PostgreSQL.
type PostgresSessionRepository struct {
	DB *sql.DB
}

// NewPostgresSessionRepository creates a new PostgresSessionRepository.
func NewPostgresSessionRepository(db *sql.DB) *PostgresSessionRepository {
	return &PostgresSessionRepository{DB: db}
}

// Create stores a new session.
func (r *PostgresSessionRepository) Create(ctx context.Context, s *models.Session) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, role, username, expires_at) VALUES ($1, $2, $3, $4, $5)
	`, s.ID, s.UserID, string(s.Role), s.Username, s.ExpiresAt)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// Get fetches a session by id. Expiry is left to the caller; expired rows
// are removed by the session cleaner.
func (r *PostgresSessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	var s models.Session
	var role string
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, user_id, role, username, expires_at FROM sessions WHERE id = $1
	`, id).Scan(&s.ID, &s.UserID, &role, &s.Username, &s.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("session not found")
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	s.Role = models.Role(role)
	return &s, nil
}

// Delete removes a session. Deleting an unknown id is not an error.
func (r *PostgresSessionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
