package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/atinyakov/folio/internal/apperr"
	"github.com/atinyakov/folio/internal/models"
	"github.com/atinyakov/folio/internal/policy"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const projectColumns = `p.id, p.owner_id, u.username, p.title, p.description, p.technologies,
	p.repo_url, p.live_url, p.image_path, p.visibility, p.created_at, p.updated_at`

const projectFrom = ` FROM projects p JOIN users u ON u.id = p.owner_id`

// PostgresProjectRepository implements project persistence against a PostgreSQL database.
type PostgresProjectRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresProjectRepository creates a new PostgresProjectRepository using the provided *sql.DB.
func NewPostgresProjectRepository(db *sql.DB) *PostgresProjectRepository {
	return &PostgresProjectRepository{DB: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*models.Project, error) {
	var p models.Project
	var visibility string
	err := row.Scan(&p.ID, &p.OwnerID, &p.OwnerUsername, &p.Title, &p.Description,
		pq.Array(&p.Technologies), &p.RepoURL, &p.LiveURL, &p.ImagePath, &visibility,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Visibility = models.Visibility(visibility)
	if p.Technologies == nil {
		p.Technologies = []string{}
	}
	return &p, nil
}

// GetByID fetches a single project with its owner's username.
//
//	ctx: context for cancellation and deadlines
//	id:  project id
//
// Returns an error matching apperr.ErrNotFound when no row exists.
func (r *PostgresProjectRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+projectColumns+projectFrom+` WHERE p.id = $1`, id)
	p, err := scanProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("project %s not found", id)
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

// List returns projects matching f, newest first, at most limit rows when
// limit is positive.
func (r *PostgresProjectRepository) List(ctx context.Context, f policy.Filter, limit int) ([]*models.Project, error) {
	where, args := whereClause(f, "p")
	lim, args := limitClause(limit, args)
	query := `SELECT ` + projectColumns + projectFrom + where + ` ORDER BY p.created_at DESC` + lim

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	projects := make([]*models.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}
	return projects, nil
}

// Count returns the number of projects matching f.
func (r *PostgresProjectRepository) Count(ctx context.Context, f policy.Filter) (int, error) {
	where, args := whereClause(f, "p")
	var n int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects p`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count projects: %w", err)
	}
	return n, nil
}

// Create inserts a new project, assigning an id when none is set.
func (r *PostgresProjectRepository) Create(ctx context.Context, p *models.Project) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO projects (id, owner_id, title, description, technologies, repo_url, live_url, image_path, visibility, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, p.ID, p.OwnerID, p.Title, p.Description, pq.Array(p.Technologies), p.RepoURL, p.LiveURL,
		p.ImagePath, string(p.Visibility), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

// Update overwrites the editable columns of the project. Owner and creation
// time are never written.
func (r *PostgresProjectRepository) Update(ctx context.Context, p *models.Project) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE projects
		SET title = $1, description = $2, technologies = $3, repo_url = $4, live_url = $5,
			image_path = $6, visibility = $7, updated_at = $8
		WHERE id = $9
	`, p.Title, p.Description, pq.Array(p.Technologies), p.RepoURL, p.LiveURL,
		p.ImagePath, string(p.Visibility), p.UpdatedAt, p.ID)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperr.NotFound("project %s not found", p.ID)
	}
	return nil
}

// Delete permanently removes the project and reports whether it existed.
func (r *PostgresProjectRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete project: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete project: %w", err)
	}
	return n > 0, nil
}
