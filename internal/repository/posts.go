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

const postColumns = `b.id, b.owner_id, u.username, b.title, b.content, b.summary, b.tags,
	b.image_path, b.visibility, b.created_at, b.updated_at`

const postFrom = ` FROM blog_posts b JOIN users u ON u.id = b.owner_id`

// PostgresPostRepository implements blog post persistence against a PostgreSQL database.
type PostgresPostRepository struct {
	DB *sql.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository using the provided *sql.DB.
func NewPostgresPostRepository(db *sql.DB) *PostgresPostRepository {
	return &PostgresPostRepository{DB: db}
}

func scanPost(row rowScanner) (*models.BlogPost, error) {
	var b models.BlogPost
	var visibility string
	err := row.Scan(&b.ID, &b.OwnerID, &b.OwnerUsername, &b.Title, &b.Content, &b.Summary,
		pq.Array(&b.Tags), &b.ImagePath, &visibility, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	b.Visibility = models.Visibility(visibility)
	if b.Tags == nil {
		b.Tags = []string{}
	}
	return &b, nil
}

// GetByID fetches a single post with its author's username.
func (r *PostgresPostRepository) GetByID(ctx context.Context, id string) (*models.BlogPost, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+postColumns+postFrom+` WHERE b.id = $1`, id)
	b, err := scanPost(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("post %s not found", id)
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	return b, nil
}

// List returns posts matching f, newest first.
func (r *PostgresPostRepository) List(ctx context.Context, f policy.Filter, limit int) ([]*models.BlogPost, error) {
	where, args := whereClause(f, "b")
	lim, args := limitClause(limit, args)
	query := `SELECT ` + postColumns + postFrom + where + ` ORDER BY b.created_at DESC` + lim

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]*models.BlogPost, 0)
	for rows.Next() {
		b, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	return posts, nil
}

// Count returns the number of posts matching f.
func (r *PostgresPostRepository) Count(ctx context.Context, f policy.Filter) (int, error) {
	where, args := whereClause(f, "b")
	var n int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM blog_posts b`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return n, nil
}

// Create inserts a new post, assigning an id when none is set.
func (r *PostgresPostRepository) Create(ctx context.Context, b *models.BlogPost) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO blog_posts (id, owner_id, title, content, summary, tags, image_path, visibility, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, b.ID, b.OwnerID, b.Title, b.Content, b.Summary, pq.Array(b.Tags), b.ImagePath,
		string(b.Visibility), b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

// Update overwrites the editable columns of the post.
func (r *PostgresPostRepository) Update(ctx context.Context, b *models.BlogPost) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE blog_posts
		SET title = $1, content = $2, summary = $3, tags = $4, image_path = $5, visibility = $6, updated_at = $7
		WHERE id = $8
	`, b.Title, b.Content, b.Summary, pq.Array(b.Tags), b.ImagePath, string(b.Visibility), b.UpdatedAt, b.ID)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperr.NotFound("post %s not found", b.ID)
	}
	return nil
}

// Delete permanently removes the post and reports whether it existed.
func (r *PostgresPostRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete post: %w", err)
	}
	return n > 0, nil
}
