// Package stories provides the PostgreSQL-backed story repository.
package stories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/snoozer/internal/common"
	"github.com/dmitrijs2005/snoozer/internal/dbx"
	"github.com/dmitrijs2005/snoozer/internal/server/models"
	"github.com/dmitrijs2005/snoozer/internal/server/repositories/pgerr"
)

// PostgresRepository implements story storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts story with its caller-assigned ID. An unknown owner yields
// common.ErrorNotFound.
func (r *PostgresRepository) Create(ctx context.Context, story *models.Story) (*models.Story, error) {
	query :=
		`INSERT INTO stories (id, username, author, title, url)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		story.ID, story.Username, story.Author, story.Title, story.URL).
		Scan(&story.CreatedAt, &story.UpdatedAt)
	if err != nil {
		if pgerr.IsForeignKeyViolation(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return story, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Story, error) {
	query :=
		`SELECT id, username, author, title, url, created_at, updated_at FROM stories
		 WHERE id = $1
		 `

	s := &models.Story{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&s.ID, &s.Username, &s.Author, &s.Title, &s.URL, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || pgerr.IsInvalidInput(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

// List returns one page of stories, newest first.
func (r *PostgresRepository) List(ctx context.Context, skip, limit int) ([]models.Story, error) {
	query :=
		`SELECT id, username, author, title, url, created_at, updated_at FROM stories
		 ORDER BY created_at DESC, id DESC
		 LIMIT $1 OFFSET $2
		 `

	rows, err := r.db.QueryContext(ctx, query, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("failed to select stories: %w", err)
	}
	return scanStories(rows)
}

// ListByUser returns the stories submitted by username, oldest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, username string) ([]models.Story, error) {
	query :=
		`SELECT id, username, author, title, url, created_at, updated_at FROM stories
		 WHERE username = $1
		 ORDER BY created_at ASC, id ASC
		 `

	rows, err := r.db.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("failed to select stories: %w", err)
	}
	return scanStories(rows)
}

// Update rewrites author and title. The URL column is never touched.
func (r *PostgresRepository) Update(ctx context.Context, id, author, title string) (*models.Story, error) {
	query :=
		`UPDATE stories SET author = $2, title = $3, updated_at = now()
		 WHERE id = $1
		 RETURNING id, username, author, title, url, created_at, updated_at
		 `

	s := &models.Story{}
	err := r.db.QueryRowContext(ctx, query, id, author, title).
		Scan(&s.ID, &s.Username, &s.Author, &s.Title, &s.URL, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || pgerr.IsInvalidInput(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func scanStories(rows *sql.Rows) ([]models.Story, error) {
	defer rows.Close()

	result := []models.Story{}
	for rows.Next() {
		var s models.Story
		if err := rows.Scan(&s.ID, &s.Username, &s.Author, &s.Title, &s.URL, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
