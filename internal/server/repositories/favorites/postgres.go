// Package favorites provides a PostgreSQL-backed repository for the
// (username, story) favorite pairs.
package favorites

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/snoozer/internal/common"
	"github.com/dmitrijs2005/snoozer/internal/dbx"
	"github.com/dmitrijs2005/snoozer/internal/server/models"
	"github.com/dmitrijs2005/snoozer/internal/server/repositories/pgerr"
)

// PostgresRepository implements favorite storage over dbx.DBTX (satisfied by
// *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Add records storyID as a favorite of username. Adding an existing favorite
// is a no-op; an unknown story yields common.ErrorNotFound.
func (r *PostgresRepository) Add(ctx context.Context, username, storyID string) error {
	query := `
		INSERT INTO favorites (username, story_id)
		VALUES ($1, $2)
		ON CONFLICT (username, story_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, username, storyID); err != nil {
		if pgerr.IsForeignKeyViolation(err) || pgerr.IsInvalidInput(err) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Remove deletes the favorite pair. Removing a pair that does not exist is a
// no-op.
func (r *PostgresRepository) Remove(ctx context.Context, username, storyID string) error {
	query := `
		DELETE FROM favorites
		WHERE username = $1 AND story_id = $2
	`
	if _, err := r.db.ExecContext(ctx, query, username, storyID); err != nil {
		if pgerr.IsInvalidInput(err) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// ListStories returns the stories username favorited, in the order they
// were added.
func (r *PostgresRepository) ListStories(ctx context.Context, username string) ([]models.Story, error) {
	query := `
		SELECT s.id, s.username, s.author, s.title, s.url, s.created_at, s.updated_at
		FROM favorites f
		JOIN stories s ON s.id = f.story_id
		WHERE f.username = $1
		ORDER BY f.created_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("failed to select favorites: %w", err)
	}
	defer rows.Close()

	result := []models.Story{}
	for rows.Next() {
		var s models.Story
		if err := rows.Scan(&s.ID, &s.Username, &s.Author, &s.Title, &s.URL, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}
