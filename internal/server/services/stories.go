package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/snoozer/internal/common"
	"github.com/dmitrijs2005/snoozer/internal/dbx"
	"github.com/dmitrijs2005/snoozer/internal/server/models"
	"github.com/dmitrijs2005/snoozer/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// StoryService lists, creates and edits stories.
type StoryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	newID       func() string
}

func NewStoryService(db *sql.DB, m repomanager.RepositoryManager) *StoryService {
	return &StoryService{db: db, repomanager: m, newID: uuid.NewString}
}

// List returns up to limit stories after skip, newest first. limit is
// clamped to the page size.
func (s *StoryService) List(ctx context.Context, skip, limit int) ([]models.Story, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > common.StoriesPageSize {
		limit = common.StoriesPageSize
	}
	stories, err := s.repomanager.Stories(s.db).List(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing stories: %w", err)
	}
	return stories, nil
}

// Create stores a new story owned by username.
func (s *StoryService) Create(ctx context.Context, username, author, title, url string) (*models.Story, error) {
	author, title, url = strings.TrimSpace(author), strings.TrimSpace(title), strings.TrimSpace(url)
	if author == "" || title == "" || url == "" {
		return nil, fmt.Errorf("%w: author, title and url are required", common.ErrorValidation)
	}

	story := &models.Story{ID: s.newID(), Username: username, Author: author, Title: title, URL: url}
	created, err := s.repomanager.Stories(s.db).Create(ctx, story)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error creating story: %w", err)
	}
	return created, nil
}

// Update changes author and title of a story owned by username. The URL
// stays as submitted. Someone else's story yields common.ErrorForbidden.
func (s *StoryService) Update(ctx context.Context, username, id, author, title string) (*models.Story, error) {
	author, title = strings.TrimSpace(author), strings.TrimSpace(title)
	if author == "" || title == "" {
		return nil, fmt.Errorf("%w: author and title are required", common.ErrorValidation)
	}

	var updated *models.Story
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Stories(tx)
		current, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if current.Username != username {
			return common.ErrorForbidden
		}
		updated, err = repo.Update(ctx, id, author, title)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
