package favorites

import (
	"context"

	"github.com/dmitrijs2005/snoozer/internal/server/models"
)

type Repository interface {
	Add(ctx context.Context, username, storyID string) error
	Remove(ctx context.Context, username, storyID string) error
	ListStories(ctx context.Context, username string) ([]models.Story, error)
}
