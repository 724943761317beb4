package stories

import (
	"context"

	"github.com/dmitrijs2005/snoozer/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, story *models.Story) (*models.Story, error)
	Get(ctx context.Context, id string) (*models.Story, error)
	List(ctx context.Context, skip, limit int) ([]models.Story, error)
	ListByUser(ctx context.Context, username string) ([]models.Story, error)
	Update(ctx context.Context, id, author, title string) (*models.Story, error)
}
