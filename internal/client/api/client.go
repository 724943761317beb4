// Package api is the client side of the story API: login, signup, current
// user, paginated stories, story create/update and favorites.
//
// # Error Handling
//
// Failures are reported with sentinel errors that callers match with
// errors.Is: ErrUnauthorized (bad credentials or expired token),
// ErrForbidden (token not valid for the user or story), ErrConflict
// (duplicate username), ErrNotFound (stale story id), ErrUnavailable
// (transport failure, timeout or 5xx) and ErrRequest (any other rejected
// request). IsAuthError groups the first two. Nothing is retried here.
package api

import (
	"context"

	"github.com/dmitrijs2005/snoozer/internal/client/models"
)

// Client is the transport-agnostic API contract the reconciler consumes.
type Client interface {
	Login(ctx context.Context, username, password string) (*models.User, error)
	Signup(ctx context.Context, username, password, name string) (*models.User, error)
	FetchUser(ctx context.Context, token, username string) (*models.User, error)
	FetchStories(ctx context.Context, skip int) ([]models.Story, error)
	CreateStory(ctx context.Context, token string, story models.NewStory) (models.Story, error)
	UpdateStory(ctx context.Context, token, storyID string, update models.StoryUpdate) (models.Story, error)
	AddFavorite(ctx context.Context, token, username, storyID string) error
	RemoveFavorite(ctx context.Context, token, username, storyID string) error
}
