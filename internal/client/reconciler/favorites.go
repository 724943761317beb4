package reconciler

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/snoozer/internal/client/api"
	"github.com/dmitrijs2005/snoozer/internal/client/models"
)

// ToggleFavorite flips storyID's membership in the user's favorites.
//
// The local favorites change only after the API confirms the add or remove.
// An add records the full story when it is known locally and a bare
// {StoryID} record otherwise. The user is then refetched regardless, and the
// star is redrawn from whatever the model holds afterwards.
func (r *Reconciler) ToggleFavorite(ctx context.Context, storyID string) error {
	token, username, err := r.credentials()
	if err != nil {
		return err
	}

	return r.guard.Do(favoriteKey(storyID), func() error {
		r.mu.Lock()
		present := r.user != nil && r.user.IsFavorite(storyID)
		r.mu.Unlock()

		if present {
			if err := r.api.RemoveFavorite(ctx, token, username, storyID); err != nil {
				return r.remoteFailed(ctx, "remove favorite", err)
			}
			r.mu.Lock()
			if r.user != nil {
				r.user.RemoveFavoriteAt(r.user.FavoriteIndex(storyID))
			}
			r.mu.Unlock()
		} else {
			if err := r.api.AddFavorite(ctx, token, username, storyID); err != nil {
				return r.remoteFailed(ctx, "add favorite", err)
			}
			r.mu.Lock()
			if r.user != nil {
				r.user.AddFavorite(r.knownStory(storyID))
			}
			r.mu.Unlock()
		}

		if err := r.refreshUser(ctx); err != nil {
			if api.IsAuthError(err) {
				r.dropToAnonymous(ctx)
				return fmt.Errorf("refetch user: %w", err)
			}
			r.log.Warn(ctx, "failed to refetch user after favorite toggle", "story_id", storyID, "error", err)
		}

		r.mu.Lock()
		starred := r.user.IsFavorite(storyID)
		r.mu.Unlock()
		r.painter.SetStar(storyID, starred)
		r.redrawActive()
		return nil
	})
}

// knownStory returns the full story for id from the global list or the
// user's own stories, or a bare record carrying only the id. Callers hold mu.
func (r *Reconciler) knownStory(id string) models.Story {
	if s, ok := r.stories.Find(id); ok {
		return s
	}
	if s, ok := r.user.FindOwnStory(id); ok {
		return s
	}
	return models.Story{StoryID: id}
}
