package reconciler

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/snoozer/internal/client/api"
	"github.com/dmitrijs2005/snoozer/internal/client/models"
	"github.com/dmitrijs2005/snoozer/internal/client/view"
	"github.com/dmitrijs2005/snoozer/internal/common"
)

const pageSize = common.StoriesPageSize

// ReplaceStoryList fetches the page at skip. Page 0 replaces the list
// wholesale; later pages are appended, and a page that was already applied
// appends nothing. It returns the stories that were added to the list.
func (r *Reconciler) ReplaceStoryList(ctx context.Context, skip int) ([]models.Story, error) {
	page, err := r.api.FetchStories(ctx, skip)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if skip == 0 {
		r.stories.Replace(page)
		r.offset = pageSize
		return page, nil
	}

	added := r.stories.Append(page)
	if next := skip + pageSize; next > r.offset {
		r.offset = next
	}
	return added, nil
}

// LoadMore fetches the next page and appends it to the list and to the drawn
// all-stories region. The offset moves only when the fetch succeeds.
func (r *Reconciler) LoadMore(ctx context.Context) error {
	return r.guard.Do(keyPage, func() error {
		skip := r.Offset()
		added, err := r.ReplaceStoryList(ctx, skip)
		if err != nil {
			r.log.Warn(ctx, "failed to load more stories", "skip", skip, "error", err)
			return fmt.Errorf("load more: %w", err)
		}
		if len(added) == 0 {
			return nil
		}

		r.mu.Lock()
		frags := view.StoryFragments(added, r.user, false)
		r.mu.Unlock()
		r.painter.AppendStories(view.RegionAllStories, frags)
		return nil
	})
}

// OnScroll loads the next page when the viewport reaches the bottom of the
// all-stories region. A scroll event that arrives while a page is already
// loading is dropped.
func (r *Reconciler) OnScroll(ctx context.Context, s view.Scroll) error {
	if !view.AtBottom(s) || r.regions.Active() != view.RegionAllStories {
		return nil
	}
	err := r.LoadMore(ctx)
	if errors.Is(err, ErrBusy) {
		return nil
	}
	return err
}

// SubmitStory creates a story, then regenerates the list and refetches the
// user so the global list and the user's own stories agree.
func (r *Reconciler) SubmitStory(ctx context.Context, story models.NewStory) (models.Story, error) {
	token, _, err := r.credentials()
	if err != nil {
		return models.Story{}, err
	}

	var created models.Story
	err = r.guard.Do(keySubmit, func() error {
		form := view.Form{Region: view.RegionSubmitForm, Author: story.Author, Title: story.Title, URL: story.URL}

		var err error
		created, err = r.api.CreateStory(ctx, token, story)
		if err != nil {
			return r.formFailed(ctx, form, "submit story", err)
		}
		r.log.Info(ctx, "story submitted", "story_id", created.StoryID)

		r.afterStoryMutation(ctx)
		r.show(view.RegionAllStories)
		return nil
	})
	return created, err
}

// OpenEdit looks storyID up among the user's own stories and opens the edit
// form prefilled with it.
func (r *Reconciler) OpenEdit(storyID string) (models.Story, error) {
	r.mu.Lock()
	if r.user == nil {
		r.mu.Unlock()
		return models.Story{}, ErrNotLoggedIn
	}
	s, ok := r.user.FindOwnStory(storyID)
	r.mu.Unlock()
	if !ok {
		return models.Story{}, fmt.Errorf("%w: %s", ErrNotFound, storyID)
	}

	r.painter.DrawForm(view.Form{
		Region:  view.RegionEditForm,
		StoryID: s.StoryID,
		Author:  s.Author,
		Title:   s.Title,
		URL:     s.URL,
	})
	r.show(view.RegionEditForm)
	return s, nil
}

// EditStory updates the author and title of one of the user's stories. The
// URL is never sent.
func (r *Reconciler) EditStory(ctx context.Context, storyID string, update models.StoryUpdate) (models.Story, error) {
	r.mu.Lock()
	if r.user == nil {
		r.mu.Unlock()
		return models.Story{}, ErrNotLoggedIn
	}
	token := r.user.LoginToken
	current, ok := r.user.FindOwnStory(storyID)
	r.mu.Unlock()

	form := view.Form{Region: view.RegionEditForm, StoryID: storyID, Author: update.Author, Title: update.Title, URL: current.URL}
	if !ok {
		form.Error = "This story no longer exists."
		r.painter.DrawForm(form)
		return models.Story{}, fmt.Errorf("%w: %s", ErrNotFound, storyID)
	}

	var updated models.Story
	err := r.guard.Do(keySubmit, func() error {
		var err error
		updated, err = r.api.UpdateStory(ctx, token, storyID, update)
		if err != nil {
			return r.formFailed(ctx, form, "edit story", err)
		}
		r.log.Info(ctx, "story updated", "story_id", storyID)

		r.afterStoryMutation(ctx)
		r.show(view.RegionMyArticles)
		return nil
	})
	return updated, err
}

// afterStoryMutation regenerates the list from page 0 and refetches the user
// before anything is redrawn.
func (r *Reconciler) afterStoryMutation(ctx context.Context) {
	if _, err := r.ReplaceStoryList(ctx, 0); err != nil {
		r.log.Warn(ctx, "failed to regenerate story list", "error", err)
	}
	if err := r.refreshUser(ctx); err != nil {
		if api.IsAuthError(err) {
			r.dropToAnonymous(ctx)
			return
		}
		r.log.Warn(ctx, "failed to refetch user", "error", err)
	}
	r.painter.DrawStories(view.RegionAllStories, r.allStoriesFragments())
	r.redrawMine()
}

func (r *Reconciler) redrawMine() {
	r.mu.Lock()
	u := r.user.Clone()
	r.mu.Unlock()
	if u == nil {
		return
	}
	r.painter.DrawStories(view.RegionMyArticles, view.StoryFragments(u.OwnStoriesNewestFirst(), u, true))
}

// formFailed reports a failed form submission inline. Not-found and forbidden
// get their own messages; an expired session logs the client out.
func (r *Reconciler) formFailed(ctx context.Context, form view.Form, op string, err error) error {
	switch {
	case errors.Is(err, api.ErrNotFound):
		form.Error = "This story no longer exists."
		r.painter.DrawForm(form)
		return fmt.Errorf("%s: %w: %w", op, ErrNotFound, err)
	case errors.Is(err, api.ErrForbidden):
		form.Error = "You can only edit your own stories."
		r.painter.DrawForm(form)
		r.log.Info(ctx, op+" forbidden", "story_id", form.StoryID, "error", err)
		return fmt.Errorf("%s: %w", op, err)
	case errors.Is(err, api.ErrUnauthorized):
		return r.remoteFailed(ctx, op, err)
	case api.IsNetworkError(err):
		form.Error = "Server unavailable, try again."
	default:
		form.Error = err.Error()
	}
	r.painter.DrawForm(form)
	return r.remoteFailed(ctx, op, err)
}
