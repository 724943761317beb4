package reconciler

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/snoozer/internal/client/api"
	"github.com/dmitrijs2005/snoozer/internal/client/view"
)

// ShowAll regenerates the global list from page 0, refetches the user when
// logged in, and shows the all-stories region.
func (r *Reconciler) ShowAll(ctx context.Context) error {
	r.show(view.RegionAllStories)

	if _, err := r.ReplaceStoryList(ctx, 0); err != nil {
		r.log.Warn(ctx, "failed to load stories", "error", err)
		return fmt.Errorf("show all: %w", err)
	}
	if r.State() == Authenticated {
		if err := r.refreshUser(ctx); err != nil {
			if api.IsAuthError(err) {
				r.dropToAnonymous(ctx)
				return fmt.Errorf("show all: %w", err)
			}
			r.log.Warn(ctx, "failed to refetch user", "error", err)
		}
	}
	r.redrawAll()
	return nil
}

// ShowFavorites draws the user's favorites from the live model.
func (r *Reconciler) ShowFavorites() error {
	u := r.User()
	if u == nil {
		return ErrNotLoggedIn
	}
	r.painter.DrawStories(view.RegionFavorites, view.StoryFragments(u.Favorites, u, false))
	r.show(view.RegionFavorites)
	return nil
}

// ShowMyArticles draws the user's own stories, newest first.
func (r *Reconciler) ShowMyArticles() error {
	u := r.User()
	if u == nil {
		return ErrNotLoggedIn
	}
	r.painter.DrawStories(view.RegionMyArticles, view.StoryFragments(u.OwnStoriesNewestFirst(), u, true))
	r.show(view.RegionMyArticles)
	return nil
}

func (r *Reconciler) ShowProfile() error {
	u := r.User()
	if u == nil {
		return ErrNotLoggedIn
	}
	r.painter.DrawProfile(profileOf(u))
	r.show(view.RegionUserProfile)
	return nil
}

func (r *Reconciler) OpenSubmit() error {
	if r.State() != Authenticated {
		return ErrNotLoggedIn
	}
	r.painter.DrawForm(view.Form{Region: view.RegionSubmitForm})
	r.show(view.RegionSubmitForm)
	return nil
}

func (r *Reconciler) ShowLogin() {
	r.painter.DrawForm(view.Form{Region: view.RegionLoginForm})
	r.show(view.RegionLoginForm)
}

func (r *Reconciler) ShowSignup() {
	r.painter.DrawForm(view.Form{Region: view.RegionSignupForm})
	r.show(view.RegionSignupForm)
}
