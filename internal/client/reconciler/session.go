package reconciler

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/snoozer/internal/client/api"
	"github.com/dmitrijs2005/snoozer/internal/client/models"
	"github.com/dmitrijs2005/snoozer/internal/client/view"
	"golang.org/x/sync/errgroup"
)

// ResolveSession turns the persisted (token, username) pair into a user. It
// returns nil on any failure; a store that cannot be read counts as logged
// out.
func (r *Reconciler) ResolveSession(ctx context.Context) *models.User {
	creds, ok, err := r.store.Load(ctx)
	if err != nil {
		r.log.Warn(ctx, "session store unavailable, continuing logged out", "error", err)
		return nil
	}
	if !ok {
		return nil
	}

	u, err := r.api.FetchUser(ctx, creds.Token, creds.Username)
	if err != nil {
		r.log.Warn(ctx, "could not resume session", "username", creds.Username, "error", err)
		if api.IsAuthError(err) {
			r.clearStore(ctx)
		}
		return nil
	}
	return u
}

// Start resolves the session and loads the first page of stories, then draws
// nav and the all-stories region. Both reads run concurrently.
func (r *Reconciler) Start(ctx context.Context) error {
	var (
		user *models.User
		page []models.Story
	)

	// a plain Group: a failed story fetch must not cancel the session lookup
	var g errgroup.Group
	g.Go(func() error {
		user = r.ResolveSession(ctx)
		return nil
	})
	g.Go(func() error {
		var err error
		page, err = r.api.FetchStories(ctx, 0)
		return err
	})
	err := g.Wait()

	r.mu.Lock()
	r.user = user
	r.issued++
	r.applied = r.issued
	r.stories.Replace(page)
	r.offset = 0
	if err == nil {
		r.offset = pageSize
	}
	r.mu.Unlock()

	r.regions.Show(view.RegionAllStories)
	r.redrawAll()
	r.painter.ShowRegion(view.RegionAllStories)

	if err != nil {
		r.log.Error(ctx, "failed to load stories", "error", err)
		return fmt.Errorf("start: %w", err)
	}
	r.log.Info(ctx, "started", "state", r.State().String(), "stories", len(page))
	return nil
}

// Login authenticates and, on success, persists the session and redraws as
// Authenticated.
func (r *Reconciler) Login(ctx context.Context, username, password string) error {
	return r.guard.Do(keyAuth, func() error {
		u, err := r.api.Login(ctx, username, password)
		if err != nil {
			return r.authFailed(ctx, view.RegionLoginForm, "login", err)
		}
		r.becomeAuthenticated(ctx, u)
		return nil
	})
}

// Signup creates an account and logs it in. A duplicate username keeps the
// signup form open with an inline error.
func (r *Reconciler) Signup(ctx context.Context, username, password, name string) error {
	return r.guard.Do(keyAuth, func() error {
		u, err := r.api.Signup(ctx, username, password, name)
		if err != nil {
			return r.authFailed(ctx, view.RegionSignupForm, "signup", err)
		}
		r.becomeAuthenticated(ctx, u)
		return nil
	})
}

func (r *Reconciler) authFailed(ctx context.Context, form view.Region, op string, err error) error {
	var msg string
	switch {
	case errors.Is(err, api.ErrUnauthorized):
		msg = "Invalid username or password."
	case errors.Is(err, api.ErrConflict):
		msg = "That username is already taken."
	case api.IsNetworkError(err):
		r.log.Warn(ctx, op+" failed", "error", err)
		msg = "Server unavailable, try again."
	default:
		msg = err.Error()
	}
	r.painter.DrawForm(view.Form{Region: form, Error: msg})
	return fmt.Errorf("%s: %w", op, err)
}

func (r *Reconciler) becomeAuthenticated(ctx context.Context, u *models.User) {
	if err := r.store.Save(ctx, u.LoginToken, u.Username); err != nil {
		r.log.Warn(ctx, "failed to persist session", "error", err)
	}

	r.mu.Lock()
	r.user = u
	r.issued++
	r.applied = r.issued
	r.mu.Unlock()

	r.regions.Show(view.RegionAllStories)
	r.redrawAll()
	r.painter.ShowRegion(view.RegionAllStories)
	r.log.Info(ctx, "logged in", "username", u.Username)
}

// Logout clears the session and resets the client as if freshly started.
func (r *Reconciler) Logout(ctx context.Context) error {
	r.clearStore(ctx)

	r.mu.Lock()
	r.user = nil
	r.stories = models.StoryList{}
	r.offset = 0
	r.mu.Unlock()

	r.log.Info(ctx, "logged out")
	return r.Start(ctx)
}

func (r *Reconciler) clearStore(ctx context.Context) {
	if err := r.store.Clear(ctx); err != nil {
		r.log.Warn(ctx, "failed to clear session", "error", err)
	}
}

// dropToAnonymous handles an expired or revoked token: the session is
// cleared, the user dropped and every auth-only region hidden.
func (r *Reconciler) dropToAnonymous(ctx context.Context) {
	r.clearStore(ctx)

	r.mu.Lock()
	r.user = nil
	r.mu.Unlock()

	r.regions.Reset()
	r.redrawAll()
	r.painter.ShowRegion(r.regions.Active())
	r.log.Warn(ctx, "session rejected by server, logged out")
}

// refreshUser refetches the live user. A response is applied only if no
// later refetch has been applied already and the same user is still logged
// in.
func (r *Reconciler) refreshUser(ctx context.Context) error {
	r.mu.Lock()
	if r.user == nil {
		r.mu.Unlock()
		return ErrNotLoggedIn
	}
	r.issued++
	seq := r.issued
	token, username := r.user.LoginToken, r.user.Username
	r.mu.Unlock()

	fresh, err := r.api.FetchUser(ctx, token, username)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.user == nil || r.user.Username != username {
		return nil
	}
	if seq < r.applied {
		r.log.Debug(ctx, "discarding stale user refetch", "seq", seq, "applied", r.applied)
		return nil
	}
	r.applied = seq
	r.user = fresh
	return nil
}

// remoteFailed is the common failure path for authenticated actions.
func (r *Reconciler) remoteFailed(ctx context.Context, op string, err error) error {
	switch {
	case api.IsAuthError(err):
		r.dropToAnonymous(ctx)
	case api.IsNetworkError(err):
		r.log.Warn(ctx, op+" failed", "error", err)
	default:
		r.log.Info(ctx, op+" rejected", "error", err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
