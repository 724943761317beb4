package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/snoozer/internal/client/api"
	"github.com/dmitrijs2005/snoozer/internal/client/models"
	"github.com/dmitrijs2005/snoozer/internal/client/reconciler"
	"github.com/dmitrijs2005/snoozer/internal/common"
)

// getSimpleText, getTextWithDefault and getPassword are indirections used to
// facilitate testing.
var (
	getSimpleText      = GetSimpleText
	getTextWithDefault = GetTextWithDefault
	getPassword        = GetPassword
)

// report prints errors the painter has not already shown inline.
func (a *App) report(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, reconciler.ErrBusy):
		printlnFn("Still working on the previous request.")
	case errors.Is(err, reconciler.ErrNotLoggedIn):
		printlnFn("You need to log in first.")
	default:
		printlnFn("Error:", err)
	}
	return err
}

// reportForm is report for form commands. A rejection from the server is
// already drawn on the form, so only local failures (busy, logged out, prompt
// read errors) are printed.
func (a *App) reportForm(err error) error {
	if err == nil || shownOnForm(err) {
		return err
	}
	return a.report(err)
}

func shownOnForm(err error) bool {
	for _, target := range []error{
		api.ErrUnauthorized, api.ErrForbidden, api.ErrConflict,
		api.ErrNotFound, api.ErrUnavailable, api.ErrRequest, reconciler.ErrNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Login prompts for credentials and logs in. A rejected login is shown as a
// form error by the painter.
func (a *App) Login(ctx context.Context) error {
	a.ctrl.ShowLogin()

	username, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return a.reportForm(err)
	}
	password, err := getPassword(a.out)
	if err != nil {
		return a.reportForm(err)
	}
	defer common.WipeByteArray(password)

	return a.reportForm(a.ctrl.Login(ctx, username, string(password)))
}

// Signup prompts for a name and credentials and creates the account.
func (a *App) Signup(ctx context.Context) error {
	a.ctrl.ShowSignup()

	name, err := getSimpleText(a.reader, "Name", a.out)
	if err != nil {
		return a.reportForm(err)
	}
	username, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return a.reportForm(err)
	}
	password, err := getPassword(a.out)
	if err != nil {
		return a.reportForm(err)
	}
	defer common.WipeByteArray(password)

	return a.reportForm(a.ctrl.Signup(ctx, username, string(password), name))
}

func (a *App) Logout(ctx context.Context) error {
	return a.report(a.ctrl.Logout(ctx))
}

func (a *App) All(ctx context.Context) error {
	return a.report(a.ctrl.ShowAll(ctx))
}

func (a *App) Favorites(context.Context) error {
	return a.report(a.ctrl.ShowFavorites())
}

func (a *App) Mine(context.Context) error {
	return a.report(a.ctrl.ShowMyArticles())
}

func (a *App) Profile(context.Context) error {
	return a.report(a.ctrl.ShowProfile())
}

func (a *App) More(ctx context.Context) error {
	return a.report(a.ctrl.LoadMore(ctx))
}

// Scroll moves the story viewport down; reaching the bottom loads the next
// page.
func (a *App) Scroll(ctx context.Context) error {
	return a.report(a.ctrl.OnScroll(ctx, a.painter.Scroll()))
}

func (a *App) Favorite(ctx context.Context, storyID string) error {
	return a.report(a.ctrl.ToggleFavorite(ctx, storyID))
}

// Submit prompts for author, title and url and submits a new story.
func (a *App) Submit(ctx context.Context) error {
	if err := a.ctrl.OpenSubmit(); err != nil {
		return a.report(err)
	}

	var s models.NewStory
	var err error
	if s.Author, err = getSimpleText(a.reader, "Author", a.out); err != nil {
		return a.reportForm(err)
	}
	if s.Title, err = getSimpleText(a.reader, "Title", a.out); err != nil {
		return a.reportForm(err)
	}
	if s.URL, err = getSimpleText(a.reader, "URL", a.out); err != nil {
		return a.reportForm(err)
	}

	created, err := a.ctrl.SubmitStory(ctx, s)
	if err != nil {
		return a.reportForm(err)
	}
	printlnFn("Submitted", created.StoryID)
	return nil
}

// Edit opens one of the user's stories and prompts for a new author and
// title. The URL cannot be changed.
func (a *App) Edit(ctx context.Context, storyID string) error {
	current, err := a.ctrl.OpenEdit(storyID)
	if err != nil {
		return a.report(err)
	}

	var upd models.StoryUpdate
	if upd.Author, err = getTextWithDefault(a.reader, "Author", current.Author, a.out); err != nil {
		return a.reportForm(err)
	}
	if upd.Title, err = getTextWithDefault(a.reader, "Title", current.Title, a.out); err != nil {
		return a.reportForm(err)
	}

	if _, err := a.ctrl.EditStory(ctx, storyID, upd); err != nil {
		return a.reportForm(err)
	}
	printlnFn("Updated", storyID)
	return nil
}
