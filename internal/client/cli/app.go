package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/snoozer/internal/client/api"
	"github.com/dmitrijs2005/snoozer/internal/client/config"
	"github.com/dmitrijs2005/snoozer/internal/client/models"
	"github.com/dmitrijs2005/snoozer/internal/client/reconciler"
	"github.com/dmitrijs2005/snoozer/internal/client/session"
	"github.com/dmitrijs2005/snoozer/internal/client/view"
	"github.com/dmitrijs2005/snoozer/internal/filex"
	"github.com/dmitrijs2005/snoozer/internal/logging"
)

// controller is the reconciler surface the REPL drives.
type controller interface {
	Start(ctx context.Context) error
	State() reconciler.State
	User() *models.User
	Login(ctx context.Context, username, password string) error
	Signup(ctx context.Context, username, password, name string) error
	Logout(ctx context.Context) error
	ToggleFavorite(ctx context.Context, storyID string) error
	SubmitStory(ctx context.Context, story models.NewStory) (models.Story, error)
	OpenEdit(storyID string) (models.Story, error)
	EditStory(ctx context.Context, storyID string, update models.StoryUpdate) (models.Story, error)
	LoadMore(ctx context.Context) error
	OnScroll(ctx context.Context, s view.Scroll) error
	ShowAll(ctx context.Context) error
	ShowFavorites() error
	ShowMyArticles() error
	ShowProfile() error
	OpenSubmit() error
	ShowLogin()
	ShowSignup()
}

var _ controller = (*reconciler.Reconciler)(nil)

type App struct {
	config  *config.Config
	log     logging.Logger
	store   *session.Store
	ctrl    controller
	painter *TerminalPainter
	reader  *bufio.Reader
	out     io.Writer
}

// NewApp opens the session store and wires the API client, painter and
// reconciler.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log := logging.NewTextLogger(os.Stderr, c.LogLevel)

	if _, err := filex.EnsureParentDir(c.SessionDBPath); err != nil {
		return nil, fmt.Errorf("session directory: %w", err)
	}
	store, err := session.Open(ctx, c.SessionDBPath)
	if err != nil {
		log.Error(ctx, "error initializing session store", "path", c.SessionDBPath, "error", err)
		return nil, err
	}

	apiClient := api.NewHTTPClient(c.APIBaseURL, c.RequestTimeout)
	painter := NewTerminalPainter(os.Stdout, view.DefaultStyles(), 10)
	rec := reconciler.New(apiClient, store, painter, log)

	return &App{
		config:  c,
		log:     log,
		store:   store,
		ctrl:    rec,
		painter: painter,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}, nil
}

// Run loads the initial view and runs the REPL until the user exits.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if a.store != nil {
			_ = a.store.Close()
		}
	}()

	printlnFn("Welcome to snoozer (type 'help' for commands)")
	if err := a.ctrl.Start(ctx); err != nil {
		a.log.Warn(ctx, "initial load failed", "error", err)
	}
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.ctrl.State() == reconciler.Authenticated
}

func (a *App) getStatus() string {
	if u := a.ctrl.User(); u != nil {
		return fmt.Sprintf("(%s)", u.Username)
	}
	return ""
}
