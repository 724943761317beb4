// Package reconciler keeps the client's in-memory user and story list in
// sync with the remote API, the persisted session and the drawn regions.
//
// Every action follows the same order: remote mutation, then local model
// mutation, then redraw. Nothing local changes before the API has confirmed a
// mutation, and a failed call leaves the model and the screen as they were.
//
// # Concurrency
//
// Actions may run concurrently. The model is guarded by a mutex that is held
// only while reading or writing memory, never across a network call.
// Re-entrancy-unsafe actions are serialized per key by a Guard that lives as
// long as the Reconciler; a second call while one is in flight returns
// ErrBusy. User refetches carry a sequence number and a response older than
// the last one applied is dropped.
package reconciler

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/snoozer/internal/client/api"
	"github.com/dmitrijs2005/snoozer/internal/client/models"
	"github.com/dmitrijs2005/snoozer/internal/client/session"
	"github.com/dmitrijs2005/snoozer/internal/client/view"
	"github.com/dmitrijs2005/snoozer/internal/logging"
)

var (
	ErrNotLoggedIn = errors.New("not logged in")
	ErrNotFound    = errors.New("story not found")
)

// State is the authentication state of the client.
type State int

const (
	Anonymous State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

// SessionStore persists the (token, username) pair.
type SessionStore interface {
	Save(ctx context.Context, token, username string) error
	Load(ctx context.Context) (session.Credentials, bool, error)
	Clear(ctx context.Context) error
}

// Reconciler owns the live User and StoryList.
type Reconciler struct {
	api     api.Client
	store   SessionStore
	painter view.Painter
	log     logging.Logger
	regions *view.Regions
	guard   *Guard

	mu      sync.Mutex
	user    *models.User
	stories models.StoryList
	// offset is the skip of the next page to fetch.
	offset int
	// issued and applied number user refetches.
	issued  uint64
	applied uint64
}

func New(client api.Client, store SessionStore, painter view.Painter, log logging.Logger) *Reconciler {
	if log == nil {
		log = logging.Nop{}
	}
	return &Reconciler{
		api:     client,
		store:   store,
		painter: painter,
		log:     log.With("component", "reconciler"),
		regions: view.NewRegions(),
		guard:   NewGuard(),
	}
}

func (r *Reconciler) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.user == nil {
		return Anonymous
	}
	return Authenticated
}

// User returns a copy of the live user, or nil when anonymous.
func (r *Reconciler) User() *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.user.Clone()
}

// Stories returns a copy of the live story list.
func (r *Reconciler) Stories() []models.Story {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Story(nil), r.stories.Stories...)
}

// Offset is the skip the next LoadMore will request.
func (r *Reconciler) Offset() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.offset
}

func (r *Reconciler) ActiveRegion() view.Region {
	return r.regions.Active()
}

// credentials returns the live token and username.
func (r *Reconciler) credentials() (token, username string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.user == nil {
		return "", "", ErrNotLoggedIn
	}
	return r.user.LoginToken, r.user.Username, nil
}

func (r *Reconciler) nav() view.Nav {
	r.mu.Lock()
	defer r.mu.Unlock()
	return navFor(r.user)
}

func navFor(u *models.User) view.Nav {
	if u == nil {
		return view.Nav{}
	}
	return view.Nav{LoggedIn: true, Username: u.Username, Name: u.Name}
}

// allStoriesFragments renders the global list against the live user.
func (r *Reconciler) allStoriesFragments() []view.Fragment {
	r.mu.Lock()
	defer r.mu.Unlock()
	return view.StoryFragments(r.stories.Stories, r.user, false)
}

// show switches the visible page region.
func (r *Reconciler) show(region view.Region) {
	r.regions.Show(region)
	r.painter.ShowRegion(region)
}

// redrawAll repaints nav and the all-stories region from the live model.
func (r *Reconciler) redrawAll() {
	r.painter.DrawNav(r.nav())
	r.painter.DrawStories(view.RegionAllStories, r.allStoriesFragments())
}

// redrawActive repaints the visible region when it is one derived from the
// user, so favorites and my-articles never lag behind a refetch.
func (r *Reconciler) redrawActive() {
	r.mu.Lock()
	u := r.user.Clone()
	r.mu.Unlock()
	if u == nil {
		return
	}

	switch r.regions.Active() {
	case view.RegionFavorites:
		r.painter.DrawStories(view.RegionFavorites, view.StoryFragments(u.Favorites, u, false))
	case view.RegionMyArticles:
		r.painter.DrawStories(view.RegionMyArticles, view.StoryFragments(u.OwnStoriesNewestFirst(), u, true))
	case view.RegionUserProfile:
		r.painter.DrawProfile(profileOf(u))
	}
}

func profileOf(u *models.User) view.Profile {
	return view.Profile{
		Username:  u.Username,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
		Favorites: len(u.Favorites),
		Stories:   len(u.OwnStories),
	}
}
