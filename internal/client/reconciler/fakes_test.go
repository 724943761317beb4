package reconciler

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/snoozer/internal/client/api"
	"github.com/dmitrijs2005/snoozer/internal/client/models"
	"github.com/dmitrijs2005/snoozer/internal/client/session"
	"github.com/dmitrijs2005/snoozer/internal/client/view"
)

// ---- fake API ----

// fakeAPI is an in-memory story server. Stories are kept newest first.
type fakeAPI struct {
	mu        sync.Mutex
	passwords map[string]string
	names     map[string]string
	favorites map[string][]string
	stories   []models.Story
	nextID    int

	fetchStoriesCalls []int
	fetchUserCalls    int
	favoriteCalls     int
	loginCalls        int

	// per-operation injected failures, consumed by the next call
	fail map[string]error

	// optional hooks that run before the fake answers
	beforeFetchStories func(skip int)
	beforeFetchUser    func(call int)
	beforeAddFavorite  func(id string)
	beforeLogin        func(username string)
}

var _ api.Client = (*fakeAPI)(nil)

func newFakeAPI(n int) *fakeAPI {
	f := &fakeAPI{
		passwords: map[string]string{},
		names:     map[string]string{},
		favorites: map[string][]string{},
		fail:      map[string]error{},
	}
	for i := 0; i < n; i++ {
		f.stories = append(f.stories, models.Story{
			StoryID:  fmt.Sprintf("s%02d", i),
			Title:    fmt.Sprintf("Story %d", i),
			URL:      fmt.Sprintf("https://www.site%d.com/p", i),
			Author:   "author",
			Username: "someone",
		})
	}
	return f
}

func (f *fakeAPI) addUser(username, password, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.passwords[username] = password
	f.names[username] = name
}

func (f *fakeAPI) failNext(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[op] = err
}

func (f *fakeAPI) takeFail(op string) error {
	err := f.fail[op]
	delete(f.fail, op)
	return err
}

func token(username string) string { return "tok-" + username }

func (f *fakeAPI) checkToken(tok, username string) error {
	if tok != token(username) {
		return fmt.Errorf("%w: bad token", api.ErrUnauthorized)
	}
	return nil
}

// userLocked builds the user view. Callers hold mu.
func (f *fakeAPI) userLocked(username string) *models.User {
	u := &models.User{
		Username:   username,
		Name:       f.names[username],
		LoginToken: token(username),
		Favorites:  []models.Story{},
		OwnStories: []models.Story{},
	}
	for _, id := range f.favorites[username] {
		for _, s := range f.stories {
			if s.StoryID == id {
				u.Favorites = append(u.Favorites, s)
			}
		}
	}
	// own stories oldest first
	for i := len(f.stories) - 1; i >= 0; i-- {
		if f.stories[i].Username == username {
			u.OwnStories = append(u.OwnStories, f.stories[i])
		}
	}
	return u
}

func (f *fakeAPI) Login(_ context.Context, username, password string) (*models.User, error) {
	f.mu.Lock()
	f.loginCalls++
	hook := f.beforeLogin
	f.mu.Unlock()
	if hook != nil {
		hook(username)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFail("login"); err != nil {
		return nil, err
	}
	if p, ok := f.passwords[username]; !ok || p != password {
		return nil, fmt.Errorf("login: %w", api.ErrUnauthorized)
	}
	return f.userLocked(username), nil
}

func (f *fakeAPI) Signup(_ context.Context, username, password, name string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.passwords[username]; ok {
		return nil, fmt.Errorf("signup: %w", api.ErrConflict)
	}
	f.passwords[username] = password
	f.names[username] = name
	return f.userLocked(username), nil
}

func (f *fakeAPI) FetchUser(_ context.Context, tok, username string) (*models.User, error) {
	f.mu.Lock()
	f.fetchUserCalls++
	call := f.fetchUserCalls
	hook := f.beforeFetchUser
	f.mu.Unlock()
	if hook != nil {
		hook(call)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFail("fetchUser"); err != nil {
		return nil, err
	}
	if err := f.checkToken(tok, username); err != nil {
		return nil, err
	}
	return f.userLocked(username), nil
}

func (f *fakeAPI) FetchStories(_ context.Context, skip int) ([]models.Story, error) {
	f.mu.Lock()
	f.fetchStoriesCalls = append(f.fetchStoriesCalls, skip)
	hook := f.beforeFetchStories
	f.mu.Unlock()
	if hook != nil {
		hook(skip)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFail("fetchStories"); err != nil {
		return nil, err
	}
	if skip >= len(f.stories) {
		return []models.Story{}, nil
	}
	end := min(skip+pageSize, len(f.stories))
	return append([]models.Story(nil), f.stories[skip:end]...), nil
}

func (f *fakeAPI) CreateStory(_ context.Context, tok string, s models.NewStory) (models.Story, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFail("createStory"); err != nil {
		return models.Story{}, err
	}
	username := tok[len("tok-"):]
	f.nextID++
	story := models.Story{
		StoryID:  fmt.Sprintf("new-%d", f.nextID),
		Title:    s.Title,
		URL:      s.URL,
		Author:   s.Author,
		Username: username,
	}
	f.stories = append([]models.Story{story}, f.stories...)
	return story, nil
}

func (f *fakeAPI) UpdateStory(_ context.Context, _ string, id string, upd models.StoryUpdate) (models.Story, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFail("updateStory"); err != nil {
		return models.Story{}, err
	}
	for i := range f.stories {
		if f.stories[i].StoryID == id {
			f.stories[i].Author = upd.Author
			f.stories[i].Title = upd.Title
			return f.stories[i], nil
		}
	}
	return models.Story{}, fmt.Errorf("update story: %w", api.ErrNotFound)
}

func (f *fakeAPI) AddFavorite(_ context.Context, tok, username, id string) error {
	f.mu.Lock()
	f.favoriteCalls++
	hook := f.beforeAddFavorite
	f.mu.Unlock()
	if hook != nil {
		hook(id)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFail("addFavorite"); err != nil {
		return err
	}
	if err := f.checkToken(tok, username); err != nil {
		return err
	}
	f.favorites[username] = append(f.favorites[username], id)
	return nil
}

func (f *fakeAPI) RemoveFavorite(_ context.Context, tok, username, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.favoriteCalls++
	if err := f.takeFail("removeFavorite"); err != nil {
		return err
	}
	if err := f.checkToken(tok, username); err != nil {
		return err
	}
	favs := f.favorites[username]
	for i, fid := range favs {
		if fid == id {
			f.favorites[username] = append(favs[:i:i], favs[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeAPI) counts() (favorites, logins int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.favoriteCalls, f.loginCalls
}

func (f *fakeAPI) storiesCalls() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.fetchStoriesCalls...)
}

// ---- fake session store ----

type fakeStore struct {
	mu      sync.Mutex
	creds   session.Credentials
	ok      bool
	loadErr error
	cleared int
}

func (s *fakeStore) Save(_ context.Context, tok, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = session.Credentials{Token: tok, Username: username}
	s.ok = true
	return nil
}

func (s *fakeStore) Load(context.Context) (session.Credentials, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return session.Credentials{}, false, s.loadErr
	}
	return s.creds, s.ok, nil
}

func (s *fakeStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = session.Credentials{}
	s.ok = false
	s.cleared++
	return nil
}

func (s *fakeStore) has() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ok
}

// ---- fake painter ----

// fakePainter keeps region contents the way a screen would, so tests can
// check what is drawn rather than which calls were made.
type fakePainter struct {
	mu       sync.Mutex
	visible  view.Region
	nav      view.Nav
	regions  map[view.Region][]view.Fragment
	forms    map[view.Region]view.Form
	profile  view.Profile
	starSets []string
}

func newFakePainter() *fakePainter {
	return &fakePainter{
		regions: map[view.Region][]view.Fragment{},
		forms:   map[view.Region]view.Form{},
	}
}

var _ view.Painter = (*fakePainter)(nil)

func (p *fakePainter) ShowRegion(r view.Region) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.visible = r
}

func (p *fakePainter) DrawNav(n view.Nav) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nav = n
}

func (p *fakePainter) DrawStories(r view.Region, frags []view.Fragment) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.regions[r] = append([]view.Fragment(nil), frags...)
}

func (p *fakePainter) AppendStories(r view.Region, frags []view.Fragment) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.regions[r] = append(p.regions[r], frags...)
}

func (p *fakePainter) SetStar(id string, starred bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.starSets = append(p.starSets, id)
	for _, frags := range p.regions {
		for i := range frags {
			if frags[i].StoryID == id {
				frags[i].Starred = starred
			}
		}
	}
}

func (p *fakePainter) DrawForm(f view.Form) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.forms[f.Region] = f
}

func (p *fakePainter) DrawProfile(pr view.Profile) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.profile = pr
}

func (p *fakePainter) region(r view.Region) []view.Fragment {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]view.Fragment(nil), p.regions[r]...)
}

func (p *fakePainter) fragment(r view.Region, id string) (view.Fragment, bool) {
	for _, f := range p.region(r) {
		if f.StoryID == id {
			return f, true
		}
	}
	return view.Fragment{}, false
}

func (p *fakePainter) form(r view.Region) view.Form {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.forms[r]
}

func (p *fakePainter) current() (view.Region, view.Nav) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.visible, p.nav
}
