package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/snoozer/internal/common"
	"github.com/dmitrijs2005/snoozer/internal/dbx"
	"github.com/dmitrijs2005/snoozer/internal/server/models"
	favoritesrepo "github.com/dmitrijs2005/snoozer/internal/server/repositories/favorites"
	storiesrepo "github.com/dmitrijs2005/snoozer/internal/server/repositories/stories"
	usersrepo "github.com/dmitrijs2005/snoozer/internal/server/repositories/users"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// memStore is an in-memory stand-in for the three Postgres tables.
type memStore struct {
	mu        sync.Mutex
	users     map[string]models.User
	stories   []models.Story
	favorites map[string][]string
	clock     time.Time

	// injected failures
	usersErr     error
	storiesErr   error
	favoritesErr error
}

func newMemStore() *memStore {
	return &memStore{
		users:     map[string]models.User{},
		favorites: map[string][]string{},
		clock:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) addUser(username string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[username] = models.User{Username: username, Name: username}
}

func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Minute)
	return m.clock
}

type memUsers struct{ m *memStore }

func (r memUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.usersErr != nil {
		return nil, r.m.usersErr
	}
	if _, ok := r.m.users[u.Username]; ok {
		return nil, common.ErrorAlreadyExists
	}
	u.CreatedAt = r.m.tick()
	r.m.users[u.Username] = *u
	return u, nil
}

func (r memUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.usersErr != nil {
		return nil, r.m.usersErr
	}
	u, ok := r.m.users[username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

type memStories struct{ m *memStore }

func (r memStories) Create(_ context.Context, s *models.Story) (*models.Story, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.storiesErr != nil {
		return nil, r.m.storiesErr
	}
	if _, ok := r.m.users[s.Username]; !ok {
		return nil, common.ErrorNotFound
	}
	s.CreatedAt = r.m.tick()
	s.UpdatedAt = s.CreatedAt
	r.m.stories = append(r.m.stories, *s)
	return s, nil
}

func (r memStories) Get(_ context.Context, id string) (*models.Story, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, s := range r.m.stories {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r memStories) List(_ context.Context, skip, limit int) ([]models.Story, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.storiesErr != nil {
		return nil, r.m.storiesErr
	}
	all := append([]models.Story(nil), r.m.stories...)
	sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	out := []models.Story{}
	for i := skip; i < len(all) && len(out) < limit; i++ {
		out = append(out, all[i])
	}
	return out, nil
}

func (r memStories) ListByUser(_ context.Context, username string) ([]models.Story, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []models.Story{}
	for _, s := range r.m.stories {
		if s.Username == username {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r memStories) Update(_ context.Context, id, author, title string) (*models.Story, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for i := range r.m.stories {
		if r.m.stories[i].ID == id {
			r.m.stories[i].Author = author
			r.m.stories[i].Title = title
			r.m.stories[i].UpdatedAt = r.m.tick()
			s := r.m.stories[i]
			return &s, nil
		}
	}
	return nil, common.ErrorNotFound
}

type memFavorites struct{ m *memStore }

func (r memFavorites) Add(_ context.Context, username, storyID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.favoritesErr != nil {
		return r.m.favoritesErr
	}
	found := false
	for _, s := range r.m.stories {
		found = found || s.ID == storyID
	}
	if !found {
		return common.ErrorNotFound
	}
	for _, id := range r.m.favorites[username] {
		if id == storyID {
			return nil
		}
	}
	r.m.favorites[username] = append(r.m.favorites[username], storyID)
	return nil
}

func (r memFavorites) Remove(_ context.Context, username, storyID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.favoritesErr != nil {
		return r.m.favoritesErr
	}
	ids := r.m.favorites[username]
	for i, id := range ids {
		if id == storyID {
			r.m.favorites[username] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

func (r memFavorites) ListStories(_ context.Context, username string) ([]models.Story, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []models.Story{}
	for _, id := range r.m.favorites[username] {
		for _, s := range r.m.stories {
			if s.ID == id {
				out = append(out, s)
			}
		}
	}
	return out, nil
}

type fakeRepoManager struct{ m *memStore }

func (f *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error  { return nil }
func (f *fakeRepoManager) Users(dbx.DBTX) usersrepo.Repository         { return memUsers{f.m} }
func (f *fakeRepoManager) Stories(dbx.DBTX) storiesrepo.Repository     { return memStories{f.m} }
func (f *fakeRepoManager) Favorites(dbx.DBTX) favoritesrepo.Repository { return memFavorites{f.m} }
