package httpapi

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/snoozer/internal/common"
	"github.com/dmitrijs2005/snoozer/internal/server/models"
)

// fakeBackend implements both service interfaces in memory. Tokens are
// "tok-<username>".
type fakeBackend struct {
	mu        sync.Mutex
	passwords map[string]string
	users     map[string]models.User
	stories   []models.Story // newest first
	favorites map[string][]string
	nextID    int
	listErr   error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		passwords: map[string]string{},
		users:     map[string]models.User{},
		favorites: map[string][]string{},
	}
}

var t0 = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func (f *fakeBackend) profileLocked(username string) *models.UserProfile {
	p := &models.UserProfile{User: f.users[username], Favorites: []models.Story{}, Stories: []models.Story{}}
	for _, id := range f.favorites[username] {
		for _, s := range f.stories {
			if s.ID == id {
				p.Favorites = append(p.Favorites, s)
			}
		}
	}
	for i := len(f.stories) - 1; i >= 0; i-- {
		if f.stories[i].Username == username {
			p.Stories = append(p.Stories, f.stories[i])
		}
	}
	return p
}

func (f *fakeBackend) Signup(_ context.Context, username, password, name string) (*models.UserProfile, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if username == "" || password == "" {
		return nil, "", fmt.Errorf("%w: username and password are required", common.ErrorValidation)
	}
	if _, ok := f.users[username]; ok {
		return nil, "", common.ErrorAlreadyExists
	}
	f.passwords[username] = password
	f.users[username] = models.User{Username: username, Name: name, CreatedAt: t0}
	return f.profileLocked(username), "tok-" + username, nil
}

func (f *fakeBackend) Login(_ context.Context, username, password string) (*models.UserProfile, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.passwords[username]; !ok || p != password {
		return nil, "", common.ErrorUnauthorized
	}
	return f.profileLocked(username), "tok-" + username, nil
}

func (f *fakeBackend) Authenticate(token string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	username, ok := strings.CutPrefix(token, "tok-")
	if _, known := f.users[username]; !ok || !known {
		return "", common.ErrorUnauthorized
	}
	return username, nil
}

func (f *fakeBackend) Profile(_ context.Context, username string) (*models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[username]; !ok {
		return nil, common.ErrorNotFound
	}
	return f.profileLocked(username), nil
}

func (f *fakeBackend) AddFavorite(_ context.Context, username, storyID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.stories {
		if s.ID == storyID {
			for _, id := range f.favorites[username] {
				if id == storyID {
					return nil
				}
			}
			f.favorites[username] = append(f.favorites[username], storyID)
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f *fakeBackend) RemoveFavorite(_ context.Context, username, storyID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := f.favorites[username]
	for i, id := range ids {
		if id == storyID {
			f.favorites[username] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeBackend) List(_ context.Context, skip, limit int) ([]models.Story, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	if limit <= 0 || limit > common.StoriesPageSize {
		limit = common.StoriesPageSize
	}
	out := []models.Story{}
	for i := skip; i < len(f.stories) && len(out) < limit; i++ {
		out = append(out, f.stories[i])
	}
	return out, nil
}

func (f *fakeBackend) Create(_ context.Context, username, author, title, url string) (*models.Story, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if author == "" || title == "" || url == "" {
		return nil, fmt.Errorf("%w: author, title and url are required", common.ErrorValidation)
	}
	f.nextID++
	s := models.Story{
		ID: fmt.Sprintf("story-%d", f.nextID), Username: username,
		Author: author, Title: title, URL: url, CreatedAt: t0, UpdatedAt: t0,
	}
	f.stories = append([]models.Story{s}, f.stories...)
	return &s, nil
}

func (f *fakeBackend) Update(_ context.Context, username, id, author, title string) (*models.Story, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.stories {
		if f.stories[i].ID != id {
			continue
		}
		if f.stories[i].Username != username {
			return nil, common.ErrorForbidden
		}
		f.stories[i].Author, f.stories[i].Title = author, title
		s := f.stories[i]
		return &s, nil
	}
	return nil, common.ErrorNotFound
}
