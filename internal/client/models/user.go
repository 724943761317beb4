package models

import "time"

// User is the logged-in user as last reported by the API. A User is never
// half-built: any failed fetch yields no user at all.
type User struct {
	Username   string
	Name       string
	CreatedAt  time.Time
	LoginToken string

	// Favorites is a set for membership purposes but is rendered in the
	// order the API returned it.
	Favorites []Story

	// OwnStories come from the API oldest first.
	OwnStories []Story
}

// FavoriteIndex returns the position of storyID in Favorites, or -1.
func (u *User) FavoriteIndex(storyID string) int {
	if u == nil {
		return -1
	}
	for i, s := range u.Favorites {
		if s.StoryID == storyID {
			return i
		}
	}
	return -1
}

func (u *User) IsFavorite(storyID string) bool {
	return u.FavoriteIndex(storyID) >= 0
}

// RemoveFavoriteAt splices the favorite at i out of Favorites.
func (u *User) RemoveFavoriteAt(i int) {
	if i < 0 || i >= len(u.Favorites) {
		return
	}
	u.Favorites = append(u.Favorites[:i:i], u.Favorites[i+1:]...)
}

// AddFavorite records s as a favorite unless it already is one.
func (u *User) AddFavorite(s Story) {
	if u.IsFavorite(s.StoryID) {
		return
	}
	u.Favorites = append(u.Favorites, s)
}

// OwnStoriesNewestFirst returns a reversed copy of OwnStories, the order the
// "my stories" view and the edit form walk them in.
func (u *User) OwnStoriesNewestFirst() []Story {
	if u == nil {
		return nil
	}
	out := make([]Story, len(u.OwnStories))
	for i, s := range u.OwnStories {
		out[len(out)-1-i] = s
	}
	return out
}

// FindOwnStory looks storyID up among the user's own stories.
func (u *User) FindOwnStory(storyID string) (Story, bool) {
	if u == nil {
		return Story{}, false
	}
	for _, s := range u.OwnStories {
		if s.StoryID == storyID {
			return s, true
		}
	}
	return Story{}, false
}

// Clone returns a deep copy so readers never share slices with the live
// model.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Favorites = append([]Story(nil), u.Favorites...)
	c.OwnStories = append([]Story(nil), u.OwnStories...)
	return &c
}
