// Package view maps the client model to display fragments and keeps track of
// which terminal region is on screen. Nothing here talks to the network or
// the session store, and nothing here mutates a models.User or StoryList.
package view

import (
	"strings"

	"github.com/dmitrijs2005/snoozer/internal/client/models"
)

// Fragment is the display form of one story. A Fragment is keyed by StoryID
// wherever it is drawn.
type Fragment struct {
	StoryID  string
	Title    string
	URL      string
	Host     string
	Author   string
	Username string

	// ShowStar is false for anonymous viewers, who have no favorites.
	ShowStar bool
	Starred  bool
	Editable bool
}

// HostName derives the display host from a story URL: the first segment after
// the scheme (or the first segment when there is no scheme), without a
// leading "www.".
func HostName(url string) string {
	rest := url
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+len("://"):]
	}
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	return strings.TrimPrefix(rest, "www.")
}

// StoryFragment renders a single story.
func StoryFragment(s models.Story, showStar, starred, editable bool) Fragment {
	return Fragment{
		StoryID:  s.StoryID,
		Title:    s.Title,
		URL:      s.URL,
		Host:     HostName(s.URL),
		Author:   s.Author,
		Username: s.Username,
		ShowStar: showStar,
		Starred:  showStar && starred,
		Editable: editable,
	}
}

// StoryFragments renders stories in order. Star state comes from user's
// favorites; a nil user renders every story without a star.
func StoryFragments(stories []models.Story, user *models.User, editable bool) []Fragment {
	out := make([]Fragment, 0, len(stories))
	for _, s := range stories {
		out = append(out, StoryFragment(s, user != nil, user.IsFavorite(s.StoryID), editable))
	}
	return out
}

// Nav is the navigation bar state.
type Nav struct {
	LoggedIn bool
	Username string
	Name     string
}
