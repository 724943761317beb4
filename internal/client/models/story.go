// Package models defines the client-side user and story model that the
// reconciler keeps in sync with the remote API.
package models

import "time"

// Story is a submitted link. StoryID is server-assigned and is the join key
// between the global list, a user's own stories and a user's favorites.
type Story struct {
	StoryID   string    `json:"storyId"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Author    string    `json:"author"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewStory is the payload for submitting a story.
type NewStory struct {
	Author string `json:"author"`
	Title  string `json:"title"`
	URL    string `json:"url"`
}

// StoryUpdate is the payload for editing a story. The URL is immutable once
// the story is created, so it has no field here.
type StoryUpdate struct {
	Author string `json:"author"`
	Title  string `json:"title"`
}

// StoryList is the ordered global story collection. It only grows at the end
// between full replacements.
type StoryList struct {
	Stories []Story
}

// Replace swaps the whole collection for page.
func (l *StoryList) Replace(page []Story) {
	l.Stories = append(make([]Story, 0, len(page)), page...)
}

// Append adds the stories of page that are not already present, keeping the
// existing order untouched. It returns the stories actually appended, so a
// duplicate trigger for the same page appends nothing.
func (l *StoryList) Append(page []Story) []Story {
	seen := make(map[string]struct{}, len(l.Stories))
	for _, s := range l.Stories {
		seen[s.StoryID] = struct{}{}
	}

	added := make([]Story, 0, len(page))
	for _, s := range page {
		if _, ok := seen[s.StoryID]; ok {
			continue
		}
		seen[s.StoryID] = struct{}{}
		added = append(added, s)
	}
	l.Stories = append(l.Stories, added...)
	return added
}

// Find returns the story with the given id.
func (l *StoryList) Find(storyID string) (Story, bool) {
	if l == nil {
		return Story{}, false
	}
	for _, s := range l.Stories {
		if s.StoryID == storyID {
			return s, true
		}
	}
	return Story{}, false
}
