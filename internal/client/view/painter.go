package view

import "time"

// Form is the content of an input region. Edit forms carry the story being
// edited; its URL is shown read-only.
type Form struct {
	Region  Region
	StoryID string
	Author  string
	Title   string
	URL     string
	Error   string
}

// Profile is the user-profile region content.
type Profile struct {
	Username  string
	Name      string
	CreatedAt time.Time
	Favorites int
	Stories   int
}

// Painter draws regions. Every Draw call replaces the region's content whole;
// AppendStories is the only incremental operation and only ever extends.
type Painter interface {
	ShowRegion(r Region)
	DrawNav(nav Nav)
	DrawStories(r Region, frags []Fragment)
	AppendStories(r Region, frags []Fragment)
	SetStar(storyID string, starred bool)
	DrawForm(f Form)
	DrawProfile(p Profile)
}
