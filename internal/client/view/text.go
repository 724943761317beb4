package view

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	StarFilled = "★"
	StarEmpty  = "☆"
)

var (
	accent  = lipgloss.Color("#FF6600")
	muted   = lipgloss.Color("#828282")
	danger  = lipgloss.Color("#e53935")
	success = lipgloss.Color("#8BC34A")
)

// Styles holds the lipgloss styles TextRenderer draws with.
type Styles struct {
	Header lipgloss.Style
	Title  lipgloss.Style
	Meta   lipgloss.Style
	Star   lipgloss.Style
	ID     lipgloss.Style
	Error  lipgloss.Style
	Nav    lipgloss.Style
	Label  lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().Bold(true).Foreground(accent).MarginBottom(1),
		Title:  lipgloss.NewStyle().Bold(true),
		Meta:   lipgloss.NewStyle().Foreground(muted),
		Star:   lipgloss.NewStyle().Foreground(accent),
		ID:     lipgloss.NewStyle().Foreground(muted).Italic(true),
		Error:  lipgloss.NewStyle().Foreground(danger).Bold(true),
		Nav:    lipgloss.NewStyle().Foreground(success),
		Label:  lipgloss.NewStyle().Foreground(muted).Width(10),
	}
}

// TextRenderer writes regions to a terminal.
type TextRenderer struct {
	w      io.Writer
	styles Styles
}

func NewTextRenderer(w io.Writer, styles Styles) *TextRenderer {
	return &TextRenderer{w: w, styles: styles}
}

// RegionTitle is the heading printed above a region.
func RegionTitle(r Region) string {
	switch r {
	case RegionAllStories:
		return "All stories"
	case RegionFavorites:
		return "Favorites"
	case RegionMyArticles:
		return "My stories"
	case RegionSubmitForm:
		return "Submit a story"
	case RegionEditForm:
		return "Edit story"
	case RegionLoginForm:
		return "Log in"
	case RegionSignupForm:
		return "Create account"
	case RegionUserProfile:
		return "Profile"
	}
	return string(r)
}

func (t *TextRenderer) Header(r Region) {
	fmt.Fprintln(t.w, t.styles.Header.Render(RegionTitle(r)))
}

// Stories writes one entry per fragment. An empty region gets a placeholder
// line so the user can tell it apart from a missing redraw.
func (t *TextRenderer) Stories(r Region, frags []Fragment) {
	if len(frags) == 0 {
		fmt.Fprintln(t.w, t.styles.Meta.Render(emptyText(r)))
		return
	}
	for _, f := range frags {
		t.Story(f)
	}
}

func (t *TextRenderer) Story(f Fragment) {
	var b strings.Builder
	if f.ShowStar {
		b.WriteString(t.styles.Star.Render(Star(f.Starred)))
		b.WriteString(" ")
	}
	b.WriteString(t.styles.Title.Render(f.Title))
	b.WriteString(" ")
	b.WriteString(t.styles.Meta.Render("(" + f.Host + ")"))
	fmt.Fprintln(t.w, b.String())

	meta := fmt.Sprintf("   by %s · posted by %s", f.Author, f.Username)
	fmt.Fprintln(t.w, t.styles.Meta.Render(meta)+" "+t.styles.ID.Render("["+f.StoryID+"]"))
	if f.Editable {
		fmt.Fprintln(t.w, t.styles.Meta.Render("   edit "+f.StoryID))
	}
}

func (t *TextRenderer) Nav(n Nav) {
	var line string
	if n.LoggedIn {
		line = fmt.Sprintf("hack or snooze | %s | all · favorites · mine · submit · profile · logout", n.Username)
	} else {
		line = "hack or snooze | all · login · signup"
	}
	fmt.Fprintln(t.w, t.styles.Nav.Render(line))
}

func (t *TextRenderer) Form(f Form) {
	t.Header(f.Region)
	if f.Region == RegionEditForm {
		t.field("id", f.StoryID)
		t.field("author", f.Author)
		t.field("title", f.Title)
		t.field("url", f.URL+" (read-only)")
	}
	if f.Error != "" {
		fmt.Fprintln(t.w, t.styles.Error.Render(f.Error))
	}
}

func (t *TextRenderer) Profile(p Profile) {
	t.Header(RegionUserProfile)
	t.field("name", p.Name)
	t.field("username", p.Username)
	if !p.CreatedAt.IsZero() {
		t.field("since", p.CreatedAt.Format("2006-01-02"))
	}
	t.field("favorites", fmt.Sprint(p.Favorites))
	t.field("stories", fmt.Sprint(p.Stories))
}

func (t *TextRenderer) Error(msg string) {
	fmt.Fprintln(t.w, t.styles.Error.Render(msg))
}

func (t *TextRenderer) field(label, value string) {
	fmt.Fprintln(t.w, t.styles.Label.Render(label+":")+" "+value)
}

// Star returns the glyph for a star control.
func Star(starred bool) string {
	if starred {
		return StarFilled
	}
	return StarEmpty
}

func emptyText(r Region) string {
	switch r {
	case RegionFavorites:
		return "No favorites added!"
	case RegionMyArticles:
		return "No stories added by user yet!"
	}
	return "No stories."
}
