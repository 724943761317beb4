package cli

import (
	"io"
	"sync"

	"github.com/dmitrijs2005/snoozer/internal/client/view"
)

// TerminalPainter keeps the content of every region and prints the visible
// one. The all-stories region is printed a viewport at a time; Scroll moves
// the viewport and reports the position the reconciler pages on.
type TerminalPainter struct {
	mu       sync.Mutex
	out      *view.TextRenderer
	viewport int

	active  view.Region
	nav     view.Nav
	stories map[view.Region][]view.Fragment
	forms   map[view.Region]view.Form
	profile view.Profile
	top     int
}

var _ view.Painter = (*TerminalPainter)(nil)

func NewTerminalPainter(w io.Writer, styles view.Styles, viewport int) *TerminalPainter {
	if viewport <= 0 {
		viewport = 10
	}
	return &TerminalPainter{
		out:      view.NewTextRenderer(w, styles),
		viewport: viewport,
		active:   view.RegionAllStories,
		stories:  make(map[view.Region][]view.Fragment),
		forms:    make(map[view.Region]view.Form),
	}
}

func (p *TerminalPainter) ShowRegion(r view.Region) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if r != p.active && r == view.RegionAllStories {
		p.top = 0
	}
	p.active = r
	p.render()
}

func (p *TerminalPainter) DrawNav(n view.Nav) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nav = n
}

func (p *TerminalPainter) DrawStories(r view.Region, frags []view.Fragment) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stories[r] = append([]view.Fragment(nil), frags...)
	if r == view.RegionAllStories && p.top > len(frags) {
		p.top = 0
	}
}

// AppendStories extends a region and prints the new entries right away when
// the region is on screen.
func (p *TerminalPainter) AppendStories(r view.Region, frags []view.Fragment) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stories[r] = append(p.stories[r], frags...)
	if r == p.active {
		for _, f := range frags {
			p.out.Story(f)
		}
	}
}

// SetStar flips the star of storyID in every region holding it and echoes
// the updated entry.
func (p *TerminalPainter) SetStar(storyID string, starred bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var echo *view.Fragment
	for _, frags := range p.stories {
		for i := range frags {
			if frags[i].StoryID == storyID {
				frags[i].Starred = starred
				echo = &frags[i]
			}
		}
	}
	if echo != nil {
		p.out.Story(*echo)
	}
}

// DrawForm stores the form; an error is printed immediately so the user sees
// it without redrawing.
func (p *TerminalPainter) DrawForm(f view.Form) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.forms[f.Region] = f
	if f.Error != "" {
		p.out.Error(f.Error)
	}
}

func (p *TerminalPainter) DrawProfile(pr view.Profile) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.profile = pr
}

// Scroll moves the all-stories viewport down by one screen and prints it.
func (p *TerminalPainter) Scroll() view.Scroll {
	p.mu.Lock()
	defer p.mu.Unlock()

	total := len(p.stories[view.RegionAllStories])
	if p.active == view.RegionAllStories && p.top+p.viewport < total {
		p.top += p.viewport
		p.renderWindow()
	}
	return view.Scroll{ScrollTop: p.top, ViewportHeight: p.viewport, DocumentHeight: total}
}

// Stories returns a copy of what region r holds.
func (p *TerminalPainter) Stories(r view.Region) []view.Fragment {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]view.Fragment(nil), p.stories[r]...)
}

func (p *TerminalPainter) Active() view.Region {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// render prints nav and the active region. Callers hold mu.
func (p *TerminalPainter) render() {
	p.out.Nav(p.nav)
	switch p.active {
	case view.RegionAllStories:
		p.out.Header(p.active)
		p.renderWindow()
	case view.RegionFavorites, view.RegionMyArticles:
		p.out.Header(p.active)
		p.out.Stories(p.active, p.stories[p.active])
	case view.RegionUserProfile:
		p.out.Profile(p.profile)
	default:
		f := p.forms[p.active]
		f.Region = p.active
		f.Error = ""
		p.out.Form(f)
	}
}

func (p *TerminalPainter) renderWindow() {
	frags := p.stories[view.RegionAllStories]
	end := min(p.top+p.viewport, len(frags))
	start := min(p.top, end)
	p.out.Stories(view.RegionAllStories, frags[start:end])
}
