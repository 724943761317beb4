package view

import "sync"

// Region names a page-level display area.
type Region string

const (
	RegionAllStories  Region = "all-stories"
	RegionFavorites   Region = "favorites"
	RegionMyArticles  Region = "my-articles"
	RegionSubmitForm  Region = "submit-form"
	RegionEditForm    Region = "edit-form"
	RegionLoginForm   Region = "login-form"
	RegionSignupForm  Region = "signup-form"
	RegionUserProfile Region = "user-profile"
)

// AuthOnly reports whether r may only be shown to a logged-in user.
func AuthOnly(r Region) bool {
	switch r {
	case RegionFavorites, RegionMyArticles, RegionSubmitForm, RegionEditForm, RegionUserProfile:
		return true
	}
	return false
}

// Regions keeps at most one page region visible at a time.
type Regions struct {
	mu     sync.Mutex
	active Region
}

// NewRegions starts with the all-stories region on screen.
func NewRegions() *Regions {
	return &Regions{active: RegionAllStories}
}

// Show makes r the only visible page region and returns the region it
// replaced.
func (g *Regions) Show(r Region) (previous Region) {
	g.mu.Lock()
	defer g.mu.Unlock()
	previous, g.active = g.active, r
	return previous
}

// Active returns the visible page region.
func (g *Regions) Active() Region {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.active
}

// Reset falls back to the all-stories region when an auth-only region is
// showing. It reports whether anything changed.
func (g *Regions) Reset() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !AuthOnly(g.active) {
		return false
	}
	g.active = RegionAllStories
	return true
}
