package view

// Scroll is a snapshot of the viewport position, in lines.
type Scroll struct {
	ScrollTop      int
	ViewportHeight int
	DocumentHeight int
}

// AtBottom reports whether the viewport has reached the end of the document.
func AtBottom(s Scroll) bool {
	return s.ScrollTop+s.ViewportHeight >= s.DocumentHeight
}
