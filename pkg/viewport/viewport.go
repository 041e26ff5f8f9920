// Package viewport tracks the terminal window the page is drawn in, the
// pointer over it and how far the page has been scrolled.
package viewport

// Size is a window size in cells.
type Size struct {
	Width  int
	Height int
}

// Viewport holds the last observed non-zero window size.
type Viewport struct {
	size Size
}

// New returns a viewport of the given size. Zero sizes are allowed and mean
// "not yet known".
func New(width, height int) *Viewport {
	v := &Viewport{}
	v.Resize(width, height)
	return v
}

// Resize records a new window size. Non-positive sizes are ignored. It
// reports whether the stored size changed, so repeated identical resize
// events can be skipped by callers.
func (v *Viewport) Resize(width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	next := Size{Width: width, Height: height}
	if next == v.size {
		return false
	}
	v.size = next
	return true
}

// Size returns the current size.
func (v *Viewport) Size() Size {
	return v.size
}

// Ready reports whether a non-zero size has been observed.
func (v *Viewport) Ready() bool {
	return v.size.Width > 0 && v.size.Height > 0
}

// Aspect returns the projection aspect ratio. Cells are drawn as two
// half-block pixels, so the pixel grid is Width x Height*2.
func (v *Viewport) Aspect() float64 {
	if !v.Ready() {
		return 1
	}
	return float64(v.size.Width) / float64(v.size.Height*2)
}
