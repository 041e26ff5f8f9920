package viewport

import "math"

// PointerOffset is the pointer position relative to the window center, each
// axis roughly in [-0.5, 0.5].
type PointerOffset struct {
	X float64
	Y float64
}

// ScrollState is the raw scroll offset in rows and the section it rounds to.
type ScrollState struct {
	Offset  float64
	Section int
}

// SectionListener is notified when the scrolled-to section changes.
type SectionListener interface {
	OnSectionChanged(index int)
}

// SectionListenerFunc adapts a function to SectionListener.
type SectionListenerFunc func(index int)

// OnSectionChanged calls f(index).
func (f SectionListenerFunc) OnSectionChanged(index int) { f(index) }

// Tracker records pointer and scroll input. Each section is one window
// height tall.
type Tracker struct {
	vp       *Viewport
	sections int
	listener SectionListener

	pointer PointerOffset
	scroll  ScrollState
}

// NewTracker creates a tracker for a page of sections sections. listener may
// be nil.
func NewTracker(vp *Viewport, sections int, listener SectionListener) *Tracker {
	return &Tracker{
		vp:       vp,
		sections: max(sections, 1),
		listener: listener,
	}
}

// SetListener replaces the section listener.
func (t *Tracker) SetListener(l SectionListener) {
	t.listener = l
}

// Sections returns the number of sections on the page.
func (t *Tracker) Sections() int {
	return t.sections
}

// Pointer returns the last pointer offset.
func (t *Tracker) Pointer() PointerOffset {
	return t.pointer
}

// Scroll returns the current scroll state.
func (t *Tracker) Scroll() ScrollState {
	return t.scroll
}

// MaxOffset is the offset of the last section.
func (t *Tracker) MaxOffset() float64 {
	return float64((t.sections - 1) * t.vp.Size().Height)
}

// OnPointer records a pointer position in cells.
func (t *Tracker) OnPointer(col, row int) {
	if !t.vp.Ready() {
		return
	}
	size := t.vp.Size()
	t.pointer = PointerOffset{
		X: float64(col)/float64(size.Width) - 0.5,
		Y: float64(row)/float64(size.Height) - 0.5,
	}
}

// OnScroll records a raw scroll offset in rows and notifies the listener
// once if the section index changed.
func (t *Tracker) OnScroll(offset float64) {
	if !t.vp.Ready() {
		return
	}

	offset = math.Max(0, math.Min(offset, t.MaxOffset()))
	section := int(math.Round(offset / float64(t.vp.Size().Height)))

	t.scroll.Offset = offset
	if section == t.scroll.Section {
		return
	}
	if t.listener != nil {
		t.listener.OnSectionChanged(section)
	}
	t.scroll.Section = section
}

// Progress returns the scroll offset in sections, the quantity the camera
// follows.
func (t *Tracker) Progress() float64 {
	if !t.vp.Ready() {
		return 0
	}
	return t.scroll.Offset / float64(t.vp.Size().Height)
}
