package viewport

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// WheelStep is how many rows one wheel notch scrolls.
const WheelStep = 3

// SmoothScroller animates the tracker's scroll offset toward a target on a
// critically damped spring, the way a browser smooths wheel scrolling.
type SmoothScroller struct {
	tracker *Tracker
	spring  harmonica.Spring

	pos    float64
	vel    float64
	target float64

	// Instant skips the animation; used for reduced motion.
	Instant bool
}

// NewSmoothScroller creates a scroller stepping once per frame at fps.
func NewSmoothScroller(t *Tracker, fps int) *SmoothScroller {
	return &SmoothScroller{
		tracker: t,
		// Frequency 6.0 settles a page jump in about half a second, damping
		// 1.0 never overshoots the target.
		spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
	}
}

// Target returns the offset being scrolled toward.
func (s *SmoothScroller) Target() float64 {
	return s.target
}

// ScrollBy moves the target by delta rows, clamped to the page.
func (s *SmoothScroller) ScrollBy(delta float64) {
	s.target = math.Max(0, math.Min(s.target+delta, s.tracker.MaxOffset()))
}

// Wheel scrolls by notches wheel steps; negative is up.
func (s *SmoothScroller) Wheel(notches int) {
	s.ScrollBy(float64(notches * WheelStep))
}

// Page scrolls by n window heights.
func (s *SmoothScroller) Page(n int) {
	s.ScrollBy(float64(n * s.tracker.vp.Size().Height))
}

// JumpTo targets the top of section i.
func (s *SmoothScroller) JumpTo(i int) {
	s.target = 0
	s.ScrollBy(float64(i * s.tracker.vp.Size().Height))
}

// Rescale keeps the same page position after the window height changes
// from oldHeight to newHeight.
func (s *SmoothScroller) Rescale(oldHeight, newHeight int) {
	if oldHeight <= 0 || newHeight <= 0 || oldHeight == newHeight {
		return
	}
	f := float64(newHeight) / float64(oldHeight)
	s.pos *= f
	s.target *= f
	s.vel *= f
	s.tracker.OnScroll(s.pos)
}

// Settled reports whether the offset has reached the target.
func (s *SmoothScroller) Settled() bool {
	return s.pos == s.target && s.vel == 0
}

// Update advances the spring by one frame and feeds the result to the
// tracker.
func (s *SmoothScroller) Update() {
	if s.Settled() {
		return
	}
	if s.Instant {
		s.pos, s.vel = s.target, 0
	} else {
		s.pos, s.vel = s.spring.Update(s.pos, s.vel, s.target)
		if math.Abs(s.pos-s.target) < 0.01 && math.Abs(s.vel) < 0.01 {
			s.pos, s.vel = s.target, 0
		}
	}
	s.tracker.OnScroll(s.pos)
}
