package viewport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	changes []int
}

func (r *recorder) OnSectionChanged(i int) { r.changes = append(r.changes, i) }

func TestViewportResize(t *testing.T) {
	v := New(0, 0)
	assert.False(t, v.Ready())
	assert.Equal(t, 1.0, v.Aspect())

	assert.True(t, v.Resize(80, 20))
	assert.False(t, v.Resize(80, 20), "identical resize should be a no-op")
	assert.False(t, v.Resize(0, 20), "zero width ignored")
	assert.False(t, v.Resize(80, -1), "negative height ignored")
	assert.Equal(t, Size{Width: 80, Height: 20}, v.Size())
	assert.InDelta(t, 2.0, v.Aspect(), 1e-9)
}

func TestTrackerPointer(t *testing.T) {
	v := New(0, 0)
	tr := NewTracker(v, 3, nil)

	tr.OnPointer(10, 10)
	assert.Equal(t, PointerOffset{}, tr.Pointer(), "no-op before a size is known")

	v.Resize(100, 40)
	tr.OnPointer(75, 10)
	assert.InDelta(t, 0.25, tr.Pointer().X, 1e-9)
	assert.InDelta(t, -0.25, tr.Pointer().Y, 1e-9)
}

func TestTrackerSectionNotifications(t *testing.T) {
	v := New(80, 20)
	rec := &recorder{}
	tr := NewTracker(v, 3, rec)

	steps := []struct {
		offset  float64
		section int
	}{
		{5, 0},
		{9.9, 0},
		{10, 1}, // rounds half away from zero
		{12, 1},
		{25, 1},
		{31, 2},
		{500, 2}, // clamped to the last section
		{-10, 0},
	}
	for _, s := range steps {
		tr.OnScroll(s.offset)
		assert.Equal(t, s.section, tr.Scroll().Section, "offset %v", s.offset)
	}

	assert.Equal(t, []int{1, 2, 0}, rec.changes, "one notification per index change")
	assert.Equal(t, 0.0, tr.Scroll().Offset)
}

func TestTrackerSkipsIntermediateSections(t *testing.T) {
	v := New(80, 20)
	rec := &recorder{}
	tr := NewTracker(v, 3, rec)

	tr.OnScroll(40)
	assert.Equal(t, []int{2}, rec.changes)
}

func TestTrackerZeroHeightIsNoop(t *testing.T) {
	v := New(0, 0)
	called := false
	tr := NewTracker(v, 3, SectionListenerFunc(func(int) { called = true }))

	tr.OnScroll(100)
	assert.False(t, called)
	assert.Equal(t, ScrollState{}, tr.Scroll())
	assert.Equal(t, 0.0, tr.Progress())
}

func TestTrackerProgress(t *testing.T) {
	tr := NewTracker(New(80, 20), 3, nil)
	tr.OnScroll(30)
	assert.InDelta(t, 1.5, tr.Progress(), 1e-9)
}

func TestSmoothScrollerConverges(t *testing.T) {
	v := New(80, 20)
	rec := &recorder{}
	tr := NewTracker(v, 3, rec)
	s := NewSmoothScroller(tr, 60)

	s.Page(1)
	require.Equal(t, 20.0, s.Target())

	prev := 0.0
	for range 300 {
		s.Update()
		off := tr.Scroll().Offset
		assert.GreaterOrEqual(t, off, prev-1e-9, "critically damped spring should not move backwards")
		assert.LessOrEqual(t, off, 20.0+1e-9, "should not overshoot")
		prev = off
	}

	assert.True(t, s.Settled())
	assert.Equal(t, 20.0, tr.Scroll().Offset)
	assert.Equal(t, []int{1}, rec.changes)
}

func TestSmoothScrollerClampsTarget(t *testing.T) {
	tr := NewTracker(New(80, 20), 3, nil)
	s := NewSmoothScroller(tr, 60)

	s.Wheel(-2)
	assert.Equal(t, 0.0, s.Target())

	s.Wheel(100)
	assert.Equal(t, 40.0, s.Target())

	s.JumpTo(1)
	assert.Equal(t, 20.0, s.Target())
}

func TestSmoothScrollerInstant(t *testing.T) {
	tr := NewTracker(New(80, 20), 3, nil)
	s := NewSmoothScroller(tr, 60)
	s.Instant = true

	s.Wheel(2)
	s.Update()
	assert.Equal(t, float64(2*WheelStep), tr.Scroll().Offset)
	assert.True(t, s.Settled())
}

func TestSmoothScrollerRescale(t *testing.T) {
	v := New(80, 20)
	tr := NewTracker(v, 3, nil)
	s := NewSmoothScroller(tr, 60)
	s.Instant = true
	s.JumpTo(1)
	s.Update()

	v.Resize(80, 30)
	s.Rescale(20, 30)
	assert.Equal(t, 30.0, tr.Scroll().Offset)
	assert.Equal(t, 1, tr.Scroll().Section)
}
