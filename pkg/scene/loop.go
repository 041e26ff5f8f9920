package scene

import (
	"fmt"
	"time"

	"github.com/sebas2906/portfolio/pkg/frame"
	"github.com/sebas2906/portfolio/pkg/math3d"
	"github.com/sebas2906/portfolio/pkg/viewport"
)

// Continuous spin applied to every section object, radians per second.
const (
	SpinX = 0.1
	SpinY = 0.12
)

// Renderer draws one frame of the scene from a camera position.
type Renderer interface {
	Render(s *Scene, camera math3d.Vec3) error
}

// Loop is the page's render loop. Each Step animates the scene, draws it
// once and schedules the next Step.
type Loop struct {
	Scene     *Scene
	Driver    *TransitionDriver
	Rig       *CameraRig
	Tracker   *viewport.Tracker
	Renderer  Renderer
	Scheduler frame.Scheduler

	// BeforeFrame runs at the top of each step with the frame delta, for
	// input smoothing that feeds the tracker.
	BeforeFrame func(delta float64)

	// MaxDelta caps the delta used for animation so a stalled terminal
	// does not make objects jump. Zero disables the cap.
	MaxDelta float64

	start   time.Time
	started bool
	prev    float64
	frames  int
}

// NewLoop wires a loop: section changes on tracker start transitions on
// scene.
func NewLoop(s *Scene, tracker *viewport.Tracker, r Renderer, sched frame.Scheduler) *Loop {
	l := &Loop{
		Scene:     s,
		Driver:    NewTransitionDriver(s),
		Rig:       NewCameraRig(),
		Tracker:   tracker,
		Renderer:  r,
		Scheduler: sched,
		MaxDelta:  0.1,
	}
	tracker.SetListener(l.Driver)
	return l
}

// Start schedules the first step.
func (l *Loop) Start() {
	l.Scheduler.Schedule(l.Step)
}

// Stop ends the loop after the current step.
func (l *Loop) Stop() {
	l.Scheduler.Stop()
}

// Frames returns how many steps have completed.
func (l *Loop) Frames() int {
	return l.frames
}

// Elapsed returns seconds since the first step.
func (l *Loop) Elapsed() float64 {
	return l.prev
}

// Step runs one frame. An error leaves the next step unscheduled, which
// ends the loop.
func (l *Loop) Step(now time.Time) error {
	if !l.started {
		l.start, l.started = now, true
	}
	elapsed := now.Sub(l.start).Seconds()
	delta := elapsed - l.prev
	l.prev = elapsed
	if l.MaxDelta > 0 && delta > l.MaxDelta {
		delta = l.MaxDelta
	}

	if l.BeforeFrame != nil {
		l.BeforeFrame(delta)
	}

	l.Rig.ScrollTo(l.Tracker.Progress())
	l.Rig.Follow(ParallaxTarget(l.Tracker.Pointer()), delta)

	for _, o := range l.Scene.Sections {
		o.Base.X += delta * SpinX
		o.Base.Y += delta * SpinY
	}
	l.Driver.Advance(delta)

	if err := l.Renderer.Render(l.Scene, l.Rig.Position()); err != nil {
		return fmt.Errorf("render frame %d: %w", l.frames, err)
	}
	l.frames++

	l.Scheduler.Schedule(l.Step)
	return nil
}
