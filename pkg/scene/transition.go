package scene

import (
	"github.com/sebas2906/portfolio/pkg/math3d"
)

const (
	// TransitionDuration is how long a section entry spin lasts, in seconds.
	TransitionDuration = 1.5
)

// TransitionDelta is the rotation a section entry adds to its object.
var TransitionDelta = math3d.V3(6, 3, 1.5)

// tween adds delta to one object's rotation over duration.
type tween struct {
	object   int
	delta    math3d.Vec3
	duration float64
	elapsed  float64
}

func (t *tween) progress() float64 {
	return easeInOutQuad(min(t.elapsed/t.duration, 1))
}

// easeInOutQuad is the power2 in-out curve.
func easeInOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	u := -2*t + 2
	return 1 - u*u/2
}

// TransitionDriver spins a section's object when the page scrolls into it.
//
// Spins on the same object compound: a new one runs alongside any spin still
// in progress, each contributing its own eased share to the object's Offset.
// When a spin finishes its full delta is folded into the object's Base.
type TransitionDriver struct {
	scene *Scene
	tasks []*tween
}

// NewTransitionDriver creates a driver animating scene's section objects.
func NewTransitionDriver(s *Scene) *TransitionDriver {
	return &TransitionDriver{scene: s}
}

// OnSectionChanged starts a spin on the object for section index. Indices
// without an object are ignored.
func (d *TransitionDriver) OnSectionChanged(index int) {
	if index < 0 || index >= len(d.scene.Sections) {
		return
	}
	d.tasks = append(d.tasks, &tween{
		object:   index,
		delta:    TransitionDelta,
		duration: TransitionDuration,
	})
}

// Active returns the number of running spins.
func (d *TransitionDriver) Active() int {
	return len(d.tasks)
}

// Advance moves all spins forward by dt seconds and rewrites the Offset of
// every section object.
func (d *TransitionDriver) Advance(dt float64) {
	for _, o := range d.scene.Sections {
		o.Offset = math3d.Vec3{}
	}

	running := d.tasks[:0]
	for _, t := range d.tasks {
		t.elapsed += dt
		obj := d.scene.Sections[t.object]
		if t.elapsed >= t.duration {
			obj.Base = obj.Base.Add(t.delta)
			continue
		}
		obj.Offset = obj.Offset.Add(t.delta.Scale(t.progress()))
		running = append(running, t)
	}
	clear(d.tasks[len(running):])
	d.tasks = running
}
