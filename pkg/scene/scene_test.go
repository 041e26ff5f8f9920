package scene

import (
	"errors"
	"math"
	"testing"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebas2906/portfolio/pkg/frame"
	"github.com/sebas2906/portfolio/pkg/math3d"
	"github.com/sebas2906/portfolio/pkg/models"
	"github.com/sebas2906/portfolio/pkg/render"
	"github.com/sebas2906/portfolio/pkg/viewport"
)

func buildTestScene(t *testing.T) *Scene {
	t.Helper()
	s, err := Build(Options{Meshes: make([]*models.Mesh, 3), Particles: 200, Seed: 1})
	require.NoError(t, err)
	return s
}

func assertVec3(t *testing.T, want, got math3d.Vec3) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-9, "x")
	assert.InDelta(t, want.Y, got.Y, 1e-9, "y")
	assert.InDelta(t, want.Z, got.Z, 1e-9, "z")
}

func TestBuildDefaults(t *testing.T) {
	s := buildTestScene(t)

	require.Len(t, s.Sections, 3)
	assert.Equal(t, math3d.V3(2, 0, 0), s.Sections[0].Position)
	assert.Equal(t, math3d.V3(-2, -4, 0), s.Sections[1].Position)
	assert.Equal(t, math3d.V3(2, -8, 0), s.Sections[2].Position)
	assert.Equal(t, "torus", s.Sections[0].Mesh.Name)
	assert.Equal(t, "cone", s.Sections[1].Mesh.Name)
	assert.Equal(t, "torus-knot", s.Sections[2].Mesh.Name)

	require.Len(t, s.Particles, 200)
	for _, p := range s.Particles {
		assert.True(t, p.X >= -5 && p.X < 5, "x %v", p.X)
		assert.True(t, p.Z >= -5 && p.Z < 5, "z %v", p.Z)
		assert.True(t, p.Y <= 2 && p.Y > 2-12, "y %v", p.Y)
	}

	again := buildTestScene(t)
	assert.Equal(t, s.Particles, again.Particles, "same seed, same field")

	assert.Equal(t, math3d.V3(1, 1, 0), s.Light.Position)
	assert.Equal(t, 3.0, s.Light.Intensity)
	assert.Equal(t, MaterialColor, s.Material.Color)
	assert.Equal(t, MaterialColor, s.ParticleColor)
}

func TestBuildTint(t *testing.T) {
	tint := render.RGB(0xff, 0x88, 0x00)
	s, err := Build(Options{Meshes: make([]*models.Mesh, 1), Color: tint})
	require.NoError(t, err)
	assert.Equal(t, tint, s.Material.Color)
	assert.Equal(t, tint, s.ParticleColor)
}

func TestBuildRequiresSections(t *testing.T) {
	_, err := Build(Options{})
	assert.Error(t, err)
}

func TestLoadGradientFallback(t *testing.T) {
	tex, err := LoadGradient("does/not/exist.jpg")
	assert.Error(t, err)
	require.NotNil(t, tex)
	assert.Equal(t, 3, tex.Width)
}

func TestLoadMesh(t *testing.T) {
	m, err := LoadMesh(1, "")
	require.NoError(t, err)
	assert.Equal(t, "cone", m.Name)

	_, err = LoadMesh(0, "missing.glb")
	assert.ErrorContains(t, err, "section 0 model")
}

func TestEaseInOutQuad(t *testing.T) {
	assert.Equal(t, 0.0, easeInOutQuad(0))
	assert.InDelta(t, 0.5, easeInOutQuad(0.5), 1e-12)
	assert.Equal(t, 1.0, easeInOutQuad(1))
	assert.InDelta(t, 0.125, easeInOutQuad(0.25), 1e-12)
}

func TestTransitionDriverSingleSpin(t *testing.T) {
	s := buildTestScene(t)
	d := NewTransitionDriver(s)

	d.OnSectionChanged(1)
	d.Advance(TransitionDuration / 2)
	assertVec3(t, TransitionDelta.Scale(0.5), s.Sections[1].Offset)
	assertVec3(t, math3d.Vec3{}, s.Sections[0].Rotation())
	assertVec3(t, math3d.Vec3{}, s.Sections[2].Rotation())

	d.Advance(TransitionDuration / 2)
	assert.Equal(t, 0, d.Active())
	assertVec3(t, TransitionDelta, s.Sections[1].Base)
	assertVec3(t, math3d.Vec3{}, s.Sections[1].Offset)
}

func TestTransitionDriverCompounds(t *testing.T) {
	s := buildTestScene(t)
	d := NewTransitionDriver(s)
	obj := s.Sections[0]

	d.OnSectionChanged(0)
	d.Advance(TransitionDuration / 2)
	d.OnSectionChanged(0)
	assert.Equal(t, 2, d.Active())

	d.Advance(TransitionDuration / 2)
	assert.Equal(t, 1, d.Active())
	assertVec3(t, TransitionDelta.Scale(1.5), obj.Rotation())

	d.Advance(TransitionDuration)
	assert.Equal(t, 0, d.Active())
	assertVec3(t, TransitionDelta.Scale(2), obj.Base)
}

func TestTransitionDriverRelativeToCurrentRotation(t *testing.T) {
	s := buildTestScene(t)
	d := NewTransitionDriver(s)
	obj := s.Sections[2]
	obj.Base = math3d.V3(1, 2, 3)

	d.OnSectionChanged(2)
	d.Advance(TransitionDuration)
	assertVec3(t, math3d.V3(7, 5, 4.5), obj.Rotation())
}

func TestTransitionDriverIgnoresUnknownSection(t *testing.T) {
	d := NewTransitionDriver(buildTestScene(t))
	d.OnSectionChanged(-1)
	d.OnSectionChanged(3)
	assert.Equal(t, 0, d.Active())
}

func TestCameraRigScroll(t *testing.T) {
	r := NewCameraRig()
	for _, progress := range []float64{0, 0.5, 1, 2} {
		r.ScrollTo(progress)
		assert.Equal(t, -progress*ObjectsDistance, r.CameraY)
	}
	assert.Equal(t, CameraDistance, r.Position().Z)
}

func TestCameraRigFollowScalesWithDelta(t *testing.T) {
	target := ParallaxTarget(viewport.PointerOffset{X: 0.5, Y: -0.5})
	assert.Equal(t, math3d.V2(0.25, 0.25), target)

	a, b := NewCameraRig(), NewCameraRig()
	a.Follow(target, 0.01)
	b.Follow(target, 0.02)
	assert.InDelta(t, 2*a.Group.X, b.Group.X, 1e-12)
	assert.InDelta(t, 2*a.Group.Y, b.Group.Y, 1e-12)

	r := NewCameraRig()
	for range 1000 {
		r.Follow(target, 1.0/60)
		assert.LessOrEqual(t, r.Group.X, target.X)
	}
	assert.InDelta(t, target.X, r.Group.X, 1e-6)
}

type fakeRenderer struct {
	cameras []math3d.Vec3
	err     error
}

func (f *fakeRenderer) Render(_ *Scene, cam math3d.Vec3) error {
	f.cameras = append(f.cameras, cam)
	return f.err
}

func newTestLoop(t *testing.T) (*Loop, *viewport.Tracker, *fakeRenderer, *frame.Manual) {
	t.Helper()
	s := buildTestScene(t)
	tracker := viewport.NewTracker(viewport.New(80, 20), len(s.Sections), nil)
	fr := &fakeRenderer{}
	m := &frame.Manual{}
	return NewLoop(s, tracker, fr, m), tracker, fr, m
}

func TestLoopStep(t *testing.T) {
	l, tracker, fr, m := newTestLoop(t)
	start := time.Unix(100, 0)

	l.Start()
	require.True(t, m.Fire(start))
	assert.Equal(t, 0.0, l.Elapsed(), "first frame has zero delta")
	assertVec3(t, math3d.Vec3{}, l.Scene.Sections[0].Rotation())

	tracker.OnScroll(10)
	require.True(t, m.Fire(start.Add(50*time.Millisecond)))
	assert.InDelta(t, 0.05, l.Elapsed(), 1e-9)
	assert.InDelta(t, 0.05*SpinX, l.Scene.Sections[0].Base.X, 1e-12)
	assert.InDelta(t, 0.05*SpinY, l.Scene.Sections[0].Base.Y, 1e-12)

	require.Len(t, fr.cameras, 2)
	assert.InDelta(t, -2, fr.cameras[1].Y, 1e-12, "camera y = -(scroll/height)*4")
	assert.Equal(t, 2, l.Frames())
	assert.True(t, m.Pending(), "step reschedules itself")
}

func TestLoopSectionChangeStartsTransition(t *testing.T) {
	l, tracker, _, m := newTestLoop(t)
	l.Start()
	m.Fire(time.Unix(0, 0))

	tracker.OnScroll(20)
	assert.Equal(t, 1, l.Driver.Active())

	m.Fire(time.Unix(0, int64(100*time.Millisecond)))
	assert.NotEqual(t, math3d.Vec3{}, l.Scene.Sections[1].Offset)
	assert.Equal(t, math3d.Vec3{}, l.Scene.Sections[2].Offset)
}

func TestLoopCapsDelta(t *testing.T) {
	l, _, _, m := newTestLoop(t)
	l.Start()
	m.Fire(time.Unix(0, 0))
	m.Fire(time.Unix(5, 0))
	assert.InDelta(t, l.MaxDelta*SpinX, l.Scene.Sections[0].Base.X, 1e-12)
	assert.Equal(t, 5.0, l.Elapsed())
}

func TestLoopRenderErrorEndsChain(t *testing.T) {
	l, _, fr, m := newTestLoop(t)
	fr.err = errors.New("terminal gone")

	l.Start()
	assert.True(t, m.Fire(time.Now()))
	assert.ErrorContains(t, m.Err(), "terminal gone")
	assert.False(t, m.Pending())
	assert.Equal(t, 0, l.Frames())
}

func TestLoopBeforeFrame(t *testing.T) {
	l, _, _, m := newTestLoop(t)
	var deltas []float64
	l.BeforeFrame = func(d float64) { deltas = append(deltas, d) }

	l.Start()
	m.Fire(time.Unix(0, 0))
	m.Fire(time.Unix(0, int64(20*time.Millisecond)))
	require.Len(t, deltas, 2)
	assert.InDelta(t, 0.02, deltas[1], 1e-9)
}

func TestRasterRenderer(t *testing.T) {
	s := buildTestScene(t)
	scr := uv.NewScreenBuffer(40, 12)
	r := NewRasterRenderer(scr, 40, 12)

	overlaid := false
	r.Overlay = func(uv.Screen) { overlaid = true }

	rig := NewCameraRig()
	require.NoError(t, r.Render(s, rig.Position()))
	assert.True(t, overlaid)

	stats := r.Stats()
	assert.Equal(t, 1, stats.MeshesDrawn, "only the first section is in view")
	assert.Equal(t, 2, stats.MeshesCulled)
	assert.Positive(t, stats.PointsCulled, "particles further down the page are culled")

	fb := r.Framebuffer()
	drawn := 0
	for _, p := range fb.Pixels {
		if p != s.Background {
			drawn++
		}
	}
	assert.Positive(t, drawn)
}

func TestRasterRendererResizeIsIdempotent(t *testing.T) {
	r := NewRasterRenderer(uv.NewScreenBuffer(40, 12), 40, 12)
	aspect := r.Camera.AspectRatio
	assert.InDelta(t, 40.0/24.0, aspect, 1e-12)

	for range 3 {
		assert.False(t, r.Resize(40, 12))
		assert.Equal(t, aspect, r.Camera.AspectRatio)
		cols, rows := r.Size()
		assert.Equal(t, 40, cols)
		assert.Equal(t, 12, rows)
	}

	assert.True(t, r.Resize(80, 12))
	assert.InDelta(t, 80.0/24.0, r.Camera.AspectRatio, 1e-12)
	assert.Equal(t, 80, r.Framebuffer().Width)
	assert.Equal(t, 24, r.Framebuffer().Height)
}

func TestSectionObjectsFaceTheirText(t *testing.T) {
	r := NewRasterRenderer(uv.NewScreenBuffer(80, 24), 80, 24)
	assert.InDelta(t, CameraFOV*math.Pi/180, r.Camera.FOV, 1e-12)

	for i := range 3 {
		rig := NewCameraRig()
		rig.ScrollTo(float64(i))
		r.Camera.SetPosition(rig.Position())

		clip := r.Camera.ViewProjectionMatrix().MulVec4(math3d.Point(SectionPosition(i)))
		require.Positive(t, clip.W, "section %d", i)
		ndc := clip.PerspectiveDivide()
		assert.InDelta(t, 0, ndc.Y, 1e-9, "object is vertically centered")
		assert.Less(t, math.Abs(ndc.X), 1.0, "object is on screen")
		if i%2 == 0 {
			assert.Positive(t, ndc.X, "even sections sit on the right")
		} else {
			assert.Negative(t, ndc.X, "odd sections sit on the left")
		}
	}
}
