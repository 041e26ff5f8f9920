package scene

import (
	"math"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/sebas2906/portfolio/pkg/math3d"
	"github.com/sebas2906/portfolio/pkg/render"
)

// RasterRenderer draws the scene with the software rasterizer and presents
// it on a terminal screen as half-block cells.
type RasterRenderer struct {
	Camera *render.Camera

	fb     *render.Framebuffer
	raster *render.Rasterizer
	term   *render.TerminalRenderer

	// Overlay draws text over the presented frame, before it is flushed.
	Overlay func(scr uv.Screen)
}

// NewRasterRenderer creates a renderer for a cols x rows screen.
func NewRasterRenderer(scr uv.Screen, cols, rows int) *RasterRenderer {
	term := render.NewTerminalRenderer(scr, cols, rows)
	w, h := term.FramebufferSize()
	fb := render.NewFramebuffer(w, h)
	cam := render.NewCamera()
	cam.SetFOV(CameraFOV * math.Pi / 180)
	cam.SetClipPlanes(CameraNear, CameraFar)
	if h > 0 {
		cam.SetAspectRatio(float64(w) / float64(h))
	}
	return &RasterRenderer{
		Camera: cam,
		fb:     fb,
		raster: render.NewRasterizer(cam, fb),
		term:   term,
	}
}

// Resize matches the framebuffer, depth buffer and camera aspect to a new
// screen size. Repeating the current size changes nothing.
func (r *RasterRenderer) Resize(cols, rows int) bool {
	if !r.term.Resize(cols, rows) {
		return false
	}
	w, h := r.term.FramebufferSize()
	r.fb.Resize(w, h)
	r.raster.Resize()
	if h > 0 {
		r.Camera.SetAspectRatio(float64(w) / float64(h))
	}
	return true
}

// Size returns the screen size in cells.
func (r *RasterRenderer) Size() (cols, rows int) {
	return r.term.Size()
}

// Framebuffer returns the last rendered frame.
func (r *RasterRenderer) Framebuffer() *render.Framebuffer {
	return r.fb
}

// Stats returns culling counters for the last frame.
func (r *RasterRenderer) Stats() render.CullingStats {
	return r.raster.Stats
}

// Render draws s from camera and flushes it to the screen.
func (r *RasterRenderer) Render(s *Scene, camera math3d.Vec3) error {
	r.Camera.SetPosition(camera)
	r.raster.Begin(s.Background)

	for _, o := range s.Sections {
		r.raster.DrawMeshToon(o.Mesh, o.Transform(), s.Material, s.Light)
	}
	for _, p := range s.Particles {
		r.raster.DrawPoint(p, s.ParticleSize, s.ParticleColor)
	}
	return r.Present()
}

// Present puts the last rendered frame and the overlay on the screen
// without drawing the scene again.
func (r *RasterRenderer) Present() error {
	r.term.Render(r.fb)
	if r.Overlay != nil {
		r.Overlay(r.term.Screen())
	}
	return r.term.Flush()
}
