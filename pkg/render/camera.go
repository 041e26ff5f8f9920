package render

import (
	"math"

	"github.com/sebas2906/portfolio/pkg/math3d"
)

// Camera is a perspective camera looking down -Z. The page camera never
// rotates; it only slides with scroll and parallax, so orientation is fixed.
type Camera struct {
	Position math3d.Vec3

	FOV         float64 // vertical, radians
	AspectRatio float64 // width / height
	Near        float64
	Far         float64

	viewMatrix     math3d.Mat4
	projMatrix     math3d.Mat4
	viewProjMatrix math3d.Mat4
	viewDirty      bool
	projDirty      bool
	vpDirty        bool
}

// NewCamera creates a camera with a 35 degree field of view.
func NewCamera() *Camera {
	return &Camera{
		FOV:         35 * math.Pi / 180,
		AspectRatio: 1,
		Near:        0.1,
		Far:         100,
		viewDirty:   true,
		projDirty:   true,
		vpDirty:     true,
	}
}

// SetPosition moves the camera.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	if pos == c.Position {
		return
	}
	c.Position = pos
	c.viewDirty = true
	c.vpDirty = true
}

// SetFOV sets the vertical field of view in radians.
func (c *Camera) SetFOV(fov float64) {
	c.FOV = fov
	c.projDirty = true
	c.vpDirty = true
}

// SetAspectRatio sets the projection aspect ratio. Setting the same value
// twice keeps the cached projection.
func (c *Camera) SetAspectRatio(aspect float64) {
	if aspect == c.AspectRatio {
		return
	}
	c.AspectRatio = aspect
	c.projDirty = true
	c.vpDirty = true
}

// SetClipPlanes sets the near and far clipping planes.
func (c *Camera) SetClipPlanes(near, far float64) {
	c.Near = near
	c.Far = far
	c.projDirty = true
	c.vpDirty = true
}

// ViewMatrix returns the view matrix.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	if c.viewDirty {
		c.viewMatrix = math3d.Translate(c.Position.Negate())
		c.viewDirty = false
	}
	return c.viewMatrix
}

// ProjectionMatrix returns the projection matrix.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	if c.projDirty {
		c.projMatrix = math3d.Perspective(c.FOV, c.AspectRatio, c.Near, c.Far)
		c.projDirty = false
	}
	return c.projMatrix
}

// ViewProjectionMatrix returns projection * view.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	if c.vpDirty {
		c.viewProjMatrix = c.ProjectionMatrix().Mul(c.ViewMatrix())
		c.vpDirty = false
	}
	return c.viewProjMatrix
}
