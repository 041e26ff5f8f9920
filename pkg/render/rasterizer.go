package render

import (
	"math"

	"github.com/sebas2906/portfolio/pkg/math3d"
)

// MeshRenderer is the view of a mesh the rasterizer needs. It lives here so
// render does not import models.
type MeshRenderer interface {
	VertexCount() int
	TriangleCount() int
	GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2)
	GetFace(i int) [3]int
}

// BoundedMeshRenderer adds local bounds, enabling frustum culling.
type BoundedMeshRenderer interface {
	MeshRenderer
	GetBounds() (min, max math3d.Vec3)
}

// Vertex is a world-space vertex ready for rasterization.
type Vertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
}

// Triangle is three world-space vertices, clockwise when front-facing.
type Triangle struct {
	V [3]Vertex
}

// CullingStats counts per-frame culling decisions.
type CullingStats struct {
	MeshesTested int
	MeshesCulled int
	MeshesDrawn  int
	Points       int
	PointsCulled int
}

// Rasterizer draws triangles and points into a Framebuffer with a z-buffer.
type Rasterizer struct {
	camera  *Camera
	fb      *Framebuffer
	zbuffer []float64
	frustum Frustum

	Stats CullingStats
}

// NewRasterizer creates a rasterizer for camera and fb.
func NewRasterizer(camera *Camera, fb *Framebuffer) *Rasterizer {
	r := &Rasterizer{camera: camera, fb: fb}
	r.Resize()
	return r
}

// Resize matches the depth buffer to the framebuffer.
func (r *Rasterizer) Resize() {
	n := r.fb.Width * r.fb.Height
	if cap(r.zbuffer) >= n {
		r.zbuffer = r.zbuffer[:n]
		return
	}
	r.zbuffer = make([]float64, n)
}

// Width returns the framebuffer width.
func (r *Rasterizer) Width() int { return r.fb.Width }

// Height returns the framebuffer height.
func (r *Rasterizer) Height() int { return r.fb.Height }

// Begin starts a frame: clears color and depth, resets stats and takes the
// frustum from the camera's current position.
func (r *Rasterizer) Begin(background Color) {
	r.fb.Clear(background)
	r.ClearDepth()
	r.Stats = CullingStats{}
	r.frustum = NewFrustumFromMatrix(r.camera.ViewProjectionMatrix())
}

// ClearDepth resets the z-buffer.
func (r *Rasterizer) ClearDepth() {
	n := len(r.zbuffer)
	if n == 0 {
		return
	}
	r.zbuffer[0] = math.MaxFloat64
	for i := 1; i < n; i *= 2 {
		copy(r.zbuffer[i:], r.zbuffer[:i])
	}
}

// depthTest writes z at (x, y) if it is nearer than what is stored.
func (r *Rasterizer) depthTest(x, y int, z float64) bool {
	if x < 0 || x >= r.fb.Width || y < 0 || y >= r.fb.Height {
		return false
	}
	i := y*r.fb.Width + x
	if z >= r.zbuffer[i] {
		return false
	}
	r.zbuffer[i] = z
	return true
}

type screenVertex struct {
	X, Y, Z, W float64
	behind     bool
}

func (r *Rasterizer) project(vp math3d.Mat4, p math3d.Vec3) screenVertex {
	clip := vp.MulVec4(math3d.Point(p))
	ndc := clip.PerspectiveDivide()
	return screenVertex{
		X:      (ndc.X + 1) * 0.5 * float64(r.fb.Width),
		Y:      (1 - ndc.Y) * 0.5 * float64(r.fb.Height),
		Z:      ndc.Z,
		W:      clip.W,
		behind: clip.W <= 0,
	}
}

// culled reports whether mesh lies outside the frustum under transform.
// Meshes without bounds are never culled.
func (r *Rasterizer) culled(mesh MeshRenderer, transform math3d.Mat4) bool {
	bounded, ok := mesh.(BoundedMeshRenderer)
	if !ok {
		return false
	}

	r.Stats.MeshesTested++
	lo, hi := bounded.GetBounds()
	if !r.frustum.IntersectAABB(AABB{Min: lo, Max: hi}.Transform(transform)) {
		r.Stats.MeshesCulled++
		return true
	}
	r.Stats.MeshesDrawn++
	return false
}

// DrawMeshToon renders mesh under transform with toon shading.
func (r *Rasterizer) DrawMeshToon(mesh MeshRenderer, transform math3d.Mat4, mat *ToonMaterial, light DirectionalLight) {
	if r.culled(mesh, transform) {
		return
	}

	for i := range mesh.TriangleCount() {
		face := mesh.GetFace(i)
		var tri Triangle
		for k, idx := range face {
			p, n, _ := mesh.GetVertex(idx)
			tri.V[k] = Vertex{
				Position: transform.MulVec3(p),
				Normal:   transform.MulVec3Dir(n).Normalize(),
			}
		}
		r.DrawTriangleToon(tri, mat, light)
	}
}

// DrawTriangleToon rasterizes one triangle. The Lambert term is computed
// per vertex and interpolated; the gradient lookup happens per pixel so tone
// boundaries stay sharp.
func (r *Rasterizer) DrawTriangleToon(tri Triangle, mat *ToonMaterial, light DirectionalLight) {
	vp := r.camera.ViewProjectionMatrix()
	toLight := light.Direction()

	var sv [3]screenVertex
	var dotNL [3]float64
	for i := range 3 {
		sv[i] = r.project(vp, tri.V[i].Position)
		dotNL[i] = tri.V[i].Normal.Dot(toLight)
	}
	if sv[0].behind || sv[1].behind || sv[2].behind {
		return
	}

	e1 := math3d.V2(sv[1].X-sv[0].X, sv[1].Y-sv[0].Y)
	e2 := math3d.V2(sv[2].X-sv[0].X, sv[2].Y-sv[0].Y)
	if e1.Cross(e2) <= 0 {
		return // back-facing or degenerate
	}

	minX := int(math.Max(0, math.Floor(min(sv[0].X, sv[1].X, sv[2].X))))
	maxX := int(math.Min(float64(r.fb.Width-1), math.Ceil(max(sv[0].X, sv[1].X, sv[2].X))))
	minY := int(math.Max(0, math.Floor(min(sv[0].Y, sv[1].Y, sv[2].Y))))
	maxY := int(math.Min(float64(r.fb.Height-1), math.Ceil(max(sv[0].Y, sv[1].Y, sv[2].Y))))

	// Tones repeat heavily; cache the shaded color per tone.
	shaded := map[float64]Color{}

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			bc := barycentric(
				sv[0].X, sv[0].Y,
				sv[1].X, sv[1].Y,
				sv[2].X, sv[2].Y,
				float64(x)+0.5, float64(y)+0.5,
			)
			if bc.X < 0 || bc.Y < 0 || bc.Z < 0 {
				continue
			}

			z := bc.X*sv[0].Z + bc.Y*sv[1].Z + bc.Z*sv[2].Z
			if !r.depthTest(x, y, z) {
				continue
			}

			tone := mat.Tone(bc.X*dotNL[0] + bc.Y*dotNL[1] + bc.Z*dotNL[2])
			c, ok := shaded[tone]
			if !ok {
				c = mat.Shade(tone, light)
				shaded[tone] = c
			}
			r.fb.SetPixel(x, y, c)
		}
	}
}

// DrawPoint plots a depth-tested point. size is in world units and is
// attenuated by distance, with a floor of one pixel.
func (r *Rasterizer) DrawPoint(p math3d.Vec3, size float64, c Color) {
	if !r.frustum.ContainsPoint(p) {
		r.Stats.PointsCulled++
		return
	}
	sv := r.project(r.camera.ViewProjectionMatrix(), p)
	if sv.behind {
		return
	}

	// Same scale as a perspective point sprite: half the viewport height
	// over view depth.
	px := size * float64(r.fb.Height) * 0.5 / sv.W
	half := int(px / 2)

	cx, cy := int(sv.X), int(sv.Y)
	drawn := false
	for y := cy - half; y <= cy+half; y++ {
		for x := cx - half; x <= cx+half; x++ {
			if r.depthTest(x, y, sv.Z) {
				r.fb.SetPixel(x, y, c)
				drawn = true
			}
		}
	}
	if drawn {
		r.Stats.Points++
	}
}

// barycentric returns the weights of (px, py) relative to the triangle.
func barycentric(x0, y0, x1, y1, x2, y2, px, py float64) math3d.Vec3 {
	v0x, v0y := x2-x0, y2-y0
	v1x, v1y := x1-x0, y1-y0
	v2x, v2y := px-x0, py-y0

	dot00 := v0x*v0x + v0y*v0y
	dot01 := v0x*v1x + v0y*v1y
	dot02 := v0x*v2x + v0y*v2y
	dot11 := v1x*v1x + v1y*v1y
	dot12 := v1x*v2x + v1y*v2y

	invDenom := 1.0 / (dot00*dot11 - dot01*dot01)
	u := (dot11*dot02 - dot01*dot12) * invDenom
	v := (dot00*dot12 - dot01*dot02) * invDenom

	return math3d.V3(1-u-v, v, u)
}
