package render

import (
	"math"
	"testing"

	"github.com/sebas2906/portfolio/pkg/math3d"
)

// mockMesh implements BoundedMeshRenderer for testing.
type mockMesh struct {
	positions []math3d.Vec3
	normals   []math3d.Vec3
	faces     [][3]int
}

func (m *mockMesh) VertexCount() int     { return len(m.positions) }
func (m *mockMesh) TriangleCount() int   { return len(m.faces) }
func (m *mockMesh) GetFace(i int) [3]int { return m.faces[i] }
func (m *mockMesh) GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2) {
	return m.positions[i], m.normals[i], math3d.Vec2{}
}

func (m *mockMesh) GetBounds() (lo, hi math3d.Vec3) {
	lo, hi = m.positions[0], m.positions[0]
	for _, p := range m.positions[1:] {
		lo, hi = lo.Min(p), hi.Max(p)
	}
	return lo, hi
}

// facingTriangle is clockwise as seen from +Z, so it faces a camera on the
// positive Z axis.
func facingTriangle() *mockMesh {
	n := math3d.V3(0, 0, 1)
	return &mockMesh{
		positions: []math3d.Vec3{math3d.V3(-1, -1, 0), math3d.V3(0, 1, 0), math3d.V3(1, -1, 0)},
		normals:   []math3d.Vec3{n, n, n},
		faces:     [][3]int{{0, 1, 2}},
	}
}

var (
	testBackground = RGB(30, 26, 32)
	testMaterial   = &ToonMaterial{Color: RGB(60, 152, 251)}
	testLight      = DirectionalLight{Position: math3d.V3(0, 0, 1), Color: RGB(255, 255, 255), Intensity: 3}
)

func createTestRasterizer(size int) (*Rasterizer, *Framebuffer) {
	fb := NewFramebuffer(size, size)
	camera := NewCamera()
	camera.SetPosition(math3d.V3(0, 0, 5))
	r := NewRasterizer(camera, fb)
	r.Begin(testBackground)
	return r, fb
}

func countNot(fb *Framebuffer, c Color) int {
	n := 0
	for _, p := range fb.Pixels {
		if p != c {
			n++
		}
	}
	return n
}

func TestBarycentric(t *testing.T) {
	tests := []struct {
		name     string
		px, py   float64
		expected math3d.Vec3
	}{
		{"vertex 0", 0, 0, math3d.V3(1, 0, 0)},
		{"vertex 1", 1, 0, math3d.V3(0, 1, 0)},
		{"vertex 2", 0, 1, math3d.V3(0, 0, 1)},
		{"centroid", 1.0 / 3, 1.0 / 3, math3d.V3(1.0/3, 1.0/3, 1.0/3)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			bc := barycentric(0, 0, 1, 0, 0, 1, tc.px, tc.py)
			if math.Abs(bc.X-tc.expected.X) > 0.001 ||
				math.Abs(bc.Y-tc.expected.Y) > 0.001 ||
				math.Abs(bc.Z-tc.expected.Z) > 0.001 {
				t.Errorf("barycentric(%v, %v) = %v, want %v", tc.px, tc.py, bc, tc.expected)
			}
		})
	}

	t.Run("outside triangle", func(t *testing.T) {
		bc := barycentric(0, 0, 1, 0, 0, 1, -1, -1)
		if bc.X >= 0 && bc.Y >= 0 && bc.Z >= 0 {
			t.Error("point outside triangle should have a negative weight")
		}
	})
}

func TestToonTone(t *testing.T) {
	stepped := &ToonMaterial{Gradient: NewStepGradient(0, 128, 255)}
	flat := &ToonMaterial{}

	tests := []struct {
		name  string
		mat   *ToonMaterial
		dotNL float64
		want  float64
	}{
		{"gradient unlit", stepped, -1, 0},
		{"gradient terminator", stepped, 0, 128.0 / 255},
		{"gradient lit", stepped, 1, 1},
		{"no gradient shadow", flat, 0, 0.7},
		{"no gradient lit", flat, 1, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.mat.Tone(tc.dotNL); math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("Tone(%v) = %v, want %v", tc.dotNL, got, tc.want)
			}
		})
	}
}

func TestDrawTriangleToon(t *testing.T) {
	r, fb := createTestRasterizer(40)
	r.DrawMeshToon(facingTriangle(), math3d.Identity(), testMaterial, testLight)

	want := MultiplyColor(testMaterial.Color, 3/math.Pi)
	if got := fb.GetPixel(20, 20); got != want {
		t.Errorf("center pixel = %v, want %v", got, want)
	}
	if got := fb.GetPixel(0, 0); got != testBackground {
		t.Errorf("corner pixel = %v, want background", got)
	}
	if r.Stats.MeshesDrawn != 1 {
		t.Errorf("MeshesDrawn = %d, want 1", r.Stats.MeshesDrawn)
	}
}

func TestDrawTriangleToonBackfaceCulling(t *testing.T) {
	r, fb := createTestRasterizer(40)

	mesh := facingTriangle()
	mesh.faces[0] = [3]int{0, 2, 1}
	r.DrawMeshToon(mesh, math3d.Identity(), testMaterial, testLight)

	if n := countNot(fb, testBackground); n != 0 {
		t.Errorf("back-facing triangle drew %d pixels", n)
	}
}

func TestDrawMeshToonFrustumCulling(t *testing.T) {
	r, fb := createTestRasterizer(40)
	r.DrawMeshToon(facingTriangle(), math3d.Translate(math3d.V3(100, 0, 0)), testMaterial, testLight)

	if r.Stats.MeshesTested != 1 || r.Stats.MeshesCulled != 1 {
		t.Errorf("stats = %+v, want one culled mesh", r.Stats)
	}
	if n := countNot(fb, testBackground); n != 0 {
		t.Errorf("culled mesh drew %d pixels", n)
	}
}

func TestDrawPoint(t *testing.T) {
	white := RGB(255, 255, 255)

	t.Run("visible", func(t *testing.T) {
		r, fb := createTestRasterizer(40)
		r.DrawPoint(math3d.V3(0, 0, 0), 0.1, white)
		if fb.GetPixel(20, 20) != white {
			t.Error("point at origin should cover the center pixel")
		}
		if r.Stats.Points != 1 {
			t.Errorf("Points = %d, want 1", r.Stats.Points)
		}
	})

	t.Run("behind camera", func(t *testing.T) {
		r, fb := createTestRasterizer(40)
		r.DrawPoint(math3d.V3(0, 0, 10), 0.1, white)
		if n := countNot(fb, testBackground); n != 0 {
			t.Errorf("drew %d pixels", n)
		}
		if r.Stats.PointsCulled != 1 {
			t.Errorf("PointsCulled = %d, want 1", r.Stats.PointsCulled)
		}
	})

	t.Run("outside frustum", func(t *testing.T) {
		r, fb := createTestRasterizer(40)
		r.DrawPoint(math3d.V3(100, 0, 0), 0.1, white)
		if n := countNot(fb, testBackground); n != 0 {
			t.Errorf("drew %d pixels", n)
		}
		if r.Stats.PointsCulled != 1 {
			t.Errorf("PointsCulled = %d, want 1", r.Stats.PointsCulled)
		}
	})

	t.Run("occluded", func(t *testing.T) {
		r, fb := createTestRasterizer(40)
		r.DrawMeshToon(facingTriangle(), math3d.Identity(), testMaterial, testLight)
		r.DrawPoint(math3d.V3(0, 0, -1), 0.1, white)
		if fb.GetPixel(20, 20) == white {
			t.Error("point behind the triangle should fail the depth test")
		}
		if r.Stats.Points != 0 {
			t.Errorf("Points = %d, want 0", r.Stats.Points)
		}
	})
}

func TestRasterizerResize(t *testing.T) {
	r, fb := createTestRasterizer(10)
	fb.Resize(30, 20)
	r.Resize()
	if len(r.zbuffer) != 600 {
		t.Errorf("zbuffer len = %d, want 600", len(r.zbuffer))
	}
	r.Begin(testBackground)
	for i, z := range r.zbuffer {
		if z != math.MaxFloat64 {
			t.Fatalf("zbuffer[%d] = %v after Begin", i, z)
		}
	}
}

func TestRasterizerDepthBoundsCheck(t *testing.T) {
	r, _ := createTestRasterizer(10)
	for _, p := range [][2]int{{-1, 0}, {0, -1}, {10, 0}, {0, 10}} {
		if r.depthTest(p[0], p[1], 0) {
			t.Errorf("depthTest(%d, %d) passed out of bounds", p[0], p[1])
		}
	}
}

func BenchmarkDrawTriangleToon(b *testing.B) {
	r, _ := createTestRasterizer(120)
	mesh := facingTriangle()
	mat := &ToonMaterial{Color: testMaterial.Color, Gradient: NewStepGradient(0, 128, 255)}

	for b.Loop() {
		r.ClearDepth()
		r.DrawMeshToon(mesh, math3d.Identity(), mat, testLight)
	}
}
