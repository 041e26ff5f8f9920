package models

import (
	"math"
	"os"
	"testing"

	"github.com/sebas2906/portfolio/pkg/math3d"
)

func TestPrimitiveCounts(t *testing.T) {
	tests := []struct {
		name      string
		mesh      *Mesh
		vertices  int
		triangles int
	}{
		{"torus", NewTorus(1, 0.4, 16, 60), 17 * 61, 16 * 60 * 2},
		{"cone", NewCone(1, 2, 32), 2*33 + 32 + 33, 32 * 2},
		{"torus knot", NewTorusKnot(0.8, 0.35, 100, 16, 2, 3), 101 * 17, 100 * 16 * 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.mesh.VertexCount(); got != tc.vertices {
				t.Errorf("vertices = %d, want %d", got, tc.vertices)
			}
			if got := tc.mesh.TriangleCount(); got != tc.triangles {
				t.Errorf("triangles = %d, want %d", got, tc.triangles)
			}
		})
	}
}

func TestPrimitiveBounds(t *testing.T) {
	torus := NewTorus(1, 0.4, 16, 60)
	if math.Abs(torus.BoundsMax.X-1.4) > 1e-9 || math.Abs(torus.BoundsMax.Z-0.4) > 1e-9 {
		t.Errorf("torus bounds max = %+v", torus.BoundsMax)
	}

	cone := NewCone(1, 2, 32)
	if cone.BoundsMax.Y != 1 || cone.BoundsMin.Y != -1 {
		t.Errorf("cone Y bounds = %f..%f", cone.BoundsMin.Y, cone.BoundsMax.Y)
	}
}

// Faces must wind so the rasterizer sees their outside.
func TestPrimitiveWindingFacesOutward(t *testing.T) {
	meshes := map[string]*Mesh{
		"torus":      NewTorus(1, 0.4, 16, 60),
		"cone":       NewCone(1, 2, 32),
		"torus knot": NewTorusKnot(0.8, 0.35, 100, 16, 2, 3),
	}

	for name, m := range meshes {
		t.Run(name, func(t *testing.T) {
			agree := 0
			for i := range m.TriangleCount() {
				f := m.GetFace(i)
				p0, n0, _ := m.GetVertex(f[0])
				p1, n1, _ := m.GetVertex(f[1])
				p2, n2, _ := m.GetVertex(f[2])

				faceNormal := p2.Sub(p0).Cross(p1.Sub(p0))
				if faceNormal.Dot(n0.Add(n1).Add(n2)) > 0 {
					agree++
				}
			}
			if ratio := float64(agree) / float64(m.TriangleCount()); ratio < 0.95 {
				t.Errorf("only %.0f%% of faces wind outward", ratio*100)
			}
		})
	}
}

func TestSmoothNormalsAreUnit(t *testing.T) {
	m := NewTorus(1, 0.4, 8, 12)
	m.CalculateSmoothNormals()
	for i, v := range m.Vertices {
		if math.Abs(v.Normal.Len()-1) > 1e-6 {
			t.Fatalf("vertex %d normal length %f", i, v.Normal.Len())
		}
	}
}

func TestFit(t *testing.T) {
	m := NewMesh("box")
	m.addVertex(math3d.V3(10, 10, 10), math3d.Vec3{}, math3d.Vec2{})
	m.addVertex(math3d.V3(14, 12, 10), math3d.Vec3{}, math3d.Vec2{})
	m.Fit(2)

	if c := m.Center(); c.Len() > 1e-9 {
		t.Errorf("center = %+v", c)
	}
	if s := m.Size(); math.Abs(s.X-2) > 1e-9 || math.Abs(s.Y-1) > 1e-9 {
		t.Errorf("size = %+v", s)
	}
}

func TestLoadGLTFInvalidPath(t *testing.T) {
	if _, err := LoadGLTF("/nonexistent/path.glb"); err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestLoadGLTFEmbedded(t *testing.T) {
	mesh, err := LoadGLTF("testdata/triangle.gltf")
	if err != nil {
		t.Fatalf("LoadGLTF: %v", err)
	}
	if mesh.TriangleCount() != 1 || mesh.VertexCount() != 3 {
		t.Fatalf("got %d triangles, %d vertices", mesh.TriangleCount(), mesh.VertexCount())
	}
	if got := mesh.GetFace(0); got != [3]int{0, 2, 1} {
		t.Errorf("face = %v, want winding flipped", got)
	}
	if s := mesh.Size(); math.Abs(max(s.X, s.Y, s.Z)-2) > 1e-6 {
		t.Errorf("fitted size = %+v", s)
	}
}

func TestDecodeGLTF(t *testing.T) {
	f, err := os.Open("testdata/triangle.gltf")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	loader := NewGLTFLoader()
	loader.FitSize = 0
	mesh, err := loader.Decode("triangle", f)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if mesh.BoundsMax != math3d.V3(1, 1, 0) {
		t.Errorf("bounds max = %+v", mesh.BoundsMax)
	}
	_, n, _ := mesh.GetVertex(0)
	if math.Abs(n.Len()-1) > 1e-6 {
		t.Errorf("normal not computed: %+v", n)
	}
}
