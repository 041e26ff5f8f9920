// Package scene holds the page's 3D background: one object per content
// section, a particle field, the camera rig that follows scroll and pointer,
// and the loop that animates and draws them.
package scene

import (
	"fmt"
	"math/rand"

	"github.com/sebas2906/portfolio/pkg/math3d"
	"github.com/sebas2906/portfolio/pkg/models"
	"github.com/sebas2906/portfolio/pkg/render"
)

// ObjectsDistance is the vertical spacing between section objects, and so
// how far the camera travels per scrolled section.
const ObjectsDistance = 4.0

var (
	// MaterialColor is the shared toon color of objects and particles.
	MaterialColor = render.RGB(0x3c, 0x98, 0xfb)
	// Background is the page background.
	Background = render.RGB(0x1e, 0x1a, 0x20)
)

// SectionObject is the 3D object for one section. Its rendered rotation is
// Base, advanced every frame, plus Offset, owned by running transitions.
type SectionObject struct {
	Mesh     *models.Mesh
	Position math3d.Vec3
	Base     math3d.Vec3
	Offset   math3d.Vec3
}

// Rotation returns the rotation to render with.
func (o *SectionObject) Rotation() math3d.Vec3 {
	return o.Base.Add(o.Offset)
}

// Transform returns the object's model matrix.
func (o *SectionObject) Transform() math3d.Mat4 {
	return math3d.Compose(o.Position, o.Rotation(), 1)
}

// Scene is the static content of the background.
type Scene struct {
	Sections  []*SectionObject
	Particles []math3d.Vec3

	Material      *render.ToonMaterial
	ParticleColor render.Color
	ParticleSize  float64
	Light         render.DirectionalLight
	Background    render.Color
}

// Options configure Build.
type Options struct {
	// Meshes holds one mesh per section. Nil entries get the default
	// primitive for that slot.
	Meshes []*models.Mesh

	Particles int
	Seed      int64
	Gradient  *render.Texture
	// Color tints objects and particles. The zero value means MaterialColor.
	Color render.Color
}

// DefaultMesh returns the built-in primitive for section i: a torus, a cone
// and a torus knot, repeating.
func DefaultMesh(i int) *models.Mesh {
	switch i % 3 {
	case 0:
		return models.NewTorus(1, 0.4, 16, 60)
	case 1:
		return models.NewCone(1, 2, 32)
	default:
		return models.NewTorusKnot(0.8, 0.35, 100, 16, 2, 3)
	}
}

// SectionPosition places section i: alternating sides, one spacing down
// per section.
func SectionPosition(i int) math3d.Vec3 {
	x := 2.0
	if i%2 == 1 {
		x = -2
	}
	return math3d.V3(x, -ObjectsDistance*float64(i), 0)
}

// Build creates the scene. It is called once at startup.
func Build(opts Options) (*Scene, error) {
	if len(opts.Meshes) == 0 {
		return nil, fmt.Errorf("scene needs at least one section")
	}

	tint := opts.Color
	if tint == (render.Color{}) {
		tint = MaterialColor
	}

	s := &Scene{
		Material: &render.ToonMaterial{
			Color:    tint,
			Gradient: opts.Gradient,
		},
		ParticleColor: tint,
		ParticleSize:  0.03,
		Light: render.DirectionalLight{
			Position:  math3d.V3(1, 1, 0),
			Color:     render.RGB(255, 255, 255),
			Intensity: 3,
		},
		Background: Background,
	}

	for i, mesh := range opts.Meshes {
		if mesh == nil {
			mesh = DefaultMesh(i)
		}
		s.Sections = append(s.Sections, &SectionObject{
			Mesh:     mesh,
			Position: SectionPosition(i),
		})
	}

	s.Particles = scatter(opts.Particles, len(s.Sections), rand.New(rand.NewSource(opts.Seed)))
	return s, nil
}

// scatter spreads n particles through the page volume, from half a section
// above the first object to the bottom of the last section.
func scatter(n, sections int, rng *rand.Rand) []math3d.Vec3 {
	pts := make([]math3d.Vec3, n)
	for i := range pts {
		pts[i] = math3d.V3(
			(rng.Float64()-0.5)*10,
			ObjectsDistance*0.5-rng.Float64()*ObjectsDistance*float64(sections),
			(rng.Float64()-0.5)*10,
		)
	}
	return pts
}

// TriangleCount sums the triangles of all section meshes.
func (s *Scene) TriangleCount() int {
	n := 0
	for _, o := range s.Sections {
		n += o.Mesh.TriangleCount()
	}
	return n
}

// LoadGradient loads the toon gradient map. On failure it returns a
// three-step ramp along with the error, so callers can log and carry on.
func LoadGradient(path string) (*render.Texture, error) {
	tex, err := render.LoadTexture(path)
	if err != nil {
		return render.NewStepGradient(80, 170, 255), err
	}
	return tex, nil
}

// LoadMesh loads a section's model override, falling back to the default
// primitive when path is empty.
func LoadMesh(i int, path string) (*models.Mesh, error) {
	if path == "" {
		return DefaultMesh(i), nil
	}
	mesh, err := models.LoadGLTF(path)
	if err != nil {
		return nil, fmt.Errorf("section %d model: %w", i, err)
	}
	return mesh, nil
}
