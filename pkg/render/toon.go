package render

import (
	"math"

	"github.com/sebas2906/portfolio/pkg/math3d"
)

// DirectionalLight shines from Position toward the origin.
type DirectionalLight struct {
	Position  math3d.Vec3
	Color     Color
	Intensity float64
}

// Direction returns the unit vector pointing from the surface to the light.
func (l DirectionalLight) Direction() math3d.Vec3 {
	return l.Position.Normalize()
}

// ToonMaterial shades with a stepped lookup: the Lambert term is remapped
// from [-1, 1] to [0, 1] and used as the U coordinate into Gradient, so the
// gradient's texel count decides how many tones a surface shows.
type ToonMaterial struct {
	Color    Color
	Gradient *Texture
}

// Tone returns the gradient level for a remapped Lambert term.
func (m *ToonMaterial) Tone(dotNL float64) float64 {
	coord := dotNL*0.5 + 0.5
	if m.Gradient == nil {
		// Two tones with the edge at 0.7.
		if coord < 0.7 {
			return 0.7
		}
		return 1
	}
	return float64(m.Gradient.Sample(coord, 0).R) / 255
}

// Shade returns the lit color for a tone level.
func (m *ToonMaterial) Shade(tone float64, light DirectionalLight) Color {
	lit := ModulateColor(m.Color, light.Color)
	return MultiplyColor(lit, tone*light.Intensity/math.Pi)
}
