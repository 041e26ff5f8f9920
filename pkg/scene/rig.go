package scene

import (
	"github.com/sebas2906/portfolio/pkg/math3d"
	"github.com/sebas2906/portfolio/pkg/viewport"
)

const (
	// CameraDistance is the camera's fixed distance in front of the scene.
	CameraDistance = 6.0
	// ParallaxAmount scales the pointer offset into a camera displacement.
	ParallaxAmount = 0.5
	// ParallaxEase is the follow rate of the parallax group, per second.
	ParallaxEase = 5.0

	// Camera lens: vertical field of view in degrees and clip planes.
	CameraFOV  = 35.0
	CameraNear = 0.1
	CameraFar  = 100.0
)

// CameraRig is a group that drifts with the pointer, holding a camera that
// slides down the page with scroll.
type CameraRig struct {
	Group   math3d.Vec2 // parallax offset
	CameraY float64     // local, from scroll
	CameraZ float64     // local, fixed
}

// NewCameraRig creates a rig with the camera at its resting distance.
func NewCameraRig() *CameraRig {
	return &CameraRig{CameraZ: CameraDistance}
}

// ScrollTo places the camera for a scroll progress measured in sections.
func (r *CameraRig) ScrollTo(progress float64) {
	r.CameraY = -progress * ObjectsDistance
}

// ParallaxTarget maps a pointer offset to the group offset it pulls toward.
// Screen Y grows downward, so it is flipped.
func ParallaxTarget(p viewport.PointerOffset) math3d.Vec2 {
	return math3d.V2(p.X*ParallaxAmount, -p.Y*ParallaxAmount)
}

// Follow eases the group toward target. The step is proportional to dt so
// the drift speed does not depend on frame rate.
func (r *CameraRig) Follow(target math3d.Vec2, dt float64) {
	r.Group = r.Group.Add(target.Sub(r.Group).Scale(ParallaxEase * dt))
}

// Position returns the camera's world position.
func (r *CameraRig) Position() math3d.Vec3 {
	return math3d.V3(r.Group.X, r.Group.Y+r.CameraY, r.CameraZ)
}
