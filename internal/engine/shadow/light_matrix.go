package shadow

import (
	"github.com/Faultbox/lumen/pkg/math"
)

// WorldUp is the up vector requested for light views.
var WorldUp = math.Vec3{Y: 1}

// LightBasis places a directional light's shadow camera: the eye sits
// Distance units behind the origin along the light direction and looks
// at the point Direction.
type LightBasis struct {
	Eye    math.Vec3
	Target math.Vec3
	Up     math.Vec3
}

// BasisFor builds the shadow camera basis for a light travelling along dir.
func BasisFor(dir math.Vec3, distance float32) LightBasis {
	return LightBasis{
		Eye:    dir.Scale(-distance),
		Target: dir,
		Up:     WorldUp,
	}
}

// ViewMatrix returns the light-space view matrix. When the light is
// nearly vertical the requested up vector is parallel to the view
// direction, so +Z is used instead.
func (b LightBasis) ViewMatrix() math.Mat4 {
	up := b.Up
	viewDir := b.Target.Sub(b.Eye).Normalize()
	if abs32(viewDir.Dot(up.Normalize())) > 0.99 {
		up = math.Vec3{Z: 1}
	}
	return math.LookAt(b.Eye, b.Target, up)
}

// ProjectionMatrix returns the orthographic light projection covering a
// size x size square between near and far.
func ProjectionMatrix(size, near, far float32) math.Mat4 {
	return math.OrthoCentered(size, size, near, far)
}

// abs32 returns the absolute value of a float32.
func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
