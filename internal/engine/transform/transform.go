// Package transform holds position, rotation and scale for a scene object
// and lazily derives its world matrix and local axes.
package transform

import (
	"github.com/Faultbox/lumen/internal/engine/cache"
	"github.com/Faultbox/lumen/pkg/math"
)

// Matrices is the world matrix and its inverse-transpose, used to carry
// normals into world space. They are always recomputed together.
type Matrices struct {
	World                 math.Mat4
	WorldInverseTranspose math.Mat4
}

// Axes are the local right, up and forward unit vectors in world space.
type Axes struct {
	Right, Up, Forward math.Vec3
}

var (
	localRight   = math.Vec3{X: 1}
	localUp      = math.Vec3{Y: 1}
	localForward = math.Vec3{Z: -1}
)

// Transform is owned by exactly one camera or entity. Mutators only
// record the new value and invalidate; getters pay for recomputation.
//
// Rotation is Euler pitch/yaw/roll in radians, applied roll, pitch, yaw.
// Pitch of ±90° loses a degree of freedom (gimbal lock).
type Transform struct {
	position math.Vec3
	rotation math.Vec3 // X=pitch, Y=yaw, Z=roll
	scale    math.Vec3

	matrices cache.Cached[Matrices]
	axes     cache.Cached[Axes]
}

// New returns a transform at the origin with no rotation and unit scale.
func New() *Transform {
	t := &Transform{scale: math.Vec3{X: 1, Y: 1, Z: 1}}
	t.matrices = cache.New(Matrices{
		World:                 math.Identity(),
		WorldInverseTranspose: math.Identity(),
	}, t.computeMatrices)
	t.axes = cache.New(Axes{Right: localRight, Up: localUp, Forward: localForward}, t.computeAxes)
	return t
}

// SetPosition places the transform at (x, y, z).
func (t *Transform) SetPosition(x, y, z float32) {
	t.SetPositionVec(math.Vec3{X: x, Y: y, Z: z})
}

// SetPositionVec places the transform at p.
func (t *Transform) SetPositionVec(p math.Vec3) {
	t.position = p
	t.matrices.Invalidate()
}

// SetRotation replaces the Euler angles.
func (t *Transform) SetRotation(pitch, yaw, roll float32) {
	t.SetRotationVec(math.Vec3{X: pitch, Y: yaw, Z: roll})
}

// SetRotationVec replaces the Euler angles (X=pitch, Y=yaw, Z=roll).
func (t *Transform) SetRotationVec(r math.Vec3) {
	t.rotation = r
	t.matrices.Invalidate()
	t.axes.Invalidate()
}

// SetScale replaces the per-axis scale.
func (t *Transform) SetScale(x, y, z float32) {
	t.SetScaleVec(math.Vec3{X: x, Y: y, Z: z})
}

// SetScaleVec replaces the per-axis scale.
func (t *Transform) SetScaleVec(s math.Vec3) {
	t.scale = s
	t.matrices.Invalidate()
}

// MoveAbsolute adds a world-space offset to the position.
func (t *Transform) MoveAbsolute(x, y, z float32) {
	t.MoveAbsoluteVec(math.Vec3{X: x, Y: y, Z: z})
}

// MoveAbsoluteVec adds a world-space offset to the position.
func (t *Transform) MoveAbsoluteVec(offset math.Vec3) {
	t.position = t.position.Add(offset)
	t.matrices.Invalidate()
}

// MoveRelative adds an offset expressed in the transform's local frame.
func (t *Transform) MoveRelative(x, y, z float32) {
	t.MoveRelativeVec(math.Vec3{X: x, Y: y, Z: z})
}

// MoveRelativeVec rotates offset by the current orientation and adds it
// to the position.
func (t *Transform) MoveRelativeVec(offset math.Vec3) {
	q := t.orientation()
	t.position = t.position.Add(q.Rotate(offset))
	t.matrices.Invalidate()
}

// Rotate adds to the Euler angles.
func (t *Transform) Rotate(pitch, yaw, roll float32) {
	t.RotateVec(math.Vec3{X: pitch, Y: yaw, Z: roll})
}

// RotateVec adds delta to the Euler angles.
func (t *Transform) RotateVec(delta math.Vec3) {
	t.rotation = t.rotation.Add(delta)
	t.matrices.Invalidate()
	t.axes.Invalidate()
}

// Scale multiplies the per-axis scale.
func (t *Transform) Scale(x, y, z float32) {
	t.ScaleVec(math.Vec3{X: x, Y: y, Z: z})
}

// ScaleVec multiplies the per-axis scale component-wise.
func (t *Transform) ScaleVec(factor math.Vec3) {
	t.scale = t.scale.Mul(factor)
	t.matrices.Invalidate()
}

// Position returns the world position.
func (t *Transform) Position() math.Vec3 { return t.position }

// PitchYawRoll returns the Euler angles (X=pitch, Y=yaw, Z=roll).
func (t *Transform) PitchYawRoll() math.Vec3 { return t.rotation }

// ScaleFactors returns the per-axis scale.
func (t *Transform) ScaleFactors() math.Vec3 { return t.scale }

// WorldMatrix returns scale, then rotation, then translation as one matrix.
func (t *Transform) WorldMatrix() math.Mat4 {
	return t.matrices.Get().World
}

// WorldInverseTranspose returns the inverse-transpose of WorldMatrix.
func (t *Transform) WorldInverseTranspose() math.Mat4 {
	return t.matrices.Get().WorldInverseTranspose
}

// Right returns the local +X axis in world space.
func (t *Transform) Right() math.Vec3 { return t.axes.Get().Right }

// Up returns the local +Y axis in world space.
func (t *Transform) Up() math.Vec3 { return t.axes.Get().Up }

// Forward returns the local -Z axis in world space.
func (t *Transform) Forward() math.Vec3 { return t.axes.Get().Forward }

func (t *Transform) orientation() math.Quat {
	return math.QuatFromPitchYawRoll(t.rotation.X, t.rotation.Y, t.rotation.Z)
}

func (t *Transform) computeMatrices() Matrices {
	world := math.Translate(t.position).
		Mul(math.RotatePitchYawRoll(t.rotation.X, t.rotation.Y, t.rotation.Z)).
		Mul(math.Scale(t.scale))
	return Matrices{
		World:                 world,
		WorldInverseTranspose: world.Transpose().Inverse(),
	}
}

func (t *Transform) computeAxes() Axes {
	q := t.orientation()
	return Axes{
		Right:   q.Rotate(localRight),
		Up:      q.Rotate(localUp),
		Forward: q.Rotate(localForward),
	}
}
