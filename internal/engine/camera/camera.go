// Package camera provides the free-fly scene camera.
package camera

import (
	gomath "math"

	"github.com/Faultbox/lumen/internal/engine/input"
	"github.com/Faultbox/lumen/internal/engine/transform"
	"github.com/Faultbox/lumen/pkg/math"
)

// MaxPitch is the look-up/look-down limit in radians.
const MaxPitch = float32(gomath.Pi / 2)

// Options configures projection and controls.
type Options struct {
	FOV              float32 // vertical, radians
	Near             float32
	Far              float32
	MoveSpeed        float32 // units per second
	LookSpeed        float32 // radians per pixel of mouse motion
	SprintMultiplier float32
	Perspective      bool
	OrthoSize        float32 // view height for orthographic cameras
}

// DefaultOptions returns the stock camera configuration.
func DefaultOptions() Options {
	return Options{
		FOV:              1.5707,
		Near:             0.01,
		Far:              500,
		MoveSpeed:        1,
		LookSpeed:        0.01,
		SprintMultiplier: 5,
		Perspective:      true,
		OrthoSize:        10,
	}
}

// Camera is a first-person camera that flies through the scene.
// W/S move along the view direction, A/D strafe, Space/X move along world
// up. Holding the left mouse button turns the camera.
type Camera struct {
	opts      Options
	transform *transform.Transform

	view       math.Mat4
	projection math.Mat4
}

// New creates a camera at start looking down -Z.
func New(aspect float32, start math.Vec3, opts Options) *Camera {
	c := &Camera{
		opts:      opts,
		transform: transform.New(),
	}
	c.transform.SetPositionVec(start)

	if opts.Perspective {
		c.UpdateProjectionMatrix(aspect)
	} else {
		c.projection = math.OrthoCentered(opts.OrthoSize*aspect, opts.OrthoSize, opts.Near, opts.Far)
	}
	c.UpdateViewMatrix()
	return c
}

// Update applies one tick of input and recomputes the view matrix.
func (c *Camera) Update(dt float32, in input.State) {
	speed := dt * c.opts.MoveSpeed
	if in.KeyDown(input.KeyShift) {
		speed *= c.opts.SprintMultiplier
	}

	t := c.transform
	if in.KeyDown(input.KeyW) {
		t.MoveRelative(0, 0, -speed)
	}
	if in.KeyDown(input.KeyS) {
		t.MoveRelative(0, 0, speed)
	}
	if in.KeyDown(input.KeyD) {
		t.MoveRelative(speed, 0, 0)
	}
	if in.KeyDown(input.KeyA) {
		t.MoveRelative(-speed, 0, 0)
	}
	if in.KeyDown(input.KeySpace) {
		t.MoveAbsolute(0, speed, 0)
	}
	if in.KeyDown(input.KeyX) {
		t.MoveAbsolute(0, -speed, 0)
	}

	if in.MouseLeftDown() {
		dx, dy := in.MouseDelta()
		if dx != 0 || dy != 0 {
			t.Rotate(-float32(dy)*c.opts.LookSpeed, -float32(dx)*c.opts.LookSpeed, 0)

			rot := t.PitchYawRoll()
			if rot.X > MaxPitch || rot.X < -MaxPitch {
				rot.X = clamp(rot.X, -MaxPitch, MaxPitch)
				t.SetRotationVec(rot)
			}
		}
	}

	c.UpdateViewMatrix()
}

// UpdateViewMatrix rebuilds the view matrix from the current position and
// orientation. The local up axis is used so a vertical view stays valid.
func (c *Camera) UpdateViewMatrix() {
	t := c.transform
	c.view = math.LookTo(t.Position(), t.Forward(), t.Up())
}

// UpdateProjectionMatrix rebuilds the projection for a new aspect ratio.
// Orthographic cameras keep the projection they were created with.
func (c *Camera) UpdateProjectionMatrix(aspect float32) {
	if !c.opts.Perspective {
		return
	}
	c.projection = math.Perspective(c.opts.FOV, aspect, c.opts.Near, c.opts.Far)
}

// ViewMatrix returns the view matrix computed by the latest update.
func (c *Camera) ViewMatrix() math.Mat4 { return c.view }

// ProjectionMatrix returns the current projection matrix.
func (c *Camera) ProjectionMatrix() math.Mat4 { return c.projection }

// Transform returns the camera's own transform.
func (c *Camera) Transform() *transform.Transform { return c.transform }

// Position returns the camera position in world space.
func (c *Camera) Position() math.Vec3 { return c.transform.Position() }

// IsPerspective reports whether the camera uses a perspective projection.
func (c *Camera) IsPerspective() bool { return c.opts.Perspective }

// Options returns the camera configuration.
func (c *Camera) Options() Options { return c.opts }

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
