// Package tuning is the read/write surface a debug overlay edits the
// running scene through. Every indexed access is bounds-checked.
package tuning

import (
	"fmt"

	"github.com/Faultbox/lumen/internal/engine/scene"
	"github.com/Faultbox/lumen/pkg/math"
)

// EntityTransform is an entity's editable transform state.
type EntityTransform struct {
	Position math.Vec3
	Rotation math.Vec3 // pitch, yaw, roll
	Scale    math.Vec3
}

// MaterialState is a material's editable state.
type MaterialState struct {
	Name      string
	Tint      math.Vec4
	UVScale   math.Vec2
	UVOffset  math.Vec2
	Roughness float32
}

// Panel exposes the live-tunable parameters of a scene.
type Panel struct {
	scene *scene.Scene
}

// NewPanel wraps s.
func NewPanel(s *scene.Scene) *Panel {
	return &Panel{scene: s}
}

// Scene returns the scene being tuned.
func (p *Panel) Scene() *scene.Scene { return p.scene }

// EntityCount returns the number of entities.
func (p *Panel) EntityCount() int { return len(p.scene.Entities()) }

// Entity returns entity i's transform.
func (p *Panel) Entity(i int) (EntityTransform, error) {
	e, err := p.scene.Entity(i)
	if err != nil {
		return EntityTransform{}, err
	}
	t := e.Transform()
	return EntityTransform{Position: t.Position(), Rotation: t.PitchYawRoll(), Scale: t.ScaleFactors()}, nil
}

// SetEntity overwrites entity i's transform.
func (p *Panel) SetEntity(i int, et EntityTransform) error {
	e, err := p.scene.Entity(i)
	if err != nil {
		return err
	}
	t := e.Transform()
	t.SetPositionVec(et.Position)
	t.SetRotationVec(et.Rotation)
	t.SetScaleVec(et.Scale)
	return nil
}

// MaterialCount returns the number of materials.
func (p *Panel) MaterialCount() int { return len(p.scene.Materials()) }

// Material returns material i's state.
func (p *Panel) Material(i int) (MaterialState, error) {
	m, err := p.scene.Material(i)
	if err != nil {
		return MaterialState{}, err
	}
	return MaterialState{
		Name:      m.Name(),
		Tint:      m.Tint(),
		UVScale:   m.UVScale(),
		UVOffset:  m.UVOffset(),
		Roughness: m.Roughness(),
	}, nil
}

// SetMaterial applies tint, UV transform and roughness to material i. The
// name is read-only.
func (p *Panel) SetMaterial(i int, ms MaterialState) error {
	m, err := p.scene.Material(i)
	if err != nil {
		return err
	}
	m.SetTint(ms.Tint)
	m.SetUVScale(ms.UVScale)
	m.SetUVOffset(ms.UVOffset)
	m.SetRoughness(ms.Roughness)
	return nil
}

// LightCount returns the number of lights.
func (p *Panel) LightCount() int { return p.scene.Lights.Len() }

// LightColor returns light i's colour.
func (p *Panel) LightColor(i int) (math.Vec3, error) {
	l, err := p.scene.Lights.At(i)
	if err != nil {
		return math.Vec3{}, err
	}
	return l.Color, nil
}

// SetLightColor changes light i's colour.
func (p *Panel) SetLightColor(i int, c math.Vec3) error {
	if err := p.scene.Lights.SetColor(i, c); err != nil {
		return fmt.Errorf("tuning: %w", err)
	}
	return nil
}

// Background returns the clear colour.
func (p *Panel) Background() math.Vec4 { return p.scene.Background }

// SetBackground changes the clear colour.
func (p *Panel) SetBackground(c math.Vec4) { p.scene.Background = c }

// Ambient returns the ambient colour.
func (p *Panel) Ambient() math.Vec3 { return p.scene.Ambient }

// SetAmbient changes the ambient colour.
func (p *Panel) SetAmbient(c math.Vec3) { p.scene.Ambient = c }

// Tint returns the scene-wide tint.
func (p *Panel) Tint() math.Vec4 { return p.scene.Tint }

// SetTint changes the scene-wide tint.
func (p *Panel) SetTint(c math.Vec4) { p.scene.Tint = c }

// CameraCount returns the number of cameras.
func (p *Panel) CameraCount() int { return len(p.scene.Cameras()) }

// ActiveCamera returns the active camera index.
func (p *Panel) ActiveCamera() int { return p.scene.ActiveCameraIndex() }

// SetActiveCamera selects camera i.
func (p *Panel) SetActiveCamera(i int) error { return p.scene.SetActiveCamera(i) }

// NextCamera cycles forward through the cameras.
func (p *Panel) NextCamera() { p.scene.NextCamera() }

// PrevCamera cycles backward through the cameras.
func (p *Panel) PrevCamera() { p.scene.PrevCamera() }
