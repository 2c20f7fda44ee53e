package tuning

import (
	"errors"
	"testing"

	"github.com/Faultbox/lumen/internal/engine/camera"
	"github.com/Faultbox/lumen/internal/engine/entity"
	"github.com/Faultbox/lumen/internal/engine/gpu"
	"github.com/Faultbox/lumen/internal/engine/gpu/gputest"
	"github.com/Faultbox/lumen/internal/engine/lighting"
	"github.com/Faultbox/lumen/internal/engine/material"
	"github.com/Faultbox/lumen/internal/engine/mesh"
	"github.com/Faultbox/lumen/internal/engine/scene"
	"github.com/Faultbox/lumen/pkg/math"
)

func newPanel(t *testing.T) (*Panel, *entity.Entity, *material.Material) {
	t.Helper()
	dev := gputest.NewDevice(1, 1)
	m, err := mesh.FromModel(dev, mesh.Plane())
	if err != nil {
		t.Fatal(err)
	}
	mat, err := material.New("bronze", dev.NewShader("vs", gpu.VertexStage), dev.NewShader("ps", gpu.PixelStage), material.DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	s := scene.New(lighting.NewList(lighting.NewPoint(math.Vec3{}, 5, math.Vec3{X: 1}, 1)))
	s.AddMaterial(mat)
	e := entity.New(m, mat)
	s.AddEntity(e)
	s.AddCamera(camera.New(1, math.Vec3{}, camera.DefaultOptions()))
	s.AddCamera(camera.New(1, math.Vec3{}, camera.DefaultOptions()))
	return NewPanel(s), e, mat
}

func TestEntityRoundTrip(t *testing.T) {
	p, e, _ := newPanel(t)
	want := EntityTransform{
		Position: math.Vec3{X: 1, Y: 2, Z: 3},
		Rotation: math.Vec3{Y: 0.5},
		Scale:    math.Vec3{X: 2, Y: 2, Z: 2},
	}
	if err := p.SetEntity(0, want); err != nil {
		t.Fatal(err)
	}
	got, err := p.Entity(0)
	if err != nil || got != want {
		t.Errorf("Entity(0) = %+v, %v", got, err)
	}
	if e.Transform().Position() != want.Position {
		t.Error("transform not updated")
	}
	if err := p.SetEntity(1, want); !errors.Is(err, scene.ErrEntityIndex) {
		t.Errorf("SetEntity(1) err = %v", err)
	}
}

func TestMaterialEditsAreShared(t *testing.T) {
	p, _, mat := newPanel(t)
	ms, err := p.Material(0)
	if err != nil {
		t.Fatal(err)
	}
	if ms.Name != "bronze" {
		t.Errorf("name = %q", ms.Name)
	}
	ms.Tint = math.Vec4{X: 1, W: 1}
	ms.UVScale = math.Vec2{X: 4, Y: 4}
	if err := p.SetMaterial(0, ms); err != nil {
		t.Fatal(err)
	}
	if mat.Tint() != ms.Tint || mat.UVScale() != ms.UVScale {
		t.Errorf("material = %v %v", mat.Tint(), mat.UVScale())
	}
	if _, err := p.Material(5); !errors.Is(err, scene.ErrMaterialIndex) {
		t.Errorf("Material(5) err = %v", err)
	}
}

func TestLightColor(t *testing.T) {
	p, _, _ := newPanel(t)
	if err := p.SetLightColor(0, math.Vec3{Z: 1}); err != nil {
		t.Fatal(err)
	}
	c, err := p.LightColor(0)
	if err != nil || c != (math.Vec3{Z: 1}) {
		t.Errorf("LightColor(0) = %v, %v", c, err)
	}
	if err := p.SetLightColor(1, math.Vec3{}); !errors.Is(err, lighting.ErrLightIndex) {
		t.Errorf("SetLightColor(1) err = %v", err)
	}
}

func TestSceneColoursAndCameras(t *testing.T) {
	p, _, _ := newPanel(t)
	p.SetBackground(math.Vec4{X: 1, W: 1})
	p.SetAmbient(math.Vec3{Y: 0.1})
	p.SetTint(math.Vec4{X: 0.5, Y: 0.5, Z: 0.5, W: 1})
	if p.Background().X != 1 || p.Ambient().Y != 0.1 || p.Tint().X != 0.5 {
		t.Error("scene colours not applied")
	}

	p.NextCamera()
	if p.ActiveCamera() != 1 {
		t.Errorf("active = %d, want 1", p.ActiveCamera())
	}
	if err := p.SetActiveCamera(2); !errors.Is(err, scene.ErrCameraIndex) {
		t.Errorf("SetActiveCamera(2) err = %v", err)
	}
	if p.CameraCount() != 2 || p.EntityCount() != 1 || p.MaterialCount() != 1 || p.LightCount() != 1 {
		t.Error("unexpected counts")
	}
}
