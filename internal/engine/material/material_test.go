package material

import (
	"errors"
	"testing"

	"github.com/Faultbox/lumen/internal/engine/gpu"
	"github.com/Faultbox/lumen/internal/engine/gpu/gputest"
	"github.com/Faultbox/lumen/pkg/math"
)

type eye math.Vec3

func (e eye) Position() math.Vec3 { return math.Vec3(e) }

type countingDrawer struct{ n int }

func (d *countingDrawer) Draw() { d.n++ }

func newTestMaterial(t *testing.T, dev *gputest.Device) (*Material, *gputest.Shader, *gputest.Shader) {
	t.Helper()
	vs := dev.NewShader("vs", gpu.VertexStage, "world", "view", "projection")
	ps := dev.NewShader("ps", gpu.PixelStage)
	m, err := New("bronze", vs, ps, DefaultParams())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m, vs, ps
}

func TestNewRequiresShaders(t *testing.T) {
	dev := gputest.NewDevice(1, 1)
	if _, err := New("x", nil, dev.NewShader("ps", gpu.PixelStage), DefaultParams()); !errors.Is(err, ErrNoShaders) {
		t.Errorf("err = %v, want ErrNoShaders", err)
	}
}

func TestNilShadingDefaultsToTinted(t *testing.T) {
	dev := gputest.NewDevice(1, 1)
	m, err := New("x", dev.NewShader("vs", gpu.VertexStage), dev.NewShader("ps", gpu.PixelStage), Params{})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := m.Shading().(Tinted); !ok {
		t.Errorf("Shading() = %v, want tinted", m.Shading())
	}
	m.SetShading(nil)
	if _, ok := m.Shading().(Tinted); !ok {
		t.Errorf("SetShading(nil) replaced the variant")
	}
}

func TestBindPrefillsMaterialParameters(t *testing.T) {
	dev := gputest.NewDevice(1, 1)
	m, _, ps := newTestMaterial(t, dev)
	m.SetUVScale(math.Vec2{X: 2, Y: 3})
	m.SetRoughness(0.25)
	m.AddTexture("Albedo", 7)
	m.AddSampler("BasicSampler", 9)

	if _, err := m.Bind(eye{X: 1, Y: 2, Z: 3}).Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	want := map[string]any{
		"uvScale":        math.Vec2{X: 2, Y: 3},
		"uvOffset":       math.Vec2{},
		"cameraPosition": math.Vec3{X: 1, Y: 2, Z: 3},
		"roughness":      float32(0.25),
		"Albedo":         gpu.ShaderResourceID(7),
		"BasicSampler":   gpu.SamplerID(9),
	}
	for name, v := range want {
		got, ok := ps.Committed(name)
		if !ok || got != v {
			t.Errorf("%s = %v (%v), want %v", name, got, ok, v)
		}
	}
}

func TestCommitActivatesAndFlushesBothStages(t *testing.T) {
	dev := gputest.NewDevice(1, 1)
	m, vs, ps := newTestMaterial(t, dev)

	b := m.Bind(eye{}).VertexMatrix("world", math.Translate(math.Vec3{X: 5}))
	if _, ok := vs.Staged("world"); ok {
		t.Fatal("parameters reached the shader before Commit")
	}
	if _, err := b.Commit(); err != nil {
		t.Fatal(err)
	}

	if vs.Commits != 1 || ps.Commits != 1 {
		t.Errorf("commits = %d/%d, want 1/1", vs.Commits, ps.Commits)
	}
	if dev.Count("SetShader") != 2 {
		t.Errorf("SetShader calls = %d, want 2", dev.Count("SetShader"))
	}
	if got, _ := vs.Committed("world"); got != math.Translate(math.Vec3{X: 5}) {
		t.Errorf("world = %v", got)
	}
}

func TestUnmatchedNamesIgnored(t *testing.T) {
	dev := gputest.NewDevice(1, 1)
	m, vs, _ := newTestMaterial(t, dev)

	if _, err := m.Bind(eye{}).VertexFloat("doesNotExist", 1).Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if _, ok := vs.Committed("doesNotExist"); ok {
		t.Error("undeclared parameter was stored")
	}
}

func TestBindingConsumedOnce(t *testing.T) {
	dev := gputest.NewDevice(1, 1)
	m, _, _ := newTestMaterial(t, dev)
	var d countingDrawer

	b := m.Bind(eye{})
	c, err := b.Commit()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.Commit(); !errors.Is(err, ErrBindingConsumed) {
		t.Errorf("second Commit err = %v", err)
	}
	if err := c.Draw(&d); err != nil {
		t.Fatal(err)
	}
	if err := c.Draw(&d); !errors.Is(err, ErrBindingConsumed) {
		t.Errorf("second Draw err = %v", err)
	}
	if d.n != 1 {
		t.Errorf("drawn %d times, want 1", d.n)
	}
}

func TestSharedMaterialDrawsIndependentValues(t *testing.T) {
	dev := gputest.NewDevice(1, 1)
	m, _, _ := newTestMaterial(t, dev)
	worlds := []math.Mat4{math.Translate(math.Vec3{X: 1}), math.Translate(math.Vec3{X: 2})}
	for _, w := range worlds {
		c, err := m.Bind(eye{}).VertexMatrix("world", w).Commit()
		if err != nil {
			t.Fatal(err)
		}
		if err := c.Draw(drawFunc(func() { dev.DrawIndexed(3, 0, 0) })); err != nil {
			t.Fatal(err)
		}
	}

	if len(dev.Draws) != 2 {
		t.Fatalf("draws = %d", len(dev.Draws))
	}
	for i, w := range worlds {
		if dev.Draws[i].VS["world"] != w {
			t.Errorf("draw %d world = %v, want %v", i, dev.Draws[i].VS["world"], w)
		}
	}
}

type drawFunc func()

func (f drawFunc) Draw() { f() }

func TestShadingIndexRoundTrip(t *testing.T) {
	for i := 0; i < 3; i++ {
		s, err := ShadingFromIndex(i)
		if err != nil {
			t.Fatalf("ShadingFromIndex(%d): %v", i, err)
		}
		if ShadingIndex(s) != i {
			t.Errorf("ShadingIndex(%v) = %d, want %d", s, ShadingIndex(s), i)
		}
	}
	if _, err := ShadingFromIndex(3); err == nil {
		t.Error("expected error for index 3")
	}
}
