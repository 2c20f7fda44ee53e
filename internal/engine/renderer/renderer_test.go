package renderer

import (
	"errors"
	"slices"
	"testing"

	"github.com/Faultbox/lumen/internal/engine/camera"
	"github.com/Faultbox/lumen/internal/engine/entity"
	"github.com/Faultbox/lumen/internal/engine/gpu"
	"github.com/Faultbox/lumen/internal/engine/gpu/gputest"
	"github.com/Faultbox/lumen/internal/engine/lighting"
	"github.com/Faultbox/lumen/internal/engine/material"
	"github.com/Faultbox/lumen/internal/engine/mesh"
	"github.com/Faultbox/lumen/internal/engine/scene"
	"github.com/Faultbox/lumen/internal/engine/shadow"
	"github.com/Faultbox/lumen/internal/engine/sky"
	"github.com/Faultbox/lumen/pkg/math"
)

const width, height = 1280, 720

type fixture struct {
	dev      *gputest.Device
	renderer *Renderer
	scene    *scene.Scene
	shadows  *shadow.Controller
}

func newFixture(t *testing.T, entities int) *fixture {
	t.Helper()
	dev := gputest.NewDevice(width, height)

	shadows, err := shadow.New(dev, dev.NewShader("shadow_vs", gpu.VertexStage), shadow.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	r, err := New(dev, shadows, Config{Width: width, Height: height, VSync: true})
	if err != nil {
		t.Fatal(err)
	}

	cube, err := mesh.FromModel(dev, mesh.Cube())
	if err != nil {
		t.Fatal(err)
	}
	mat, err := material.New("lit", dev.NewShader("lit_vs", gpu.VertexStage), dev.NewShader("lit_ps", gpu.PixelStage), material.DefaultParams())
	if err != nil {
		t.Fatal(err)
	}

	s := scene.New(lighting.NewList(
		lighting.NewDirectional(math.Vec3{X: 1, Y: -1}, math.Vec3{X: 1, Y: 1, Z: 1}, 1),
		lighting.NewPoint(math.Vec3{Y: 2}, 10, math.Vec3{X: 1}, 1),
	))
	s.AddMesh(cube)
	s.AddMaterial(mat)
	for i := 0; i < entities; i++ {
		s.AddEntity(entity.New(cube, mat))
	}
	s.AddCamera(camera.New(float32(width)/height, math.Vec3{Y: 2, Z: -5}, camera.DefaultOptions()))

	sk, err := sky.New(dev, cube, 99, 98, dev.NewShader("sky_vs", gpu.VertexStage), dev.NewShader("sky_ps", gpu.PixelStage))
	if err != nil {
		t.Fatal(err)
	}
	s.Sky = sk

	dev.Reset()
	return &fixture{dev: dev, renderer: r, scene: s, shadows: shadows}
}

type recordingOverlay struct {
	dev   *gputest.Device
	calls int
	draws int // device draws recorded before the overlay ran
}

func (o *recordingOverlay) DrawOverlay(*scene.Scene, FrameTime) {
	o.calls++
	o.draws = len(o.dev.Draws)
}

func TestFramePhaseOrder(t *testing.T) {
	f := newFixture(t, 2)
	var seen []Phase
	f.renderer.OnPhase = func(p Phase) { seen = append(seen, p) }

	if err := f.renderer.Frame(f.scene, FrameTime{Delta: 0.016, Total: 1}); err != nil {
		t.Fatalf("Frame: %v", err)
	}

	want := []Phase{
		PhaseClearTargets, PhaseShadowDepth, PhaseRestoreMain, PhaseLitGeometry,
		PhaseSky, PhaseOverlay, PhasePresent, PhaseRebindTargets,
	}
	if !slices.Equal(seen, want) {
		t.Errorf("phases = %v, want %v", seen, want)
	}
	if last := f.renderer.LastFrame(); last[len(last)-1] != PhaseDone {
		t.Errorf("last frame ends in %v, want done", last[len(last)-1])
	}
}

func TestExactlyOneShadowPassAndPresent(t *testing.T) {
	f := newFixture(t, 3)
	for i := 0; i < 2; i++ {
		f.dev.Reset()
		if err := f.renderer.Frame(f.scene, FrameTime{}); err != nil {
			t.Fatal(err)
		}
		if f.dev.Presents != 1 {
			t.Errorf("frame %d: presents = %d, want 1", i, f.dev.Presents)
		}
		if n := f.dev.Count("DisablePixelShader"); n != 1 {
			t.Errorf("frame %d: depth passes = %d, want 1", i, n)
		}
		if n := len(f.dev.DrawsWith("shadow_vs")); n != 3 {
			t.Errorf("frame %d: shadow draws = %d, want 3", i, n)
		}
	}
}

func TestLitPassRunsAfterRestore(t *testing.T) {
	f := newFixture(t, 2)
	if err := f.renderer.Frame(f.scene, FrameTime{}); err != nil {
		t.Fatal(err)
	}

	lit := f.dev.DrawsWith("lit_vs")
	if len(lit) != 2 {
		t.Fatalf("lit draws = %d, want 2", len(lit))
	}
	for i, d := range lit {
		if d.Viewport != gpu.FullViewport(width, height) {
			t.Errorf("lit draw %d viewport = %+v", i, d.Viewport)
		}
		if d.Color != f.dev.BackBuffer() || d.Depth != f.dev.DepthBuffer() {
			t.Errorf("lit draw %d targets = %d/%d", i, d.Color, d.Depth)
		}
		if d.Rasterizer != 0 {
			t.Errorf("lit draw %d rasterizer = %d, want default", i, d.Rasterizer)
		}
		if d.PixelShader != "lit_ps" {
			t.Errorf("lit draw %d pixel shader = %q", i, d.PixelShader)
		}
		if d.PS["ShadowMap"] != f.shadows.Map().Resource {
			t.Errorf("lit draw %d shadow map not bound", i)
		}
		if d.PS["lightCount"] != int32(2) {
			t.Errorf("lit draw %d lightCount = %v", i, d.PS["lightCount"])
		}
		if d.VS["lightView"] != f.shadows.Casters()[0].View {
			t.Errorf("lit draw %d light view mismatch", i)
		}
	}
}

func TestSkyDrawnAfterGeometry(t *testing.T) {
	f := newFixture(t, 2)
	overlay := &recordingOverlay{dev: f.dev}
	f.renderer.SetOverlay(overlay)

	if err := f.renderer.Frame(f.scene, FrameTime{}); err != nil {
		t.Fatal(err)
	}

	draws := f.dev.Draws
	lastLit := -1
	skyAt := -1
	for i, d := range draws {
		switch d.VertexShader {
		case "lit_vs":
			lastLit = i
		case "sky_vs":
			skyAt = i
		}
	}
	if skyAt < 0 || skyAt < lastLit {
		t.Errorf("sky draw at %d, last lit draw at %d", skyAt, lastLit)
	}
	if skyAt != len(draws)-1 {
		t.Errorf("sky is not the final draw")
	}
	if overlay.calls != 1 || overlay.draws != len(draws) {
		t.Errorf("overlay calls = %d after %d draws", overlay.calls, overlay.draws)
	}
}

func TestInvalidCameraSkipsLitAndSky(t *testing.T) {
	f := newFixture(t, 2)
	s := scene.New(f.scene.Lights)
	for _, e := range f.scene.Entities() {
		s.AddEntity(e)
	}
	s.Sky = f.scene.Sky

	if err := f.renderer.Frame(s, FrameTime{}); err != nil {
		t.Fatalf("Frame: %v", err)
	}
	if n := len(f.dev.DrawsWith("lit_vs")) + len(f.dev.DrawsWith("sky_vs")); n != 0 {
		t.Errorf("draws with no camera = %d, want 0", n)
	}
	if n := len(f.dev.DrawsWith("shadow_vs")); n != 2 {
		t.Errorf("shadow draws = %d, want 2", n)
	}
	if f.dev.Presents != 1 {
		t.Errorf("presents = %d, want 1", f.dev.Presents)
	}
}

func TestEndOfFrameRebindsTargets(t *testing.T) {
	f := newFixture(t, 1)
	if err := f.renderer.Frame(f.scene, FrameTime{}); err != nil {
		t.Fatal(err)
	}
	ops := f.dev.Ops()
	n := len(ops)
	if ops[n-2] != "SetRenderTargets" || ops[n-1] != "UnbindShaderResources" {
		t.Errorf("frame ends with %v", ops[n-3:])
	}
	color, depth := f.dev.RenderTargets()
	if color != f.dev.BackBuffer() || depth != f.dev.DepthBuffer() {
		t.Errorf("targets = %d/%d", color, depth)
	}
}

func TestPresentErrorStillCompletesFrame(t *testing.T) {
	f := newFixture(t, 1)
	boom := errors.New("device lost")
	f.dev.Fail["Present"] = boom

	err := f.renderer.Frame(f.scene, FrameTime{})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want device lost", err)
	}
	if last := f.renderer.LastFrame(); len(last) != int(PhaseDone)+1 {
		t.Errorf("phases run = %v", last)
	}
}

func TestResizeChangesMainViewport(t *testing.T) {
	f := newFixture(t, 1)
	f.renderer.Resize(640, 480)
	if err := f.renderer.Frame(f.scene, FrameTime{}); err != nil {
		t.Fatal(err)
	}
	for _, d := range f.dev.DrawsWith("lit_vs") {
		if d.Viewport != gpu.FullViewport(640, 480) {
			t.Errorf("viewport = %+v, want 640x480", d.Viewport)
		}
	}
}

func TestBackgroundClearColor(t *testing.T) {
	f := newFixture(t, 0)
	f.scene.Background = math.Vec4{X: 0.25, Y: 0.5, Z: 0.75, W: 1}
	if err := f.renderer.Frame(f.scene, FrameTime{}); err != nil {
		t.Fatal(err)
	}
	c := f.dev.Calls[0]
	if c.Op != "ClearRenderTarget" || c.Args[1] != [4]float32{0.25, 0.5, 0.75, 1} {
		t.Errorf("first call = %v", c)
	}
}

func TestPhaseString(t *testing.T) {
	if PhaseShadowDepth.String() != "shadow-depth" || Phase(42).String() != "unknown" {
		t.Error("unexpected phase names")
	}
	if PhaseDone.Next() != PhaseDone {
		t.Error("done must be terminal")
	}
}
