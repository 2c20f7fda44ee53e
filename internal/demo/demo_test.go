package demo

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/Faultbox/lumen/internal/assets"
	"github.com/Faultbox/lumen/internal/config"
	"github.com/Faultbox/lumen/internal/engine/gpu"
	"github.com/Faultbox/lumen/internal/engine/gpu/gputest"
	"github.com/Faultbox/lumen/internal/engine/lighting"
	"github.com/Faultbox/lumen/internal/engine/material"
	"github.com/Faultbox/lumen/internal/engine/scene"
	"github.com/Faultbox/lumen/internal/engine/tuning"
	"github.com/Faultbox/lumen/pkg/math"
)

func testShaders(dev *gputest.Device) Shaders {
	return Shaders{
		LitVertex: dev.NewShader("lit_vs", gpu.VertexStage),
		SkyVertex: dev.NewShader("sky_vs", gpu.VertexStage),
		SkyPixel:  dev.NewShader("sky_ps", gpu.PixelStage),
		Surface: [3]gpu.Shader{
			dev.NewShader("unlit_ps", gpu.PixelStage),
			dev.NewShader("tinted_ps", gpu.PixelStage),
			dev.NewShader("animated_ps", gpu.PixelStage),
		},
	}
}

func buildTestScene(t *testing.T, root string) (*gputest.Device, *scene.Scene) {
	t.Helper()
	dev := gputest.NewDevice(1280, 720)
	s, err := BuildScene(dev, assets.NewManager(root), testShaders(dev), config.Default(), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("BuildScene: %v", err)
	}
	return dev, s
}

func writeSquarePNG(t *testing.T, path string, size int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestBuildSceneLayout(t *testing.T) {
	_, s := buildTestScene(t, t.TempDir())

	st := s.Stats()
	if st.Materials != 9 {
		t.Errorf("expected 9 materials, got %d", st.Materials)
	}
	if st.Meshes != 4 {
		t.Errorf("expected 4 meshes, got %d", st.Meshes)
	}
	if st.Entities != 9*4+1 {
		t.Errorf("expected 37 entities, got %d", st.Entities)
	}
	if st.Lights != 8 {
		t.Errorf("expected 8 lights, got %d", st.Lights)
	}
	if len(s.Cameras()) != 3 {
		t.Errorf("expected 3 cameras, got %d", len(s.Cameras()))
	}
	if s.Sky == nil {
		t.Error("expected a sky")
	}

	floor := st.Entities - 1
	if !s.IsStatic(floor) {
		t.Error("expected the floor to be static")
	}
	if s.IsStatic(0) {
		t.Error("expected grid entities to animate")
	}
	e, _ := s.Entity(floor)
	if got := e.Transform().ScaleFactors(); got != (math.Vec3{X: 25, Y: 0.1, Z: 25}) {
		t.Errorf("unexpected floor scale %+v", got)
	}

	// Mesh j of material i sits at (j*spacing, 0, (i-4.5)*spacing).
	e, _ = s.Entity(4*2 + 3)
	want := math.Vec3{X: 3 * EntitySpacing, Z: (2 - 4.5) * EntitySpacing}
	if got := e.Transform().Position(); got != want {
		t.Errorf("expected entity 11 at %+v, got %+v", want, got)
	}
}

func TestBuildSceneMaterials(t *testing.T) {
	_, s := buildTestScene(t, t.TempDir())

	counts := map[int]int{}
	for i, m := range s.Materials() {
		counts[material.ShadingIndex(m.Shading())]++
		if len(m.Textures()) != 4 {
			t.Errorf("material %d: expected 4 textures, got %v", i, m.Textures())
		}
		wantPS := []string{"unlit_ps", "tinted_ps", "animated_ps"}[material.ShadingIndex(m.Shading())]
		if got := m.PixelShader().(*gputest.Shader).Name(); got != wantPS {
			t.Errorf("material %d: expected %s, got %s", i, wantPS, got)
		}
	}
	for shading := 0; shading < 3; shading++ {
		if counts[shading] != 3 {
			t.Errorf("expected 3 materials with shading %d, got %d", shading, counts[shading])
		}
	}

	m, _ := s.Material(0)
	if m.UVScale() != (math.Vec2{X: 5, Y: 5}) || m.UVOffset() != (math.Vec2{X: 2, Y: 1}) {
		t.Errorf("expected tiled first material, got scale %+v offset %+v", m.UVScale(), m.UVOffset())
	}
}

func TestBuildSceneFallsBackToProceduralTextures(t *testing.T) {
	dev, _ := buildTestScene(t, t.TempDir())

	var flat, cubes int
	for _, desc := range dev.Textures {
		if desc.Cube {
			cubes++
			if desc.Width != 1 {
				t.Errorf("expected solid 1x1 sky, got %dx%d", desc.Width, desc.Height)
			}
			continue
		}
		flat++
	}
	if flat != 12 {
		t.Errorf("expected 12 surface textures, got %d", flat)
	}
	if cubes != 1 {
		t.Errorf("expected 1 cube map, got %d", cubes)
	}
}

func TestBuildSceneLoadsAssets(t *testing.T) {
	root := t.TempDir()
	cfg := config.Default()
	writeSquarePNG(t, filepath.Join(root, cfg.Scene.TextureSets[0].Albedo), 16)
	for _, face := range cfg.Scene.SkyFaces {
		writeSquarePNG(t, filepath.Join(root, face), 8)
	}

	dev, _ := buildTestScene(t, root)

	var found16 bool
	for _, desc := range dev.Textures {
		if desc.Cube && desc.Width != 8 {
			t.Errorf("expected 8x8 sky faces, got %dx%d", desc.Width, desc.Height)
		}
		if !desc.Cube && desc.Width == 16 {
			found16 = true
		}
	}
	if !found16 {
		t.Error("expected the loaded 16x16 albedo to be uploaded")
	}
}

func TestBuildSceneRequiresShaders(t *testing.T) {
	dev := gputest.NewDevice(64, 64)
	sh := testShaders(dev)
	sh.Surface[2] = nil

	if _, err := BuildScene(dev, assets.NewManager(), sh, config.Default(), zaptest.NewLogger(t)); err == nil {
		t.Error("expected error for missing surface shader")
	}
}

func TestDemoLights(t *testing.T) {
	l := DemoLights()
	if l.Len() != 8 {
		t.Fatalf("expected 8 lights, got %d", l.Len())
	}
	if got := l.Directional(); len(got) != 3 || got[0] != 0 {
		t.Errorf("expected directional lights first, got %v", got)
	}
	spot, _ := l.At(6)
	if spot.Type != lighting.Spot || spot.SpotInner >= spot.SpotOuter {
		t.Errorf("unexpected spot light %+v", spot)
	}
}

func TestConfigConversions(t *testing.T) {
	cfg := config.Default()

	opts := CameraOptions(cfg.Camera)
	if opts.FOV != cfg.Camera.FOV || opts.SprintMultiplier != cfg.Camera.SprintMultiplier || !opts.Perspective {
		t.Errorf("unexpected camera options %+v", opts)
	}

	sc := ShadowConfig(cfg.Shadow)
	if sc.Resolution != 2048 || sc.DepthBias != 1000 || sc.LightDistance != 30 {
		t.Errorf("unexpected shadow config %+v", sc)
	}

	if got := ColorVec(config.Color{R: 0.5, G: 0.25, B: 1, A: 1}); got != (math.Vec4{X: 0.5, Y: 0.25, Z: 1, W: 1}) {
		t.Errorf("unexpected colour %+v", got)
	}
	if to8(2) != 255 || to8(-1) != 0 {
		t.Error("expected to8 to clamp")
	}
}

func TestApplyLive(t *testing.T) {
	_, s := buildTestScene(t, t.TempDir())
	cfg := config.Default()
	cfg.Graphics.Background = config.Color{R: 1, G: 0.5, B: 0, A: 1}

	ApplyLive(tuning.NewPanel(s), cfg)

	if s.Background != (math.Vec4{X: 1, Y: 0.5, W: 1}) {
		t.Errorf("unexpected background %+v", s.Background)
	}
	if s.Ambient != (math.Vec3{X: 0.2, Y: 0.1}) {
		t.Errorf("expected ambient of 0.2 x background, got %+v", s.Ambient)
	}
}
