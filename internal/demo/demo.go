// Package demo builds the stock scene: a grid of textured primitives
// under a mixed light rig with a sky box.
package demo

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/lumen/internal/assets"
	"github.com/Faultbox/lumen/internal/config"
	"github.com/Faultbox/lumen/internal/engine/camera"
	"github.com/Faultbox/lumen/internal/engine/entity"
	"github.com/Faultbox/lumen/internal/engine/gpu"
	"github.com/Faultbox/lumen/internal/engine/lighting"
	"github.com/Faultbox/lumen/internal/engine/material"
	"github.com/Faultbox/lumen/internal/engine/mesh"
	"github.com/Faultbox/lumen/internal/engine/scene"
	"github.com/Faultbox/lumen/internal/engine/shadow"
	"github.com/Faultbox/lumen/internal/engine/sky"
	"github.com/Faultbox/lumen/internal/engine/texture"
	"github.com/Faultbox/lumen/internal/engine/tuning"
	"github.com/Faultbox/lumen/pkg/math"
)

// Texture and sampler slots shared by the surface programs.
const (
	AlbedoParam    = "Albedo"
	NormalParam    = "NormalTexture"
	RoughnessParam = "RoughnessMap"
	MetalnessParam = "MetalnessMap"
	SamplerParam   = "BasicSampler"
)

// EntitySpacing is the distance between neighbouring demo objects.
const EntitySpacing = 3.5

// Shaders are the compiled programs the demo scene draws with.
type Shaders struct {
	LitVertex gpu.Shader
	SkyVertex gpu.Shader
	SkyPixel  gpu.Shader
	// Surface holds one pixel program per shading, indexed by
	// material.ShadingIndex.
	Surface [3]gpu.Shader
}

func (s Shaders) validate() error {
	if s.LitVertex == nil || s.SkyVertex == nil || s.SkyPixel == nil {
		return errors.New("demo: lit and sky shaders are required")
	}
	for i, ps := range s.Surface {
		if ps == nil {
			return fmt.Errorf("demo: surface shader %d is missing", i)
		}
	}
	return nil
}

// materialLook is the per-group surface setup of the demo materials.
type materialLook struct {
	tint      math.Vec4
	roughness float32
}

var materialLooks = [3]materialLook{
	{tint: math.Vec4{X: 1, Y: 1, Z: 1, W: 1}, roughness: 0},
	{tint: math.Vec4{X: 1, Y: 1, Z: 1, W: 1}, roughness: 0.55},
	{tint: math.Vec4{X: 0.8, Y: 1, Z: 0.3, W: 1}, roughness: 1},
}

// DemoLights returns the stock light rig: three directional, three point
// and two spot lights. The first directional light casts the shadow.
func DemoLights() *lighting.List {
	spotInner := 20 * math32.Pi / 180
	spotOuter := 30 * math32.Pi / 180
	return lighting.NewList(
		lighting.NewDirectional(math.Vec3{X: 0.5, Y: 1, Z: 0.1}, math.Vec3{X: 1, Y: 1, Z: 0.3}, 150),
		lighting.NewDirectional(math.Vec3{X: -1, Y: -0.2, Z: 1}, math.Vec3{Z: 1}, 2),
		lighting.NewDirectional(math.Vec3{X: 0.5, Y: -1, Z: 0.5}, math.Vec3{Y: 1, Z: 1}, 1),
		lighting.NewPoint(math.Vec3{X: 1, Y: 1, Z: 1}, 5, math.Vec3{X: 1, Z: 1}, 1),
		lighting.NewPoint(math.Vec3{X: 5, Y: 3, Z: 10}, 15, math.Vec3{X: 1, Y: 1, Z: 1}, 2),
		lighting.NewPoint(math.Vec3{X: -1, Y: -1, Z: 1}, 5, math.Vec3{X: 1, Y: 1}, 1),
		lighting.NewSpot(math.Vec3{X: 2, Y: 5}, math.Vec3{Y: -1}, 7, spotInner, spotOuter, math.Vec3{X: 1, Y: 1}, 3),
		lighting.NewSpot(math.Vec3{X: 2, Y: -5}, math.Vec3{Y: 1}, 7, spotInner, spotOuter, math.Vec3{X: 1, Y: 1, Z: 1}, 5),
	)
}

// CameraOptions converts the configured camera settings.
func CameraOptions(c config.CameraConfig) camera.Options {
	return camera.Options{
		FOV:              c.FOV,
		Near:             c.Near,
		Far:              c.Far,
		MoveSpeed:        c.MoveSpeed,
		LookSpeed:        c.LookSpeed,
		SprintMultiplier: c.SprintMultiplier,
		Perspective:      c.Perspective,
		OrthoSize:        c.OrthoSize,
	}
}

// ShadowConfig converts the configured shadow settings.
func ShadowConfig(c config.ShadowConfig) shadow.Config {
	return shadow.Config{
		Resolution:     c.Resolution,
		ProjectionSize: c.ProjectionSize,
		Near:           c.Near,
		Far:            c.Far,
		LightDistance:  c.LightDistance,
		DepthBias:      c.DepthBias,
		SlopeBias:      c.SlopeBias,
	}
}

// ColorVec converts a configured colour.
func ColorVec(c config.Color) math.Vec4 {
	return math.Vec4{X: c.R, Y: c.G, Z: c.B, W: c.A}
}

// ApplyLive pushes the settings that may change while running into the
// scene: the background colour and the ambient term derived from it.
func ApplyLive(p *tuning.Panel, cfg *config.Config) {
	bg := ColorVec(cfg.Graphics.Background)
	p.SetBackground(bg)
	p.SetAmbient(bg.XYZ().Scale(scene.AmbientFactor))
}

// builder accumulates the GPU resources of the demo scene.
type builder struct {
	dev    gpu.Device
	assets *assets.Manager
	log    *zap.Logger
}

// BuildScene creates the demo scene: every material on every primitive in
// a grid, a static floor, the stock lights, three cameras and a sky box.
// Missing texture files fall back to procedural images.
func BuildScene(dev gpu.Device, am *assets.Manager, sh Shaders, cfg *config.Config, log *zap.Logger) (*scene.Scene, error) {
	if err := sh.validate(); err != nil {
		return nil, err
	}
	b := &builder{dev: dev, assets: am, log: log}

	s := scene.New(DemoLights())
	ApplyLive(tuning.NewPanel(s), cfg)

	smp, err := dev.CreateSampler(gpu.SamplerDesc{
		Filter:        gpu.FilterAnisotropic,
		Address:       gpu.AddressWrap,
		MaxAnisotropy: 16,
	})
	if err != nil {
		return nil, fmt.Errorf("surface sampler: %w", err)
	}

	if err := b.addMaterials(s, sh, smp, cfg.Scene.TextureSets); err != nil {
		return nil, err
	}
	if err := b.addMeshes(s); err != nil {
		return nil, err
	}
	b.addEntities(s)

	aspect := float32(cfg.Graphics.Width) / float32(max(cfg.Graphics.Height, 1))
	opts := CameraOptions(cfg.Camera)
	for _, start := range []math.Vec3{
		{X: 0, Y: 2, Z: -5},
		{X: 0, Y: -2, Z: 5},
		{X: -5, Y: 0, Z: -5},
	} {
		s.AddCamera(camera.New(aspect, start, opts))
	}

	s.Sky, err = b.sky(s, sh, smp, cfg.Scene.SkyFaces)
	if err != nil {
		return nil, err
	}

	st := s.Stats()
	log.Info("demo scene built",
		zap.Int("entities", st.Entities),
		zap.Int("meshes", st.Meshes),
		zap.Int("materials", st.Materials),
		zap.Int("lights", st.Lights),
		zap.Int("triangles", st.Triangles))
	return s, nil
}

// addMaterials creates three materials per shading, one per texture set.
func (b *builder) addMaterials(s *scene.Scene, sh Shaders, smp gpu.SamplerID, sets []config.TextureSet) error {
	if len(sets) == 0 {
		sets = []config.TextureSet{{Name: "procedural"}}
	}
	maps := make([][4]gpu.ShaderResourceID, len(sets))
	for i, set := range sets {
		m, err := b.textureSet(set)
		if err != nil {
			return err
		}
		maps[i] = m
	}

	for group, look := range materialLooks {
		shading, err := material.ShadingFromIndex((group + 1) % 3)
		if err != nil {
			return err
		}
		for i := 0; i < 3; i++ {
			set := i % len(sets)
			p := material.DefaultParams()
			p.Tint = look.tint
			p.Roughness = look.roughness
			p.Shading = shading
			if i == 0 {
				p.UVScale = math.Vec2{X: 5, Y: 5}
				p.UVOffset = math.Vec2{X: 2, Y: 1}
			}

			name := fmt.Sprintf("%s-%s", sets[set].Name, shading)
			ps := sh.Surface[material.ShadingIndex(shading)]
			mat, err := material.New(name, sh.LitVertex, ps, p)
			if err != nil {
				return err
			}
			for slot, param := range []string{AlbedoParam, NormalParam, RoughnessParam, MetalnessParam} {
				mat.AddTexture(param, maps[set][slot])
			}
			mat.AddSampler(SamplerParam, smp)
			s.AddMaterial(mat)
		}
	}
	return nil
}

// textureSet uploads the four maps of set in slot order.
func (b *builder) textureSet(set config.TextureSet) ([4]gpu.ShaderResourceID, error) {
	var out [4]gpu.ShaderResourceID
	fallbacks := [4]func() *image.RGBA{
		func() *image.RGBA {
			return texture.Checker(64, 8, color.RGBA{R: 90, G: 90, B: 90, A: 255}, color.RGBA{R: 200, G: 200, B: 200, A: 255})
		},
		func() *image.RGBA { return texture.Solid(texture.FlatNormal) },
		func() *image.RGBA { return texture.Solid(color.RGBA{R: 255, G: 255, B: 255, A: 255}) },
		func() *image.RGBA { return texture.Solid(color.RGBA{A: 255}) },
	}

	for i, path := range []string{set.Albedo, set.Normal, set.Roughness, set.Metalness} {
		img := b.image(path, fallbacks[i])
		srv, err := texture.Upload(b.dev, img)
		if err != nil {
			return out, fmt.Errorf("texture set %s: %w", set.Name, err)
		}
		out[i] = srv
	}
	return out, nil
}

// image loads path, or builds the fallback when path is empty or fails.
func (b *builder) image(path string, fallback func() *image.RGBA) *image.RGBA {
	if path == "" {
		return fallback()
	}
	img, err := b.assets.Image(path)
	if err != nil {
		b.log.Warn("using procedural texture", zap.String("path", path), zap.Error(err))
		return fallback()
	}
	return img
}

func (b *builder) addMeshes(s *scene.Scene) error {
	for _, data := range []mesh.ModelData{
		mesh.Cube(),
		mesh.Sphere(16, 32),
		mesh.Cylinder(32),
		mesh.Torus(1, 0.35, 32, 16),
	} {
		m, err := mesh.FromModel(b.dev, data)
		if err != nil {
			return err
		}
		s.AddMesh(m)
	}
	return nil
}

// addEntities lays every mesh out along X and every material along Z,
// then adds the floor.
func (b *builder) addEntities(s *scene.Scene) {
	mats := s.Materials()
	meshes := s.Meshes()
	half := float32(len(mats)) / 2
	for i, mat := range mats {
		for j, m := range meshes {
			e := entity.New(m, mat)
			e.Transform().SetPosition(float32(j)*EntitySpacing, 0, (float32(i)-half)*EntitySpacing)
			s.AddEntity(e)
		}
	}

	floor := entity.New(meshes[0], mats[0])
	floor.Transform().SetPosition(0, -2, 0)
	floor.Transform().SetScale(25, 0.1, 25)
	s.AddStatic(floor)
}

// sky creates the sky box, falling back to the background colour when
// the configured faces cannot be loaded.
func (b *builder) sky(s *scene.Scene, sh Shaders, smp gpu.SamplerID, paths []string) (*sky.Sky, error) {
	faces, err := b.assets.Cube(paths)
	if err != nil {
		b.log.Warn("using solid sky", zap.Error(err))
		bg := s.Background
		c := color.RGBA{R: to8(bg.X), G: to8(bg.Y), B: to8(bg.Z), A: 255}
		for i := range faces {
			faces[i] = texture.Solid(c)
		}
	}

	cube, err := texture.UploadCube(b.dev, faces)
	if err != nil {
		return nil, fmt.Errorf("sky cube map: %w", err)
	}
	geometry := s.Meshes()[0]
	return sky.New(b.dev, geometry, cube, smp, sh.SkyVertex, sh.SkyPixel)
}

func to8(v float32) uint8 {
	return uint8(math32.Round(math32.Max(0, math32.Min(1, v)) * 255))
}
