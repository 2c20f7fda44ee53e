package shadow

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/lumen/internal/engine/entity"
	"github.com/Faultbox/lumen/internal/engine/gpu"
	"github.com/Faultbox/lumen/internal/engine/lighting"
	"github.com/Faultbox/lumen/internal/engine/material"
	"github.com/Faultbox/lumen/internal/logger"
	"github.com/Faultbox/lumen/pkg/math"
)

// Config holds shadow settings. All values are fixed at startup.
type Config struct {
	Resolution     int
	ProjectionSize float32
	Near           float32
	Far            float32
	LightDistance  float32
	DepthBias      int32
	SlopeBias      float32
}

// DefaultConfig returns the stock shadow settings.
func DefaultConfig() Config {
	return Config{
		Resolution:     DefaultResolution,
		ProjectionSize: 20,
		Near:           1,
		Far:            100,
		LightDistance:  30,
		DepthBias:      1000,
		SlopeBias:      1,
	}
}

// Caster is one directional light's light-space matrices.
type Caster struct {
	LightIndex int
	Basis      LightBasis
	View       math.Mat4
	Projection math.Mat4
}

// MainTargets are the targets and viewport the lit pass renders into.
type MainTargets struct {
	Color    gpu.RenderTargetID
	Depth    gpu.DepthTargetID
	Viewport gpu.Viewport
}

// Controller owns the shadow resources and runs the depth pass.
// Only the first directional light casts shadows; the matrices of the
// others are computed but never bound.
type Controller struct {
	dev        gpu.Device
	cfg        Config
	shadowMap  *Map
	rasterizer gpu.RasterizerID
	sampler    gpu.SamplerID
	depthVS    gpu.Shader
	casters    []Caster
	log        *zap.Logger
	warned     bool
}

// New creates the shadow map, depth-biased rasterizer state and
// comparison sampler. depthVS is the depth-only vertex shader.
func New(dev gpu.Device, depthVS gpu.Shader, cfg Config) (*Controller, error) {
	if depthVS == nil {
		return nil, fmt.Errorf("shadow: depth vertex shader is required")
	}
	m, err := NewMap(dev, cfg.Resolution)
	if err != nil {
		return nil, err
	}
	cfg.Resolution = m.Resolution

	rs, err := dev.CreateRasterizerState(gpu.RasterizerDesc{
		Cull:                 gpu.CullBack,
		DepthClip:            true,
		DepthBias:            cfg.DepthBias,
		SlopeScaledDepthBias: cfg.SlopeBias,
	})
	if err != nil {
		return nil, fmt.Errorf("shadow rasterizer: %w", err)
	}

	smp, err := dev.CreateSampler(gpu.SamplerDesc{
		Filter:      gpu.FilterLinear,
		Address:     gpu.AddressBorder,
		Comparison:  true,
		Compare:     gpu.CompareLess,
		BorderColor: [4]float32{1, 1, 1, 1},
	})
	if err != nil {
		return nil, fmt.Errorf("shadow sampler: %w", err)
	}

	c := &Controller{
		dev:        dev,
		cfg:        cfg,
		shadowMap:  m,
		rasterizer: rs,
		sampler:    smp,
		depthVS:    depthVS,
		log:        logger.Named("shadow"),
	}
	c.log.Info("shadow map created",
		zap.Int("resolution", m.Resolution),
		zap.Float32("projectionSize", cfg.ProjectionSize))
	return c, nil
}

// UpdateCasters recomputes light-space matrices for every directional
// light, in list order. Point and spot lights do not cast shadows.
func (c *Controller) UpdateCasters(lights *lighting.List) {
	c.casters = c.casters[:0]
	proj := ProjectionMatrix(c.cfg.ProjectionSize, c.cfg.Near, c.cfg.Far)
	for _, i := range lights.Directional() {
		light, err := lights.At(i)
		if err != nil {
			continue
		}
		basis := BasisFor(light.Direction, c.cfg.LightDistance)
		c.casters = append(c.casters, Caster{
			LightIndex: i,
			Basis:      basis,
			View:       basis.ViewMatrix(),
			Projection: proj,
		})
	}
}

// Casters returns the matrices computed by the last UpdateCasters.
func (c *Controller) Casters() []Caster {
	return c.casters
}

// Active returns the caster bound to the lit pass, if any.
func (c *Controller) Active() (Caster, bool) {
	if len(c.casters) == 0 {
		return Caster{}, false
	}
	return c.casters[0], true
}

// RenderDepth renders every entity into the shadow map from the active
// caster. The map is cleared even when nothing casts, so the lit pass
// samples it as fully lit.
func (c *Controller) RenderDepth(entities []*entity.Entity) {
	dev := c.dev
	dev.UnbindShaderResources()
	dev.ClearDepth(c.shadowMap.Target, 1)
	dev.SetRenderTargets(0, c.shadowMap.Target)
	dev.DisablePixelShader()
	dev.SetViewport(c.shadowMap.Viewport())
	dev.SetRasterizerState(c.rasterizer)

	caster, ok := c.Active()
	if !ok {
		if !c.warned {
			c.log.Warn("no directional light, shadow pass draws nothing")
			c.warned = true
		}
		return
	}

	c.depthVS.SetShader()
	c.depthVS.SetMatrix4x4("view", caster.View)
	c.depthVS.SetMatrix4x4("projection", caster.Projection)
	for _, e := range entities {
		e.DrawForLight(c.depthVS)
	}
}

// Restore rebinds the main targets, the window viewport and the default
// rasterizer state after the depth pass.
func (c *Controller) Restore(main MainTargets) {
	c.dev.SetViewport(main.Viewport)
	c.dev.SetRenderTargets(main.Color, main.Depth)
	c.dev.SetRasterizerState(0)
}

// Apply adds the shadow map, sampler and active caster matrices to frame.
// Without a caster the matrices are identity.
func (c *Controller) Apply(frame *material.FrameInputs) {
	frame.ShadowMap = c.shadowMap.Resource
	frame.ShadowSampler = c.sampler
	frame.LightView = math.Identity()
	frame.LightProjection = math.Identity()
	if caster, ok := c.Active(); ok {
		frame.LightView = caster.View
		frame.LightProjection = caster.Projection
	}
}

// Map returns the shadow map.
func (c *Controller) Map() *Map { return c.shadowMap }

// Sampler returns the comparison sampler.
func (c *Controller) Sampler() gpu.SamplerID { return c.sampler }

// Rasterizer returns the depth-biased rasterizer state.
func (c *Controller) Rasterizer() gpu.RasterizerID { return c.rasterizer }

// Config returns the settings in use.
func (c *Controller) Config() Config { return c.cfg }
