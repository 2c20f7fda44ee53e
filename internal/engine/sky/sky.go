// Package sky draws a cube-mapped background behind all opaque geometry.
package sky

import (
	"fmt"

	"github.com/Faultbox/lumen/internal/engine/gpu"
	"github.com/Faultbox/lumen/internal/engine/mesh"
	"github.com/Faultbox/lumen/pkg/math"
)

// Shader parameter names.
const (
	CubeMapParam = "CubeMap"
	SamplerParam = "BasicSampler"
)

// Viewer is the camera state the sky pass needs.
type Viewer interface {
	ViewMatrix() math.Mat4
	ProjectionMatrix() math.Mat4
}

// Sky renders the inside of a cube at maximum depth. It must be drawn
// after the opaque geometry so the depth test keeps it behind.
type Sky struct {
	dev        gpu.Device
	geometry   *mesh.Mesh
	cubeMap    gpu.ShaderResourceID
	sampler    gpu.SamplerID
	vs, ps     gpu.Shader
	depthState gpu.DepthStencilID
	rasterizer gpu.RasterizerID
}

// New creates the sky's depth (LESS_EQUAL) and front-face culling states.
func New(dev gpu.Device, geometry *mesh.Mesh, cubeMap gpu.ShaderResourceID, sampler gpu.SamplerID, vs, ps gpu.Shader) (*Sky, error) {
	if geometry == nil || vs == nil || ps == nil {
		return nil, fmt.Errorf("sky: geometry and shaders are required")
	}

	ds, err := dev.CreateDepthStencilState(gpu.DepthStencilDesc{
		DepthTest:  true,
		DepthWrite: true,
		Func:       gpu.CompareLessEqual,
	})
	if err != nil {
		return nil, fmt.Errorf("sky depth state: %w", err)
	}
	rs, err := dev.CreateRasterizerState(gpu.RasterizerDesc{
		Cull:      gpu.CullFront,
		DepthClip: true,
	})
	if err != nil {
		return nil, fmt.Errorf("sky rasterizer: %w", err)
	}

	return &Sky{
		dev:        dev,
		geometry:   geometry,
		cubeMap:    cubeMap,
		sampler:    sampler,
		vs:         vs,
		ps:         ps,
		depthState: ds,
		rasterizer: rs,
	}, nil
}

// Draw renders the sky for cam and restores the default pipeline states.
func (s *Sky) Draw(cam Viewer) {
	s.dev.SetRasterizerState(s.rasterizer)
	s.dev.SetDepthStencilState(s.depthState)

	s.vs.SetShader()
	s.ps.SetShader()
	s.vs.SetMatrix4x4("view", cam.ViewMatrix())
	s.vs.SetMatrix4x4("projection", cam.ProjectionMatrix())
	s.ps.SetShaderResource(CubeMapParam, s.cubeMap)
	s.ps.SetSampler(SamplerParam, s.sampler)
	s.vs.CopyAllBufferData()
	s.ps.CopyAllBufferData()

	s.geometry.Draw()

	s.dev.SetRasterizerState(0)
	s.dev.SetDepthStencilState(0)
}

// CubeMap returns the cube-map view.
func (s *Sky) CubeMap() gpu.ShaderResourceID { return s.cubeMap }
