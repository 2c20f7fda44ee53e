// Package shadow renders the depth-only pass for directional lights and
// exposes the resulting shadow map to the lit pass.
package shadow

import (
	"fmt"

	"github.com/Faultbox/lumen/internal/engine/gpu"
)

// DefaultResolution is the default shadow map resolution.
const DefaultResolution = 2048

// Map is a square depth texture usable as a depth target and a shader
// resource. Its resolution is fixed for its lifetime.
type Map struct {
	Texture    gpu.TextureID
	Target     gpu.DepthTargetID
	Resource   gpu.ShaderResourceID
	Resolution int
}

// NewMap creates the depth texture and both of its views.
func NewMap(dev gpu.Device, resolution int) (*Map, error) {
	if resolution <= 0 {
		resolution = DefaultResolution
	}

	tex, err := dev.CreateTexture(gpu.TextureDesc{
		Width:         resolution,
		Height:        resolution,
		Format:        gpu.FormatDepth24,
		DepthTarget:   true,
		ShaderBinding: true,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("shadow map texture: %w", err)
	}
	dsv, err := dev.CreateDepthTarget(tex)
	if err != nil {
		return nil, fmt.Errorf("shadow map depth target: %w", err)
	}
	srv, err := dev.CreateShaderResource(tex)
	if err != nil {
		return nil, fmt.Errorf("shadow map shader resource: %w", err)
	}

	return &Map{Texture: tex, Target: dsv, Resource: srv, Resolution: resolution}, nil
}

// Viewport covers the whole map.
func (m *Map) Viewport() gpu.Viewport {
	return gpu.FullViewport(m.Resolution, m.Resolution)
}
