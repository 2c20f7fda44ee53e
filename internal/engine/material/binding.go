package material

import (
	"errors"

	"github.com/Faultbox/lumen/internal/engine/gpu"
	"github.com/Faultbox/lumen/pkg/math"
)

// ErrBindingConsumed is returned when a binding session is committed or
// drawn more than once.
var ErrBindingConsumed = errors.New("material: binding already consumed")

type setter func(gpu.Shader)

// Binding collects the parameters for one draw. Nothing reaches the
// shaders until Commit, so per-entity values cannot leak between draws.
type Binding struct {
	mat       *Material
	vs, ps    []setter
	committed bool
}

// Material returns the material being bound.
func (b *Binding) Material() *Material { return b.mat }

// VertexMatrix stages a 4x4 matrix for the vertex stage.
func (b *Binding) VertexMatrix(name string, m math.Mat4) *Binding {
	b.vs = append(b.vs, func(s gpu.Shader) { s.SetMatrix4x4(name, m) })
	return b
}

// VertexFloat4 stages a float4 for the vertex stage.
func (b *Binding) VertexFloat4(name string, v math.Vec4) *Binding {
	b.vs = append(b.vs, func(s gpu.Shader) { s.SetFloat4(name, v) })
	return b
}

// VertexFloat stages a float for the vertex stage.
func (b *Binding) VertexFloat(name string, v float32) *Binding {
	b.vs = append(b.vs, func(s gpu.Shader) { s.SetFloat(name, v) })
	return b
}

// PixelFloat stages a float for the pixel stage.
func (b *Binding) PixelFloat(name string, v float32) *Binding {
	b.ps = append(b.ps, func(s gpu.Shader) { s.SetFloat(name, v) })
	return b
}

// PixelFloat2 stages a float2 for the pixel stage.
func (b *Binding) PixelFloat2(name string, v math.Vec2) *Binding {
	b.ps = append(b.ps, func(s gpu.Shader) { s.SetFloat2(name, v) })
	return b
}

// PixelFloat3 stages a float3 for the pixel stage.
func (b *Binding) PixelFloat3(name string, v math.Vec3) *Binding {
	b.ps = append(b.ps, func(s gpu.Shader) { s.SetFloat3(name, v) })
	return b
}

// PixelFloat4 stages a float4 for the pixel stage.
func (b *Binding) PixelFloat4(name string, v math.Vec4) *Binding {
	b.ps = append(b.ps, func(s gpu.Shader) { s.SetFloat4(name, v) })
	return b
}

// PixelInt stages an int for the pixel stage.
func (b *Binding) PixelInt(name string, v int32) *Binding {
	b.ps = append(b.ps, func(s gpu.Shader) { s.SetInt(name, v) })
	return b
}

// PixelData stages a raw block for the pixel stage. data is copied.
func (b *Binding) PixelData(name string, data []byte) *Binding {
	data = append([]byte(nil), data...)
	b.ps = append(b.ps, func(s gpu.Shader) { s.SetData(name, data) })
	return b
}

// PixelMatrix stages a 4x4 matrix for the pixel stage.
func (b *Binding) PixelMatrix(name string, m math.Mat4) *Binding {
	b.ps = append(b.ps, func(s gpu.Shader) { s.SetMatrix4x4(name, m) })
	return b
}

// PixelResource stages a texture for the pixel stage.
func (b *Binding) PixelResource(name string, srv gpu.ShaderResourceID) *Binding {
	b.ps = append(b.ps, func(s gpu.Shader) { s.SetShaderResource(name, srv) })
	return b
}

// PixelSampler stages a sampler for the pixel stage.
func (b *Binding) PixelSampler(name string, smp gpu.SamplerID) *Binding {
	b.ps = append(b.ps, func(s gpu.Shader) { s.SetSampler(name, smp) })
	return b
}

// Commit activates both stages, writes every staged parameter and
// flushes the constant data. The returned handle draws exactly once.
func (b *Binding) Commit() (*Committed, error) {
	if b.committed {
		return nil, ErrBindingConsumed
	}
	b.committed = true

	vs, ps := b.mat.vs, b.mat.ps
	vs.SetShader()
	ps.SetShader()
	for _, set := range b.vs {
		set(vs)
	}
	for _, set := range b.ps {
		set(ps)
	}
	vs.CopyAllBufferData()
	ps.CopyAllBufferData()

	return &Committed{}, nil
}

// Drawer is geometry that can issue its own draw call.
type Drawer interface {
	Draw()
}

// Committed is a binding whose parameters are on the GPU.
type Committed struct {
	drawn bool
}

// Draw issues the draw. A second call returns ErrBindingConsumed.
func (c *Committed) Draw(d Drawer) error {
	if c.drawn {
		return ErrBindingConsumed
	}
	c.drawn = true
	d.Draw()
	return nil
}
