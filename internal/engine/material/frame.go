package material

import (
	"github.com/Faultbox/lumen/internal/engine/gpu"
	"github.com/Faultbox/lumen/pkg/math"
)

// FrameInputs are the per-frame values every lit draw receives: the
// light array, ambient colour and the active shadow caster.
type FrameInputs struct {
	Lights     []byte // encoded lighting records
	LightCount int32
	Ambient    math.Vec3

	ShadowMap       gpu.ShaderResourceID
	ShadowSampler   gpu.SamplerID
	LightView       math.Mat4
	LightProjection math.Mat4
}

// WithFrame stages the frame inputs on the binding.
func (b *Binding) WithFrame(f FrameInputs) *Binding {
	return b.VertexMatrix("lightView", f.LightView).
		VertexMatrix("lightProjection", f.LightProjection).
		PixelFloat3("ambient", f.Ambient).
		PixelData("lights", f.Lights).
		PixelInt("lightCount", f.LightCount).
		PixelResource("ShadowMap", f.ShadowMap).
		PixelSampler("ShadowSampler", f.ShadowSampler)
}
