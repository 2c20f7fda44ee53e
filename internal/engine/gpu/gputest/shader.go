package gputest

import (
	"github.com/Faultbox/lumen/internal/engine/gpu"
	"github.com/Faultbox/lumen/pkg/math"
)

// Shader records staged and committed parameters by name.
type Shader struct {
	dev      *Device
	name     string
	stage    gpu.Stage
	declared map[string]bool // nil accepts every name

	staged    map[string]any
	committed map[string]any

	// Commits counts CopyAllBufferData calls.
	Commits int
}

// NewShader creates a shader bound to d. When params is empty the shader
// accepts any parameter name; otherwise only the listed names match.
func (d *Device) NewShader(name string, stage gpu.Stage, params ...string) *Shader {
	s := &Shader{
		dev:       d,
		name:      name,
		stage:     stage,
		staged:    make(map[string]any),
		committed: make(map[string]any),
	}
	if len(params) > 0 {
		s.declared = make(map[string]bool, len(params))
		for _, p := range params {
			s.declared[p] = true
		}
	}
	return s
}

// Name implements gpu.Shader.
func (s *Shader) Name() string { return s.name }

// Stage implements gpu.Shader.
func (s *Shader) Stage() gpu.Stage { return s.stage }

func (s *Shader) set(name string, v any) bool {
	if s.declared != nil && !s.declared[name] {
		return false
	}
	s.staged[name] = v
	return true
}

// SetFloat implements gpu.Shader.
func (s *Shader) SetFloat(name string, v float32) bool { return s.set(name, v) }

// SetFloat2 implements gpu.Shader.
func (s *Shader) SetFloat2(name string, v math.Vec2) bool { return s.set(name, v) }

// SetFloat3 implements gpu.Shader.
func (s *Shader) SetFloat3(name string, v math.Vec3) bool { return s.set(name, v) }

// SetFloat4 implements gpu.Shader.
func (s *Shader) SetFloat4(name string, v math.Vec4) bool { return s.set(name, v) }

// SetMatrix4x4 implements gpu.Shader.
func (s *Shader) SetMatrix4x4(name string, m math.Mat4) bool { return s.set(name, m) }

// SetInt implements gpu.Shader.
func (s *Shader) SetInt(name string, v int32) bool { return s.set(name, v) }

// SetData implements gpu.Shader.
func (s *Shader) SetData(name string, data []byte) bool {
	return s.set(name, append([]byte(nil), data...))
}

// SetShaderResource implements gpu.Shader.
func (s *Shader) SetShaderResource(name string, srv gpu.ShaderResourceID) bool {
	return s.set(name, srv)
}

// SetSampler implements gpu.Shader.
func (s *Shader) SetSampler(name string, smp gpu.SamplerID) bool { return s.set(name, smp) }

// CopyAllBufferData implements gpu.Shader.
func (s *Shader) CopyAllBufferData() {
	for k, v := range s.staged {
		s.committed[k] = v
	}
	s.Commits++
	s.dev.record("CopyAllBufferData", s.name)
}

// SetShader implements gpu.Shader.
func (s *Shader) SetShader() {
	if s.stage == gpu.PixelStage {
		s.dev.ps = s
	} else {
		s.dev.vs = s
	}
	s.dev.record("SetShader", s.name)
}

// Staged returns the staged value for name, if any.
func (s *Shader) Staged(name string) (any, bool) {
	v, ok := s.staged[name]
	return v, ok
}

// Committed returns the committed value for name, if any.
func (s *Shader) Committed(name string) (any, bool) {
	v, ok := s.committed[name]
	return v, ok
}
