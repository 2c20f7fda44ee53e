package glgpu

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/lumen/internal/engine/gpu"
	"github.com/Faultbox/lumen/pkg/math"
)

type uniform struct {
	location int32
	glType   uint32
}

type textureSlot struct {
	unit   uint32
	shadow bool // sampler2DShadow
	srv    gpu.ShaderResourceID
}

type uniformBlock struct {
	index   uint32
	binding uint32
	size    int
	ubo     uint32
	data    []byte
	dirty   bool
}

// Shader is one separable GL program implementing gpu.Shader.
//
// Scalar, vector and matrix uniforms are reflected from the program.
// Uniform blocks are addressed by the name of their first member, so
// SetData("lights", ...) fills the block declaring "Light lights[N]".
// Colour and shadow samplers are set per shader: a comparison sampler
// pairs with every sampler2DShadow, any other sampler with the rest.
type Shader struct {
	dev     *Device
	name    string
	stage   gpu.Stage
	program uint32

	uniforms map[string]uniform
	textures map[string]*textureSlot
	blocks   map[string]*uniformBlock

	staged        map[string]func()
	colorSampler  gpu.SamplerID
	shadowSampler gpu.SamplerID
	hasShadow     bool
	hasColor      bool
}

var _ gpu.Shader = (*Shader)(nil)

// NewVertexShader compiles GLSL vertex source.
func NewVertexShader(dev *Device, name, source string) (*Shader, error) {
	return newShader(dev, name, gpu.VertexStage, source)
}

// NewPixelShader compiles GLSL fragment source.
func NewPixelShader(dev *Device, name, source string) (*Shader, error) {
	return newShader(dev, name, gpu.PixelStage, source)
}

func newShader(dev *Device, name string, stage gpu.Stage, source string) (*Shader, error) {
	glStage := uint32(gl.VERTEX_SHADER)
	if stage == gpu.PixelStage {
		glStage = gl.FRAGMENT_SHADER
	}
	program, err := compileProgram(glStage, source)
	if err != nil {
		return nil, fmt.Errorf("%s %s shader: %w", name, stage, err)
	}

	s := &Shader{
		dev:      dev,
		name:     name,
		stage:    stage,
		program:  program,
		uniforms: make(map[string]uniform),
		textures: make(map[string]*textureSlot),
		blocks:   make(map[string]*uniformBlock),
		staged:   make(map[string]func()),
	}
	s.reflectBlocks()
	s.reflectUniforms()

	dev.log.Debug("shader compiled",
		zap.String("name", name),
		zap.Stringer("stage", stage),
		zap.Int("uniforms", len(s.uniforms)),
		zap.Int("textures", len(s.textures)),
		zap.Int("blocks", len(s.blocks)))
	return s, nil
}

func (s *Shader) reflectUniforms() {
	var count, maxLen int32
	gl.GetProgramiv(s.program, gl.ACTIVE_UNIFORMS, &count)
	gl.GetProgramiv(s.program, gl.ACTIVE_UNIFORM_MAX_LENGTH, &maxLen)
	if maxLen < 1 {
		maxLen = 1
	}
	buf := make([]uint8, maxLen)

	unit := uint32(pixelUnitBase)
	if s.stage == gpu.VertexStage {
		unit = vertexUnitBase
	}

	for i := uint32(0); i < uint32(count); i++ {
		var length, size int32
		var glType uint32
		gl.GetActiveUniform(s.program, i, maxLen, &length, &size, &glType, &buf[0])
		full := string(buf[:length])

		var block int32
		gl.GetActiveUniformsiv(s.program, 1, &i, gl.UNIFORM_BLOCK_INDEX, &block)
		if block >= 0 {
			continue
		}

		name := baseName(full)
		loc := gl.GetUniformLocation(s.program, gl.Str(full+"\x00"))

		switch glType {
		case gl.SAMPLER_2D, gl.SAMPLER_CUBE, gl.SAMPLER_2D_SHADOW:
			shadow := glType == gl.SAMPLER_2D_SHADOW
			s.textures[name] = &textureSlot{unit: unit, shadow: shadow}
			gl.ProgramUniform1i(s.program, loc, int32(unit))
			unit++
			if shadow {
				s.hasShadow = true
			} else {
				s.hasColor = true
			}
		default:
			s.uniforms[name] = uniform{location: loc, glType: glType}
		}
	}
}

func (s *Shader) reflectBlocks() {
	var count int32
	gl.GetProgramiv(s.program, gl.ACTIVE_UNIFORM_BLOCKS, &count)

	for i := uint32(0); i < uint32(count); i++ {
		var size, members int32
		gl.GetActiveUniformBlockiv(s.program, i, gl.UNIFORM_BLOCK_DATA_SIZE, &size)
		gl.GetActiveUniformBlockiv(s.program, i, gl.UNIFORM_BLOCK_ACTIVE_UNIFORMS, &members)
		if members == 0 {
			continue
		}
		indices := make([]int32, members)
		gl.GetActiveUniformBlockiv(s.program, i, gl.UNIFORM_BLOCK_ACTIVE_UNIFORM_INDICES, &indices[0])

		var maxLen int32
		gl.GetProgramiv(s.program, gl.ACTIVE_UNIFORM_MAX_LENGTH, &maxLen)
		buf := make([]uint8, max(maxLen, 1))
		var length, usize int32
		var utype uint32
		gl.GetActiveUniform(s.program, uint32(indices[0]), maxLen, &length, &usize, &utype, &buf[0])
		name := baseName(string(buf[:length]))

		binding := s.dev.nextBinding
		s.dev.nextBinding++
		gl.UniformBlockBinding(s.program, i, binding)

		var ubo uint32
		gl.GenBuffers(1, &ubo)
		gl.BindBuffer(gl.UNIFORM_BUFFER, ubo)
		gl.BufferData(gl.UNIFORM_BUFFER, int(size), nil, gl.DYNAMIC_DRAW)
		gl.BindBuffer(gl.UNIFORM_BUFFER, 0)

		s.blocks[name] = &uniformBlock{
			index:   i,
			binding: binding,
			size:    int(size),
			ubo:     ubo,
			data:    make([]byte, size),
		}
	}
}

// Name implements gpu.Shader.
func (s *Shader) Name() string { return s.name }

// Stage implements gpu.Shader.
func (s *Shader) Stage() gpu.Stage { return s.stage }

func (s *Shader) stage1(name string, want uint32, apply func(loc int32)) bool {
	u, ok := s.uniforms[name]
	if !ok || u.glType != want {
		return false
	}
	s.staged[name] = func() { apply(u.location) }
	return true
}

// SetFloat implements gpu.Shader.
func (s *Shader) SetFloat(name string, v float32) bool {
	return s.stage1(name, gl.FLOAT, func(loc int32) { gl.ProgramUniform1f(s.program, loc, v) })
}

// SetFloat2 implements gpu.Shader.
func (s *Shader) SetFloat2(name string, v math.Vec2) bool {
	return s.stage1(name, gl.FLOAT_VEC2, func(loc int32) { gl.ProgramUniform2f(s.program, loc, v.X, v.Y) })
}

// SetFloat3 implements gpu.Shader.
func (s *Shader) SetFloat3(name string, v math.Vec3) bool {
	return s.stage1(name, gl.FLOAT_VEC3, func(loc int32) { gl.ProgramUniform3f(s.program, loc, v.X, v.Y, v.Z) })
}

// SetFloat4 implements gpu.Shader.
func (s *Shader) SetFloat4(name string, v math.Vec4) bool {
	return s.stage1(name, gl.FLOAT_VEC4, func(loc int32) { gl.ProgramUniform4f(s.program, loc, v.X, v.Y, v.Z, v.W) })
}

// SetMatrix4x4 implements gpu.Shader.
func (s *Shader) SetMatrix4x4(name string, m math.Mat4) bool {
	return s.stage1(name, gl.FLOAT_MAT4, func(loc int32) { gl.ProgramUniformMatrix4fv(s.program, loc, 1, false, &m[0]) })
}

// SetInt implements gpu.Shader.
func (s *Shader) SetInt(name string, v int32) bool {
	return s.stage1(name, gl.INT, func(loc int32) { gl.ProgramUniform1i(s.program, loc, v) })
}

// SetData implements gpu.Shader. Data longer than the block is truncated;
// the unwritten tail keeps its previous contents.
func (s *Shader) SetData(name string, data []byte) bool {
	b, ok := s.blocks[name]
	if !ok {
		return false
	}
	copy(b.data, data)
	b.dirty = true
	return true
}

// SetShaderResource implements gpu.Shader.
func (s *Shader) SetShaderResource(name string, srv gpu.ShaderResourceID) bool {
	t, ok := s.textures[name]
	if !ok {
		return false
	}
	s.staged["tex:"+name] = func() { t.srv = srv }
	return true
}

// SetSampler implements gpu.Shader.
func (s *Shader) SetSampler(name string, id gpu.SamplerID) bool {
	smp, ok := s.dev.samplers[id]
	if !ok {
		return false
	}
	if smp.desc.Comparison {
		if !s.hasShadow {
			return false
		}
		s.staged["smp:shadow"] = func() { s.shadowSampler = id }
		return true
	}
	if !s.hasColor {
		return false
	}
	s.staged["smp:color"] = func() { s.colorSampler = id }
	return true
}

// CopyAllBufferData implements gpu.Shader.
func (s *Shader) CopyAllBufferData() {
	for k, apply := range s.staged {
		apply()
		delete(s.staged, k)
	}
	for _, b := range s.blocks {
		if !b.dirty {
			continue
		}
		gl.BindBuffer(gl.UNIFORM_BUFFER, b.ubo)
		gl.BufferSubData(gl.UNIFORM_BUFFER, 0, b.size, gl.Ptr(b.data))
		gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
		b.dirty = false
	}
	if s.dev.active[s.stage] == s {
		s.bindResources()
	}
}

// SetShader implements gpu.Shader.
func (s *Shader) SetShader() {
	bit := uint32(gl.VERTEX_SHADER_BIT)
	if s.stage == gpu.PixelStage {
		bit = gl.FRAGMENT_SHADER_BIT
	}
	gl.UseProgramStages(s.dev.pipeline, bit, s.program)
	s.dev.active[s.stage] = s
	s.bindResources()
}

// bindResources binds this shader's committed textures, samplers and
// uniform buffers to its units and binding points.
func (s *Shader) bindResources() {
	for _, t := range s.textures {
		gl.ActiveTexture(gl.TEXTURE0 + t.unit)
		tex, ok := s.dev.textures[s.dev.views[t.srv]]
		if !ok {
			gl.BindTexture(gl.TEXTURE_2D, 0)
			continue
		}
		gl.BindTexture(tex.target, tex.name)

		smpID := s.colorSampler
		if t.shadow {
			smpID = s.shadowSampler
		}
		if smp, ok := s.dev.samplers[smpID]; ok {
			gl.BindSampler(t.unit, smp.name)
		} else {
			gl.BindSampler(t.unit, 0)
		}
	}
	for _, b := range s.blocks {
		gl.BindBufferBase(gl.UNIFORM_BUFFER, b.binding, b.ubo)
	}
}

// Close deletes the program and its uniform buffers.
func (s *Shader) Close() {
	for _, b := range s.blocks {
		gl.DeleteBuffers(1, &b.ubo)
	}
	gl.DeleteProgram(s.program)
}
