// Package glgpu implements gpu.Device and gpu.Shader on OpenGL 4.1 core.
//
// Stages are separable programs bound into one program pipeline, so the
// vertex and pixel stages switch independently and the pixel stage can be
// disabled for depth-only passes.
//
// All methods must be called on the thread that owns the GL context.
package glgpu

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/lumen/internal/engine/gpu"
	"github.com/Faultbox/lumen/internal/logger"
)

// Swapper presents the default framebuffer. *window.Window satisfies it.
type Swapper interface {
	SwapBuffers()
	SetVSync(enabled bool) error
}

// Texture units are split per stage so vertex and pixel bindings never
// collide.
const (
	pixelUnitBase  = 0
	vertexUnitBase = 16
	maxUnits       = 32
)

// Device is a gpu.Device backed by the current GL context.
type Device struct {
	swap  Swapper
	vsync bool

	next uint32

	buffers       map[gpu.BufferID]*buffer
	textures      map[gpu.TextureID]*texture
	depthTargets  map[gpu.DepthTargetID]gpu.TextureID
	views         map[gpu.ShaderResourceID]gpu.TextureID
	samplers      map[gpu.SamplerID]*sampler
	rasterizers   map[gpu.RasterizerID]gpu.RasterizerDesc
	depthStencils map[gpu.DepthStencilID]gpu.DepthStencilDesc
	framebuffers  map[targetPair]uint32

	backBuffer  gpu.RenderTargetID
	depthBuffer gpu.DepthTargetID

	vao      uint32
	pipeline uint32

	viewport     gpu.Viewport
	color        gpu.RenderTargetID
	depth        gpu.DepthTargetID
	boundFBO     uint32
	depthWrite   bool
	active       [2]*Shader
	nextBinding  uint32
	indexBuffer  gpu.BufferID
	vertexBuffer gpu.BufferID

	log *zap.Logger
}

var _ gpu.Device = (*Device)(nil)

// New initialises GL function pointers for the current context and sets
// up the pipeline object, vertex layout and default states.
func New(swap Swapper, width, height int, vsync bool) (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	d := &Device{
		swap:          swap,
		vsync:         vsync,
		buffers:       make(map[gpu.BufferID]*buffer),
		textures:      make(map[gpu.TextureID]*texture),
		depthTargets:  make(map[gpu.DepthTargetID]gpu.TextureID),
		views:         make(map[gpu.ShaderResourceID]gpu.TextureID),
		samplers:      make(map[gpu.SamplerID]*sampler),
		rasterizers:   make(map[gpu.RasterizerID]gpu.RasterizerDesc),
		depthStencils: make(map[gpu.DepthStencilID]gpu.DepthStencilDesc),
		framebuffers:  make(map[targetPair]uint32),
		log:           logger.Named("glgpu"),
	}

	d.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.String("glsl", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))),
	)

	d.backBuffer = gpu.RenderTargetID(d.id())
	d.depthBuffer = gpu.DepthTargetID(d.id())
	d.color, d.depth = d.backBuffer, d.depthBuffer

	gl.GenProgramPipelines(1, &d.pipeline)
	gl.BindProgramPipeline(d.pipeline)

	gl.GenVertexArrays(1, &d.vao)
	gl.BindVertexArray(d.vao)

	gl.Enable(gl.TEXTURE_CUBE_MAP_SEAMLESS)
	gl.FrontFace(gl.CCW)
	d.SetRasterizerState(0)
	d.SetDepthStencilState(0)
	d.SetViewport(gpu.FullViewport(width, height))

	return d, nil
}

func (d *Device) id() uint32 {
	d.next++
	return d.next
}

// BackBuffer implements gpu.Device.
func (d *Device) BackBuffer() gpu.RenderTargetID { return d.backBuffer }

// DepthBuffer implements gpu.Device.
func (d *Device) DepthBuffer() gpu.DepthTargetID { return d.depthBuffer }

// SetViewport implements gpu.Device.
func (d *Device) SetViewport(vp gpu.Viewport) {
	d.viewport = vp
	gl.Viewport(int32(vp.X), int32(vp.Y), int32(vp.Width), int32(vp.Height))
	gl.DepthRangef(vp.MinDepth, vp.MaxDepth)
}

// Viewport implements gpu.Device.
func (d *Device) Viewport() gpu.Viewport { return d.viewport }

// DisablePixelShader implements gpu.Device.
func (d *Device) DisablePixelShader() {
	gl.UseProgramStages(d.pipeline, gl.FRAGMENT_SHADER_BIT, 0)
	d.active[gpu.PixelStage] = nil
}

// UnbindShaderResources implements gpu.Device.
func (d *Device) UnbindShaderResources() {
	for unit := uint32(0); unit < maxUnits; unit++ {
		gl.ActiveTexture(gl.TEXTURE0 + unit)
		gl.BindTexture(gl.TEXTURE_2D, 0)
		gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)
		gl.BindSampler(unit, 0)
	}
}

// Present implements gpu.Device.
func (d *Device) Present(vsync bool) error {
	if vsync != d.vsync {
		if err := d.swap.SetVSync(vsync); err != nil {
			return fmt.Errorf("set vsync: %w", err)
		}
		d.vsync = vsync
	}
	d.swap.SwapBuffers()
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("gl error 0x%x", code)
	}
	return nil
}

// Close releases every GL object the device created.
func (d *Device) Close() {
	for _, b := range d.buffers {
		gl.DeleteBuffers(1, &b.name)
	}
	for _, t := range d.textures {
		gl.DeleteTextures(1, &t.name)
	}
	for _, s := range d.samplers {
		gl.DeleteSamplers(1, &s.name)
	}
	for _, fbo := range d.framebuffers {
		gl.DeleteFramebuffers(1, &fbo)
	}
	gl.DeleteVertexArrays(1, &d.vao)
	gl.DeleteProgramPipelines(1, &d.pipeline)
	d.log.Info("device closed")
}
