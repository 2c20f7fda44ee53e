// Package gputest provides a recording gpu.Device and gpu.Shader for tests.
//
// Every device call is appended to Calls. Every DrawIndexed captures a
// Draw snapshot of the bound pipeline, including the parameter values the
// active shaders had committed at that moment.
package gputest

import (
	"fmt"

	"github.com/Faultbox/lumen/internal/engine/gpu"
)

// Call is one recorded device or shader operation.
type Call struct {
	Op   string
	Args []any
}

func (c Call) String() string {
	return fmt.Sprintf("%s%v", c.Op, c.Args)
}

// Draw is the pipeline snapshot taken at a DrawIndexed call.
type Draw struct {
	IndexCount, StartIndex, BaseVertex int

	VertexBuffer gpu.BufferID
	IndexBuffer  gpu.BufferID

	VertexShader string // empty when none is bound
	PixelShader  string // empty when the pixel stage is disabled
	VS, PS       map[string]any

	Viewport     gpu.Viewport
	Color        gpu.RenderTargetID
	Depth        gpu.DepthTargetID
	Rasterizer   gpu.RasterizerID
	DepthStencil gpu.DepthStencilID
}

// Buffer is a created buffer and its latest contents.
type Buffer struct {
	Desc gpu.BufferDesc
	Data []byte
}

// Device records calls instead of talking to a GPU.
type Device struct {
	Calls    []Call
	Draws    []Draw
	Presents int

	Buffers       map[gpu.BufferID]*Buffer
	Textures      map[gpu.TextureID]gpu.TextureDesc
	Samplers      map[gpu.SamplerID]gpu.SamplerDesc
	Rasterizers   map[gpu.RasterizerID]gpu.RasterizerDesc
	DepthStencils map[gpu.DepthStencilID]gpu.DepthStencilDesc
	Views         map[gpu.ShaderResourceID]gpu.TextureID
	DepthTargets  map[gpu.DepthTargetID]gpu.TextureID

	// Fail makes the named operation return the mapped error.
	Fail map[string]error

	next         uint32
	backBuffer   gpu.RenderTargetID
	depthBuffer  gpu.DepthTargetID
	viewport     gpu.Viewport
	color        gpu.RenderTargetID
	depth        gpu.DepthTargetID
	rasterizer   gpu.RasterizerID
	depthStencil gpu.DepthStencilID
	vertexBuf    gpu.BufferID
	indexBuf     gpu.BufferID
	vs, ps       *Shader
}

// NewDevice creates a device whose swap chain is width x height with the
// main targets bound.
func NewDevice(width, height int) *Device {
	d := &Device{
		Buffers:       make(map[gpu.BufferID]*Buffer),
		Textures:      make(map[gpu.TextureID]gpu.TextureDesc),
		Samplers:      make(map[gpu.SamplerID]gpu.SamplerDesc),
		Rasterizers:   make(map[gpu.RasterizerID]gpu.RasterizerDesc),
		DepthStencils: make(map[gpu.DepthStencilID]gpu.DepthStencilDesc),
		Views:         make(map[gpu.ShaderResourceID]gpu.TextureID),
		DepthTargets:  make(map[gpu.DepthTargetID]gpu.TextureID),
		Fail:          make(map[string]error),
	}
	d.backBuffer = gpu.RenderTargetID(d.id())
	d.depthBuffer = gpu.DepthTargetID(d.id())
	d.color, d.depth = d.backBuffer, d.depthBuffer
	d.viewport = gpu.FullViewport(width, height)
	return d
}

func (d *Device) id() uint32 {
	d.next++
	return d.next
}

func (d *Device) record(op string, args ...any) {
	d.Calls = append(d.Calls, Call{Op: op, Args: args})
}

func (d *Device) fail(op string) error {
	if err := d.Fail[op]; err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Reset forgets recorded calls and draws but keeps resources and state.
func (d *Device) Reset() {
	d.Calls = nil
	d.Draws = nil
	d.Presents = 0
}

// Ops returns the recorded operation names in order.
func (d *Device) Ops() []string {
	ops := make([]string, len(d.Calls))
	for i, c := range d.Calls {
		ops[i] = c.Op
	}
	return ops
}

// Count returns how many times op was recorded.
func (d *Device) Count(op string) int {
	n := 0
	for _, c := range d.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// CreateBuffer implements gpu.Device.
func (d *Device) CreateBuffer(desc gpu.BufferDesc, data []byte) (gpu.BufferID, error) {
	if err := d.fail("CreateBuffer"); err != nil {
		return 0, err
	}
	id := gpu.BufferID(d.id())
	d.Buffers[id] = &Buffer{Desc: desc, Data: append([]byte(nil), data...)}
	d.record("CreateBuffer", id, desc.Kind)
	return id, nil
}

// UpdateBuffer implements gpu.Device.
func (d *Device) UpdateBuffer(buf gpu.BufferID, data []byte) error {
	if err := d.fail("UpdateBuffer"); err != nil {
		return err
	}
	b, ok := d.Buffers[buf]
	if !ok {
		return fmt.Errorf("update buffer %d: unknown buffer", buf)
	}
	if b.Desc.Immutable {
		return fmt.Errorf("update buffer %d: buffer is immutable", buf)
	}
	b.Data = append(b.Data[:0], data...)
	d.record("UpdateBuffer", buf)
	return nil
}

// CreateTexture implements gpu.Device.
func (d *Device) CreateTexture(desc gpu.TextureDesc, pixels []byte) (gpu.TextureID, error) {
	if err := d.fail("CreateTexture"); err != nil {
		return 0, err
	}
	id := gpu.TextureID(d.id())
	d.Textures[id] = desc
	d.record("CreateTexture", id, desc.Width, desc.Height)
	return id, nil
}

// CreateDepthTarget implements gpu.Device.
func (d *Device) CreateDepthTarget(tex gpu.TextureID) (gpu.DepthTargetID, error) {
	if err := d.fail("CreateDepthTarget"); err != nil {
		return 0, err
	}
	if _, ok := d.Textures[tex]; !ok {
		return 0, fmt.Errorf("depth target: unknown texture %d", tex)
	}
	id := gpu.DepthTargetID(d.id())
	d.DepthTargets[id] = tex
	d.record("CreateDepthTarget", id, tex)
	return id, nil
}

// CreateShaderResource implements gpu.Device.
func (d *Device) CreateShaderResource(tex gpu.TextureID) (gpu.ShaderResourceID, error) {
	if err := d.fail("CreateShaderResource"); err != nil {
		return 0, err
	}
	if _, ok := d.Textures[tex]; !ok {
		return 0, fmt.Errorf("shader resource: unknown texture %d", tex)
	}
	id := gpu.ShaderResourceID(d.id())
	d.Views[id] = tex
	d.record("CreateShaderResource", id, tex)
	return id, nil
}

// CreateSampler implements gpu.Device.
func (d *Device) CreateSampler(desc gpu.SamplerDesc) (gpu.SamplerID, error) {
	if err := d.fail("CreateSampler"); err != nil {
		return 0, err
	}
	id := gpu.SamplerID(d.id())
	d.Samplers[id] = desc
	d.record("CreateSampler", id)
	return id, nil
}

// CreateRasterizerState implements gpu.Device.
func (d *Device) CreateRasterizerState(desc gpu.RasterizerDesc) (gpu.RasterizerID, error) {
	if err := d.fail("CreateRasterizerState"); err != nil {
		return 0, err
	}
	id := gpu.RasterizerID(d.id())
	d.Rasterizers[id] = desc
	d.record("CreateRasterizerState", id)
	return id, nil
}

// CreateDepthStencilState implements gpu.Device.
func (d *Device) CreateDepthStencilState(desc gpu.DepthStencilDesc) (gpu.DepthStencilID, error) {
	if err := d.fail("CreateDepthStencilState"); err != nil {
		return 0, err
	}
	id := gpu.DepthStencilID(d.id())
	d.DepthStencils[id] = desc
	d.record("CreateDepthStencilState", id)
	return id, nil
}

// BackBuffer implements gpu.Device.
func (d *Device) BackBuffer() gpu.RenderTargetID { return d.backBuffer }

// DepthBuffer implements gpu.Device.
func (d *Device) DepthBuffer() gpu.DepthTargetID { return d.depthBuffer }

// SetViewport implements gpu.Device.
func (d *Device) SetViewport(vp gpu.Viewport) {
	d.viewport = vp
	d.record("SetViewport", vp)
}

// Viewport implements gpu.Device.
func (d *Device) Viewport() gpu.Viewport { return d.viewport }

// SetRenderTargets implements gpu.Device.
func (d *Device) SetRenderTargets(color gpu.RenderTargetID, depth gpu.DepthTargetID) {
	d.color, d.depth = color, depth
	d.record("SetRenderTargets", color, depth)
}

// RenderTargets implements gpu.Device.
func (d *Device) RenderTargets() (gpu.RenderTargetID, gpu.DepthTargetID) {
	return d.color, d.depth
}

// ClearRenderTarget implements gpu.Device.
func (d *Device) ClearRenderTarget(rt gpu.RenderTargetID, color [4]float32) {
	d.record("ClearRenderTarget", rt, color)
}

// ClearDepth implements gpu.Device.
func (d *Device) ClearDepth(dt gpu.DepthTargetID, depth float32) {
	d.record("ClearDepth", dt, depth)
}

// SetRasterizerState implements gpu.Device.
func (d *Device) SetRasterizerState(rs gpu.RasterizerID) {
	d.rasterizer = rs
	d.record("SetRasterizerState", rs)
}

// Rasterizer returns the bound rasterizer state.
func (d *Device) Rasterizer() gpu.RasterizerID { return d.rasterizer }

// SetDepthStencilState implements gpu.Device.
func (d *Device) SetDepthStencilState(ds gpu.DepthStencilID) {
	d.depthStencil = ds
	d.record("SetDepthStencilState", ds)
}

// DepthStencil returns the bound depth-stencil state.
func (d *Device) DepthStencil() gpu.DepthStencilID { return d.depthStencil }

// DisablePixelShader implements gpu.Device.
func (d *Device) DisablePixelShader() {
	d.ps = nil
	d.record("DisablePixelShader")
}

// UnbindShaderResources implements gpu.Device.
func (d *Device) UnbindShaderResources() {
	d.record("UnbindShaderResources")
}

// SetVertexBuffer implements gpu.Device.
func (d *Device) SetVertexBuffer(buf gpu.BufferID, stride int) {
	d.vertexBuf = buf
	d.record("SetVertexBuffer", buf, stride)
}

// SetIndexBuffer implements gpu.Device.
func (d *Device) SetIndexBuffer(buf gpu.BufferID) {
	d.indexBuf = buf
	d.record("SetIndexBuffer", buf)
}

// DrawIndexed implements gpu.Device.
func (d *Device) DrawIndexed(indexCount, startIndex, baseVertex int) {
	draw := Draw{
		IndexCount:   indexCount,
		StartIndex:   startIndex,
		BaseVertex:   baseVertex,
		VertexBuffer: d.vertexBuf,
		IndexBuffer:  d.indexBuf,
		Viewport:     d.viewport,
		Color:        d.color,
		Depth:        d.depth,
		Rasterizer:   d.rasterizer,
		DepthStencil: d.depthStencil,
	}
	if d.vs != nil {
		draw.VertexShader = d.vs.name
		draw.VS = copyParams(d.vs.committed)
	}
	if d.ps != nil {
		draw.PixelShader = d.ps.name
		draw.PS = copyParams(d.ps.committed)
	}
	d.Draws = append(d.Draws, draw)
	d.record("DrawIndexed", indexCount)
}

// Present implements gpu.Device.
func (d *Device) Present(vsync bool) error {
	if err := d.fail("Present"); err != nil {
		return err
	}
	d.Presents++
	d.record("Present", vsync)
	return nil
}

// DrawsWith returns the draws issued with the named vertex shader.
func (d *Device) DrawsWith(vertexShader string) []Draw {
	var out []Draw
	for _, dr := range d.Draws {
		if dr.VertexShader == vertexShader {
			out = append(out, dr)
		}
	}
	return out
}

func copyParams(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
