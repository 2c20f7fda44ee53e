// Package gpu is the device contract the renderer core draws through.
//
// Resources are opaque handles; the zero handle means "none" for targets
// and resources and "default" for pipeline states. Shader parameters are
// addressed by name and staged on the CPU until CopyAllBufferData commits
// them; names the shader does not declare are ignored.
package gpu

import "github.com/Faultbox/lumen/pkg/math"

// Handles to device objects.
type (
	BufferID         uint32
	TextureID        uint32
	RenderTargetID   uint32
	DepthTargetID    uint32
	ShaderResourceID uint32
	SamplerID        uint32
	RasterizerID     uint32
	DepthStencilID   uint32
)

// BufferKind selects how a buffer is bound.
type BufferKind int

const (
	VertexBuffer BufferKind = iota
	IndexBuffer
	ConstantBuffer
)

// BufferDesc describes a GPU buffer.
type BufferDesc struct {
	Kind BufferKind
	Size int // bytes
	// Immutable buffers are written once at creation.
	Immutable bool
}

// Format is a texel format.
type Format int

const (
	FormatRGBA8 Format = iota
	// FormatDepth24 is a typeless 24-bit depth texture that can be bound
	// both as a depth target and as a shader resource.
	FormatDepth24
)

// TextureDesc describes a 2D or cube texture.
type TextureDesc struct {
	Width, Height int
	Format        Format
	Cube          bool // six faces, +X -X +Y -Y +Z -Z
	DepthTarget   bool
	ShaderBinding bool
	MipMaps       bool
}

// Filter selects texture filtering.
type Filter int

const (
	FilterLinear Filter = iota
	FilterPoint
	FilterAnisotropic
)

// AddressMode selects out-of-range texture coordinate handling.
type AddressMode int

const (
	AddressWrap AddressMode = iota
	AddressClamp
	AddressBorder
)

// CompareFunc is a depth or sampler comparison.
type CompareFunc int

const (
	CompareNever CompareFunc = iota
	CompareLess
	CompareLessEqual
	CompareEqual
	CompareGreater
	CompareAlways
)

// SamplerDesc describes a sampler state.
type SamplerDesc struct {
	Filter        Filter
	Address       AddressMode
	MaxAnisotropy int
	// Comparison samplers compare the sampled depth with Compare.
	Comparison  bool
	Compare     CompareFunc
	BorderColor [4]float32
}

// CullMode selects which triangles are discarded.
type CullMode int

const (
	CullBack CullMode = iota
	CullFront
	CullNone
)

// RasterizerDesc describes a rasterizer state.
type RasterizerDesc struct {
	Wireframe bool
	Cull      CullMode
	DepthClip bool
	// DepthBias is a constant offset in depth-buffer units.
	DepthBias int32
	// SlopeScaledDepthBias scales with the triangle's depth slope.
	SlopeScaledDepthBias float32
}

// DefaultRasterizer is the state selected by the zero RasterizerID.
var DefaultRasterizer = RasterizerDesc{Cull: CullBack, DepthClip: true}

// DepthStencilDesc describes depth testing.
type DepthStencilDesc struct {
	DepthTest  bool
	DepthWrite bool
	Func       CompareFunc
}

// DefaultDepthStencil is the state selected by the zero DepthStencilID.
var DefaultDepthStencil = DepthStencilDesc{DepthTest: true, DepthWrite: true, Func: CompareLess}

// Viewport is a render-target rectangle in pixels.
type Viewport struct {
	X, Y          float32
	Width, Height float32
	MinDepth      float32
	MaxDepth      float32
}

// FullViewport covers a w x h target with the full depth range.
func FullViewport(w, h int) Viewport {
	return Viewport{Width: float32(w), Height: float32(h), MaxDepth: 1}
}

// Device creates resources and records pipeline state for one context.
type Device interface {
	CreateBuffer(desc BufferDesc, data []byte) (BufferID, error)
	// UpdateBuffer maps a buffer for CPU write, copies data and unmaps it.
	UpdateBuffer(buf BufferID, data []byte) error
	// CreateTexture creates a texture. Cube textures take the six faces
	// concatenated in face order.
	CreateTexture(desc TextureDesc, pixels []byte) (TextureID, error)
	CreateDepthTarget(tex TextureID) (DepthTargetID, error)
	CreateShaderResource(tex TextureID) (ShaderResourceID, error)
	CreateSampler(desc SamplerDesc) (SamplerID, error)
	CreateRasterizerState(desc RasterizerDesc) (RasterizerID, error)
	CreateDepthStencilState(desc DepthStencilDesc) (DepthStencilID, error)

	// BackBuffer and DepthBuffer are the main targets owned by the swap chain.
	BackBuffer() RenderTargetID
	DepthBuffer() DepthTargetID

	SetViewport(vp Viewport)
	Viewport() Viewport
	SetRenderTargets(color RenderTargetID, depth DepthTargetID)
	RenderTargets() (RenderTargetID, DepthTargetID)
	ClearRenderTarget(rt RenderTargetID, color [4]float32)
	ClearDepth(dt DepthTargetID, depth float32)
	SetRasterizerState(rs RasterizerID)
	SetDepthStencilState(ds DepthStencilID)
	// DisablePixelShader unbinds the pixel stage until the next pixel
	// shader is activated.
	DisablePixelShader()
	// UnbindShaderResources clears every shader-resource slot so a texture
	// can be bound as a target again.
	UnbindShaderResources()

	SetVertexBuffer(buf BufferID, stride int)
	SetIndexBuffer(buf BufferID)
	DrawIndexed(indexCount, startIndex, baseVertex int)

	Present(vsync bool) error
}

// Stage identifies the pipeline stage a shader runs in.
type Stage int

const (
	VertexStage Stage = iota
	PixelStage
)

func (s Stage) String() string {
	if s == PixelStage {
		return "pixel"
	}
	return "vertex"
}

// Shader is one compiled stage with reflected, name-addressed parameters.
// Setters report whether the name matched; unmatched names are ignored.
type Shader interface {
	Name() string
	Stage() Stage

	SetFloat(name string, v float32) bool
	SetFloat2(name string, v math.Vec2) bool
	SetFloat3(name string, v math.Vec3) bool
	SetFloat4(name string, v math.Vec4) bool
	SetMatrix4x4(name string, m math.Mat4) bool
	SetInt(name string, v int32) bool
	// SetData writes a raw block, such as an encoded light array.
	SetData(name string, data []byte) bool
	SetShaderResource(name string, srv ShaderResourceID) bool
	SetSampler(name string, s SamplerID) bool

	// CopyAllBufferData commits every staged parameter to the GPU.
	CopyAllBufferData()
	// SetShader makes this shader the active one for its stage.
	SetShader()
}

// Vertex layout shared by meshes and backends: position (3 floats),
// uv (2), normal (3), tangent (3).
const (
	VertexStride   = 44
	PositionOffset = 0
	UVOffset       = 12
	NormalOffset   = 20
	TangentOffset  = 32
)
