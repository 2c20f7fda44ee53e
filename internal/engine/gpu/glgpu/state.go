package glgpu

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/lumen/internal/engine/gpu"
)

// CreateRasterizerState implements gpu.Device.
func (d *Device) CreateRasterizerState(desc gpu.RasterizerDesc) (gpu.RasterizerID, error) {
	id := gpu.RasterizerID(d.id())
	d.rasterizers[id] = desc
	return id, nil
}

// CreateDepthStencilState implements gpu.Device.
func (d *Device) CreateDepthStencilState(desc gpu.DepthStencilDesc) (gpu.DepthStencilID, error) {
	id := gpu.DepthStencilID(d.id())
	d.depthStencils[id] = desc
	return id, nil
}

// SetRasterizerState implements gpu.Device. The zero ID selects
// gpu.DefaultRasterizer.
func (d *Device) SetRasterizerState(id gpu.RasterizerID) {
	desc := gpu.DefaultRasterizer
	if id != 0 {
		var ok bool
		if desc, ok = d.rasterizers[id]; !ok {
			d.log.Warn("unknown rasterizer state", zap.Uint32("id", uint32(id)))
			desc = gpu.DefaultRasterizer
		}
	}

	if desc.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}

	switch desc.Cull {
	case gpu.CullNone:
		gl.Disable(gl.CULL_FACE)
	case gpu.CullFront:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.FRONT)
	default:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	}

	if desc.DepthClip {
		gl.Disable(gl.DEPTH_CLAMP)
	} else {
		gl.Enable(gl.DEPTH_CLAMP)
	}

	if desc.DepthBias != 0 || desc.SlopeScaledDepthBias != 0 {
		gl.Enable(gl.POLYGON_OFFSET_FILL)
		gl.PolygonOffset(desc.SlopeScaledDepthBias, float32(desc.DepthBias))
	} else {
		gl.Disable(gl.POLYGON_OFFSET_FILL)
	}
}

// SetDepthStencilState implements gpu.Device. The zero ID selects
// gpu.DefaultDepthStencil.
func (d *Device) SetDepthStencilState(id gpu.DepthStencilID) {
	desc := gpu.DefaultDepthStencil
	if id != 0 {
		var ok bool
		if desc, ok = d.depthStencils[id]; !ok {
			d.log.Warn("unknown depth-stencil state", zap.Uint32("id", uint32(id)))
			desc = gpu.DefaultDepthStencil
		}
	}

	if desc.DepthTest {
		gl.Enable(gl.DEPTH_TEST)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
	gl.DepthFunc(compareFunc(desc.Func))
	gl.DepthMask(desc.DepthWrite)
	d.depthWrite = desc.DepthWrite
}

// SetVertexBuffer implements gpu.Device. The attribute layout is fixed:
// position, uv, normal, tangent at locations 0-3.
func (d *Device) SetVertexBuffer(id gpu.BufferID, stride int) {
	b, ok := d.buffers[id]
	if !ok {
		d.log.Warn("unknown vertex buffer", zap.Uint32("id", uint32(id)))
		return
	}
	d.vertexBuffer = id

	gl.BindBuffer(gl.ARRAY_BUFFER, b.name)
	s := int32(stride)
	attribs := []struct {
		size   int32
		offset int
	}{
		{3, gpu.PositionOffset},
		{2, gpu.UVOffset},
		{3, gpu.NormalOffset},
		{3, gpu.TangentOffset},
	}
	for loc, a := range attribs {
		gl.EnableVertexAttribArray(uint32(loc))
		gl.VertexAttribPointer(uint32(loc), a.size, gl.FLOAT, false, s, gl.PtrOffset(a.offset))
	}
}

// SetIndexBuffer implements gpu.Device.
func (d *Device) SetIndexBuffer(id gpu.BufferID) {
	b, ok := d.buffers[id]
	if !ok {
		d.log.Warn("unknown index buffer", zap.Uint32("id", uint32(id)))
		return
	}
	d.indexBuffer = id
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.name)
}

// DrawIndexed implements gpu.Device with 32-bit indices.
func (d *Device) DrawIndexed(indexCount, startIndex, baseVertex int) {
	gl.DrawElementsBaseVertex(gl.TRIANGLES, int32(indexCount), gl.UNSIGNED_INT, gl.PtrOffset(startIndex*4), int32(baseVertex))
}
