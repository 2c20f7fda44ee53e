package glgpu

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/lumen/internal/engine/gpu"
)

// targetPair identifies one framebuffer configuration.
type targetPair struct {
	color gpu.RenderTargetID
	depth gpu.DepthTargetID
}

// SetRenderTargets implements gpu.Device. The back buffer with the main
// depth buffer is the default framebuffer; a depth target with no colour
// target gets a depth-only framebuffer object, created on first use.
func (d *Device) SetRenderTargets(color gpu.RenderTargetID, depth gpu.DepthTargetID) {
	d.color, d.depth = color, depth
	d.bindFramebuffer(d.framebufferFor(color, depth))
}

// RenderTargets implements gpu.Device.
func (d *Device) RenderTargets() (gpu.RenderTargetID, gpu.DepthTargetID) {
	return d.color, d.depth
}

func (d *Device) bindFramebuffer(fbo uint32) {
	if fbo == d.boundFBO {
		return
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	d.boundFBO = fbo
}

func (d *Device) framebufferFor(color gpu.RenderTargetID, depth gpu.DepthTargetID) uint32 {
	if depth == d.depthBuffer || depth == 0 {
		if color != d.backBuffer && color != 0 {
			d.log.Warn("unknown render target, using back buffer", zap.Uint32("target", uint32(color)))
		}
		return 0
	}

	key := targetPair{color: color, depth: depth}
	if fbo, ok := d.framebuffers[key]; ok {
		return fbo
	}
	if color != 0 {
		d.log.Warn("back buffer cannot pair with an offscreen depth target, binding depth only",
			zap.Uint32("depth", uint32(depth)))
	}

	tex, ok := d.textures[d.depthTargets[depth]]
	if !ok {
		d.log.Error("unknown depth target", zap.Uint32("depth", uint32(depth)))
		return 0
	}

	var fbo uint32
	gl.GenFramebuffers(1, &fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, tex.name, 0)
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)
	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		d.log.Error("depth framebuffer incomplete", zap.Uint32("status", status))
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, d.boundFBO)

	d.framebuffers[key] = fbo
	return fbo
}

// ClearRenderTarget implements gpu.Device.
func (d *Device) ClearRenderTarget(rt gpu.RenderTargetID, color [4]float32) {
	if rt != d.backBuffer {
		return
	}
	prev := d.boundFBO
	d.bindFramebuffer(0)
	gl.ClearColor(color[0], color[1], color[2], color[3])
	gl.Clear(gl.COLOR_BUFFER_BIT)
	d.bindFramebuffer(prev)
}

// ClearDepth implements gpu.Device. Depth writes are enabled for the
// clear and restored afterwards.
func (d *Device) ClearDepth(dt gpu.DepthTargetID, depth float32) {
	prev := d.boundFBO
	color := gpu.RenderTargetID(0)
	if dt == d.depthBuffer {
		color = d.backBuffer
	}
	d.bindFramebuffer(d.framebufferFor(color, dt))

	gl.DepthMask(true)
	gl.ClearDepthf(depth)
	gl.Clear(gl.DEPTH_BUFFER_BIT)
	gl.DepthMask(d.depthWrite)

	d.bindFramebuffer(prev)
}

// ReadBackBuffer reads the default framebuffer's colour pixels, bottom
// row first. Call it before Present.
func (d *Device) ReadBackBuffer(width, height int) []byte {
	pixels := make([]byte, width*height*4)
	prev := d.boundFBO
	d.bindFramebuffer(0)
	gl.ReadBuffer(gl.BACK)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	d.bindFramebuffer(prev)
	return pixels
}
