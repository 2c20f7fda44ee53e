package glgpu

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/lumen/internal/engine/gpu"
)

// textureMaxAnisotropy is GL_TEXTURE_MAX_ANISOTROPY (core in 4.6, EXT before).
const textureMaxAnisotropy = 0x84FE

type buffer struct {
	name uint32
	desc gpu.BufferDesc
}

type texture struct {
	name   uint32
	target uint32
	desc   gpu.TextureDesc
}

type sampler struct {
	name uint32
	desc gpu.SamplerDesc
}

// CreateBuffer implements gpu.Device.
func (d *Device) CreateBuffer(desc gpu.BufferDesc, data []byte) (gpu.BufferID, error) {
	if desc.Size <= 0 {
		return 0, fmt.Errorf("buffer size %d", desc.Size)
	}
	if desc.Immutable && len(data) < desc.Size {
		return 0, fmt.Errorf("immutable buffer needs %d bytes of initial data, got %d", desc.Size, len(data))
	}

	usage := uint32(gl.DYNAMIC_DRAW)
	if desc.Immutable {
		usage = gl.STATIC_DRAW
	}

	var name uint32
	gl.GenBuffers(1, &name)
	// COPY_WRITE_BUFFER leaves the VAO's element binding untouched.
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, name)
	var ptr unsafe.Pointer
	if len(data) > 0 {
		ptr = gl.Ptr(data)
	}
	gl.BufferData(gl.COPY_WRITE_BUFFER, desc.Size, ptr, usage)
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, 0)

	id := gpu.BufferID(d.id())
	d.buffers[id] = &buffer{name: name, desc: desc}
	return id, nil
}

// UpdateBuffer implements gpu.Device by mapping the buffer for write.
func (d *Device) UpdateBuffer(id gpu.BufferID, data []byte) error {
	b, ok := d.buffers[id]
	if !ok {
		return fmt.Errorf("unknown buffer %d", id)
	}
	if b.desc.Immutable {
		return fmt.Errorf("buffer %d is immutable", id)
	}
	if len(data) > b.desc.Size {
		return fmt.Errorf("buffer %d: %d bytes exceed size %d", id, len(data), b.desc.Size)
	}
	if len(data) == 0 {
		return nil
	}

	gl.BindBuffer(gl.COPY_WRITE_BUFFER, b.name)
	defer gl.BindBuffer(gl.COPY_WRITE_BUFFER, 0)
	ptr := gl.MapBufferRange(gl.COPY_WRITE_BUFFER, 0, len(data), gl.MAP_WRITE_BIT|gl.MAP_INVALIDATE_BUFFER_BIT)
	if ptr == nil {
		return fmt.Errorf("buffer %d: map failed", id)
	}
	copy(unsafe.Slice((*byte)(ptr), len(data)), data)
	if !gl.UnmapBuffer(gl.COPY_WRITE_BUFFER) {
		return fmt.Errorf("buffer %d: contents lost during unmap", id)
	}
	return nil
}

// CreateTexture implements gpu.Device.
func (d *Device) CreateTexture(desc gpu.TextureDesc, pixels []byte) (gpu.TextureID, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return 0, fmt.Errorf("texture size %dx%d", desc.Width, desc.Height)
	}

	internal, format, xtype := int32(gl.RGBA8), uint32(gl.RGBA), uint32(gl.UNSIGNED_BYTE)
	texelSize := 4
	if desc.Format == gpu.FormatDepth24 {
		internal, format, xtype = gl.DEPTH_COMPONENT24, gl.DEPTH_COMPONENT, gl.FLOAT
		texelSize = 0
		if desc.Cube {
			return 0, fmt.Errorf("depth cube textures are not supported")
		}
	}

	faces := 1
	target := uint32(gl.TEXTURE_2D)
	if desc.Cube {
		faces = 6
		target = gl.TEXTURE_CUBE_MAP
	}
	faceSize := desc.Width * desc.Height * texelSize
	if pixels != nil && len(pixels) < faces*faceSize {
		return 0, fmt.Errorf("texture data %d bytes, want %d", len(pixels), faces*faceSize)
	}

	var name uint32
	gl.GenTextures(1, &name)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(target, name)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)

	for f := 0; f < faces; f++ {
		faceTarget := target
		if desc.Cube {
			faceTarget = gl.TEXTURE_CUBE_MAP_POSITIVE_X + uint32(f)
		}
		var ptr unsafe.Pointer
		if pixels != nil && faceSize > 0 {
			ptr = gl.Ptr(pixels[f*faceSize : (f+1)*faceSize])
		}
		gl.TexImage2D(faceTarget, 0, internal, int32(desc.Width), int32(desc.Height), 0, format, xtype, ptr)
	}

	if desc.MipMaps && desc.Format == gpu.FormatRGBA8 {
		gl.GenerateMipmap(target)
	} else {
		// A single level keeps the texture complete under any sampler filter.
		gl.TexParameteri(target, gl.TEXTURE_MAX_LEVEL, 0)
	}
	gl.BindTexture(target, 0)

	id := gpu.TextureID(d.id())
	d.textures[id] = &texture{name: name, target: target, desc: desc}
	return id, nil
}

// CreateDepthTarget implements gpu.Device.
func (d *Device) CreateDepthTarget(tex gpu.TextureID) (gpu.DepthTargetID, error) {
	t, ok := d.textures[tex]
	if !ok {
		return 0, fmt.Errorf("depth target: unknown texture %d", tex)
	}
	if t.desc.Format != gpu.FormatDepth24 || !t.desc.DepthTarget {
		return 0, fmt.Errorf("depth target: texture %d is not a depth texture", tex)
	}
	id := gpu.DepthTargetID(d.id())
	d.depthTargets[id] = tex
	return id, nil
}

// CreateShaderResource implements gpu.Device.
func (d *Device) CreateShaderResource(tex gpu.TextureID) (gpu.ShaderResourceID, error) {
	t, ok := d.textures[tex]
	if !ok {
		return 0, fmt.Errorf("shader resource: unknown texture %d", tex)
	}
	if !t.desc.ShaderBinding {
		return 0, fmt.Errorf("shader resource: texture %d is not shader-bindable", tex)
	}
	id := gpu.ShaderResourceID(d.id())
	d.views[id] = tex
	return id, nil
}

// CreateSampler implements gpu.Device.
func (d *Device) CreateSampler(desc gpu.SamplerDesc) (gpu.SamplerID, error) {
	var name uint32
	gl.GenSamplers(1, &name)

	minFilter, magFilter := int32(gl.LINEAR_MIPMAP_LINEAR), int32(gl.LINEAR)
	switch desc.Filter {
	case gpu.FilterPoint:
		minFilter, magFilter = gl.NEAREST_MIPMAP_NEAREST, gl.NEAREST
	case gpu.FilterAnisotropic:
		if desc.MaxAnisotropy > 1 {
			gl.SamplerParameterf(name, textureMaxAnisotropy, float32(desc.MaxAnisotropy))
		}
	}
	if desc.Comparison {
		minFilter = gl.LINEAR
	}
	gl.SamplerParameteri(name, gl.TEXTURE_MIN_FILTER, minFilter)
	gl.SamplerParameteri(name, gl.TEXTURE_MAG_FILTER, magFilter)

	wrap := int32(gl.REPEAT)
	switch desc.Address {
	case gpu.AddressClamp:
		wrap = gl.CLAMP_TO_EDGE
	case gpu.AddressBorder:
		wrap = gl.CLAMP_TO_BORDER
		border := desc.BorderColor
		gl.SamplerParameterfv(name, gl.TEXTURE_BORDER_COLOR, &border[0])
	}
	gl.SamplerParameteri(name, gl.TEXTURE_WRAP_S, wrap)
	gl.SamplerParameteri(name, gl.TEXTURE_WRAP_T, wrap)
	gl.SamplerParameteri(name, gl.TEXTURE_WRAP_R, wrap)

	if desc.Comparison {
		gl.SamplerParameteri(name, gl.TEXTURE_COMPARE_MODE, gl.COMPARE_REF_TO_TEXTURE)
		gl.SamplerParameteri(name, gl.TEXTURE_COMPARE_FUNC, int32(compareFunc(desc.Compare)))
	}

	id := gpu.SamplerID(d.id())
	d.samplers[id] = &sampler{name: name, desc: desc}
	return id, nil
}

func compareFunc(f gpu.CompareFunc) uint32 {
	switch f {
	case gpu.CompareNever:
		return gl.NEVER
	case gpu.CompareLessEqual:
		return gl.LEQUAL
	case gpu.CompareEqual:
		return gl.EQUAL
	case gpu.CompareGreater:
		return gl.GREATER
	case gpu.CompareAlways:
		return gl.ALWAYS
	}
	return gl.LESS
}
