package texture

import (
	"fmt"
	"image"

	"github.com/Faultbox/lumen/internal/engine/gpu"
)

// Upload creates a mipmapped 2D texture from img and returns its view.
func Upload(dev gpu.Device, img *image.RGBA) (gpu.ShaderResourceID, error) {
	img = ToRGBA(img)
	b := img.Bounds()
	tex, err := dev.CreateTexture(gpu.TextureDesc{
		Width:         b.Dx(),
		Height:        b.Dy(),
		Format:        gpu.FormatRGBA8,
		ShaderBinding: true,
		MipMaps:       true,
	}, img.Pix)
	if err != nil {
		return 0, fmt.Errorf("uploading texture: %w", err)
	}
	srv, err := dev.CreateShaderResource(tex)
	if err != nil {
		return 0, fmt.Errorf("texture view: %w", err)
	}
	return srv, nil
}

// UploadCube creates a cube texture from six equally sized faces and
// returns its view.
func UploadCube(dev gpu.Device, faces [6]*image.RGBA) (gpu.ShaderResourceID, error) {
	size := faces[0].Bounds().Size()
	if size.X != size.Y {
		return 0, fmt.Errorf("cube faces must be square, got %dx%d", size.X, size.Y)
	}

	pixels := make([]byte, 0, 6*size.X*size.Y*4)
	for i, f := range faces {
		f = ToRGBA(f)
		if f.Bounds().Size() != size {
			return 0, fmt.Errorf("cube face %d is %v, want %v", i, f.Bounds().Size(), size)
		}
		pixels = append(pixels, f.Pix...)
	}

	tex, err := dev.CreateTexture(gpu.TextureDesc{
		Width:         size.X,
		Height:        size.Y,
		Format:        gpu.FormatRGBA8,
		Cube:          true,
		ShaderBinding: true,
	}, pixels)
	if err != nil {
		return 0, fmt.Errorf("uploading cube map: %w", err)
	}
	srv, err := dev.CreateShaderResource(tex)
	if err != nil {
		return 0, fmt.Errorf("cube map view: %w", err)
	}
	return srv, nil
}
