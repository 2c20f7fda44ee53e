// Package texture loads images from disk and uploads them as 2D or cube
// textures through a gpu.Device.
package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Decode decodes image data. name is only used to pick the TGA decoder,
// which has no magic number; other formats are sniffed.
func Decode(data []byte, name string) (*image.RGBA, error) {
	if strings.EqualFold(filepath.Ext(name), ".tga") {
		return DecodeTGA(data)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	if format == "" {
		return nil, fmt.Errorf("decoding %s: unknown format", name)
	}
	return ToRGBA(img), nil
}

// LoadFile reads and decodes an image file.
func LoadFile(path string) (*image.RGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading texture: %w", err)
	}
	return Decode(data, path)
}

// LoadCube loads six faces in +X, -X, +Y, -Y, +Z, -Z order. Faces that
// differ in size from the first are rescaled to match it.
func LoadCube(paths [6]string) ([6]*image.RGBA, error) {
	var faces [6]*image.RGBA
	for i, p := range paths {
		img, err := LoadFile(p)
		if err != nil {
			return faces, fmt.Errorf("cube face %d: %w", i, err)
		}
		faces[i] = img
	}
	return NormalizeFaces(faces), nil
}

// NormalizeFaces rescales every face to the size of the first one.
func NormalizeFaces(faces [6]*image.RGBA) [6]*image.RGBA {
	size := faces[0].Bounds().Size()
	for i := 1; i < len(faces); i++ {
		if faces[i].Bounds().Size() == size {
			continue
		}
		dst := image.NewRGBA(image.Rectangle{Max: size})
		draw.CatmullRom.Scale(dst, dst.Bounds(), faces[i], faces[i].Bounds(), draw.Src, nil)
		faces[i] = dst
	}
	return faces
}

// ToRGBA converts img to a tightly packed *image.RGBA with origin (0, 0).
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) && rgba.Stride == 4*rgba.Rect.Dx() {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// Solid returns a 1x1 image of c, used when a texture fails to load.
func Solid(c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.SetRGBA(0, 0, c)
	return img
}

// Checker returns a size x size checkerboard of cells x cells squares.
func Checker(size, cells int, a, b color.RGBA) *image.RGBA {
	if cells <= 0 {
		cells = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	cell := max(size/cells, 1)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := a
			if (x/cell+y/cell)%2 == 1 {
				c = b
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// FlatNormal is the tangent-space normal (0, 0, 1) encoded as a colour.
var FlatNormal = color.RGBA{R: 128, G: 128, B: 255, A: 255}
