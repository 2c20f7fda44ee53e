package texture

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/Faultbox/lumen/internal/engine/gpu"
	"github.com/Faultbox/lumen/internal/engine/gpu/gputest"
)

func tgaHeader(imageType byte, w, h int, bpp byte, descriptor byte) []byte {
	hdr := make([]byte, tgaHeaderSize)
	hdr[2] = imageType
	hdr[12], hdr[13] = byte(w), byte(w>>8)
	hdr[14], hdr[15] = byte(h), byte(h>>8)
	hdr[16] = bpp
	hdr[17] = descriptor
	return hdr
}

func TestDecodeTGAUncompressedBottomUp(t *testing.T) {
	// 2x1 bottom-up, 24 bpp: red then blue, stored BGR.
	data := append(tgaHeader(TGATypeUncompressed, 2, 1, 24, 0), 0, 0, 255, 255, 0, 0)
	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatal(err)
	}
	if c := img.RGBAAt(0, 0); c != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("pixel 0 = %v, want red", c)
	}
	if c := img.RGBAAt(1, 0); c != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("pixel 1 = %v, want blue", c)
	}
}

func TestDecodeTGAFlipsRows(t *testing.T) {
	// 1x2, 32 bpp, bottom-up: the first stored row is the bottom one.
	data := append(tgaHeader(TGATypeUncompressed, 1, 2, 32, 0),
		0, 255, 0, 255, // green, bottom
		255, 0, 0, 128, // blue, top
	)
	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatal(err)
	}
	if c := img.RGBAAt(0, 1); c.G != 255 {
		t.Errorf("bottom = %v, want green", c)
	}
	if c := img.RGBAAt(0, 0); c.B != 255 || c.A != 128 {
		t.Errorf("top = %v, want translucent blue", c)
	}
}

func TestDecodeTGARLE(t *testing.T) {
	// 4x1 top-down: run of 3 white, then one raw black.
	data := append(tgaHeader(TGATypeRLE, 4, 1, 24, 0x20),
		0x82, 255, 255, 255,
		0x00, 0, 0, 0,
	)
	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatal(err)
	}
	for x := 0; x < 3; x++ {
		if c := img.RGBAAt(x, 0); c != (color.RGBA{255, 255, 255, 255}) {
			t.Errorf("pixel %d = %v, want white", x, c)
		}
	}
	if c := img.RGBAAt(3, 0); c != (color.RGBA{A: 255}) {
		t.Errorf("pixel 3 = %v, want black", c)
	}
}

func TestDecodeTGAErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"short header", []byte{1, 2, 3}},
		{"color mapped", func() []byte { h := tgaHeader(TGATypeUncompressed, 1, 1, 24, 0); h[1] = 1; return h }()},
		{"unsupported type", tgaHeader(3, 1, 1, 24, 0)},
		{"unsupported depth", tgaHeader(TGATypeUncompressed, 1, 1, 16, 0)},
		{"truncated pixels", append(tgaHeader(TGATypeUncompressed, 2, 2, 24, 0), 1, 2, 3)},
		{"truncated rle", append(tgaHeader(TGATypeRLE, 2, 1, 24, 0), 0x81)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeTGA(tt.data); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestDecodeSniffsFormats(t *testing.T) {
	src := Checker(4, 2, color.RGBA{R: 255, A: 255}, color.RGBA{G: 255, A: 255})

	var pngBuf, bmpBuf bytes.Buffer
	if err := png.Encode(&pngBuf, src); err != nil {
		t.Fatal(err)
	}
	if err := bmp.Encode(&bmpBuf, src); err != nil {
		t.Fatal(err)
	}

	for name, data := range map[string][]byte{"a.png": pngBuf.Bytes(), "a.bmp": bmpBuf.Bytes()} {
		img, err := Decode(data, name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if img.RGBAAt(0, 0) != src.RGBAAt(0, 0) || img.RGBAAt(3, 0) != src.RGBAAt(3, 0) {
			t.Errorf("%s: pixels differ", name)
		}
	}

	if _, err := Decode([]byte("not an image"), "x.png"); err == nil {
		t.Error("expected error for garbage data")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solid.png")
	var buf bytes.Buffer
	if err := png.Encode(&buf, Solid(FlatNormal)); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	img, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if img.RGBAAt(0, 0) != FlatNormal {
		t.Errorf("pixel = %v", img.RGBAAt(0, 0))
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestCheckerAlternates(t *testing.T) {
	a, b := color.RGBA{R: 1, A: 255}, color.RGBA{B: 1, A: 255}
	img := Checker(8, 4, a, b)
	if img.RGBAAt(0, 0) != a || img.RGBAAt(2, 0) != b || img.RGBAAt(2, 2) != a {
		t.Error("checker pattern wrong")
	}
}

func TestNormalizeFaces(t *testing.T) {
	var faces [6]*image.RGBA
	for i := range faces {
		faces[i] = Checker(4, 2, color.RGBA{A: 255}, color.RGBA{R: 255, A: 255})
	}
	faces[3] = Solid(color.RGBA{G: 255, A: 255})

	out := NormalizeFaces(faces)
	for i, f := range out {
		if f.Bounds().Size() != (image.Point{X: 4, Y: 4}) {
			t.Errorf("face %d size = %v", i, f.Bounds().Size())
		}
	}
	if c := out[3].RGBAAt(2, 2); c.G < 250 || c.R > 5 {
		t.Errorf("rescaled face colour = %v", c)
	}
}

func TestUpload(t *testing.T) {
	dev := gputest.NewDevice(1, 1)
	srv, err := Upload(dev, Checker(4, 2, color.RGBA{A: 255}, color.RGBA{R: 255, A: 255}))
	if err != nil {
		t.Fatal(err)
	}
	desc := dev.Textures[dev.Views[srv]]
	if desc.Width != 4 || desc.Format != gpu.FormatRGBA8 || !desc.MipMaps || desc.Cube {
		t.Errorf("texture = %+v", desc)
	}
}

func TestUploadCube(t *testing.T) {
	dev := gputest.NewDevice(1, 1)
	var faces [6]*image.RGBA
	for i := range faces {
		faces[i] = Solid(color.RGBA{R: uint8(i), A: 255})
	}
	srv, err := UploadCube(dev, faces)
	if err != nil {
		t.Fatal(err)
	}
	if desc := dev.Textures[dev.Views[srv]]; !desc.Cube || desc.Width != 1 {
		t.Errorf("cube texture = %+v", desc)
	}

	faces[0] = image.NewRGBA(image.Rect(0, 0, 2, 1))
	if _, err := UploadCube(dev, faces); err == nil {
		t.Error("expected error for non-square faces")
	}
}
