// Package screenshot writes frames read back from the swap chain to PNG.
package screenshot

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// Capture names and writes screenshot files.
type Capture struct {
	outputDir string
	prefix    string

	// Now returns the timestamp used in filenames.
	Now func() time.Time
}

// New creates a capture writing prefix_<timestamp>.png files to outputDir.
func New(outputDir, prefix string) *Capture {
	return &Capture{outputDir: outputDir, prefix: prefix, Now: time.Now}
}

// FromBottomUp builds an image from tightly packed RGBA rows stored
// bottom row first, as GL reads them back.
func FromBottomUp(pixels []byte, width, height int) (*image.RGBA, error) {
	if len(pixels) != width*height*4 {
		return nil, fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * rowSize
		copy(img.Pix[y*img.Stride:y*img.Stride+rowSize], pixels[src:src+rowSize])
	}
	return img, nil
}

// Filename returns the next free screenshot path. Captures within the
// same second get a numeric suffix.
func (c *Capture) Filename() string {
	base := fmt.Sprintf("%s_%s", c.prefix, c.Now().Format("2006-01-02_15-04-05"))
	name := filepath.Join(c.outputDir, base+".png")
	for n := 2; ; n++ {
		if _, err := os.Stat(name); os.IsNotExist(err) {
			return name
		}
		name = filepath.Join(c.outputDir, fmt.Sprintf("%s_%d.png", base, n))
	}
}

// Save encodes img to the next screenshot path and returns it.
func (c *Capture) Save(img image.Image) (string, error) {
	if c.outputDir != "" {
		if err := os.MkdirAll(c.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := c.Filename()
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	return filename, nil
}

// SaveBottomUp converts GL read-back pixels and saves them.
func (c *Capture) SaveBottomUp(pixels []byte, width, height int) (string, error) {
	img, err := FromBottomUp(pixels, width, height)
	if err != nil {
		return "", err
	}
	return c.Save(img)
}
