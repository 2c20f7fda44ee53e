package screenshot

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func fixedCapture(dir string) *Capture {
	c := New(dir, "shot")
	c.Now = func() time.Time { return time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC) }
	return c
}

func TestFromBottomUpFlipsRows(t *testing.T) {
	// Two rows: bottom red, top blue.
	pixels := []byte{
		255, 0, 0, 255,
		0, 0, 255, 255,
	}
	img, err := FromBottomUp(pixels, 1, 2)
	if err != nil {
		t.Fatalf("FromBottomUp: %v", err)
	}
	if c := img.RGBAAt(0, 0); c.B != 255 || c.R != 0 {
		t.Errorf("top row = %v, want blue", c)
	}
	if c := img.RGBAAt(0, 1); c.R != 255 || c.B != 0 {
		t.Errorf("bottom row = %v, want red", c)
	}
}

func TestFromBottomUpSizeMismatch(t *testing.T) {
	if _, err := FromBottomUp(make([]byte, 7), 1, 2); err == nil {
		t.Error("expected error for short pixel data")
	}
}

func TestSaveWritesUniquePNGs(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	c := fixedCapture(dir)
	pixels := make([]byte, 4*4*4)

	first, err := c.SaveBottomUp(pixels, 4, 4)
	if err != nil {
		t.Fatalf("SaveBottomUp: %v", err)
	}
	if want := filepath.Join(dir, "shot_2024-05-06_07-08-09.png"); first != want {
		t.Errorf("filename = %s, want %s", first, want)
	}
	second, err := c.SaveBottomUp(pixels, 4, 4)
	if err != nil {
		t.Fatalf("SaveBottomUp: %v", err)
	}
	if second == first {
		t.Error("second capture overwrote the first")
	}

	f, err := os.Open(first)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 4 {
		t.Errorf("bounds = %v", img.Bounds())
	}
}
