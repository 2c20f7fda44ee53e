package assets

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, path string, w, h int, c color.RGBA) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestLoadSearchesLastRootFirst(t *testing.T) {
	low, high := t.TempDir(), t.TempDir()
	os.WriteFile(filepath.Join(low, "a.txt"), []byte("low"), 0644)
	os.WriteFile(filepath.Join(high, "a.txt"), []byte("high"), 0644)
	os.WriteFile(filepath.Join(low, "b.txt"), []byte("only-low"), 0644)

	m := NewManager(low, high)

	data, err := m.Load("a.txt")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(data) != "high" {
		t.Errorf("expected 'high', got %q", data)
	}

	data, err = m.Load("b.txt")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(data) != "only-low" {
		t.Errorf("expected 'only-low', got %q", data)
	}
}

func TestLoadCaches(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "c.txt")
	os.WriteFile(path, []byte("one"), 0644)

	m := NewManager(dir)
	if _, err := m.Load("c.txt"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	os.WriteFile(path, []byte("two"), 0644)

	data, _ := m.Load("c.txt")
	if string(data) != "one" {
		t.Errorf("expected cached 'one', got %q", data)
	}
	hits, misses := m.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("expected 1 hit and 1 miss, got %d/%d", hits, misses)
	}
}

func TestLoadMissing(t *testing.T) {
	m := NewManager(t.TempDir())
	_, err := m.Load("nope.png")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadAbsolute(t *testing.T) {
	path := filepath.Join(t.TempDir(), "abs.txt")
	os.WriteFile(path, []byte("abs"), 0644)

	m := NewManager()
	data, err := m.Load(path)
	if err != nil || string(data) != "abs" {
		t.Errorf("expected 'abs', got %q (%v)", data, err)
	}
}

func TestImage(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "tex", "red.png"), 4, 2, color.RGBA{R: 255, A: 255})

	m := NewManager(dir)
	img, err := m.Image("tex/red.png")
	if err != nil {
		t.Fatalf("Image: %v", err)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 2 {
		t.Errorf("unexpected bounds %v", img.Bounds())
	}
	if got := img.RGBAAt(1, 1); got.R != 255 || got.G != 0 {
		t.Errorf("unexpected pixel %v", got)
	}
}

func TestCube(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := 0; i < 6; i++ {
		name := filepath.Join("sky", string(rune('a'+i))+".png")
		size := 8
		if i == 3 {
			size = 4
		}
		writePNG(t, filepath.Join(dir, name), size, size, color.RGBA{B: 255, A: 255})
		paths = append(paths, name)
	}

	m := NewManager(dir)
	faces, err := m.Cube(paths)
	if err != nil {
		t.Fatalf("Cube: %v", err)
	}
	for i, f := range faces {
		if f.Bounds().Dx() != 8 || f.Bounds().Dy() != 8 {
			t.Errorf("face %d: expected 8x8, got %v", i, f.Bounds())
		}
	}

	if _, err := m.Cube(paths[:5]); err == nil {
		t.Error("expected error for five faces")
	}
}

func TestClose(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "x.txt"), []byte("x"), 0644)

	m := NewManager(dir)
	m.Load("x.txt")
	m.Close()

	if _, err := m.Load("x.txt"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after Close, got %v", err)
	}
}
