package lighting

import (
	"encoding/binary"
	"errors"
	gomath "math"
	"testing"

	"github.com/Faultbox/lumen/pkg/math"
)

func f32(b []byte, off int) float32 {
	return gomath.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
}

func TestEncodeLayout(t *testing.T) {
	spot := NewSpot(math.Vec3{X: 1, Y: 2, Z: 3}, math.Vec3{Y: -1}, 10, 0.1, 0.4, math.Vec3{X: 0.5, Y: 0.6, Z: 0.7}, 2)
	point := NewPoint(math.Vec3{X: -4}, 7, math.Vec3{X: 1}, 1)

	b := Encode([]Light{point, spot})
	if len(b) != 2*RecordSize {
		t.Fatalf("encoded %d bytes, want %d", len(b), 2*RecordSize)
	}

	// First record
	if got := int32(binary.LittleEndian.Uint32(b[0:])); got != int32(Point) {
		t.Errorf("type = %d, want %d", got, Point)
	}
	if f32(b, 16) != 7 || f32(b, 20) != -4 {
		t.Errorf("range/position.x = %v/%v", f32(b, 16), f32(b, 20))
	}

	// Second record starts at 64
	r := b[RecordSize:]
	tests := []struct {
		name string
		off  int
		want float32
	}{
		{"direction.y", 8, -1},
		{"range", 16, 10},
		{"position.x", 20, 1},
		{"position.z", 28, 3},
		{"intensity", 32, 2},
		{"color.r", 36, 0.5},
		{"color.b", 44, 0.7},
		{"spotInner", 48, 0.1},
		{"spotOuter", 52, 0.4},
		{"padding", 56, 0},
		{"padding", 60, 0},
	}
	for _, tt := range tests {
		if got := f32(r, tt.off); got != tt.want {
			t.Errorf("%s @%d = %v, want %v", tt.name, tt.off, got, tt.want)
		}
	}
	if got := int32(binary.LittleEndian.Uint32(r[0:])); got != int32(Spot) {
		t.Errorf("type = %d, want %d", got, Spot)
	}
}

func TestDirectionalNormalizes(t *testing.T) {
	l := NewDirectional(math.Vec3{X: 3, Y: -4}, math.Vec3{X: 1, Y: 1, Z: 1}, 1)
	if l.Direction != (math.Vec3{X: 0.6, Y: -0.8}) {
		t.Errorf("Direction = %v", l.Direction)
	}
}

func TestListBoundsChecked(t *testing.T) {
	list := NewList(NewPoint(math.Vec3{}, 1, math.Vec3{}, 1))

	if _, err := list.At(0); err != nil {
		t.Errorf("At(0): %v", err)
	}
	for _, i := range []int{-1, 1, 100} {
		if _, err := list.At(i); !errors.Is(err, ErrLightIndex) {
			t.Errorf("At(%d) err = %v, want ErrLightIndex", i, err)
		}
		if err := list.SetColor(i, math.Vec3{}); !errors.Is(err, ErrLightIndex) {
			t.Errorf("SetColor(%d) err = %v, want ErrLightIndex", i, err)
		}
	}
}

func TestListTruncates(t *testing.T) {
	lights := make([]Light, MaxLights+5)
	if got := NewList(lights...).Len(); got != MaxLights {
		t.Errorf("Len() = %d, want %d", got, MaxLights)
	}
}

func TestListDirectionalOrder(t *testing.T) {
	list := NewList(
		NewPoint(math.Vec3{}, 1, math.Vec3{}, 1),
		NewDirectional(math.Vec3{Y: -1}, math.Vec3{}, 1),
		NewSpot(math.Vec3{}, math.Vec3{Y: -1}, 1, 0, 1, math.Vec3{}, 1),
		NewDirectional(math.Vec3{X: 1}, math.Vec3{}, 1),
	)
	got := list.Directional()
	if len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Errorf("Directional() = %v, want [1 3]", got)
	}
}

func TestBytesReencodesAfterChange(t *testing.T) {
	list := NewList(NewPoint(math.Vec3{}, 1, math.Vec3{X: 1}, 1))
	before := append([]byte(nil), list.Bytes()...)

	if err := list.SetColor(0, math.Vec3{Z: 1}); err != nil {
		t.Fatal(err)
	}
	after := list.Bytes()
	if f32(after, 36) != 0 || f32(after, 44) != 1 {
		t.Errorf("colour not re-encoded: %v", after[36:48])
	}
	if f32(before, 36) != 1 {
		t.Errorf("original bytes wrong: %v", before[36:48])
	}
}
