// Package lighting provides the scene light records and their GPU encoding.
package lighting

import (
	"encoding/binary"

	"github.com/Faultbox/lumen/pkg/math"
)

// Type is the light kind as stored in the GPU record.
type Type int32

const (
	Directional Type = iota
	Point
	Spot
)

func (t Type) String() string {
	switch t {
	case Directional:
		return "directional"
	case Point:
		return "point"
	case Spot:
		return "spot"
	}
	return "unknown"
}

// Light is one light source. Every slot is present for every type;
// slots a type does not use are ignored by the shader.
type Light struct {
	Type      Type
	Direction math.Vec3 // directional, spot
	Range     float32   // point, spot
	Position  math.Vec3 // point, spot
	Intensity float32
	Color     math.Vec3
	SpotInner float32 // radians
	SpotOuter float32 // radians
}

// RecordSize is the byte size of one encoded light.
const RecordSize = 64

// record is the GPU layout: four 16-byte rows.
type record struct {
	Type      int32
	Direction math.Vec3
	Range     float32
	Position  math.Vec3
	Intensity float32
	Color     math.Vec3
	SpotInner float32
	SpotOuter float32
	Padding   [2]float32
}

// NewDirectional returns a directional light travelling along dir.
func NewDirectional(dir math.Vec3, color math.Vec3, intensity float32) Light {
	return Light{Type: Directional, Direction: dir.Normalize(), Color: color, Intensity: intensity}
}

// NewPoint returns a point light at pos.
func NewPoint(pos math.Vec3, rng float32, color math.Vec3, intensity float32) Light {
	return Light{Type: Point, Position: pos, Range: rng, Color: color, Intensity: intensity}
}

// NewSpot returns a spot light at pos aimed along dir.
func NewSpot(pos, dir math.Vec3, rng, inner, outer float32, color math.Vec3, intensity float32) Light {
	return Light{
		Type:      Spot,
		Position:  pos,
		Direction: dir.Normalize(),
		Range:     rng,
		SpotInner: inner,
		SpotOuter: outer,
		Color:     color,
		Intensity: intensity,
	}
}

// Encode packs lights into consecutive little-endian 64-byte records.
func Encode(lights []Light) []byte {
	recs := make([]record, len(lights))
	for i, l := range lights {
		recs[i] = record{
			Type:      int32(l.Type),
			Direction: l.Direction,
			Range:     l.Range,
			Position:  l.Position,
			Intensity: l.Intensity,
			Color:     l.Color,
			SpotInner: l.SpotInner,
			SpotOuter: l.SpotOuter,
		}
	}
	// record is fixed-size, so Append cannot fail.
	out, _ := binary.Append(make([]byte, 0, len(recs)*RecordSize), binary.LittleEndian, recs)
	return out
}
