// Package mesh holds indexed triangle geometry and its GPU buffers.
package mesh

import "github.com/Faultbox/lumen/pkg/math"

// Vertex matches gpu.VertexStride: position, uv, normal, tangent.
type Vertex struct {
	Position math.Vec3
	UV       math.Vec2
	Normal   math.Vec3
	Tangent  math.Vec3
}

// ModelData is CPU-side geometry as produced by a loader or generator.
type ModelData struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
}

// ModelLoader parses a model file into geometry.
type ModelLoader interface {
	Load(path string) (ModelData, error)
}
