package mesh

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/Faultbox/lumen/internal/engine/gpu"
	"github.com/Faultbox/lumen/pkg/math"
)

// ErrEmpty is returned when geometry has no vertices or indices.
var ErrEmpty = errors.New("mesh: no geometry")

// Mesh is immutable GPU geometry. It is shared by any number of entities.
type Mesh struct {
	name         string
	dev          gpu.Device
	vertexBuffer gpu.BufferID
	indexBuffer  gpu.BufferID
	vertexCount  int
	indexCount   int
	lo, hi       math.Vec3
}

// New uploads vertices and indices into write-once buffers.
func New(dev gpu.Device, name string, vertices []Vertex, indices []uint32) (*Mesh, error) {
	if len(vertices) == 0 || len(indices) == 0 {
		return nil, fmt.Errorf("mesh %q: %w", name, ErrEmpty)
	}
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("mesh %q: index count %d is not a multiple of 3", name, len(indices))
	}
	for i, idx := range indices {
		if int(idx) >= len(vertices) {
			return nil, fmt.Errorf("mesh %q: index %d at %d exceeds %d vertices", name, idx, i, len(vertices))
		}
	}

	vdata, err := binary.Append(nil, binary.LittleEndian, vertices)
	if err != nil {
		return nil, fmt.Errorf("mesh %q: encoding vertices: %w", name, err)
	}
	vb, err := dev.CreateBuffer(gpu.BufferDesc{Kind: gpu.VertexBuffer, Size: len(vdata), Immutable: true}, vdata)
	if err != nil {
		return nil, fmt.Errorf("mesh %q: vertex buffer: %w", name, err)
	}

	idata, err := binary.Append(nil, binary.LittleEndian, indices)
	if err != nil {
		return nil, fmt.Errorf("mesh %q: encoding indices: %w", name, err)
	}
	ib, err := dev.CreateBuffer(gpu.BufferDesc{Kind: gpu.IndexBuffer, Size: len(idata), Immutable: true}, idata)
	if err != nil {
		return nil, fmt.Errorf("mesh %q: index buffer: %w", name, err)
	}

	lo, hi := vertices[0].Position, vertices[0].Position
	for _, v := range vertices[1:] {
		lo = math.Vec3{X: min(lo.X, v.Position.X), Y: min(lo.Y, v.Position.Y), Z: min(lo.Z, v.Position.Z)}
		hi = math.Vec3{X: max(hi.X, v.Position.X), Y: max(hi.Y, v.Position.Y), Z: max(hi.Z, v.Position.Z)}
	}

	return &Mesh{
		name:         name,
		dev:          dev,
		vertexBuffer: vb,
		indexBuffer:  ib,
		vertexCount:  len(vertices),
		indexCount:   len(indices),
		lo:           lo,
		hi:           hi,
	}, nil
}

// FromModel derives tangents for the loaded geometry and uploads it.
func FromModel(dev gpu.Device, data ModelData) (*Mesh, error) {
	vertices := append([]Vertex(nil), data.Vertices...)
	CalculateTangents(vertices, data.Indices)
	return New(dev, data.Name, vertices, data.Indices)
}

// Load reads a model file through loader and uploads it.
func Load(dev gpu.Device, loader ModelLoader, path string) (*Mesh, error) {
	data, err := loader.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading model %s: %w", path, err)
	}
	if data.Name == "" {
		data.Name = path
	}
	return FromModel(dev, data)
}

// Draw binds the buffers and draws every index.
func (m *Mesh) Draw() {
	m.dev.SetVertexBuffer(m.vertexBuffer, gpu.VertexStride)
	m.dev.SetIndexBuffer(m.indexBuffer)
	m.dev.DrawIndexed(m.indexCount, 0, 0)
}

// Name returns the mesh name.
func (m *Mesh) Name() string { return m.name }

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return m.vertexCount }

// IndexCount returns the number of indices.
func (m *Mesh) IndexCount() int { return m.indexCount }

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int { return m.indexCount / 3 }

// Bounds returns the local-space bounding box corners.
func (m *Mesh) Bounds() (lo, hi math.Vec3) { return m.lo, m.hi }
