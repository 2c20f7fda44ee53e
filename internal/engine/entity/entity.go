// Package entity binds a shared mesh and material to an owned transform.
package entity

import (
	"fmt"

	"github.com/Faultbox/lumen/internal/engine/gpu"
	"github.com/Faultbox/lumen/internal/engine/material"
	"github.com/Faultbox/lumen/internal/engine/mesh"
	"github.com/Faultbox/lumen/internal/engine/transform"
	"github.com/Faultbox/lumen/pkg/math"
)

// Viewer is the camera state a lit draw needs.
type Viewer interface {
	Position() math.Vec3
	ViewMatrix() math.Mat4
	ProjectionMatrix() math.Mat4
}

// DrawContext carries everything a lit draw needs besides the entity.
type DrawContext struct {
	Camera  Viewer
	Tint    math.Vec4 // scene-wide tint multiplied into the material tint
	Elapsed float32   // seconds since start, for time-animated shading
	Frame   material.FrameInputs
}

// Entity is one drawable object in the scene.
type Entity struct {
	mesh      *mesh.Mesh
	material  *material.Material
	transform *transform.Transform
}

// New creates an entity with its own identity transform.
func New(m *mesh.Mesh, mat *material.Material) *Entity {
	return &Entity{mesh: m, material: mat, transform: transform.New()}
}

// Mesh returns the shared mesh.
func (e *Entity) Mesh() *mesh.Mesh { return e.mesh }

// Material returns the shared material.
func (e *Entity) Material() *material.Material { return e.material }

// SetMaterial swaps the material reference.
func (e *Entity) SetMaterial(m *material.Material) { e.material = m }

// Transform returns the entity's own transform.
func (e *Entity) Transform() *transform.Transform { return e.transform }

// Draw renders the entity with its material, lit by ctx.Frame.
func (e *Entity) Draw(ctx DrawContext) error {
	b := e.material.Bind(ctx.Camera)

	tint := e.material.Tint().Mul(ctx.Tint)
	switch e.material.Shading().(type) {
	case material.TimeAnimated:
		b.PixelFloat("time", ctx.Elapsed)
	case material.Tinted:
		b.PixelFloat4("colorTint", tint)
	case material.Unlit:
	}

	b.VertexMatrix("world", e.transform.WorldMatrix()).
		VertexMatrix("worldInvTranspose", e.transform.WorldInverseTranspose()).
		VertexMatrix("view", ctx.Camera.ViewMatrix()).
		VertexMatrix("projection", ctx.Camera.ProjectionMatrix()).
		WithFrame(ctx.Frame)

	c, err := b.Commit()
	if err != nil {
		return fmt.Errorf("entity %s: %w", e.mesh.Name(), err)
	}
	return c.Draw(e.mesh)
}

// DrawForLight renders depth only through the shared shadow vertex
// shader, whose light view and projection are already committed. Only the
// world matrix changes per entity.
func (e *Entity) DrawForLight(depthVS gpu.Shader) {
	depthVS.SetMatrix4x4("world", e.transform.WorldMatrix())
	depthVS.CopyAllBufferData()
	e.mesh.Draw()
}
