// Package scene holds everything one frame draws: entities, the meshes
// and materials they share, cameras, lights, the sky and the scene-wide
// colours.
package scene

import (
	"errors"
	"fmt"

	"github.com/Faultbox/lumen/internal/engine/camera"
	"github.com/Faultbox/lumen/internal/engine/entity"
	"github.com/Faultbox/lumen/internal/engine/lighting"
	"github.com/Faultbox/lumen/internal/engine/material"
	"github.com/Faultbox/lumen/internal/engine/mesh"
	"github.com/Faultbox/lumen/internal/engine/sky"
	"github.com/Faultbox/lumen/pkg/math"
)

// Index errors returned by the bounds-checked accessors.
var (
	ErrCameraIndex   = errors.New("scene: camera index out of range")
	ErrEntityIndex   = errors.New("scene: entity index out of range")
	ErrMaterialIndex = errors.New("scene: material index out of range")
)

// DefaultBackground is the clear colour of the demo scene.
var DefaultBackground = math.Vec4{X: 0.058, Y: 0.058, Z: 0.196, W: 1}

// AmbientFactor scales the background colour into the default ambient term.
const AmbientFactor = 0.2

// Scene is a flat collection; entities reference shared meshes and
// materials by pointer.
type Scene struct {
	entities  []*entity.Entity
	static    map[int]bool
	meshes    []*mesh.Mesh
	materials []*material.Material
	cameras   []*camera.Camera
	active    int

	Lights *lighting.List
	Sky    *sky.Sky

	Background math.Vec4
	Ambient    math.Vec3
	Tint       math.Vec4
}

// New creates an empty scene lit by lights.
func New(lights *lighting.List) *Scene {
	if lights == nil {
		lights = lighting.NewList()
	}
	s := &Scene{
		static:     make(map[int]bool),
		Lights:     lights,
		Background: DefaultBackground,
		Tint:       math.Vec4{X: 1, Y: 1, Z: 1, W: 1},
	}
	s.Ambient = s.Background.XYZ().Scale(AmbientFactor)
	return s
}

// AddMesh registers a shared mesh and returns its index.
func (s *Scene) AddMesh(m *mesh.Mesh) int {
	s.meshes = append(s.meshes, m)
	return len(s.meshes) - 1
}

// AddMaterial registers a shared material and returns its index.
func (s *Scene) AddMaterial(m *material.Material) int {
	s.materials = append(s.materials, m)
	return len(s.materials) - 1
}

// AddEntity appends an entity and returns its index.
func (s *Scene) AddEntity(e *entity.Entity) int {
	s.entities = append(s.entities, e)
	return len(s.entities) - 1
}

// AddStatic appends an entity the animator leaves alone, such as the floor.
func (s *Scene) AddStatic(e *entity.Entity) int {
	i := s.AddEntity(e)
	s.static[i] = true
	return i
}

// AddCamera appends a camera and returns its index.
func (s *Scene) AddCamera(c *camera.Camera) int {
	s.cameras = append(s.cameras, c)
	return len(s.cameras) - 1
}

// Entities returns the entities in draw order.
func (s *Scene) Entities() []*entity.Entity { return s.entities }

// Meshes returns the registered meshes.
func (s *Scene) Meshes() []*mesh.Mesh { return s.meshes }

// Materials returns the registered materials.
func (s *Scene) Materials() []*material.Material { return s.materials }

// Cameras returns the registered cameras.
func (s *Scene) Cameras() []*camera.Camera { return s.cameras }

// IsStatic reports whether entity i is excluded from animation.
func (s *Scene) IsStatic(i int) bool { return s.static[i] }

// Entity returns entity i.
func (s *Scene) Entity(i int) (*entity.Entity, error) {
	if i < 0 || i >= len(s.entities) {
		return nil, fmt.Errorf("%w: %d of %d", ErrEntityIndex, i, len(s.entities))
	}
	return s.entities[i], nil
}

// Material returns material i.
func (s *Scene) Material(i int) (*material.Material, error) {
	if i < 0 || i >= len(s.materials) {
		return nil, fmt.Errorf("%w: %d of %d", ErrMaterialIndex, i, len(s.materials))
	}
	return s.materials[i], nil
}

// ActiveCameraIndex returns the index of the active camera. It is out of
// range when the scene has no cameras.
func (s *Scene) ActiveCameraIndex() int { return s.active }

// ActiveCamera returns the camera the lit and sky passes render from.
func (s *Scene) ActiveCamera() (*camera.Camera, error) {
	if s.active < 0 || s.active >= len(s.cameras) {
		return nil, fmt.Errorf("%w: %d of %d", ErrCameraIndex, s.active, len(s.cameras))
	}
	return s.cameras[s.active], nil
}

// SetActiveCamera selects camera i.
func (s *Scene) SetActiveCamera(i int) error {
	if i < 0 || i >= len(s.cameras) {
		return fmt.Errorf("%w: %d of %d", ErrCameraIndex, i, len(s.cameras))
	}
	s.active = i
	return nil
}

// NextCamera activates the following camera, wrapping around.
func (s *Scene) NextCamera() {
	if n := len(s.cameras); n > 0 {
		s.active = (s.active + 1) % n
	}
}

// PrevCamera activates the preceding camera, wrapping around.
func (s *Scene) PrevCamera() {
	if n := len(s.cameras); n > 0 {
		s.active = (s.active - 1 + n) % n
	}
}

// Resize recomputes every camera projection for a new aspect ratio.
func (s *Scene) Resize(aspect float32) {
	for _, c := range s.cameras {
		c.UpdateProjectionMatrix(aspect)
	}
}

// Stats summarises the scene for diagnostics.
type Stats struct {
	Entities  int
	Meshes    int
	Materials int
	Lights    int
	Triangles int
}

// Stats counts scene contents. Triangles sums every entity's mesh.
func (s *Scene) Stats() Stats {
	st := Stats{
		Entities:  len(s.entities),
		Meshes:    len(s.meshes),
		Materials: len(s.materials),
		Lights:    s.Lights.Len(),
	}
	for _, e := range s.entities {
		st.Triangles += e.Mesh().TriangleCount()
	}
	return st
}
