// Package material pairs a vertex and pixel shader with surface
// parameters and binds them for one draw at a time.
package material

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Faultbox/lumen/internal/engine/gpu"
	"github.com/Faultbox/lumen/pkg/math"
)

// ErrNoShaders is returned when a material is created without both stages.
var ErrNoShaders = errors.New("material: vertex and pixel shaders are required")

// Params are the surface parameters of a material.
type Params struct {
	Tint      math.Vec4
	Roughness float32
	UVScale   math.Vec2
	UVOffset  math.Vec2
	Shading   Shading
}

// DefaultParams returns white, fully rough, tinted, untiled parameters.
func DefaultParams() Params {
	return Params{
		Tint:      math.Vec4{X: 1, Y: 1, Z: 1, W: 1},
		Roughness: 1,
		UVScale:   math.Vec2{X: 1, Y: 1},
		Shading:   Tinted{},
	}
}

// Material is shared by reference; changes are seen by every entity
// that draws with it.
type Material struct {
	name   string
	params Params
	vs, ps gpu.Shader

	textures map[string]gpu.ShaderResourceID
	samplers map[string]gpu.SamplerID
}

// New creates a material over a shader pair.
func New(name string, vs, ps gpu.Shader, p Params) (*Material, error) {
	if vs == nil || ps == nil {
		return nil, fmt.Errorf("material %q: %w", name, ErrNoShaders)
	}
	if p.Shading == nil {
		p.Shading = Tinted{}
	}
	return &Material{
		name:     name,
		params:   p,
		vs:       vs,
		ps:       ps,
		textures: make(map[string]gpu.ShaderResourceID),
		samplers: make(map[string]gpu.SamplerID),
	}, nil
}

// Name returns the material name.
func (m *Material) Name() string { return m.name }

// Tint returns the colour tint.
func (m *Material) Tint() math.Vec4 { return m.params.Tint }

// SetTint replaces the colour tint.
func (m *Material) SetTint(c math.Vec4) { m.params.Tint = c }

// Roughness returns the surface roughness.
func (m *Material) Roughness() float32 { return m.params.Roughness }

// SetRoughness replaces the surface roughness.
func (m *Material) SetRoughness(r float32) { m.params.Roughness = r }

// UVScale returns the texture coordinate scale.
func (m *Material) UVScale() math.Vec2 { return m.params.UVScale }

// SetUVScale replaces the texture coordinate scale.
func (m *Material) SetUVScale(s math.Vec2) { m.params.UVScale = s }

// UVOffset returns the texture coordinate offset.
func (m *Material) UVOffset() math.Vec2 { return m.params.UVOffset }

// SetUVOffset replaces the texture coordinate offset.
func (m *Material) SetUVOffset(o math.Vec2) { m.params.UVOffset = o }

// Shading returns the shading variant.
func (m *Material) Shading() Shading { return m.params.Shading }

// SetShading replaces the shading variant. A nil variant is ignored.
func (m *Material) SetShading(s Shading) {
	if s != nil {
		m.params.Shading = s
	}
}

// VertexShader returns the vertex stage.
func (m *Material) VertexShader() gpu.Shader { return m.vs }

// PixelShader returns the pixel stage.
func (m *Material) PixelShader() gpu.Shader { return m.ps }

// AddTexture registers a texture under the pixel-shader slot name.
func (m *Material) AddTexture(name string, srv gpu.ShaderResourceID) {
	m.textures[name] = srv
}

// AddSampler registers a sampler under the pixel-shader slot name.
func (m *Material) AddSampler(name string, s gpu.SamplerID) {
	m.samplers[name] = s
}

// Textures returns the registered texture slot names in sorted order.
func (m *Material) Textures() []string {
	return sortedKeys(m.textures)
}

// Viewer is the camera information a material needs.
type Viewer interface {
	Position() math.Vec3
}

// Bind starts a binding session for one draw. The session is pre-filled
// with the material's textures, samplers, UV transform, roughness and the
// viewer position; callers add per-draw parameters and then Commit.
func (m *Material) Bind(v Viewer) *Binding {
	b := &Binding{mat: m}

	for _, name := range sortedKeys(m.textures) {
		srv := m.textures[name]
		b.ps = append(b.ps, func(s gpu.Shader) { s.SetShaderResource(name, srv) })
	}
	for _, name := range sortedKeys(m.samplers) {
		smp := m.samplers[name]
		b.ps = append(b.ps, func(s gpu.Shader) { s.SetSampler(name, smp) })
	}

	b.PixelFloat2("uvScale", m.params.UVScale).
		PixelFloat2("uvOffset", m.params.UVOffset).
		PixelFloat3("cameraPosition", v.Position()).
		PixelFloat("roughness", m.params.Roughness)
	return b
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
