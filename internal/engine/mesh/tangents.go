package mesh

import "github.com/Faultbox/lumen/pkg/math"

// CalculateTangents computes per-vertex tangents pointing along +U.
// Triangle tangents are accumulated per vertex and then made orthogonal
// to the vertex normal. Triangles with degenerate UVs contribute nothing.
func CalculateTangents(vertices []Vertex, indices []uint32) {
	acc := make([]math.Vec3, len(vertices))

	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		if int(i0) >= len(vertices) || int(i1) >= len(vertices) || int(i2) >= len(vertices) {
			continue
		}
		v0, v1, v2 := vertices[i0], vertices[i1], vertices[i2]

		e1 := v1.Position.Sub(v0.Position)
		e2 := v2.Position.Sub(v0.Position)
		du1, dv1 := v1.UV.X-v0.UV.X, v1.UV.Y-v0.UV.Y
		du2, dv2 := v2.UV.X-v0.UV.X, v2.UV.Y-v0.UV.Y

		det := du1*dv2 - du2*dv1
		if det == 0 {
			continue
		}
		f := 1 / det
		t := e1.Scale(dv2).Sub(e2.Scale(dv1)).Scale(f)

		acc[i0] = acc[i0].Add(t)
		acc[i1] = acc[i1].Add(t)
		acc[i2] = acc[i2].Add(t)
	}

	for i := range vertices {
		n := vertices[i].Normal
		t := acc[i]
		// Gram-Schmidt against the normal
		t = t.Sub(n.Scale(n.Dot(t))).Normalize()
		if t == (math.Vec3{}) {
			t = perpendicular(n)
		}
		vertices[i].Tangent = t
	}
}

// perpendicular returns some unit vector orthogonal to n.
func perpendicular(n math.Vec3) math.Vec3 {
	axis := math.Vec3{X: 1}
	if abs(n.X) > 0.9 {
		axis = math.Vec3{Y: 1}
	}
	p := axis.Sub(n.Scale(n.Dot(axis))).Normalize()
	if p == (math.Vec3{}) {
		return math.Vec3{X: 1}
	}
	return p
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
