package mesh

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/lumen/pkg/math"
)

// Procedural unit-sized shapes centred on the origin. Front faces wind
// counter-clockwise seen from outside. Tangents are left for
// CalculateTangents.

// Cube returns a unit cube with four vertices per face.
func Cube() ModelData {
	faces := []struct{ n, u, v math.Vec3 }{
		{math.Vec3{X: 1}, math.Vec3{Z: -1}, math.Vec3{Y: 1}},
		{math.Vec3{X: -1}, math.Vec3{Z: 1}, math.Vec3{Y: 1}},
		{math.Vec3{Y: 1}, math.Vec3{X: 1}, math.Vec3{Z: -1}},
		{math.Vec3{Y: -1}, math.Vec3{X: 1}, math.Vec3{Z: 1}},
		{math.Vec3{Z: 1}, math.Vec3{X: 1}, math.Vec3{Y: 1}},
		{math.Vec3{Z: -1}, math.Vec3{X: -1}, math.Vec3{Y: 1}},
	}

	data := ModelData{Name: "cube"}
	for _, f := range faces {
		base := uint32(len(data.Vertices))
		corners := []struct {
			su, sv float32
			uv     math.Vec2
		}{
			{-1, -1, math.Vec2{X: 0, Y: 1}},
			{1, -1, math.Vec2{X: 1, Y: 1}},
			{1, 1, math.Vec2{X: 1, Y: 0}},
			{-1, 1, math.Vec2{X: 0, Y: 0}},
		}
		for _, c := range corners {
			p := f.n.Add(f.u.Scale(c.su)).Add(f.v.Scale(c.sv)).Scale(0.5)
			data.Vertices = append(data.Vertices, Vertex{Position: p, UV: c.uv, Normal: f.n})
		}
		data.Indices = append(data.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return data
}

// Plane returns a unit quad in the XZ plane facing +Y.
func Plane() ModelData {
	up := math.Vec3{Y: 1}
	return ModelData{
		Name: "plane",
		Vertices: []Vertex{
			{Position: math.Vec3{X: -0.5, Z: 0.5}, UV: math.Vec2{X: 0, Y: 1}, Normal: up},
			{Position: math.Vec3{X: 0.5, Z: 0.5}, UV: math.Vec2{X: 1, Y: 1}, Normal: up},
			{Position: math.Vec3{X: 0.5, Z: -0.5}, UV: math.Vec2{X: 1, Y: 0}, Normal: up},
			{Position: math.Vec3{X: -0.5, Z: -0.5}, UV: math.Vec2{X: 0, Y: 0}, Normal: up},
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
}

// Sphere returns a UV sphere of radius 0.5.
func Sphere(rings, segments int) ModelData {
	rings = max(rings, 2)
	segments = max(segments, 3)

	data := ModelData{Name: "sphere"}
	for i := 0; i <= rings; i++ {
		theta := float32(i) / float32(rings) * math32.Pi
		st, ct := math32.Sincos(theta)
		for j := 0; j <= segments; j++ {
			phi := float32(j) / float32(segments) * 2 * math32.Pi
			sp, cp := math32.Sincos(phi)
			n := math.Vec3{X: st * cp, Y: ct, Z: st * sp}
			data.Vertices = append(data.Vertices, Vertex{
				Position: n.Scale(0.5),
				UV:       math.Vec2{X: float32(j) / float32(segments), Y: float32(i) / float32(rings)},
				Normal:   n,
			})
		}
	}

	stride := uint32(segments + 1)
	for i := uint32(0); i < uint32(rings); i++ {
		for j := uint32(0); j < uint32(segments); j++ {
			a := i*stride + j
			b := a + stride
			c := b + 1
			d := a + 1
			data.Indices = append(data.Indices, a, c, b, a, d, c)
		}
	}
	return data
}

// Cylinder returns a capped cylinder of radius 0.5 and height 1.
func Cylinder(segments int) ModelData {
	segments = max(segments, 3)
	const r = 0.5

	data := ModelData{Name: "cylinder"}
	for j := 0; j <= segments; j++ {
		u := float32(j) / float32(segments)
		sp, cp := math32.Sincos(u * 2 * math32.Pi)
		n := math.Vec3{X: cp, Z: sp}
		data.Vertices = append(data.Vertices,
			Vertex{Position: math.Vec3{X: cp * r, Y: -0.5, Z: sp * r}, UV: math.Vec2{X: u, Y: 1}, Normal: n},
			Vertex{Position: math.Vec3{X: cp * r, Y: 0.5, Z: sp * r}, UV: math.Vec2{X: u, Y: 0}, Normal: n},
		)
	}
	for j := uint32(0); j < uint32(segments); j++ {
		b0, t0 := 2*j, 2*j+1
		b1, t1 := b0+2, t0+2
		data.Indices = append(data.Indices, b0, t0, t1, b0, t1, b1)
	}

	addCap := func(y float32, flip bool) {
		n := math.Vec3{Y: 1}
		if flip {
			n.Y = -1
		}
		center := uint32(len(data.Vertices))
		data.Vertices = append(data.Vertices, Vertex{Position: math.Vec3{Y: y}, UV: math.Vec2{X: 0.5, Y: 0.5}, Normal: n})
		for j := 0; j <= segments; j++ {
			sp, cp := math32.Sincos(float32(j) / float32(segments) * 2 * math32.Pi)
			data.Vertices = append(data.Vertices, Vertex{
				Position: math.Vec3{X: cp * r, Y: y, Z: sp * r},
				UV:       math.Vec2{X: 0.5 + cp*0.5, Y: 0.5 + sp*0.5},
				Normal:   n,
			})
		}
		for j := uint32(1); j <= uint32(segments); j++ {
			if flip {
				data.Indices = append(data.Indices, center, center+j, center+j+1)
			} else {
				data.Indices = append(data.Indices, center, center+j+1, center+j)
			}
		}
	}
	addCap(0.5, false)
	addCap(-0.5, true)
	return data
}

// Torus returns a ring with the given major and minor radii in the XZ plane.
func Torus(major, minor float32, rings, sides int) ModelData {
	rings = max(rings, 3)
	sides = max(sides, 3)

	data := ModelData{Name: "torus"}
	for i := 0; i <= rings; i++ {
		u := float32(i) / float32(rings)
		sp, cp := math32.Sincos(u * 2 * math32.Pi)
		for j := 0; j <= sides; j++ {
			v := float32(j) / float32(sides)
			st, ct := math32.Sincos(v * 2 * math32.Pi)
			ring := major + minor*ct
			data.Vertices = append(data.Vertices, Vertex{
				Position: math.Vec3{X: ring * cp, Y: minor * st, Z: ring * sp},
				UV:       math.Vec2{X: u, Y: v},
				Normal:   math.Vec3{X: ct * cp, Y: st, Z: ct * sp},
			})
		}
	}

	stride := uint32(sides + 1)
	for i := uint32(0); i < uint32(rings); i++ {
		for j := uint32(0); j < uint32(sides); j++ {
			a := i*stride + j
			b := a + stride
			c := b + 1
			d := a + 1
			data.Indices = append(data.Indices, a, d, c, a, c, b)
		}
	}
	return data
}
