// Package picking provides ray casting and entity picking.
package picking

import (
	gomath "math"

	"github.com/chewxy/math32"

	"github.com/Faultbox/lumen/internal/engine/entity"
	"github.com/Faultbox/lumen/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math.Vec3
	Max math.Vec3
}

// Viewer is the camera state needed to unproject screen coordinates.
type Viewer interface {
	ViewMatrix() math.Mat4
	ProjectionMatrix() math.Mat4
}

// ScreenToRay converts screen coordinates to a world-space ray.
// screenX, screenY are pixel coordinates, viewportW/H are viewport dimensions.
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj math.Mat4) Ray {
	// Convert screen coords to normalized device coords (-1 to 1)
	ndcX := 2*screenX/viewportW - 1
	ndcY := 1 - 2*screenY/viewportH // Flip Y

	nearWorld := unproject(invViewProj, math.Vec4{X: ndcX, Y: ndcY, Z: -1, W: 1})
	farWorld := unproject(invViewProj, math.Vec4{X: ndcX, Y: ndcY, Z: 1, W: 1})

	return Ray{Origin: nearWorld, Direction: farWorld.Sub(nearWorld).Normalize()}
}

// CameraRay casts a ray from cam through a pixel of a width x height view.
func CameraRay(cam Viewer, screenX, screenY float32, width, height int) Ray {
	inv := cam.ProjectionMatrix().Mul(cam.ViewMatrix()).Inverse()
	return ScreenToRay(screenX, screenY, float32(width), float32(height), inv)
}

func unproject(inv math.Mat4, ndc math.Vec4) math.Vec3 {
	p := inv.MulVec4(ndc)
	if p.W != 0 {
		return math.Vec3{X: p.X / p.W, Y: p.Y / p.W, Z: p.Z / p.W}
	}
	return p.XYZ()
}

// At returns the point t units along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// IntersectPlaneY intersects a ray with a horizontal plane at the given Y level.
// Returns the intersection point (X, Z) and whether the intersection is valid.
func (r Ray) IntersectPlaneY(planeY float32) (x, z float32, ok bool) {
	if math32.Abs(r.Direction.Y) < 0.001 {
		return 0, 0, false // Ray parallel to plane
	}

	t := (planeY - r.Origin.Y) / r.Direction.Y
	if t < 0 {
		return 0, 0, false // Intersection behind ray origin
	}

	p := r.At(t)
	return p.X, p.Z, true
}

// IntersectAABB tests ray intersection with an axis-aligned bounding box.
// Returns the distance to intersection (t) and whether intersection occurred.
// If the ray starts inside the box, returns the exit distance.
func (r Ray) IntersectAABB(box AABB) (t float32, hit bool) {
	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)

	origin := [3]float32{r.Origin.X, r.Origin.Y, r.Origin.Z}
	dir := [3]float32{r.Direction.X, r.Direction.Y, r.Direction.Z}
	lo := [3]float32{box.Min.X, box.Min.Y, box.Min.Z}
	hi := [3]float32{box.Max.X, box.Max.Y, box.Max.Z}

	for axis := 0; axis < 3; axis++ {
		if dir[axis] == 0 {
			if origin[axis] < lo[axis] || origin[axis] > hi[axis] {
				return 0, false
			}
			continue
		}
		t1 := (lo[axis] - origin[axis]) / dir[axis]
		t2 := (hi[axis] - origin[axis]) / dir[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}

	// Return entry point, or exit point if starting inside
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// NewAABB creates an AABB from two opposite corners in any order.
func NewAABB(a, b math.Vec3) AABB {
	return AABB{
		Min: math.Vec3{X: min(a.X, b.X), Y: min(a.Y, b.Y), Z: min(a.Z, b.Z)},
		Max: math.Vec3{X: max(a.X, b.X), Y: max(a.Y, b.Y), Z: max(a.Z, b.Z)},
	}
}

// Transform returns the world-space box enclosing box after m.
func (box AABB) Transform(m math.Mat4) AABB {
	first := true
	var out AABB
	for i := 0; i < 8; i++ {
		corner := box.Min
		if i&1 != 0 {
			corner.X = box.Max.X
		}
		if i&2 != 0 {
			corner.Y = box.Max.Y
		}
		if i&4 != 0 {
			corner.Z = box.Max.Z
		}
		p := m.TransformPoint(corner)
		if first {
			out = AABB{Min: p, Max: p}
			first = false
			continue
		}
		out = NewAABB(
			math.Vec3{X: min(out.Min.X, p.X), Y: min(out.Min.Y, p.Y), Z: min(out.Min.Z, p.Z)},
			math.Vec3{X: max(out.Max.X, p.X), Y: max(out.Max.Y, p.Y), Z: max(out.Max.Z, p.Z)},
		)
	}
	return out
}

// EntityBounds returns the world-space bounding box of e.
func EntityBounds(e *entity.Entity) AABB {
	lo, hi := e.Mesh().Bounds()
	return NewAABB(lo, hi).Transform(e.Transform().WorldMatrix())
}

// Pick returns the index of the nearest entity whose bounds the ray hits.
func Pick(r Ray, entities []*entity.Entity) (index int, dist float32, ok bool) {
	index = -1
	for i, e := range entities {
		t, hit := r.IntersectAABB(EntityBounds(e))
		if !hit {
			continue
		}
		if !ok || t < dist {
			index, dist, ok = i, t, true
		}
	}
	return index, dist, ok
}
