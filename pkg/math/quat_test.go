package math

import (
	"math"
	"testing"
)

func TestQuatIdentity(t *testing.T) {
	q := QuatIdentity()
	if q.X != 0 || q.Y != 0 || q.Z != 0 || q.W != 1 {
		t.Errorf("Identity quaternion should be (0,0,0,1), got (%v,%v,%v,%v)", q.X, q.Y, q.Z, q.W)
	}
}

func TestQuatNormalize(t *testing.T) {
	n := Quat{X: 1, Y: 2, Z: 3, W: 4}.Normalize()

	length := float32(math.Sqrt(float64(n.X*n.X + n.Y*n.Y + n.Z*n.Z + n.W*n.W)))
	if math.Abs(float64(length-1.0)) > 0.0001 {
		t.Errorf("Normalized quaternion length should be 1, got %v", length)
	}
}

func TestQuatFromAxisAngle(t *testing.T) {
	q := QuatFromAxisAngle(Vec3{Y: 1}, float32(math.Pi/2))

	expectedW := float32(math.Cos(math.Pi / 4))
	expectedY := float32(math.Sin(math.Pi / 4))
	if math.Abs(float64(q.W-expectedW)) > 0.001 {
		t.Errorf("QuatFromAxisAngle W: expected %v, got %v", expectedW, q.W)
	}
	if math.Abs(float64(q.Y-expectedY)) > 0.001 {
		t.Errorf("QuatFromAxisAngle Y: expected %v, got %v", expectedY, q.Y)
	}
}

func TestQuatRotateIdentityIsExact(t *testing.T) {
	v := Vec3{0.1, -7.3, 1e-3}
	if got := QuatFromPitchYawRoll(0, 0, 0).Rotate(v); got != v {
		t.Errorf("identity Rotate = %v, want %v", got, v)
	}
}

func TestQuatMatchesRotationMatrix(t *testing.T) {
	tests := []struct {
		name             string
		pitch, yaw, roll float32
	}{
		{"yaw", 0, 1.2, 0},
		{"pitch", 0.7, 0, 0},
		{"roll", 0, 0, -0.4},
		{"combined", 0.3, -1.1, 0.9},
	}
	v := Vec3{1, 2, 3}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := QuatFromPitchYawRoll(tt.pitch, tt.yaw, tt.roll)
			m := RotatePitchYawRoll(tt.pitch, tt.yaw, tt.roll)

			if got, want := q.Rotate(v), m.TransformDirection(v); !vecNear(got, want, 1e-5) {
				t.Errorf("Rotate = %v, matrix = %v", got, want)
			}
			qm := q.ToMat4()
			for i := range qm {
				if abs(qm[i]-m[i]) > 1e-5 {
					t.Fatalf("ToMat4 element %d = %v, matrix %v", i, qm[i], m[i])
				}
			}
		})
	}
}

func TestQuatConjugateUndoesRotation(t *testing.T) {
	q := QuatFromPitchYawRoll(0.5, 0.25, -0.75)
	v := Vec3{4, -1, 2}
	if got := q.Conjugate().Rotate(q.Rotate(v)); !vecNear(got, v, 1e-5) {
		t.Errorf("conjugate round-trip = %v, want %v", got, v)
	}
}
