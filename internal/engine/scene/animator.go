package scene

import "github.com/chewxy/math32"

// Animator spins every non-static entity. Entity i at time t gets
// rotation (sin(t+i), cos(t+i), sin(t+i)·cos(t+i)).
type Animator struct {
	Enabled bool
}

// Update applies the rotation for totalTime seconds since start.
func (a *Animator) Update(s *Scene, totalTime float32) {
	if !a.Enabled {
		return
	}
	for i, e := range s.entities {
		if s.static[i] {
			continue
		}
		sin, cos := math32.Sincos(totalTime + float32(i))
		e.Transform().SetRotation(sin, cos, sin*cos)
	}
}
