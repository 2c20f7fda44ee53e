package material

import "fmt"

// Shading selects the surface parameters a material pushes per draw.
// The set is closed: Unlit, Tinted and TimeAnimated.
type Shading interface {
	fmt.Stringer
	shading()
}

// Unlit pushes no extra parameters.
type Unlit struct{}

// Tinted pushes the combined colour tint as "colorTint".
type Tinted struct{}

// TimeAnimated pushes elapsed seconds as "time".
type TimeAnimated struct{}

func (Unlit) shading()        {}
func (Tinted) shading()       {}
func (TimeAnimated) shading() {}

func (Unlit) String() string        { return "unlit" }
func (Tinted) String() string       { return "tinted" }
func (TimeAnimated) String() string { return "time-animated" }

// ShadingFromIndex maps the numeric selector used by config files and
// the debug overlay (0 unlit, 1 tinted, 2 time-animated).
func ShadingFromIndex(i int) (Shading, error) {
	switch i {
	case 0:
		return Unlit{}, nil
	case 1:
		return Tinted{}, nil
	case 2:
		return TimeAnimated{}, nil
	}
	return nil, fmt.Errorf("shading index %d out of range [0, 2]", i)
}

// ShadingIndex is the inverse of ShadingFromIndex.
func ShadingIndex(s Shading) int {
	switch s.(type) {
	case Tinted:
		return 1
	case TimeAnimated:
		return 2
	}
	return 0
}
