package lighting

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/lumen/internal/logger"
	"github.com/Faultbox/lumen/pkg/math"
)

// MaxLights is the maximum number of lights supported in shaders.
const MaxLights = 32

// ErrLightIndex is returned for an index outside the list.
var ErrLightIndex = errors.New("lighting: light index out of range")

// List is the ordered scene light list. Its length is fixed at
// construction; light values may change between frames.
type List struct {
	lights []Light
	dirty  bool
	cache  []byte
}

// NewList copies lights into a list, truncating to MaxLights.
func NewList(lights ...Light) *List {
	n := len(lights)
	if n > MaxLights {
		logger.Named("lighting").Warn("too many lights, truncating",
			zap.Int("count", n), zap.Int("max", MaxLights))
		n = MaxLights
	}
	return &List{lights: append([]Light(nil), lights[:n]...), dirty: true}
}

// Len returns the number of lights.
func (l *List) Len() int { return len(l.lights) }

// At returns the light at i.
func (l *List) At(i int) (Light, error) {
	if i < 0 || i >= len(l.lights) {
		return Light{}, fmt.Errorf("%w: %d of %d", ErrLightIndex, i, len(l.lights))
	}
	return l.lights[i], nil
}

// Set replaces the light at i.
func (l *List) Set(i int, light Light) error {
	if i < 0 || i >= len(l.lights) {
		return fmt.Errorf("%w: %d of %d", ErrLightIndex, i, len(l.lights))
	}
	l.lights[i] = light
	l.dirty = true
	return nil
}

// SetColor replaces the colour of the light at i.
func (l *List) SetColor(i int, c math.Vec3) error {
	light, err := l.At(i)
	if err != nil {
		return err
	}
	light.Color = c
	return l.Set(i, light)
}

// All returns a copy of the lights in order.
func (l *List) All() []Light {
	return append([]Light(nil), l.lights...)
}

// Directional returns the indices of directional lights in list order.
func (l *List) Directional() []int {
	var idx []int
	for i, light := range l.lights {
		if light.Type == Directional {
			idx = append(idx, i)
		}
	}
	return idx
}

// Bytes returns the encoded light array, re-encoding only after a change.
func (l *List) Bytes() []byte {
	if l.dirty {
		l.cache = Encode(l.lights)
		l.dirty = false
	}
	return l.cache
}
