// Package input defines the polled keyboard and mouse state consumed by
// cameras and the debug overlay.
package input

// Key identifies a key the renderer reacts to.
type Key int

const (
	KeyW Key = iota
	KeyA
	KeyS
	KeyD
	KeySpace
	KeyX
	KeyShift
	KeyEscape
	KeyTab
	KeyLeftBracket
	KeyRightBracket
	KeyP
	KeyF12
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	keyCount
)

// KeyCount is the number of keys in the enumeration.
const KeyCount = int(keyCount)

// State is a snapshot of input for one tick.
type State interface {
	// KeyDown reports whether k is held.
	KeyDown(k Key) bool
	// MouseDelta returns relative mouse motion since the previous tick.
	MouseDelta() (dx, dy int)
	// MouseLeftDown reports whether the left mouse button is held.
	MouseLeftDown() bool
}

// Static is a fixed State, used for headless runs and tests.
type Static struct {
	Keys     [KeyCount]bool
	DX, DY   int
	LeftDown bool
}

// Press returns a copy of s with the given keys held.
func (s Static) Press(keys ...Key) Static {
	for _, k := range keys {
		s.Keys[k] = true
	}
	return s
}

// KeyDown implements State.
func (s Static) KeyDown(k Key) bool {
	if k < 0 || int(k) >= KeyCount {
		return false
	}
	return s.Keys[k]
}

// MouseDelta implements State.
func (s Static) MouseDelta() (int, int) { return s.DX, s.DY }

// MouseLeftDown implements State.
func (s Static) MouseLeftDown() bool { return s.LeftDown }

// Edge tracks key transitions across ticks so a held key triggers once.
type Edge struct {
	prev [KeyCount]bool
}

// Pressed returns the keys that went down since the previous call.
func (e *Edge) Pressed(s State) []Key {
	var pressed []Key
	for k := 0; k < KeyCount; k++ {
		down := s.KeyDown(Key(k))
		if down && !e.prev[k] {
			pressed = append(pressed, Key(k))
		}
		e.prev[k] = down
	}
	return pressed
}
