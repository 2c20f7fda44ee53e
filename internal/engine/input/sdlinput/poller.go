// Package sdlinput implements input.State on top of SDL2 keyboard and
// mouse polling.
package sdlinput

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/lumen/internal/engine/input"
)

var scancodes = [input.KeyCount]sdl.Scancode{
	input.KeyW:            sdl.SCANCODE_W,
	input.KeyA:            sdl.SCANCODE_A,
	input.KeyS:            sdl.SCANCODE_S,
	input.KeyD:            sdl.SCANCODE_D,
	input.KeySpace:        sdl.SCANCODE_SPACE,
	input.KeyX:            sdl.SCANCODE_X,
	input.KeyShift:        sdl.SCANCODE_LSHIFT,
	input.KeyEscape:       sdl.SCANCODE_ESCAPE,
	input.KeyTab:          sdl.SCANCODE_TAB,
	input.KeyLeftBracket:  sdl.SCANCODE_LEFTBRACKET,
	input.KeyRightBracket: sdl.SCANCODE_RIGHTBRACKET,
	input.KeyP:            sdl.SCANCODE_P,
	input.KeyF12:          sdl.SCANCODE_F12,
	input.Key1:            sdl.SCANCODE_1,
	input.Key2:            sdl.SCANCODE_2,
	input.Key3:            sdl.SCANCODE_3,
	input.Key4:            sdl.SCANCODE_4,
	input.Key5:            sdl.SCANCODE_5,
	input.Key6:            sdl.SCANCODE_6,
	input.Key7:            sdl.SCANCODE_7,
	input.Key8:            sdl.SCANCODE_8,
	input.Key9:            sdl.SCANCODE_9,
}

// Events reports window-level notifications seen during Poll.
type Events struct {
	Quit          bool
	Resized       bool
	Width, Height int
}

// Poller drains the SDL event queue once per tick and snapshots the
// keyboard and relative mouse state.
type Poller struct {
	keys     [input.KeyCount]bool
	dx, dy   int
	leftDown bool
}

// New creates a poller.
func New() *Poller {
	return &Poller{}
}

// Poll processes pending SDL events and refreshes the input snapshot.
func (p *Poller) Poll() Events {
	var ev Events
	p.dx, p.dy = 0, 0

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			ev.Quit = true
		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				ev.Resized = true
				ev.Width = int(e.Data1)
				ev.Height = int(e.Data2)
			}
		case *sdl.MouseMotionEvent:
			p.dx += int(e.XRel)
			p.dy += int(e.YRel)
		}
	}

	state := sdl.GetKeyboardState()
	for k, sc := range scancodes {
		p.keys[k] = int(sc) < len(state) && state[sc] != 0
	}
	if int(sdl.SCANCODE_RSHIFT) < len(state) && state[sdl.SCANCODE_RSHIFT] != 0 {
		p.keys[input.KeyShift] = true
	}

	_, _, buttons := sdl.GetMouseState()
	p.leftDown = buttons&sdl.ButtonLMask() != 0

	return ev
}

// KeyDown implements input.State.
func (p *Poller) KeyDown(k input.Key) bool {
	if k < 0 || int(k) >= input.KeyCount {
		return false
	}
	return p.keys[k]
}

// MouseDelta implements input.State.
func (p *Poller) MouseDelta() (int, int) { return p.dx, p.dy }

// MouseLeftDown implements input.State.
func (p *Poller) MouseLeftDown() bool { return p.leftDown }
