package input

import "testing"

func TestStaticOutOfRangeKey(t *testing.T) {
	s := Static{}.Press(KeyW)
	if !s.KeyDown(KeyW) {
		t.Error("KeyW should be down")
	}
	if s.KeyDown(Key(-1)) || s.KeyDown(Key(KeyCount)) {
		t.Error("out-of-range keys must report up")
	}
}

func TestEdgeTriggersOnce(t *testing.T) {
	var e Edge
	held := Static{}.Press(KeyTab)

	if got := e.Pressed(held); len(got) != 1 || got[0] != KeyTab {
		t.Fatalf("first Pressed = %v, want [KeyTab]", got)
	}
	if got := e.Pressed(held); len(got) != 0 {
		t.Errorf("held key re-triggered: %v", got)
	}
	e.Pressed(Static{})
	if got := e.Pressed(held); len(got) != 1 {
		t.Errorf("key did not re-trigger after release: %v", got)
	}
}
