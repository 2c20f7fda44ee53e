package renderer

// Phase is one step of the per-frame pipeline. Phases always run in
// declaration order and every frame ends in PhaseDone.
type Phase int

const (
	PhaseClearTargets Phase = iota
	PhaseShadowDepth
	PhaseRestoreMain
	PhaseLitGeometry
	PhaseSky
	PhaseOverlay
	PhasePresent
	PhaseRebindTargets
	PhaseDone
)

var phaseNames = [...]string{
	PhaseClearTargets:  "clear-targets",
	PhaseShadowDepth:   "shadow-depth",
	PhaseRestoreMain:   "restore-main",
	PhaseLitGeometry:   "lit-geometry",
	PhaseSky:           "sky",
	PhaseOverlay:       "overlay",
	PhasePresent:       "present",
	PhaseRebindTargets: "rebind-targets",
	PhaseDone:          "done",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// Next returns the phase that follows p. PhaseDone is terminal.
func (p Phase) Next() Phase {
	if p >= PhaseDone {
		return PhaseDone
	}
	return p + 1
}
