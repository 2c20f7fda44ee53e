// Package debugui is the diagnostics overlay. It edits the scene through
// a tuning.Panel from hotkeys and reports frame statistics to the log.
// Drawing widgets is left to an external UI.
package debugui

import (
	"go.uber.org/zap"

	"github.com/Faultbox/lumen/internal/engine/input"
	"github.com/Faultbox/lumen/internal/engine/picking"
	"github.com/Faultbox/lumen/internal/engine/renderer"
	"github.com/Faultbox/lumen/internal/engine/scene"
	"github.com/Faultbox/lumen/internal/engine/tuning"
	"github.com/Faultbox/lumen/internal/logger"
)

// ReportInterval is how often frame statistics are logged, in seconds.
const ReportInterval = 1.0

// Report is one period of frame statistics.
// SelectedEntity is -1 until an entity has been picked.
type Report struct {
	FPS            float32
	Width, Height  int
	Camera         int
	SelectedLight  int
	SelectedEntity int
	Stats          scene.Stats
}

// Overlay implements renderer.Overlay.
type Overlay struct {
	panel *tuning.Panel
	edge  input.Edge

	width, height  int
	selectedLight  int
	selectedEntity int

	elapsed float32
	frames  int
	last    Report

	// OnReport, when set, receives every report as it is logged.
	OnReport func(Report)

	log *zap.Logger
}

var _ renderer.Overlay = (*Overlay)(nil)

// New creates an overlay over panel for a width x height window.
func New(panel *tuning.Panel, width, height int) *Overlay {
	return &Overlay{
		panel:          panel,
		width:          width,
		height:         height,
		selectedEntity: -1,
		log:            logger.Named("debugui"),
	}
}

// SetSize records new window dimensions.
func (o *Overlay) SetSize(width, height int) {
	o.width, o.height = width, height
}

// SelectedLight returns the light index digit keys last selected.
func (o *Overlay) SelectedLight() int { return o.selectedLight }

// SelectedEntity returns the entity last picked with P, or -1.
func (o *Overlay) SelectedEntity() int { return o.selectedEntity }

// LastReport returns the most recent report.
func (o *Overlay) LastReport() Report { return o.last }

// Update handles hotkeys: Tab and ] select the next camera, [ the
// previous one, 1-9 select a light, P picks the entity under the
// screen centre.
func (o *Overlay) Update(in input.State) {
	for _, k := range o.edge.Pressed(in) {
		switch {
		case k == input.KeyTab || k == input.KeyRightBracket:
			o.panel.NextCamera()
			o.log.Debug("camera selected", zap.Int("index", o.panel.ActiveCamera()))
		case k == input.KeyLeftBracket:
			o.panel.PrevCamera()
			o.log.Debug("camera selected", zap.Int("index", o.panel.ActiveCamera()))
		case k >= input.Key1 && k <= input.Key9:
			o.selectLight(int(k - input.Key1))
		case k == input.KeyP:
			o.pickCentre()
		}
	}
}

func (o *Overlay) selectLight(i int) {
	c, err := o.panel.LightColor(i)
	if err != nil {
		o.log.Debug("no such light", zap.Int("index", i))
		return
	}
	o.selectedLight = i
	o.log.Debug("light selected",
		zap.Int("index", i),
		zap.Float32("r", c.X), zap.Float32("g", c.Y), zap.Float32("b", c.Z))
}

func (o *Overlay) pickCentre() {
	s := o.panel.Scene()
	cam, err := s.ActiveCamera()
	if err != nil || o.width <= 0 || o.height <= 0 {
		return
	}
	r := picking.CameraRay(cam, float32(o.width)/2, float32(o.height)/2, o.width, o.height)
	i, dist, ok := picking.Pick(r, s.Entities())
	if !ok {
		o.selectedEntity = -1
		o.log.Debug("nothing picked")
		return
	}
	o.selectedEntity = i
	et, _ := o.panel.Entity(i)
	o.log.Debug("entity picked",
		zap.Int("index", i),
		zap.Float32("distance", dist),
		zap.Float32("x", et.Position.X), zap.Float32("y", et.Position.Y), zap.Float32("z", et.Position.Z))
}

// DrawOverlay counts the frame and logs statistics once per interval.
func (o *Overlay) DrawOverlay(s *scene.Scene, ft renderer.FrameTime) {
	o.frames++
	o.elapsed += ft.Delta
	if o.elapsed < ReportInterval {
		return
	}

	r := Report{
		FPS:            float32(o.frames) / o.elapsed,
		Width:          o.width,
		Height:         o.height,
		Camera:         s.ActiveCameraIndex(),
		SelectedLight:  o.selectedLight,
		SelectedEntity: o.selectedEntity,
		Stats:          s.Stats(),
	}
	o.frames, o.elapsed = 0, 0
	o.last = r

	o.log.Info("frame stats",
		zap.Float32("fps", r.FPS),
		zap.Int("width", r.Width),
		zap.Int("height", r.Height),
		zap.Int("camera", r.Camera),
		zap.Int("entities", r.Stats.Entities),
		zap.Int("triangles", r.Stats.Triangles),
		zap.Int("lights", r.Stats.Lights))
	if o.OnReport != nil {
		o.OnReport(r)
	}
}
