// Package renderer sequences the passes of one frame and keeps pipeline
// state consistent between them.
package renderer

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/lumen/internal/engine/camera"
	"github.com/Faultbox/lumen/internal/engine/entity"
	"github.com/Faultbox/lumen/internal/engine/gpu"
	"github.com/Faultbox/lumen/internal/engine/material"
	"github.com/Faultbox/lumen/internal/engine/scene"
	"github.com/Faultbox/lumen/internal/engine/shadow"
	"github.com/Faultbox/lumen/internal/logger"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
	VSync  bool
}

// FrameTime is the timing of the frame being drawn.
type FrameTime struct {
	Delta float32 // seconds since the previous frame
	Total float32 // seconds since start
}

// Overlay draws external UI on top of the finished scene.
type Overlay interface {
	DrawOverlay(s *scene.Scene, ft FrameTime)
}

// Renderer draws frames through a gpu.Device.
type Renderer struct {
	config  Config
	dev     gpu.Device
	shadows *shadow.Controller
	overlay Overlay

	// OnPhase, when set, is called as each phase starts.
	OnPhase func(Phase)

	viewport     gpu.Viewport
	last         []Phase
	frames       uint64
	cameraWarned bool
	log          *zap.Logger
}

// New creates a renderer drawing shadows through shadows.
func New(dev gpu.Device, shadows *shadow.Controller, cfg Config) (*Renderer, error) {
	if dev == nil || shadows == nil {
		return nil, fmt.Errorf("renderer: device and shadow controller are required")
	}
	r := &Renderer{
		config:   cfg,
		dev:      dev,
		shadows:  shadows,
		viewport: gpu.FullViewport(cfg.Width, cfg.Height),
		log:      logger.Named("renderer"),
	}
	r.log.Info("renderer ready",
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Bool("vsync", cfg.VSync))
	return r, nil
}

// SetOverlay installs the UI drawn in the overlay phase. nil removes it.
func (r *Renderer) SetOverlay(o Overlay) { r.overlay = o }

// SetVSync selects whether Present waits for vertical sync.
func (r *Renderer) SetVSync(on bool) { r.config.VSync = on }

// Resize changes the window viewport the main passes render into.
func (r *Renderer) Resize(width, height int) {
	r.config.Width, r.config.Height = width, height
	r.viewport = gpu.FullViewport(width, height)
	r.log.Debug("resized", zap.Int("width", width), zap.Int("height", height))
}

// Viewport returns the window viewport.
func (r *Renderer) Viewport() gpu.Viewport { return r.viewport }

// LastFrame returns the phases the previous Frame ran, in order.
func (r *Renderer) LastFrame() []Phase { return r.last }

// Frames returns the number of frames drawn.
func (r *Renderer) Frames() uint64 { return r.frames }

// Frame draws s once. Every phase runs even when an earlier one fails, so
// each frame has exactly one shadow pass and one present; the errors are
// combined and returned.
func (r *Renderer) Frame(s *scene.Scene, ft FrameTime) error {
	r.last = r.last[:0]

	cam, camErr := s.ActiveCamera()
	if camErr != nil {
		if !r.cameraWarned {
			r.log.Warn("no active camera, skipping lit and sky passes", zap.Error(camErr))
			r.cameraWarned = true
		}
		cam = nil
	} else {
		r.cameraWarned = false
	}

	var err error
	for p := PhaseClearTargets; p != PhaseDone; p = p.Next() {
		if r.OnPhase != nil {
			r.OnPhase(p)
		}
		r.last = append(r.last, p)
		err = multierr.Append(err, r.run(p, s, cam, ft))
	}
	r.last = append(r.last, PhaseDone)
	r.frames++
	return err
}

func (r *Renderer) run(p Phase, s *scene.Scene, cam *camera.Camera, ft FrameTime) error {
	switch p {
	case PhaseClearTargets:
		r.dev.ClearRenderTarget(r.dev.BackBuffer(), s.Background.Array())
		r.dev.ClearDepth(r.dev.DepthBuffer(), 1)

	case PhaseShadowDepth:
		r.shadows.UpdateCasters(s.Lights)
		r.shadows.RenderDepth(s.Entities())

	case PhaseRestoreMain:
		r.shadows.Restore(shadow.MainTargets{
			Color:    r.dev.BackBuffer(),
			Depth:    r.dev.DepthBuffer(),
			Viewport: r.viewport,
		})

	case PhaseLitGeometry:
		if cam == nil {
			return nil
		}
		return r.drawLit(s, cam, ft)

	case PhaseSky:
		if cam != nil && s.Sky != nil {
			s.Sky.Draw(cam)
		}

	case PhaseOverlay:
		if r.overlay != nil {
			r.overlay.DrawOverlay(s, ft)
		}

	case PhasePresent:
		if err := r.dev.Present(r.config.VSync); err != nil {
			return fmt.Errorf("present: %w", err)
		}

	case PhaseRebindTargets:
		r.dev.SetRenderTargets(r.dev.BackBuffer(), r.dev.DepthBuffer())
		r.dev.UnbindShaderResources()
	}
	return nil
}

func (r *Renderer) drawLit(s *scene.Scene, cam *camera.Camera, ft FrameTime) error {
	frame := material.FrameInputs{
		Lights:     s.Lights.Bytes(),
		LightCount: int32(s.Lights.Len()),
		Ambient:    s.Ambient,
	}
	r.shadows.Apply(&frame)

	ctx := entity.DrawContext{
		Camera:  cam,
		Tint:    s.Tint,
		Elapsed: ft.Total,
		Frame:   frame,
	}

	var err error
	for i, e := range s.Entities() {
		if drawErr := e.Draw(ctx); drawErr != nil {
			err = multierr.Append(err, fmt.Errorf("entity %d: %w", i, drawErr))
		}
	}
	return err
}
