// Package app runs the interactive scene viewer: it opens the window,
// builds the demo scene and drives the frame loop.
package app

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/lumen/internal/assets"
	"github.com/Faultbox/lumen/internal/config"
	"github.com/Faultbox/lumen/internal/demo"
	"github.com/Faultbox/lumen/internal/engine/debugui"
	"github.com/Faultbox/lumen/internal/engine/gpu/glgpu"
	"github.com/Faultbox/lumen/internal/engine/input"
	"github.com/Faultbox/lumen/internal/engine/input/sdlinput"
	"github.com/Faultbox/lumen/internal/engine/renderer"
	"github.com/Faultbox/lumen/internal/engine/scene"
	"github.com/Faultbox/lumen/internal/engine/screenshot"
	"github.com/Faultbox/lumen/internal/engine/shadow"
	"github.com/Faultbox/lumen/internal/engine/tuning"
	"github.com/Faultbox/lumen/internal/engine/window"
	"github.com/Faultbox/lumen/internal/logger"
)

// Title is the window title.
const Title = "Lumen"

// App is the running viewer.
type App struct {
	config  *config.Config
	running bool

	window   *window.Window
	device   *glgpu.Device
	shaders  []*glgpu.Shader
	assets   *assets.Manager
	scene    *scene.Scene
	shadows  *shadow.Controller
	renderer *renderer.Renderer
	overlay  *debugui.Overlay
	panel    *tuning.Panel
	watcher  *config.Watcher
	poller   *sdlinput.Poller
	animator scene.Animator
	keys     input.Edge

	screenshots *screenshot.Capture
	capture     bool
	width       int
	height      int

	log *zap.Logger
}

// New opens the window and builds everything needed to draw the first
// frame.
func New(cfg *config.Config) (*App, error) {
	a := &App{
		config:   cfg,
		assets:   assets.NewManager(cfg.Scene.AssetRoot),
		poller:   sdlinput.New(),
		animator: scene.Animator{Enabled: cfg.Scene.Animate},
		log:      logger.Named("app"),

		screenshots: screenshot.New("screenshots", "lumen"),
	}
	a.log.Info("initializing",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.String("assets", cfg.Scene.AssetRoot))

	var err error
	// Create window (this also creates OpenGL context)
	a.window, err = window.New(window.Config{
		Title:      Title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	width, height := a.window.Size()
	a.width, a.height = width, height
	a.device, err = glgpu.New(a.window, width, height, cfg.Graphics.VSync)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create device: %w", err)
	}

	if err := a.build(width, height); err != nil {
		a.Close()
		return nil, err
	}

	a.log.Info("initialized successfully")
	return a, nil
}

// build compiles the programs and creates the scene and passes.
func (a *App) build(width, height int) error {
	var sh demo.Shaders
	var err error
	if sh.LitVertex, err = a.vertex(glgpu.LitVertex); err != nil {
		return err
	}
	if sh.SkyVertex, err = a.vertex(glgpu.SkyVertex); err != nil {
		return err
	}
	if sh.SkyPixel, err = a.pixel(glgpu.SkyPixel); err != nil {
		return err
	}
	for i, name := range [3]string{glgpu.UnlitPixel, glgpu.TintedPixel, glgpu.AnimatedPixel} {
		if sh.Surface[i], err = a.pixel(name); err != nil {
			return err
		}
	}
	shadowVS, err := a.vertex(glgpu.ShadowVertex)
	if err != nil {
		return err
	}

	cfg := *a.config
	cfg.Graphics.Width, cfg.Graphics.Height = width, height
	a.scene, err = demo.BuildScene(a.device, a.assets, sh, &cfg, a.log)
	if err != nil {
		return fmt.Errorf("failed to build scene: %w", err)
	}

	a.shadows, err = shadow.New(a.device, shadowVS, demo.ShadowConfig(cfg.Shadow))
	if err != nil {
		return fmt.Errorf("failed to create shadow pass: %w", err)
	}

	a.renderer, err = renderer.New(a.device, a.shadows, renderer.Config{
		Width:  width,
		Height: height,
		VSync:  cfg.Graphics.VSync,
	})
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	a.panel = tuning.NewPanel(a.scene)
	a.overlay = debugui.New(a.panel, width, height)
	a.renderer.SetOverlay(a.overlay)
	a.renderer.OnPhase = a.onPhase

	if cfg.Path != "" {
		if a.watcher, err = config.Watch(cfg.Path); err != nil {
			a.log.Warn("config changes will not be picked up", zap.Error(err))
		}
	}
	return nil
}

func (a *App) vertex(name string) (*glgpu.Shader, error) {
	s, err := glgpu.LoadVertexShader(a.device, name)
	if err != nil {
		return nil, err
	}
	a.shaders = append(a.shaders, s)
	return s, nil
}

func (a *App) pixel(name string) (*glgpu.Shader, error) {
	s, err := glgpu.LoadPixelShader(a.device, name)
	if err != nil {
		return nil, err
	}
	a.shaders = append(a.shaders, s)
	return s, nil
}

// Run drives the frame loop until the window closes or Escape is pressed.
func (a *App) Run() error {
	a.running = true

	start := time.Now()
	lastTime := start

	a.log.Info("starting frame loop")

	for a.running {
		now := time.Now()
		ft := renderer.FrameTime{
			Delta: float32(now.Sub(lastTime).Seconds()),
			Total: float32(now.Sub(start).Seconds()),
		}
		lastTime = now

		// 1. Process input
		ev := a.poller.Poll()
		if ev.Quit || a.poller.KeyDown(input.KeyEscape) {
			a.running = false
			break
		}
		if ev.Resized {
			// Events carry window units; the swap chain is sized in pixels.
			a.resize(a.window.Size())
		}

		// 2. Update scene state
		a.reloadConfig()
		a.update(ft)

		// 3. Render and present
		if err := a.renderer.Frame(a.scene, ft); err != nil {
			return fmt.Errorf("frame %d: %w", a.renderer.Frames(), err)
		}
	}

	return nil
}

// reloadConfig applies a changed config file. Window size, shadow and
// scene settings are fixed at startup.
func (a *App) reloadConfig() {
	if a.watcher == nil {
		return
	}
	select {
	case cfg := <-a.watcher.Updates():
		demo.ApplyLive(a.panel, cfg)
		a.renderer.SetVSync(cfg.Graphics.VSync)
		a.animator.Enabled = cfg.Scene.Animate
		a.config = cfg
	default:
	}
}

// onPhase reads the finished frame back just before it is presented
// when a screenshot was requested.
func (a *App) onPhase(p renderer.Phase) {
	if p != renderer.PhasePresent || !a.capture {
		return
	}
	a.capture = false
	pixels := a.device.ReadBackBuffer(a.width, a.height)
	path, err := a.screenshots.SaveBottomUp(pixels, a.width, a.height)
	if err != nil {
		a.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("path", path))
}

// update applies hotkeys, moves the active camera and spins the objects.
func (a *App) update(ft renderer.FrameTime) {
	for _, k := range a.keys.Pressed(a.poller) {
		if k == input.KeyF12 {
			a.capture = true
		}
	}
	a.overlay.Update(a.poller)
	if cam, err := a.scene.ActiveCamera(); err == nil {
		cam.Update(ft.Delta, a.poller)
	}
	a.animator.Update(a.scene, ft.Total)
}

func (a *App) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	a.log.Debug("resize", zap.Int("width", width), zap.Int("height", height))
	a.width, a.height = width, height
	a.renderer.Resize(width, height)
	a.scene.Resize(float32(width) / float32(height))
	a.overlay.SetSize(width, height)
}

// Close releases GPU resources and the window.
func (a *App) Close() {
	a.log.Info("closing")

	if a.watcher != nil {
		a.watcher.Close()
	}
	for _, s := range a.shaders {
		s.Close()
	}
	if a.device != nil {
		a.device.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
	a.assets.Close()
}
