// Package preview runs the interactive prop viewer: one window, one rig, an
// orbit camera and a pausable animation clock.
package preview

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/propforge/internal/anim"
	"github.com/Faultbox/propforge/internal/config"
	"github.com/Faultbox/propforge/internal/engine/camera"
	"github.com/Faultbox/propforge/internal/engine/debug"
	"github.com/Faultbox/propforge/internal/engine/input"
	"github.com/Faultbox/propforge/internal/engine/renderer"
	"github.com/Faultbox/propforge/internal/engine/window"
	"github.com/Faultbox/propforge/internal/export"
	"github.com/Faultbox/propforge/internal/logger"
	"github.com/Faultbox/propforge/internal/props"
)

// maxFrameDelta caps dt after a stall so spins do not jump.
const maxFrameDelta = 0.25

// Preview is the viewer instance.
type Preview struct {
	cfg      *config.Config
	log      *zap.Logger
	running  bool
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	camera   *camera.OrbitCamera
	timer    *anim.Timer
	rig      *props.Rig
	propIdx  int
	shots    *debug.ScreenshotCapture
	capture  bool

	frames int
	unsubs []func()
}

// New opens the window and builds the configured prop.
func New(cfg *config.Config) (*Preview, error) {
	p := &Preview{
		cfg:    cfg,
		log:    logger.Named("preview"),
		camera: camera.NewOrbitCamera(),
		timer:  anim.NewTimer(),
		input:  input.New(),
		shots:  debug.NewScreenshotCapture(cfg.Export.Dir, cfg.Preview.Prop),
	}
	p.log.Info("initializing preview",
		zap.String("prop", cfg.Preview.Prop),
		zap.Int("width", cfg.Preview.Width),
		zap.Int("height", cfg.Preview.Height),
	)

	for i, n := range props.Names() {
		if n == cfg.Preview.Prop {
			p.propIdx = i
		}
	}

	// Create window (this also creates OpenGL context)
	var err error
	p.window, err = window.New(window.Config{
		Title:      "propforge",
		Width:      cfg.Preview.Width,
		Height:     cfg.Preview.Height,
		Fullscreen: cfg.Preview.Fullscreen,
		VSync:      cfg.Preview.VSync,
		MSAA:       cfg.Preview.MSAA,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating window")
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	dw, dh := p.window.DrawableSize()
	p.renderer, err = renderer.New(renderer.Config{
		Width:  dw,
		Height: dh,
	})
	if err != nil {
		p.window.Close()
		return nil, errors.Wrap(err, "creating renderer")
	}

	if err := p.load(cfg.Preview.Prop); err != nil {
		p.Close()
		return nil, err
	}

	p.unsubs = append(p.unsubs,
		p.timer.Subscribe(func(elapsed, delta float32) { p.rig.Tick(elapsed, delta) }),
		p.timer.OnSecond(p.onSecond),
	)
	p.timer.Start()

	p.log.Info("preview initialized successfully")
	return p, nil
}

// load replaces the current rig with a fresh build of name.
func (p *Preview) load(name string) error {
	rig, err := props.New(name, p.cfg, logger.Named("props"))
	if err != nil {
		return err
	}
	if err := rig.Build(); err != nil {
		return errors.Wrapf(err, "building %s", name)
	}
	if p.rig != nil {
		p.rig.Clear()
	}
	p.renderer.Release()
	p.rig = rig
	p.timer.Reset()
	p.camera.FitToBounds(rig.Scene.Bounds())
	p.shots.SetPrefix(name)
	p.updateTitle(0)
	return nil
}

// rebuild clears and rebuilds the current prop in place.
func (p *Preview) rebuild() {
	p.renderer.Release()
	if err := p.rig.Build(); err != nil {
		p.log.Error("rebuild failed", zap.Error(err))
		return
	}
	p.timer.Reset()
	p.log.Info("prop rebuilt", zap.String("prop", p.rig.Name()))
}

// Run starts the main loop.
func (p *Preview) Run() error {
	p.running = true
	lastTime := time.Now()

	p.log.Info("starting preview loop")

	for p.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now
		if dt > maxFrameDelta {
			dt = maxFrameDelta
		}

		// 1. Process input
		if p.input.Update() {
			p.running = false
			break
		}
		p.handleInput()

		// 2. Advance the clock; subscribers tick the rig
		p.timer.Advance(dt)

		// 3. Render
		p.render()

		// 4. Present (swap buffers)
		p.window.SwapBuffers()
		p.frames++
	}

	return nil
}

func (p *Preview) handleInput() {
	for _, event := range p.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			p.renderer.Resize(p.window.DrawableSize())
		case input.EventMouseMove:
			if p.input.Dragging() {
				p.camera.HandleDrag(float32(event.DeltaX), float32(event.DeltaY))
			}
		case input.EventMouseWheel:
			p.camera.HandleZoom(event.Wheel)
		}
	}

	for _, action := range p.input.Actions() {
		switch action {
		case input.ActionQuit:
			p.running = false
		case input.ActionTogglePause:
			running := p.timer.Toggle()
			p.log.Info("animation toggled", zap.Bool("running", running))
		case input.ActionRebuild:
			p.rebuild()
		case input.ActionNextProp:
			names := props.Names()
			p.propIdx = (p.propIdx + 1) % len(names)
			if err := p.load(names[p.propIdx]); err != nil {
				p.log.Error("switching prop failed", zap.Error(err))
			}
		case input.ActionToggleSpinMode:
			abs := !p.rig.Driver.AbsoluteSpin()
			p.rig.SetAbsoluteSpin(abs)
			p.log.Info("spin mode", zap.Bool("absolute", abs))
		case input.ActionExport:
			path, err := export.SaveScene(p.rig.Scene, p.cfg.Export.Dir, p.cfg.Export.Binary, logger.Named("export"))
			if err != nil {
				p.log.Error("export failed", zap.Error(err))
			} else {
				p.log.Info("snapshot exported", zap.String("path", path), zap.Float32("t", p.timer.Seconds()))
			}
		case input.ActionResetCamera:
			p.camera.FitToBounds(p.rig.Scene.Bounds())
		case input.ActionScreenshot:
			p.capture = true
		}
	}
}

func (p *Preview) render() {
	p.renderer.Begin()
	p.renderer.Draw(p.rig.Scene,
		p.camera.ViewMatrix(),
		p.camera.ProjectionMatrix(p.window.Aspect()),
		p.camera.Position())
	if p.capture {
		p.capture = false
		p.screenshot()
	}
	p.renderer.End()
}

// screenshot saves the frame just drawn, before the buffer swap.
func (p *Preview) screenshot() {
	pixels, w, h := p.renderer.ReadPixels()
	path, err := p.shots.CaptureFromPixels(pixels, w, h)
	if err != nil {
		p.log.Error("screenshot failed", zap.Error(err))
		return
	}
	p.log.Info("screenshot saved", zap.String("path", path))
}

func (p *Preview) onSecond(int) {
	if p.cfg.Preview.ShowFPS {
		p.updateTitle(p.frames)
	}
	if p.rig.Driver.Skipped() > 0 {
		p.log.Debug("animation writes skipped", zap.Int("count", p.rig.Driver.Skipped()))
	}
	p.frames = 0
}

func (p *Preview) updateTitle(fps int) {
	title := "propforge - " + p.rig.Name()
	if p.cfg.Preview.ShowFPS && fps > 0 {
		title = fmt.Sprintf("%s (%d fps)", title, fps)
	}
	p.window.SetTitle(title)
}

// Close cleans up preview resources.
func (p *Preview) Close() {
	p.log.Info("closing preview")

	for _, u := range p.unsubs {
		u()
	}
	if p.rig != nil {
		p.rig.Clear()
	}
	if p.renderer != nil {
		p.renderer.Close()
	}
	if p.window != nil {
		p.window.Close()
	}
}
