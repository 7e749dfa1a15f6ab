package engine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/spaghettifunk/anima-gl/engine/assets"
	"github.com/spaghettifunk/anima-gl/engine/core"
	"github.com/spaghettifunk/anima-gl/engine/platform"
	"github.com/spaghettifunk/anima-gl/engine/renderer"
	"github.com/spaghettifunk/anima-gl/engine/renderer/opengl"
	"github.com/spaghettifunk/anima-gl/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

// pending shader reloads beyond this are dropped until the queue drains
const reloadQueueSize int = 32

// how often the frame metrics are logged
const metricsInterval = 5 * time.Second

type Engine struct {
	currentStage  Stage
	gameInstance  *Game
	options       *core.Options
	isRunning     atomic.Bool
	isSuspended   bool
	platform      *platform.Platform
	assetManager  *assets.AssetManager
	renderSystem  *renderer.RenderSystem
	systemManager *systems.SystemManager
	width         uint32
	height        uint32
	clock         *core.Clock
	metrics       *core.FrameMetrics
	lastTime      float64
	lastReport    time.Time
	reloads       chan string
}

func New(g *Game, options *core.Options) (*Engine, error) {
	if err := options.Validate(); err != nil {
		return nil, err
	}
	if g.ApplicationConfig == nil {
		g.ApplicationConfig = &ApplicationConfig{AssetsDir: "assets"}
	}

	root := g.ApplicationConfig.AssetsDir
	if !filepath.IsAbs(root) {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		root = filepath.Join(wd, root)
	}
	am, err := assets.NewAssetManager(root, assets.DefaultImageCacheSize)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	return &Engine{
		currentStage: EngineStageUninitialized,
		gameInstance: g,
		options:      options,
		assetManager: am,
		clock:        core.NewClock(),
		metrics:      core.NewFrameMetrics(),
		width:        uint32(options.Render.Width),
		height:       uint32(options.Render.Height),
		reloads:      make(chan string, reloadQueueSize),
	}, nil
}

/**
 * @brief Opens the window, loads OpenGL and initializes every system on
 * top of it. Must run on the main goroutine.
 */
func (e *Engine) Initialize() error {
	p, err := platform.New()
	if err != nil {
		return err
	}
	config := e.gameInstance.ApplicationConfig
	if err := p.Startup(config.StartPosX, config.StartPosY, e.options.Render, e.options.Core.Debug); err != nil {
		return err
	}
	e.platform = p
	e.gameInstance.Platform = p
	p.OnKey(e.onKey)

	backend, err := opengl.New(e.options.Core.Debug)
	if err != nil {
		_ = p.Shutdown()
		return err
	}
	return e.InitializeWith(backend, p)
}

/**
 * @brief Initializes the systems on an existing backend. window may be nil
 * to render offscreen.
 */
func (e *Engine) InitializeWith(backend renderer.GraphicsBackend, window renderer.Window) error {
	e.currentStage = EngineStageInitializing

	e.renderSystem = renderer.NewRenderSystem(backend, window, e.options.Render)
	e.renderSystem.SetSourceLoader(e.assetManager)
	e.renderSystem.AddInputListener(e)

	sm, err := systems.NewSystemManager(e.renderSystem, e.assetManager)
	if err != nil {
		return err
	}
	e.systemManager = sm
	e.gameInstance.SystemManager = sm

	if e.gameInstance.ApplicationConfig.HotReload {
		if err := e.assetManager.Watch("shaders", e.onAssetChanged); err != nil {
			core.LogWarn("shader hot reload disabled: %s", err)
		}
	}

	if err := e.gameInstance.FnInitialize(); err != nil {
		return err
	}

	vp := e.renderSystem.Viewport()
	e.width, e.height = uint32(vp.Width), uint32(vp.Height)
	if err := e.gameInstance.FnOnResize(e.width, e.height); err != nil {
		return err
	}
	e.currentStage = EngineStageInitialized
	return nil
}

func (e *Engine) RenderSystem() *renderer.RenderSystem { return e.renderSystem }

func (e *Engine) Stage() Stage { return e.currentStage }

// Stop makes Run return after the current frame. Safe from any goroutine.
func (e *Engine) Stop() {
	e.isRunning.Store(false)
}

/**
 * @brief Runs frames until the window asks to close or Stop is called.
 * Rendering errors are logged and the loop goes on; update errors end it.
 */
func (e *Engine) Run() error {
	e.currentStage = EngineStageRunning
	e.isRunning.Store(true)
	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Seconds()
	e.lastReport = time.Now()

	for e.isRunning.Load() && !e.renderSystem.ShouldClose() {
		if err := e.Frame(); err != nil {
			e.isRunning.Store(false)
			return err
		}
	}
	return nil
}

// Frame runs a single iteration of the main loop.
func (e *Engine) Frame() error {
	e.renderSystem.PollEvents()
	e.processReloads()

	if e.isSuspended {
		return nil
	}

	// Update clock and get delta time.
	e.clock.Update()
	currentTime := e.clock.Seconds()
	delta := currentTime - e.lastTime
	frameStart := time.Now()

	e.systemManager.Update()

	if err := e.gameInstance.FnUpdate(delta); err != nil {
		core.LogError("game update failed, shutting down: %s", err)
		return err
	}

	target, err := e.gameInstance.FnRender(delta)
	if err != nil {
		core.LogError("game render failed, shutting down: %s", err)
		return err
	}
	if target != nil {
		if err := e.renderSystem.RenderOneFrame(target); err != nil {
			core.LogError(err.Error())
		}
	}
	e.renderSystem.SwapBuffers()

	e.metrics.Update(time.Since(frameStart).Seconds())
	if time.Since(e.lastReport) >= metricsInterval {
		e.lastReport = time.Now()
		fps, frameTime := e.metrics.Frame()
		core.Logger().Debug("frame metrics", "fps", fps, "ms", frameTime,
			"stats", e.renderSystem.Renderer().LastFrameStats().String())
	}

	e.lastTime = currentTime
	return nil
}

func (e *Engine) processReloads() {
	for {
		select {
		case path := <-e.reloads:
			if err := e.renderSystem.ReloadShader(path); err != nil {
				core.LogError("shader reload failed: %s", err)
			}
		default:
			return
		}
	}
}

// onAssetChanged runs on the watcher goroutine; reloads are applied by the
// next frame on the render goroutine.
func (e *Engine) onAssetChanged(path string, assetType assets.AssetType) {
	if assetType != assets.AssetTypeShader {
		return
	}
	// shaders are registered under their name relative to the assets directory
	if rel, err := filepath.Rel(e.assetManager.Root(), path); err == nil && !strings.HasPrefix(rel, "..") {
		path = filepath.ToSlash(rel)
	}
	select {
	case e.reloads <- path:
	default:
		core.LogWarn("shader reload queue full, dropping %s", path)
	}
}

// QueueShaderReload schedules path to be reloaded by the next frame.
func (e *Engine) QueueShaderReload(path string) {
	e.onAssetChanged(path, assets.AssetTypeShader)
}

func (e *Engine) Shutdown() error {
	e.currentStage = EngineStageShuttingDown
	e.isRunning.Store(false)

	var errs []error
	if e.gameInstance.FnShutdown != nil {
		errs = append(errs, e.gameInstance.FnShutdown())
	}
	if e.systemManager != nil {
		errs = append(errs, e.systemManager.Shutdown())
	}
	errs = append(errs, e.assetManager.Shutdown())
	if e.renderSystem != nil {
		e.renderSystem.RemoveInputListener(e)
		errs = append(errs, e.renderSystem.Shutdown())
	}
	if e.platform != nil {
		errs = append(errs, e.platform.Shutdown())
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("engine shutdown: %w", err)
	}
	e.currentStage = EngineStageUninitialized
	return nil
}

// GetFramebufferSize returns the width and height (in this order)
// of the application framebuffer.
func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.width, e.height
}

func (e *Engine) InputEventStart() {}

func (e *Engine) InputEventStop() {}

func (e *Engine) FramebufferResized(width, height int) {
	w, h := uint32(width), uint32(height)
	if w == e.width && h == e.height {
		return
	}
	e.width, e.height = w, h

	// Handle minimization
	if w == 0 || h == 0 {
		core.LogInfo("window minimized, suspending application.")
		e.isSuspended = true
		return
	}
	if e.isSuspended {
		core.LogInfo("window restored, resuming application.")
		e.isSuspended = false
	}
	if err := e.gameInstance.FnOnResize(w, h); err != nil {
		core.LogError(err.Error())
	}
}

func (e *Engine) onKey(key platform.Key, pressed bool) {
	if pressed && key == platform.KeyEscape {
		core.LogInfo("escape pressed, shutting down.")
		e.Stop()
	}
}
