package engine

import (
	"github.com/spaghettifunk/anima-gl/engine/platform"
	"github.com/spaghettifunk/anima-gl/engine/renderer"
	"github.com/spaghettifunk/anima-gl/engine/systems"
)

type Game struct {
	ApplicationConfig *ApplicationConfig
	// Set by the engine before FnInitialize runs.
	SystemManager *systems.SystemManager
	// Set by the engine before FnInitialize runs; nil without a window.
	Platform     *platform.Platform
	State        interface{}
	FnInitialize Initialize
	FnUpdate     Update
	FnRender     Render
	FnOnResize   OnResize
	FnShutdown   Shutdown
}

type Initialize func() error
type Update func(deltaTime float64) error

// Render returns what to draw this frame.
type Render func(deltaTime float64) (*renderer.RenderTarget, error)
type OnResize func(width uint32, height uint32) error
type Shutdown func() error
