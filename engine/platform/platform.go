package platform

import (
	"fmt"
	"runtime"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spaghettifunk/anima-gl/engine/core"
)

var startTime float64 = 0

func init() {
	// GLFW event handling and the GL context must stay on the main OS thread
	runtime.LockOSThread()
}

/**
 * @brief A GLFW window owning an OpenGL core context. It implements the
 * renderer's Window.
 */
type Platform struct {
	Window *glfw.Window

	keys       [glfw.KeyLast + 1]bool
	onKey      []func(key Key, pressed bool)
	onResize   func(width, height int)
	cursorX    float64
	cursorY    float64
	scrollY    float64
	buttonDown [glfw.MouseButtonLast + 1]bool
}

func New() (*Platform, error) {
	return &Platform{
		Window: nil,
	}, nil
}

/**
 * @brief Opens the window at (x, y) with a context matching options and
 * makes the context current on the calling goroutine.
 */
func (p *Platform) Startup(x uint32, y uint32, options core.RenderOptions, debug bool) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("%w: glfw: %s", core.ErrNoContext, err.Error())
	}

	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, options.GLMajorVersion)
	glfw.WindowHint(glfw.ContextVersionMinor, options.GLMinorVersion)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Samples, options.MSAA)
	if debug {
		glfw.WindowHint(glfw.OpenGLDebugContext, glfw.True)
	}

	window, err := glfw.CreateWindow(options.Width, options.Height, options.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("%w: OpenGL %d.%d core: %s", core.ErrVersionUnavailable,
			options.GLMajorVersion, options.GLMinorVersion, err.Error())
	}
	window.MakeContextCurrent()
	if options.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	p.Window = window

	p.Window.SetKeyCallback(p.keyCallback)
	p.Window.SetMouseButtonCallback(p.mouseButtonCallback)
	p.Window.SetCursorPosCallback(p.cursorPosCallback)
	p.Window.SetScrollCallback(p.scrollCallback)
	p.Window.SetFramebufferSizeCallback(p.framebufferSizeCallback)
	p.Window.SetPos(int(x), int(y))
	p.Window.Show()

	startTime = glfw.GetTime()

	core.LogInfo("window %q %dx%d, requested OpenGL %d.%d core", options.Title,
		options.Width, options.Height, options.GLMajorVersion, options.GLMinorVersion)
	return nil
}

func (p *Platform) Shutdown() error {
	if p.Window != nil {
		p.Window.Destroy()
		p.Window = nil
	}
	glfw.Terminate()
	return nil
}

func (p *Platform) PollEvents() {
	p.scrollY = 0
	glfw.PollEvents()
}

func (p *Platform) SwapBuffers() {
	p.Window.SwapBuffers()
}

func (p *Platform) ShouldClose() bool {
	return p.Window == nil || p.Window.ShouldClose()
}

// RequestClose makes ShouldClose report true from now on.
func (p *Platform) RequestClose() {
	p.Window.SetShouldClose(true)
}

func (p *Platform) FramebufferSize() (width, height int) {
	return p.Window.GetFramebufferSize()
}

func (p *Platform) SetFramebufferSizeCallback(fn func(width, height int)) {
	p.onResize = fn
}

// OnKey registers fn to be called on every key press and release.
func (p *Platform) OnKey(fn func(key Key, pressed bool)) {
	p.onKey = append(p.onKey, fn)
}

func (p *Platform) IsKeyDown(key Key) bool {
	if key < 0 || int(key) >= len(p.keys) {
		return false
	}
	return p.keys[key]
}

func (p *Platform) IsButtonDown(button MouseButton) bool {
	if button < 0 || int(button) >= len(p.buttonDown) {
		return false
	}
	return p.buttonDown[button]
}

func (p *Platform) MousePosition() (x, y float64) {
	return p.cursorX, p.cursorY
}

// ScrollDelta is the vertical scroll of the last PollEvents.
func (p *Platform) ScrollDelta() float64 {
	return p.scrollY
}

// GetAbsoluteTime returns the seconds elapsed since Startup.
func GetAbsoluteTime() float64 {
	return glfw.GetTime() - startTime
}

func (p *Platform) Sleep(ms float64) {
	time.Sleep(time.Duration(ms * float64(time.Millisecond)))
}

func (p *Platform) keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if key < 0 || int(key) >= len(p.keys) || action == glfw.Repeat {
		return
	}
	pressed := action == glfw.Press
	p.keys[key] = pressed
	for _, fn := range p.onKey {
		fn(Key(key), pressed)
	}
}

func (p *Platform) mouseButtonCallback(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	if button < 0 || int(button) >= len(p.buttonDown) {
		return
	}
	p.buttonDown[button] = action == glfw.Press
}

func (p *Platform) cursorPosCallback(w *glfw.Window, xpos, ypos float64) {
	p.cursorX, p.cursorY = xpos, ypos
}

func (p *Platform) scrollCallback(w *glfw.Window, xoff, yoff float64) {
	p.scrollY += yoff
}

func (p *Platform) framebufferSizeCallback(w *glfw.Window, width, height int) {
	if p.onResize != nil {
		p.onResize(width, height)
	}
}
