package renderer

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/spaghettifunk/anima-gl/engine/core"
	"github.com/spaghettifunk/anima-gl/engine/renderer/metadata"
	"golang.org/x/exp/slices"
)

/**
 * @brief The window owning the graphics context.
 */
type Window interface {
	PollEvents()
	SwapBuffers()
	ShouldClose() bool
	FramebufferSize() (width, height int)
	SetFramebufferSizeCallback(fn func(width, height int))
}

/**
 * @brief Notified around every event pump.
 */
type InputEventListener interface {
	InputEventStart()
	InputEventStop()
}

/**
 * @brief Optionally implemented by input listeners to learn about resizes.
 */
type ResizeListener interface {
	FramebufferResized(width, height int)
}

// SourceLoader reads shader sources from files.
type SourceLoader interface {
	LoadShaderSource(path string) (string, error)
}

type fileSourceLoader struct{}

func (fileSourceLoader) LoadShaderSource(path string) (string, error) {
	b, err := os.ReadFile(path)
	return string(b), err
}

/**
 * @brief The render context. Created once at startup and handed to whatever
 * needs to create resources or render. Create* and RenderOneFrame run on the
 * goroutine owning the graphics context; the managers behind it accept
 * Create and Release from any goroutine.
 */
type RenderSystem struct {
	id      uuid.UUID
	backend GraphicsBackend
	window  Window
	options core.RenderOptions
	loader  SourceLoader

	cache    *StateCacheManager
	shaders  *ShaderManager
	programs *ProgramManager
	textures *TextureManager
	renderer *Renderer

	mu             sync.Mutex
	vertexData     []*VertexData
	framebuffers   []*FrameBufferObject
	inputListeners []InputEventListener
	fileShaders    map[string]*Shader
	viewport       Viewport
}

// NewRenderSystem wires the managers, the state cache and the renderer on
// top of backend. window may be nil for offscreen use.
func NewRenderSystem(backend GraphicsBackend, window Window, options core.RenderOptions) *RenderSystem {
	cache := NewStateCacheManager(backend)
	shaders := NewShaderManager(backend)
	programs := NewProgramManager(backend, cache)
	textures := NewTextureManager(backend, cache)

	rs := &RenderSystem{
		id:          uuid.New(),
		backend:     backend,
		window:      window,
		options:     options,
		loader:      fileSourceLoader{},
		cache:       cache,
		shaders:     shaders,
		programs:    programs,
		textures:    textures,
		renderer:    NewRenderer(backend, cache, shaders, programs, textures),
		fileShaders: make(map[string]*Shader),
		viewport:    Viewport{Width: options.Width, Height: options.Height},
	}
	if window != nil {
		w, h := window.FramebufferSize()
		rs.viewport = Viewport{Width: w, Height: h}
		window.SetFramebufferSizeCallback(rs.onFramebufferResized)
	}

	info := backend.Info()
	core.Logger().Info("render system ready",
		"context", rs.id,
		"backend", backend.Kind(),
		"vendor", info.Vendor,
		"renderer", info.Renderer,
		"version", info.Version,
		"glsl", info.GLSL,
		"vsync", options.VSync,
		"msaa", options.MSAA)
	return rs
}

func (rs *RenderSystem) ID() uuid.UUID { return rs.id }

func (rs *RenderSystem) Backend() GraphicsBackend { return rs.backend }

func (rs *RenderSystem) Options() core.RenderOptions { return rs.options }

func (rs *RenderSystem) StateCache() *StateCacheManager { return rs.cache }

func (rs *RenderSystem) Shaders() *ShaderManager { return rs.shaders }

func (rs *RenderSystem) Programs() *ProgramManager { return rs.programs }

func (rs *RenderSystem) Textures() *TextureManager { return rs.textures }

func (rs *RenderSystem) Renderer() *Renderer { return rs.renderer }

// SetSourceLoader replaces the loader used for shader files.
func (rs *RenderSystem) SetSourceLoader(loader SourceLoader) {
	rs.loader = loader
}

// Viewport covers the whole window framebuffer.
func (rs *RenderSystem) Viewport() Viewport {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.viewport
}

func (rs *RenderSystem) CreateShader(shaderType metadata.ShaderType, source string) (*Shader, error) {
	return rs.createShader(shaderType, source, "")
}

func (rs *RenderSystem) createShader(shaderType metadata.ShaderType, source, path string) (*Shader, error) {
	s := rs.shaders.Create(shaderType, source, path)
	if s.IsValid() {
		return s, nil
	}
	if err := rs.shaders.MakeValid(s); err != nil {
		rs.shaders.Remove(s)
		return nil, err
	}
	return s, nil
}

// CreateShaderFromFile loads and compiles a shader; the file can later be
// hot reloaded with ReloadShader.
func (rs *RenderSystem) CreateShaderFromFile(shaderType metadata.ShaderType, path string) (*Shader, error) {
	source, err := rs.loader.LoadShaderSource(path)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", path, err)
	}
	s, err := rs.createShader(shaderType, source, path)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", path, err)
	}
	rs.mu.Lock()
	rs.fileShaders[path] = s
	rs.mu.Unlock()
	return s, nil
}

func (rs *RenderSystem) CreateProgram(shaders ...*Shader) (*Program, error) {
	p := rs.programs.Create(shaders...)
	if p.IsValid() {
		return p, nil
	}
	if err := rs.programs.MakeValid(p); err != nil {
		rs.programs.Remove(p)
		return nil, err
	}
	return p, nil
}

func (rs *RenderSystem) CreateTexture(image *metadata.Image, param metadata.TextureParameter) (*Texture, error) {
	t := rs.textures.Create(image, param)
	if t.IsValid() {
		return t, nil
	}
	if err := rs.textures.MakeValid(t); err != nil {
		rs.textures.Remove(t)
		return nil, err
	}
	return t, nil
}

func (rs *RenderSystem) CreateVertexData(param VertexDataParameter) (*VertexData, error) {
	vd, err := NewVertexData(rs.backend, rs.cache, param)
	if err != nil {
		return nil, err
	}
	rs.mu.Lock()
	rs.vertexData = append(rs.vertexData, vd)
	rs.mu.Unlock()
	return vd, nil
}

// CreateFrameBuffer creates an offscreen target with a width x height color texture.
func (rs *RenderSystem) CreateFrameBuffer(name string, width, height int) (*FrameBufferObject, error) {
	param := metadata.DefaultTextureParameter()
	param.UseMipmap = false
	param.InterpolateBetweenMipmaps = false
	param.Dim1EdgeSampling = metadata.TextureEdgeClampToEdge
	param.Dim2EdgeSampling = metadata.TextureEdgeClampToEdge

	// render targets are never shared, so each color image gets its own identity
	image := metadata.NewImageFromPixels(name+"#"+uuid.NewString(), width, height, metadata.ColorFormatRGBA, nil)
	color, err := rs.CreateTexture(image, param)
	if err != nil {
		return nil, fmt.Errorf("framebuffer %s: %w", name, err)
	}
	fbo, err := NewFrameBufferObject(rs.backend, rs.cache, name, color)
	if err != nil {
		rs.textures.Release(color)
		return nil, err
	}
	rs.mu.Lock()
	rs.framebuffers = append(rs.framebuffers, fbo)
	rs.mu.Unlock()
	return fbo, nil
}

// RenderOneFrame renders the commands of target. See Renderer.Render.
func (rs *RenderSystem) RenderOneFrame(target *RenderTarget) error {
	return rs.renderer.Render(target)
}

// SwapBuffers presents the default framebuffer.
func (rs *RenderSystem) SwapBuffers() {
	if rs.window != nil {
		rs.window.SwapBuffers()
	}
}

// PollEvents pumps the window events between InputEventStart and
// InputEventStop notifications.
func (rs *RenderSystem) PollEvents() {
	listeners := rs.inputEventListeners()
	for _, l := range listeners {
		l.InputEventStart()
	}
	if rs.window != nil {
		rs.window.PollEvents()
	}
	for _, l := range listeners {
		l.InputEventStop()
	}
}

func (rs *RenderSystem) ShouldClose() bool {
	return rs.window != nil && rs.window.ShouldClose()
}

func (rs *RenderSystem) AddFrameListener(l FrameListener) {
	rs.renderer.AddFrameListener(l)
}

func (rs *RenderSystem) RemoveFrameListener(l FrameListener) {
	rs.renderer.RemoveFrameListener(l)
}

func (rs *RenderSystem) AddInputListener(l InputEventListener) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.inputListeners = append(rs.inputListeners, l)
}

func (rs *RenderSystem) RemoveInputListener(l InputEventListener) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if i := slices.Index(rs.inputListeners, l); i >= 0 {
		rs.inputListeners = slices.Delete(rs.inputListeners, i, i+1)
	}
}

func (rs *RenderSystem) inputEventListeners() []InputEventListener {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return slices.Clone(rs.inputListeners)
}

func (rs *RenderSystem) onFramebufferResized(width, height int) {
	rs.mu.Lock()
	rs.viewport = Viewport{Width: width, Height: height}
	rs.mu.Unlock()

	core.LogDebug("framebuffer resized to %dx%d", width, height)
	for _, l := range rs.inputEventListeners() {
		if rl, ok := l.(ResizeListener); ok {
			rl.FramebufferResized(width, height)
		}
	}
}

/**
 * @brief Recompiles the shader loaded from path and relinks every program
 * using it. Programs keep their identity. When the new source fails to
 * compile the old shader stays in use and the error is returned.
 */
func (rs *RenderSystem) ReloadShader(path string) error {
	rs.mu.Lock()
	old, ok := rs.fileShaders[path]
	rs.mu.Unlock()
	if !ok {
		core.LogDebug("reload: %s is not a loaded shader", path)
		return nil
	}

	source, err := rs.loader.LoadShaderSource(path)
	if err != nil {
		return fmt.Errorf("reload %s: %w", path, err)
	}
	fresh, err := rs.createShader(old.Type(), source, path)
	if err != nil {
		return fmt.Errorf("reload %s: %w", path, err)
	}
	if fresh == old {
		rs.shaders.Release(fresh)
		return nil
	}

	var errs []error
	relinked := 0
	for _, p := range rs.programs.All() {
		if !p.HasShader(old) {
			continue
		}
		shaders := p.Shaders()
		for i, s := range shaders {
			if s == old {
				shaders[i] = fresh
			}
		}
		if err := rs.programs.Relink(p, shaders); err != nil {
			errs = append(errs, err)
			continue
		}
		relinked++
	}

	rs.mu.Lock()
	rs.fileShaders[path] = fresh
	rs.mu.Unlock()
	rs.shaders.Release(old)
	rs.shaders.Collect()

	core.LogInfo("reloaded shader %s, relinked %d programs", path, relinked)
	return errors.Join(errs...)
}

/**
 * @brief Drops the caller's ownership of a resource. Vertex data and
 * framebuffers are owned by a single caller and destroyed right away;
 * shared resources are destroyed at the end of the frame after their last
 * owner released them.
 */
func (rs *RenderSystem) Release(resource any) {
	switch r := resource.(type) {
	case *Shader:
		rs.shaders.Release(r)
	case *Program:
		rs.programs.Release(r)
	case *Texture:
		rs.textures.Release(r)
	case *VertexData:
		rs.mu.Lock()
		if i := slices.Index(rs.vertexData, r); i >= 0 {
			rs.vertexData = slices.Delete(rs.vertexData, i, i+1)
		}
		rs.mu.Unlock()
		r.Destroy()
	case *FrameBufferObject:
		rs.mu.Lock()
		if i := slices.Index(rs.framebuffers, r); i >= 0 {
			rs.framebuffers = slices.Delete(rs.framebuffers, i, i+1)
		}
		rs.mu.Unlock()
		r.Destroy()
		rs.textures.Release(r.ColorTexture())
	default:
		core.Assert(false, "cannot release %T", resource)
	}
}

// Shutdown destroys every resource still alive: vertex data, framebuffers,
// programs, shaders and textures in that order.
func (rs *RenderSystem) Shutdown() error {
	rs.mu.Lock()
	vertexData := rs.vertexData
	framebuffers := rs.framebuffers
	rs.vertexData = nil
	rs.framebuffers = nil
	rs.fileShaders = make(map[string]*Shader)
	rs.mu.Unlock()

	for _, vd := range vertexData {
		vd.Destroy()
	}
	for _, fbo := range framebuffers {
		fbo.Destroy()
	}
	rs.programs.Shutdown()
	rs.shaders.Shutdown()
	rs.textures.Shutdown()
	rs.cache.Reset()

	core.LogInfo("render system %s shut down", rs.id)
	return nil
}
