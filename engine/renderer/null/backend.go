// Package null provides a GraphicsBackend that needs no GPU. It keeps every
// object in memory and counts the calls it receives, which makes it the
// backend of choice for tests and headless runs.
package null

import (
	"sync"

	"github.com/spaghettifunk/anima-gl/engine/renderer"
	"github.com/spaghettifunk/anima-gl/engine/renderer/metadata"
	"golang.org/x/exp/maps"
)

// CompileFunc decides the outcome of compiling a shader.
type CompileFunc func(shaderType metadata.ShaderType, source string) (ok bool, log string)

// LinkFunc decides the outcome of linking a program from its shader sources.
type LinkFunc func(sources []string) (ok bool, log string)

/**
 * @brief A recorded draw call together with the state it was issued with.
 */
type DrawRecord struct {
	Mode        metadata.DrawMode
	First       int
	Count       int
	Indexed     bool
	Program     uint32
	VertexArray uint32
	Framebuffer uint32
	Textures    map[int]uint32
}

type shaderObject struct {
	shaderType metadata.ShaderType
	source     string
}

type programObject struct {
	shaders    []uint32
	linked     bool
	attributes []metadata.ProgramVariable
	outputs    []metadata.ProgramVariable
	uniforms   []metadata.ProgramVariable
	values     map[int32]metadata.UniformValue
}

type vertexArrayObject struct {
	elementBuffer uint32
	arrayBuffer   uint32
	attributes    []metadata.VertexAttribute
}

type textureObject struct {
	kind      metadata.TextureKind
	width     int
	height    int
	format    metadata.ColorFormat
	pixels    []uint8
	param     metadata.TextureParameter
	mipmapped bool
}

/**
 * @brief In-memory GraphicsBackend. Safe for concurrent use, although the
 * render system only calls it from one goroutine.
 */
type Backend struct {
	mu sync.Mutex

	calls  map[string]int
	nextID uint32
	failOn map[string]int

	compile CompileFunc
	link    LinkFunc

	shaders      map[uint32]*shaderObject
	programs     map[uint32]*programObject
	buffers      map[uint32][]byte
	vertexArrays map[uint32]*vertexArrayObject
	textures     map[uint32]*textureObject
	framebuffers map[uint32]uint32
	renderbuffer map[uint32]bool

	boundBuffers     map[metadata.BufferTarget]uint32
	mappedBuffers    map[metadata.BufferTarget]bool
	currentVAO       uint32
	currentProgram   uint32
	currentFB        uint32
	activeUnit       int
	unitBindings     map[int]uint32
	depthTest        bool
	depthFunc        metadata.DepthFunc
	viewport         [4]int
	clearColor       [4]float32
	clears           []metadata.ClearFlags
	draws            []DrawRecord
	attachedTexture  map[uint32]uint32
}

func New() *Backend {
	b := &Backend{}
	b.reset()
	return b
}

func (b *Backend) reset() {
	b.calls = make(map[string]int)
	b.failOn = make(map[string]int)
	b.shaders = make(map[uint32]*shaderObject)
	b.programs = make(map[uint32]*programObject)
	b.buffers = make(map[uint32][]byte)
	b.vertexArrays = make(map[uint32]*vertexArrayObject)
	b.textures = make(map[uint32]*textureObject)
	b.framebuffers = make(map[uint32]uint32)
	b.renderbuffer = make(map[uint32]bool)
	b.boundBuffers = make(map[metadata.BufferTarget]uint32)
	b.mappedBuffers = make(map[metadata.BufferTarget]bool)
	b.unitBindings = make(map[int]uint32)
	b.attachedTexture = make(map[uint32]uint32)
	b.depthFunc = metadata.DepthFuncLess
}

// SetCompileFunc overrides shader compilation; nil restores success.
func (b *Backend) SetCompileFunc(fn CompileFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.compile = fn
}

// SetLinkFunc overrides program linking; nil restores success.
func (b *Backend) SetLinkFunc(fn LinkFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.link = fn
}

// FailNext makes the next n calls of op return a zero handle (Create*)
// or report failure (FramebufferComplete).
func (b *Backend) FailNext(op string, n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failOn[op] += n
}

// Calls returns how often op was called since the last ResetCalls.
func (b *Backend) Calls(op string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[op]
}

// CallCounts returns a copy of every counter.
func (b *Backend) CallCounts() map[string]int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return maps.Clone(b.calls)
}

func (b *Backend) ResetCalls() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = make(map[string]int)
	b.draws = nil
	b.clears = nil
}

// record counts op; callers hold the lock.
func (b *Backend) record(op string) {
	b.calls[op]++
}

// allocate returns a fresh handle unless op was told to fail.
func (b *Backend) allocate(op string) uint32 {
	b.record(op)
	if b.failOn[op] > 0 {
		b.failOn[op]--
		return 0
	}
	b.nextID++
	return b.nextID
}

func (b *Backend) Kind() renderer.BackendKind { return renderer.BackendNull }

func (b *Backend) Info() renderer.DeviceInfo {
	return renderer.DeviceInfo{Vendor: "anima", Renderer: "null", Version: "0.0", GLSL: "none"}
}

// LiveObjects counts every object that was created and not deleted yet.
func (b *Backend) LiveObjects() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.shaders) + len(b.programs) + len(b.buffers) + len(b.vertexArrays) +
		len(b.textures) + len(b.framebuffers) + len(b.renderbuffer)
}

// Draws returns the draw calls recorded since the last ResetCalls.
func (b *Backend) Draws() []DrawRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]DrawRecord, len(b.draws))
	copy(out, b.draws)
	return out
}

// Clears returns the clear calls recorded since the last ResetCalls.
func (b *Backend) Clears() []metadata.ClearFlags {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]metadata.ClearFlags(nil), b.clears...)
}

func (b *Backend) DepthState() (bool, metadata.DepthFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.depthTest, b.depthFunc
}

func (b *Backend) CurrentProgram() uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.currentProgram
}

func (b *Backend) CurrentVertexArray() uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.currentVAO
}

func (b *Backend) CurrentFramebuffer() uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.currentFB
}

func (b *Backend) CurrentViewport() [4]int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.viewport
}

// BoundTexture returns the texture bound to unit.
func (b *Backend) BoundTexture(unit int) uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.unitBindings[unit]
}

// BufferContents returns a copy of the storage of buffer.
func (b *Backend) BufferContents(buffer uint32) []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.buffers[buffer]...)
}

// ElementBuffer returns the index buffer recorded in a vertex array.
func (b *Backend) ElementBuffer(vao uint32) uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if v, ok := b.vertexArrays[vao]; ok {
		return v.elementBuffer
	}
	return 0
}

// VertexArrayAttributes returns the attributes enabled on a vertex array.
func (b *Backend) VertexArrayAttributes(vao uint32) []metadata.VertexAttribute {
	b.mu.Lock()
	defer b.mu.Unlock()
	if v, ok := b.vertexArrays[vao]; ok {
		return append([]metadata.VertexAttribute(nil), v.attributes...)
	}
	return nil
}

// UniformValue returns the last value uploaded to a program uniform.
func (b *Backend) UniformValue(program uint32, name string) (metadata.UniformValue, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.programs[program]
	if !ok {
		return metadata.UniformValue{}, false
	}
	for _, u := range p.uniforms {
		if u.Name == name {
			v, ok := p.values[u.Location]
			return v, ok
		}
	}
	return metadata.UniformValue{}, false
}

// TextureSize returns the size and mipmap state of an uploaded texture.
func (b *Backend) TextureSize(texture uint32) (width, height int, mipmapped bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if t, ok := b.textures[texture]; ok {
		return t.width, t.height, t.mipmapped
	}
	return 0, 0, false
}

var _ renderer.GraphicsBackend = (*Backend)(nil)
