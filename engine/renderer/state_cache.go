package renderer

import (
	"github.com/spaghettifunk/anima-gl/engine/core"
	"github.com/spaghettifunk/anima-gl/engine/renderer/metadata"
	"golang.org/x/exp/slices"
)

/**
 * @brief Counters of the device calls issued through the cache.
 */
type CacheStats struct {
	ProgramBinds     int
	VertexDataBinds  int
	TextureBinds     int
	FramebufferBinds int
	UniformUploads   int
	DrawCalls        int
	SkippedDraws     int
}

/**
 * @brief Mirrors the device state and only issues the calls needed to reach
 * a requested RenderState. Render goroutine only. Commands are applied in
 * the order they are given; nothing is reordered.
 */
type StateCacheManager struct {
	backend GraphicsBackend

	// the depth state is forced once after construction or Reset
	depthKnown bool
	depthTest  bool
	depthFunc  metadata.DepthFunc

	currentProgram     *Program
	currentVertexData  *VertexData
	currentVertexArray uint32
	vertexArrayKnown   bool
	currentFrameBuffer *FrameBufferObject
	currentTextures    map[int]*Texture
	activeUnit         int

	viewport      Viewport
	viewportKnown bool

	uniforms map[*Program]map[string]metadata.UniformValue

	stats CacheStats
}

func NewStateCacheManager(backend GraphicsBackend) *StateCacheManager {
	c := &StateCacheManager{backend: backend}
	c.Reset()
	return c
}

// Reset forgets the mirrored state; the next calls set everything again.
func (c *StateCacheManager) Reset() {
	c.depthKnown = false
	c.currentProgram = nil
	c.currentVertexData = nil
	c.currentVertexArray = 0
	c.vertexArrayKnown = false
	c.currentFrameBuffer = nil
	c.currentTextures = make(map[int]*Texture)
	c.activeUnit = -1
	c.viewportKnown = false
	c.uniforms = make(map[*Program]map[string]metadata.UniformValue)
}

func (c *StateCacheManager) Stats() CacheStats { return c.stats }

func (c *StateCacheManager) ResetStats() { c.stats = CacheStats{} }

func (c *StateCacheManager) CurrentProgram() *Program { return c.currentProgram }

func (c *StateCacheManager) CurrentVertexData() *VertexData { return c.currentVertexData }

func (c *StateCacheManager) CurrentFrameBuffer() *FrameBufferObject { return c.currentFrameBuffer }

// CurrentTexture returns the texture bound to unit, if any.
func (c *StateCacheManager) CurrentTexture(unit int) *Texture { return c.currentTextures[unit] }

/**
 * @brief Transitions the device to state. The program goes first, then the
 * depth state, the textures and finally the vertex data. Returns false,
 * without touching the device, when the program or one of the textures is
 * not valid; the draw must then be skipped.
 */
func (c *StateCacheManager) SetRenderState(state RenderState) bool {
	program := state.Program
	if program == nil || !program.IsValid() {
		core.LogWarn("skipping draw: program %v is not valid", program)
		c.stats.SkippedDraws++
		return false
	}
	for unit, texture := range state.Textures {
		if texture == nil || !texture.IsValid() {
			core.LogWarn("skipping draw: texture on unit %d is not valid", unit)
			c.stats.SkippedDraws++
			return false
		}
	}
	vd := state.VertexData
	core.Assert(vd != nil, "draw without vertex data")
	if !vd.IsValid() {
		core.LogWarn("skipping draw: vertex data %s was destroyed", vd.Name())
		c.stats.SkippedDraws++
		return false
	}

	if c.currentProgram != program {
		c.backend.UseProgram(program.id)
		c.currentProgram = program
		c.stats.ProgramBinds++
	}

	if !c.depthKnown || c.depthTest != state.DepthTest {
		c.backend.SetDepthTest(state.DepthTest)
		c.depthTest = state.DepthTest
	}
	if !c.depthKnown || c.depthFunc != state.DepthFunc {
		c.backend.SetDepthFunc(state.DepthFunc)
		c.depthFunc = state.DepthFunc
	}
	c.depthKnown = true

	c.setTextures(state.Textures)

	if !c.vertexArrayKnown || c.currentVertexArray != vd.drawArray() {
		vd.BindForDrawing()
	}
	return true
}

func (c *StateCacheManager) setTextures(textures map[int]*Texture) {
	requested := make([]int, 0, len(textures))
	for unit := range textures {
		requested = append(requested, unit)
	}
	slices.Sort(requested)

	for _, unit := range requested {
		texture := textures[unit]
		if current, bound := c.currentTextures[unit]; bound && current == texture {
			continue
		}
		// either another texture or a unit unused so far
		c.BindTexture(unit, texture)
	}

	var stale []int
	for unit := range c.currentTextures {
		if _, ok := textures[unit]; !ok {
			stale = append(stale, unit)
		}
	}
	slices.Sort(stale)
	for _, unit := range stale {
		c.UnbindTexture(unit)
	}
}

// Draw sets the render state of cmd and issues its draw call.
func (c *StateCacheManager) Draw(cmd DrawCommand) bool {
	if !c.SetRenderState(cmd.State) {
		return false
	}
	cmd.State.VertexData.Draw()
	c.stats.DrawCalls++
	return true
}

/**
 * @brief Uploads value to the uniform called name unless the program already
 * holds that value. Returns false when the program has no such uniform or
 * the value does not fit it.
 */
func (c *StateCacheManager) SetUniform(program *Program, name string, value metadata.UniformValue) bool {
	variable, ok := program.Uniform(name)
	if !ok {
		return false
	}
	if !value.IsValid() || !value.CompatibleWith(variable.Type) {
		core.LogWarn("program (ID=%d): cannot set %s uniform '%s' with %s", program.id, variable.Type, name, value)
		return false
	}

	values, ok := c.uniforms[program]
	if !ok {
		values = make(map[string]metadata.UniformValue)
		c.uniforms[program] = values
	}
	if prev, ok := values[name]; ok && prev.Equal(value) {
		return true
	}
	c.backend.SetUniform(program.id, variable.Location, value)
	values[name] = value
	c.stats.UniformUploads++
	return true
}

func (c *StateCacheManager) BindFrameBufferObject(fbo *FrameBufferObject) {
	if c.currentFrameBuffer == fbo {
		return
	}
	c.backend.BindFramebuffer(fbo.id)
	c.currentFrameBuffer = fbo
	c.stats.FramebufferBinds++
}

// UnbindFrameBufferObject makes the default framebuffer current again.
func (c *StateCacheManager) UnbindFrameBufferObject() {
	if c.currentFrameBuffer == nil {
		return
	}
	c.backend.BindFramebuffer(0)
	c.currentFrameBuffer = nil
	c.stats.FramebufferBinds++
}

func (c *StateCacheManager) SetViewport(v Viewport) {
	if c.viewportKnown && c.viewport == v {
		return
	}
	c.backend.Viewport(v.X, v.Y, v.Width, v.Height)
	c.viewport = v
	c.viewportKnown = true
}

// BindTexture binds texture to unit regardless of the cached state.
func (c *StateCacheManager) BindTexture(unit int, texture *Texture) {
	c.activateUnit(unit)
	c.backend.BindTexture(texture.param.Kind, texture.id)
	c.currentTextures[unit] = texture
	c.stats.TextureBinds++
}

func (c *StateCacheManager) UnbindTexture(unit int) {
	current, ok := c.currentTextures[unit]
	if !ok {
		return
	}
	c.activateUnit(unit)
	c.backend.BindTexture(current.param.Kind, 0)
	delete(c.currentTextures, unit)
}

func (c *StateCacheManager) activateUnit(unit int) {
	if c.activeUnit == unit {
		return
	}
	c.backend.ActiveTextureUnit(unit)
	c.activeUnit = unit
}

func (c *StateCacheManager) bindVertexArray(vd *VertexData, vao uint32) {
	if c.vertexArrayKnown && c.currentVertexArray == vao {
		c.currentVertexData = vd
		return
	}
	c.backend.BindVertexArray(vao)
	c.currentVertexData = vd
	c.currentVertexArray = vao
	c.vertexArrayKnown = true
	if vd != nil {
		c.stats.VertexDataBinds++
	}
}

func (c *StateCacheManager) forgetProgram(p *Program) {
	if c.currentProgram == p {
		c.currentProgram = nil
	}
	delete(c.uniforms, p)
}

func (c *StateCacheManager) forgetTexture(t *Texture) {
	for unit, current := range c.currentTextures {
		if current == t {
			delete(c.currentTextures, unit)
		}
	}
}

func (c *StateCacheManager) forgetVertexData(vd *VertexData) {
	if c.currentVertexData == vd {
		c.currentVertexData = nil
		c.vertexArrayKnown = false
	}
}

func (c *StateCacheManager) forgetFrameBuffer(f *FrameBufferObject) {
	if c.currentFrameBuffer == f {
		c.currentFrameBuffer = nil
	}
}
