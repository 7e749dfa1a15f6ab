package renderer

import (
	"github.com/spaghettifunk/anima-gl/engine/math"
	"github.com/spaghettifunk/anima-gl/engine/renderer/metadata"
)

/**
 * @brief Everything the device needs to be set to for one draw.
 */
type RenderState struct {
	DepthTest  bool
	DepthFunc  metadata.DepthFunc
	Program    *Program
	VertexData *VertexData
	/** @brief Texture per texture unit. Units missing from the map are unbound. */
	Textures map[int]*Texture
}

func DefaultRenderState() RenderState {
	return RenderState{
		DepthTest: true,
		DepthFunc: metadata.DepthFuncLess,
	}
}

/**
 * @brief A single draw. Commands are produced fresh every frame and never
 * modified by the renderer.
 */
type DrawCommand struct {
	State    RenderState
	Model    math.Mat4
	Uniforms map[string]metadata.UniformValue
}

func NewDrawCommand(program *Program, vertexData *VertexData, model math.Mat4) DrawCommand {
	state := DefaultRenderState()
	state.Program = program
	state.VertexData = vertexData
	return DrawCommand{State: state, Model: model}
}

// WithTexture returns a copy of the command drawing with texture on unit.
func (c DrawCommand) WithTexture(unit int, texture *Texture) DrawCommand {
	textures := make(map[int]*Texture, len(c.State.Textures)+1)
	for u, t := range c.State.Textures {
		textures[u] = t
	}
	textures[unit] = texture
	c.State.Textures = textures
	return c
}

// WithUniform returns a copy of the command setting one more uniform.
func (c DrawCommand) WithUniform(name string, value metadata.UniformValue) DrawCommand {
	uniforms := make(map[string]metadata.UniformValue, len(c.Uniforms)+1)
	for n, v := range c.Uniforms {
		uniforms[n] = v
	}
	uniforms[name] = value
	c.Uniforms = uniforms
	return c
}

// DrawCommandList is executed strictly in order.
type DrawCommandList []DrawCommand

type Viewport struct {
	X, Y          int
	Width, Height int
}

/**
 * @brief What a frame renders into and with which commands. A nil
 * FrameBuffer targets the default framebuffer.
 */
type RenderTarget struct {
	Name        string
	FrameBuffer *FrameBufferObject
	Viewport    Viewport
	Clear       metadata.ClearFlags
	ClearColor  math.Vec4
	Camera      *Camera
	/** @brief Uniforms applied once per frame to every program drawn. */
	Uniforms map[string]metadata.UniformValue
	Commands DrawCommandList
}
