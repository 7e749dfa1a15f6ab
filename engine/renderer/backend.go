package renderer

import "github.com/spaghettifunk/anima-gl/engine/renderer/metadata"

type BackendKind uint8

const (
	BackendNull BackendKind = iota
	BackendOpenGL
)

func (k BackendKind) String() string {
	switch k {
	case BackendOpenGL:
		return "OpenGL"
	default:
		return "Null"
	}
}

/**
 * @brief Driver strings reported by the device once the context is current.
 */
type DeviceInfo struct {
	Vendor   string
	Renderer string
	Version  string
	GLSL     string
}

/**
 * @brief The device a RenderSystem drives. Every call must happen on the
 * goroutine owning the graphics context. Object handles are plain ids where
 * 0 means "no object"; binding 0 restores the default.
 */
type GraphicsBackend interface {
	Kind() BackendKind
	Info() DeviceInfo

	// shaders
	CreateShader(shaderType metadata.ShaderType) uint32
	CompileShader(shader uint32, source string) (ok bool, log string)
	DeleteShader(shader uint32)

	// programs
	CreateProgram() uint32
	AttachShader(program, shader uint32)
	BindAttributeLocation(program, location uint32, name string)
	BindFragDataLocation(program, colorNumber uint32, name string)
	LinkProgram(program uint32) (ok bool, log string)
	ActiveAttributes(program uint32) []metadata.ProgramVariable
	ActiveUniforms(program uint32) []metadata.ProgramVariable
	FragmentOutputs(program uint32) []metadata.ProgramVariable
	UseProgram(program uint32)
	SetUniform(program uint32, location int32, value metadata.UniformValue)
	DeleteProgram(program uint32)

	// buffers
	CreateBuffer() uint32
	BindBuffer(target metadata.BufferTarget, buffer uint32)
	BufferData(target metadata.BufferTarget, numBytes int, data []byte, hint metadata.BufferHint)
	BufferSubData(target metadata.BufferTarget, offset int, data []byte)
	MapBuffer(target metadata.BufferTarget, numBytes int, access metadata.MapAccess) []byte
	UnmapBuffer(target metadata.BufferTarget) bool
	DeleteBuffer(buffer uint32)

	// vertex arrays
	CreateVertexArray() uint32
	BindVertexArray(vao uint32)
	EnableVertexAttribute(attribute metadata.VertexAttribute, stride int)
	DeleteVertexArray(vao uint32)

	// textures
	CreateTexture() uint32
	ActiveTextureUnit(unit int)
	BindTexture(kind metadata.TextureKind, texture uint32)
	TexImage2D(width, height int, format metadata.ColorFormat, pixels []uint8)
	TextureParameters(param metadata.TextureParameter)
	GenerateMipmap(kind metadata.TextureKind)
	DeleteTexture(texture uint32)

	// framebuffers
	CreateFramebuffer() uint32
	BindFramebuffer(framebuffer uint32)
	AttachColorTexture(texture uint32)
	AttachDepthStencil(width, height int) uint32
	FramebufferComplete() bool
	DeleteFramebuffer(framebuffer, depthStencil uint32)

	// fixed function state
	Viewport(x, y, width, height int)
	ClearColor(r, g, b, a float32)
	Clear(flags metadata.ClearFlags)
	SetDepthTest(enabled bool)
	SetDepthFunc(fn metadata.DepthFunc)

	DrawArrays(mode metadata.DrawMode, first, count int)
	DrawElements(mode metadata.DrawMode, count int)
}
