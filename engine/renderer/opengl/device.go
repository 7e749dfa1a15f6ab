package opengl

import (
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.5-core/gl"
	"github.com/spaghettifunk/anima-gl/engine/renderer/metadata"
)

func (b *Backend) CreateShader(shaderType metadata.ShaderType) uint32 {
	return gl.CreateShader(shaderTypes[shaderType])
}

func (b *Backend) CompileShader(shader uint32, source string) (bool, string) {
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.TRUE {
		return true, ""
	}
	var logLength int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
	log := strings.Repeat("\x00", int(logLength+1))
	gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
	return false, strings.TrimRight(log, "\x00")
}

func (b *Backend) DeleteShader(shader uint32) {
	gl.DeleteShader(shader)
}

func (b *Backend) CreateProgram() uint32 {
	return gl.CreateProgram()
}

func (b *Backend) AttachShader(program, shader uint32) {
	gl.AttachShader(program, shader)
}

func (b *Backend) BindAttributeLocation(program, location uint32, name string) {
	gl.BindAttribLocation(program, location, gl.Str(name+"\x00"))
}

func (b *Backend) BindFragDataLocation(program, colorNumber uint32, name string) {
	gl.BindFragDataLocation(program, colorNumber, gl.Str(name+"\x00"))
}

func (b *Backend) LinkProgram(program uint32) (bool, string) {
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.TRUE {
		return true, ""
	}
	var logLength int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
	log := strings.Repeat("\x00", int(logLength+1))
	gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
	return false, strings.TrimRight(log, "\x00")
}

type activeFunc func(program, index uint32, bufSize int32, length *int32, size *int32, xtype *uint32, name *uint8)

func activeVariables(program uint32, count, maxLength uint32, active activeFunc, location func(uint32, *uint8) int32) []metadata.ProgramVariable {
	var n, maxLen int32
	gl.GetProgramiv(program, count, &n)
	gl.GetProgramiv(program, maxLength, &maxLen)

	out := make([]metadata.ProgramVariable, 0, n)
	buf := make([]uint8, maxLen+1)
	for i := uint32(0); i < uint32(n); i++ {
		var length, size int32
		var xtype uint32
		active(program, i, int32(len(buf)), &length, &size, &xtype, &buf[0])
		name := string(buf[:length])
		out = append(out, metadata.ProgramVariable{
			Name:     strings.TrimSuffix(name, "[0]"),
			Location: location(program, &buf[0]),
			Type:     uniformType(xtype),
			Size:     size,
		})
	}
	return out
}

func (b *Backend) ActiveAttributes(program uint32) []metadata.ProgramVariable {
	return activeVariables(program, gl.ACTIVE_ATTRIBUTES, gl.ACTIVE_ATTRIBUTE_MAX_LENGTH, gl.GetActiveAttrib, gl.GetAttribLocation)
}

func (b *Backend) ActiveUniforms(program uint32) []metadata.ProgramVariable {
	return activeVariables(program, gl.ACTIVE_UNIFORMS, gl.ACTIVE_UNIFORM_MAX_LENGTH, gl.GetActiveUniform, gl.GetUniformLocation)
}

// FragmentOutputs queries the program output interface.
func (b *Backend) FragmentOutputs(program uint32) []metadata.ProgramVariable {
	var n, maxLen int32
	gl.GetProgramInterfaceiv(program, gl.PROGRAM_OUTPUT, gl.ACTIVE_RESOURCES, &n)
	gl.GetProgramInterfaceiv(program, gl.PROGRAM_OUTPUT, gl.MAX_NAME_LENGTH, &maxLen)

	out := make([]metadata.ProgramVariable, 0, n)
	buf := make([]uint8, maxLen+1)
	for i := uint32(0); i < uint32(n); i++ {
		var length int32
		gl.GetProgramResourceName(program, gl.PROGRAM_OUTPUT, i, int32(len(buf)), &length, &buf[0])
		out = append(out, metadata.ProgramVariable{
			Name:     string(buf[:length]),
			Location: gl.GetProgramResourceLocation(program, gl.PROGRAM_OUTPUT, &buf[0]),
			Size:     1,
		})
	}
	return out
}

func (b *Backend) UseProgram(program uint32) {
	gl.UseProgram(program)
}

// SetUniform writes directly into program without binding it.
func (b *Backend) SetUniform(program uint32, location int32, value metadata.UniformValue) {
	count := int32(value.Count)
	switch value.Type {
	case metadata.UniformInt, metadata.UniformBool, metadata.UniformSampler:
		gl.ProgramUniform1iv(program, location, count, &value.Ints[0])
	case metadata.UniformFloat:
		gl.ProgramUniform1fv(program, location, count, &value.Floats[0])
	case metadata.UniformVec2:
		gl.ProgramUniform2fv(program, location, count, &value.Floats[0])
	case metadata.UniformVec3:
		gl.ProgramUniform3fv(program, location, count, &value.Floats[0])
	case metadata.UniformVec4:
		gl.ProgramUniform4fv(program, location, count, &value.Floats[0])
	case metadata.UniformMat4:
		gl.ProgramUniformMatrix4fv(program, location, count, false, &value.Floats[0])
	}
}

func (b *Backend) DeleteProgram(program uint32) {
	gl.DeleteProgram(program)
}

func (b *Backend) CreateBuffer() uint32 {
	var id uint32
	gl.GenBuffers(1, &id)
	return id
}

func (b *Backend) BindBuffer(target metadata.BufferTarget, buffer uint32) {
	gl.BindBuffer(bufferTarget(target), buffer)
}

func (b *Backend) BufferData(target metadata.BufferTarget, numBytes int, data []byte, hint metadata.BufferHint) {
	var ptr unsafe.Pointer
	if len(data) > 0 {
		ptr = gl.Ptr(data)
	}
	gl.BufferData(bufferTarget(target), numBytes, ptr, bufferHint(hint))
}

func (b *Backend) BufferSubData(target metadata.BufferTarget, offset int, data []byte) {
	if len(data) == 0 {
		return
	}
	gl.BufferSubData(bufferTarget(target), offset, len(data), gl.Ptr(data))
}

func (b *Backend) MapBuffer(target metadata.BufferTarget, numBytes int, access metadata.MapAccess) []byte {
	if numBytes == 0 {
		return nil
	}
	ptr := gl.MapBufferRange(bufferTarget(target), 0, numBytes, mapAccess(access))
	if ptr == nil {
		return nil
	}
	return unsafe.Slice((*byte)(ptr), numBytes)
}

func (b *Backend) UnmapBuffer(target metadata.BufferTarget) bool {
	return gl.UnmapBuffer(bufferTarget(target))
}

func (b *Backend) DeleteBuffer(buffer uint32) {
	gl.DeleteBuffers(1, &buffer)
}

func (b *Backend) CreateVertexArray() uint32 {
	var id uint32
	gl.GenVertexArrays(1, &id)
	return id
}

func (b *Backend) BindVertexArray(vao uint32) {
	gl.BindVertexArray(vao)
}

func (b *Backend) EnableVertexAttribute(attribute metadata.VertexAttribute, stride int) {
	location := attribute.Kind.Location()
	gl.EnableVertexAttribArray(location)
	gl.VertexAttribPointer(location, int32(attribute.NumElements), attributeType(attribute.Type),
		attribute.Normalize, int32(stride), gl.PtrOffset(attribute.Offset))
}

func (b *Backend) DeleteVertexArray(vao uint32) {
	gl.DeleteVertexArrays(1, &vao)
}

func (b *Backend) CreateTexture() uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	return id
}

func (b *Backend) ActiveTextureUnit(unit int) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
}

func (b *Backend) BindTexture(kind metadata.TextureKind, texture uint32) {
	gl.BindTexture(textureTarget(kind), texture)
}

func (b *Backend) TexImage2D(width, height int, format metadata.ColorFormat, pixels []uint8) {
	internal, client := pixelFormat(format)
	var ptr unsafe.Pointer
	if len(pixels) > 0 {
		ptr = gl.Ptr(pixels)
	}
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internal, int32(width), int32(height), 0, client, gl.UNSIGNED_BYTE, ptr)
}

func (b *Backend) TextureParameters(param metadata.TextureParameter) {
	target := textureTarget(param.Kind)
	minFilter := textureFilter(param.MinFilter)
	if param.UseMipmap {
		minFilter = mipmapFilter(param.MinMipmapFilter())
	}
	gl.TexParameteri(target, gl.TEXTURE_MIN_FILTER, minFilter)
	gl.TexParameteri(target, gl.TEXTURE_MAG_FILTER, textureFilter(param.MagFilter))
	gl.TexParameteri(target, gl.TEXTURE_WRAP_S, edgeSampling(param.Dim1EdgeSampling))
	gl.TexParameteri(target, gl.TEXTURE_WRAP_T, edgeSampling(param.Dim2EdgeSampling))
	gl.TexParameteri(target, gl.TEXTURE_WRAP_R, edgeSampling(param.Dim3EdgeSampling))
}

func (b *Backend) GenerateMipmap(kind metadata.TextureKind) {
	gl.GenerateMipmap(textureTarget(kind))
}

func (b *Backend) DeleteTexture(texture uint32) {
	gl.DeleteTextures(1, &texture)
}

func (b *Backend) CreateFramebuffer() uint32 {
	var id uint32
	gl.GenFramebuffers(1, &id)
	return id
}

func (b *Backend) BindFramebuffer(framebuffer uint32) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, framebuffer)
}

func (b *Backend) AttachColorTexture(texture uint32) {
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, texture, 0)
}

func (b *Backend) AttachDepthStencil(width, height int) uint32 {
	var rb uint32
	gl.GenRenderbuffers(1, &rb)
	gl.BindRenderbuffer(gl.RENDERBUFFER, rb)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH24_STENCIL8, int32(width), int32(height))
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_STENCIL_ATTACHMENT, gl.RENDERBUFFER, rb)
	return rb
}

func (b *Backend) FramebufferComplete() bool {
	return gl.CheckFramebufferStatus(gl.FRAMEBUFFER) == gl.FRAMEBUFFER_COMPLETE
}

func (b *Backend) DeleteFramebuffer(framebuffer, depthStencil uint32) {
	if depthStencil != 0 {
		gl.DeleteRenderbuffers(1, &depthStencil)
	}
	gl.DeleteFramebuffers(1, &framebuffer)
}

func (b *Backend) Viewport(x, y, width, height int) {
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

func (b *Backend) ClearColor(r, g, bl, a float32) {
	gl.ClearColor(r, g, bl, a)
}

func (b *Backend) Clear(flags metadata.ClearFlags) {
	gl.Clear(clearMask(flags))
}

func (b *Backend) SetDepthTest(enabled bool) {
	if enabled {
		gl.Enable(gl.DEPTH_TEST)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
}

func (b *Backend) SetDepthFunc(fn metadata.DepthFunc) {
	gl.DepthFunc(depthFunc(fn))
}

func (b *Backend) DrawArrays(mode metadata.DrawMode, first, count int) {
	gl.DrawArrays(drawMode(mode), int32(first), int32(count))
}

func (b *Backend) DrawElements(mode metadata.DrawMode, count int) {
	gl.DrawElements(drawMode(mode), int32(count), gl.UNSIGNED_INT, nil)
}
