package opengl

import (
	"github.com/go-gl/gl/v4.5-core/gl"
	"github.com/spaghettifunk/anima-gl/engine/renderer/metadata"
)

var shaderTypes = map[metadata.ShaderType]uint32{
	metadata.ShaderTypeCompute:        gl.COMPUTE_SHADER,
	metadata.ShaderTypeVertex:         gl.VERTEX_SHADER,
	metadata.ShaderTypeTessControl:    gl.TESS_CONTROL_SHADER,
	metadata.ShaderTypeTessEvaluation: gl.TESS_EVALUATION_SHADER,
	metadata.ShaderTypeGeometry:       gl.GEOMETRY_SHADER,
	metadata.ShaderTypeFragment:       gl.FRAGMENT_SHADER,
}

func bufferTarget(t metadata.BufferTarget) uint32 {
	if t == metadata.BufferTargetIndex {
		return gl.ELEMENT_ARRAY_BUFFER
	}
	return gl.ARRAY_BUFFER
}

func bufferHint(h metadata.BufferHint) uint32 {
	switch h {
	case metadata.BufferHintDynamicDraw:
		return gl.DYNAMIC_DRAW
	case metadata.BufferHintStreamDraw:
		return gl.STREAM_DRAW
	default:
		return gl.STATIC_DRAW
	}
}

func mapAccess(a metadata.MapAccess) uint32 {
	switch a {
	case metadata.MapReadOnly:
		return gl.MAP_READ_BIT
	case metadata.MapWriteOnly:
		return gl.MAP_WRITE_BIT
	default:
		return gl.MAP_READ_BIT | gl.MAP_WRITE_BIT
	}
}

func attributeType(t metadata.AttributeType) uint32 {
	switch t {
	case metadata.AttributeUInt8:
		return gl.UNSIGNED_BYTE
	case metadata.AttributeInt8:
		return gl.BYTE
	case metadata.AttributeUInt16:
		return gl.UNSIGNED_SHORT
	case metadata.AttributeInt16:
		return gl.SHORT
	case metadata.AttributeUInt32:
		return gl.UNSIGNED_INT
	case metadata.AttributeInt32:
		return gl.INT
	default:
		return gl.FLOAT
	}
}

func textureTarget(k metadata.TextureKind) uint32 {
	switch k {
	case metadata.Texture1D:
		return gl.TEXTURE_1D
	case metadata.Texture3D:
		return gl.TEXTURE_3D
	case metadata.TextureCubeMap:
		return gl.TEXTURE_CUBE_MAP
	default:
		return gl.TEXTURE_2D
	}
}

// pixelFormat returns the internal format and the client format of pixels.
func pixelFormat(f metadata.ColorFormat) (internal int32, format uint32) {
	switch f {
	case metadata.ColorFormatRGB:
		return gl.RGB8, gl.RGB
	case metadata.ColorFormatBGR:
		return gl.RGB8, gl.BGR
	case metadata.ColorFormatBGRA:
		return gl.RGBA8, gl.BGRA
	default:
		return gl.RGBA8, gl.RGBA
	}
}

func textureFilter(f metadata.TextureFilter) int32 {
	if f == metadata.TextureFilterNearest {
		return gl.NEAREST
	}
	return gl.LINEAR
}

func mipmapFilter(f metadata.MipmapFilter) int32 {
	switch f {
	case metadata.MipmapNearestNearest:
		return gl.NEAREST_MIPMAP_NEAREST
	case metadata.MipmapNearestLinear:
		return gl.LINEAR_MIPMAP_NEAREST
	case metadata.MipmapLinearNearest:
		return gl.NEAREST_MIPMAP_LINEAR
	default:
		return gl.LINEAR_MIPMAP_LINEAR
	}
}

func edgeSampling(e metadata.TextureEdgeSampling) int32 {
	switch e {
	case metadata.TextureEdgeMirroredRepeat:
		return gl.MIRRORED_REPEAT
	case metadata.TextureEdgeClampToEdge:
		return gl.CLAMP_TO_EDGE
	case metadata.TextureEdgeClampToBorder:
		return gl.CLAMP_TO_BORDER
	default:
		return gl.REPEAT
	}
}

func depthFunc(f metadata.DepthFunc) uint32 {
	switch f {
	case metadata.DepthFuncNever:
		return gl.NEVER
	case metadata.DepthFuncEqual:
		return gl.EQUAL
	case metadata.DepthFuncLessEqual:
		return gl.LEQUAL
	case metadata.DepthFuncGreater:
		return gl.GREATER
	case metadata.DepthFuncNotEqual:
		return gl.NOTEQUAL
	case metadata.DepthFuncGreaterEqual:
		return gl.GEQUAL
	case metadata.DepthFuncAlways:
		return gl.ALWAYS
	default:
		return gl.LESS
	}
}

func clearMask(flags metadata.ClearFlags) uint32 {
	var mask uint32
	if flags&metadata.ClearColor != 0 {
		mask |= gl.COLOR_BUFFER_BIT
	}
	if flags&metadata.ClearDepth != 0 {
		mask |= gl.DEPTH_BUFFER_BIT
	}
	if flags&metadata.ClearStencil != 0 {
		mask |= gl.STENCIL_BUFFER_BIT
	}
	return mask
}

func drawMode(m metadata.DrawMode) uint32 {
	switch m {
	case metadata.DrawModeTriangleStrip:
		return gl.TRIANGLE_STRIP
	case metadata.DrawModeLines:
		return gl.LINES
	case metadata.DrawModePoints:
		return gl.POINTS
	default:
		return gl.TRIANGLES
	}
}

func uniformType(t uint32) metadata.UniformType {
	switch t {
	case gl.INT:
		return metadata.UniformInt
	case gl.FLOAT:
		return metadata.UniformFloat
	case gl.BOOL:
		return metadata.UniformBool
	case gl.FLOAT_VEC2:
		return metadata.UniformVec2
	case gl.FLOAT_VEC3:
		return metadata.UniformVec3
	case gl.FLOAT_VEC4:
		return metadata.UniformVec4
	case gl.FLOAT_MAT4:
		return metadata.UniformMat4
	case gl.SAMPLER_1D, gl.SAMPLER_2D, gl.SAMPLER_3D, gl.SAMPLER_CUBE,
		gl.SAMPLER_2D_SHADOW, gl.SAMPLER_2D_ARRAY, gl.INT_SAMPLER_2D, gl.UNSIGNED_INT_SAMPLER_2D:
		return metadata.UniformSampler
	default:
		return metadata.UniformInvalid
	}
}
