package core

import (
	"errors"
)

var (
	ErrUnknown = errors.New("unknown")

	// resource realization
	ErrEmptyShaderSource      = errors.New("empty shader source")
	ErrShaderCreate           = errors.New("cannot create shader")
	ErrShaderCompile          = errors.New("failed to compile shader")
	ErrProgramCreate          = errors.New("failed to create program")
	ErrProgramLink            = errors.New("failed to link program")
	ErrInvalidVertexAttribute = errors.New("invalid vertex attribute")
	ErrInvalidFragmentOutput  = errors.New("invalid output fragment data")
	ErrImageDecode            = errors.New("failed to decode image")
	ErrTextureCreate          = errors.New("cannot create texture")
	ErrBufferCreate           = errors.New("cannot create buffer")
	ErrVertexArrayCreate      = errors.New("cannot create vertex array object")
	ErrFramebufferCreate      = errors.New("cannot create framebuffer")
	ErrFramebufferIncomplete  = errors.New("framebuffer is incomplete")

	// context and platform
	ErrNoContext          = errors.New("no current graphics context")
	ErrVersionUnavailable = errors.New("requested OpenGL version unavailable")
	ErrInvalidOptions     = errors.New("invalid options")
)
