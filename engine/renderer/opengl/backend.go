// Package opengl implements the GraphicsBackend on top of an OpenGL 4.5
// core context. A context must be current on the calling goroutine before
// New is called, and every call afterwards must come from that goroutine.
package opengl

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.5-core/gl"
	"github.com/spaghettifunk/anima-gl/engine/core"
	"github.com/spaghettifunk/anima-gl/engine/renderer"
)

// messages that only report buffer placement
var ignoredDebugMessages = []uint32{131185}

type Backend struct {
	info renderer.DeviceInfo
}

/**
 * @brief Loads the OpenGL entry points of the current context. With debug
 * enabled the driver's debug output is routed to the engine logger.
 */
func New(debug bool) (*Backend, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("%w: %s", core.ErrVersionUnavailable, err.Error())
	}

	b := &Backend{
		info: renderer.DeviceInfo{
			Vendor:   gl.GoStr(gl.GetString(gl.VENDOR)),
			Renderer: gl.GoStr(gl.GetString(gl.RENDERER)),
			Version:  gl.GoStr(gl.GetString(gl.VERSION)),
			GLSL:     gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION)),
		},
	}
	if b.info.Version == "" {
		return nil, core.ErrNoContext
	}

	if debug {
		enableDebugOutput()
	}
	core.LogInfo("OpenGL %s (%s, %s)", b.info.Version, b.info.Vendor, b.info.Renderer)
	return b, nil
}

func enableDebugOutput() {
	gl.Enable(gl.DEBUG_OUTPUT)
	gl.Enable(gl.DEBUG_OUTPUT_SYNCHRONOUS)
	gl.DebugMessageCallback(func(source, gltype, id, severity uint32, length int32, message string, userParam unsafe.Pointer) {
		message = strings.TrimSpace(message)
		switch severity {
		case gl.DEBUG_SEVERITY_HIGH:
			core.Logger().Error("gl debug", "id", id, "source", debugSource(source), "msg", message)
		case gl.DEBUG_SEVERITY_MEDIUM:
			core.Logger().Warn("gl debug", "id", id, "source", debugSource(source), "msg", message)
		default:
			core.Logger().Debug("gl debug", "id", id, "source", debugSource(source), "msg", message)
		}
	}, nil)
	gl.DebugMessageControl(gl.DEBUG_SOURCE_API, gl.DEBUG_TYPE_OTHER, gl.DONT_CARE,
		int32(len(ignoredDebugMessages)), &ignoredDebugMessages[0], false)
}

func debugSource(source uint32) string {
	switch source {
	case gl.DEBUG_SOURCE_API:
		return "api"
	case gl.DEBUG_SOURCE_SHADER_COMPILER:
		return "shader compiler"
	case gl.DEBUG_SOURCE_WINDOW_SYSTEM:
		return "window system"
	case gl.DEBUG_SOURCE_THIRD_PARTY:
		return "third party"
	case gl.DEBUG_SOURCE_APPLICATION:
		return "application"
	default:
		return "other"
	}
}

func (b *Backend) Kind() renderer.BackendKind { return renderer.BackendOpenGL }

func (b *Backend) Info() renderer.DeviceInfo { return b.info }

var _ renderer.GraphicsBackend = (*Backend)(nil)
