package renderer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/spaghettifunk/anima-gl/engine/core"
	"github.com/spaghettifunk/anima-gl/engine/renderer/metadata"
)

/**
 * @brief A single shader stage. Shaders are deduplicated by type and source.
 */
type Shader struct {
	Resource

	shaderType metadata.ShaderType
	source     string
	path       string
	id         uint32
}

func (s *Shader) handle() *Resource { return &s.Resource }

func (s *Shader) Type() metadata.ShaderType { return s.shaderType }

func (s *Shader) Source() string { return s.source }

// Path is the file the source was read from, empty for inline sources.
func (s *Shader) Path() string { return s.path }

// Handle is the backend id, 0 while invalid.
func (s *Shader) Handle() uint32 { return s.id }

func (s *Shader) destroy(backend GraphicsBackend) {
	if s.id != 0 {
		backend.DeleteShader(s.id)
		s.id = 0
	}
	s.markDestroyed()
}

type ShaderManager struct {
	manager[*Shader]
}

func NewShaderManager(backend GraphicsBackend) *ShaderManager {
	return &ShaderManager{manager: newManager[*Shader]("ShaderManager", backend)}
}

func shaderKey(shaderType metadata.ShaderType, source string) uint64 {
	d := xxhash.New()
	var b [1]byte
	b[0] = byte(shaderType)
	_, _ = d.Write(b[:])
	_, _ = d.WriteString(source)
	return d.Sum64()
}

/**
 * @brief Returns the shader for the given type and source, creating an
 * invalid one when none is registered. Safe from any goroutine.
 */
func (m *ShaderManager) Create(shaderType metadata.ShaderType, source, path string) *Shader {
	return m.create(shaderKey(shaderType, source), func() *Shader {
		return &Shader{
			Resource:   newResource(m.backend.Kind()),
			shaderType: shaderType,
			source:     source,
			path:       path,
		}
	})
}

// MakeValid compiles the shader. Render goroutine only.
func (m *ShaderManager) MakeValid(s *Shader) error {
	m.assertRealizable(s)

	if strings.TrimSpace(s.source) == "" {
		return m.fail(s, fmt.Errorf("%w: %s shader %s", core.ErrEmptyShaderSource, s.shaderType, s.path))
	}
	s.id = m.backend.CreateShader(s.shaderType)
	if s.id == 0 {
		return m.fail(s, fmt.Errorf("%w: %s", core.ErrShaderCreate, s.shaderType))
	}
	ok, log := m.backend.CompileShader(s.id, s.source)
	if !ok {
		return m.fail(s, fmt.Errorf("%w (ID=%d):\n%s", core.ErrShaderCompile, s.id, compileLogWithSource(log, s.source)))
	}
	s.markValid()
	core.LogDebug("compiled %s shader (ID=%d) %s", s.shaderType, s.id, s.path)
	return nil
}

/**
 * @brief Appends the offending source line to a compiler log. Drivers report
 * errors as "0(12) : error ..." or "ERROR: 0:12: ..."; the number between
 * the first parentheses is taken as a 1-based row.
 */
func compileLogWithSource(log, source string) string {
	open := strings.IndexByte(log, '(')
	if open < 0 {
		return log
	}
	end := strings.IndexByte(log[open:], ')')
	if end < 0 {
		return log
	}
	row, err := strconv.Atoi(log[open+1 : open+end])
	if err != nil || row < 1 {
		return log
	}
	lines := strings.Split(source, "\n")
	if row > len(lines) {
		return log
	}
	return log + "\n  " + strings.TrimRight(lines[row-1], "\r") + "\n"
}
