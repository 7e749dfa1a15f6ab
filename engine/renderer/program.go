package renderer

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/spaghettifunk/anima-gl/engine/core"
	"github.com/spaghettifunk/anima-gl/engine/renderer/metadata"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

/**
 * @brief A linked shader program. Programs are deduplicated by the set of
 * shaders they are linked from.
 */
type Program struct {
	Resource

	shaders []*Shader
	id      uint32

	uniforms map[string]metadata.ProgramVariable
	// sampler uniform name -> texture unit, taken from the texN_ prefix
	textureSamplers map[string]int
}

func (p *Program) handle() *Resource { return &p.Resource }

func (p *Program) Handle() uint32 { return p.id }

func (p *Program) Shaders() []*Shader {
	return slices.Clone(p.shaders)
}

// HasShader reports whether s is part of the program.
func (p *Program) HasShader(s *Shader) bool {
	return slices.Contains(p.shaders, s)
}

// Uniform returns the active uniform called name.
func (p *Program) Uniform(name string) (metadata.ProgramVariable, bool) {
	v, ok := p.uniforms[name]
	return v, ok
}

// UniformNames returns the active uniform names, sorted.
func (p *Program) UniformNames() []string {
	names := make([]string, 0, len(p.uniforms))
	for name := range p.uniforms {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// TextureSamplers maps each texN_ sampler uniform to its texture unit N.
func (p *Program) TextureSamplers() map[string]int {
	return maps.Clone(p.textureSamplers)
}

func (p *Program) destroy(backend GraphicsBackend) {
	if p.id != 0 {
		backend.DeleteProgram(p.id)
		p.id = 0
	}
	p.uniforms = nil
	p.textureSamplers = nil
	p.markDestroyed()
}

type ProgramManager struct {
	manager[*Program]
}

// NewProgramManager creates the manager. Destroyed programs are dropped from
// the cache together with their cached uniform values.
func NewProgramManager(backend GraphicsBackend, cache *StateCacheManager) *ProgramManager {
	m := &ProgramManager{manager: newManager[*Program]("ProgramManager", backend)}
	m.beforeDestroy = cache.forgetProgram
	return m
}

func programKey(shaders []*Shader) uint64 {
	keys := make([]uint64, len(shaders))
	for i, s := range shaders {
		keys[i] = s.key
	}
	slices.Sort(keys)
	keys = slices.Compact(keys)

	d := xxhash.New()
	var b [8]byte
	for _, k := range keys {
		binary.LittleEndian.PutUint64(b[:], k)
		_, _ = d.Write(b[:])
	}
	return d.Sum64()
}

/**
 * @brief Returns the program linked from the given shaders, creating an
 * invalid one when none is registered. The order of shaders is irrelevant.
 */
func (m *ProgramManager) Create(shaders ...*Shader) *Program {
	return m.create(programKey(shaders), func() *Program {
		return &Program{
			Resource: newResource(m.backend.Kind()),
			shaders:  slices.Clone(shaders),
		}
	})
}

// MakeValid links the program. Every shader must already be valid. On
// failure the program is evicted from the registry.
func (m *ProgramManager) MakeValid(p *Program) error {
	if err := m.link(p); err != nil {
		return m.fail(p, err)
	}
	return nil
}

func (m *ProgramManager) link(p *Program) error {
	m.assertRealizable(p)
	for _, s := range p.shaders {
		core.Assert(s.IsValid(), "program %s: shader %s is not valid", p.ID(), s.ID())
	}

	p.id = m.backend.CreateProgram()
	if p.id == 0 {
		return core.ErrProgramCreate
	}
	for _, s := range p.shaders {
		m.backend.AttachShader(p.id, s.id)
	}
	for name, location := range metadata.AttributeLocations {
		m.backend.BindAttributeLocation(p.id, location, name)
	}
	for name, color := range metadata.FragmentOutputLocations {
		m.backend.BindFragDataLocation(p.id, color, name)
	}
	if ok, log := m.backend.LinkProgram(p.id); !ok {
		return fmt.Errorf("%w (ID=%d): %s", core.ErrProgramLink, p.id, log)
	}

	if err := checkAttributes(m.backend.ActiveAttributes(p.id)); err != nil {
		return err
	}
	if err := checkFragmentOutputs(m.backend.FragmentOutputs(p.id)); err != nil {
		return err
	}

	p.uniforms = make(map[string]metadata.ProgramVariable)
	p.textureSamplers = make(map[string]int)
	units := make(map[int]string)
	for _, u := range m.backend.ActiveUniforms(p.id) {
		p.uniforms[u.Name] = u
		unit, ok := textureUnitOf(u.Name)
		if !ok {
			continue
		}
		if other, dup := units[unit]; dup {
			core.LogWarn("program (ID=%d): texture unit %d is used by '%s' and '%s'", p.id, unit, other, u.Name)
		}
		units[unit] = u.Name
		p.textureSamplers[u.Name] = unit
	}

	p.markValid()
	core.LogDebug("linked program (ID=%d) with %d shaders, %d uniforms", p.id, len(p.shaders), len(p.uniforms))
	return nil
}

/**
 * @brief Links p again from a new set of shaders, keeping the *Program so
 * draw commands referring to it pick up the change. The registry key moves
 * along unless another program already owns the new key. On failure p stays
 * registered with the error and is skipped by the renderer until a later
 * relink succeeds.
 */
func (m *ProgramManager) Relink(p *Program, shaders []*Shader) error {
	m.mu.Lock()
	m.rekeyLocked(p, programKey(shaders))
	m.mu.Unlock()

	m.destroy(p)
	p.shaders = slices.Clone(shaders)
	p.err = nil
	if err := m.link(p); err != nil {
		return m.discard(p, err)
	}
	return nil
}

// checkAttributes rejects vertex inputs outside the fixed attribute set.
// Names starting with frag_ are interface variables and skipped, as are
// built-ins.
func checkAttributes(attributes []metadata.ProgramVariable) error {
	for _, a := range attributes {
		if strings.HasPrefix(a.Name, "frag_") || strings.HasPrefix(a.Name, "gl_") {
			continue
		}
		if _, ok := metadata.AttributeLocations[a.Name]; !ok {
			return fmt.Errorf("%w '%s'", core.ErrInvalidVertexAttribute, a.Name)
		}
	}
	return nil
}

// checkFragmentOutputs only looks at out_ names; built-ins are ignored.
func checkFragmentOutputs(outputs []metadata.ProgramVariable) error {
	for _, o := range outputs {
		if !strings.HasPrefix(o.Name, "out_") {
			continue
		}
		if _, ok := metadata.FragmentOutputLocations[o.Name]; !ok {
			return fmt.Errorf("%w '%s'", core.ErrInvalidFragmentOutput, o.Name)
		}
	}
	return nil
}

// textureUnitOf parses names like tex0_Diffuse.
func textureUnitOf(name string) (int, bool) {
	if !strings.HasPrefix(name, "tex") {
		return 0, false
	}
	end := strings.IndexByte(name, '_')
	if end <= 3 {
		return 0, false
	}
	unit, err := strconv.Atoi(name[3:end])
	if err != nil || unit < 0 {
		return 0, false
	}
	return unit, true
}
