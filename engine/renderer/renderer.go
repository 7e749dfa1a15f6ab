package renderer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/spaghettifunk/anima-gl/engine/core"
	"github.com/spaghettifunk/anima-gl/engine/math"
	"github.com/spaghettifunk/anima-gl/engine/renderer/metadata"
	"golang.org/x/exp/slices"
)

// Uniforms set by the renderer for every draw.
const (
	UniformModelViewProjection = "u_matMVP"
	UniformModel               = "u_matM"
	UniformProjection          = "u_matP"
)

/**
 * @brief Notified around every rendered frame.
 */
type FrameListener interface {
	FrameRenderingBegin(target *RenderTarget)
	FrameRenderingEnd(target *RenderTarget)
}

/**
 * @brief Runs the frame loop: bind the target, apply per-program uniforms
 * once, then for every command set the matrices and draw through the state
 * cache. Resources are realized lazily the first time a command uses them.
 */
type Renderer struct {
	backend  GraphicsBackend
	cache    *StateCacheManager
	shaders  *ShaderManager
	programs *ProgramManager
	textures *TextureManager

	mu        sync.Mutex
	listeners []FrameListener

	frame     uint64
	lastStats FrameStats
}

func NewRenderer(backend GraphicsBackend, cache *StateCacheManager, shaders *ShaderManager, programs *ProgramManager, textures *TextureManager) *Renderer {
	return &Renderer{
		backend:  backend,
		cache:    cache,
		shaders:  shaders,
		programs: programs,
		textures: textures,
	}
}

func (r *Renderer) AddFrameListener(l FrameListener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, l)
}

func (r *Renderer) RemoveFrameListener(l FrameListener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := slices.Index(r.listeners, l); i >= 0 {
		r.listeners = slices.Delete(r.listeners, i, i+1)
	}
}

func (r *Renderer) frameListeners() []FrameListener {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.listeners)
}

// LastFrameStats returns the statistics of the previous Render call.
func (r *Renderer) LastFrameStats() FrameStats {
	return r.lastStats
}

/**
 * @brief Renders one frame into target. A command whose resources cannot be
 * realized, or whose program is invalid, is skipped and the frame goes on.
 * The realization errors of the frame are returned joined together.
 */
func (r *Renderer) Render(target *RenderTarget) error {
	r.frame++
	before := r.cache.Stats()
	stats := FrameStats{Frame: r.frame, Commands: len(target.Commands)}
	var errs []error

	// frame begin
	if target.FrameBuffer != nil {
		r.cache.BindFrameBufferObject(target.FrameBuffer)
	} else {
		r.cache.UnbindFrameBufferObject()
	}
	if target.Viewport.Width > 0 && target.Viewport.Height > 0 {
		r.cache.SetViewport(target.Viewport)
	}
	if target.Clear != 0 {
		c := target.ClearColor
		r.backend.ClearColor(c.X, c.Y, c.Z, c.W)
		r.backend.Clear(target.Clear)
	}
	viewProjection, projection := math.NewMat4Identity(), math.NewMat4Identity()
	if target.Camera != nil {
		projection = target.Camera.Projection()
		viewProjection = target.Camera.View().Mul(projection)
	}

	listeners := r.frameListeners()
	for _, l := range listeners {
		l.FrameRenderingBegin(target)
	}

	programsSeen := make(map[*Program]bool)
	for i := range target.Commands {
		cmd := &target.Commands[i]

		ok, err := r.realize(cmd.State)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: command %d: %w", target.Name, i, err))
		}
		if !ok {
			stats.Skipped++
			continue
		}

		program := cmd.State.Program
		if !programsSeen[program] {
			programsSeen[program] = true
			r.applyProgramUniforms(program, target)
		}

		r.cache.SetUniform(program, UniformModelViewProjection, metadata.UniformMat4Value(cmd.Model.Mul(viewProjection)))
		r.cache.SetUniform(program, UniformModel, metadata.UniformMat4Value(cmd.Model))
		r.cache.SetUniform(program, UniformProjection, metadata.UniformMat4Value(projection))
		for name, value := range cmd.Uniforms {
			r.cache.SetUniform(program, name, value)
		}

		if !r.cache.Draw(*cmd) {
			stats.Skipped++
		}
	}

	// frame end
	for _, l := range listeners {
		l.FrameRenderingEnd(target)
	}
	if target.FrameBuffer != nil {
		r.cache.UnbindFrameBufferObject()
	}

	r.shaders.Collect()
	r.programs.Collect()
	r.textures.Collect()

	stats.Errors = len(errs)
	stats.Cache = r.cache.Stats().Sub(before)
	r.lastStats = stats
	return errors.Join(errs...)
}

func (r *Renderer) applyProgramUniforms(program *Program, target *RenderTarget) {
	for name, value := range target.Uniforms {
		r.cache.SetUniform(program, name, value)
	}
	for name, unit := range program.textureSamplers {
		r.cache.SetUniform(program, name, metadata.UniformIntValue(int32(unit)))
	}
}

/**
 * @brief Makes every resource of state valid. ok is false when the command
 * cannot be drawn; err is set only when a realization failed right now, so
 * a broken resource is reported once and skipped afterwards.
 */
func (r *Renderer) realize(state RenderState) (ok bool, err error) {
	program := state.Program
	if program == nil || state.VertexData == nil {
		core.LogWarn("skipping draw without program or vertex data")
		return false, nil
	}
	if !program.IsValid() {
		if program.Err() != nil {
			return false, nil
		}
		if err := r.realizeProgram(program); err != nil {
			return false, err
		}
	}

	for _, texture := range state.Textures {
		if texture == nil || texture.IsValid() {
			continue
		}
		if texture.Err() != nil {
			return false, nil
		}
		if err := r.textures.MakeValid(texture); err != nil {
			return false, err
		}
	}

	return state.VertexData.IsValid(), nil
}

func (r *Renderer) realizeProgram(program *Program) error {
	for _, shader := range program.shaders {
		if shader.IsValid() {
			continue
		}
		err := shader.Err()
		if err == nil {
			err = r.shaders.MakeValid(shader)
		}
		if err != nil {
			return r.programs.fail(program, fmt.Errorf("shader %s: %w", shader.ID(), err))
		}
	}
	return r.programs.MakeValid(program)
}
