package engine

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/anima-gl/engine/core"
	"github.com/spaghettifunk/anima-gl/engine/math"
	"github.com/spaghettifunk/anima-gl/engine/renderer"
	"github.com/spaghettifunk/anima-gl/engine/renderer/metadata"
	"github.com/spaghettifunk/anima-gl/engine/renderer/null"
	"github.com/spaghettifunk/anima-gl/engine/systems"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vertexSource = `#version 330 core
in vec3 in_Position;
in vec2 in_TexCoord;
uniform mat4 u_matMVP;
out vec2 frag_TexCoord;
void main() {
	frag_TexCoord = in_TexCoord;
	gl_Position = u_matMVP * vec4(in_Position, 1.0);
}
`

const fragmentSource = `#version 330 core
in vec2 frag_TexCoord;
uniform sampler2D tex0_Diffuse;
out vec4 out_Color;
void main() {
	out_Color = texture(tex0_Diffuse, frag_TexCoord);
}
`

// closingWindow reports ShouldClose after a fixed number of frames.
type closingWindow struct {
	frames   int
	swaps    int
	width    int
	height   int
	onResize func(width, height int)
}

func (w *closingWindow) PollEvents()       {}
func (w *closingWindow) SwapBuffers()      { w.swaps++ }
func (w *closingWindow) ShouldClose() bool { return w.swaps >= w.frames }
func (w *closingWindow) FramebufferSize() (int, int) {
	return w.width, w.height
}
func (w *closingWindow) SetFramebufferSizeCallback(fn func(width, height int)) {
	w.onResize = fn
}

type cubeGame struct {
	*Game
	program *renderer.Program
	mesh    *systems.Mesh
	camera  *renderer.Camera
	updates int
	resizes [][2]uint32
}

func newCubeGame(t *testing.T, assetsDir string) *cubeGame {
	g := &cubeGame{Game: &Game{ApplicationConfig: &ApplicationConfig{AssetsDir: assetsDir}}}
	g.FnInitialize = func() error {
		rs := g.SystemManager.RenderSystem
		vs, err := rs.CreateShaderFromFile(metadata.ShaderTypeVertex, "shaders/cube.vert")
		if err != nil {
			return err
		}
		fs, err := rs.CreateShaderFromFile(metadata.ShaderTypeFragment, "shaders/cube.frag")
		if err != nil {
			return err
		}
		if g.program, err = rs.CreateProgram(vs, fs); err != nil {
			return err
		}
		g.mesh, err = g.SystemManager.MeshSystem.CreateCube("cube", false, systems.MeshParameter{}, metadata.BufferUsageStaticWriteOnly)
		g.camera = g.SystemManager.CameraSystem.GetDefault()
		return err
	}
	g.FnUpdate = func(float64) error {
		g.updates++
		return nil
	}
	g.FnRender = func(float64) (*renderer.RenderTarget, error) {
		cmd := renderer.NewDrawCommand(g.program, g.mesh.VertexData(), math.NewMat4Identity()).
			WithTexture(0, g.SystemManager.TextureSystem.GetDefault())
		return &renderer.RenderTarget{
			Name:     "main",
			Viewport: g.SystemManager.RenderSystem.Viewport(),
			Clear:    metadata.ClearColor | metadata.ClearDepth,
			Camera:   g.camera,
			Commands: renderer.DrawCommandList{cmd},
		}, nil
	}
	g.FnOnResize = func(w, h uint32) error {
		g.resizes = append(g.resizes, [2]uint32{w, h})
		return nil
	}
	g.FnShutdown = func() error {
		g.SystemManager.MeshSystem.Release(g.mesh)
		return nil
	}
	return g
}

func writeShaders(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	shaders := filepath.Join(dir, "shaders")
	require.NoError(t, os.Mkdir(shaders, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(shaders, "cube.vert"), []byte(vertexSource), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(shaders, "cube.frag"), []byte(fragmentSource), 0o644))
	return dir
}

func TestEngineRunsFramesUntilWindowCloses(t *testing.T) {
	core.SetLogOutput(io.Discard)
	dir := writeShaders(t)
	game := newCubeGame(t, dir)

	e, err := New(game.Game, core.DefaultOptions())
	require.NoError(t, err)
	backend := null.New()
	window := &closingWindow{frames: 3, width: 640, height: 480}
	require.NoError(t, e.InitializeWith(backend, window))
	assert.Equal(t, EngineStageInitialized, e.Stage())
	assert.Equal(t, [][2]uint32{{640, 480}}, game.resizes)

	require.NoError(t, e.Run())
	assert.Equal(t, 3, game.updates)
	assert.Equal(t, 3, window.swaps)
	assert.Len(t, backend.Draws(), 3)
	assert.Equal(t, 1, backend.Calls("UseProgram"))

	require.NoError(t, e.Shutdown())
	assert.Zero(t, backend.LiveObjects())
}

func TestEngineSuspendsWhileMinimized(t *testing.T) {
	core.SetLogOutput(io.Discard)
	game := newCubeGame(t, writeShaders(t))
	e, err := New(game.Game, core.DefaultOptions())
	require.NoError(t, err)
	window := &closingWindow{frames: 100, width: 640, height: 480}
	backend := null.New()
	require.NoError(t, e.InitializeWith(backend, window))
	t.Cleanup(func() { _ = e.Shutdown() })

	window.onResize(0, 0)
	require.NoError(t, e.Frame())
	assert.Zero(t, game.updates)
	assert.Zero(t, window.swaps)

	window.onResize(800, 600)
	require.NoError(t, e.Frame())
	assert.Equal(t, 1, game.updates)
	assert.Equal(t, [][2]uint32{{640, 480}, {800, 600}}, game.resizes)
	w, h := e.GetFramebufferSize()
	assert.Equal(t, uint32(800), w)
	assert.Equal(t, uint32(600), h)
	assert.InDelta(t, float32(800)/600, game.camera.Aspect, 1e-6)
}

func TestEngineAppliesQueuedShaderReloads(t *testing.T) {
	core.SetLogOutput(io.Discard)
	dir := writeShaders(t)
	game := newCubeGame(t, dir)
	e, err := New(game.Game, core.DefaultOptions())
	require.NoError(t, err)
	backend := null.New()
	require.NoError(t, e.InitializeWith(backend, &closingWindow{frames: 100, width: 640, height: 480}))
	t.Cleanup(func() { _ = e.Shutdown() })

	program := game.program
	edited := fragmentSource + "// tinted\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shaders", "cube.frag"), []byte(edited), 0o644))

	e.QueueShaderReload("shaders/cube.frag")
	require.NoError(t, e.Frame())
	assert.Same(t, program, game.program)
	assert.True(t, program.IsValid())
	assert.Equal(t, 2, backend.Calls("LinkProgram"))
}

func TestEngineStopsOnUpdateError(t *testing.T) {
	core.SetLogOutput(io.Discard)
	game := newCubeGame(t, writeShaders(t))
	boom := errors.New("boom")
	game.FnUpdate = func(float64) error { return boom }
	e, err := New(game.Game, core.DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, e.InitializeWith(null.New(), &closingWindow{frames: 100, width: 1, height: 1}))
	t.Cleanup(func() { _ = e.Shutdown() })

	assert.ErrorIs(t, e.Run(), boom)
}

func TestNewRejectsInvalidOptions(t *testing.T) {
	options := core.DefaultOptions()
	options.Render.GLMajorVersion = 2
	_, err := New(&Game{}, options)
	assert.ErrorIs(t, err, core.ErrInvalidOptions)
}
