package renderer_test

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spaghettifunk/anima-gl/engine/core"
	"github.com/spaghettifunk/anima-gl/engine/renderer"
	"github.com/spaghettifunk/anima-gl/engine/renderer/metadata"
	"github.com/spaghettifunk/anima-gl/engine/renderer/null"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapLoader map[string]string

func (m mapLoader) LoadShaderSource(path string) (string, error) {
	source, ok := m[path]
	if !ok {
		return "", os.ErrNotExist
	}
	return source, nil
}

type fakeWindow struct {
	events   *[]string
	width    int
	height   int
	onResize func(width, height int)
	closing  bool
	swaps    int
}

func (w *fakeWindow) PollEvents()                 { *w.events = append(*w.events, "poll") }
func (w *fakeWindow) SwapBuffers()                { w.swaps++ }
func (w *fakeWindow) ShouldClose() bool           { return w.closing }
func (w *fakeWindow) FramebufferSize() (int, int) { return w.width, w.height }
func (w *fakeWindow) SetFramebufferSizeCallback(fn func(width, height int)) {
	w.onResize = fn
}

func TestReloadShaderRelinksProgramsInPlace(t *testing.T) {
	f := newFixture(t)
	loader := mapLoader{
		"shaders/basic.vert": vertexSource,
		"shaders/basic.frag": fragmentSource,
	}
	f.rs.SetSourceLoader(loader)

	v, err := f.rs.CreateShaderFromFile(metadata.ShaderTypeVertex, "shaders/basic.vert")
	require.NoError(t, err)
	fr, err := f.rs.CreateShaderFromFile(metadata.ShaderTypeFragment, "shaders/basic.frag")
	require.NoError(t, err)
	assert.Equal(t, "shaders/basic.frag", fr.Path())
	p, err := f.rs.CreateProgram(v, fr)
	require.NoError(t, err)
	_, ok := p.Uniform("u_Time")
	require.False(t, ok)

	loader["shaders/basic.frag"] = strings.Replace(fragmentSource, "uniform vec4 u_Tint;", "uniform vec4 u_Tint;\nuniform float u_Time;", 1)
	require.NoError(t, f.rs.ReloadShader("shaders/basic.frag"))

	assert.True(t, p.IsValid())
	assert.False(t, p.HasShader(fr))
	assert.True(t, p.HasShader(v))
	_, ok = p.Uniform("u_Time")
	assert.True(t, ok)
	assert.False(t, fr.IsValid(), "the replaced shader is destroyed")

	programs := f.rs.Programs().All()
	require.Len(t, programs, 1)
	assert.Same(t, p, programs[0])

	// the relinked program is found again by its new shaders
	again, err := f.rs.CreateProgram(p.Shaders()...)
	require.NoError(t, err)
	assert.Same(t, p, again)
}

func TestReloadShaderKeepsOldShaderOnCompileError(t *testing.T) {
	f := newFixture(t)
	f.backend.SetCompileFunc(func(_ metadata.ShaderType, source string) (bool, string) {
		if strings.Contains(source, "oops") {
			return false, "0(1) : error"
		}
		return true, ""
	})
	loader := mapLoader{"basic.frag": fragmentSource}
	f.rs.SetSourceLoader(loader)

	v, err := f.rs.CreateShader(metadata.ShaderTypeVertex, vertexSource)
	require.NoError(t, err)
	fr, err := f.rs.CreateShaderFromFile(metadata.ShaderTypeFragment, "basic.frag")
	require.NoError(t, err)
	p, err := f.rs.CreateProgram(v, fr)
	require.NoError(t, err)

	loader["basic.frag"] = "oops"
	err = f.rs.ReloadShader("basic.frag")
	assert.ErrorIs(t, err, core.ErrShaderCompile)
	assert.True(t, p.IsValid())
	assert.True(t, p.HasShader(fr))
	assert.True(t, fr.IsValid())
}

func TestReloadUnknownOrMissingShader(t *testing.T) {
	f := newFixture(t)
	loader := mapLoader{"basic.vert": vertexSource}
	f.rs.SetSourceLoader(loader)

	assert.NoError(t, f.rs.ReloadShader("never/loaded.vert"))

	_, err := f.rs.CreateShaderFromFile(metadata.ShaderTypeVertex, "basic.vert")
	require.NoError(t, err)
	delete(loader, "basic.vert")
	err = f.rs.ReloadShader("basic.vert")
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, err = f.rs.CreateShaderFromFile(metadata.ShaderTypeVertex, "missing.vert")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPollEventsNotifiesInputListeners(t *testing.T) {
	var events []string
	window := &fakeWindow{events: &events, width: 800, height: 600}
	rs := renderer.NewRenderSystem(null.New(), window, core.DefaultOptions().Render)
	t.Cleanup(func() { _ = rs.Shutdown() })

	assert.Equal(t, renderer.Viewport{Width: 800, Height: 600}, rs.Viewport())

	l := &recorder{name: "input", events: &events}
	rs.AddInputListener(l)
	rs.PollEvents()
	assert.Equal(t, []string{"input:start", "poll", "input:stop"}, events)

	events = events[:0]
	window.onResize(1024, 768)
	assert.Equal(t, renderer.Viewport{Width: 1024, Height: 768}, rs.Viewport())
	assert.Equal(t, []string{"input:resized:1024x768"}, events)

	events = events[:0]
	rs.RemoveInputListener(l)
	rs.PollEvents()
	assert.Equal(t, []string{"poll"}, events)

	rs.SwapBuffers()
	assert.Equal(t, 1, window.swaps)
	assert.False(t, rs.ShouldClose())
	window.closing = true
	assert.True(t, rs.ShouldClose())
}

func TestShutdownDestroysEverything(t *testing.T) {
	f := newFixture(t)
	f.program(t, vertexSource, fragmentSource)
	f.quad(t)
	f.texture(t, "checker")
	_, err := f.rs.CreateFrameBuffer("offscreen", 8, 8)
	require.NoError(t, err)
	require.NotZero(t, f.backend.LiveObjects())

	require.NoError(t, f.rs.Shutdown())
	assert.Zero(t, f.backend.LiveObjects())
	assert.Zero(t, f.rs.Programs().Len())
	assert.Zero(t, f.rs.Shaders().Len())
	assert.Zero(t, f.rs.Textures().Len())
}

func TestReleaseUnknownResourceViolatesContract(t *testing.T) {
	f := newFixture(t)
	requireContractViolation(t, func() { f.rs.Release("not a resource") })
}

func TestReloadShaderRecoversAfterBrokenRelink(t *testing.T) {
	f := newFixture(t)
	loader := mapLoader{"basic.frag": fragmentSource}
	f.rs.SetSourceLoader(loader)

	v, err := f.rs.CreateShader(metadata.ShaderTypeVertex, vertexSource)
	require.NoError(t, err)
	fr, err := f.rs.CreateShaderFromFile(metadata.ShaderTypeFragment, "basic.frag")
	require.NoError(t, err)
	p, err := f.rs.CreateProgram(v, fr)
	require.NoError(t, err)

	loader["basic.frag"] = strings.ReplaceAll(fragmentSource, "out_Color", "out_Bogus")
	err = f.rs.ReloadShader("basic.frag")
	assert.ErrorIs(t, err, core.ErrInvalidFragmentOutput)
	assert.False(t, p.IsValid())
	assert.ErrorIs(t, p.Err(), core.ErrInvalidFragmentOutput)
	assert.Equal(t, 1, f.rs.Programs().Len(), "the broken program stays registered")

	loader["basic.frag"] = fragmentSource
	require.NoError(t, f.rs.ReloadShader("basic.frag"))
	assert.True(t, p.IsValid())
	assert.NoError(t, p.Err())
	programs := f.rs.Programs().All()
	require.Len(t, programs, 1)
	assert.Same(t, p, programs[0])

	require.NoError(t, f.rs.Shutdown())
	assert.Zero(t, f.backend.LiveObjects())
}

func TestReloadShaderOntoExistingProgramKey(t *testing.T) {
	f := newFixture(t)
	loader := mapLoader{"other.frag": fragmentSource + "// other\n"}
	f.rs.SetSourceLoader(loader)

	v, err := f.rs.CreateShader(metadata.ShaderTypeVertex, vertexSource)
	require.NoError(t, err)
	fr, err := f.rs.CreateShader(metadata.ShaderTypeFragment, fragmentSource)
	require.NoError(t, err)
	other, err := f.rs.CreateShaderFromFile(metadata.ShaderTypeFragment, "other.frag")
	require.NoError(t, err)
	first, err := f.rs.CreateProgram(v, fr)
	require.NoError(t, err)
	second, err := f.rs.CreateProgram(v, other)
	require.NoError(t, err)
	require.NotSame(t, first, second)

	// the reloaded source equals fr, so second now links the same shaders as first
	loader["other.frag"] = fragmentSource
	require.NoError(t, f.rs.ReloadShader("other.frag"))
	assert.True(t, second.IsValid())
	assert.True(t, second.HasShader(fr))
	assert.Len(t, f.rs.Programs().All(), 2)

	again, err := f.rs.CreateProgram(v, fr)
	require.NoError(t, err)
	assert.Same(t, first, again)

	require.NoError(t, f.rs.Shutdown())
	assert.Zero(t, f.backend.LiveObjects())
}

func TestFrameBuffersNeverShareColorTextures(t *testing.T) {
	f := newFixture(t)
	small, err := f.rs.CreateFrameBuffer("offscreen", 64, 64)
	require.NoError(t, err)
	large, err := f.rs.CreateFrameBuffer("offscreen", 256, 256)
	require.NoError(t, err)

	assert.NotSame(t, small.ColorTexture(), large.ColorTexture())
	w, h := large.ColorTexture().Size()
	assert.Equal(t, 256, w)
	assert.Equal(t, 256, h)

	twin, err := f.rs.CreateFrameBuffer("offscreen", 64, 64)
	require.NoError(t, err)
	assert.NotSame(t, small.ColorTexture(), twin.ColorTexture())
}

func TestCreateTextureFailureLeavesNoStaleEntry(t *testing.T) {
	f := newFixture(t)
	before := f.rs.Textures().Len()

	bad := metadata.NewImage("broken.png", []byte("not an image"))
	_, err := f.rs.CreateTexture(bad, metadata.DefaultTextureParameter())
	require.ErrorIs(t, err, core.ErrImageDecode)
	assert.Equal(t, before, f.rs.Textures().Len())

	good, err := f.rs.CreateTexture(checker("good"), metadata.DefaultTextureParameter())
	require.NoError(t, err)
	assert.True(t, good.IsValid())
	assert.Equal(t, before+1, f.rs.Textures().Len())

	// a retry of the broken image fails again instead of returning a stale entry
	_, err = f.rs.CreateTexture(metadata.NewImage("broken.png", []byte("not an image")), metadata.DefaultTextureParameter())
	assert.ErrorIs(t, err, core.ErrImageDecode)
	assert.Equal(t, before+1, f.rs.Textures().Len())
}

func TestFailedRealizationLogsOnlyAtDebug(t *testing.T) {
	f := newFixture(t)
	var out bytes.Buffer
	core.SetLogOutput(&out)
	t.Cleanup(func() {
		core.Logger().SetLevel(log.InfoLevel)
		core.SetLogOutput(io.Discard)
	})

	// the caller owns the error, so nothing reaches the log at info level
	core.Logger().SetLevel(log.InfoLevel)
	_, err := f.rs.CreateTexture(metadata.NewImage("broken.png", []byte("not an image")), metadata.DefaultTextureParameter())
	require.Error(t, err)
	assert.Empty(t, out.String())

	core.Logger().SetLevel(log.DebugLevel)
	_, err = f.rs.CreateTexture(metadata.NewImage("broken.png", []byte("not an image")), metadata.DefaultTextureParameter())
	require.Error(t, err)
	assert.Contains(t, out.String(), "realization of")
	assert.NotContains(t, out.String(), "ERRO")
}
