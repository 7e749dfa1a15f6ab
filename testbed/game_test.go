package testbed

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/anima-gl/engine"
	"github.com/spaghettifunk/anima-gl/engine/core"
	"github.com/spaghettifunk/anima-gl/engine/renderer/null"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startGame(t *testing.T, assetsDir string) (*TestGame, *engine.Engine, *null.Backend) {
	t.Helper()
	core.SetLogOutput(io.Discard)

	game := NewTestGame(assetsDir, false)
	e, err := engine.New(game.Game, core.DefaultOptions())
	require.NoError(t, err)
	backend := null.New()
	require.NoError(t, e.InitializeWith(backend, nil))
	return game, e, backend
}

func TestGameDrawsTexturedCube(t *testing.T) {
	game, e, backend := startGame(t, filepath.Join("..", "assets"))
	state := game.State.(*gameState)
	require.True(t, state.ownsTexture)
	assert.NotSame(t, game.SystemManager.TextureSystem.GetDefault(), state.texture)

	require.NoError(t, e.Frame())
	require.NoError(t, e.Frame())
	assert.Len(t, backend.Draws(), 2)

	require.NoError(t, game.Update(0.5))
	assert.InDelta(t, rotateSpeed*0.5, state.rotation.Y, 1e-3)

	require.NoError(t, e.Shutdown())
	assert.Zero(t, backend.LiveObjects())
}

func TestGameFallsBackToDefaultTexture(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "shaders"), 0o755))
	for _, name := range []string{"cube.vert", "cube.frag"} {
		src, err := os.ReadFile(filepath.Join("..", "assets", "shaders", name))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "shaders", name), src, 0o644))
	}

	game, e, backend := startGame(t, dir)
	state := game.State.(*gameState)
	assert.False(t, state.ownsTexture)
	assert.Same(t, game.SystemManager.TextureSystem.GetDefault(), state.texture)

	require.NoError(t, e.Frame())
	assert.Len(t, backend.Draws(), 1)
	require.NoError(t, e.Shutdown())
}
