package systems

import (
	"testing"

	"github.com/spaghettifunk/anima-gl/engine/math"
	"github.com/spaghettifunk/anima-gl/engine/renderer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCameraSystemAcquireRelease(t *testing.T) {
	_, err := NewCameraSystem(&CameraSystemConfig{})
	assert.Error(t, err)

	cs, err := NewCameraSystem(&CameraSystemConfig{MaxCameraCount: 1})
	require.NoError(t, err)

	def, err := cs.Acquire(renderer.DEFAULT_CAMERA_NAME)
	require.NoError(t, err)
	assert.Same(t, cs.GetDefault(), def)

	a, err := cs.Acquire("overhead")
	require.NoError(t, err)
	a.SetPosition(math.NewVec3(0, 10, 0))
	again, err := cs.Acquire("overhead")
	require.NoError(t, err)
	assert.Same(t, a, again)

	_, err = cs.Acquire("second")
	assert.Error(t, err, "only one named camera fits")

	cs.Release("overhead")
	cs.Release("overhead")
	fresh, err := cs.Acquire("overhead")
	require.NoError(t, err)
	assert.NotSame(t, a, fresh)
	assert.Equal(t, math.NewVec3Zero(), fresh.Position())

	cs.Release("missing")
	cs.Release(renderer.DEFAULT_CAMERA_NAME)
}

func TestCameraSystemFollowsResize(t *testing.T) {
	f := newFixture(t)
	am := f.am
	sm, err := NewSystemManager(f.rs, am)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sm.Shutdown() })

	named, err := sm.CameraSystem.Acquire("ui")
	require.NoError(t, err)
	sm.FramebufferResized(800, 400)
	assert.Equal(t, float32(2), sm.CameraSystem.GetDefault().Aspect)
	assert.Equal(t, float32(2), named.Aspect)

	sm.FramebufferResized(800, 0)
	assert.Equal(t, float32(2), named.Aspect)
}
