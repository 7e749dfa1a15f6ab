package renderer_test

import (
	"testing"

	"github.com/spaghettifunk/anima-gl/engine/math"
	"github.com/spaghettifunk/anima-gl/engine/renderer"
	"github.com/stretchr/testify/assert"
)

func TestCameraViewMovesEyeToOrigin(t *testing.T) {
	c := renderer.NewCamera()
	c.SetPosition(math.NewVec3(0, 0, 5))

	eye := c.Position().Transform(c.View())
	assert.True(t, eye.Compare(math.NewVec3Zero(), 1e-5), "got %v", eye)

	origin := math.NewVec3Zero().Transform(c.View())
	assert.InDelta(t, -5, origin.Z, 1e-5)
}

func TestCameraLookAtFacesTarget(t *testing.T) {
	c := renderer.NewCamera()
	c.SetPosition(math.NewVec3(3, 0, 0))
	c.LookAt(math.NewVec3Zero())

	// the target ends up straight ahead, on the negative z axis
	p := math.NewVec3Zero().Transform(c.View())
	assert.InDelta(t, 0, p.X, 1e-5)
	assert.InDelta(t, 0, p.Y, 1e-5)
	assert.InDelta(t, -3, p.Z, 1e-5)
}

func TestCameraPitchIsClamped(t *testing.T) {
	c := renderer.NewCamera()
	c.Pitch(10)
	assert.InDelta(t, math.DegToRad(89), c.EulerRotation().X, 1e-4)
	c.Pitch(-20)
	assert.InDelta(t, -math.DegToRad(89), c.EulerRotation().X, 1e-4)
}

func TestCameraAspectFromSize(t *testing.T) {
	c := renderer.NewCamera()
	c.SetAspectFromSize(800, 400)
	assert.Equal(t, float32(2), c.Aspect)
	c.SetAspectFromSize(800, 0)
	assert.Equal(t, float32(2), c.Aspect)
}
