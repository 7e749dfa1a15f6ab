package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMat4MulAppliesLeftOperandFirst(t *testing.T) {
	scale := NewMat4Scale(NewVec3(2, 2, 2))
	translate := NewMat4Translation(NewVec3(1, 0, 0))

	// scale first, then translate
	m := scale.Mul(translate)
	p := NewVec3(1, 1, 1).Transform(m)
	assert.True(t, p.Compare(NewVec3(3, 2, 2), K_FLOAT_EPSILON), "got %v", p)
}

func TestMat4IdentityIsNeutral(t *testing.T) {
	m := NewMat4EulerXYZ(0.3, 1.1, -0.4)
	assert.True(t, m.Mul(NewMat4Identity()).Equal(m, 1e-6))
	assert.True(t, NewMat4Identity().Mul(m).Equal(m, 1e-6))
}

func TestMat4Transposed(t *testing.T) {
	m := NewMat4Translation(NewVec3(4, 5, 6))
	tr := m.Transposed()
	assert.Equal(t, float32(4), tr.Data[3])
	assert.Equal(t, float32(5), tr.Data[7])
	assert.Equal(t, float32(6), tr.Data[11])
	assert.True(t, tr.Transposed().Equal(m, 0))
}

func TestLookAtMovesEyeToOrigin(t *testing.T) {
	eye := NewVec3(0, 0, 5)
	view := NewMat4LookAt(eye, NewVec3Zero(), NewVec3Up())
	p := eye.Transform(view)
	assert.True(t, p.Compare(NewVec3Zero(), 1e-5), "got %v", p)

	// the target ends up in front of the camera, on the negative z axis
	target := NewVec3Zero().Transform(view)
	assert.InDelta(t, -5, target.Z, 1e-5)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0, Clamp(-3, 0, 16))
	assert.Equal(t, 16, Clamp(64, 0, 16))
	assert.Equal(t, float32(0.5), Clamp(float32(0.5), 0, 1))
}

func TestExtents(t *testing.T) {
	box := Extents3D{Min: NewVec3(-0.5, -0.5, -0.5), Max: NewVec3(0.5, 0.5, 0.5)}
	assert.Equal(t, NewVec3Zero(), box.Center())
	assert.Equal(t, NewVec3One(), box.Size())
	assert.True(t, box.Contains(NewVec3(0.5, 0, -0.5)))
	assert.False(t, box.Contains(NewVec3(0.6, 0, 0)))
}
