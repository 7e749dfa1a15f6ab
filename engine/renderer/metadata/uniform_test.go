package metadata

import (
	"testing"

	"github.com/spaghettifunk/anima-gl/engine/math"
	"github.com/stretchr/testify/assert"
)

func TestUniformValueValidity(t *testing.T) {
	assert.True(t, UniformIntValue(3).IsValid())
	assert.True(t, UniformMat4Value(math.NewMat4Identity()).IsValid())
	assert.True(t, UniformVec3sValue([]math.Vec3{math.NewVec3One(), math.NewVec3Up()}).IsValid())

	assert.False(t, UniformValue{}.IsValid())
	assert.False(t, UniformValue{Type: UniformVec4, Count: 1, Floats: []float32{1, 2, 3}}.IsValid())
	assert.False(t, UniformFloatsValue(nil).IsValid())
}

func TestUniformValueCompatibility(t *testing.T) {
	assert.True(t, UniformIntValue(0).CompatibleWith(UniformSampler))
	assert.True(t, UniformIntValue(0).CompatibleWith(UniformInt))
	assert.False(t, UniformFloatValue(0).CompatibleWith(UniformSampler))
	assert.False(t, UniformBoolValue(true).CompatibleWith(UniformInt))
}

func TestUniformValueEqual(t *testing.T) {
	a := UniformVec4Value(math.NewVec4(1, 2, 3, 4))
	assert.True(t, a.Equal(UniformVec4Value(math.NewVec4(1, 2, 3, 4))))
	assert.False(t, a.Equal(UniformVec4Value(math.NewVec4(1, 2, 3, 5))))
	assert.False(t, UniformIntValue(1).Equal(UniformBoolValue(true)))
}

func TestUniformValueCopiesInput(t *testing.T) {
	floats := []float32{1, 2}
	v := UniformFloatsValue(floats)
	floats[0] = 9
	assert.Equal(t, []float32{1, 2}, v.Floats)
}
