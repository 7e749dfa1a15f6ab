package metadata

import (
	"fmt"
	"slices"

	"github.com/spaghettifunk/anima-gl/engine/math"
)

type UniformType uint8

const (
	UniformInvalid UniformType = iota
	UniformInt
	UniformFloat
	UniformBool
	UniformVec2
	UniformVec3
	UniformVec4
	UniformMat4
	/** @brief Sampler uniforms are set with an int holding the texture unit. */
	UniformSampler
)

func (t UniformType) String() string {
	switch t {
	case UniformInt:
		return "int"
	case UniformFloat:
		return "float"
	case UniformBool:
		return "bool"
	case UniformVec2:
		return "vec2"
	case UniformVec3:
		return "vec3"
	case UniformVec4:
		return "vec4"
	case UniformMat4:
		return "mat4"
	case UniformSampler:
		return "sampler"
	default:
		return "invalid"
	}
}

// components per element
func (t UniformType) components() int {
	switch t {
	case UniformVec2:
		return 2
	case UniformVec3:
		return 3
	case UniformVec4:
		return 4
	case UniformMat4:
		return 16
	default:
		return 1
	}
}

/**
 * @brief A uniform value: a scalar, vector or matrix, or an array of them.
 * Integer-like types (int, bool) live in Ints, everything else in Floats.
 */
type UniformValue struct {
	Type   UniformType
	Count  int
	Ints   []int32
	Floats []float32
}

func UniformIntValue(v int32) UniformValue {
	return UniformValue{Type: UniformInt, Count: 1, Ints: []int32{v}}
}

func UniformBoolValue(v bool) UniformValue {
	i := int32(0)
	if v {
		i = 1
	}
	return UniformValue{Type: UniformBool, Count: 1, Ints: []int32{i}}
}

func UniformFloatValue(v float32) UniformValue {
	return UniformValue{Type: UniformFloat, Count: 1, Floats: []float32{v}}
}

func UniformFloatsValue(v []float32) UniformValue {
	return UniformValue{Type: UniformFloat, Count: len(v), Floats: slices.Clone(v)}
}

func UniformVec2Value(v math.Vec2) UniformValue {
	return UniformValue{Type: UniformVec2, Count: 1, Floats: []float32{v.X, v.Y}}
}

func UniformVec3Value(v math.Vec3) UniformValue {
	return UniformValue{Type: UniformVec3, Count: 1, Floats: []float32{v.X, v.Y, v.Z}}
}

func UniformVec3sValue(vs []math.Vec3) UniformValue {
	f := make([]float32, 0, 3*len(vs))
	for _, v := range vs {
		f = append(f, v.X, v.Y, v.Z)
	}
	return UniformValue{Type: UniformVec3, Count: len(vs), Floats: f}
}

func UniformVec4Value(v math.Vec4) UniformValue {
	return UniformValue{Type: UniformVec4, Count: 1, Floats: []float32{v.X, v.Y, v.Z, v.W}}
}

func UniformMat4Value(m math.Mat4) UniformValue {
	return UniformValue{Type: UniformMat4, Count: 1, Floats: slices.Clone(m.Data[:])}
}

func UniformMat4sValue(ms []math.Mat4) UniformValue {
	f := make([]float32, 0, 16*len(ms))
	for _, m := range ms {
		f = append(f, m.Data[:]...)
	}
	return UniformValue{Type: UniformMat4, Count: len(ms), Floats: f}
}

func (v UniformValue) IsValid() bool {
	if v.Type == UniformInvalid || v.Count <= 0 {
		return false
	}
	switch v.Type {
	case UniformInt, UniformBool, UniformSampler:
		return len(v.Ints) == v.Count
	default:
		return len(v.Floats) == v.Count*v.Type.components()
	}
}

// CompatibleWith reports whether the value can be uploaded to a variable of
// the given type. Samplers accept ints.
func (v UniformValue) CompatibleWith(t UniformType) bool {
	if v.Type == t {
		return true
	}
	return t == UniformSampler && v.Type == UniformInt
}

func (v UniformValue) Equal(other UniformValue) bool {
	return v.Type == other.Type && v.Count == other.Count &&
		slices.Equal(v.Ints, other.Ints) && slices.Equal(v.Floats, other.Floats)
}

func (v UniformValue) String() string {
	if len(v.Ints) > 0 {
		return fmt.Sprintf("%s%v", v.Type, v.Ints)
	}
	return fmt.Sprintf("%s%v", v.Type, v.Floats)
}
