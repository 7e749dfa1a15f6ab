package renderer

import (
	"fmt"
	"reflect"

	"github.com/spaghettifunk/anima-gl/engine/math"
	"github.com/spaghettifunk/anima-gl/engine/renderer/metadata"
)

var (
	vec2Type = reflect.TypeOf(math.Vec2{})
	vec3Type = reflect.TypeOf(math.Vec3{})
	vec4Type = reflect.TypeOf(math.Vec4{})
	mat4Type = reflect.TypeOf(math.Mat4{})
)

/**
 * @brief Flattens a uniform struct into the names GLSL gives its members,
 * ready for DrawCommand.Uniforms or RenderTarget.Uniforms:
 *
 *	type PointLight struct {
 *		Position  math.Vec3 `uniform:"position"`
 *		Intensity float32   `uniform:"intensity"`
 *	}
 *
 *	UniformsOf("u_Light", light)     // u_Light.position, u_Light.intensity
 *	UniformsOf("u_Lights", lights)   // u_Lights[0].position, ...
 *
 * Untagged exported fields use the Go field name, `uniform:"-"` skips one.
 * Nested structs extend the dotted path. Slices and arrays of scalars,
 * vectors or matrices become a single array uniform.
 */
func UniformsOf(prefix string, v any) (map[string]metadata.UniformValue, error) {
	if prefix == "" {
		return nil, fmt.Errorf("uniforms: empty variable name")
	}
	out := make(map[string]metadata.UniformValue)
	if err := flattenUniform(prefix, reflect.ValueOf(v), out); err != nil {
		return nil, fmt.Errorf("uniforms %s: %w", prefix, err)
	}
	return out, nil
}

// MustUniformsOf is UniformsOf for values known to be well formed.
func MustUniformsOf(prefix string, v any) map[string]metadata.UniformValue {
	u, err := UniformsOf(prefix, v)
	if err != nil {
		panic(err)
	}
	return u
}

// WithUniforms returns a copy of the command setting every uniform in values.
func (c DrawCommand) WithUniforms(values map[string]metadata.UniformValue) DrawCommand {
	uniforms := make(map[string]metadata.UniformValue, len(c.Uniforms)+len(values))
	for n, v := range c.Uniforms {
		uniforms[n] = v
	}
	for n, v := range values {
		uniforms[n] = v
	}
	c.Uniforms = uniforms
	return c
}

func flattenUniform(name string, v reflect.Value, out map[string]metadata.UniformValue) error {
	if !v.IsValid() {
		return fmt.Errorf("%s is nil", name)
	}
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return fmt.Errorf("%s is nil", name)
		}
		return flattenUniform(name, v.Elem(), out)
	}

	if value, ok, err := uniformLeaf(v); ok || err != nil {
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		out[name] = value
		return nil
	}

	switch v.Kind() {
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			member := f.Name
			if tag, ok := f.Tag.Lookup("uniform"); ok {
				if tag == "-" {
					continue
				}
				if tag != "" {
					member = tag
				}
			}
			if err := flattenUniform(name+"."+member, v.Field(i), out); err != nil {
				return err
			}
		}
		return nil
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if err := flattenUniform(fmt.Sprintf("%s[%d]", name, i), v.Index(i), out); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("%s: unsupported type %s", name, v.Type())
	}
}

// uniformLeaf converts scalars, vectors, matrices and arrays of them. ok is
// false when v has to be walked further.
func uniformLeaf(v reflect.Value) (metadata.UniformValue, bool, error) {
	if value, ok := uniformScalar(v); ok {
		return value, true, nil
	}
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return metadata.UniformValue{}, false, nil
	}
	if _, ok := uniformScalar(reflect.Zero(v.Type().Elem())); !ok {
		return metadata.UniformValue{}, false, nil
	}
	if v.Len() == 0 {
		return metadata.UniformValue{}, true, fmt.Errorf("empty array")
	}

	var array metadata.UniformValue
	for i := 0; i < v.Len(); i++ {
		elem, _ := uniformScalar(v.Index(i))
		array.Type = elem.Type
		array.Ints = append(array.Ints, elem.Ints...)
		array.Floats = append(array.Floats, elem.Floats...)
	}
	array.Count = v.Len()
	return array, true, nil
}

func uniformScalar(v reflect.Value) (metadata.UniformValue, bool) {
	switch v.Type() {
	case vec2Type:
		return metadata.UniformVec2Value(v.Interface().(math.Vec2)), true
	case vec3Type:
		return metadata.UniformVec3Value(v.Interface().(math.Vec3)), true
	case vec4Type:
		return metadata.UniformVec4Value(v.Interface().(math.Vec4)), true
	case mat4Type:
		return metadata.UniformMat4Value(v.Interface().(math.Mat4)), true
	}
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return metadata.UniformFloatValue(float32(v.Float())), true
	case reflect.Int, reflect.Int32, reflect.Int16, reflect.Int8:
		return metadata.UniformIntValue(int32(v.Int())), true
	case reflect.Bool:
		return metadata.UniformBoolValue(v.Bool()), true
	default:
		return metadata.UniformValue{}, false
	}
}
