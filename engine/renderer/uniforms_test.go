package renderer_test

import (
	"testing"

	"github.com/spaghettifunk/anima-gl/engine/math"
	"github.com/spaghettifunk/anima-gl/engine/renderer"
	"github.com/spaghettifunk/anima-gl/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pointLight struct {
	Position  math.Vec3 `uniform:"position"`
	Color     math.Vec4 `uniform:"color"`
	Intensity float32   `uniform:"intensity"`
	Enabled   bool      `uniform:"enabled"`
	Debug     string    `uniform:"-"`
}

type scene struct {
	Ambient  math.Vec3
	Frame    int32        `uniform:"frame"`
	Weights  []float32    `uniform:"weights"`
	Bones    [2]math.Mat4 `uniform:"bones"`
	Sun      pointLight   `uniform:"sun"`
	internal float32
}

func TestUniformsOfStruct(t *testing.T) {
	light := pointLight{
		Position:  math.NewVec3(1, 2, 3),
		Color:     math.NewVec4(1, 0.5, 0, 1),
		Intensity: 4.1,
		Debug:     "ignored",
	}
	u, err := renderer.UniformsOf("u_Light", light)
	require.NoError(t, err)

	assert.Len(t, u, 4)
	assert.True(t, u["u_Light.position"].Equal(metadata.UniformVec3Value(light.Position)))
	assert.True(t, u["u_Light.color"].Equal(metadata.UniformVec4Value(light.Color)))
	assert.True(t, u["u_Light.intensity"].Equal(metadata.UniformFloatValue(4.1)))
	assert.True(t, u["u_Light.enabled"].Equal(metadata.UniformBoolValue(false)))

	fromPointer, err := renderer.UniformsOf("u_Light", &light)
	require.NoError(t, err)
	assert.Equal(t, u, fromPointer)
}

func TestUniformsOfArrayOfStructs(t *testing.T) {
	lights := []pointLight{
		{Intensity: 1, Enabled: true},
		{Intensity: 2},
	}
	u := renderer.MustUniformsOf("u_Lights", lights)

	assert.Len(t, u, 8)
	assert.True(t, u["u_Lights[0].intensity"].Equal(metadata.UniformFloatValue(1)))
	assert.True(t, u["u_Lights[0].enabled"].Equal(metadata.UniformBoolValue(true)))
	assert.True(t, u["u_Lights[1].intensity"].Equal(metadata.UniformFloatValue(2)))
	assert.NotContains(t, u, "u_Lights[2].intensity")
}

func TestUniformsOfNestedAndArrayMembers(t *testing.T) {
	s := scene{
		Ambient: math.NewVec3(0.1, 0.1, 0.1),
		Frame:   7,
		Weights: []float32{0.25, 0.75},
		Bones:   [2]math.Mat4{math.NewMat4Identity(), math.NewMat4Translation(math.NewVec3(0, 1, 0))},
		Sun:     pointLight{Intensity: 3},
	}
	u, err := renderer.UniformsOf("u_Scene", s)
	require.NoError(t, err)

	assert.True(t, u["u_Scene.Ambient"].Equal(metadata.UniformVec3Value(s.Ambient)))
	assert.True(t, u["u_Scene.frame"].Equal(metadata.UniformIntValue(7)))
	assert.True(t, u["u_Scene.weights"].Equal(metadata.UniformFloatsValue(s.Weights)))
	assert.True(t, u["u_Scene.bones"].Equal(metadata.UniformMat4sValue(s.Bones[:])))
	assert.True(t, u["u_Scene.sun.intensity"].Equal(metadata.UniformFloatValue(3)))
	assert.NotContains(t, u, "u_Scene.internal")

	single, err := renderer.UniformsOf("u_Exposure", float32(1.5))
	require.NoError(t, err)
	assert.Equal(t, map[string]metadata.UniformValue{"u_Exposure": metadata.UniformFloatValue(1.5)}, single)
}

func TestUniformsOfRejectsUnsupportedValues(t *testing.T) {
	cases := map[string]struct {
		prefix string
		value  any
	}{
		"empty name":  {"", pointLight{}},
		"nil":         {"u_Light", nil},
		"nil pointer": {"u_Light", (*pointLight)(nil)},
		"string":      {"u_Name", "light"},
		"empty array": {"u_Weights", []float32{}},
		"map member":  {"u_Bad", struct{ Table map[string]float32 }{}},
		"uint member": {"u_Bad", struct{ Count uint32 }{}},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := renderer.UniformsOf(c.prefix, c.value)
			assert.Error(t, err)
		})
	}
	assert.Panics(t, func() { renderer.MustUniformsOf("u_Name", "light") })
}

const lightFragmentSource = `#version 330 core
in vec2 frag_TexCoord;
struct Light {
	vec3 position;
	float intensity;
	bool enabled;
};
uniform Light u_Lights[2];
out vec4 out_Color;
void main() {
	out_Color = vec4(u_Lights[0].position * u_Lights[1].intensity, 1.0);
}
`

func TestDrawCommandUploadsStructUniforms(t *testing.T) {
	f := newFixture(t)
	p := f.program(t, vertexSource, lightFragmentSource)
	vd := f.quad(t)

	type light struct {
		Position  math.Vec3 `uniform:"position"`
		Intensity float32   `uniform:"intensity"`
		Enabled   bool      `uniform:"enabled"`
	}
	lights := []light{
		{Position: math.NewVec3(1, 2, 3), Intensity: 0.5, Enabled: true},
		{Position: math.NewVec3(-1, 0, 0), Intensity: 2},
	}
	cmd := renderer.NewDrawCommand(p, vd, math.NewMat4Identity()).
		WithUniforms(renderer.MustUniformsOf("u_Lights", lights))
	require.NoError(t, f.rs.RenderOneFrame(mainTarget(cmd)))

	for _, name := range []string{"u_Lights[0].position", "u_Lights[1].position"} {
		_, ok := p.Uniform(name)
		assert.True(t, ok, name)
	}
	got, ok := f.backend.UniformValue(p.Handle(), "u_Lights[0].position")
	require.True(t, ok)
	assert.True(t, got.Equal(metadata.UniformVec3Value(lights[0].Position)))

	got, ok = f.backend.UniformValue(p.Handle(), "u_Lights[1].intensity")
	require.True(t, ok)
	assert.True(t, got.Equal(metadata.UniformFloatValue(2)))

	got, ok = f.backend.UniformValue(p.Handle(), "u_Lights[0].enabled")
	require.True(t, ok)
	assert.True(t, got.Equal(metadata.UniformBoolValue(true)))
}

func TestWithUniformsKeepsOriginalCommand(t *testing.T) {
	base := renderer.DrawCommand{}.WithUniform("u_Tint", metadata.UniformFloatValue(1))
	merged := base.WithUniforms(map[string]metadata.UniformValue{"u_Exposure": metadata.UniformFloatValue(2)})

	assert.Len(t, base.Uniforms, 1)
	assert.Len(t, merged.Uniforms, 2)
}
