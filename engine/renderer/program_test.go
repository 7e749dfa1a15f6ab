package renderer_test

import (
	"strings"
	"testing"

	"github.com/spaghettifunk/anima-gl/engine/core"
	"github.com/spaghettifunk/anima-gl/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgramIntrospection(t *testing.T) {
	f := newFixture(t)
	p := f.program(t, vertexSource, fragmentSource)

	assert.True(t, p.IsValid())
	assert.NotZero(t, p.Handle())
	assert.Equal(t, []string{"tex0_Diffuse", "u_Tint", "u_matMVP"}, p.UniformNames())
	assert.Equal(t, map[string]int{"tex0_Diffuse": 0}, p.TextureSamplers())

	u, ok := p.Uniform("u_matMVP")
	require.True(t, ok)
	assert.Equal(t, metadata.UniformMat4, u.Type)

	// attribute and output locations are bound before linking
	assert.Equal(t, len(metadata.AttributeLocations), f.backend.Calls("BindAttributeLocation"))
	assert.Equal(t, len(metadata.FragmentOutputLocations), f.backend.Calls("BindFragDataLocation"))
}

func TestProgramRejectsUnknownVertexAttribute(t *testing.T) {
	f := newFixture(t)
	vs := strings.Replace(vertexSource, "in vec2 in_TexCoord;", "in vec2 in_UV;", 1)

	v, err := f.rs.CreateShader(metadata.ShaderTypeVertex, vs)
	require.NoError(t, err)
	fr, err := f.rs.CreateShader(metadata.ShaderTypeFragment, fragmentSource)
	require.NoError(t, err)

	p, err := f.rs.CreateProgram(v, fr)
	assert.Nil(t, p)
	assert.ErrorIs(t, err, core.ErrInvalidVertexAttribute)
	assert.Contains(t, err.Error(), "'in_UV'")
	assert.Equal(t, 0, f.rs.Programs().Len())
	assert.Equal(t, 1, f.backend.Calls("DeleteProgram"))
}

func TestProgramRejectsUnknownFragmentOutput(t *testing.T) {
	f := newFixture(t)
	fs := strings.ReplaceAll(fragmentSource, "out_Color", "out_Colour")

	v, err := f.rs.CreateShader(metadata.ShaderTypeVertex, vertexSource)
	require.NoError(t, err)
	fr, err := f.rs.CreateShader(metadata.ShaderTypeFragment, fs)
	require.NoError(t, err)

	_, err = f.rs.CreateProgram(v, fr)
	assert.ErrorIs(t, err, core.ErrInvalidFragmentOutput)
	assert.Contains(t, err.Error(), "'out_Colour'")
}

func TestProgramIgnoresOutputsWithoutPrefix(t *testing.T) {
	f := newFixture(t)
	fs := strings.ReplaceAll(fragmentSource, "out_Color", "color")
	p := f.program(t, vertexSource, fs)
	assert.True(t, p.IsValid())
}

func TestProgramLinkFailure(t *testing.T) {
	f := newFixture(t)
	f.backend.SetLinkFunc(func([]string) (bool, string) {
		return false, "error: vertex output frag_TexCoord not read by fragment shader"
	})

	v, err := f.rs.CreateShader(metadata.ShaderTypeVertex, vertexSource)
	require.NoError(t, err)
	fr, err := f.rs.CreateShader(metadata.ShaderTypeFragment, fragmentSource)
	require.NoError(t, err)

	_, err = f.rs.CreateProgram(v, fr)
	assert.ErrorIs(t, err, core.ErrProgramLink)
	assert.Contains(t, err.Error(), "not read by fragment shader")

	f.backend.SetLinkFunc(nil)
	p, err := f.rs.CreateProgram(v, fr)
	require.NoError(t, err)
	assert.True(t, p.IsValid())
}

func TestProgramSamplerUnits(t *testing.T) {
	f := newFixture(t)
	fs := strings.Replace(fragmentSource, "uniform vec4 u_Tint;",
		"uniform vec4 u_Tint;\nuniform sampler2D tex3_Normal;\nuniform sampler2D shadowMap;", 1)
	p := f.program(t, vertexSource, fs)

	assert.Equal(t, map[string]int{"tex0_Diffuse": 0, "tex3_Normal": 3}, p.TextureSamplers())
	u, ok := p.Uniform("shadowMap")
	require.True(t, ok)
	assert.Equal(t, metadata.UniformSampler, u.Type)
}
