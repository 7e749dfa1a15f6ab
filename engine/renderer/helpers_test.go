package renderer_test

import (
	"io"
	"testing"

	"github.com/spaghettifunk/anima-gl/engine/core"
	"github.com/spaghettifunk/anima-gl/engine/math"
	"github.com/spaghettifunk/anima-gl/engine/renderer"
	"github.com/spaghettifunk/anima-gl/engine/renderer/metadata"
	"github.com/spaghettifunk/anima-gl/engine/renderer/null"
	"github.com/stretchr/testify/require"
)

const vertexSource = `#version 330 core
in vec3 in_Position;
in vec2 in_TexCoord;
uniform mat4 u_matMVP;
out vec2 frag_TexCoord;
void main() {
	frag_TexCoord = in_TexCoord;
	gl_Position = u_matMVP * vec4(in_Position, 1.0);
}
`

const fragmentSource = `#version 330 core
in vec2 frag_TexCoord;
uniform sampler2D tex0_Diffuse;
uniform vec4 u_Tint;
out vec4 out_Color;
void main() {
	out_Color = texture(tex0_Diffuse, frag_TexCoord) * u_Tint;
}
`

type quadVertex struct {
	Position math.Vec3 `vertex:"position"`
	TexCoord math.Vec2 `vertex:"texcoord"`
}

var quadLayout = renderer.MustLayoutOf(quadVertex{})

var quadVertices = []quadVertex{
	{Position: math.NewVec3(-1, -1, 0), TexCoord: math.NewVec2(0, 0)},
	{Position: math.NewVec3(1, -1, 0), TexCoord: math.NewVec2(1, 0)},
	{Position: math.NewVec3(1, 1, 0), TexCoord: math.NewVec2(1, 1)},
	{Position: math.NewVec3(-1, 1, 0), TexCoord: math.NewVec2(0, 1)},
}

var quadIndices = []uint32{0, 1, 2, 2, 3, 0}

type fixture struct {
	backend *null.Backend
	rs      *renderer.RenderSystem
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	core.SetLogOutput(io.Discard)

	backend := null.New()
	rs := renderer.NewRenderSystem(backend, nil, core.DefaultOptions().Render)
	t.Cleanup(func() { _ = rs.Shutdown() })
	return &fixture{backend: backend, rs: rs}
}

func (f *fixture) program(t *testing.T, vs, fs string) *renderer.Program {
	t.Helper()
	v, err := f.rs.CreateShader(metadata.ShaderTypeVertex, vs)
	require.NoError(t, err)
	fr, err := f.rs.CreateShader(metadata.ShaderTypeFragment, fs)
	require.NoError(t, err)
	p, err := f.rs.CreateProgram(v, fr)
	require.NoError(t, err)
	return p
}

func (f *fixture) quad(t *testing.T) *renderer.VertexData {
	t.Helper()
	vd, err := f.rs.CreateVertexData(renderer.DefaultVertexDataParameter("quad", quadLayout, len(quadVertices), len(quadIndices)))
	require.NoError(t, err)
	vd.WriteVertices(renderer.VertexBytes(quadVertices), 0, false)
	vd.WriteIndices(quadIndices, 0, false)
	return vd
}

func (f *fixture) texture(t *testing.T, name string) *renderer.Texture {
	t.Helper()
	tex, err := f.rs.CreateTexture(checker(name), metadata.DefaultTextureParameter())
	require.NoError(t, err)
	return tex
}

func checker(name string) *metadata.Image {
	pixels := []uint8{
		255, 255, 255, 255, 0, 0, 0, 255,
		0, 0, 0, 255, 255, 255, 255, 255,
	}
	return metadata.NewImageFromPixels(name, 2, 2, metadata.ColorFormatRGBA, pixels)
}

// requireContractViolation runs fn and expects it to panic with a
// *core.ContractError.
func requireContractViolation(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a contract violation")
		_, ok := r.(*core.ContractError)
		require.True(t, ok, "unexpected panic %v", r)
	}()
	fn()
}
