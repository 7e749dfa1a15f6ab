package systems

import (
	"io"
	"testing"

	"github.com/spaghettifunk/anima-gl/engine/assets"
	"github.com/spaghettifunk/anima-gl/engine/core"
	"github.com/spaghettifunk/anima-gl/engine/renderer"
	"github.com/spaghettifunk/anima-gl/engine/renderer/metadata"
	"github.com/spaghettifunk/anima-gl/engine/renderer/null"
	"github.com/stretchr/testify/require"
)

const cubeVertexSource = `#version 330 core
in vec3 in_Position;
in vec3 in_Normal;
in vec2 in_TexCoord;
in vec4 in_Color;
uniform mat4 u_matMVP;
out vec2 frag_TexCoord;
void main() {
	frag_TexCoord = in_TexCoord;
	gl_Position = u_matMVP * vec4(in_Position, 1.0);
}
`

const cubeFragmentSource = `#version 330 core
in vec2 frag_TexCoord;
uniform sampler2D tex0_Diffuse;
out vec4 out_Color;
void main() {
	out_Color = texture(tex0_Diffuse, frag_TexCoord);
}
`

type fixture struct {
	backend *null.Backend
	rs      *renderer.RenderSystem
	am      *assets.AssetManager
	dir     string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	core.SetLogOutput(io.Discard)

	backend := null.New()
	rs := renderer.NewRenderSystem(backend, nil, core.DefaultOptions().Render)
	dir := t.TempDir()
	am, err := assets.NewAssetManager(dir, 8)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = am.Shutdown()
		_ = rs.Shutdown()
	})
	return &fixture{backend: backend, rs: rs, am: am, dir: dir}
}

func (f *fixture) cubeProgram(t *testing.T) *renderer.Program {
	t.Helper()
	vs, err := f.rs.CreateShader(metadata.ShaderTypeVertex, cubeVertexSource)
	require.NoError(t, err)
	fs, err := f.rs.CreateShader(metadata.ShaderTypeFragment, cubeFragmentSource)
	require.NoError(t, err)
	p, err := f.rs.CreateProgram(vs, fs)
	require.NoError(t, err)
	return p
}
