package systems

import (
	"testing"
	"unsafe"

	"github.com/spaghettifunk/anima-gl/engine/math"
	"github.com/spaghettifunk/anima-gl/engine/renderer"
	"github.com/spaghettifunk/anima-gl/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCubeVertexLayout(t *testing.T) {
	assert.Equal(t, 36, CubeVertexLayout.Stride)
	assert.Len(t, CubeVertexLayout.Attributes, 4)
	color, ok := CubeVertexLayout.Attribute(metadata.AttributeKindColor)
	require.True(t, ok)
	assert.True(t, color.Normalize)
	assert.Equal(t, 32, color.Offset)
}

func TestCubeTexCoordInversion(t *testing.T) {
	plain := CubeVertices(MeshParameter{})
	inverted := CubeVertices(MeshParameter{TexCoordInvertV: true})
	require.Len(t, plain, CubeVertexCount)
	for i := range plain {
		assert.Equal(t, plain[i].TexCoord.X, inverted[i].TexCoord.X)
		assert.Equal(t, 1-plain[i].TexCoord.Y, inverted[i].TexCoord.Y)
		assert.Equal(t, plain[i].Position, inverted[i].Position)
	}
	assert.Equal(t, []uint32{4, 5, 6, 6, 7, 4}, CubeIndices()[6:12])
}

func TestCubeRoundTripsAndDrawsOnce(t *testing.T) {
	f := newFixture(t)
	ms, err := NewMeshSystem(f.rs)
	require.NoError(t, err)
	program := f.cubeProgram(t)

	mesh, err := ms.CreateCube("box", false, MeshParameter{}, metadata.BufferUsageStaticWriteOnly)
	require.NoError(t, err)
	vd := mesh.VertexData()
	assert.Equal(t, CubeVertexCount, vd.NumVertices())
	assert.Equal(t, CubeIndexCount, vd.NumIndices())
	assert.True(t, mesh.BoundingBox().Contains(math.NewVec3(0.5, -0.5, 0.5)))

	want := CubeVertices(MeshParameter{})
	raw := vd.LockVertices(metadata.LockReadOnly)
	require.Len(t, raw, CubeVertexCount*CubeVertexLayout.Stride)
	got := unsafe.Slice((*CubeVertex)(unsafe.Pointer(&raw[0])), CubeVertexCount)
	for i := range want {
		assert.Equal(t, want[i].Position, got[i].Position, "vertex %d", i)
		assert.Equal(t, want[i].Color, got[i].Color, "vertex %d", i)
	}
	vd.UnlockVertices()

	indices := make([]uint32, CubeIndexCount)
	vd.ReadIndices(0, indices)
	assert.Equal(t, CubeIndices(), indices)

	f.rs.StateCache().Reset()
	f.backend.ResetCalls()
	require.True(t, f.rs.StateCache().Draw(renderer.NewDrawCommand(program, vd, math.NewMat4Identity())))
	assert.Equal(t, 1, f.backend.Calls("UseProgram"))
	assert.Equal(t, 1, f.backend.Calls("BindVertexArray"))
	assert.Equal(t, 1, f.backend.Calls("DrawElements"))
}

func TestCubesShareVertexData(t *testing.T) {
	f := newFixture(t)
	ms, err := NewMeshSystem(f.rs)
	require.NoError(t, err)

	a, err := ms.CreateCube("a", false, MeshParameter{}, metadata.BufferUsageStaticWriteOnly)
	require.NoError(t, err)
	b, err := ms.CreateCube("b", false, MeshParameter{}, metadata.BufferUsageStaticWriteOnly)
	require.NoError(t, err)
	flipped, err := ms.CreateCube("c", false, MeshParameter{TexCoordInvertV: true}, metadata.BufferUsageStaticWriteOnly)
	require.NoError(t, err)
	own, err := ms.CreateCube("d", true, MeshParameter{}, metadata.BufferUsageStaticWriteOnly)
	require.NoError(t, err)

	assert.Same(t, a.VertexData(), b.VertexData())
	assert.NotSame(t, a.VertexData(), flipped.VertexData())
	assert.NotSame(t, a.VertexData(), own.VertexData())
	assert.Equal(t, 3, ms.Live())

	ms.Release(a)
	assert.True(t, b.VertexData().IsValid())
	ms.Release(b)
	assert.False(t, b.VertexData().IsValid())
	assert.Equal(t, 2, ms.Live())

	again, err := ms.CreateCube("e", false, MeshParameter{}, metadata.BufferUsageStaticWriteOnly)
	require.NoError(t, err)
	assert.NotSame(t, a.VertexData(), again.VertexData())

	require.NoError(t, ms.Shutdown())
	assert.Zero(t, ms.Live())
	assert.False(t, own.VertexData().IsValid())
}
