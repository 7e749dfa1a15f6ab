package renderer_test

import (
	"testing"

	"github.com/spaghettifunk/anima-gl/engine/core"
	"github.com/spaghettifunk/anima-gl/engine/math"
	"github.com/spaghettifunk/anima-gl/engine/renderer"
	"github.com/spaghettifunk/anima-gl/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVertexDataRoundTrip(t *testing.T) {
	f := newFixture(t)
	vd := f.quad(t)

	assert.True(t, vd.IsValid())
	assert.Equal(t, 4, vd.NumVertices())
	assert.Equal(t, 6, vd.NumIndices())
	assert.Equal(t, quadLayout.Stride*4, vd.VertexBuffer().NumBytes())

	indices := make([]uint32, 6)
	vd.ReadIndices(0, indices)
	assert.Equal(t, quadIndices, indices)

	vertices := make([]quadVertex, 4)
	vd.ReadVertices(0, renderer.VertexBytes(vertices))
	assert.Equal(t, quadVertices, vertices)

	// partial update at an index offset
	vd.WriteIndices([]uint32{3, 2}, 4, false)
	vd.ReadIndices(0, indices)
	assert.Equal(t, []uint32{0, 1, 2, 2, 3, 2}, indices)
}

func TestVertexArrayKeepsItsElementBuffer(t *testing.T) {
	f := newFixture(t)
	first := f.quad(t)
	first.BindForDrawing()
	vao := f.backend.CurrentVertexArray()
	require.NotZero(t, vao)
	assert.Equal(t, first.IndexBuffer().DrawHandle(), f.backend.ElementBuffer(vao))
	assert.Len(t, f.backend.VertexArrayAttributes(vao), len(quadLayout.Attributes))

	// creating and filling other vertex data leaves the first one intact
	second := f.quad(t)
	second.WriteIndices(quadIndices, 0, true)
	assert.Equal(t, first.IndexBuffer().DrawHandle(), f.backend.ElementBuffer(vao))
}

func TestMultiBufferedVertexDataUsesOneArrayPerSlot(t *testing.T) {
	f := newFixture(t)
	param := renderer.DefaultVertexDataParameter("particles", quadLayout, 4, 6)
	param.NumBuffers = 2
	param.UseIndexShadowBuffer = true
	param.Usage = metadata.BufferUsageDynamicWriteOnlyDiscardable
	vd, err := f.rs.CreateVertexData(param)
	require.NoError(t, err)

	vd.BindForDrawing()
	slot0 := f.backend.CurrentVertexArray()
	assert.Equal(t, vd.IndexBuffer().DrawHandle(), f.backend.ElementBuffer(slot0))

	vd.NextTimestep()
	vd.BindForDrawing()
	slot1 := f.backend.CurrentVertexArray()
	assert.NotEqual(t, slot0, slot1)
	assert.Equal(t, vd.IndexBuffer().DrawHandle(), f.backend.ElementBuffer(slot1))
	assert.Equal(t, vd.VertexBuffer().ModifyIndex(), vd.IndexBuffer().ModifyIndex())
}

func TestMultiBufferedVertexDataNeedsShadows(t *testing.T) {
	f := newFixture(t)
	param := renderer.DefaultVertexDataParameter("particles", quadLayout, 4, 6)
	param.NumBuffers = 3
	requireContractViolation(t, func() { _, _ = f.rs.CreateVertexData(param) })
}

func TestNonIndexedVertexDataDrawsArrays(t *testing.T) {
	f := newFixture(t)
	p := f.program(t, vertexSource, fragmentSource)
	vd, err := f.rs.CreateVertexData(renderer.DefaultVertexDataParameter("strip", quadLayout, 4, 0))
	require.NoError(t, err)
	assert.Nil(t, vd.IndexBuffer())

	f.backend.ResetCalls()
	require.True(t, f.rs.StateCache().Draw(renderer.NewDrawCommand(p, vd, math.NewMat4Identity())))
	draws := f.backend.Draws()
	require.Len(t, draws, 1)
	assert.False(t, draws[0].Indexed)
	assert.Equal(t, 4, draws[0].Count)
}

func TestLockedVertexDataCannotBeDrawn(t *testing.T) {
	f := newFixture(t)
	vd := f.quad(t)
	vd.LockVertices(metadata.LockNormal)
	requireContractViolation(t, func() { vd.BindForDrawing() })
	vd.UnlockVertices()

	vd.LockIndices(metadata.LockReadOnly)
	requireContractViolation(t, func() { vd.BindForDrawing() })
	vd.UnlockIndices()
	vd.BindForDrawing()
}

func TestVertexArrayCreateFailureReleasesBuffers(t *testing.T) {
	f := newFixture(t)
	f.backend.FailNext("CreateVertexArray", 1)
	live := f.backend.LiveObjects()

	_, err := f.rs.CreateVertexData(renderer.DefaultVertexDataParameter("quad", quadLayout, 4, 6))
	assert.ErrorIs(t, err, core.ErrVertexArrayCreate)
	assert.Equal(t, live, f.backend.LiveObjects())
}

func TestReleaseVertexDataDestroysItNow(t *testing.T) {
	f := newFixture(t)
	vd := f.quad(t)
	live := f.backend.LiveObjects()

	f.rs.Release(vd)
	assert.False(t, vd.IsValid())
	// two buffers and one vertex array
	assert.Equal(t, live-3, f.backend.LiveObjects())
}
