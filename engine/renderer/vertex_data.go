package renderer

import (
	"fmt"

	"github.com/spaghettifunk/anima-gl/engine/core"
	"github.com/spaghettifunk/anima-gl/engine/math"
	"github.com/spaghettifunk/anima-gl/engine/renderer/metadata"
)

/**
 * @brief Describes the vertex data to create. Counts are fixed for the
 * lifetime of the vertex data. More than one buffer requires both shadow
 * buffers.
 */
type VertexDataParameter struct {
	Name        string
	Layout      VertexLayout
	NumVertices int
	/** @brief 0 creates vertex data without an index buffer. */
	NumIndices int
	NumBuffers int

	UseVertexShadowBuffer bool
	UseIndexShadowBuffer  bool

	Usage    metadata.BufferUsage
	DrawMode metadata.DrawMode
}

func DefaultVertexDataParameter(name string, layout VertexLayout, numVertices, numIndices int) VertexDataParameter {
	return VertexDataParameter{
		Name:                  name,
		Layout:                layout,
		NumVertices:           numVertices,
		NumIndices:            numIndices,
		NumBuffers:            1,
		UseVertexShadowBuffer: true,
		UseIndexShadowBuffer:  false,
		Usage:                 metadata.BufferUsageStaticWriteOnly,
		DrawMode:              metadata.DrawModeTriangles,
	}
}

/**
 * @brief A drawable unit: a vertex buffer, an optional index buffer and one
 * vertex array object per buffer slot. Attributes are set up once, when the
 * vertex array objects are created; drawing from another slot just binds
 * another vertex array object.
 */
type VertexData struct {
	Resource

	backend GraphicsBackend
	cache   *StateCacheManager
	param   VertexDataParameter

	vertexBuffer *Buffer
	indexBuffer  *Buffer
	vaos         []uint32

	boundingBox math.Extents3D
}

func NewVertexData(backend GraphicsBackend, cache *StateCacheManager, param VertexDataParameter) (*VertexData, error) {
	core.Assert(param.Layout.Stride > 0, "vertex data %s: layout has no stride", param.Name)
	core.Assert(param.NumVertices > 0, "vertex data %s: no vertices", param.Name)
	if param.NumBuffers < 1 {
		param.NumBuffers = 1
	}

	vd := &VertexData{
		Resource: newResource(backend.Kind()),
		backend:  backend,
		cache:    cache,
		param:    param,
	}

	var err error
	vd.vertexBuffer, err = NewBuffer(backend, metadata.BufferTargetVertex, param.NumBuffers, param.UseVertexShadowBuffer)
	if err != nil {
		return nil, fmt.Errorf("vertex data %s: %w", param.Name, err)
	}
	if param.NumIndices > 0 {
		vd.indexBuffer, err = NewBuffer(backend, metadata.BufferTargetIndex, param.NumBuffers, param.UseIndexShadowBuffer)
		if err != nil {
			vd.Destroy()
			return nil, fmt.Errorf("vertex data %s: %w", param.Name, err)
		}
	}

	// allocate with no vertex array bound so no other element binding changes
	cache.bindVertexArray(nil, 0)
	vd.vertexBuffer.Allocate(param.NumVertices*param.Layout.Stride, param.Usage)
	if vd.indexBuffer != nil {
		vd.indexBuffer.Allocate(param.NumIndices*metadata.IndexSize, param.Usage)
	}

	vd.vaos = make([]uint32, param.NumBuffers)
	for slot := range vd.vaos {
		vao := backend.CreateVertexArray()
		if vao == 0 {
			vd.Destroy()
			return nil, fmt.Errorf("%w: vertex data %s", core.ErrVertexArrayCreate, param.Name)
		}
		vd.vaos[slot] = vao

		cache.bindVertexArray(vd, vao)
		backend.BindBuffer(metadata.BufferTargetVertex, vd.vertexBuffer.handleAt(slot))
		for _, attr := range param.Layout.Attributes {
			backend.EnableVertexAttribute(attr, param.Layout.Stride)
		}
		if vd.indexBuffer != nil {
			backend.BindBuffer(metadata.BufferTargetIndex, vd.indexBuffer.handleAt(slot))
		}
	}

	vd.markValid()
	core.LogDebug("created vertex data %s: %d vertices, %d indices, %d buffers, layout %s",
		param.Name, param.NumVertices, param.NumIndices, param.NumBuffers, param.Layout)
	return vd, nil
}

func (vd *VertexData) Name() string { return vd.param.Name }

func (vd *VertexData) Layout() VertexLayout { return vd.param.Layout }

func (vd *VertexData) NumVertices() int { return vd.param.NumVertices }

func (vd *VertexData) NumIndices() int { return vd.param.NumIndices }

func (vd *VertexData) DrawMode() metadata.DrawMode { return vd.param.DrawMode }

func (vd *VertexData) BoundingBox() math.Extents3D { return vd.boundingBox }

func (vd *VertexData) SetBoundingBox(box math.Extents3D) { vd.boundingBox = box }

func (vd *VertexData) VertexBuffer() *Buffer { return vd.vertexBuffer }

// IndexBuffer is nil for non-indexed vertex data.
func (vd *VertexData) IndexBuffer() *Buffer { return vd.indexBuffer }

func (vd *VertexData) drawArray() uint32 {
	return vd.vaos[vd.vertexBuffer.DrawIndex()]
}

func (vd *VertexData) modifyArray() uint32 {
	return vd.vaos[vd.vertexBuffer.ModifyIndex()]
}

// BindForDrawing binds the vertex array object of the draw slot.
func (vd *VertexData) BindForDrawing() {
	core.Assert(!vd.vertexBuffer.IsLocked(), "vertex data %s: vertex buffer must be unlocked before drawing", vd.param.Name)
	core.Assert(vd.indexBuffer == nil || !vd.indexBuffer.IsLocked(), "vertex data %s: index buffer must be unlocked before drawing", vd.param.Name)
	vd.cache.bindVertexArray(vd, vd.drawArray())
}

// BindForModify binds the vertex array object and buffers of the modify slot.
func (vd *VertexData) BindForModify() {
	vd.cache.bindVertexArray(vd, vd.modifyArray())
	vd.vertexBuffer.BindForModify()
	if vd.indexBuffer != nil {
		vd.indexBuffer.BindForModify()
	}
}

// Draw issues the draw call. The vertex data must be bound for drawing.
func (vd *VertexData) Draw() {
	if vd.indexBuffer != nil {
		vd.backend.DrawElements(vd.param.DrawMode, vd.param.NumIndices)
		return
	}
	vd.backend.DrawArrays(vd.param.DrawMode, 0, vd.param.NumVertices)
}

/**
 * @brief Advances the vertex and index buffer rotation. Call once per frame
 * after every write of that frame.
 */
func (vd *VertexData) NextTimestep() {
	vd.vertexBuffer.NextTimestep()
	if vd.indexBuffer != nil {
		vd.indexBuffer.NextTimestep()
		core.Assert(vd.indexBuffer.ModifyIndex() == vd.vertexBuffer.ModifyIndex(),
			"vertex data %s: index and vertex buffers out of step", vd.param.Name)
	}
}

func (vd *VertexData) LockVertices(option metadata.LockOption) []byte {
	vd.cache.bindVertexArray(vd, vd.modifyArray())
	return vd.vertexBuffer.Lock(option)
}

func (vd *VertexData) UnlockVertices() {
	vd.cache.bindVertexArray(vd, vd.modifyArray())
	vd.vertexBuffer.Unlock()
}

func (vd *VertexData) LockIndices(option metadata.LockOption) []byte {
	core.Assert(vd.indexBuffer != nil, "vertex data %s has no index buffer", vd.param.Name)
	vd.cache.bindVertexArray(vd, vd.modifyArray())
	return vd.indexBuffer.Lock(option)
}

func (vd *VertexData) UnlockIndices() {
	core.Assert(vd.indexBuffer != nil, "vertex data %s has no index buffer", vd.param.Name)
	vd.cache.bindVertexArray(vd, vd.modifyArray())
	vd.indexBuffer.Unlock()
}

// WriteVertices copies raw vertex bytes starting at byte offset.
func (vd *VertexData) WriteVertices(src []byte, offset int, discard bool) {
	vd.cache.bindVertexArray(vd, vd.modifyArray())
	vd.vertexBuffer.Write(src, offset, discard)
}

func (vd *VertexData) ReadVertices(offset int, dst []byte) {
	vd.cache.bindVertexArray(vd, vd.modifyArray())
	vd.vertexBuffer.Read(offset, dst)
}

// WriteIndices copies indices starting at index (not byte) offset.
func (vd *VertexData) WriteIndices(indices []uint32, offset int, discard bool) {
	core.Assert(vd.indexBuffer != nil, "vertex data %s has no index buffer", vd.param.Name)
	vd.cache.bindVertexArray(vd, vd.modifyArray())
	vd.indexBuffer.Write(IndexBytes(indices), offset*metadata.IndexSize, discard)
}

func (vd *VertexData) ReadIndices(offset int, dst []uint32) {
	core.Assert(vd.indexBuffer != nil, "vertex data %s has no index buffer", vd.param.Name)
	vd.cache.bindVertexArray(vd, vd.modifyArray())
	vd.indexBuffer.Read(offset*metadata.IndexSize, IndexBytes(dst))
}

// Destroy releases the buffers and vertex array objects.
func (vd *VertexData) Destroy() {
	vd.cache.forgetVertexData(vd)
	for i, vao := range vd.vaos {
		if vao != 0 {
			vd.backend.DeleteVertexArray(vao)
			vd.vaos[i] = 0
		}
	}
	if vd.vertexBuffer != nil {
		vd.vertexBuffer.Destroy()
	}
	if vd.indexBuffer != nil {
		vd.indexBuffer.Destroy()
	}
	vd.markDestroyed()
}
