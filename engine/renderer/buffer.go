package renderer

import (
	"fmt"

	"github.com/spaghettifunk/anima-gl/engine/core"
	"github.com/spaghettifunk/anima-gl/engine/renderer/metadata"
)

/**
 * @brief A vertex or index buffer backed by one or more device buffers.
 *
 * With more than one backing buffer the buffer rotates every timestep: the
 * CPU writes into the modify buffer while the device reads the draw buffer,
 * which is the one written the furthest in the past. Multi-buffering needs a
 * shadow copy, which is uploaded to the modify buffer on unlock.
 */
type Buffer struct {
	backend GraphicsBackend
	target  metadata.BufferTarget
	ids     []uint32

	numBytes int
	usage    metadata.BufferUsage

	locked     bool
	lockOption metadata.LockOption
	mapped     []byte

	modifyIdx int
	drawIdx   int

	useShadow bool
	shadow    []byte
}

func NewBuffer(backend GraphicsBackend, target metadata.BufferTarget, numBuffers int, useShadow bool) (*Buffer, error) {
	core.Assert(numBuffers >= 1, "buffer needs at least one backing buffer, got %d", numBuffers)
	core.Assert(numBuffers == 1 || useShadow, "multiple buffers require shadow buffering")

	b := &Buffer{
		backend:   backend,
		target:    target,
		ids:       make([]uint32, numBuffers),
		useShadow: useShadow,
		usage:     metadata.BufferUsageStaticWriteOnly,
	}
	for i := range b.ids {
		b.ids[i] = backend.CreateBuffer()
		if b.ids[i] == 0 {
			b.Destroy()
			return nil, fmt.Errorf("%w: %s %d/%d", core.ErrBufferCreate, target, i+1, numBuffers)
		}
	}
	b.updateDrawIndex()
	return b, nil
}

func (b *Buffer) Target() metadata.BufferTarget { return b.target }

func (b *Buffer) NumBytes() int { return b.numBytes }

func (b *Buffer) NumBuffers() int { return len(b.ids) }

func (b *Buffer) Usage() metadata.BufferUsage { return b.usage }

func (b *Buffer) IsLocked() bool { return b.locked }

func (b *Buffer) ModifyIndex() int { return b.modifyIdx }

func (b *Buffer) DrawIndex() int { return b.drawIdx }

func (b *Buffer) HasShadow() bool { return b.useShadow }

// ModifyHandle and DrawHandle return the backend ids of the current slots.
func (b *Buffer) ModifyHandle() uint32 { return b.ids[b.modifyIdx] }

func (b *Buffer) DrawHandle() uint32 { return b.ids[b.drawIdx] }

func (b *Buffer) handleAt(slot int) uint32 { return b.ids[slot] }

/**
 * @brief Specifies storage of numBytes on every backing buffer. Previous
 * contents are lost and the shadow copy is zeroed.
 */
func (b *Buffer) Allocate(numBytes int, usage metadata.BufferUsage) {
	core.Assert(!b.locked, "cannot allocate a locked %s", b.target)
	core.Assert(numBytes >= 0, "negative buffer size %d", numBytes)

	b.numBytes = numBytes
	b.usage = usage
	for _, id := range b.ids {
		b.backend.BindBuffer(b.target, id)
		b.backend.BufferData(b.target, numBytes, nil, usage.Hint())
	}
	if b.useShadow {
		b.shadow = make([]byte, numBytes)
	}
}

/**
 * @brief Locks the buffer for CPU access and returns the memory to use.
 * The slice is only valid until Unlock. Locks are not reentrant.
 */
func (b *Buffer) Lock(option metadata.LockOption) []byte {
	core.Assert(!b.locked, "%s is already locked", b.target)

	b.locked = true
	b.lockOption = option

	if b.useShadow {
		if option == metadata.LockDiscard {
			b.BindForModify()
			b.backend.BufferData(b.target, b.numBytes, nil, b.usage.Hint())
		}
		return b.shadow
	}

	b.BindForModify()
	if option == metadata.LockDiscard {
		b.backend.BufferData(b.target, b.numBytes, nil, b.usage.Hint())
	}
	b.mapped = b.backend.MapBuffer(b.target, b.numBytes, option.Access())
	return b.mapped
}

// Unlock finishes the access started by Lock.
func (b *Buffer) Unlock() {
	core.Assert(b.locked, "%s is not locked", b.target)

	if b.useShadow {
		if b.lockOption != metadata.LockReadOnly {
			b.BindForModify()
			b.backend.BufferSubData(b.target, 0, b.shadow)
		}
	} else {
		b.BindForModify()
		if !b.backend.UnmapBuffer(b.target) {
			core.LogWarn("%s (ID=%d): contents were lost while mapped", b.target, b.ModifyHandle())
		}
		b.mapped = nil
	}
	b.locked = false
}

/**
 * @brief Copies src into the buffer at offset. With discard the whole buffer
 * is invalidated first, so anything outside the written range is undefined.
 */
func (b *Buffer) Write(src []byte, offset int, discard bool) {
	core.Assert(offset >= 0 && offset+len(src) <= b.numBytes, "out of bound writing")

	option := metadata.LockWriteOnly
	if discard {
		option = metadata.LockDiscard
	}
	dst := b.Lock(option)
	copy(dst[offset:], src)
	b.Unlock()
}

// Read copies len(dst) bytes starting at offset into dst.
func (b *Buffer) Read(offset int, dst []byte) {
	core.Assert(offset >= 0 && offset+len(dst) <= b.numBytes, "out of bound reading")

	src := b.Lock(metadata.LockReadOnly)
	copy(dst, src[offset:offset+len(dst)])
	b.Unlock()
}

// NextTimestep advances the rotation by one frame.
func (b *Buffer) NextTimestep() {
	n := len(b.ids)
	b.modifyIdx = (b.modifyIdx + 1) % n
	b.updateDrawIndex()
}

func (b *Buffer) updateDrawIndex() {
	n := len(b.ids)
	b.drawIdx = (b.modifyIdx + n - 1) % n
}

func (b *Buffer) BindForDrawing() {
	core.Assert(!b.locked, "%s must be unlocked before it is bound for drawing", b.target)
	b.backend.BindBuffer(b.target, b.DrawHandle())
}

func (b *Buffer) BindForModify() {
	b.backend.BindBuffer(b.target, b.ModifyHandle())
}

func (b *Buffer) Destroy() {
	for i, id := range b.ids {
		if id != 0 {
			b.backend.DeleteBuffer(id)
			b.ids[i] = 0
		}
	}
	b.shadow = nil
	b.mapped = nil
	b.locked = false
}
