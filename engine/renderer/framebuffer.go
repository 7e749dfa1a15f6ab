package renderer

import (
	"fmt"

	"github.com/spaghettifunk/anima-gl/engine/core"
)

/**
 * @brief An offscreen render target with one color texture and a combined
 * depth/stencil attachment.
 */
type FrameBufferObject struct {
	Resource

	backend      GraphicsBackend
	cache        *StateCacheManager
	name         string
	id           uint32
	depthStencil uint32
	color        *Texture
}

func NewFrameBufferObject(backend GraphicsBackend, cache *StateCacheManager, name string, color *Texture) (*FrameBufferObject, error) {
	core.Assert(color.IsValid(), "framebuffer %s: color texture is not valid", name)

	fbo := &FrameBufferObject{
		Resource: newResource(backend.Kind()),
		backend:  backend,
		cache:    cache,
		name:     name,
		color:    color,
	}
	fbo.id = backend.CreateFramebuffer()
	if fbo.id == 0 {
		return nil, fmt.Errorf("%w: %s", core.ErrFramebufferCreate, name)
	}

	width, height := color.Size()
	cache.BindFrameBufferObject(fbo)
	backend.AttachColorTexture(color.Handle())
	fbo.depthStencil = backend.AttachDepthStencil(width, height)
	complete := backend.FramebufferComplete()
	cache.UnbindFrameBufferObject()

	if !complete {
		fbo.Destroy()
		return nil, fmt.Errorf("%w: %s", core.ErrFramebufferIncomplete, name)
	}
	fbo.markValid()
	core.LogDebug("created framebuffer %s (ID=%d) %dx%d", name, fbo.id, width, height)
	return fbo, nil
}

func (f *FrameBufferObject) Name() string { return f.name }

func (f *FrameBufferObject) Handle() uint32 { return f.id }

func (f *FrameBufferObject) ColorTexture() *Texture { return f.color }

func (f *FrameBufferObject) Destroy() {
	f.cache.forgetFrameBuffer(f)
	if f.id != 0 {
		f.backend.DeleteFramebuffer(f.id, f.depthStencil)
		f.id, f.depthStencil = 0, 0
	}
	f.markDestroyed()
}
