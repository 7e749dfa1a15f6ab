package systems

import (
	"fmt"
	"sync"

	"github.com/spaghettifunk/anima-gl/engine/assets"
	"github.com/spaghettifunk/anima-gl/engine/core"
	"github.com/spaghettifunk/anima-gl/engine/renderer"
	"github.com/spaghettifunk/anima-gl/engine/renderer/metadata"
)

/** @brief The name of the builtin checkerboard texture. */
const DEFAULT_TEXTURE_NAME string = "default"

const defaultTextureDimension int = 256

type textureReference struct {
	texture        *renderer.Texture
	referenceCount uint32
}

/**
 * @brief Loads textures by asset name and keeps them alive while they are
 * referenced. A checkerboard texture is always available as a fallback.
 */
type TextureSystem struct {
	renderSystem *renderer.RenderSystem
	assetManager *assets.AssetManager
	jobSystem    *JobSystem

	mutex          sync.Mutex
	textures       map[string]*textureReference
	defaultTexture *renderer.Texture
}

func NewTextureSystem(rs *renderer.RenderSystem, am *assets.AssetManager, js *JobSystem) (*TextureSystem, error) {
	ts := &TextureSystem{
		renderSystem: rs,
		assetManager: am,
		jobSystem:    js,
		textures:     make(map[string]*textureReference),
	}

	// NOTE: the default texture is generated in code to eliminate asset dependencies.
	param := metadata.DefaultTextureParameter()
	param.MagFilter = metadata.TextureFilterNearest
	t, err := rs.CreateTexture(checkerboard(DEFAULT_TEXTURE_NAME, defaultTextureDimension), param)
	if err != nil {
		core.LogError("failed to create the default texture: %s", err)
		return nil, err
	}
	ts.defaultTexture = t
	return ts, nil
}

// checkerboard builds a blue and white checkerboard, one texel per square.
func checkerboard(name string, dimension int) *metadata.Image {
	pixels := make([]uint8, dimension*dimension*4)
	for i := range pixels {
		pixels[i] = 255
	}
	for row := 0; row < dimension; row++ {
		for col := 0; col < dimension; col++ {
			if (row+col)%2 == 0 {
				index := (row*dimension + col) * 4
				pixels[index+0] = 0
				pixels[index+1] = 0
			}
		}
	}
	return metadata.NewImageFromPixels(name, dimension, dimension, metadata.ColorFormatRGBA, pixels)
}

func (ts *TextureSystem) GetDefault() *renderer.Texture {
	return ts.defaultTexture
}

/**
 * @brief Acquires the texture of the named image, loading it on first use.
 * The internal reference counter is incremented. On failure the error is
 * returned and callers are expected to fall back to GetDefault.
 */
func (ts *TextureSystem) Acquire(name string, param metadata.TextureParameter) (*renderer.Texture, error) {
	if name == DEFAULT_TEXTURE_NAME {
		return ts.defaultTexture, nil
	}
	if t, ok := ts.reference(name); ok {
		return t, nil
	}

	img, err := ts.assetManager.LoadImage(name)
	if err != nil {
		return nil, err
	}
	return ts.create(name, img, param)
}

/**
 * @brief Loads the image on a job worker and creates the texture during
 * the next JobSystem.Update. fn runs on the goroutine calling Update.
 */
func (ts *TextureSystem) AcquireAsync(name string, param metadata.TextureParameter, fn func(*renderer.Texture, error)) error {
	if name == DEFAULT_TEXTURE_NAME {
		fn(ts.defaultTexture, nil)
		return nil
	}
	if t, ok := ts.reference(name); ok {
		fn(t, nil)
		return nil
	}

	return ts.jobSystem.Submit(JobTask{
		Name: "load texture " + name,
		OnStart: func() (any, error) {
			return ts.assetManager.LoadImage(name)
		},
		OnComplete: func(result any) {
			img, ok := result.(*metadata.Image)
			if !ok {
				fn(nil, fmt.Errorf("texture %s: unexpected job result %T", name, result))
				return
			}
			fn(ts.create(name, img, param))
		},
		OnFailure: func(err error) {
			fn(nil, err)
		},
	})
}

func (ts *TextureSystem) reference(name string) (*renderer.Texture, bool) {
	ts.mutex.Lock()
	defer ts.mutex.Unlock()
	ref, ok := ts.textures[name]
	if !ok {
		return nil, false
	}
	ref.referenceCount++
	return ref.texture, true
}

func (ts *TextureSystem) create(name string, img *metadata.Image, param metadata.TextureParameter) (*renderer.Texture, error) {
	ts.mutex.Lock()
	defer ts.mutex.Unlock()

	// an async load of the same name may have finished first
	if ref, ok := ts.textures[name]; ok {
		ref.referenceCount++
		return ref.texture, nil
	}
	t, err := ts.renderSystem.CreateTexture(img, param)
	if err != nil {
		return nil, fmt.Errorf("texture %s: %w", name, err)
	}
	ts.textures[name] = &textureReference{texture: t, referenceCount: 1}
	core.LogDebug("texture '%s' loaded", name)
	return t, nil
}

/**
 * @brief Releases a texture with the given name. When the reference counter
 * reaches 0 the texture is released to the render system.
 */
func (ts *TextureSystem) Release(name string) {
	if name == DEFAULT_TEXTURE_NAME {
		return
	}
	ts.mutex.Lock()
	defer ts.mutex.Unlock()

	ref, ok := ts.textures[name]
	if !ok {
		core.LogWarn("TextureSystem.Release called for unknown texture '%s'", name)
		return
	}
	ref.referenceCount--
	if ref.referenceCount == 0 {
		delete(ts.textures, name)
		ts.renderSystem.Release(ref.texture)
	}
}

func (ts *TextureSystem) Shutdown() error {
	ts.mutex.Lock()
	defer ts.mutex.Unlock()
	for _, ref := range ts.textures {
		ts.renderSystem.Release(ref.texture)
	}
	ts.textures = make(map[string]*textureReference)
	if ts.defaultTexture != nil {
		ts.renderSystem.Release(ts.defaultTexture)
		ts.defaultTexture = nil
	}
	return nil
}
