package renderer

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/spaghettifunk/anima-gl/engine/core"
	"github.com/spaghettifunk/anima-gl/engine/renderer/metadata"
)

/**
 * @brief A texture uploaded from an image. Textures are deduplicated by the
 * image identity together with the texture parameters.
 */
type Texture struct {
	Resource

	image *metadata.Image
	param metadata.TextureParameter
	id    uint32

	width  int
	height int
}

func (t *Texture) handle() *Resource { return &t.Resource }

func (t *Texture) Handle() uint32 { return t.id }

func (t *Texture) Image() *metadata.Image { return t.image }

func (t *Texture) Parameter() metadata.TextureParameter { return t.param }

// Size is known once the texture is valid.
func (t *Texture) Size() (width, height int) { return t.width, t.height }

func (t *Texture) destroy(backend GraphicsBackend) {
	if t.id != 0 {
		backend.DeleteTexture(t.id)
		t.id = 0
	}
	t.markDestroyed()
}

type TextureManager struct {
	manager[*Texture]
	cache *StateCacheManager
}

func NewTextureManager(backend GraphicsBackend, cache *StateCacheManager) *TextureManager {
	m := &TextureManager{
		manager: newManager[*Texture]("TextureManager", backend),
		cache:   cache,
	}
	m.beforeDestroy = cache.forgetTexture
	return m
}

func textureKey(image *metadata.Image, param metadata.TextureParameter) uint64 {
	d := xxhash.New()
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], image.Hash())
	_, _ = d.Write(b[:])
	_, _ = d.WriteString(param.String())
	return d.Sum64()
}

func (m *TextureManager) Create(image *metadata.Image, param metadata.TextureParameter) *Texture {
	return m.create(textureKey(image, param), func() *Texture {
		return &Texture{
			Resource: newResource(m.backend.Kind()),
			image:    image,
			param:    param,
		}
	})
}

/**
 * @brief Decodes the image and uploads it. The upload binds the texture to
 * unit 0 through the state cache so the cached bindings stay accurate.
 */
func (m *TextureManager) MakeValid(t *Texture) error {
	m.assertRealizable(t)

	if t.param.Kind != metadata.Texture2D {
		return m.fail(t, fmt.Errorf("%w: %s textures cannot be created from an image", core.ErrTextureCreate, t.param.Kind))
	}
	width, height, format, pixels, err := t.image.Decode()
	if err != nil {
		return m.fail(t, fmt.Errorf("%w: %s: %v", core.ErrImageDecode, t.image.Name, err))
	}
	t.id = m.backend.CreateTexture()
	if t.id == 0 {
		return m.fail(t, fmt.Errorf("%w: %s", core.ErrTextureCreate, t.image.Name))
	}
	t.width, t.height = width, height

	m.cache.BindTexture(0, t)
	m.backend.TexImage2D(width, height, format, pixels)
	m.backend.TextureParameters(t.param)
	if t.param.UseMipmap {
		m.backend.GenerateMipmap(t.param.Kind)
	}

	t.markValid()
	core.LogDebug("uploaded texture (ID=%d) %s %dx%d %s", t.id, t.image.Name, width, height, t.param)
	return nil
}
