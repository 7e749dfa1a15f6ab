package metadata

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"sync"

	"github.com/cespare/xxhash/v2"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

type ColorFormat uint8

const (
	ColorFormatRGB ColorFormat = iota
	ColorFormatBGR
	ColorFormatRGBA
	ColorFormatBGRA
)

func (f ColorFormat) Channels() int {
	switch f {
	case ColorFormatRGB, ColorFormatBGR:
		return 3
	default:
		return 4
	}
}

/**
 * @brief An image handed to the texture manager. It either wraps encoded
 * file bytes (decoded on first use) or raw pixels.
 */
type Image struct {
	/** @brief Path or name identifying the image. */
	Name string

	encoded []byte

	once   sync.Once
	width  int
	height int
	format ColorFormat
	pixels []uint8
	err    error
}

// NewImage wraps encoded image bytes (png, jpeg, bmp, tiff or webp).
func NewImage(name string, encoded []byte) *Image {
	return &Image{Name: name, encoded: encoded}
}

// NewImageFromPixels wraps already decoded pixels, tightly packed. Nil
// pixels describe an image whose storage is left uninitialized.
func NewImageFromPixels(name string, width, height int, format ColorFormat, pixels []uint8) *Image {
	img := &Image{Name: name, width: width, height: height, format: format, pixels: pixels}
	if pixels != nil && len(pixels) != width*height*format.Channels() {
		img.err = fmt.Errorf("image %s: %d bytes of pixels for %dx%d with %d channels",
			name, len(pixels), width, height, format.Channels())
	}
	img.once.Do(func() {})
	return img
}

// Decode decodes the image once and returns the RGBA pixels. Subsequent
// calls return the cached result, including a decode error.
func (i *Image) Decode() (width, height int, format ColorFormat, pixels []uint8, err error) {
	i.once.Do(func() {
		src, _, err := image.Decode(bytes.NewReader(i.encoded))
		if err != nil {
			i.err = err
			return
		}
		b := src.Bounds()
		rgba, ok := src.(*image.RGBA)
		if !ok || rgba.Stride != b.Dx()*4 {
			rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
			draw.Draw(rgba, rgba.Bounds(), src, b.Min, draw.Src)
		}
		i.width, i.height = b.Dx(), b.Dy()
		i.format = ColorFormatRGBA
		i.pixels = rgba.Pix
	})
	return i.width, i.height, i.format, i.pixels, i.err
}

// Hash identifies the image content for texture deduplication.
func (i *Image) Hash() uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(i.Name)
	if i.encoded != nil {
		_, _ = d.Write(i.encoded)
		return d.Sum64()
	}
	var b [24]byte
	binary.LittleEndian.PutUint64(b[0:], uint64(i.width))
	binary.LittleEndian.PutUint64(b[8:], uint64(i.height))
	binary.LittleEndian.PutUint64(b[16:], uint64(i.format))
	_, _ = d.Write(b[:])
	_, _ = d.Write(i.pixels)
	return d.Sum64()
}
