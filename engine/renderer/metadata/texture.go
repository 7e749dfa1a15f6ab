package metadata

import "fmt"

/**
 * @brief Represents various types of textures.
 */
type TextureKind uint8

const (
	Texture1D TextureKind = iota
	/** @brief A standard two-dimensional texture. */
	Texture2D
	Texture3D
	/** @brief A cube texture, used for cubemaps. */
	TextureCubeMap
)

func (k TextureKind) String() string {
	switch k {
	case Texture1D:
		return "1D"
	case Texture2D:
		return "2D"
	case Texture3D:
		return "3D"
	case TextureCubeMap:
		return "CubeMap"
	default:
		return fmt.Sprintf("TextureKind(%d)", uint8(k))
	}
}

type TextureFilter uint8

const (
	/** @brief Select the texel nearest to the texture coordinate. */
	TextureFilterNearest TextureFilter = iota
	/** @brief Linear blend between the nearest adjacent samples. */
	TextureFilterLinear
)

/**
 * @brief What happens to texture coordinates outside [0, 1].
 */
type TextureEdgeSampling uint8

const (
	TextureEdgeRepeat TextureEdgeSampling = iota
	TextureEdgeMirroredRepeat
	TextureEdgeClampToEdge
	TextureEdgeClampToBorder
)

/**
 * @brief The filter used when minifying a mipmapped texture.
 */
type MipmapFilter uint8

const (
	MipmapNearestNearest MipmapFilter = iota
	MipmapNearestLinear
	MipmapLinearNearest
	MipmapLinearLinear
)

/**
 * @brief Parameters used to construct a texture. Part of the texture's
 * identity: the same image with different parameters is a different texture.
 */
type TextureParameter struct {
	Kind      TextureKind
	MinFilter TextureFilter
	MagFilter TextureFilter
	UseMipmap bool
	/** @brief Interpolate between two mipmap levels (requires UseMipmap). */
	InterpolateBetweenMipmaps bool
	Dim1EdgeSampling          TextureEdgeSampling
	Dim2EdgeSampling          TextureEdgeSampling
	Dim3EdgeSampling          TextureEdgeSampling
}

func DefaultTextureParameter() TextureParameter {
	return TextureParameter{
		Kind:                      Texture2D,
		MinFilter:                 TextureFilterLinear,
		MagFilter:                 TextureFilterLinear,
		UseMipmap:                 true,
		InterpolateBetweenMipmaps: true,
	}
}

// MinMipmapFilter picks the minification filter used when mipmapping is on.
func (p TextureParameter) MinMipmapFilter() MipmapFilter {
	switch {
	case p.InterpolateBetweenMipmaps && p.MinFilter == TextureFilterLinear:
		return MipmapLinearLinear
	case p.InterpolateBetweenMipmaps:
		return MipmapLinearNearest
	case p.MinFilter == TextureFilterLinear:
		return MipmapNearestLinear
	default:
		return MipmapNearestNearest
	}
}

func (p TextureParameter) String() string {
	return fmt.Sprintf("{kind=%s min=%d mag=%d mipmap=%t interpolate=%t edges=%d/%d/%d}",
		p.Kind, p.MinFilter, p.MagFilter, p.UseMipmap, p.InterpolateBetweenMipmaps,
		p.Dim1EdgeSampling, p.Dim2EdgeSampling, p.Dim3EdgeSampling)
}
