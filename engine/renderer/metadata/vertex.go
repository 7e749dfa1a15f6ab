package metadata

import "fmt"

/**
 * @brief Scalar type of a vertex attribute component.
 */
type AttributeType uint8

const (
	AttributeFloat32 AttributeType = iota
	AttributeUInt8
	AttributeInt8
	AttributeUInt16
	AttributeInt16
	AttributeUInt32
	AttributeInt32
)

func (t AttributeType) Size() int {
	switch t {
	case AttributeUInt8, AttributeInt8:
		return 1
	case AttributeUInt16, AttributeInt16:
		return 2
	default:
		return 4
	}
}

func (t AttributeType) String() string {
	switch t {
	case AttributeFloat32:
		return "float32"
	case AttributeUInt8:
		return "uint8"
	case AttributeInt8:
		return "int8"
	case AttributeUInt16:
		return "uint16"
	case AttributeInt16:
		return "int16"
	case AttributeUInt32:
		return "uint32"
	case AttributeInt32:
		return "int32"
	default:
		return fmt.Sprintf("AttributeType(%d)", uint8(t))
	}
}

/**
 * @brief The semantic of a vertex attribute. The value is the attribute location.
 */
type AttributeKind uint8

const (
	AttributeKindPosition AttributeKind = iota
	AttributeKindNormal
	AttributeKindTexCoord
	AttributeKindColor
	AttributeKindTangent
	AttributeKindBitangent

	NumAttributeKinds = int(AttributeKindBitangent) + 1
)

func (k AttributeKind) Name() string {
	switch k {
	case AttributeKindPosition:
		return AttributePosition
	case AttributeKindNormal:
		return AttributeNormal
	case AttributeKindTexCoord:
		return AttributeTexCoord
	case AttributeKindColor:
		return AttributeColor
	case AttributeKindTangent:
		return AttributeTangent
	case AttributeKindBitangent:
		return AttributeBitangent
	default:
		return fmt.Sprintf("AttributeKind(%d)", uint8(k))
	}
}

func (k AttributeKind) Location() uint32 {
	return uint32(k)
}

/**
 * @brief Describes one attribute inside an interleaved vertex.
 */
type VertexAttribute struct {
	Kind        AttributeKind
	Type        AttributeType
	Offset      int
	NumElements int
	/** @brief Map integer values to [0, 1] (unsigned) or [-1, 1] (signed). */
	Normalize bool
}

func (a VertexAttribute) SizeOf() int {
	return a.Type.Size() * a.NumElements
}

type DrawMode uint8

const (
	DrawModeTriangles DrawMode = iota
	DrawModeTriangleStrip
	DrawModeLines
	DrawModePoints
)

func (m DrawMode) String() string {
	switch m {
	case DrawModeTriangles:
		return "Triangles"
	case DrawModeTriangleStrip:
		return "TriangleStrip"
	case DrawModeLines:
		return "Lines"
	case DrawModePoints:
		return "Points"
	default:
		return fmt.Sprintf("DrawMode(%d)", uint8(m))
	}
}

/** @brief Indices are always 32-bit unsigned integers. */
const IndexSize = 4
