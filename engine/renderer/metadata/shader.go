package metadata

import "fmt"

/**
 * @brief The pipeline stage a shader is compiled for.
 */
type ShaderType uint8

const (
	ShaderTypeCompute ShaderType = iota
	ShaderTypeVertex
	ShaderTypeTessControl
	ShaderTypeTessEvaluation
	ShaderTypeGeometry
	ShaderTypeFragment
)

func (t ShaderType) String() string {
	switch t {
	case ShaderTypeCompute:
		return "Compute"
	case ShaderTypeVertex:
		return "Vertex"
	case ShaderTypeTessControl:
		return "TessControl"
	case ShaderTypeTessEvaluation:
		return "TessEvaluation"
	case ShaderTypeGeometry:
		return "Geometry"
	case ShaderTypeFragment:
		return "Fragment"
	default:
		return fmt.Sprintf("ShaderType(%d)", uint8(t))
	}
}

/**
 * @brief Fixed vertex attribute locations. Vertex shaders must name their
 * inputs accordingly; anything else is rejected when the program is linked.
 */
const (
	AttributePosition  = "in_Position"
	AttributeNormal    = "in_Normal"
	AttributeTexCoord  = "in_TexCoord"
	AttributeColor     = "in_Color"
	AttributeTangent   = "in_Tangent"
	AttributeBitangent = "in_Bitangent"

	/** @brief The only supported fragment output, bound to draw buffer 0. */
	FragmentOutputColor = "out_Color"
)

// AttributeLocations maps the attribute names above to their location.
var AttributeLocations = map[string]uint32{
	AttributePosition:  0,
	AttributeNormal:    1,
	AttributeTexCoord:  2,
	AttributeColor:     3,
	AttributeTangent:   4,
	AttributeBitangent: 5,
}

// FragmentOutputLocations maps fragment output names to their draw buffer.
var FragmentOutputLocations = map[string]uint32{
	FragmentOutputColor: 0,
}

/**
 * @brief An active variable reported by the backend after linking.
 */
type ProgramVariable struct {
	Name     string
	Location int32
	Type     UniformType
	/** @brief Array length, 1 for non-array variables. */
	Size int32
}
