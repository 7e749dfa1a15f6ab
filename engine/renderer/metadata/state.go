package metadata

import "fmt"

/**
 * @brief Depth comparison function.
 */
type DepthFunc uint8

const (
	DepthFuncNever DepthFunc = iota
	DepthFuncLess
	DepthFuncEqual
	DepthFuncLessEqual
	DepthFuncGreater
	DepthFuncNotEqual
	DepthFuncGreaterEqual
	DepthFuncAlways
)

func (f DepthFunc) String() string {
	switch f {
	case DepthFuncNever:
		return "Never"
	case DepthFuncLess:
		return "Less"
	case DepthFuncEqual:
		return "Equal"
	case DepthFuncLessEqual:
		return "LessEqual"
	case DepthFuncGreater:
		return "Greater"
	case DepthFuncNotEqual:
		return "NotEqual"
	case DepthFuncGreaterEqual:
		return "GreaterEqual"
	case DepthFuncAlways:
		return "Always"
	default:
		return fmt.Sprintf("DepthFunc(%d)", uint8(f))
	}
}

/**
 * @brief Buffers cleared at the beginning of a frame.
 */
type ClearFlags uint8

const (
	ClearColor ClearFlags = 1 << iota
	ClearDepth
	ClearStencil
)
