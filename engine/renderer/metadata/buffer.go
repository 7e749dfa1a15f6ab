package metadata

import "fmt"

/**
 * @brief Usage hint of a buffer, combined from the bit flags below.
 */
type BufferUsage uint8

const (
	/** @brief Rarely modified once created. */
	BufferUsageStatic BufferUsage = 1
	/** @brief Modified by the CPU fairly often. */
	BufferUsageDynamic BufferUsage = 2
	/** @brief Never read back, only written. */
	BufferUsageWriteOnly BufferUsage = 4
	/** @brief Refilled from scratch regularly, contents may be lost. */
	BufferUsageDiscardable BufferUsage = 8

	BufferUsageStaticWriteOnly             = BufferUsageStatic | BufferUsageWriteOnly
	BufferUsageDynamicWriteOnly            = BufferUsageDynamic | BufferUsageWriteOnly
	BufferUsageDynamicWriteOnlyDiscardable = BufferUsageDynamic | BufferUsageWriteOnly | BufferUsageDiscardable
)

/**
 * @brief The driver side hint a usage maps to.
 */
type BufferHint uint8

const (
	BufferHintStaticDraw BufferHint = iota
	BufferHintDynamicDraw
	BufferHintStreamDraw
)

func (u BufferUsage) Hint() BufferHint {
	switch {
	case u&BufferUsageDiscardable != 0:
		return BufferHintStreamDraw
	case u&BufferUsageDynamic != 0:
		return BufferHintDynamicDraw
	default:
		return BufferHintStaticDraw
	}
}

func (u BufferUsage) String() string {
	switch u {
	case BufferUsageStatic:
		return "Static"
	case BufferUsageDynamic:
		return "Dynamic"
	case BufferUsageStaticWriteOnly:
		return "StaticWriteOnly"
	case BufferUsageDynamicWriteOnly:
		return "DynamicWriteOnly"
	case BufferUsageDynamicWriteOnlyDiscardable:
		return "DynamicWriteOnlyDiscardable"
	default:
		return fmt.Sprintf("BufferUsage(%d)", uint8(u))
	}
}

/**
 * @brief How a buffer is locked for CPU access.
 */
type LockOption uint8

const (
	/** @brief Read and write access. */
	LockNormal LockOption = iota
	LockReadOnly
	LockWriteOnly
	/** @brief Previous contents are irrelevant; the driver may hand out fresh memory. */
	LockDiscard
)

func (o LockOption) String() string {
	switch o {
	case LockNormal:
		return "Normal"
	case LockReadOnly:
		return "ReadOnly"
	case LockWriteOnly:
		return "WriteOnly"
	case LockDiscard:
		return "Discard"
	default:
		return fmt.Sprintf("LockOption(%d)", uint8(o))
	}
}

/**
 * @brief Access requested when mapping a buffer.
 */
type MapAccess uint8

const (
	MapReadWrite MapAccess = iota
	MapReadOnly
	MapWriteOnly
)

func (o LockOption) Access() MapAccess {
	switch o {
	case LockNormal:
		return MapReadWrite
	case LockReadOnly:
		return MapReadOnly
	default:
		return MapWriteOnly
	}
}

type BufferTarget uint8

const (
	BufferTargetVertex BufferTarget = iota
	BufferTargetIndex
)

func (t BufferTarget) String() string {
	if t == BufferTargetIndex {
		return "IndexBuffer"
	}
	return "VertexBuffer"
}
