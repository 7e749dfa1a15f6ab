package renderer

import (
	"fmt"
	"reflect"
	"strings"
	"unsafe"

	"github.com/spaghettifunk/anima-gl/engine/renderer/metadata"
)

/**
 * @brief Memory layout of one interleaved vertex.
 */
type VertexLayout struct {
	Name       string
	Attributes []metadata.VertexAttribute
	Stride     int
}

/**
 * @brief One attribute of a layout built with NewVertexLayout.
 */
type LayoutField struct {
	Kind        metadata.AttributeKind
	Type        metadata.AttributeType
	NumElements int
	Normalize   bool
}

// NewVertexLayout packs fields in order without padding.
func NewVertexLayout(name string, fields ...LayoutField) VertexLayout {
	l := VertexLayout{Name: name}
	offset := 0
	for _, f := range fields {
		attr := metadata.VertexAttribute{
			Kind:        f.Kind,
			Type:        f.Type,
			Offset:      offset,
			NumElements: f.NumElements,
			Normalize:   f.Normalize,
		}
		l.Attributes = append(l.Attributes, attr)
		offset += attr.SizeOf()
	}
	l.Stride = offset
	return l
}

// Attribute returns the attribute of the given kind, if present.
func (l VertexLayout) Attribute(kind metadata.AttributeKind) (metadata.VertexAttribute, bool) {
	for _, a := range l.Attributes {
		if a.Kind == kind {
			return a, true
		}
	}
	return metadata.VertexAttribute{}, false
}

func (l VertexLayout) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s{stride=%d", l.Name, l.Stride)
	for _, a := range l.Attributes {
		fmt.Fprintf(&sb, " %s:%s[%d]@%d", a.Kind.Name(), a.Type, a.NumElements, a.Offset)
	}
	sb.WriteString("}")
	return sb.String()
}

var attributeKindByTag = map[string]metadata.AttributeKind{
	"position":  metadata.AttributeKindPosition,
	"normal":    metadata.AttributeKindNormal,
	"texcoord":  metadata.AttributeKindTexCoord,
	"color":     metadata.AttributeKindColor,
	"tangent":   metadata.AttributeKindTangent,
	"bitangent": metadata.AttributeKindBitangent,
}

/**
 * @brief Derives the layout from a vertex struct. Each attribute field is
 * tagged with its kind, optionally followed by ",normalize":
 *
 *	type Vertex struct {
 *		Position math.Vec3 `vertex:"position"`
 *		Color    [4]uint8  `vertex:"color,normalize"`
 *	}
 *
 * Field types may be a scalar, an array of scalars or a struct whose fields
 * all share one scalar type (math.Vec2, math.Vec3, ...). Offsets and stride
 * come from the Go struct so both stay in sync.
 */
func LayoutOf(sample any) (VertexLayout, error) {
	t := reflect.TypeOf(sample)
	if t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return VertexLayout{}, fmt.Errorf("vertex layout: %v is not a struct", t)
	}

	l := VertexLayout{Name: t.Name(), Stride: int(t.Size())}
	seen := make(map[metadata.AttributeKind]bool)
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag, ok := f.Tag.Lookup("vertex")
		if !ok || tag == "-" {
			continue
		}
		name, opt, _ := strings.Cut(tag, ",")
		kind, ok := attributeKindByTag[name]
		if !ok {
			return VertexLayout{}, fmt.Errorf("vertex layout %s: field %s has unknown attribute %q", t.Name(), f.Name, name)
		}
		if seen[kind] {
			return VertexLayout{}, fmt.Errorf("vertex layout %s: attribute %q declared twice", t.Name(), name)
		}
		seen[kind] = true

		attrType, count, err := attributeShape(f.Type)
		if err != nil {
			return VertexLayout{}, fmt.Errorf("vertex layout %s: field %s: %w", t.Name(), f.Name, err)
		}
		l.Attributes = append(l.Attributes, metadata.VertexAttribute{
			Kind:        kind,
			Type:        attrType,
			Offset:      int(f.Offset),
			NumElements: count,
			Normalize:   opt == "normalize",
		})
	}
	if len(l.Attributes) == 0 {
		return VertexLayout{}, fmt.Errorf("vertex layout %s: no tagged fields", t.Name())
	}
	return l, nil
}

// MustLayoutOf is LayoutOf for package level layouts.
func MustLayoutOf(sample any) VertexLayout {
	l, err := LayoutOf(sample)
	if err != nil {
		panic(err)
	}
	return l
}

func attributeShape(t reflect.Type) (metadata.AttributeType, int, error) {
	switch t.Kind() {
	case reflect.Array:
		at, err := scalarType(t.Elem())
		return at, t.Len(), err
	case reflect.Struct:
		if t.NumField() == 0 {
			return 0, 0, fmt.Errorf("empty struct %s", t)
		}
		at, err := scalarType(t.Field(0).Type)
		if err != nil {
			return 0, 0, err
		}
		for i := 1; i < t.NumField(); i++ {
			other, err := scalarType(t.Field(i).Type)
			if err != nil || other != at {
				return 0, 0, fmt.Errorf("struct %s mixes component types", t)
			}
		}
		return at, t.NumField(), nil
	default:
		at, err := scalarType(t)
		return at, 1, err
	}
}

func scalarType(t reflect.Type) (metadata.AttributeType, error) {
	switch t.Kind() {
	case reflect.Float32:
		return metadata.AttributeFloat32, nil
	case reflect.Uint8:
		return metadata.AttributeUInt8, nil
	case reflect.Int8:
		return metadata.AttributeInt8, nil
	case reflect.Uint16:
		return metadata.AttributeUInt16, nil
	case reflect.Int16:
		return metadata.AttributeInt16, nil
	case reflect.Uint32:
		return metadata.AttributeUInt32, nil
	case reflect.Int32:
		return metadata.AttributeInt32, nil
	default:
		return 0, fmt.Errorf("unsupported component type %s", t)
	}
}

// VertexBytes reinterprets a slice of vertex structs as raw bytes for upload.
func VertexBytes[V any](vertices []V) []byte {
	if len(vertices) == 0 {
		return nil
	}
	size := int(unsafe.Sizeof(vertices[0]))
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(vertices))), len(vertices)*size)
}

// IndexBytes does the same for 32-bit indices.
func IndexBytes(indices []uint32) []byte {
	return VertexBytes(indices)
}
