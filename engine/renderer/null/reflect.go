package null

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/spaghettifunk/anima-gl/engine/renderer/metadata"
)

// matches "layout(...) flat in vec3 in_Normal;" and "uniform mat4 u_matMVP[2];"
var declaration = regexp.MustCompile(`(?m)^\s*(?:layout\s*\([^)]*\)\s*)?(?:(?:flat|smooth|noperspective|centroid|highp|mediump|lowp)\s+)*(in|out|uniform)\s+(\w+)\s+(\w+)\s*(?:\[\s*(\d+)\s*\])?\s*;`)

// matches "struct Light { vec3 position; float intensity; };"
var structDeclaration = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)

var memberDeclaration = regexp.MustCompile(`(\w+)\s+(\w+)\s*(?:\[\s*(\d+)\s*\])?\s*;`)

type glslDeclaration struct {
	storage  string
	typeName string
	name     string
	size     int32
}

func scanDeclarations(source string) []glslDeclaration {
	var out []glslDeclaration
	for _, m := range declaration.FindAllStringSubmatch(stripComments(source), -1) {
		out = append(out, glslDeclaration{storage: m[1], typeName: m[2], name: m[3], size: arraySize(m[4])})
	}
	return out
}

// scanStructs maps each struct name to its members in declaration order.
func scanStructs(source string) map[string][]glslDeclaration {
	structs := make(map[string][]glslDeclaration)
	for _, m := range structDeclaration.FindAllStringSubmatch(stripComments(source), -1) {
		var members []glslDeclaration
		for _, f := range memberDeclaration.FindAllStringSubmatch(m[2], -1) {
			members = append(members, glslDeclaration{typeName: f[1], name: f[2], size: arraySize(f[3])})
		}
		structs[m[1]] = members
	}
	return structs
}

func arraySize(s string) int32 {
	if s == "" {
		return 1
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return int32(n)
}

// expandUniform lists the active uniforms a declaration stands for, one per
// leaf member of struct types: u_Light.position, u_Lights[1].intensity.
func expandUniform(d glslDeclaration, structs map[string][]glslDeclaration) []glslDeclaration {
	members, ok := structs[d.typeName]
	if !ok {
		return []glslDeclaration{d}
	}
	var out []glslDeclaration
	for i := int32(0); i < d.size; i++ {
		base := d.name
		if d.size > 1 {
			base = d.name + "[" + strconv.Itoa(int(i)) + "]"
		}
		for _, m := range members {
			m.name = base + "." + m.name
			out = append(out, expandUniform(m, structs)...)
		}
	}
	return out
}

func stripComments(source string) string {
	var sb strings.Builder
	for _, line := range strings.Split(source, "\n") {
		if i := strings.Index(line, "//"); i >= 0 {
			line = line[:i]
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func uniformType(typeName string) metadata.UniformType {
	switch {
	case typeName == "int":
		return metadata.UniformInt
	case typeName == "float":
		return metadata.UniformFloat
	case typeName == "bool":
		return metadata.UniformBool
	case typeName == "vec2":
		return metadata.UniformVec2
	case typeName == "vec3":
		return metadata.UniformVec3
	case typeName == "vec4":
		return metadata.UniformVec4
	case typeName == "mat4":
		return metadata.UniformMat4
	case strings.HasPrefix(typeName, "sampler"):
		return metadata.UniformSampler
	default:
		return metadata.UniformInvalid
	}
}

// reflectProgram fills the introspection data of a linked program the way
// a driver would report it: vertex inputs, fragment outputs and uniforms.
func reflectProgram(p *programObject, shaders []*shaderObject) {
	p.attributes, p.outputs, p.uniforms = nil, nil, nil
	seen := make(map[string]bool)
	location := int32(0)
	for _, s := range shaders {
		structs := scanStructs(s.source)
		for _, d := range scanDeclarations(s.source) {
			switch {
			case d.storage == "in" && s.shaderType == metadata.ShaderTypeVertex:
				p.attributes = append(p.attributes, metadata.ProgramVariable{Name: d.name, Location: -1, Size: d.size})
			case d.storage == "out" && s.shaderType == metadata.ShaderTypeFragment:
				p.outputs = append(p.outputs, metadata.ProgramVariable{Name: d.name, Location: -1, Size: d.size})
			case d.storage == "uniform":
				for _, u := range expandUniform(d, structs) {
					if seen[u.name] {
						continue
					}
					seen[u.name] = true
					p.uniforms = append(p.uniforms, metadata.ProgramVariable{
						Name:     u.name,
						Location: location,
						Type:     uniformType(u.typeName),
						Size:     u.size,
					})
					location += u.size
				}
			}
		}
	}
}
