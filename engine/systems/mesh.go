package systems

import (
	"fmt"
	"sync"

	"github.com/spaghettifunk/anima-gl/engine/core"
	"github.com/spaghettifunk/anima-gl/engine/math"
	"github.com/spaghettifunk/anima-gl/engine/renderer"
	"github.com/spaghettifunk/anima-gl/engine/renderer/metadata"
)

/**
 * @brief Interleaved vertex of the builtin meshes.
 */
type CubeVertex struct {
	Position math.Vec3 `vertex:"position"`
	Normal   math.Vec3 `vertex:"normal"`
	TexCoord math.Vec2 `vertex:"texcoord"`
	Color    [4]uint8  `vertex:"color,normalize"`
}

var CubeVertexLayout = renderer.MustLayoutOf(CubeVertex{})

const (
	CubeVertexCount int = 24
	CubeIndexCount  int = 36
)

/** @brief Options baked into the generated vertex data. */
type MeshParameter struct {
	/** @brief Stores 1-v instead of v, for images stored top row first. */
	TexCoordInvertV bool
}

/**
 * @brief A named handle on vertex data. Meshes that are not modifiable
 * share their vertex data with every other mesh created with the same
 * parameters.
 */
type Mesh struct {
	Name       string
	Modifiable bool
	Param      MeshParameter

	data *renderer.VertexData
}

func (m *Mesh) VertexData() *renderer.VertexData { return m.data }

func (m *Mesh) BoundingBox() math.Extents3D { return m.data.BoundingBox() }

type cubeKey struct {
	param MeshParameter
	usage metadata.BufferUsage
}

type meshRecord struct {
	data   *renderer.VertexData
	owners int
}

type MeshSystem struct {
	renderSystem *renderer.RenderSystem

	mutex   sync.Mutex
	cubes   map[cubeKey]*meshRecord
	records map[*renderer.VertexData]*meshRecord
}

func NewMeshSystem(rs *renderer.RenderSystem) (*MeshSystem, error) {
	if rs == nil {
		err := fmt.Errorf("func NewMeshSystem - render system is required")
		core.LogError(err.Error())
		return nil, err
	}
	return &MeshSystem{
		renderSystem: rs,
		cubes:        make(map[cubeKey]*meshRecord),
		records:      make(map[*renderer.VertexData]*meshRecord),
	}, nil
}

/**
 * @brief Creates a unit cube centered at the origin. The vertex data is
 * created on first use and shared by all cubes with the same parameter
 * and usage, unless modifiable is set. Must run on the render goroutine.
 */
func (ms *MeshSystem) CreateCube(name string, modifiable bool, param MeshParameter, usage metadata.BufferUsage) (*Mesh, error) {
	core.LogDebug("creating cube mesh %q ...", name)

	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	key := cubeKey{param: param, usage: usage}
	record, ok := ms.cubes[key]
	if modifiable || !ok {
		data, err := ms.createCubeData(name, param, usage)
		if err != nil {
			return nil, err
		}
		record = &meshRecord{data: data}
		ms.records[data] = record
		if !modifiable {
			ms.cubes[key] = record
		}
	}
	record.owners++

	core.LogDebug("successfully created cube mesh %q", name)
	return &Mesh{Name: name, Modifiable: modifiable, Param: param, data: record.data}, nil
}

func (ms *MeshSystem) createCubeData(name string, param MeshParameter, usage metadata.BufferUsage) (*renderer.VertexData, error) {
	vp := renderer.DefaultVertexDataParameter("cube:"+name, CubeVertexLayout, CubeVertexCount, CubeIndexCount)
	vp.Usage = usage
	vp.UseVertexShadowBuffer = true
	vp.UseIndexShadowBuffer = false

	data, err := ms.renderSystem.CreateVertexData(vp)
	if err != nil {
		return nil, fmt.Errorf("cube %s: %w", name, err)
	}

	vertices := CubeVertices(param)
	dst := data.LockVertices(metadata.LockDiscard)
	copy(dst, renderer.VertexBytes(vertices))
	data.UnlockVertices()

	data.WriteIndices(CubeIndices(), 0, true)
	data.SetBoundingBox(math.Extents3D{
		Min: math.NewVec3(-0.5, -0.5, -0.5),
		Max: math.NewVec3(0.5, 0.5, 0.5),
	})
	return data, nil
}

/**
 * @brief Drops the ownership taken by the mesh. The vertex data is
 * destroyed once its last mesh is released.
 */
func (ms *MeshSystem) Release(mesh *Mesh) {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	record, ok := ms.records[mesh.data]
	core.Assert(ok, "mesh %q is not owned by the mesh system", mesh.Name)
	record.owners--
	if record.owners > 0 {
		return
	}
	delete(ms.records, mesh.data)
	for key, r := range ms.cubes {
		if r == record {
			delete(ms.cubes, key)
		}
	}
	ms.renderSystem.Release(mesh.data)
}

// Live returns the number of vertex data objects the system holds.
func (ms *MeshSystem) Live() int {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()
	return len(ms.records)
}

func (ms *MeshSystem) Shutdown() error {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()
	for data := range ms.records {
		ms.renderSystem.Release(data)
	}
	ms.records = make(map[*renderer.VertexData]*meshRecord)
	ms.cubes = make(map[cubeKey]*meshRecord)
	return nil
}

type cubeFace struct {
	normal    math.Vec3
	positions [4]math.Vec3
	texCoords [4]math.Vec2
}

var cubeFaces = [6]cubeFace{
	{ // front
		normal:    math.NewVec3(0, 0, 1),
		positions: [4]math.Vec3{{X: .5, Y: .5, Z: .5}, {X: -.5, Y: .5, Z: .5}, {X: -.5, Y: -.5, Z: .5}, {X: .5, Y: -.5, Z: .5}},
		texCoords: [4]math.Vec2{{X: 1, Y: 1}, {X: 0, Y: 1}, {X: 0, Y: 0}, {X: 1, Y: 0}},
	},
	{ // right
		normal:    math.NewVec3(1, 0, 0),
		positions: [4]math.Vec3{{X: .5, Y: .5, Z: .5}, {X: .5, Y: -.5, Z: .5}, {X: .5, Y: -.5, Z: -.5}, {X: .5, Y: .5, Z: -.5}},
		texCoords: [4]math.Vec2{{X: 0, Y: 1}, {X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}},
	},
	{ // top
		normal:    math.NewVec3(0, 1, 0),
		positions: [4]math.Vec3{{X: .5, Y: .5, Z: .5}, {X: .5, Y: .5, Z: -.5}, {X: -.5, Y: .5, Z: -.5}, {X: -.5, Y: .5, Z: .5}},
		texCoords: [4]math.Vec2{{X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}, {X: 0, Y: 0}},
	},
	{ // left
		normal:    math.NewVec3(-1, 0, 0),
		positions: [4]math.Vec3{{X: -.5, Y: .5, Z: .5}, {X: -.5, Y: .5, Z: -.5}, {X: -.5, Y: -.5, Z: -.5}, {X: -.5, Y: -.5, Z: .5}},
		texCoords: [4]math.Vec2{{X: 1, Y: 1}, {X: 0, Y: 1}, {X: 0, Y: 0}, {X: 1, Y: 0}},
	},
	{ // bottom
		normal:    math.NewVec3(0, -1, 0),
		positions: [4]math.Vec3{{X: -.5, Y: -.5, Z: -.5}, {X: .5, Y: -.5, Z: -.5}, {X: .5, Y: -.5, Z: .5}, {X: -.5, Y: -.5, Z: .5}},
		texCoords: [4]math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}},
	},
	{ // back
		normal:    math.NewVec3(0, 0, -1),
		positions: [4]math.Vec3{{X: .5, Y: -.5, Z: -.5}, {X: -.5, Y: -.5, Z: -.5}, {X: -.5, Y: .5, Z: -.5}, {X: .5, Y: .5, Z: -.5}},
		texCoords: [4]math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}},
	},
}

// CubeVertices returns the 24 vertices of the unit cube, four per face.
// Vertex colors are opaque black.
func CubeVertices(param MeshParameter) []CubeVertex {
	vertices := make([]CubeVertex, 0, CubeVertexCount)
	for _, face := range cubeFaces {
		for i := range face.positions {
			tc := face.texCoords[i]
			if param.TexCoordInvertV {
				tc.Y = 1 - tc.Y
			}
			vertices = append(vertices, CubeVertex{
				Position: face.positions[i],
				Normal:   face.normal,
				TexCoord: tc,
				Color:    [4]uint8{0, 0, 0, 255},
			})
		}
	}
	return vertices
}

// CubeIndices returns two counter-clockwise triangles per face.
func CubeIndices() []uint32 {
	indices := make([]uint32, 0, CubeIndexCount)
	for f := uint32(0); f < 6; f++ {
		base := f * 4
		indices = append(indices, base, base+1, base+2, base+2, base+3, base)
	}
	return indices
}
