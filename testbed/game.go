package testbed

import (
	"fmt"

	"github.com/spaghettifunk/anima-gl/engine"
	"github.com/spaghettifunk/anima-gl/engine/core"
	"github.com/spaghettifunk/anima-gl/engine/math"
	"github.com/spaghettifunk/anima-gl/engine/platform"
	"github.com/spaghettifunk/anima-gl/engine/renderer"
	"github.com/spaghettifunk/anima-gl/engine/renderer/metadata"
	"github.com/spaghettifunk/anima-gl/engine/systems"
)

const crateTexture = "textures/crate.png"

type TestGame struct {
	*engine.Game
}

type gameState struct {
	WorldCamera *renderer.Camera
	program     *renderer.Program
	cube        *systems.Mesh
	texture     *renderer.Texture
	// texture is owned by the texture system only when it is not the default.
	ownsTexture bool

	rotation math.Vec3
	width    uint32
	height   uint32
}

var rotateSpeed float32 = 1.5

func NewTestGame(assetsDir string, hotReload bool) *TestGame {
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: &engine.ApplicationConfig{
				StartPosX: 100,
				StartPosY: 100,
				AssetsDir: assetsDir,
				HotReload: hotReload,
			},
			State: &gameState{},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnRender = tg.Render
	tg.FnOnResize = tg.OnResize
	tg.FnShutdown = tg.Shutdown

	return tg
}

func (g *TestGame) Initialize() error {
	core.LogDebug("TestGame Initialize fn....")

	if g.SystemManager == nil {
		return fmt.Errorf("the engine is not yet initialized with all the system managers")
	}
	state := g.State.(*gameState)
	rs := g.SystemManager.RenderSystem

	vs, err := rs.CreateShaderFromFile(metadata.ShaderTypeVertex, "shaders/cube.vert")
	if err != nil {
		return err
	}
	fs, err := rs.CreateShaderFromFile(metadata.ShaderTypeFragment, "shaders/cube.frag")
	if err != nil {
		return err
	}
	if state.program, err = rs.CreateProgram(vs, fs); err != nil {
		return err
	}

	state.cube, err = g.SystemManager.MeshSystem.CreateCube("crate", false, systems.MeshParameter{TexCoordInvertV: true}, metadata.BufferUsageStaticWriteOnly)
	if err != nil {
		return err
	}

	state.texture, err = g.SystemManager.TextureSystem.Acquire(crateTexture, metadata.DefaultTextureParameter())
	if err != nil {
		core.LogWarn("using the default texture: %s", err)
		state.texture = g.SystemManager.TextureSystem.GetDefault()
	} else {
		state.ownsTexture = true
	}

	state.WorldCamera = g.SystemManager.CameraSystem.GetDefault()
	state.WorldCamera.SetPosition(math.NewVec3(0, 1.5, 3))
	state.WorldCamera.LookAt(math.NewVec3Zero())

	return nil
}

func (g *TestGame) Update(deltaTime float64) error {
	state := g.State.(*gameState)
	step := rotateSpeed * float32(deltaTime)

	// the cube spins on its own unless a key drives it
	input := g.Platform
	if input == nil {
		state.rotation.Y += step
		return nil
	}
	if input.IsKeyDown(platform.KeyA) || input.IsKeyDown(platform.KeyLeft) {
		state.rotation.Y -= step
	}
	if input.IsKeyDown(platform.KeyD) || input.IsKeyDown(platform.KeyRight) {
		state.rotation.Y += step
	}
	if input.IsKeyDown(platform.KeyW) || input.IsKeyDown(platform.KeyUp) {
		state.rotation.X -= step
	}
	if input.IsKeyDown(platform.KeyS) || input.IsKeyDown(platform.KeyDown) {
		state.rotation.X += step
	}
	if input.IsKeyDown(platform.KeyQ) {
		state.WorldCamera.MoveUp(step)
	}
	if input.IsKeyDown(platform.KeyE) {
		state.WorldCamera.MoveUp(-step)
	}
	if input.IsKeyDown(platform.KeyR) {
		state.rotation = math.NewVec3Zero()
	}
	if input.IsKeyDown(platform.KeyP) {
		pos := state.WorldCamera.Position()
		core.LogDebug("Pos:[%.2f, %.2f, %.2f]", pos.X, pos.Y, pos.Z)
	}
	return nil
}

func (g *TestGame) Render(deltaTime float64) (*renderer.RenderTarget, error) {
	state := g.State.(*gameState)

	model := math.NewMat4EulerXYZ(state.rotation.X, state.rotation.Y, 0)
	cmd := renderer.NewDrawCommand(state.program, state.cube.VertexData(), model).
		WithTexture(0, state.texture)

	return &renderer.RenderTarget{
		Name:       "world",
		Viewport:   g.SystemManager.RenderSystem.Viewport(),
		Clear:      metadata.ClearColor | metadata.ClearDepth,
		ClearColor: math.NewVec4(0.1, 0.1, 0.15, 1),
		Camera:     state.WorldCamera,
		Commands:   renderer.DrawCommandList{cmd},
	}, nil
}

func (g *TestGame) OnResize(width uint32, height uint32) error {
	state := g.State.(*gameState)
	state.width = width
	state.height = height
	return nil
}

func (g *TestGame) Shutdown() error {
	state := g.State.(*gameState)
	if state.ownsTexture {
		g.SystemManager.TextureSystem.Release(crateTexture)
	}
	if state.cube != nil {
		g.SystemManager.MeshSystem.Release(state.cube)
	}
	return nil
}
