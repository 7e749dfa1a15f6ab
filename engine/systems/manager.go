package systems

import (
	"errors"
	"runtime"

	"github.com/spaghettifunk/anima-gl/engine/assets"
	"github.com/spaghettifunk/anima-gl/engine/renderer"
)

/**
 * @brief Owns the engine systems sitting on top of the render system.
 */
type SystemManager struct {
	RenderSystem  *renderer.RenderSystem
	AssetManager  *assets.AssetManager
	JobSystem     *JobSystem
	CameraSystem  *CameraSystem
	MeshSystem    *MeshSystem
	TextureSystem *TextureSystem
}

func NewSystemManager(rs *renderer.RenderSystem, am *assets.AssetManager) (*SystemManager, error) {
	js, err := NewJobSystem(runtime.NumCPU(), 64)
	if err != nil {
		return nil, err
	}
	cs, err := NewCameraSystem(&CameraSystemConfig{
		MaxCameraCount: 100,
	})
	if err != nil {
		return nil, err
	}
	ms, err := NewMeshSystem(rs)
	if err != nil {
		return nil, err
	}
	ts, err := NewTextureSystem(rs, am, js)
	if err != nil {
		return nil, err
	}

	sm := &SystemManager{
		RenderSystem:  rs,
		AssetManager:  am,
		JobSystem:     js,
		CameraSystem:  cs,
		MeshSystem:    ms,
		TextureSystem: ts,
	}
	vp := rs.Viewport()
	cs.OnResize(vp.Width, vp.Height)
	rs.AddInputListener(sm)
	return sm, nil
}

func (sm *SystemManager) InputEventStart() {}

func (sm *SystemManager) InputEventStop() {}

func (sm *SystemManager) FramebufferResized(width, height int) {
	sm.CameraSystem.OnResize(width, height)
}

// Update dispatches the callbacks of finished jobs. Call once per frame on
// the render goroutine.
func (sm *SystemManager) Update() {
	sm.JobSystem.Update()
}

/**
 * @brief Shuts the systems down in reverse creation order. Every mesh and
 * texture still held is released to the render system.
 */
func (sm *SystemManager) Shutdown() error {
	sm.RenderSystem.RemoveInputListener(sm)
	return errors.Join(
		sm.JobSystem.Shutdown(),
		sm.TextureSystem.Shutdown(),
		sm.MeshSystem.Shutdown(),
		sm.CameraSystem.Shutdown(),
	)
}
