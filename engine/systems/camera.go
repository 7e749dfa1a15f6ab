package systems

import (
	"fmt"
	"sync"

	"github.com/spaghettifunk/anima-gl/engine/core"
	"github.com/spaghettifunk/anima-gl/engine/renderer"
)

type cameraLookup struct {
	camera         *renderer.Camera
	referenceCount uint16
}

type CameraSystem struct {
	Config *CameraSystemConfig

	mutex   sync.Mutex
	cameras map[string]*cameraLookup
	// A default, non-registered camera that always exists as a fallback.
	defaultCamera *renderer.Camera
}

/** @brief The camera system configuration. */
type CameraSystemConfig struct {
	/** @brief The maximum number of cameras that can be managed by the system. */
	MaxCameraCount uint16
}

func NewCameraSystem(config *CameraSystemConfig) (*CameraSystem, error) {
	if config.MaxCameraCount == 0 {
		err := fmt.Errorf("func NewCameraSystem - config.MaxCameraCount must be > 0")
		core.LogError(err.Error())
		return nil, err
	}
	return &CameraSystem{
		Config:        config,
		cameras:       make(map[string]*cameraLookup, config.MaxCameraCount),
		defaultCamera: renderer.NewCamera(),
	}, nil
}

func (cs *CameraSystem) Shutdown() error {
	cs.mutex.Lock()
	defer cs.mutex.Unlock()
	cs.cameras = make(map[string]*cameraLookup)
	return nil
}

/**
 * @brief Acquires a camera by name. If one is not found, a new one is
 * created and returned. The internal reference counter is incremented.
 */
func (cs *CameraSystem) Acquire(name string) (*renderer.Camera, error) {
	if name == renderer.DEFAULT_CAMERA_NAME {
		return cs.defaultCamera, nil
	}

	cs.mutex.Lock()
	defer cs.mutex.Unlock()

	lookup, ok := cs.cameras[name]
	if !ok {
		if len(cs.cameras) >= int(cs.Config.MaxCameraCount) {
			err := fmt.Errorf("func CameraSystem.Acquire failed to acquire new slot for %q. Adjust camera system config to allow more", name)
			core.LogError(err.Error())
			return nil, err
		}
		core.LogDebug("creating new camera named '%s'...", name)
		lookup = &cameraLookup{camera: renderer.NewCamera()}
		cs.cameras[name] = lookup
	}
	lookup.referenceCount++
	return lookup.camera, nil
}

/**
 * @brief Releases a camera with the given name. When the reference counter
 * reaches 0 the camera is dropped and its name can be used by a new one.
 */
func (cs *CameraSystem) Release(name string) {
	if name == renderer.DEFAULT_CAMERA_NAME {
		core.LogDebug("cannot release default camera. Nothing was done.")
		return
	}

	cs.mutex.Lock()
	defer cs.mutex.Unlock()

	lookup, ok := cs.cameras[name]
	if !ok {
		core.LogWarn("CameraSystem.Release failed lookup for %q. Nothing was done.", name)
		return
	}
	lookup.referenceCount--
	if lookup.referenceCount < 1 {
		delete(cs.cameras, name)
	}
}

func (cs *CameraSystem) GetDefault() *renderer.Camera {
	return cs.defaultCamera
}

// OnResize keeps the aspect ratio of every camera in sync with the window.
func (cs *CameraSystem) OnResize(width, height int) {
	cs.mutex.Lock()
	defer cs.mutex.Unlock()
	cs.defaultCamera.SetAspectFromSize(width, height)
	for _, lookup := range cs.cameras {
		lookup.camera.SetAspectFromSize(width, height)
	}
}
