package engine

type ApplicationConfig struct {
	// Window starting position x axis, if applicable.
	StartPosX uint32
	// Window starting position y axis, if applicable.
	StartPosY uint32
	// Directory holding the shaders and images, relative to the working directory.
	AssetsDir string
	// Reload shaders when their files change.
	HotReload bool
}
