package platform

import "github.com/go-gl/glfw/v3.3/glfw"

type Key int

const (
	KeyEscape Key = Key(glfw.KeyEscape)
	KeySpace  Key = Key(glfw.KeySpace)
	KeyA      Key = Key(glfw.KeyA)
	KeyD      Key = Key(glfw.KeyD)
	KeyE      Key = Key(glfw.KeyE)
	KeyP      Key = Key(glfw.KeyP)
	KeyQ      Key = Key(glfw.KeyQ)
	KeyR      Key = Key(glfw.KeyR)
	KeyS      Key = Key(glfw.KeyS)
	KeyW      Key = Key(glfw.KeyW)
	KeyX      Key = Key(glfw.KeyX)
	KeyUp     Key = Key(glfw.KeyUp)
	KeyDown   Key = Key(glfw.KeyDown)
	KeyLeft   Key = Key(glfw.KeyLeft)
	KeyRight  Key = Key(glfw.KeyRight)
)

type MouseButton int

const (
	ButtonLeft   MouseButton = MouseButton(glfw.MouseButtonLeft)
	ButtonRight  MouseButton = MouseButton(glfw.MouseButtonRight)
	ButtonMiddle MouseButton = MouseButton(glfw.MouseButtonMiddle)
)
