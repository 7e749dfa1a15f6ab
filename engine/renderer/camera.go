package renderer

import (
	"github.com/chewxy/math32"
	"github.com/spaghettifunk/anima-gl/engine/math"
)

/** @brief The name of the default camera. */
const DEFAULT_CAMERA_NAME string = "default"

/**
 * @brief A perspective camera. Position and rotation go through the
 * setters so the view matrix is only rebuilt when needed.
 */
type Camera struct {
	position math.Vec3
	/** @brief Euler angles (pitch, yaw, roll) in radians. */
	eulerRotation math.Vec3
	isDirty       bool
	viewMatrix    math.Mat4

	FieldOfView float32
	Aspect      float32
	Near        float32
	Far         float32
}

func NewCamera() *Camera {
	camera := &Camera{}
	camera.Reset()
	return camera
}

func (c *Camera) Reset() {
	c.eulerRotation = math.NewVec3Zero()
	c.position = math.NewVec3Zero()
	c.isDirty = false
	c.viewMatrix = math.NewMat4Identity()
	c.FieldOfView = math.DegToRad(45.0)
	c.Aspect = 16.0 / 9.0
	c.Near = 0.1
	c.Far = 1000.0
}

func (c *Camera) Position() math.Vec3 {
	return c.position
}

func (c *Camera) SetPosition(position math.Vec3) {
	c.position = position
	c.isDirty = true
}

func (c *Camera) EulerRotation() math.Vec3 {
	return c.eulerRotation
}

func (c *Camera) SetEulerRotation(rotation math.Vec3) {
	c.eulerRotation = rotation
	c.isDirty = true
}

// LookAt points the camera at target by deriving pitch and yaw.
func (c *Camera) LookAt(target math.Vec3) {
	dir := target.Sub(c.position).Normalize()
	c.eulerRotation.X = math32.Asin(dir.Y)
	c.eulerRotation.Y = math32.Atan2(-dir.X, -dir.Z)
	c.eulerRotation.Z = 0
	c.isDirty = true
}

func (c *Camera) View() math.Mat4 {
	if c.isDirty {
		rotation := math.NewMat4EulerXYZ(c.eulerRotation.X, c.eulerRotation.Y, c.eulerRotation.Z)
		// inverse of rotate-then-translate
		translation := math.NewMat4Translation(c.position.MulScalar(-1))
		c.viewMatrix = translation.Mul(rotation.Transposed())
		c.isDirty = false
	}
	return c.viewMatrix
}

func (c *Camera) Projection() math.Mat4 {
	return math.NewMat4Perspective(c.FieldOfView, c.Aspect, c.Near, c.Far)
}

// ViewProjection is the projection applied after the view.
func (c *Camera) ViewProjection() math.Mat4 {
	return c.View().Mul(c.Projection())
}

func (c *Camera) MoveUp(amount float32) {
	c.position = c.position.Add(math.NewVec3Up().MulScalar(amount))
	c.isDirty = true
}

func (c *Camera) Yaw(amount float32) {
	c.eulerRotation.Y += amount
	c.isDirty = true
}

func (c *Camera) Pitch(amount float32) {
	c.eulerRotation.X += amount

	// Clamp to avoid Gimbal lock.
	limit := float32(1.55334306) // 89 degrees
	c.eulerRotation.X = math.Clamp(c.eulerRotation.X, -limit, limit)

	c.isDirty = true
}

// SetAspectFromSize updates the aspect ratio after a resize.
func (c *Camera) SetAspectFromSize(width, height int) {
	if height > 0 {
		c.Aspect = float32(width) / float32(height)
	}
}
