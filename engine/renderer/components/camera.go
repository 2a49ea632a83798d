package components

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/solaris/engine/math"
)

const (
	DefaultFieldOfView float32 = math.K_QUARTER_PI
	DefaultNear        float32 = 0.1
	DefaultFar         float32 = 100
)

/**
 * @brief A single perspective camera. Position, target and up are set
 * through the mutators, which rebuild the view or projection matrix before
 * returning; the matrices are never stale.
 */
type Camera struct {
	fieldOfView float32
	aspectRatio float32
	near        float32
	far         float32

	position math.Vec3
	target   math.Vec3
	up       math.Vec3

	view       math.Mat4
	projection math.Mat4
}

func NewCamera() *Camera {
	camera := &Camera{}
	camera.Reset()
	return camera
}

// Reset restores the defaults: looking from (0,0,10) at the origin with +Y up.
func (c *Camera) Reset() {
	c.fieldOfView = DefaultFieldOfView
	c.aspectRatio = 1
	c.near = DefaultNear
	c.far = DefaultFar
	c.position = math.Vec3{0, 0, 10}
	c.target = math.Vec3{}
	c.up = math.Vec3{0, 1, 0}
	c.updateView()
	c.updateProjection()
}

func (c *Camera) Position() math.Vec3 { return c.position }
func (c *Camera) Target() math.Vec3   { return c.target }
func (c *Camera) Up() math.Vec3       { return c.up }

func (c *Camera) FieldOfView() float32 { return c.fieldOfView }
func (c *Camera) AspectRatio() float32 { return c.aspectRatio }
func (c *Camera) Near() float32        { return c.near }
func (c *Camera) Far() float32         { return c.far }

func (c *Camera) View() math.Mat4       { return c.view }
func (c *Camera) Projection() math.Mat4 { return c.projection }

func (c *Camera) SetPosition(position math.Vec3) {
	c.position = position
	c.updateView()
}

func (c *Camera) SetTarget(target math.Vec3) {
	c.target = target
	c.updateView()
}

func (c *Camera) SetUp(up math.Vec3) {
	c.up = up
	c.updateView()
}

func (c *Camera) LookAt(position, target, up math.Vec3) {
	c.position = position
	c.target = target
	c.up = up
	c.updateView()
}

// Pan moves position and target together, keeping the orientation.
func (c *Camera) Pan(dx, dy, dz float32) {
	delta := math.Vec3{dx, dy, dz}
	c.position = c.position.Add(delta)
	c.target = c.target.Add(delta)
	c.updateView()
}

// OrbitAroundTarget rotates the camera on a sphere around the target. Yaw
// turns around +Y, pitch moves toward or away from the poles; the polar
// angle is kept in [eps, pi-eps]. A nil radius keeps the current distance.
func (c *Camera) OrbitAroundTarget(deltaYaw, deltaPitch float32, radius *float32) {
	theta, phi, r := math.Spherical(c.position.Sub(c.target))
	if radius != nil {
		r = *radius
	}
	theta += deltaYaw
	phi = math.Clamp(phi+deltaPitch, math.K_POLE_EPSILON, math.K_PI-math.K_POLE_EPSILON)

	c.position = c.target.Add(math.FromSpherical(theta, phi, r))
	c.updateView()
}

// Zoom changes the distance to the target by delta, clamped to [min, max].
func (c *Camera) Zoom(delta, min, max float32) {
	offset := c.position.Sub(c.target)
	r := offset.Len()
	next := math.Clamp(r+delta, min, max)
	if r < math.K_FLOAT_EPSILON {
		offset = math.Vec3{0, 0, 1}
		r = 1
	}
	c.position = c.target.Add(offset.Mul(next / r))
	c.updateView()
}

// Distance is the length of the camera-to-target offset.
func (c *Camera) Distance() float32 {
	return c.position.Sub(c.target).Len()
}

func (c *Camera) SetFieldOfView(fov float32) {
	c.fieldOfView = fov
	c.updateProjection()
}

func (c *Camera) SetClipPlanes(near, far float32) {
	c.near = near
	c.far = far
	c.updateProjection()
}

// UpdateProjection recomputes the aspect ratio from a viewport. A zero height
// keeps the previous aspect.
func (c *Camera) UpdateProjection(width, height int) {
	if height > 0 && width > 0 {
		c.aspectRatio = float32(width) / float32(height)
	}
	c.updateProjection()
}

func (c *Camera) updateView() {
	c.view = mgl32.LookAtV(c.position, c.target, c.up)
}

func (c *Camera) updateProjection() {
	c.projection = mgl32.Perspective(c.fieldOfView, c.aspectRatio, c.near, c.far)
}
