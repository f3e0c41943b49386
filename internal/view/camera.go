// camera.go
package view

import (
	"math"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

// Camera is the map view camera. The map lives in the world XY plane at
// Z=0; Z is height above it. The default orientation looks straight
// down with world +Y as screen up.
type Camera struct {
	// HOT DATA - read every frame by the view mapping
	Position   mgl32.Vec3 // Camera position in world space
	Front      mgl32.Vec3 // Forward direction vector
	Up         mgl32.Vec3 // Up direction vector
	Right      mgl32.Vec3 // Right direction vector
	Projection mgl32.Mat4 // Projection matrix
	Zoom       float32    // Current zoom factor
	ZoomMax    float32    // Upper zoom bound

	// COLD DATA - configuration, changed rarely
	Orthographic bool    // Orthographic vs perspective projection
	BaseExtent   float32 // Half view height in world units at zoom 1 (orthographic)
	Fov          float32 // Field of view (perspective)
	Near         float32 // Near clipping plane
	Far          float32 // Far clipping plane
	AspectRatio  float32 // width / height
	PanSpeed     float32 // Keyboard pan speed in world units per second
	ZoomSpeed    float32 // Keyboard zoom rate per second
}

// NewTopDownCamera creates an orthographic camera centered over the
// origin, looking straight down.
func NewTopDownCamera(width, height int32) *Camera {
	camera := Camera{
		Position:     mgl32.Vec3{0, 0, 100},
		Front:        mgl32.Vec3{0, 0, -1},
		Up:           mgl32.Vec3{0, 1, 0},
		Zoom:         1.0,
		ZoomMax:      3.0,
		Orthographic: true,
		BaseExtent:   512,
		Fov:          45.0,
		Near:         0.1,
		Far:          10000.0,
		AspectRatio:  float32(width) / float32(height),
		PanSpeed:     600,
		ZoomSpeed:    1.5,
	}
	camera.updateAxes()
	camera.UpdateProjection()
	return &camera
}

func (c *Camera) UpdateProjection() {
	if c.Orthographic {
		halfH := c.BaseExtent / c.Zoom
		halfW := halfH * c.AspectRatio
		c.Projection = mgl32.Ortho(-halfW, halfW, -halfH, halfH, c.Near, c.Far)
		return
	}
	c.Projection = mgl32.Perspective(mgl32.DegToRad(c.Fov), c.AspectRatio, c.Near, c.Far)
}

// Setter methods that automatically update projection
func (c *Camera) SetNear(near float32) {
	c.Near = near
	c.UpdateProjection()
}

func (c *Camera) SetFar(far float32) {
	c.Far = far
	c.UpdateProjection()
}

func (c *Camera) SetFov(fov float32) {
	c.Fov = fov
	c.UpdateProjection()
}

func (c *Camera) SetAspectRatio(aspectRatio float32) {
	c.AspectRatio = aspectRatio
	c.UpdateProjection()
}

// SetZoom clamps the zoom into (0, ZoomMax] and rebuilds the
// projection.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = mgl32.Clamp(zoom, 0.01, c.ZoomMax)
	c.UpdateProjection()
}

// SetOrthographic switches the projection kind.
func (c *Camera) SetOrthographic(ortho bool) {
	c.Orthographic = ortho
	c.UpdateProjection()
}

func (c *Camera) GetViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Front), c.Up)
}

func (c *Camera) GetProjectionMatrix() mgl32.Mat4 {
	return c.Projection
}

func (c *Camera) GetViewProjection() mgl32.Mat4 {
	return c.Projection.Mul4(c.GetViewMatrix())
}

// LookAt points the camera at a world target.
func (c *Camera) LookAt(target mgl32.Vec3) {
	direction := target.Sub(c.Position)
	if direction.Len() < 1e-6 {
		return
	}
	c.Front = direction.Normalize()
	c.updateAxes()
}

// updateAxes rebuilds Right and Up from Front. World +Z is the
// reference up except when looking along it, where +Y takes over so a
// straight-down camera keeps +Y as screen up.
func (c *Camera) updateAxes() {
	ref := mgl32.Vec3{0, 0, 1}
	if math.Abs(float64(c.Front.Dot(ref))) > 0.999 {
		ref = mgl32.Vec3{0, 1, 0}
	}
	c.Right = c.Front.Cross(ref).Normalize()
	c.Up = c.Right.Cross(c.Front).Normalize()
}

// Unproject maps NDC coordinates back to world space. Returns false
// when the view-projection is singular or the point is at infinity.
func (c *Camera) Unproject(ndc mgl32.Vec3) (mgl32.Vec3, bool) {
	vp := c.GetViewProjection()
	if vp.Det() == 0 {
		return mgl32.Vec3{}, false
	}
	inv := vp.Inv()
	p := inv.Mul4x1(mgl32.Vec4{ndc.X(), ndc.Y(), ndc.Z(), 1})
	if math.Abs(float64(p.W())) < 1e-9 {
		return mgl32.Vec3{}, false
	}
	return mgl32.Vec3{p.X() / p.W(), p.Y() / p.W(), p.Z() / p.W()}, true
}

// ProcessKeyboard pans with WASD and zooms with Q/E.
func (c *Camera) ProcessKeyboard(window *glfw.Window, deltaTime float32) {
	velocity := c.PanSpeed * deltaTime / c.Zoom

	if window.GetKey(glfw.KeyLeftShift) == glfw.Press || window.GetKey(glfw.KeyRightShift) == glfw.Press {
		velocity *= 2.5
	}

	if window.GetKey(glfw.KeyW) == glfw.Press {
		c.Position = c.Position.Add(c.Up.Mul(velocity))
	}
	if window.GetKey(glfw.KeyS) == glfw.Press {
		c.Position = c.Position.Sub(c.Up.Mul(velocity))
	}
	if window.GetKey(glfw.KeyA) == glfw.Press {
		c.Position = c.Position.Sub(c.Right.Mul(velocity))
	}
	if window.GetKey(glfw.KeyD) == glfw.Press {
		c.Position = c.Position.Add(c.Right.Mul(velocity))
	}

	if window.GetKey(glfw.KeyE) == glfw.Press {
		c.SetZoom(c.Zoom * (1 + c.ZoomSpeed*deltaTime))
	}
	if window.GetKey(glfw.KeyQ) == glfw.Press {
		c.SetZoom(c.Zoom / (1 + c.ZoomSpeed*deltaTime))
	}
}
