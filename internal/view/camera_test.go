package view

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestNewTopDownCamera(t *testing.T) {
	cam := NewTopDownCamera(800, 600)

	if cam == nil {
		t.Fatal("NewTopDownCamera returned nil")
	}

	if !cam.Orthographic {
		t.Error("Top-down camera should default to orthographic")
	}

	if cam.Position.Z() <= 0 {
		t.Error("Camera should start above the ground plane")
	}

	if cam.Zoom <= 0 || cam.ZoomMax <= 0 {
		t.Errorf("Expected positive zoom range, got zoom=%f max=%f", cam.Zoom, cam.ZoomMax)
	}
}

func TestCameraOrthographicProjection(t *testing.T) {
	cam := NewTopDownCamera(800, 600)

	proj := cam.GetProjectionMatrix()

	if proj.At(3, 3) != 1.0 {
		t.Error("Orthographic projection should have 1 at (3,3)")
	}
}

func TestCameraPerspectiveProjection(t *testing.T) {
	cam := NewTopDownCamera(800, 600)
	cam.SetOrthographic(false)

	proj := cam.GetProjectionMatrix()

	if proj.At(3, 3) != 0.0 {
		t.Error("Perspective projection should have 0 at (3,3)")
	}
}

func TestCameraGetViewMatrix(t *testing.T) {
	cam := NewTopDownCamera(800, 600)

	view := cam.GetViewMatrix()

	if view.At(3, 3) != 1.0 {
		t.Error("View matrix should be valid (w component = 1)")
	}
}

func TestCameraGetViewProjection(t *testing.T) {
	cam := NewTopDownCamera(800, 600)

	vp := cam.GetViewProjection()

	zero := mgl32.Mat4{}
	if vp == zero {
		t.Error("ViewProjection should not be zero matrix")
	}
}

func TestCameraSetZoomClamps(t *testing.T) {
	cam := NewTopDownCamera(800, 600)

	cam.SetZoom(cam.ZoomMax * 10)
	if cam.Zoom != cam.ZoomMax {
		t.Errorf("Expected zoom clamped to %f, got %f", cam.ZoomMax, cam.Zoom)
	}

	cam.SetZoom(-5)
	if cam.Zoom <= 0 {
		t.Errorf("Zoom should stay positive, got %f", cam.Zoom)
	}
}

func TestCameraZoomNarrowsExtent(t *testing.T) {
	cam := NewTopDownCamera(800, 800)

	cam.SetZoom(1)
	wide, ok := GroundViewBounds(cam)
	if !ok {
		t.Fatal("Expected bounds at zoom 1")
	}

	cam.SetZoom(2)
	tight, ok := GroundViewBounds(cam)
	if !ok {
		t.Fatal("Expected bounds at zoom 2")
	}

	wideW := wide[2] - wide[0]
	tightW := tight[2] - tight[0]
	if math.Abs(float64(tightW-wideW/2)) > 1e-3 {
		t.Errorf("Doubling zoom should halve the extent, got %f vs %f", tightW, wideW)
	}
}

func TestCameraLookAtAxes(t *testing.T) {
	cam := NewTopDownCamera(800, 600)
	cam.LookAt(mgl32.Vec3{50, 50, 0})

	frontLen := cam.Front.Len()
	if math.Abs(float64(frontLen)-1.0) > 0.01 {
		t.Errorf("Front vector should be normalized, length=%f", frontLen)
	}

	upLen := cam.Up.Len()
	if math.Abs(float64(upLen)-1.0) > 0.01 {
		t.Errorf("Up vector should be normalized, length=%f", upLen)
	}

	if math.Abs(float64(cam.Front.Dot(cam.Up))) > 0.01 {
		t.Error("Front and Up should be orthogonal")
	}
}

func TestCameraUnproject(t *testing.T) {
	cam := NewTopDownCamera(800, 800)

	center, ok := cam.Unproject(mgl32.Vec3{0, 0, 0})
	if !ok {
		t.Fatal("Unproject failed for NDC center")
	}

	if math.Abs(float64(center.X()-cam.Position.X())) > 1e-3 {
		t.Errorf("NDC center should unproject under the camera, got x=%f", center.X())
	}
	if math.Abs(float64(center.Y()-cam.Position.Y())) > 1e-3 {
		t.Errorf("NDC center should unproject under the camera, got y=%f", center.Y())
	}
}
