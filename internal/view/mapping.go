package view

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Mapping carries the per-frame uniforms that pin screen pixels to the
// scene: the world rectangle visible at the ground plane, the scene
// rectangle masks are authored against, and the Y convention for mask
// sampling. Screen UV has v=0 at the bottom of the view so that
// ScreenToWorld is a straight mix toward (maxX, maxY).
type Mapping struct {
	ViewBounds    mgl32.Vec4 // world rectangle at ground: minX, minY, maxX, maxY
	HasViewBounds bool       // false when the camera is degenerate
	SceneDims     mgl32.Vec2 // full canvas dimensions including padding
	SceneRect     mgl32.Vec4 // playable scene rectangle: originX, originY, width, height
	HasSceneRect  bool       // false falls back to screen-space mask sampling
	MaskFlipY     bool       // global mask Y convention; sources may override
}

// NewMapping derives the frame mapping from the camera. A degenerate
// camera or empty scene rectangle clears HasSceneRect, switching mask
// sampling to screen space. View bounds stay valid whenever the camera
// alone is usable, so world-pinned meshes still rasterize.
func NewMapping(cam *Camera, sceneRect mgl32.Vec4, sceneDims mgl32.Vec2, maskFlipY bool) Mapping {
	m := Mapping{
		SceneDims: sceneDims,
		SceneRect: sceneRect,
		MaskFlipY: maskFlipY,
	}
	if bounds, ok := GroundViewBounds(cam); ok {
		m.ViewBounds = bounds
		m.HasViewBounds = true
	}
	m.HasSceneRect = m.HasViewBounds && sceneRect[2] > 0 && sceneRect[3] > 0
	return m
}

// ScreenToWorld maps a screen UV to world XY at the ground plane.
func (m *Mapping) ScreenToWorld(uv mgl32.Vec2) mgl32.Vec2 {
	return mgl32.Vec2{
		m.ViewBounds[0] + (m.ViewBounds[2]-m.ViewBounds[0])*uv.X(),
		m.ViewBounds[1] + (m.ViewBounds[3]-m.ViewBounds[1])*uv.Y(),
	}
}

// WorldToSceneUV maps world XY into the unit square of the scene
// rectangle. Values outside [0,1] mean the point is off the scene.
func (m *Mapping) WorldToSceneUV(w mgl32.Vec2) mgl32.Vec2 {
	return mgl32.Vec2{
		(w.X() - m.SceneRect[0]) / m.SceneRect[2],
		(w.Y() - m.SceneRect[1]) / m.SceneRect[3],
	}
}

// SceneUV maps a screen UV to a clamped scene UV plus an in-bounds
// indicator that is 0 outside the unit square. Without a scene rect the
// screen UV passes through unchanged with the indicator set.
func (m *Mapping) SceneUV(uv mgl32.Vec2) (mgl32.Vec2, float32) {
	if !m.HasSceneRect {
		return uv, 1
	}
	suv := m.WorldToSceneUV(m.ScreenToWorld(uv))
	inBounds := float32(0)
	if suv.X() >= 0 && suv.X() <= 1 && suv.Y() >= 0 && suv.Y() <= 1 {
		inBounds = 1
	}
	return mgl32.Vec2{
		mgl32.Clamp(suv.X(), 0, 1),
		mgl32.Clamp(suv.Y(), 0, 1),
	}, inBounds
}

// GroundViewBounds computes the world rectangle the camera covers at
// the ground plane z=0. Orthographic straight-down cameras resolve
// directly; anything else intersects the four frustum corner rays with
// the plane. Returns false when a ray misses the plane or the view is
// degenerate.
func GroundViewBounds(c *Camera) (mgl32.Vec4, bool) {
	if c == nil {
		return mgl32.Vec4{}, false
	}

	if c.Orthographic && straightDown(c) {
		halfH := c.BaseExtent / c.Zoom
		halfW := halfH * c.AspectRatio
		return mgl32.Vec4{
			c.Position.X() - halfW,
			c.Position.Y() - halfH,
			c.Position.X() + halfW,
			c.Position.Y() + halfH,
		}, true
	}

	vp := c.GetViewProjection()
	if vp.Det() == 0 {
		return mgl32.Vec4{}, false
	}
	inv := vp.Inv()

	unproject := func(x, y, z float32) (mgl32.Vec3, bool) {
		p := inv.Mul4x1(mgl32.Vec4{x, y, z, 1})
		if math.Abs(float64(p.W())) < 1e-9 {
			return mgl32.Vec3{}, false
		}
		return mgl32.Vec3{p.X() / p.W(), p.Y() / p.W(), p.Z() / p.W()}, true
	}

	minX := float32(math.Inf(1))
	minY := float32(math.Inf(1))
	maxX := float32(math.Inf(-1))
	maxY := float32(math.Inf(-1))

	corners := [4][2]float32{{-1, -1}, {1, -1}, {-1, 1}, {1, 1}}
	for _, corner := range corners {
		nearPt, ok := unproject(corner[0], corner[1], -1)
		if !ok {
			return mgl32.Vec4{}, false
		}
		farPt, ok := unproject(corner[0], corner[1], 1)
		if !ok {
			return mgl32.Vec4{}, false
		}

		dir := farPt.Sub(nearPt)
		if math.Abs(float64(dir.Z())) < 1e-9 {
			// Ray parallel to the ground plane.
			return mgl32.Vec4{}, false
		}
		t := -nearPt.Z() / dir.Z()
		if t < 0 {
			// Ground is behind the view.
			return mgl32.Vec4{}, false
		}

		hit := nearPt.Add(dir.Mul(t))
		minX = min32(minX, hit.X())
		minY = min32(minY, hit.Y())
		maxX = max32(maxX, hit.X())
		maxY = max32(maxY, hit.Y())
	}

	if maxX-minX < 1e-6 || maxY-minY < 1e-6 {
		return mgl32.Vec4{}, false
	}
	return mgl32.Vec4{minX, minY, maxX, maxY}, true
}

func straightDown(c *Camera) bool {
	return math.Abs(float64(c.Front.X())) < 1e-6 &&
		math.Abs(float64(c.Front.Y())) < 1e-6 &&
		c.Front.Z() < 0 &&
		math.Abs(float64(c.Up.X())) < 1e-6 &&
		math.Abs(float64(c.Up.Z())) < 1e-6
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// ZoomState is the camera zoom scalar and its maximum.
type ZoomState struct {
	Zoom    float32
	ZoomMax float32
}

// Norm returns clamp(zoom/zoomMax, 0, 1). Displacement magnitudes are
// scaled by this so perceived blur stays stable across zoom levels.
func (z ZoomState) Norm() float32 {
	if z.ZoomMax <= 0 {
		return 0
	}
	return mgl32.Clamp(z.Zoom/z.ZoomMax, 0, 1)
}
