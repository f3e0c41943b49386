// Package scene holds the state external collaborators feed the
// compositor: environment textures, the camera, the scene rectangle,
// occluder meshes and the frame clock. Collaborators write through the
// setters; the renderer reads an immutable Snapshot once per frame.
package scene

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"Mirage2D/internal/texture"
	"Mirage2D/internal/view"
)

// Inputs is the collaborator-facing mutable state. All setters are safe
// for concurrent use; the compositor itself only ever reads snapshots.
type Inputs struct {
	mu sync.RWMutex

	camera    *view.Camera
	sceneRect mgl32.Vec4 // originX, originY, width, height
	sceneDims mgl32.Vec2 // full canvas including padding
	maskFlipY bool       // global Y convention for source masks

	waterData     *texture.Texture // RG signed distance + exposure, scene UV
	roofAlpha     *texture.Texture // screen UV alpha of overhead cover
	outdoors      *texture.Texture // scene UV R, 1 outdoors 0 indoors
	outdoorsFlipY bool
	cloudShadow   *texture.Texture // screen UV R, 1 lit 0 shadowed
	windowLight   *texture.Texture // screen UV A brightness

	occluders OccluderSet

	time            float32
	delta           float32
	globalIntensity float32
	darkness        float32 // 0 day, 1 full night
}

// NewInputs returns inputs with neutral environment values.
func NewInputs() *Inputs {
	return &Inputs{globalIntensity: 1}
}

// SetCamera replaces the camera handle.
func (in *Inputs) SetCamera(cam *view.Camera) {
	in.mu.Lock()
	in.camera = cam
	in.mu.Unlock()
}

// SetSceneRect sets the playable scene rectangle and the full canvas
// dimensions, both in world units.
func (in *Inputs) SetSceneRect(rect mgl32.Vec4, dims mgl32.Vec2) {
	in.mu.Lock()
	in.sceneRect = rect
	in.sceneDims = dims
	in.mu.Unlock()
}

// SetMaskFlipY sets the global Y convention for source mask sampling.
// Individual sources may still override it per mask.
func (in *Inputs) SetMaskFlipY(flip bool) {
	in.mu.Lock()
	in.maskFlipY = flip
	in.mu.Unlock()
}

// SetWaterData sets the optional water signed-distance texture.
func (in *Inputs) SetWaterData(tex *texture.Texture) {
	in.mu.Lock()
	in.waterData = tex
	in.mu.Unlock()
}

// SetRoofAlpha sets the optional overhead-cover alpha texture.
func (in *Inputs) SetRoofAlpha(tex *texture.Texture) {
	in.mu.Lock()
	in.roofAlpha = tex
	in.mu.Unlock()
}

// SetOutdoorsMask sets the optional indoor/outdoor mask.
func (in *Inputs) SetOutdoorsMask(tex *texture.Texture, flipY bool) {
	in.mu.Lock()
	in.outdoors = tex
	in.outdoorsFlipY = flipY
	in.mu.Unlock()
}

// SetCloudShadow sets the optional cloud-shadow texture.
func (in *Inputs) SetCloudShadow(tex *texture.Texture) {
	in.mu.Lock()
	in.cloudShadow = tex
	in.mu.Unlock()
}

// SetWindowLight sets the optional window-light texture.
func (in *Inputs) SetWindowLight(tex *texture.Texture) {
	in.mu.Lock()
	in.windowLight = tex
	in.mu.Unlock()
}

// SetOccluders replaces the occluder mesh set with a copy.
func (in *Inputs) SetOccluders(set OccluderSet) {
	meshes := make([]Occluder, len(set.Meshes))
	copy(meshes, set.Meshes)
	in.mu.Lock()
	in.occluders = OccluderSet{Meshes: meshes}
	in.mu.Unlock()
}

// SetGlobalIntensity scales every source's displacement uniformly.
func (in *Inputs) SetGlobalIntensity(v float32) {
	in.mu.Lock()
	in.globalIntensity = v
	in.mu.Unlock()
}

// SetDarkness sets the time-of-day darkness level in [0,1].
func (in *Inputs) SetDarkness(v float32) {
	in.mu.Lock()
	in.darkness = mgl32.Clamp(v, 0, 1)
	in.mu.Unlock()
}

// Advance moves the frame clock forward by dt seconds.
func (in *Inputs) Advance(dt float32) {
	in.mu.Lock()
	in.time += dt
	in.delta = dt
	in.mu.Unlock()
}

// Snapshot captures all collaborator state into an immutable per-frame
// record, including the derived view mapping and zoom state. The
// compositor reads only this record during update and render, so
// mid-frame mutations land on the next frame.
func (in *Inputs) Snapshot() Snapshot {
	in.mu.RLock()
	defer in.mu.RUnlock()

	meshes := make([]Occluder, len(in.occluders.Meshes))
	copy(meshes, in.occluders.Meshes)

	snap := Snapshot{
		Mapping:         view.NewMapping(in.camera, in.sceneRect, in.sceneDims, in.maskFlipY),
		Time:            in.time,
		Delta:           in.delta,
		GlobalIntensity: in.globalIntensity,
		Darkness:        in.darkness,
		WaterData:       in.waterData,
		RoofAlpha:       in.roofAlpha,
		Outdoors:        in.outdoors,
		OutdoorsFlipY:   in.outdoorsFlipY,
		CloudShadow:     in.cloudShadow,
		WindowLight:     in.windowLight,
		Occluders:       OccluderSet{Meshes: meshes},
	}
	if in.camera != nil {
		snap.Zoom = view.ZoomState{Zoom: in.camera.Zoom, ZoomMax: in.camera.ZoomMax}
	}
	return snap
}
