package scene

import (
	"Mirage2D/internal/texture"
	"Mirage2D/internal/view"
)

// Snapshot is the read-only per-frame record the compositor consumes.
// Texture pointers reference collaborator-owned data; collaborators
// replace whole textures rather than mutating them mid-frame.
type Snapshot struct {
	Mapping view.Mapping
	Zoom    view.ZoomState

	Time  float32 // seconds since start
	Delta float32 // seconds since previous frame

	GlobalIntensity float32
	Darkness        float32 // 0 day, 1 full night

	WaterData     *texture.Texture
	RoofAlpha     *texture.Texture
	Outdoors      *texture.Texture
	OutdoorsFlipY bool
	CloudShadow   *texture.Texture
	WindowLight   *texture.Texture

	Occluders OccluderSet
}
