package scene

import "github.com/go-gl/mathgl/mgl32"

// Layer bits for routing meshes to render passes.
const (
	LayerDefault  uint32 = 1 << 0
	LayerOccluder uint32 = 1 << 1
)

// Occluder is an opaque surface object (boat, dock) described as a
// rotated rectangle in world space. Meshes carrying LayerOccluder are
// rasterized into the occluder alpha target, which suppresses water
// effects underneath them.
type Occluder struct {
	Center       mgl32.Vec2 // world position of the rectangle center
	Size         mgl32.Vec2 // full width and height in world units
	Rotation     float32    // radians, counter-clockwise
	CornerRadius float32    // world units, 0 for sharp corners
	Alpha        float32    // coverage written, usually 1
	Layers       uint32     // layer bitmask
}

// OccluderSet is the dedicated mesh list the occluder pass renders.
// Keeping occluders in their own set keeps that pass O(occluders)
// instead of filtering the whole scene every frame.
type OccluderSet struct {
	Meshes []Occluder
}

// Add appends a mesh. Meshes without LayerOccluder are kept but will
// not be drawn by the occluder pass.
func (s *OccluderSet) Add(o Occluder) {
	s.Meshes = append(s.Meshes, o)
}

// Clear removes all meshes.
func (s *OccluderSet) Clear() {
	s.Meshes = s.Meshes[:0]
}

// OnLayer returns the meshes whose layer bitmask intersects bits.
func (s OccluderSet) OnLayer(bits uint32) []Occluder {
	out := make([]Occluder, 0, len(s.Meshes))
	for _, m := range s.Meshes {
		if m.Layers&bits != 0 {
			out = append(out, m)
		}
	}
	return out
}
