package distortion

import "Mirage2D/internal/texture"

// Source is one registered contributor of displacement. Masks live in
// scene UV; the composite pass does all screen-to-scene mapping, so a
// source never samples in screen coordinates itself. Screen-space
// sources are the one exception: they may run without a mask and are
// sampled directly at the screen UV.
type Source struct {
	ID      string
	Kind    Kind
	Layer   Layer
	Mask    *texture.Texture
	Params  SourceParams
	Enabled bool
}

// Active reports whether the source contributes this frame. A nil mask
// disables everything except screen-space sources, which default to
// full coverage.
func (s *Source) Active() bool {
	if !s.Enabled {
		return false
	}
	if s.Layer == LayerScreenSpace {
		return true
	}
	return s.Mask != nil
}
