package distortion

// Layer classifies where a source sits in the scene stack. The order
// fixes composite iteration; the roof flag decides whether overhead
// cover suppresses the source.
type Layer int

const (
	LayerUnderOverhead Layer = iota
	LayerAboveGround
	LayerFullScene
	LayerScreenSpace
)

// Order returns the composite iteration rank.
func (l Layer) Order() int {
	return int(l)
}

// MaskedByRoof reports whether roof alpha modulates the source.
func (l Layer) MaskedByRoof() bool {
	return l == LayerUnderOverhead || l == LayerAboveGround
}

func (l Layer) String() string {
	switch l {
	case LayerUnderOverhead:
		return "under_overhead"
	case LayerAboveGround:
		return "above_ground"
	case LayerFullScene:
		return "full_scene"
	case LayerScreenSpace:
		return "screen_space"
	}
	return "unknown"
}

// Kind selects the displacement function for a source.
type Kind int

const (
	KindHeat Kind = iota
	KindWater
	KindMagic
)

func (k Kind) String() string {
	switch k {
	case KindHeat:
		return "heat"
	case KindWater:
		return "water"
	case KindMagic:
		return "magic"
	}
	return "unknown"
}
