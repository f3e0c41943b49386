package distortion

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
)

// SourceParams is the full parameter bundle of a source. Water uses
// every group; heat and magic read only the geometry block. Unused
// fields are ignored by the passes, so one flat struct serves all
// kinds and round-trips through JSON for persistence.
type SourceParams struct {
	// Geometry and animation.
	Intensity          float32    `json:"intensity"`
	Frequency          float32    `json:"frequency"`
	Speed              float32    `json:"speed"`
	EdgeSoftnessTexels float32    `json:"edge_softness_texels"` // 0..64
	EdgeLo             float32    `json:"edge_lo"`
	EdgeHi             float32    `json:"edge_hi"`
	MaskFlipY          bool       `json:"mask_flip_y"`
	MaskUseAlpha       bool       `json:"mask_use_alpha"`
	MaskTexelSize      mgl32.Vec2 `json:"mask_texel_size"`

	// Shore micro-noise band.
	ShoreNoiseEnabled    bool    `json:"shore_noise_enabled"`
	ShoreNoiseStrengthPx float32 `json:"shore_noise_strength_px"`
	ShoreNoiseFrequency  float32 `json:"shore_noise_frequency"`
	ShoreNoiseSpeed      float32 `json:"shore_noise_speed"`
	ShoreNoiseFadeLo     float32 `json:"shore_noise_fade_lo"`
	ShoreNoiseFadeHi     float32 `json:"shore_noise_fade_hi"`

	// Wind. Direction is normalized on use; speed is 0..1. The foam
	// phase is integrated by the pipeline, never in the pixel loop.
	WindDirX      float32 `json:"wind_dir_x"`
	WindDirY      float32 `json:"wind_dir_y"`
	WindSpeed     float32 `json:"wind_speed"`
	WindFoamPhase float32 `json:"wind_foam_phase"`

	// Chromatic refraction.
	ChromaEnabled bool    `json:"chroma_enabled"`
	ChromaMaxPx   float32 `json:"chroma_max_px"`

	// Depth shaping.
	DepthPower float32 `json:"depth_power"`

	// Shallow sand.
	SandEnabled  bool       `json:"sand_enabled"`
	SandDepthLo  float32    `json:"sand_depth_lo"`
	SandDepthHi  float32    `json:"sand_depth_hi"`
	SandStrength float32    `json:"sand_strength"`
	SandScale    float32    `json:"sand_scale"`
	SandColor    mgl32.Vec3 `json:"sand_color"`

	// Deep murk.
	MurkEnabled  bool       `json:"murk_enabled"`
	MurkDepthLo  float32    `json:"murk_depth_lo"`
	MurkDepthHi  float32    `json:"murk_depth_hi"`
	MurkStrength float32    `json:"murk_strength"`
	MurkScale    float32    `json:"murk_scale"`
	MurkColor    mgl32.Vec3 `json:"murk_color"`

	// Depth tint.
	TintEnabled  bool       `json:"tint_enabled"`
	TintStrength float32    `json:"tint_strength"`
	TintShallow  mgl32.Vec3 `json:"tint_shallow"`
	TintDeep     mgl32.Vec3 `json:"tint_deep"`

	// Caustics.
	CausticsEnabled         bool    `json:"caustics_enabled"`
	CausticsIntensity       float32 `json:"caustics_intensity"`
	CausticsScale           float32 `json:"caustics_scale"`
	CausticsSpeed           float32 `json:"caustics_speed"`
	CausticsSharpness       float32 `json:"caustics_sharpness"`
	CausticsEdgeLo          float32 `json:"caustics_edge_lo"`
	CausticsEdgeHi          float32 `json:"caustics_edge_hi"`
	CausticsBaseCoverage    float32 `json:"caustics_base_coverage"`
	CausticsShallowLo       float32 `json:"caustics_shallow_lo"`
	CausticsShallowHi       float32 `json:"caustics_shallow_hi"`
	CausticsOutdoorStrength float32 `json:"caustics_outdoor_strength"`
	CloudCausticsKill       float32 `json:"cloud_caustics_kill"`
	CloudKillCurve          float32 `json:"cloud_kill_curve"`
	CausticsForceLight      bool    `json:"caustics_force_light"`

	// Optional brightness gating.
	BrightGateEnabled   bool    `json:"bright_gate_enabled"`
	BrightGateThreshold float32 `json:"bright_gate_threshold"`
	BrightGateSoftness  float32 `json:"bright_gate_softness"`
	BrightGateGamma     float32 `json:"bright_gate_gamma"`

	// Wind-driven foam.
	FoamEnabled     bool       `json:"foam_enabled"`
	FoamScale       float32    `json:"foam_scale"`
	FoamSpeed       float32    `json:"foam_speed"`
	FoamStreakiness float32    `json:"foam_streakiness"`
	FoamThreshold   float32    `json:"foam_threshold"`
	FoamSoftness    float32    `json:"foam_softness"`
	FoamDepthLo     float32    `json:"foam_depth_lo"`
	FoamDepthHi     float32    `json:"foam_depth_hi"`
	FoamColor       mgl32.Vec3 `json:"foam_color"`

	// Night behavior. NightFade scales how strongly darkness mutes
	// caustics and chroma.
	NightFade float32 `json:"night_fade"`
}

// DefaultSourceParams returns the neutral baseline shared by all
// kinds: unit edge remap, no shading features, no wind.
func DefaultSourceParams() SourceParams {
	return SourceParams{
		Intensity:  0.02,
		Frequency:  1.0,
		Speed:      1.0,
		EdgeLo:     0.0,
		EdgeHi:     1.0,
		DepthPower: 1.0,
		NightFade:  0.5,
	}
}

// DefaultWaterParams returns a fully featured water bundle.
func DefaultWaterParams() SourceParams {
	p := DefaultSourceParams()
	p.Intensity = 0.015
	p.Frequency = 1.0
	p.Speed = 0.8
	p.EdgeSoftnessTexels = 8

	p.ShoreNoiseEnabled = true
	p.ShoreNoiseStrengthPx = 2.5
	p.ShoreNoiseFrequency = 48
	p.ShoreNoiseSpeed = 0.6
	p.ShoreNoiseFadeLo = 0.05
	p.ShoreNoiseFadeHi = 0.35

	p.WindDirX = 1
	p.WindDirY = 0
	p.WindSpeed = 0.3

	p.ChromaEnabled = true
	p.ChromaMaxPx = 2.5
	p.DepthPower = 1.4

	p.SandEnabled = true
	p.SandDepthLo = 0.05
	p.SandDepthHi = 0.3
	p.SandStrength = 0.35
	p.SandScale = 40
	p.SandColor = MustHexColor("#c2b280")

	p.MurkEnabled = true
	p.MurkDepthLo = 0.45
	p.MurkDepthHi = 0.85
	p.MurkStrength = 0.5
	p.MurkScale = 6
	p.MurkColor = MustHexColor("#14333d")

	p.TintEnabled = true
	p.TintStrength = 0.45
	p.TintShallow = MustHexColor("#3e8e9e")
	p.TintDeep = MustHexColor("#10424f")

	p.CausticsEnabled = true
	p.CausticsIntensity = 0.5
	p.CausticsScale = 26
	p.CausticsSpeed = 0.35
	p.CausticsSharpness = 2.0
	p.CausticsEdgeLo = 0.02
	p.CausticsEdgeHi = 0.2
	p.CausticsBaseCoverage = 0.65
	p.CausticsShallowLo = 0.15
	p.CausticsShallowHi = 0.6
	p.CausticsOutdoorStrength = 1
	p.CloudCausticsKill = 1
	p.CloudKillCurve = 1.5

	p.FoamEnabled = true
	p.FoamScale = 18
	p.FoamSpeed = 0.8
	p.FoamStreakiness = 2.5
	p.FoamThreshold = 0.72
	p.FoamSoftness = 0.12
	p.FoamDepthLo = 0.1
	p.FoamDepthHi = 0.5
	p.FoamColor = MustHexColor("#eef6f8")

	return p
}

// DefaultHeatParams returns a shimmer bundle for heat sources.
func DefaultHeatParams() SourceParams {
	p := DefaultSourceParams()
	p.Intensity = 0.006
	p.Frequency = 3.0
	p.Speed = 1.6
	p.EdgeSoftnessTexels = 12
	return p
}

// DefaultMagicParams returns a swirl bundle for magic sources.
func DefaultMagicParams() SourceParams {
	p := DefaultSourceParams()
	p.Intensity = 0.02
	p.Frequency = 2.0
	p.Speed = 1.2
	p.EdgeSoftnessTexels = 6
	return p
}

// WindDir returns the normalized wind direction, defaulting to +X when
// the configured direction is degenerate.
func (p *SourceParams) WindDir() mgl32.Vec2 {
	d := mgl32.Vec2{p.WindDirX, p.WindDirY}
	if d.Len() < 1e-6 {
		return mgl32.Vec2{1, 0}
	}
	return d.Normalize()
}

// EdgeRange returns the smoothstep remap bounds with the strict
// ordering enforced: a violating pair collapses to (min, min+epsilon).
func (p *SourceParams) EdgeRange() (float32, float32) {
	lo, hi := p.EdgeLo, p.EdgeHi
	if lo >= hi {
		m := lo
		if hi < m {
			m = hi
		}
		return m, m + 1e-4
	}
	return lo, hi
}

// ShoreFadeRange returns the shore band fade bounds, ordered.
func (p *SourceParams) ShoreFadeRange() (float32, float32) {
	lo, hi := p.ShoreNoiseFadeLo, p.ShoreNoiseFadeHi
	if lo >= hi {
		m := lo
		if hi < m {
			m = hi
		}
		return m, m + 1e-4
	}
	return lo, hi
}

// ParseHexColor converts "#rrggbb" into a linear-ish RGB vector.
func ParseHexColor(s string) (mgl32.Vec3, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return mgl32.Vec3{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return mgl32.Vec3{float32(c.R), float32(c.G), float32(c.B)}, nil
}

// MustHexColor is ParseHexColor for compile-time constants.
func MustHexColor(s string) mgl32.Vec3 {
	v, err := ParseHexColor(s)
	if err != nil {
		panic(err)
	}
	return v
}
