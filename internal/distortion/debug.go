package distortion

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"

	"Mirage2D/internal/scene"
	"Mirage2D/internal/texture"
)

// DebugMode selects an overlay drawn instead of the shaded scene.
type DebugMode int

const (
	DebugNone DebugMode = iota
	DebugMasks
	DebugShoreBand
	DebugOffsets
)

func (m DebugMode) String() string {
	switch m {
	case DebugNone:
		return "none"
	case DebugMasks:
		return "masks"
	case DebugShoreBand:
		return "shore_band"
	case DebugOffsets:
		return "offsets"
	}
	return "unknown"
}

var (
	rampCold  = colorful.Color{R: 0.05, G: 0.08, B: 0.25}
	rampHot   = colorful.Color{R: 0.95, G: 0.85, B: 0.2}
	waterBlue = mgl32.Vec3{0.15, 0.5, 0.9}
)

// maskRampColor maps the total mask through a cold-to-hot ramp and
// pulls the water-only portion toward blue.
func maskRampColor(total, water float32) mgl32.Vec3 {
	c := rampCold.BlendHcl(rampHot, float64(clamp01(total))).Clamped()
	v := mgl32.Vec3{float32(c.R), float32(c.G), float32(c.B)}
	return mixVec3(v, waterBlue, clamp01(water)*0.5)
}

// debugColor renders one pixel of the selected overlay.
func debugColor(plan *applyPlan, snap *scene.Snapshot, enc mgl32.Vec4, screenUV mgl32.Vec2) mgl32.Vec3 {
	switch plan.debug {
	case DebugMasks:
		return maskRampColor(enc.Z(), enc.W())
	case DebugShoreBand:
		if !plan.hasWater {
			return mgl32.Vec3{}
		}
		suv, inB := snap.Mapping.SceneUV(screenUV)
		band := shoreBandAt(&plan.water, snap, suv, inB)
		return mgl32.Vec3{band, band, band}
	case DebugOffsets:
		return mgl32.Vec3{enc.X(), enc.Y(), 0.5}
	}
	return mgl32.Vec3{}
}

// DumpDistortionMap writes the current distortion map as a PNG for
// offline inspection: encoded offsets in RG, total mask in B, water
// mask folded into alpha.
func (p *Pipeline) DumpDistortionMap(path string) error {
	d := p.distMap
	if d == nil {
		return errors.New("distortion: pipeline closed")
	}
	img := texture.NewRGBA(d.W, d.H)
	for y := 0; y < d.H; y++ {
		for x := 0; x < d.W; x++ {
			v := d.At(x, y)
			img.Set(x, y, mgl32.Vec4{v.X(), v.Y(), v.Z(), 1})
		}
	}
	return texture.WritePNG(img, path)
}
