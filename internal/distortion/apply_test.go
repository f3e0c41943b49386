package distortion

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"Mirage2D/internal/texture"
	"Mirage2D/internal/view"
)

func TestDecodeOffsetAxes(t *testing.T) {
	enc := mgl32.Vec4{0.8, 0.3, 1, 0}
	off := decodeOffsetPx(enc, 128, 64, 1, 1e6)
	if math.Abs(float64(off.X()-76.8)) > 0.01 {
		t.Errorf("Expected x offset 76.8, got %f", off.X())
	}
	if math.Abs(float64(off.Y()+25.6)) > 0.01 {
		t.Errorf("Expected y offset -25.6, got %f", off.Y())
	}
}

func TestDecodeOffsetZoomLinearity(t *testing.T) {
	enc := mgl32.Vec4{0.7, 0.35, 1, 0}
	unit := decodeOffsetPx(enc, 128, 64, 1, 1e6)
	for _, z := range []float32{0.25, 0.5, 0.75} {
		off := decodeOffsetPx(enc, 128, 64, z, 1e6)
		want := unit.Mul(z)
		if math.Abs(float64(off.X()-want.X())) > 1e-3 || math.Abs(float64(off.Y()-want.Y())) > 1e-3 {
			t.Errorf("Zoom %f: expected %v, got %v", z, want, off)
		}
	}
}

func TestDecodeOffsetBudget(t *testing.T) {
	long := mgl32.Vec4{1, 1, 1, 0}
	off := decodeOffsetPx(long, 64, 64, 1, 5)
	if l := off.Len(); math.Abs(float64(l-5)) > 1e-3 {
		t.Errorf("Expected offset clamped to 5 pixels, got %f", l)
	}
	if off := decodeOffsetPx(long, 64, 64, 1, 0); off != (mgl32.Vec2{}) {
		t.Errorf("Zero budget should kill the offset, got %v", off)
	}
}

func TestDecodeOffsetZeroMask(t *testing.T) {
	enc := mgl32.Vec4{0.9, 0.1, 0, 0}
	if off := decodeOffsetPx(enc, 64, 64, 1, 100); off != (mgl32.Vec2{}) {
		t.Errorf("Zero total mask must decode to a zero offset, got %v", off)
	}
}

func TestMaskGatedDisplacement(t *testing.T) {
	rig := newTestRig(64, 64)
	p := DefaultHeatParams()
	p.Intensity = 0.5
	p.EdgeSoftnessTexels = 0
	rig.pipe.Registry().Register("heat", KindHeat, LayerAboveGround, halfMask(64, 64), p)

	in := rampScene(64, 64)
	out := texture.NewRGBA(64, 64)
	rig.inputs.Advance(1)
	rig.pipe.Update()
	rig.pipe.Render(in, out)

	dist := rig.pipe.DistortionMap()
	neutral := mgl32.Vec4{0.5, 0.5, 0, 0}
	for y := 0; y < 64; y++ {
		for x := 32; x < 64; x++ {
			if v := dist.At(x, y); v != neutral {
				t.Fatalf("Unmasked pixel (%d,%d) should stay neutral, got %v", x, y, v)
			}
			if out.At(x, y) != in.At(x, y) {
				t.Fatalf("Unmasked pixel (%d,%d) should pass through untouched", x, y)
			}
		}
	}

	moved := false
	for y := 0; y < 64 && !moved; y++ {
		for x := 0; x < 32; x++ {
			v := dist.At(x, y)
			if v.X() != 0.5 || v.Y() != 0.5 {
				moved = true
				break
			}
		}
	}
	if !moved {
		t.Error("Masked half should carry nonzero offsets")
	}
}

func TestZoomScalesDisplacement(t *testing.T) {
	rigA := newTestRig(64, 64)
	rigB := newTestRig(64, 64)
	rigB.cam.SetZoom(2)

	p := DefaultHeatParams()
	p.Intensity = 0.1
	rigA.pipe.Registry().Register("heat", KindHeat, LayerScreenSpace, nil, p)
	rigB.pipe.Registry().Register("heat", KindHeat, LayerScreenSpace, nil, p)

	in := rampScene(64, 64)
	outA := texture.NewRGBA(64, 64)
	outB := texture.NewRGBA(64, 64)
	rigA.inputs.Advance(1)
	rigB.inputs.Advance(1)
	rigA.pipe.Update()
	rigB.pipe.Update()
	rigA.pipe.Render(in, outA)
	rigB.pipe.Render(in, outB)

	normA := view.ZoomState{Zoom: 1, ZoomMax: 3}.Norm()
	normB := view.ZoomState{Zoom: 2, ZoomMax: 3}.Norm()
	maxPx := DefaultConfig().MaxDisplacementPx

	da := rigA.pipe.DistortionMap()
	db := rigB.pipe.DistortionMap()

	var best mgl32.Vec2
	bx, by := 0, 0
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			d := decodeOffsetPx(db.At(x, y), 64, 64, normB, maxPx*normB)
			if d.Len() > best.Len() {
				best = d
				bx, by = x, y
			}
		}
	}
	if best.Len() < 0.5 {
		t.Fatalf("Expected at least half a pixel of displacement at zoom 2, got %f", best.Len())
	}

	dA := decodeOffsetPx(da.At(bx, by), 64, 64, normA, maxPx*normA)
	if math.Abs(float64(dA.X()-best.X()*0.5)) > 0.05 || math.Abs(float64(dA.Y()-best.Y()*0.5)) > 0.05 {
		t.Errorf("Halving zoom should halve displacement: zoom2 %v, zoom1 %v", best, dA)
	}
	if best.Len() > maxPx*normB+1e-3 {
		t.Errorf("Displacement %f exceeds the zoom-scaled budget %f", best.Len(), maxPx*normB)
	}
}

func TestChromaShiftsFringes(t *testing.T) {
	base := DefaultWaterParams()
	base.Intensity = 0.3
	base.EdgeSoftnessTexels = 0
	base.ShoreNoiseEnabled = false
	base.SandEnabled = false
	base.MurkEnabled = false
	base.TintEnabled = false
	base.CausticsEnabled = false
	base.FoamEnabled = false

	withChroma := base
	withChroma.ChromaEnabled = true
	withoutChroma := base
	withoutChroma.ChromaEnabled = false

	render := func(p SourceParams) *texture.Texture {
		rig := newTestRig(64, 64)
		rig.pipe.Registry().Register("water", KindWater, LayerAboveGround, fullMask(64, 64), p)
		in := rampScene(64, 64)
		out := texture.NewRGBA(64, 64)
		rig.inputs.Advance(1)
		rig.pipe.Update()
		rig.pipe.Render(in, out)
		return out
	}

	a := render(withChroma)
	b := render(withoutChroma)
	if texturesEqual(a, b) {
		t.Error("Chromatic refraction should separate the channels on a gradient")
	}
}

func TestDeepWaterShadingDarkens(t *testing.T) {
	rig := newTestRig(64, 64)
	p := DefaultWaterParams()
	p.Intensity = 0
	p.ShoreNoiseEnabled = false
	p.ChromaEnabled = false
	p.SandEnabled = false
	p.CausticsEnabled = false
	p.FoamEnabled = false
	rig.pipe.Registry().Register("water", KindWater, LayerAboveGround, fullMask(64, 64), p)

	in := constColor(64, 64, mgl32.Vec4{0.7, 0.7, 0.7, 1})
	out := texture.NewRGBA(64, 64)
	rig.pipe.Update()
	rig.pipe.Render(in, out)

	for _, px := range [][2]int{{16, 16}, {32, 32}, {40, 8}} {
		c := out.At(px[0], px[1])
		lum := luminance(mgl32.Vec3{c.X(), c.Y(), c.Z()})
		if lum >= 0.65 {
			t.Errorf("Deep water at (%d,%d) should be darker than the input, luminance %f", px[0], px[1], lum)
		}
		if lum <= 0 {
			t.Errorf("Deep water at (%d,%d) should not go fully black", px[0], px[1])
		}
		if c.W() != 1 {
			t.Errorf("Alpha must survive shading at (%d,%d), got %f", px[0], px[1], c.W())
		}
	}
}

func TestFoamFollowsWind(t *testing.T) {
	base := DefaultWaterParams()
	base.Intensity = 0
	base.ShoreNoiseEnabled = false
	base.ChromaEnabled = false
	base.SandEnabled = false
	base.MurkEnabled = false
	base.TintEnabled = false
	base.CausticsEnabled = false
	base.FoamThreshold = 0.2
	base.FoamSoftness = 0.1
	base.WindSpeed = 0.8

	calm := base
	calm.FoamEnabled = false

	render := func(p SourceParams) *texture.Texture {
		rig := newTestRig(64, 64)
		rig.pipe.Registry().Register("water", KindWater, LayerAboveGround, fullMask(64, 64), p)
		in := constColor(64, 64, mgl32.Vec4{0.4, 0.45, 0.5, 1})
		out := texture.NewRGBA(64, 64)
		rig.pipe.Update()
		rig.pipe.Render(in, out)
		return out
	}

	foamy := render(base)
	flat := render(calm)
	if texturesEqual(foamy, flat) {
		t.Error("Wind-driven foam should brighten crests somewhere")
	}

	// Foam also needs wind. Becalmed water shows none.
	still := base
	still.WindSpeed = 0
	if !texturesEqual(render(still), flat) {
		t.Error("Foam should vanish without wind")
	}
}
