package distortion

import (
	"github.com/go-gl/mathgl/mgl32"

	"Mirage2D/internal/scene"
	"Mirage2D/internal/texture"
)

// runComposite evaluates every active source per pixel and writes the
// distortion map: RG = offset encoded into [0,1], B = max of all
// effective masks, A = water-only mask. Offsets from different sources
// sum; masks take the max.
func (p *Pipeline) runComposite(srcs []Source) {
	dst := p.distMap
	W, H := dst.W, dst.H
	if W == 0 || H == 0 {
		return
	}
	snap := &p.snap
	occ := p.occluder
	gen := p.gen
	t := snap.Time

	waterIdx := -1
	for i := range srcs {
		if srcs[i].Kind == KindWater {
			waterIdx = i
			break
		}
	}

	p.forEachRow(H, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < W; x++ {
				screenUV := mgl32.Vec2{
					(float32(x) + 0.5) / float32(W),
					(float32(y) + 0.5) / float32(H),
				}
				occA := clamp01(occ.SampleChannel(screenUV.X(), screenUV.Y(), 0))
				suv, inB := snap.Mapping.SceneUV(screenUV)

				var total mgl32.Vec2
				var totalMask, waterMask float32

				for i := range srcs {
					src := &srcs[i]
					m := sampleSourceMask(src, snap, suv, screenUV, inB)
					if m <= 0 {
						continue
					}
					m *= 1 - occA
					if src.Layer.MaskedByRoof() && snap.RoofAlpha != nil {
						m *= 1 - clamp01(sampleAlpha(snap.RoofAlpha, screenUV))
					}
					if m <= 0 {
						continue
					}

					fieldUV := suv
					if src.Layer == LayerScreenSpace {
						fieldUV = screenUV
					}
					off := fieldOffset(gen, src.Kind, fieldUV, t, &src.Params)

					total = total.Add(off.Mul(m))
					if m > totalMask {
						totalMask = m
					}
					if src.Kind == KindWater && m > waterMask {
						waterMask = m
					}
				}

				if waterIdx >= 0 && waterMask > 0 && srcs[waterIdx].Params.ShoreNoiseEnabled {
					wp := &srcs[waterIdx].Params
					band := shoreBandAt(&srcs[waterIdx], snap, suv, inB)
					band *= waterMask * (1 - occA)
					if band > 0 {
						texel := wp.MaskTexelSize
						strengthUV := wp.ShoreNoiseStrengthPx * maxf(texel.X(), texel.Y())
						total = total.Add(shoreNoiseOffset(gen, suv, t, wp, band, strengthUV))
					}
				}

				total = total.Mul(snap.GlobalIntensity)

				dst.Set(x, y, mgl32.Vec4{
					clamp01(total.X()*0.5 + 0.5),
					clamp01(total.Y()*0.5 + 0.5),
					clamp01(totalMask),
					clamp01(waterMask),
				})
			}
		}
	})
}

// sampleSourceMask reads the effective mask value of a source at this
// pixel. Scene-pinned sources sample in scene UV gated by the bounds
// indicator; screen-space sources sample at the screen UV and a nil
// mask means full coverage.
func sampleSourceMask(src *Source, snap *scene.Snapshot, suv, screenUV mgl32.Vec2, inBounds float32) float32 {
	if src.Layer == LayerScreenSpace {
		if src.Mask == nil {
			return 1
		}
		return clamp01(maskSample(src.Mask, &src.Params, screenUV, src.Params.MaskFlipY))
	}
	if src.Mask == nil {
		return 0
	}
	flip := snap.Mapping.MaskFlipY != src.Params.MaskFlipY
	return clamp01(maskSample(src.Mask, &src.Params, suv, flip)) * inBounds
}

// maskSample reads the declared channel, optionally through the 5-tap
// cross blur and edge remap. With zero softness the raw sample passes
// through untouched.
func maskSample(mask *texture.Texture, p *SourceParams, uv mgl32.Vec2, flip bool) float32 {
	u, v := uv.X(), uv.Y()
	if flip {
		v = 1 - v
	}
	ch := 0
	if p.MaskUseAlpha {
		ch = 3
	}
	if p.EdgeSoftnessTexels <= 0 {
		return mask.SampleChannel(u, v, ch)
	}

	texel := mask.TexelSize()
	b := blur5(mask, u, v, ch, p.EdgeSoftnessTexels*texel.X(), p.EdgeSoftnessTexels*texel.Y())
	lo, hi := p.EdgeRange()
	s01 := clamp01(p.EdgeSoftnessTexels / 64)
	return smoothstep(lo, hi+s01*0.5, b)
}

// blur5 is the center-weighted cross blur used for edge softening and
// the shore band fallback.
func blur5(mask *texture.Texture, u, v float32, ch int, rx, ry float32) float32 {
	c := mask.SampleChannel(u, v, ch)
	l := mask.SampleChannel(u-rx, v, ch)
	r := mask.SampleChannel(u+rx, v, ch)
	d := mask.SampleChannel(u, v-ry, ch)
	t := mask.SampleChannel(u, v+ry, ch)
	return (2*c + l + r + d + t) / 6
}

// shoreBandAt evaluates the shoreline proximity for the water source,
// preferring the distance-field path when water data is present.
func shoreBandAt(src *Source, snap *scene.Snapshot, suv mgl32.Vec2, inBounds float32) float32 {
	if inBounds <= 0 {
		return 0
	}
	wp := &src.Params
	lo, hi := wp.ShoreFadeRange()

	if snap.WaterData != nil {
		wd := snap.WaterData.Sample(suv.X(), suv.Y())
		return shoreBandSDF(wd.X(), wd.Y(), lo, hi)
	}

	if src.Mask == nil {
		return 0
	}
	u, v := suv.X(), suv.Y()
	if snap.Mapping.MaskFlipY != wp.MaskFlipY {
		v = 1 - v
	}
	ch := 0
	if wp.MaskUseAlpha {
		ch = 3
	}
	texel := src.Mask.TexelSize()
	blurred := blur5(src.Mask, u, v, ch, 2*texel.X(), 2*texel.Y())
	return shoreBandBlurred(blurred, lo, hi)
}

// sampleAlpha reads coverage from a texture regardless of whether it
// stores it in R (single channel) or A (full RGBA).
func sampleAlpha(t *texture.Texture, uv mgl32.Vec2) float32 {
	ch := 0
	if t.C >= 4 {
		ch = 3
	}
	return t.SampleChannel(uv.X(), uv.Y(), ch)
}
