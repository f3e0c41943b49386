package distortion

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"

	"Mirage2D/internal/noise"
	"Mirage2D/internal/texture"
)

const tintLUTSize = 16

// applyPlan is the per-frame specialization of the apply pass: every
// option flag and derived constant resolved once, so the pixel loop
// branches on a compact plan instead of re-deriving options per pixel.
type applyPlan struct {
	zoomNorm float32
	maxOffPx float32

	hasWater bool
	water    Source
	windDir  mgl32.Vec2
	nightVis float32
	chromaPx float32

	tintLUT      [tintLUTSize]mgl32.Vec3
	causticColor mgl32.Vec3

	debug DebugMode
}

// buildApplyPlan resolves the plan from the active sources. Water
// shading follows the first active water source in composite order.
func (p *Pipeline) buildApplyPlan(srcs []Source) applyPlan {
	plan := applyPlan{
		zoomNorm: p.snap.Zoom.Norm(),
		debug:    p.cfg.Debug,
	}
	plan.maxOffPx = p.cfg.MaxDisplacementPx * plan.zoomNorm

	for i := range srcs {
		if srcs[i].Kind == KindWater {
			plan.hasWater = true
			plan.water = srcs[i]
			break
		}
	}
	if !plan.hasWater {
		plan.nightVis = 1
		return plan
	}

	wp := &plan.water.Params
	plan.windDir = wp.WindDir()
	plan.nightVis = nightVisibility(p.snap.Darkness, wp.NightFade)
	plan.chromaPx = wp.ChromaMaxPx * plan.nightVis
	plan.tintLUT = buildTintLUT(wp.TintShallow, wp.TintDeep)
	plan.causticColor = mixVec3(mgl32.Vec3{1, 0.97, 0.88}, wp.TintShallow, 0.35)
	return plan
}

// buildTintLUT blends the shallow and deep tints in Lab space so the
// depth gradient stays perceptually even.
func buildTintLUT(shallow, deep mgl32.Vec3) [tintLUTSize]mgl32.Vec3 {
	cs := colorful.Color{R: float64(shallow.X()), G: float64(shallow.Y()), B: float64(shallow.Z())}
	cd := colorful.Color{R: float64(deep.X()), G: float64(deep.Y()), B: float64(deep.Z())}

	var lut [tintLUTSize]mgl32.Vec3
	for i := range lut {
		c := cs.BlendLab(cd, float64(i)/float64(tintLUTSize-1)).Clamped()
		lut[i] = mgl32.Vec3{float32(c.R), float32(c.G), float32(c.B)}
	}
	return lut
}

func (pl *applyPlan) tintAt(depth float32) mgl32.Vec3 {
	idx := int(clamp01(depth)*float32(tintLUTSize-1) + 0.5)
	if idx >= tintLUTSize {
		idx = tintLUTSize - 1
	}
	return pl.tintLUT[idx]
}

// runApply displaces the scene sample through the distortion map and
// layers the water shading cascade on top.
func (p *Pipeline) runApply(in, out *texture.Texture, plan *applyPlan) {
	W, H := out.W, out.H
	if W == 0 || H == 0 {
		return
	}
	snap := &p.snap
	dist := p.distMap
	occ := p.occluder
	gen := p.gen
	t := snap.Time
	wp := &plan.water.Params

	p.forEachRow(H, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < W; x++ {
				screenUV := mgl32.Vec2{
					(float32(x) + 0.5) / float32(W),
					(float32(y) + 0.5) / float32(H),
				}
				enc := dist.At(x, y)
				waterMask := enc.W()

				offPx := decodeOffsetPx(enc, W, H, plan.zoomNorm, plan.maxOffPx)
				fx := float32(x) + offPx.X()
				fy := float32(y) + offPx.Y()
				base := in.SamplePixel(fx, fy)
				rgb := mgl32.Vec3{base.X(), base.Y(), base.Z()}
				alpha := base.W()

				if plan.hasWater && waterMask > 0 {
					suv, inB := snap.Mapping.SceneUV(screenUV)
					occA := clamp01(occ.SampleChannel(screenUV.X(), screenUV.Y(), 0))

					if wp.ChromaEnabled && plan.chromaPx > 0 {
						if l := offPx.Len(); l > 1e-4 {
							dir := offPx.Mul(1 / l)
							amt := minf(plan.chromaPx, l*0.5) * waterMask
							rr := in.SamplePixel(fx+dir.X()*amt, fy+dir.Y()*amt)
							bb := in.SamplePixel(fx-dir.X()*amt, fy-dir.Y()*amt)
							rgb[0] = rr.X()
							rgb[2] = bb.Z()
						}
					}

					depth := blurredWaterDepth(dist, x, y, wp.EdgeSoftnessTexels)
					depth *= 1 - occA
					depthP := pow32(depth, maxf(wp.DepthPower, 1e-3))
					shore := shoreFactorAt(dist, x, y)

					outdoorV := float32(1)
					if snap.Outdoors != nil {
						u, v := suv.X(), suv.Y()
						if snap.OutdoorsFlipY {
							v = 1 - v
						}
						outdoorV = clamp01(snap.Outdoors.SampleChannel(u, v, 0)) * inB
					}
					vig := skyVignette(suv)
					murkDamp := float32(1)

					if wp.SandEnabled {
						gate := 1 - smoothstep(wp.SandDepthLo, wp.SandDepthHi, depthP)
						if gate > 0 {
							along, across := rotateIntoWind(suv, plan.windDir)
							n := float32(gen.Ridged2(
								float64(along)*float64(wp.SandScale)*0.35-float64(t)*float64(wp.WindSpeed)*0.2,
								float64(across)*float64(wp.SandScale),
								3, 0.5))
							amt := clamp01(wp.SandStrength*gate*n*outdoorV*vig) * waterMask
							rgb = mixVec3(rgb, wp.SandColor, amt)
						}
					}

					if wp.MurkEnabled {
						gate := smoothstep(wp.MurkDepthLo, wp.MurkDepthHi, depthP)
						if gate > 0 {
							n := float32(gen.FBM2(
								float64(suv.X())*float64(wp.MurkScale)+float64(plan.windDir.X())*float64(t)*0.08,
								float64(suv.Y())*float64(wp.MurkScale)+float64(plan.windDir.Y())*float64(t)*0.08,
								3, 0.5))
							amt := clamp01(wp.MurkStrength*gate*(0.6+0.4*(n*0.5+0.5))) * waterMask
							gray := luminance(rgb)
							rgb = mixVec3(rgb, mgl32.Vec3{gray, gray, gray}, amt*0.6)
							rgb = mixVec3(rgb, wp.MurkColor, amt*0.55)
							murkDamp = 1 - amt*0.8
						}
					}

					if wp.TintEnabled {
						amt := clamp01(depthP*wp.TintStrength) * waterMask
						rgb = mixVec3(rgb, plan.tintAt(depthP), amt)
						rgb = rgb.Mul(1 - 0.25*amt)
					}

					if wp.CausticsEnabled {
						shallow := 1 - smoothstep(wp.CausticsShallowLo, wp.CausticsShallowHi, depthP)
						coverage := maxf(shallow, mix(wp.CausticsBaseCoverage, 1, shore))
						edge := smoothstep(wp.CausticsEdgeLo, wp.CausticsEdgeHi, depth)

						cloudLit := float32(1)
						if snap.CloudShadow != nil {
							cloudLit = clamp01(snap.CloudShadow.SampleChannel(screenUV.X(), screenUV.Y(), 0))
						}
						windowA := float32(0)
						if snap.WindowLight != nil {
							windowA = clamp01(sampleAlpha(snap.WindowLight, screenUV))
						}
						gate := causticsLightGate(outdoorV, cloudLit, windowA,
							wp.CausticsOutdoorStrength, wp.CloudCausticsKill, wp.CloudKillCurve,
							wp.CausticsForceLight)
						bright := brightnessGate(luminance(rgb), wp)
						pat := causticsPattern(gen, suv, t, wp)

						c := wp.CausticsIntensity * coverage * murkDamp * edge * gate *
							bright * plan.nightVis * vig * pat * waterMask
						if c > 0 {
							rgb = mgl32.Vec3{
								minf(rgb.X()+plan.causticColor.X()*c, 1),
								minf(rgb.Y()+plan.causticColor.Y()*c, 1),
								minf(rgb.Z()+plan.causticColor.Z()*c, 1),
							}
						}
					}

					if wp.FoamEnabled && outdoorV > 0 && wp.WindSpeed > 0 {
						windFactor := smoothstep(0.05, 0.4, wp.WindSpeed)
						if windFactor > 0 {
							along, across := rotateIntoWind(suv, plan.windDir)
							la := float64(along*wp.FoamScale - wp.WindFoamPhase)
							ca := float64(across * wp.FoamScale * (1 + wp.FoamStreakiness))
							n1 := gen.Torus(la, ca, 1)
							n2 := gen.Torus(la*1.7+5.1, ca*1.3+11.7, 2)
							r := float32(noise.Ridge(n1*0.6 + n2*0.4))
							band := smoothstep(wp.FoamDepthLo, wp.FoamDepthHi, depth)
							amt := smoothstep(wp.FoamThreshold, wp.FoamThreshold+maxf(wp.FoamSoftness, 1e-3), r) *
								band * windFactor * outdoorV * waterMask
							rgb = mixVec3(rgb, wp.FoamColor, clamp01(amt))
						}
					}
				}

				if plan.debug != DebugNone {
					rgb = debugColor(plan, snap, enc, screenUV)
				}

				out.Set(x, y, mgl32.Vec4{rgb.X(), rgb.Y(), rgb.Z(), alpha})
			}
		}
	})
}

// decodeOffsetPx turns an encoded distortion texel into the pixel
// displacement: decode RG to [-1,1], scale by zoom norm and total mask
// so undistorted regions stay bit-exact, then clamp the length to the
// pixel budget. A zero mask always yields a zero offset.
func decodeOffsetPx(enc mgl32.Vec4, w, h int, zoomNorm, maxOffPx float32) mgl32.Vec2 {
	off := mgl32.Vec2{enc.X()*2 - 1, enc.Y()*2 - 1}
	off = off.Mul(zoomNorm * enc.Z())
	offPx := mgl32.Vec2{off.X() * float32(w), off.Y() * float32(h)}
	if l := offPx.Len(); l > maxOffPx {
		if maxOffPx <= 0 {
			return mgl32.Vec2{}
		}
		offPx = offPx.Mul(maxOffPx / l)
	}
	return offPx
}

// depthTaps is the 13-tap kernel: weighted center, inner cross, inner
// diagonals, outer cross.
var depthTaps = [13][3]float32{
	{0, 0, 4},
	{1, 0, 2}, {-1, 0, 2}, {0, 1, 2}, {0, -1, 2},
	{1, 1, 1}, {-1, 1, 1}, {1, -1, 1}, {-1, -1, 1},
	{2, 0, 1}, {-2, 0, 1}, {0, 2, 1}, {0, -2, 1},
}

// blurredWaterDepth blurs the water mask channel around the pixel at a
// radius driven by the edge softness, yielding a soft depth proxy.
func blurredWaterDepth(dist *texture.Half4, x, y int, softnessTexels float32) float32 {
	r := softnessTexels
	if r < 1 {
		r = 1
	}
	var sum float32
	for _, tap := range depthTaps {
		sx := clampi(x+int(tap[0]*r), 0, dist.W-1)
		sy := clampi(y+int(tap[1]*r), 0, dist.H-1)
		sum += dist.At(sx, sy).W() * tap[2]
	}
	return sum / 20
}

// shoreFactorAt is the clamped magnitude of the screen-space water
// mask gradient, high only where coverage changes quickly.
func shoreFactorAt(dist *texture.Half4, x, y int) float32 {
	l := dist.At(clampi(x-1, 0, dist.W-1), y).W()
	r := dist.At(clampi(x+1, 0, dist.W-1), y).W()
	d := dist.At(x, clampi(y-1, 0, dist.H-1)).W()
	u := dist.At(x, clampi(y+1, 0, dist.H-1)).W()
	gx := (r - l) * 0.5
	gy := (u - d) * 0.5
	return clamp01(float32(math.Sqrt(float64(gx*gx+gy*gy))) * 4)
}

func clampi(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
