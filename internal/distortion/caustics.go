package distortion

import (
	"github.com/go-gl/mathgl/mgl32"

	"Mirage2D/internal/noise"
)

// causticsLightGate combines the outdoor and indoor light paths into
// one gate factor. Outdoors, cloud shadow progressively extinguishes
// caustics through the kill/curve pair; indoors only window light
// admits them. The two paths combine by max so mixed pixels keep the
// stronger contribution. The force flag is a debug override.
func causticsLightGate(outdoor01, cloudLit, windowBright, outdoorStrength, cloudKill, killCurve float32, force bool) float32 {
	if force {
		return 1
	}
	lit := clamp01(1 - (1-cloudLit)*clamp01(cloudKill))
	if killCurve > 0 && killCurve != 1 {
		lit = pow32(lit, killCurve)
	}
	outdoorTerm := outdoorStrength * outdoor01 * lit
	indoorTerm := (1 - outdoor01) * smoothstep(0.05, 0.25, windowBright)
	return maxf(outdoorTerm, indoorTerm)
}

// causticsPattern evaluates the animated web: two counter-drifting fBM
// layers summed, folded through a ridge transform, then pushed through
// a narrow smoothstep window whose width shrinks with sharpness.
func causticsPattern(gen *noise.Generator, suv mgl32.Vec2, t float32, p *SourceParams) float32 {
	scale := float64(p.CausticsScale)
	ts := float64(t) * float64(p.CausticsSpeed)
	x := float64(suv.X()) * scale
	y := float64(suv.Y()) * scale

	a := gen.SimplexFBM2(x+ts*0.8, y+ts*0.6, 3, 0.5)
	b := gen.SimplexFBM2(x*1.3+40.7-ts*0.7, y*1.3+17.3+ts*0.5, 3, 0.5)
	r := float32(noise.Ridge((a + b) * 0.5))

	w := 0.5 / (1 + maxf(p.CausticsSharpness, 0))
	return smoothstep(1-w, 1, r)
}

// nightVisibility mutes light-driven shading as darkness rises.
func nightVisibility(darkness, nightFade float32) float32 {
	return clamp01(1 - darkness*clamp01(nightFade))
}

// brightnessGate optionally restricts caustics to already-bright scene
// areas via a luminance threshold with softness and gamma.
func brightnessGate(lum float32, p *SourceParams) float32 {
	if !p.BrightGateEnabled {
		return 1
	}
	g := p.BrightGateGamma
	if g <= 0 {
		g = 1
	}
	v := pow32(lum, g)
	return smoothstep(p.BrightGateThreshold, p.BrightGateThreshold+maxf(p.BrightGateSoftness, 1e-3), v)
}
