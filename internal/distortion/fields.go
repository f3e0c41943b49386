package distortion

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"Mirage2D/internal/noise"
)

// Displacement fields. Each evaluates the per-kind offset at a UV in
// [0,1]², already scaled by the source intensity. Outputs stay small
// (well inside [-1,1] UV units) so the half-float encoding never
// saturates.

const waterCellScale = 18.0

// waterField layers cell-jittered radial ripples over a drifting tail
// noise. Each of the 3x3 neighbor cells contributes two ripple centers
// with hashed phase, so ripple rings overlap without visible tiling.
func waterField(gen *noise.Generator, uv mgl32.Vec2, t float32, p *SourceParams) mgl32.Vec2 {
	if p.Intensity == 0 {
		return mgl32.Vec2{}
	}

	scale := float64(p.Frequency) * waterCellScale
	px := float64(uv.X()) * scale
	py := float64(uv.Y()) * scale
	cx := int32(math.Floor(px))
	cy := int32(math.Floor(py))
	speed := float64(p.Speed)
	time := float64(t)

	var ox, oy float64
	for dy := int32(-1); dy <= 1; dy++ {
		for dx := int32(-1); dx <= 1; dx++ {
			ncx, ncy := cx+dx, cy+dy
			for k := uint32(0); k < 2; k++ {
				jx, jy := gen.CellPoint(ncx, ncy, k)
				centerX := float64(ncx) + jx
				centerY := float64(ncy) + jy

				rx := px - centerX
				ry := py - centerY
				dist := math.Sqrt(rx*rx + ry*ry)
				if dist > 1.6 {
					continue
				}
				if dist < 1e-6 {
					continue
				}

				phase := gen.CellValue(ncx, ncy, k) * 2 * math.Pi
				atten := 1 - dist/1.6
				atten *= atten
				ring := math.Sin(dist*7.0-time*speed*3.2+phase) * atten

				ox += rx / dist * ring
				oy += ry / dist * ring
			}
		}
	}

	// Tail noise keeps flat areas alive between ripple rings.
	tx := gen.Simplex3(px*0.35, py*0.35, time*speed*0.25)
	ty := gen.Simplex3(px*0.35+57.3, py*0.35+19.1, time*speed*0.25+3.7)
	ox = ox*0.6 + tx*0.4
	oy = oy*0.6 + ty*0.4

	return mgl32.Vec2{
		float32(ox) * p.Intensity,
		float32(oy) * p.Intensity,
	}
}

// heatField is rising shimmer: multi-octave simplex advected upward
// along the UV y axis, with a weaker lateral component.
func heatField(gen *noise.Generator, uv mgl32.Vec2, t float32, p *SourceParams) mgl32.Vec2 {
	if p.Intensity == 0 {
		return mgl32.Vec2{}
	}

	f := float64(p.Frequency) * 8
	rise := float64(t) * float64(p.Speed) * 0.6
	x := float64(uv.X()) * f
	y := float64(uv.Y()) * f

	along := gen.SimplexFBM2(x, y-rise, 3, 0.5)
	across := gen.SimplexFBM2(x*1.7+31.4, y-rise*0.7, 3, 0.5)

	return mgl32.Vec2{
		float32(across) * 0.35 * p.Intensity,
		float32(along) * p.Intensity,
	}
}

// magicField swirls around the mask center: a tangential spiral whose
// local direction is wobbled by an fBM rotation.
func magicField(gen *noise.Generator, uv mgl32.Vec2, t float32, p *SourceParams) mgl32.Vec2 {
	if p.Intensity == 0 {
		return mgl32.Vec2{}
	}

	relX := float64(uv.X()) - 0.5
	relY := float64(uv.Y()) - 0.5
	r := math.Sqrt(relX*relX + relY*relY)
	if r < 1e-5 {
		return mgl32.Vec2{}
	}

	// Tangent of the circle through this point, stronger near center.
	tanX := -relY / r
	tanY := relX / r
	falloff := 1 / (1 + r*6)
	pulse := math.Sin(r*float64(p.Frequency)*20 - float64(t)*float64(p.Speed)*2.5)
	swirl := falloff * (0.7 + 0.3*pulse)

	angle := gen.SimplexFBM2(relX*float64(p.Frequency)*6, relY*float64(p.Frequency)*6+float64(t)*0.4, 3, 0.5) * math.Pi * 0.5
	sin, cos := math.Sincos(angle)
	rx := tanX*cos - tanY*sin
	ry := tanX*sin + tanY*cos

	return mgl32.Vec2{
		float32(rx*swirl) * p.Intensity,
		float32(ry*swirl) * p.Intensity,
	}
}

// fieldOffset dispatches on the source kind.
func fieldOffset(gen *noise.Generator, kind Kind, uv mgl32.Vec2, t float32, p *SourceParams) mgl32.Vec2 {
	switch kind {
	case KindWater:
		return waterField(gen, uv, t, p)
	case KindHeat:
		return heatField(gen, uv, t, p)
	case KindMagic:
		return magicField(gen, uv, t, p)
	}
	return mgl32.Vec2{}
}

// shoreNoiseOffset is the 2D micro-noise pushed onto shoreline pixels,
// already scaled by band strength and the pixel-to-UV conversion.
func shoreNoiseOffset(gen *noise.Generator, uv mgl32.Vec2, t float32, p *SourceParams, band, strengthUV float32) mgl32.Vec2 {
	if band <= 0 || strengthUV <= 0 {
		return mgl32.Vec2{}
	}
	f := float64(p.ShoreNoiseFrequency)
	ts := float64(t) * float64(p.ShoreNoiseSpeed)
	nx := gen.Simplex3(float64(uv.X())*f, float64(uv.Y())*f, ts)
	ny := gen.Simplex3(float64(uv.X())*f+17.1, float64(uv.Y())*f+9.3, ts+5.7)
	s := strengthUV * band
	return mgl32.Vec2{float32(nx) * s, float32(ny) * s}
}
