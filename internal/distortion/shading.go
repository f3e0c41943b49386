package distortion

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Scalar helpers shared by the pass fragments. These mirror the GLSL
// intrinsics the shading math is written in terms of.

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func smoothstep(lo, hi, v float32) float32 {
	if hi <= lo {
		if v < lo {
			return 0
		}
		return 1
	}
	t := clamp01((v - lo) / (hi - lo))
	return t * t * (3 - 2*t)
}

func mix(a, b, t float32) float32 {
	return a + (b-a)*t
}

func mixVec3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return mgl32.Vec3{
		a.X() + (b.X()-a.X())*t,
		a.Y() + (b.Y()-a.Y())*t,
		a.Z() + (b.Z()-a.Z())*t,
	}
}

func luminance(c mgl32.Vec3) float32 {
	return 0.2126*c.X() + 0.7152*c.Y() + 0.0722*c.Z()
}

func pow32(v, e float32) float32 {
	if v <= 0 {
		return 0
	}
	return float32(math.Pow(float64(v), float64(e)))
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

// rotateIntoWind projects uv onto the wind frame, returning the
// coordinate along the wind direction and the one across it.
func rotateIntoWind(uv, windDir mgl32.Vec2) (along, across float32) {
	along = uv.X()*windDir.X() + uv.Y()*windDir.Y()
	across = -uv.X()*windDir.Y() + uv.Y()*windDir.X()
	return along, across
}

// skyVignette fades effects that read sky light near the scene UV
// border, hiding the clamped-sample seam at the map edge.
func skyVignette(suv mgl32.Vec2) float32 {
	edge := minf(minf(suv.X(), 1-suv.X()), minf(suv.Y(), 1-suv.Y()))
	return smoothstep(0, 0.04, edge)
}
