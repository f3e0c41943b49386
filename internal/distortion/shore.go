package distortion

// Shore band factors: 1 at the waterline fading to 0 toward the
// interior, used to confine shoreline micro-noise to a narrow ring.

// shoreBandSDF derives the band from water-distance data. sdf01 is the
// signed distance remapped so 0.5 sits on the boundary; exposure01 is
// 0 at the boundary rising monotonically inland. Pixels outside the
// water contribute nothing.
func shoreBandSDF(sdf01, exposure01, fadeLo, fadeHi float32) float32 {
	if sdf01 < 0.5 {
		return 0
	}
	return 1 - smoothstep(fadeLo, fadeHi, exposure01)
}

// shoreBandBlurred is the fallback without distance data: band-pass a
// small blur of the water mask so only the partial-coverage ring near
// the edge survives.
func shoreBandBlurred(blurredMask, fadeLo, fadeHi float32) float32 {
	rise := smoothstep(fadeLo, fadeHi, blurredMask)
	fall := smoothstep(fadeHi, fadeHi+(fadeHi-fadeLo), blurredMask)
	return rise - fall
}
