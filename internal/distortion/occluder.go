package distortion

import (
	"math"

	"Mirage2D/internal/scene"
)

// runOccluder rasterizes the occluder-layer meshes into the half
// resolution alpha target, cleared to zero each frame. Coverage is
// analytic: a rounded-rectangle distance field smoothed over one pixel
// at the edge, so boats and docks cut water cleanly without geometry.
func (p *Pipeline) runOccluder() {
	occ := p.occluder
	occ.Clear()

	snap := &p.snap
	if !snap.Mapping.HasViewBounds {
		return
	}
	meshes := snap.Occluders.OnLayer(scene.LayerOccluder)
	if len(meshes) == 0 {
		return
	}

	W, H := occ.W, occ.H
	b := snap.Mapping.ViewBounds
	worldW := b[2] - b[0]
	worldH := b[3] - b[1]
	if worldW <= 0 || worldH <= 0 {
		return
	}
	// Edge smoothing width: one target pixel in world units.
	edge := maxf(worldW/float32(W), worldH/float32(H)) * 0.5

	for _, m := range meshes {
		hw := m.Size.X() / 2
		hh := m.Size.Y() / 2
		if hw <= 0 || hh <= 0 {
			continue
		}
		r := minf(m.CornerRadius, minf(hw, hh))
		sin64, cos64 := math.Sincos(float64(m.Rotation))
		sn := float32(sin64)
		cs := float32(cos64)

		// Screen-space AABB of the rotated rect, padded by the edge.
		ex := hw*abs32(cs) + hh*abs32(sn) + edge*2
		ey := hw*abs32(sn) + hh*abs32(cs) + edge*2
		x0 := clampi(int((m.Center.X()-ex-b[0])/worldW*float32(W)), 0, W-1)
		x1 := clampi(int((m.Center.X()+ex-b[0])/worldW*float32(W))+1, 0, W-1)
		y0 := clampi(int((m.Center.Y()-ey-b[1])/worldH*float32(H)), 0, H-1)
		y1 := clampi(int((m.Center.Y()+ey-b[1])/worldH*float32(H))+1, 0, H-1)
		if x1 < x0 || y1 < y0 {
			continue
		}

		for y := y0; y <= y1; y++ {
			wy := b[1] + (float32(y)+0.5)/float32(H)*worldH
			for x := x0; x <= x1; x++ {
				wx := b[0] + (float32(x)+0.5)/float32(W)*worldW

				dx := wx - m.Center.X()
				dy := wy - m.Center.Y()
				lx := cs*dx + sn*dy
				ly := -sn*dx + cs*dy

				d := sdfRoundRect(lx, ly, hw, hh, r)
				cov := 1 - smoothstep(-edge, edge, d)
				if cov <= 0 {
					continue
				}
				a := clamp01(m.Alpha) * cov
				if a > occ.Channel(x, y, 0) {
					occ.SetChannel(x, y, 0, a)
				}
			}
		}
	}
}

// sdfRoundRect is the signed distance to a rounded rectangle centered
// at the origin with half extents (hw, hh) and corner radius r.
func sdfRoundRect(px, py, hw, hh, r float32) float32 {
	qx := abs32(px) - hw + r
	qy := abs32(py) - hh + r
	ax := maxf(qx, 0)
	ay := maxf(qy, 0)
	return float32(math.Sqrt(float64(ax*ax+ay*ay))) + minf(maxf(qx, qy), 0) - r
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
