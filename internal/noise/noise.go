// Package noise provides the procedural fields behind the distortion
// effects: gradient and simplex noise, fractal sums, ridged variants,
// seamless toroidal sampling and the cell hashing used by the ripple
// generator.
package noise

import (
	"math"
	"math/rand"
	"time"

	"github.com/aquilax/go-perlin"
)

// Gradient vectors at the edge centers of a cube, shared by the simplex
// evaluators. The even statistical distribution avoids axis bias.
var grad3 = [12][3]float64{
	{1, 1, 0}, {-1, 1, 0}, {1, -1, 0}, {-1, -1, 0},
	{1, 0, 1}, {-1, 0, 1}, {1, 0, -1}, {-1, 0, -1},
	{0, 1, 1}, {0, -1, 1}, {0, 1, -1}, {0, -1, -1},
}

// Skew factors for 2D and 3D simplex grids.
const (
	skew2   = 0.3660254037844386  // (sqrt(3)-1)/2
	unskew2 = 0.21132486540518713 // (3-sqrt(3))/6
	skew3   = 1.0 / 3.0
	unskew3 = 1.0 / 6.0
)

// Generator evaluates every noise flavor from one seeded state, so two
// generators with the same seed produce identical fields.
type Generator struct {
	perm    [512]int // permutation table, doubled for wrapping
	lattice *perlin.Perlin
	seed    int64
}

// NewGenerator creates a seeded generator.
func NewGenerator(seed int64) *Generator {
	g := &Generator{
		lattice: perlin.NewPerlin(2, 2, 2, seed),
		seed:    seed,
	}

	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < 256; i++ {
		g.perm[i] = i
	}
	for i := 255; i > 0; i-- {
		j := rng.Intn(i + 1)
		g.perm[i], g.perm[j] = g.perm[j], g.perm[i]
	}
	for i := 0; i < 256; i++ {
		g.perm[256+i] = g.perm[i]
	}
	return g
}

// DefaultGenerator creates a generator with a time-based seed.
func DefaultGenerator() *Generator {
	return NewGenerator(time.Now().UnixNano())
}

// Seed returns the seed the generator was built with.
func (g *Generator) Seed() int64 {
	return g.seed
}

// Perlin2 samples the lattice noise in 2D. Output is roughly [-1, 1].
func (g *Generator) Perlin2(x, y float64) float64 {
	return g.lattice.Noise2D(x, y)
}

// Perlin3 samples the lattice noise in 3D.
func (g *Generator) Perlin3(x, y, z float64) float64 {
	return g.lattice.Noise3D(x, y, z)
}

// FBM2 sums octaves of lattice noise with the given persistence,
// normalized back to [-1, 1].
func (g *Generator) FBM2(x, y float64, octaves int, persistence float64) float64 {
	value := 0.0
	amplitude := 1.0
	frequency := 1.0
	maxValue := 0.0

	for i := 0; i < octaves; i++ {
		value += g.Perlin2(x*frequency, y*frequency) * amplitude
		maxValue += amplitude
		amplitude *= persistence
		frequency *= 2.0
	}
	return value / maxValue
}

// SimplexFBM2 is FBM2 built on simplex noise instead of the lattice.
// Simplex has less axis-aligned structure, which reads better in the
// caustics and foam patterns.
func (g *Generator) SimplexFBM2(x, y float64, octaves int, persistence float64) float64 {
	value := 0.0
	amplitude := 1.0
	frequency := 1.0
	maxValue := 0.0

	for i := 0; i < octaves; i++ {
		value += g.Simplex2(x*frequency, y*frequency) * amplitude
		maxValue += amplitude
		amplitude *= persistence
		frequency *= 2.0
	}
	return value / maxValue
}

// Ridged2 folds simplex octaves into sharp ridges. Output is [0, 1].
func (g *Generator) Ridged2(x, y float64, octaves int, persistence float64) float64 {
	value := 0.0
	amplitude := 1.0
	frequency := 1.0
	maxValue := 0.0

	for i := 0; i < octaves; i++ {
		n := g.Simplex2(x*frequency, y*frequency)
		n = 1.0 - math.Abs(n)
		n = n * n

		value += n * amplitude
		maxValue += amplitude
		amplitude *= persistence
		frequency *= 2.0
	}
	return value / maxValue
}

// Ridge folds a single noise value into [0, 1] with a sharpened peak at
// the zero crossings of the input.
func Ridge(n float64) float64 {
	n = 1.0 - math.Abs(n)
	return n * n
}

func (g *Generator) grad2(hash int, x, y float64) float64 {
	gradient := grad3[hash%12]
	return gradient[0]*x + gradient[1]*y
}

func (g *Generator) grad3dot(hash int, x, y, z float64) float64 {
	gradient := grad3[hash%12]
	return gradient[0]*x + gradient[1]*y + gradient[2]*z
}

// Simplex2 evaluates 2D simplex noise. Output is in [-1, 1].
func (g *Generator) Simplex2(xin, yin float64) float64 {
	s := (xin + yin) * skew2
	i := math.Floor(xin + s)
	j := math.Floor(yin + s)
	t := (i + j) * unskew2
	x0 := xin - (i - t)
	y0 := yin - (j - t)

	// Which of the two triangles of the skewed cell are we in?
	var i1, j1 int
	if x0 > y0 {
		i1, j1 = 1, 0
	} else {
		i1, j1 = 0, 1
	}

	x1 := x0 - float64(i1) + unskew2
	y1 := y0 - float64(j1) + unskew2
	x2 := x0 - 1 + 2*unskew2
	y2 := y0 - 1 + 2*unskew2

	ii := int(i) & 255
	jj := int(j) & 255

	var n0, n1, n2 float64
	t0 := 0.5 - x0*x0 - y0*y0
	if t0 > 0 {
		t0 *= t0
		n0 = t0 * t0 * g.grad2(g.perm[ii+g.perm[jj]], x0, y0)
	}
	t1 := 0.5 - x1*x1 - y1*y1
	if t1 > 0 {
		t1 *= t1
		n1 = t1 * t1 * g.grad2(g.perm[ii+i1+g.perm[jj+j1]], x1, y1)
	}
	t2 := 0.5 - x2*x2 - y2*y2
	if t2 > 0 {
		t2 *= t2
		n2 = t2 * t2 * g.grad2(g.perm[ii+1+g.perm[jj+1]], x2, y2)
	}

	return 70.0 * (n0 + n1 + n2)
}

// Simplex3 evaluates 3D simplex noise. Output is in [-1, 1].
func (g *Generator) Simplex3(xin, yin, zin float64) float64 {
	s := (xin + yin + zin) * skew3
	i := math.Floor(xin + s)
	j := math.Floor(yin + s)
	k := math.Floor(zin + s)
	t := (i + j + k) * unskew3
	x0 := xin - (i - t)
	y0 := yin - (j - t)
	z0 := zin - (k - t)

	// Rank the coordinates to find the simplex we are in.
	var i1, j1, k1, i2, j2, k2 int
	if x0 >= y0 {
		switch {
		case y0 >= z0:
			i1, j1, k1, i2, j2, k2 = 1, 0, 0, 1, 1, 0
		case x0 >= z0:
			i1, j1, k1, i2, j2, k2 = 1, 0, 0, 1, 0, 1
		default:
			i1, j1, k1, i2, j2, k2 = 0, 0, 1, 1, 0, 1
		}
	} else {
		switch {
		case y0 < z0:
			i1, j1, k1, i2, j2, k2 = 0, 0, 1, 0, 1, 1
		case x0 < z0:
			i1, j1, k1, i2, j2, k2 = 0, 1, 0, 0, 1, 1
		default:
			i1, j1, k1, i2, j2, k2 = 0, 1, 0, 1, 1, 0
		}
	}

	x1 := x0 - float64(i1) + unskew3
	y1 := y0 - float64(j1) + unskew3
	z1 := z0 - float64(k1) + unskew3
	x2 := x0 - float64(i2) + 2*unskew3
	y2 := y0 - float64(j2) + 2*unskew3
	z2 := z0 - float64(k2) + 2*unskew3
	x3 := x0 - 1 + 3*unskew3
	y3 := y0 - 1 + 3*unskew3
	z3 := z0 - 1 + 3*unskew3

	ii := int(i) & 255
	jj := int(j) & 255
	kk := int(k) & 255

	var n0, n1, n2, n3 float64
	t0 := 0.6 - x0*x0 - y0*y0 - z0*z0
	if t0 > 0 {
		t0 *= t0
		n0 = t0 * t0 * g.grad3dot(g.perm[ii+g.perm[jj+g.perm[kk]]], x0, y0, z0)
	}
	t1 := 0.6 - x1*x1 - y1*y1 - z1*z1
	if t1 > 0 {
		t1 *= t1
		n1 = t1 * t1 * g.grad3dot(g.perm[ii+i1+g.perm[jj+j1+g.perm[kk+k1]]], x1, y1, z1)
	}
	t2 := 0.6 - x2*x2 - y2*y2 - z2*z2
	if t2 > 0 {
		t2 *= t2
		n2 = t2 * t2 * g.grad3dot(g.perm[ii+i2+g.perm[jj+j2+g.perm[kk+k2]]], x2, y2, z2)
	}
	t3 := 0.6 - x3*x3 - y3*y3 - z3*z3
	if t3 > 0 {
		t3 *= t3
		n3 = t3 * t3 * g.grad3dot(g.perm[ii+1+g.perm[jj+1+g.perm[kk+1]]], x3, y3, z3)
	}

	return 32.0 * (n0 + n1 + n2 + n3)
}

// Torus samples simplex noise on a circle of the given radius, making
// the result periodic in theta with period 1. The second coordinate
// stays planar. Used by the foam scroll so an ever-growing phase never
// hits a seam.
func (g *Generator) Torus(theta, v, radius float64) float64 {
	a := 2 * math.Pi * theta
	return g.Simplex3(math.Cos(a)*radius, math.Sin(a)*radius, v)
}

// cellHash mixes cell coordinates, a stream index and the seed into a
// well-distributed 32-bit value.
func (g *Generator) cellHash(cx, cy int32, k uint32) uint32 {
	h := uint32(cx)*374761393 + uint32(cy)*668265263 + k*2246822519 + uint32(g.seed)
	h = (h ^ (h >> 13)) * 1274126177
	return h ^ (h >> 16)
}

// CellPoint returns the k-th jittered point of a cell, both coordinates
// in [0, 1). Deterministic for a given generator seed.
func (g *Generator) CellPoint(cx, cy int32, k uint32) (float64, float64) {
	h1 := g.cellHash(cx, cy, 2*k)
	h2 := g.cellHash(cx, cy, 2*k+1)
	return float64(h1) / (1 << 32), float64(h2) / (1 << 32)
}

// CellValue returns a scalar in [0, 1) for a cell, useful as a per-cell
// phase offset.
func (g *Generator) CellValue(cx, cy int32, k uint32) float64 {
	return float64(g.cellHash(cx, cy, 1000+k)) / (1 << 32)
}
