// Package texture provides the CPU texel buffers the compositor renders
// with: float32 textures with bilinear clamped sampling, a half-float
// four-channel target for the distortion map, a ping-pong pair for
// separable blurs, and a caching loader for mask images.
package texture

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Texture is a row-major float32 texel buffer with 1 to 4 channels.
// Row 0 is the top of the image; UV (0,0) addresses the center of the
// first texel of the first row at (0.5/W, 0.5/H).
type Texture struct {
	W, H int
	C    int // channel count, 1..4
	Pix  []float32
}

// New creates a zeroed texture.
func New(w, h, channels int) *Texture {
	if channels < 1 {
		channels = 1
	}
	if channels > 4 {
		channels = 4
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return &Texture{W: w, H: h, C: channels, Pix: make([]float32, w*h*channels)}
}

// NewR creates a single-channel texture.
func NewR(w, h int) *Texture {
	return New(w, h, 1)
}

// NewRGBA creates a four-channel texture.
func NewRGBA(w, h int) *Texture {
	return New(w, h, 4)
}

func (t *Texture) idx(x, y int) int {
	return (y*t.W + x) * t.C
}

// At returns the texel at (x, y). Missing channels read as zero except
// alpha, which reads as one.
func (t *Texture) At(x, y int) mgl32.Vec4 {
	i := t.idx(x, y)
	out := mgl32.Vec4{0, 0, 0, 1}
	for c := 0; c < t.C; c++ {
		out[c] = t.Pix[i+c]
	}
	return out
}

// Channel returns one channel of the texel at (x, y), with the same
// missing-channel defaults as At.
func (t *Texture) Channel(x, y, c int) float32 {
	if c >= t.C {
		if c == 3 {
			return 1
		}
		return 0
	}
	return t.Pix[t.idx(x, y)+c]
}

// Set writes the texel at (x, y), dropping channels the texture does
// not store.
func (t *Texture) Set(x, y int, v mgl32.Vec4) {
	i := t.idx(x, y)
	for c := 0; c < t.C; c++ {
		t.Pix[i+c] = v[c]
	}
}

// SetChannel writes one channel of the texel at (x, y).
func (t *Texture) SetChannel(x, y, c int, v float32) {
	if c < t.C {
		t.Pix[t.idx(x, y)+c] = v
	}
}

// Fill writes the same value to every texel.
func (t *Texture) Fill(v mgl32.Vec4) {
	for y := 0; y < t.H; y++ {
		for x := 0; x < t.W; x++ {
			t.Set(x, y, v)
		}
	}
}

// Clear zeroes every channel.
func (t *Texture) Clear() {
	for i := range t.Pix {
		t.Pix[i] = 0
	}
}

// TexelSize returns (1/W, 1/H).
func (t *Texture) TexelSize() mgl32.Vec2 {
	return mgl32.Vec2{1 / float32(t.W), 1 / float32(t.H)}
}

// SamplePixel samples bilinearly at float pixel coordinates with
// clamp-to-edge. Integer coordinates hit texel centers exactly, so
// SamplePixel(float32(x), float32(y)) returns At(x, y) bit for bit.
func (t *Texture) SamplePixel(fx, fy float32) mgl32.Vec4 {
	x0 := int(math.Floor(float64(fx)))
	y0 := int(math.Floor(float64(fy)))
	tx := fx - float32(x0)
	ty := fy - float32(y0)

	x1 := x0 + 1
	y1 := y0 + 1
	x0 = clampInt(x0, 0, t.W-1)
	x1 = clampInt(x1, 0, t.W-1)
	y0 = clampInt(y0, 0, t.H-1)
	y1 = clampInt(y1, 0, t.H-1)

	a := t.At(x0, y0)
	b := t.At(x1, y0)
	c := t.At(x0, y1)
	d := t.At(x1, y1)

	var out mgl32.Vec4
	for i := 0; i < 4; i++ {
		top := a[i] + (b[i]-a[i])*tx
		bot := c[i] + (d[i]-c[i])*tx
		out[i] = top + (bot-top)*ty
	}
	return out
}

// Sample samples bilinearly at UV coordinates with clamp-to-edge.
func (t *Texture) Sample(u, v float32) mgl32.Vec4 {
	return t.SamplePixel(u*float32(t.W)-0.5, v*float32(t.H)-0.5)
}

// SampleChannel samples one channel bilinearly at UV coordinates.
func (t *Texture) SampleChannel(u, v float32, c int) float32 {
	fx := u*float32(t.W) - 0.5
	fy := v*float32(t.H) - 0.5

	x0 := int(math.Floor(float64(fx)))
	y0 := int(math.Floor(float64(fy)))
	tx := fx - float32(x0)
	ty := fy - float32(y0)

	x1 := clampInt(x0+1, 0, t.W-1)
	y1 := clampInt(y0+1, 0, t.H-1)
	x0 = clampInt(x0, 0, t.W-1)
	y0 = clampInt(y0, 0, t.H-1)

	a := t.Channel(x0, y0, c)
	b := t.Channel(x1, y0, c)
	cc := t.Channel(x0, y1, c)
	d := t.Channel(x1, y1, c)

	top := a + (b-a)*tx
	bot := cc + (d-cc)*tx
	return top + (bot-top)*ty
}

// Clone returns a deep copy.
func (t *Texture) Clone() *Texture {
	out := &Texture{W: t.W, H: t.H, C: t.C, Pix: make([]float32, len(t.Pix))}
	copy(out.Pix, t.Pix)
	return out
}

// CopyFrom copies src into t. Dimensions and channel counts must match.
func (t *Texture) CopyFrom(src *Texture) bool {
	if t.W != src.W || t.H != src.H || t.C != src.C {
		return false
	}
	copy(t.Pix, src.Pix)
	return true
}

// ResizeBuffer reallocates the texture in place, discarding contents.
func (t *Texture) ResizeBuffer(w, h int) {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if t.W == w && t.H == h {
		return
	}
	t.W, t.H = w, h
	t.Pix = make([]float32, w*h*t.C)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
