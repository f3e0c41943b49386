package texture

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/x448/float16"
)

// Half4 is a four-channel half-float render target. The distortion map
// is written through it so offsets survive exactly the precision they
// would have in a 16F texture.
type Half4 struct {
	W, H int
	Pix  []uint16
}

// NewHalf4 creates a zeroed half-float target.
func NewHalf4(w, h int) *Half4 {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return &Half4{W: w, H: h, Pix: make([]uint16, w*h*4)}
}

// Set encodes and stores a texel.
func (t *Half4) Set(x, y int, v mgl32.Vec4) {
	i := (y*t.W + x) * 4
	t.Pix[i] = float16.Fromfloat32(v[0]).Bits()
	t.Pix[i+1] = float16.Fromfloat32(v[1]).Bits()
	t.Pix[i+2] = float16.Fromfloat32(v[2]).Bits()
	t.Pix[i+3] = float16.Fromfloat32(v[3]).Bits()
}

// At decodes the texel at (x, y).
func (t *Half4) At(x, y int) mgl32.Vec4 {
	i := (y*t.W + x) * 4
	return mgl32.Vec4{
		float16.Frombits(t.Pix[i]).Float32(),
		float16.Frombits(t.Pix[i+1]).Float32(),
		float16.Frombits(t.Pix[i+2]).Float32(),
		float16.Frombits(t.Pix[i+3]).Float32(),
	}
}

// Clear zeroes the target.
func (t *Half4) Clear() {
	for i := range t.Pix {
		t.Pix[i] = 0
	}
}

// ResizeBuffer reallocates the target in place, discarding contents.
func (t *Half4) ResizeBuffer(w, h int) {
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
	t.Pix = make([]uint16, w*h*4)
}
