package texture

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	xdraw "golang.org/x/image/draw"
)

// FromImage converts a decoded image into a four-channel float texture
// with values in [0, 1].
func FromImage(img image.Image) *Texture {
	b := img.Bounds()
	t := NewRGBA(b.Dx(), b.Dy())

	for y := 0; y < t.H; y++ {
		for x := 0; x < t.W; x++ {
			r, g, bl, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			t.Set(x, y, mgl32.Vec4{
				float32(r) / 65535,
				float32(g) / 65535,
				float32(bl) / 65535,
				float32(a) / 65535,
			})
		}
	}
	return t
}

// ToRGBA64 converts the texture to a 16-bit image, clamping to [0, 1].
// Missing channels follow the At defaults.
func (t *Texture) ToRGBA64() *image.RGBA64 {
	img := image.NewRGBA64(image.Rect(0, 0, t.W, t.H))
	for y := 0; y < t.H; y++ {
		for x := 0; x < t.W; x++ {
			v := t.At(x, y)
			i := img.PixOffset(x, y)
			for c := 0; c < 4; c++ {
				u := uint16(mgl32.Clamp(v[c], 0, 1) * 65535)
				img.Pix[i+2*c] = uint8(u >> 8)
				img.Pix[i+2*c+1] = uint8(u)
			}
		}
	}
	return img
}

// Rescale resamples the texture to the given dimensions with a
// Catmull-Rom kernel. Used to fit collaborator masks to the scene
// resolution without re-authoring them.
func Rescale(src *Texture, w, h int) *Texture {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if src.W == w && src.H == h {
		return src.Clone()
	}

	in := src.ToRGBA64()
	out := image.NewRGBA64(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(out, out.Bounds(), in, in.Bounds(), xdraw.Src, nil)

	dst := New(w, h, src.C)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := out.PixOffset(x, y)
			var v mgl32.Vec4
			for c := 0; c < 4; c++ {
				u := uint16(out.Pix[i+2*c])<<8 | uint16(out.Pix[i+2*c+1])
				v[c] = float32(u) / 65535
			}
			dst.Set(x, y, v)
		}
	}
	return dst
}

// WritePNG dumps the texture to disk for debugging, clamped to 8 bits.
func WritePNG(t *Texture, path string) error {
	img := image.NewRGBA(image.Rect(0, 0, t.W, t.H))
	for y := 0; y < t.H; y++ {
		for x := 0; x < t.W; x++ {
			v := t.At(x, y)
			i := img.PixOffset(x, y)
			for c := 0; c < 4; c++ {
				img.Pix[i+c] = uint8(mgl32.Clamp(v[c], 0, 1) * 255)
			}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}
