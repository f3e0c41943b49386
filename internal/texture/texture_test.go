package texture

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestNewDimensions(t *testing.T) {
	tex := New(16, 8, 4)

	if tex.W != 16 || tex.H != 8 {
		t.Errorf("Expected 16x8, got %dx%d", tex.W, tex.H)
	}
	if len(tex.Pix) != 16*8*4 {
		t.Errorf("Expected %d floats, got %d", 16*8*4, len(tex.Pix))
	}
}

func TestNewClampsChannels(t *testing.T) {
	tex := New(4, 4, 9)
	if tex.C != 4 {
		t.Errorf("Expected 4 channels, got %d", tex.C)
	}

	tex = New(4, 4, 0)
	if tex.C != 1 {
		t.Errorf("Expected 1 channel, got %d", tex.C)
	}
}

func TestSetAt(t *testing.T) {
	tex := NewRGBA(4, 4)
	want := mgl32.Vec4{0.1, 0.2, 0.3, 0.4}

	tex.Set(2, 1, want)

	if got := tex.At(2, 1); got != want {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestAtMissingChannels(t *testing.T) {
	tex := NewR(4, 4)
	tex.SetChannel(1, 1, 0, 0.75)

	got := tex.At(1, 1)
	if got[0] != 0.75 {
		t.Errorf("R channel should be 0.75, got %f", got[0])
	}
	if got[3] != 1 {
		t.Errorf("Missing alpha should read 1, got %f", got[3])
	}
	if got[1] != 0 || got[2] != 0 {
		t.Errorf("Missing color channels should read 0, got %v", got)
	}
}

func TestSamplePixelAtCenterExact(t *testing.T) {
	tex := NewRGBA(8, 8)
	want := mgl32.Vec4{0.25, 0.5, 0.75, 1}
	tex.Set(3, 5, want)

	got := tex.SamplePixel(3, 5)
	if got != want {
		t.Errorf("Integer pixel sample should be exact: want %v, got %v", want, got)
	}
}

func TestSamplePixelMidpoint(t *testing.T) {
	tex := NewR(4, 1)
	tex.SetChannel(1, 0, 0, 0.0)
	tex.SetChannel(2, 0, 0, 1.0)

	got := tex.SamplePixel(1.5, 0)
	if math.Abs(float64(got[0])-0.5) > 1e-6 {
		t.Errorf("Midpoint should blend to 0.5, got %f", got[0])
	}
}

func TestSampleClampsToEdge(t *testing.T) {
	tex := NewR(4, 4)
	tex.Fill(mgl32.Vec4{0.6, 0, 0, 0})

	for _, uv := range [][2]float32{{-1, 0.5}, {2, 0.5}, {0.5, -3}, {0.5, 4}} {
		got := tex.Sample(uv[0], uv[1])
		if math.Abs(float64(got[0])-0.6) > 1e-6 {
			t.Errorf("Clamped sample at (%f, %f) should be 0.6, got %f", uv[0], uv[1], got[0])
		}
	}
}

func TestSampleConstantTexture(t *testing.T) {
	tex := NewRGBA(7, 5)
	want := mgl32.Vec4{0.3, 0.6, 0.9, 1}
	tex.Fill(want)

	for _, uv := range [][2]float32{{0.1, 0.1}, {0.5, 0.5}, {0.93, 0.21}} {
		got := tex.Sample(uv[0], uv[1])
		for c := 0; c < 4; c++ {
			if math.Abs(float64(got[c]-want[c])) > 1e-6 {
				t.Fatalf("Constant texture sample varies at (%f, %f): %v", uv[0], uv[1], got)
			}
		}
	}
}

func TestSampleChannelMatchesSample(t *testing.T) {
	tex := NewRGBA(6, 6)
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			tex.Set(x, y, mgl32.Vec4{float32(x) / 6, float32(y) / 6, 0.5, 1})
		}
	}

	full := tex.Sample(0.37, 0.61)
	for c := 0; c < 4; c++ {
		single := tex.SampleChannel(0.37, 0.61, c)
		if math.Abs(float64(full[c]-single)) > 1e-6 {
			t.Errorf("Channel %d mismatch: %f vs %f", c, full[c], single)
		}
	}
}

func TestTexelSize(t *testing.T) {
	tex := New(10, 20, 1)
	ts := tex.TexelSize()

	if ts.X() != 0.1 {
		t.Errorf("Expected texel width 0.1, got %f", ts.X())
	}
	if ts.Y() != 0.05 {
		t.Errorf("Expected texel height 0.05, got %f", ts.Y())
	}
}

func TestCloneIndependent(t *testing.T) {
	tex := NewR(4, 4)
	tex.SetChannel(0, 0, 0, 0.5)

	c := tex.Clone()
	c.SetChannel(0, 0, 0, 0.9)

	if tex.Channel(0, 0, 0) != 0.5 {
		t.Error("Clone shares storage with original")
	}
}

func TestCopyFrom(t *testing.T) {
	src := NewR(4, 4)
	src.Fill(mgl32.Vec4{0.4, 0, 0, 0})

	dst := NewR(4, 4)
	if !dst.CopyFrom(src) {
		t.Fatal("CopyFrom rejected matching textures")
	}
	if dst.Channel(2, 2, 0) != 0.4 {
		t.Error("CopyFrom did not copy contents")
	}

	other := NewR(5, 4)
	if other.CopyFrom(src) {
		t.Error("CopyFrom should reject mismatched dimensions")
	}
}

func TestResizeBuffer(t *testing.T) {
	tex := NewRGBA(4, 4)
	tex.Fill(mgl32.Vec4{1, 1, 1, 1})

	tex.ResizeBuffer(8, 2)

	if tex.W != 8 || tex.H != 2 {
		t.Errorf("Expected 8x2 after resize, got %dx%d", tex.W, tex.H)
	}
	if tex.Channel(0, 0, 0) != 0 {
		t.Error("Resize should discard contents")
	}
}
