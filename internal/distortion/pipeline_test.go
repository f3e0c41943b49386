package distortion

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"Mirage2D/internal/scene"
	"Mirage2D/internal/texture"
	"Mirage2D/internal/view"
)

// testRig wires a pipeline to a straight-down camera whose view at
// zoom 1 covers the scene rect exactly, so screen UV equals scene UV
// and expected values are easy to reason about.
type testRig struct {
	inputs *scene.Inputs
	cam    *view.Camera
	pipe   *Pipeline
}

func newTestRig(w, h int) *testRig {
	inputs := scene.NewInputs()
	cam := view.NewTopDownCamera(int32(w), int32(h))
	inputs.SetCamera(cam)
	inputs.SetSceneRect(mgl32.Vec4{-512, -512, 1024, 1024}, mgl32.Vec2{1024, 1024})

	cfg := DefaultConfig()
	cfg.Workers = 1
	p := NewPipeline(inputs, cfg)
	p.Resize(w, h)
	return &testRig{inputs: inputs, cam: cam, pipe: p}
}

// stillWaterParams is a bundle with every animated and shaded feature
// off, leaving only mask plumbing.
func stillWaterParams() SourceParams {
	p := DefaultSourceParams()
	p.Intensity = 0
	return p
}

func constColor(w, h int, c mgl32.Vec4) *texture.Texture {
	t := texture.NewRGBA(w, h)
	t.Fill(c)
	return t
}

func fullMask(w, h int) *texture.Texture {
	m := texture.NewR(w, h)
	m.Fill(mgl32.Vec4{1, 0, 0, 0})
	return m
}

func checkerMask(w, h int) *texture.Texture {
	m := texture.NewR(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x/4+y/4)%2 == 0 {
				m.SetChannel(x, y, 0, 1)
			}
		}
	}
	return m
}

func halfMask(w, h int) *texture.Texture {
	m := texture.NewR(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w/2; x++ {
			m.SetChannel(x, y, 0, 1)
		}
	}
	return m
}

func rampScene(w, h int) *texture.Texture {
	t := texture.NewRGBA(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			t.Set(x, y, mgl32.Vec4{
				float32(x) / float32(w-1),
				float32(y) / float32(h-1),
				0.5,
				1,
			})
		}
	}
	return t
}

func texturesEqual(a, b *texture.Texture) bool {
	if a.W != b.W || a.H != b.H || a.C != b.C {
		return false
	}
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			return false
		}
	}
	return true
}

func TestPassThroughWithoutSources(t *testing.T) {
	rig := newTestRig(32, 32)
	in := constColor(32, 32, mgl32.Vec4{0.5, 0.5, 0.5, 1})
	out := texture.NewRGBA(32, 32)

	rig.pipe.Update()
	rig.pipe.Render(in, out)

	if !texturesEqual(in, out) {
		t.Error("Output should equal input when no source is registered")
	}
	if rig.pipe.Active() {
		t.Error("Pipeline should be idle without sources")
	}
}

func TestPassThroughWithMasklessSource(t *testing.T) {
	rig := newTestRig(32, 32)
	rig.pipe.Registry().Register("pending", KindWater, LayerAboveGround, nil, DefaultWaterParams())

	in := constColor(32, 32, mgl32.Vec4{0.25, 0.5, 0.75, 1})
	out := texture.NewRGBA(32, 32)

	rig.pipe.Update()
	rig.pipe.Render(in, out)

	if !texturesEqual(in, out) {
		t.Error("A source without a mask should not break pass-through")
	}
}

func TestPassThroughWithDisabledSource(t *testing.T) {
	rig := newTestRig(32, 32)
	rig.pipe.Registry().Register("water", KindWater, LayerAboveGround, fullMask(32, 32), DefaultWaterParams())
	if err := rig.pipe.Registry().SetEnabled("water", false); err != nil {
		t.Fatal(err)
	}

	in := constColor(32, 32, mgl32.Vec4{0.1, 0.2, 0.3, 1})
	out := texture.NewRGBA(32, 32)

	rig.pipe.Update()
	rig.pipe.Render(in, out)

	if !texturesEqual(in, out) {
		t.Error("A disabled source should not break pass-through")
	}
}

func TestStillWaterScenario(t *testing.T) {
	rig := newTestRig(64, 64)
	mask := checkerMask(64, 64)
	rig.pipe.Registry().Register("water", KindWater, LayerAboveGround, mask, stillWaterParams())

	in := constColor(64, 64, mgl32.Vec4{0.5, 0.5, 0.5, 1})
	out := texture.NewRGBA(64, 64)

	rig.pipe.Update()
	rig.pipe.Render(in, out)

	dist := rig.pipe.DistortionMap()
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			v := dist.At(x, y)
			if v.X() != 0.5 || v.Y() != 0.5 {
				t.Fatalf("Still water should encode zero offset at (%d,%d), got (%f,%f)", x, y, v.X(), v.Y())
			}
			want := mask.Channel(x, y, 0)
			if math.Abs(float64(v.Z()-want)) > 1e-3 {
				t.Fatalf("Total mask at (%d,%d): expected %f, got %f", x, y, want, v.Z())
			}
			if math.Abs(float64(v.W()-want)) > 1e-3 {
				t.Fatalf("Water mask at (%d,%d): expected %f, got %f", x, y, want, v.W())
			}
		}
	}

	if !texturesEqual(in, out) {
		t.Error("Still water with all shading off should pass the color through")
	}
}

func TestActivationToggles(t *testing.T) {
	rig := newTestRig(16, 16)
	in := constColor(16, 16, mgl32.Vec4{1, 1, 1, 1})
	out := texture.NewRGBA(16, 16)

	rig.pipe.Update()
	rig.pipe.Render(in, out)
	if rig.pipe.Active() {
		t.Fatal("Expected idle pipeline")
	}

	rig.pipe.Registry().Register("water", KindWater, LayerAboveGround, fullMask(16, 16), stillWaterParams())
	rig.pipe.Render(in, out)
	if !rig.pipe.Active() {
		t.Fatal("Expected active pipeline after registering a masked source")
	}

	rig.pipe.Registry().Unregister("water")
	rig.pipe.Render(in, out)
	if rig.pipe.Active() {
		t.Fatal("Expected idle pipeline after unregistering")
	}
}

func TestWindPhaseStability(t *testing.T) {
	rig := newTestRig(8, 8)
	p := DefaultWaterParams()
	p.FoamSpeed = 1
	rig.pipe.Registry().Register("water", KindWater, LayerAboveGround, fullMask(8, 8), p)

	dt := float32(1.0 / 60)
	var last float32
	var sum float64
	for frame := 0; frame < 120; frame++ {
		// Gust oscillating between 0.1 and 0.9 at 1 Hz.
		speed := float32(0.5 + 0.4*math.Sin(2*math.Pi*float64(frame)*float64(dt)))
		if err := rig.pipe.Registry().UpdateParams("water", func(sp *SourceParams) {
			sp.WindSpeed = speed
		}); err != nil {
			t.Fatal(err)
		}
		sum += float64(speed)

		rig.inputs.Advance(dt)
		rig.pipe.Update()

		src, _ := rig.pipe.Registry().Get("water")
		phase := src.Params.WindFoamPhase
		if phase < last {
			t.Fatalf("Foam phase decreased from %f to %f at frame %d", last, phase, frame)
		}
		last = phase
	}

	meanSpeed := float32(sum / 120)
	expected := meanSpeed * 120 * dt
	if math.Abs(float64(last-expected)) > 0.05 {
		t.Errorf("Expected phase near %f after 120 frames, got %f", expected, last)
	}
}

func TestResizeRecreatesTargets(t *testing.T) {
	rig := newTestRig(32, 32)

	rig.pipe.Resize(128, 64)
	if rig.pipe.DistortionMap().W != 128 || rig.pipe.DistortionMap().H != 64 {
		t.Errorf("Expected 128x64 distortion map, got %dx%d", rig.pipe.DistortionMap().W, rig.pipe.DistortionMap().H)
	}
	if rig.pipe.OccluderAlpha().W != 64 || rig.pipe.OccluderAlpha().H != 32 {
		t.Errorf("Expected half-res occluder target, got %dx%d", rig.pipe.OccluderAlpha().W, rig.pipe.OccluderAlpha().H)
	}

	rig.pipe.Resize(0, -4)
	if rig.pipe.DistortionMap().W != 128 {
		t.Error("Degenerate resize should keep the previous target")
	}
}

func TestRenderAdaptsToInputSize(t *testing.T) {
	rig := newTestRig(16, 16)
	in := constColor(48, 24, mgl32.Vec4{0.3, 0.3, 0.3, 1})
	out := texture.NewRGBA(1, 1)

	rig.pipe.Update()
	rig.pipe.Render(in, out)

	if out.W != 48 || out.H != 24 {
		t.Errorf("Expected output resized to 48x24, got %dx%d", out.W, out.H)
	}
	if rig.pipe.DistortionMap().W != 48 {
		t.Error("Targets should follow the input buffer size")
	}
}

func TestConfigRoundTrip(t *testing.T) {
	rig := newTestRig(8, 8)

	cfg := rig.pipe.GetConfig()
	cfg.MaxDisplacementPx = 12
	cfg.Debug = DebugMasks
	rig.pipe.ApplyConfig(cfg)

	got := rig.pipe.GetConfig()
	if got.MaxDisplacementPx != 12 {
		t.Errorf("Expected max displacement 12, got %f", got.MaxDisplacementPx)
	}
	if got.Debug != DebugMasks {
		t.Errorf("Expected debug mode masks, got %v", got.Debug)
	}
}

func TestCloseStopsRendering(t *testing.T) {
	rig := newTestRig(8, 8)
	rig.pipe.Registry().Register("water", KindWater, LayerAboveGround, fullMask(8, 8), DefaultWaterParams())

	rig.pipe.Close()

	in := constColor(8, 8, mgl32.Vec4{1, 0, 0, 1})
	out := texture.NewRGBA(8, 8)
	rig.pipe.Update()
	rig.pipe.Render(in, out)

	if out.At(4, 4).X() != 0 {
		t.Error("Closed pipeline should not write output")
	}
	if err := rig.pipe.DumpDistortionMap("ignored.png"); err == nil {
		t.Error("Dump after close should fail")
	}
}

func TestWorkerCountMatchesSerial(t *testing.T) {
	serial := newTestRig(48, 48)
	parallel := newTestRig(48, 48)
	parallel.pipe.SetWorkers(4)

	mask := checkerMask(48, 48)
	p := DefaultWaterParams()
	serial.pipe.Registry().Register("water", KindWater, LayerAboveGround, mask, p)
	parallel.pipe.Registry().Register("water", KindWater, LayerAboveGround, mask, p)

	in := rampScene(48, 48)
	outA := texture.NewRGBA(48, 48)
	outB := texture.NewRGBA(48, 48)

	serial.inputs.Advance(0.5)
	parallel.inputs.Advance(0.5)
	serial.pipe.Update()
	parallel.pipe.Update()
	serial.pipe.Render(in, outA)
	parallel.pipe.Render(in, outB)

	if !texturesEqual(outA, outB) {
		t.Error("Worker fan-out should not change the rendered image")
	}
}
