package distortion

import "testing"

func TestLayerOrdering(t *testing.T) {
	layers := []Layer{LayerUnderOverhead, LayerAboveGround, LayerFullScene, LayerScreenSpace}
	for i := 1; i < len(layers); i++ {
		if layers[i-1].Order() >= layers[i].Order() {
			t.Errorf("Expected %v to sort before %v", layers[i-1], layers[i])
		}
	}
}

func TestLayerRoofMasking(t *testing.T) {
	cases := []struct {
		layer Layer
		want  bool
	}{
		{LayerUnderOverhead, true},
		{LayerAboveGround, true},
		{LayerFullScene, false},
		{LayerScreenSpace, false},
	}
	for _, c := range cases {
		if got := c.layer.MaskedByRoof(); got != c.want {
			t.Errorf("%v.MaskedByRoof(): expected %v, got %v", c.layer, c.want, got)
		}
	}
}

func TestLayerAndKindNames(t *testing.T) {
	if LayerAboveGround.String() != "above_ground" {
		t.Errorf("Unexpected layer name %q", LayerAboveGround.String())
	}
	if LayerScreenSpace.String() != "screen_space" {
		t.Errorf("Unexpected layer name %q", LayerScreenSpace.String())
	}
	if KindWater.String() != "water" {
		t.Errorf("Unexpected kind name %q", KindWater.String())
	}
	if KindHeat.String() != "heat" {
		t.Errorf("Unexpected kind name %q", KindHeat.String())
	}
	if KindMagic.String() != "magic" {
		t.Errorf("Unexpected kind name %q", KindMagic.String())
	}
}

func TestPresetsAreUsable(t *testing.T) {
	presets := map[string]SourceParams{
		"calm_harbor":   CalmHarborPreset(),
		"choppy_coast":  ChoppyCoastPreset(),
		"desert_mirage": DesertMiragePreset(),
		"arcane_vortex": ArcaneVortexPreset(),
	}
	for name, p := range presets {
		if p.Intensity <= 0 {
			t.Errorf("%s: intensity must be positive, got %f", name, p.Intensity)
		}
		if p.Frequency <= 0 {
			t.Errorf("%s: frequency must be positive, got %f", name, p.Frequency)
		}
		if lo, hi := p.EdgeRange(); lo >= hi {
			t.Errorf("%s: degenerate edge range (%f,%f)", name, lo, hi)
		}
	}

	if !ChoppyCoastPreset().FoamEnabled {
		t.Error("Choppy coast should streak foam")
	}
	if CalmHarborPreset().FoamEnabled {
		t.Error("Calm harbor should not foam")
	}
}
