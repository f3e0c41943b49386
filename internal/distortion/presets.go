package distortion

// Preset parameter bundles for common scene moods. Hosts start from
// one of these and tweak through Registry.UpdateParams.

// CalmHarborPreset is gentle sheltered water: small ripples, soft
// shore noise, no foam streaks.
func CalmHarborPreset() SourceParams {
	p := DefaultWaterParams()
	p.Intensity = 0.008
	p.Speed = 0.45
	p.WindSpeed = 0.12
	p.FoamEnabled = false
	p.ShoreNoiseStrengthPx = 1.5
	p.CausticsIntensity = 0.6
	p.TintShallow = MustHexColor("#4fa3b0")
	p.TintDeep = MustHexColor("#17505c")
	return p
}

// ChoppyCoastPreset is open wind-driven water with streaking foam.
func ChoppyCoastPreset() SourceParams {
	p := DefaultWaterParams()
	p.Intensity = 0.028
	p.Frequency = 1.4
	p.Speed = 1.3
	p.WindDirX = 0.8
	p.WindDirY = 0.6
	p.WindSpeed = 0.75
	p.FoamEnabled = true
	p.FoamThreshold = 0.6
	p.FoamStreakiness = 3.5
	p.ShoreNoiseStrengthPx = 4
	p.MurkStrength = 0.65
	p.TintShallow = MustHexColor("#38808f")
	p.TintDeep = MustHexColor("#0b323c")
	return p
}

// DesertMiragePreset is strong rising heat shimmer.
func DesertMiragePreset() SourceParams {
	p := DefaultHeatParams()
	p.Intensity = 0.012
	p.Frequency = 4.5
	p.Speed = 2.2
	p.EdgeSoftnessTexels = 20
	return p
}

// ArcaneVortexPreset is a tight magic swirl.
func ArcaneVortexPreset() SourceParams {
	p := DefaultMagicParams()
	p.Intensity = 0.035
	p.Frequency = 3.0
	p.Speed = 1.8
	p.EdgeSoftnessTexels = 4
	return p
}
