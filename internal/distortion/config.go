package distortion

// Config is the pipeline-level tuning surface, round-tripped through
// JSON by hosts that persist settings.
type Config struct {
	// MaxDisplacementPx caps the displaced sample distance, in drawing
	// buffer pixels at full zoom.
	MaxDisplacementPx float32 `json:"max_displacement_px"`
	// Workers sets the pixel-loop fan-out. 0 means one band per CPU;
	// 1 forces the serial path.
	Workers int `json:"workers"`
	// Debug selects an overlay instead of the shaded output.
	Debug DebugMode `json:"debug"`
	// NoiseSeed drives every procedural field. Same seed, same frame.
	NoiseSeed int64 `json:"noise_seed"`
}

// DefaultConfig returns the shipping defaults.
func DefaultConfig() Config {
	return Config{
		MaxDisplacementPx: 20,
		Workers:           0,
		Debug:             DebugNone,
		NoiseSeed:         1337,
	}
}
