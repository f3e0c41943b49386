// Package distortion implements the screen-space distortion
// compositor: a registry of displacement sources, a composite pass
// that folds them into a four-channel distortion map, and an apply
// pass that displaces the scene and layers the water shading cascade
// on top. An occluder pre-pass suppresses effects under opaque surface
// objects.
package distortion

import (
	"runtime"
	"sync"

	"go.uber.org/zap"

	"Mirage2D/internal/logger"
	"Mirage2D/internal/noise"
	"Mirage2D/internal/scene"
	"Mirage2D/internal/texture"
)

// Pipeline owns the render targets and runs the per-frame pass
// sequence occluder, composite, apply. It reads collaborator state
// only through the snapshot taken in Update, so mid-frame mutations
// always land on the next frame. Entry points are synchronous and meant
// to be driven from the host render loop.
type Pipeline struct {
	registry *Registry
	inputs   *scene.Inputs
	gen      *noise.Generator

	distMap  *texture.Half4
	occluder *texture.Texture

	width   int
	height  int
	workers int
	cfg     Config

	snap   scene.Snapshot
	active bool
	closed bool

	missingLogged map[string]bool
	camWarned     bool
}

// NewPipeline builds an idle pipeline reading the given collaborator
// inputs. Targets start at 1x1 and follow the first Resize.
func NewPipeline(inputs *scene.Inputs, cfg Config) *Pipeline {
	logger.Init()
	p := &Pipeline{
		registry:      NewRegistry(),
		inputs:        inputs,
		gen:           noise.NewGenerator(cfg.NoiseSeed),
		distMap:       texture.NewHalf4(1, 1),
		occluder:      texture.NewR(1, 1),
		width:         1,
		height:        1,
		workers:       cfg.Workers,
		cfg:           cfg,
		missingLogged: make(map[string]bool),
	}
	logger.Log.Info("Distortion compositor created",
		zap.Float32("maxDisplacementPx", cfg.MaxDisplacementPx),
		zap.Int64("noiseSeed", cfg.NoiseSeed))
	return p
}

// Name identifies the stage inside a post chain.
func (p *Pipeline) Name() string {
	return "distortion"
}

// Registry exposes the source registry to effect modules.
func (p *Pipeline) Registry() *Registry {
	return p.registry
}

// Active reports whether the last Render composited anything.
func (p *Pipeline) Active() bool {
	return p.active
}

// DistortionMap exposes the latest composite target for debugging.
func (p *Pipeline) DistortionMap() *texture.Half4 {
	return p.distMap
}

// OccluderAlpha exposes the latest occluder target for debugging.
func (p *Pipeline) OccluderAlpha() *texture.Texture {
	return p.occluder
}

// SetWorkers overrides the pixel-loop fan-out. 1 forces the serial
// path, which tests use for reproducible timing.
func (p *Pipeline) SetWorkers(n int) {
	p.workers = n
	p.cfg.Workers = n
}

// GetConfig returns the current tuning values.
func (p *Pipeline) GetConfig() Config {
	return p.cfg
}

// ApplyConfig replaces the tuning values. Changing the seed rebuilds
// the noise generator.
func (p *Pipeline) ApplyConfig(cfg Config) {
	if cfg.NoiseSeed != p.cfg.NoiseSeed {
		p.gen = noise.NewGenerator(cfg.NoiseSeed)
	}
	p.cfg = cfg
	p.workers = cfg.Workers
	logger.Log.Info("Distortion config applied",
		zap.Float32("maxDisplacementPx", cfg.MaxDisplacementPx),
		zap.String("debug", cfg.Debug.String()))
}

// Resize grows or shrinks the owned render targets in place. A
// degenerate size is ignored and the previous targets stay usable.
func (p *Pipeline) Resize(w, h int) {
	if p.closed {
		return
	}
	if w <= 0 || h <= 0 {
		logger.Log.Debug("Ignoring degenerate distortion resize",
			zap.Int("width", w), zap.Int("height", h))
		return
	}
	if w == p.width && h == p.height {
		return
	}
	p.width = w
	p.height = h
	p.distMap.ResizeBuffer(w, h)
	ow, oh := w/2, h/2
	if ow < 1 {
		ow = 1
	}
	if oh < 1 {
		oh = 1
	}
	p.occluder.ResizeBuffer(ow, oh)
	logger.Log.Info("Distortion targets resized",
		zap.Int("width", w), zap.Int("height", h))
}

// Update snapshots collaborator state, advances the foam phase and
// refreshes mask texel sizes. Call once per frame before Render.
func (p *Pipeline) Update() {
	p.snap = p.inputs.Snapshot()
	p.registry.IntegrateFoamPhase(p.snap.Delta)
	p.registry.RefreshTexelSizes()
	p.logMissingInputs()
}

// logMissingInputs reports degraded inputs once per occurrence so a
// waiting mask does not spam every frame.
func (p *Pipeline) logMissingInputs() {
	if !p.snap.Mapping.HasViewBounds {
		if !p.camWarned {
			logger.Log.Debug("View mapping unavailable, sampling masks in screen space")
			p.camWarned = true
		}
	} else {
		p.camWarned = false
	}

	ids := p.registry.InactiveIDs()
	still := make(map[string]bool, len(ids))
	for _, id := range ids {
		still[id] = true
		if !p.missingLogged[id] {
			logger.Log.Debug("Distortion source waiting for mask", zap.String("id", id))
			p.missingLogged[id] = true
		}
	}
	for id := range p.missingLogged {
		if !still[id] {
			delete(p.missingLogged, id)
		}
	}
}

// Render runs the frame: occluder pass, then either a straight blit
// when no source contributes or composite followed by apply. Buffers
// are explicit arguments; the pipeline adapts its targets to the input
// size so a missed resize never tears a frame.
func (p *Pipeline) Render(in, out *texture.Texture) {
	if p.closed || in == nil || out == nil {
		return
	}
	if in.W != p.width || in.H != p.height {
		p.Resize(in.W, in.H)
	}
	if out.W != in.W || out.H != in.H || out.C != in.C {
		out.ResizeBuffer(in.W, in.H)
	}

	p.runOccluder()

	srcs := p.registry.ActiveSources()
	activeNow := len(srcs) > 0
	if activeNow != p.active {
		p.active = activeNow
		logger.Log.Debug("Distortion pass state changed", zap.Bool("active", activeNow))
	}

	if !activeNow {
		p.blit(in, out)
		return
	}

	p.runComposite(srcs)
	plan := p.buildApplyPlan(srcs)
	p.runApply(in, out, &plan)
}

func (p *Pipeline) blit(in, out *texture.Texture) {
	if out.CopyFrom(in) {
		return
	}
	for y := 0; y < out.H && y < in.H; y++ {
		for x := 0; x < out.W && x < in.W; x++ {
			out.Set(x, y, in.At(x, y))
		}
	}
}

// Close drops the owned targets. The pipeline stops rendering but the
// registry stays readable for teardown bookkeeping.
func (p *Pipeline) Close() {
	if p.closed {
		return
	}
	p.closed = true
	p.distMap = nil
	p.occluder = nil
	logger.Log.Info("Distortion compositor closed")
}

// forEachRow fans the pixel loop out over horizontal bands. Rows are
// independent, so banding preserves determinism regardless of worker
// count.
func (p *Pipeline) forEachRow(h int, fn func(y0, y1 int)) {
	workers := p.workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > h {
		workers = h
	}
	if workers <= 1 {
		fn(0, h)
		return
	}

	band := (h + workers - 1) / workers
	var wg sync.WaitGroup
	for y := 0; y < h; y += band {
		y1 := y + band
		if y1 > h {
			y1 = h
		}
		wg.Add(1)
		go func(a, b int) {
			defer wg.Done()
			fn(a, b)
		}(y, y1)
	}
	wg.Wait()
}
