package distortion

import (
	"errors"
	"sort"
	"sync"

	"go.uber.org/zap"

	"Mirage2D/internal/logger"
	"Mirage2D/internal/texture"
)

var (
	// ErrDuplicateSource is returned by RegisterStrict when the id is
	// already taken.
	ErrDuplicateSource = errors.New("distortion: duplicate source id")
	// ErrUnknownSource is returned by update operations on missing ids.
	ErrUnknownSource = errors.New("distortion: unknown source id")
)

// Registry publishes a consistent view of distortion sources to the
// composite pass. It performs no rendering. All methods are safe for
// concurrent use; callers sharing one source id must still serialize
// their own read-modify-write sequences, which the registry does not
// attempt to detect.
type Registry struct {
	mu      sync.RWMutex
	sources map[string]*Source
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	logger.Init()
	return &Registry{sources: make(map[string]*Source)}
}

// Register adds a source or atomically replaces the record under the
// same id. New sources start enabled.
func (r *Registry) Register(id string, kind Kind, layer Layer, mask *texture.Texture, params SourceParams) {
	src := &Source{
		ID:      id,
		Kind:    kind,
		Layer:   layer,
		Mask:    mask,
		Params:  params,
		Enabled: true,
	}
	refreshTexelSize(src)

	r.mu.Lock()
	_, replaced := r.sources[id]
	r.sources[id] = src
	r.mu.Unlock()

	logger.Log.Debug("Distortion source registered",
		zap.String("id", id),
		zap.String("kind", kind.String()),
		zap.String("layer", layer.String()),
		zap.Bool("replaced", replaced))
}

// RegisterStrict is Register that rejects duplicate ids.
func (r *Registry) RegisterStrict(id string, kind Kind, layer Layer, mask *texture.Texture, params SourceParams) error {
	r.mu.Lock()
	if _, exists := r.sources[id]; exists {
		r.mu.Unlock()
		return ErrDuplicateSource
	}
	src := &Source{
		ID:      id,
		Kind:    kind,
		Layer:   layer,
		Mask:    mask,
		Params:  params,
		Enabled: true,
	}
	refreshTexelSize(src)
	r.sources[id] = src
	r.mu.Unlock()
	return nil
}

// UpdateMask replaces the mask reference atomically and refreshes the
// declared texel size from the new image dimensions.
func (r *Registry) UpdateMask(id string, mask *texture.Texture) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	src, ok := r.sources[id]
	if !ok {
		return ErrUnknownSource
	}
	src.Mask = mask
	refreshTexelSize(src)
	return nil
}

// UpdateParams applies a mutation to the parameter bundle under the
// write lock. The composite pass sees either the old or the new bundle
// in full, never a torn mix.
func (r *Registry) UpdateParams(id string, apply func(*SourceParams)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	src, ok := r.sources[id]
	if !ok {
		return ErrUnknownSource
	}
	apply(&src.Params)
	return nil
}

// SetEnabled toggles the source without touching its record.
func (r *Registry) SetEnabled(id string, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	src, ok := r.sources[id]
	if !ok {
		return ErrUnknownSource
	}
	src.Enabled = enabled
	return nil
}

// Unregister removes the source. Removing an absent id is a no-op.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	_, existed := r.sources[id]
	delete(r.sources, id)
	r.mu.Unlock()

	if existed {
		logger.Log.Debug("Distortion source unregistered", zap.String("id", id))
	}
}

// Get returns a copy of the source record.
func (r *Registry) Get(id string) (Source, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	src, ok := r.sources[id]
	if !ok {
		return Source{}, false
	}
	return *src, true
}

// Len returns the number of registered sources.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sources)
}

// AnyActive reports whether at least one source would contribute this
// frame. The render pass short-circuits to a plain blit when false.
func (r *Registry) AnyActive() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, src := range r.sources {
		if src.Active() {
			return true
		}
	}
	return false
}

// ActiveSources returns value copies of every contributing source,
// ordered by layer rank then id so composition is deterministic.
func (r *Registry) ActiveSources() []Source {
	r.mu.RLock()
	out := make([]Source, 0, len(r.sources))
	for _, src := range r.sources {
		if src.Active() {
			out = append(out, *src)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Layer.Order() != out[j].Layer.Order() {
			return out[i].Layer.Order() < out[j].Layer.Order()
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// InactiveIDs returns the ids of enabled sources still waiting on a
// mask, for deduplicated missing-input logging.
func (r *Registry) InactiveIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for id, src := range r.sources {
		if src.Enabled && !src.Active() {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// IntegrateFoamPhase advances every water source's foam phase by
// windSpeed * foamSpeed * dt. Speeds are clamped at zero first, so the
// phase never decreases as gusts subside.
func (r *Registry) IntegrateFoamPhase(dt float32) {
	if dt <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, src := range r.sources {
		if src.Kind != KindWater {
			continue
		}
		speed := src.Params.WindSpeed
		if speed < 0 {
			speed = 0
		}
		rate := src.Params.FoamSpeed
		if rate < 0 {
			rate = 0
		}
		src.Params.WindFoamPhase += speed * rate * dt
	}
}

// RefreshTexelSizes recomputes every declared mask texel size from the
// mask's current dimensions. Stale sizes self-heal one frame later.
func (r *Registry) RefreshTexelSizes() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, src := range r.sources {
		refreshTexelSize(src)
	}
}

func refreshTexelSize(src *Source) {
	if src.Mask == nil {
		return
	}
	src.Params.MaskTexelSize = src.Mask.TexelSize()
}
