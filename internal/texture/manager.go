package texture

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sync"

	"Mirage2D/internal/logger"

	"go.uber.org/zap"
)

// Stats provides debugging and profiling information
type Stats struct {
	TotalTextures  int
	CacheHits      int
	CacheMisses    int
	ActiveTextures int
}

// Manager loads mask and overlay images from disk and caches the
// decoded float textures. Collaborators hand the same paths over every
// frame, so the cache is what keeps registration cheap.
type Manager struct {
	cache    map[string]*Texture // key -> decoded texture
	refCount map[string]int      // key -> reference count
	mu       sync.RWMutex
	stats    Stats
}

// NewManager creates an empty texture manager.
func NewManager() *Manager {
	logger.Init()
	return &Manager{
		cache:    make(map[string]*Texture),
		refCount: make(map[string]int),
	}
}

// Load decodes an image file into a float texture, or returns the
// cached copy. Automatically increments the reference count.
func (m *Manager) Load(path string) (*Texture, error) {
	return m.load(path, path, 0, 0)
}

// LoadFitted decodes an image file and rescales it to the given
// dimensions. Cached separately per target size.
func (m *Manager) LoadFitted(path string, w, h int) (*Texture, error) {
	key := fmt.Sprintf("%s#%dx%d", path, w, h)
	return m.load(key, path, w, h)
}

func (m *Manager) load(key, path string, w, h int) (*Texture, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t, exists := m.cache[key]; exists {
		m.refCount[key]++
		m.stats.CacheHits++

		logger.Log.Debug("Texture cache hit",
			zap.String("key", key),
			zap.Int("refCount", m.refCount[key]))

		return t, nil
	}

	m.stats.CacheMisses++

	imgFile, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer imgFile.Close()

	img, _, err := image.Decode(imgFile)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	t := FromImage(img)
	if w > 0 && h > 0 && (t.W != w || t.H != h) {
		t = Rescale(t, w, h)
	}

	m.cache[key] = t
	m.refCount[key] = 1
	m.stats.TotalTextures++
	m.stats.ActiveTextures++

	logger.Log.Info("Texture loaded and cached",
		zap.String("path", path),
		zap.Int("width", t.W),
		zap.Int("height", t.H))

	return t, nil
}

// Insert registers an in-memory texture under a name. Used for
// procedurally generated masks that still want cache semantics.
func (m *Manager) Insert(name string, t *Texture) *Texture {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cached, exists := m.cache[name]; exists {
		m.refCount[name]++
		m.stats.CacheHits++
		return cached
	}

	m.cache[name] = t
	m.refCount[name] = 1
	m.stats.TotalTextures++
	m.stats.ActiveTextures++

	logger.Log.Info("Texture inserted",
		zap.String("name", name),
		zap.Int("width", t.W),
		zap.Int("height", t.H))

	return t
}

// Release decrements a key's reference count and evicts the texture
// when it reaches zero.
func (m *Manager) Release(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	refCount, exists := m.refCount[key]
	if !exists {
		logger.Log.Warn("Attempted to release unknown texture",
			zap.String("key", key))
		return
	}

	refCount--
	m.refCount[key] = refCount

	logger.Log.Debug("Texture reference released",
		zap.String("key", key),
		zap.Int("refCount", refCount))

	if refCount <= 0 {
		delete(m.cache, key)
		delete(m.refCount, key)
		m.stats.ActiveTextures--

		logger.Log.Info("Texture evicted", zap.String("key", key))
	}
}

// GetStats returns current cache statistics.
func (m *Manager) GetStats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := m.stats
	stats.ActiveTextures = len(m.cache)
	return stats
}

// LogStats logs current cache statistics.
func (m *Manager) LogStats() {
	stats := m.GetStats()
	logger.Log.Info("Texture cache stats",
		zap.Int("totalTextures", stats.TotalTextures),
		zap.Int("activeTextures", stats.ActiveTextures),
		zap.Int("cacheHits", stats.CacheHits),
		zap.Int("cacheMisses", stats.CacheMisses))
}

// Clear evicts everything.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cache = make(map[string]*Texture)
	m.refCount = make(map[string]int)
	m.stats.ActiveTextures = 0

	logger.Log.Info("Texture cache cleared")
}
