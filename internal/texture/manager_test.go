package texture

import (
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func writeTestImage(t *testing.T, w, h int) string {
	t.Helper()
	tex := NewRGBA(w, h)
	tex.Fill(mgl32.Vec4{0.5, 0.5, 0.5, 1})
	path := filepath.Join(t.TempDir(), "tex.png")
	if err := WritePNG(tex, path); err != nil {
		t.Fatalf("could not write test image: %v", err)
	}
	return path
}

func TestManagerLoadCaches(t *testing.T) {
	m := NewManager()
	path := writeTestImage(t, 8, 8)

	first, err := m.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	second, err := m.Load(path)
	if err != nil {
		t.Fatalf("Second load failed: %v", err)
	}

	if first != second {
		t.Error("Second load should return the cached texture")
	}

	stats := m.GetStats()
	if stats.CacheHits != 1 {
		t.Errorf("Expected 1 cache hit, got %d", stats.CacheHits)
	}
	if stats.CacheMisses != 1 {
		t.Errorf("Expected 1 cache miss, got %d", stats.CacheMisses)
	}
}

func TestManagerLoadMissingFile(t *testing.T) {
	m := NewManager()

	if _, err := m.Load(filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Error("Loading a missing file should fail")
	}
}

func TestManagerLoadFitted(t *testing.T) {
	m := NewManager()
	path := writeTestImage(t, 16, 16)

	tex, err := m.LoadFitted(path, 4, 4)
	if err != nil {
		t.Fatalf("LoadFitted failed: %v", err)
	}

	if tex.W != 4 || tex.H != 4 {
		t.Errorf("Expected 4x4, got %dx%d", tex.W, tex.H)
	}

	full, err := m.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if full.W != 16 {
		t.Error("Fitted and full loads should be cached under different keys")
	}
}

func TestManagerRelease(t *testing.T) {
	m := NewManager()
	path := writeTestImage(t, 4, 4)

	if _, err := m.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, err := m.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	m.Release(path)
	if m.GetStats().ActiveTextures != 1 {
		t.Error("Texture should survive while references remain")
	}

	m.Release(path)
	if m.GetStats().ActiveTextures != 0 {
		t.Error("Texture should be evicted at zero references")
	}
}

func TestManagerInsert(t *testing.T) {
	m := NewManager()
	tex := NewR(4, 4)

	got := m.Insert("procedural", tex)
	if got != tex {
		t.Error("Insert should return the inserted texture")
	}

	again := m.Insert("procedural", NewR(8, 8))
	if again != tex {
		t.Error("Insert with an existing name should return the cached texture")
	}
}

func TestManagerClear(t *testing.T) {
	m := NewManager()
	m.Insert("a", NewR(2, 2))
	m.Insert("b", NewR(2, 2))

	m.Clear()

	if m.GetStats().ActiveTextures != 0 {
		t.Error("Clear should evict all textures")
	}
}

func TestPingPongSwap(t *testing.T) {
	p := NewPingPong(4, 4, 1)

	r := p.Read()
	w := p.Write()
	if r == w {
		t.Fatal("Read and Write buffers must differ")
	}

	p.Swap()
	if p.Read() != w || p.Write() != r {
		t.Error("Swap should exchange the buffers")
	}
}

func TestPingPongResize(t *testing.T) {
	p := NewPingPong(4, 4, 2)
	p.ResizeBuffer(9, 3)

	if p.Read().W != 9 || p.Write().W != 9 {
		t.Error("Both buffers should resize")
	}
}
