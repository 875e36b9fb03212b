package grid

import (
	"errors"
	"testing"

	"github.com/beetlebugorg/urbanmap/pkg/geo"
)

func TestCacheBasic(t *testing.T) {
	cache := NewCache(4)

	stats := cache.Stats()
	if stats.Entries != 0 {
		t.Errorf("expected empty cache, got %d grids", stats.Entries)
	}

	spec := Spec{Bounds: monterrey, CellSizeKm: 1.5, AlignToGlobalOrigin: true, PaddingCells: 1}

	fc, hit, err := cache.Get(spec)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if hit {
		t.Error("expected miss on first Get")
	}

	// Swapped corners describe the same grid.
	swapped := spec
	swapped.Bounds = geo.BoundingBox{
		MinLon: monterrey.MaxLon, MinLat: monterrey.MaxLat,
		MaxLon: monterrey.MinLon, MaxLat: monterrey.MinLat,
	}
	fc2, hit, err := cache.Get(swapped)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !hit {
		t.Error("expected hit for equivalent spec")
	}
	if fc2.Len() != fc.Len() {
		t.Errorf("cached grid differs: %d vs %d lines", fc2.Len(), fc.Len())
	}

	stats = cache.Stats()
	if stats.Entries != 1 || stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if stats.Lines != fc.Len() {
		t.Errorf("expected %d cached lines, got %d", fc.Len(), stats.Lines)
	}
}

func TestCacheEviction(t *testing.T) {
	cache := NewCache(2)

	specs := make([]Spec, 3)
	for i := range specs {
		specs[i] = Spec{Bounds: monterrey, CellSizeKm: float64(i + 1)}
		if _, _, err := cache.Get(specs[i]); err != nil {
			t.Fatalf("Get %d: %v", i, err)
		}
	}

	if n := cache.Stats().Entries; n != 2 {
		t.Fatalf("expected 2 grids after eviction, got %d", n)
	}

	// specs[0] was least recently used.
	if _, hit, _ := cache.Get(specs[2]); !hit {
		t.Error("expected most recent spec to be cached")
	}
	if _, hit, _ := cache.Get(specs[0]); hit {
		t.Error("expected oldest spec to be evicted")
	}
}

func TestCacheRemoveAndClear(t *testing.T) {
	cache := NewCache(0)
	a := Spec{Bounds: monterrey, CellSizeKm: 1}
	b := Spec{Bounds: monterrey, CellSizeKm: 2}

	cache.Get(a)
	cache.Get(b)
	cache.Remove(a)

	if n := cache.Stats().Entries; n != 1 {
		t.Errorf("expected 1 grid after Remove, got %d", n)
	}
	if _, hit, _ := cache.Get(b); !hit {
		t.Error("expected remaining spec to be cached")
	}

	cache.Clear()
	stats := cache.Stats()
	if stats.Entries != 0 || stats.Hits != 0 || stats.Misses != 0 {
		t.Errorf("expected empty stats after Clear, got %+v", stats)
	}
}

func TestCacheInvalidSpec(t *testing.T) {
	cache := NewCache(2)

	_, _, err := cache.Get(Spec{Bounds: monterrey, CellSizeKm: 0})
	var specErr *ErrInvalidSpec
	if !errors.As(err, &specErr) {
		t.Fatalf("expected *ErrInvalidSpec, got %v", err)
	}
	if n := cache.Stats().Entries; n != 0 {
		t.Errorf("invalid spec was cached: %d entries", n)
	}
}
